package resolver

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestVariations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		term string
		want []string
	}{
		{term: "corro", want: []string{"correr", "corror", "corroar", "corroer", "corroir", "corr", "cor"}},
		{term: "casas", want: []string{"casa", "casasr", "casasar", "casaser", "casasir", "cas"}},
		{term: "flores", want: []string{"flore", "flor", "floresr", "floresar", "floreser", "floresir"}},
		{term: "lua", want: []string{"luar", "luaar", "luaer", "luair"}},
		{term: " Canta ", want: []string{"cantar", "cantaar", "cantaer", "cantair", "cant", "can"}},
		{term: "criação", want: []string{"criaçãer", "criar", "criaçãor", "criaçãoar", "criaçãoer", "criaçãoir", "criaçã", "criaç"}},
		{term: "", want: []string{}},
		{term: "   ", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Variations(tt.term))
		})
	}
}

func TestVariations_Properties(t *testing.T) {
	t.Parallel()

	for _, term := range []string{"a", "ab", "abc", "pés", "cantaram", "ações", "bebo", "ser", "estes"} {
		got := Variations(term)
		seen := map[string]bool{}
		for _, v := range got {
			assert.GreaterOrEqual(t, utf8.RuneCountInString(v), minVariationLength, "term %q variation %q", term, v)
			assert.NotEqual(t, term, v, "term %q yields itself", term)
			assert.False(t, seen[v], "term %q yields %q twice", term, v)
			seen[v] = true
		}
	}
}

func TestVariations_NominalizationRecoversInfinitive(t *testing.T) {
	t.Parallel()

	tests := []struct {
		term string
		want string
	}{
		{term: "criação", want: "criar"},
		{term: "formação", want: "formar"},
		{term: "Organização", want: "organizar"},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			t.Parallel()
			got := Variations(tt.term)
			assert.Contains(t, got, tt.want)
			assert.NotContains(t, got, tt.want[:len(tt.want)-2]+"aar")
		})
	}
}
