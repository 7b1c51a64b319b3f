package resolver

import (
	"strings"
	"unicode/utf8"

	"github.com/heartmarshall/dicionario-backend/internal/domain"
)

const minVariationLength = 3

// variationRule rewrites a term; ok is false when the rule does not apply.
type variationRule func(term string) (out string, ok bool)

func replaceSuffix(suffix, with string) variationRule {
	return func(term string) (string, bool) {
		if !strings.HasSuffix(term, suffix) {
			return "", false
		}
		return strings.TrimSuffix(term, suffix) + with, true
	}
}

func appendSuffix(suffix string) variationRule {
	return func(term string) (string, bool) { return term + suffix, true }
}

func dropRunes(n int) variationRule {
	return func(term string) (string, bool) {
		r := []rune(term)
		if len(r) <= n {
			return "", false
		}
		return string(r[:len(r)-n]), true
	}
}

// variationRules are tried in order; the order is the retry order of the
// pipeline. They aim at recovering an infinitive or a singular form.
var variationRules = []variationRule{
	replaceSuffix("o", "er"),
	replaceSuffix("a", "ar"),
	replaceSuffix("s", ""),
	replaceSuffix("es", ""),
	replaceSuffix("ação", "ar"),
	appendSuffix("r"),
	appendSuffix("ar"),
	appendSuffix("er"),
	appendSuffix("ir"),
	dropRunes(1),
	dropRunes(2),
}

// Variations returns morphological rewrites of term in retry order. Every
// candidate has at least three runes, appears once and differs from the
// normalized term.
func Variations(term string) []string {
	base := domain.NormalizeText(term)
	if base == "" {
		return []string{}
	}

	seen := map[string]bool{base: true}
	out := make([]string, 0, len(variationRules))
	for _, rule := range variationRules {
		v, ok := rule(base)
		if !ok || seen[v] || utf8.RuneCountInString(v) < minVariationLength {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
