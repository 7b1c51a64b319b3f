package dicio

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/andybalholm/cascadia"
)

// Patterns is the table of selectors and word lists that describe the
// markup of the source site. Class markers and qualifiers decide the raw
// part-of-speech assigned to each extracted meaning.
type Patterns struct {
	// ClassMarkers are grammatical-class words that open a sense ("verbo").
	ClassMarkers []string
	// Qualifiers may directly follow a class marker and refine it
	// ("transitivo direto", "masculino"). Longer entries must come first.
	Qualifiers []string

	Title            string
	SectionedMarkers string
	SectionedBlocks  string
	MonolithicBlocks string

	SynonymContainers string
	AntonymContainers string
	SynonymLabels     []string
	AntonymLabels     []string

	EtymologyBlocks string
	EtymologyLabel  string
	EtymologyOrigin string

	QuotationBlocks string
	MinPhraseLength int
}

// DefaultPatterns returns the table for dicio.com.br.
func DefaultPatterns() Patterns {
	return Patterns{
		ClassMarkers: []string{
			"substantivo", "verbo", "adjetivo", "advérbio", "pronome",
			"preposição", "conjunção", "interjeição",
		},
		Qualifiers: []string{
			"transitivo direto e indireto", "transitivo direto", "transitivo indireto",
			"bitransitivo", "intransitivo", "transitivo", "pronominal", "predicativo",
			"de ligação", "masculino e feminino", "de dois gêneros", "masculino",
			"feminino", "plural",
		},

		Title:            "h1",
		SectionedMarkers: ".meaning, .meaning-section, article.verb-article",
		SectionedBlocks:  ".meaning, .meaning-section h2, .meaning-section h3, .meaning-section p, article.verb-article p",
		MonolithicBlocks: "p",

		SynonymContainers: ".sinonimos, .synonyms",
		AntonymContainers: ".antonimos, .antonyms",
		SynonymLabels:     []string{"sinônimo", "sinonimo"},
		AntonymLabels:     []string{"antônimo", "antonimo", "contrário"},

		EtymologyBlocks: `.etimologia, .etymology, .etim, p:contains("Etimologia")`,
		EtymologyLabel:  `(?i)\betimologia\b`,
		EtymologyOrigin: `(?i)\(\s*origem[^)]*\)`,

		QuotationBlocks: `blockquote p, p:contains("Pensador")`,
		MinPhraseLength: 20,
	}
}

// compiledPatterns is the ready-to-match form of Patterns.
type compiledPatterns struct {
	classifier *regexp.Regexp

	title            cascadia.Selector
	sectionedMarkers cascadia.Selector
	sectionedBlocks  cascadia.Selector
	monolithicBlocks cascadia.Selector

	synonymContainers cascadia.Selector
	antonymContainers cascadia.Selector
	synonymLabels     []string
	antonymLabels     []string

	etymologyBlocks cascadia.Selector
	etymologyLabel  *regexp.Regexp
	etymologyOrigin *regexp.Regexp

	quotationBlocks cascadia.Selector
	minPhraseLength int
}

// compile validates the table and builds its matchers.
func (p Patterns) compile() (*compiledPatterns, error) {
	if len(p.ClassMarkers) == 0 {
		return nil, errors.New("dicio: patterns: at least one class marker required")
	}

	cp := &compiledPatterns{
		synonymLabels:   lowerAll(p.SynonymLabels),
		antonymLabels:   lowerAll(p.AntonymLabels),
		minPhraseLength: p.MinPhraseLength,
	}

	var err error
	if cp.classifier, err = regexp.Compile(classifierExpr(p.ClassMarkers, p.Qualifiers)); err != nil {
		return nil, fmt.Errorf("dicio: patterns: classifier: %w", err)
	}
	if cp.etymologyLabel, err = regexp.Compile(p.EtymologyLabel); err != nil {
		return nil, fmt.Errorf("dicio: patterns: etymology label: %w", err)
	}
	if cp.etymologyOrigin, err = regexp.Compile(p.EtymologyOrigin); err != nil {
		return nil, fmt.Errorf("dicio: patterns: etymology origin: %w", err)
	}

	selectors := []struct {
		name string
		src  string
		dst  *cascadia.Selector
	}{
		{"title", p.Title, &cp.title},
		{"sectioned markers", p.SectionedMarkers, &cp.sectionedMarkers},
		{"sectioned blocks", p.SectionedBlocks, &cp.sectionedBlocks},
		{"monolithic blocks", p.MonolithicBlocks, &cp.monolithicBlocks},
		{"synonym containers", p.SynonymContainers, &cp.synonymContainers},
		{"antonym containers", p.AntonymContainers, &cp.antonymContainers},
		{"etymology blocks", p.EtymologyBlocks, &cp.etymologyBlocks},
		{"quotation blocks", p.QuotationBlocks, &cp.quotationBlocks},
	}
	for _, s := range selectors {
		if *s.dst, err = cascadia.Compile(s.src); err != nil {
			return nil, fmt.Errorf("dicio: patterns: %s selector %q: %w", s.name, s.src, err)
		}
	}

	return cp, nil
}

// classifierExpr builds the expression that captures a class marker
// (group 1) and the qualifiers directly following it (group 2).
func classifierExpr(markers, qualifiers []string) string {
	var b strings.Builder
	b.WriteString(`(?i)\b(`)
	b.WriteString(alternation(markers))
	b.WriteString(`)\b`)
	b.WriteString(`((?:\s+(?:e\s+)?(?:`)
	if len(qualifiers) > 0 {
		b.WriteString(alternation(qualifiers))
	} else {
		b.WriteString(`$^`)
	}
	b.WriteString(`)\b)*)`)
	return b.String()
}

func alternation(words []string) string {
	quoted := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		quoted = append(quoted, strings.ReplaceAll(regexp.QuoteMeta(w), " ", `\s+`))
	}
	return strings.Join(quoted, "|")
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.ToLower(s))
	}
	return out
}
