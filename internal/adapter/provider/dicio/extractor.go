package dicio

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/heartmarshall/dicionario-backend/internal/domain"
	"github.com/heartmarshall/dicionario-backend/internal/provider"
	"github.com/heartmarshall/dicionario-backend/pkg/optional"
)

var (
	anchorSelector = cascadia.MustCompile("a[href]")

	bracketAnnotation = regexp.MustCompile(`\[[^\]]*\]`)
	leadingPunct      = regexp.MustCompile(`^[\s.,;:!?\-–—]+`)
	spaceBeforePunct  = regexp.MustCompile(`\s+([.,;:!?])`)
)

// Extractor turns a dictionary page into a provider.DraftRecord.
// It is safe for concurrent use.
type Extractor struct {
	p *compiledPatterns
}

// NewExtractor compiles the pattern table into an Extractor.
func NewExtractor(patterns Patterns) (*Extractor, error) {
	cp, err := patterns.compile()
	if err != nil {
		return nil, err
	}
	return &Extractor{p: cp}, nil
}

// Extract parses page and builds a draft for term. It returns an error
// wrapping domain.ErrNotFound when the page has no title or the title does
// not mention the term.
func (e *Extractor) Extract(page io.Reader, term string) (*provider.DraftRecord, error) {
	term = domain.NormalizeText(term)
	if term == "" {
		return nil, fmt.Errorf("dicio: empty term: %w", domain.ErrNotFound)
	}

	doc, err := html.Parse(page)
	if err != nil {
		return nil, fmt.Errorf("dicio: parse page: %v: %w", err, domain.ErrNotFound)
	}

	title := ""
	if n := e.p.title.MatchFirst(doc); n != nil {
		title = textOf(n)
	}
	if title == "" {
		return nil, fmt.Errorf("dicio: page has no title: %w", domain.ErrNotFound)
	}
	if !strings.Contains(domain.NormalizeText(title), term) {
		return nil, fmt.Errorf("dicio: title %q does not mention %q: %w", title, term, domain.ErrNotFound)
	}

	var meanings []provider.DraftMeaning
	if e.p.sectionedMarkers.MatchFirst(doc) != nil {
		meanings = e.sectioned(doc)
	} else {
		meanings = e.monolithic(doc)
	}

	synonyms, antonyms := e.relations(doc)

	return &provider.DraftRecord{
		Word:          term,
		Meanings:      optional.NonEmpty(meanings),
		Synonyms:      optional.NonEmpty(synonyms),
		Antonyms:      optional.NonEmpty(antonyms),
		Etymology:     optional.NonBlank(e.etymology(doc)),
		FamousPhrases: optional.NonEmpty(e.famousPhrases(doc)),
	}, nil
}

// sectioned handles pages that print each sense group in its own element.
// Headings carrying only a classifier pass their class on to the blocks
// that follow them.
func (e *Extractor) sectioned(doc *html.Node) []provider.DraftMeaning {
	var (
		meanings []provider.DraftMeaning
		picked   = make(map[*html.Node]bool)
		class    string
	)
	for _, block := range e.p.sectionedBlocks.MatchAll(doc) {
		if hasPickedAncestor(block, picked) {
			continue
		}
		picked[block] = true

		for _, c := range e.chunks(textOf(block), class) {
			class = c.class
			if m, ok := buildSense(c.class, c.text); ok {
				meanings = append(meanings, m)
			}
		}
	}
	return meanings
}

// monolithic handles pages that concatenate every sense into a single
// paragraph. Classifiers act as delimiters and carry forward onto the
// meaning text after them.
func (e *Extractor) monolithic(doc *html.Node) []provider.DraftMeaning {
	var text string
	for _, n := range e.p.monolithicBlocks.MatchAll(doc) {
		t := textOf(n)
		if e.p.classifier.MatchString(t) {
			text = t
			break
		}
	}
	if text == "" {
		return nil
	}
	if loc := e.p.etymologyLabel.FindStringIndex(text); loc != nil && loc[0] > 0 {
		text = text[:loc[0]]
	}

	var meanings []provider.DraftMeaning
	for _, c := range e.chunks(text, "") {
		if m, ok := buildSense(c.class, c.text); ok {
			meanings = append(meanings, m)
		}
	}

	if len(meanings) == 0 {
		if full := cleanChunk(text); full != "" {
			meanings = append(meanings, provider.DraftMeaning{
				Meaning:      full,
				PartOfSpeech: domain.PartOfSpeechPhrase.String(),
			})
		}
	}
	return meanings
}

type classifiedChunk struct {
	class string
	text  string
}

// chunks splits text at classifier matches. Each chunk carries the class
// of the closest classifier before it; text ahead of the first classifier
// keeps the inherited class.
func (e *Extractor) chunks(text, inherited string) []classifiedChunk {
	locs := e.p.classifier.FindAllStringSubmatchIndex(text, -1)

	out := make([]classifiedChunk, 0, len(locs)+1)
	class := inherited
	prev := 0
	for _, loc := range locs {
		out = append(out, classifiedChunk{class: class, text: text[prev:loc[0]]})
		class = domain.NormalizeText(text[loc[2]:loc[3]] + " " + text[loc[4]:loc[5]])
		prev = loc[1]
	}
	return append(out, classifiedChunk{class: class, text: text[prev:]})
}

// buildSense turns one meaning chunk into a draft meaning. The first
// ';'-separated candidate, cut at its first ':', is the meaning; the
// remaining candidates become examples.
func buildSense(class, text string) (provider.DraftMeaning, bool) {
	text = cleanChunk(text)
	if text == "" {
		return provider.DraftMeaning{}, false
	}

	var parts []string
	for _, s := range strings.Split(text, ";") {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return provider.DraftMeaning{}, false
	}

	meaning, _, _ := strings.Cut(parts[0], ":")
	meaning = strings.TrimSpace(meaning)
	if meaning == "" {
		return provider.DraftMeaning{}, false
	}

	examples := make([]provider.DraftExample, 0, len(parts)-1)
	for _, s := range parts[1:] {
		examples = append(examples, provider.DraftExample{Sentence: s})
	}

	return provider.DraftMeaning{
		Meaning:      meaning,
		PartOfSpeech: class,
		Examples:     optional.NonEmpty(examples),
	}, true
}

func cleanChunk(s string) string {
	s = bracketAnnotation.ReplaceAllString(s, " ")
	s = collapseSpace(s)
	s = leadingPunct.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

type relation int

const (
	relationNone relation = iota
	relationSynonym
	relationAntonym
)

// relations collects synonym and antonym links, deduplicated per category
// with case-sensitive comparison, in page order.
func (e *Extractor) relations(doc *html.Node) (synonyms, antonyms []string) {
	seenSyn := make(map[string]bool)
	seenAnt := make(map[string]bool)

	for _, a := range anchorSelector.MatchAll(doc) {
		word := textOf(a)
		if word == "" {
			continue
		}
		lw := strings.ToLower(word)
		if containsAny(lw, e.p.synonymLabels) || containsAny(lw, e.p.antonymLabels) {
			continue
		}

		switch e.classifyLink(a) {
		case relationSynonym:
			if !seenSyn[word] {
				seenSyn[word] = true
				synonyms = append(synonyms, word)
			}
		case relationAntonym:
			if !seenAnt[word] {
				seenAnt[word] = true
				antonyms = append(antonyms, word)
			}
		}
	}
	return synonyms, antonyms
}

// classifyLink decides whether a link contributes a synonym or an antonym.
// The label closest before the link decides. Inside a dedicated container
// the container kind is the fallback; elsewhere any label in the block is.
func (e *Extractor) classifyLink(a *html.Node) relation {
	container, kind := e.relationContainer(a)
	if container != nil {
		if rel := e.closestLabel(container, a); rel != relationNone {
			return rel
		}
		return kind
	}

	block := enclosingBlock(a)
	if block == nil {
		return relationNone
	}
	if rel := e.closestLabel(block, a); rel != relationNone {
		return rel
	}

	all := strings.ToLower(textOf(block))
	switch {
	case containsAny(all, e.p.antonymLabels):
		return relationAntonym
	case containsAny(all, e.p.synonymLabels):
		return relationSynonym
	}
	return relationNone
}

// relationContainer returns the nearest synonym or antonym container
// holding a.
func (e *Extractor) relationContainer(a *html.Node) (*html.Node, relation) {
	for n := a.Parent; n != nil; n = n.Parent {
		if n.Type != html.ElementNode {
			continue
		}
		if e.p.antonymContainers.Match(n) {
			return n, relationAntonym
		}
		if e.p.synonymContainers.Match(n) {
			return n, relationSynonym
		}
	}
	return nil, relationNone
}

func (e *Extractor) closestLabel(root, a *html.Node) relation {
	before := strings.ToLower(textBefore(root, a))
	si := lastIndexAny(before, e.p.synonymLabels)
	ai := lastIndexAny(before, e.p.antonymLabels)
	switch {
	case ai > si:
		return relationAntonym
	case si > ai:
		return relationSynonym
	}
	return relationNone
}

// etymology returns the first etymology block with its label and any
// "(origem ...)" annotation removed.
func (e *Extractor) etymology(doc *html.Node) string {
	for _, n := range e.p.etymologyBlocks.MatchAll(doc) {
		text := textOf(n)
		if loc := e.p.etymologyLabel.FindStringIndex(text); loc != nil {
			text = text[loc[1]:]
		}
		text = e.p.etymologyOrigin.ReplaceAllString(text, "")
		text = strings.TrimSpace(leadingPunct.ReplaceAllString(collapseSpace(text), ""))
		if text != "" {
			return text
		}
	}
	return ""
}

// famousPhrases scans the paragraphs following each quotation block.
func (e *Extractor) famousPhrases(doc *html.Node) []string {
	var (
		phrases []string
		seen    = make(map[string]bool)
	)
	for _, q := range e.p.quotationBlocks.MatchAll(doc) {
		for s := q.NextSibling; s != nil; s = s.NextSibling {
			if s.Type != html.ElementNode || s.DataAtom != atom.P {
				continue
			}
			text := textOf(s)
			if utf8.RuneCountInString(text) <= e.p.minPhraseLength || !strings.Contains(text, " ") {
				continue
			}
			if !seen[text] {
				seen[text] = true
				phrases = append(phrases, text)
			}
		}
	}
	return phrases
}

// textOf returns the visible text of n with element boundaries treated as
// whitespace and runs of whitespace collapsed.
func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.ElementNode:
			if n.DataAtom == atom.Script || n.DataAtom == atom.Style {
				return
			}
			b.WriteByte(' ')
			defer b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return spaceBeforePunct.ReplaceAllString(collapseSpace(b.String()), "$1")
}

// textBefore returns the text of root that precedes target in document order.
func textBefore(root, target *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if n == target {
			return true
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(root)
	return b.String()
}

func enclosingBlock(n *html.Node) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type != html.ElementNode {
			continue
		}
		switch p.DataAtom {
		case atom.P, atom.Li, atom.Dd, atom.Dt, atom.Td:
			return p
		}
	}
	return nil
}

func hasPickedAncestor(n *html.Node, picked map[*html.Node]bool) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if picked[p] {
			return true
		}
	}
	return false
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func containsAny(s string, subs []string) bool {
	return lastIndexAny(s, subs) >= 0
}

func lastIndexAny(s string, subs []string) int {
	best := -1
	for _, sub := range subs {
		if i := strings.LastIndex(s, sub); i > best {
			best = i
		}
	}
	return best
}
