package analyze

import (
	"fmt"

	"github.com/jdkato/prose/v2"
)

// Tagging is everything the analyzer wants from the NLP capability for one
// piece of text.
type Tagging struct {
	Nouns         []string
	Verbs         []string
	People        []string
	Organizations []string
	Numbers       []string
}

// Tagger is the external NLP capability: part-of-speech tagging plus named
// entity detection.
type Tagger interface {
	Analyze(text string) (Tagging, error)
}

// ProseTagger implements Tagger with the prose NLP toolkit.
type ProseTagger struct{}

func NewProseTagger() *ProseTagger {
	return &ProseTagger{}
}

func (t *ProseTagger) Analyze(text string) (Tagging, error) {
	doc, err := prose.NewDocument(text)
	if err != nil {
		return Tagging{}, fmt.Errorf("prose document: %w", err)
	}

	var tg Tagging
	for _, tok := range doc.Tokens() {
		switch {
		case len(tok.Tag) >= 2 && tok.Tag[:2] == "NN":
			tg.Nouns = append(tg.Nouns, tok.Text)
		case len(tok.Tag) >= 2 && tok.Tag[:2] == "VB":
			tg.Verbs = append(tg.Verbs, tok.Text)
		case tok.Tag == "CD":
			tg.Numbers = append(tg.Numbers, tok.Text)
		}
	}
	for _, ent := range doc.Entities() {
		switch ent.Label {
		case "PERSON":
			tg.People = append(tg.People, ent.Text)
		case "GPE":
			// the bundled model has no separate ORG label
			tg.Organizations = append(tg.Organizations, ent.Text)
		}
	}
	return tg, nil
}
