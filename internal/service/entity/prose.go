package entity

import (
	"fmt"
	"strings"
	"sync"

	"github.com/jdkato/prose/v2"

	"socialpulse/internal/domain/pulse"
)

// the bundled English model is decoded from gob on every NewDocument call
// unless one is passed in; tagging and chunking only read it
var (
	modelOnce    sync.Once
	defaultModel *prose.Model
	modelErr     error
)

func sharedModel() (*prose.Model, error) {
	modelOnce.Do(func() {
		doc, err := prose.NewDocument("", prose.WithSegmentation(false))
		if err != nil {
			modelErr = fmt.Errorf("entity: load prose model: %w", err)
			return
		}
		defaultModel = doc.Model
	})
	return defaultModel, modelErr
}

// recognize runs prose's tagger and named-entity chunker over text
func recognize(text string) ([]string, error) {
	model, err := sharedModel()
	if err != nil {
		return nil, err
	}

	doc, err := prose.NewDocument(text,
		prose.WithSegmentation(false),
		prose.UsingModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("entity: prose document: %w", err)
	}

	ents := doc.Entities()
	out := make([]string, 0, len(ents))
	for _, ent := range ents {
		if name := strings.TrimSpace(ent.Text); name != "" {
			out = append(out, name)
		}
	}
	return out, nil
}

// ProseExtractor finds PERSON and GPE mentions with prose's NER model. Texts
// the model fails on or finds nothing in go to the fallback extractor, which
// catches organisations and products the model does not label.
type ProseExtractor struct {
	recognize func(text string) ([]string, error)
	fallback  pulse.EntityExtractor
}

// NewProseExtractor creates an NER extractor backed by the capitalized-run
// heuristic
func NewProseExtractor() *ProseExtractor {
	return &ProseExtractor{
		recognize: recognize,
		fallback:  NewCapitalizedExtractor(),
	}
}

// Extract returns entity mentions in order of appearance, repeats included
func (e *ProseExtractor) Extract(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	ents, err := e.recognize(text)
	if err != nil || len(ents) == 0 {
		return e.fallback.Extract(text)
	}
	return ents
}
