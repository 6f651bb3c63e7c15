package labelpmi

import (
	"fmt"

	"github.com/cognicore/labelpmi/pkg/labelpmi/config"
	"github.com/cognicore/labelpmi/pkg/labelpmi/corpus"
	"github.com/cognicore/labelpmi/pkg/labelpmi/ingest"
	"github.com/cognicore/labelpmi/pkg/labelpmi/pmi"
	"github.com/cognicore/labelpmi/pkg/labelpmi/rank"
	"github.com/cognicore/labelpmi/pkg/labelpmi/report"
)

// Result bundles the trained engine with the report built from it
type Result struct {
	Engine *pmi.Engine[string, string]
	Report report.Report
}

// NewTokenizeFunc builds the text -> words function described by cfg
func NewTokenizeFunc(cfg config.Config) (func(string) []string, error) {
	stops, err := cfg.Stopwords()
	if err != nil {
		return nil, err
	}

	tokenizer := ingest.NewTokenizer(stops)
	tokenizer.SetStemming(cfg.Stem)

	if !cfg.StripHTML {
		return tokenizer.Tokenize, nil
	}
	return func(text string) []string {
		return tokenizer.Tokenize(ingest.StripHTML(text))
	}, nil
}

// Train tokenizes docs and trains a fresh engine on them
func Train(docs []corpus.Document, cfg config.Config) (*pmi.Engine[string, string], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	tokenize, err := NewTokenizeFunc(cfg)
	if err != nil {
		return nil, err
	}

	e := pmi.New[string, string]()
	if err := e.Train(corpus.Tokenized(docs, tokenize), cfg.Smoothing); err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}
	return e, nil
}

// Analyze trains an engine on docs and ranks each label's words
func Analyze(docs []corpus.Document, cfg config.Config) (Result, error) {
	e, err := Train(docs, cfg)
	if err != nil {
		return Result{}, err
	}

	r, err := report.New().Build(e, cfg.Labels, rank.Options{
		Limit:    cfg.TopN,
		MinCount: cfg.MinCount,
		MinPMI:   cfg.MinPMI,
	})
	if err != nil {
		return Result{}, err
	}

	return Result{Engine: e, Report: r}, nil
}
