package store

import (
	"context"

	"github.com/cognicore/labelpmi/pkg/labelpmi/corpus"
	"github.com/cognicore/labelpmi/pkg/labelpmi/rank"
	"github.com/cognicore/labelpmi/pkg/labelpmi/report"
)

// Store holds labeled training documents and the reports scored from them.
// It never holds engine state: engines are always rebuilt from documents.
type Store interface {
	Close() error

	// Corpus
	AddDocuments(ctx context.Context, docs []corpus.Document) error
	Documents(ctx context.Context) ([]corpus.Document, error)

	// Reports
	SaveReport(ctx context.Context, r report.Report) error
	ReportWords(ctx context.Context, reportID, label string) ([]rank.ScoredWord[string], error)
}
