package report

import (
	"crypto/rand"
	"fmt"
	"sort"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/labelpmi/pkg/labelpmi/pmi"
	"github.com/cognicore/labelpmi/pkg/labelpmi/rank"
)

// Builder constructs PMI reports from a trained engine
type Builder struct {
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

// New creates a new report builder
func New() *Builder {
	return &Builder{
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}
}

// Report is the ranked association summary of one training run
type Report struct {
	ID             string    `json:"id"`
	GeneratedAt    time.Time `json:"generated_at"`
	Smoothing      float64   `json:"smoothing"`
	NumPairs       int64     `json:"num_pairs"`
	VocabularySize int       `json:"vocabulary_size"`
	Labels         []Card    `json:"labels"`
}

// Card holds the top words of a single label
type Card struct {
	Label      string                    `json:"label"`
	LabelCount float64                   `json:"label_count"`
	Vocabulary int                       `json:"vocabulary"`
	Words      []rank.ScoredWord[string] `json:"words"`
}

// Build ranks the words of each label. With no labels given every label
// seen in training is reported, sorted by name.
func (b *Builder) Build(e *pmi.Engine[string, string], labels []string, opts rank.Options) (Report, error) {
	if !e.Trained() {
		return Report{}, fmt.Errorf("build report: %w", pmi.ErrInvalidState)
	}

	if len(labels) == 0 {
		labels = e.Labels()
		sort.Strings(labels)
	}

	now := b.now()
	r := Report{
		ID:             ulid.MustNew(ulid.Timestamp(now), b.entropy).String(),
		GeneratedAt:    now.UTC(),
		Smoothing:      e.Smoothing(),
		NumPairs:       e.NumPairs(),
		VocabularySize: e.VocabularySize(),
		Labels:         make([]Card, 0, len(labels)),
	}

	for _, label := range labels {
		words, err := rank.TopWords(e, label, opts)
		if err != nil {
			return Report{}, fmt.Errorf("rank label %s: %w", label, err)
		}
		r.Labels = append(r.Labels, Card{
			Label:      label,
			LabelCount: e.LabelCount(label),
			Vocabulary: len(e.KeySet(label)),
			Words:      words,
		})
	}

	return r, nil
}

// Card returns the card for label, if the report has one.
func (r Report) Card(label string) (Card, bool) {
	for _, c := range r.Labels {
		if c.Label == label {
			return c, true
		}
	}
	return Card{}, false
}
