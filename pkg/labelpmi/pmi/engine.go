package pmi

import (
	"fmt"
	"iter"
	"math"

	"github.com/cognicore/labelpmi/pkg/labelpmi/internalerr"
)

// Errors returned by Engine.
var (
	ErrInvalidState    = internalerr.ErrInvalidState
	ErrUndefinedResult = internalerr.ErrUndefinedResult
	ErrInvalidArgument = internalerr.ErrInvalidArgument
	ErrAlreadyTrained  = internalerr.ErrAlreadyTrained
)

// Engine accumulates label/word co-occurrence counts over one training pass
// and scores label/word association afterwards.
//
// An Engine is trained exactly once. Every query method is read-only, so a
// trained Engine may be shared by concurrent readers. Train itself is not
// safe for concurrent use.
type Engine[L, W comparable] struct {
	trained   bool
	smoothing float64
	labels    countTable[L]
	words     countTable[W]
	joint     map[L]countTable[W]
	numPairs  int64
}

// New creates an untrained engine.
func New[L, W comparable]() *Engine[L, W] {
	return &Engine[L, W]{}
}

// Pair is one labeled document.
type Pair[L, W comparable] struct {
	Label L
	Words []W
}

// FromPairs adapts a slice of pairs to the corpus iterator Train expects.
func FromPairs[L, W comparable](pairs []Pair[L, W]) iter.Seq2[L, []W] {
	return func(yield func(L, []W) bool) {
		for _, p := range pairs {
			if !yield(p.Label, p.Words) {
				return
			}
		}
	}
}

// Train consumes the corpus once, counting every word occurrence against its
// document label. smoothing is the baseline count of any label, word or
// label/word combination; 0 disables smoothing.
//
// Train fails with ErrInvalidArgument for a negative or non-finite smoothing
// factor and with ErrAlreadyTrained on a second call. In both cases the
// engine state is left unchanged.
func (e *Engine[L, W]) Train(corpus iter.Seq2[L, []W], smoothing float64) error {
	if e.trained {
		return ErrAlreadyTrained
	}
	if smoothing < 0 || math.IsNaN(smoothing) || math.IsInf(smoothing, 0) {
		return fmt.Errorf("smoothing factor %v: %w", smoothing, ErrInvalidArgument)
	}

	e.smoothing = smoothing
	e.labels = newCountTable[L]()
	e.words = newCountTable[W]()
	e.joint = make(map[L]countTable[W])
	e.numPairs = 0

	if corpus != nil {
		for label, document := range corpus {
			for _, word := range document {
				e.labels.add(label, 1, smoothing)
				e.words.add(word, 1, smoothing)
				sub, ok := e.joint[label]
				if !ok {
					sub = newCountTable[W]()
					e.joint[label] = sub
				}
				sub.add(word, 1, smoothing)
				e.numPairs++
			}
		}
	}

	e.trained = true
	return nil
}

// Trained reports whether Train has completed.
func (e *Engine[L, W]) Trained() bool {
	return e.trained
}

// Smoothing returns the smoothing factor passed to Train.
func (e *Engine[L, W]) Smoothing() float64 {
	return e.smoothing
}

// NumPairs returns the number of label/word occurrences seen in training.
func (e *Engine[L, W]) NumPairs() int64 {
	return e.numPairs
}

// Count returns the count of word, or the smoothing factor if it was never seen.
func (e *Engine[L, W]) Count(word W) float64 {
	return e.words.get(word, e.smoothing)
}

// LabelCount returns the occurrence-weighted count of label, or the
// smoothing factor if it was never seen.
func (e *Engine[L, W]) LabelCount(label L) float64 {
	return e.labels.get(label, e.smoothing)
}

// JointCount returns how often word occurred in documents labeled label,
// or the smoothing factor if the combination was never seen.
func (e *Engine[L, W]) JointCount(label L, word W) float64 {
	sub, ok := e.joint[label]
	if !ok {
		return e.smoothing
	}
	return sub.get(word, e.smoothing)
}

// KeySet returns the distinct words observed with label. The slice is a
// fresh copy in unspecified order; an unknown label yields an empty slice.
func (e *Engine[L, W]) KeySet(label L) []W {
	sub, ok := e.joint[label]
	if !ok {
		return []W{}
	}
	return sub.keys()
}

// Labels returns the distinct labels observed in training, in unspecified order.
func (e *Engine[L, W]) Labels() []L {
	if !e.trained {
		return []L{}
	}
	return e.labels.keys()
}

// HasLabel reports whether label was observed in training.
func (e *Engine[L, W]) HasLabel(label L) bool {
	return e.trained && e.labels.has(label)
}

// VocabularySize returns the number of distinct words observed in training.
func (e *Engine[L, W]) VocabularySize() int {
	if !e.trained {
		return 0
	}
	return e.words.len()
}

// PMI returns p(label, word) / (p(label) * p(word)).
//
// It is computed in the reduced form joint*N / (labelCount*wordCount), which
// avoids dividing each count by N separately; results may differ from the
// three-division form in the last bits.
//
// PMI fails with ErrInvalidState when no pairs were counted (untrained
// engine or empty corpus) and with ErrUndefinedResult when the marginal
// counts multiply to zero, the 0/0 case of an unseen label or word without
// smoothing.
func (e *Engine[L, W]) PMI(label L, word W) (float64, error) {
	if e.numPairs == 0 {
		return 0, fmt.Errorf("pmi with no counted pairs: %w", ErrInvalidState)
	}

	joint := e.JointCount(label, word)
	denominator := e.LabelCount(label) * e.Count(word)
	if denominator == 0 {
		return 0, fmt.Errorf("pmi(%v, %v) is 0/0: %w", label, word, ErrUndefinedResult)
	}

	return joint * float64(e.numPairs) / denominator, nil
}
