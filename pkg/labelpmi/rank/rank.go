package rank

import (
	"cmp"
	"slices"

	"github.com/cognicore/labelpmi/pkg/labelpmi/pmi"
)

// Options controls which words TopWords keeps.
type Options struct {
	Limit    int     // keep at most Limit words; 0 keeps all
	MinCount float64 // drop words whose corpus count is below this
	MinPMI   float64 // drop words whose PMI ratio is below this
}

// ScoredWord is one word's association with a label.
type ScoredWord[W any] struct {
	Word   W       `json:"word"`
	PMI    float64 `json:"pmi"`
	LogPMI float64 `json:"log_pmi"`
	NPMI   float64 `json:"npmi"`
	Count  float64 `json:"count"`
	Joint  float64 `json:"joint"`
}

// TopWords ranks the words observed with label by PMI, highest first.
// Ties are broken by joint count, then by word.
func TopWords[L comparable, W cmp.Ordered](e *pmi.Engine[L, W], label L, opts Options) ([]ScoredWord[W], error) {
	words := e.KeySet(label)
	out := make([]ScoredWord[W], 0, len(words))

	for _, w := range words {
		count := e.Count(w)
		if count < opts.MinCount {
			continue
		}

		ratio, err := e.PMI(label, w)
		if err != nil {
			return nil, err
		}
		if ratio < opts.MinPMI {
			continue
		}
		logPMI, err := e.LogPMI(label, w)
		if err != nil {
			return nil, err
		}
		npmi, err := e.NPMI(label, w)
		if err != nil {
			return nil, err
		}

		out = append(out, ScoredWord[W]{
			Word:   w,
			PMI:    ratio,
			LogPMI: logPMI,
			NPMI:   npmi,
			Count:  count,
			Joint:  e.JointCount(label, w),
		})
	}

	slices.SortFunc(out, func(a, b ScoredWord[W]) int {
		if c := cmp.Compare(b.PMI, a.PMI); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Joint, a.Joint); c != 0 {
			return c
		}
		return cmp.Compare(a.Word, b.Word)
	})

	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}
