package pmi

import "math"

// LogPMI returns the natural log of PMI. A label/word pair that never
// co-occurred without smoothing scores -Inf.
func (e *Engine[L, W]) LogPMI(label L, word W) (float64, error) {
	ratio, err := e.PMI(label, word)
	if err != nil {
		return 0, err
	}
	return math.Log(ratio), nil
}

// NPMI returns log-PMI normalized by -log p(label, word), giving a value in
// [-1, 1] for unsmoothed counts.
//
// NPMI(l,w) = log(p(l,w) / (p(l)p(w))) / -log p(l,w)
//
// A pair that never co-occurred scores -1. A pair with p(l,w) >= 1 (the
// whole corpus is that one pair) scores 1.
func (e *Engine[L, W]) NPMI(label L, word W) (float64, error) {
	ratio, err := e.PMI(label, word)
	if err != nil {
		return 0, err
	}

	joint := e.JointCount(label, word)
	if joint == 0 {
		return -1, nil
	}

	pJoint := joint / float64(e.numPairs)
	if pJoint >= 1 {
		return 1, nil
	}

	return math.Log(ratio) / -math.Log(pJoint), nil
}
