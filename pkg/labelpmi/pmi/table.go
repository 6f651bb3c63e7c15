package pmi

// countTable is a map of real-valued counts whose missing keys read as a
// fallback value. Reads never insert.
type countTable[K comparable] struct {
	counts map[K]float64
}

func newCountTable[K comparable]() countTable[K] {
	return countTable[K]{counts: make(map[K]float64)}
}

// get returns the stored count for key, or fallback if key was never added.
func (t countTable[K]) get(key K, fallback float64) float64 {
	if v, ok := t.counts[key]; ok {
		return v
	}
	return fallback
}

// add increments key by delta, starting from base on first touch.
func (t countTable[K]) add(key K, delta, base float64) {
	v, ok := t.counts[key]
	if !ok {
		v = base
	}
	t.counts[key] = v + delta
}

func (t countTable[K]) has(key K) bool {
	_, ok := t.counts[key]
	return ok
}

func (t countTable[K]) len() int {
	return len(t.counts)
}

// keys returns a fresh slice of every stored key.
func (t countTable[K]) keys() []K {
	out := make([]K, 0, len(t.counts))
	for k := range t.counts {
		out = append(out, k)
	}
	return out
}

// sum adds up stored counts, subtracting base from each entry.
func (t countTable[K]) sum(base float64) float64 {
	total := 0.0
	for _, v := range t.counts {
		total += v - base
	}
	return total
}
