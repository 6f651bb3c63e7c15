package pmi

import (
	"errors"
	"iter"
	"math"
	"sync"
	"testing"
)

func sentimentCorpus() iter.Seq2[string, []string] {
	return FromPairs([]Pair[string, string]{
		{Label: "pos", Words: []string{"good", "great"}},
		{Label: "neg", Words: []string{"bad", "terrible"}},
	})
}

func trainedEngine(t *testing.T, corpus iter.Seq2[string, []string], smoothing float64) *Engine[string, string] {
	t.Helper()
	e := New[string, string]()
	if err := e.Train(corpus, smoothing); err != nil {
		t.Fatalf("Train failed: %v", err)
	}
	return e
}

func wordSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

func TestEngineSentimentScenario(t *testing.T) {
	e := trainedEngine(t, sentimentCorpus(), 0)

	if e.NumPairs() != 4 {
		t.Errorf("Expected 4 pairs, got %d", e.NumPairs())
	}
	if e.LabelCount("pos") != 2 {
		t.Errorf("Expected label count 2 for pos, got %f", e.LabelCount("pos"))
	}
	if e.Count("good") != 1 {
		t.Errorf("Expected count 1 for good, got %f", e.Count("good"))
	}
	if e.JointCount("pos", "good") != 1 {
		t.Errorf("Expected joint count 1, got %f", e.JointCount("pos", "good"))
	}

	pmi, err := e.PMI("pos", "good")
	if err != nil {
		t.Fatalf("PMI failed: %v", err)
	}
	if pmi != 2.0 {
		t.Errorf("Expected PMI 2.0, got %f", pmi)
	}
}

func TestEngineNumPairsMatchesOccurrences(t *testing.T) {
	pairs := []Pair[string, string]{
		{Label: "a", Words: []string{"x", "y", "x"}},
		{Label: "b", Words: []string{}},
		{Label: "a", Words: []string{"z"}},
		{Label: "c", Words: []string{"x", "x", "x", "y"}},
	}
	e := trainedEngine(t, FromPairs(pairs), 0)

	want := 0
	for _, p := range pairs {
		want += len(p.Words)
	}
	if e.NumPairs() != int64(want) {
		t.Errorf("Expected %d pairs, got %d", want, e.NumPairs())
	}

	if e.Count("x") != 5 {
		t.Errorf("Expected x counted 5 times across labels, got %f", e.Count("x"))
	}
	// Label counts are occurrence-weighted, not document counts.
	if e.LabelCount("a") != 4 {
		t.Errorf("Expected label a count 4, got %f", e.LabelCount("a"))
	}
}

func TestEngineMarginalsSumToNumPairs(t *testing.T) {
	e := trainedEngine(t, FromPairs([]Pair[string, string]{
		{Label: "sport", Words: []string{"ball", "goal", "ball"}},
		{Label: "politics", Words: []string{"vote", "ball"}},
		{Label: "sport", Words: []string{"team"}},
	}), 0)

	labelSum := 0.0
	for _, l := range e.Labels() {
		labelSum += e.LabelCount(l)
	}
	wordSum := 0.0
	for _, l := range e.Labels() {
		for _, w := range e.KeySet(l) {
			wordSum += e.JointCount(l, w)
		}
	}

	if labelSum != float64(e.NumPairs()) {
		t.Errorf("Label counts sum to %f, expected %d", labelSum, e.NumPairs())
	}
	if wordSum != float64(e.NumPairs()) {
		t.Errorf("Joint counts sum to %f, expected %d", wordSum, e.NumPairs())
	}
	if e.words.sum(0) != float64(e.NumPairs()) {
		t.Errorf("Word counts sum to %f, expected %d", e.words.sum(0), e.NumPairs())
	}
}

func TestEngineJointSumsMatchLabelCount(t *testing.T) {
	testCases := []struct {
		name      string
		smoothing float64
	}{
		{"unsmoothed", 0},
		{"half", 0.5},
		{"laplace", 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e := trainedEngine(t, FromPairs([]Pair[string, string]{
				{Label: "x", Words: []string{"a", "b", "a"}},
				{Label: "y", Words: []string{"b", "c"}},
				{Label: "x", Words: []string{"c"}},
			}), tc.smoothing)

			for _, l := range e.Labels() {
				sum := 0.0
				for _, w := range e.KeySet(l) {
					sum += e.JointCount(l, w) - tc.smoothing
				}
				got := e.LabelCount(l) - tc.smoothing
				if math.Abs(sum-got) > 1e-9 {
					t.Errorf("Label %s: joint sum %f != label count %f", l, sum, got)
				}
			}
		})
	}
}

func TestEngineKeySet(t *testing.T) {
	e := trainedEngine(t, FromPairs([]Pair[string, string]{
		{Label: "pos", Words: []string{"good", "great", "good"}},
		{Label: "neg", Words: []string{"bad"}},
		{Label: "pos", Words: []string{"fine"}},
	}), 0)

	got := e.KeySet("pos")
	if len(got) != 3 {
		t.Fatalf("Expected 3 distinct words for pos, got %d: %v", len(got), got)
	}
	set := wordSet(got)
	for _, w := range []string{"good", "great", "fine"} {
		if !set[w] {
			t.Errorf("Expected %q in key set", w)
		}
	}
	if set["bad"] {
		t.Error("Word from another label leaked into key set")
	}

	again := wordSet(e.KeySet("pos"))
	if len(again) != len(set) {
		t.Errorf("Repeated KeySet returned %d words, expected %d", len(again), len(set))
	}
	for w := range set {
		if !again[w] {
			t.Errorf("Repeated KeySet lost %q", w)
		}
	}
}

func TestEngineKeySetUnknownLabelDoesNotRegister(t *testing.T) {
	e := trainedEngine(t, sentimentCorpus(), 0)

	if got := e.KeySet("unknown_label"); len(got) != 0 {
		t.Errorf("Expected empty key set, got %v", got)
	}
	if got := e.KeySet("unknown_label"); len(got) != 0 {
		t.Errorf("Expected key set to stay empty, got %v", got)
	}
	if e.HasLabel("unknown_label") {
		t.Error("KeySet registered an unknown label")
	}
	if len(e.Labels()) != 2 {
		t.Errorf("Expected 2 labels, got %d", len(e.Labels()))
	}
}

func TestEngineKeySetReturnsCopy(t *testing.T) {
	e := trainedEngine(t, sentimentCorpus(), 0)

	words := e.KeySet("pos")
	for i := range words {
		words[i] = "mutated"
	}
	if wordSet(e.KeySet("pos"))["mutated"] {
		t.Error("Mutating the returned key set changed engine state")
	}
}

func TestEngineQueriesDoNotMutate(t *testing.T) {
	e := trainedEngine(t, sentimentCorpus(), 0.5)

	_ = e.Count("never")
	_ = e.LabelCount("ghost")
	_ = e.JointCount("ghost", "never")
	_, _ = e.PMI("ghost", "never")
	_, _ = e.NPMI("pos", "never")

	if e.VocabularySize() != 4 {
		t.Errorf("Expected vocabulary of 4, got %d", e.VocabularySize())
	}
	if e.HasLabel("ghost") {
		t.Error("Query registered label ghost")
	}
	if len(e.KeySet("pos")) != 2 {
		t.Errorf("Expected pos key set to stay at 2 words, got %v", e.KeySet("pos"))
	}
	if _, ok := e.joint["ghost"]; ok {
		t.Error("Query created a joint sub-table")
	}
}

func TestEngineCountSmoothing(t *testing.T) {
	corpus := FromPairs([]Pair[string, string]{
		{Label: "a", Words: []string{"w", "w"}},
		{Label: "b", Words: []string{"w"}},
	})

	e := trainedEngine(t, corpus, 0.5)
	if e.Count("unseen") != 0.5 {
		t.Errorf("Expected unseen word count 0.5, got %f", e.Count("unseen"))
	}
	if e.Count("w") != 3.5 {
		t.Errorf("Expected 3 + 0.5 smoothing, got %f", e.Count("w"))
	}

	plain := trainedEngine(t, corpus, 0)
	if plain.Count("w") != 3.0 {
		t.Errorf("Expected count 3.0, got %f", plain.Count("w"))
	}
	if plain.Count("unseen") != 0 {
		t.Errorf("Expected unseen count 0, got %f", plain.Count("unseen"))
	}
}

func TestEngineSmoothingDoesNotAffectNumPairs(t *testing.T) {
	e := trainedEngine(t, sentimentCorpus(), 2.0)

	if e.NumPairs() != 4 {
		t.Errorf("Expected 4 pairs regardless of smoothing, got %d", e.NumPairs())
	}
	if e.LabelCount("pos") != 4.0 {
		t.Errorf("Expected 2 + 2.0 baseline, got %f", e.LabelCount("pos"))
	}
	if e.JointCount("pos", "bad") != 2.0 {
		t.Errorf("Expected unseen joint to read as baseline, got %f", e.JointCount("pos", "bad"))
	}
}

func TestEnginePMIMonotonic(t *testing.T) {
	e := trainedEngine(t, FromPairs([]Pair[string, string]{
		{Label: "x", Words: []string{"w1", "w1", "w2"}},
		{Label: "y", Words: []string{"w2", "w2", "w1"}},
	}), 0)

	if e.Count("w1") != e.Count("w2") {
		t.Fatalf("Fixture needs equal totals, got %f and %f", e.Count("w1"), e.Count("w2"))
	}

	p1, err := e.PMI("x", "w1")
	if err != nil {
		t.Fatal(err)
	}
	p2, err := e.PMI("x", "w2")
	if err != nil {
		t.Fatal(err)
	}
	if p1 <= p2 {
		t.Errorf("Expected PMI(x,w1)=%f > PMI(x,w2)=%f", p1, p2)
	}
}

func TestEnginePMIUntrained(t *testing.T) {
	e := New[string, string]()

	_, err := e.PMI("pos", "good")
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("Expected ErrInvalidState, got %v", err)
	}
}

func TestEnginePMIEmptyCorpus(t *testing.T) {
	testCases := []struct {
		name   string
		corpus iter.Seq2[string, []string]
	}{
		{"nil", nil},
		{"no pairs", FromPairs[string, string](nil)},
		{"empty documents", FromPairs([]Pair[string, string]{{Label: "a"}, {Label: "b", Words: []string{}}})},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e := trainedEngine(t, tc.corpus, 1.0)
			if !e.Trained() {
				t.Error("Engine should be trained after an empty corpus")
			}
			_, err := e.PMI("a", "w")
			if !errors.Is(err, ErrInvalidState) {
				t.Errorf("Expected ErrInvalidState, got %v", err)
			}
			if len(e.KeySet("a")) != 0 {
				t.Error("Empty document should not register words")
			}
		})
	}
}

func TestEnginePMIUndefined(t *testing.T) {
	e := trainedEngine(t, sentimentCorpus(), 0)

	testCases := []struct {
		label, word string
	}{
		{"unknown", "unseen"},
		{"pos", "unseen"},
		{"unknown", "good"},
	}
	for _, tc := range testCases {
		_, err := e.PMI(tc.label, tc.word)
		if !errors.Is(err, ErrUndefinedResult) {
			t.Errorf("PMI(%s,%s): expected ErrUndefinedResult, got %v", tc.label, tc.word, err)
		}
	}
}

func TestEnginePMINeverCooccurred(t *testing.T) {
	e := trainedEngine(t, sentimentCorpus(), 0)

	pmi, err := e.PMI("pos", "bad")
	if err != nil {
		t.Fatalf("PMI failed: %v", err)
	}
	if pmi != 0 {
		t.Errorf("Expected PMI 0 for words never seen with the label, got %f", pmi)
	}
}

func TestEnginePMISmoothedUnseen(t *testing.T) {
	e := trainedEngine(t, sentimentCorpus(), 1.0)

	// joint=1, label=1, word=1, N=4
	pmi, err := e.PMI("unknown", "unseen")
	if err != nil {
		t.Fatalf("Smoothing should make unseen PMI defined: %v", err)
	}
	if pmi != 4.0 {
		t.Errorf("Expected PMI 4.0, got %f", pmi)
	}
}

func TestEnginePMIMatchesThreeDivisionForm(t *testing.T) {
	e := trainedEngine(t, FromPairs([]Pair[string, string]{
		{Label: "a", Words: []string{"p", "q", "r", "p"}},
		{Label: "b", Words: []string{"q", "q", "s"}},
		{Label: "c", Words: []string{"p", "s", "t"}},
	}), 0.25)

	n := float64(e.NumPairs())
	for _, l := range []string{"a", "b", "c"} {
		for _, w := range []string{"p", "q", "r", "s", "t"} {
			got, err := e.PMI(l, w)
			if err != nil {
				t.Fatal(err)
			}
			want := (e.JointCount(l, w) / n) / ((e.LabelCount(l) / n) * (e.Count(w) / n))
			if math.Abs(got-want) > 1e-12*math.Max(1, want) {
				t.Errorf("PMI(%s,%s)=%v, three-division form %v", l, w, got, want)
			}
		}
	}
}

func TestEngineNegativeSmoothingRejected(t *testing.T) {
	e := New[string, string]()

	for _, s := range []float64{-0.5, math.NaN(), math.Inf(1)} {
		err := e.Train(sentimentCorpus(), s)
		if !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("Smoothing %v: expected ErrInvalidArgument, got %v", s, err)
		}
	}
	if e.Trained() {
		t.Fatal("Rejected Train should leave the engine untrained")
	}

	if err := e.Train(sentimentCorpus(), 0); err != nil {
		t.Fatalf("Valid Train after rejection failed: %v", err)
	}
	if e.NumPairs() != 4 {
		t.Errorf("Expected 4 pairs, got %d", e.NumPairs())
	}
}

func TestEngineRetrainRejected(t *testing.T) {
	e := trainedEngine(t, sentimentCorpus(), 0)

	err := e.Train(FromPairs([]Pair[string, string]{{Label: "z", Words: []string{"q"}}}), 0)
	if !errors.Is(err, ErrAlreadyTrained) {
		t.Errorf("Expected ErrAlreadyTrained, got %v", err)
	}
	if !errors.Is(err, ErrInvalidState) {
		t.Error("ErrAlreadyTrained should also match ErrInvalidState")
	}
	if e.NumPairs() != 4 || e.HasLabel("z") {
		t.Error("Rejected retrain modified engine state")
	}
}

func TestEngineConsumesCorpusOnce(t *testing.T) {
	calls := 0
	corpus := func(yield func(string, []string) bool) {
		calls++
		yield("a", []string{"x", "y"})
	}

	e := trainedEngine(t, corpus, 0)
	if calls != 1 {
		t.Errorf("Expected corpus iterated once, got %d", calls)
	}
	if e.NumPairs() != 2 {
		t.Errorf("Expected 2 pairs, got %d", e.NumPairs())
	}
}

func TestEngineDoesNotMutateCorpus(t *testing.T) {
	pairs := []Pair[string, string]{{Label: "a", Words: []string{"x", "y"}}}
	trainedEngine(t, FromPairs(pairs), 0)

	if len(pairs[0].Words) != 2 || pairs[0].Words[0] != "x" || pairs[0].Words[1] != "y" {
		t.Errorf("Corpus was modified: %v", pairs)
	}
}

func TestEngineNonStringKeys(t *testing.T) {
	e := New[int, rune]()
	err := e.Train(FromPairs([]Pair[int, rune]{
		{Label: 1, Words: []rune("aab")},
		{Label: 2, Words: []rune("b")},
	}), 0)
	if err != nil {
		t.Fatal(err)
	}

	// joint(1,'a')=2, label(1)=3, word('a')=2, N=4
	pmi, err := e.PMI(1, 'a')
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(pmi-4.0/3.0) > 1e-12 {
		t.Errorf("Expected PMI 4/3, got %f", pmi)
	}
}

func TestEngineConcurrentReads(t *testing.T) {
	e := trainedEngine(t, sentimentCorpus(), 0)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if _, err := e.PMI("pos", "good"); err != nil {
					t.Error(err)
					return
				}
				_ = e.KeySet("unknown")
				_ = e.Count("missing")
			}
		}()
	}
	wg.Wait()

	if len(e.Labels()) != 2 {
		t.Errorf("Expected 2 labels after concurrent reads, got %d", len(e.Labels()))
	}
}

func TestFromPairsStopsEarly(t *testing.T) {
	seq := FromPairs([]Pair[string, string]{
		{Label: "a"}, {Label: "b"}, {Label: "c"},
	})

	seen := 0
	for range seq {
		seen++
		if seen == 2 {
			break
		}
	}
	if seen != 2 {
		t.Errorf("Expected iteration to stop at 2, got %d", seen)
	}
}
