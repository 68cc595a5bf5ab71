// Package lm is a finite-state back-off n-gram language model, scored in
// log10 space (spec.md §4.5). It is a generalization of the teacher
// library's single-purpose vocabulary to this module's shared
// github.com/fcitx/libime-sub001/vocab identity space, so the same word
// indices mean the same thing to the dictionary tries and the decoder.
package lm

import (
	"flag"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/fcitx/libime-sub001/vocab"
)

// StateId identifies an opaque language-model state (spec.md §3
// "Language-model state"). Callers must never interpret its bits; they
// only ever pass a StateId back into Model.NextI/NextS/Final.
type StateId uint32

const (
	// StateNil is an invalid state, returned when a query falls off the
	// back-off chain entirely.
	StateNil StateId = ^StateId(0)
	// stateEmpty is the state with no context at all (the root).
	stateEmpty StateId = 0
	// stateStart is the state after consuming BOS.
	stateStart StateId = 1
)

// nilWord is the bucket-empty / back-off-slot sentinel used internally by
// the probing hash table (lm/probing.go). It is distinct from vocab.UNK:
// vocab.UNK is a real, meaningful word (the OOV symbol and is itself
// scored); nilWord never denotes a real transition.
const nilWord vocab.Word = ^vocab.Word(0)

// Weight is the floating point type for log10-probabilities, matching
// the ARPA/SRILM convention the teacher's ARPA reader already assumes.
type Weight float32

// WeightSize is the bit size of Weight, used when parsing ARPA floats.
const WeightSize = 32

// WeightLog0 stands in for log10(0): an entry that must never be taken
// (an OOV unigram, or a disallowed n-gram).
var WeightLog0 = Weight(math.Inf(-1))

// textLog0 is the ARPA-file convention: any weight at or below this is
// treated as log(0) rather than literally parsed.
var textLog0 = Weight(-99)

func init() {
	flag.Var(&textLog0, "lm.log0", "treat weight <= this as log(0)")
}

func (w *Weight) String() string { return strconv.FormatFloat(float64(*w), 'g', -1, 32) }

func (w *Weight) Set(s string) error {
	f, err := strconv.ParseFloat(s, 32)
	if err == nil {
		*w = Weight(f)
	}
	return err
}

// StateWeight is a (destination state, transition weight) pair.
type StateWeight struct {
	State  StateId
	Weight Weight
}

// WordStateWeight additionally carries the word consuming the transition.
type WordStateWeight struct {
	Word   vocab.Word
	State  StateId
	Weight Weight
}

// Model is the general interface of an n-gram language model (spec.md
// §4.5). Prefer a concrete implementation (Hashed or Sorted) in hot
// paths; Model exists so the decoder can be agnostic to which one is
// loaded.
type Model interface {
	// Start returns the state after consuming BOS. Never query BOS
	// explicitly; see NextI.
	Start() StateId
	// NextI advances from p consuming word x (never BOS or EOS).
	// The returned weight is WeightLog0 iff x is OOV, i.e. unigram x
	// is absent from the model (an x that only ever follows BOS but
	// never occurs standalone is still OOV per this rule).
	NextI(p StateId, x vocab.Word) (q StateId, w Weight)
	// NextS is NextI by surface text.
	NextS(p StateId, s string) (q StateId, w Weight)
	// Final returns the weight of ending the sentence from p (consumes
	// EOS without producing a usable destination state).
	Final(p StateId) Weight
	// Vocab returns the model's vocabulary and boundary symbols.
	Vocab() (v *vocab.Vocab, bos, eos string, bosId, eosId vocab.Word)
}

// Score runs Model.NextI and reports the log10 probability, matching
// spec.md §4.5's score(state, word, &mut out_state).
func Score(m Model, p StateId, x vocab.Word) (q StateId, log10Prob float64) {
	q, w := m.NextI(p, x)
	return q, float64(w)
}

// SingleWordScore is Score without committing to the resulting state.
func SingleWordScore(m Model, p StateId, x vocab.Word) float64 {
	_, w := m.NextI(p, x)
	return float64(w)
}

// WordsScore accumulates Score over a whole sequence starting at p,
// spec.md §4.5's words_score convenience accumulator.
func WordsScore(m Model, p StateId, xs []vocab.Word) float64 {
	var total float64
	for _, x := range xs {
		var w float64
		p, w = Score(m, p, x)
		total += w
	}
	return total
}

// IterableModel is a Model whose states/transitions can be iterated,
// used by Graphviz and by model-inspection tooling.
type IterableModel interface {
	Model
	NumStates() int
	Transitions(p StateId) []WordStateWeight
	BackOff(p StateId) (q StateId, w Weight)
}

// Graphviz prints the finite-state topology for debugging. Can be slow
// on a real-size model; never called from the decoding hot path.
func Graphviz(m IterableModel, w io.Writer) {
	vocabulary, _, _, _, _ := m.Vocab()
	fmt.Fprintln(w, "digraph {")
	fmt.Fprintln(w, "  // lexical transitions")
	for i := 0; i < m.NumStates(); i++ {
		p := StateId(i)
		for _, xqw := range m.Transitions(p) {
			fmt.Fprintf(w, "  %d -> %d [label=%q]\n", p, xqw.State,
				fmt.Sprintf("%s : %g", vocabulary.StringOf(xqw.Word), xqw.Weight))
		}
	}
	fmt.Fprintln(w, "  // back-off transitions")
	for i := 0; i < m.NumStates(); i++ {
		q, w2 := m.BackOff(StateId(i))
		fmt.Fprintf(w, "  %d -> %d [label=%q,style=dashed]\n", i, q, fmt.Sprintf("%g", w2))
	}
	fmt.Fprintln(w, "}")
}

// A list of implemented model representations.
const (
	ModelHashed = iota
	ModelSorted
)

// Magic words for the little-endian binary formats (spec.md §6).
const (
	MagicHashed = "#libime.lm.hash"
	MagicSorted = "#libime.lm.sort"
)
