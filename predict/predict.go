// Package predict is the next-word prediction collaborator of spec.md
// §4.7: given a committed sentence prefix, merge the language model's
// top continuations with, for pinyin, dictionary continuations of the
// last word, into one deduplicated, score-sorted list.
package predict

import (
	"container/heap"
	"sort"
	"strings"

	"github.com/fcitx/libime-sub001/dict"
	"github.com/fcitx/libime-sub001/lm"
	"github.com/fcitx/libime-sub001/vocab"
)

// Source tags where a Candidate came from.
type Source int

const (
	SourceModel Source = iota
	SourceDictionary
)

// Candidate is one predicted continuation.
type Candidate struct {
	Text   string
	Score  float64
	Source Source
}

// candidateHeap is a min-heap on (score, text) so the worst candidate
// sits at the root and is the one container/heap discards once the set
// grows past maxSize; ties favor the lexically later text so the kept
// set's worst members are also popped first, matching the (desc score,
// asc text) tie-break the caller ultimately sees after sorting.
type candidateHeap struct {
	items []Candidate
	seen  map[string]int // text -> count, for O(1) duplicate checks
}

func (h *candidateHeap) Len() int { return len(h.items) }
func (h *candidateHeap) Less(i, j int) bool {
	a, b := h.items[i], h.items[j]
	if a.Score != b.Score {
		return a.Score < b.Score
	}
	return a.Text > b.Text
}
func (h *candidateHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }
func (h *candidateHeap) Push(x interface{}) {
	c := x.(Candidate)
	h.items = append(h.items, c)
	h.seen[c.Text]++
}
func (h *candidateHeap) Pop() interface{} {
	old := h.items
	n := len(old)
	c := old[n-1]
	h.items = old[:n-1]
	h.seen[c.Text]--
	if h.seen[c.Text] == 0 {
		delete(h.seen, c.Text)
	}
	return c
}

func newCandidateHeap() *candidateHeap {
	return &candidateHeap{seen: map[string]int{}}
}

// pushBounded inserts c unless its text is already present, then evicts
// the current worst candidate while the heap exceeds maxSize.
func pushBounded(h *candidateHeap, c Candidate, maxSize int) {
	if maxSize <= 0 || h.seen[c.Text] > 0 {
		return
	}
	heap.Push(h, c)
	for h.Len() > maxSize {
		heap.Pop(h)
	}
}

// Predict enumerates up to maxSize next-word candidates following
// sentence, whose last language-model state is state. When
// lastEncodedPinyin is non-empty and sentence is non-empty, dictionary
// continuations of sentence's last word are merged in too: d is
// searched for entries whose code extends lastEncodedPinyin and whose
// text starts with sentence's last word, each contributing the text
// remaining after that prefix.
func Predict(m lm.Model, d *dict.Dict, state lm.StateId, sentence []string, lastEncodedPinyin []byte, maxSize int) []Candidate {
	vocabulary, _, _, _, _ := m.Vocab()
	h := newCandidateHeap()

	if im, ok := m.(lm.IterableModel); ok {
		// Walk the back-off chain so words reachable only through a
		// lower-order state are offered too, each scored once at the
		// highest order that has it.
		offered := map[vocab.Word]bool{}
		var bow lm.Weight
		for p := state; p != lm.StateNil; {
			for _, t := range im.Transitions(p) {
				if t.Word == vocab.BOS || t.Word == vocab.EOS || t.Word == vocab.UNK || offered[t.Word] {
					continue
				}
				offered[t.Word] = true
				pushBounded(h, Candidate{Text: vocabulary.StringOf(t.Word), Score: float64(bow + t.Weight), Source: SourceModel}, maxSize)
			}
			q, w := im.BackOff(p)
			p, bow = q, bow+w
		}
	}

	if len(lastEncodedPinyin) == 0 || len(sentence) == 0 || d == nil {
		return sortedDesc(h)
	}

	// Model candidates above are scored from state, i.e. already
	// conditioned on the whole sentence. Dictionary candidates below
	// are costed as continuations of sentence's last word alone, so
	// adjust the model candidates by the incremental score of that
	// last word (from the state just before it) to put both sources on
	// the same footing; see pinyinprediction.cpp's "adjust" comment.
	prev := m.Start()
	for _, w := range sentence[:len(sentence)-1] {
		prev, _ = lm.Score(m, prev, vocabulary.IdOf(w))
	}
	lastWord := sentence[len(sentence)-1]
	_, adjust := lm.Score(m, prev, vocabulary.IdOf(lastWord))
	for i := range h.items {
		h.items[i].Score += adjust
	}
	heap.Init(h)

	d.MatchWordsPrefix(lastEncodedPinyin, func(word string, fullCode []byte, cost float32, layerIdx int) {
		if len(word) <= len(lastWord) || !strings.HasPrefix(word, lastWord) {
			return
		}
		newWord := word[len(lastWord):]
		score := -float64(cost) + lm.SingleWordScore(m, prev, vocabulary.IdOf(word))
		pushBounded(h, Candidate{Text: newWord, Score: score, Source: SourceDictionary}, maxSize)
	})

	return sortedDesc(h)
}

func sortedDesc(h *candidateHeap) []Candidate {
	out := make([]Candidate, len(h.items))
	copy(out, h.items)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Text < out[j].Text
	})
	return out
}
