package lm

import (
	"fmt"
	"io"
	"sort"

	"github.com/fcitx/libime-sub001/vocab"
	"github.com/golang/glog"
)

// Builder builds a Model from n-grams (e.g. from an ARPA file or SRILM
// estimation output). Must be constructed with NewBuilder.
type Builder struct {
	vocab        *vocab.Vocab
	bos, eos     string
	bosId, eosId vocab.Word
	transitions  []*xqwMap
	backoff      []StateWeight
}

// NewBuilder constructs a Builder. v may be nil, in which case a fresh
// vocabulary with "<unk>"/bos/eos (defaulting to "<s>"/"</s>" when both
// are empty) is created; otherwise bos/eos name the boundary symbols
// already present in v, and v is copied so the caller's vocabulary is
// untouched.
func NewBuilder(v *vocab.Vocab, bos, eos string) *Builder {
	var b Builder
	if v == nil {
		if bos == "" && eos == "" {
			bos, eos = "<s>", "</s>"
		}
		v = vocab.New("<unk>", bos, eos)
	} else {
		v = v.Copy()
	}
	b.vocab = v
	if bos == eos {
		glog.Fatalf("begin-of-sentence and end-of-sentence are the same word %q", bos)
	}
	b.bos, b.eos = bos, eos
	if !v.Contains(bos) {
		glog.Fatalf("%q not in vocabulary", bos)
	}
	if !v.Contains(eos) {
		glog.Fatalf("%q not in vocabulary", eos)
	}
	b.bosId, b.eosId = v.IdOf(bos), v.IdOf(eos)

	b.newState() // stateEmpty
	b.newState() // stateStart
	b.setTransition(stateEmpty, b.bosId, stateStart, 0)
	return &b
}

// AddNgram adds one n-gram entry. Entries may be added in any order.
// Weights at or below the -lm.log0-equivalent threshold are clamped to
// WeightLog0. Malformed context/boundary placement is logged and
// ignored the way the teacher's AddNgram warns rather than fails, since
// ARPA files occasionally carry such noise from upstream estimators.
func (b *Builder) AddNgram(context []string, word string, weight Weight, backOff Weight) {
	if weight <= textLog0 {
		weight = WeightLog0
	}
	if backOff <= textLog0 {
		backOff = WeightLog0
	}
	if len(context) > 0 {
		if context[0] == b.eos {
			glog.Warningf("end-of-sentence in context %q", context)
			return
		}
		for _, w := range context[1:] {
			if w == b.bos || w == b.eos {
				glog.Warningf("boundary symbol %q misplaced in context %q", w, context)
				return
			}
		}
	}
	if len(context) > 0 && word == b.bos && weight > -10 {
		glog.Warningf("non-unigram ending in %q with weight %g", word, weight)
	}
	if word == b.eos && backOff != 0 {
		glog.Warningf("non-zero back-off %g for n-gram ending in %q", backOff, word)
	}

	p := b.findState(stateEmpty, context)
	x := b.vocab.IdOrAdd(word)
	q := StateNil
	if x != b.eosId {
		q = b.findNextState(p, x)
		b.setBackOffWeight(q, backOff)
	}
	b.setTransition(p, x, q, weight)
}

func (b *Builder) newState() StateId {
	s := StateId(len(b.backoff))
	b.transitions = append(b.transitions, nil)
	b.backoff = append(b.backoff, StateWeight{StateNil, 0})
	return s
}

func (b *Builder) setTransition(p StateId, x vocab.Word, q StateId, w Weight) {
	if b.transitions[p] == nil {
		b.transitions[p] = newXqwMap(0, 0)
	}
	*b.transitions[p].FindOrInsert(x) = StateWeight{q, w}
}

func (b *Builder) setBackOffWeight(p StateId, bow Weight) { b.backoff[p].Weight = bow }

func (b *Builder) findNextState(p StateId, x vocab.Word) StateId {
	if b.transitions[p] == nil {
		b.transitions[p] = newXqwMap(0, 0)
	}
	if qw := b.transitions[p].Find(x); qw != nil {
		return qw.State
	}
	q := b.newState()
	b.setTransition(p, x, q, 0)
	return q
}

func (b *Builder) findState(p StateId, ws []string) StateId {
	for _, w := range ws {
		p = b.findNextState(p, b.vocab.IdOrAdd(w))
	}
	return p
}

// DumpHashed finalizes the builder into a Hashed model. scale (<=1 means
// a default of 1.5) is the bucket-count multiplier: larger values trade
// memory for fewer probing collisions. The builder is left unusable
// afterward.
func (b *Builder) DumpHashed(scale float64) *Hashed {
	b.link()
	oldToNew, numStates := b.prune()
	return b.moveHashed(oldToNew, numStates, scale)
}

// DumpSorted finalizes the builder into a Sorted model. The builder is
// left unusable afterward.
func (b *Builder) DumpSorted() *Sorted {
	b.link()
	oldToNew, numStates := b.prune()
	return b.moveSorted(oldToNew, numStates)
}

// link links each state p to the first state q with >=1 lexical
// transition along p's back-off chain (so NextI never has to walk more
// than one hop to find a non-empty bucket set).
func (b *Builder) link() {
	for _, xqw := range b.transitions[stateEmpty].Range() {
		if xqw.Value.State != StateNil {
			b.backoff[xqw.Value.State].State = stateEmpty
		}
	}
	for i, es := range b.transitions[stateEmpty+1:] {
		if es != nil {
			for _, xqw := range es.Range() {
				p, x, q := StateId(i+1)+stateEmpty, xqw.Key, xqw.Value.State
				if q != StateNil {
					b.linkTransition(p, x, q)
				}
			}
		}
	}
}

func (b *Builder) linkTransition(p StateId, x vocab.Word, q StateId) (StateId, Weight) {
	qBack := &b.backoff[q]
	if qBack.State == StateNil {
		pBack := b.backoff[p].State
		qwBack := b.transitions[pBack].Find(x)
		for qwBack == nil && pBack != stateEmpty {
			pBack = b.backoff[pBack].State
			qwBack = b.transitions[pBack].Find(x)
		}
		if qwBack != nil {
			qqBack := qwBack.State
			grand, w := b.linkTransition(pBack, x, qqBack)
			if b.transitions[qqBack] == nil {
				qBack.State = grand
				qBack.Weight += w
			} else {
				qBack.State = qqBack
			}
		} else {
			qBack.State = stateEmpty
		}
	}
	return qBack.State, qBack.Weight
}

// prune drops states with no outgoing lexical transition (pure back-off
// pass-throughs), returning the old->new state id mapping.
func (b *Builder) prune() (oldToNew []StateId, numStates int) {
	if glog.V(1) {
		glog.Infof("before pruning: %d states", len(b.backoff))
	}
	oldToNew = make([]StateId, len(b.backoff))
	oldToNew[stateEmpty] = stateEmpty
	oldToNew[stateStart] = stateStart
	next := stateStart + 1
	for i, es := range b.transitions[stateStart+1:] {
		o := stateStart + 1 + StateId(i)
		if es != nil {
			oldToNew[o] = next
			next++
		} else {
			oldToNew[o] = StateNil
		}
	}
	numStates = int(next)
	if glog.V(1) {
		glog.Infof("after pruning: %d states", numStates)
	}
	return
}

func (b *Builder) moveHashed(oldToNew []StateId, numStates int, scale float64) *Hashed {
	if scale <= 1 {
		scale = 1.5
	}
	var m Hashed
	m.vocab, b.vocab = b.vocab, nil
	m.bos, m.eos, m.bosId, m.eosId = b.bos, b.eos, b.bosId, b.eosId
	m.transitions = make([]xqwBuckets, numStates)
	for o, n := range oldToNew {
		if n == StateNil {
			continue
		}
		next := b.transitions[o]
		if next == nil {
			next = newXqwMap(0, 0)
		}
		next.Resize(int(float64(next.Size()) * scale))
		b.transitions[o] = nil
		backoff := b.backoff[o]
		if backoff.State != StateNil {
			backoff.State = oldToNew[backoff.State]
		}
		buckets := next.buckets
		for j, xqw := range buckets {
			if xqw.Key != nilWord {
				q, w := xqw.Value.State, xqw.Value.Weight
				if q != StateNil {
					oldQ := q
					q = oldToNew[oldQ]
					if q == StateNil {
						s := &b.backoff[oldQ]
						q = oldToNew[s.State]
						w += s.Weight
					}
				}
				xqw.Value = StateWeight{q, w}
			} else {
				xqw.Value = backoff
			}
			buckets[j] = xqw
		}
		m.transitions[n] = buckets
	}
	b.backoff, b.transitions = nil, nil
	return &m
}

func (b *Builder) moveSorted(oldToNew []StateId, numStates int) *Sorted {
	var m Sorted
	m.vocab, b.vocab = b.vocab, nil
	m.bos, m.eos, m.bosId, m.eosId = b.bos, b.eos, b.bosId, b.eosId
	m.transitions = make([][]WordStateWeight, numStates)
	for o, n := range oldToNew {
		if n == StateNil {
			continue
		}
		var next []WordStateWeight
		if b.transitions[o] == nil {
			next = make([]WordStateWeight, 0, 1)
		} else {
			next = make([]WordStateWeight, 0, b.transitions[o].Size()+1)
			for _, xqw := range b.transitions[o].Range() {
				q, w := xqw.Value.State, xqw.Value.Weight
				if q != StateNil {
					oldQ := q
					q = oldToNew[oldQ]
					if q == StateNil {
						s := &b.backoff[oldQ]
						q = oldToNew[s.State]
						w += s.Weight
					}
				}
				next = append(next, WordStateWeight{xqw.Key, q, w})
			}
		}
		backoff := b.backoff[o]
		if backoff.State != StateNil {
			backoff.State = oldToNew[backoff.State]
		}
		next = append(next, WordStateWeight{nilWord, backoff.State, backoff.Weight})
		sort.Sort(byWord(next))
		m.transitions[n] = next
		b.transitions[o] = nil
	}
	b.backoff, b.transitions = nil, nil
	return &m
}

// Graphviz visualizes the builder's current internal topology.
func (b *Builder) Graphviz(w io.Writer) {
	fmt.Fprintln(w, "digraph {")
	fmt.Fprintln(w, "  // lexical transitions")
	for p, es := range b.transitions {
		if es != nil {
			for _, xqw := range es.Range() {
				fmt.Fprintf(w, "  %d -> %d [label=%q]\n", p, xqw.Value.State,
					fmt.Sprintf("%s : %g", b.vocab.StringOf(xqw.Key), xqw.Value.Weight))
			}
		}
	}
	fmt.Fprintln(w, "  // back-off transitions")
	for i, s := range b.backoff {
		fmt.Fprintf(w, "  %d -> %d [label=%q,style=dashed]\n", i, s.State, fmt.Sprintf("%g", s.Weight))
	}
	fmt.Fprintln(w, "}")
}
