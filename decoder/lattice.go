// Package decoder is the forward dictionary match / backward N-best
// Viterbi search of spec.md §4.9: it turns a segment graph plus a
// dictionary into a ranked list of whole-sentence candidates, scored by
// a language model mixed with the online history bigram.
package decoder

import (
	"github.com/fcitx/libime-sub001/lm"
	"github.com/fcitx/libime-sub001/segment"
	"github.com/fcitx/libime-sub001/vocab"
)

// WordNode is the minimal identity of one lattice entry: the surface
// text and its vocabulary index.
type WordNode struct {
	Word string
	Idx  vocab.Word
}

// frameEntry is one ranked alternative for reaching a LatticeNode: the
// accumulated sentence score along this alternative, the language-model
// state it leaves behind, and a back-pointer identifying both which
// predecessor LatticeNode was used and which of that predecessor's own
// ranked alternatives. PrevNode == nil means the predecessor is the
// virtual begin-of-sentence root.
type frameEntry struct {
	score    float32
	state    lm.StateId
	prevNode *LatticeNode
	prevRank int
}

// LatticeNode is one candidate word spanning Path[0] to the last entry
// of Path in the segment graph. Unlike a single Viterbi back-pointer,
// it carries up to frameSize ranked alternatives for "the best way to
// reach this word", so that extracting the n best whole sentences can
// later substitute an alternative at any split point instead of only
// ever returning the single best parse.
type LatticeNode struct {
	WordNode
	Path  []*segment.Node
	Cost  float32
	Layer int
	Fuzzy bool

	frames []frameEntry
}

// From is the segment-graph node this word starts at.
func (n *LatticeNode) From() *segment.Node { return n.Path[0] }

// To is the segment-graph node this word ends at.
func (n *LatticeNode) To() *segment.Node { return n.Path[len(n.Path)-1] }

// Score is the best (rank-0) accumulated sentence score through n.
func (n *LatticeNode) Score() float32 {
	if len(n.frames) == 0 {
		return 0
	}
	return n.frames[0].score
}

// State is the language-model state left behind by the best alternative.
func (n *LatticeNode) State() lm.StateId {
	if len(n.frames) == 0 {
		return lm.StateNil
	}
	return n.frames[0].state
}

// chain walks rank's alternative back to the root, collecting words in
// reverse (leaf to root) order, then reverses them into sentence order.
func (n *LatticeNode) chain(rank int) []*LatticeNode {
	var rev []*LatticeNode
	cur, r := n, rank
	for cur != nil {
		rev = append(rev, cur)
		f := cur.frames[r]
		cur, r = f.prevNode, f.prevRank
	}
	out := make([]*LatticeNode, len(rev))
	for i, nd := range rev {
		out[len(rev)-1-i] = nd
	}
	return out
}

// SentenceResult is one fully ranked sentence: the words in left-to-
// right order and its total score.
type SentenceResult struct {
	Sentence []*LatticeNode
	Score    float32
}

// Lattice maps a segment-graph node to every LatticeNode ending there,
// plus the N best sentences found by the last Decode, mirroring the
// C++ library's lattice_ / nbests_ split.
type Lattice struct {
	byEnd map[*segment.Node][]*LatticeNode
	best  []SentenceResult
}

// NewLattice returns an empty Lattice.
func NewLattice() *Lattice {
	return &Lattice{byEnd: map[*segment.Node][]*LatticeNode{}}
}

// Nodes returns every LatticeNode whose To() is n.
func (l *Lattice) Nodes(n *segment.Node) []*LatticeNode { return l.byEnd[n] }

func (l *Lattice) addNode(n *LatticeNode) {
	l.byEnd[n.To()] = append(l.byEnd[n.To()], n)
}

// SentenceSize reports how many sentences the last Decode produced.
func (l *Lattice) SentenceSize() int { return len(l.best) }

// Sentence returns the idx-th best sentence from the last Decode.
func (l *Lattice) Sentence(idx int) SentenceResult { return l.best[idx] }

// Clear drops every lattice node and sentence result.
func (l *Lattice) Clear() {
	l.byEnd = map[*segment.Node][]*LatticeNode{}
	l.best = nil
}

// DiscardNode removes every LatticeNode ending at a node in removed,
// and every LatticeNode starting from one (spec.md §4.8's invalidation
// contract for a segment graph whose nodes changed between keystrokes).
func (l *Lattice) DiscardNode(removed map[*segment.Node]bool) {
	for node := range removed {
		delete(l.byEnd, node)
	}
	for to, nodes := range l.byEnd {
		kept := nodes[:0]
		for _, n := range nodes {
			if !removed[n.From()] {
				kept = append(kept, n)
			}
		}
		if len(kept) == 0 {
			delete(l.byEnd, to)
		} else {
			l.byEnd[to] = kept
		}
	}
}
