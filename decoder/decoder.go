package decoder

import (
	"sort"
	"strings"

	"github.com/fcitx/libime-sub001/dict"
	"github.com/fcitx/libime-sub001/lm"
	"github.com/fcitx/libime-sub001/lru"
	"github.com/fcitx/libime-sub001/pinyin"
	"github.com/fcitx/libime-sub001/segment"
)

// Defaults for Decode's tuning knobs, spec.md §4.9.
const (
	BeamSizeDefault  = 2000
	FrameSizeDefault = 10
	// Lambda weights the language-model contribution against the
	// dictionary's intrinsic word cost in the backward pass.
	Lambda = 1.0
)

// matchStateCache is spec.md §4.8's search_: a per segment-graph-node
// memo of the dictionary's forward match, so that re-decoding after one
// more keystroke does not re-walk every trie from nodes that survived
// unchanged. node_cache_/match_cache_ (the dictionary's own per-trie
// prefix caches) are not reproduced here: this module's dict.MatchFromNode
// is already a single bounded walk per node, so the coarser per-node
// memoization below is the cache that actually matters at decode time.
type matchStateCache struct {
	search   *lru.Cache
	capacity int
}

func newMatchStateCache(capacity int) *matchStateCache {
	return &matchStateCache{search: lru.New(capacity), capacity: capacity}
}

func (c *matchStateCache) matches(d *dict.Dict, g *segment.Graph, n *segment.Node, flags pinyin.FuzzyFlag) []dict.Match {
	if v, ok := c.search.Find(n); ok {
		return v.([]dict.Match)
	}
	var ms []dict.Match
	d.MatchFromNode(g, n, flags, func(m dict.Match) { ms = append(ms, m) })
	c.search.Insert(n, ms)
	return ms
}

// discardNode deletes the cached walk for every removed node, and any
// cached walk whose reported matches started from one (spec.md §4.8).
func (c *matchStateCache) discardNode(removed map[*segment.Node]bool) {
	for n := range removed {
		c.search.Erase(n)
	}
}

// Decoder runs the forward dictionary match and backward N-best Viterbi
// search of spec.md §4.9 over a segment graph, against one dictionary
// and one language model.
type Decoder struct {
	dict  *dict.Dict
	model lm.Model
	cache *matchStateCache
}

// New constructs a Decoder. cacheCapacity bounds how many segment-graph
// nodes' forward matches are memoized; 0 selects lru.DefaultCapacity.
func New(d *dict.Dict, m lm.Model, cacheCapacity int) *Decoder {
	return &Decoder{dict: d, model: m, cache: newMatchStateCache(cacheCapacity)}
}

// DiscardNode invalidates the forward-match cache for a set of segment-
// graph nodes the caller knows no longer belongs to the graph (the diff
// between one keystroke and the next), and prunes any lattice nodes
// that referenced them.
func (dec *Decoder) DiscardNode(l *Lattice, removed map[*segment.Node]bool) {
	dec.cache.discardNode(removed)
	l.DiscardNode(removed)
}

// DiscardDictionary drops every cached forward match: a dictionary edit
// may change what any node matches, and this implementation's cache
// does not track which layer contributed which entry, so any edit
// invalidates the whole cache rather than just one layer's slice of it.
func (dec *Decoder) DiscardDictionary(layer int) {
	dec.cache = newMatchStateCache(dec.cache.capacity)
}

// Decode runs one full decode of g into l, producing up to nbest
// sentence results. start is the language-model state to begin from
// (lm.Model.Start(), or a UserModel's Start() to mix in history).
// Paths scoring below bestScore-maxDistance or below minScore are
// dropped. beamSize and frameSize are BeamSizeDefault/FrameSizeDefault
// when <= 0.
func (dec *Decoder) Decode(l *Lattice, g *segment.Graph, nbest int, start lm.StateId, maxDistance, minScore float32, beamSize, frameSize int, flags pinyin.FuzzyFlag) {
	if beamSize <= 0 {
		beamSize = BeamSizeDefault
	}
	if frameSize <= 0 {
		frameSize = FrameSizeDefault
	}
	l.Clear()

	nodes := reachableNodes(g)
	vocabulary, _, _, _, _ := dec.model.Vocab()

	// Forward pass: every reachable node seeds (or reuses) a dictionary
	// walk; every hit becomes a candidate LatticeNode.
	for _, n := range nodes {
		for _, m := range dec.cache.matches(dec.dict, g, n, flags) {
			l.addNode(&LatticeNode{
				WordNode: WordNode{Word: m.Word, Idx: vocabulary.IdOf(m.Word)},
				Path:     []*segment.Node{m.FromNode, m.ToNode},
				Cost:     m.Cost,
				Layer:    m.Layer,
				Fuzzy:    m.Fuzzy,
			})
		}
	}

	// Beam pruning: at most beamSize candidates per ending node, kept by
	// lowest intrinsic cost (spec.md §4.9 step 2's "partial score").
	for to, ns := range l.byEnd {
		if len(ns) <= beamSize {
			continue
		}
		sort.SliceStable(ns, func(i, j int) bool { return ns[i].Cost < ns[j].Cost })
		l.byEnd[to] = append([]*LatticeNode(nil), ns[:beamSize]...)
	}

	// Backward pass: process nodes in increasing offset order so every
	// predecessor's frames are already final by the time a node needs
	// them. Each LatticeNode keeps up to frameSize ranked alternatives
	// instead of a single Viterbi back-pointer, so the final extraction
	// below can substitute an alternative at any split point.
	for _, to := range nodes {
		for _, n := range l.byEnd[to] {
			var preds []frameEntry
			if n.From() == g.Start() {
				preds = []frameEntry{{score: 0, state: start, prevRank: -1}}
			} else {
				for _, p := range l.byEnd[n.From()] {
					for r, pf := range p.frames {
						preds = append(preds, frameEntry{score: pf.score, state: pf.state, prevNode: p, prevRank: r})
					}
				}
			}
			raw := make([]frameEntry, 0, len(preds))
			for _, pc := range preds {
				q, lp := lm.Score(dec.model, pc.state, n.Idx)
				raw = append(raw, frameEntry{
					score:    pc.score - n.Cost + Lambda*float32(lp),
					state:    q,
					prevNode: pc.prevNode,
					prevRank: pc.prevRank,
				})
			}
			sort.SliceStable(raw, func(i, j int) bool { return raw[i].score > raw[j].score })
			if len(raw) > frameSize {
				raw = raw[:frameSize]
			}
			n.frames = raw
		}
	}

	l.best = dec.extractNBest(l, g, nbest, maxDistance, minScore)
}

type finalCandidate struct {
	node  *LatticeNode
	rank  int
	score float32
}

// extractNBest walks every alternative ending at g.End(), scores it
// with the model's end-of-sentence weight, and returns up to nbest
// distinct (by surface text) sentences within the max-distance/min-
// score window around the best one found.
func (dec *Decoder) extractNBest(l *Lattice, g *segment.Graph, nbest int, maxDistance, minScore float32) []SentenceResult {
	var cands []finalCandidate
	for _, n := range l.byEnd[g.End()] {
		for r, f := range n.frames {
			cands = append(cands, finalCandidate{node: n, rank: r, score: f.score + float32(dec.model.Final(f.state))})
		}
	}
	if len(cands) == 0 {
		return nil
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].score > cands[j].score })

	best := cands[0].score
	seen := map[string]bool{}
	var out []SentenceResult
	for _, c := range cands {
		if len(out) >= nbest {
			break
		}
		if c.score < best-maxDistance || c.score < minScore {
			continue
		}
		words := c.node.chain(c.rank)
		text := sentenceText(words)
		if seen[text] {
			continue
		}
		seen[text] = true
		out = append(out, SentenceResult{Sentence: words, Score: c.score})
	}
	return out
}

func sentenceText(words []*LatticeNode) string {
	var b strings.Builder
	for _, w := range words {
		b.WriteString(w.Word)
	}
	return b.String()
}

// reachableNodes returns every segment-graph node reachable from
// g.Start(), in ascending offset order (a valid topological order,
// since every edge strictly increases offset).
func reachableNodes(g *segment.Graph) []*segment.Node {
	visited := map[*segment.Node]bool{}
	var order []*segment.Node
	var visit func(n *segment.Node)
	visit = func(n *segment.Node) {
		if visited[n] {
			return
		}
		visited[n] = true
		order = append(order, n)
		for _, next := range n.Next() {
			visit(next)
		}
	}
	visit(g.Start())
	sort.SliceStable(order, func(i, j int) bool { return order[i].Start() < order[j].Start() })
	return order
}
