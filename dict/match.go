package dict

import (
	"github.com/fcitx/libime-sub001/dat"
	"github.com/fcitx/libime-sub001/pinyin"
	"github.com/fcitx/libime-sub001/segment"
)

// Match is one dictionary hit reported by MatchPrefix: a word found
// under the syllable-code path covering [Start,End) of the segment
// graph's underlying text, in a given layer, at a given cost. Fuzzy is
// set if reaching this code required any fuzzy substitution or a
// zero-final (incomplete-syllable) expansion along the way.
type Match struct {
	Start, End       int
	FromNode, ToNode *segment.Node
	Word             string
	Cost             float32
	Layer            int
	Fuzzy            bool
}

// MatchPrefix walks every segment-graph node as a potential word start
// (the decoder's forward pass seeds a trie walk at every node, per
// spec.md §4.9) and, for every outgoing path, reports every dictionary
// entry whose code matches, fuzzily or otherwise, under flags.
//
// This is the uncached direct implementation: a full re-walk of every
// layer's trie against every segment-graph path, each call. The
// match-state cache that memoizes this per (node, trie, depth) across
// keystrokes is a decoder-level concern, not this package's.
func (d *Dict) MatchPrefix(g *segment.Graph, flags pinyin.FuzzyFlag, cb func(Match)) {
	visited := map[*segment.Node]bool{}
	var visitAll func(n *segment.Node)
	visitAll = func(n *segment.Node) {
		if visited[n] {
			return
		}
		visited[n] = true
		cursors := make([]dat.Cursor, len(d.layers))
		d.walkFrom(g, n, n, cursors, flags, false, cb)
		for _, next := range n.Next() {
			visitAll(next)
		}
	}
	visitAll(g.Start())
}

// MatchFromNode runs the same walk as MatchPrefix but seeded only at n,
// for callers (the decoder's forward pass) that already know which
// nodes need a fresh walk and which can reuse a cached one.
func (d *Dict) MatchFromNode(g *segment.Graph, n *segment.Node, flags pinyin.FuzzyFlag, cb func(Match)) {
	cursors := make([]dat.Cursor, len(d.layers))
	d.walkFrom(g, n, n, cursors, flags, false, cb)
}

// walkFrom extends cursors (one per layer, all presently matched
// through the same code path from origin to cur) along cur's outgoing
// edges, reporting any completed words found at cur itself before
// recursing.
func (d *Dict) walkFrom(g *segment.Graph, origin, cur *segment.Node, cursors []dat.Cursor, flags pinyin.FuzzyFlag, fuzzySoFar bool, cb func(Match)) {
	for l, ly := range d.layers {
		sep := cursors[l]
		if ly.trie.Traverse(&sep, []byte{separator}) == dat.NoPath {
			continue
		}
		layerIdx := l
		ly.trie.ForeachFrom(sep, func(value int32, keyLen int, pos dat.Cursor) {
			word := string(ly.trie.Suffix(pos, keyLen))
			cb(Match{Start: origin.Start(), End: cur.Start(), FromNode: origin, ToNode: cur, Word: word, Cost: bitsToCost(value), Layer: layerIdx, Fuzzy: fuzzySoFar})
		})
	}

	for _, next := range cur.Next() {
		spelling := g.Segment(cur.Start(), next.Start())
		for _, cand := range pinyin.StringToSyllables(spelling, flags) {
			for _, fin := range cand.Finals {
				if fin.Final == pinyin.FinalInvalid {
					for f := pinyin.FirstFinal; f <= pinyin.LastFinal; f++ {
						if !pinyin.IsValidInitialFinal(cand.Initial, f) {
							continue
						}
						d.branch(g, origin, cur, next, cursors, cand.Initial, f, true, flags, cb)
					}
					continue
				}
				d.branch(g, origin, cur, next, cursors, cand.Initial, fin.Final, fuzzySoFar || fin.IsFuzzy, flags, cb)
			}
		}
	}
}

func (d *Dict) branch(g *segment.Graph, origin, cur, next *segment.Node, cursors []dat.Cursor, initial pinyin.Initial, final pinyin.Final, fuzzySoFar bool, flags pinyin.FuzzyFlag, cb func(Match)) {
	code := []byte{byte(initial), byte(final)}
	newCursors := make([]dat.Cursor, len(cursors))
	copy(newCursors, cursors)
	anyLive := false
	for l, ly := range d.layers {
		c := newCursors[l]
		ly.trie.Traverse(&c, code)
		newCursors[l] = c
		if c != dat.Invalid {
			anyLive = true
		}
	}
	if !anyLive {
		return
	}
	d.walkFrom(g, origin, next, newCursors, flags, fuzzySoFar, cb)
}

// splitCodeWord locates the separator byte that divides a suffix's
// leading syllable-code continuation from its trailing UTF-8 word,
// relying on separator's value never appearing in either.
func splitCodeWord(suffix []byte) (code []byte, word string) {
	for i, b := range suffix {
		if b == separator {
			return suffix[:i], string(suffix[i+1:])
		}
	}
	return suffix, ""
}

// MatchWords reports every (word, cost, layer) whose stored code is
// exactly code.
func (d *Dict) MatchWords(code []byte, cb func(word string, cost float32, layerIdx int)) {
	for l, ly := range d.layers {
		cur := dat.Root
		if ly.trie.Traverse(&cur, code) == dat.NoPath {
			continue
		}
		if ly.trie.Traverse(&cur, []byte{separator}) == dat.NoPath {
			continue
		}
		layerIdx := l
		ly.trie.ForeachFrom(cur, func(value int32, keyLen int, pos dat.Cursor) {
			cb(string(ly.trie.Suffix(pos, keyLen)), bitsToCost(value), layerIdx)
		})
	}
}

// MatchWordsPrefix reports every (word, fullCode, cost, layer) whose
// stored code starts with code, including entries whose code continues
// past it with further syllables.
func (d *Dict) MatchWordsPrefix(code []byte, cb func(word string, fullCode []byte, cost float32, layerIdx int)) {
	for l, ly := range d.layers {
		cur := dat.Root
		if ly.trie.Traverse(&cur, code) == dat.NoPath {
			continue
		}
		layerIdx := l
		ly.trie.ForeachFrom(cur, func(value int32, keyLen int, pos dat.Cursor) {
			suffix := ly.trie.Suffix(pos, keyLen)
			extra, word := splitCodeWord(suffix)
			full := append(append([]byte(nil), code...), extra...)
			cb(word, full, bitsToCost(value), layerIdx)
		})
	}
}
