package decoder

import (
	"testing"

	"github.com/fcitx/libime-sub001/segment"
)

func TestLatticeNodesGroupsByEndNode(t *testing.T) {
	g := segment.New("xian")
	g.AddNext(0, 4)
	l := NewLattice()
	n := &LatticeNode{Path: []*segment.Node{g.Node(0), g.Node(4)}}
	l.addNode(n)

	got := l.Nodes(g.Node(4))
	if len(got) != 1 || got[0] != n {
		t.Fatalf("Nodes(end) = %v, want [n]", got)
	}
	if len(l.Nodes(g.Node(0))) != 0 {
		t.Fatalf("expected no nodes ending at start")
	}
}

func TestChainReconstructsSentenceOrder(t *testing.T) {
	g := segment.New("xian")
	g.AddNext(0, 2)
	g.AddNext(2, 4)

	first := &LatticeNode{WordNode: WordNode{Word: "xi"}, Path: []*segment.Node{g.Node(0), g.Node(2)}}
	first.frames = []frameEntry{{score: -1, prevRank: -1}}
	second := &LatticeNode{WordNode: WordNode{Word: "an"}, Path: []*segment.Node{g.Node(2), g.Node(4)}}
	second.frames = []frameEntry{{score: -2, prevNode: first, prevRank: 0}}

	got := second.chain(0)
	if len(got) != 2 || got[0].Word != "xi" || got[1].Word != "an" {
		t.Fatalf("chain = %v, want [xi an]", got)
	}
}

func TestDiscardNodeDropsNodesStartingFromRemoved(t *testing.T) {
	g := segment.New("ab")
	g.AddNext(0, 1)
	g.AddNext(1, 2)

	l := NewLattice()
	mid := &LatticeNode{Path: []*segment.Node{g.Node(0), g.Node(1)}}
	tail := &LatticeNode{Path: []*segment.Node{g.Node(1), g.Node(2)}}
	l.addNode(mid)
	l.addNode(tail)

	l.DiscardNode(map[*segment.Node]bool{g.Node(1): true})

	if len(l.Nodes(g.Node(1))) != 0 {
		t.Fatalf("expected nodes ending at the removed node to be gone")
	}
	if len(l.Nodes(g.Node(2))) != 0 {
		t.Fatalf("expected tail (starting from the removed node) to be gone too")
	}
}
