// Package segment is the input-offset DAG a pinyin or table encoder
// builds over raw keystrokes: one node per candidate split point, one
// edge per tentative syllable/code spanning two offsets. Node identity
// is the pointer, not the offset — two graphs may have nodes that share
// an offset, but an edge always points at a specific node value, so a
// node never needs to be "the same" as a same-offset node elsewhere.
package segment

// Node is one split point in a Graph. The zero value is not usable;
// nodes are created through a Graph.
type Node struct {
	start int
	next  []*Node
	seen  map[*Node]bool
}

// Start is the byte offset this node sits at.
func (n *Node) Start() int { return n.start }

// Next lists the nodes directly reachable from n, in the order edges
// were added.
func (n *Node) Next() []*Node { return n.next }

func (n *Node) addEdge(to *Node) {
	if n.start >= to.start {
		panic("segment: edge must strictly increase offset")
	}
	if n.seen == nil {
		n.seen = map[*Node]bool{}
	}
	if n.seen[to] {
		return
	}
	n.seen[to] = true
	n.next = append(n.next, to)
}

// Graph is a DAG over the offsets of one input string, always carrying
// exactly one designated start (offset 0) and end (offset len(data))
// node pair, though Nodes(idx) may hold more than one node at a shared
// offset for callers that need distinct node identities there.
type Graph struct {
	data  string
	nodes map[int][]*Node
	start *Node
	end   *Node
}

// New builds an empty Graph over data, with start and end nodes already
// present.
func New(data string) *Graph {
	g := &Graph{data: data, nodes: map[int][]*Node{}}
	g.start = g.NewNode(0)
	g.end = g.NewNode(len(data))
	return g
}

// Data returns the raw input the graph was built over.
func (g *Graph) Data() string { return g.data }

// Start is the offset-0 node.
func (g *Graph) Start() *Node { return g.start }

// End is the offset-len(data) node.
func (g *Graph) End() *Node { return g.end }

// NewNode creates and registers a fresh node at idx, even if one
// already exists there.
func (g *Graph) NewNode(idx int) *Node {
	n := &Node{start: idx}
	g.nodes[idx] = append(g.nodes[idx], n)
	return n
}

// Nodes returns every node registered at idx, in creation order.
func (g *Graph) Nodes(idx int) []*Node { return g.nodes[idx] }

// Node returns the most recently created node at idx, creating one if
// none exists yet. Used by the encoder, which only ever wants "the"
// node at a given split point.
func (g *Graph) Node(idx int) *Node {
	ns := g.nodes[idx]
	if len(ns) == 0 {
		return g.NewNode(idx)
	}
	return ns[len(ns)-1]
}

// AddNext adds an edge between the graphs' current nodes at from and
// to, creating either endpoint on demand.
func (g *Graph) AddNext(from, to int) {
	if from >= to {
		panic("segment: AddNext requires from < to")
	}
	g.Node(from).addEdge(g.Node(to))
}

// Segment returns the substring of Data spanning [start, end).
func (g *Graph) Segment(start, end int) string {
	return g.data[start:end]
}

// DFS walks every start-to-end path depth-first, calling visit with the
// sequence of node offsets (excluding the leading start offset).
// Stopping early is signaled by visit returning false.
func (g *Graph) DFS(visit func(path []int) bool) {
	var path []int
	g.dfs(g.start, path, visit)
}

func (g *Graph) dfs(n *Node, path []int, visit func([]int) bool) bool {
	if n == g.end {
		return visit(path)
	}
	for _, next := range n.next {
		if !g.dfs(next, append(path, next.start), visit) {
			return false
		}
	}
	return true
}
