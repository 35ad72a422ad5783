// Package order computes a declaration order for classes so that, where
// possible, every type is declared before the types that use it.
// Reference cycles are tolerated.
package order

import (
	"sort"

	"github.com/you-not-fish/widl/internal/model"
	"github.com/you-not-fish/widl/internal/types"
)

// Deferred is the late-bound type name. Edges to or from it are ignored.
const Deferred = "callback"

type node struct {
	name    string
	uses    map[string]bool // names this node refers to
	parents map[string]bool // names referring to this node
	depth   int             // -1 until computed
	visited bool
}

// Graph is a uses/used-by graph over type names.
type Graph struct {
	nodes map[string]*node
	names []string // insertion order
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{nodes: make(map[string]*node)}
}

// Add ensures name is a node of the graph.
func (g *Graph) Add(name string) {
	g.add(name)
}

func (g *Graph) add(name string) *node {
	n, ok := g.nodes[name]
	if !ok {
		n = &node{
			name:    name,
			uses:    make(map[string]bool),
			parents: make(map[string]bool),
			depth:   -1,
		}
		g.nodes[name] = n
		g.names = append(g.names, name)
	}
	return n
}

// Use records that user refers to used. A self reference only adds the
// node; any edge touching Deferred is dropped.
func (g *Graph) Use(user, used string) {
	if user == Deferred || used == Deferred {
		return
	}
	if user == used {
		g.add(user)
		return
	}
	g.add(user).uses[used] = true
	g.add(used).parents[user] = true
}

// Depth returns the computed depth of name, or -1 if it has not been
// computed or name is not in the graph.
func (g *Graph) Depth(name string) int {
	if n, ok := g.nodes[name]; ok {
		return n.depth
	}
	return -1
}

func (g *Graph) reset() {
	for _, n := range g.nodes {
		n.visited = false
	}
}

// depthOf returns 0 for a node without uses and one more than the deepest
// used node otherwise. A node reached again while its own depth is being
// computed counts as 0.
func (g *Graph) depthOf(n *node) int {
	if n.depth >= 0 {
		return n.depth
	}
	if n.visited {
		return 0
	}
	n.visited = true
	if len(n.uses) == 0 {
		n.depth = 0
		return 0
	}
	deepest := 0
	for _, name := range sortedKeys(n.uses) {
		if d := g.depthOf(g.nodes[name]); d > deepest {
			deepest = d
		}
	}
	n.depth = 1 + deepest
	return n.depth
}

// freed reports whether every user of n has been emitted.
func (g *Graph) freed(n *node) bool {
	for parent := range n.parents {
		if !g.nodes[parent].visited {
			return false
		}
	}
	return true
}

// Order returns every node name with used names ahead of their users.
//
// Nodes are emitted top-down: a node is emitted once all of its users
// have been, and emitting it descends into its freed children. Children
// are tried by ascending depth; equal depths go in reverse name order.
// Nodes kept back by a cycle are appended in name order afterwards.
// The emitted list is finally reversed.
func (g *Graph) Order() []string {
	g.reset()
	for _, name := range g.names {
		g.depthOf(g.nodes[name])
	}
	g.reset()

	var order []string

	var visit func(n *node)
	visit = func(n *node) {
		if n.visited {
			return
		}
		n.visited = true
		order = append(order, n.name)

		for _, c := range g.children(n) {
			sub := g.nodes[c.name]
			if sub.visited || !g.freed(sub) {
				continue
			}
			visit(sub)
		}
	}

	sorted := sortedKeys(g.nodes)
	for _, name := range sorted {
		n := g.nodes[name]
		if n.visited || !g.freed(n) {
			continue
		}
		visit(n)
	}
	for _, name := range sorted {
		if !g.nodes[name].visited {
			order = append(order, name)
		}
	}

	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order
}

type child struct {
	depth int
	index int
	name  string
}

// children lists the uses of n keyed by (depth, index, name), where index
// is the position of the name in the reverse-sorted use list.
func (g *Graph) children(n *node) []child {
	names := sortedKeys(n.uses)
	list := make([]child, len(names))
	for i := range names {
		name := names[len(names)-1-i]
		list[i] = child{depth: g.nodes[name].depth, index: i, name: name}
	}
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.depth != b.depth {
			return a.depth < b.depth
		}
		if a.index != b.index {
			return a.index < b.index
		}
		return a.name < b.name
	})
	return list
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Build records every class of classes and the type names its
// inheritance and members refer to. Names for which builtin reports true
// are not recorded.
func Build(classes []model.Class, builtin func(name string) bool) *Graph {
	g := NewGraph()
	for _, c := range classes {
		name := c.Decl().Name
		g.Add(name)
		iface, ok := c.(*model.Interface)
		if !ok {
			continue
		}
		if iface.Inherits != "" {
			g.Use(name, iface.Inherits)
		}
		for _, t := range iface.MemberTypes() {
			for _, used := range types.SimpleNames(t) {
				if builtin != nil && builtin(used) {
					continue
				}
				g.Use(name, used)
			}
		}
	}
	return g
}

// Resolve returns classes in declaration order. Names that only appear
// as references shape the order but are not part of the result.
func Resolve(classes []model.Class, builtin func(name string) bool) []model.Class {
	byName := make(map[string]model.Class, len(classes))
	for _, c := range classes {
		byName[c.Decl().Name] = c
	}
	var out []model.Class
	for _, name := range Build(classes, builtin).Order() {
		if c, ok := byName[name]; ok {
			out = append(out, c)
		}
	}
	return out
}
