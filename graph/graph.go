package graph

import "errors"

// ErrCycle is returned by TopologicalOrder when the graph contains a
// cycle. Self-loops count as cycles.
var ErrCycle = errors.New("cycle detected")

// Directed is a directed graph over comparable vertices, tracking both
// edge directions so dependents can be walked without scanning. Vertices
// exist only while incident to an edge; Prune drops the rest.
type Directed[V comparable] struct {
	out map[V]map[V]struct{}
	in  map[V]map[V]struct{}
}

func NewDirected[V comparable]() *Directed[V] {
	return &Directed[V]{
		out: make(map[V]map[V]struct{}),
		in:  make(map[V]map[V]struct{}),
	}
}

// Clone returns a deep copy. Rewrites during a transaction run on a clone
// so an abort leaves the committed graph untouched.
func (g *Directed[V]) Clone() *Directed[V] {
	c := NewDirected[V]()
	for u, vs := range g.out {
		for v := range vs {
			c.AddEdge(u, v)
		}
	}
	return c
}

// AddEdge inserts the edge u -> v.
func (g *Directed[V]) AddEdge(u, v V) {
	if g.out[u] == nil {
		g.out[u] = make(map[V]struct{})
	}
	g.out[u][v] = struct{}{}
	if g.in[v] == nil {
		g.in[v] = make(map[V]struct{})
	}
	g.in[v][u] = struct{}{}
}

// RemoveOutEdges deletes every edge leaving u.
func (g *Directed[V]) RemoveOutEdges(u V) {
	for v := range g.out[u] {
		delete(g.in[v], u)
		if len(g.in[v]) == 0 {
			delete(g.in, v)
		}
	}
	delete(g.out, u)
}

// OutEdges lists the direct successors of u.
func (g *Directed[V]) OutEdges(u V) []V {
	vs := make([]V, 0, len(g.out[u]))
	for v := range g.out[u] {
		vs = append(vs, v)
	}
	return vs
}

// InDegree is the number of edges pointing at u.
func (g *Directed[V]) InDegree(u V) int {
	return len(g.in[u])
}

// Prune removes vertices with no incident edges.
func (g *Directed[V]) Prune() {
	for u, vs := range g.out {
		if len(vs) == 0 {
			delete(g.out, u)
		}
	}
	for u, vs := range g.in {
		if len(vs) == 0 {
			delete(g.in, u)
		}
	}
}

// Vertices lists every vertex incident to at least one edge.
func (g *Directed[V]) Vertices() []V {
	seen := make(map[V]struct{})
	var vs []V
	for u, edges := range g.out {
		if len(edges) > 0 {
			if _, ok := seen[u]; !ok {
				seen[u] = struct{}{}
				vs = append(vs, u)
			}
		}
	}
	for u, edges := range g.in {
		if len(edges) > 0 {
			if _, ok := seen[u]; !ok {
				seen[u] = struct{}{}
				vs = append(vs, u)
			}
		}
	}
	return vs
}

// TopologicalOrder returns the vertices ordered so that for every edge
// u -> v, u appears before v (Kahn's algorithm). It fails with ErrCycle if
// any cycle exists anywhere in the graph.
func (g *Directed[V]) TopologicalOrder() ([]V, error) {
	vertices := g.Vertices()
	indegree := make(map[V]int, len(vertices))
	for _, u := range vertices {
		indegree[u] = len(g.in[u])
	}
	var queue []V
	for _, u := range vertices {
		if indegree[u] == 0 {
			queue = append(queue, u)
		}
	}
	order := make([]V, 0, len(vertices))
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		order = append(order, u)
		for v := range g.out[u] {
			indegree[v]--
			if indegree[v] == 0 {
				queue = append(queue, v)
			}
		}
	}
	if len(order) != len(vertices) {
		return nil, ErrCycle
	}
	return order, nil
}

// Dependents returns the set of vertices that can reach u, i.e. the
// transitive closure over incoming edges.
func (g *Directed[V]) Dependents(u V) map[V]struct{} {
	reach := make(map[V]struct{})
	stack := make([]V, 0, len(g.in[u]))
	for v := range g.in[u] {
		stack = append(stack, v)
	}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := reach[v]; ok {
			continue
		}
		reach[v] = struct{}{}
		for w := range g.in[v] {
			stack = append(stack, w)
		}
	}
	return reach
}
