// Package sched provides the task-graph node constructors that wire
// broad-phase -> narrow-phase and stand up the ray-tracer.
// Dependencies are declared, not executed; running the graph
// is the (external) task-graph scheduler's job.
package sched

import "fmt"

// Node is an opaque task-graph handle with declared dependencies.
type Node struct {
	Name string
	deps []*Node
	run  func()
}

// Run executes the node's body directly; a real task-graph executor
// would instead schedule this against its dependencies and a worker
// pool.
func (n *Node) Run() {
	n.run()
}

// Deps returns the node's declared dependencies.
func (n *Node) Deps() []*Node { return n.deps }

// Builder accumulates task-graph nodes in registration order.
type Builder struct {
	nodes []*Node
}

func NewBuilder() *Builder { return &Builder{} }

// Node registers a new task-graph node with the given dependencies.
func (b *Builder) Node(name string, deps []*Node, run func()) *Node {
	n := &Node{Name: name, deps: deps, run: run}
	b.nodes = append(b.nodes, n)
	return n
}

// Nodes returns all nodes registered on this builder, in registration
// order; on the CPU deployment nodes run sequentially in topological
// order per world.
func (b *Builder) Nodes() []*Node { return b.nodes }

// RunTopological runs every node in registration order, panicking if a
// node's declared dependency hasn't run yet — a lightweight stand-in
// for the real task-graph executor's topological scheduling.
func (b *Builder) RunTopological() {
	ran := make(map[*Node]bool, len(b.nodes))
	for _, n := range b.nodes {
		for _, d := range n.deps {
			if !ran[d] {
				panic(fmt.Errorf("sched: node %q ran before its dependency %q", n.Name, d.Name))
			}
		}
		n.Run()
		ran[n] = true
	}
}
