package splay

import "cmp"

// Node is a single key of the tree. Every event scheduled at exactly Key lives
// in this node, in insertion order; the node leaves the tree once that list
// is empty.
type Node[E any, K cmp.Ordered] struct {
	Key    K
	events []*E

	parent *Node[E, K]
	left   *Node[E, K]
	right  *Node[E, K]
}

func newNode[E any, K cmp.Ordered](ev *E, key K) *Node[E, K] {
	return &Node[E, K]{Key: key, events: []*E{ev}}
}

// Events returns the events stored at this key, oldest first.
// The slice is the node's own storage and must not be modified.
func (n *Node[E, K]) Events() []*E {
	return n.events
}

// Len returns how many events share this key.
func (n *Node[E, K]) Len() int {
	return len(n.events)
}

func (n *Node[E, K]) Left() *Node[E, K]   { return n.left }
func (n *Node[E, K]) Right() *Node[E, K]  { return n.right }
func (n *Node[E, K]) Parent() *Node[E, K] { return n.parent }

// PopFront removes and returns the oldest event at this key.
func (n *Node[E, K]) PopFront() *E {
	if len(n.events) == 0 {
		return nil
	}
	ev := n.events[0]
	n.events[0] = nil
	n.events = n.events[1:]
	return ev
}

// TakeAll empties the node and returns everything it held.
func (n *Node[E, K]) TakeAll() []*E {
	evs := n.events
	n.events = nil
	return evs
}

// Remove deletes ev from the node, matching by identity.
func (n *Node[E, K]) Remove(ev *E) bool {
	i := n.indexOf(ev)
	if i < 0 {
		return false
	}
	copy(n.events[i:], n.events[i+1:])
	n.events[len(n.events)-1] = nil
	n.events = n.events[:len(n.events)-1]
	return true
}

func (n *Node[E, K]) indexOf(ev *E) int {
	for i, e := range n.events {
		if e == ev {
			return i
		}
	}
	return -1
}

// setParent tolerates a nil receiver so detached subtrees can be relinked blindly.
func (n *Node[E, K]) setParent(p *Node[E, K]) {
	if n != nil {
		n.parent = p
	}
}
