// Package splay implements a self-adjusting binary search tree keyed by
// simulation time. Every access rotates the touched node to the root, which
// gives amortized O(log n) cost over a sequence of operations even though a
// single operation may walk O(n) nodes.
//
// Nodes carry parent back-references. A node is always unlinked from its old
// parent before it is attached anywhere else, so no node is ever reachable
// from two places. All traversals are iterative: the tree can be a long chain
// before the first splay, and recursion depth would follow its height.
package splay

import "cmp"

// Tree is a splay tree whose nodes hold FIFO lists of events sharing one key.
// The zero value is an empty tree ready for use.
type Tree[E any, K cmp.Ordered] struct {
	root *Node[E, K]
}

// New returns an empty tree.
func New[E any, K cmp.Ordered]() *Tree[E, K] {
	return &Tree[E, K]{}
}

// Root returns the current root, nil for an empty tree.
func (t *Tree[E, K]) Root() *Node[E, K] {
	return t.root
}

func (t *Tree[E, K]) IsEmpty() bool {
	return t.root == nil
}

// Insert appends ev to the node at key, creating the node when the key is new.
// A new node becomes the root, with the two halves of the split as children.
func (t *Tree[E, K]) Insert(ev *E, key K) *Node[E, K] {
	if t.root == nil {
		t.root = newNode(ev, key)
		return t.root
	}
	if r := t.splayTo(key); r.Key == key {
		r.events = append(r.events, ev)
		return r
	}
	l, r := t.splitRoot(key)
	n := newNode(ev, key)
	n.left, n.right = l, r
	l.setParent(n)
	r.setParent(n)
	t.root = n
	return n
}

// Delete removes the node at key and returns it detached, or nil when no
// node has that key. The remaining tree is re-rooted at the predecessor.
func (t *Tree[E, K]) Delete(key K) *Node[E, K] {
	r := t.splayTo(key)
	if r == nil || r.Key != key {
		return nil
	}
	l, rr := r.left, r.right
	l.setParent(nil)
	rr.setParent(nil)
	r.left, r.right = nil, nil
	t.root = joinNodes(l, rr)
	return r
}

// Access splays the node closest to key to the root and returns it when its
// key matches exactly, nil otherwise.
func (t *Tree[E, K]) Access(key K) *Node[E, K] {
	r := t.splayTo(key)
	if r == nil || r.Key != key {
		return nil
	}
	return r
}

// Min splays the smallest key to the root and returns it.
func (t *Tree[E, K]) Min() (K, bool) {
	n := t.MinNode()
	if n == nil {
		var zero K
		return zero, false
	}
	return n.Key, true
}

// MinNode splays the node with the smallest key to the root and returns it.
func (t *Tree[E, K]) MinNode() *Node[E, K] {
	n := t.root
	if n == nil {
		return nil
	}
	for n.left != nil {
		n = n.left
	}
	t.Splay(n)
	return n
}

// MaxNode splays the node with the largest key to the root and returns it.
func (t *Tree[E, K]) MaxNode() *Node[E, K] {
	n := t.root
	if n == nil {
		return nil
	}
	for n.right != nil {
		n = n.right
	}
	t.Splay(n)
	return n
}

// Split consumes t and returns two trees: keys <= key and keys > key.
func (t *Tree[E, K]) Split(key K) (*Tree[E, K], *Tree[E, K]) {
	if t.root == nil {
		return New[E, K](), New[E, K]()
	}
	t.splayTo(key)
	var l, r *Node[E, K]
	if root := t.root; root.Key <= key {
		l, r = root, root.right
		root.right = nil
		r.setParent(nil)
	} else {
		l, r = root.left, root
		root.left = nil
		l.setParent(nil)
	}
	t.root = nil
	return &Tree[E, K]{root: l}, &Tree[E, K]{root: r}
}

// Join consumes a and b and returns a tree holding both. Every key in a must
// be smaller than every key in b.
func Join[E any, K cmp.Ordered](a, b *Tree[E, K]) *Tree[E, K] {
	if a.root != nil && b.root != nil {
		lo := b.root
		for lo.left != nil {
			lo = lo.left
		}
		hi := a.MaxNode()
		if hi.Key >= lo.Key {
			panic("splay: Join requires every key of a to be below every key of b")
		}
	}
	t := &Tree[E, K]{root: joinNodes(a.root, b.root)}
	a.root, b.root = nil, nil
	return t
}

// Splay rotates n up to the root. n must belong to t.
func (t *Tree[E, K]) Splay(n *Node[E, K]) {
	for n.parent != nil {
		p := n.parent
		g := p.parent
		switch {
		case g == nil: // zig
			t.rotate(n)
		case (g.left == p) == (p.left == n): // zig-zig
			t.rotate(p)
			t.rotate(n)
		default: // zig-zag
			t.rotate(n)
			t.rotate(n)
		}
	}
	t.root = n
}

// Lookup finds the node holding ev anywhere in the tree, without splaying.
func (t *Tree[E, K]) Lookup(ev *E) *Node[E, K] {
	var found *Node[E, K]
	t.Walk(func(n *Node[E, K]) bool {
		if n.indexOf(ev) >= 0 {
			found = n
			return false
		}
		return true
	})
	return found
}

// Walk visits nodes in ascending key order until fn returns false.
func (t *Tree[E, K]) Walk(fn func(n *Node[E, K]) bool) {
	var stack []*Node[E, K]
	n := t.root
	for n != nil || len(stack) > 0 {
		for n != nil {
			stack = append(stack, n)
			n = n.left
		}
		n = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(n) {
			return
		}
		n = n.right
	}
}

// splayTo splays the node matching key, or the last node on the search path
// when key is absent, and returns the new root.
func (t *Tree[E, K]) splayTo(key K) *Node[E, K] {
	n := t.root
	if n == nil {
		return nil
	}
	for {
		var next *Node[E, K]
		switch {
		case key < n.Key:
			next = n.left
		case key > n.Key:
			next = n.right
		}
		if next == nil {
			break
		}
		n = next
	}
	t.Splay(n)
	return n
}

// splitRoot detaches the tree into (< key, > key) halves. key must be absent
// and the tree already splayed to it.
func (t *Tree[E, K]) splitRoot(key K) (*Node[E, K], *Node[E, K]) {
	root := t.root
	t.root = nil
	if root.Key < key {
		r := root.right
		root.right = nil
		r.setParent(nil)
		return root, r
	}
	l := root.left
	root.left = nil
	l.setParent(nil)
	return l, root
}

// joinNodes links two detached subtrees whose keys are ordered l < r. The
// largest node of l is splayed to its root and r hangs off its right.
func joinNodes[E any, K cmp.Ordered](l, r *Node[E, K]) *Node[E, K] {
	if l == nil {
		return r
	}
	if r == nil {
		return l
	}
	left := &Tree[E, K]{root: l}
	hi := left.MaxNode()
	hi.right = r
	r.parent = hi
	return hi
}

func (t *Tree[E, K]) rotate(n *Node[E, K]) {
	if n.parent.left == n {
		t.rotateRight(n)
	} else {
		t.rotateLeft(n)
	}
}

// rotateRight lifts n, a left child, above its parent.
func (t *Tree[E, K]) rotateRight(n *Node[E, K]) {
	p := n.parent
	p.left = n.right
	n.right.setParent(p)
	n.right = p
	t.replaceChild(p, n)
}

// rotateLeft lifts n, a right child, above its parent.
func (t *Tree[E, K]) rotateLeft(n *Node[E, K]) {
	p := n.parent
	p.right = n.left
	n.left.setParent(p)
	n.left = p
	t.replaceChild(p, n)
}

// replaceChild puts n where p used to hang and makes p its child.
func (t *Tree[E, K]) replaceChild(p, n *Node[E, K]) {
	g := p.parent
	n.parent = g
	p.parent = n
	switch {
	case g == nil:
		t.root = n
	case g.left == p:
		g.left = n
	default:
		g.right = n
	}
}
