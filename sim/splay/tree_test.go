package splay

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ev struct{ id int }

// checkTree verifies ordering and parent links over the whole tree and
// returns the keys in order.
func checkTree[E any](t *testing.T, tr *Tree[E, float64]) []float64 {
	t.Helper()
	if tr.root != nil {
		require.Nil(t, tr.root.parent, "root must not have a parent")
	}
	var keys []float64
	tr.Walk(func(n *Node[E, float64]) bool {
		if n.left != nil {
			require.Same(t, n, n.left.parent, "left child %v has wrong parent", n.left.Key)
			require.Less(t, n.left.Key, n.Key)
		}
		if n.right != nil {
			require.Same(t, n, n.right.parent, "right child %v has wrong parent", n.right.Key)
			require.Greater(t, n.right.Key, n.Key)
		}
		require.NotEmpty(t, n.events, "node %v has no events", n.Key)
		keys = append(keys, n.Key)
		return true
	})
	require.True(t, sort.Float64sAreSorted(keys), "in-order walk not sorted: %v", keys)
	return keys
}

func TestTree_Insert_NewKeyBecomesRoot(t *testing.T) {
	// GIVEN a tree with keys 1..5
	tr := New[ev, float64]()
	for i := 1; i <= 5; i++ {
		tr.Insert(&ev{i}, float64(i))
	}

	// WHEN a new key is inserted
	n := tr.Insert(&ev{9}, 2.5)

	// THEN it is the root and the tree stays ordered
	assert.Same(t, n, tr.Root())
	assert.Equal(t, []float64{1, 2, 2.5, 3, 4, 5}, checkTree(t, tr))
}

func TestTree_Insert_DuplicateKeyCoalesces(t *testing.T) {
	// GIVEN three events at the same key
	tr := New[ev, float64]()
	a, b, c := &ev{1}, &ev{2}, &ev{3}
	tr.Insert(a, 7)
	tr.Insert(&ev{4}, 3)
	tr.Insert(b, 7)
	tr.Insert(c, 7)

	// WHEN the key is accessed
	n := tr.Access(7)

	// THEN one node holds all three in insertion order
	require.NotNil(t, n)
	assert.Equal(t, []*ev{a, b, c}, n.Events())
	assert.Equal(t, []float64{3, 7}, checkTree(t, tr))
}

func TestTree_Access_MissingKey_ReturnsNilButSplays(t *testing.T) {
	tr := New[ev, float64]()
	for _, k := range []float64{10, 20, 30} {
		tr.Insert(&ev{}, k)
	}

	assert.Nil(t, tr.Access(25))
	// the last node on the search path is now the root
	assert.Contains(t, []float64{20, 30}, tr.Root().Key)
	checkTree(t, tr)
}

func TestTree_Access_EmptyTree(t *testing.T) {
	tr := New[ev, float64]()
	assert.Nil(t, tr.Access(1))
	_, ok := tr.Min()
	assert.False(t, ok)
	assert.Nil(t, tr.Delete(1))
	assert.Nil(t, tr.MinNode())
	assert.Nil(t, tr.MaxNode())
}

func TestTree_Delete_ReRootsAtPredecessor(t *testing.T) {
	// GIVEN keys 1..7
	tr := New[ev, float64]()
	for i := 1; i <= 7; i++ {
		tr.Insert(&ev{i}, float64(i))
	}

	// WHEN key 4 is deleted
	n := tr.Delete(4)

	// THEN the detached node is returned and 3 (the predecessor) is root
	require.NotNil(t, n)
	assert.Equal(t, 4.0, n.Key)
	assert.Nil(t, n.Left())
	assert.Nil(t, n.Right())
	assert.Nil(t, n.Parent())
	assert.Equal(t, 3.0, tr.Root().Key)
	assert.Equal(t, []float64{1, 2, 3, 5, 6, 7}, checkTree(t, tr))

	assert.Nil(t, tr.Delete(4), "deleting an absent key is a no-op")
}

func TestTree_Delete_LastNodeEmptiesTree(t *testing.T) {
	tr := New[ev, float64]()
	tr.Insert(&ev{}, 1)
	require.NotNil(t, tr.Delete(1))
	assert.True(t, tr.IsEmpty())
}

func TestTree_Min_SplaysSmallestToRoot(t *testing.T) {
	tr := New[ev, float64]()
	for _, k := range []float64{5, 3, 8, 1, 4, 9} {
		tr.Insert(&ev{}, k)
	}
	tr.Access(9)

	k, ok := tr.Min()

	require.True(t, ok)
	assert.Equal(t, 1.0, k)
	assert.Equal(t, 1.0, tr.Root().Key)
	assert.Nil(t, tr.Root().Left())
	checkTree(t, tr)
}

func TestTree_Split_PartitionsAtKey(t *testing.T) {
	tests := []struct {
		name      string
		key       float64
		wantLeft  []float64
		wantRight []float64
	}{
		{"present key goes left", 4, []float64{1, 2, 3, 4}, []float64{5, 6}},
		{"absent key", 3.5, []float64{1, 2, 3}, []float64{4, 5, 6}},
		{"below all", 0, nil, []float64{1, 2, 3, 4, 5, 6}},
		{"above all", 10, []float64{1, 2, 3, 4, 5, 6}, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tr := New[ev, float64]()
			for _, k := range []float64{4, 1, 6, 2, 5, 3} {
				tr.Insert(&ev{}, k)
			}

			l, r := tr.Split(tc.key)

			assert.True(t, tr.IsEmpty(), "split consumes the source tree")
			assert.Equal(t, tc.wantLeft, checkTree(t, l))
			assert.Equal(t, tc.wantRight, checkTree(t, r))
		})
	}
}

func TestTree_Join_RoundTripsSplit(t *testing.T) {
	tr := New[ev, float64]()
	for i := 0; i < 50; i++ {
		tr.Insert(&ev{i}, float64((i*37)%50))
	}
	l, r := tr.Split(20)

	joined := Join(l, r)

	assert.True(t, l.IsEmpty())
	assert.True(t, r.IsEmpty())
	keys := checkTree(t, joined)
	assert.Len(t, keys, 50)
}

func TestTree_Join_EmptySides(t *testing.T) {
	a := New[ev, float64]()
	b := New[ev, float64]()
	b.Insert(&ev{}, 1)

	j := Join(a, b)
	assert.Equal(t, []float64{1}, checkTree(t, j))

	j2 := Join(j, New[ev, float64]())
	assert.Equal(t, []float64{1}, checkTree(t, j2))
}

func TestTree_Join_OverlappingKeys_Panics(t *testing.T) {
	a := New[ev, float64]()
	b := New[ev, float64]()
	a.Insert(&ev{}, 5)
	b.Insert(&ev{}, 3)

	assert.Panics(t, func() { Join(a, b) })
}

func TestTree_AscendingChain_DoesNotRecurse(t *testing.T) {
	// GIVEN a long ascending insert sequence (each new key becomes the root
	// with the whole previous tree as its left child)
	const n = 200000
	tr := New[ev, float64]()
	for i := 0; i < n; i++ {
		tr.Insert(&ev{i}, float64(i))
	}

	// WHEN the deepest key is accessed and an identity search runs
	target := &ev{-1}
	tr.Insert(target, -1)
	k, ok := tr.Min()

	// THEN both complete without exhausting the stack
	require.True(t, ok)
	assert.Equal(t, -1.0, k)
	node := tr.Lookup(target)
	require.NotNil(t, node)
	assert.Equal(t, -1.0, node.Key)
}

func TestTree_Lookup_ByIdentityNotValue(t *testing.T) {
	// GIVEN two events with identical payloads at different keys
	tr := New[ev, float64]()
	a, b := &ev{7}, &ev{7}
	tr.Insert(a, 1)
	tr.Insert(b, 2)
	root := tr.Root()

	// WHEN b is looked up
	n := tr.Lookup(b)

	// THEN the node at key 2 is returned and the tree is not restructured
	require.NotNil(t, n)
	assert.Equal(t, 2.0, n.Key)
	assert.Same(t, root, tr.Root())
	assert.Nil(t, tr.Lookup(&ev{7}))
}

func TestNode_PopFront_Remove_TakeAll(t *testing.T) {
	a, b, c := &ev{1}, &ev{2}, &ev{3}
	n := newNode(a, 1.0)
	n.events = append(n.events, b, c)

	assert.True(t, n.Remove(b))
	assert.False(t, n.Remove(b))
	assert.Same(t, a, n.PopFront())
	assert.Equal(t, []*ev{c}, n.TakeAll())
	assert.Equal(t, 0, n.Len())
	assert.Nil(t, n.PopFront())
}

func TestTree_RandomOperations_MatchSortedSet(t *testing.T) {
	// Differential check against a plain map of key -> count.
	rng := rand.New(rand.NewSource(7))
	tr := New[ev, float64]()
	want := map[float64]int{}

	for i := 0; i < 5000; i++ {
		k := float64(rng.Intn(300))
		switch rng.Intn(3) {
		case 0, 1:
			tr.Insert(&ev{i}, k)
			want[k]++
		case 2:
			n := tr.Delete(k)
			if want[k] == 0 {
				assert.Nil(t, n)
			} else {
				require.NotNil(t, n)
				assert.Equal(t, want[k], n.Len())
				delete(want, k)
			}
		}
	}

	keys := checkTree(t, tr)
	wantKeys := make([]float64, 0, len(want))
	for k := range want {
		wantKeys = append(wantKeys, k)
	}
	sort.Float64s(wantKeys)
	if len(wantKeys) == 0 {
		wantKeys = nil
	}
	assert.Equal(t, wantKeys, keys)
}
