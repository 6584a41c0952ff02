package dsplay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTier2 fills tier 3 with the given times and transfers them.
func buildTier2(t *testing.T, times ...float64) (*tier2[event, float64], *tier3[event, float64]) {
	t.Helper()
	t3 := newTier3[event](0.0)
	for _, tm := range times {
		t3.enqueue(&event{}, tm)
	}
	t2 := newTier2[event](0.0)
	t2.fromTier3(t3)
	require.Equal(t, len(times), t2.num)
	return t2, t3
}

func TestTier2_FromTier3_SizesBucketsToTier3(t *testing.T) {
	// GIVEN tier 3 holding 0, 4, 6, 10
	t2, t3 := buildTier2(t, 10, 0, 6, 4)

	// THEN there is one bucket per entry over [0, 10] and tier 3 is reset
	assert.Len(t, t2.buckets, 4)
	assert.Equal(t, 2.5, t2.bw)
	assert.Equal(t, 0.0, t2.start)
	assert.Equal(t, 10.0, t2.max)
	assert.Equal(t, 0, t3.len())
	assert.Equal(t, 10.0, t3.cur)
	assert.Len(t, t2.buckets[0], 1)
	assert.Len(t, t2.buckets[1], 1)
	assert.Len(t, t2.buckets[2], 1)
	assert.Len(t, t2.buckets[3], 1, "max lands in the last bucket")
}

func TestTier2_BucketOf_Boundaries(t *testing.T) {
	t2, _ := buildTier2(t, 0, 3, 6, 10)

	tests := []struct {
		at   float64
		want int
	}{
		{0, 0},
		{2.4999, 0},
		{2.5, 1},
		{5, 2},
		{7.5, 3},
		{9.999, 3},
		{10, 3},
		{15, 3},
		{-1, 0},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, t2.bucketOf(tc.at), "bucketOf(%v)", tc.at)
	}
}

func TestTier2_BucketOf_NeverBelowIdx(t *testing.T) {
	t2, _ := buildTier2(t, 0, 3, 6, 10)
	t2.drainNext()
	t2.drainNext()
	require.Equal(t, 2, t2.idx)

	assert.Equal(t, 2, t2.bucketOf(1))
	assert.Equal(t, 5.0, t2.lo)
	assert.False(t, t2.accepts(4.9))
	assert.True(t, t2.accepts(5))
}

func TestTier2_ZeroWidth_UsesLastBucket(t *testing.T) {
	t2, _ := buildTier2(t, 7, 7, 7)

	assert.Equal(t, 0.0, t2.bw)
	assert.Len(t, t2.buckets[2], 3)
	b := t2.drainNext()
	assert.Len(t, b, 3)
	assert.False(t, t2.active())
}

func TestTier2_DrainNext_SkipsEmptyAndRetires(t *testing.T) {
	// GIVEN buckets [0], [], [], [9, 10]
	t2, _ := buildTier2(t, 0, 9, 10, 10)
	require.Empty(t, t2.buckets[1])

	first := t2.drainNext()
	require.Len(t, first, 1)
	assert.Equal(t, 1, t2.idx)
	assert.Equal(t, 2.5, t2.lo)

	m, ok := t2.minTime()
	require.True(t, ok)
	assert.Equal(t, 9.0, m)

	second := t2.drainNext()
	assert.Len(t, second, 3)
	assert.Zero(t, t2.num)
	assert.False(t, t2.active(), "draining the last bucket retires the array")
	assert.Nil(t, t2.drainNext())
}

func TestTier2_DequeueEventAt_RequiresExactTime(t *testing.T) {
	t2, _ := buildTier2(t, 0, 10)
	ev := &event{"e"}
	t2.enqueue(ev, 6)

	assert.False(t, t2.dequeueEventAt(ev, 7))
	assert.True(t, t2.dequeueEventAt(ev, 6))
	assert.Equal(t, 2, t2.num)
	_, ok := t2.lookup(ev)
	assert.False(t, ok)
}

func TestTier3_Bounds_TrackContents(t *testing.T) {
	t3 := newTier3[event](0.0)
	a, b := &event{"a"}, &event{"b"}
	t3.enqueue(a, 5)
	t3.enqueue(&event{}, 8)
	t3.enqueue(b, 20)

	assert.Equal(t, 5.0, t3.min)
	assert.Equal(t, 20.0, t3.max)

	_, ok := t3.dequeueEvent(b)
	require.True(t, ok)
	assert.Equal(t, 8.0, t3.max)

	assert.Equal(t, []*event{a}, t3.dequeueAllAt(5))
	m, ok := t3.minTime()
	require.True(t, ok)
	assert.Equal(t, 8.0, m)

	entries, lo, hi := t3.drain()
	assert.Len(t, entries, 1)
	assert.Equal(t, 8.0, lo)
	assert.Equal(t, 8.0, hi)
	assert.Equal(t, 8.0, t3.cur)
	_, ok = t3.minTime()
	assert.False(t, ok)
}
