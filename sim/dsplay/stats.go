package dsplay

type counters struct {
	enqueued     uint64
	dequeued     uint64
	tier3ToTier2 uint64
	tier2ToTier1 uint64
	hintMisses   uint64
}

// Stats is a point-in-time view of the queue's tiers and lifetime counters.
// Boundaries are reported as float64 whatever the queue's time type.
type Stats struct {
	Tier1Len int
	Tier2Len int
	Tier3Len int

	Tier1Cur float64 // last minimum handed out by tier 1
	Tier2Cur float64 // lower edge of tier 2's next bucket
	Tier3Cur float64 // tier 3 accepts only times above this

	Tier2Buckets int
	Tier2Index   int
	Tier2Width   float64

	Enqueued     uint64
	Dequeued     uint64
	Tier3ToTier2 uint64
	Tier2ToTier1 uint64
	HintMisses   uint64
}

// Stats reports the current tier occupancy and counters.
func (q *Queue[E, T]) Stats() Stats {
	return Stats{
		Tier1Len:     q.t1.num,
		Tier2Len:     q.t2.num,
		Tier3Len:     q.t3.len(),
		Tier1Cur:     float64(q.t1.cur),
		Tier2Cur:     q.t2.lo,
		Tier3Cur:     float64(q.t3.cur),
		Tier2Buckets: len(q.t2.buckets),
		Tier2Index:   q.t2.idx,
		Tier2Width:   q.t2.bw,
		Enqueued:     q.counters.enqueued,
		Dequeued:     q.counters.dequeued,
		Tier3ToTier2: q.counters.tier3ToTier2,
		Tier2ToTier1: q.counters.tier2ToTier1,
		HintMisses:   q.counters.hintMisses,
	}
}
