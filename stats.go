package lowhash

// Stats is a snapshot of a table's shape.
type Stats struct {
	Entries       int
	Buckets       int
	LoadFactor    float64
	LongestChain  int
	Resizes       uint64
	Shrinks       uint64
	FailedResizes uint64
}

// Stats walks every chain, so it costs O(Len + BucketCount).
func (t *Table[K, V]) Stats() Stats {
	if !t.live() {
		return Stats{}
	}
	s := Stats{
		Entries:       t.count,
		Buckets:       len(t.buckets),
		LoadFactor:    t.LoadFactor(),
		Resizes:       t.resizes,
		Shrinks:       t.shrinks,
		FailedResizes: t.failedResizes,
	}
	for _, head := range t.buckets {
		n := 0
		for e := head; e != nil; e = e.next {
			n++
		}
		s.LongestChain = max(s.LongestChain, n)
	}
	return s
}
