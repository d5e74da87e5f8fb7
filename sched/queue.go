package sched

// chanQueue is a priority queue of live channels keyed by wall-clock
// cursor, ties broken by spawn order so equal timestamps always replay in
// the same sequence. Implements container/heap.
type chanQueue []*channel

func (q chanQueue) Len() int {
	return len(q)
}

func (q chanQueue) Less(i, j int) bool {
	if q[i].wall != q[j].wall {
		return q[i].wall < q[j].wall
	}
	return q[i].order < q[j].order
}

func (q chanQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
}

func (q *chanQueue) Push(x interface{}) {
	*q = append(*q, x.(*channel))
}

func (q *chanQueue) Pop() interface{} {
	old := *q
	n := len(old)
	ch := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return ch
}
