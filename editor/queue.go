package editor

// Queue is a FIFO of input events. The host loop pushes as input arrives
// and State.Drain consumes in arrival order.
type Queue struct {
	events []Event
	head   int
}

func (q *Queue) Push(evs ...Event) {
	q.events = append(q.events, evs...)
}

func (q *Queue) Pop() (Event, bool) {
	if q.head >= len(q.events) {
		return nil, false
	}
	ev := q.events[q.head]
	q.events[q.head] = nil
	q.head++
	if q.head == len(q.events) {
		q.events = q.events[:0]
		q.head = 0
	}
	return ev, true
}

func (q *Queue) Len() int { return len(q.events) - q.head }
