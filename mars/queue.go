package mars

// Queue is the FIFO of instruction pointers of a warrior's processes.
type Queue struct {
	Data  []int
	Limit int // Maximum queue depth, or 0 for no limit.
}

// Push appends a process. Returns false, leaving the queue unchanged, if
// the queue is full.
func (q *Queue) Push(ip int) (ok bool) {
	if q.Full() {
		return
	}

	q.Data = append(q.Data, ip)
	ok = true
	return
}

// Pop removes the oldest process.
func (q *Queue) Pop() (ip int, ok bool) {
	ip, ok = q.Peek()
	if ok {
		q.Data = q.Data[1:]
	}
	return
}

// Peek returns the oldest process without removing it.
func (q *Queue) Peek() (ip int, ok bool) {
	if q.Empty() {
		return
	}

	return q.Data[0], true
}

func (q *Queue) Len() int {
	return len(q.Data)
}

func (q *Queue) Empty() bool {
	return len(q.Data) == 0
}

func (q *Queue) Full() bool {
	return q.Limit > 0 && len(q.Data) >= q.Limit
}

func (q *Queue) Reset() {
	q.Data = nil
}
