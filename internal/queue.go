package internal

type ActionQueue struct {
	actions []*Action
	head    int
}

func NewActionQueue() *ActionQueue {
	return &ActionQueue{
		actions: make([]*Action, 0),
	}
}

func (q *ActionQueue) Enqueue(a *Action) {
	q.actions = append(q.actions, a)
}

func (q *ActionQueue) Dequeue() *Action {
	if q.head >= len(q.actions) {
		q.Clear()
		return nil
	}

	a := q.actions[q.head]
	q.actions[q.head] = nil
	q.head++
	return a
}

func (q *ActionQueue) Remove(a *Action) {
	for i := q.head; i < len(q.actions); i++ {
		if q.actions[i] == a {
			q.actions = append(q.actions[:i], q.actions[i+1:]...)
			return
		}
	}
}

func (q *ActionQueue) Len() int {
	return len(q.actions) - q.head
}

func (q *ActionQueue) Clear() {
	q.actions = q.actions[:0]
	q.head = 0
}
