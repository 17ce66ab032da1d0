package internal

import "container/heap"

type actionHeap []*Action

func (h actionHeap) Len() int { return len(h) }

func (h actionHeap) Less(i, j int) bool {
	if h[i].due.Equal(h[j].due) {
		return h[i].seq < h[j].seq
	}
	return h[i].due.Before(h[j].due)
}

func (h actionHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *actionHeap) Push(x any) {
	a := x.(*Action)
	a.index = len(*h)
	*h = append(*h, a)
}

func (h *actionHeap) Pop() any {
	old := *h
	n := len(old)
	a := old[n-1]
	old[n-1] = nil
	a.index = -1
	*h = old[:n-1]
	return a
}

func (h *actionHeap) upsert(a *Action) {
	if a.index >= 0 && a.index < len(*h) && (*h)[a.index] == a {
		heap.Fix(h, a.index)
		return
	}
	heap.Push(h, a)
}

func (h *actionHeap) remove(a *Action) {
	if a.index >= 0 && a.index < len(*h) && (*h)[a.index] == a {
		heap.Remove(h, a.index)
	}
}

func (h actionHeap) peek() *Action {
	if len(h) == 0 {
		return nil
	}
	return h[0]
}

func (h *actionHeap) pop() *Action {
	return heap.Pop(h).(*Action)
}
