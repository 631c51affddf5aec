package metrics

import (
	"container/list"
)

// Elem is an element ordered by its key.
type Elem interface {
	Key() int64
}

// FixedNumQueue keeps at most a fixed number of elements sorted by key.
// When it overflows, the element with the smallest key is dropped.
type FixedNumQueue interface {
	Push(e Elem)
	Pop() Elem
	Peek() Elem
	Len() int
}

// FixedNumQueueImpl is a FixedNumQueue backed by a linked list.
type FixedNumQueueImpl struct {
	l        *list.List
	queueCap int
}

// NewFixedNumQueue creates a queue. A capacity of 0 means unlimited.
func NewFixedNumQueue(capa int) *FixedNumQueueImpl {
	return &FixedNumQueueImpl{
		queueCap: capa,
		l:        list.New(),
	}
}

// Len returns the number of queued elements.
func (q *FixedNumQueueImpl) Len() int {
	return q.l.Len()
}

// Push inserts e in key order. Among equal keys the newest goes first, so
// it is the first to be dropped.
func (q *FixedNumQueueImpl) Push(e Elem) {
	var ele *list.Element
	for ele = q.l.Front(); ele != nil; ele = ele.Next() {
		if ele.Value.(Elem).Key() >= e.Key() {
			break
		}
	}

	if ele != nil {
		q.l.InsertBefore(e, ele)
	} else {
		q.l.PushBack(e)
	}

	if q.queueCap != 0 && q.l.Len() > q.queueCap {
		q.Pop()
	}
}

// Pop removes the element with the smallest key.
func (q *FixedNumQueueImpl) Pop() Elem {
	return q.l.Remove(q.l.Front()).(Elem)
}

// Peek returns the element with the smallest key.
func (q *FixedNumQueueImpl) Peek() Elem {
	return q.l.Front().Value.(Elem)
}

// Descending returns the elements from the largest key to the smallest.
func (q *FixedNumQueueImpl) Descending() []Elem {
	out := make([]Elem, 0, q.l.Len())
	for ele := q.l.Back(); ele != nil; ele = ele.Prev() {
		out = append(out, ele.Value.(Elem))
	}
	return out
}
