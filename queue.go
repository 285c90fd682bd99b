package upromise

import "github.com/loopkit/upromise/upromisecoro"

// task names a coroutine to resume and optionally carries per-task
// context in extra. Nothing in this package sets extra at present: Then
// keeps its continuation state in the closure of the coroutine it spawns.
type task struct {
	co    upromisecoro.CoID
	extra any
}

// taskNode is a node in a taskQueue's singly linked list.
type taskNode struct {
	task task
	next *taskNode
}

// taskQueue is a FIFO of tasks with O(1) push-tail, push-head and
// pop-head, backed by a sentinel head node so push/pop never need to
// special-case the empty queue.
type taskQueue struct {
	head *taskNode
	tail *taskNode
}

func newTaskQueue() *taskQueue {
	sentinel := &taskNode{}
	return &taskQueue{head: sentinel, tail: sentinel}
}

func (q *taskQueue) empty() bool {
	return q.head == q.tail
}

// pushTail enqueues t at the back of the queue (normal FIFO order).
func (q *taskQueue) pushTail(t task) {
	n := &taskNode{task: t}
	q.tail.next = n
	q.tail = n
}

// pushHead enqueues t at the front of the queue, ahead of anything
// already waiting. Used to force "run next" ordering — see
// (*Dispatcher).runImmediately.
func (q *taskQueue) pushHead(t task) {
	n := &taskNode{task: t, next: q.head.next}
	if n.next == nil {
		q.tail = n
	}
	q.head.next = n
}

// popHead removes and returns the oldest task, or reports false if the
// queue is empty.
func (q *taskQueue) popHead() (task, bool) {
	if q.empty() {
		return task{}, false
	}
	n := q.head.next
	q.head.next = n.next
	if n.next == nil {
		q.tail = q.head
	}
	return n.task, true
}

// drainInto moves every task currently queued onto dst, preserving
// order, and leaves q empty.
func (q *taskQueue) drainInto(dst *taskQueue) {
	for {
		t, ok := q.popHead()
		if !ok {
			return
		}
		dst.pushTail(t)
	}
}
