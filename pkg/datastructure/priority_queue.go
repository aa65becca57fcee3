package datastructure

import "errors"

var (
	ErrHeapEmpty        = errors.New("priority queue is empty")
	ErrItemNotFoundHeap = errors.New("item not found in priority queue")
)

type PriorityQueueNode[T comparable] struct {
	Rank float64
	Item T
}

// MinHeap binary heap priorityqueue. Item positions are tracked so that
// DecreaseKey is O(logN).
type MinHeap[T comparable] struct {
	heap    []PriorityQueueNode[T]
	itemPos map[T]int
}

func NewMinHeap[T comparable]() *MinHeap[T] {
	return &MinHeap[T]{
		heap:    make([]PriorityQueueNode[T], 0),
		itemPos: make(map[T]int),
	}
}

// parent get index of the parent
func (h *MinHeap[T]) parent(index int) int {
	return (index - 1) / 2
}

func (h *MinHeap[T]) leftChild(index int) int {
	return 2*index + 1
}

func (h *MinHeap[T]) rightChild(index int) int {
	return 2*index + 2
}

func (h *MinHeap[T]) swap(i, j int) {
	h.heap[i], h.heap[j] = h.heap[j], h.heap[i]
	h.itemPos[h.heap[i].Item] = i
	h.itemPos[h.heap[j].Item] = j
}

// heapifyUp maintains the heap property. check whether the parent of index is
// bigger, if so swap, then recurse to the parent. O(logN) tree height.
func (h *MinHeap[T]) heapifyUp(index int) {
	for index != 0 && h.heap[index].Rank < h.heap[h.parent(index)].Rank {
		h.swap(index, h.parent(index))
		index = h.parent(index)
	}
}

// heapifyDown maintains the heap property. check whether one of the children
// of index is smaller, if so swap, then recurse to that child. O(logN).
func (h *MinHeap[T]) heapifyDown(index int) {
	for {
		smallest := index
		left := h.leftChild(index)
		right := h.rightChild(index)

		if left < len(h.heap) && h.heap[left].Rank < h.heap[smallest].Rank {
			smallest = left
		}
		if right < len(h.heap) && h.heap[right].Rank < h.heap[smallest].Rank {
			smallest = right
		}
		if smallest == index {
			return
		}
		h.swap(index, smallest)
		index = smallest
	}
}

func (h *MinHeap[T]) isEmpty() bool {
	return len(h.heap) == 0
}

func (h *MinHeap[T]) Size() int {
	return len(h.heap)
}

func (h *MinHeap[T]) Contains(item T) bool {
	_, ok := h.itemPos[item]
	return ok
}

// GetMin returns the minimum of the min-heap (index 0) without removing it.
func (h *MinHeap[T]) GetMin() (PriorityQueueNode[T], error) {
	if h.isEmpty() {
		return PriorityQueueNode[T]{}, ErrHeapEmpty
	}
	return h.heap[0], nil
}

func (h *MinHeap[T]) Insert(key PriorityQueueNode[T]) {
	h.heap = append(h.heap, key)
	h.itemPos[key.Item] = h.Size() - 1
	h.heapifyUp(h.Size() - 1)
}

// ExtractMin removes and returns the minimum of the min-heap. O(logN).
func (h *MinHeap[T]) ExtractMin() (PriorityQueueNode[T], error) {
	if h.isEmpty() {
		return PriorityQueueNode[T]{}, ErrHeapEmpty
	}
	root := h.heap[0]
	delete(h.itemPos, root.Item)

	last := h.Size() - 1
	h.heap[0] = h.heap[last]
	h.heap = h.heap[:last]
	if !h.isEmpty() {
		h.itemPos[h.heap[0].Item] = 0
		h.heapifyDown(0)
	}
	return root, nil
}

// DecreaseKey lowers the rank of an item already in the queue.
func (h *MinHeap[T]) DecreaseKey(key PriorityQueueNode[T]) error {
	index, ok := h.itemPos[key.Item]
	if !ok {
		return ErrItemNotFoundHeap
	}
	if key.Rank > h.heap[index].Rank {
		return errors.New("new rank is bigger than the current rank")
	}
	h.heap[index].Rank = key.Rank
	h.heapifyUp(index)
	return nil
}
