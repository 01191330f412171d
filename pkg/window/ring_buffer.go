package window

import "sync"

// RingBuffer is a circular buffer of per-date feature rows with fixed
// capacity. A live consumer pushes one row per trading day and reads
// back the most recent full window without rebuilding the dataset.
type RingBuffer struct {
	data     [][]float64
	capacity int
	size     int
	head     int // points to the next write position
	mu       sync.RWMutex
}

// NewRingBuffer creates a new ring buffer with the specified capacity.
func NewRingBuffer(capacity int) *RingBuffer {
	return &RingBuffer{
		data:     make([][]float64, capacity),
		capacity: capacity,
	}
}

// Push adds a feature row to the buffer. If the buffer is full, the
// oldest row is overwritten.
func (rb *RingBuffer) Push(row []float64) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	rb.data[rb.head] = row
	rb.head = (rb.head + 1) % rb.capacity
	if rb.size < rb.capacity {
		rb.size++
	}
}

// Size returns the current number of rows in the buffer.
func (rb *RingBuffer) Size() int {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return rb.size
}

// IsFull returns true if the buffer is at capacity.
func (rb *RingBuffer) IsFull() bool {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return rb.size == rb.capacity
}

// Capacity returns the maximum capacity of the buffer.
func (rb *RingBuffer) Capacity() int {
	return rb.capacity
}

// Window returns the rows in chronological order (oldest first) and
// whether a full window is available. The returned slice is a copy of
// the buffer's ordering but shares row storage with pushed values.
func (rb *RingBuffer) Window() ([][]float64, bool) {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	if rb.size < rb.capacity {
		return nil, false
	}

	result := make([][]float64, rb.size)
	for i := 0; i < rb.size; i++ {
		result[i] = rb.data[(rb.head+i)%rb.capacity]
	}
	return result, true
}

// Last returns the most recent row, or nil if empty.
func (rb *RingBuffer) Last() []float64 {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	if rb.size == 0 {
		return nil
	}
	return rb.data[(rb.head-1+rb.capacity)%rb.capacity]
}

// Clear empties the buffer.
func (rb *RingBuffer) Clear() {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	rb.size = 0
	rb.head = 0
}
