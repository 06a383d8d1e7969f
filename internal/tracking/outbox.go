package tracking

import "sync"

// defaultOutboxCap bounds the retry buffer; the oldest entries are dropped
// first when the broker stays down.
const defaultOutboxCap = 256

// Outbox is a bounded in-memory FIFO holding delivery payloads that could not
// be enqueued on the broker. It trades durability for a hard memory ceiling:
// tracking is advisory data.
type Outbox struct {
	mu      sync.Mutex
	entries []Payload
	cap     int
	dropped int
}

// NewOutbox creates an outbox with the given capacity, or the default when
// size is not positive.
func NewOutbox(size int) *Outbox {
	if size <= 0 {
		size = defaultOutboxCap
	}
	return &Outbox{cap: size}
}

// Add appends a payload, evicting the oldest entry when full. Returns true
// when an entry was evicted.
func (o *Outbox) Add(p Payload) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	evicted := false
	if len(o.entries) >= o.cap {
		o.entries = o.entries[1:]
		o.dropped++
		evicted = true
	}
	o.entries = append(o.entries, p)
	return evicted
}

// Drain removes and returns up to n buffered payloads, oldest first.
func (o *Outbox) Drain(n int) []Payload {
	o.mu.Lock()
	defer o.mu.Unlock()

	if n <= 0 || n > len(o.entries) {
		n = len(o.entries)
	}
	if n == 0 {
		return nil
	}

	out := make([]Payload, n)
	copy(out, o.entries[:n])
	o.entries = append(o.entries[:0], o.entries[n:]...)
	return out
}

// Requeue puts payloads back at the front, oldest first, respecting the cap.
func (o *Outbox) Requeue(payloads []Payload) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.entries = append(payloads, o.entries...)
	for len(o.entries) > o.cap {
		o.entries = o.entries[:len(o.entries)-1]
		o.dropped++
	}
}

// Len returns the number of buffered payloads.
func (o *Outbox) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.entries)
}

// Dropped returns how many payloads were evicted since startup.
func (o *Outbox) Dropped() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.dropped
}
