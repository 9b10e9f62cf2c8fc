package engine

import (
	"sync"
	"time"
)

// ScanBuffer accumulates raw scanner input that may arrive keystroke by
// keystroke. Each Feed cancels and re-arms a delayed fire; only the task
// that survives un-cancelled for the full quiet period runs. Input arriving
// faster than the quiet period is coalesced, last full buffer wins.
type ScanBuffer struct {
	mu      sync.Mutex
	pending string
	timer   *time.Timer
	delay   time.Duration
	fire    func()
	stopped bool
}

// NewScanBuffer creates a buffer that calls fire after delay of quiet.
func NewScanBuffer(delay time.Duration, fire func()) *ScanBuffer {
	return &ScanBuffer{delay: delay, fire: fire}
}

// Feed appends chunk and re-arms the quiet-period task.
func (b *ScanBuffer) Feed(chunk string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stopped {
		return
	}
	b.pending += chunk
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.delay, b.fire)
}

// Take returns the buffered input and clears it without firing.
func (b *ScanBuffer) Take() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	raw := b.pending
	b.pending = ""
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	return raw
}

// Restore puts unconsumed input back at the front of the buffer. It does not
// re-arm the task; the next Feed will.
func (b *ScanBuffer) Restore(raw string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending = raw + b.pending
}

// Pending returns the buffered input without consuming it.
func (b *ScanBuffer) Pending() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pending
}

// Clear empties the buffer and cancels any pending task.
func (b *ScanBuffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending = ""
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}

// Stop permanently cancels the buffer; further Feeds are ignored.
func (b *ScanBuffer) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopped = true
	b.pending = ""
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}
