package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// lockedBuffer guards writes from the spinner goroutine.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerDrawsMessage(t *testing.T) {
	var out lockedBuffer
	s := newSpinner(context.Background(), &out, "Listing packages...")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.SetMessage("Still listing...")
	time.Sleep(200 * time.Millisecond)
	elapsed := s.Stop()

	got := out.String()
	if !strings.Contains(got, "Listing packages...") || !strings.Contains(got, "Still listing...") {
		t.Errorf("output missing messages: %q", got)
	}
	if elapsed < 400*time.Millisecond {
		t.Errorf("Stop() = %v, want at least 400ms", elapsed)
	}
	if s.Cancelled() {
		t.Error("Stop should not count as cancellation")
	}
}

func TestSpinnerWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinner(ctx, &lockedBuffer{}, "Testing with context...")
	s.Start()
	cancel()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context cancellation")
	}
	s.Stop()
}

func TestSpinnerWithTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s := newSpinner(ctx, &lockedBuffer{}, "Testing with timeout...")
	s.Start()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context timeout")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner(context.Background(), &lockedBuffer{}, "Testing idempotent stop...")
	s.Start()
	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	s := newSpinner(context.Background(), &lockedBuffer{}, "never started")
	if d := s.Stop(); d != 0 {
		t.Errorf("Stop() = %v, want 0", d)
	}
}

func TestSpinnerCancelledAfterStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinner(ctx, &lockedBuffer{}, "Listing packages...")
	s.Start()
	cancel()
	s.Stop()

	if !s.Cancelled() {
		t.Error("an interrupted run should still report cancellation after Stop")
	}
}
