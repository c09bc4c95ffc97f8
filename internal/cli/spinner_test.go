package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer guards a buffer written by the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func captureStderr(t *testing.T) *syncBuffer {
	t.Helper()
	buf := &syncBuffer{}
	old := stderr
	stderr = buf
	t.Cleanup(func() { stderr = old })
	return buf
}

func TestSpinnerLine(t *testing.T) {
	s := newSpinner(context.Background(), "Fetching plugin metadata")

	if got := s.line(); got != "Fetching plugin metadata" {
		t.Errorf("line() before scan = %q", got)
	}

	ctx := context.Background()
	s.OnScanComplete(ctx, 5, 3)
	s.OnFetchComplete(ctx, "woocommerce", time.Millisecond, nil)
	s.OnFetchComplete(ctx, "gone", time.Millisecond, errors.New("not found"))

	if got, want := s.line(), "Fetching plugin metadata (2/3)"; got != want {
		t.Errorf("line() = %q, want %q", got, want)
	}
}

func TestSpinnerDrawsAndClears(t *testing.T) {
	buf := captureStderr(t)

	s := newSpinner(context.Background(), "Working")
	s.OnScanComplete(context.Background(), 1, 4)
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	out := buf.String()
	if !strings.Contains(out, "Working (0/4)") {
		t.Errorf("output missing progress line: %q", out)
	}
	if !strings.HasSuffix(out, "\r") {
		t.Errorf("output should end by clearing the line: %q", out)
	}
}

func TestSpinnerStopsOnContextCancel(t *testing.T) {
	captureStderr(t)
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinner(ctx, "Cancelled")
	s.Start()
	cancel()

	select {
	case <-s.stopped:
	case <-time.After(time.Second):
		t.Fatal("spinner did not stop after context cancellation")
	}
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	captureStderr(t)
	s := newSpinner(context.Background(), "Twice")
	s.Start()

	s.Stop()
	s.Stop()
}
