package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/matzehuels/plugdeps/pkg/observability"
)

// stderr receives transient progress output.
var stderr io.Writer = os.Stderr

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates while a pass fetches metadata. It doubles as resolve
// hooks so the line can show how many required slugs have been queried.
type Spinner struct {
	observability.NoopResolveHooks

	message string
	total   atomic.Int64
	fetched atomic.Int64

	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	once    sync.Once
	mu      sync.Mutex
	width   int // longest line written, for clearing
}

var _ observability.ResolveHooks = (*Spinner)(nil)

// newSpinner creates a spinner that stops when ctx is cancelled.
func newSpinner(ctx context.Context, message string) *Spinner {
	spinnerCtx, cancel := context.WithCancel(ctx)
	return &Spinner{
		message: message,
		ctx:     spinnerCtx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
}

// OnScanComplete records how many slugs the pass will query.
func (s *Spinner) OnScanComplete(_ context.Context, _, required int) {
	s.total.Store(int64(required))
}

// OnFetchComplete counts a finished query, successful or not.
func (s *Spinner) OnFetchComplete(context.Context, string, time.Duration, error) {
	s.fetched.Add(1)
}

// Start begins the animation.
func (s *Spinner) Start() {
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.draw(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

// Stop ends the animation and clears the line. It is safe to call twice.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		<-s.stopped
		s.clearLine()
	})
}

// line renders the status text for the current counters.
func (s *Spinner) line() string {
	total := s.total.Load()
	if total == 0 {
		return s.message
	}
	return fmt.Sprintf("%s (%d/%d)", s.message, s.fetched.Load(), total)
}

func (s *Spinner) draw(frame string) {
	text := s.line()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = max(s.width, len(text)+2)
	fmt.Fprintf(stderr, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(text))
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width == 0 {
		return
	}
	fmt.Fprintf(stderr, "\r%s\r", strings.Repeat(" ", s.width+2))
}
