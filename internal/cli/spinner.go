package cli

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/matzehuels/causaltower/pkg/observability"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// searchSpinner animates while an identify query runs and counts the
// district searches reported through the query hooks. Events are forwarded
// to the hooks that were registered before it.
type searchSpinner struct {
	w       io.Writer
	message string
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	once    sync.Once

	mu        sync.Mutex
	width     int
	districts int
	sequences int
	states    int
	prev      observability.QueryHooks
}

// newSearchSpinner creates a spinner writing to w that stops when ctx is
// done.
func newSearchSpinner(ctx context.Context, w io.Writer, message string) *searchSpinner {
	ctx, cancel := context.WithCancel(ctx)
	return &searchSpinner{
		w:       w,
		message: message,
		ctx:     ctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
		prev:    observability.NoopQueryHooks{},
	}
}

// Start registers the spinner as the query hooks and begins the animation.
func (s *searchSpinner) Start() {
	s.prev = observability.Query()
	observability.SetQueryHooks(s)

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

// Stop ends the animation, clears the line and restores the previous hooks.
// It is safe to call more than once.
func (s *searchSpinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		<-s.stopped
		observability.SetQueryHooks(s.prev)
		s.clearLine()
	})
}

// Status is the spinner text: the message plus search counts once the first
// district has finished.
func (s *searchSpinner) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status()
}

func (s *searchSpinner) status() string {
	if s.districts == 0 {
		return s.message
	}
	unit := "districts"
	if s.districts == 1 {
		unit = "district"
	}
	return fmt.Sprintf("%s %d %s, %d sequences, %d states", s.message, s.districts, unit, s.sequences, s.states)
}

func (s *searchSpinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text := s.status()
	s.width = max(s.width, len(text)+2)
	fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(text))
}

func (s *searchSpinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.w, "\r%*s\r", s.width, "")
	}
}

func (s *searchSpinner) OnQueryStart(ctx context.Context, kind, graph string) {
	s.prev.OnQueryStart(ctx, kind, graph)
}

func (s *searchSpinner) OnQueryComplete(ctx context.Context, kind string, d time.Duration, err error) {
	s.prev.OnQueryComplete(ctx, kind, d, err)
}

// OnSearch is called concurrently by the district searches.
func (s *searchSpinner) OnSearch(ctx context.Context, district string, sequences, states int) {
	s.mu.Lock()
	s.districts++
	s.sequences += sequences
	s.states += states
	s.mu.Unlock()
	s.prev.OnSearch(ctx, district, sequences, states)
}

var _ observability.QueryHooks = (*searchSpinner)(nil)
