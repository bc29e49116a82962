package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const (
	spinnerTick = 80 * time.Millisecond
	// Long analyses show elapsed seconds once they pass this.
	spinnerShowElapsed = 2 * time.Second
)

// spinner animates a status line on stderr while a layout or analysis
// runs. It ends when stop is called or its parent context is done.
type spinner struct {
	w     io.Writer
	label string
	begun time.Time

	ctx    context.Context
	cancel context.CancelFunc
	quit   chan struct{}
	exited chan struct{}
	halt   sync.Once

	mu    sync.Mutex
	drawn int // visible width of the last frame
}

func newSpinner(ctx context.Context, label string) *spinner {
	sctx, cancel := context.WithCancel(ctx)
	return &spinner{
		w:      os.Stderr,
		label:  label,
		ctx:    sctx,
		cancel: cancel,
		quit:   make(chan struct{}),
		exited: make(chan struct{}),
	}
}

func (s *spinner) start() {
	s.begun = time.Now()
	go s.loop()
}

func (s *spinner) loop() {
	defer close(s.exited)
	tick := time.NewTicker(spinnerTick)
	defer tick.Stop()

	for frame := 0; ; frame++ {
		select {
		case <-s.quit:
			return
		case <-s.ctx.Done():
			s.erase()
			return
		case <-tick.C:
			s.draw(frame)
		}
	}
}

func (s *spinner) draw(frame int) {
	text := s.label
	if d := time.Since(s.begun); d >= spinnerShowElapsed {
		text += fmt.Sprintf(" (%ds)", int(d.Seconds()))
	}
	line := styleIconSpinner.Render(spinnerFrames[frame%len(spinnerFrames)]) + " " + StyleDim.Render(text)

	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprint(s.w, "\r"+line)
	s.drawn = lipgloss.Width(line)
}

func (s *spinner) erase() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drawn > 0 {
		fmt.Fprint(s.w, "\r"+strings.Repeat(" ", s.drawn)+"\r")
		s.drawn = 0
	}
}

// stop ends the animation and erases the line. Repeated calls are no-ops.
func (s *spinner) stop() {
	s.halt.Do(func() {
		close(s.quit)
		s.cancel()
		<-s.exited
		s.erase()
	})
}

// interrupted reports whether the parent context ended before stop.
func (s *spinner) interrupted() bool {
	select {
	case <-s.quit:
		return false
	default:
		return s.ctx.Err() != nil
	}
}

// spin runs fn behind a spinner labelled label. A cancelled context is
// reported even when fn itself succeeds.
func spin[T any](ctx context.Context, label string, fn func() (T, error)) (T, error) {
	s := newSpinner(ctx, label)
	s.start()
	v, err := fn()
	s.stop()
	if err != nil {
		printError("%s failed", label)
		return v, err
	}
	return v, ctx.Err()
}
