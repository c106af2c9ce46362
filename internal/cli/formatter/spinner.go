package formatter

import (
	"fmt"
	"io"
	"sync"
	"time"
)

var spinnerFrames = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

const spinnerTick = 100 * time.Millisecond

// Spinner shows a message and the elapsed time while a coaching call runs.
// Generations take tens of seconds, so the clock matters more than the frame.
type Spinner struct {
	w       io.Writer
	started time.Time

	mu  sync.Mutex
	msg string

	once sync.Once
	quit chan struct{}
	wg   sync.WaitGroup
}

func NewSpinner(w io.Writer, msg string) *Spinner {
	return &Spinner{w: w, msg: msg, quit: make(chan struct{})}
}

// Start begins drawing on a single terminal line.
func (s *Spinner) Start() {
	s.started = time.Now()
	s.wg.Add(1)
	go s.loop()
}

// SetMessage replaces the text shown next to the frame.
func (s *Spinner) SetMessage(msg string) {
	s.mu.Lock()
	s.msg = msg
	s.mu.Unlock()
}

// Stop clears the line. Safe to call more than once.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		close(s.quit)
		s.wg.Wait()
		fmt.Fprint(s.w, "\r\033[K")
	})
}

func (s *Spinner) loop() {
	defer s.wg.Done()
	ticker := time.NewTicker(spinnerTick)
	defer ticker.Stop()

	frame := 0
	for {
		select {
		case <-s.quit:
			return
		case <-ticker.C:
			s.mu.Lock()
			msg := s.msg
			s.mu.Unlock()
			fmt.Fprint(s.w, s.line(frame, msg, time.Since(s.started)))
			frame++
		}
	}
}

func (s *Spinner) line(frame int, msg string, elapsed time.Duration) string {
	glyph := spinnerFrames[frame%len(spinnerFrames)]
	return fmt.Sprintf("\r\033[K  %s %s %s",
		StylePurple.Render(glyph), msg, Dim(fmt.Sprintf("%ds", int(elapsed.Seconds()))))
}

// StartSpinner starts a spinner on w and returns its stop function.
func StartSpinner(w io.Writer, msg string) func() {
	s := NewSpinner(w, msg)
	s.Start()
	return s.Stop
}
