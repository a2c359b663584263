package output

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/blackwell-systems/apriori/internal/itemset"
)

// writerIsTTY returns true if the given writer exposes an Fd() method
// (e.g. *os.File) and that fd is a terminal. Falls back to false for
// plain io.Writer values such as *bytes.Buffer.
func writerIsTTY(w io.Writer) bool {
	type fder interface {
		Fd() uintptr
	}
	if f, ok := w.(fder); ok {
		return isatty.IsTerminal(f.Fd())
	}
	return false
}

// LevelStat summarises one level of a mining run.
type LevelStat struct {
	Size       int
	Candidates int
	Frequent   int
}

// LevelProgress shows one progress bar per level while the miner counts
// candidates. It implements apriori.Observer. On a non-TTY writer nothing is
// drawn but the per-level statistics are still recorded.
type LevelProgress struct {
	mu      sync.Mutex
	writer  io.Writer
	visible bool
	bar     *progressbar.ProgressBar
	levels  []LevelStat
}

// NewLevelProgress creates a level progress display writing to w.
func NewLevelProgress(w io.Writer) *LevelProgress {
	return &LevelProgress{
		writer:  w,
		visible: writerIsTTY(w),
	}
}

// LevelStarted begins a new bar sized to the number of candidates.
func (p *LevelProgress) LevelStarted(size, candidates int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.levels = append(p.levels, LevelStat{Size: size, Candidates: candidates})
	if !p.visible || candidates == 0 {
		return
	}
	p.bar = progressbar.NewOptions(candidates,
		progressbar.OptionSetWriter(p.writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(fmt.Sprintf("[cyan]Level %d[reset]", size)),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionClearOnFinish(),
	)
}

// CandidateCounted advances the current bar.
func (p *LevelProgress) CandidateCounted(itemset.Itemset, int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar != nil {
		_ = p.bar.Add(1)
	}
}

// LevelFinished closes the current bar and records the frequent count.
func (p *LevelProgress) LevelFinished(size, frequent int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if n := len(p.levels); n > 0 && p.levels[n-1].Size == size {
		p.levels[n-1].Frequent = frequent
	}
	if p.bar != nil {
		_ = p.bar.Finish()
		p.bar = nil
	}
	if p.visible {
		stat := p.levels[len(p.levels)-1]
		fmt.Fprintf(p.writer, "Level %d: %d candidates, %d frequent\n", size, stat.Candidates, frequent)
	}
}

// Levels returns the statistics recorded so far.
func (p *LevelProgress) Levels() []LevelStat {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]LevelStat, len(p.levels))
	copy(out, p.levels)
	return out
}

// Spinner displays an animated spinner with a message.
// Example: |  Loading baskets.csv...
type Spinner struct {
	message string
	running bool
	mu      sync.Mutex
	writer  io.Writer
	bar     *progressbar.ProgressBar
	ticker  *time.Ticker
	done    chan struct{}
}

// NewSpinner creates a new spinner writing to w.
// If w is not a TTY, the animation goroutine is skipped and the message is
// printed once so that log output is not cluttered.
func NewSpinner(w io.Writer, message string) *Spinner {
	return &Spinner{
		message: message,
		writer:  w,
		done:    make(chan struct{}),
	}
}

// Start begins the spinner animation.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	s.running = true

	if !writerIsTTY(s.writer) {
		fmt.Fprintf(s.writer, "%s...\n", s.message)
		return
	}

	s.bar = progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(s.writer),
		progressbar.OptionSetDescription(s.message),
		progressbar.OptionSpinnerType(9),
		progressbar.OptionClearOnFinish(),
	)
	s.ticker = time.NewTicker(100 * time.Millisecond)

	go func() {
		for {
			select {
			case <-s.ticker.C:
				s.mu.Lock()
				if s.running && s.bar != nil {
					_ = s.bar.Add(1)
				}
				s.mu.Unlock()
			case <-s.done:
				return
			}
		}
	}()
}

// Stop stops the spinner animation and clears the line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.running = false

	if s.ticker != nil {
		s.ticker.Stop()
		close(s.done)
	}
	if s.bar != nil {
		_ = s.bar.Finish()
		s.bar = nil
	}
}

// StopWithMessage stops the spinner and displays a final message.
func (s *Spinner) StopWithMessage(message string) {
	s.Stop()
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.writer, message)
}
