package progress

import (
	"fmt"
	"io"
	"math"
	"os"
	"sync"
	"time"

	"golang.org/x/term"

	"github.com/phyten/ppcheck/internal/textutil"
)

type Observer interface {
	Publish(Snapshot)
	Done(Snapshot)
}

type NoopObserver struct{}

func (NoopObserver) Publish(Snapshot) {}
func (NoopObserver) Done(Snapshot)    {}

type ObserverFunc func(Snapshot)

func (f ObserverFunc) Publish(s Snapshot) { f(s) }
func (ObserverFunc) Done(Snapshot)        {}

type multiObserver []Observer

// NewMultiObserver fans snapshots out to every non-nil observer in order.
func NewMultiObserver(obs ...Observer) Observer {
	var m multiObserver
	for _, ob := range obs {
		if ob != nil {
			m = append(m, ob)
		}
	}
	if len(m) == 0 {
		return NoopObserver{}
	}
	return m
}

func (m multiObserver) Publish(s Snapshot) {
	for _, ob := range m {
		ob.Publish(s)
	}
}

func (m multiObserver) Done(s Snapshot) {
	for _, ob := range m {
		ob.Done(s)
	}
}

// ShouldShowProgress decides the default: shown only when both stdout and
// stderr are terminals, unless forced either way.
func ShouldShowProgress(force, no bool) bool {
	switch {
	case no:
		return false
	case force:
		return true
	}
	return isTTY(os.Stdout) && isTTY(os.Stderr)
}

// writerObserver serialises rendering onto one writer. publish and done
// return the bytes to emit for a snapshot.
type writerObserver struct {
	mu      sync.Mutex
	w       io.Writer
	publish func(Snapshot) string
	done    func(Snapshot) string
}

func (o *writerObserver) Publish(s Snapshot) { o.emit(o.publish(s)) }
func (o *writerObserver) Done(s Snapshot)    { o.emit(o.done(s)) }

func (o *writerObserver) emit(text string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, _ = io.WriteString(o.w, text)
}

// NewTTYObserver redraws a single status line, cut to the terminal width.
func NewTTYObserver(w io.Writer) Observer {
	w = orStderr(w)
	width := 0
	if f, ok := w.(*os.File); ok {
		if cols, _, err := term.GetSize(int(f.Fd())); err == nil {
			width = cols
		}
	}
	const reset = "\r\033[K"
	return &writerObserver{
		w: w,
		publish: func(s Snapshot) string {
			line := renderTTY(s)
			if width > 1 {
				line = textutil.TruncateByWidth(line, width-1, "…")
			}
			return reset + line
		},
		done: func(Snapshot) string { return reset },
	}
}

// NewLineObserver writes one key=value record per snapshot, for logs and pipes.
func NewLineObserver(w io.Writer) Observer {
	line := func(s Snapshot) string { return renderLine(s) + "\n" }
	return &writerObserver{w: orStderr(w), publish: line, done: line}
}

func NewAutoObserver(w io.Writer) Observer {
	w = orStderr(w)
	if f, ok := w.(*os.File); ok && isTTY(f) {
		return NewTTYObserver(w)
	}
	return NewLineObserver(w)
}

func orStderr(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}

func renderTTY(s Snapshot) string {
	rate, eta := "--/s", "--:--:--"
	if !s.Warmup {
		if s.RateEMA > 0 {
			rate = fmt.Sprintf("%.1f/s", s.RateEMA)
		}
		if s.ETAP50 > 0 {
			eta = formatETA(s.ETAP50)
		}
	}
	line := fmt.Sprintf("[%s] %3d%% %d/%d files, %d errors %s ETA %s", s.Stage, percent(s.Done, s.Total), s.Done, s.Total, s.Errors, rate, eta)
	if s.File != "" {
		line += " " + s.File
	}
	return line
}

func renderLine(s Snapshot) string {
	return fmt.Sprintf("progress stage=%s total=%d done=%d errors=%d rate=%.3f eta_p50=%g eta_p90=%g warmup=%t updated_at=%s",
		s.Stage, s.Total, s.Done, s.Errors, s.RateEMA, secondsOrNegOne(s.ETAP50), secondsOrNegOne(s.ETAP90), s.Warmup, s.UpdatedAt.Format(time.RFC3339Nano))
}

// formatETA renders hh:mm:ss, saturating the hour field at 99.
func formatETA(d time.Duration) string {
	secs := max(int(math.Round(d.Seconds())), 0)
	return fmt.Sprintf("%02d:%02d:%02d", min(secs/3600, 99), secs/60%60, secs%60)
}

func secondsOrNegOne(d time.Duration) float64 {
	if d <= 0 {
		return -1
	}
	return d.Seconds()
}

// percent は done/total を 0..100 に丸めます。total が 0 のときは done の有無だけで決めます。
func percent(done, total int) int {
	switch {
	case done <= 0:
		return 0
	case total <= 0:
		return 100
	}
	return min(done*100/total, 100)
}

func isTTY(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}
