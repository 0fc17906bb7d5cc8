package progress

import (
	"math"
	"sync"
	"time"
)

type Stage string

const (
	StageList Stage = "list"
	StageScan Stage = "scan"
)

// Snapshot は多ファイル走査の進捗です。Errors はそれまでに見つかった診断数です。
type Snapshot struct {
	Stage     Stage         `json:"stage"`
	Total     int           `json:"total"`
	Done      int           `json:"done"`
	Remaining int           `json:"remaining"`
	Errors    int           `json:"errors"`
	File      string        `json:"file,omitempty"`
	RateEMA   float64       `json:"rate_per_sec"`
	RateP50   float64       `json:"rate_p50"`
	RateP10   float64       `json:"rate_p10"`
	ETAP50    time.Duration `json:"eta_p50"`
	ETAP90    time.Duration `json:"eta_p90"`
	Warmup    bool          `json:"warmup"`
	StartedAt time.Time     `json:"started_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	Elapsed   time.Duration `json:"elapsed"`
}

type Config struct {
	Alpha          float64
	WindowSize     int
	WarmupSamples  int
	WarmupDuration time.Duration
	NotifyInterval time.Duration
	SlowFallback   float64
	// Now is the clock; tests replace it.
	Now func() time.Time
}

func DefaultConfig() Config {
	return Config{
		Alpha:          0.2,
		WindowSize:     64,
		WarmupSamples:  16,
		WarmupDuration: time.Second,
		NotifyInterval: 200 * time.Millisecond,
		SlowFallback:   0.6,
		Now:            time.Now,
	}
}

func (c Config) withDefaults() Config {
	base := DefaultConfig()
	if c.Alpha > 0 && c.Alpha <= 1 {
		base.Alpha = c.Alpha
	}
	if c.WindowSize > 0 {
		base.WindowSize = c.WindowSize
	}
	if c.WarmupSamples > 0 {
		base.WarmupSamples = c.WarmupSamples
	}
	if c.WarmupDuration > 0 {
		base.WarmupDuration = c.WarmupDuration
	}
	if c.NotifyInterval > 0 {
		base.NotifyInterval = c.NotifyInterval
	}
	if c.SlowFallback > 0 {
		base.SlowFallback = c.SlowFallback
	}
	if c.Now != nil {
		base.Now = c.Now
	}
	return base
}

// Estimator tracks files per second with an EMA and a sliding window of
// instantaneous rates. It is safe for concurrent use by the scan workers.
type Estimator struct {
	mu         sync.Mutex
	cfg        Config
	start      time.Time
	lastUpdate time.Time
	lastNotify time.Time
	stage      Stage
	total      int
	done       int
	errors     int
	file       string
	ema        float64
	rates      *window
}

func NewEstimator(total int, cfg Config) *Estimator {
	cfg = cfg.withDefaults()
	now := cfg.Now()
	return &Estimator{
		cfg:        cfg,
		start:      now,
		lastUpdate: now,
		stage:      StageList,
		total:      total,
		rates:      newWindow(cfg.WindowSize),
	}
}

// Begin switches to stage with a new total and resets the rate history.
func (e *Estimator) Begin(stage Stage, total int) Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	now := e.cfg.Now()
	e.stage = stage
	e.total = total
	e.done = 0
	e.ema = 0
	e.rates = newWindow(e.cfg.WindowSize)
	e.lastUpdate = now
	e.lastNotify = now
	return e.snapshotLocked(now)
}

// Advance records one finished file with the number of diagnostics it
// produced. notify reports whether the snapshot should be published.
func (e *Estimator) Advance(file string, diagnostics int) (snap Snapshot, notify bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	now := e.cfg.Now()
	if now.Before(e.lastUpdate) {
		now = e.lastUpdate
	}
	dt := now.Sub(e.lastUpdate).Seconds()
	if dt <= 0 {
		dt = 1e-6
	}
	e.done++
	e.errors += diagnostics
	e.file = file
	instant := 1 / dt
	if math.IsNaN(instant) || math.IsInf(instant, 0) {
		instant = 0
	}
	if e.ema == 0 {
		e.ema = instant
	} else {
		e.ema = e.cfg.Alpha*instant + (1-e.cfg.Alpha)*e.ema
	}
	e.rates.Add(instant)
	e.lastUpdate = now
	snap = e.snapshotLocked(now)
	notify = now.Sub(e.lastNotify) >= e.cfg.NotifyInterval || snap.Remaining == 0
	if notify {
		e.lastNotify = now
	}
	return snap, notify
}

func (e *Estimator) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked(e.cfg.Now())
}

// Complete marks the stage finished.
func (e *Estimator) Complete() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.done < e.total {
		e.done = e.total
	}
	return e.snapshotLocked(e.cfg.Now())
}

func (e *Estimator) snapshotLocked(now time.Time) Snapshot {
	remain := e.total - e.done
	if remain < 0 {
		remain = 0
	}
	elapsed := now.Sub(e.start)
	warm := e.done >= e.cfg.WarmupSamples && elapsed >= e.cfg.WarmupDuration
	p50 := e.rates.Quantile(0.50)
	if p50 <= 0 {
		p50 = e.ema
	}
	p10 := e.rates.Quantile(0.10)
	if p10 <= 0 {
		p10 = p50 * e.cfg.SlowFallback
	}
	var eta50, eta90 time.Duration
	if warm && remain > 0 {
		eta50 = durationFrom(float64(remain), p50)
		eta90 = durationFrom(float64(remain), p10)
	}
	return Snapshot{
		Stage:     e.stage,
		Total:     e.total,
		Done:      e.done,
		Remaining: remain,
		Errors:    e.errors,
		File:      e.file,
		RateEMA:   e.ema,
		RateP50:   p50,
		RateP10:   p10,
		ETAP50:    eta50,
		ETAP90:    eta90,
		Warmup:    !warm,
		StartedAt: e.start,
		UpdatedAt: now,
		Elapsed:   elapsed,
	}
}

func durationFrom(count, rate float64) time.Duration {
	if rate <= 0 {
		return 0
	}
	seconds := count / rate
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return 0
	}
	if seconds > float64(math.MaxInt64)/float64(time.Second) {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(seconds * float64(time.Second))
}
