package scan

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"
)

// Options tunes a SimulatedScanner. Zero values fall back to the defaults.
type Options struct {
	MaxDetectionRate float64
	MinDelay         time.Duration
	MaxDelay         time.Duration

	// Seed makes the default random source deterministic when non-zero.
	Seed uint64

	Rand    RandSource
	Sleeper Sleeper
}

// Validate checks that the tuning values are usable.
func (o Options) Validate() error {
	if o.MaxDetectionRate < 0 || o.MaxDetectionRate > 1 {
		return fmt.Errorf("max detection rate must be within [0, 1], got %v", o.MaxDetectionRate)
	}
	if o.MinDelay < 0 || o.MaxDelay < 0 {
		return fmt.Errorf("delays must not be negative")
	}
	if o.MaxDelay != 0 && o.MaxDelay < o.MinDelay {
		return fmt.Errorf("max delay %s is below min delay %s", o.MaxDelay, o.MinDelay)
	}
	return nil
}

// SimulatedScanner fabricates engine verdicts. It never looks at file content.
type SimulatedScanner struct {
	maxRate  float64
	minDelay time.Duration
	maxDelay time.Duration
	rnd      RandSource
	sleeper  Sleeper
}

// NewSimulatedScanner creates a scanner from opts
func NewSimulatedScanner(opts Options) *SimulatedScanner {
	s := &SimulatedScanner{
		maxRate:  opts.MaxDetectionRate,
		minDelay: opts.MinDelay,
		maxDelay: opts.MaxDelay,
		rnd:      opts.Rand,
		sleeper:  opts.Sleeper,
	}
	if s.maxRate == 0 {
		s.maxRate = DefaultMaxDetectionRate
	}
	if s.minDelay == 0 && s.maxDelay == 0 {
		s.minDelay = DefaultMinDelay
		s.maxDelay = DefaultMaxDelay
	}
	if s.maxDelay < s.minDelay {
		s.maxDelay = s.minDelay
	}
	if s.rnd == nil {
		seed := opts.Seed
		if seed == 0 {
			seed = rand.Uint64()
		}
		s.rnd = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
	if s.sleeper == nil {
		s.sleeper = TimerSleeper{}
	}
	return s
}

// Run walks the roster in order. The only error it returns is ctx.Err().
func (s *SimulatedScanner) Run(ctx context.Context, onProgress ProgressFunc) (*Report, error) {
	report := &Report{
		Results:   make([]DetectionResult, 0, len(Roster)),
		StartedAt: time.Now(),
	}

	// One rate for the whole run, shared by every engine.
	rate := s.rnd.Float64() * s.maxRate
	report.DetectionRate = rate

	for i, engine := range Roster {
		if err := s.sleeper.Sleep(ctx, s.delay()); err != nil {
			return nil, err
		}

		result := DetectionResult{Engine: engine}
		if s.rnd.Float64() < rate {
			result.Detected = true
			result.MalwareLabel = s.pickLabel()
		}
		report.Results = append(report.Results, result)

		if onProgress != nil {
			onProgress(float64(i+1)/float64(len(Roster))*100, result)
		}
	}

	report.FinishedAt = time.Now()
	return report, nil
}

func (s *SimulatedScanner) delay() time.Duration {
	span := s.maxDelay - s.minDelay
	if span <= 0 {
		return s.minDelay
	}
	return s.minDelay + time.Duration(s.rnd.Float64()*float64(span))
}

func (s *SimulatedScanner) pickLabel() string {
	idx := int(s.rnd.Float64() * float64(len(MalwareLabels)))
	if idx >= len(MalwareLabels) {
		idx = len(MalwareLabels) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return MalwareLabels[idx]
}

// TimerSleeper sleeps on a real timer and wakes early on cancellation.
type TimerSleeper struct{}

// Sleep implements Sleeper
func (TimerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// NoSleep skips every delay. Useful for headless runs and tests.
type NoSleep struct{}

// Sleep implements Sleeper
func (NoSleep) Sleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}
