package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/fireworks/core"
	"github.com/lixenwraith/fireworks/render"
)

// Rand is the host uniform random source, *rand.Rand from math/rand/v2 satisfies it
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// BurstTarget receives bursts, called inside the engine domain only
type BurstTarget interface {
	Size() (width, height int)
	SpawnBurst(x, y float64, color render.RGB, count int)
}

// BurstConfig is the burst cadence and appearance
type BurstConfig struct {
	Interval time.Duration
	Count    int
	Palette  []render.RGB
}

// BurstScheduler fires one burst on Start then one per timer period
// Same revocation contract as FrameScheduler: once Stop returns no burst fires
type BurstScheduler struct {
	cfg       BurstConfig
	target    BurstTarget
	rng       Rand
	newTicker TickerFunc
	domain    func(func())

	mu       sync.Mutex
	state    SchedulerState
	stopChan chan struct{}
	wg       sync.WaitGroup
	bursts   atomic.Uint64
}

// NewBurstScheduler creates an idle scheduler
// domain serializes each firing with the rest of the engine, nil runs inline
func NewBurstScheduler(cfg BurstConfig, target BurstTarget, rng Rand, newTicker TickerFunc, domain func(func())) *BurstScheduler {
	if newTicker == nil {
		newTicker = NewRealTicker
	}
	if domain == nil {
		domain = func(fn func()) { fn() }
	}
	return &BurstScheduler{
		cfg:       cfg,
		target:    target,
		rng:       rng,
		newTicker: newTicker,
		domain:    domain,
		stopChan:  make(chan struct{}),
	}
}

// Start fires the opening burst at the horizontal center, upper third, then arms the timer
func (bs *BurstScheduler) Start() {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	if bs.state != StateIdle {
		return
	}
	bs.state = StateRunning

	bs.domain(func() {
		w, h := bs.target.Size()
		bs.spawn(float64(w)/2, float64(h)/3)
	})

	if bs.cfg.Interval <= 0 {
		return
	}
	ticker := bs.newTicker(bs.cfg.Interval)
	bs.wg.Add(1)
	core.Go(func() { bs.loop(ticker) })
}

// Stop cancels the timer and waits for an in-flight firing
// No-op when Idle or already Stopped
func (bs *BurstScheduler) Stop() {
	bs.mu.Lock()
	if bs.state != StateRunning {
		bs.mu.Unlock()
		return
	}
	bs.state = StateStopped
	close(bs.stopChan)
	bs.mu.Unlock()

	bs.wg.Wait()
}

func (bs *BurstScheduler) State() SchedulerState {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	return bs.state
}

// Bursts returns the number of bursts fired
func (bs *BurstScheduler) Bursts() uint64 {
	return bs.bursts.Load()
}

func (bs *BurstScheduler) loop(ticker Ticker) {
	defer bs.wg.Done()
	defer ticker.Stop()

	for {
		select {
		case <-bs.stopChan:
			return
		case <-ticker.C():
			bs.fire()
		}
	}
}

// fire spawns at a random origin in the upper half unless Stop already won
func (bs *BurstScheduler) fire() {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	if bs.state != StateRunning {
		return
	}
	bs.domain(func() {
		w, h := bs.target.Size()
		x := bs.rng.Float64() * float64(w)
		y := bs.rng.Float64() * float64(h) * 0.5
		bs.spawn(x, y)
	})
}

// spawn picks the burst color, caller holds mu and the domain
func (bs *BurstScheduler) spawn(x, y float64) {
	if len(bs.cfg.Palette) == 0 || bs.cfg.Count <= 0 {
		return
	}
	color := bs.cfg.Palette[bs.rng.IntN(len(bs.cfg.Palette))]
	bs.target.SpawnBurst(x, y, color, bs.cfg.Count)
	bs.bursts.Add(1)
}
