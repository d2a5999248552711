// @focus: #engine { scheduler }
package engine

import (
	"sync"
	"sync/atomic"

	"github.com/lixenwraith/fireworks/core"
)

// SchedulerState is the lifecycle of a frame or burst scheduler
type SchedulerState int32

const (
	StateIdle SchedulerState = iota
	StateRunning
	StateStopped // Terminal
)

func (s SchedulerState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// FrameScheduler invokes tick once per host frame signal while running
// mu is held across the callback, so Stop returns only after an in-flight tick and
// revokes every later one
type FrameScheduler struct {
	mu    sync.Mutex
	state SchedulerState
	tick  func()

	// Frame synchronization channels
	frameReady <-chan struct{} // Receive: host frame is ready
	updateDone chan struct{}   // Send: tick complete, capacity 1

	stopChan chan struct{}
	wg       sync.WaitGroup
	ticks    atomic.Uint64
}

// NewFrameScheduler binds tick to the host frame source
// Returns the scheduler and its updateDone channel for hosts that wait on each tick
func NewFrameScheduler(frameReady <-chan struct{}, tick func()) (*FrameScheduler, <-chan struct{}) {
	updateDone := make(chan struct{}, 1)
	return &FrameScheduler{
		tick:       tick,
		frameReady: frameReady,
		updateDone: updateDone,
		stopChan:   make(chan struct{}),
	}, updateDone
}

// Start moves Idle to Running, any other state is left untouched
func (fs *FrameScheduler) Start() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.state != StateIdle {
		return
	}
	fs.state = StateRunning
	fs.wg.Add(1)
	core.Go(fs.loop)
}

// Stop moves Running to Stopped and waits for the loop to exit
// No-op when Idle or already Stopped; must not be called from inside tick
func (fs *FrameScheduler) Stop() {
	fs.mu.Lock()
	if fs.state != StateRunning {
		fs.mu.Unlock()
		return
	}
	fs.state = StateStopped
	close(fs.stopChan)
	fs.mu.Unlock()

	fs.wg.Wait()
}

func (fs *FrameScheduler) State() SchedulerState {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.state
}

// Ticks returns completed tick count
func (fs *FrameScheduler) Ticks() uint64 {
	return fs.ticks.Load()
}

func (fs *FrameScheduler) loop() {
	defer fs.wg.Done()

	for {
		select {
		case <-fs.stopChan:
			return
		case _, ok := <-fs.frameReady:
			if !ok {
				return
			}
			if !fs.runTick() {
				return
			}
		}
	}
}

// runTick runs one callback unless Stop won the race for mu
func (fs *FrameScheduler) runTick() bool {
	fs.mu.Lock()
	if fs.state != StateRunning {
		fs.mu.Unlock()
		return false
	}
	fs.tick()
	fs.ticks.Add(1)
	fs.mu.Unlock()

	// Non-blocking, a host that is not waiting drops the signal
	select {
	case fs.updateDone <- struct{}{}:
	default:
	}
	return true
}
