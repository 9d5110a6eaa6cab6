// Package player wraps an embedded video player runtime behind a
// command-safe adapter: commands issued before the runtime is ready are
// queued and replayed in order once it is.
package player

import (
	"sync"
	"time"

	zlog "github.com/rs/zerolog/log"
)

// pollInterval is how often the playback position is sampled while playing.
const pollInterval = time.Second

// Runtime is the minimal control surface of an embedded player. Calls are
// only valid after the runtime has signalled readiness; the Adapter enforces
// that.
type Runtime interface {
	Load(videoID string)
	Play()
	Pause()
	Seek(seconds float64)
	SetMuted(muted bool)
	CurrentTime() float64
	Duration() float64
	Destroy()
}

// Callbacks are invoked on player events. Nil callbacks are skipped. They
// are called without the adapter lock held.
type Callbacks struct {
	OnEnded func(videoID string)
	OnError func(videoID string, code int)
}

// Adapter serializes access to a Runtime and smooths over its lifecycle.
type Adapter struct {
	mu sync.Mutex

	runtime   Runtime
	callbacks Callbacks

	ready       bool
	pending     []func() // commands queued before ready, replayed in order
	videoID     string
	wantPlaying bool
	muted       bool
	state       State
	errCode     int  // latched runtime error, 0 when none
	endedFired  bool // OnEnded already delivered for the current video
	closed      bool

	// last known position per video, restored when the video is retargeted
	positions map[string]float64

	pollStop chan struct{}
}

// New creates an adapter around the given runtime. A background sampler
// records the playback position while playing; Close stops it.
func New(runtime Runtime, callbacks Callbacks) *Adapter {
	a := &Adapter{
		runtime:   runtime,
		callbacks: callbacks,
		state:     StateUnstarted,
		positions: make(map[string]float64),
		pollStop:  make(chan struct{}),
	}
	go a.pollPosition()
	return a
}

func (a *Adapter) pollPosition() {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-a.pollStop:
			return
		case <-ticker.C:
			a.mu.Lock()
			if !a.closed && a.ready && a.state == StatePlaying && a.videoID != "" {
				a.positions[a.videoID] = a.runtime.CurrentTime()
			}
			a.mu.Unlock()
		}
	}
}

// SetVideo targets a new video. Any latched error clears, the ended guard
// resets, and the mute state carries over. If a position was recorded for
// the video it is restored.
func (a *Adapter) SetVideo(videoID string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed || videoID == "" {
		return
	}

	a.videoID = videoID
	a.errCode = 0
	a.endedFired = false
	a.state = StateUnstarted

	muted := a.muted
	pos, hasPos := a.positions[videoID]

	a.dispatchLocked(func() {
		a.runtime.Load(videoID)
		a.runtime.SetMuted(muted)
		if hasPos && pos > 0 {
			a.runtime.Seek(pos)
		}
	})
}

// Play requests playback of the current video.
func (a *Adapter) Play() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed || a.videoID == "" || a.errCode != 0 {
		return
	}
	a.wantPlaying = true
	a.dispatchLocked(a.runtime.Play)
}

// Pause requests a pause.
func (a *Adapter) Pause() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed || a.videoID == "" || a.errCode != 0 {
		return
	}
	a.wantPlaying = false
	a.dispatchLocked(a.runtime.Pause)
}

// Toggle flips between play and pause.
func (a *Adapter) Toggle() {
	a.mu.Lock()
	wantPlaying := a.wantPlaying
	a.mu.Unlock()

	if wantPlaying {
		a.Pause()
	} else {
		a.Play()
	}
}

// Seek jumps to the given position and records it for the current video.
func (a *Adapter) Seek(seconds float64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed || a.videoID == "" || a.errCode != 0 {
		return
	}
	a.positions[a.videoID] = seconds
	a.dispatchLocked(func() { a.runtime.Seek(seconds) })
}

// SetMuted mutes or unmutes. The setting survives retargeting.
func (a *Adapter) SetMuted(muted bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return
	}
	a.muted = muted
	a.dispatchLocked(func() { a.runtime.SetMuted(muted) })
}

// ToggleMute flips the mute state.
func (a *Adapter) ToggleMute() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return
	}
	a.muted = !a.muted
	muted := a.muted
	a.dispatchLocked(func() { a.runtime.SetMuted(muted) })
}

// Stop rewinds to the start and pauses, keeping the video targeted.
func (a *Adapter) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed || a.videoID == "" || a.errCode != 0 {
		return
	}
	a.wantPlaying = false
	delete(a.positions, a.videoID)
	a.dispatchLocked(func() {
		a.runtime.Seek(0)
		a.runtime.Pause()
	})
}

// Cancel rewinds, pauses and drops the video target entirely.
func (a *Adapter) Cancel() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return
	}
	if a.videoID != "" {
		delete(a.positions, a.videoID)
		a.dispatchLocked(func() {
			a.runtime.Seek(0)
			a.runtime.Pause()
		})
	}
	a.videoID = ""
	a.wantPlaying = false
	a.state = StateUnstarted
}

// Close stops the position sampler and destroys the runtime. The adapter
// accepts no commands afterwards.
func (a *Adapter) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return
	}
	a.closed = true
	close(a.pollStop)
	a.pending = nil
	if a.ready {
		a.runtime.Destroy()
	}
}

// HandleReady is called by the runtime once it can accept commands. Queued
// commands replay in the order they were issued.
func (a *Adapter) HandleReady() {
	a.mu.Lock()
	if a.closed || a.ready {
		a.mu.Unlock()
		return
	}
	a.ready = true
	pending := a.pending
	a.pending = nil
	a.mu.Unlock()

	for _, cmd := range pending {
		cmd()
	}
}

// HandleStateChange is called by the runtime on every state transition.
// The ended state fires OnEnded at most once per targeted video.
func (a *Adapter) HandleStateChange(state State) {
	a.mu.Lock()

	if a.closed {
		a.mu.Unlock()
		return
	}
	a.state = state

	var onEnded func(string)
	videoID := a.videoID
	if state == StateEnded && !a.endedFired && videoID != "" {
		a.endedFired = true
		a.wantPlaying = false
		delete(a.positions, videoID)
		onEnded = a.callbacks.OnEnded
	}
	a.mu.Unlock()

	if onEnded != nil {
		onEnded(videoID)
	}
}

// HandleProgress records the playback position for the current video.
func (a *Adapter) HandleProgress(seconds float64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed || a.videoID == "" {
		return
	}
	a.positions[a.videoID] = seconds
}

// HandleError latches a runtime error until the next SetVideo.
func (a *Adapter) HandleError(code int) {
	a.mu.Lock()

	if a.closed {
		a.mu.Unlock()
		return
	}
	a.errCode = code
	a.wantPlaying = false
	videoID := a.videoID
	onError := a.callbacks.OnError
	a.mu.Unlock()

	zlog.Warn().Int("code", code).Str("video", videoID).Msg("player error")
	if onError != nil {
		onError(videoID, code)
	}
}

// Err returns the latched error code, 0 when none.
func (a *Adapter) Err() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.errCode
}

// State returns the last reported runtime state.
func (a *Adapter) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Position returns the last recorded position of the current video.
func (a *Adapter) Position() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.positions[a.videoID]
}

// Duration returns the runtime's reported duration, 0 before ready.
func (a *Adapter) Duration() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed || !a.ready {
		return 0
	}
	return a.runtime.Duration()
}

// VideoID returns the currently targeted video, empty when none.
func (a *Adapter) VideoID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.videoID
}

// dispatchLocked runs cmd now when the runtime is ready, otherwise queues
// it. While an error is latched nothing reaches the runtime; SetVideo
// clears the latch before dispatching. Callers hold the lock.
func (a *Adapter) dispatchLocked(cmd func()) {
	if a.errCode != 0 {
		return
	}
	if a.ready {
		cmd()
		return
	}
	a.pending = append(a.pending, cmd)
}
