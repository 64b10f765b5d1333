// Package capture turns a live microphone stream into discrete,
// silence-terminated audio segments. The engine is frame-driven: the
// caller feeds PCM frames and the engine decides when the utterance is
// over. Silence is judged relative to how loud the speaker has been, so
// quiet speakers are not cut off and loud rooms do not false-trigger.
package capture

import (
	"sync"
	"time"
)

// State tags the engine lifecycle.
type State int

const (
	// StateIdle means no capture is in progress.
	StateIdle State = iota
	// StateCapturing means frames are being accumulated and analyzed.
	StateCapturing
	// StateFinalizing means the current segment is being flushed. All
	// exit paths pass through this state exactly once.
	StateFinalizing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCapturing:
		return "capturing"
	case StateFinalizing:
		return "finalizing"
	default:
		return "unknown"
	}
}

// Policy tunes the auto-stop classifier. Zero values select defaults.
type Policy struct {
	// StaticFloor is the lowest the instant silence threshold can go.
	StaticFloor float64
	// SpeechFloor is the absolute level that marks the segment as
	// containing speech. Auto-stop never fires before it is crossed.
	SpeechFloor float64
	// RelativeRatio scales the running peak into the instant threshold:
	// threshold = max(StaticFloor, maxLevelSoFar * RelativeRatio).
	RelativeRatio float64
	// SilenceDelay is how long the level must stay below the threshold
	// before capture stops.
	SilenceDelay time.Duration
	// MinSegmentBytes discards finished segments smaller than this, so
	// empty noise bursts are never emitted.
	MinSegmentBytes int
}

const (
	DefaultStaticFloor     = 5.0
	DefaultSpeechFloor     = 12.0
	DefaultRelativeRatio   = 0.3
	DefaultSilenceDelay    = 2 * time.Second
	DefaultMinSegmentBytes = 4096
)

func (p Policy) withDefaults() Policy {
	if p.StaticFloor <= 0 {
		p.StaticFloor = DefaultStaticFloor
	}
	if p.SpeechFloor <= 0 {
		p.SpeechFloor = DefaultSpeechFloor
	}
	if p.RelativeRatio <= 0 {
		p.RelativeRatio = DefaultRelativeRatio
	}
	if p.SilenceDelay <= 0 {
		p.SilenceDelay = DefaultSilenceDelay
	}
	if p.MinSegmentBytes <= 0 {
		p.MinSegmentBytes = DefaultMinSegmentBytes
	}
	return p
}

// Config wires an engine.
type Config struct {
	Policy Policy
	// OnSegment receives each finished segment that met the minimum
	// size. Called without the engine lock held.
	OnSegment func(segment []byte)
	// OnLevel, if set, receives every analysis sample (for a UI meter).
	OnLevel func(level Level)
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Engine is the capture state machine. Methods are safe for concurrent
// use; Process calls are expected from a single reader loop.
type Engine struct {
	policy    Policy
	onSegment func([]byte)
	onLevel   func(Level)
	now       func() time.Time

	mu        sync.Mutex
	state     State
	buf       []byte
	maxLevel  float64
	hasSpoken bool
	lastAbove time.Time
	backstop  *time.Timer
}

// NewEngine creates an idle engine.
func NewEngine(cfg Config) *Engine {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{
		policy:    cfg.Policy.withDefaults(),
		onSegment: cfg.OnSegment,
		onLevel:   cfg.OnLevel,
		now:       now,
		state:     StateIdle,
	}
}

// State reports the current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Start begins a new segment. Starting while already capturing is a
// no-op; the first capture wins.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateIdle {
		return
	}
	e.state = StateCapturing
	e.buf = e.buf[:0]
	e.maxLevel = 0
	e.hasSpoken = false
	e.lastAbove = e.now()
}

// Process feeds one frame of PCM audio. It accumulates the frame,
// updates the auto-stop state, and returns true when the silence policy
// finalized the segment on this frame. Frames outside StateCapturing
// are dropped.
func (e *Engine) Process(frame []byte) (stopped bool) {
	level := AnalyzeFrame(frame)
	if e.onLevel != nil {
		e.onLevel(level)
	}

	e.mu.Lock()
	if e.state != StateCapturing {
		e.mu.Unlock()
		return false
	}
	e.buf = append(e.buf, frame...)

	sample := level.RMS
	if level.Peak > e.maxLevel {
		e.maxLevel = level.Peak
	}
	if sample >= e.policy.SpeechFloor {
		e.hasSpoken = true
	}

	threshold := e.policy.StaticFloor
	if dynamic := e.maxLevel * e.policy.RelativeRatio; dynamic > threshold {
		threshold = dynamic
	}

	now := e.now()
	if sample >= threshold {
		e.lastAbove = now
		e.clearBackstopLocked()
		e.mu.Unlock()
		return false
	}

	// Below threshold. Never stop before any speech was heard.
	if !e.hasSpoken {
		e.mu.Unlock()
		return false
	}

	silentFor := now.Sub(e.lastAbove)
	if silentFor >= e.policy.SilenceDelay {
		e.finalizeLocked()
		return true
	}

	// Backstop timer covers frame-rate jitter: if no further frame
	// arrives, the stop still fires once the delay elapses.
	if e.backstop == nil {
		remaining := e.policy.SilenceDelay - silentFor
		e.backstop = time.AfterFunc(remaining, e.backstopFire)
	}
	e.mu.Unlock()
	return false
}

func (e *Engine) backstopFire() {
	e.mu.Lock()
	if e.state != StateCapturing || !e.hasSpoken {
		e.mu.Unlock()
		return
	}
	if e.now().Sub(e.lastAbove) < e.policy.SilenceDelay {
		e.mu.Unlock()
		return
	}
	e.finalizeLocked()
}

// Stop finalizes the current segment immediately, regardless of the
// silence policy. A stop while idle is a no-op.
func (e *Engine) Stop() {
	e.mu.Lock()
	if e.state != StateCapturing {
		e.mu.Unlock()
		return
	}
	e.finalizeLocked()
}

// Cancel discards the current segment without emitting it.
func (e *Engine) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateCapturing {
		return
	}
	e.clearBackstopLocked()
	e.buf = e.buf[:0]
	e.state = StateIdle
}

// finalizeLocked is the single exit routine: every stop path (silence
// policy, manual stop, backstop timer) converges here. The mutex must
// be held; it is released before the segment callback runs.
func (e *Engine) finalizeLocked() {
	e.state = StateFinalizing
	e.clearBackstopLocked()

	segment := make([]byte, len(e.buf))
	copy(segment, e.buf)
	e.buf = e.buf[:0]

	emit := len(segment) >= e.policy.MinSegmentBytes
	e.state = StateIdle
	e.mu.Unlock()

	if emit && e.onSegment != nil {
		e.onSegment(segment)
	}
}

func (e *Engine) clearBackstopLocked() {
	if e.backstop != nil {
		e.backstop.Stop()
		e.backstop = nil
	}
}
