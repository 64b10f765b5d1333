package capture

import (
	"encoding/binary"
	"sync"
	"testing"
	"time"
)

// pcmFrame builds a frame of constant-amplitude 16-bit PCM whose RMS
// and peak both map to the given level percentage.
func pcmFrame(level float64, samples int) []byte {
	amp := int16(level / 100 * 32768)
	frame := make([]byte, samples*2)
	for i := 0; i < samples; i++ {
		binary.LittleEndian.PutUint16(frame[2*i:], uint16(amp))
	}
	return frame
}

func TestAnalyzeFrame(t *testing.T) {
	if got := AnalyzeFrame(nil); got.RMS != 0 || got.Peak != 0 {
		t.Fatalf("empty frame = %+v", got)
	}
	if got := AnalyzeFrame(pcmFrame(0, 160)); got.RMS != 0 || got.Peak != 0 {
		t.Fatalf("silent frame = %+v", got)
	}

	got := AnalyzeFrame(pcmFrame(50, 160))
	if got.RMS < 49 || got.RMS > 51 || got.Peak < 49 || got.Peak > 51 {
		t.Fatalf("half-scale frame = %+v", got)
	}
}

// engineHarness drives an Engine with an injected clock. The backstop
// timer reads the clock from its own goroutine, so access is locked.
type engineHarness struct {
	engine *Engine

	mu       sync.Mutex
	clock    time.Time
	segments [][]byte
	levels   int
}

func newHarness(policy Policy) *engineHarness {
	h := &engineHarness{clock: time.Unix(1000, 0)}
	h.engine = NewEngine(Config{
		Policy: policy,
		OnSegment: func(seg []byte) {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.segments = append(h.segments, seg)
		},
		OnLevel: func(Level) {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.levels++
		},
		Now: func() time.Time {
			h.mu.Lock()
			defer h.mu.Unlock()
			return h.clock
		},
	})
	return h
}

func (h *engineHarness) advance(d time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clock = h.clock.Add(d)
}

func (h *engineHarness) emitted() [][]byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.segments
}

func testPolicy() Policy {
	return Policy{MinSegmentBytes: 1}
}

func TestAutoStop_NeverBeforeSpeech(t *testing.T) {
	h := newHarness(testPolicy())
	h.engine.Start()

	// An hour of silence without any speech must not stop capture.
	for i := 0; i < 100; i++ {
		h.advance(36 * time.Second)
		if h.engine.Process(pcmFrame(0, 160)) {
			t.Fatalf("stopped at frame %d before any speech", i)
		}
	}
	if h.engine.State() != StateCapturing {
		t.Fatalf("state = %v", h.engine.State())
	}
}

func TestAutoStop_FiresAfterSilenceDelay(t *testing.T) {
	h := newHarness(testPolicy())
	h.engine.Start()

	h.engine.Process(pcmFrame(60, 160))

	// Silence shorter than the delay keeps capturing.
	h.advance(time.Second)
	if h.engine.Process(pcmFrame(0, 160)) {
		t.Fatalf("stopped before the silence delay elapsed")
	}

	h.advance(DefaultSilenceDelay)
	if !h.engine.Process(pcmFrame(0, 160)) {
		t.Fatalf("auto-stop did not fire after the silence delay")
	}
	if h.engine.State() != StateIdle {
		t.Fatalf("state = %v after auto-stop", h.engine.State())
	}
	if len(h.emitted()) != 1 {
		t.Fatalf("segments = %d, want 1", len(h.emitted()))
	}
	// The segment carries every processed frame, silence included.
	if want := 3 * 160 * 2; len(h.emitted()[0]) != want {
		t.Fatalf("segment size = %d, want %d", len(h.emitted()[0]), want)
	}
}

func TestAutoStop_SpeechResetsSilence(t *testing.T) {
	h := newHarness(testPolicy())
	h.engine.Start()
	h.engine.Process(pcmFrame(60, 160))

	// Alternate near-expiry silence with renewed speech.
	for i := 0; i < 5; i++ {
		h.advance(DefaultSilenceDelay - 100*time.Millisecond)
		if h.engine.Process(pcmFrame(60, 160)) {
			t.Fatalf("stopped while the speaker was still talking")
		}
	}

	h.advance(DefaultSilenceDelay)
	if !h.engine.Process(pcmFrame(0, 160)) {
		t.Fatalf("auto-stop did not fire after speech finally ended")
	}
}

func TestAutoStop_DynamicThreshold(t *testing.T) {
	h := newHarness(testPolicy())
	h.engine.Start()

	// A loud speaker raises the threshold: level 80 * ratio 0.3 = 24,
	// so a residual hum at level 10 counts as silence even though it
	// clears the static floor.
	h.engine.Process(pcmFrame(80, 160))
	h.advance(DefaultSilenceDelay)
	if !h.engine.Process(pcmFrame(10, 160)) {
		t.Fatalf("hum above the static floor should count as silence for a loud speaker")
	}
}

func TestAutoStop_QuietSpeakerNotCutOff(t *testing.T) {
	h := newHarness(testPolicy())
	h.engine.Start()

	// A quiet speaker at level 15: threshold stays near the static
	// floor, so their own speech keeps resetting the silence clock.
	h.engine.Process(pcmFrame(15, 160))
	for i := 0; i < 5; i++ {
		h.advance(DefaultSilenceDelay)
		if h.engine.Process(pcmFrame(15, 160)) {
			t.Fatalf("quiet speaker cut off at frame %d", i)
		}
	}
}

func TestStop_FlushesSegment(t *testing.T) {
	h := newHarness(testPolicy())
	h.engine.Start()
	h.engine.Process(pcmFrame(60, 160))
	h.engine.Stop()

	if len(h.emitted()) != 1 {
		t.Fatalf("segments = %d, want 1", len(h.emitted()))
	}
	if h.engine.State() != StateIdle {
		t.Fatalf("state = %v", h.engine.State())
	}
}

func TestStop_DiscardsSmallSegment(t *testing.T) {
	h := newHarness(Policy{MinSegmentBytes: 1 << 20})
	h.engine.Start()
	h.engine.Process(pcmFrame(60, 160))
	h.engine.Stop()

	if len(h.emitted()) != 0 {
		t.Fatalf("segment below the minimum size must not be emitted")
	}
}

func TestStart_IdempotentWhileCapturing(t *testing.T) {
	h := newHarness(testPolicy())
	h.engine.Start()
	h.engine.Process(pcmFrame(60, 160))
	h.engine.Start() // must not reset the buffer
	h.engine.Stop()

	if len(h.emitted()) != 1 || len(h.emitted()[0]) != 160*2 {
		t.Fatalf("second start clobbered the segment: %d segments", len(h.emitted()))
	}
}

func TestCancel_DiscardsWithoutEmit(t *testing.T) {
	h := newHarness(testPolicy())
	h.engine.Start()
	h.engine.Process(pcmFrame(60, 160))
	h.engine.Cancel()

	if len(h.emitted()) != 0 {
		t.Fatalf("cancel must not emit")
	}
	if h.engine.State() != StateIdle {
		t.Fatalf("state = %v", h.engine.State())
	}
}

func TestStop_WhileIdleIsNoop(t *testing.T) {
	h := newHarness(testPolicy())
	h.engine.Stop()
	if len(h.emitted()) != 0 {
		t.Fatalf("idle stop must not emit")
	}
}
