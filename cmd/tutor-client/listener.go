package main

import (
	"io"
	"sync"
	"time"

	"github.com/andre-ai/tutor/pkg/capture"
)

// captureEvent is one event from the listening pipeline: a level sample
// for the meter, a finished utterance segment, or a device fault.
type captureEvent struct {
	level   *capture.Level
	segment []byte
	err     error
}

// listener bundles the microphone process with a capture engine. One
// listener handles one utterance; starting a second while one is live is
// prevented by the model's state machine.
type listener struct {
	mic    io.ReadCloser
	engine *capture.Engine
	events chan captureEvent

	closeOnce sync.Once
}

func startListener(device string, silenceDelay time.Duration) (*listener, error) {
	mic, err := newMicCapture(device)
	if err != nil {
		return nil, err
	}
	return newListener(mic, capture.Policy{SilenceDelay: silenceDelay}), nil
}

func newListener(src io.ReadCloser, policy capture.Policy) *listener {
	l := &listener{mic: src, events: make(chan captureEvent, 64)}
	l.engine = capture.NewEngine(capture.Config{
		Policy: policy,
		OnSegment: func(seg []byte) {
			l.events <- captureEvent{segment: seg}
		},
		OnLevel: func(lv capture.Level) {
			// Meter samples are droppable.
			select {
			case l.events <- captureEvent{level: &lv}:
			default:
			}
		},
	})
	l.engine.Start()
	go l.readLoop()
	return l
}

func (l *listener) readLoop() {
	// 100ms of 16kHz mono s16le per read.
	buf := make([]byte, 3200)
	for {
		n, err := l.mic.Read(buf)
		if n > 0 {
			frame := make([]byte, n)
			copy(frame, buf[:n])
			if l.engine.Process(frame) {
				l.closeMic()
				return
			}
		}
		if err != nil {
			if l.engine.State() == capture.StateCapturing {
				// Flush whatever was buffered before reporting the fault;
				// the engine's minimum segment size decides whether the
				// partial utterance is worth sending.
				l.engine.Stop()
				select {
				case l.events <- captureEvent{err: err}:
				default:
				}
			}
			l.closeMic()
			return
		}
	}
}

// Stop flushes the current utterance immediately.
func (l *listener) Stop() {
	l.engine.Stop()
	l.closeMic()
}

// Cancel discards the current utterance. An empty event wakes any
// pending reader so it does not wait on a dead listener.
func (l *listener) Cancel() {
	l.engine.Cancel()
	l.closeMic()
	select {
	case l.events <- captureEvent{}:
	default:
	}
}

func (l *listener) closeMic() {
	l.closeOnce.Do(func() { _ = l.mic.Close() })
}
