// Package pipeline turns one learner input into one tutor turn. It
// chains transcription, filtering, reply generation, correction
// extraction, and synthesis, degrading to fixed French replies when an
// external service fails so the conversation never dies mid-session.
package pipeline

import (
	"bytes"
	"context"
	"log/slog"
	"strings"

	"github.com/andre-ai/tutor/pkg/chat"
	"github.com/andre-ai/tutor/pkg/tutor/corrections"
	"github.com/andre-ai/tutor/pkg/tutor/filter"
	"github.com/andre-ai/tutor/pkg/tutor/prompt"
	"github.com/andre-ai/tutor/pkg/tutor/types"
	"github.com/andre-ai/tutor/pkg/voice/stt"
	"github.com/andre-ai/tutor/pkg/voice/tts"
)

// DefaultContextWindow is how many recent turns accompany the system
// prompt on each completion.
const DefaultContextWindow = 10

// Options tunes the pipeline. Zero values select provider defaults.
type Options struct {
	ChatModel     string
	STTModel      string
	STTLanguage   string
	STTPrompt     string
	STTFormat     string
	TTSModel      string
	TTSVoice      string
	TTSSpeed      float64
	Temperature   float64
	MaxTokens     int
	ContextWindow int
}

// Turn is the outcome of processing one learner input.
type Turn struct {
	// Reply is the tutor's text, always non-empty.
	Reply string
	// UserTranscript is what the learner said. Empty when the input was
	// rejected or processing degraded.
	UserTranscript string
	// Audio is the synthesized reply. Nil when the input was rejected or
	// synthesis was skipped or failed.
	Audio []byte
	// Corrections extracted from the reply.
	Corrections []types.Correction
	// Rejected reports that the transcription was classified as an
	// artifact and the reply is a fixed clarification request.
	Rejected bool
	// Degraded reports that an external service failed and the reply is
	// a fixed fallback. Degraded turns must not enter the conversation.
	Degraded bool
}

// Appendable reports whether the turn represents a real exchange that
// belongs in the session's conversation.
func (t *Turn) Appendable() bool {
	return !t.Rejected && !t.Degraded
}

// Pipeline composes the external services behind one tutor turn.
type Pipeline struct {
	stt         stt.Provider
	tts         tts.Provider
	chat        chat.Provider
	filter      *filter.Filter
	corrections *corrections.Extractor
	opts        Options
	log         *slog.Logger
}

// New creates a pipeline. The filter and extractor may be nil, selecting
// the defaults.
func New(sttProvider stt.Provider, ttsProvider tts.Provider, chatProvider chat.Provider, f *filter.Filter, ex *corrections.Extractor, opts Options, log *slog.Logger) *Pipeline {
	if f == nil {
		f = filter.New(nil, 0)
	}
	if ex == nil {
		ex = corrections.New(nil)
	}
	if opts.ContextWindow <= 0 {
		opts.ContextWindow = DefaultContextWindow
	}
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		stt:         sttProvider,
		tts:         ttsProvider,
		chat:        chatProvider,
		filter:      f,
		corrections: ex,
		opts:        opts,
		log:         log,
	}
}

// RespondToAudio transcribes the learner's audio and produces the next
// tutor turn. The session is read, never mutated; the caller persists
// appendable turns.
func (p *Pipeline) RespondToAudio(ctx context.Context, sess *types.Session, audio []byte) *Turn {
	transcript, err := p.stt.Transcribe(ctx, bytes.NewReader(audio), stt.TranscribeOptions{
		Model:    p.opts.STTModel,
		Language: p.opts.STTLanguage,
		Prompt:   p.opts.STTPrompt,
		Format:   p.opts.STTFormat,
	})
	if err != nil {
		p.log.Error("transcription failed", "session_id", sess.ID, "error", err)
		return p.degraded()
	}

	if res := p.filter.Classify(transcript.Text); !res.Accepted {
		p.log.Info("transcription rejected",
			"session_id", sess.ID,
			"reason", string(res.Reason),
			"text", transcript.Text)
		return &Turn{
			Reply:       prompt.ClarificationReply,
			Corrections: []types.Correction{},
			Rejected:    true,
		}
	}

	return p.respond(ctx, sess, strings.TrimSpace(transcript.Text))
}

// RespondToText produces the next tutor turn for a typed message.
func (p *Pipeline) RespondToText(ctx context.Context, sess *types.Session, text string) *Turn {
	return p.respond(ctx, sess, strings.TrimSpace(text))
}

func (p *Pipeline) respond(ctx context.Context, sess *types.Session, userText string) *Turn {
	recent := sess.RecentConversation(p.opts.ContextWindow)
	messages := make([]chat.Message, 0, len(recent)+1)
	for _, m := range recent {
		messages = append(messages, chat.Message{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, chat.Message{Role: chat.RoleUser, Content: userText})

	reply, err := p.chat.Complete(ctx, chat.Request{
		Model:       p.opts.ChatModel,
		System:      sess.SystemPrompt,
		Messages:    messages,
		Temperature: p.opts.Temperature,
		MaxTokens:   p.opts.MaxTokens,
	})
	if err != nil {
		p.log.Error("reply generation failed", "session_id", sess.ID, "error", err)
		return p.degraded()
	}

	turn := &Turn{
		Reply:          reply,
		UserTranscript: userText,
		Corrections:    p.corrections.Extract(reply),
	}
	turn.Audio = p.synthesize(ctx, sess.ID, reply)
	return turn
}

// Synthesize converts arbitrary tutor text to speech. Used for the
// welcome turn, which has no learner input.
func (p *Pipeline) Synthesize(ctx context.Context, text string) ([]byte, error) {
	syn, err := p.tts.Synthesize(ctx, text, tts.SynthesizeOptions{
		Model: p.opts.TTSModel,
		Voice: p.opts.TTSVoice,
		Speed: p.opts.TTSSpeed,
	})
	if err != nil {
		return nil, types.WrapError(types.ErrSynthesisFailure, "synthesize reply", err)
	}
	return syn.Audio, nil
}

// synthesize is the degradable variant: a turn with a generated reply is
// still delivered as text when synthesis fails.
func (p *Pipeline) synthesize(ctx context.Context, sessionID, text string) []byte {
	audio, err := p.Synthesize(ctx, text)
	if err != nil {
		p.log.Error("synthesis failed", "session_id", sessionID, "error", err)
		return nil
	}
	return audio
}

func (p *Pipeline) degraded() *Turn {
	return &Turn{
		Reply:       prompt.FallbackReply,
		Corrections: []types.Correction{},
		Degraded:    true,
	}
}
