// Package live drives tutoring sessions over a websocket. The
// orchestrator owns session lifecycle against the store and delegates
// turn processing to the pipeline; the handler translates frames.
package live

import (
	"context"
	"log/slog"
	"time"

	"github.com/andre-ai/tutor/pkg/tutor/pipeline"
	"github.com/andre-ai/tutor/pkg/tutor/prompt"
	"github.com/andre-ai/tutor/pkg/tutor/store"
	"github.com/andre-ai/tutor/pkg/tutor/types"
)

// Orchestrator coordinates session state and turn processing. One
// orchestrator serves all connections; per-connection ordering is the
// handler's read loop.
type Orchestrator struct {
	store    *store.Store
	pipeline *pipeline.Pipeline
	log      *slog.Logger
}

// NewOrchestrator creates an orchestrator.
func NewOrchestrator(st *store.Store, p *pipeline.Pipeline, log *slog.Logger) *Orchestrator {
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{store: st, pipeline: p, log: log}
}

// Started describes the outcome of StartSession.
type Started struct {
	Session *types.Session
	Welcome string
	Resumed bool
}

// StartSession opens a session for the profile, resuming the learner's
// previous conversation when one is still alive in the store. The
// returned session is a private copy; the store keeps the live one, so
// two connections for the same learner never share mutable state.
func (o *Orchestrator) StartSession(profile types.Profile) Started {
	key := store.KeyForProfile(profile)
	welcome := prompt.WelcomeMessage(profile)

	if sess, ok := o.store.Snapshot(key); ok {
		o.log.Info("session resumed",
			"session_id", sess.ID,
			"learner", profile.Name,
			"turns", len(sess.Conversation))
		return Started{Session: sess, Welcome: welcome, Resumed: true}
	}

	sess := &types.Session{
		ID:           store.NewSessionID(),
		Profile:      profile,
		SystemPrompt: prompt.SystemPrompt(profile),
		Conversation: []types.Message{
			{Role: types.RoleAssistant, Content: welcome},
		},
		StartTime: time.Now(),
	}
	detached := *sess
	detached.Conversation = append([]types.Message(nil), sess.Conversation...)
	o.store.Put(key, sess)
	o.log.Info("session started", "session_id", sess.ID, "learner", profile.Name, "age", profile.Age)
	return Started{Session: &detached, Welcome: welcome}
}

// WelcomeAudio synthesizes speech for the welcome text.
func (o *Orchestrator) WelcomeAudio(ctx context.Context, text string) ([]byte, error) {
	return o.pipeline.Synthesize(ctx, text)
}

// HandleAudio processes one utterance and persists the exchange when it
// produced a real turn.
func (o *Orchestrator) HandleAudio(ctx context.Context, sess *types.Session, audio []byte) *pipeline.Turn {
	turn := o.pipeline.RespondToAudio(ctx, o.snapshot(sess), audio)
	o.persist(sess, turn)
	return turn
}

// HandleText processes one typed message.
func (o *Orchestrator) HandleText(ctx context.Context, sess *types.Session, text string) *pipeline.Turn {
	turn := o.pipeline.RespondToText(ctx, o.snapshot(sess), text)
	o.persist(sess, turn)
	return turn
}

// snapshot fetches the learner's current conversation for one turn.
// Another connection may have appended since this one started, so the
// connection-held copy is never read past identity; each turn works
// from a fresh copy taken under the store's lock. A session that
// expired mid-connection falls back to the connection's own copy.
func (o *Orchestrator) snapshot(sess *types.Session) *types.Session {
	if snap, ok := o.store.Snapshot(store.KeyForProfile(sess.Profile)); ok {
		return snap
	}
	return sess
}

// EndSession removes the learner's session from the store.
func (o *Orchestrator) EndSession(sess *types.Session) {
	key := store.KeyForProfile(sess.Profile)
	turns := len(sess.Conversation)
	if snap, ok := o.store.Snapshot(key); ok {
		turns = len(snap.Conversation)
	}
	o.store.Delete(key)
	o.log.Info("session ended", "session_id", sess.ID, "turns", turns)
}

func (o *Orchestrator) persist(sess *types.Session, turn *pipeline.Turn) {
	if !turn.Appendable() {
		return
	}
	o.store.AppendTurns(store.KeyForProfile(sess.Profile),
		types.Message{Role: types.RoleUser, Content: turn.UserTranscript},
		types.Message{Role: types.RoleAssistant, Content: turn.Reply},
	)
}
