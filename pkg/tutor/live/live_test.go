package live

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/andre-ai/tutor/pkg/chat"
	"github.com/andre-ai/tutor/pkg/tutor/pipeline"
	"github.com/andre-ai/tutor/pkg/tutor/store"
	"github.com/andre-ai/tutor/pkg/tutor/types"
	"github.com/andre-ai/tutor/pkg/voice/stt"
	"github.com/andre-ai/tutor/pkg/voice/tts"
)

type fakeSTT struct{ text string }

func (f *fakeSTT) Name() string { return "fake" }
func (f *fakeSTT) Transcribe(ctx context.Context, audio io.Reader, opts stt.TranscribeOptions) (*stt.Transcript, error) {
	return &stt.Transcript{Text: f.text}, nil
}

type fakeTTS struct{}

func (f *fakeTTS) Name() string { return "fake" }
func (f *fakeTTS) Synthesize(ctx context.Context, text string, opts tts.SynthesizeOptions) (*tts.Synthesis, error) {
	return &tts.Synthesis{Audio: []byte("audio"), Format: "mp3"}, nil
}

type fakeChat struct{ reply string }

func (f *fakeChat) Name() string { return "fake" }
func (f *fakeChat) Complete(ctx context.Context, req chat.Request) (string, error) {
	return f.reply, nil
}

func newTestOrchestrator(t *testing.T, transcript, reply string) (*Orchestrator, *store.Store) {
	t.Helper()
	st := store.New(store.Config{})
	p := pipeline.New(&fakeSTT{text: transcript}, &fakeTTS{}, &fakeChat{reply: reply}, nil, nil, pipeline.Options{}, nil)
	return NewOrchestrator(st, p, nil), st
}

func TestStartSession_NewAndResume(t *testing.T) {
	o, _ := newTestOrchestrator(t, "", "")
	profile := types.Profile{Name: "Ana", Age: 8}

	first := o.StartSession(profile)
	if first.Resumed {
		t.Fatalf("first start should not resume")
	}
	if first.Session.ID == "" || first.Welcome == "" {
		t.Fatalf("started = %+v", first)
	}
	if len(first.Session.Conversation) != 1 || first.Session.Conversation[0].Role != types.RoleAssistant {
		t.Fatalf("conversation should open with the welcome turn: %+v", first.Session.Conversation)
	}

	second := o.StartSession(profile)
	if !second.Resumed {
		t.Fatalf("second start should resume")
	}
	if second.Session.ID != first.Session.ID {
		t.Fatalf("resume changed session ID: %q vs %q", second.Session.ID, first.Session.ID)
	}
}

func TestHandleAudio_PersistsExchange(t *testing.T) {
	o, st := newTestOrchestrator(t, "Je mange une pomme", "Très bien!")
	started := o.StartSession(types.Profile{Name: "Ana", Age: 8})

	turn := o.HandleAudio(context.Background(), started.Session, []byte("webm"))
	if !turn.Appendable() {
		t.Fatalf("turn = %+v", turn)
	}

	sess, ok := st.Get(store.KeyForProfile(started.Session.Profile))
	if !ok {
		t.Fatalf("session missing from store")
	}
	if len(sess.Conversation) != 3 {
		t.Fatalf("conversation = %d turns, want welcome + user + assistant", len(sess.Conversation))
	}
	if sess.Conversation[1].Content != "Je mange une pomme" || sess.Conversation[2].Content != "Très bien!" {
		t.Fatalf("conversation = %+v", sess.Conversation)
	}
}

func TestHandleAudio_RejectedNotPersisted(t *testing.T) {
	o, st := newTestOrchestrator(t, "Sous-titrage par la communauté", "ignored")
	started := o.StartSession(types.Profile{Name: "Ana", Age: 8})

	turn := o.HandleAudio(context.Background(), started.Session, []byte("webm"))
	if !turn.Rejected {
		t.Fatalf("turn = %+v, want rejected", turn)
	}
	sess, _ := st.Get(store.KeyForProfile(started.Session.Profile))
	if len(sess.Conversation) != 1 {
		t.Fatalf("rejected turn must not enter the conversation: %+v", sess.Conversation)
	}
}

func TestHandleText_ConcurrentConnectionsSameLearner(t *testing.T) {
	o, st := newTestOrchestrator(t, "Je mange une pomme", "Très bien!")
	profile := types.Profile{Name: "Ana", Age: 8}

	first := o.StartSession(profile)
	second := o.StartSession(profile)
	if !second.Resumed {
		t.Fatalf("second connection for the same learner should resume")
	}

	var wg sync.WaitGroup
	for _, sess := range []*types.Session{first.Session, second.Session} {
		wg.Add(1)
		go func(sess *types.Session) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				o.HandleText(context.Background(), sess, "Bonjour")
			}
		}(sess)
	}
	wg.Wait()

	sess, ok := st.Get(store.KeyForProfile(profile))
	if !ok {
		t.Fatalf("session missing from store")
	}
	if len(sess.Conversation) != store.DefaultMaxTurns {
		t.Fatalf("conversation length = %d, want %d", len(sess.Conversation), store.DefaultMaxTurns)
	}
	if sess.Conversation[0].Role != types.RoleAssistant {
		t.Fatalf("welcome turn should survive trimming: %+v", sess.Conversation[0])
	}
}

func TestEndSession_RemovesFromStore(t *testing.T) {
	o, st := newTestOrchestrator(t, "", "")
	started := o.StartSession(types.Profile{Name: "Ana", Age: 8})
	o.EndSession(started.Session)
	if _, ok := st.Get(store.KeyForProfile(started.Session.Profile)); ok {
		t.Fatalf("ended session should be gone")
	}
}

func dialTestHandler(t *testing.T, h Handler) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var frame map[string]any
	if err := json.Unmarshal(data, &frame); err != nil {
		t.Fatalf("unmarshal %q: %v", data, err)
	}
	return frame
}

func TestHandler_SessionFlow(t *testing.T) {
	o, _ := newTestOrchestrator(t, "Bonjour André", "Bonjour! Ça va?")
	conn := dialTestHandler(t, Handler{Orchestrator: o})

	if err := conn.WriteJSON(map[string]any{
		"type":    "start_session",
		"profile": map[string]any{"name": "Ana", "age": 8},
	}); err != nil {
		t.Fatalf("write: %v", err)
	}

	frame := readFrame(t, conn)
	if frame["type"] != "session_started" {
		t.Fatalf("frame = %+v", frame)
	}
	if frame["sessionId"] == "" || frame["welcomeMessage"] == "" {
		t.Fatalf("frame = %+v", frame)
	}

	payload := base64.StdEncoding.EncodeToString([]byte("webm"))
	if err := conn.WriteJSON(map[string]any{"type": "audio_chunk", "audio": payload}); err != nil {
		t.Fatalf("write: %v", err)
	}

	frame = readFrame(t, conn)
	if frame["type"] != "audio_response" {
		t.Fatalf("frame = %+v", frame)
	}
	if frame["userTranscript"] != "Bonjour André" || frame["transcript"] != "Bonjour! Ça va?" {
		t.Fatalf("frame = %+v", frame)
	}
	if frame["audio"] == "" {
		t.Fatalf("audio_response should carry audio")
	}
	if _, ok := frame["corrections"].([]any); !ok {
		t.Fatalf("corrections should be an array: %+v", frame)
	}
}

func TestHandler_MalformedFrameKeepsConnection(t *testing.T) {
	o, _ := newTestOrchestrator(t, "", "")
	conn := dialTestHandler(t, Handler{Orchestrator: o})

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"bogus"}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	frame := readFrame(t, conn)
	if frame["type"] != "error" {
		t.Fatalf("frame = %+v", frame)
	}

	// The connection survives: a valid frame still works.
	if err := conn.WriteJSON(map[string]any{
		"type":    "start_session",
		"profile": map[string]any{"name": "Ana", "age": 8},
	}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if frame := readFrame(t, conn); frame["type"] != "session_started" {
		t.Fatalf("frame = %+v", frame)
	}
}

func TestHandler_TextBeforeSession(t *testing.T) {
	o, _ := newTestOrchestrator(t, "", "")
	conn := dialTestHandler(t, Handler{Orchestrator: o})

	if err := conn.WriteJSON(map[string]any{"type": "text_message", "text": "Bonjour"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if frame := readFrame(t, conn); frame["type"] != "error" {
		t.Fatalf("frame = %+v", frame)
	}
}
