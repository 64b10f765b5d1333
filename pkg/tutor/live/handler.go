package live

import (
	"encoding/base64"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/andre-ai/tutor/pkg/tutor/pipeline"
	"github.com/andre-ai/tutor/pkg/tutor/protocol"
	"github.com/andre-ai/tutor/pkg/tutor/types"
)

// Handler serves the tutoring websocket. Each connection runs a serial
// read loop; frames are processed strictly in arrival order.
type Handler struct {
	Orchestrator    *Orchestrator
	Logger          *slog.Logger
	MaxMessageBytes int64
}

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(*http.Request) bool { return true },
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	if h.MaxMessageBytes > 0 {
		conn.SetReadLimit(h.MaxMessageBytes)
	}

	log := h.Logger
	if log == nil {
		log = slog.Default()
	}
	log.Info("connection opened", "remote", r.RemoteAddr)

	// Connection state. The session survives the connection; a learner
	// who drops and reconnects within the store TTL resumes it.
	var sess *types.Session

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn("connection dropped", "remote", r.RemoteAddr, "error", err)
			} else {
				log.Info("connection closed", "remote", r.RemoteAddr)
			}
			return
		}

		decoded, err := protocol.DecodeClientMessage(data)
		if err != nil {
			h.writeError(conn, log, err.Error())
			continue
		}

		switch msg := decoded.(type) {
		case protocol.StartSession:
			started := h.Orchestrator.StartSession(msg.Profile)
			sess = started.Session
			h.writeJSON(conn, log, protocol.SessionStarted{
				Type:           protocol.TypeSessionStarted,
				SessionID:      sess.ID,
				WelcomeMessage: started.Welcome,
			})

		case protocol.GenerateWelcomeAudio:
			if sess == nil {
				h.writeError(conn, log, "no active session")
				continue
			}
			audio, err := h.Orchestrator.WelcomeAudio(r.Context(), msg.Text)
			if err != nil {
				log.Error("welcome synthesis failed", "session_id", sess.ID, "error", err)
				h.writeError(conn, log, "could not generate welcome audio")
				continue
			}
			h.writeJSON(conn, log, protocol.WelcomeAudio{
				Type:  protocol.TypeWelcomeAudio,
				Audio: base64.StdEncoding.EncodeToString(audio),
			})

		case protocol.AudioChunk:
			if sess == nil {
				// Tolerated: a chunk can race session start on reconnect.
				log.Info("audio chunk without session dropped")
				continue
			}
			audio, err := base64.StdEncoding.DecodeString(msg.Audio)
			if err != nil {
				h.writeError(conn, log, "audio_chunk.audio is not valid base64")
				continue
			}
			turn := h.Orchestrator.HandleAudio(r.Context(), sess, audio)
			h.writeJSON(conn, log, turnFrame(turn))

		case protocol.TextMessage:
			if sess == nil {
				h.writeError(conn, log, "no active session")
				continue
			}
			turn := h.Orchestrator.HandleText(r.Context(), sess, msg.Text)
			h.writeJSON(conn, log, turnFrame(turn))

		case protocol.EndSession:
			if sess != nil {
				h.Orchestrator.EndSession(sess)
				sess = nil
			}
		}
	}
}

// turnFrame encodes a pipeline turn. Turns with playable audio, and
// rejected turns awaiting a repeat, go out as audio_response; turns that
// only carry text go out as text_response.
func turnFrame(turn *pipeline.Turn) protocol.TurnResponse {
	frame := protocol.TurnResponse{
		Type:           protocol.TypeAudioResponse,
		Transcript:     turn.Reply,
		UserTranscript: turn.UserTranscript,
		Corrections:    turn.Corrections,
	}
	if turn.Corrections == nil {
		frame.Corrections = []types.Correction{}
	}
	switch {
	case turn.Audio != nil:
		frame.Audio = base64.StdEncoding.EncodeToString(turn.Audio)
	case turn.Rejected:
		// audio_response with no payload; the client replays its prompt.
	default:
		frame.Type = protocol.TypeTextResponse
	}
	return frame
}

func (h Handler) writeError(conn *websocket.Conn, log *slog.Logger, message string) {
	h.writeJSON(conn, log, protocol.NewErrorFrame(message))
}

func (h Handler) writeJSON(conn *websocket.Conn, log *slog.Logger, frame any) {
	if err := conn.WriteJSON(frame); err != nil {
		log.Warn("write failed", "error", err)
	}
}
