// Package protocol defines the JSON frame types exchanged over the
// tutoring websocket and the strict decoder for inbound frames.
package protocol

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/andre-ai/tutor/pkg/tutor/types"
)

// Frame type tags. Client-to-server frames are decoded by
// DecodeClientMessage; server-to-client frames are encoded as-is.
const (
	TypeStartSession         = "start_session"
	TypeSessionStarted       = "session_started"
	TypeGenerateWelcomeAudio = "generate_welcome_audio"
	TypeWelcomeAudio         = "welcome_audio"
	TypeAudioChunk           = "audio_chunk"
	TypeTextMessage          = "text_message"
	TypeAudioResponse        = "audio_response"
	TypeTextResponse         = "text_response"
	TypeEndSession           = "end_session"
	TypeError                = "error"
)

// DecodeError describes a malformed inbound frame. It maps to a
// non-fatal error frame; the connection stays open.
type DecodeError struct {
	Message string
	Param   string
}

func (e *DecodeError) Error() string {
	if e == nil {
		return ""
	}
	if strings.TrimSpace(e.Param) == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Param)
}

func badFrame(message, param string) *DecodeError {
	return &DecodeError{Message: message, Param: param}
}

// StartSession opens or resumes a session for a profile.
type StartSession struct {
	Type    string        `json:"type"`
	Profile types.Profile `json:"profile"`
}

// GenerateWelcomeAudio requests speech synthesis for the welcome text.
type GenerateWelcomeAudio struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// AudioChunk carries one base64-encoded utterance segment.
type AudioChunk struct {
	Type  string `json:"type"`
	Audio string `json:"audio"`
}

// TextMessage carries typed input, bypassing transcription.
type TextMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// EndSession terminates the active session.
type EndSession struct {
	Type string `json:"type"`
}

// SessionStarted acknowledges session creation or resume.
type SessionStarted struct {
	Type           string `json:"type"`
	SessionID      string `json:"sessionId"`
	WelcomeMessage string `json:"welcomeMessage"`
}

// WelcomeAudio carries the synthesized welcome playback payload.
type WelcomeAudio struct {
	Type  string `json:"type"`
	Audio string `json:"audio"`
}

// TurnResponse is one assistant turn. Type is "audio_response" when a
// playable payload is attached and "text_response" otherwise.
type TurnResponse struct {
	Type           string             `json:"type"`
	Audio          string             `json:"audio,omitempty"`
	Transcript     string             `json:"transcript"`
	UserTranscript string             `json:"userTranscript"`
	Corrections    []types.Correction `json:"corrections"`
}

// ErrorFrame reports a non-fatal fault to the client.
type ErrorFrame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// NewErrorFrame builds an error frame.
func NewErrorFrame(message string) ErrorFrame {
	return ErrorFrame{Type: TypeError, Message: message}
}

// DecodeClientMessage parses one inbound frame. The envelope type tag
// selects the concrete frame; unknown types and missing required fields
// are rejected with a DecodeError.
func DecodeClientMessage(data []byte) (any, error) {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, badFrame("invalid json frame", "")
	}
	typ := strings.TrimSpace(envelope.Type)
	if typ == "" {
		return nil, badFrame("missing type", "type")
	}

	switch typ {
	case TypeStartSession:
		var msg StartSession
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, badFrame("invalid start_session frame", "")
		}
		if strings.TrimSpace(msg.Profile.Name) == "" {
			return nil, badFrame("start_session.profile.name is required", "profile.name")
		}
		if msg.Profile.Age <= 0 {
			return nil, badFrame("start_session.profile.age must be > 0", "profile.age")
		}
		return msg, nil
	case TypeGenerateWelcomeAudio:
		var msg GenerateWelcomeAudio
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, badFrame("invalid generate_welcome_audio frame", "")
		}
		if strings.TrimSpace(msg.Text) == "" {
			return nil, badFrame("generate_welcome_audio.text is required", "text")
		}
		return msg, nil
	case TypeAudioChunk:
		var msg AudioChunk
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, badFrame("invalid audio_chunk frame", "")
		}
		if strings.TrimSpace(msg.Audio) == "" {
			return nil, badFrame("audio_chunk.audio is required", "audio")
		}
		return msg, nil
	case TypeTextMessage:
		var msg TextMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, badFrame("invalid text_message frame", "")
		}
		if strings.TrimSpace(msg.Text) == "" {
			return nil, badFrame("text_message.text is required", "text")
		}
		return msg, nil
	case TypeEndSession:
		return EndSession{Type: TypeEndSession}, nil
	default:
		return nil, badFrame("unsupported message type", "type")
	}
}
