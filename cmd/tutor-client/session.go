package main

import (
	"encoding/base64"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/andre-ai/tutor/pkg/tutor/protocol"
	"github.com/andre-ai/tutor/pkg/tutor/types"
)

// serverFrame is the union of all server-to-client frames. The type tag
// selects which fields are meaningful.
type serverFrame struct {
	Type           string             `json:"type"`
	SessionID      string             `json:"sessionId"`
	WelcomeMessage string             `json:"welcomeMessage"`
	Audio          string             `json:"audio"`
	Transcript     string             `json:"transcript"`
	UserTranscript string             `json:"userTranscript"`
	Corrections    []types.Correction `json:"corrections"`
	Message        string             `json:"message"`
}

// sessionClient is a websocket connection to the tutoring server. Writes
// are serialized; reads belong to a single reader goroutine.
type sessionClient struct {
	writeMu sync.Mutex
	conn    *websocket.Conn
}

func dialSession(serverURL string) (*sessionClient, error) {
	conn, _, err := websocket.DefaultDialer.Dial(serverURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", serverURL, err)
	}
	return &sessionClient{conn: conn}, nil
}

func (c *sessionClient) send(frame any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(frame)
}

func (c *sessionClient) StartSession(profile types.Profile) error {
	return c.send(protocol.StartSession{Type: protocol.TypeStartSession, Profile: profile})
}

func (c *sessionClient) RequestWelcomeAudio(text string) error {
	return c.send(protocol.GenerateWelcomeAudio{Type: protocol.TypeGenerateWelcomeAudio, Text: text})
}

func (c *sessionClient) SendAudioSegment(audio []byte) error {
	return c.send(protocol.AudioChunk{
		Type:  protocol.TypeAudioChunk,
		Audio: base64.StdEncoding.EncodeToString(audio),
	})
}

func (c *sessionClient) SendText(text string) error {
	return c.send(protocol.TextMessage{Type: protocol.TypeTextMessage, Text: text})
}

func (c *sessionClient) EndSession() error {
	return c.send(protocol.EndSession{Type: protocol.TypeEndSession})
}

// ReadFrame blocks for the next server frame.
func (c *sessionClient) ReadFrame() (serverFrame, error) {
	var frame serverFrame
	if err := c.conn.ReadJSON(&frame); err != nil {
		return serverFrame{}, err
	}
	return frame, nil
}

func (c *sessionClient) Close() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return c.conn.Close()
}
