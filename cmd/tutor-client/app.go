package main

import (
	"context"
	"encoding/base64"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/andre-ai/tutor/pkg/tutor/protocol"
	"github.com/andre-ai/tutor/pkg/tutor/types"
)

// autoListenDelay keeps the microphone closed briefly after playback so
// the tail of the reply is not captured.
const autoListenDelay = 800 * time.Millisecond

type clientConfig struct {
	ServerURL    string
	Profile      types.Profile
	SilenceDelay time.Duration
	Device       string
	TextOnly     bool
	AutoListen   bool
}

// phase is the client-side conversation state. Capture and playback are
// mutually exclusive by construction: the listener only starts from
// phaseIdle.
type phase int

const (
	phaseConnecting phase = iota
	phaseIdle
	phaseListening
	phaseThinking
	phasePlaying
)

type convEntry struct {
	role        string
	text        string
	corrections []types.Correction
}

type model struct {
	cfg clientConfig

	client  *sessionClient
	phase   phase
	closing bool

	sessionID string
	conv      []convEntry
	status    string
	errMsg    string

	autoListen bool
	listener   *listener
	micLevel   float64

	inputMode bool
	input     string

	playCancel context.CancelFunc

	reconnectAttempt int
	width            int
	height           int
}

func newModel(cfg clientConfig) model {
	return model{
		cfg:        cfg,
		phase:      phaseConnecting,
		status:     "Connexion au serveur...",
		autoListen: cfg.AutoListen && !cfg.TextOnly,
	}
}

func (m model) Init() tea.Cmd {
	return connectCmd(m.cfg.ServerURL)
}

func connectCmd(serverURL string) tea.Cmd {
	return func() tea.Msg {
		client, err := dialSession(serverURL)
		if err != nil {
			return connectErrMsg{err: err}
		}
		return connectedMsg{client: client}
	}
}

func startSessionCmd(client *sessionClient, profile types.Profile) tea.Cmd {
	return func() tea.Msg {
		if err := client.StartSession(profile); err != nil {
			return sendErrMsg{err: err}
		}
		return nil
	}
}

func readFrameCmd(client *sessionClient) tea.Cmd {
	return func() tea.Msg {
		frame, err := client.ReadFrame()
		if err != nil {
			return frameErrMsg{err: err}
		}
		return frameMsg{frame: frame}
	}
}

func requestWelcomeAudioCmd(client *sessionClient, text string) tea.Cmd {
	return func() tea.Msg {
		if err := client.RequestWelcomeAudio(text); err != nil {
			return sendErrMsg{err: err}
		}
		return nil
	}
}

func startListenerCmd(device string, silenceDelay time.Duration) tea.Cmd {
	return func() tea.Msg {
		l, err := startListener(device, silenceDelay)
		if err != nil {
			return listenerErrMsg{err: err}
		}
		return listenerStartedMsg{listener: l}
	}
}

func waitCaptureCmd(l *listener) tea.Cmd {
	return func() tea.Msg {
		return captureEventMsg{event: <-l.events}
	}
}

func sendSegmentCmd(client *sessionClient, pcm []byte) tea.Cmd {
	return func() tea.Msg {
		wav := wavFromPCM(pcm, micSampleRateHz, micChannels)
		if err := client.SendAudioSegment(wav); err != nil {
			return sendErrMsg{err: err}
		}
		return nil
	}
}

func sendTextCmd(client *sessionClient, text string) tea.Cmd {
	return func() tea.Msg {
		if err := client.SendText(text); err != nil {
			return sendErrMsg{err: err}
		}
		return nil
	}
}

func playCmd(ctx context.Context, clip []byte) tea.Cmd {
	return func() tea.Msg {
		return playbackDoneMsg{err: playClip(ctx, clip)}
	}
}

func autoListenCmd() tea.Cmd {
	return tea.Tick(autoListenDelay, func(time.Time) tea.Msg {
		return autoListenMsg{}
	})
}

func reconnectCmd(attempt int) tea.Cmd {
	delay := time.Duration(1<<min(attempt, 4)) * time.Second
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return reconnectTickMsg{}
	})
}

func endSessionCmd(client *sessionClient) tea.Cmd {
	return func() tea.Msg {
		if client != nil {
			_ = client.EndSession()
			_ = client.Close()
		}
		return nil
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case connectedMsg:
		m.client = msg.client
		m.phase = phaseThinking
		m.reconnectAttempt = 0
		m.errMsg = ""
		m.status = "Ouverture de la session..."
		return m, tea.Batch(
			startSessionCmd(m.client, m.cfg.Profile),
			readFrameCmd(m.client),
		)

	case connectErrMsg:
		return m.handleDisconnect(msg.err)

	case frameErrMsg:
		return m.handleDisconnect(msg.err)

	case reconnectTickMsg:
		m.reconnectAttempt++
		return m, connectCmd(m.cfg.ServerURL)

	case frameMsg:
		next, cmd := m.handleFrame(msg.frame)
		return next, tea.Batch(cmd, readFrameCmd(next.client))

	case sendErrMsg:
		m.errMsg = msg.err.Error()
		if m.phase == phaseThinking {
			m.phase = phaseIdle
		}
		return m, nil

	case listenerStartedMsg:
		m.listener = msg.listener
		m.phase = phaseListening
		m.errMsg = ""
		m.status = "Je vous écoute..."
		return m, waitCaptureCmd(m.listener)

	case listenerErrMsg:
		m.errMsg = msg.err.Error()
		m.phase = phaseIdle
		m.status = "Micro indisponible"
		return m, nil

	case captureEventMsg:
		return m.handleCaptureEvent(msg.event)

	case playbackDoneMsg:
		m.playCancel = nil
		if msg.err != nil && !m.closing {
			m.errMsg = msg.err.Error()
		}
		if m.phase == phasePlaying {
			m.phase = phaseIdle
			m.status = "À vous"
		}
		return m, m.maybeAutoListen()

	case autoListenMsg:
		if m.phase != phaseIdle || m.inputMode || m.closing {
			return m, nil
		}
		return m, startListenerCmd(m.cfg.Device, m.cfg.SilenceDelay)
	}

	return m, nil
}

func (m model) handleDisconnect(err error) (tea.Model, tea.Cmd) {
	if m.closing {
		return m, tea.Quit
	}
	m.client = nil
	m.phase = phaseConnecting
	m.errMsg = err.Error()
	m.status = "Connexion perdue. Nouvelle tentative..."
	if m.listener != nil {
		m.listener.Cancel()
		m.listener = nil
	}
	if m.playCancel != nil {
		m.playCancel()
		m.playCancel = nil
	}
	return m, reconnectCmd(m.reconnectAttempt)
}

func (m model) handleFrame(frame serverFrame) (model, tea.Cmd) {
	switch frame.Type {
	case protocol.TypeSessionStarted:
		m.sessionID = frame.SessionID
		m.conv = append(m.conv, convEntry{role: "andré", text: frame.WelcomeMessage})
		if m.cfg.TextOnly {
			m.phase = phaseIdle
			m.status = "À vous"
			return m, nil
		}
		m.status = "Préparation de l'accueil..."
		return m, requestWelcomeAudioCmd(m.client, frame.WelcomeMessage)

	case protocol.TypeWelcomeAudio:
		return m.startPlayback(frame.Audio)

	case protocol.TypeAudioResponse, protocol.TypeTextResponse:
		if strings.TrimSpace(frame.UserTranscript) != "" {
			m.conv = append(m.conv, convEntry{role: "vous", text: frame.UserTranscript})
		}
		m.conv = append(m.conv, convEntry{
			role:        "andré",
			text:        frame.Transcript,
			corrections: frame.Corrections,
		})
		if frame.Audio != "" {
			return m.startPlayback(frame.Audio)
		}
		m.phase = phaseIdle
		m.status = "À vous"
		return m, m.maybeAutoListen()

	case protocol.TypeError:
		m.errMsg = frame.Message
		if m.phase == phaseThinking {
			m.phase = phaseIdle
			m.status = "À vous"
		}
		return m, nil
	}

	return m, nil
}

func (m model) startPlayback(encoded string) (model, tea.Cmd) {
	clip, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		m.errMsg = "réponse audio illisible"
		m.phase = phaseIdle
		return m, m.maybeAutoListen()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.playCancel = cancel
	m.phase = phasePlaying
	m.status = "André parle..."
	return m, playCmd(ctx, clip)
}

func (m model) handleCaptureEvent(ev captureEvent) (tea.Model, tea.Cmd) {
	if m.listener == nil {
		return m, nil
	}

	switch {
	case ev.level != nil:
		m.micLevel = ev.level.RMS
		return m, waitCaptureCmd(m.listener)

	case ev.segment != nil:
		l := m.listener
		l.Cancel() // engine already idle; releases the device
		m.listener = nil
		m.micLevel = 0
		m.phase = phaseThinking
		m.status = "André réfléchit..."
		return m, sendSegmentCmd(m.client, ev.segment)

	case ev.err != nil:
		m.listener.Cancel()
		m.listener = nil
		m.micLevel = 0
		m.phase = phaseIdle
		m.errMsg = ev.err.Error()
		m.status = "Micro interrompu"
		return m, nil
	}

	// Cancelled listener; nothing more to wait for.
	return m, nil
}

func (m model) maybeAutoListen() tea.Cmd {
	if !m.autoListen || m.cfg.TextOnly || m.client == nil || m.closing {
		return nil
	}
	return autoListenCmd()
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.inputMode {
		return m.handleInputKey(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		m.closing = true
		if m.listener != nil {
			m.listener.Cancel()
			m.listener = nil
		}
		if m.playCancel != nil {
			m.playCancel()
			m.playCancel = nil
		}
		return m, tea.Sequence(endSessionCmd(m.client), tea.Quit)

	case " ":
		switch m.phase {
		case phaseIdle:
			if m.cfg.TextOnly || m.client == nil {
				return m, nil
			}
			return m, startListenerCmd(m.cfg.Device, m.cfg.SilenceDelay)
		case phaseListening:
			if m.listener != nil {
				m.listener.Stop()
			}
			return m, nil
		}
		return m, nil

	case "esc":
		if m.phase == phaseListening && m.listener != nil {
			m.listener.Cancel()
			m.listener = nil
			m.micLevel = 0
			m.phase = phaseIdle
			m.status = "À vous"
		}
		return m, nil

	case "a":
		if !m.cfg.TextOnly {
			m.autoListen = !m.autoListen
		}
		return m, nil

	case "t":
		if m.phase == phaseIdle && m.client != nil {
			m.inputMode = true
			m.input = ""
		}
		return m, nil
	}

	return m, nil
}

func (m model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.inputMode = false
		m.input = ""
		return m, nil

	case "enter":
		text := strings.TrimSpace(m.input)
		m.inputMode = false
		m.input = ""
		if text == "" {
			return m, nil
		}
		m.phase = phaseThinking
		m.status = "André réfléchit..."
		return m, sendTextCmd(m.client, text)

	case "backspace":
		if len(m.input) > 0 {
			runes := []rune(m.input)
			m.input = string(runes[:len(runes)-1])
		}
		return m, nil

	case "ctrl+c":
		m.closing = true
		return m, tea.Sequence(endSessionCmd(m.client), tea.Quit)
	}

	if msg.Type == tea.KeyRunes {
		m.input += string(msg.Runes)
	} else if msg.Type == tea.KeySpace {
		m.input += " "
	}
	return m, nil
}
