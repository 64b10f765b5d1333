package main

// Messages delivered into the bubbletea update loop.

type connectedMsg struct {
	client *sessionClient
}

type connectErrMsg struct {
	err error
}

type frameMsg struct {
	frame serverFrame
}

type frameErrMsg struct {
	err error
}

type sendErrMsg struct {
	err error
}

type captureEventMsg struct {
	event captureEvent
}

type listenerStartedMsg struct {
	listener *listener
}

type listenerErrMsg struct {
	err error
}

type playbackDoneMsg struct {
	err error
}

type autoListenMsg struct{}

type reconnectTickMsg struct{}
