package main

import (
	"fmt"
	"io"
	"os/exec"
	"runtime"

	"github.com/andre-ai/tutor/pkg/tutor/types"
)

const (
	micSampleRateHz = 16000
	micChannels     = 1
)

// micCapture streams little-endian 16-bit mono PCM from the default
// microphone through an ffmpeg child process.
type micCapture struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
}

func newMicCapture(device string) (*micCapture, error) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return nil, types.NewError(types.ErrDeviceUnavailable, "ffmpeg is required for microphone capture (install ffmpeg and ensure it is in PATH)")
	}
	args, err := micFFmpegArgs(runtime.GOOS, device)
	if err != nil {
		return nil, err
	}
	cmd := exec.Command("ffmpeg", args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, types.WrapError(types.ErrDeviceUnavailable, "open ffmpeg stdout", err)
	}
	cmd.Stderr = io.Discard
	if err := cmd.Start(); err != nil {
		return nil, types.WrapError(types.ErrDeviceUnavailable, "start ffmpeg mic capture", err)
	}
	return &micCapture{cmd: cmd, stdout: stdout}, nil
}

func micFFmpegArgs(goos, device string) ([]string, error) {
	switch goos {
	case "darwin":
		if device == "" {
			device = ":0"
		}
		return []string{
			"-hide_banner", "-loglevel", "error",
			"-f", "avfoundation", "-i", device,
			"-ac", fmt.Sprintf("%d", micChannels), "-ar", fmt.Sprintf("%d", micSampleRateHz),
			"-f", "s16le", "-",
		}, nil
	case "linux":
		if device == "" {
			device = "default"
		}
		return []string{
			"-hide_banner", "-loglevel", "error",
			"-f", "pulse", "-i", device,
			"-ac", fmt.Sprintf("%d", micChannels), "-ar", fmt.Sprintf("%d", micSampleRateHz),
			"-f", "s16le", "-",
		}, nil
	default:
		return nil, types.NewError(types.ErrDeviceUnavailable, fmt.Sprintf("microphone capture is not implemented for %s; supported platforms: darwin, linux", goos))
	}
}

func (m *micCapture) Read(p []byte) (int, error) {
	if m == nil || m.stdout == nil {
		return 0, io.EOF
	}
	return m.stdout.Read(p)
}

func (m *micCapture) Close() error {
	if m == nil {
		return nil
	}
	if m.cmd != nil && m.cmd.Process != nil {
		_ = m.cmd.Process.Kill()
		_ = m.cmd.Wait()
	}
	return nil
}
