package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
)

// playClip plays one encoded audio clip (mp3 from the synthesis service)
// through an ffplay child process and blocks until playback finishes or
// the context is cancelled.
func playClip(ctx context.Context, clip []byte) error {
	if len(clip) == 0 {
		return nil
	}
	if _, err := exec.LookPath("ffplay"); err != nil {
		return errors.New("ffplay is required for playback (install ffmpeg/ffplay and ensure it is in PATH)")
	}

	cmd := exec.CommandContext(ctx, "ffplay",
		"-hide_banner",
		"-loglevel", "error",
		"-nostats",
		"-nodisp",
		"-autoexit",
		"-i", "pipe:0",
	)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("open ffplay stdin: %w", err)
	}
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start ffplay: %w", err)
	}

	if _, err := stdin.Write(clip); err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return fmt.Errorf("write clip: %w", err)
	}
	_ = stdin.Close()

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("ffplay: %w", err)
	}
	return nil
}
