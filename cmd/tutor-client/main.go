package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v2"

	"github.com/andre-ai/tutor/pkg/tutor/types"
)

func newApp() *cli.App {
	return &cli.App{
		Name:  "tutor-client",
		Usage: "Terminal client for the André French tutoring server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Value:   "ws://localhost:5002/ws",
				Usage:   "Websocket URL of the tutoring server",
			},
			&cli.StringFlag{
				Name:     "name",
				Aliases:  []string{"n"},
				Usage:    "Student name",
				Required: true,
			},
			&cli.IntFlag{
				Name:     "age",
				Usage:    "Student age",
				Required: true,
			},
			&cli.DurationFlag{
				Name:  "silence-delay",
				Value: 2 * time.Second,
				Usage: "How long the microphone must stay quiet before the utterance is sent",
			},
			&cli.StringFlag{
				Name:  "device",
				Usage: "Microphone device passed to ffmpeg (platform default if empty)",
			},
			&cli.BoolFlag{
				Name:  "text-only",
				Usage: "Disable microphone and playback; converse by typing",
			},
			&cli.BoolFlag{
				Name:  "no-auto-listen",
				Usage: "Do not reopen the microphone automatically after each reply",
			},
		},
		Action: func(c *cli.Context) error {
			if c.Int("age") <= 0 {
				return cli.Exit("age must be > 0", 1)
			}
			cfg := clientConfig{
				ServerURL:    c.String("server"),
				Profile:      types.Profile{Name: c.String("name"), Age: c.Int("age")},
				SilenceDelay: c.Duration("silence-delay"),
				Device:       c.String("device"),
				TextOnly:     c.Bool("text-only"),
				AutoListen:   !c.Bool("no-auto-listen"),
			}
			p := tea.NewProgram(newModel(cfg), tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return cli.Exit(fmt.Sprintf("tutor-client: %v", err), 1)
			}
			return nil
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
