package main

import "github.com/charmbracelet/lipgloss"

var (
	colorRed    = lipgloss.Color("#FF5555")
	colorGreen  = lipgloss.Color("#50FA7B")
	colorYellow = lipgloss.Color("#F1FA8C")
	colorCyan   = lipgloss.Color("#8BE9FD")
	colorGray   = lipgloss.Color("#666666")
	colorWhite  = lipgloss.Color("#F8F8F2")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	tutorStyle = lipgloss.NewStyle().
			Foreground(colorCyan)

	userStyle = lipgloss.NewStyle().
			Foreground(colorWhite)

	correctionStyle = lipgloss.NewStyle().
			Foreground(colorYellow)

	listeningDotStyle = lipgloss.NewStyle().
				Foreground(colorRed).
				Bold(true)

	idleDotStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	thinkingStyle = lipgloss.NewStyle().
			Foreground(colorYellow)

	playingStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	footerKeyStyle = lipgloss.NewStyle().
			Foreground(colorYellow).
			Bold(true)

	levelOnStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	levelHotStyle = lipgloss.NewStyle().
			Foreground(colorYellow)

	levelOffStyle = lipgloss.NewStyle().
			Foreground(colorGray)
)
