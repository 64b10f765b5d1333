package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m model) View() string {
	if m.width == 0 {
		return "Initialisation..."
	}

	var sections []string
	sections = append(sections, m.renderHeader())
	sections = append(sections, m.renderStatusBar())
	sections = append(sections, dimStyle.Render(strings.Repeat("─", m.width)))
	sections = append(sections, m.renderConversation())
	sections = append(sections, dimStyle.Render(strings.Repeat("─", m.width)))
	if m.errMsg != "" {
		sections = append(sections, errorStyle.Render("Erreur: "+m.errMsg))
	}
	if m.inputMode {
		sections = append(sections, "> "+m.input+"▌")
	}
	sections = append(sections, m.renderFooter())
	return strings.Join(sections, "\n")
}

func (m model) renderHeader() string {
	title := titleStyle.Render("ANDRÉ")
	subtitle := dimStyle.Render(" — tuteur de français")
	var session string
	if m.sessionID != "" {
		session = dimStyle.Render("  session " + m.sessionID)
	}
	return title + subtitle + session
}

func (m model) renderStatusBar() string {
	var dot string
	switch m.phase {
	case phaseConnecting:
		dot = idleDotStyle.Render("◌ CONNEXION")
	case phaseListening:
		dot = listeningDotStyle.Render("● ÉCOUTE")
	case phaseThinking:
		dot = thinkingStyle.Render("⟳ RÉFLEXION")
	case phasePlaying:
		dot = playingStyle.Render("♪ LECTURE")
	default:
		dot = idleDotStyle.Render("○ PRÊT")
	}

	var meter string
	if m.phase == phaseListening {
		meter = "  " + renderLevelMeter(m.micLevel)
	}

	var auto string
	if m.autoListen {
		auto = dimStyle.Render("  [auto]")
	}

	return dot + meter + auto + "  " + dimStyle.Render(m.status)
}

func renderLevelMeter(level float64) string {
	const barLen = 10
	filled := int(level / 100 * barLen * 3) // scale up; speech rarely tops 30
	if filled > barLen {
		filled = barLen
	}

	var bar strings.Builder
	for i := 0; i < barLen; i++ {
		switch {
		case i >= filled:
			bar.WriteString(levelOffStyle.Render("░"))
		case float64(i) > barLen*0.7:
			bar.WriteString(levelHotStyle.Render("█"))
		default:
			bar.WriteString(levelOnStyle.Render("█"))
		}
	}
	return bar.String()
}

func (m model) renderConversation() string {
	height := m.conversationHeight()
	width := max(20, m.width-2)

	var lines []string
	for _, entry := range m.conv {
		var label string
		var style lipgloss.Style
		if entry.role == "vous" {
			label = userStyle.Render("vous  ")
			style = userStyle
		} else {
			label = tutorStyle.Render("andré ")
			style = tutorStyle
		}
		wrapped := wrapText(entry.text, max(10, width-7))
		lines = append(lines, label+style.Render(wrapped[0]))
		for _, wl := range wrapped[1:] {
			lines = append(lines, "      "+style.Render(wl))
		}
		for _, c := range entry.corrections {
			lines = append(lines, "      "+correctionStyle.Render("✎ "+c.Correct))
		}
	}

	if len(lines) == 0 {
		lines = append(lines, dimStyle.Render("  La conversation apparaîtra ici."))
	}

	if len(lines) > height {
		lines = lines[len(lines)-height:]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (m model) conversationHeight() int {
	if m.height == 0 {
		return 16
	}
	reserved := 7
	if m.errMsg != "" {
		reserved++
	}
	if m.inputMode {
		reserved++
	}
	return max(4, m.height-reserved)
}

func (m model) renderFooter() string {
	var parts []string
	if m.cfg.TextOnly {
		parts = append(parts, footerKeyStyle.Render("t")+dimStyle.Render(" Écrire"))
	} else {
		if m.phase == phaseListening {
			parts = append(parts, footerKeyStyle.Render("Espace")+dimStyle.Render(" Envoyer"))
			parts = append(parts, footerKeyStyle.Render("Échap")+dimStyle.Render(" Annuler"))
		} else {
			parts = append(parts, footerKeyStyle.Render("Espace")+dimStyle.Render(" Parler"))
			parts = append(parts, footerKeyStyle.Render("t")+dimStyle.Render(" Écrire"))
		}
		parts = append(parts, footerKeyStyle.Render("a")+dimStyle.Render(" Auto-écoute"))
	}
	parts = append(parts, footerKeyStyle.Render("q")+dimStyle.Render(" Quitter"))
	return strings.Join(parts, "  ")
}

func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		var current string
		for _, word := range strings.Fields(paragraph) {
			switch {
			case current == "":
				current = word
			case len(current)+1+len(word) <= width:
				current += " " + word
			default:
				lines = append(lines, current)
				current = word
			}
		}
		if current != "" {
			lines = append(lines, current)
		}
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}
