package viz

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/invpend/internal/control"
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2).
			Width(46)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)

	statusRunning = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88"))
	statusPaused  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffaa00"))
	statusDone    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#888899"))
)

var modeStyles = map[control.Mode]lipgloss.Style{
	control.ModeBalance:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88")),
	control.ModeSwingUp:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ccff")),
	control.ModeSafety:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff4444")),
	control.ModeDisabled: lipgloss.NewStyle().Foreground(lipgloss.Color("#666688")),
}

func renderMode(m control.Mode) string {
	style, ok := modeStyles[m]
	if !ok {
		return m.String()
	}
	return style.Render(m.String())
}
