// Package ui renders the terminal HUD shown while serving and the
// interactive station browser.
package ui

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/brubcam/GEOG-464-Lab-8/display"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Colors
var (
	pink   = lipgloss.Color("#FF69B4")
	cyan   = lipgloss.Color("#42D9C8")
	green  = lipgloss.Color("#73F59F")
	red    = lipgloss.Color("#FF6B9D")
	orange = lipgloss.Color("#FF9F43")
	gray   = lipgloss.Color("#626262")
)

// Styles
var (
	hudStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(pink).
			Padding(0, 1)

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(pink)
	valueStyle   = lipgloss.NewStyle().Foreground(cyan)
	statStyle    = lipgloss.NewStyle().Foreground(green)
	errorStyle   = lipgloss.NewStyle().Foreground(red)
	warningStyle = lipgloss.NewStyle().Foreground(orange)
	mutedStyle   = lipgloss.NewStyle().Foreground(gray)
	helpStyle    = lipgloss.NewStyle().Foreground(gray).Italic(true).PaddingLeft(1)
)

// Stats is the snapshot the serve loop pushes into the HUD every second.
type Stats struct {
	Stations        int
	Skipped         int
	CatalogLoadedAt time.Time
	Surfaces        int
	Lookups         display.Outcomes
	RequestsTotal   int
	RequestsPerSec  float64
	Errors          int
	MemoryUsageMB   float64
	GoroutineCount  int
}

// hudRows is the height of the bordered HUD plus separator and footer.
const hudRows = 10

const maxLogs = 1000

type model struct {
	viewport viewport.Model
	spinner  spinner.Model
	logs     []string
	stats    Stats

	version    string
	port       string
	climateAPI string
	startTime  time.Time

	ready  bool
	width  int
	height int
}

// Messages
type (
	logMsg   struct{ msg string }
	statsMsg struct{ stats Stats }
	readyMsg struct{}
)

// program is the running HUD, nil unless Initialize found a terminal.
var (
	hudMu   sync.Mutex
	program *tea.Program
)

// IsTTY checks if stdout is a terminal
func IsTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// Initialize starts the HUD when stdout is a terminal and reports whether
// it did. Until Shutdown, log lines should go through AddLog.
func Initialize(version, port, climateAPI string, stations int) bool {
	if !IsTTY() {
		return false
	}

	p := tea.NewProgram(newModel(version, port, climateAPI, stations), tea.WithAltScreen())
	go func() { _, _ = p.Run() }()

	hudMu.Lock()
	program = p
	hudMu.Unlock()
	return true
}

func newModel(version, port, climateAPI string, stations int) *model {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = titleStyle

	return &model{
		spinner:    sp,
		version:    version,
		port:       port,
		climateAPI: climateAPI,
		startTime:  time.Now(),
		stats:      Stats{Stations: stations},
		logs:       make([]string, 0, maxLogs),
	}
}

func send(msg tea.Msg) bool {
	hudMu.Lock()
	p := program
	hudMu.Unlock()

	if p == nil {
		return false
	}
	p.Send(msg)
	return true
}

// AddLog appends a line to the log pane, or prints it when there is no HUD.
func AddLog(msg string) {
	if !send(logMsg{msg}) {
		fmt.Println(msg)
	}
}

// LogWriter feeds each written line to AddLog so io.Writer based loggers
// land in the HUD log pane.
type LogWriter struct{}

func (LogWriter) Write(p []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		AddLog(line)
	}
	return len(p), nil
}

func UpdateStats(stats Stats) { send(statsMsg{stats}) }

// SetReady marks the server as listening.
func SetReady() { send(readyMsg{}) }

// Shutdown stops the HUD and waits for it to restore the terminal.
func Shutdown() {
	hudMu.Lock()
	p := program
	program = nil
	hudMu.Unlock()

	if p != nil {
		p.Quit()
		p.Wait()
	}
}

func (m *model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-hudRows)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - hudRows
		}
		m.refreshLogs()

	case logMsg:
		m.logs = append(m.logs, msg.msg)
		if len(m.logs) > maxLogs {
			m.logs = append(m.logs[:0], m.logs[len(m.logs)-maxLogs:]...)
		}
		m.refreshLogs()

	case statsMsg:
		m.stats = msg.stats
		return m, nil

	case spinner.TickMsg:
		if m.ready {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *model) refreshLogs() {
	if !m.ready || len(m.logs) == 0 {
		return
	}
	m.viewport.SetContent(strings.Join(m.logs, "\n"))
	m.viewport.GotoBottom()
}

func (m *model) View() string {
	if !m.ready {
		loading := titleStyle.Render(m.spinner.View() + " Loading station catalog...")
		return lipgloss.NewStyle().Padding(2).Render(loading)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHUD(),
		mutedStyle.Bold(true).Render(strings.Repeat("─", m.width)),
		m.viewport.View(),
		m.renderFooter(),
	)
}

func (m *model) renderHUD() string {
	rows := []string{
		fmt.Sprintf("%s %s  %s",
			titleStyle.Render("🌡  CLIMATE STATIONS"),
			mutedStyle.Render("v"+m.version),
			mutedStyle.Render("⏱ "+formatDuration(time.Since(m.startTime)))),

		fmt.Sprintf("%s %s  %s %s  %s %s",
			mutedStyle.Render("🌐"), valueStyle.Render("http://localhost:"+m.port),
			mutedStyle.Render("☁"), mutedStyle.Render(m.climateAPI),
			mutedStyle.Render("🖥"), statStyle.Render(fmt.Sprintf("%d surfaces", m.stats.Surfaces))),

		m.renderCatalog(),
		m.renderLookups(),
		m.renderTraffic(),
	}

	return hudStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *model) renderCatalog() string {
	if m.stats.CatalogLoadedAt.IsZero() {
		return mutedStyle.Render("📍 Waiting for catalog...")
	}

	return fmt.Sprintf("%s %s stations • %s skipped • %s",
		mutedStyle.Render("📍"),
		statStyle.Render(fmt.Sprintf("%d", m.stats.Stations)),
		countStyle(m.stats.Skipped, warningStyle),
		mutedStyle.Render("loaded "+formatTimeAgo(time.Since(m.stats.CatalogLoadedAt))))
}

func (m *model) renderLookups() string {
	l := m.stats.Lookups
	if l.LastAt.IsZero() && l.Superseded == 0 {
		return mutedStyle.Render("🔎 No lookups yet")
	}

	row := fmt.Sprintf("%s %s found • %s no data • %s failed • %s superseded",
		mutedStyle.Render("🔎"),
		countStyle(l.Found, statStyle),
		countStyle(l.NotFound, warningStyle),
		countStyle(l.Failed, errorStyle),
		mutedStyle.Render(fmt.Sprintf("%d", l.Superseded)))

	if !l.LastAt.IsZero() {
		row += "  " + mutedStyle.Render("last ") + phaseStyle(l.LastPhase).Render(l.LastStation) +
			" " + mutedStyle.Render(formatTimeAgo(time.Since(l.LastAt)))
	}
	return row
}

func (m *model) renderTraffic() string {
	if m.stats.RequestsTotal == 0 {
		return mutedStyle.Render("📊 No requests yet")
	}

	errs := mutedStyle.Render("0 errors")
	if m.stats.Errors > 0 {
		errs = errorStyle.Render(fmt.Sprintf("%d errors", m.stats.Errors))
	}

	return fmt.Sprintf("%s %s (%s) • %s  %s %s  %s %s",
		mutedStyle.Render("📊"),
		statStyle.Render(fmt.Sprintf("%d", m.stats.RequestsTotal)),
		valueStyle.Render(fmt.Sprintf("%.1f/s", m.stats.RequestsPerSec)),
		errs,
		mutedStyle.Render("💾"), formatMemory(m.stats.MemoryUsageMB),
		mutedStyle.Render("🔀"), mutedStyle.Render(fmt.Sprintf("%d", m.stats.GoroutineCount)))
}

func (m *model) renderFooter() string {
	help := "↑↓ scroll • q/ctrl+c close HUD"
	if m.viewport.TotalLineCount() > m.viewport.Height {
		help = fmt.Sprintf("↑↓ scroll (%.0f%%) • q/ctrl+c close HUD", m.viewport.ScrollPercent()*100)
	}
	return helpStyle.Render(help)
}

func countStyle(n int, nonZero lipgloss.Style) string {
	if n > 0 {
		return nonZero.Render(fmt.Sprintf("%d", n))
	}
	return mutedStyle.Render("0")
}

func phaseStyle(p display.Phase) lipgloss.Style {
	switch p {
	case display.PhaseFound:
		return statStyle
	case display.PhaseNotFound:
		return warningStyle
	default:
		return errorStyle
	}
}

func formatMemory(memMB float64) string {
	switch {
	case memMB > 1024:
		return errorStyle.Render(fmt.Sprintf("%.1fGB", memMB/1024))
	case memMB > 500:
		return warningStyle.Render(fmt.Sprintf("%.0fMB", memMB))
	default:
		return statStyle.Render(fmt.Sprintf("%.0fMB", memMB))
	}
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%dm%ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}

func formatTimeAgo(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	}
	return fmt.Sprintf("%s ago", d.Round(time.Minute))
}
