package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/brubcam/GEOG-464-Lab-8/catalog"
	"github.com/brubcam/GEOG-464-Lab-8/climate"
	"github.com/brubcam/GEOG-464-Lab-8/display"
	"github.com/brubcam/GEOG-464-Lab-8/logger"
	"github.com/brubcam/GEOG-464-Lab-8/style"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrNoTTY is returned by RunBrowser when stdout is not a terminal.
var ErrNoTTY = errors.New("the station browser needs an interactive terminal")

var panelStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(pink).
	Padding(0, 1)

type stationItem struct {
	station catalog.Station
}

func (i stationItem) Title() string {
	return style.Marker(i.station.ElevationClass()) + " " + i.station.Name
}

func (i stationItem) Description() string {
	parts := []string{i.station.ID}
	if i.station.ProvinceCode != "" {
		parts = append(parts, i.station.ProvinceCode)
	}
	parts = append(parts, climate.FormatOptional(i.station.ElevationMeters, "m"))
	return strings.Join(parts, " · ")
}

func (i stationItem) FilterValue() string {
	return i.station.Name + " " + i.station.ID + " " + i.station.ProvinceCode
}

// stateMsg carries a surface update into the program. ok is false once
// the surface has been closed.
type stateMsg struct {
	state display.State
	ok    bool
}

// Browser lists the catalog and shows the latest observation of the
// selected station. Lookups run on the browser's own surface, so moving on
// to another station cancels the one still in flight.
type Browser struct {
	ctx      context.Context
	selector *display.Selector
	surface  *display.Surface
	updates  <-chan display.State

	list    list.Model
	spinner spinner.Model
	state   display.State
	station catalog.Station
	status  string
	width   int
	height  int
}

func NewBrowser(ctx context.Context, c *catalog.Catalog, selector *display.Selector, surface *display.Surface) *Browser {
	items := make([]list.Item, 0, c.Len())
	for _, st := range c.Stations {
		items = append(items, stationItem{station: st})
	}

	l := list.New(items, list.NewDefaultDelegate(), 60, 20)
	l.Title = fmt.Sprintf("Climate stations (%d)", c.Len())
	l.Styles.Title = titleStyle

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = valueStyle

	updates, _ := surface.Subscribe()

	return &Browser{
		ctx:      ctx,
		selector: selector,
		surface:  surface,
		updates:  updates,
		list:     l,
		spinner:  sp,
		state:    surface.State(),
	}
}

func waitForState(updates <-chan display.State) tea.Cmd {
	return func() tea.Msg {
		st, ok := <-updates
		return stateMsg{state: st, ok: ok}
	}
}

func (b *Browser) Init() tea.Cmd {
	return tea.Batch(b.spinner.Tick, waitForState(b.updates))
}

func (b *Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if b.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return b, tea.Quit
		case "enter":
			b.selectCurrent()
			return b, nil
		}

	case tea.WindowSizeMsg:
		b.width, b.height = msg.Width, msg.Height
		b.list.SetSize(msg.Width/2, msg.Height-2)
		return b, nil

	case stateMsg:
		if !msg.ok {
			return b, nil
		}
		// Older sequence numbers belong to superseded selections
		if msg.state.Seq >= b.state.Seq {
			b.state = msg.state
		}
		return b, waitForState(b.updates)

	case logMsg:
		b.status = msg.msg
		return b, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		b.spinner, cmd = b.spinner.Update(msg)
		return b, cmd
	}

	var cmd tea.Cmd
	b.list, cmd = b.list.Update(msg)
	return b, cmd
}

func (b *Browser) selectCurrent() {
	item, ok := b.list.SelectedItem().(stationItem)
	if !ok {
		return
	}
	b.station = item.station
	b.state = b.selector.SelectAsync(b.ctx, b.surface, item.station)
}

func (b *Browser) View() string {
	body := lipgloss.JoinHorizontal(lipgloss.Top, b.list.View(), b.renderPanel())
	footer := helpStyle.Render("enter select • / filter • q quit")
	if b.status != "" {
		footer = lipgloss.JoinVertical(lipgloss.Left, mutedStyle.Render(b.status), footer)
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, footer)
}

func (b *Browser) renderPanel() string {
	if b.state.Phase == display.PhaseIdle {
		return panelStyle.Render(mutedStyle.Render(b.state.Message))
	}

	rows := []string{titleStyle.Render(b.state.StationName)}
	if meta := stationMeta(b.station); meta != "" {
		rows = append(rows, mutedStyle.Render(meta))
	}
	rows = append(rows, "")

	switch b.state.Phase {
	case display.PhaseLoading:
		rows = append(rows, b.spinner.View()+" "+b.state.Message)
	case display.PhaseFound:
		for _, line := range b.state.Lines() {
			rows = append(rows, renderLine(line))
		}
	case display.PhaseNotFound:
		rows = append(rows, style.Warning.Render(b.state.Message))
	default:
		rows = append(rows, style.Error.Render(b.state.Message))
	}

	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func stationMeta(st catalog.Station) string {
	var parts []string
	if st.ProvinceName != "" {
		parts = append(parts, st.ProvinceName)
	}
	if st.StationNumber != "" {
		parts = append(parts, "Station "+st.StationNumber)
	}
	if st.ElevationMeters != nil {
		parts = append(parts, climate.FormatOptional(st.ElevationMeters, "m"))
	}
	return strings.Join(parts, " · ")
}

func renderLine(line string) string {
	label, value, ok := strings.Cut(line, ": ")
	if !ok {
		return line
	}
	return style.Label.Render(label+":") + " " + valueStyle.Render(value)
}

// RunBrowser runs the station browser until the user quits or ctx ends.
// Log output is shown in the browser footer while it owns the terminal.
func RunBrowser(ctx context.Context, c *catalog.Catalog, selector *display.Selector) error {
	if !IsTTY() {
		return ErrNoTTY
	}

	surface := display.NewSurface("tui")
	defer surface.Close()

	p := tea.NewProgram(NewBrowser(ctx, c, selector, surface), tea.WithAltScreen(), tea.WithContext(ctx))

	logger.Log = func(msg string) { p.Send(logMsg{msg}) }
	logger.SetUIMode(true)
	defer logger.SetUIMode(false)

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
