// Package logger provides structured logging with styled output
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var useUI bool

// SetUIMode enables UI mode (logs go to TUI instead of stdout)
func SetUIMode(enabled bool) {
	useUI = enabled
}

var (
	// Box drawing characters for clean borders
	horizontalLine = "─"
	verticalLine   = "│"
	topLeft        = "┌"
	topRight       = "┐"
	bottomLeft     = "└"
	bottomRight    = "┘"
	leftT          = "├"
	rightT         = "┤"

	charmPink   = lipgloss.Color("#FF69B4")
	charmCyan   = lipgloss.Color("#42D9C8")
	charmGreen  = lipgloss.Color("#73F59F")
	charmYellow = lipgloss.Color("#FFE66D")
	charmRed    = lipgloss.Color("#FF6B9D")
	charmPurple = lipgloss.Color("#B794F6")
	charmGray   = lipgloss.Color("#626262")
	charmWhite  = lipgloss.Color("#ECEFF4")

	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(charmPink).
			MarginTop(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(charmCyan)

	infoStyle = lipgloss.NewStyle().
			Foreground(charmWhite)

	warnStyle = lipgloss.NewStyle().
			Foreground(charmYellow)

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(charmRed)

	successStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(charmGreen)

	mutedStyle = lipgloss.NewStyle().
			Foreground(charmGray)

	keyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(charmPurple)

	valueStyle = lipgloss.NewStyle().
			Foreground(charmCyan)

	borderStyle = lipgloss.NewStyle().
			Foreground(charmPink)

	// Structured logger for HTTP requests
	httpLogger *log.Logger
)

func init() {
	httpLogger = log.NewWithOptions(os.Stdout, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Prefix:          "🌐 ",
	})
	httpLogger.SetLevel(log.InfoLevel)
	// Use a more subtle style for HTTP logs
	styles := log.DefaultStyles()
	styles.Levels[log.InfoLevel] = lipgloss.NewStyle().
		Foreground(charmGray)
	styles.Keys["method"] = lipgloss.NewStyle().
		Foreground(charmCyan).
		Bold(true)
	styles.Values["method"] = lipgloss.NewStyle().
		Foreground(charmCyan)
	styles.Keys["station"] = lipgloss.NewStyle().
		Foreground(charmPurple).
		Bold(true)
	httpLogger.SetStyles(styles)
}

// PrintBanner displays the startup banner
func PrintBanner(version, buildTime, climateAPI string) {
	width := 62

	fmt.Println(borderStyle.Render(
		topLeft + strings.Repeat(horizontalLine, width-2) + topRight,
	))

	title := "🌡  Climate Station Lookup"
	titleRendered := titleStyle.Render(title)
	titleWidth := lipgloss.Width(title)
	leftPad := (width - titleWidth - 2) / 2
	rightPad := width - titleWidth - leftPad - 2

	fmt.Print(borderStyle.Render(verticalLine))
	fmt.Print(strings.Repeat(" ", leftPad))
	fmt.Print(titleRendered)
	fmt.Print(strings.Repeat(" ", rightPad))
	fmt.Println(borderStyle.Render(verticalLine))

	fmt.Println(borderStyle.Render(leftT + strings.Repeat(horizontalLine, width-2) + rightT))

	printInfoLine("Version", version, width)
	if buildTime != "" {
		printInfoLine("Built", buildTime, width)
	}
	printInfoLine("Climate API", climateAPI, width)

	fmt.Println(borderStyle.Render(bottomLeft + strings.Repeat(horizontalLine, width-2) + bottomRight))
	fmt.Println()
}

func printInfoLine(key, value string, width int) {
	keyRendered := keyStyle.Render(key + ":")
	valueRendered := valueStyle.Render(value)
	// Account for ANSI codes in width calculation
	lineWidth := 2 + lipgloss.Width(key+":") + 1 + lipgloss.Width(value)
	padding := width - lineWidth - 2
	if padding < 0 {
		padding = 0
	}
	fmt.Print(borderStyle.Render(verticalLine))
	fmt.Print("  ")
	fmt.Print(keyRendered)
	fmt.Print(" ")
	fmt.Print(valueRendered)
	fmt.Print(strings.Repeat(" ", padding))
	fmt.Println(borderStyle.Render(verticalLine))
}

// Section prints a section header with a decorative divider
func Section(title string) {
	fmt.Println()
	divider := mutedStyle.Render("━━━━")
	header := headerStyle.Render("▸ " + title)
	fmt.Printf("%s %s\n", divider, header)
}

// Log is the interface for sending logs (will be set by main if using UI)
var Log func(string)

var printMu sync.Mutex

func logOrPrint(msg string) {
	if Log != nil && useUI {
		Log(msg)
		return
	}
	printMu.Lock()
	defer printMu.Unlock()
	fmt.Println(msg)
}

// Info prints an info message
func Info(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logOrPrint(infoStyle.Render("  " + msg))
}

// Success prints a success message
func Success(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logOrPrint(successStyle.Render("  ✓ " + msg))
}

// Warn prints a warning message
func Warn(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logOrPrint(warnStyle.Render("  ⚠ " + msg))
}

// Error logs an error message. If the first argument is an error, it will be sent to Sentry.
// Usage:
//
//	logger.Error("something went wrong")
//	logger.Error(err)  // logs error and sends to Sentry
//	logger.Error(err, "failed to load: %v", err)  // logs formatted message and sends to Sentry
func Error(args ...interface{}) {
	msg, err := splitArgs(args)

	logOrPrint(errorStyle.Render("  ✗ " + msg))

	if err != nil && captureException != nil {
		captureException(err)
	}
}

// Fatal logs an error message and exits the program. If an error is provided, it will be sent to Sentry.
// Usage:
//
//	logger.Fatal("critical error occurred")
//	logger.Fatal(err)  // logs error, sends to Sentry, and exits
//	logger.Fatal(err, "failed to start: %v", err)  // logs formatted message, sends to Sentry, and exits
func Fatal(args ...interface{}) {
	Error(args...)
	if flush != nil {
		flush()
	}
	exit(1)
}

var exit = os.Exit

// splitArgs separates an optional leading error from the printf-style message.
func splitArgs(args []interface{}) (string, error) {
	if len(args) == 0 {
		return "", nil
	}

	if err, ok := args[0].(error); ok {
		if len(args) > 1 {
			if format, ok := args[1].(string); ok {
				return fmt.Sprintf(format, args[2:]...), err
			}
		}
		return fmt.Sprintf("%v", err), err
	}

	if format, ok := args[0].(string); ok && len(args) > 1 {
		return fmt.Sprintf(format, args[1:]...), nil
	}
	return fmt.Sprintf("%v", args[0]), nil
}

// captureException is a function pointer that can be set to capture exceptions
// This allows us to avoid importing sentry-go in the logger package
// The function signature matches sentry.CaptureException which returns *sentry.EventID
var captureException func(error) interface{}

// flush runs before Fatal exits so buffered Sentry events are delivered.
var flush func()

// SetSentryCaptureException sets the function to use for capturing exceptions to Sentry
func SetSentryCaptureException(fn func(error) interface{}) {
	captureException = fn
}

// SetFlush registers a hook that Fatal runs before exiting.
func SetFlush(fn func()) {
	flush = fn
}

// Capture forwards err to Sentry without printing anything.
func Capture(err error) {
	if err != nil && captureException != nil {
		captureException(err)
	}
}

// Muted prints a muted/debug message
func Muted(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logOrPrint(mutedStyle.Render("  " + msg))
}

// CatalogSummary describes one catalog load
type CatalogSummary struct {
	Source   string
	Duration time.Duration
	Stations int
	Skipped  int
}

// Print displays a formatted summary of the catalog load
func (c CatalogSummary) Print() {
	duration := c.Duration.Round(time.Millisecond)
	total := c.Stations + c.Skipped

	var icon string
	var statusStyle lipgloss.Style
	switch {
	case c.Skipped == 0:
		icon = "✓"
		statusStyle = successStyle
	case c.Skipped < total/2:
		icon = "⚠"
		statusStyle = warnStyle
	default:
		icon = "✗"
		statusStyle = errorStyle
	}

	summary := fmt.Sprintf("  %s Catalog loaded %s • %s stations",
		statusStyle.Render(icon),
		mutedStyle.Render(fmt.Sprintf("(%v)", duration)),
		successStyle.Render(fmt.Sprintf("%d", c.Stations)))

	if c.Skipped > 0 {
		summary += fmt.Sprintf(" • %s skipped", warnStyle.Render(fmt.Sprintf("%d", c.Skipped)))
	}
	if c.Source != "" {
		summary += " " + mutedStyle.Render("from "+c.Source)
	}

	logOrPrint(summary)
}

// ServerInfo prints server startup information
type ServerInfo struct {
	Port          string
	CatalogSource string
	ClimateAPI    string
	Year          int
	LookupTimeout time.Duration
}

// Print displays formatted server configuration information
func (s ServerInfo) Print() {
	Section("Configuration")

	year := "any"
	if s.Year > 0 {
		year = fmt.Sprintf("%d", s.Year)
	}

	rows := [][3]string{
		{"🔌", "Port:", s.Port},
		{"🗺", "Catalog:", s.CatalogSource},
		{"🌡", "Climate API:", s.ClimateAPI},
		{"📅", "Year:", year},
		{"⏱", "Timeout:", s.LookupTimeout.String()},
	}
	for _, row := range rows {
		fmt.Printf("  %s %s %s\n",
			mutedStyle.Render(row[0]),
			keyStyle.Render(row[1]),
			valueStyle.Render(row[2]))
	}
}

// Shutdown prints shutdown message
func Shutdown() {
	fmt.Println()
	shutdownMsg := lipgloss.NewStyle().
		Foreground(charmYellow).
		Bold(true).
		Render("  ⏸  Shutting down gracefully...")
	fmt.Println(shutdownMsg)
}

// HTTPLogger returns the configured HTTP logger for middleware
func HTTPLogger() *log.Logger {
	return httpLogger
}

// SetHTTPOutput redirects request logs, e.g. into the TUI log pane.
func SetHTTPOutput(w io.Writer) {
	httpLogger.SetOutput(w)
}
