package server

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
)

// ErrorLogEntry represents a single error log entry
type ErrorLogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Method    string    `json:"method"`
	Path      string    `json:"path"`
	URL       string    `json:"url"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"user_agent"`
	Duration  string    `json:"duration"`
	StationID string    `json:"station_id,omitempty"`
	Error     string    `json:"error,omitempty"`
}

var (
	errorLogFile   *os.File
	errorLogMutex  sync.Mutex
	errorLogPath   string
	errorLogWriter *json.Encoder
)

// InitErrorLogger initializes the error log file
func InitErrorLogger(logDir string) error {
	errorLogMutex.Lock()
	defer errorLogMutex.Unlock()

	if logDir == "" {
		logDir = os.TempDir()
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	errorLogPath = filepath.Join(logDir, "climate-stations-errors.jsonl")

	file, err := os.OpenFile(errorLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open error log file: %w", err)
	}

	errorLogFile = file
	errorLogWriter = json.NewEncoder(file)

	return nil
}

// LogError appends entry to the error log file. It is a no-op until
// InitErrorLogger succeeds.
func LogError(entry ErrorLogEntry) {
	errorLogMutex.Lock()
	defer errorLogMutex.Unlock()

	if errorLogWriter == nil {
		return
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	_ = errorLogWriter.Encode(entry)
	_ = errorLogFile.Sync()
}

// ErrorLogMiddleware records every response with a 5xx status.
func ErrorLogMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
			if status < 500 {
				return err
			}

			entry := ErrorLogEntry{
				Status:    status,
				Method:    c.Request().Method,
				Path:      c.Path(),
				URL:       c.Request().URL.String(),
				IP:        c.RealIP(),
				UserAgent: c.Request().UserAgent(),
				Duration:  time.Since(start).String(),
				StationID: c.Param("id"),
			}
			if err != nil {
				entry.Error = err.Error()
			} else if msg, ok := c.Get(errorContextKey).(string); ok {
				entry.Error = msg
			}
			LogError(entry)

			return err
		}
	}
}

// errorContextKey carries a handled failure's message to ErrorLogMiddleware.
const errorContextKey = "error_message"

// GetErrorLogPath returns the path to the error log file
func GetErrorLogPath() string {
	errorLogMutex.Lock()
	defer errorLogMutex.Unlock()
	return errorLogPath
}

// CloseErrorLogger closes the error log file
func CloseErrorLogger() error {
	errorLogMutex.Lock()
	defer errorLogMutex.Unlock()

	if errorLogFile != nil {
		err := errorLogFile.Close()
		errorLogFile = nil
		errorLogWriter = nil
		return err
	}
	return nil
}
