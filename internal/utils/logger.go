// Package utils provides utility functions and types for hostfetch
//
//nolint:revive // utils is a common pattern for internal utilities
package utils

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/crewjam/rfc5424"
)

// Logger defines the interface for logging operations
type Logger interface {
	LogInfo(message string, meta map[string]string)
	LogWarn(message string, meta map[string]string)
	LogError(message string, meta map[string]string)
	LogDebug(message string, meta map[string]string)
}

// RFC5424Logger implements Logger with RFC 5424 compliant syslog format using crewjam/rfc5424
type RFC5424Logger struct {
	appName   string
	hostname  string
	processID string
	facility  rfc5424.Priority // Using the library's priority type for facility
	mu        sync.Mutex       // Protect concurrent access to logs, out and level
	out       io.Writer
	level     rfc5424.Priority // Most verbose severity still written to out
	logs      []string         // In-memory log buffer for the JSON export
}

// NewRFC5424Logger creates a new RFC 5424 compliant logger writing to out.
func NewRFC5424Logger(appName string, out io.Writer) (*RFC5424Logger, error) {
	if out == nil {
		return nil, fmt.Errorf("logger %q: nil writer", appName)
	}

	return &RFC5424Logger{
		appName:   appName,
		hostname:  getHostname(),
		processID: strconv.Itoa(os.Getpid()),
		facility:  rfc5424.User, // User-level facility
		out:       out,
		level:     rfc5424.Warning,
		logs:      make([]string, 0),
	}, nil
}

// getHostname retrieves the system hostname dynamically.
func getHostname() string {
	hostname, err := os.Hostname()
	if err != nil {
		return "localhost" // Fallback
	}
	return hostname
}

// ParseLevel maps a level name (debug, info, warn, error) to a severity.
func ParseLevel(name string) (rfc5424.Priority, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return rfc5424.Debug, nil
	case "info":
		return rfc5424.Info, nil
	case "warn", "warning", "":
		return rfc5424.Warning, nil
	case "error":
		return rfc5424.Error, nil
	}
	return 0, fmt.Errorf("unknown log level %q", name)
}

// SetLevel sets the most verbose severity written to the output. Every entry is still
// captured in the in-memory buffer.
func (l *RFC5424Logger) SetLevel(level rfc5424.Priority) {
	l.mu.Lock()
	l.level = level
	l.mu.Unlock()
}

// SetOutput replaces the writer entries are written to
func (l *RFC5424Logger) SetOutput(out io.Writer) {
	l.mu.Lock()
	l.out = out
	l.mu.Unlock()
}

// createMessage creates an RFC 5424 message using the library
func (l *RFC5424Logger) createMessage(severity rfc5424.Priority, message string, meta map[string]string) *rfc5424.Message {
	msg := &rfc5424.Message{
		Priority:  l.facility | severity, // Combine facility and severity
		Timestamp: time.Now().UTC(),
		Hostname:  l.hostname,
		AppName:   l.appName,
		ProcessID: l.processID,
		MessageID: fmt.Sprintf("ID%d", time.Now().UnixNano()%100000),
		Message:   []byte(message),
	}

	for key, value := range meta {
		msg.AddDatum("meta@1", key, value)
	}

	return msg
}

// writeLog writes the formatted RFC 5424 entry to the output when severity passes the level
// filter and always captures it in the buffer.
func (l *RFC5424Logger) writeLog(severity rfc5424.Priority, message string, meta map[string]string) {
	msg := l.createMessage(severity, message, meta)

	var sb strings.Builder
	if _, err := msg.WriteTo(&sb); err != nil {
		// Fallback to simple format if the library rejects the message
		sb.Reset()
		fmt.Fprintf(&sb, "<%d>1 %s %s %s %s - - %s",
			int(l.facility|severity),
			msg.Timestamp.Format(time.RFC3339),
			l.hostname, l.appName, l.processID, message)
	}
	formattedLog := sb.String()

	l.mu.Lock()
	defer l.mu.Unlock()
	// Lower priority numbers are more severe.
	if severity <= l.level && l.out != nil {
		_, _ = fmt.Fprintln(l.out, formattedLog)
	}
	l.logs = append(l.logs, formattedLog)
}

// LogInfo logs an informational message (severity Info)
func (l *RFC5424Logger) LogInfo(message string, meta map[string]string) {
	l.writeLog(rfc5424.Info, message, meta)
}

// LogWarn logs a warning message (severity Warning)
func (l *RFC5424Logger) LogWarn(message string, meta map[string]string) {
	l.writeLog(rfc5424.Warning, message, meta)
}

// LogError logs an error message (severity Error)
func (l *RFC5424Logger) LogError(message string, meta map[string]string) {
	l.writeLog(rfc5424.Error, message, meta)
}

// LogDebug logs a debug message (severity Debug)
func (l *RFC5424Logger) LogDebug(message string, meta map[string]string) {
	l.writeLog(rfc5424.Debug, message, meta)
}

// GetLogs returns a copy of all captured logs
func (l *RFC5424Logger) GetLogs() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	logsCopy := make([]string, len(l.logs))
	copy(logsCopy, l.logs)
	return logsCopy
}

// ClearLogs clears the in-memory log buffer
func (l *RFC5424Logger) ClearLogs() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logs = make([]string, 0)
}

// DefaultLogger is the global logger instance
var DefaultLogger *RFC5424Logger

// InitDefaultLogger initializes the global logger instance writing to stderr
func InitDefaultLogger() error {
	logger, err := NewRFC5424Logger("hostfetch", os.Stderr)
	if err != nil {
		return err
	}
	DefaultLogger = logger
	return nil
}

// Convenience functions using the global logger

// LogInfo logs an informational message using the default logger
func LogInfo(message string, meta map[string]string) {
	if DefaultLogger != nil {
		DefaultLogger.LogInfo(message, meta)
	}
}

// LogWarn logs a warning message using the default logger
func LogWarn(message string, meta map[string]string) {
	if DefaultLogger != nil {
		DefaultLogger.LogWarn(message, meta)
	}
}

// LogError logs an error message using the default logger
func LogError(message string, meta map[string]string) {
	if DefaultLogger != nil {
		DefaultLogger.LogError(message, meta)
	}
}

// LogDebug logs a debug message using the default logger
func LogDebug(message string, meta map[string]string) {
	if DefaultLogger != nil {
		DefaultLogger.LogDebug(message, meta)
	}
}

// GetLogs returns logs from the default logger
func GetLogs() []string {
	if DefaultLogger != nil {
		return DefaultLogger.GetLogs()
	}
	return []string{}
}

// ClearLogs clears logs from the default logger
func ClearLogs() {
	if DefaultLogger != nil {
		DefaultLogger.ClearLogs()
	}
}
