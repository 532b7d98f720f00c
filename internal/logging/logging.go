package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// logFileName names a session log: <app>.<yyyymmdd_hhmmss>.log.
func logFileName(appName string, sessionStart time.Time) string {
	return fmt.Sprintf("%s.%s.log", appName, sessionStart.Format("20060102_150405"))
}

// OpenLogFile creates logsDir if needed and opens the session log in append
// mode. The caller closes the file.
func OpenLogFile(logsDir, appName string, sessionStart time.Time) (*os.File, error) {
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create logs dir: %w", err)
	}
	path := filepath.Join(logsDir, logFileName(appName, sessionStart))
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}
