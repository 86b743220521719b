// =============================================================================
// rackport - Logging
// =============================================================================
//
// This module builds the logrus logger every other package writes to.
//
// OUTPUT:
//   - A file <dir>/<yyyy-mm-dd>.log named by the start date, rotated by
//     size with lumberjack
//   - stderr, unless console output is turned off
//
// LINE FORMAT:
//   2006-01-02T15:04:05+09:00|LEVEL|message key=value ...
//
// =============================================================================

package logging

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ginjaninja78/rackport/internal/config"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// =============================================================================
// LOGGER
// =============================================================================

// New creates a logger from the log settings. verbose forces trace level.
// The returned closer flushes and closes the log file.
func New(cfg config.Log, verbose bool) (*logrus.Logger, io.Closer, error) {
	level := logrus.TraceLevel
	if !verbose {
		var err error
		if level, err = logrus.ParseLevel(cfg.Level); err != nil {
			return nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		loc = time.Local
	}

	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file := &lumberjack.Logger{
		Filename:   DailyFile(cfg.Dir, time.Now().In(loc)),
		MaxSize:    megabytes(cfg.MaxSizeKB),
		MaxBackups: cfg.MaxBackups,
		LocalTime:  true,
	}

	var out io.Writer = file
	if cfg.ConsoleEnabled() {
		out = io.MultiWriter(os.Stderr, file)
	}

	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(level)
	logger.SetFormatter(&Formatter{Location: loc})

	return logger, file, nil
}

// DailyFile returns the log file path for the day of t.
func DailyFile(dir string, t time.Time) string {
	return filepath.Join(dir, t.Format("2006-01-02")+".log")
}

// megabytes converts the configured size to lumberjack's unit, rounding up.
func megabytes(kb int) int {
	if kb <= 0 {
		return 1
	}
	return (kb + 1023) / 1024
}

// =============================================================================
// FORMATTER
// =============================================================================

// Formatter renders entries as "time|LEVEL|message key=value".
type Formatter struct {
	// Location is the zone timestamps are written in. nil means UTC.
	Location *time.Location
}

// Format implements logrus.Formatter.
func (f *Formatter) Format(e *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer

	ts := e.Time
	if f.Location != nil {
		ts = ts.In(f.Location)
	} else {
		ts = ts.UTC()
	}
	b.WriteString(ts.Format(time.RFC3339))
	b.WriteByte('|')
	b.WriteString(strings.ToUpper(e.Level.String()))
	b.WriteByte('|')
	b.WriteString(e.Message)

	keys := make([]string, 0, len(e.Data))
	for k := range e.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%s", k, quote(fmt.Sprint(e.Data[k])))
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}

func quote(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\"=|") {
		return fmt.Sprintf("%q", s)
	}
	return s
}
