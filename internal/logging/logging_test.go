package logging

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ginjaninja78/rackport/internal/config"
	"github.com/sirupsen/logrus"
)

func TestFormatterLine(t *testing.T) {
	jst := time.FixedZone("JST", 9*60*60)
	f := &Formatter{Location: jst}
	e := &logrus.Entry{
		Time:    time.Date(2024, 3, 5, 0, 30, 0, 0, time.UTC),
		Level:   logrus.TraceLevel,
		Message: "cell A1-->B2",
		Data:    logrus.Fields{"sheet": "rack A", "type": "6U"},
	}

	got, err := f.Format(e)
	if err != nil {
		t.Fatalf("format failed: %v", err)
	}
	want := "2024-03-05T09:30:00+09:00|TRACE|cell A1-->B2 sheet=\"rack A\" type=6U\n"
	if string(got) != want {
		t.Fatalf("unexpected line:\n got %q\nwant %q", got, want)
	}
}

func TestFormatterErrorField(t *testing.T) {
	f := &Formatter{}
	e := &logrus.Entry{
		Time:    time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		Level:   logrus.ErrorLevel,
		Message: "sheet failed",
		Data:    logrus.Fields{logrus.ErrorKey: errors.New("boom")},
	}
	got, _ := f.Format(e)
	if !strings.HasPrefix(string(got), "2024-03-05T00:00:00Z|ERROR|sheet failed error=boom") {
		t.Fatalf("unexpected line: %q", got)
	}
}

func TestNewWritesDailyFile(t *testing.T) {
	dir := t.TempDir()
	off := false
	cfg := config.Log{Level: "info", Dir: dir, MaxSizeKB: 1, Timezone: "UTC", Console: &off}

	logger, closer, err := New(cfg, false)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("== start porting ==")
	closer.Close()

	data, err := os.ReadFile(DailyFile(dir, time.Now().UTC()))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, "|INFO|== start porting ==") {
		t.Fatalf("expected info line, got %q", text)
	}
	if strings.Contains(text, "hidden") {
		t.Fatalf("debug line must be filtered at info level")
	}
}

func TestNewVerboseForcesTrace(t *testing.T) {
	off := false
	cfg := config.Log{Level: "error", Dir: t.TempDir(), MaxSizeKB: 1024, Timezone: "UTC", Console: &off}
	logger, closer, err := New(cfg, true)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	defer closer.Close()
	if logger.GetLevel() != logrus.TraceLevel {
		t.Fatalf("expected trace level, got %s", logger.GetLevel())
	}
}

func TestNewRejectsBadLevel(t *testing.T) {
	cfg := config.Log{Level: "loud", Dir: t.TempDir(), Timezone: "UTC"}
	if _, _, err := New(cfg, false); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestDailyFile(t *testing.T) {
	got := DailyFile("logs", time.Date(2024, 3, 5, 23, 0, 0, 0, time.UTC))
	if got != filepath.Join("logs", "2024-03-05.log") {
		t.Fatalf("unexpected path %q", got)
	}
}

func TestMegabytes(t *testing.T) {
	for kb, want := range map[int]int{0: 1, 1: 1, 1024: 1, 1025: 2, 4096: 4} {
		if got := megabytes(kb); got != want {
			t.Fatalf("megabytes(%d) = %d, want %d", kb, got, want)
		}
	}
}
