package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestCopyFileReplacesDestination(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "format.xlsx")
	dst := filepath.Join(dir, "out.xlsx")
	os.WriteFile(src, []byte("template"), 0644)
	os.WriteFile(dst, []byte("stale"), 0644)

	if err := CopyFile(src, dst); err != nil {
		t.Fatalf("copy failed: %v", err)
	}
	got, _ := os.ReadFile(dst)
	if string(got) != "template" {
		t.Fatalf("unexpected content: %q", got)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 2 {
		t.Fatalf("expected no temp files left, got %d entries", len(entries))
	}
}

func TestCopyFileMissingSourceLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "out.xlsx")
	if err := CopyFile(filepath.Join(dir, "missing.xlsx"), dst); err == nil {
		t.Fatalf("expected error for missing source")
	}
	if FileExists(dst) {
		t.Fatalf("expected no output file")
	}
}

func TestCopyFileMissingDestinationDir(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "format.xlsx")
	os.WriteFile(src, []byte("template"), 0644)
	if err := CopyFile(src, filepath.Join(dir, "nope", "out.xlsx")); err == nil {
		t.Fatalf("expected error for missing destination directory")
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	if FileExists(dir) {
		t.Fatalf("a directory is not a workbook file")
	}
	path := filepath.Join(dir, "a.xlsx")
	os.WriteFile(path, nil, 0644)
	if !FileExists(path) {
		t.Fatalf("expected file to exist")
	}
}

func TestNewRunIDUnique(t *testing.T) {
	if NewRunID() == NewRunID() {
		t.Fatalf("expected distinct run ids")
	}
}

func TestWriteSummaryLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "summary.txt")
	start := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
	summary := ProcessingSummary{
		RunID:     "run-1",
		StartTime: start,
		EndTime:   start.Add(2 * time.Second),
		Passed:    false,
		Sheets: []SheetSummary{
			{Name: "rack-a", Type: "6U", Status: "ported", Copied: 3, Overlaid: 1},
			{Name: "rack-b", Type: "14U", Status: "failed", Error: "boom"},
		},
		Errors: []string{"delete FourteenUnit: worksheet not found"},
	}
	if err := WriteSummaryLog(summary, path); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	text := string(data)
	for _, want := range []string{"run-1", "Result:         NG", "rack-a", "Error:          boom", "worksheet not found"} {
		if !strings.Contains(text, want) {
			t.Fatalf("summary missing %q:\n%s", want, text)
		}
	}
}
