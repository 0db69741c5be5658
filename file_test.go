package readprof

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTempFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blk_0001")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestOpenReadsThroughSampler(t *testing.T) {
	path := writeTempFile(t, []byte("0123456789"))
	metrics := NewMetrics(DefaultMetricsConfig())

	f, err := Open(path, enabledConfig(100), metrics, &stepClock{step: 3 * time.Millisecond})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
	}()

	if f.Name() != path {
		t.Fatalf("expected name %q, got %q", path, f.Name())
	}

	buf := make([]byte, 4)
	n, err := f.ReadAt(buf, 3)
	if err != nil || n != 4 || string(buf) != "3456" {
		t.Fatalf("expected (4, nil, 3456), got (%d, %v, %q)", n, err, buf)
	}
	if got := metrics.Value(MetricLatencySamples); got != 1 {
		t.Fatalf("expected one sample, got %d", got)
	}
	if got := metrics.Snapshot().LatencySumMillis; got != 3 {
		t.Fatalf("expected 3ms recorded, got %d", got)
	}

	var _ io.ReaderAt = f
}

func TestOpenMissingFileReturnsError(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing"), enabledConfig(100), nil, nil)
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}
}

func TestOpenedFilesHaveIndependentWarningBudgets(t *testing.T) {
	path := writeTempFile(t, []byte("abcdef"))
	logger := &recordingLogger{}
	clock := &stepClock{step: 2 * time.Second}

	first, err := Open(path, enabledConfig(100), nil, clock, WithLogger(logger))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer first.Close()
	second, err := Open(path, enabledConfig(100), nil, clock, WithLogger(logger))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer second.Close()

	buf := make([]byte, 2)
	for i := 0; i < 3; i++ {
		_, _ = first.ReadAt(buf, 0)
	}
	if got := len(logger.Entries("warn")); got != 1 {
		t.Fatalf("expected one warning from first file, got %d", got)
	}
	_, _ = second.ReadAt(buf, 0)
	if got := len(logger.Entries("warn")); got != 2 {
		t.Fatalf("expected second file to warn independently, got %d", got)
	}
	if !first.Reader().WarningLogged() || !second.Reader().WarningLogged() {
		t.Fatal("expected both readers to have warned")
	}
}

func TestWrapNilReaderIsDisabled(t *testing.T) {
	f := Wrap(bytes.NewReader([]byte("xyz")), nil)
	if f.Reader().Enabled() {
		t.Fatal("expected disabled reader")
	}
	buf := make([]byte, 3)
	if n, err := f.ReadAt(buf, 0); err != nil || n != 3 {
		t.Fatalf("expected (3, nil), got (%d, %v)", n, err)
	}
	if f.Name() != "" {
		t.Fatalf("expected empty name for non-file reader, got %q", f.Name())
	}
	if err := f.Close(); err != nil {
		t.Fatalf("expected no-op close, got %v", err)
	}
}

func TestFileNilUnderlyingReturnsErrNilReader(t *testing.T) {
	f := Wrap(nil, nil)
	if _, err := f.ReadAt(make([]byte, 1), 0); !errors.Is(err, ErrNilReader) {
		t.Fatalf("expected ErrNilReader, got %v", err)
	}
}
