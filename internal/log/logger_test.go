package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestInitialize(t *testing.T) {
	var buf bytes.Buffer
	Initialize(LevelInfo, &buf)

	if Verbosity() != LevelInfo {
		t.Errorf("expected verbosity %d, got %d", LevelInfo, Verbosity())
	}
}

func TestLogLevels(t *testing.T) {
	var buf bytes.Buffer

	Initialize(LevelDebug, &buf)

	Info("test info", "key", "value")
	Debug("test debug", "key", "value")
	Warn("test warn", "key", "value")
	Error("test error", "key", "value")

	if buf.Len() == 0 {
		t.Error("expected log output, got none")
	}
}

func TestQuietSuppressesInfo(t *testing.T) {
	var buf bytes.Buffer

	Initialize(LevelQuiet, &buf)

	Info("should not appear")
	if strings.Contains(buf.String(), "should not appear") {
		t.Error("info message logged at quiet level")
	}

	Warn("should appear")
	if !strings.Contains(buf.String(), "should appear") {
		t.Error("warn message missing at quiet level")
	}
}

func TestLogLevelChecks(t *testing.T) {
	var buf bytes.Buffer

	Initialize(LevelDebug, &buf)

	if !IsInfo() {
		t.Error("expected IsInfo() to be true at debug level")
	}
	if !IsDebug() {
		t.Error("expected IsDebug() to be true at debug level")
	}

	Initialize(LevelQuiet, &buf)
	if IsInfo() {
		t.Error("expected IsInfo() to be false at quiet level")
	}
}
