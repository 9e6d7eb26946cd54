package canopy

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

// captureLog routes canopy's logger into a buffer for the test's duration.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	l := log.New(&buf)
	l.SetLevel(log.DebugLevel)
	prev := Logger()
	SetLogger(l)
	t.Cleanup(func() { SetLogger(prev) })
	return &buf
}

func debugStage(t *testing.T) *Stage {
	t.Helper()
	s, _ := newTestStage(800, 600)
	s.SetDebugMode(true)
	t.Cleanup(func() { s.SetDebugMode(false) })
	return s
}

func TestDebugModeDisposedParentPanics(t *testing.T) {
	debugStage(t)
	parent := NewNode("parent")
	parent.Dispose()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on AddChild to disposed parent")
		}
		if msg := fmt.Sprint(r); !strings.Contains(msg, "disposed") {
			t.Errorf("panic message should mention 'disposed', got: %s", msg)
		}
	}()
	parent.AddChild(NewNode("child"))
}

func TestDebugModeTreeDepthWarning(t *testing.T) {
	buf := captureLog(t)
	s := debugStage(t)

	current := s.Root()
	for i := 0; i < debugMaxTreeDepth+5; i++ {
		child := NewNode(fmt.Sprintf("depth_%d", i))
		current.AddChild(child)
		current = child
	}

	if !strings.Contains(buf.String(), "tree depth exceeds threshold") {
		t.Errorf("expected tree depth warning, got: %q", buf.String())
	}
}

func TestDebugModeChildCountWarning(t *testing.T) {
	buf := captureLog(t)
	s := debugStage(t)

	parent := NewNode("many_children")
	s.Root().AddChild(parent)
	for i := 0; i < debugMaxChildCount+1; i++ {
		parent.AddChild(NewNode(fmt.Sprintf("c_%d", i)))
	}

	out := buf.String()
	if !strings.Contains(out, "child count exceeds threshold") || !strings.Contains(out, "many_children") {
		t.Errorf("expected child count warning, got: %q", out)
	}
}

func TestReleaseModeSkipsWarnings(t *testing.T) {
	buf := captureLog(t)
	s, _ := newTestStage(800, 600)

	parent := NewNode("many_children")
	s.Root().AddChild(parent)
	for i := 0; i < debugMaxChildCount+1; i++ {
		parent.AddChild(NewNode(fmt.Sprintf("c_%d", i)))
	}
	if buf.Len() != 0 {
		t.Errorf("release mode logged: %q", buf.String())
	}
}

func TestDebugModeLogsFrameStats(t *testing.T) {
	buf := captureLog(t)
	s := debugStage(t)
	s.Root().AddChild(quadAt("a", 0, 0))
	s.Frame(0)

	out := buf.String()
	for _, want := range []string{"frame", "batches=1", "drawables=1"} {
		if !strings.Contains(out, want) {
			t.Errorf("frame log missing %q: %q", want, out)
		}
	}
}

func TestConfigDebugEnablesDebugMode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Debug = true
	s := NewStage(cfg, nil)
	t.Cleanup(func() { s.SetDebugMode(false) })
	if !globalDebug {
		t.Error("Config.Debug should enable debug mode")
	}
}

func TestSetLoggerNilRestoresSilentDefault(t *testing.T) {
	prev := Logger()
	t.Cleanup(func() { SetLogger(prev) })

	SetLogger(nil)
	if Logger() == nil {
		t.Fatal("Logger() = nil")
	}
	// Must not panic or write anywhere visible.
	Logger().Warn("discarded")
}
