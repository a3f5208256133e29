package trace

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseScript(t *testing.T) {
	got, err := ParseScript(" 900:play, 0:play,600:pause,1500:seek=2,")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := []Command{
		{AtMs: 0, Action: ActionPlay},
		{AtMs: 600, Action: ActionPause},
		{AtMs: 900, Action: ActionPlay},
		{AtMs: 1500, Action: ActionSeek, Index: 2},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("commands mismatch (-want +got):\n%s", diff)
	}
	if s := FormatScript(got); s != "0:play,600:pause,900:play,1500:seek=2" {
		t.Errorf("unexpected format %q", s)
	}
}

func TestParseScriptErrors(t *testing.T) {
	tests := []struct {
		script string
		is     error
	}{
		{"0:jump", ErrUnknownAction},
		{"play", nil},
		{"-5:play", nil},
		{"abc:play", nil},
		{"0:seek=x", nil},
	}

	for _, tt := range tests {
		_, err := ParseScript(tt.script)
		if err == nil {
			t.Errorf("%q: expected error", tt.script)
			continue
		}
		if tt.is != nil && !errors.Is(err, tt.is) {
			t.Errorf("%q: expected %v, got %v", tt.script, tt.is, err)
		}
	}
}

func TestLoadScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pause.yaml")
	data := `
name: pause-and-resume
topic: http
diagram: request-response
until_ms: 20000
commands:
  - {at_ms: 900, action: play}
  - {at_ms: 0, action: play}
  - {at_ms: 600, action: pause}
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	script, err := LoadScript(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if script.Topic != "http" || script.Diagram != "request-response" {
		t.Errorf("unexpected target %s/%s", script.Topic, script.Diagram)
	}
	if FormatScript(script.Commands) != "0:play,600:pause,900:play" {
		t.Errorf("commands not sorted: %s", FormatScript(script.Commands))
	}
}

func TestLoadScriptUnknownAction(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("commands:\n  - {at_ms: 0, action: rewind}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadScript(path); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("expected ErrUnknownAction, got %v", err)
	}
}
