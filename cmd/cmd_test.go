package cmd

import (
	"testing"
)

func TestNew(t *testing.T) {
	cmd := New()
	if cmd == nil {
		t.Fatal("New() returned nil")
	}
	if cmd.Use != "stalewatch" {
		t.Errorf("expected Use to be 'stalewatch', got %q", cmd.Use)
	}
}

func TestNewCmdScan(t *testing.T) {
	opts := NewOptions()
	cmd := NewCmdScan(opts)
	if cmd == nil {
		t.Fatal("NewCmdScan() returned nil")
	}
	if cmd.Use != "scan" {
		t.Errorf("expected Use to be 'scan', got %q", cmd.Use)
	}

	for _, name := range []string{
		"org", "inactive-days", "activity-method", "exempt-topics",
		"exempt-repos", "metrics", "output", "output-dir", "workers",
		"timeout", "verbose", "tui",
	} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("flag %q not registered", name)
		}
	}
}

func TestNewCmdVersion(t *testing.T) {
	cmd := NewCmdVersion()
	if cmd == nil {
		t.Fatal("NewCmdVersion() returned nil")
	}
	if cmd.Use != "version" {
		t.Errorf("expected Use to be 'version', got %q", cmd.Use)
	}
}

func TestNewOptionsDefaults(t *testing.T) {
	opts := NewOptions()
	if opts.Workers != 4 {
		t.Errorf("Workers = %d, want 4", opts.Workers)
	}
	if opts.TUI != nil {
		t.Error("TUI should default to auto-detect (nil)")
	}
}

func TestTUIFlag(t *testing.T) {
	tests := []struct {
		value   string
		want    *bool
		wantErr bool
	}{
		{"true", boolPtr(true), false},
		{"yes", boolPtr(true), false},
		{"false", boolPtr(false), false},
		{"0", boolPtr(false), false},
		{"auto", nil, false},
		{"maybe", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			opts := NewOptions()
			f := newTUIFlag(opts)

			err := f.Set(tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Set(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if (opts.TUI == nil) != (tt.want == nil) {
				t.Fatalf("TUI = %v, want %v", opts.TUI, tt.want)
			}
			if opts.TUI != nil && *opts.TUI != *tt.want {
				t.Errorf("TUI = %v, want %v", *opts.TUI, *tt.want)
			}
		})
	}
}

func TestTUIFlagString(t *testing.T) {
	opts := NewOptions()
	f := newTUIFlag(opts)

	if f.String() != "auto" {
		t.Errorf("String() = %q, want auto", f.String())
	}
	if err := f.Set("true"); err != nil {
		t.Fatal(err)
	}
	if f.String() != "true" {
		t.Errorf("String() = %q, want true", f.String())
	}
}

func TestShouldUseTUIVerbose(t *testing.T) {
	opts := NewOptions(WithVerbosity(1), WithTUI(boolPtr(true)))
	if shouldUseTUI(opts) {
		t.Error("verbose run should disable the TUI even when forced on")
	}
}

func boolPtr(v bool) *bool {
	return &v
}
