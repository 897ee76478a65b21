package healthcheck

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/l3aro/v2flow/internal/config"
)

func TestCheckWithNilConfig(t *testing.T) {
	_, err := Check(context.Background(), nil, "")
	if err == nil {
		t.Error("Expected error for nil config, got nil")
	}
}

func TestCheckFrontEnds(t *testing.T) {
	c := config.DefaultConfig()
	c.OutDir = filepath.Join(t.TempDir(), "out")

	result, err := Check(context.Background(), c, "")
	if err != nil {
		t.Fatalf("Check() failed: %v", err)
	}

	if len(result.FrontEnds) != len(config.Languages) {
		t.Fatalf("Expected %d front ends, got %d", len(config.Languages), len(result.FrontEnds))
	}
	for i, fe := range result.FrontEnds {
		if fe.Language != config.Languages[i] {
			t.Errorf("FrontEnds[%d].Language = %q, want %q", i, fe.Language, config.Languages[i])
		}
		if fe.Status != StatusReady {
			t.Errorf("Front end %s: status %q, error %q", fe.Language, fe.Status, fe.Error)
		}
		if fe.Nodes < 2 {
			t.Errorf("Front end %s: expected at least entry and exit, got %d nodes", fe.Language, fe.Nodes)
		}
	}

	if result.Output.Status != StatusReady {
		t.Errorf("Output.Status = %q (%s)", result.Output.Status, result.Output.Error)
	}
	if _, err := os.Stat(c.OutDir); err != nil {
		t.Errorf("Expected output directory to be created: %v", err)
	}
	entries, _ := os.ReadDir(c.OutDir)
	if len(entries) != 0 {
		t.Errorf("Expected scratch file to be removed, found %d entries", len(entries))
	}
	if !result.Healthy() {
		t.Error("Expected a healthy result")
	}
}

func TestCheckUnwritableOutput(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	c := config.DefaultConfig()
	c.OutDir = filepath.Join(blocker, "out")

	result, err := Check(context.Background(), c, "")
	if err != nil {
		t.Fatalf("Check() failed: %v", err)
	}
	if result.Output.Status != StatusError || result.Output.Error == "" {
		t.Errorf("Expected output error, got %+v", result.Output)
	}
	if result.Healthy() {
		t.Error("Expected an unhealthy result")
	}
}

func TestScopeFromPath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{"empty path", "", ""},
		{"global path", config.GlobalConfigFilePath(), "global"},
		{"project path", config.ProjectConfigFilePath(), "project"},
		{"explicit file", "/etc/v2flow.yaml", "file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scopeFromPath(tt.path); got != tt.expected {
				t.Errorf("scopeFromPath(%q) = %q, want %q", tt.path, got, tt.expected)
			}
		})
	}
}
