package healthcheck

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/l3aro/v2flow/internal/config"
	"github.com/l3aro/v2flow/internal/driver"
	"github.com/l3aro/v2flow/pkg/cfg"
)

// Statuses reported by Check.
const (
	StatusReady = "ready"
	StatusError = "error"
)

// samples holds one minimal function per front end.
var samples = map[string]string{
	"v2": "method sample() begin x := 1; end;\n",
	"go": "package sample\n\nfunc sample() {\n\tx := 1\n\t_ = x\n}\n",
	"c":  "int sample(void) { return 1; }\n",
}

// FrontEndStatus is the result of parsing and lowering one sample program.
type FrontEndStatus struct {
	Language string
	Status   string // "ready" or "error"
	Nodes    int    // CFG nodes of the sample function
	Error    string
}

// OutputStatus reports whether the output directory accepts files.
type OutputStatus struct {
	Dir    string
	Status string
	Error  string
}

// HealthCheckResult contains the full health check output for display.
type HealthCheckResult struct {
	EffectivePath  string
	EffectiveScope string // "global", "project", "file" or "" for defaults
	FrontEnds      []FrontEndStatus
	Output         OutputStatus
}

// Healthy reports whether every check passed.
func (r *HealthCheckResult) Healthy() bool {
	for _, fe := range r.FrontEnds {
		if fe.Status != StatusReady {
			return false
		}
	}
	return r.Output.Status == StatusReady
}

// Check performs a health check against the given config.
// effectivePath is the config file actually in use (may be empty).
func Check(ctx context.Context, c *config.Config, effectivePath string) (*HealthCheckResult, error) {
	if c == nil {
		return nil, fmt.Errorf("config is nil")
	}

	result := &HealthCheckResult{
		EffectivePath:  effectivePath,
		EffectiveScope: scopeFromPath(effectivePath),
	}

	for _, lang := range config.Languages {
		result.FrontEnds = append(result.FrontEnds, checkFrontEnd(ctx, lang, c.Limits()))
	}
	result.Output = checkOutputDir(c.OutDir)

	return result, nil
}

// scopeFromPath determines the scope of a config file path.
// Returns empty string if path is empty.
func scopeFromPath(path string) string {
	if path == "" {
		return ""
	}
	if filepath.Clean(path) == filepath.Clean(config.GlobalConfigFilePath()) {
		return "global"
	}
	if filepath.Clean(path) == filepath.Clean(config.ProjectConfigFilePath()) {
		return "project"
	}
	return "file"
}

func checkFrontEnd(ctx context.Context, lang string, limits cfg.Limits) FrontEndStatus {
	status := FrontEndStatus{Language: lang, Status: StatusError}

	sample, ok := samples[lang]
	if !ok {
		status.Error = "no sample program"
		return status
	}

	src, err := driver.ParseSource(ctx, "sample."+lang, lang, []byte(sample))
	if err != nil {
		status.Error = err.Error()
		return status
	}
	defer src.Close()

	if src.Diagnostics != nil {
		status.Error = src.Diagnostics.Error()
		return status
	}

	fn, ok := src.Function("sample", limits)
	if !ok {
		status.Error = "sample function not found"
		return status
	}

	status.Nodes = fn.Graph.Len()
	status.Status = StatusReady
	return status
}

// checkOutputDir creates the directory if needed and writes a scratch file.
func checkOutputDir(dir string) OutputStatus {
	status := OutputStatus{Dir: dir, Status: StatusError}

	if err := os.MkdirAll(dir, 0755); err != nil {
		status.Error = err.Error()
		return status
	}
	f, err := os.CreateTemp(dir, ".v2flow-doctor-*")
	if err != nil {
		status.Error = strings.TrimSpace(err.Error())
		return status
	}
	name := f.Name()
	f.Close()
	os.Remove(name)

	status.Status = StatusReady
	return status
}
