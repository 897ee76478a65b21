package driver

import (
	"errors"
	"fmt"

	"github.com/l3aro/v2flow/pkg/callgraph"
	"github.com/l3aro/v2flow/pkg/cfg"
)

// FileResult is the outcome of one input file.
type FileResult struct {
	Path        string
	Language    string
	Functions   []cfg.Function
	CallGraph   *callgraph.CallGraph
	Outputs     []string // written files, in write order
	Diagnostics error    // recovered syntax errors
	Err         error    // set when the file produced no complete output
}

// Report lists file results in input order.
type Report struct {
	Files []FileResult
}

// Failed returns the results that carry an error.
func (r *Report) Failed() []FileResult {
	var failed []FileResult
	for _, f := range r.Files {
		if f.Err != nil {
			failed = append(failed, f)
		}
	}
	return failed
}

func (r *Report) FunctionCount() int {
	n := 0
	for _, f := range r.Files {
		n += len(f.Functions)
	}
	return n
}

// Err joins every per-file error, each prefixed with its path.
func (r *Report) Err() error {
	var errs []error
	for _, f := range r.Failed() {
		errs = append(errs, fmt.Errorf("%s: %w", f.Path, f.Err))
	}
	return errors.Join(errs...)
}
