// Package driver runs the whole pipeline over a set of input files: parse,
// discover functions, lower each to a CFG, and write the per-file
// artifacts.
package driver

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/l3aro/v2flow/internal/config"
	"github.com/l3aro/v2flow/internal/log"
	"github.com/l3aro/v2flow/internal/scanner"
	"github.com/l3aro/v2flow/pkg/callgraph"
	"github.com/l3aro/v2flow/pkg/cfg"
	"github.com/l3aro/v2flow/pkg/emit"
)

// Options configures a Run.
type Options struct {
	OutDir    string
	Format    emit.Format
	Language  string // forces one front end; empty detects by extension
	Workers   int
	Limits    cfg.Limits
	CallGraph bool
	Logger    log.Logger
	Scan      scanner.Options
}

// OptionsFromConfig maps a validated configuration onto driver options.
func OptionsFromConfig(c *config.Config, logger log.Logger) (Options, error) {
	format, err := c.OutputFormat()
	if err != nil {
		return Options{}, err
	}
	return Options{
		OutDir:    c.OutDir,
		Format:    format,
		Language:  c.Language,
		Workers:   c.Workers,
		Limits:    c.Limits(),
		CallGraph: c.CallGraph,
		Logger:    logger,
		Scan:      scanner.DefaultOptions(),
	}, nil
}

func (o Options) withDefaults() Options {
	if o.OutDir == "" {
		o.OutDir = "."
	}
	if o.Format == "" {
		o.Format = emit.FormatDOT
	}
	if o.Workers <= 0 {
		o.Workers = 1
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	if o.Scan.IgnoreFileName == "" {
		o.Scan = scanner.DefaultOptions()
	}
	return o
}

// Run processes every file reachable from paths. Files are handled
// concurrently, at most Workers at a time, and the report lists them in
// input order. A failing file never stops the others; the returned error
// joins every per-file failure once all files are done. Cancelling ctx
// stops scheduling new files.
func Run(ctx context.Context, opts Options, paths []string) (*Report, error) {
	opts = opts.withDefaults()

	files, err := scanner.New(opts.Scan).Collect(paths)
	if err != nil {
		return nil, fmt.Errorf("collecting inputs: %w", err)
	}
	if err := os.MkdirAll(opts.OutDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", opts.OutDir, err)
	}
	opts.Logger.Debug("Collected input files", "count", len(files), "workers", opts.Workers)

	bases := OutputBases(files)
	results := make([]FileResult, len(files))

	var g errgroup.Group
	g.SetLimit(opts.Workers)
	for i, f := range files {
		if err := ctx.Err(); err != nil {
			results[i] = FileResult{Path: f.Path, Language: f.Language, Err: err}
			continue
		}
		g.Go(func() error {
			results[i] = processFile(ctx, opts, f, bases[i])
			return nil
		})
	}
	_ = g.Wait()

	report := &Report{Files: results}
	return report, report.Err()
}

func processFile(ctx context.Context, opts Options, f scanner.FileInfo, base string) FileResult {
	res := FileResult{Path: f.Path, Language: f.Language}
	if opts.Language != "" {
		res.Language = opts.Language
	}

	src, err := LoadSource(ctx, f.FullPath, res.Language)
	if err != nil {
		res.Err = err
		opts.Logger.Error("Failed to parse file", "file", f.Path, "error", err)
		return res
	}
	defer src.Close()

	if src.Diagnostics != nil {
		res.Diagnostics = src.Diagnostics
		opts.Logger.Warn("Recovered from syntax errors", "file", f.Path, "error", src.Diagnostics)
	}

	res.Functions = src.Functions(opts.Limits)
	if opts.CallGraph {
		res.CallGraph = callgraph.Build(res.Functions)
	}

	res.Outputs, res.Err = writeArtifacts(opts, f.Path, base, res)
	if res.Err != nil {
		opts.Logger.Error("Failed to write outputs", "file", f.Path, "error", res.Err)
		return res
	}
	opts.Logger.Info("Processed file", "file", f.Path, "functions", len(res.Functions))
	return res
}

// writeArtifacts renders every output in memory first and then writes the
// files, so a rendering failure leaves nothing half written.
func writeArtifacts(opts Options, path, base string, res FileResult) ([]string, error) {
	type artifact struct {
		name   string
		render func(io.Writer) error
	}

	var artifacts []artifact
	switch opts.Format {
	case emit.FormatDOT:
		prefix := "file_" + emit.SanitizeName(base)
		artifacts = append(artifacts, artifact{base + ".dot", func(w io.Writer) error {
			return emit.WriteClusteredDOT(w, prefix, res.Functions)
		}})
	default:
		doc, err := emit.NewDocument(path, res.Functions)
		if err != nil {
			return nil, fmt.Errorf("rendering %s: %w", base+opts.Format.Extension(), err)
		}
		artifacts = append(artifacts, artifact{base + opts.Format.Extension(), func(w io.Writer) error {
			return emit.Encode(w, opts.Format, doc)
		}})
	}
	if res.CallGraph != nil {
		artifacts = append(artifacts,
			artifact{base + ".callgraph.dot", res.CallGraph.WriteDOT},
			artifact{base + ".callgraph.csv", res.CallGraph.WriteCSV},
		)
	}

	rendered := make([][]byte, len(artifacts))
	for i, a := range artifacts {
		var buf bytes.Buffer
		if err := a.render(&buf); err != nil {
			return nil, fmt.Errorf("rendering %s: %w", a.name, err)
		}
		rendered[i] = buf.Bytes()
	}

	var outputs []string
	for i, a := range artifacts {
		out := filepath.Join(opts.OutDir, a.name)
		if err := os.WriteFile(out, rendered[i], 0644); err != nil {
			return outputs, fmt.Errorf("writing %s: %w", out, err)
		}
		outputs = append(outputs, out)
	}
	return outputs, nil
}

// OutputBases returns the artifact base name of each file: its file name.
// When several inputs share a file name, later ones get a -2, -3, ...
// suffix so concurrent writers never collide.
func OutputBases(files []scanner.FileInfo) []string {
	bases := make([]string, len(files))
	used := make(map[string]bool)
	for i, f := range files {
		base := filepath.Base(f.Path)
		candidate := base
		for n := 2; used[candidate]; n++ {
			candidate = base + "-" + strconv.Itoa(n)
		}
		used[candidate] = true
		bases[i] = candidate
	}
	return bases
}
