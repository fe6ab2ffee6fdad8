// Copyright 2026 Google Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bootstrap

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/extgen"
	"github.com/google/extgen/cargo"
	"github.com/google/extgen/cxx"
	"github.com/google/extgen/cxxrtl"
	"github.com/google/extgen/deptools"
	"github.com/google/extgen/description"
	"github.com/google/extgen/filament"
	"github.com/google/extgen/internal/ctxlog"
	"github.com/google/extgen/pathtools"
	"github.com/google/extgen/rsrtl"
	"github.com/google/extgen/yosys"
)

var (
	configFile string
	outFile    string
	depFile    string
	buildDir   string
	logLevel   string
	logFormat  string
)

func init() {
	flag.StringVar(&configFile, "c", "", "the YAML configuration file")
	flag.StringVar(&outFile, "o", "", "the Ninja file to output (default <builddir>/build.ninja)")
	flag.StringVar(&buildDir, "b", "", "the build output directory")
	flag.StringVar(&depFile, "d", "", "the dependency file to output")
	flag.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")
	flag.StringVar(&logFormat, "log-format", "", "log format: text or json")
}

// Deps are the collaborators of Run.  Zero fields select the local file
// system, $PATH lookup configured by Config and os/exec.
type Deps struct {
	FS      pathtools.FileSystem
	Locator extgen.ToolLocator
	Runner  extgen.HelperRunner
}

// Main parses the command line, runs one graph-construction pass and exits
// the process on failure.  The optional positional argument is the top-level
// description file; its directory becomes the source directory.
func Main() {
	if !flag.Parsed() {
		flag.Parse()
	}

	cfg := DefaultConfig()
	if configFile != "" {
		if err := cfg.LoadConfig(configFile); err != nil {
			fatalf("error reading configuration: %s", err)
		}
	}

	// Flags given on the command line override the configuration file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "o":
			cfg.Output = outFile
		case "b":
			cfg.BuildDir = buildDir
		case "d":
			cfg.Depfile = depFile
		case "log-level":
			cfg.Log.Level = logLevel
		case "log-format":
			cfg.Log.Format = logFormat
		}
	})
	if flag.NArg() > 1 {
		fatalf("expected at most one description file, got %d", flag.NArg())
	}
	if flag.NArg() == 1 {
		top := flag.Arg(0)
		cfg.SourceDir = filepath.Dir(top)
		cfg.Description = filepath.Base(top)
	}

	if err := cfg.Validate(); err != nil {
		fatalf("invalid configuration: %s", err)
	}

	logger := newLogger(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	ctx := ctxlog.WithLogger(context.Background(), logger)

	if err := Run(ctx, cfg, Deps{}); err != nil {
		fatalErrors([]error{err})
	}
}

// Run evaluates the descriptions named by cfg and writes the Ninja manifest,
// and the dependency file if cfg names one.
func Run(ctx context.Context, cfg *Config, deps Deps) error {
	logger := ctxlog.FromContext(ctx)

	if deps.FS == nil {
		deps.FS = pathtools.OsFs
	}
	if deps.Locator == nil {
		deps.Locator = &extgen.PathLocator{Overrides: cfg.Tools, SearchPath: cfg.SearchPath}
	}
	if deps.Runner == nil {
		deps.Runner = extgen.ExecRunner{}
	}

	graph := extgen.NewGraph(extgen.PathContext{SourceDir: cfg.SourceDir, BuildDir: cfg.BuildDir})
	manifests := cargo.NewTOMLLoader(deps.FS, cfg.SourceDir)
	toolchain := yosys.New(deps.Locator, deps.Runner)

	in := description.New(graph, deps.FS, cfg.SourceDir, cfg.Description, description.Modules{
		Cargo:    cargo.New(graph, deps.Locator, manifests),
		Cxx:      cxx.New(graph, deps.Locator),
		CXXRTL:   cxxrtl.New(graph, toolchain),
		Filament: filament.New(graph, deps.Locator),
		RSRTL:    rsrtl.New(graph, toolchain),
		Tools:    extgen.NewToolSet(deps.Locator),
	})

	if err := in.Run(ctx, ""); err != nil {
		return err
	}

	var ninjaDeps []string
	if cfg.file != "" {
		ninjaDeps = append(ninjaDeps, cfg.file)
	}
	ninjaDeps = append(ninjaDeps, in.Files()...)
	ninjaDeps = append(ninjaDeps, manifests.Files()...)

	buf := &bytes.Buffer{}
	if err := graph.WriteBuildFile(buf); err != nil {
		return fmt.Errorf("error generating Ninja file contents: %w", err)
	}

	out := cfg.OutputPath()
	if err := os.MkdirAll(filepath.Dir(out), 0777); err != nil {
		return err
	}
	const outFilePermissions = 0666
	if err := os.WriteFile(out, buf.Bytes(), outFilePermissions); err != nil {
		return fmt.Errorf("error writing %s: %w", out, err)
	}

	if cfg.Depfile != "" {
		if err := deptools.WriteDepFile(cfg.Depfile, out, ninjaDeps); err != nil {
			return fmt.Errorf("error writing depfile: %w", err)
		}
	}

	logger.Info("wrote build file", "output", out, "nodes", len(graph.Nodes()), "inputs", len(ninjaDeps))
	return nil
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	fmt.Fprint(os.Stderr, "\n")
	os.Exit(1)
}

func fatalErrors(errs []error) {
	for _, err := range errs {
		if isUserError(err) {
			fmt.Fprintf(os.Stderr, "%s\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "internal error: %s\n", err)
		}
	}
	os.Exit(1)
}

// isUserError reports whether err describes a problem with the build
// descriptions, manifests or tools rather than a failure of extgen itself.
func isUserError(err error) bool {
	var (
		descErr    *description.Error
		validation *extgen.ValidationError
		resolution *extgen.ToolResolutionError
		external   *extgen.ExternalToolError
		template   *extgen.TemplateError
		conflict   *extgen.GraphConflictError
		pathErr    *os.PathError
	)
	return errors.As(err, &descErr) ||
		errors.As(err, &validation) ||
		errors.As(err, &resolution) ||
		errors.As(err, &external) ||
		errors.As(err, &template) ||
		errors.As(err, &conflict) ||
		errors.As(err, &pathErr)
}
