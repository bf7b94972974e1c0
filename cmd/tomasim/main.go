// Command tomasim runs an assembly program on the Tomasulo out-of-order
// core and prints its per-instruction timing table.
//
// Usage:
//
//	tomasim [-max-cycles N] [-config path.json|path.yaml] [-cache]
//	        [-v] [-version] [-report-template path.tmpl] <program.asm>
package main

import (
	"flag"
	"fmt"
	"os"
	"text/template"

	"github.com/Masterminds/semver/v3"
	"github.com/go-logr/logr/funcr"
	sprig "github.com/go-task/slim-sprig/v3"

	"github.com/sarchlab/tomasulo-sim/emu"
	"github.com/sarchlab/tomasulo-sim/loader"
	"github.com/sarchlab/tomasulo-sim/timing/cache"
	"github.com/sarchlab/tomasulo-sim/timing/core"
	"github.com/sarchlab/tomasulo-sim/timing/latency"
	"github.com/sarchlab/tomasulo-sim/timing/pipeline"
	"github.com/sarchlab/tomasulo-sim/tracker"
)

// version is the build-time version string, normally set via
// `-ldflags "-X main.version=..."`. It must be a valid semantic version;
// a malformed injected value is caught by -version rather than printed
// as-is.
var version = "0.0.0-dev"

const defaultReportTemplate = `cycles: {{ .Stats.Cycles }}  committed: {{ .Stats.Committed }}  flushes: {{ .Stats.Flushes }}

instr_id  op    issue  exec_start  exec_finish  write  commit
{{- range .Timing }}
{{ printf "%-8d" .InstrID }}  {{ printf "%-4s" .Mnemonic }}  {{ printf "%-5s" (formatCycle .Issue) }}  {{ printf "%-10s" (formatCycle .ExecuteStart) }}  {{ printf "%-11s" (formatCycle .ExecuteFinish) }}  {{ printf "%-5s" (formatCycle .Write) }}  {{ printf "%-6s" (formatCycle .Commit) }}{{ if .Flushed }}  (flushed){{ end }}
{{- end }}
`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("tomasim", flag.ContinueOnError)
	maxCycles := fs.Int("max-cycles", 1000, "watchdog cycle limit before aborting the run")
	configPath := fs.String("config", "", "path to a JSON or YAML latency configuration file")
	useCache := fs.Bool("cache", false, "enrich LOAD/STORE timing with a simulated L1 data cache instead of the fixed memory-phase latency")
	verbose := fs.Bool("v", false, "emit one structured log line per stage transition")
	showVersion := fs.Bool("version", false, "print the build version and exit")
	reportTemplatePath := fs.String("report-template", "", "path to a text/template overriding the default timing table rendering")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	if *showVersion {
		v, err := semver.NewVersion(version)
		if err != nil {
			fmt.Fprintf(os.Stderr, "tomasim: invalid build version %q: %v\n", version, err)
			return 1
		}
		fmt.Println(v.String())
		return 0
	}

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: tomasim [flags] <program.asm>")
		fs.PrintDefaults()
		return 1
	}

	program, err := loader.Load(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "tomasim: %v\n", err)
		return 1
	}

	memory := emu.NewMemory()
	opts, err := buildOptions(*configPath, *useCache, *verbose, memory)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tomasim: %v\n", err)
		return 1
	}

	c := core.NewWithMemory(&emu.RegFile{}, memory, program, opts...)
	snap, runErr := c.Run(*maxCycles)

	if renderErr := renderReport(os.Stdout, snap, *reportTemplatePath); renderErr != nil {
		fmt.Fprintf(os.Stderr, "tomasim: %v\n", renderErr)
		return 1
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "tomasim: %v\n", runErr)
		return 2
	}
	return 0
}

// buildOptions assembles the core.Option set from CLI flags: an
// optional latency configuration, an optional L1 cache enrichment for
// LOAD/STORE, and an optional verbose logger. The cache, when enabled,
// is backed by memory directly, the same instance the core will run
// against, so its hit/miss timing follows the program's actual accesses
// and the lines it fetches come from the program's memory rather than an
// empty, unrelated image.
func buildOptions(configPath string, useCache, verbose bool, memory *emu.Memory) ([]core.Option, error) {
	var opts []core.Option

	if configPath != "" {
		config, err := latency.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("loading latency config: %w", err)
		}
		if err := config.Validate(); err != nil {
			return nil, fmt.Errorf("invalid latency config: %w", err)
		}
		opts = append(opts, core.WithLatencyTable(latency.NewTableWithConfig(config)))
	}

	if useCache {
		backing := cache.NewMemoryBacking(memory)
		l1 := cache.New(cache.DefaultL1Config(), backing)
		opts = append(opts, core.WithLoadCache(l1), core.WithStoreCache(l1))
	}

	if verbose {
		logger := funcr.New(func(prefix, args string) {
			if prefix != "" {
				fmt.Fprintf(os.Stderr, "%s %s\n", prefix, args)
			} else {
				fmt.Fprintln(os.Stderr, args)
			}
		}, funcr.Options{Verbosity: 1})
		opts = append(opts, core.WithLogger(logger))
	}

	return opts, nil
}

// renderReport renders the final snapshot's timing table to w, using the
// template at templatePath if given, or defaultReportTemplate otherwise.
func renderReport(w *os.File, snap pipeline.Snapshot, templatePath string) error {
	text := defaultReportTemplate
	if templatePath != "" {
		data, err := os.ReadFile(templatePath)
		if err != nil {
			return fmt.Errorf("reading report template: %w", err)
		}
		text = string(data)
	}

	tmpl, err := template.New("report").Funcs(sprig.FuncMap()).Funcs(template.FuncMap{
		"formatCycle": tracker.FormatCycle,
	}).Parse(text)
	if err != nil {
		return fmt.Errorf("parsing report template: %w", err)
	}

	return tmpl.Execute(w, snap)
}
