// Command minic is the Mini ahead-of-time compiler: it lexes, parses,
// analyzes and lowers a single Mini source file to a native executable,
// invoking the system linker against the runtime support library to
// produce the final binary.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/oznakn/minic/internal/analyzer"
	"github.com/oznakn/minic/internal/ast"
	"github.com/oznakn/minic/internal/cache"
	"github.com/oznakn/minic/internal/config"
	"github.com/oznakn/minic/internal/diagnostics"
	"github.com/oznakn/minic/internal/gen"
	"github.com/oznakn/minic/internal/mcerr"
	"github.com/oznakn/minic/internal/parser"
)

type options struct {
	source     string
	output     string
	target     string
	optimize   bool
	emitObject bool
	noCache    bool
	configPath string
}

func parseArgs(args []string) (*options, error) {
	opts := &options{
		output:     config.DefaultOutputName,
		configPath: "mini.yaml",
	}
	var positional []string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-o", "--output":
			if i+1 >= len(args) {
				return nil, &mcerr.CliError{Msg: "-o/--output requires a path argument"}
			}
			i++
			opts.output = args[i]
		case "--target":
			if i+1 >= len(args) {
				return nil, &mcerr.CliError{Msg: "--target requires a triple argument"}
			}
			i++
			opts.target = args[i]
		case "--optimize":
			opts.optimize = true
		case "--emit-object":
			opts.emitObject = true
		case "--no-cache":
			opts.noCache = true
		case "--config":
			if i+1 >= len(args) {
				return nil, &mcerr.CliError{Msg: "--config requires a path argument"}
			}
			i++
			opts.configPath = args[i]
		default:
			if strings.HasPrefix(args[i], "-") {
				return nil, &mcerr.CliError{Msg: fmt.Sprintf("unrecognized flag %q", args[i])}
			}
			positional = append(positional, args[i])
		}
	}

	if len(positional) != 1 {
		return nil, &mcerr.CliError{Msg: "usage: minic <source.mini> [-o PATH] [--target TRIPLE] [--optimize] [--emit-object] [--no-cache]"}
	}
	opts.source = positional[0]
	return opts, nil
}

func main() {
	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := run(opts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(opts *options) error {
	src, err := os.ReadFile(opts.source)
	if err != nil {
		return &mcerr.CliError{Msg: fmt.Sprintf("reading %s: %s", opts.source, err)}
	}
	source := string(src)

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	target := opts.target
	if target == "" {
		target = cfg.Target
	}
	optimize := opts.optimize || cfg.Optimize
	output := opts.output
	if opts.output == config.DefaultOutputName && cfg.Output != "" {
		output = cfg.Output
	}

	prog, err := parser.Parse(source)
	if err != nil {
		fmt.Fprintln(os.Stdout, diagnostics.Format(opts.source, source, err))
		os.Exit(1)
	}

	if err := checkExternals(prog, cfg); err != nil {
		fmt.Fprintln(os.Stdout, diagnostics.Format(opts.source, source, err))
		os.Exit(1)
	}

	st, err := analyzer.Analyze(prog)
	if err != nil {
		fmt.Fprintln(os.Stdout, diagnostics.Format(opts.source, source, err))
		os.Exit(1)
	}

	object, err := compileWithCache(st, source, target, optimize, opts.noCache)
	if err != nil {
		return err
	}

	if opts.emitObject {
		objPath := strings.TrimSuffix(output, filepath.Ext(output)) + ".o"
		if err := os.WriteFile(objPath, object, 0644); err != nil {
			return &mcerr.CliError{Msg: fmt.Sprintf("writing object file: %s", err)}
		}
		return nil
	}

	return link(object, output)
}

// compileWithCache wraps gen.Generate with the whole-program object cache,
// keyed by the hash of every input that could change the emitted bytes: the
// source text, the target triple, and the optimize flag. There is no
// partial invalidation — a cache miss recompiles the entire program.
func compileWithCache(st *analyzer.SymbolTable, source, target string, optimize, noCache bool) ([]byte, error) {
	if noCache {
		return gen.Generate(st, target, optimize)
	}

	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	dir = filepath.Join(dir, "minic")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return gen.Generate(st, target, optimize)
	}

	store, err := cache.Open(filepath.Join(dir, "objects.db"))
	if err != nil {
		return gen.Generate(st, target, optimize)
	}
	defer store.Close()

	key := cache.Key(source, target, optimize)
	if data, ok, err := store.Lookup(key); err == nil && ok {
		return data, nil
	}

	object, err := gen.Generate(st, target, optimize)
	if err != nil {
		return nil, err
	}
	_ = store.Store(key, object)
	return object, nil
}

// checkExternals rejects `external` function declarations whose name is not
// on the project's allowlist, when mini.yaml configures one.
func checkExternals(prog *ast.Program, cfg config.Config) error {
	for _, stmt := range prog.Statements {
		fs, ok := stmt.(*ast.FunctionStatement)
		if !ok || !fs.Def.IsExternal {
			continue
		}
		if !cfg.IsExternAllowed(fs.Def.Name) {
			begin, end := fs.Range()
			return &mcerr.ExternalNotAllowed{Name: fs.Def.Name, Begin: begin, End: end}
		}
	}
	return nil
}

// link invokes the system linker (cc, so libc and the runtime support
// library resolve) against the generated object, producing the final
// executable at output.
func link(object []byte, output string) error {
	tmpObj := filepath.Join(os.TempDir(), "minic-"+uuid.NewString()+".o")
	if err := os.WriteFile(tmpObj, object, 0644); err != nil {
		return &mcerr.CliError{Msg: fmt.Sprintf("writing temporary object file: %s", err)}
	}
	defer os.Remove(tmpObj)

	cmd := exec.Command("cc", tmpObj, "-o", output, "-lminirt")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return &mcerr.CliError{Msg: fmt.Sprintf("linking: %s", err)}
	}
	return nil
}
