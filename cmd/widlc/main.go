// Package main implements the widl compiler entry point.
//
// widlc parses a set of IDL files, orders the declarations so nothing is
// used before it is declared, and renders every output named in the
// configuration through its template.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/you-not-fish/widl/internal/codegen"
	"github.com/you-not-fish/widl/internal/config"
	"github.com/you-not-fish/widl/internal/errors"
	"github.com/you-not-fish/widl/internal/extattr"
	"github.com/you-not-fish/widl/internal/logger"
	"github.com/you-not-fish/widl/internal/model"
	"github.com/you-not-fish/widl/internal/order"
	"github.com/you-not-fish/widl/internal/parser"
	"github.com/you-not-fish/widl/internal/syntax"
	"github.com/you-not-fish/widl/internal/tmpl"
	"github.com/you-not-fish/widl/internal/types"
)

// Version is the default code generation version exposed to templates.
const Version = 1

// options holds the command-line flags.
type options struct {
	version       int
	debug         bool
	logJSON       bool
	defines       []string
	config        string
	emitTokens    bool
	emitModel     bool
	emitModelJSON bool
	emitOrder     bool
}

func main() {
	os.Exit(run(afero.NewOsFs(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the compiler and returns the process exit code.
func run(fs afero.Fs, args []string, stdout, stderr io.Writer) int {
	cmd := newCommand(fs, stdout, stderr)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		var serr *syntax.Error
		if errors.As(err, &serr) {
			fmt.Fprintln(stderr, serr)
		} else {
			fmt.Fprintf(stderr, "error: %v\n", err)
		}
		return 1
	}
	return 0
}

func newCommand(fs afero.Fs, stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "widlc -c <config> [flags] <idl>...",
		Short: "Generate code from WebIDL-like interface definitions",
		Long: `widlc reads interface definitions, orders them so that every type is
declared before use, and renders each output listed in the configuration
through its Mustache-like template.

Examples:
  widlc -c widl.json -d OUT=build/gen model.idl extras.idl
  widlc -c widl.yaml --emit-order model.idl`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, paths []string) error {
			return compile(fs, opts, paths, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.IntVar(&opts.version, "version", Version, "select the version for generated code")
	flags.BoolVar(&opts.debug, "debug", false, "trace template compilation and rendering")
	flags.BoolVar(&opts.logJSON, "log-json", false, "write diagnostics as JSON")
	flags.StringArrayVarP(&opts.defines, "define", "d", nil, "declare <var>=<value> for output path templates")
	flags.StringVarP(&opts.config, "config", "c", "", "configuration file (JSON, YAML or TOML)")
	flags.BoolVar(&opts.emitTokens, "emit-tokens", false, "print the token stream and exit")
	flags.BoolVar(&opts.emitModel, "emit-model", false, "print the merged model as IDL and exit")
	flags.BoolVar(&opts.emitModelJSON, "emit-model-json", false, "print the merged model as JSON and exit")
	flags.BoolVar(&opts.emitOrder, "emit-order", false, "print the declaration order and exit")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

func compile(fs afero.Fs, opts *options, paths []string, stdout, stderr io.Writer) error {
	log := logger.New(stderr, logger.Options{Debug: opts.debug, JSON: opts.logJSON})
	defer func() { _ = log.Sync() }()

	if opts.emitTokens {
		return emitTokens(fs, paths, stdout)
	}

	cfg, err := config.Load(fs, opts.config)
	if err != nil {
		return err
	}
	defines, err := config.ParseDefines(opts.defines)
	if err != nil {
		return err
	}
	schema := extattr.NewSchema()
	reg := types.NewUniverse()
	if err := cfg.Apply(schema, reg); err != nil {
		return err
	}

	classes, err := parser.ParseAll(fs, paths, schema, log)
	if err != nil {
		return err
	}
	switch {
	case opts.emitModel:
		return model.Fprint(stdout, classes)
	case opts.emitModelJSON:
		return model.FprintJSON(stdout, classes)
	}

	classes = order.Resolve(classes, reg.IsSimple)
	if opts.emitOrder {
		for _, name := range model.Names(classes) {
			fmt.Fprintln(stdout, name)
		}
		return nil
	}

	progress := pterm.DefaultBasicText.WithWriter(stdout)
	for _, o := range cfg.Outputs {
		if o.Skip() {
			continue
		}
		outPath, err := o.OutputPath(defines)
		if err != nil {
			return err
		}
		tplPath := cfg.TemplatePath(o)
		progress.Printfln("%s -> %s", tplPath, outPath)

		r := &renderer{
			fs:      fs,
			log:     log,
			debug:   opts.debug,
			version: opts.version,
			reg:     reg,
			classes: classes,
		}
		err = codegen.WriteFile(fs, outPath, func(w io.Writer) error {
			return r.render(w, o, tplPath, outPath)
		})
		if err != nil {
			return errors.Wrapf(err, "output %q", o.Name)
		}
	}
	return nil
}

// renderer produces a single output file.
type renderer struct {
	fs      afero.Fs
	log     *zap.SugaredLogger
	debug   bool
	version int
	reg     *types.Registry
	classes []model.Class
}

func (r *renderer) render(w io.Writer, o config.Output, tplPath, outPath string) error {
	src, err := afero.ReadFile(r.fs, tplPath)
	if err != nil {
		return errors.Wrapf(err, "reading %s", tplPath)
	}
	t, err := tmpl.Compile(string(src))
	if err != nil {
		return errors.Wrapf(err, "%s", tplPath)
	}
	ctx, err := codegen.Build(o.Language(), r.classes, codegen.Options{
		Output:   outPath,
		Version:  r.version,
		Initial:  o.Context,
		Registry: r.reg,
		Log:      r.log,
	})
	if err != nil {
		return err
	}

	var opts []tmpl.Option
	if r.debug {
		dump, err := json.MarshalIndent(ctx, "", "    ")
		if err != nil {
			return errors.Wrap(err, "dumping context")
		}
		r.log.Debugf("context:\n%s", dump)
		r.log.Debugf("template:\n%s", t)
		opts = append(opts, tmpl.WithTrace(r.log))
	}
	return t.Execute(w, ctx, opts...)
}

// emitTokens scans each file and prints its tokens with positions.
func emitTokens(fs afero.Fs, paths []string, stdout io.Writer) error {
	fmt.Fprintf(stdout, "%-20s %-12s %s\n", "POSITION", "TOKEN", "LITERAL")
	fmt.Fprintf(stdout, "%-20s %-12s %s\n", strings.Repeat("-", 20), strings.Repeat("-", 12), strings.Repeat("-", 20))
	for _, path := range paths {
		f, err := fs.Open(path)
		if err != nil {
			return errors.Wrapf(err, "opening %s", path)
		}
		toks, err := syntax.Tokenize(path, f)
		_ = f.Close()
		if err != nil {
			return err
		}
		for _, tok := range toks {
			lit := tok.Text
			if tok.Kind == syntax.String {
				lit = formatLiteral(tok.Value)
			}
			fmt.Fprintf(stdout, "%-20s %-12s %s\n", tok.Pos, tok.Kind, lit)
		}
	}
	return nil
}

// formatLiteral quotes a string literal with escapes visible.
func formatLiteral(lit string) string {
	var b strings.Builder
	b.WriteRune('"')
	for _, r := range lit {
		switch r {
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteRune('"')
	return b.String()
}
