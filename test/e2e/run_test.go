package e2e

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/you-not-fish/widl/internal/codegen"
	"github.com/you-not-fish/widl/internal/config"
	"github.com/you-not-fish/widl/internal/extattr"
	"github.com/you-not-fish/widl/internal/model"
	"github.com/you-not-fish/widl/internal/order"
	"github.com/you-not-fish/widl/internal/parser"
	"github.com/you-not-fish/widl/internal/tmpl"
	"github.com/you-not-fish/widl/internal/types"
)

// TestE2E runs end-to-end tests for every case directory in testdata/.
// Each case:
//  1. Loads widl.yaml and extends the attribute schema and type registry
//  2. Parses and merges all .idl files of the case in name order
//  3. Orders the declarations
//  4. Renders every configured output into an in-memory filesystem
//  5. Compares each output against <output name>.golden
func TestE2E(t *testing.T) {
	configs, err := filepath.Glob("testdata/*/widl.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if len(configs) == 0 {
		t.Fatal("no test cases found in testdata/")
	}

	for _, cfgPath := range configs {
		dir := filepath.Dir(cfgPath)
		t.Run(filepath.Base(dir), func(t *testing.T) {
			runE2ETest(t, dir)
		})
	}
}

// runE2ETest runs a single end-to-end test.
func runE2ETest(t *testing.T, dir string) {
	t.Helper()

	src := afero.NewReadOnlyFs(afero.NewOsFs())
	core, logs := observer.New(zapcore.WarnLevel)
	log := zap.New(core).Sugar()

	// Step 1: Configuration.
	cfg, err := config.Load(src, filepath.Join(dir, "widl.yaml"))
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}
	schema := extattr.NewSchema()
	reg := types.NewUniverse()
	if err := cfg.Apply(schema, reg); err != nil {
		t.Fatalf("applying config: %v", err)
	}

	// Step 2: Parse and merge.
	idls, err := filepath.Glob(filepath.Join(dir, "*.idl"))
	if err != nil {
		t.Fatal(err)
	}
	classes, err := parser.ParseAll(src, idls, schema, log)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	// Step 3: Declaration order.
	classes = order.Resolve(classes, reg.IsSimple)

	// Step 4: Render.
	out := afero.NewMemMapFs()
	defines := map[string]string{"OUT": "out"}
	for _, o := range cfg.Outputs {
		if o.Skip() {
			continue
		}
		outPath, err := o.OutputPath(defines)
		if err != nil {
			t.Fatalf("%s: %v", o.Name, err)
		}
		err = codegen.WriteFile(out, outPath, func(w io.Writer) error {
			return render(w, src, cfg, o, outPath, classes, reg, log)
		})
		if err != nil {
			t.Fatalf("%s: %v", o.Name, err)
		}

		// Step 5: Compare output.
		got, err := afero.ReadFile(out, outPath)
		if err != nil {
			t.Fatalf("reading %s: %v", outPath, err)
		}
		want, err := afero.ReadFile(src, filepath.Join(dir, o.Name+".golden"))
		if err != nil {
			t.Fatalf("reading golden file: %v", err)
		}
		if diff := cmp.Diff(string(want), string(got)); diff != "" {
			t.Errorf("%s mismatch (-want +got):\n%s", o.Name, diff)
		}
	}

	for _, e := range logs.All() {
		t.Errorf("unexpected warning: %s", e.Message)
	}
}

func render(w io.Writer, fs afero.Fs, cfg *config.Config, o config.Output, outPath string,
	classes []model.Class, reg *types.Registry, log *zap.SugaredLogger) error {
	text, err := afero.ReadFile(fs, cfg.TemplatePath(o))
	if err != nil {
		return err
	}
	tpl, err := tmpl.Compile(string(text))
	if err != nil {
		return err
	}
	ctx, err := codegen.Build(o.Language(), classes, codegen.Options{
		Output:   outPath,
		Version:  1,
		Initial:  o.Context,
		Registry: reg,
		Log:      log,
	})
	if err != nil {
		return err
	}
	return tpl.Execute(w, ctx)
}
