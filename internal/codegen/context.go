package codegen

import (
	"sort"

	"go.uber.org/zap"

	"github.com/you-not-fish/widl/internal/errors"
	"github.com/you-not-fish/widl/internal/model"
	"github.com/you-not-fish/widl/internal/types"
)

// LangPython selects the binding backend.
const LangPython = "python"

// Options configures a backend run.
type Options struct {
	Output   string         // output path, exposed as "output"
	Version  int            // exposed as "version"
	Initial  map[string]any // merged over output and version
	Registry *types.Registry
	Log      *zap.SugaredLogger
}

// Build describes classes, which must already be in declaration order,
// as the render context of lang.
func Build(lang string, classes []model.Class, opts Options) (map[string]any, error) {
	if opts.Registry == nil {
		opts.Registry = types.NewUniverse()
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop().Sugar()
	}

	ctx := map[string]any{
		"output":  opts.Output,
		"version": opts.Version,
	}
	for k, v := range opts.Initial {
		ctx[k] = v
	}

	switch {
	case IsTemplateLang(lang):
		newVisitor(lang, classes, opts).visitAll(classes, ctx)
	case lang == LangPython:
		newPyVisitor(classes, opts.Log).visitAll(classes, ctx)
	default:
		return nil, errors.Wrapf(errors.ErrUnknownLanguage, "%q", lang)
	}
	return ctx, nil
}

func sortedSet(set map[string]bool) []string {
	list := make([]string, 0, len(set))
	for k := range set {
		list = append(list, k)
	}
	sort.Strings(list)
	return list
}
