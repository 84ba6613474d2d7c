package catalog

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/compsolve/internal/component"
	"github.com/specialistvlad/compsolve/internal/ctxlog"
	"github.com/specialistvlad/compsolve/internal/fsutil"
	"github.com/zclconf/go-cty/cty"
)

// Loader reads component blocks from HCL files.
type Loader struct {
	vars map[string]string
}

// NewLoader creates a loader that exposes vars to expressions as var.<name>.
func NewLoader(vars map[string]string) *Loader {
	return &Loader{vars: vars}
}

// fileRoot decodes the top-level blocks of one file.
type fileRoot struct {
	Components []*componentBlock `hcl:"component,block"`
	Remain     hcl.Body          `hcl:",remain"`
}

type componentBlock struct {
	Name         string   `hcl:"name,label"`
	Version      string   `hcl:"version"`
	Build        int      `hcl:"build,optional"`
	Bonus        bool     `hcl:"bonus,optional"`
	MultiVersion bool     `hcl:"multi_version,optional"`
	Requires     []string `hcl:"requires,optional"`
	Conflicts    []string `hcl:"conflicts,optional"`
	Description  string   `hcl:"description,optional"`
}

// Load parses every .hcl file under paths and returns their components in
// file order. Paths that do not exist are skipped.
func (l *Loader) Load(ctx context.Context, paths ...string) ([]*component.Component, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Catalog loader started.", "path_count", len(paths))

	files, err := fsutil.CollectFiles(paths, ".hcl")
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	evalCtx := l.evalContext()
	seen := make(map[string]string)
	var out []*component.Component

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, b := range root.Components {
			c, err := translate(b)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", file, err)
			}
			if prev, dup := seen[c.ID()]; dup {
				return nil, fmt.Errorf("%s: component %s is already defined in %s", file, c.ID(), prev)
			}
			seen[c.ID()] = file
			out = append(out, c)
		}
	}

	logger.Debug("Catalog loading complete.", "components", len(out))
	return out, nil
}

func translate(b *componentBlock) (*component.Component, error) {
	requires, err := component.ParseConstraints(b.Requires)
	if err != nil {
		return nil, fmt.Errorf("component %q requires: %w", b.Name, err)
	}
	conflicts, err := component.ParseConstraints(b.Conflicts)
	if err != nil {
		return nil, fmt.Errorf("component %q conflicts: %w", b.Name, err)
	}
	c := &component.Component{
		Name:                   b.Name,
		Version:                b.Version,
		Build:                  b.Build,
		Description:            b.Description,
		Requires:               requires,
		Conflicts:              conflicts,
		Bonus:                  b.Bonus,
		AllowsMultipleVersions: b.MultiVersion,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// evalContext exposes the loader variables as the var object.
func (l *Loader) evalContext() *hcl.EvalContext {
	vars := make(map[string]cty.Value, len(l.vars))
	for k, v := range l.vars {
		vars[k] = cty.StringVal(v)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"var": cty.ObjectVal(vars)},
	}
}
