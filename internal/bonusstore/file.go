package bonusstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/specialistvlad/compsolve/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// File is a Store persisted as HCL:
//
//	component "Pkg-2.0-14" {
//	  bonus = true
//	}
//
// Changes stay in memory until Save.
type File struct {
	path string

	mu    sync.Mutex
	flags map[string]bool
	dirty bool
}

type fileRoot struct {
	Components []*fileEntry `hcl:"component,block"`
	Remain     hcl.Body     `hcl:",remain"`
}

type fileEntry struct {
	ID    string `hcl:"id,label"`
	Bonus bool   `hcl:"bonus"`
}

// OpenFile loads the store at path. A missing file is an empty store.
func OpenFile(path string) (*File, error) {
	f := &File{path: path, flags: make(map[string]bool)}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return f, nil
	} else if err != nil {
		return nil, fmt.Errorf("bonus store %s: %w", path, err)
	}

	parsed, diags := hclparse.NewParser().ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse bonus store %s: %w", path, diags)
	}
	var root fileRoot
	if diags := gohcl.DecodeBody(parsed.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode bonus store %s: %w", path, diags)
	}
	for _, e := range root.Components {
		f.flags[e.ID] = e.Bonus
	}
	return f, nil
}

// Path returns the backing file path.
func (f *File) Path() string { return f.path }

func (f *File) GetBonus(ctx context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.flags[id], nil
}

func (f *File) SetBonus(ctx context.Context, id string, bonus bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.flags[id] == bonus {
		return nil
	}
	if bonus {
		f.flags[id] = true
	} else {
		delete(f.flags, id)
	}
	f.dirty = true
	return nil
}

// Save writes pending changes. The file is replaced atomically.
func (f *File) Save(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	logger := ctxlog.FromContext(ctx)
	if !f.dirty {
		logger.Debug("Bonus store unchanged, skipping write.", "path", f.path)
		return nil
	}

	ids := make([]string, 0, len(f.flags))
	for id, bonus := range f.flags {
		if bonus {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	out := hclwrite.NewEmptyFile()
	body := out.Body()
	for i, id := range ids {
		if i > 0 {
			body.AppendNewline()
		}
		block := body.AppendNewBlock("component", []string{id})
		block.Body().SetAttributeValue("bonus", cty.True)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".bonus-*.hcl")
	if err != nil {
		return fmt.Errorf("bonus store %s: %w", f.path, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(out.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("bonus store %s: %w", f.path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("bonus store %s: %w", f.path, err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("bonus store %s: %w", f.path, err)
	}

	f.dirty = false
	logger.Debug("Bonus store written.", "path", f.path, "bonus_count", len(ids))
	return nil
}
