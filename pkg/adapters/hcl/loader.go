// Package hcl loads path definitions from HCL files.
//
// A file may declare any number of paths:
//
//	path "opportunity" {
//	  navigation_rule = "new={active}"
//
//	  stage "new" {
//	    label = "New"
//	  }
//	  stage "active" {
//	    label     = "Active"
//	    valid_for = [0]
//	  }
//	}
package hcl

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/stagepath/pkg/domain"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Extension is the file suffix scanned by the loader.
const Extension = ".hcl"

type hclFile struct {
	Paths []*hclPath `hcl:"path,block"`
}

type hclPath struct {
	Name           string      `hcl:"name,label"`
	Description    string      `hcl:"description,optional"`
	NavigationRule string      `hcl:"navigation_rule,optional"`
	Stages         []*hclStage `hcl:"stage,block"`
}

type hclStage struct {
	Value    string `hcl:"value,label"`
	Label    string `hcl:"label,optional"`
	ValidFor []int  `hcl:"valid_for,optional"`
}

// Loader implements ports.DefinitionLoader over a directory tree of HCL files.
// Files are re-read on every call.
type Loader struct {
	root string
}

// New creates a loader rooted at dir.
func New(dir string) *Loader {
	return &Loader{root: dir}
}

// Load returns the named definition.
func (l *Loader) Load(ctx context.Context, name string) (domain.Definition, error) {
	defs, err := l.loadAll(ctx)
	if err != nil {
		return domain.Definition{}, err
	}
	def, ok := defs[name]
	if !ok {
		return domain.Definition{}, fmt.Errorf("%w: %s", domain.ErrDefinitionNotFound, name)
	}
	return def, nil
}

// List returns all declared path names, sorted.
func (l *Loader) List(ctx context.Context) ([]string, error) {
	defs, err := l.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (l *Loader) loadAll(ctx context.Context) (map[string]domain.Definition, error) {
	files, err := findFiles(l.root)
	if err != nil {
		return nil, fmt.Errorf("failed to find definition files in %s: %w", l.root, err)
	}

	parser := hclparse.NewParser()
	defs := make(map[string]domain.Definition)
	origin := make(map[string]string)
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		paths, err := decodeFile(parser, file)
		if err != nil {
			return nil, err
		}
		for _, def := range paths {
			if prev, ok := origin[def.Name]; ok {
				return nil, fmt.Errorf("collision detected: path '%s' is defined in both '%s' and '%s'", def.Name, prev, file)
			}
			origin[def.Name] = file
			defs[def.Name] = def
		}
	}
	return defs, nil
}

// decodeFile parses a single HCL file and returns the definitions found within it.
func decodeFile(parser *hclparse.Parser, filePath string) ([]domain.Definition, error) {
	file, diags := parser.ParseHCLFile(filePath)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filePath, diags)
	}

	var parsed hclFile
	diags = gohcl.DecodeBody(file.Body, nil, &parsed)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filePath, diags)
	}

	defs := make([]domain.Definition, 0, len(parsed.Paths))
	for _, p := range parsed.Paths {
		def := domain.Definition{
			Name:           p.Name,
			Description:    p.Description,
			NavigationRule: p.NavigationRule,
			Values:         make([]domain.PicklistValue, 0, len(p.Stages)),
		}
		for _, s := range p.Stages {
			def.Values = append(def.Values, domain.PicklistValue{
				Label:    s.Label,
				Value:    s.Value,
				ValidFor: s.ValidFor,
			})
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func findFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), Extension) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
