// Package dialect handles skylark.toml project configuration: per-project
// parser settings that feed syntax.Options.
package dialect

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/chazu/skylark/syntax"
)

// FileName is the configuration file looked up by Load and FindAndLoad.
const FileName = "skylark.toml"

// Dialect represents a skylark.toml configuration.
type Dialect struct {
	Parser Parser `toml:"parser"`
	Source Source `toml:"source"`

	// Dir is the directory containing the skylark.toml file (set at load
	// time).
	Dir string `toml:"-"`
}

// Parser configures the tokenizer and parser.
type Parser struct {
	TabWidth      int `toml:"tab-width"`
	MaxParseDepth int `toml:"max-parse-depth"`
}

// Source configures source file locations.
type Source struct {
	Dirs       []string `toml:"dirs"`
	Extensions []string `toml:"extensions"`
}

// Load parses a skylark.toml file from the given directory.
func Load(dir string) (*Dialect, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var d Dialect
	if err := toml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	d.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	if d.Parser.TabWidth < 0 {
		return nil, fmt.Errorf("%s: tab-width must not be negative", path)
	}
	if d.Parser.MaxParseDepth < 0 {
		return nil, fmt.Errorf("%s: max-parse-depth must not be negative", path)
	}

	// Defaults
	if len(d.Source.Dirs) == 0 {
		d.Source.Dirs = []string{"."}
	}
	if len(d.Source.Extensions) == 0 {
		d.Source.Extensions = []string{".sky", ".star"}
	}

	return &d, nil
}

// FindAndLoad walks up from startDir to find a skylark.toml file, then
// loads and returns the dialect. Returns nil if no file is found.
func FindAndLoad(startDir string) (*Dialect, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

// Options converts the configured parser settings to syntax.Options.
// Zero values defer to the parser's own defaults.
func (d *Dialect) Options() *syntax.Options {
	return &syntax.Options{
		TabWidth:      d.Parser.TabWidth,
		MaxParseDepth: d.Parser.MaxParseDepth,
	}
}

// SourceDirPaths returns absolute paths for the configured source
// directories.
func (d *Dialect) SourceDirPaths() []string {
	var paths []string
	for _, s := range d.Source.Dirs {
		paths = append(paths, filepath.Join(d.Dir, s))
	}
	return paths
}
