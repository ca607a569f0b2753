// Package config loads a package's glyph.toml manifest: the package-root
// file, its module search roots, and its codegen target.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ManifestFile is the name a package's manifest is always given.
const ManifestFile = "glyph.toml"

// Manifest is a parsed glyph.toml.
type Manifest struct {
	Path string
	Root string

	Package PackageSection `toml:"package"`
	Build   BuildSection   `toml:"build"`
}

// PackageSection names the package and its entry file.
type PackageSection struct {
	Name string `toml:"name"`
	Root string `toml:"root"`
}

// BuildSection configures the downstream collaborator driven by
// cmd/glyphc's run-js subcommand.
type BuildSection struct {
	Target string `toml:"target"` // currently only "js" is implemented
	Out    string `toml:"out"`
}

// Find walks up from startDir to locate glyph.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestFile)
		if _, statErr := os.Stat(candidate); statErr == nil {
			return candidate, true, nil
		} else if !errors.Is(statErr, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, statErr)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// Load parses and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	var m Manifest
	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return nil, fmt.Errorf("%s: missing [package]", path)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(m.Package.Name) == "" {
		return nil, fmt.Errorf("%s: missing [package].name", path)
	}
	if !meta.IsDefined("package", "root") || strings.TrimSpace(m.Package.Root) == "" {
		return nil, fmt.Errorf("%s: missing [package].root", path)
	}
	if meta.IsDefined("build", "target") && m.Build.Target != "" && m.Build.Target != "js" {
		return nil, fmt.Errorf("%s: unsupported [build].target %q (only \"js\" is implemented)", path, m.Build.Target)
	}
	m.Path = path
	m.Root = filepath.Dir(path)
	return &m, nil
}

// RootFile resolves the package's entry file (package.root) to an
// absolute path.
func (m *Manifest) RootFile() string {
	return filepath.Join(m.Root, filepath.FromSlash(m.Package.Root))
}

// OutDir resolves build.out (defaulting to "build" under the package
// root) to an absolute path.
func (m *Manifest) OutDir() string {
	out := strings.TrimSpace(m.Build.Out)
	if out == "" {
		out = "build"
	}
	return filepath.Join(m.Root, filepath.FromSlash(out))
}
