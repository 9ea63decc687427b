// Package workspace resolves a zirc.yaml manifest into the ordered set of
// packages to test.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// ManifestName is the workspace manifest filename.
const ManifestName = "zirc.yaml"

// Package is one member of a workspace.
type Package struct {
	Name     string
	UnitPath string // absolute path to the serialized program unit
}

// Workspace is an ordered set of packages resolved from a manifest.
type Workspace struct {
	Name     string
	Dir      string
	Packages []Package
}

type manifest struct {
	Name            string         `yaml:"name"`
	CompilerVersion string         `yaml:"compiler_version,omitempty"`
	Packages        []packageEntry `yaml:"packages"`
}

type packageEntry struct {
	Name string `yaml:"name"`
	Unit string `yaml:"unit"`
}

// FindManifest walks up from dir looking for a zirc.yaml.
func FindManifest(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", dir, err)
	}
	for {
		candidate := filepath.Join(abs, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return "", fmt.Errorf("no %s found in %s or any parent directory", ManifestName, dir)
		}
		abs = parent
	}
}

// Resolve loads the manifest, checks compiler-version compatibility against
// toolVersion, and returns the workspace's packages in manifest order. With
// a non-empty packageFilter, only the named package is returned; naming an
// unknown package is an error.
func Resolve(manifestPath, packageFilter, toolVersion string) (*Workspace, error) {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", manifestPath, err)
	}
	if len(m.Packages) == 0 {
		return nil, fmt.Errorf("manifest %s declares no packages", manifestPath)
	}
	if err := checkCompilerVersion(m.CompilerVersion, toolVersion); err != nil {
		return nil, err
	}

	dir := filepath.Dir(manifestPath)
	ws := &Workspace{Name: m.Name, Dir: dir}
	seen := make(map[string]struct{}, len(m.Packages))
	for _, entry := range m.Packages {
		if entry.Name == "" {
			return nil, fmt.Errorf("manifest %s: package with empty name", manifestPath)
		}
		if _, dup := seen[entry.Name]; dup {
			return nil, fmt.Errorf("manifest %s: duplicate package %q", manifestPath, entry.Name)
		}
		seen[entry.Name] = struct{}{}
		if entry.Unit == "" {
			return nil, fmt.Errorf("manifest %s: package %q has no unit path", manifestPath, entry.Name)
		}
		unitPath := entry.Unit
		if !filepath.IsAbs(unitPath) {
			unitPath = filepath.Join(dir, unitPath)
		}
		ws.Packages = append(ws.Packages, Package{Name: entry.Name, UnitPath: unitPath})
	}

	if packageFilter != "" {
		for _, pkg := range ws.Packages {
			if pkg.Name == packageFilter {
				ws.Packages = []Package{pkg}
				return ws, nil
			}
		}
		return nil, fmt.Errorf("package %q not found in workspace %s", packageFilter, manifestPath)
	}
	return ws, nil
}

// checkCompilerVersion enforces that the manifest's required compiler
// version is not newer than the running tool.
func checkCompilerVersion(required, toolVersion string) error {
	if required == "" {
		return nil
	}
	req := canonicalVersion(required)
	if !semver.IsValid(req) {
		return fmt.Errorf("manifest compiler_version %q is not a valid semantic version", required)
	}
	tool := canonicalVersion(toolVersion)
	if !semver.IsValid(tool) {
		return fmt.Errorf("tool version %q is not a valid semantic version", toolVersion)
	}
	if semver.Compare(req, tool) > 0 {
		return fmt.Errorf("workspace requires compiler %s but this is %s", required, toolVersion)
	}
	return nil
}

func canonicalVersion(v string) string {
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}
