package bundle

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	wasmapi "github.com/woxQAQ/hello-wasm/api/wasm"
)

// ManifestFile is the manifest's file name inside a bundle directory.
const ManifestFile = "manifest.yaml"

// TargetKind identifies how a Wasm build is hosted.
type TargetKind string

const (
	// TargetJS is GOOS=js GOARCH=wasm, loaded in a browser through wasm_exec.js.
	TargetJS TargetKind = "js"
	// TargetWasip1 is GOOS=wasip1 GOARCH=wasm built as a reactor.
	TargetWasip1 TargetKind = "wasip1"
)

// Manifest describes the build artifacts in a bundle directory.
type Manifest struct {
	Name    string   `yaml:"name"`
	Version string   `yaml:"version"`
	Targets []Target `yaml:"targets"`
	Exports []string `yaml:"exports"`

	dir string
}

// Target is one build of the greeting module.
type Target struct {
	Kind TargetKind `yaml:"kind"`
	// Wasm binary, relative to the bundle directory.
	File string `yaml:"file"`
	// JS glue for the js target (wasm_exec.js).
	Loader string `yaml:"loader,omitempty"`
}

// ParseManifest reads and validates manifest.yaml from a directory.
func ParseManifest(dir string) (*Manifest, error) {
	manifestPath := filepath.Join(dir, ManifestFile)

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, &ManifestNotFoundError{
			Path: manifestPath,
			Err:  err,
		}
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, &ManifestParseError{
			Path: manifestPath,
			Err:  err,
		}
	}

	m.dir = dir

	if err := m.Validate(); err != nil {
		return nil, err
	}

	return &m, nil
}

// Validate checks manifest fields and that every referenced file exists.
func (m *Manifest) Validate() error {
	if m.Name == "" {
		return m.invalid("name", "name is required")
	}

	if m.Version == "" {
		return m.invalid("version", "version is required")
	}

	if len(m.Targets) == 0 {
		return m.invalid("targets", "at least one target is required")
	}

	seen := make(map[TargetKind]bool, len(m.Targets))
	for _, t := range m.Targets {
		switch t.Kind {
		case TargetJS, TargetWasip1:
		default:
			return m.invalid("targets.kind",
				fmt.Sprintf("unknown target kind: %s (must be one of: %s, %s)", t.Kind, TargetJS, TargetWasip1))
		}

		if seen[t.Kind] {
			return m.invalid("targets.kind", fmt.Sprintf("duplicate target kind: %s", t.Kind))
		}
		seen[t.Kind] = true

		if t.File == "" {
			return m.invalid("targets.file", fmt.Sprintf("file is required for target %s", t.Kind))
		}

		if t.Kind == TargetJS && t.Loader == "" {
			return m.invalid("targets.loader", "loader is required for the js target")
		}
	}

	if !slices.Contains(m.Exports, wasmapi.ExportGreet) {
		return m.invalid("exports", fmt.Sprintf("exports must include %s", wasmapi.ExportGreet))
	}

	for _, t := range m.Targets {
		for _, file := range []string{t.File, t.Loader} {
			if file == "" {
				continue
			}
			if _, err := os.Stat(m.resolve(file)); os.IsNotExist(err) {
				return &ArtifactNotFoundError{
					ManifestPath: m.Path(),
					File:         file,
				}
			}
		}
	}

	return nil
}

func (m *Manifest) invalid(field, message string) error {
	return &ManifestValidationError{
		Path:    m.Path(),
		Field:   field,
		Message: message,
	}
}

// Target returns the build for kind.
func (m *Manifest) Target(kind TargetKind) (Target, error) {
	for _, t := range m.Targets {
		if t.Kind == kind {
			return t, nil
		}
	}
	return Target{}, &TargetNotFoundError{Bundle: m.Name, Kind: kind}
}

// FilePath returns the path of the target's Wasm binary.
func (m *Manifest) FilePath(t Target) string {
	return m.resolve(t.File)
}

// LoaderPath returns the path of the target's JS loader, or "" if it has none.
func (m *Manifest) LoaderPath(t Target) string {
	if t.Loader == "" {
		return ""
	}
	return m.resolve(t.Loader)
}

// Path returns the manifest file path.
func (m *Manifest) Path() string {
	return filepath.Join(m.dir, ManifestFile)
}

// Dir returns the directory containing the manifest.
func (m *Manifest) Dir() string {
	return m.dir
}

func (m *Manifest) resolve(file string) string {
	return filepath.Join(m.dir, file)
}
