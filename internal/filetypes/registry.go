// Package filetypes maps file names and declared content types to the
// canonical type label recorded on documents.
package filetypes

import (
	"embed"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed config/*.yaml
var configFiles embed.FS

// fileType is one entry of the embedded registry file.
type fileType struct {
	Label      string   `yaml:"label"`
	Extensions []string `yaml:"extensions"`
}

type registryFile struct {
	Types []fileType `yaml:"types"`
}

// Registry resolves upload types. Declared types always win; the
// extension table only fills the gap when the client sent none.
type Registry struct {
	byExtension map[string]string
}

// NewRegistry loads the embedded registry file.
func NewRegistry() (*Registry, error) {
	data, err := configFiles.ReadFile("config/filetypes.yaml")
	if err != nil {
		return nil, fmt.Errorf("read filetypes config: %w", err)
	}

	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unmarshal filetypes config: %w", err)
	}

	byExt := make(map[string]string)
	for _, t := range file.Types {
		for _, ext := range t.Extensions {
			byExt[strings.ToLower(ext)] = t.Label
		}
	}

	return &Registry{byExtension: byExt}, nil
}

// Resolve returns the type to record for a file. Order: the declared
// type if present, then the extension table. The empty string means the
// type is unknown and the file fails the "has a type" validation.
func (r *Registry) Resolve(fileName, declaredType string) string {
	if declared := strings.TrimSpace(declaredType); declared != "" {
		return declared
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	return r.byExtension[ext]
}
