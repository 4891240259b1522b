// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// ExportYAML writes the full genome catalog to CatalogDir/export.yaml.
func (s *Store) ExportYAML(ctx context.Context) error {
	genomes, err := s.List(ctx)
	if err != nil {
		return fmt.Errorf("querying for export: %w", err)
	}

	data, err := yaml.Marshal(genomes)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(filepath.Join(s.catalogDir, "export.yaml"), data, 0o644)
}

// ExportJSON writes the full genome catalog to CatalogDir/export.json.
func (s *Store) ExportJSON(ctx context.Context) error {
	genomes, err := s.List(ctx)
	if err != nil {
		return fmt.Errorf("querying for export: %w", err)
	}

	data, err := json.MarshalIndent(genomes, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(filepath.Join(s.catalogDir, "export.json"), data, 0o644)
}
