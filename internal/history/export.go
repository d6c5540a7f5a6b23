// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

const exportLimit = 100000

// ExportYAML writes every recorded conversion matching opts to path as a
// YAML list, newest first. opts.MaxResults is ignored.
func (s *Store) ExportYAML(ctx context.Context, path string, opts ListOptions) (int, error) {
	records, err := s.query(ctx, opts, exportLimit)
	if err != nil {
		return 0, err
	}

	data, err := yaml.Marshal(records)
	if err != nil {
		return 0, fmt.Errorf("marshaling YAML: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return 0, fmt.Errorf("writing %s: %w", path, err)
	}
	return len(records), nil
}
