// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package importer

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/backissue/pkg/types"
)

// ReadJobFile loads import-job parameters from a YAML file. The operator
// can keep one job file per back-issue batch and re-run it verbatim.
// Implements: prd005-cli R3.4.
func ReadJobFile(path string) (*types.ImportJob, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading job file: %w", err)
	}
	var job types.ImportJob
	if err := yaml.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("parsing job file: %w", err)
	}
	return &job, nil
}

// WriteJobFile saves import-job parameters to a YAML file.
func WriteJobFile(path string, job *types.ImportJob) error {
	data, err := yaml.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshaling job file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
