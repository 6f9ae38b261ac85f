// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// StorageConfig locates the repository database and file storage.
// Per prd004-repository R1.1.
type StorageConfig struct {
	// DataDir is the root data directory; the SQLite database and the
	// journals' public and submission file storage live beneath it.
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// ImportJob is the on-disk YAML form of an import job's settings. A job file
// lets an operator save a recurring import and rerun it without retyping
// flags; flags win over file values. Per prd005-cli R3.1-R3.3.
type ImportJob struct {
	// Journal is the target journal's path (e.g. "vetmed").
	Journal string `json:"journal" yaml:"journal"`

	// User is the acting user's username.
	User string `json:"user" yaml:"user"`

	// Editor is the username of the editor assigned to imported articles.
	Editor string `json:"editor" yaml:"editor"`

	// Email is the fallback contact address for synthesized authors.
	Email string `json:"email" yaml:"email"`

	// Path is the import root containing volume/issue/article folders.
	Path string `json:"path" yaml:"path"`

	// Section is the default section title for articles that name none.
	Section string `json:"section,omitempty" yaml:"section,omitempty"`

	// Formats lists the enabled parser variants, in preference order.
	// Empty means all registered variants.
	Formats []string `json:"formats,omitempty" yaml:"formats,omitempty"`

	// ImageExtensions overrides the extensions treated as images, in the
	// order cover candidates are probed.
	ImageExtensions []string `json:"image_extensions,omitempty" yaml:"image_extensions,omitempty"`

	// CoverBasename overrides the issue cover file's base name ("cover").
	CoverBasename string `json:"cover_basename,omitempty" yaml:"cover_basename,omitempty"`
}
