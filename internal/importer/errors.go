// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package importer

import (
	"fmt"

	"github.com/pdiddy/backissue/internal/xmldoc"
)

// MalformedDocumentError reports a metadata file that could not be read,
// parsed, or that fails the selected dialect's structural checks. Nothing
// has been written when it is raised.
type MalformedDocumentError struct {
	Path string
	Err  error
}

func (e *MalformedDocumentError) Error() string {
	return fmt.Sprintf("malformed document %s: %v", e.Path, e.Err)
}

func (e *MalformedDocumentError) Unwrap() error { return e.Err }

// UnsupportedDocTypeError reports a document whose doctype signature is not
// accepted by any enabled parser variant. It carries the offending signature.
type UnsupportedDocTypeError struct {
	Path    string
	DocType xmldoc.DocType
}

func (e *UnsupportedDocTypeError) Error() string {
	return fmt.Sprintf("unsupported document type %s in %s", e.DocType, e.Path)
}

// DuplicateError reports a public identifier already present in the
// repository under the job's journal. The article was not imported.
type DuplicateError struct {
	IDType string
	Value  string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("already imported: %s %q", e.IDType, e.Value)
}

// BuildError reports a failure while building or persisting the publication
// graph. RolledBack is false when the rollback itself also failed; in that
// case Err joins both the build cause and the rollback error.
type BuildError struct {
	RolledBack bool
	Err        error
}

func (e *BuildError) Error() string {
	if e.RolledBack {
		return fmt.Sprintf("build failed (rolled back): %v", e.Err)
	}
	return fmt.Sprintf("build failed (rollback incomplete): %v", e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }

// ConfigError reports an import-job setting that failed eager validation.
// It aborts the run before any article is processed.
type ConfigError struct {
	Setting string
	Err     error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration: %s: %v", e.Setting, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }
