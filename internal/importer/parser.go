// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package importer

import (
	"context"
	"sort"
	"sync"

	"github.com/pdiddy/backissue/internal/xmldoc"
	"github.com/pdiddy/backissue/pkg/types"
)

// Parser is implemented once per supported XML dialect. An instance is
// bound to one import run and one article entry; the pipeline drives it
// through validation, identifier extraction, and the build phase exactly
// once. Instances are not reusable after the build phase returns.
//
// Issue, Submission and Section are get-or-build accessors: the first call
// creates the record through the repository, later calls return the same
// record. Publication builds the whole graph and transitively calls them.
type Parser interface {
	// DocTypes lists the doctype signatures this dialect accepts.
	DocTypes() []xmldoc.DocType
	// Validate checks dialect-specific structural requirements of the
	// loaded document before any identifier extraction or write.
	Validate() error
	// PublicIDs reports the article's public identifiers (type → value).
	// It must be callable before any write; the pipeline uses it purely
	// for deduplication.
	PublicIDs() (map[string]string, error)
	// Publication builds and persists the full publication graph.
	Publication(ctx context.Context) (*types.Publication, error)
	Issue(ctx context.Context) (*types.Issue, error)
	Submission(ctx context.Context) (*types.Submission, error)
	Section(ctx context.Context) (*types.Section, error)
	// Rollback undoes whatever partial writes the build phase performed.
	Rollback(ctx context.Context) error
}

// Factory constructs a parser bound to one loaded document and one entry.
type Factory func(imp *Importer, doc *xmldoc.Document, entry *ArticleEntry) Parser

var (
	registryMu sync.Mutex
	registry   = map[string]Factory{}
)

// Register makes a parser variant available under name. Variant packages
// call it from init; duplicate or nil registrations panic.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if f == nil {
		panic("importer: Register with nil factory for " + name)
	}
	if _, dup := registry[name]; dup {
		panic("importer: Register called twice for " + name)
	}
	registry[name] = f
}

// Parsers returns the registered variant names, sorted.
func Parsers() []string {
	registryMu.Lock()
	defer registryMu.Unlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func factoryFor(name string) (Factory, bool) {
	registryMu.Lock()
	defer registryMu.Unlock()
	f, ok := registry[name]
	return f, ok
}
