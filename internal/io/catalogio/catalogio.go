// Package catalogio provides the dataset catalog: one CatalogEntry per
// dataset identifier, read from the central catalog CSV. The catalog is the
// one input the run cannot proceed without.
package catalogio

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/swpdata/sitecat/internal/ent/model"
	"github.com/swpdata/sitecat/internal/str"
)

// Catalog is the read-only dataset metadata table, keyed by
// dataset_unique_identifier.
type Catalog struct {
	entries map[string]model.CatalogEntry
}

// New reads and validates the catalog CSV. A catalog whose key column
// repeats is rejected up front: a duplicate key would silently fan out the
// join, so duplicates are reported as a defect instead.
func New(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		slog.Error("Cannot read dataset catalog", "path", path, "error", err)
		return nil, err
	}

	var rows []model.CatalogEntry
	if err := csvutil.Unmarshal(b, &rows); err != nil {
		slog.Error("Cannot decode dataset catalog", "path", path, "error", err)
		return nil, fmt.Errorf("cannot decode catalog %s: %w", path, err)
	}

	entries := make(map[string]model.CatalogEntry, len(rows))
	var dups []string
	for _, e := range rows {
		id := strings.TrimSpace(e.DatasetID)
		if id == "" {
			return nil, fmt.Errorf("catalog %s has a row without dataset_unique_identifier", path)
		}
		if _, ok := entries[id]; ok {
			dups = append(dups, id)
			continue
		}
		e.DatasetID = id
		entries[id] = e
		slog.Debug("Catalog entry",
			"dataset", id, "name", str.ShortName(e.DatasetName))
	}
	if len(dups) > 0 {
		sort.Strings(dups)
		return nil, fmt.Errorf(
			"catalog %s has duplicate dataset identifiers: %s",
			path, strings.Join(dups, ", "),
		)
	}

	slog.Info("Loaded dataset catalog", "datasets", len(entries))
	return &Catalog{entries: entries}, nil
}

// FromEntries builds a catalog from already-materialized entries; used by
// tests and by callers that source the catalog elsewhere. Duplicate keys are
// rejected the same way New rejects them.
func FromEntries(rows []model.CatalogEntry) (*Catalog, error) {
	entries := make(map[string]model.CatalogEntry, len(rows))
	for _, e := range rows {
		if _, ok := entries[e.DatasetID]; ok {
			return nil, fmt.Errorf("duplicate dataset identifier %s", e.DatasetID)
		}
		entries[e.DatasetID] = e
	}
	return &Catalog{entries: entries}, nil
}

// Get returns the entry for a dataset identifier.
func (c *Catalog) Get(id string) (model.CatalogEntry, bool) {
	e, ok := c.entries[id]
	return e, ok
}

// Len returns the number of datasets in the catalog.
func (c *Catalog) Len() int { return len(c.entries) }
