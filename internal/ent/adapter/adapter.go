// Package adapter is the table-driven mapping engine that turns one source's
// raw rows into canonical site records. Each source is described by a
// declarative Config: field mapping, dataset-identifier rules, row filters,
// and an optional dedup key. The engine itself is source-agnostic.
package adapter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/swpdata/sitecat/internal/ent/coord"
	"github.com/swpdata/sitecat/internal/ent/model"
)

// Encoding selects how a source publishes coordinates.
type Encoding int

const (
	// Decimal is plain decimal degrees in two columns.
	Decimal Encoding = iota
	// DMS is degrees-minutes-seconds strings with hemisphere letters.
	DMS
	// UTM is easting/northing columns in a fixed zone.
	UTM
)

// FieldMap names the raw columns carrying the canonical fields. Lat/Lon are
// used by Decimal and DMS sources, Easting/Northing by UTM sources. UID may
// be empty when Config.UIDFrom composes the identifier instead.
type FieldMap struct {
	UID      string
	Name     string
	Lat      string
	Lon      string
	Easting  string
	Northing string
}

// IDRule assigns a dataset identifier to rows matching its predicate.
// Rules are evaluated top to bottom, first match wins.
type IDRule struct {
	When Predicate
	ID   string
}

// Config is the declarative description of one source.
type Config struct {
	// Name identifies the source in diagnostics and pins the union order.
	Name string

	// DatasetID is the constant identifier for rows no IDRule claims.
	DatasetID string

	// IDRules assign identifiers conditionally, in priority order, before
	// the DatasetID constant applies.
	IDRules []IDRule

	Fields   FieldMap
	Encoding Encoding

	// Zone and South place a UTM source; fixed per source, never inferred.
	Zone  int
	South bool

	// TruncateBy drops that many trailing characters from decimal coordinate
	// strings before parsing. Privacy obfuscation required by the provider.
	TruncateBy int

	// ForceWestLon forces longitudes negative. Regional sign convention for
	// sources that strip the minus sign; applied exactly once, here.
	ForceWestLon bool

	// Drop removes known-bad rows before identifier assignment.
	Drop []Predicate

	// DedupField groups time-series rows by a raw column and keeps the first
	// of each group, in input order. Required for one-row-per-measurement
	// sources; geometry construction assumes one row per site.
	DedupField string

	// UIDFrom composes SiteUID by joining raw columns with "-", for sources
	// whose identifier is only unique together (e.g. operator + site code).
	UIDFrom []string

	// Keep lists extra raw columns carried into the output unchanged.
	Keep []string
}

// SchemaError reports a mapped column missing from the source's rows.
// Non-recoverable for that source.
type SchemaError struct {
	Source string
	Field  string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("source %q has no column %q", e.Source, e.Field)
}

// Adapt transforms raw rows into canonical records: filter, dedup, map
// fields, normalize coordinates, assign identifiers. It mutates nothing it
// is given. Rows with unparsable coordinates are dropped and counted; if
// every row of a non-empty source fails, the malformation is systemic and
// the whole source fails.
func Adapt(cfg Config, rows []model.Row) ([]model.Record, int, error) {
	if len(rows) == 0 {
		return nil, 0, nil
	}
	if err := checkSchema(cfg, rows[0]); err != nil {
		return nil, 0, err
	}

	rows = filterRows(cfg, rows)
	rows = dedupRows(cfg, rows)

	var dropped int
	var lastErr error
	res := make([]model.Record, 0, len(rows))
	for _, row := range rows {
		rec, err := adaptRow(cfg, row)
		if err != nil {
			dropped++
			lastErr = err
			continue
		}
		res = append(res, rec)
	}

	if len(res) == 0 && dropped > 0 {
		return nil, dropped, fmt.Errorf(
			"source %q: all %d rows failed normalization: %w",
			cfg.Name, dropped, lastErr,
		)
	}
	return res, dropped, nil
}

// checkSchema verifies every mapped column exists. Readers materialize all
// header columns in each row, so the first row suffices.
func checkSchema(cfg Config, row model.Row) error {
	var cols []string
	switch cfg.Encoding {
	case UTM:
		cols = append(cols, cfg.Fields.Easting, cfg.Fields.Northing)
	default:
		cols = append(cols, cfg.Fields.Lat, cfg.Fields.Lon)
	}
	cols = append(cols, cfg.Fields.UID, cfg.Fields.Name)
	cols = append(cols, cfg.UIDFrom...)
	cols = append(cols, cfg.Keep...)
	if cfg.DedupField != "" {
		cols = append(cols, cfg.DedupField)
	}

	for _, c := range cols {
		if c == "" {
			continue
		}
		if _, ok := row[c]; !ok {
			return &SchemaError{Source: cfg.Name, Field: c}
		}
	}
	return nil
}

func filterRows(cfg Config, rows []model.Row) []model.Row {
	if len(cfg.Drop) == 0 {
		return rows
	}
	res := make([]model.Row, 0, len(rows))
rows:
	for _, row := range rows {
		for _, p := range cfg.Drop {
			if p.Match(row) {
				continue rows
			}
		}
		res = append(res, row)
	}
	return res
}

// dedupRows keeps the first row per DedupField value, in input order.
// Idempotent: its own output passes through unchanged.
func dedupRows(cfg Config, rows []model.Row) []model.Row {
	if cfg.DedupField == "" {
		return rows
	}
	seen := make(map[string]struct{}, len(rows))
	res := make([]model.Row, 0, len(rows))
	for _, row := range rows {
		key := row[cfg.DedupField]
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		res = append(res, row)
	}
	return res
}

func adaptRow(cfg Config, row model.Row) (model.Record, error) {
	var rec model.Record

	lat, lon, err := normalizeCoords(cfg, row)
	if err != nil {
		return rec, err
	}
	if cfg.ForceWestLon {
		lon = coord.ForceWest(lon)
	}
	if !coord.ValidLat(lat) || !coord.ValidLon(lon) {
		return rec, &coord.ParseError{
			Raw:  fmt.Sprintf("%g, %g", lat, lon),
			Axis: coord.Lat,
			Msg:  "outside valid range",
		}
	}

	uid := siteUID(cfg, row)
	if uid == "" {
		return rec, errors.New("empty site identifier")
	}
	name := strings.TrimSpace(row[cfg.Fields.Name])
	if name == "" {
		name = uid
	}

	rec = model.Record{
		Source:    cfg.Name,
		SiteUID:   uid,
		SiteName:  name,
		Lat:       lat,
		Lon:       lon,
		DatasetID: datasetID(cfg, row),
	}
	if len(cfg.Keep) > 0 {
		rec.Extra = make(map[string]string, len(cfg.Keep))
		for _, c := range cfg.Keep {
			rec.Extra[c] = row[c]
		}
	}
	return rec, nil
}

func normalizeCoords(cfg Config, row model.Row) (float64, float64, error) {
	switch cfg.Encoding {
	case DMS:
		lat, err := coord.ParseDMS(row[cfg.Fields.Lat], coord.Lat)
		if err != nil {
			return 0, 0, err
		}
		lon, err := coord.ParseDMS(row[cfg.Fields.Lon], coord.Lon)
		if err != nil {
			return 0, 0, err
		}
		return lat, lon, nil
	case UTM:
		e, err := coord.ParseDecimal(row[cfg.Fields.Easting], coord.Lon)
		if err != nil {
			return 0, 0, err
		}
		n, err := coord.ParseDecimal(row[cfg.Fields.Northing], coord.Lat)
		if err != nil {
			return 0, 0, err
		}
		return coord.UTMToLatLon(e, n, cfg.Zone, cfg.South)
	default:
		rawLat := row[cfg.Fields.Lat]
		rawLon := row[cfg.Fields.Lon]
		if cfg.TruncateBy > 0 {
			rawLat = coord.Truncate(rawLat, cfg.TruncateBy)
			rawLon = coord.Truncate(rawLon, cfg.TruncateBy)
		}
		lat, err := coord.ParseDecimal(rawLat, coord.Lat)
		if err != nil {
			return 0, 0, err
		}
		lon, err := coord.ParseDecimal(rawLon, coord.Lon)
		if err != nil {
			return 0, 0, err
		}
		return lat, lon, nil
	}
}

func siteUID(cfg Config, row model.Row) string {
	if len(cfg.UIDFrom) > 0 {
		parts := make([]string, 0, len(cfg.UIDFrom))
		for _, c := range cfg.UIDFrom {
			parts = append(parts, strings.TrimSpace(row[c]))
		}
		return strings.Join(parts, "-")
	}
	return strings.TrimSpace(row[cfg.Fields.UID])
}

func datasetID(cfg Config, row model.Row) string {
	for _, r := range cfg.IDRules {
		if r.When.Match(row) {
			return r.ID
		}
	}
	return cfg.DatasetID
}
