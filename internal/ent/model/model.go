package model

import "fmt"

// Row is one raw tabular row from a source reader, column name to value.
// Readers materialize every column of the header, so a mapped column that is
// absent from a Row means the source schema changed.
type Row map[string]string

// Record is the canonical site shape common to all sources after adaptation.
// Every record carries a dataset identifier foreign key into the catalog.
type Record struct {
	// Source is the name of the adapter that produced the record.
	Source string `json:"source"`

	// SiteUID identifies a physical monitoring point. Unique within a
	// dataset, not across datasets.
	SiteUID string `json:"site_uid"`

	// SiteName is the human-readable name; equals SiteUID for sources that
	// publish no separate name.
	SiteName string `json:"site_name"`

	// Lat and Lon are decimal degrees, WGS84 (EPSG:4326).
	Lat float64 `json:"latitude"`
	Lon float64 `json:"longitude"`

	// DatasetID is the SWP_DTS_A### foreign key into the catalog.
	DatasetID string `json:"dataset_unique_identifier"`

	// Extra holds source columns preserved through the union. Columns absent
	// in another adapter's output are simply missing from its records' maps.
	Extra map[string]string `json:"extra,omitempty"`

	// Descriptive catalog attributes, filled by the joiner. Matched reports
	// whether the DatasetID resolved to a catalog entry.
	Matched          bool   `json:"-"`
	Organization     string `json:"organization,omitempty"`
	OrganizationType string `json:"organization_type,omitempty"`
	WaterBodyType    string `json:"water_body_type,omitempty"`
	DatasetName      string `json:"dataset_name,omitempty"`
}

// CatalogEntry is one row of dataset-level descriptive metadata. The
// housekeeping fields are read from the catalog file but never reach the
// exported layer.
type CatalogEntry struct {
	RowID            string `csv:"objectid"`
	DatasetID        string `csv:"dataset_unique_identifier"`
	Organization     string `csv:"organization"`
	OrganizationType string `csv:"organization_type"`
	WaterBodyType    string `csv:"water_body_type"`
	DatasetName      string `csv:"dataset_name"`

	// Housekeeping, excluded from export.
	Comments        string `csv:"comments"`
	AgreementDate   string `csv:"data_sharing_agreement_date"`
	AcquisitionDate string `csv:"data_acquisition_date"`
}

// Layer is the assembled output: the unioned, catalog-joined record set plus
// the consolidated run diagnostics.
type Layer struct {
	Records     []Record
	Diagnostics Diagnostics
}

// SourceFailure names one skipped source and the error that skipped it.
type SourceFailure struct {
	Source string
	Err    error
}

// Diagnostics is the consolidated end-of-run report. It is populated during
// assembly and rendered once, never as scattered inline messages.
type Diagnostics struct {
	// Failed lists sources skipped because of read, schema or systemic
	// coordinate failures, in source-name order.
	Failed []SourceFailure

	// UnmatchedIDs lists distinct dataset identifiers that resolved to no
	// catalog entry, sorted.
	UnmatchedIDs []string

	// DroppedRows counts per-source rows dropped for unparsable coordinates.
	DroppedRows map[string]int

	// RowCounts counts records contributed per source.
	RowCounts map[string]int
}

// Span is one column of a fixed-width metadata file: a half-open byte range
// [Start, End) within each line.
type Span struct {
	Name  string
	Start int
	End   int
}

// SourceReadError reports that the raw-row reader for one source failed.
// It is recovered at the adapter boundary: the source is skipped and the run
// continues.
type SourceReadError struct {
	Source string
	Err    error
}

func (e *SourceReadError) Error() string {
	return fmt.Sprintf("cannot read source %q: %v", e.Source, e.Err)
}

func (e *SourceReadError) Unwrap() error { return e.Err }
