// Package sources is the registry of every external site provider: one Entry
// per source pairing its adapter configuration with the reader that
// materializes its rows. Adding a source means adding an Entry here, not
// writing a new code path.
//
// Truncation and west-forcing flags are provider policy, documented on the
// entry that carries them; they are never inferred from the data.
package sources

import (
	"github.com/swpdata/sitecat/internal/ent/adapter"
	"github.com/swpdata/sitecat/internal/ent/model"
)

// Kind selects the raw-row reader for a source.
type Kind int

const (
	// CSV is a comma-separated file with a header row.
	CSV Kind = iota
	// Fixed is a fixed-width text metadata file.
	Fixed
	// Portal is a JSON dump of an open-data portal datastore resource.
	Portal
	// Pending marks a source under a data-sharing agreement that has not
	// delivered yet; it yields zero rows by design.
	Pending
)

// Entry binds one source's adapter config to its materialized input.
type Entry struct {
	Config adapter.Config

	Kind Kind

	// File is the input file name, relative to the configured data dir.
	File string

	// Spans lays out a Fixed file's columns.
	Spans []model.Span
}

// All returns every registered source. Registry order is not meaningful;
// the assembler orders sources by name.
func All() []Entry {
	return []Entry{
		{
			Config: adapter.Config{
				Name:      "bc-hydrometric",
				DatasetID: "SWP_DTS_A001",
				Fields: adapter.FieldMap{
					UID:  "STATION_NUMBER",
					Name: "STATION_NAME",
					Lat:  "LATITUDE",
					Lon:  "LONGITUDE",
				},
				Keep: []string{"STATION_STATUS"},
			},
			Kind: CSV,
			File: "bc_hydrometric_stations.csv",
		},
		{
			Config: adapter.Config{
				Name:      "bc-forest-research",
				DatasetID: "SWP_DTS_A002",
				Fields: adapter.FieldMap{
					UID:      "INSTALL_ID",
					Name:     "INSTALL_NAME",
					Easting:  "UTM_EASTING",
					Northing: "UTM_NORTHING",
				},
				Encoding: adapter.UTM,
				Zone:     10,
				// Rows without a northing are survey placeholders.
				Drop: []adapter.Predicate{
					adapter.FieldEmpty("UTM_NORTHING"),
				},
			},
			Kind: CSV,
			File: "forest_research_installations.csv",
		},
		{
			Config: adapter.Config{
				Name:      "pacific-hatcheries",
				DatasetID: "SWP_DTS_A003",
				Fields: adapter.FieldMap{
					Name: "SITE_DESC",
					Lat:  "LAT",
					Lon:  "LONG",
				},
				// Site codes repeat between facilities; only the pair
				// is unique.
				UIDFrom: []string{"FACILITY_CODE", "SITE_CODE"},
			},
			Kind: CSV,
			File: "pacific_hatchery_sites.csv",
		},
		{
			Config: adapter.Config{
				Name:      "skeena-stewardship",
				DatasetID: "SWP_DTS_A004",
				Fields: adapter.FieldMap{
					UID:  "site",
					Name: "site",
					Lat:  "lat_dms",
					Lon:  "long_dms",
				},
				Encoding: adapter.DMS,
			},
			Kind: CSV,
			File: "skeena_stewardship_sites.csv",
		},
		{
			Config: adapter.Config{
				Name:      "columbia-basin-portal",
				DatasetID: "SWP_DTS_A005",
				Fields: adapter.FieldMap{
					UID:  "location_id",
					Name: "location_name",
					Lat:  "latitude",
					Lon:  "longitude",
				},
				// Provider requires coarsened coordinates on public maps.
				TruncateBy: 2,
			},
			Kind: Portal,
			File: "columbia_basin_records.json",
		},
		{
			Config: adapter.Config{
				Name:      "university-sensor-net",
				DatasetID: "SWP_DTS_A006",
				Fields: adapter.FieldMap{
					UID:  "site_id",
					Name: "site_label",
					Lat:  "lat",
					Lon:  "lon",
				},
				// One row per logger reading; collapse to one per site.
				DedupField: "site_id",
			},
			Kind: CSV,
			File: "university_sensor_readings.csv",
		},
		{
			Config: adapter.Config{
				Name:      "nass-watershed",
				DatasetID: "SWP_DTS_A007",
				Fields: adapter.FieldMap{
					UID:      "SITE_NO",
					Name:     "SITE_NM",
					Easting:  "EASTING",
					Northing: "NORTHING",
				},
				Encoding: adapter.UTM,
				Zone:     9,
			},
			Kind: CSV,
			File: "nass_watershed_sites.csv",
		},
		{
			Config: adapter.Config{
				Name:      "okanagan-basin",
				DatasetID: "SWP_DTS_A008",
				Fields: adapter.FieldMap{
					UID:      "StationID",
					Name:     "StationName",
					Easting:  "Easting",
					Northing: "Northing",
				},
				Encoding: adapter.UTM,
				Zone:     11,
			},
			Kind: CSV,
			File: "okanagan_basin_stations.csv",
		},
		{
			Config: adapter.Config{
				Name:      "fraser-salmon-society",
				DatasetID: "SWP_DTS_A009",
				Fields: adapter.FieldMap{
					UID:  "code",
					Name: "creek_name",
					Lat:  "lat_dd",
					Lon:  "long_dd",
				},
				// Spreadsheet export strips minus signs from longitudes.
				ForceWestLon: true,
			},
			Kind: CSV,
			File: "fraser_salmon_society.csv",
		},
		{
			Config: adapter.Config{
				Name:      "coastal-guardians",
				DatasetID: "SWP_DTS_A010",
				IDRules: []adapter.IDRule{
					// Nation-operated sites are a separate agreement;
					// their names carry non-ASCII orthography.
					{
						When: adapter.FieldNonASCII("operator_name"),
						ID:   "SWP_DTS_A011",
					},
				},
				Fields: adapter.FieldMap{
					UID:  "site_code",
					Name: "site_name",
					Lat:  "latitude",
					Lon:  "longitude",
				},
				Keep: []string{"operator_name"},
			},
			Kind: CSV,
			File: "coastal_guardians_sites.csv",
		},
		{
			Config: adapter.Config{
				Name:      "provincial-lakes",
				DatasetID: "SWP_DTS_A012",
				Fields: adapter.FieldMap{
					UID:  "LAKE_ID",
					Name: "LAKE_NAME",
					Lat:  "LAT",
					Lon:  "LON",
				},
			},
			Kind: Fixed,
			File: "provincial_lakes_metadata.txt",
			Spans: []model.Span{
				{Name: "LAKE_ID", Start: 0, End: 10},
				{Name: "LAKE_NAME", Start: 10, End: 45},
				{Name: "LAT", Start: 45, End: 56},
				{Name: "LON", Start: 56, End: 68},
			},
		},
		{
			Config: adapter.Config{
				Name: "transboundary-gauges",
				// Operating agency decides the dataset; unknown agencies
				// fall through to the shared identifier.
				DatasetID: "SWP_DTS_A015",
				IDRules: []adapter.IDRule{
					{When: adapter.FieldEquals("agency", "USGS"), ID: "SWP_DTS_A013"},
					{When: adapter.FieldEquals("agency", "USFS"), ID: "SWP_DTS_A014"},
				},
				Fields: adapter.FieldMap{
					UID:  "gauge_no",
					Name: "gauge_name",
					Lat:  "dec_lat",
					Lon:  "dec_long",
				},
				Keep: []string{"agency"},
			},
			Kind: CSV,
			File: "transboundary_gauges.csv",
		},
		{
			Config: adapter.Config{
				Name:      "island-streamkeepers",
				DatasetID: "SWP_DTS_A016",
				Fields: adapter.FieldMap{
					UID:  "StreamCode",
					Name: "StreamName",
					Lat:  "Latitude",
					Lon:  "Longitude",
				},
				Encoding: adapter.DMS,
				// Calibration rows shipped inside the production export.
				Drop: []adapter.Predicate{
					adapter.FieldEquals("StreamName", "TEST SITE"),
					adapter.FieldEquals("StreamName", "TEST SITE 2"),
				},
			},
			Kind: CSV,
			File: "island_streamkeepers.csv",
		},
		{
			Config: adapter.Config{
				Name:      "peace-groundwater",
				DatasetID: "SWP_DTS_A017",
				Fields: adapter.FieldMap{
					UID:      "WELL_TAG",
					Name:     "WELL_NAME",
					Easting:  "UTM_E",
					Northing: "UTM_N",
				},
				Encoding: adapter.UTM,
				Zone:     10,
				Drop: []adapter.Predicate{
					adapter.FieldEmpty("UTM_N"),
				},
			},
			Kind: CSV,
			File: "peace_groundwater_wells.csv",
		},
		{
			Config: adapter.Config{
				Name:      "kootenay-lakes-portal",
				DatasetID: "SWP_DTS_A018",
				Fields: adapter.FieldMap{
					UID:  "stn",
					Name: "stn_desc",
					Lat:  "lat",
					Lon:  "lng",
				},
			},
			Kind: Portal,
			File: "kootenay_lakes_records.json",
		},
		{
			Config: adapter.Config{
				Name:      "thompson-rivers-uni",
				DatasetID: "SWP_DTS_A019",
				Fields: adapter.FieldMap{
					UID:  "logger",
					Name: "reach",
					Lat:  "lat",
					Lon:  "lon",
				},
				DedupField: "logger",
			},
			Kind: CSV,
			File: "thompson_rivers_loggers.csv",
		},
		{
			Config: adapter.Config{
				Name:      "cariboo-ranchlands",
				DatasetID: "SWP_DTS_A020",
				Fields: adapter.FieldMap{
					UID:  "site",
					Name: "site",
					Lat:  "lat",
					Lon:  "long",
				},
				// Sites are on private ranchland; the agreement requires
				// coarsened public coordinates; longitudes arrive unsigned.
				TruncateBy:   2,
				ForceWestLon: true,
			},
			Kind: CSV,
			File: "cariboo_ranchlands.csv",
		},
		{
			Config: adapter.Config{
				Name:      "haida-gwaii-watchmen",
				DatasetID: "SWP_DTS_A021",
				Fields: adapter.FieldMap{
					UID:      "watch_site",
					Name:     "watch_site",
					Easting:  "easting",
					Northing: "northing",
				},
				Encoding: adapter.UTM,
				Zone:     9,
			},
			Kind: CSV,
			File: "haida_gwaii_watchmen.csv",
		},
		{
			Config: adapter.Config{
				Name:      "yukon-transboundary",
				DatasetID: "SWP_DTS_A022",
				Fields: adapter.FieldMap{
					UID:  "site_id",
					Name: "site_name",
					Lat:  "lat",
					Lon:  "lon",
				},
			},
			// Agreement signed, data not delivered yet.
			Kind: Pending,
		},
		{
			Config: adapter.Config{
				Name:      "municipal-stormwater",
				DatasetID: "SWP_DTS_A023",
				Fields: adapter.FieldMap{
					Name: "outfall_desc",
					Lat:  "lat",
					Lon:  "lon",
				},
				// Outfall numbers restart at 1 in every municipality.
				UIDFrom: []string{"municipality", "outfall_id"},
				Keep:    []string{"municipality"},
			},
			Kind: CSV,
			File: "municipal_stormwater.csv",
		},
		{
			Config: adapter.Config{
				Name: "angling-federation",
				// Club-reported sites carry the club's agreement; sites
				// reported directly by members have no club id.
				DatasetID: "SWP_DTS_A025",
				IDRules: []adapter.IDRule{
					{When: adapter.FieldEmpty("club_id"), ID: "SWP_DTS_A024"},
				},
				Fields: adapter.FieldMap{
					UID:  "spot_id",
					Name: "water_name",
					Lat:  "latitude",
					Lon:  "longitude",
				},
			},
			Kind: CSV,
			File: "angling_federation_spots.csv",
		},
		{
			Config: adapter.Config{
				Name:      "alpine-research",
				DatasetID: "SWP_DTS_A026",
				Fields: adapter.FieldMap{
					UID:  "STN",
					Name: "STN_NAME",
					Lat:  "LAT_DMS",
					Lon:  "LON_DMS",
				},
				Encoding: adapter.DMS,
			},
			Kind: Fixed,
			File: "alpine_research_stations.txt",
			Spans: []model.Span{
				{Name: "STN", Start: 0, End: 8},
				{Name: "STN_NAME", Start: 8, End: 40},
				{Name: "LAT_DMS", Start: 40, End: 55},
				{Name: "LON_DMS", Start: 55, End: 71},
			},
		},
		{
			Config: adapter.Config{
				Name:      "ministry-env-ems",
				DatasetID: "SWP_DTS_A027",
				Fields: adapter.FieldMap{
					UID:  "EMS_ID",
					Name: "MONITORING_LOCATION",
					Lat:  "LATITUDE",
					Lon:  "LONGITUDE",
				},
				// EMS exports one row per sample.
				DedupField: "EMS_ID",
			},
			Kind: CSV,
			File: "ems_temperature_locations.csv",
		},
		{
			Config: adapter.Config{
				Name:      "salmon-coast-station",
				DatasetID: "SWP_DTS_A028",
				Fields: adapter.FieldMap{
					UID:  "site",
					Name: "site_long_name",
					Lat:  "lat",
					Lon:  "lon",
				},
			},
			Kind: CSV,
			File: "salmon_coast_sites.csv",
		},
		{
			Config: adapter.Config{
				Name:      "regional-parks",
				DatasetID: "SWP_DTS_A029",
				Fields: adapter.FieldMap{
					UID:  "asset_id",
					Name: "park_water",
					Lat:  "y_coord",
					Lon:  "x_coord",
				},
				ForceWestLon: true,
			},
			Kind: Portal,
			File: "regional_parks_records.json",
		},
	}
}
