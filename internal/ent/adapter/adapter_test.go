package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swpdata/sitecat/internal/ent/coord"
	"github.com/swpdata/sitecat/internal/ent/model"
)

func decimalConfig() Config {
	return Config{
		Name:      "test-source",
		DatasetID: "SWP_DTS_A900",
		Fields: FieldMap{
			UID:  "id",
			Name: "name",
			Lat:  "lat",
			Lon:  "lon",
		},
	}
}

func row(vals ...string) model.Row {
	r := model.Row{}
	for i := 0; i+1 < len(vals); i += 2 {
		r[vals[i]] = vals[i+1]
	}
	return r
}

func TestAdaptDecimal(t *testing.T) {
	cfg := decimalConfig()
	rows := []model.Row{
		row("id", "S-1", "name", "Upper Creek", "lat", "49.25", "lon", "-121.5"),
		row("id", "S-2", "name", "", "lat", "50.0", "lon", "-122.0"),
	}

	recs, dropped, err := Adapt(cfg, rows)
	require.NoError(t, err)
	assert.Zero(t, dropped)
	require.Len(t, recs, 2)

	assert.Equal(t, "S-1", recs[0].SiteUID)
	assert.Equal(t, "Upper Creek", recs[0].SiteName)
	assert.Equal(t, 49.25, recs[0].Lat)
	assert.Equal(t, -121.5, recs[0].Lon)
	assert.Equal(t, "SWP_DTS_A900", recs[0].DatasetID)
	assert.Equal(t, "test-source", recs[0].Source)

	// Name falls back to the identifier.
	assert.Equal(t, "S-2", recs[1].SiteName)
}

func TestAdaptEmptyInput(t *testing.T) {
	recs, dropped, err := Adapt(decimalConfig(), nil)
	require.NoError(t, err)
	assert.Zero(t, dropped)
	assert.Empty(t, recs)
}

func TestAdaptSchemaError(t *testing.T) {
	cfg := decimalConfig()
	rows := []model.Row{row("id", "S-1", "name", "X", "lat", "49.0")}

	_, _, err := Adapt(cfg, rows)
	require.Error(t, err)
	var serr *SchemaError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "test-source", serr.Source)
	assert.Equal(t, "lon", serr.Field)
}

func TestAdaptDropsUnparsableRows(t *testing.T) {
	cfg := decimalConfig()
	rows := []model.Row{
		row("id", "S-1", "name", "Good", "lat", "49.25", "lon", "-121.5"),
		row("id", "S-2", "name", "Bad", "lat", "no idea", "lon", "-122.0"),
	}

	recs, dropped, err := Adapt(cfg, rows)
	require.NoError(t, err)
	assert.Equal(t, 1, dropped)
	require.Len(t, recs, 1)
	assert.Equal(t, "S-1", recs[0].SiteUID)
}

func TestAdaptSystemicFailure(t *testing.T) {
	cfg := decimalConfig()
	rows := []model.Row{
		row("id", "S-1", "name", "Bad", "lat", "x", "lon", "y"),
		row("id", "S-2", "name", "Bad", "lat", "x", "lon", "y"),
	}

	_, dropped, err := Adapt(cfg, rows)
	require.Error(t, err)
	assert.Equal(t, 2, dropped)
	var perr *coord.ParseError
	assert.ErrorAs(t, err, &perr)
}

func TestAdaptRangeValidation(t *testing.T) {
	cfg := decimalConfig()
	rows := []model.Row{
		row("id", "S-1", "name", "Offworld", "lat", "95.0", "lon", "-121.0"),
		row("id", "S-2", "name", "Fine", "lat", "49.0", "lon", "-121.0"),
	}

	recs, dropped, err := Adapt(cfg, rows)
	require.NoError(t, err)
	assert.Equal(t, 1, dropped)
	require.Len(t, recs, 1)
	assert.Equal(t, "S-2", recs[0].SiteUID)
}

func TestAdaptDedupKeepsFirst(t *testing.T) {
	cfg := decimalConfig()
	cfg.DedupField = "id"
	rows := []model.Row{
		row("id", "S-1", "name", "First reading", "lat", "49.1", "lon", "-121.1"),
		row("id", "S-1", "name", "Second reading", "lat", "49.2", "lon", "-121.2"),
		row("id", "S-2", "name", "Other site", "lat", "50.0", "lon", "-122.0"),
		row("id", "S-1", "name", "Third reading", "lat", "49.3", "lon", "-121.3"),
	}

	recs, _, err := Adapt(cfg, rows)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "First reading", recs[0].SiteName)
	assert.Equal(t, "Other site", recs[1].SiteName)
}

func TestDedupIdempotent(t *testing.T) {
	cfg := decimalConfig()
	cfg.DedupField = "id"
	rows := []model.Row{
		row("id", "S-1", "name", "A", "lat", "49.1", "lon", "-121.1"),
		row("id", "S-1", "name", "B", "lat", "49.2", "lon", "-121.2"),
		row("id", "S-2", "name", "C", "lat", "50.0", "lon", "-122.0"),
	}

	once := dedupRows(cfg, rows)
	require.Len(t, once, 2)
	twice := dedupRows(cfg, once)
	assert.Equal(t, once, twice)
}

func TestAdaptFilters(t *testing.T) {
	cfg := decimalConfig()
	cfg.Drop = []Predicate{
		FieldEquals("name", "TEST SITE"),
		FieldEmpty("lat"),
	}
	rows := []model.Row{
		row("id", "S-1", "name", "TEST SITE", "lat", "49.1", "lon", "-121.1"),
		row("id", "S-2", "name", "Real Site", "lat", "", "lon", "-121.2"),
		row("id", "S-3", "name", "Kept", "lat", "50.0", "lon", "-122.0"),
	}

	recs, dropped, err := Adapt(cfg, rows)
	require.NoError(t, err)
	assert.Zero(t, dropped)
	require.Len(t, recs, 1)
	assert.Equal(t, "S-3", recs[0].SiteUID)
}

func TestAdaptIDRulesFirstMatchWins(t *testing.T) {
	cfg := decimalConfig()
	cfg.IDRules = []IDRule{
		{When: FieldEquals("agency", "USGS"), ID: "SWP_DTS_A013"},
		{When: FieldNotEmpty("agency"), ID: "SWP_DTS_A014"},
	}
	cfg.Keep = []string{"agency"}
	rows := []model.Row{
		row("id", "S-1", "name", "A", "lat", "49.0", "lon", "-121.0", "agency", "USGS"),
		row("id", "S-2", "name", "B", "lat", "49.0", "lon", "-121.0", "agency", "USFS"),
		row("id", "S-3", "name", "C", "lat", "49.0", "lon", "-121.0", "agency", ""),
	}

	recs, _, err := Adapt(cfg, rows)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "SWP_DTS_A013", recs[0].DatasetID)
	assert.Equal(t, "SWP_DTS_A014", recs[1].DatasetID)
	// No rule matched: the constant applies.
	assert.Equal(t, "SWP_DTS_A900", recs[2].DatasetID)
	assert.Equal(t, "USGS", recs[0].Extra["agency"])
}

func TestAdaptNonASCIIRule(t *testing.T) {
	cfg := decimalConfig()
	cfg.IDRules = []IDRule{
		{When: FieldNonASCII("name"), ID: "SWP_DTS_A011"},
	}
	rows := []model.Row{
		row("id", "S-1", "name", "Xwísten Creek", "lat", "49.0", "lon", "-121.0"),
		row("id", "S-2", "name", "Plain Creek", "lat", "49.0", "lon", "-121.0"),
	}

	recs, _, err := Adapt(cfg, rows)
	require.NoError(t, err)
	assert.Equal(t, "SWP_DTS_A011", recs[0].DatasetID)
	assert.Equal(t, "SWP_DTS_A900", recs[1].DatasetID)
}

func TestAdaptCompositeUID(t *testing.T) {
	cfg := decimalConfig()
	cfg.Fields.UID = ""
	cfg.UIDFrom = []string{"facility", "site"}
	rows := []model.Row{
		row("facility", "CHK", "site", "04", "name", "Intake", "lat", "49.0", "lon", "-121.0"),
	}

	recs, _, err := Adapt(cfg, rows)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "CHK-04", recs[0].SiteUID)
}

func TestAdaptPrivacyTruncation(t *testing.T) {
	cfg := decimalConfig()
	cfg.TruncateBy = 2
	rows := []model.Row{
		row("id", "S-1", "name", "Hidden", "lat", "51.1234567", "lon", "-121.7654321"),
	}

	recs, _, err := Adapt(cfg, rows)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	// String truncation, not rounding: 51.1234567 -> 51.12345.
	assert.Equal(t, 51.12345, recs[0].Lat)
	assert.Equal(t, -121.76543, recs[0].Lon)
}

func TestAdaptForceWestAppliedOnce(t *testing.T) {
	cfg := decimalConfig()
	cfg.ForceWestLon = true
	rows := []model.Row{
		row("id", "S-1", "name", "Unsigned", "lat", "49.0", "lon", "121.5"),
		row("id", "S-2", "name", "Signed", "lat", "49.0", "lon", "-121.5"),
	}

	recs, _, err := Adapt(cfg, rows)
	require.NoError(t, err)
	assert.Equal(t, -121.5, recs[0].Lon)
	assert.Equal(t, -121.5, recs[1].Lon)
}

func TestAdaptDMSSource(t *testing.T) {
	cfg := decimalConfig()
	cfg.Encoding = DMS
	rows := []model.Row{
		row("id", "S-1", "name", "DMS site",
			"lat", `51°30'00"N`, "lon", `123°45'30"W`),
	}

	recs, _, err := Adapt(cfg, rows)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.InDelta(t, 51.5, recs[0].Lat, 1e-6)
	assert.InDelta(t, -123.7583333, recs[0].Lon, 1e-6)
}

func TestAdaptUTMSource(t *testing.T) {
	cfg := decimalConfig()
	cfg.Encoding = UTM
	cfg.Zone = 9
	cfg.Fields.Lat, cfg.Fields.Lon = "", ""
	cfg.Fields.Easting, cfg.Fields.Northing = "easting", "northing"
	rows := []model.Row{
		row("id", "S-1", "name", "UTM site",
			"easting", "500000", "northing", "5773000"),
	}

	recs, _, err := Adapt(cfg, rows)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.InDelta(t, 52.107547, recs[0].Lat, 1e-6)
	assert.InDelta(t, -129.0, recs[0].Lon, 1e-6)
}

func TestPredicates(t *testing.T) {
	r := row("a", "x", "b", " ", "c", "naïve")

	assert.True(t, FieldEquals("a", "x").Match(r))
	assert.False(t, FieldEquals("a", "y").Match(r))
	assert.True(t, FieldContains("c", "aï").Match(r))
	assert.True(t, FieldEmpty("b").Match(r))
	assert.True(t, FieldEmpty("missing").Match(r))
	assert.True(t, FieldNotEmpty("a").Match(r))
	assert.True(t, FieldNonASCII("c").Match(r))
	assert.False(t, FieldNonASCII("a").Match(r))
}
