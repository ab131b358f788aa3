package assembleio

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swpdata/sitecat/internal/ent/adapter"
	"github.com/swpdata/sitecat/internal/ent/model"
	"github.com/swpdata/sitecat/internal/ent/sink"
	"github.com/swpdata/sitecat/internal/ent/sources"
	"github.com/swpdata/sitecat/internal/io/catalogio"
	"github.com/swpdata/sitecat/pkg/config"
)

// capture records the layer a sink receives.
type capture struct {
	layer *model.Layer
}

func (c *capture) Name() string { return "capture" }

func (c *capture) Export(l *model.Layer) error {
	c.layer = l
	return nil
}

func testEntry(name string) sources.Entry {
	return sources.Entry{
		Config: adapter.Config{
			Name:      name,
			DatasetID: "SWP_DTS_A001",
			Fields: adapter.FieldMap{
				UID:  "id",
				Name: "name",
				Lat:  "lat",
				Lon:  "lon",
			},
		},
		Kind: sources.CSV,
	}
}

func testCatalog(t *testing.T) *catalogio.Catalog {
	t.Helper()
	cat, err := catalogio.FromEntries([]model.CatalogEntry{
		{
			DatasetID:        "SWP_DTS_A001",
			Organization:     "Province of BC",
			OrganizationType: "Government",
			WaterBodyType:    "Stream",
			DatasetName:      "Hydrometric Network",
			Comments:         "housekeeping, never exported",
		},
	})
	require.NoError(t, err)
	return cat
}

func rowsFor(name string) []model.Row {
	return []model.Row{
		{"id": name + "-1", "name": "Site one", "lat": "49.1", "lon": "-121.1"},
		{"id": name + "-2", "name": "Site two", "lat": "49.2", "lon": "-121.2"},
	}
}

func newTestAssembler(
	t *testing.T,
	entries []sources.Entry,
	read ReaderFn,
	opts ...Option,
) (*capture, func() error) {
	t.Helper()
	cfg := config.New(config.OptJobsNum(4), config.OptFetchTimeout(time.Minute))
	out := &capture{}
	opts = append([]Option{OptEntries(entries), OptReaderFn(read)}, opts...)
	a := New(cfg, testCatalog(t), []sink.Sink{out}, opts...)
	return out, a.Assemble
}

func TestAssembleUnionOrderIsPinned(t *testing.T) {
	// Registry order is deliberately shuffled; the union must come out in
	// source-name order.
	entries := []sources.Entry{
		testEntry("walleye"), testEntry("arrow"), testEntry("moyie"),
	}
	read := func(e sources.Entry) ([]model.Row, error) {
		return rowsFor(e.Config.Name), nil
	}

	out, run := newTestAssembler(t, entries, read)
	require.NoError(t, run())

	require.Len(t, out.layer.Records, 6)
	var got []string
	for _, r := range out.layer.Records {
		got = append(got, r.SiteUID)
	}
	assert.Equal(t, []string{
		"arrow-1", "arrow-2", "moyie-1", "moyie-2", "walleye-1", "walleye-2",
	}, got)
}

func TestAssembleDeterminism(t *testing.T) {
	entries := []sources.Entry{
		testEntry("walleye"), testEntry("arrow"), testEntry("moyie"),
	}
	read := func(e sources.Entry) ([]model.Row, error) {
		return rowsFor(e.Config.Name), nil
	}

	out1, run1 := newTestAssembler(t, entries, read)
	require.NoError(t, run1())
	out2, run2 := newTestAssembler(t, entries, read)
	require.NoError(t, run2())

	assert.Equal(t, out1.layer.Records, out2.layer.Records)
}

func TestAssemblePartialFailure(t *testing.T) {
	var entries []sources.Entry
	names := []string{
		"alpha", "bravo", "charlie", "delta", "echo",
		"foxtrot", "golf", "hotel", "india", "juliett",
	}
	for _, n := range names {
		entries = append(entries, testEntry(n))
	}
	read := func(e sources.Entry) ([]model.Row, error) {
		if e.Config.Name == "delta" {
			return nil, errors.New("portal is down")
		}
		return rowsFor(e.Config.Name), nil
	}

	out, run := newTestAssembler(t, entries, read)
	require.NoError(t, run())

	// Nine sources contributed, one is named in the diagnostics.
	assert.Len(t, out.layer.Records, 18)
	require.Len(t, out.layer.Diagnostics.Failed, 1)
	f := out.layer.Diagnostics.Failed[0]
	assert.Equal(t, "delta", f.Source)
	var rerr *model.SourceReadError
	assert.ErrorAs(t, f.Err, &rerr)
	for _, r := range out.layer.Records {
		assert.NotEqual(t, "delta", r.Source)
	}
}

func TestAssembleSchemaFailureSkipsSource(t *testing.T) {
	entries := []sources.Entry{testEntry("broken"), testEntry("fine")}
	read := func(e sources.Entry) ([]model.Row, error) {
		if e.Config.Name == "broken" {
			return []model.Row{{"wrong_column": "x"}}, nil
		}
		return rowsFor(e.Config.Name), nil
	}

	out, run := newTestAssembler(t, entries, read)
	require.NoError(t, run())

	assert.Len(t, out.layer.Records, 2)
	require.Len(t, out.layer.Diagnostics.Failed, 1)
	var serr *adapter.SchemaError
	assert.ErrorAs(t, out.layer.Diagnostics.Failed[0].Err, &serr)
}

func TestAssembleJoin(t *testing.T) {
	matched := testEntry("matched")
	orphan := testEntry("orphan")
	orphan.Config.DatasetID = "SWP_DTS_A404"
	read := func(e sources.Entry) ([]model.Row, error) {
		return rowsFor(e.Config.Name)[:1], nil
	}

	out, run := newTestAssembler(t, []sources.Entry{matched, orphan}, read)
	require.NoError(t, run())

	require.Len(t, out.layer.Records, 2)
	m := out.layer.Records[0]
	assert.True(t, m.Matched)
	assert.Equal(t, "Province of BC", m.Organization)
	assert.Equal(t, "Hydrometric Network", m.DatasetName)

	// Left join: the unmatched record survives with empty descriptive
	// fields, and its identifier is reported exactly once.
	o := out.layer.Records[1]
	assert.False(t, o.Matched)
	assert.Empty(t, o.Organization)
	assert.Equal(t, []string{"SWP_DTS_A404"}, out.layer.Diagnostics.UnmatchedIDs)
}

func TestAssembleDroppedRowsCounted(t *testing.T) {
	entries := []sources.Entry{testEntry("patchy")}
	read := func(_ sources.Entry) ([]model.Row, error) {
		return []model.Row{
			{"id": "P-1", "name": "Good", "lat": "49.1", "lon": "-121.1"},
			{"id": "P-2", "name": "Bad", "lat": "not a latitude", "lon": "-121.2"},
		}, nil
	}

	out, run := newTestAssembler(t, entries, read)
	require.NoError(t, run())

	assert.Len(t, out.layer.Records, 1)
	assert.Equal(t, 1, out.layer.Diagnostics.DroppedRows["patchy"])
	assert.Equal(t, 1, out.layer.Diagnostics.RowCounts["patchy"])
}

func TestAssembleFetchTimeout(t *testing.T) {
	fc := clockwork.NewFakeClock()
	hang := make(chan struct{})
	t.Cleanup(func() { close(hang) })

	entries := []sources.Entry{testEntry("glacial")}
	read := func(_ sources.Entry) ([]model.Row, error) {
		<-hang
		return nil, nil
	}

	out, run := newTestAssembler(t, entries, read, OptClock(fc))

	done := make(chan error, 1)
	go func() { done <- run() }()

	// Wait for the fetch to arm its timeout, then fire it.
	fc.BlockUntil(1)
	fc.Advance(2 * time.Minute)
	require.NoError(t, <-done)

	require.Len(t, out.layer.Diagnostics.Failed, 1)
	f := out.layer.Diagnostics.Failed[0]
	assert.Equal(t, "glacial", f.Source)
	assert.ErrorIs(t, f.Err, context.DeadlineExceeded)
	assert.Empty(t, out.layer.Records)
}

func TestAssembleEmptySourceIsNotAFailure(t *testing.T) {
	entries := []sources.Entry{testEntry("pending")}
	read := func(_ sources.Entry) ([]model.Row, error) {
		return nil, nil
	}

	out, run := newTestAssembler(t, entries, read)
	require.NoError(t, run())

	assert.Empty(t, out.layer.Records)
	assert.Empty(t, out.layer.Diagnostics.Failed)
	assert.Equal(t, 0, out.layer.Diagnostics.RowCounts["pending"])
}
