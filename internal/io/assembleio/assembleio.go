// Package assembleio runs the whole batch: it fetches every source through
// its reader, adapts rows to canonical records, unions the results in a
// pinned order, joins the dataset catalog and hands the layer to the export
// sinks. One source failing skips that source, never the run.
package assembleio

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/swpdata/sitecat/internal/ent/adapter"
	"github.com/swpdata/sitecat/internal/ent/assemble"
	"github.com/swpdata/sitecat/internal/ent/model"
	"github.com/swpdata/sitecat/internal/ent/sink"
	"github.com/swpdata/sitecat/internal/ent/sources"
	"github.com/swpdata/sitecat/internal/io/catalogio"
	"github.com/swpdata/sitecat/internal/io/rowio"
	"github.com/swpdata/sitecat/pkg/config"
)

// ReaderFn materializes the rows of one source entry.
type ReaderFn func(e sources.Entry) ([]model.Row, error)

// assembleio implements assemble.Assembler.
type assembleio struct {
	cfg     config.Config
	entries []sources.Entry
	catalog *catalogio.Catalog
	read    ReaderFn
	clock   clockwork.Clock
	sinks   []sink.Sink
}

// Option adjusts the assembler; used to inject fakes in tests.
type Option func(*assembleio)

// OptReaderFn replaces the file-backed reader factory.
func OptReaderFn(fn ReaderFn) Option {
	return func(a *assembleio) { a.read = fn }
}

// OptClock replaces the wall clock.
func OptClock(c clockwork.Clock) Option {
	return func(a *assembleio) { a.clock = c }
}

// OptEntries replaces the source registry.
func OptEntries(es []sources.Entry) Option {
	return func(a *assembleio) { a.entries = es }
}

// New returns an Assembler over the full source registry.
func New(
	cfg config.Config,
	cat *catalogio.Catalog,
	sinks []sink.Sink,
	opts ...Option,
) assemble.Assembler {
	res := &assembleio{
		cfg:     cfg,
		entries: sources.All(),
		catalog: cat,
		clock:   clockwork.NewRealClock(),
		sinks:   sinks,
	}
	res.read = func(e sources.Entry) ([]model.Row, error) {
		r, err := rowio.New(cfg.DataDir, e)
		if err != nil {
			return nil, err
		}
		return r.Rows()
	}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// result is one source's outcome; exactly one of recs/err is meaningful.
type result struct {
	name    string
	recs    []model.Record
	dropped int
	err     error
}

// Assemble runs the batch end to end.
func (a *assembleio) Assemble() error {
	slog.Info("Assembling site layer",
		"sources", len(a.entries), "jobs", a.cfg.JobsNum)

	results := a.runSources()
	layer := a.union(results)
	a.join(layer)
	a.report(layer)

	if err := a.export(layer); err != nil {
		return err
	}
	slog.Info("Layer assembled",
		"records", humanize.Comma(int64(len(layer.Records))))
	return nil
}

// runSources fetches and adapts every source concurrently. Failures become
// results, not errors: the errgroup is used for bounded scheduling only, so
// the group error is always nil.
func (a *assembleio) runSources() []result {
	var mu sync.Mutex
	results := make([]result, 0, len(a.entries))

	g := new(errgroup.Group)
	g.SetLimit(a.cfg.JobsNum)
	for _, e := range a.entries {
		g.Go(func() error {
			res := a.runSource(e)
			mu.Lock()
			results = append(results, res)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	// Pin the union order regardless of completion order.
	sort.Slice(results, func(i, j int) bool {
		return results[i].name < results[j].name
	})
	return results
}

// runSource reads one source under the fetch timeout and adapts its rows.
func (a *assembleio) runSource(e sources.Entry) result {
	rows, err := a.fetch(e)
	if err != nil {
		return result{name: e.Config.Name, err: err}
	}
	recs, dropped, err := adapter.Adapt(e.Config, rows)
	if err != nil {
		return result{name: e.Config.Name, err: err}
	}
	return result{name: e.Config.Name, recs: recs, dropped: dropped}
}

// fetch runs the source's reader, bounded by the configured timeout. A slow
// reader is abandoned and reported as a source read failure.
func (a *assembleio) fetch(e sources.Entry) ([]model.Row, error) {
	type fetched struct {
		rows []model.Row
		err  error
	}
	ch := make(chan fetched, 1)
	go func() {
		rows, err := a.read(e)
		ch <- fetched{rows: rows, err: err}
	}()

	select {
	case f := <-ch:
		if f.err != nil {
			return nil, &model.SourceReadError{Source: e.Config.Name, Err: f.err}
		}
		return f.rows, nil
	case <-a.clock.After(a.cfg.FetchTimeout):
		return nil, &model.SourceReadError{
			Source: e.Config.Name,
			Err:    context.DeadlineExceeded,
		}
	}
}

// union concatenates adapter outputs in source-name order and collects the
// per-source diagnostics. No record or column is dropped here.
func (a *assembleio) union(results []result) *model.Layer {
	layer := &model.Layer{
		Diagnostics: model.Diagnostics{
			DroppedRows: make(map[string]int),
			RowCounts:   make(map[string]int),
		},
	}
	for _, r := range results {
		if r.err != nil {
			layer.Diagnostics.Failed = append(layer.Diagnostics.Failed,
				model.SourceFailure{Source: r.name, Err: r.err})
			continue
		}
		layer.Records = append(layer.Records, r.recs...)
		layer.Diagnostics.RowCounts[r.name] = len(r.recs)
		if r.dropped > 0 {
			layer.Diagnostics.DroppedRows[r.name] = r.dropped
		}
	}
	return layer
}

// join enriches every record with its catalog entry, left-join semantics:
// an unmatched record is kept with empty descriptive fields and its dataset
// identifier is reported once. Housekeeping catalog columns never transfer.
func (a *assembleio) join(layer *model.Layer) {
	unmatched := make(map[string]struct{})
	for i := range layer.Records {
		rec := &layer.Records[i]
		e, ok := a.catalog.Get(rec.DatasetID)
		if !ok {
			unmatched[rec.DatasetID] = struct{}{}
			continue
		}
		rec.Matched = true
		rec.Organization = e.Organization
		rec.OrganizationType = e.OrganizationType
		rec.WaterBodyType = e.WaterBodyType
		rec.DatasetName = e.DatasetName
	}

	ids := make([]string, 0, len(unmatched))
	for id := range unmatched {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	layer.Diagnostics.UnmatchedIDs = ids
}

// report renders the consolidated end-of-run diagnostic.
func (a *assembleio) report(layer *model.Layer) {
	d := layer.Diagnostics
	for _, f := range d.Failed {
		slog.Warn("Source skipped", "source", f.Source, "error", f.Err)
	}
	for _, src := range sortedKeys(d.DroppedRows) {
		slog.Warn("Rows dropped for unparsable coordinates",
			"source", src, "rows", d.DroppedRows[src])
	}
	for _, id := range d.UnmatchedIDs {
		slog.Warn("Dataset identifier missing from catalog", "dataset", id)
	}
	slog.Info("Assembly summary",
		"sources_ok", len(d.RowCounts),
		"sources_failed", len(d.Failed),
		"unmatched_datasets", len(d.UnmatchedIDs),
	)
}

func (a *assembleio) export(layer *model.Layer) error {
	for _, s := range a.sinks {
		if err := s.Export(layer); err != nil {
			slog.Error("Export failed", "sink", s.Name(), "error", err)
			return fmt.Errorf("sink %s: %w", s.Name(), err)
		}
		slog.Info("Layer exported", "sink", s.Name())
	}
	return nil
}

func sortedKeys(m map[string]int) []string {
	res := make([]string, 0, len(m))
	for k := range m {
		res = append(res, k)
	}
	sort.Strings(res)
	return res
}
