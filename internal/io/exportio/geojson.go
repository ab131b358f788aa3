// Package exportio persists the assembled layer: a GeoJSON feature
// collection for the map presentation layer, and an optional secondary
// export into PostgreSQL.
package exportio

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gnames/gnfmt"
	"github.com/gnames/gnsys"

	"github.com/swpdata/sitecat/internal/ent/model"
	"github.com/swpdata/sitecat/internal/ent/sink"
	"github.com/swpdata/sitecat/pkg/config"
)

// geojson writes the layer as a WGS84 FeatureCollection file.
type geojson struct {
	cfg config.Config
}

// NewGeoJSON returns the primary export sink.
func NewGeoJSON(cfg config.Config) sink.Sink {
	return &geojson{cfg: cfg}
}

func (g *geojson) Name() string { return "geojson" }

// Export encodes the records and writes the file atomically: the bytes land
// in a temp file in the output dir first, then replace the target, so a
// failed run never leaves a half-written collection behind.
func (g *geojson) Export(l *model.Layer) error {
	if err := gnsys.MakeDir(g.cfg.OutputDir); err != nil {
		slog.Error("Cannot create output directory",
			"dir", g.cfg.OutputDir, "error", err)
		return err
	}

	fc := model.NewFeatureCollection(l.Records)
	enc := gnfmt.GNjson{Pretty: true}
	b, err := enc.Encode(fc)
	if err != nil {
		slog.Error("Cannot encode feature collection", "error", err)
		return err
	}

	path := filepath.Join(g.cfg.OutputDir, g.cfg.OutputFile)
	tmp := path + ".tmp"
	if err = os.WriteFile(tmp, b, 0644); err != nil {
		slog.Error("Cannot write feature collection", "path", tmp, "error", err)
		return err
	}
	return os.Rename(tmp, path)
}
