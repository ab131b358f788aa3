package exportio

import (
	"log/slog"

	"github.com/swpdata/sitecat/internal/ent/model"
	"github.com/swpdata/sitecat/internal/ent/sink"
)

// optional demotes a sink's failure to a warning. The secondary geodatabase
// export must not fail a run whose primary export succeeded.
type optional struct {
	s sink.Sink
}

// Optional wraps a sink so its errors are reported, not propagated.
func Optional(s sink.Sink) sink.Sink {
	return &optional{s: s}
}

func (o *optional) Name() string { return o.s.Name() + " (optional)" }

func (o *optional) Export(l *model.Layer) error {
	if err := o.s.Export(l); err != nil {
		slog.Warn("Optional export failed", "sink", o.s.Name(), "error", err)
	}
	return nil
}
