package sink

import "github.com/swpdata/sitecat/internal/ent/model"

// Sink persists the assembled layer.
type Sink interface {
	// Name identifies the sink in logs and diagnostics.
	Name() string

	// Export writes the layer's records. A sink must not mutate the layer.
	Export(l *model.Layer) error
}
