package sitecat

import (
	"github.com/swpdata/sitecat/internal/ent/assemble"
)

// SiteCat is an interface for assembling the temperature site layer.
type SiteCat interface {
	// Assemble rebuilds the site layer from every source and exports it.
	Assemble(assemble.Assembler) error
}
