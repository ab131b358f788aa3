package sitecat

import (
	"github.com/swpdata/sitecat/internal/ent/assemble"
	"github.com/swpdata/sitecat/pkg/config"
)

// Version and Build are set by the build flags.
var (
	Version = "v0.2.1"
	Build   = "n/a"
)

// sitecat is an implementation of SiteCat interface.
type sitecat struct {
	cfg config.Config
}

// New creates a new instance of SiteCat.
func New(cfg config.Config) SiteCat {
	res := sitecat{cfg: cfg}
	return &res
}

// Assemble rebuilds the site layer from every source and exports it.
func (s *sitecat) Assemble(a assemble.Assembler) error {
	return a.Assemble()
}
