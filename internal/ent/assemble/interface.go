package assemble

// Assembler is the interface that wraps the Assemble method.
type Assembler interface {
	// Assemble runs every source adapter, unions the results, joins the
	// dataset catalog and exports the final layer.
	Assemble() error
}
