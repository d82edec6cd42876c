package assets

import (
	_ "embed"
)

// Catalog is the default reference color catalog, compiled into the binary.
//
//go:embed catalog.yaml
var Catalog []byte
