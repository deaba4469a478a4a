package catalog

import (
	_ "embed"
	"fmt"
)

//go:embed default.json
var defaultJSON []byte

// Default returns the catalog shipped with the binary. It is used when no
// catalog file is configured and as a fixture in tests.
func Default() *Catalog {
	c, err := ParseJSON(defaultJSON)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}
