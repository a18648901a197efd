package espalier

import _ "embed"

// Version is the library version, kept in version.txt so release tooling can
// bump it without touching Go source.
//
//go:embed version.txt
var Version string
