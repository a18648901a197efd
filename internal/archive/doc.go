// Package archive persists completed setup runs in SQLite, outliving the
// short-lived conversation sessions they came from.
package archive
