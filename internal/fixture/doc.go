// Package fixture owns the on-disk format for recorded HTTP responses: a
// content-addressed store of raw response bodies plus the manifest.json file
// that maps every captured URL to its fixture filename.
//
// Filenames are derived from the URL string, not the body, so the same URL
// always lands in the same file across runs and machines. That property is
// what lets independently captured manifest trees be merged for replay
// without renaming anything.
package fixture
