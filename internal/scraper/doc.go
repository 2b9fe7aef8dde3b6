// Package scraper defines the capability contract the capture and replay
// machinery relies on: media-data resolution, playlist loading, subtitle
// matching, and optional segment downloading. Concrete providers live in
// subpackages and are wired into an explicitly constructed registry; there
// is no runtime self-registration.
package scraper
