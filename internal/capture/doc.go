// Package capture drives a scraper through its full resolution cascade
// (media page, master playlist, subtitle playlists, segments) while an
// intercepting transport records every response it produces into a
// content-addressed fixture directory plus a manifest.
//
// Failures are scoped to the narrowest stage that produced them: the
// top-level cascade aborts the run because nothing meaningful can be
// captured without it, while per-entry subtitle failures are logged and
// skipped so partial fixture sets remain useful. Whatever was recorded
// before a failure is always flushed.
package capture
