// Package replay serves previously captured HTTP responses back to
// application code as if they came from the network. It aggregates every
// manifest found under one or more fixture roots into a single read-only
// URL index and exposes an http.RoundTripper that answers exclusively from
// the recorded bytes.
package replay
