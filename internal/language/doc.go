// Package language normalizes the language codes used by subtitle filters
// and playlist metadata to primary ISO 639-1 codes.
package language
