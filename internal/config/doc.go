// Package config loads, normalizes, and validates pairmerge configuration.
//
// It supplies repository defaults, reads an optional TOML file, and resolves
// the input and output directories against a base directory that defaults to
// the folder holding the executable rather than the caller's working
// directory. The Config type centralizes every knob a merge run needs so the
// CLI can layer flag overrides on top and re-validate in one place.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, canonical log formats, and clear validation errors.
package config
