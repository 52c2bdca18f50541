// Package main hosts the pairmerge CLI.
//
// The root command runs a merge pass; subcommands scaffold and check the
// configuration and report whether the external tools a run needs are
// present. All real work lives in the internal packages.
package main
