// Package cmd implements the command-line interface of dPrefs.
//
// The package is organized into several subpackages:
//
//   - pref: Commands to inspect and edit the entries of a suite (get, set, del, keys, dump, ...)
//   - util: Shared utilities for command-line processing and opening suites (internal use)
//
// See dprefs -help for a list of all commands.
package cmd
