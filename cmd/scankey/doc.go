// Package scankey provides the command-line interface for the scankey
// tool. It configures subcommands (scan, results, cache, providers,
// history), parses flags, and executes the selected command.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/AdvikSudM12/scan-key/cmd/scankey"
//	func main() { scankey.Execute() }
package scankey
