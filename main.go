// Package main is the entry point for the bts CLI.
package main

import "bts.dev/pkg/bts/cmd"

func main() {
	cmd.Execute()
}
