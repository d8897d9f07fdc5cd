// Package main is the entry point for the chessmetrics CLI tool, which reads
// per-game chess statistics CSVs and builds tournament and performance-rating
// datasets.
package main

import "github.com/pasek/chess-metrics/cmd"

func main() {
	cmd.Execute()
}
