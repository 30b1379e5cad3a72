// Command harvester is the CLI entry point for the crawl pipeline.
package main

import "github.com/corpuskit/harvester/cmd"

func main() {
	cmd.Execute()
}
