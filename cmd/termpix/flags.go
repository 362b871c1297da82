// ABOUTME: CLI flag parsing using stdlib flag package
// ABOUTME: Supports --style, --width, --height, --repeat, --loop, --no-queries, --verbose, --version

package main

import "flag"

type cliArgs struct {
	style     string
	width     int
	height    int
	repeat    int
	loop      bool
	noQueries bool
	verbose   bool
	version   bool
}

func parseFlags() cliArgs {
	var args cliArgs

	flag.StringVar(&args.style, "style", "", "Render style (block, kitty, iterm2; default: auto-detect)")
	flag.IntVar(&args.width, "width", 0, "Output width in cells (default: fit terminal)")
	flag.IntVar(&args.height, "height", 0, "Output height in cells (default: fit terminal)")
	flag.IntVar(&args.repeat, "repeat", 1, "Play animations this many times")
	flag.BoolVar(&args.loop, "loop", false, "Loop animations until interrupted")
	flag.BoolVar(&args.noQueries, "no-queries", false, "Never write queries to the terminal")
	flag.BoolVar(&args.verbose, "verbose", false, "Enable debug logging")
	flag.BoolVar(&args.version, "version", false, "Show version and exit")

	flag.Parse()
	return args
}

// remaining returns the non-flag command-line arguments: image paths.
func (a cliArgs) remaining() []string {
	return flag.Args()
}
