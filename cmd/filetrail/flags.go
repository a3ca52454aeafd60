package main

import (
	"flag"
	"strconv"
	"strings"
)

// cliFlags holds the parsed command-line arguments.
type cliFlags struct {
	configFile string
	root       string
	mode       string
	recordID   int64
	recordIDs  []int64
	filePath   string
	limit      int
}

// parseFlags parses the command line, consolidating alias flags.
func parseFlags() (*cliFlags, error) {
	configFile := flag.String("config", "", "Path to the YAML/JSON configuration file. If not set, searches default locations.")
	configFileAlias := flag.String("c", "", "Alias for -config")

	root := flag.String("root", ".", "Workspace root to track.")
	rootAlias := flag.String("r", "", "Alias for -root")

	mode := flag.String("mode", "", "Mode to run: watch, history, rollback, restore, prune, or clear")
	modeAlias := flag.String("m", "", "Alias for -mode")

	id := flag.Int64("id", 0, "Record ID for rollback/restore.")
	ids := flag.String("ids", "", "Comma-separated record IDs for batch rollback.")
	filePath := flag.String("file", "", "Restrict history listing to one file path.")
	limit := flag.Int("limit", 20, "Maximum number of history entries to list.")

	flag.Parse()

	if *configFile == "" && *configFileAlias != "" {
		*configFile = *configFileAlias
	}
	if *rootAlias != "" {
		*root = *rootAlias
	}
	if *mode == "" && *modeAlias != "" {
		*mode = *modeAlias
	}

	flags := &cliFlags{
		configFile: *configFile,
		root:       *root,
		mode:       *mode,
		recordID:   *id,
		filePath:   *filePath,
		limit:      *limit,
	}

	if *ids != "" {
		for _, part := range strings.Split(*ids, ",") {
			parsed, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				return nil, err
			}
			flags.recordIDs = append(flags.recordIDs, parsed)
		}
	}

	return flags, nil
}
