package main

import (
	"fmt"
	"os"

	"github.com/erraggy/stacschema"
	"github.com/erraggy/stacschema/cmd/stacschema/commands"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version", "-v", "--version":
		fmt.Printf("stacschema v%s\n", stacschema.Version())
	case "help", "-h", "--help":
		printUsage()
	case "validate":
		if err := commands.HandleValidate(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "detect":
		if err := commands.HandleDetect(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "describe":
		if err := commands.HandleDescribe(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "mcp":
		if err := commands.HandleMCP(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		if suggestion := suggestCommand(command); suggestion != "" {
			fmt.Fprintf(os.Stderr, "Did you mean '%s'?\n", suggestion)
		}
		fmt.Fprintln(os.Stderr)
		printUsage()
		os.Exit(1)
	}
}

var knownCommands = []string{"validate", "detect", "describe", "mcp", "version", "help"}

// suggestCommand returns the closest known command within edit distance 2,
// or an empty string when nothing is close enough.
func suggestCommand(input string) string {
	best := ""
	bestDistance := 3
	for _, candidate := range knownCommands {
		if d := editDistance(input, candidate); d < bestDistance {
			best = candidate
			bestDistance = d
		}
	}
	return best
}

// editDistance computes the Levenshtein distance between two strings.
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func printUsage() {
	fmt.Println(`stacschema - STAC JSON Schema validation tools

Usage:
  stacschema <command> [options]

Commands:
  validate    Validate a STAC document against its JSON Schema
  detect      Show which published schema a STAC document resolves to
  describe    Resolve a schema and report its $ref closure
  mcp         Run as an MCP server over stdio
  version     Show version information
  help        Show this help message

Examples:
  stacschema validate item.json
  stacschema validate --no-warnings https://example.com/collections/cs3/items/CS3-1.json
  stacschema validate --schema https://schemas.stacspec.org/v1.0.0/item-spec/json-schema/item.json item.json
  stacschema detect item.json
  stacschema describe https://schemas.stacspec.org/v1.0.0/item-spec/json-schema/item.json
  cat item.json | stacschema validate -q -

Run 'stacschema <command> --help' for more information on a command.`)
}
