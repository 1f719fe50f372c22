// Package commands provides CLI command handlers for stacschema.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	json "github.com/goccy/go-json"
	yaml "go.yaml.in/yaml/v4"

	"github.com/erraggy/stacschema/schema"
)

// Output format constants
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// StdinFilePath is the special file path used to indicate reading from stdin.
const StdinFilePath = "-"

// ValidateOutputFormat validates an output format and returns an error if invalid.
func ValidateOutputFormat(format string) error {
	if format != FormatText && format != FormatJSON && format != FormatYAML {
		return fmt.Errorf("invalid format '%s'. Valid formats: %s, %s, %s", format, FormatText, FormatJSON, FormatYAML)
	}
	return nil
}

// OutputStructured outputs data in the specified format (json or yaml) to w.
func OutputStructured(w io.Writer, data any, format string) error {
	var out []byte
	var err error

	switch format {
	case FormatJSON:
		out, err = json.MarshalIndent(data, "", "  ")
	case FormatYAML:
		out, err = yaml.Marshal(data)
	default:
		return fmt.Errorf("invalid format for structured output: %s", format)
	}

	if err != nil {
		return fmt.Errorf("marshaling to %s: %w", format, err)
	}

	_, _ = fmt.Fprintln(w, string(out))
	return nil
}

// Writef writes formatted output, ignoring write errors. Intended for usage
// text and report rendering where a failed write has no recovery.
func Writef(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}

// isURL reports whether the argument names a remote document.
func isURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// readDocument loads raw document bytes from a file path, URL, or stdin.
func readDocument(ctx context.Context, path string) ([]byte, error) {
	switch {
	case path == StdinFilePath:
		return io.ReadAll(os.Stdin)
	case isURL(path):
		return schema.NewHTTPFetcher().Fetch(ctx, path)
	default:
		return os.ReadFile(path)
	}
}
