package commands

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	json "github.com/goccy/go-json"
	yaml "go.yaml.in/yaml/v4"

	"github.com/erraggy/stacschema/validator"
)

// DetectFlags contains flags for the detect command
type DetectFlags struct {
	Format string
}

// SetupDetectFlags creates and configures a FlagSet for the detect command.
func SetupDetectFlags() (*flag.FlagSet, *DetectFlags) {
	fs := flag.NewFlagSet("detect", flag.ContinueOnError)
	flags := &DetectFlags{}

	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: stacschema detect <file|url|->\n\n")
		Writef(fs.Output(), "Show which published STAC schema a document resolves to, without validating.\n\n")
		Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		Writef(fs.Output(), "\nExamples:\n")
		Writef(fs.Output(), "  stacschema detect item.json\n")
		Writef(fs.Output(), "  stacschema detect --format json catalog.json | jq '.schema_uri'\n")
	}

	return fs, flags
}

// detectReport is the structured form of a detection run.
type detectReport struct {
	Document    string `json:"document"       yaml:"document"`
	SchemaURI   string `json:"schema_uri"     yaml:"schema_uri"`
	STACVersion string `json:"stac_version"   yaml:"stac_version"`
	Type        string `json:"type,omitempty" yaml:"type,omitempty"`
}

// HandleDetect executes the detect command
func HandleDetect(args []string) error {
	fs, flags := SetupDetectFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("detect command requires exactly one file path, URL, or '-' for stdin")
	}

	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	documentPath := fs.Arg(0)
	data, err := readDocument(ctx, documentPath)
	if err != nil {
		return fmt.Errorf("reading document: %w", err)
	}

	instance, err := decodeDocument(data)
	if err != nil {
		return err
	}

	uri, err := validator.SchemaURIFor(instance)
	if err != nil {
		return err
	}

	report := detectReport{Document: documentPath, SchemaURI: uri}
	if m, ok := instance.(map[string]any); ok {
		report.STACVersion, _ = m["stac_version"].(string)
		report.Type, _ = m["type"].(string)
	}

	if flags.Format != FormatText {
		return OutputStructured(os.Stdout, report, flags.Format)
	}

	Writef(os.Stdout, "Document: %s\n", report.Document)
	Writef(os.Stdout, "STAC Version: %s\n", report.STACVersion)
	if report.Type != "" {
		Writef(os.Stdout, "Type: %s\n", report.Type)
	}
	Writef(os.Stdout, "Schema: %s\n", report.SchemaURI)
	return nil
}

// decodeDocument parses raw bytes, sniffing JSON vs YAML by the first
// significant byte.
func decodeDocument(data []byte) (any, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("malformed JSON document: %w", err)
		}
		return v, nil
	}
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("malformed YAML document: %w", err)
	}
	return v, nil
}
