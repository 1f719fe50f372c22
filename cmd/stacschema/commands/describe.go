package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/erraggy/stacschema/schema"
)

// DescribeFlags contains flags for the describe command
type DescribeFlags struct {
	Format      string
	MaxRefDepth int
}

// SetupDescribeFlags creates and configures a FlagSet for the describe command.
func SetupDescribeFlags() (*flag.FlagSet, *DescribeFlags) {
	fs := flag.NewFlagSet("describe", flag.ContinueOnError)
	flags := &DescribeFlags{}

	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")
	fs.IntVar(&flags.MaxRefDepth, "max-ref-depth", schema.MaxRefDepth, "maximum $ref chain depth during resolution")

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: stacschema describe [flags] <schema-uri>\n\n")
		Writef(fs.Output(), "Resolve a JSON Schema and report every schema file reachable through $ref.\n\n")
		Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		Writef(fs.Output(), "\nExamples:\n")
		Writef(fs.Output(), "  stacschema describe https://schemas.stacspec.org/v1.0.0/item-spec/json-schema/item.json\n")
		Writef(fs.Output(), "  stacschema describe --format json https://schemas.stacspec.org/v1.0.0/collection-spec/json-schema/collection.json\n")
	}

	return fs, flags
}

// describeReport is the structured form of a describe run.
type describeReport struct {
	SchemaURI   string   `json:"schema_uri"   yaml:"schema_uri"`
	Documents   int      `json:"documents"    yaml:"documents"`
	URIs        []string `json:"uris"         yaml:"uris"`
	CompileTime string   `json:"compile_time" yaml:"compile_time"`
}

// HandleDescribe executes the describe command
func HandleDescribe(args []string) error {
	fs, flags := SetupDescribeFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("describe command requires exactly one schema URI")
	}

	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	session, err := schema.NewSession(schema.WithMaxRefDepth(flags.MaxRefDepth))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	schemaURI := fs.Arg(0)
	started := time.Now()
	if _, err := session.Compile(ctx, schemaURI); err != nil {
		return fmt.Errorf("resolving schema: %w", err)
	}

	report := describeReport{
		SchemaURI:   schemaURI,
		Documents:   session.DocumentCount(),
		URIs:        session.Cache().URIs(),
		CompileTime: time.Since(started).String(),
	}

	if flags.Format != FormatText {
		return OutputStructured(os.Stdout, report, flags.Format)
	}

	Writef(os.Stdout, "Schema: %s\n", report.SchemaURI)
	Writef(os.Stdout, "Documents: %d\n", report.Documents)
	Writef(os.Stdout, "Compile Time: %s\n\n", report.CompileTime)
	Writef(os.Stdout, "Reference closure:\n")
	for _, uri := range report.URIs {
		Writef(os.Stdout, "  %s\n", uri)
	}
	return nil
}
