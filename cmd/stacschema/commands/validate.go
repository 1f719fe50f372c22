package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/erraggy/stacschema"
	"github.com/erraggy/stacschema/validator"
)

// ValidateFlags contains flags for the validate command
type ValidateFlags struct {
	SchemaURI  string
	NoWarnings bool
	Quiet      bool
	Format     string
}

// SetupValidateFlags creates and configures a FlagSet for the validate command.
// Returns the FlagSet and a ValidateFlags struct with bound flag variables.
func SetupValidateFlags() (*flag.FlagSet, *ValidateFlags) {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	flags := &ValidateFlags{}

	fs.StringVar(&flags.SchemaURI, "schema", "", "validate against this schema URI instead of deriving one from stac_version and type")
	fs.BoolVar(&flags.NoWarnings, "no-warnings", false, "suppress warning messages (only show errors)")
	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: only output validation result, no diagnostic messages")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: only output validation result, no diagnostic messages")
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: stacschema validate [flags] <file|url|->\n\n")
		Writef(fs.Output(), "Validate a STAC document against the JSON Schema for the version it declares.\n\n")
		Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		Writef(fs.Output(), "\nOutput Formats:\n")
		Writef(fs.Output(), "  text (default)  Human-readable text output\n")
		Writef(fs.Output(), "  json            JSON format for programmatic processing\n")
		Writef(fs.Output(), "  yaml            YAML format for programmatic processing\n")
		Writef(fs.Output(), "\nExamples:\n")
		Writef(fs.Output(), "  stacschema validate item.json\n")
		Writef(fs.Output(), "  stacschema validate https://example.com/collections/cs3/items/CS3-1.json\n")
		Writef(fs.Output(), "  stacschema validate --no-warnings item.json\n")
		Writef(fs.Output(), "  cat item.json | stacschema validate -q -\n")
		Writef(fs.Output(), "  stacschema validate --format json item.json | jq '.valid'\n")
		Writef(fs.Output(), "\nExit Codes:\n")
		Writef(fs.Output(), "  0    Validation successful\n")
		Writef(fs.Output(), "  1    Validation failed with errors\n")
	}

	return fs, flags
}

// validateIssue is one reported finding in structured output.
type validateIssue struct {
	InstancePath string `json:"instance_path" yaml:"instance_path"`
	SchemaPath   string `json:"schema_path"   yaml:"schema_path"`
	Keyword      string `json:"keyword"       yaml:"keyword"`
	Message      string `json:"message"       yaml:"message"`
}

// validateReport is the structured form of a validation run.
type validateReport struct {
	Document        string          `json:"document"                yaml:"document"`
	SchemaURI       string          `json:"schema_uri"              yaml:"schema_uri"`
	Valid           bool            `json:"valid"                   yaml:"valid"`
	ErrorCount      int             `json:"error_count"             yaml:"error_count"`
	WarningCount    int             `json:"warning_count"           yaml:"warning_count"`
	SchemaDocuments int             `json:"schema_documents"        yaml:"schema_documents"`
	CompileTime     string          `json:"compile_time,omitempty"  yaml:"compile_time,omitempty"`
	ValidateTime    string          `json:"validate_time,omitempty" yaml:"validate_time,omitempty"`
	Errors          []validateIssue `json:"errors,omitempty"        yaml:"errors,omitempty"`
	Warnings        []validateIssue `json:"warnings,omitempty"      yaml:"warnings,omitempty"`
}

// buildValidateReport converts a validator result into the report form.
func buildValidateReport(document string, result *validator.Result, noWarnings bool) *validateReport {
	report := &validateReport{
		Document:        document,
		SchemaURI:       result.SchemaURI,
		Valid:           result.Valid,
		ErrorCount:      result.ErrorCount,
		SchemaDocuments: result.SchemaDocuments,
		CompileTime:     result.CompileTime.String(),
		ValidateTime:    result.ValidateTime.String(),
	}
	for _, e := range result.Errors {
		report.Errors = append(report.Errors, validateIssue{
			InstancePath: e.InstancePath,
			SchemaPath:   e.SchemaPath,
			Keyword:      e.Keyword,
			Message:      e.Message,
		})
	}
	if !noWarnings {
		report.WarningCount = result.WarningCount
		for _, w := range result.Warnings {
			report.Warnings = append(report.Warnings, validateIssue{
				InstancePath: w.InstancePath,
				SchemaPath:   w.SchemaPath,
				Keyword:      w.Keyword,
				Message:      w.Message,
			})
		}
	}
	return report
}

// renderValidateText writes the human-readable report.
func renderValidateText(w io.Writer, report *validateReport, quiet bool) {
	if !quiet {
		Writef(w, "STAC Schema Validator\n")
		Writef(w, "=====================\n\n")
		Writef(w, "stacschema version: %s\n", stacschema.Version())
		Writef(w, "Document: %s\n", report.Document)
		Writef(w, "Schema: %s\n", report.SchemaURI)
		Writef(w, "Schema Documents: %d\n", report.SchemaDocuments)
		Writef(w, "Compile Time: %s\n", report.CompileTime)
		Writef(w, "Validate Time: %s\n\n", report.ValidateTime)
	}

	if len(report.Errors) > 0 {
		Writef(w, "Errors (%d):\n", report.ErrorCount)
		for _, issue := range report.Errors {
			Writef(w, "  %s: %s [%s]\n", issue.InstancePath, issue.Message, issue.SchemaPath)
		}
		Writef(w, "\n")
	}
	if len(report.Warnings) > 0 {
		Writef(w, "Warnings (%d):\n", report.WarningCount)
		for _, issue := range report.Warnings {
			Writef(w, "  %s: %s [%s]\n", issue.InstancePath, issue.Message, issue.SchemaPath)
		}
		Writef(w, "\n")
	}

	if report.Valid {
		Writef(w, "✓ Validation passed")
		if report.WarningCount > 0 {
			Writef(w, " with %d warning(s)", report.WarningCount)
		}
		Writef(w, "\n")
	} else {
		Writef(w, "✗ Validation failed: %d error(s)", report.ErrorCount)
		if report.WarningCount > 0 {
			Writef(w, ", %d warning(s)", report.WarningCount)
		}
		Writef(w, "\n")
	}
}

// HandleValidate executes the validate command
func HandleValidate(args []string) error {
	fs, flags := SetupValidateFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("validate command requires exactly one file path, URL, or '-' for stdin")
	}

	documentPath := fs.Arg(0)

	// Validate format flag early to fail fast before any network access
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	data, err := readDocument(ctx, documentPath)
	if err != nil {
		return fmt.Errorf("reading document: %w", err)
	}

	opts := []validator.Option{
		validator.WithContext(ctx),
		validator.WithInstanceBytes(data),
	}
	if flags.SchemaURI != "" {
		opts = append(opts, validator.WithSchemaURI(flags.SchemaURI))
	}

	result, err := validator.ValidateWithOptions(opts...)
	if err != nil {
		return fmt.Errorf("validating document: %w", err)
	}

	report := buildValidateReport(documentPath, result, flags.NoWarnings)

	if flags.Format != FormatText {
		if err := OutputStructured(os.Stdout, report, flags.Format); err != nil {
			return err
		}
	} else {
		renderValidateText(os.Stdout, report, flags.Quiet)
	}

	if !report.Valid {
		os.Exit(1)
	}
	return nil
}
