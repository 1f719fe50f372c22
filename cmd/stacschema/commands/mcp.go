package commands

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/erraggy/stacschema/internal/mcpserver"
)

// SetupMCPFlags creates and configures a FlagSet for the mcp command.
func SetupMCPFlags() *flag.FlagSet {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: stacschema mcp\n\n")
		Writef(fs.Output(), "Run stacschema as an MCP (Model Context Protocol) server over stdio.\n\n")
		Writef(fs.Output(), "The server exposes validate, detect_schema, and describe_schema tools.\n")
		Writef(fs.Output(), "Defaults are configured via STACSCHEMA_* environment variables; see the\n")
		Writef(fs.Output(), "server instructions reported to the client for the full list.\n")
	}

	return fs
}

// HandleMCP executes the mcp command, blocking until the client disconnects
// or the process receives an interrupt.
func HandleMCP(args []string) error {
	fs := SetupMCPFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return mcpserver.Run(ctx)
}
