package main

import (
	"context"

	"github.com/spf13/cobra"

	"rootforge/internal/mcp"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server over stdio",
		RunE:  runServe,
	}
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	p, err := openProject()
	if err != nil {
		return err
	}
	idx, result, err := p.load(ctx, true)
	if err != nil {
		return err
	}
	for _, f := range result.Failed() {
		p.logger.Warn("source file failed to load", "path", f.Path, "error", f.Err)
	}

	server := mcp.NewServer(mcp.IndexQuerier(idx), version)
	return server.Run(ctx, &sdk.StdioTransport{})
}
