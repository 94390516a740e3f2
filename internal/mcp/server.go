package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

type Server struct {
	data Querier
	mcp  *sdk.Server
}

func NewServer(data Querier, version string) *Server {
	s := &Server{
		data: data,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "rootforge",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	return s.mcp.Run(ctx, transport)
}
