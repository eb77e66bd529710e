package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// indexStatusURI is the resource describing the startup index build.
const indexStatusURI = "resume://index/status"

// indexStatus is the JSON shape of the index status resource.
type indexStatus struct {
	State  string `json:"state"`
	Files  int    `json:"files"`
	Chunks int    `json:"chunks"`
	Reason string `json:"reason,omitempty"`
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         indexStatusURI,
		Name:        "index-status",
		Description: "State of the vector index built at startup",
		MIMEType:    "application/json",
	}, s.handleIndexStatus)
}

// handleIndexStatus returns the startup index report.
func (s *Server) handleIndexStatus(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	text, err := s.indexStatusJSON()
	if err != nil {
		return nil, err
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     text,
		}},
	}, nil
}

// indexStatusJSON renders the report, or "{}" when none was provided.
func (s *Server) indexStatusJSON() (string, error) {
	report := s.ports.Report
	if report == nil {
		return "{}", nil
	}

	status := indexStatus{
		State:  report.State.String(),
		Files:  report.Files,
		Chunks: report.Chunks,
	}
	if report.Reason != nil {
		status.Reason = report.Reason.Error()
	}

	data, err := json.Marshal(status)
	if err != nil {
		return "", fmt.Errorf("encoding index status: %w", err)
	}
	return string(data), nil
}
