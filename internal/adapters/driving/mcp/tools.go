package mcp

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/resume-assistant/internal/core/domain"
)

// ToolAskResume is the name of the question answering tool.
const ToolAskResume = "ask_resume"

// AskInput is the input schema for the ask_resume tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the resume material"`
}

// AskOutput is the output schema for the ask_resume tool.
type AskOutput struct {
	Answer string `json:"answer"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolAskResume,
		Description: "Answer a question about the candidate using the indexed resume material",
	}, s.handleAsk)
}

// handleAsk handles the ask_resume tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	if strings.TrimSpace(input.Question) == "" {
		return nil, AskOutput{}, domain.ErrInvalidInput
	}

	answer, err := s.ports.Answer.Answer(ctx, input.Question)
	if err != nil {
		return nil, AskOutput{}, err
	}

	return nil, AskOutput{Answer: answer.Result}, nil
}
