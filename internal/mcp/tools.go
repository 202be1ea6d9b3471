package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/pnaas/internal/domain/project"
)

type SubmitRequestInput struct {
	Owner string `json:"owner" jsonschema:"who is asking; may be empty"`
	Desc  string `json:"desc" jsonschema:"what the request is about; may be empty"`
}

type SubmitRequestOutput struct {
	ResID string `json:"resid" jsonschema:"32 character lowercase hex id used to retrieve the project"`
}

type RetrieveProjectInput struct {
	ResID string `json:"resid" jsonschema:"project id returned by submit_request"`
}

type AddResponseInput struct {
	ResID    string `json:"resid" jsonschema:"project id returned by submit_request"`
	Response string `json:"response" jsonschema:"response text to attach"`
}

// ErrNotFound is the tool error reported for an unknown resid.
var ErrNotFound = errors.New("project not found")

func registerTools(server *sdkmcp.Server, projects ProjectService) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "submit_request",
		Description: "Submit a new request and get back its resid",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in SubmitRequestInput) (*sdkmcp.CallToolResult, SubmitRequestOutput, error) {
		proj, err := projects.Submit(ctx, project.SubmitRequest{
			Owner: in.Owner,
			Desc:  in.Desc,
			IP:    project.LocalIP,
		})
		if err != nil {
			return nil, SubmitRequestOutput{}, mapError(err)
		}
		return textResult(proj.ResID), SubmitRequestOutput{ResID: proj.ResID}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "retrieve_project",
		Description: "Get a project with its responses and status (Open, Responded, Updated)",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in RetrieveProjectInput) (*sdkmcp.CallToolResult, project.Document, error) {
		doc, err := projects.Retrieve(ctx, in.ResID)
		if err != nil {
			return nil, project.Document{}, mapError(err)
		}
		return documentResult(doc)
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "add_response",
		Description: "Attach a response to a project and return the updated project",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in AddResponseInput) (*sdkmcp.CallToolResult, project.Document, error) {
		doc, err := projects.Respond(ctx, in.ResID, in.Response)
		if err != nil {
			return nil, project.Document{}, mapError(err)
		}
		return documentResult(doc)
	})
}

func documentResult(doc *project.Document) (*sdkmcp.CallToolResult, project.Document, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, project.Document{}, fmt.Errorf("encode project: %w", err)
	}
	return textResult(string(data)), *doc, nil
}

func textResult(text string) *sdkmcp.CallToolResult {
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: text}},
	}
}

// mapError hides store details from clients.
func mapError(err error) error {
	if errors.Is(err, project.ErrProjectNotFound) {
		return ErrNotFound
	}
	return errors.New("internal error")
}
