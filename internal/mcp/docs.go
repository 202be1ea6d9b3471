package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `pnaas tracks requests and the responses attached to them.

- submit_request {owner, desc} creates a project and returns its resid.
- retrieve_project {resid} returns the project with its responses and status.
- add_response {resid, response} attaches a response and returns the updated project.

Status is derived from the number of responses: Open (none), Responded (one), Updated (two or more).
See pnaas://docs/status for details.
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "pnaas://docs/status",
		Name:        "docs_status",
		Title:       "Project status rules",
		Description: "How a project's status and timestamps are derived.",
		Content: `# Project status

| responses | status    |
|-----------|-----------|
| 0         | Open      |
| 1         | Responded |
| 2+        | Updated   |

Status is never stored; it is computed on every retrieve.

Timestamps (` + "`created`" + `, response ` + "`date`" + `) are UTC and formatted ` + "`YYYY-MM-DD HH:MM:SS UTC`" + `.

Responses are listed oldest first. A project without responses has ` + "`responses: []`" + `.
`,
	},
	{
		URI:         "pnaas://docs/resid",
		Name:        "docs_resid",
		Title:       "Resource ids",
		Description: "Format of the resid returned by submit_request.",
		Content: `# resid

A resid is 32 lowercase hex characters, generated from a random UUID when the request is submitted.
It is the only handle on a project. Anything else passed as a resid is reported as not found.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
