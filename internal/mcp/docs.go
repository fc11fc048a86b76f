package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `LetzCode coordinates shared projects with a single-holder checkout lock.

Core concepts:
- Project: owned by one account, edited by its members. Status is "checked-in" or "checked-out".
- Lock: check_out_project gives you exclusive edit rights; only you can check_in_project afterwards.
- Check-in: requires a message, may bump the version and attach file metadata; it is recorded in the project history.
- Activity feed: every check-out, check-in, create, update and delete is recorded.

Default workflow:
1) list_projects (mine=true) to find work.
2) get_project to see status, members and history.
3) check_out_project before editing. If it reports ALREADY_CHECKED_OUT, wait for the holder.
4) check_in_project with a message when done.

Docs:
- letzcode://docs/checkout
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
		URI:         "letzcode://docs/checkout",
		Name:        "docs_checkout",
		Title:       "Checkout lifecycle",
		Description: "Lock rules for check-out and check-in, and the errors each step can return.",
		Content: `# Checkout lifecycle

## States

- ` + "`checked-in`" + `: no holder. Any member may check the project out.
- ` + "`checked-out`" + `: exactly one member holds the lock.

## Rules

- Only members may check out. Checking out a project you already hold fails with ALREADY_CHECKED_OUT.
- Only the holder may check in. A check-in needs a non-empty message.
- The version is replaced when a check-in supplies one; otherwise it is kept.
- Files attached during check-in are added to the project and to that history entry.
- Adding files outside a check-in does not require the lock.

## Errors

| Code | Meaning |
|---|---|
| PROJECT_NOT_FOUND | Unknown project id |
| NOT_A_MEMBER | You are not in the member set |
| ALREADY_CHECKED_OUT | Someone, possibly you, holds the lock |
| NOT_CHECKED_OUT | Nothing to check in |
| NOT_LOCK_HOLDER | Another member holds the lock |
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
