package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(mcp.NewPrompt("compose_page",
		mcp.WithPromptDescription("Guide through composing a page from catalog components on the canvas"),
		mcp.WithArgument("page",
			mcp.ArgumentDescription("What the page is for, e.g. a SaaS landing page"),
			mcp.RequiredArgument(),
		),
		mcp.WithArgument("viewport",
			mcp.ArgumentDescription("mobile, tablet or desktop (default desktop)"),
		),
	), s.handleComposePagePrompt)

	s.mcp.AddPrompt(mcp.NewPrompt("restyle_canvas",
		mcp.WithPromptDescription("Apply one color palette to every instance on the canvas"),
		mcp.WithArgument("primaryColor",
			mcp.ArgumentDescription("Hex color, e.g. #6366f1"),
			mcp.RequiredArgument(),
		),
		mcp.WithArgument("secondaryColor",
			mcp.ArgumentDescription("Hex color, e.g. #ec4899"),
			mcp.RequiredArgument(),
		),
	), s.handleRestylePrompt)
}

func (s *Server) handleComposePagePrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	page := req.Params.Arguments["page"]
	viewport := req.Params.Arguments["viewport"]
	if viewport == "" {
		viewport = "desktop"
	}
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Compose: %s", page),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Compose "%s" on the design canvas. Follow these steps:

1. Call set_viewport with "%s"
2. Use list_catalog to pick a hero, the content components and a call to action
3. Place them top to bottom with place_component; pass x and y so the hero spans the top
4. Tune each instance with update_style (colors, radius, animation) so they match
5. Call export_prompt without arguments and return the result

Keep every instance inside the viewport and avoid overlaps unless they are intentional.`, page, viewport),
				},
			},
		},
	}, nil
}

func (s *Server) handleRestylePrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	primary := req.Params.Arguments["primaryColor"]
	secondary := req.Params.Arguments["secondaryColor"]
	return &mcp.GetPromptResult{
		Description: "Restyle every instance",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Restyle the canvas. Call list_instances, then for each unlocked instance call update_style with
{"primaryColor":"%s","secondaryColor":"%s"}. Skip locked instances and report which ones you skipped.`, primary, secondary),
				},
			},
		},
	}, nil
}
