package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bestbytes/blog-mcp/service"
	"github.com/bestbytes/blog-mcp/service/vo"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const Version = "0.0.1"

type GetBlogRequest struct {
	Slug string `json:"slug"` // The blog post slug to fetch
}

type GetBlogResponse struct {
	Blog *vo.NormalizedBlog `json:"blog"` // Post, sidebar and normalized experiences
}

type RenderSidebarRequest struct {
	Slug string `json:"slug"` // The blog post slug whose sidebar to render
}

type RenderSidebarResponse struct {
	Sidebar *vo.RenderedSidebar `json:"sidebar"` // Rendered sidebar with merge tags
}

// NewServer creates a new MCP server with the getBlogBySlug and renderSidebar tools
func NewServer(serviceInstance service.Service) *server.MCPServer {
	// Create a new MCP server
	s := server.NewMCPServer(
		"Blog Content MCP",
		Version,
		server.WithToolCapabilities(false),
	)

	// Create the getBlogBySlug tool
	getBlogTool := mcp.NewTool("getBlogBySlug",
		mcp.WithDescription("Fetch a blog post with its personalized sidebar and experience configuration"),
		mcp.WithString("slug",
			mcp.Required(),
			mcp.Description("The slug of the blog post to fetch"),
		),
	)
	s.AddTool(getBlogTool, mcp.NewTypedToolHandler(getBlogHandler(serviceInstance)))

	// Create the renderSidebar tool
	renderSidebarTool := mcp.NewTool("renderSidebar",
		mcp.WithDescription("Render the sidebar body of a blog post to HTML and markdown, resolving merge tags to placeholders"),
		mcp.WithString("slug",
			mcp.Required(),
			mcp.Description("The slug of the blog post whose sidebar to render"),
		),
	)
	s.AddTool(renderSidebarTool, mcp.NewTypedToolHandler(renderSidebarHandler(serviceInstance)))

	return s
}

// getBlogHandler is our typed handler function for the getBlogBySlug tool
func getBlogHandler(serviceInstance service.Service) func(ctx context.Context, request mcp.CallToolRequest, args GetBlogRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args GetBlogRequest) (*mcp.CallToolResult, error) {
		// Validate inputs
		if args.Slug == "" {
			return mcp.NewToolResultError("slug is required"), nil
		}

		// Call the service to aggregate the blog
		blog, err := serviceInstance.GetBlogBySlug(ctx, args.Slug)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to get blog: %v", err)), nil
		}
		if blog.Post == nil {
			return mcp.NewToolResultError(fmt.Sprintf("no blog post found for slug %q", args.Slug)), nil
		}

		// Create response
		response := GetBlogResponse{
			Blog: blog,
		}

		// Convert response to JSON
		responseBytes, err := json.Marshal(response)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
		}

		return mcp.NewToolResultText(string(responseBytes)), nil
	}
}

// renderSidebarHandler is our typed handler function for the renderSidebar tool
func renderSidebarHandler(serviceInstance service.Service) func(ctx context.Context, request mcp.CallToolRequest, args RenderSidebarRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args RenderSidebarRequest) (*mcp.CallToolResult, error) {
		// Validate inputs
		if args.Slug == "" {
			return mcp.NewToolResultError("slug is required"), nil
		}

		// Call the service to render the sidebar
		sidebar, err := serviceInstance.RenderSidebar(ctx, args.Slug, nil)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to render sidebar: %v", err)), nil
		}
		if sidebar == nil {
			return mcp.NewToolResultError(fmt.Sprintf("no sidebar found for slug %q", args.Slug)), nil
		}

		// Create response
		response := RenderSidebarResponse{
			Sidebar: sidebar,
		}

		// Convert response to JSON
		responseBytes, err := json.Marshal(response)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
		}

		return mcp.NewToolResultText(string(responseBytes)), nil
	}
}
