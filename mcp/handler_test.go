package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/bestbytes/blog-mcp/richtext"
	"github.com/bestbytes/blog-mcp/service/vo"
	"github.com/mark3labs/mcp-go/mcp"
)

type fakeService struct {
	blog    *vo.NormalizedBlog
	sidebar *vo.RenderedSidebar
	err     error
}

func (f *fakeService) GetBlogBySlug(ctx context.Context, slug string) (*vo.NormalizedBlog, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.blog, nil
}

func (f *fakeService) RenderSidebar(ctx context.Context, slug string, opts *richtext.Options) (*vo.RenderedSidebar, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.sidebar, nil
}

func TestNewServer(t *testing.T) {
	// Test that we can create a server
	server := NewServer(&fakeService{})
	if server == nil {
		t.Fatal("NewServer() returned nil")
	}
}

func TestGetBlogHandler(t *testing.T) {
	args := GetBlogRequest{Slug: "my-post"}
	request := mcp.CallToolRequest{
		Request: mcp.Request{
			Method: "tools/call",
		},
		Params: mcp.CallToolParams{
			Name:      "getBlogBySlug",
			Arguments: args,
		},
	}

	handler := getBlogHandler(&fakeService{
		blog: &vo.NormalizedBlog{
			Post:        &vo.BlogPost{Title: "T", Body: "B"},
			Experiences: []vo.ExperienceConfig{},
		},
	})

	result, err := handler(context.Background(), request, args)
	if err != nil {
		t.Fatalf("getBlogHandler returned error: %v", err)
	}
	if result == nil {
		t.Fatal("getBlogHandler returned nil result")
	}
	if result.IsError {
		t.Fatal("getBlogHandler returned error result")
	}
	if len(result.Content) == 0 {
		t.Fatal("getBlogHandler returned no content")
	}
}

func TestGetBlogHandlerValidation(t *testing.T) {
	// Test validation for missing slug
	args := GetBlogRequest{Slug: ""}
	request := mcp.CallToolRequest{
		Request: mcp.Request{
			Method: "tools/call",
		},
		Params: mcp.CallToolParams{
			Name:      "getBlogBySlug",
			Arguments: args,
		},
	}

	handler := getBlogHandler(&fakeService{})
	result, err := handler(context.Background(), request, args)
	if err != nil {
		t.Fatalf("getBlogHandler returned error: %v", err)
	}
	if result == nil {
		t.Fatal("getBlogHandler returned nil result")
	}

	// Should return an error result
	if !result.IsError {
		t.Fatal("Expected error result for missing slug")
	}
}

func TestGetBlogHandlerNotFound(t *testing.T) {
	args := GetBlogRequest{Slug: "missing"}
	request := mcp.CallToolRequest{
		Request: mcp.Request{
			Method: "tools/call",
		},
		Params: mcp.CallToolParams{
			Name:      "getBlogBySlug",
			Arguments: args,
		},
	}

	// Post == nil on the aggregate means "not found"
	handler := getBlogHandler(&fakeService{
		blog: &vo.NormalizedBlog{Experiences: []vo.ExperienceConfig{}},
	})
	result, err := handler(context.Background(), request, args)
	if err != nil {
		t.Fatalf("getBlogHandler returned error: %v", err)
	}
	if !result.IsError {
		t.Fatal("Expected error result for missing post")
	}
}

func TestRenderSidebarHandler(t *testing.T) {
	args := RenderSidebarRequest{Slug: "my-post"}
	request := mcp.CallToolRequest{
		Request: mcp.Request{
			Method: "tools/call",
		},
		Params: mcp.CallToolParams{
			Name:      "renderSidebar",
			Arguments: args,
		},
	}

	handler := renderSidebarHandler(&fakeService{
		sidebar: &vo.RenderedSidebar{
			ID:        "sb-1",
			HTML:      vo.HTML(`<p>Hello <span data-nt-merge-tag="traits.level">beginner</span></p>`),
			Markdown:  vo.Markdown("Hello beginner"),
			MergeTags: []vo.MergeTag{{Key: "traits.level", Fallback: "beginner"}},
		},
	})

	result, err := handler(context.Background(), request, args)
	if err != nil {
		t.Fatalf("renderSidebarHandler returned error: %v", err)
	}
	if result.IsError {
		t.Fatal("renderSidebarHandler returned error result")
	}

	textContent, ok := mcp.AsTextContent(result.Content[0])
	if !ok {
		t.Fatal("Expected text content")
	}
	if !strings.Contains(textContent.Text, "traits.level") {
		t.Fatalf("Expected merge tag key in response, got: %s", textContent.Text)
	}
}

func TestGetBlogRequestMarshal(t *testing.T) {
	// Test that GetBlogRequest can be marshaled to JSON
	req := GetBlogRequest{Slug: "my-post"}

	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("Failed to marshal GetBlogRequest: %v", err)
	}

	if len(data) == 0 {
		t.Fatal("Marshaled data is empty")
	}
}
