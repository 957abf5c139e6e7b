package service

import (
	"context"
	"errors"
	"html"

	"github.com/bestbytes/blog-mcp/contentful"
	"github.com/bestbytes/blog-mcp/experience"
	"github.com/bestbytes/blog-mcp/richtext"
	"github.com/bestbytes/blog-mcp/service/vo"
)

// ErrSlugRequired is returned when a caller passes an empty slug.
var ErrSlugRequired = errors.New("slug is required")

type Service interface {
	// GetBlogBySlug fetches the post, its sidebar and its experiences
	// in one round trip. Post == nil on the result means no post
	// matched the slug; transport errors propagate unchanged.
	GetBlogBySlug(ctx context.Context, slug string) (*vo.NormalizedBlog, error)
	// RenderSidebar fetches by slug and renders the sidebar body. It
	// returns nil without error when there is no post or no sidebar.
	RenderSidebar(ctx context.Context, slug string, opts *richtext.Options) (*vo.RenderedSidebar, error)
}

type service struct {
	executor contentful.Executor
}

func NewService(executor contentful.Executor) Service {
	return &service{executor: executor}
}

func (s *service) GetBlogBySlug(ctx context.Context, slug string) (*vo.NormalizedBlog, error) {
	if slug == "" {
		return nil, ErrSlugRequired
	}

	response, err := s.executor.BlogBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	items := response.BlogPostCollection.Items
	if len(items) == 0 {
		// No post for this slug is an ordinary outcome, not an error.
		return &vo.NormalizedBlog{Experiences: []vo.ExperienceConfig{}}, nil
	}
	// The query limits the collection to one item; if the slug is not
	// unique upstream, first match wins.
	item := items[0]

	blog := &vo.NormalizedBlog{
		Post: &vo.BlogPost{
			Title: item.Title,
			Body:  item.Body,
		},
		Experiences: []vo.ExperienceConfig{},
	}

	if item.SideBar != nil {
		blog.Sidebar = &vo.SidebarContent{
			ID:          item.SideBar.Sys.ID,
			Title:       item.SideBar.Title,
			Content:     item.SideBar.Content,
			BodyContent: item.SideBar.BodyContent,
		}
		blog.Experiences = experience.Map(item.SideBar.Experiences.Items)
	}

	return blog, nil
}

func (s *service) RenderSidebar(ctx context.Context, slug string, opts *richtext.Options) (*vo.RenderedSidebar, error) {
	blog, err := s.GetBlogBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if blog.Post == nil || blog.Sidebar == nil {
		return nil, nil
	}

	rendered := &vo.RenderedSidebar{ID: blog.Sidebar.ID}

	switch {
	case blog.Sidebar.BodyContent != nil:
		// The rich body wins over the plain content field.
		output, err := richtext.Render(blog.Sidebar.BodyContent, opts)
		if err != nil {
			return nil, err
		}
		rendered.HTML = output.HTML
		rendered.MergeTags = output.MergeTags
	case blog.Sidebar.Content != nil:
		rendered.HTML = vo.HTML("<p>" + html.EscapeString(*blog.Sidebar.Content) + "</p>")
	}

	markdown, err := richtext.ToMarkdown(rendered.HTML)
	if err != nil {
		return nil, err
	}
	rendered.Markdown = markdown

	return rendered, nil
}
