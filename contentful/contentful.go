package contentful

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bestbytes/blog-mcp/service/vo"
	"github.com/machinebox/graphql"
)

// Limits enforced inside the query text itself, not by callers.
const (
	postLimit       = 1
	experienceLimit = 5
	variantLimit    = 10
)

var blogBySlugQuery = fmt.Sprintf(`
query BlogBySlug($slug: String!) {
  blogPostCollection(limit: %d, where: { slug: $slug }) {
    items {
      title
      body
      sideBar {
        sys { id }
        title
        content
        bodyContent {
          json
          links {
            entries {
              inline {
                sys { id }
                ... on NtMergetag {
                  ntFallback
                  ntMergetagId
                  ntName
                }
              }
            }
          }
        }
        nt_experiencesCollection: ntExperiencesCollection(limit: %d) {
          items {
            ... on NtExperience {
              sys { id }
              ntExperienceId
              ntName
              ntType
              ntConfig
              ntAudience {
                ntAudienceId
                ntName
              }
              ntVariantsCollection(limit: %d) {
                items {
                  sys { id }
                  title
                  content
                }
              }
            }
          }
        }
      }
    }
  }
}`, postLimit, experienceLimit, variantLimit)

// Executor runs the blog-by-slug composite query against the backing
// content source. It is the injected seam between the aggregation
// service and the CMS transport.
type Executor interface {
	BlogBySlug(ctx context.Context, slug string) (*BlogBySlugResponse, error)
}

type BlogBySlugResponse struct {
	BlogPostCollection RawBlogPostCollection `json:"blogPostCollection"`
}

type RawBlogPostCollection struct {
	Items []RawBlogPost `json:"items"`
}

type RawBlogPost struct {
	Title   string      `json:"title"`
	Body    string      `json:"body"`
	SideBar *RawSidebar `json:"sideBar"`
}

type RawSidebar struct {
	Sys         vo.Sys            `json:"sys"`
	Title       *string           `json:"title"`
	Content     *string           `json:"content"`
	BodyContent *vo.RichDocument  `json:"bodyContent"`
	Experiences RawExperienceList `json:"nt_experiencesCollection"`
}

type RawExperienceList struct {
	Items []RawExperience `json:"items"`
}

// RawExperience is one experimentation record as delivered by the
// content source. Interface types within the collection that are not
// experiences decode to the zero value and are dropped during
// normalization.
type RawExperience struct {
	Sys          vo.Sys         `json:"sys"`
	ExperienceID string         `json:"ntExperienceId"`
	Name         string         `json:"ntName"`
	Type         string         `json:"ntType"`
	Config       map[string]any `json:"ntConfig"`
	Audience     *RawAudience   `json:"ntAudience"`
	Variants     RawVariantList `json:"ntVariantsCollection"`
}

type RawAudience struct {
	AudienceID string `json:"ntAudienceId"`
	Name       string `json:"ntName"`
}

type RawVariantList struct {
	Items []RawVariant `json:"items"`
}

type RawVariant struct {
	Sys     vo.Sys  `json:"sys"`
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// EndpointURL builds the GraphQL endpoint for a space / environment
// pair on the hosted content API.
func EndpointURL(spaceID, environment string) string {
	if environment == "" {
		environment = "master"
	}
	return fmt.Sprintf("https://graphql.contentful.com/content/v1/spaces/%s/environments/%s", spaceID, environment)
}

// Client is the GraphQL-backed Executor.
type Client struct {
	gql   *graphql.Client
	token string
}

func NewClient(endpoint, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		gql:   graphql.NewClient(endpoint, graphql.WithHTTPClient(httpClient)),
		token: token,
	}
}

func (c *Client) BlogBySlug(ctx context.Context, slug string) (*BlogBySlugResponse, error) {
	req := graphql.NewRequest(blogBySlugQuery)
	req.Var("slug", slug)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	var response BlogBySlugResponse
	if err := c.gql.Run(ctx, req, &response); err != nil {
		return nil, err
	}
	return &response, nil
}
