package richtext

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/bestbytes/blog-mcp/service/vo"
	"golang.org/x/net/html"
)

// ToMarkdown converts a rendered HTML fragment into markdown for
// clients that want the sidebar as plain text. Merge-tag placeholder
// spans survive as their fallback text.
func ToMarkdown(fragment vo.HTML) (vo.Markdown, error) {
	doc, err := html.Parse(strings.NewReader(string(fragment)))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML fragment: %w", err)
	}

	markdownBytes, err := htmltomarkdown.ConvertNode(doc)
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to markdown: %w", err)
	}

	return vo.Markdown(markdownBytes), nil
}
