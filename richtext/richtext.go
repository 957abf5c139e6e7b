// Package richtext renders rich-text documents from the content
// source into HTML fragments, resolving embedded entry references
// against the document's link table and replacing merge-tag entries
// with personalization placeholders.
package richtext

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/bestbytes/blog-mcp/service/vo"
)

// Node types of the rich-text tree.
const (
	NodeDocument            = "document"
	NodeParagraph           = "paragraph"
	NodeHeading1            = "heading-1"
	NodeHeading2            = "heading-2"
	NodeHeading3            = "heading-3"
	NodeHeading4            = "heading-4"
	NodeHeading5            = "heading-5"
	NodeHeading6            = "heading-6"
	NodeUnorderedList       = "unordered-list"
	NodeOrderedList         = "ordered-list"
	NodeListItem            = "list-item"
	NodeBlockquote          = "blockquote"
	NodeHr                  = "hr"
	NodeHyperlink           = "hyperlink"
	NodeEmbeddedEntryInline = "embedded-entry-inline"
	NodeText                = "text"
)

// Mark types on text nodes.
const (
	MarkBold      = "bold"
	MarkItalic    = "italic"
	MarkUnderline = "underline"
	MarkCode      = "code"
)

type Node struct {
	NodeType string   `json:"nodeType"`
	Value    string   `json:"value,omitempty"`
	Marks    []Mark   `json:"marks,omitempty"`
	Data     NodeData `json:"data,omitempty"`
	Content  []Node   `json:"content,omitempty"`
}

type Mark struct {
	Type string `json:"type"`
}

type NodeData struct {
	URI    string  `json:"uri,omitempty"`
	Target *Target `json:"target,omitempty"`
}

type Target struct {
	Sys vo.Sys `json:"sys"`
}

// NodeRenderer renders one node into the context buffer.
type NodeRenderer func(rc *Context, n *Node) error

// Options carries caller-supplied per-node-type handlers. They are
// layered over the built-in table and win for the node types they
// name, including the embedded-entry interception when named
// explicitly.
type Options struct {
	RenderNode map[string]NodeRenderer
}

// Rendered is the output of one render pass.
type Rendered struct {
	HTML      vo.HTML
	MergeTags []vo.MergeTag
}

// Context is passed to node renderers. It owns the output buffer, the
// inline-entry lookup and the merge tags collected so far.
type Context struct {
	buf       strings.Builder
	links     *InlineIndex
	handlers  map[string]NodeRenderer
	mergeTags []vo.MergeTag
}

// Render walks the document tree and produces an HTML fragment. A nil
// document renders to nil without error. The render is a pure
// function of its inputs, safe to call repeatedly and concurrently.
func Render(doc *vo.RichDocument, opts *Options) (*Rendered, error) {
	if doc == nil {
		return nil, nil
	}

	var root Node
	if err := json.Unmarshal(doc.JSON, &root); err != nil {
		return nil, fmt.Errorf("failed to parse rich text document: %w", err)
	}

	rc := &Context{
		links:    NewInlineIndex(doc.Links.Entries.Inline),
		handlers: buildHandlers(opts),
	}
	if err := rc.Render(&root); err != nil {
		return nil, err
	}

	return &Rendered{
		HTML:      vo.HTML(rc.buf.String()),
		MergeTags: rc.mergeTags,
	}, nil
}

// buildHandlers layers the dispatch table: generic defaults first,
// then the merge-tag interception, then caller overrides on top.
func buildHandlers(opts *Options) map[string]NodeRenderer {
	handlers := defaultHandlers()
	handlers[NodeEmbeddedEntryInline] = renderEmbeddedEntry
	if opts != nil {
		for nodeType, handler := range opts.RenderNode {
			handlers[nodeType] = handler
		}
	}
	return handlers
}

func defaultHandlers() map[string]NodeRenderer {
	return map[string]NodeRenderer{
		NodeDocument:      RenderChildren,
		NodeParagraph:     wrap("p"),
		NodeHeading1:      wrap("h1"),
		NodeHeading2:      wrap("h2"),
		NodeHeading3:      wrap("h3"),
		NodeHeading4:      wrap("h4"),
		NodeHeading5:      wrap("h5"),
		NodeHeading6:      wrap("h6"),
		NodeUnorderedList: wrap("ul"),
		NodeOrderedList:   wrap("ol"),
		NodeListItem:      wrap("li"),
		NodeBlockquote:    wrap("blockquote"),
		NodeHr:            renderHr,
		NodeHyperlink:     renderHyperlink,
		NodeText:          renderText,
	}
}

// Render dispatches a single node. Node types without a handler fall
// through to their children, so unknown block types degrade to their
// contents instead of failing.
func (rc *Context) Render(n *Node) error {
	if handler, ok := rc.handlers[n.NodeType]; ok {
		return handler(rc, n)
	}
	return RenderChildren(rc, n)
}

// RenderChildren renders the content of a node in order.
func RenderChildren(rc *Context, n *Node) error {
	for i := range n.Content {
		if err := rc.Render(&n.Content[i]); err != nil {
			return err
		}
	}
	return nil
}

// WriteString appends raw HTML to the output buffer. Callers are
// responsible for escaping text values.
func (rc *Context) WriteString(s string) {
	rc.buf.WriteString(s)
}

// Links exposes the inline-entry lookup built from the document's
// link table.
func (rc *Context) Links() *InlineIndex {
	return rc.links
}

// EmitMergeTag writes a personalization placeholder and records it.
// The personalization layer substitutes the trait value client side,
// the fallback is what renders when the trait is unset.
func (rc *Context) EmitMergeTag(key, fallback string) {
	rc.buf.WriteString(`<span data-nt-merge-tag="`)
	rc.buf.WriteString(html.EscapeString(key))
	rc.buf.WriteString(`">`)
	rc.buf.WriteString(html.EscapeString(fallback))
	rc.buf.WriteString(`</span>`)
	rc.mergeTags = append(rc.mergeTags, vo.MergeTag{Key: key, Fallback: fallback})
}

func wrap(tag string) NodeRenderer {
	return func(rc *Context, n *Node) error {
		rc.buf.WriteString("<" + tag + ">")
		if err := RenderChildren(rc, n); err != nil {
			return err
		}
		rc.buf.WriteString("</" + tag + ">")
		return nil
	}
}

func renderHr(rc *Context, _ *Node) error {
	rc.buf.WriteString("<hr/>")
	return nil
}

func renderHyperlink(rc *Context, n *Node) error {
	rc.buf.WriteString(`<a href="`)
	rc.buf.WriteString(html.EscapeString(n.Data.URI))
	rc.buf.WriteString(`">`)
	if err := RenderChildren(rc, n); err != nil {
		return err
	}
	rc.buf.WriteString("</a>")
	return nil
}

func renderText(rc *Context, n *Node) error {
	opening, closing := markTags(n.Marks)
	rc.buf.WriteString(opening)
	rc.buf.WriteString(html.EscapeString(n.Value))
	rc.buf.WriteString(closing)
	return nil
}

func markTags(marks []Mark) (string, string) {
	var opening, closing string
	for _, mark := range marks {
		var tag string
		switch mark.Type {
		case MarkBold:
			tag = "strong"
		case MarkItalic:
			tag = "em"
		case MarkUnderline:
			tag = "u"
		case MarkCode:
			tag = "code"
		default:
			continue
		}
		opening = opening + "<" + tag + ">"
		closing = "</" + tag + ">" + closing
	}
	return opening, closing
}

// renderEmbeddedEntry intercepts embedded-entry-inline nodes. An
// unresolved target, or one that is not a merge-tag entry, renders as
// nothing.
func renderEmbeddedEntry(rc *Context, n *Node) error {
	if n.Data.Target == nil {
		return nil
	}
	linked, ok := rc.links.Get(n.Data.Target.Sys.ID)
	if !ok || linked.MergetagID == "" {
		return nil
	}
	rc.EmitMergeTag("traits."+linked.MergetagID, linked.Fallback)
	return nil
}
