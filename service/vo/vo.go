package vo

import "encoding/json"

type Markdown string

type HTML string

type Sys struct {
	ID string `json:"id"` // Entry identifier assigned by the content source
}

type BlogPost struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// InlineEntry is a side-loaded record resolving a reference embedded
// inside a rich-text document's node tree. Merge-tag entries carry the
// nt* fields, plain entries only their sys id.
type InlineEntry struct {
	Sys        Sys    `json:"sys"`
	MergetagID string `json:"ntMergetagId,omitempty"`
	Fallback   string `json:"ntFallback,omitempty"`
	Name       string `json:"ntName,omitempty"`
}

type LinkedEntries struct {
	Inline []InlineEntry `json:"inline"`
}

type Links struct {
	Entries LinkedEntries `json:"entries"`
}

// RichDocument carries the raw rich-text node tree plus the link table
// used to resolve embedded entry references.
type RichDocument struct {
	JSON  json.RawMessage `json:"json"`
	Links Links           `json:"links"`
}

type SidebarContent struct {
	ID          string        `json:"id"`
	Title       *string       `json:"title"`
	Content     *string       `json:"content"`
	BodyContent *RichDocument `json:"bodyContent"` // Wins over Content for display when present
}

type Audience struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type VariantRef struct {
	ID      string  `json:"id"`
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

// ExperienceConfig is the normalized form of one experimentation /
// personalization unit. Audience stays absent (not null) when the raw
// record has no audience sub-object.
type ExperienceConfig struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Type     string         `json:"type"`
	Config   map[string]any `json:"config"`
	Audience *Audience      `json:"audience,omitempty"`
	Variants []VariantRef   `json:"variants"`
}

// NormalizedBlog is the aggregate returned per fetch. Post == nil
// signals "not found" to the caller.
type NormalizedBlog struct {
	Post        *BlogPost          `json:"post"`
	Sidebar     *SidebarContent    `json:"sidebar"`
	Experiences []ExperienceConfig `json:"experiences"`
}

type MergeTag struct {
	Key      string `json:"key"`      // Namespaced trait key, e.g. "traits.level"
	Fallback string `json:"fallback"` // Static display value when the trait is unset
}

// RenderedSidebar is the render-time view of a sidebar body: the HTML
// fragment, its markdown rendition and the merge tags found in it.
type RenderedSidebar struct {
	ID        string     `json:"id"`
	HTML      HTML       `json:"html"`
	Markdown  Markdown   `json:"markdown"`
	MergeTags []MergeTag `json:"mergeTags,omitempty"`
}
