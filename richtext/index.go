package richtext

import "github.com/bestbytes/blog-mcp/service/vo"

// InlineIndex is the id lookup over a document's side-loaded inline
// entries. Construction is O(n), lookups O(1). A later entry with a
// duplicate id overwrites the earlier one.
type InlineIndex struct {
	byID map[string]vo.InlineEntry
}

// NewInlineIndex builds the lookup. A nil or empty entry list yields
// an always-miss index, never an error.
func NewInlineIndex(entries []vo.InlineEntry) *InlineIndex {
	byID := make(map[string]vo.InlineEntry, len(entries))
	for _, entry := range entries {
		byID[entry.Sys.ID] = entry
	}
	return &InlineIndex{byID: byID}
}

func (ix *InlineIndex) Get(id string) (vo.InlineEntry, bool) {
	entry, ok := ix.byID[id]
	return entry, ok
}

func (ix *InlineIndex) Len() int {
	return len(ix.byID)
}
