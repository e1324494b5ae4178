package domain

import "slices"

// ArticleRecord is a raw article as returned by the dataset source
type ArticleRecord struct {
	Index    int    // opaque row index reported by the source
	Document string // article text
}

// NewsMapping maps 1-based sequential keys to article text for a single request
type NewsMapping map[int64]string

// NewNewsMapping builds a mapping keyed by the 1-based position of each record in the batch
func NewNewsMapping(records []ArticleRecord) NewsMapping {
	res := make(NewsMapping, len(records))
	for i, rec := range records {
		res[int64(i+1)] = rec.Document
	}
	return res
}

// Keys returns mapping keys in ascending order
func (m NewsMapping) Keys() []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// SelectedArticle is the article served to clients; title and tags are set only by metadata generation
type SelectedArticle struct {
	ID    int64    `json:"id"`
	News  string   `json:"news,omitempty"`
	Title string   `json:"title,omitempty"`
	Tags  []string `json:"tags,omitempty"`
}

// Generated is a single generated field. A degraded field carries the placeholder text
// and the error that caused the fallback.
type Generated struct {
	Text     string
	Degraded bool
	Err      error
}

// GeneratedMetadata is derived title and tags for an article, never persisted
type GeneratedMetadata struct {
	Title Generated
	Tags  Generated // raw model response for tags, parsed into TagList
	// TagList is the parsed, lower-cased list of tags in response order
	TagList []string
}

// Degraded returns names of the fields that fell back to a placeholder
func (m GeneratedMetadata) Degraded() []string {
	var res []string
	if m.Title.Degraded {
		res = append(res, "title")
	}
	if m.Tags.Degraded {
		res = append(res, "tags")
	}
	return res
}
