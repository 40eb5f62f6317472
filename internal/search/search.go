// Package search evaluates text and tag predicates over the catalog and
// suggests related articles. All functions are pure; the full catalog is
// re-evaluated on every call, which is fine at this data scale.
package search

import (
	"strings"

	"github.com/Young4Rare/kbase/internal/model"
)

// RelatedLimit caps the related-articles suggestion list.
const RelatedLimit = 3

// postText is the searchable text of a post.
func postText(p model.Post) string {
	return strings.ToLower(p.Emoji + " " + p.Title)
}

// Filter returns the posts matching both predicates, preserving catalog
// order. An empty text matches everything; a post matches the tag
// predicate when every selected tag is in its tag set (an empty selection
// matches everything).
func Filter(posts []model.Post, text string, tags []string) []model.Post {
	text = strings.ToLower(text)
	out := make([]model.Post, 0, len(posts))
	for _, p := range posts {
		if text != "" && !strings.Contains(postText(p), text) {
			continue
		}
		if !hasAllTags(p, tags) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func hasAllTags(p model.Post, tags []string) bool {
	for _, want := range tags {
		found := false
		for _, t := range p.Tags {
			if t == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Related suggests up to RelatedLimit posts whose text contains text as a
// substring without being exactly equal to it, in catalog order.
func Related(posts []model.Post, text string) []model.Post {
	text = strings.ToLower(text)
	if text == "" {
		return nil
	}
	var out []model.Post
	for _, p := range posts {
		pt := postText(p)
		if strings.Contains(pt, text) && pt != text {
			out = append(out, p)
			if len(out) == RelatedLimit {
				break
			}
		}
	}
	return out
}

// TagSet is the toggleable tag selection backing the filter UI.
type TagSet struct {
	tags []string
}

// Toggle adds tag if absent and removes it if present, returning the new
// membership state.
func (s *TagSet) Toggle(tag string) bool {
	for i, t := range s.tags {
		if t == tag {
			s.tags = append(s.tags[:i], s.tags[i+1:]...)
			return false
		}
	}
	s.tags = append(s.tags, tag)
	return true
}

// Has reports whether tag is selected.
func (s *TagSet) Has(tag string) bool {
	for _, t := range s.tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Selected returns the selection in toggle order.
func (s *TagSet) Selected() []string {
	return append([]string(nil), s.tags...)
}
