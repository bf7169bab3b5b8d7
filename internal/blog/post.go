// Package blog reads post summaries and details from the content endpoint.
package blog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Post is a blog post as served by the content endpoint. Content is only
// populated by Client.Get.
type Post struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Slug     string `json:"slug"`
	Excerpt  string `json:"excerpt"`
	Category string `json:"category"`
	Date     string `json:"date"`
	Image    string `json:"image"`
	Content  string `json:"content,omitempty"`
}

// UnmarshalJSON accepts numeric or string IDs.
func (p *Post) UnmarshalJSON(b []byte) error {
	type alias Post
	var raw struct {
		alias
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*p = Post(raw.alias)

	id := bytes.TrimSpace(raw.ID)
	switch {
	case len(id) == 0 || bytes.Equal(id, []byte("null")):
		p.ID = ""
	case id[0] == '"':
		if err := json.Unmarshal(id, &p.ID); err != nil {
			return fmt.Errorf("post id: %w", err)
		}
	default:
		var n json.Number
		if err := json.Unmarshal(id, &n); err != nil {
			return fmt.Errorf("post id: %w", err)
		}
		p.ID = n.String()
	}
	return nil
}

// PlainText reduces an HTML fragment to whitespace-normalized text.
func PlainText(html string) string {
	if !strings.ContainsAny(html, "<&") {
		return strings.Join(strings.Fields(html), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.Join(strings.Fields(html), " ")
	}
	doc.Find("script, style").Remove()
	return strings.Join(strings.Fields(doc.Text()), " ")
}

const blockSelector = "p, h1, h2, h3, h4, h5, h6, li, blockquote, pre"

// Paragraphs splits post HTML into plain-text blocks, one per paragraph,
// heading or list item. Content without block elements comes back as a
// single block.
func Paragraphs(html string) []string {
	var out []string
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err == nil {
		doc.Find("script, style").Remove()
		doc.Find(blockSelector).Each(func(_ int, sel *goquery.Selection) {
			// Outer blocks repeat the text of the inner ones.
			if sel.Find(blockSelector).Length() > 0 {
				return
			}
			if text := strings.Join(strings.Fields(sel.Text()), " "); text != "" {
				out = append(out, text)
			}
		})
	}
	if len(out) == 0 {
		if text := PlainText(html); text != "" {
			out = []string{text}
		}
	}
	return out
}

// decodePosts accepts a bare array or an object wrapping it under "posts"
// or "data".
func decodePosts(body []byte) ([]Post, error) {
	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '[' {
		var posts []Post
		if err := json.Unmarshal(body, &posts); err != nil {
			return nil, fmt.Errorf("decode posts: %w", err)
		}
		return posts, nil
	}

	var wrapped struct {
		Posts []Post `json:"posts"`
		Data  []Post `json:"data"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	if wrapped.Posts != nil {
		return wrapped.Posts, nil
	}
	return wrapped.Data, nil
}

// decodePost accepts a bare object or one wrapped under "post" or "data".
func decodePost(body []byte) (*Post, error) {
	var wrapped struct {
		Post *Post `json:"post"`
		Data *Post `json:"data"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil {
		if wrapped.Post != nil {
			return wrapped.Post, nil
		}
		if wrapped.Data != nil {
			return wrapped.Data, nil
		}
	}

	var p Post
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("decode post: %w", err)
	}
	return &p, nil
}

func cleanPost(p Post) Post {
	p.Excerpt = PlainText(p.Excerpt)
	p.Title = strings.TrimSpace(p.Title)
	return p
}
