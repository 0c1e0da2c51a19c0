// package renamer computes and applies filename changes from a template.
// Generation is side-effect-free; only Apply touches the filesystem.
package renamer

import (
	"fmt"
	"strconv"
	"strings"

	"tagflow/internal/files"
	"tagflow/internal/shared"
)

// Field names the template may reference between % markers.
var knownFields = map[string]bool{
	"title":  true,
	"artist": true,
	"album":  true,
	"genre":  true,
	"year":   true,
	"track":  true,
}

type token struct {
	literal string
	field   string
}

// Template is a parsed filename template of literal text and %field% tokens.
type Template struct {
	tokens []token
}

// ParseTemplate parses s, failing with [shared.ErrUnknownField] when a token
// references a field the renderer does not know.
func ParseTemplate(s string) (*Template, error) {
	t := &Template{}
	for len(s) > 0 {
		start := strings.IndexByte(s, '%')
		if start < 0 {
			t.tokens = append(t.tokens, token{literal: s})
			break
		}
		end := strings.IndexByte(s[start+1:], '%')
		if end < 0 {
			t.tokens = append(t.tokens, token{literal: s})
			break
		}
		if start > 0 {
			t.tokens = append(t.tokens, token{literal: s[:start]})
		}
		field := strings.ToLower(s[start+1 : start+1+end])
		if !knownFields[field] {
			return nil, fmt.Errorf("%w: %%%s%%", shared.ErrUnknownField, field)
		}
		t.tokens = append(t.tokens, token{field: field})
		s = s[start+end+2:]
	}
	return t, nil
}

// Render expands the template against one descriptor's metadata, joining
// multi-valued fields with separator.
func (t *Template) Render(d files.Descriptor, separator string) string {
	var b strings.Builder
	for _, tok := range t.tokens {
		if tok.field == "" {
			b.WriteString(tok.literal)
			continue
		}
		b.WriteString(renderField(tok.field, d, separator))
	}
	return strings.TrimSpace(b.String())
}

func renderField(field string, d files.Descriptor, separator string) string {
	switch field {
	case "title":
		return d.Title
	case "artist":
		return strings.Join(d.Artists, separator)
	case "album":
		return d.Album
	case "genre":
		return d.Genre
	case "year":
		if d.Year == 0 {
			return ""
		}
		return strconv.Itoa(d.Year)
	case "track":
		if d.TrackNumber == 0 {
			return ""
		}
		return fmt.Sprintf("%02d", d.TrackNumber)
	default:
		return ""
	}
}
