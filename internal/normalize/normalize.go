// internal/normalize/normalize.go
// Package normalize converts the loosely-shaped JSON the BookShelf services
// return into one fixed result shape the display layer can rely on.
//
// The services answer with several historical payload shapes (an "answer"
// string with a "results" array, a bare "context" array, a single context
// string, ...). Instead of probing properties ad hoc, each known shape is
// declared as a JSON schema and candidates are tried in priority order; the
// first schema that validates selects the decoder.
package normalize

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/xeipuuv/gojsonschema"

	"github.com/mwiater/bookshelf/internal/util"
)

const (
	// maxEntries caps snippets and sources so the display stays bounded.
	maxEntries = 6
	// maxLabelRunes bounds a source label derived from a serialized element.
	maxLabelRunes = 80
	// maxFallbackRunes bounds the raw-JSON fallback answer.
	maxFallbackRunes = 400
)

// Result is the fixed shape handed to the display layer. Answer is never
// empty-by-accident of a nil field: all three fields are always non-nil.
type Result struct {
	Answer   string
	Snippets []string
	Sources  []string
}

// shape pairs a JSON schema with the decoder that runs when the schema
// validates. Shapes are tried in declaration order; first match wins.
type shape struct {
	schema map[string]any
	decode func(doc map[string]any) []string
}

var snippetShapes = []shape{
	{
		schema: map[string]any{
			"type":       "object",
			"properties": map[string]any{"context": map[string]any{"type": "array"}},
			"required":   []string{"context"},
		},
		decode: snippetsFromContextList,
	},
	{
		schema: map[string]any{
			"type":       "object",
			"properties": map[string]any{"results": map[string]any{"type": "array"}},
			"required":   []string{"results"},
		},
		decode: snippetsFromResults,
	},
	{
		schema: map[string]any{
			"type":       "object",
			"properties": map[string]any{"context": map[string]any{"type": "string"}},
			"required":   []string{"context"},
		},
		decode: snippetsFromContextText,
	},
}

var sourceShapes = []shape{
	{
		schema: map[string]any{
			"type":       "object",
			"properties": map[string]any{"sources": map[string]any{"type": "array"}},
			"required":   []string{"sources"},
		},
		decode: sourcesFromList,
	},
	{
		schema: map[string]any{
			"type":       "object",
			"properties": map[string]any{"results": map[string]any{"type": "array"}},
			"required":   []string{"results"},
		},
		decode: sourcesFromResults,
	},
}

// Normalize converts a raw service response into a Result. It never fails:
// malformed or missing fields degrade to empty values.
func Normalize(raw json.RawMessage) Result {
	result := Result{Snippets: []string{}, Sources: []string{}}

	doc, ok := decodeObject(raw)
	if !ok {
		return result
	}

	result.Answer = answerText(doc)
	if snippets := applyShapes(snippetShapes, doc); snippets != nil {
		result.Snippets = snippets
	}
	if sources := applyShapes(sourceShapes, doc); sources != nil {
		result.Sources = sources
	}
	return result
}

// FallbackAnswer returns answer if it is non-empty, otherwise walks the known
// nested answer locations and finally falls back to a bounded serialization
// of the raw payload. The truncation protects the display from unbounded
// output, nothing more.
func FallbackAnswer(raw json.RawMessage, answer string) string {
	if answer != "" {
		return answer
	}

	if doc, ok := decodeObject(raw); ok {
		for _, outer := range []string{"payload", "response"} {
			nested, ok := doc[outer].(map[string]any)
			if !ok {
				continue
			}
			if text, ok := nested["answer"].(string); ok && text != "" {
				return text
			}
		}
	}

	if len(raw) == 0 {
		return ""
	}
	return util.TruncateRunes(string(raw), maxFallbackRunes)
}

// decodeObject parses raw into a JSON object. Non-object payloads (arrays,
// scalars, invalid JSON) report false.
func decodeObject(raw json.RawMessage) (map[string]any, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, false
	}
	return doc, true
}

// applyShapes validates doc against each shape in order and runs the first
// matching decoder. A nil return means no shape matched.
func applyShapes(shapes []shape, doc map[string]any) []string {
	docLoader := gojsonschema.NewGoLoader(doc)
	for _, s := range shapes {
		outcome, err := gojsonschema.Validate(gojsonschema.NewGoLoader(s.schema), docLoader)
		if err != nil || !outcome.Valid() {
			continue
		}
		return s.decode(doc)
	}
	return nil
}

// answerText extracts the answer from the first present string field.
func answerText(doc map[string]any) string {
	for _, key := range []string{"answer", "text", "data"} {
		if text, ok := doc[key].(string); ok {
			return text
		}
	}
	return ""
}

func snippetsFromContextList(doc map[string]any) []string {
	items, _ := doc["context"].([]any)
	out := make([]string, 0, maxEntries)
	for _, item := range items {
		if len(out) == maxEntries {
			break
		}
		out = append(out, stringify(item))
	}
	return out
}

func snippetsFromContextText(doc map[string]any) []string {
	text, _ := doc["context"].(string)
	return []string{text}
}

func snippetsFromResults(doc map[string]any) []string {
	items, _ := doc["results"].([]any)
	out := make([]string, 0, maxEntries)
	for _, item := range items {
		if len(out) == maxEntries {
			break
		}
		out = append(out, snippetForElement(item))
	}
	return out
}

// snippetForElement pulls the display text out of one results element.
func snippetForElement(item any) string {
	element, ok := item.(map[string]any)
	if !ok {
		return stringify(item)
	}
	for _, key := range []string{"snippet", "text", "content"} {
		if text, ok := element[key].(string); ok {
			return text
		}
	}
	// Archive results nest the chunk text under the element's metadata.
	for _, metaKey := range []string{"metadata", "meta"} {
		if meta, ok := element[metaKey].(map[string]any); ok {
			if text, ok := meta["text"].(string); ok {
				return text
			}
		}
	}
	return stringify(element)
}

func sourcesFromList(doc map[string]any) []string {
	items, _ := doc["sources"].([]any)
	out := make([]string, 0, maxEntries)
	for _, item := range items {
		if len(out) == maxEntries {
			break
		}
		out = append(out, stringify(item))
	}
	return out
}

func sourcesFromResults(doc map[string]any) []string {
	items, _ := doc["results"].([]any)
	out := make([]string, 0, maxEntries)
	for _, item := range items {
		if len(out) == maxEntries {
			break
		}
		out = append(out, sourceLabel(item))
	}
	return out
}

// sourceLabel derives a display label for one results element: title with an
// optional id suffix, then a nested metadata title, then a bare id or source
// field, then a bounded serialization.
func sourceLabel(item any) string {
	element, ok := item.(map[string]any)
	if !ok {
		return util.TruncateRunes(stringify(item), maxLabelRunes)
	}

	if title, ok := element["title"].(string); ok && title != "" {
		if id, ok := scalarString(element["id"]); ok {
			return fmt.Sprintf("%s (%s)", title, id)
		}
		return title
	}

	for _, metaKey := range []string{"metadata", "meta"} {
		if meta, ok := element[metaKey].(map[string]any); ok {
			if title, ok := meta["title"].(string); ok && title != "" {
				return title
			}
		}
	}

	for _, key := range []string{"id", "source"} {
		if value, ok := scalarString(element[key]); ok {
			return value
		}
	}

	return util.TruncateRunes(stringify(element), maxLabelRunes)
}

// stringify passes strings through and serializes anything else.
func stringify(item any) string {
	if text, ok := item.(string); ok {
		return text
	}
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Sprintf("%v", item)
	}
	return string(data)
}

// scalarString renders a string or JSON number as a label fragment.
func scalarString(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		if v == "" {
			return "", false
		}
		return v, true
	case float64:
		if v == math.Trunc(v) {
			return strconv.FormatInt(int64(v), 10), true
		}
		return strconv.FormatFloat(v, 'f', -1, 64), true
	default:
		return "", false
	}
}
