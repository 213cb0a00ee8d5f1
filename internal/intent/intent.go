// internal/intent/intent.go
// Package intent assigns a coarse routing category to a free-text query
// before any request is dispatched.
package intent

import (
	"strings"
)

// Intent is the handling path chosen for a query.
type Intent int

const (
	// Search is the default path: dispatch the query to a search endpoint.
	Search Intent = iota
	// List asks for the full catalog listing.
	List
	// Delete asks for a catalog entry to be removed.
	Delete
)

// String returns the lowercase name of the intent.
func (i Intent) String() string {
	switch i {
	case List:
		return "list"
	case Delete:
		return "delete"
	default:
		return "search"
	}
}

// deleteVerbs and deleteObjects must both match as whole words for the Delete
// intent. Whole-word matching keeps "deletebook" or "entryway" from triggering.
var deleteVerbs = map[string]struct{}{
	"delete": {},
	"remove": {},
	"erase":  {},
}

var deleteObjects = map[string]struct{}{
	"book":   {},
	"books":  {},
	"entry":  {},
	"record": {},
}

// listPhrases trigger the List intent on a substring match. Partial phrasing
// is accepted on purpose; these mirror how people ask for the whole catalog.
var listPhrases = []string{
	"list all",
	"list books",
	"list the books",
	"show all books",
	"show every book",
	"what books",
	"which books do",
	"all books",
}

// Classify routes a free-text query to one of the handling paths. It trims
// and lowercases the input, never fails, and returns Search when nothing else
// matches. Callers are expected to reject blank queries before classifying.
func Classify(query string) Intent {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return Search
	}

	if hasDeleteShape(q) {
		return Delete
	}

	for _, phrase := range listPhrases {
		if strings.Contains(q, phrase) {
			return List
		}
	}

	return Search
}

// hasDeleteShape reports whether the normalized query contains both a delete
// verb and an object token as whole words.
func hasDeleteShape(q string) bool {
	var verb, object bool
	for _, word := range splitWords(q) {
		if _, ok := deleteVerbs[word]; ok {
			verb = true
		}
		if _, ok := deleteObjects[word]; ok {
			object = true
		}
		if verb && object {
			return true
		}
	}
	return false
}

// splitWords breaks the query on anything that is not a letter or digit.
func splitWords(q string) []string {
	return strings.FieldsFunc(q, func(r rune) bool {
		return !isWordRune(r)
	})
}

func isWordRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= '0' && r <= '9':
		return true
	default:
		return false
	}
}
