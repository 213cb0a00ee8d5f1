// internal/query/client.go
// Package query orchestrates one user query end to end: classify the intent,
// dispatch the request, and shape the response for display. Every failure
// becomes a bounded, displayable outcome; nothing escapes as a raw error.
package query

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/mwiater/bookshelf/internal/api"
	"github.com/mwiater/bookshelf/internal/intent"
	"github.com/mwiater/bookshelf/internal/normalize"
	"github.com/mwiater/bookshelf/internal/util"
)

// maxMessageRunes bounds any message derived from serialized server output.
const maxMessageRunes = 400

// OutcomeKind tags what Execute produced.
type OutcomeKind int

const (
	// KindAnswer carries a normalized search result.
	KindAnswer OutcomeKind = iota
	// KindList carries the formatted catalog listing.
	KindList
	// KindDeleted reports a confirmed, executed deletion.
	KindDeleted
	// KindNotFound reports that no catalog entry matched a delete request.
	KindNotFound
	// KindCancelled reports that the user declined the delete confirmation.
	KindCancelled
	// KindInvalid reports a query rejected before any request was dispatched.
	KindInvalid
	// KindBusy reports that another query is still in flight.
	KindBusy
	// KindError carries a bounded message for a transport or server failure.
	KindError
)

// Query is one user submission.
type Query struct {
	Text   string
	UserID string
}

// Outcome is the displayable product of Execute.
type Outcome struct {
	Kind     OutcomeKind
	Intent   intent.Intent
	Result   normalize.Result
	Books    []api.Book
	Book     *api.Book
	Affected int
	Message  string
}

// Catalog is the slice of the library API the delete and list flows need.
type Catalog interface {
	api.BookLister
	api.BookDeleter
}

// ConfirmFunc asks the user to approve a pending deletion. Returning false
// cancels the delete without touching the server.
type ConfirmFunc func(book api.Book) bool

// Option configures a Client.
type Option func(*Client)

// WithConfirm registers the deletion confirmation hook. Without one, every
// delete is cancelled.
func WithConfirm(fn ConfirmFunc) Option {
	return func(c *Client) { c.confirm = fn }
}

// WithResultCount sets the result-count hint sent with search requests.
func WithResultCount(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.resultCount = n
		}
	}
}

// Client routes queries by intent. A Client rejects overlapping Execute
// calls: the second submission is refused until the first settles, so two
// normalization passes never race against shared display state.
type Client struct {
	searcher    api.Searcher
	catalog     Catalog
	confirm     ConfirmFunc
	resultCount int
	busy        atomic.Bool
}

// New builds a Client over a search dispatcher and the catalog endpoints.
func New(searcher api.Searcher, catalog Catalog, opts ...Option) *Client {
	c := &Client{
		searcher:    searcher,
		catalog:     catalog,
		resultCount: 5,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Execute runs one query to a displayable outcome. Blank queries are
// rejected before classification or dispatch.
func (c *Client) Execute(ctx context.Context, q Query) Outcome {
	text := strings.TrimSpace(q.Text)
	if text == "" {
		return Outcome{Kind: KindInvalid, Message: "Type a question or a command first."}
	}

	if !c.busy.CompareAndSwap(false, true) {
		return Outcome{Kind: KindBusy, Message: "Still working on the previous query."}
	}
	defer c.busy.Store(false)

	routed := intent.Classify(text)
	switch routed {
	case intent.List:
		return c.list(ctx)
	case intent.Delete:
		return c.deleteByPhrase(ctx, text)
	default:
		return c.search(ctx, text, q.UserID)
	}
}

func (c *Client) search(ctx context.Context, text, userID string) Outcome {
	raw, err := c.searcher.Search(ctx, text, c.resultCount, userID)
	if err != nil {
		return failure(intent.Search, err)
	}

	result := normalize.Normalize(raw)
	result.Answer = normalize.FallbackAnswer(raw, result.Answer)
	return Outcome{Kind: KindAnswer, Intent: intent.Search, Result: result}
}

func (c *Client) list(ctx context.Context) Outcome {
	books, err := c.catalog.ListBooks(ctx)
	if err != nil {
		// A readable 2xx body without the expected fields is not a transport
		// failure; tell the user the listing was unreadable instead.
		if isMalformed(err) {
			return Outcome{
				Kind:    KindList,
				Intent:  intent.List,
				Message: "The library answered, but the listing was unreadable.",
			}
		}
		return failure(intent.List, err)
	}

	if len(books) == 0 {
		return Outcome{Kind: KindList, Intent: intent.List, Books: books, Message: "The shelf is empty."}
	}
	return Outcome{Kind: KindList, Intent: intent.List, Books: books, Message: FormatBookList(books)}
}

func (c *Client) deleteByPhrase(ctx context.Context, text string) Outcome {
	candidate := DeleteCandidate(text)
	if candidate == "" {
		return Outcome{
			Kind:    KindInvalid,
			Intent:  intent.Delete,
			Message: `Tell me which book to delete, e.g. "delete the book Dune".`,
		}
	}

	books, err := c.catalog.ListBooks(ctx)
	if err != nil {
		return failure(intent.Delete, err)
	}

	book, ok := matchBook(books, candidate)
	if !ok {
		return Outcome{
			Kind:    KindNotFound,
			Intent:  intent.Delete,
			Message: fmt.Sprintf("No book on the shelf matches %q.", candidate),
		}
	}

	if c.confirm == nil || !c.confirm(book) {
		return Outcome{
			Kind:    KindCancelled,
			Intent:  intent.Delete,
			Book:    &book,
			Message: fmt.Sprintf("Kept %q.", book.Title),
		}
	}

	affected, err := c.catalog.DeleteBook(ctx, book.ID)
	if err != nil {
		return failure(intent.Delete, err)
	}
	return Outcome{
		Kind:     KindDeleted,
		Intent:   intent.Delete,
		Book:     &book,
		Affected: affected,
		Message:  fmt.Sprintf("Deleted %q by %s (%d record(s)).", book.Title, book.Author, affected),
	}
}

// failure converts any transport or server error into a bounded outcome.
func failure(routed intent.Intent, err error) Outcome {
	return Outcome{
		Kind:    KindError,
		Intent:  routed,
		Message: "The request failed: " + util.TruncateRunes(err.Error(), maxMessageRunes),
	}
}

func isMalformed(err error) bool {
	return errors.Is(err, api.ErrMalformedResponse)
}

// FormatBookList renders the catalog as a numbered multi-line summary.
func FormatBookList(books []api.Book) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Your shelf has %d book(s):\n", len(books))
	for i, book := range books {
		fmt.Fprintf(&b, "  %d. %s — %s", i+1, book.Title, book.Author)
		if book.Genre != "" {
			fmt.Fprintf(&b, " (%s)", book.Genre)
		}
		if book.VectorCount > 0 {
			fmt.Fprintf(&b, " [%d vectors]", book.VectorCount)
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

// fillerPhrases are stripped, longest first, when extracting a title
// candidate from a delete request. The extraction is best effort; ambiguous
// phrasing falls through to the not-found outcome rather than guessing.
var fillerPhrases = []string{
	"could you please",
	"can you please",
	"would you please",
	"could you",
	"can you",
	"please",
	"delete",
	"remove",
	"erase",
	"the book called",
	"the book titled",
	"the book named",
	"book called",
	"book titled",
	"book named",
	"the book",
	"this book",
	"that book",
	"books",
	"book",
	"the entry",
	"the record",
	"entry",
	"record",
	"from the shelf",
	"from my shelf",
	"from the library",
	"for me",
}

// DeleteCandidate strips verb and filler phrases from a delete request,
// leaving the title or author fragment used for matching. The result is
// lowercase; matching is case-insensitive anyway.
func DeleteCandidate(text string) string {
	candidate := " " + strings.ToLower(strings.TrimSpace(text)) + " "
	for _, phrase := range fillerPhrases {
		candidate = strings.ReplaceAll(candidate, " "+phrase+" ", " ")
	}
	candidate = strings.Trim(candidate, " .,!?\"'")
	return util.CollapseSpaces(candidate)
}

// matchBook resolves the candidate against the catalog: exact title, exact
// id, substring title either direction, then substring author.
func matchBook(books []api.Book, candidate string) (api.Book, bool) {
	needle := strings.ToLower(strings.TrimSpace(candidate))
	if needle == "" {
		return api.Book{}, false
	}

	for _, book := range books {
		if strings.ToLower(strings.TrimSpace(book.Title)) == needle {
			return book, true
		}
	}
	for _, book := range books {
		if strconv.FormatInt(book.ID, 10) == needle {
			return book, true
		}
	}
	for _, book := range books {
		title := strings.ToLower(book.Title)
		if title != "" && (strings.Contains(title, needle) || strings.Contains(needle, title)) {
			return book, true
		}
	}
	for _, book := range books {
		author := strings.ToLower(book.Author)
		if author != "" && strings.Contains(author, needle) {
			return book, true
		}
	}
	return api.Book{}, false
}
