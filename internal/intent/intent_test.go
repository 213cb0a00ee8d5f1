// internal/intent/intent_test.go
package intent

import "testing"

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query string
		want  Intent
	}{
		{name: "list all books", query: "Please LIST ALL books you have", want: List},
		{name: "what books", query: "what books are on the shelf?", want: List},
		{name: "show all books", query: "could you show all books", want: List},
		{name: "delete with book", query: "delete the book Dune", want: Delete},
		{name: "remove with record", query: "please remove that record", want: Delete},
		{name: "erase with entry", query: "erase this entry now", want: Delete},
		{name: "no word boundary", query: "deletebook", want: Search},
		{name: "entryway is not entry", query: "remove the entryway lamp", want: Search},
		{name: "verb without object", query: "delete everything", want: Search},
		{name: "object without verb", query: "a book about whales", want: Search},
		{name: "search by author", query: "Show me books by J.K. Rowling", want: Search},
		{name: "plain question", query: "who wrote Dune?", want: Search},
		{name: "empty", query: "", want: Search},
		{name: "blank", query: "   ", want: Search},
		{name: "delete outranks list", query: "list all books then delete the book Dune", want: Delete},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Classify(tt.query); got != tt.want {
				t.Fatalf("Classify(%q)=%s want %s", tt.query, got, tt.want)
			}
		})
	}
}

func TestIntentString(t *testing.T) {
	t.Parallel()

	if Search.String() != "search" || List.String() != "list" || Delete.String() != "delete" {
		t.Fatalf("unexpected intent names: %s %s %s", Search, List, Delete)
	}
}
