package srcom

import (
	"context"
	"iter"
	"sync"
)

// PageFetcher retrieves one page of a collection. Clients pass their cached
// request primitive.
type PageFetcher func(ctx context.Context, uri string) (Node, error)

// ElementParser maps one element of a page onto T.
type ElementParser[T any] func(Node) (T, error)

// Page is one decoded collection envelope:
// {data: [...], pagination: {size, links: [{rel, uri}]}}.
type Page struct {
	Size  int
	Items []Node
	Next  string
}

// ParsePage decodes a collection envelope. Envelopes without pagination
// report their element count as size and have no next link.
func ParsePage(envelope Node) (Page, error) {
	data := envelope.Get("data")

	err := data.expect(KindArray)
	if err != nil {
		return Page{}, err
	}

	page := Page{Items: data.Array()}
	page.Size = len(page.Items)

	pagination := envelope.Get("pagination")
	if !pagination.IsObject() {
		return page, nil
	}

	size, ok := pagination.OptInt("size")
	if ok {
		page.Size = size
	}

	for _, link := range pagination.Get("links").Array() {
		if link.OptStr("rel") == "next" {
			page.Next = link.OptStr("uri")

			break
		}
	}

	return page, nil
}

// ParseList parses every element of a JSON array.
func ParseList[T any](list Node, parse ElementParser[T]) ([]T, error) {
	err := list.expect(KindArray)
	if err != nil {
		return nil, err
	}

	elements := list.Array()
	items := make([]T, 0, len(elements))

	for _, element := range elements {
		item, err := parse(element)
		if err != nil {
			return nil, err
		}

		items = append(items, item)
	}

	return items, nil
}

// pager walks a paginated collection once: current page buffer, cursor, and
// the next page URI. An empty next URI after the first fetch means the
// current page is the last one.
type pager[T any] struct {
	fetch   PageFetcher
	parse   ElementParser[T]
	next    string
	page    []Node
	cursor  int
	fetched bool
	done    bool
}

func newPager[T any](fetch PageFetcher, start string, parse ElementParser[T]) *pager[T] {
	return &pager[T]{fetch: fetch, parse: parse, next: start}
}

// pull returns the next element, or false once the collection is exhausted.
func (p *pager[T]) pull(ctx context.Context) (T, bool, error) {
	var zero T

	for {
		if p.cursor < len(p.page) {
			element := p.page[p.cursor]
			p.cursor++

			item, err := p.parse(element)
			if err != nil {
				return zero, false, err
			}

			return item, true, nil
		}

		if p.done || (p.fetched && p.next == "") {
			p.done = true

			return zero, false, nil
		}

		envelope, err := p.fetch(ctx, p.next)
		if err != nil {
			return zero, false, err
		}

		page, err := ParsePage(envelope)
		if err != nil {
			return zero, false, err
		}

		p.fetched = true

		if page.Size == 0 {
			p.done = true

			return zero, false, nil
		}

		// The next link is used verbatim.
		p.page = page.Items
		p.cursor = 0
		p.next = page.Next
	}
}

// Sequence is a lazy collection backed by a paginated endpoint. Nothing is
// fetched until it is traversed. Every element pulled from the server is
// buffered, so later traversals replay the buffer and only touch the network
// past its end. A Sequence is safe for concurrent use.
//
// Errors are sticky: once a page fetch or element parse fails, every later
// pull past the buffer reports the same error. Use Restart for a fresh
// attempt.
type Sequence[T any] struct {
	mu       sync.Mutex
	start    string
	fetch    PageFetcher
	parse    ElementParser[T]
	pager    *pager[T]
	items    []T
	err      error
	complete bool
}

// NewSequence creates a sequence starting at startURI.
func NewSequence[T any](fetch PageFetcher, startURI string, parse ElementParser[T]) *Sequence[T] {
	return &Sequence[T]{
		start: startURI,
		fetch: fetch,
		parse: parse,
		pager: newPager(fetch, startURI, parse),
	}
}

// URI returns the first page's URI.
func (s *Sequence[T]) URI() string {
	return s.start
}

// Restart returns a new, unbuffered sequence over the same collection.
func (s *Sequence[T]) Restart() *Sequence[T] {
	return NewSequence(s.fetch, s.start, s.parse)
}

// Buffered returns how many elements have been pulled so far.
func (s *Sequence[T]) Buffered() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.items)
}

// IsComplete reports whether the server signalled the end of the collection.
func (s *Sequence[T]) IsComplete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.complete
}

// at returns element i, pulling pages as needed.
func (s *Sequence[T]) at(ctx context.Context, i int) (T, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T

	for len(s.items) <= i {
		if s.err != nil {
			return zero, false, s.err
		}

		if s.complete {
			return zero, false, nil
		}

		item, ok, err := s.pager.pull(ctx)
		if err != nil {
			s.err = err

			return zero, false, err
		}

		if !ok {
			s.complete = true

			return zero, false, nil
		}

		s.items = append(s.items, item)
	}

	return s.items[i], true, nil
}

// Iterator returns a cursor positioned before the first element.
func (s *Sequence[T]) Iterator(ctx context.Context) *Iterator[T] {
	return &Iterator[T]{seq: s, ctx: ctx}
}

// Items returns a range-over-func view of the sequence. Iteration stops
// after yielding the first error.
func (s *Sequence[T]) Items(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for i := 0; ; i++ {
			item, ok, err := s.at(ctx, i)
			if err != nil {
				var zero T

				yield(zero, err)

				return
			}

			if !ok || !yield(item, nil) {
				return
			}
		}
	}
}

// All traverses the whole sequence.
func (s *Sequence[T]) All(ctx context.Context) ([]T, error) {
	var items []T

	for item, err := range s.Items(ctx) {
		if err != nil {
			return nil, err
		}

		items = append(items, item)
	}

	return items, nil
}

// Take returns up to n elements, fetching only the pages they need.
func (s *Sequence[T]) Take(ctx context.Context, n int) ([]T, error) {
	items := make([]T, 0, max(n, 0))

	for i := range max(n, 0) {
		item, ok, err := s.at(ctx, i)
		if err != nil {
			return nil, err
		}

		if !ok {
			break
		}

		items = append(items, item)
	}

	return items, nil
}

// First returns the first element and whether the sequence had one.
func (s *Sequence[T]) First(ctx context.Context) (T, bool, error) {
	return s.at(ctx, 0)
}

// ForEach calls fn for every element until fn or a fetch fails.
func (s *Sequence[T]) ForEach(ctx context.Context, fn func(T) error) error {
	for item, err := range s.Items(ctx) {
		if err != nil {
			return err
		}

		err = fn(item)
		if err != nil {
			return err
		}
	}

	return nil
}

// Iterator is a forward-only cursor over a Sequence. Iterators from the same
// Sequence share its buffer.
type Iterator[T any] struct {
	seq    *Sequence[T]
	ctx    context.Context //nolint:containedctx // the cursor is bound to one traversal
	index  int
	peeked bool
	value  T
	err    error
}

// HasNext reports whether Next will return an element or an error. It may
// fetch the next page.
func (it *Iterator[T]) HasNext() bool {
	if it.peeked {
		return true
	}

	value, ok, err := it.seq.at(it.ctx, it.index)
	if err != nil {
		it.err = err
		it.peeked = true

		return true
	}

	if !ok {
		return false
	}

	it.value = value
	it.peeked = true

	return true
}

// Next returns the next element, or ErrNoMoreItems at the end.
func (it *Iterator[T]) Next() (T, error) {
	var zero T

	if !it.HasNext() {
		return zero, ErrNoMoreItems
	}

	it.peeked = false

	if it.err != nil {
		err := it.err
		it.err = nil

		return zero, err
	}

	it.index++

	return it.value, nil
}
