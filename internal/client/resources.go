package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/fivetwenty-io/srcom-client/pkg/srcom"
)

// parser is the signature shared by the srcom element parsers.
type parser[T any] func(srcom.Client, srcom.Node) (T, error)

// elementPath joins a collection and an escaped identifier.
func elementPath(collection, id string, rest ...string) string {
	path := collection + "/" + url.PathEscape(id)
	for _, segment := range rest {
		path += "/" + segment
	}

	return path
}

// getElement requests a single-object envelope and parses its data member.
func getElement[T any](ctx context.Context, c *Client, path string, values url.Values, parse parser[T]) (T, error) {
	var zero T

	envelope, err := c.Request(ctx, c.Endpoint(path, values))
	if err != nil {
		return zero, err
	}

	item, err := parse(c, envelope.Get("data"))
	if err != nil {
		return zero, fmt.Errorf("parsing %s: %w", path, err)
	}

	return item, nil
}

// getList requests an unpaginated list envelope and parses every element.
func getList[T any](ctx context.Context, c *Client, path string, values url.Values, parse parser[T]) ([]T, error) {
	envelope, err := c.Request(ctx, c.Endpoint(path, values))
	if err != nil {
		return nil, err
	}

	items, err := srcom.ParseList(envelope.Get("data"), func(n srcom.Node) (T, error) { return parse(c, n) })
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return items, nil
}

// sequence starts a lazily paginated collection at path.
func sequence[T any](c *Client, path string, values url.Values, parse parser[T]) *srcom.Sequence[T] {
	return srcom.NewSequence(c.Request, c.Endpoint(path, values), func(n srcom.Node) (T, error) {
		return parse(c, n)
	})
}
