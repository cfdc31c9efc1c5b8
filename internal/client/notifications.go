package client

import (
	"context"

	"github.com/fivetwenty-io/srcom-client/pkg/srcom"
)

// NotificationsClient implements srcom.NotificationsClient.
type NotificationsClient struct {
	client *Client
}

// NewNotificationsClient creates a new notifications client.
func NewNotificationsClient(client *Client) *NotificationsClient {
	return &NotificationsClient{
		client: client,
	}
}

// List implements srcom.NotificationsClient.List. Pages fail with
// srcom.ErrAPIKeyRequired when no API key is configured.
func (c *NotificationsClient) List(query *srcom.NotificationsQuery) *srcom.Sequence[*srcom.Notification] {
	fetch := func(ctx context.Context, uri string) (srcom.Node, error) {
		if !c.client.httpClient.HasAPIKey() {
			return srcom.Node{}, srcom.ErrAPIKeyRequired
		}

		return c.client.Request(ctx, uri)
	}

	return srcom.NewSequence(fetch, c.client.Endpoint("notifications", query.ToValues()), func(n srcom.Node) (*srcom.Notification, error) {
		return srcom.ParseNotification(c.client, n)
	})
}
