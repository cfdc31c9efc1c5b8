package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/srcom-client/pkg/srcom"
)

// UsersClient implements srcom.UsersClient.
type UsersClient struct {
	client *Client
}

// NewUsersClient creates a new users client.
func NewUsersClient(client *Client) *UsersClient {
	return &UsersClient{
		client: client,
	}
}

// Get implements srcom.UsersClient.Get.
func (c *UsersClient) Get(ctx context.Context, id string) (*srcom.User, error) {
	user, err := getElement(ctx, c.client, elementPath("users", id), nil, srcom.ParseUser)
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}

	return user, nil
}

// List implements srcom.UsersClient.List.
func (c *UsersClient) List(query *srcom.UsersQuery) *srcom.Sequence[*srcom.User] {
	return sequence(c.client, "users", query.ToValues(), srcom.ParseUser)
}

// Lookup implements srcom.UsersClient.Lookup.
func (c *UsersClient) Lookup(name string, query *srcom.UsersQuery) *srcom.Sequence[*srcom.User] {
	values := query.ToValues()
	values.Set("lookup", name)

	return sequence(c.client, "users", values, srcom.ParseUser)
}

// PersonalBests implements srcom.UsersClient.PersonalBests.
func (c *UsersClient) PersonalBests(ctx context.Context, id string, query *srcom.PersonalBestsQuery) ([]*srcom.Record, error) {
	records, err := getList(ctx, c.client, elementPath("users", id, "personal-bests"), query.ToValues(), srcom.ParseRecord)
	if err != nil {
		return nil, fmt.Errorf("listing personal bests: %w", err)
	}

	return records, nil
}
