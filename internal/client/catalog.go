package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/srcom-client/pkg/srcom"
)

// VariablesClient implements srcom.VariablesClient.
type VariablesClient struct {
	client *Client
}

// NewVariablesClient creates a new variables client.
func NewVariablesClient(client *Client) *VariablesClient {
	return &VariablesClient{client: client}
}

// Get implements srcom.VariablesClient.Get.
func (c *VariablesClient) Get(ctx context.Context, id string) (*srcom.Variable, error) {
	variable, err := getElement(ctx, c.client, elementPath("variables", id), nil, srcom.ParseVariable)
	if err != nil {
		return nil, fmt.Errorf("getting variable: %w", err)
	}

	return variable, nil
}

// PlatformsClient implements srcom.PlatformsClient.
type PlatformsClient struct {
	client *Client
}

// NewPlatformsClient creates a new platforms client.
func NewPlatformsClient(client *Client) *PlatformsClient {
	return &PlatformsClient{client: client}
}

// Get implements srcom.PlatformsClient.Get.
func (c *PlatformsClient) Get(ctx context.Context, id string) (*srcom.Platform, error) {
	platform, err := getElement(ctx, c.client, elementPath("platforms", id), nil, srcom.ParsePlatform)
	if err != nil {
		return nil, fmt.Errorf("getting platform: %w", err)
	}

	return platform, nil
}

// List implements srcom.PlatformsClient.List.
func (c *PlatformsClient) List(query *srcom.PlatformsQuery) *srcom.Sequence[*srcom.Platform] {
	return sequence(c.client, "platforms", query.ToValues(), srcom.ParsePlatform)
}

// RegionsClient implements srcom.RegionsClient.
type RegionsClient struct {
	client *Client
}

// NewRegionsClient creates a new regions client.
func NewRegionsClient(client *Client) *RegionsClient {
	return &RegionsClient{client: client}
}

// Get implements srcom.RegionsClient.Get.
func (c *RegionsClient) Get(ctx context.Context, id string) (*srcom.Region, error) {
	region, err := getElement(ctx, c.client, elementPath("regions", id), nil, srcom.ParseRegion)
	if err != nil {
		return nil, fmt.Errorf("getting region: %w", err)
	}

	return region, nil
}

// List implements srcom.RegionsClient.List.
func (c *RegionsClient) List(query *srcom.RegionsQuery) *srcom.Sequence[*srcom.Region] {
	return sequence(c.client, "regions", query.ToValues(), srcom.ParseRegion)
}

// GuestsClient implements srcom.GuestsClient.
type GuestsClient struct {
	client *Client
}

// NewGuestsClient creates a new guests client.
func NewGuestsClient(client *Client) *GuestsClient {
	return &GuestsClient{client: client}
}

// Get implements srcom.GuestsClient.Get.
func (c *GuestsClient) Get(ctx context.Context, name string) (*srcom.Guest, error) {
	guest, err := getElement(ctx, c.client, elementPath("guests", name), nil, srcom.ParseGuest)
	if err != nil {
		return nil, fmt.Errorf("getting guest: %w", err)
	}

	return guest, nil
}
