package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/fivetwenty-io/srcom-client/pkg/srcom"
)

// RunsClient implements srcom.RunsClient.
type RunsClient struct {
	client *Client
}

// NewRunsClient creates a new runs client.
func NewRunsClient(client *Client) *RunsClient {
	return &RunsClient{
		client: client,
	}
}

// Get implements srcom.RunsClient.Get.
func (c *RunsClient) Get(ctx context.Context, id string, embeds *srcom.RunEmbeds) (*srcom.Run, error) {
	run, err := getElement(ctx, c.client, elementPath("runs", id), srcom.EmbedValues(embeds), srcom.ParseRun)
	if err != nil {
		return nil, fmt.Errorf("getting run: %w", err)
	}

	return run, nil
}

// List implements srcom.RunsClient.List.
func (c *RunsClient) List(query *srcom.RunsQuery) *srcom.Sequence[*srcom.Run] {
	return sequence(c.client, "runs", query.ToValues(), srcom.ParseRun)
}

// Submit implements srcom.RunsClient.Submit. Simulated submissions are
// validated by the server without being stored.
func (c *RunsClient) Submit(ctx context.Context, submission *srcom.RunSubmission) (*srcom.Run, error) {
	if !c.client.httpClient.HasAPIKey() {
		return nil, srcom.ErrAPIKeyRequired
	}

	body, err := submission.Body()
	if err != nil {
		return nil, err
	}

	values := url.Values{}
	if submission.Simulate {
		values.Set("dry", "yes")
	}

	envelope, err := c.client.Post(ctx, c.client.Endpoint("runs", values), body)
	if err != nil {
		return nil, fmt.Errorf("submitting run: %w", err)
	}

	run, err := srcom.ParseRun(c.client, envelope.Get("data"))
	if err != nil {
		return nil, fmt.Errorf("parsing submitted run: %w", err)
	}

	return run, nil
}
