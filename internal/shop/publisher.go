package shop

import (
	"context"
)

const publishMutation = `
mutation publishProduct($id: ID!, $input: [PublicationInput!]!) {
  publishablePublish(id: $id, input: $input) {
    userErrors {
      field
      message
    }
  }
}`

const listChannelsQuery = `
query channels {
  publications(first: 50) {
    edges {
      node {
        id
        name
        supportsFuturePublishing
      }
    }
  }
}`

// Publish attaches a product to a sales channel. Returns false when the
// platform reports a validation error for the attachment, true on success.
// Transport failures come back as a *PublishError; the caller treats
// publication as best-effort either way.
func (c *Client) Publish(ctx context.Context, productID, channelID string) (bool, error) {
	data, err := c.graphql(ctx, publishMutation, map[string]any{
		"id": productGID(productID),
		"input": []map[string]any{
			{"publicationId": channelID},
		},
	})
	if err != nil {
		return false, &PublishError{ProductID: productID, ChannelID: channelID, Err: err}
	}

	userErrors := data.Get("publishablePublish.userErrors")
	if userErrors.IsArray() && len(userErrors.Array()) > 0 {
		return false, nil
	}

	return true, nil
}

// ListChannels fetches the shop's sales channels. No caching: channels are
// reference data read fresh per request.
func (c *Client) ListChannels(ctx context.Context) ([]Channel, error) {
	data, err := c.graphql(ctx, listChannelsQuery, nil)
	if err != nil {
		return nil, err
	}

	edges := data.Get("publications.edges").Array()
	channels := make([]Channel, 0, len(edges))
	for _, edge := range edges {
		node := edge.Get("node")
		channels = append(channels, Channel{
			ID:                       node.Get("id").String(),
			Name:                     node.Get("name").String(),
			SupportsFuturePublishing: node.Get("supportsFuturePublishing").Bool(),
		})
	}

	return channels, nil
}
