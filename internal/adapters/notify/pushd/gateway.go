package pushd

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"pet-lost-found/internal/platform/httpclient"
	"pet-lost-found/internal/ports/notify"
)

// Send implementa notify.Gateway.
// 404 del servicio = user sin device registrado => notify.ErrNoDevice
// (condición esperable, el caller la loguea y sigue).
func (c *Client) Send(ctx context.Context, userID, title, body, contextID string) (string, error) {
	if !c.IsConfigured() {
		return "", ErrNotConfigured
	}

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", fmt.Errorf("%w: empty user id", ErrUpstream)
	}

	headers := map[string]string{c.apiKeyHeader: c.apiKey}

	var out sendResponse
	err := c.http.PostJSON(ctx, "/v1/notifications", headers, sendRequest{
		UserID:    userID,
		Title:     title,
		Body:      body,
		ContextID: contextID,
	}, &out)
	if err != nil {
		if httpclient.StatusOf(err) == http.StatusNotFound {
			return "", notify.ErrNoDevice
		}
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	return out.DeliveryID, nil
}

var _ notify.Gateway = (*Client)(nil)
