package tmdb

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"streamlist/internal/domain"
)

// RequestToken creates a new authentication request token. The user must
// approve it in a browser before it can be exchanged for a session.
func (c *Client) RequestToken(ctx context.Context) (string, error) {
	var payload tokenResponse
	if err := c.get(ctx, "/authentication/token/new", nil, &payload); err != nil {
		return "", err
	}
	if !payload.Success || payload.RequestToken == "" {
		c.logger.Error("token request rejected", "status", payload.StatusMsg)
		return "", domain.ErrAuthFailed
	}
	return payload.RequestToken, nil
}

// AuthorizationURL is the browser URL where the user approves the token.
func AuthorizationURL(requestToken string) string {
	return fmt.Sprintf("https://www.themoviedb.org/authenticate/%s", requestToken)
}

// CreateSession exchanges an approved request token for a session id.
func (c *Client) CreateSession(ctx context.Context, requestToken string) (string, error) {
	body := map[string]string{"request_token": requestToken}

	var payload sessionResponse
	if err := c.doRequest(ctx, http.MethodPost, "/authentication/session/new", nil, body, &payload); err != nil {
		return "", err
	}
	if !payload.Success || payload.SessionID == "" {
		c.logger.Error("session creation rejected", "status", payload.StatusMsg)
		return "", domain.ErrAuthFailed
	}
	return payload.SessionID, nil
}

// Account fetches the account id and username for a session.
func (c *Client) Account(ctx context.Context, sessionID string) (accountID, username string, err error) {
	query := url.Values{}
	query.Set("session_id", sessionID)

	var payload accountResponse
	if err := c.get(ctx, "/account", query, &payload); err != nil {
		return "", "", err
	}
	if payload.ID == 0 || payload.Username == "" {
		return "", "", domain.ErrAuthFailed
	}
	return strconv.FormatInt(payload.ID, 10), payload.Username, nil
}
