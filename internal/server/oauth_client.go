package server

import (
	"context"
	"fmt"

	"github.com/nicklaw5/helix/v2"
)

// twitchOAuthClient handles the Twitch OAuth code exchange and user info fetch.
type twitchOAuthClient interface {
	AuthorizationURL(state string) string
	ExchangeCodeForUser(ctx context.Context, code string) (*twitchUser, error)
}

// twitchUser is the identity resolved from a completed OAuth flow.
type twitchUser struct {
	UserID   string
	Username string
}

// helixOAuthClient is the production implementation backed by the Helix API.
type helixOAuthClient struct {
	client   *helix.Client
	clientID string
}

func newTwitchOAuthClient(clientID, clientSecret, redirectURI string) (*helixOAuthClient, error) {
	client, err := helix.NewClient(&helix.Options{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURI:  redirectURI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create helix client: %w", err)
	}
	return &helixOAuthClient{client: client, clientID: clientID}, nil
}

func (c *helixOAuthClient) AuthorizationURL(state string) string {
	return c.client.GetAuthorizationURL(&helix.AuthorizationURLParams{
		ResponseType: "code",
		State:        state,
	})
}

func (c *helixOAuthClient) ExchangeCodeForUser(ctx context.Context, code string) (*twitchUser, error) {
	tokenResp, err := c.client.RequestUserAccessToken(code)
	if err != nil {
		return nil, fmt.Errorf("token exchange failed: %w", err)
	}
	if tokenResp.StatusCode != 200 {
		return nil, fmt.Errorf("token exchange returned status %d: %s", tokenResp.StatusCode, tokenResp.ErrorMessage)
	}

	// A fresh client carries the user token so GetUsers resolves the
	// token's owner without an explicit ID.
	userClient, err := helix.NewClient(&helix.Options{
		ClientID:        c.clientID,
		UserAccessToken: tokenResp.Data.AccessToken,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user client: %w", err)
	}

	usersResp, err := userClient.GetUsers(&helix.UsersParams{})
	if err != nil {
		return nil, fmt.Errorf("user info fetch failed: %w", err)
	}
	if usersResp.StatusCode != 200 {
		return nil, fmt.Errorf("user info fetch returned status %d: %s", usersResp.StatusCode, usersResp.ErrorMessage)
	}
	if len(usersResp.Data.Users) == 0 {
		return nil, fmt.Errorf("no user data returned")
	}

	user := usersResp.Data.Users[0]
	username := user.DisplayName
	if username == "" {
		username = user.Login
	}

	return &twitchUser{UserID: user.ID, Username: username}, nil
}
