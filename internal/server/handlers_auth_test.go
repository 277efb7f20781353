package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OdatNurd/ruinous-twitch-ui/internal/domain"
)

func TestLogin_RedirectsToTwitchWithState(t *testing.T) {
	srv := newTestServer(t, &mockAppService{})

	req := httptest.NewRequest(http.MethodGet, "/auth/login", nil)
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)

	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "id.twitch.tv", location.Host)
	assert.NotEmpty(t, location.Query().Get("state"))
}

func TestOAuthCallback_MissingCode(t *testing.T) {
	srv := newTestServer(t, &mockAppService{})

	req := httptest.NewRequest(http.MethodGet, "/auth/callback", nil)
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOAuthCallback_StateMismatch(t *testing.T) {
	srv := newTestServer(t, &mockAppService{})

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=abc&state=forged", nil)
	rec := httptest.NewRecorder()

	// Seed the session with a different expected state
	session, err := srv.sessionStore.Get(req, sessionName)
	require.NoError(t, err)
	session.Values[sessionKeyOAuthState] = "expected"
	require.NoError(t, session.Save(req, rec))

	srv.echo.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOAuthCallback_Success(t *testing.T) {
	userID := uuid.New()
	var upsertedTwitchID string

	srv := newTestServer(t, &mockAppService{
		upsertUserFn: func(_ context.Context, twitchUserID, twitchUsername string) (*domain.User, error) {
			upsertedTwitchID = twitchUserID
			return &domain.User{ID: userID, TwitchUserID: twitchUserID, TwitchUsername: twitchUsername}, nil
		},
	}, withOAuthClient(&mockOAuthClient{
		user: &twitchUser{UserID: "12345", Username: "testuser"},
	}))

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=abc&state=expected", nil)
	rec := httptest.NewRecorder()

	session, err := srv.sessionStore.Get(req, sessionName)
	require.NoError(t, err)
	session.Values[sessionKeyOAuthState] = "expected"
	require.NoError(t, session.Save(req, rec))

	srv.echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Equal(t, "12345", upsertedTwitchID)

	// The authenticated session cookie is set
	cookies := rec.Result().Cookies()
	var found bool
	for _, cookie := range cookies {
		if cookie.Name == sessionName && cookie.Value != "" && cookie.MaxAge >= 0 {
			found = true
		}
	}
	assert.True(t, found, "expected a session cookie after login")
}

func TestOAuthCallback_ExchangeFailure(t *testing.T) {
	srv := newTestServer(t, &mockAppService{}, withOAuthClient(&mockOAuthClient{
		err: assert.AnError,
	}))

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=abc&state=expected", nil)
	rec := httptest.NewRecorder()

	session, err := srv.sessionStore.Get(req, sessionName)
	require.NoError(t, err)
	session.Values[sessionKeyOAuthState] = "expected"
	require.NoError(t, session.Save(req, rec))

	srv.echo.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestRequireAuth_UnknownUserInvalidatesSession(t *testing.T) {
	srv := newTestServer(t, &mockAppService{
		getUserByIDFn: func(_ context.Context, _ uuid.UUID) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/user", nil)
	rec := httptest.NewRecorder()
	setSessionUserID(t, srv, req, rec, uuid.New())
	srv.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
