package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/OdatNurd/ruinous-twitch-ui/internal/config"
	"github.com/OdatNurd/ruinous-twitch-ui/internal/domain"
	apperrors "github.com/OdatNurd/ruinous-twitch-ui/internal/errors"
)

// --- Mock implementations ---

type mockAppService struct {
	getUserByIDFn     func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	upsertUserFn      func(ctx context.Context, twitchUserID, twitchUsername string) (*domain.User, error)
	listAddonsFn      func(ctx context.Context) ([]domain.Addon, error)
	getAddonByKeyFn   func(ctx context.Context, key string) (*domain.Addon, error)
	listInstallsFn    func(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]domain.UserAddon, error)
	installFn         func(ctx context.Context, userID, addonID uuid.UUID) (*domain.UserAddon, error)
	uninstallFn       func(ctx context.Context, userID, addonID uuid.UUID) error
	saveAddonConfigFn func(ctx context.Context, userID, addonID uuid.UUID, config map[string]any) error
	rotateOverlayFn   func(ctx context.Context, userID, addonID uuid.UUID) (uuid.UUID, error)
	getOverlayFn      func(ctx context.Context, overlayID uuid.UUID) (*domain.Overlay, error)
}

func (m *mockAppService) GetUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(ctx, userID)
	}
	return &domain.User{ID: userID, TwitchUserID: "12345", TwitchUsername: "testuser"}, nil
}

func (m *mockAppService) UpsertUser(ctx context.Context, twitchUserID, twitchUsername string) (*domain.User, error) {
	if m.upsertUserFn != nil {
		return m.upsertUserFn(ctx, twitchUserID, twitchUsername)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAppService) ListAddons(ctx context.Context) ([]domain.Addon, error) {
	if m.listAddonsFn != nil {
		return m.listAddonsFn(ctx)
	}
	return nil, nil
}

func (m *mockAppService) GetAddonByKey(ctx context.Context, key string) (*domain.Addon, error) {
	if m.getAddonByKeyFn != nil {
		return m.getAddonByKeyFn(ctx, key)
	}
	return nil, domain.ErrAddonNotFound
}

func (m *mockAppService) ListInstalls(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]domain.UserAddon, error) {
	if m.listInstallsFn != nil {
		return m.listInstallsFn(ctx, userID)
	}
	return map[uuid.UUID]domain.UserAddon{}, nil
}

func (m *mockAppService) Install(ctx context.Context, userID, addonID uuid.UUID) (*domain.UserAddon, error) {
	if m.installFn != nil {
		return m.installFn(ctx, userID, addonID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAppService) Uninstall(ctx context.Context, userID, addonID uuid.UUID) error {
	if m.uninstallFn != nil {
		return m.uninstallFn(ctx, userID, addonID)
	}
	return nil
}

func (m *mockAppService) SaveAddonConfig(ctx context.Context, userID, addonID uuid.UUID, config map[string]any) error {
	if m.saveAddonConfigFn != nil {
		return m.saveAddonConfigFn(ctx, userID, addonID, config)
	}
	return nil
}

func (m *mockAppService) RotateOverlayID(ctx context.Context, userID, addonID uuid.UUID) (uuid.UUID, error) {
	if m.rotateOverlayFn != nil {
		return m.rotateOverlayFn(ctx, userID, addonID)
	}
	return uuid.New(), nil
}

func (m *mockAppService) GetOverlay(ctx context.Context, overlayID uuid.UUID) (*domain.Overlay, error) {
	if m.getOverlayFn != nil {
		return m.getOverlayFn(ctx, overlayID)
	}
	return nil, domain.ErrOverlayNotFound
}

type mockOAuthClient struct {
	user *twitchUser
	err  error
}

func (m *mockOAuthClient) AuthorizationURL(state string) string {
	return "https://id.twitch.tv/oauth2/authorize?state=" + state
}

func (m *mockOAuthClient) ExchangeCodeForUser(_ context.Context, _ string) (*twitchUser, error) {
	return m.user, m.err
}

// --- Test helpers ---

func newTestServer(t *testing.T, app domain.AppService, opts ...func(*Server)) *Server {
	t.Helper()

	store := sessions.NewCookieStore([]byte("test-secret-key-32-bytes-long!!!"))
	store.Options = &sessions.Options{
		Path:   "/",
		MaxAge: 3600,
	}

	e := echo.New()

	srv := &Server{
		echo: e,
		config: &config.Config{
			TwitchClientID:    "test-client-id",
			TwitchRedirectURI: "http://localhost/auth/callback",
			SessionMaxAge:     time.Hour,
		},
		app:          app,
		oauthClient:  &mockOAuthClient{},
		sessionStore: store,
		startTime:    time.Now(),
	}

	for _, opt := range opts {
		opt(srv)
	}

	srv.registerRoutes()

	return srv
}

func withOAuthClient(oauth twitchOAuthClient) func(*Server) {
	return func(s *Server) {
		s.oauthClient = oauth
	}
}

func withForceHTTPS() func(*Server) {
	return func(s *Server) {
		s.config.ForceHTTPS = true
	}
}

func withHealthChecks(checks ...HealthCheck) func(*Server) {
	return func(s *Server) {
		s.healthChecks = checks
	}
}

// callHandler wraps a handler with error middleware, matching production behavior
func callHandler(handler echo.HandlerFunc, c echo.Context) error {
	return apperrors.Middleware()(handler)(c)
}

func setSessionUserID(t *testing.T, srv *Server, req *http.Request, rec *httptest.ResponseRecorder, userID uuid.UUID) {
	t.Helper()
	session, err := srv.sessionStore.Get(req, sessionName)
	require.NoError(t, err)
	session.Values[sessionKeyUserID] = userID.String()
	require.NoError(t, session.Save(req, rec))
}
