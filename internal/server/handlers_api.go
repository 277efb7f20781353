package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/OdatNurd/ruinous-twitch-ui/internal/domain"
	apperrors "github.com/OdatNurd/ruinous-twitch-ui/internal/errors"
)

func (s *Server) registerAPIRoutes(csrfMiddleware echo.MiddlewareFunc) {
	v1 := s.echo.Group("/api/v1")

	// Public catalog reads, decorated when a session is present
	v1.GET("/addons", s.handleListAddons, s.optionalAuth)
	v1.GET("/addons/:key", s.handleGetAddon, s.optionalAuth)
	v1.GET("/overlay/:overlayId", s.handleGetOverlay)

	// Authenticated mutations
	v1.GET("/user", s.handleGetCurrentUser, s.requireAuth)
	v1.POST("/addons/:addonId/install", s.handleInstallAddon, s.requireAuth, csrfMiddleware)
	v1.DELETE("/addons/:addonId/install", s.handleUninstallAddon, s.requireAuth, csrfMiddleware)
	v1.PUT("/addons/:addonId/config", s.handleSaveAddonConfig, s.requireAuth, csrfMiddleware)
	v1.POST("/addons/:addonId/overlay/rotate", s.handleRotateOverlayID, s.requireAuth, csrfMiddleware)
}

// addonResponse is a catalog entry as served to the SPA. Installed, Config,
// and OverlayURL are only present for logged-in users.
type addonResponse struct {
	ID              uuid.UUID           `json:"addonId"`
	Slug            string              `json:"slug"`
	Name            string              `json:"name"`
	Author          string              `json:"author"`
	Description     string              `json:"description"`
	IconPath        string              `json:"iconPath"`
	ConfigSchema    domain.ConfigSchema `json:"configSchema"`
	RequiresOverlay bool                `json:"requiresOverlay"`
	RequiresChat    bool                `json:"requiresChat"`
	CreatedAt       time.Time           `json:"createdAt"`

	Installed  *bool          `json:"installed,omitempty"`
	Config     map[string]any `json:"config,omitempty"`
	OverlayURL string         `json:"overlayUrl,omitempty"`
}

type userResponse struct {
	ID             uuid.UUID `json:"userId"`
	TwitchUserID   string    `json:"twitchUserId"`
	TwitchUsername string    `json:"twitchUsername"`
	CreatedAt      time.Time `json:"createdAt"`
}

type installResponse struct {
	AddonID    uuid.UUID      `json:"addonId"`
	OverlayID  uuid.UUID      `json:"overlayId"`
	Config     map[string]any `json:"config"`
	OverlayURL string         `json:"overlayUrl"`
}

// mapDomainError translates the domain sentinels into structured HTTP errors.
func mapDomainError(err error) error {
	switch {
	case errors.Is(err, domain.ErrAddonNotFound):
		return apperrors.NotFoundError("addon not found")
	case errors.Is(err, domain.ErrOverlayNotFound):
		return apperrors.NotFoundError("overlay not found")
	case errors.Is(err, domain.ErrUserNotFound):
		return apperrors.NotFoundError("user not found")
	case errors.Is(err, domain.ErrNotInstalled):
		return apperrors.NotFoundError("addon not installed")
	case errors.Is(err, domain.ErrAlreadyInstalled):
		return apperrors.ConflictError("addon already installed")
	default:
		return err
	}
}

func (s *Server) overlayURL(c echo.Context, overlayID uuid.UUID) string {
	return fmt.Sprintf("%s/api/v1/overlay/%s", s.getBaseURL(c), overlayID)
}

// shapeAddon builds the response record, decorating it with install state
// when the request carries an authenticated user.
func (s *Server) shapeAddon(c echo.Context, addon domain.Addon, installs map[uuid.UUID]domain.UserAddon) addonResponse {
	resp := addonResponse{
		ID:              addon.ID,
		Slug:            addon.Slug,
		Name:            addon.Name,
		Author:          addon.Author,
		Description:     addon.Description,
		IconPath:        addon.IconPath,
		ConfigSchema:    addon.ConfigSchema,
		RequiresOverlay: addon.RequiresOverlay,
		RequiresChat:    addon.RequiresChat,
		CreatedAt:       addon.CreatedAt,
	}

	if installs == nil {
		return resp
	}

	install, ok := installs[addon.ID]
	resp.Installed = &ok
	if ok {
		resp.Config = install.Config
		if addon.RequiresOverlay {
			resp.OverlayURL = s.overlayURL(c, install.OverlayID)
		}
	}
	return resp
}

// userInstalls loads the install map for the session user, or nil for
// anonymous requests.
func (s *Server) userInstalls(c echo.Context) (map[uuid.UUID]domain.UserAddon, error) {
	userID, ok := c.Get("userID").(uuid.UUID)
	if !ok {
		return nil, nil
	}
	installs, err := s.app.ListInstalls(c.Request().Context(), userID)
	if err != nil {
		return nil, apperrors.InternalError("failed to load installs", err)
	}
	return installs, nil
}

func (s *Server) handleListAddons(c echo.Context) error {
	addons, err := s.app.ListAddons(c.Request().Context())
	if err != nil {
		return apperrors.InternalError("failed to list addons", err)
	}

	installs, err := s.userInstalls(c)
	if err != nil {
		return err
	}

	resp := make([]addonResponse, 0, len(addons))
	for _, addon := range addons {
		resp = append(resp, s.shapeAddon(c, addon, installs))
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleGetAddon(c echo.Context) error {
	addon, err := s.app.GetAddonByKey(c.Request().Context(), c.Param("key"))
	if err != nil {
		return mapDomainError(err)
	}

	installs, err := s.userInstalls(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, s.shapeAddon(c, *addon, installs))
}

func (s *Server) handleGetCurrentUser(c echo.Context) error {
	userID := c.Get("userID").(uuid.UUID)

	user, err := s.app.GetUserByID(c.Request().Context(), userID)
	if err != nil {
		return mapDomainError(err)
	}

	return c.JSON(http.StatusOK, userResponse{
		ID:             user.ID,
		TwitchUserID:   user.TwitchUserID,
		TwitchUsername: user.TwitchUsername,
		CreatedAt:      user.CreatedAt,
	})
}

func parseAddonID(c echo.Context) (uuid.UUID, error) {
	addonID, err := uuid.Parse(c.Param("addonId"))
	if err != nil {
		return uuid.Nil, apperrors.ValidationError("invalid addon ID")
	}
	return addonID, nil
}

func (s *Server) handleInstallAddon(c echo.Context) error {
	userID := c.Get("userID").(uuid.UUID)
	addonID, err := parseAddonID(c)
	if err != nil {
		return err
	}

	install, err := s.app.Install(c.Request().Context(), userID, addonID)
	if err != nil {
		return mapDomainError(err)
	}

	return c.JSON(http.StatusCreated, installResponse{
		AddonID:    install.AddonID,
		OverlayID:  install.OverlayID,
		Config:     install.Config,
		OverlayURL: s.overlayURL(c, install.OverlayID),
	})
}

func (s *Server) handleUninstallAddon(c echo.Context) error {
	userID := c.Get("userID").(uuid.UUID)
	addonID, err := parseAddonID(c)
	if err != nil {
		return err
	}

	if err := s.app.Uninstall(c.Request().Context(), userID, addonID); err != nil {
		return mapDomainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleSaveAddonConfig(c echo.Context) error {
	userID := c.Get("userID").(uuid.UUID)
	addonID, err := parseAddonID(c)
	if err != nil {
		return err
	}

	var config map[string]any
	if err := c.Bind(&config); err != nil {
		return apperrors.ValidationError("request body must be a JSON object")
	}

	if err := s.app.SaveAddonConfig(c.Request().Context(), userID, addonID, config); err != nil {
		return mapDomainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleRotateOverlayID(c echo.Context) error {
	userID := c.Get("userID").(uuid.UUID)
	addonID, err := parseAddonID(c)
	if err != nil {
		return err
	}

	newID, err := s.app.RotateOverlayID(c.Request().Context(), userID, addonID)
	if err != nil {
		return mapDomainError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"overlayId":  newID.String(),
		"overlayUrl": s.overlayURL(c, newID),
	})
}
