package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/OdatNurd/ruinous-twitch-ui/internal/domain"
	apperrors "github.com/OdatNurd/ruinous-twitch-ui/internal/errors"
)

// overlayResponse is the public view behind an overlay URL: enough for the
// browser source to render, without leaking anything beyond the owner's
// public Twitch identity.
type overlayResponse struct {
	OverlayID uuid.UUID      `json:"overlayId"`
	Addon     overlayAddon   `json:"addon"`
	Owner     overlayOwner   `json:"owner"`
	Config    map[string]any `json:"config"`
}

type overlayAddon struct {
	ID           uuid.UUID           `json:"addonId"`
	Slug         string              `json:"slug"`
	Name         string              `json:"name"`
	ConfigSchema domain.ConfigSchema `json:"configSchema"`
	RequiresChat bool                `json:"requiresChat"`
	CreatedAt    time.Time           `json:"createdAt"`
}

type overlayOwner struct {
	TwitchUserID   string `json:"twitchUserId"`
	TwitchUsername string `json:"twitchUsername"`
}

// handleGetOverlay resolves a public overlay URL. Malformed IDs get the same
// 404 as unknown ones so the endpoint does not reveal which IDs are
// well-formed.
func (s *Server) handleGetOverlay(c echo.Context) error {
	overlayID, err := uuid.Parse(c.Param("overlayId"))
	if err != nil {
		return apperrors.NotFoundError("overlay not found")
	}

	overlay, err := s.app.GetOverlay(c.Request().Context(), overlayID)
	if err != nil {
		return mapDomainError(err)
	}

	return c.JSON(http.StatusOK, overlayResponse{
		OverlayID: overlay.OverlayID,
		Addon: overlayAddon{
			ID:           overlay.Addon.ID,
			Slug:         overlay.Addon.Slug,
			Name:         overlay.Addon.Name,
			ConfigSchema: overlay.Addon.ConfigSchema,
			RequiresChat: overlay.Addon.RequiresChat,
			CreatedAt:    overlay.Addon.CreatedAt,
		},
		Owner: overlayOwner{
			TwitchUserID:   overlay.Owner.TwitchUserID,
			TwitchUsername: overlay.Owner.TwitchUsername,
		},
		Config: overlay.Config,
	})
}
