// Package catalog holds the built-in addon definitions. The catalog is seeded
// into PostgreSQL at startup so install rows can reference addons by ID; the
// slug is the stable identity across deploys.
package catalog

import (
	"github.com/OdatNurd/ruinous-twitch-ui/internal/domain"
)

func floatPtr(v float64) *float64 { return &v }

// Builtin returns the addon definitions shipped with this deployment.
func Builtin() []domain.Addon {
	return []domain.Addon{
		{
			Slug:        "chat-overlay",
			Name:        "Chat Overlay",
			Author:      "OdatNurd",
			Description: "Renders the channel's chat as a transparent browser source, with configurable fonts and fade-out.",
			IconPath:    "/icons/chat-overlay.svg",
			ConfigSchema: domain.ConfigSchema{
				{Field: "font", Type: domain.FieldEnum, Values: []string{"sans", "serif", "mono"}, Default: "sans"},
				{Field: "fontSize", Type: domain.FieldNumber, Default: float64(16), Min: floatPtr(8), Max: floatPtr(72)},
				{Field: "fadeAfterSeconds", Type: domain.FieldNumber, Default: float64(30), Min: floatPtr(0), Max: floatPtr(600)},
				{Field: "showBadges", Type: domain.FieldBool, Default: true},
			},
			RequiresOverlay: true,
			RequiresChat:    true,
		},
		{
			Slug:        "subscriber-goal",
			Name:        "Subscriber Goal",
			Author:      "OdatNurd",
			Description: "Shows a progress bar toward a subscriber goal, updated as new subs arrive.",
			IconPath:    "/icons/subscriber-goal.svg",
			ConfigSchema: domain.ConfigSchema{
				{Field: "goal", Type: domain.FieldNumber, Default: float64(100), Min: floatPtr(1)},
				{Field: "label", Type: domain.FieldString, Default: "Sub Goal"},
				{Field: "barColor", Type: domain.FieldString, Default: "#9146FF"},
				{Field: "showCount", Type: domain.FieldBool, Default: true},
			},
			RequiresOverlay: true,
		},
		{
			Slug:        "emote-rain",
			Name:        "Emote Rain",
			Author:      "OdatNurd",
			Description: "Makes channel emotes rain across the overlay when chat uses them.",
			IconPath:    "/icons/emote-rain.svg",
			ConfigSchema: domain.ConfigSchema{
				{Field: "intensity", Type: domain.FieldEnum, Values: []string{"light", "normal", "storm"}, Default: "normal"},
				{Field: "durationSeconds", Type: domain.FieldNumber, Default: float64(5), Min: floatPtr(1), Max: floatPtr(60)},
			},
			RequiresOverlay: true,
			RequiresChat:    true,
		},
		{
			Slug:        "shoutout-queue",
			Name:        "Shoutout Queue",
			Author:      "OdatNurd",
			Description: "Queues chat shoutout commands and plays them back one at a time on stream.",
			IconPath:    "/icons/shoutout-queue.svg",
			ConfigSchema: domain.ConfigSchema{
				{Field: "command", Type: domain.FieldString, Default: "!so"},
				{Field: "modOnly", Type: domain.FieldBool, Default: true},
			},
			RequiresChat: true,
		},
	}
}
