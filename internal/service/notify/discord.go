package notify

import (
	"context"
	"fmt"
	"time"

	"Sentinel/internal/domain/models"
	domrepo "Sentinel/internal/domain/repository"
	pkghttp "Sentinel/pkg/http"
)

const (
	colorGreen  = 0x2ecc71
	colorOrange = 0xe67e22
	colorRed    = 0xe74c3c
)

// DiscordNotifier posts alerts to a Discord webhook as an embed.
type DiscordNotifier struct {
	http       *pkghttp.Client
	webhookURL string
}

type discordMessage struct {
	Embeds []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Color       int            `json:"color"`
	Fields      []discordField `json:"fields,omitempty"`
	Timestamp   string         `json:"timestamp"`
}

type discordField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

func NewDiscordNotifier(webhookURL string, timeout time.Duration) *DiscordNotifier {
	return &DiscordNotifier{
		http:       pkghttp.NewClient(pkghttp.WithTimeout(timeout)),
		webhookURL: webhookURL,
	}
}

func (n *DiscordNotifier) Name() string { return models.ChannelDiscord }

func (n *DiscordNotifier) Send(ctx context.Context, s *models.ScoredToken, urgent bool) error {
	pump, dex := links(s)

	color := colorGreen
	switch {
	case urgent:
		color = colorRed
	case s.Score >= 85:
		color = colorOrange
	}

	msg := discordMessage{
		Embeds: []discordEmbed{{
			Title:       title(s),
			Description: fmt.Sprintf("[pump.fun](%s) | [dexscreener](%s)", pump, dex),
			Color:       color,
			Fields: []discordField{
				{Name: "Mint", Value: s.Event.Mint, Inline: false},
				{Name: "Stats", Value: statsLine(s), Inline: false},
				{Name: "Risk", Value: riskLine(s), Inline: false},
			},
			Timestamp: s.ScoredAt.UTC().Format(time.RFC3339),
		}},
	}

	err := n.http.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: pkghttp.MethodPost,
		URL:    n.webhookURL,
		Body:   msg,
	}, nil)
	if err != nil {
		return fmt.Errorf("discord webhook: %w", err)
	}
	return nil
}

var _ domrepo.Notifier = (*DiscordNotifier)(nil)
