package notify

import (
	"context"
	"fmt"
	"time"

	"Sentinel/internal/domain/models"
	domrepo "Sentinel/internal/domain/repository"
	pkghttp "Sentinel/pkg/http"
)

// SlackNotifier posts alerts to a Slack incoming webhook.
type SlackNotifier struct {
	http       *pkghttp.Client
	webhookURL string
}

type slackMessage struct {
	Text   string       `json:"text"`
	Blocks []slackBlock `json:"blocks,omitempty"`
}

type slackBlock struct {
	Type string     `json:"type"`
	Text *slackText `json:"text,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func NewSlackNotifier(webhookURL string, timeout time.Duration) *SlackNotifier {
	return &SlackNotifier{
		http:       pkghttp.NewClient(pkghttp.WithTimeout(timeout)),
		webhookURL: webhookURL,
	}
}

func (n *SlackNotifier) Name() string { return models.ChannelSlack }

func (n *SlackNotifier) Send(ctx context.Context, s *models.ScoredToken, urgent bool) error {
	pump, dex := links(s)
	body := fmt.Sprintf("%s\nmint: `%s`\nrisk: %s\n<%s|pump.fun> | <%s|dexscreener>",
		statsLine(s), s.Event.Mint, riskLine(s), pump, dex)

	msg := slackMessage{
		Text: title(s),
		Blocks: []slackBlock{
			{Type: "header", Text: &slackText{Type: "plain_text", Text: title(s)}},
			{Type: "section", Text: &slackText{Type: "mrkdwn", Text: body}},
		},
	}

	err := n.http.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: pkghttp.MethodPost,
		URL:    n.webhookURL,
		Body:   msg,
	}, nil)
	if err != nil {
		return fmt.Errorf("slack webhook: %w", err)
	}
	return nil
}

var _ domrepo.Notifier = (*SlackNotifier)(nil)
