package notify

import (
	"context"
	"fmt"
	"time"

	"Sentinel/internal/domain/models"
	domrepo "Sentinel/internal/domain/repository"
	pkghttp "Sentinel/pkg/http"
)

// TelegramNotifier sends alerts through the Bot API. Urgent alerts keep
// notifications audible; the rest are sent silently.
type TelegramNotifier struct {
	http     *pkghttp.Client
	botToken string
	chatID   string
}

type telegramMessage struct {
	ChatID              string `json:"chat_id"`
	Text                string `json:"text"`
	DisableNotification bool   `json:"disable_notification"`
	LinkPreview         bool   `json:"disable_web_page_preview"`
}

func NewTelegramNotifier(botToken, chatID string, timeout time.Duration) *TelegramNotifier {
	return &TelegramNotifier{
		http:     pkghttp.NewClient(pkghttp.WithTimeout(timeout)),
		botToken: botToken,
		chatID:   chatID,
	}
}

func (n *TelegramNotifier) Name() string { return models.ChannelTelegram }

func (n *TelegramNotifier) Send(ctx context.Context, s *models.ScoredToken, urgent bool) error {
	pump, dex := links(s)
	text := fmt.Sprintf("%s\n%s\nmint: %s\nrisk: %s\n%s\n%s",
		title(s), statsLine(s), s.Event.Mint, riskLine(s), pump, dex)

	msg := telegramMessage{
		ChatID:              n.chatID,
		Text:                text,
		DisableNotification: !urgent,
		LinkPreview:         true,
	}

	err := n.http.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: pkghttp.MethodPost,
		URL:    fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", n.botToken),
		Body:   msg,
	}, nil)
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

var _ domrepo.Notifier = (*TelegramNotifier)(nil)
