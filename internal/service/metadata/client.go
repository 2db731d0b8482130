package metadata

import (
	"context"
	"fmt"

	"Sentinel/internal/domain/models"
	"Sentinel/internal/service/ratelimit"
	"Sentinel/pkg/config"
	pkghttp "Sentinel/pkg/http"
	"Sentinel/pkg/logger"
	"Sentinel/pkg/util"
)

const rateKey = "metadata"

// Client fetches token metadata from the venue's frontend API. Enrichment
// is best effort: on any failure the event keeps its frame values and the
// missing fields fall back to placeholders.
type Client struct {
	http         *pkghttp.Client
	log          *logger.Logger
	baseURL      string
	rate         *ratelimit.Limiter
	rateCapacity float64
	ratePerSec   float64
}

type coinResponse struct {
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	ImageURI      string `json:"image_uri"`
	Twitter       string `json:"twitter"`
	Telegram      string `json:"telegram"`
	Website       string `json:"website"`
	Creator       string `json:"creator"`
	MintAuthority bool   `json:"mint_authority"`
}

// NewClient creates a metadata client.
func NewClient(cfg *config.Config, log *logger.Logger) *Client {
	return &Client{
		http:         pkghttp.NewClient(pkghttp.WithTimeout(cfg.Metadata.Timeout)),
		log:          log,
		baseURL:      cfg.Metadata.BaseURL,
		rate:         ratelimit.New(),
		rateCapacity: float64(cfg.Metadata.RateCapacity),
		ratePerSec:   cfg.Metadata.RatePerSec,
	}
}

// Enrich fills name, symbol, and social links from the metadata API.
// Frame values win over fetched ones when both are present.
func (c *Client) Enrich(ctx context.Context, e *models.TokenEvent) {
	if c.rate.Allow(rateKey, c.rateCapacity, c.ratePerSec) {
		c.apply(e, c.fetch(ctx, e.Mint))
	}
	fillPlaceholders(e)
}

func (c *Client) fetch(ctx context.Context, mint string) *coinResponse {
	var coin coinResponse
	err := c.http.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: pkghttp.MethodGet,
		URL:    fmt.Sprintf("%s/coins/%s", c.baseURL, mint),
	}, &coin)
	if err != nil {
		c.log.Debug("metadata fetch failed",
			logger.String("mint", mint),
			logger.Error(err))
		return nil
	}
	return &coin
}

func (c *Client) apply(e *models.TokenEvent, coin *coinResponse) {
	if coin == nil {
		return
	}
	if e.Name == "" {
		e.Name = util.Sanitize(coin.Name)
	}
	if e.Symbol == "" {
		e.Symbol = util.Sanitize(coin.Symbol)
	}
	if e.Twitter == "" {
		e.Twitter = coin.Twitter
	}
	if e.Telegram == "" {
		e.Telegram = coin.Telegram
	}
	if e.Website == "" {
		e.Website = coin.Website
	}
	if e.Creator == "" {
		e.Creator = coin.Creator
	}
	e.MintAuthority = e.MintAuthority || coin.MintAuthority
}

func fillPlaceholders(e *models.TokenEvent) {
	if e.Name == "" {
		e.Name = "Unknown"
	}
	if e.Symbol == "" {
		e.Symbol = "???"
	}
}
