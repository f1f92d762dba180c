package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
)

// BinInfo is the subset of a BIN record the bot renders.
type BinInfo struct {
	Type    string
	Bank    string
	Country string
}

// BinClient resolves bank identification numbers.
type BinClient struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

func NewBinClient(baseURL string, client *http.Client, log *slog.Logger) *BinClient {
	if log == nil {
		log = slog.Default()
	}
	if client == nil {
		client = NewHTTPClient(0)
	}
	return &BinClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  log.With(slog.String("provider", "bin")),
	}
}

// Lookup fetches the record for bin. A 404 maps to ErrNotFound; any other
// failure maps to ErrUnavailable.
func (c *BinClient) Lookup(ctx context.Context, bin string) (BinInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+bin, nil)
	if err != nil {
		return BinInfo{}, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		if c.logger != nil {
			c.logger.Error("lookup failed", slog.Any("error", err))
		}
		return BinInfo{}, fmt.Errorf("bin lookup: %w", ErrUnavailable)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return BinInfo{}, fmt.Errorf("bin %s: %w", bin, ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		if c.logger != nil {
			c.logger.Error("lookup failed", slog.Int("status", resp.StatusCode))
		}
		return BinInfo{}, fmt.Errorf("bin lookup: %w", ErrUnavailable)
	}

	var payload struct {
		Type string `json:"type"`
		Bank struct {
			Name string `json:"name"`
		} `json:"bank"`
		Country struct {
			Name string `json:"name"`
		} `json:"country"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		if c.logger != nil {
			c.logger.Error("decode failed", slog.Any("error", err))
		}
		return BinInfo{}, fmt.Errorf("bin lookup: %w", ErrUnavailable)
	}
	return BinInfo{
		Type:    payload.Type,
		Bank:    payload.Bank.Name,
		Country: payload.Country.Name,
	}, nil
}
