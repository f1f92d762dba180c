package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// Identity is one synthetic person record.
type Identity struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Street    string
	City      string
}

// IdentityClient fetches synthetic person records.
type IdentityClient struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

func NewIdentityClient(baseURL string, client *http.Client, log *slog.Logger) *IdentityClient {
	if log == nil {
		log = slog.Default()
	}
	if client == nil {
		client = NewHTTPClient(0)
	}
	return &IdentityClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  log.With(slog.String("provider", "identity")),
	}
}

// Random fetches one record for the given gender and nationality filters.
func (c *IdentityClient) Random(ctx context.Context, gender, nationality string) (Identity, error) {
	query := url.Values{}
	query.Set("gender", gender)
	query.Set("nat", nationality)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return Identity{}, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		if c.logger != nil {
			c.logger.Error("fetch failed", slog.Any("error", err))
		}
		return Identity{}, fmt.Errorf("identity fetch: %w", ErrUnavailable)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		if c.logger != nil {
			c.logger.Error("fetch failed", slog.Int("status", resp.StatusCode))
		}
		return Identity{}, fmt.Errorf("identity fetch: %w", ErrUnavailable)
	}

	var payload struct {
		Results []struct {
			Name struct {
				First string `json:"first"`
				Last  string `json:"last"`
			} `json:"name"`
			Email    string `json:"email"`
			Phone    string `json:"phone"`
			Location struct {
				Street struct {
					Name string `json:"name"`
				} `json:"street"`
				City string `json:"city"`
			} `json:"location"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || len(payload.Results) == 0 {
		if c.logger != nil {
			c.logger.Error("decode failed", slog.Any("error", err))
		}
		return Identity{}, fmt.Errorf("identity fetch: %w", ErrUnavailable)
	}
	first := payload.Results[0]
	return Identity{
		FirstName: first.Name.First,
		LastName:  first.Name.Last,
		Email:     first.Email,
		Phone:     first.Phone,
		Street:    first.Location.Street.Name,
		City:      first.Location.City,
	}, nil
}
