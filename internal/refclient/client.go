package refclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/smartcity/staff-service/internal/config"
	"github.com/smartcity/staff-service/internal/domain"
	apperrors "github.com/smartcity/staff-service/pkg/util"
)

// Resolver fetches city and village references on behalf of a caller.
// The token is the caller's own bearer credential and must be carried
// on every downstream request.
type Resolver interface {
	GetCity(ctx context.Context, id, token string) (*domain.CityRef, error)
	GetVillage(ctx context.Context, id, token string) (*domain.VillageRef, error)
}

// Client talks to the external location service over HTTP.
// It performs no retries; a transport failure surfaces as UNAVAILABLE.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *zap.Logger
}

// NewClient builds a location service client.
func NewClient(cfg config.LocationConfig, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpc:   &http.Client{Timeout: cfg.Timeout()},
		logger:  logger,
	}
}

// GetCity fetches a city by id.
func (c *Client) GetCity(ctx context.Context, id, token string) (*domain.CityRef, error) {
	var city domain.CityRef
	found, err := c.get(ctx, "/cities/"+id, token, &city)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperrors.NewNotFound(fmt.Sprintf("city not found with id: %s", id), map[string]any{"city_id": id})
	}
	return &city, nil
}

// GetVillage fetches a village by id.
func (c *Client) GetVillage(ctx context.Context, id, token string) (*domain.VillageRef, error) {
	var village domain.VillageRef
	found, err := c.get(ctx, "/villages/"+id, token, &village)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperrors.NewNotFound(fmt.Sprintf("village not found with id: %s", id), map[string]any{"village_id": id})
	}
	return &village, nil
}

// get issues a bearer-authenticated GET and decodes the JSON body into out.
// Returns found=false for 404 and for empty 2xx bodies; both mean the
// downstream has no such resource.
func (c *Client) get(ctx context.Context, path, token string, out any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return false, apperrors.NewInternalError(err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.logger.Warn("location service unreachable", zap.String("path", path), zap.Error(err))
		return false, apperrors.NewUnavailable("location service unavailable", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return false, apperrors.NewInvalidCredential("location service rejected credential")
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return false, apperrors.NewUnavailable(
			fmt.Sprintf("location service returned status %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, apperrors.NewUnavailable("reading location service response", err)
	}
	if len(body) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return false, apperrors.NewUnavailable("decoding location service response", err)
	}
	return true, nil
}
