package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/moneybridge/moneybridge/config"
)

// FullAddress is a geocoded branch address.
type FullAddress struct {
	RoadAddress   string
	StreetAddress string
	Latitude      string
	Longitude     string
}

// Geocoder resolves a free-form address.
type Geocoder interface {
	FullAddress(ctx context.Context, address string) (*FullAddress, error)
}

// ErrAddressNotFound is returned when the geocoding API has no match.
var ErrAddressNotFound = errors.New("address not found")

// NaverGeocoder calls the Naver Cloud geocode API.
type NaverGeocoder struct {
	endpoint     string
	clientID     string
	clientSecret string
	httpClient   *http.Client
}

func NewNaverGeocoder(cfg config.AppConfig) *NaverGeocoder {
	return &NaverGeocoder{
		endpoint:     cfg.GeocodeURL,
		clientID:     cfg.GeocodeClientID,
		clientSecret: cfg.GeocodeClientSecret,
		httpClient:   &http.Client{Timeout: 5 * time.Second},
	}
}

type naverGeocodeResponse struct {
	Status    string `json:"status"`
	Addresses []struct {
		RoadAddress  string `json:"roadAddress"`
		JibunAddress string `json:"jibunAddress"`
		X            string `json:"x"`
		Y            string `json:"y"`
	} `json:"addresses"`
	ErrorMessage string `json:"errorMessage"`
}

func (g *NaverGeocoder) FullAddress(ctx context.Context, address string) (*FullAddress, error) {
	u, err := url.Parse(g.endpoint)
	if err != nil {
		return nil, fmt.Errorf("geocode endpoint: %w", err)
	}
	q := u.Query()
	q.Set("query", address)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-NCP-APIGW-API-KEY-ID", g.clientID)
	req.Header.Set("X-NCP-APIGW-API-KEY", g.clientSecret)
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode status %d", resp.StatusCode)
	}

	var body naverGeocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("geocode decode: %w", err)
	}
	if body.Status != "OK" {
		return nil, fmt.Errorf("geocode status %s: %s", body.Status, body.ErrorMessage)
	}
	if len(body.Addresses) == 0 {
		return nil, ErrAddressNotFound
	}
	a := body.Addresses[0]
	return &FullAddress{
		RoadAddress:   a.RoadAddress,
		StreetAddress: a.JibunAddress,
		Latitude:      a.Y,
		Longitude:     a.X,
	}, nil
}
