package places

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"foodmap/config"

	"github.com/go-resty/resty/v2"
	"googlemaps.github.io/maps"
)

var (
	// ErrProviderUnavailable covers transport failures, timeouts and
	// non-quota provider errors.
	ErrProviderUnavailable = errors.New("places provider unavailable")
	// ErrProviderRateLimited is returned when the provider reports a
	// query quota overrun.
	ErrProviderRateLimited = errors.New("places provider rate limited")
)

const detailsBaseURL = "https://maps.googleapis.com/maps/api/place"

// detailFields is everything the enrichment pipeline reads from a detail record.
const detailFields = "name,adr_address,formatted_phone_number,url,opening_hours,reviews,editorial_summary,rating"

type GeoPoint struct {
	Lat float64
	Lng float64
}

// PlaceSummary is one search result. Rating 0 means the provider carried
// no rating for the place.
type PlaceSummary struct {
	PlaceID        string
	Name           string
	Location       GeoPoint
	BusinessStatus string
	Rating         float32
	OpenNow        bool
}

type PlaceReview struct {
	AuthorName string  `json:"author_name"`
	Rating     float64 `json:"rating"`
	Time       int64   `json:"time"`
	Text       string  `json:"text"`
}

type OpeningHours struct {
	OpenNow     bool     `json:"open_now"`
	WeekdayText []string `json:"weekday_text"`
}

type EditorialSummary struct {
	Language string `json:"language"`
	Overview string `json:"overview"`
}

// PlaceDetail is the provider detail record for a single place. AdrAddress
// carries the semi-structured address markup the pipeline extracts fields
// from.
type PlaceDetail struct {
	Name             string            `json:"name"`
	AdrAddress       string            `json:"adr_address"`
	PhoneNumber      string            `json:"formatted_phone_number"`
	URL              string            `json:"url"`
	Rating           float32           `json:"rating"`
	OpeningHours     *OpeningHours     `json:"opening_hours"`
	Reviews          []PlaceReview     `json:"reviews"`
	EditorialSummary *EditorialSummary `json:"editorial_summary"`
}

type detailEnvelope struct {
	Result       PlaceDetail `json:"result"`
	Status       string      `json:"status"`
	ErrorMessage string      `json:"error_message"`
}

// Gateway is the adapter over the external maps provider. Geocoding,
// search, geolocation and timezone lookups go through the official maps
// client; detail lookups go over plain HTTP because the client does not
// expose the editorial summary field the cuisine classifier needs.
type Gateway struct {
	maps    *maps.Client
	details *resty.Client
	apiKey  string
	timeout time.Duration
}

// Client is the process-wide gateway handle, created once at startup.
var Client *Gateway

// Init constructs the global gateway from the loaded configuration.
func Init() {
	gateway, err := New(config.AppConfig.GoogleApiKey, time.Duration(config.AppConfig.ProviderTimeoutSec)*time.Second)
	if err != nil {
		log.Fatalf("Failed to create places gateway: %v", err)
	}
	Client = gateway
}

// New creates a Gateway talking to the Google Maps APIs with the given key.
func New(apiKey string, timeout time.Duration) (*Gateway, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}

	details := resty.New().
		SetBaseURL(detailsBaseURL).
		SetTimeout(timeout)

	return &Gateway{
		maps:    client,
		details: details,
		apiKey:  apiKey,
		timeout: timeout,
	}, nil
}

// Geocode resolves a free-text address to candidate geo-points, ordered by
// provider relevance. The list may be empty.
func (g *Gateway) Geocode(ctx context.Context, address string) ([]GeoPoint, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	results, err := g.maps.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		return nil, wrapProviderError("geocode", err)
	}

	points := make([]GeoPoint, 0, len(results))
	for _, result := range results {
		points = append(points, GeoPoint{
			Lat: result.Geometry.Location.Lat,
			Lng: result.Geometry.Location.Lng,
		})
	}
	return points, nil
}

// SearchPlaces runs a restaurant text search around the given point.
func (g *Gateway) SearchPlaces(ctx context.Context, location GeoPoint, query string, radiusMeters uint) ([]PlaceSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.maps.TextSearch(ctx, &maps.TextSearchRequest{
		Query:    query,
		Location: &maps.LatLng{Lat: location.Lat, Lng: location.Lng},
		Radius:   radiusMeters,
		Type:     maps.PlaceTypeRestaurant,
	})
	if err != nil {
		return nil, wrapProviderError("text search", err)
	}

	summaries := make([]PlaceSummary, 0, len(resp.Results))
	for _, result := range resp.Results {
		summary := PlaceSummary{
			PlaceID:        result.PlaceID,
			Name:           result.Name,
			BusinessStatus: result.BusinessStatus,
			Rating:         result.Rating,
			Location: GeoPoint{
				Lat: result.Geometry.Location.Lat,
				Lng: result.Geometry.Location.Lng,
			},
		}
		if result.OpeningHours != nil && result.OpeningHours.OpenNow != nil {
			summary.OpenNow = *result.OpeningHours.OpenNow
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// PlaceDetail fetches the detail record for one place.
func (g *Gateway) PlaceDetail(ctx context.Context, placeID string) (*PlaceDetail, error) {
	envelope := new(detailEnvelope)

	resp, err := g.details.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"place_id": placeID,
			"fields":   detailFields,
			"key":      g.apiKey,
		}).
		SetResult(envelope).
		Get("/details/json")
	if err != nil {
		return nil, fmt.Errorf("%w: place detail: %v", ErrProviderUnavailable, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: place detail returned HTTP %d", ErrProviderUnavailable, resp.StatusCode())
	}

	switch envelope.Status {
	case "OK":
		return &envelope.Result, nil
	case "OVER_QUERY_LIMIT":
		return nil, fmt.Errorf("%w: place detail: %s", ErrProviderRateLimited, envelope.ErrorMessage)
	default:
		return nil, fmt.Errorf("%w: place detail status %s: %s", ErrProviderUnavailable, envelope.Status, envelope.ErrorMessage)
	}
}

// Geolocate estimates the caller's current position.
func (g *Gateway) Geolocate(ctx context.Context) (GeoPoint, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	result, err := g.maps.Geolocate(ctx, &maps.GeolocationRequest{ConsiderIP: true})
	if err != nil {
		return GeoPoint{}, wrapProviderError("geolocate", err)
	}
	return GeoPoint{Lat: result.Location.Lat, Lng: result.Location.Lng}, nil
}

// TimezoneFor resolves the IANA timezone id covering the given point.
func (g *Gateway) TimezoneFor(ctx context.Context, location GeoPoint) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	result, err := g.maps.Timezone(ctx, &maps.TimezoneRequest{
		Location:  &maps.LatLng{Lat: location.Lat, Lng: location.Lng},
		Timestamp: time.Now(),
	})
	if err != nil {
		return "", wrapProviderError("timezone", err)
	}
	return result.TimeZoneID, nil
}

// wrapProviderError maps maps-client errors onto the gateway's error
// taxonomy. The client reports quota overruns only through the status text.
func wrapProviderError(operation string, err error) error {
	if strings.Contains(err.Error(), "OVER_QUERY_LIMIT") {
		return fmt.Errorf("%w: %s: %v", ErrProviderRateLimited, operation, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrProviderUnavailable, operation, err)
}
