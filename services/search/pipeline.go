package search

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"foodmap/services/cuisine"
	"foodmap/services/places"
	"foodmap/utils"
)

// Search modes accepted by the resolver.
const (
	ModeCuisineType    = "cuisine_type"
	ModeRestaurantName = "restaurant_name"
	ModeLocationName   = "location_name"
)

const operationalStatus = "OPERATIONAL"

// ErrInvalidSearchMode marks a request whose search mode is not one of the
// known modes. It is user-correctable and maps to a bad request.
var ErrInvalidSearchMode = errors.New("invalid search mode")

// Provider is the slice of the places gateway the pipeline depends on.
type Provider interface {
	Geocode(ctx context.Context, address string) ([]places.GeoPoint, error)
	SearchPlaces(ctx context.Context, location places.GeoPoint, query string, radiusMeters uint) ([]places.PlaceSummary, error)
	PlaceDetail(ctx context.Context, placeID string) (*places.PlaceDetail, error)
}

// Classifier produces the optional cuisine enrichment.
type Classifier interface {
	Classify(ctx context.Context, description, name string) (*cuisine.Classification, error)
}

// Coordinates mirrors the {lat,lng} pair used on the wire.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Request is one restaurant search as submitted by the frontend.
type Request struct {
	Location       Coordinates `json:"location"`
	LocationName   string      `json:"location_name"`
	SearchMode     string      `json:"search_mode"`
	Query          string      `json:"query"`
	CuisineType    string      `json:"cuisine_type"`
	RestaurantName string      `json:"restaurant_name"`
	Radius         uint        `json:"radius"`
	Rating         float64     `json:"rating"`
}

// Review is a review entry in the response payload, provider-sourced or local.
type Review struct {
	AuthorName string  `json:"author_name"`
	Rating     float64 `json:"rating"`
	Text       string  `json:"text"`
	Time       int64   `json:"time"`
}

type ResultLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type ContactInfo struct {
	Address        Address `json:"address"`
	PhoneNumber    string  `json:"phone_number"`
	GoogleMapsPage string  `json:"google_maps_page"`
}

// Result is one enriched place in the search response, merging the
// provider record with local review and favorite state.
type Result struct {
	PlaceID         string                  `json:"place_id"`
	PlaceName       string                  `json:"place_name"`
	Location        ResultLocation          `json:"location"`
	ContactInfo     ContactInfo             `json:"contact_info"`
	Rating          float32                 `json:"rating"`
	OpenNow         bool                    `json:"open_now"`
	OpeningHours    []string                `json:"opening_hours"`
	Reviews         []Review                `json:"reviews"`
	CustomReviews   []Review                `json:"custom_reviews"`
	IsFavoritePlace bool                    `json:"is_favorite_place"`
	Cuisine         *cuisine.Classification `json:"cuisine,omitempty"`
}

// Pipeline runs one search end to end: resolve the query, search the
// provider, filter and merge with local state, classify cuisine. It is
// stateless between requests.
type Pipeline struct {
	provider   Provider
	classifier Classifier // may be nil, classification is then skipped
	store      Store
	retry      utils.RetryConfig
}

func New(provider Provider, classifier Classifier, store Store) *Pipeline {
	return &Pipeline{
		provider:   provider,
		classifier: classifier,
		store:      store,
		retry:      utils.RetryConfig{MaxAttempts: 2, BaseDelay: 500 * time.Millisecond},
	}
}

// Search executes the request for the given user and returns enriched
// results in the provider's ordering.
func (p *Pipeline) Search(ctx context.Context, userID uint, req *Request) ([]Result, error) {
	point, query, err := p.resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	radius := req.Radius
	if radius == 0 {
		radius = 1000
	}

	var summaries []places.PlaceSummary
	err = p.retry.Do("places search", func() error {
		var searchErr error
		summaries, searchErr = p.provider.SearchPlaces(ctx, point, query, radius)
		return searchErr
	})
	if err != nil {
		return nil, err
	}

	favorites, err := p.store.FavoritePlaceIDs(userID)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(summaries))
	var dropped []string

	for _, summary := range summaries {
		// Business-status filter, then rating floor. Summaries without a
		// rating pass the floor.
		if !strings.EqualFold(summary.BusinessStatus, operationalStatus) {
			continue
		}
		if summary.Rating > 0 && float64(summary.Rating) < req.Rating {
			continue
		}

		result, err := p.enrich(ctx, summary, favorites)
		if err != nil {
			// One bad candidate must not abort the batch.
			dropped = append(dropped, fmt.Sprintf("%s: %v", summary.PlaceID, err))
			continue
		}
		results = append(results, *result)
	}

	if len(dropped) > 0 {
		log.Printf("Search dropped %d candidate(s) after enrichment failures: %s", len(dropped), strings.Join(dropped, "; "))
	}

	return results, nil
}

// resolve turns the request into a concrete geo-point and provider query.
func (p *Pipeline) resolve(ctx context.Context, req *Request) (places.GeoPoint, string, error) {
	point := places.GeoPoint{Lat: req.Location.Lat, Lng: req.Location.Lng}

	if name := strings.TrimSpace(req.LocationName); name != "" {
		candidates, err := p.provider.Geocode(ctx, name)
		switch {
		case err != nil:
			// Degrade to the supplied point rather than failing the search.
			log.Printf("Geocoding %q failed, using supplied location: %v", name, err)
		case len(candidates) > 0:
			point = candidates[0] // first candidate wins
		}
	}

	query := req.Query
	switch req.SearchMode {
	case ModeCuisineType:
		value := req.CuisineType
		if value == "" {
			value = req.Query
		}
		query = "Cuisine type: " + value
	case ModeRestaurantName:
		value := req.RestaurantName
		if value == "" {
			value = req.Query
		}
		query = query + "; Restaurant name: " + value
	case ModeLocationName:
		// Location text searches pass the query through untouched.
	default:
		return point, "", fmt.Errorf("%w: %q", ErrInvalidSearchMode, req.SearchMode)
	}

	return point, query, nil
}

// enrich builds the full result for one surviving summary: detail lookup,
// local place resolution, review and favorite merge, cuisine classification.
func (p *Pipeline) enrich(ctx context.Context, summary places.PlaceSummary, favorites map[string]bool) (*Result, error) {
	detail, err := p.provider.PlaceDetail(ctx, summary.PlaceID)
	if err != nil {
		return nil, err
	}

	place, err := p.store.GetOrCreatePlace(summary.PlaceID)
	if err != nil {
		return nil, err
	}
	p.store.CachePlaceDetail(place, detail)

	customReviews, err := p.store.ReviewsForPlace(place.ID)
	if err != nil {
		return nil, err
	}

	name := detail.Name
	if name == "" {
		name = summary.Name
	}

	result := &Result{
		PlaceID:   summary.PlaceID,
		PlaceName: name,
		Location: ResultLocation{
			Latitude:  summary.Location.Lat,
			Longitude: summary.Location.Lng,
		},
		ContactInfo: ContactInfo{
			Address:        addressFromAdr(detail.AdrAddress),
			PhoneNumber:    detail.PhoneNumber,
			GoogleMapsPage: detail.URL,
		},
		Rating:          summary.Rating,
		OpenNow:         summary.OpenNow,
		Reviews:         providerReviews(detail.Reviews),
		CustomReviews:   customReviews,
		IsFavoritePlace: favorites[summary.PlaceID],
	}

	if detail.OpeningHours != nil {
		result.OpenNow = detail.OpeningHours.OpenNow
		result.OpeningHours = detail.OpeningHours.WeekdayText
	}

	if p.classifier != nil {
		description := ""
		if detail.EditorialSummary != nil {
			description = detail.EditorialSummary.Overview
		}
		classification, err := p.classifier.Classify(ctx, description, name)
		if err != nil {
			// Best effort: a missing encoder degrades to no cuisine field.
			log.Printf("Cuisine classification skipped for %s: %v", summary.PlaceID, err)
		} else {
			result.Cuisine = classification
		}
	}

	return result, nil
}

func providerReviews(reviews []places.PlaceReview) []Review {
	converted := make([]Review, 0, len(reviews))
	for _, review := range reviews {
		converted = append(converted, Review{
			AuthorName: review.AuthorName,
			Rating:     review.Rating,
			Text:       review.Text,
			Time:       review.Time,
		})
	}
	return converted
}
