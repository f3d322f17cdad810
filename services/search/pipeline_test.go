package search

import (
	"context"
	"errors"
	"testing"

	"foodmap/models"
	"foodmap/services/cuisine"
	"foodmap/services/places"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	geocodeResults []places.GeoPoint
	geocodeErr     error
	geocodeCalls   []string

	summaries []places.PlaceSummary
	searchErr error
	lastQuery string
	lastPoint places.GeoPoint

	details    map[string]*places.PlaceDetail
	detailErrs map[string]error
}

func (s *stubProvider) Geocode(_ context.Context, address string) ([]places.GeoPoint, error) {
	s.geocodeCalls = append(s.geocodeCalls, address)
	return s.geocodeResults, s.geocodeErr
}

func (s *stubProvider) SearchPlaces(_ context.Context, location places.GeoPoint, query string, _ uint) ([]places.PlaceSummary, error) {
	s.lastPoint = location
	s.lastQuery = query
	return s.summaries, s.searchErr
}

func (s *stubProvider) PlaceDetail(_ context.Context, placeID string) (*places.PlaceDetail, error) {
	if err, ok := s.detailErrs[placeID]; ok {
		return nil, err
	}
	if detail, ok := s.details[placeID]; ok {
		return detail, nil
	}
	return &places.PlaceDetail{}, nil
}

type stubStore struct {
	nextID    uint
	placeRows map[string]*models.Place
	reviews   map[uint][]Review
	favorites map[string]bool
}

func newStubStore() *stubStore {
	return &stubStore{
		placeRows: make(map[string]*models.Place),
		reviews:   make(map[uint][]Review),
		favorites: make(map[string]bool),
	}
}

func (s *stubStore) GetOrCreatePlace(googlePlaceID string) (*models.Place, error) {
	if place, ok := s.placeRows[googlePlaceID]; ok {
		return place, nil
	}
	s.nextID++
	place := &models.Place{GooglePlaceID: googlePlaceID}
	place.ID = s.nextID
	s.placeRows[googlePlaceID] = place
	return place, nil
}

func (s *stubStore) CachePlaceDetail(*models.Place, interface{}) {}

func (s *stubStore) ReviewsForPlace(placeID uint) ([]Review, error) {
	return s.reviews[placeID], nil
}

func (s *stubStore) FavoritePlaceIDs(uint) (map[string]bool, error) {
	return s.favorites, nil
}

func (s *stubStore) AddFavorite(_ uint, googlePlaceID string) (*models.Place, error) {
	place, _ := s.GetOrCreatePlace(googlePlaceID)
	if s.favorites[googlePlaceID] {
		return place, ErrAlreadyFavorited
	}
	s.favorites[googlePlaceID] = true
	return place, nil
}

func (s *stubStore) RemoveFavorite(_ uint, googlePlaceID string) (*models.Place, error) {
	if !s.favorites[googlePlaceID] {
		return nil, ErrNotFavorited
	}
	delete(s.favorites, googlePlaceID)
	return s.placeRows[googlePlaceID], nil
}

type stubClassifier struct {
	classification *cuisine.Classification
	err            error
	descriptions   []string
	names          []string
}

func (s *stubClassifier) Classify(_ context.Context, description, name string) (*cuisine.Classification, error) {
	s.descriptions = append(s.descriptions, description)
	s.names = append(s.names, name)
	return s.classification, s.err
}

func operationalSummary(id, name string, rating float32) places.PlaceSummary {
	return places.PlaceSummary{
		PlaceID:        id,
		Name:           name,
		BusinessStatus: "OPERATIONAL",
		Rating:         rating,
		Location:       places.GeoPoint{Lat: 37.7749, Lng: -122.4194},
	}
}

func TestSearchFiltersAndMerges(t *testing.T) {
	provider := &stubProvider{
		summaries: []places.PlaceSummary{
			operationalSummary("place-a", "Trattoria Alpha", 4.5),
			{PlaceID: "place-b", Name: "Closed Beta", BusinessStatus: "CLOSED_TEMPORARILY", Rating: 5.0},
			operationalSummary("place-c", "Low Gamma", 3.0),
			operationalSummary("place-d", "Unrated Delta", 0),
			operationalSummary("place-e", "Broken Epsilon", 4.2),
		},
		details: map[string]*places.PlaceDetail{
			"place-a": {
				Name:        "Trattoria Alpha",
				AdrAddress:  `<span class="street-address">12 Vine St</span>, <span class="locality">San Francisco</span>`,
				PhoneNumber: "(415) 555-0100",
				URL:         "https://maps.google.com/?cid=1",
				Reviews: []places.PlaceReview{
					{AuthorName: "Ana", Rating: 5, Text: "Great pasta", Time: 1700000000},
				},
				OpeningHours: &places.OpeningHours{OpenNow: true, WeekdayText: []string{"Monday: 9AM-9PM"}},
			},
			"place-d": {Name: "Unrated Delta"},
		},
		detailErrs: map[string]error{
			"place-e": places.ErrProviderUnavailable,
		},
	}

	store := newStubStore()
	store.favorites["place-a"] = true

	pipeline := New(provider, nil, store)

	results, err := pipeline.Search(context.Background(), 7, &Request{
		Location:   Coordinates{Lat: 37.7749, Lng: -122.4194},
		SearchMode: ModeCuisineType,
		Query:      "Italian",
		Radius:     1000,
		Rating:     4.0,
	})
	require.NoError(t, err)

	// Non-operational and below-threshold candidates are skipped; the
	// failing detail lookup drops its candidate without aborting the batch.
	require.Len(t, results, 2)
	assert.Equal(t, "place-a", results[0].PlaceID)
	assert.Equal(t, "place-d", results[1].PlaceID)

	assert.Equal(t, "Cuisine type: Italian", provider.lastQuery)

	first := results[0]
	assert.True(t, first.IsFavoritePlace)
	assert.Equal(t, "12 Vine St", first.ContactInfo.Address.StreetAddress)
	assert.Equal(t, "San Francisco", first.ContactInfo.Address.Locality)
	assert.Equal(t, "(415) 555-0100", first.ContactInfo.PhoneNumber)
	assert.True(t, first.OpenNow)
	assert.Len(t, first.Reviews, 1)
	assert.Equal(t, "Ana", first.Reviews[0].AuthorName)

	assert.False(t, results[1].IsFavoritePlace)
}

func TestSearchMergesLocalReviews(t *testing.T) {
	provider := &stubProvider{
		summaries: []places.PlaceSummary{operationalSummary("place-a", "Alpha", 4.5)},
		details:   map[string]*places.PlaceDetail{"place-a": {Name: "Alpha"}},
	}

	store := newStubStore()
	place, err := store.GetOrCreatePlace("place-a")
	require.NoError(t, err)
	store.reviews[place.ID] = []Review{
		{AuthorName: "Bob", Rating: 4.5, Text: "Solid spot", Time: 1700000100},
	}

	pipeline := New(provider, nil, store)
	results, err := pipeline.Search(context.Background(), 1, &Request{SearchMode: ModeLocationName, Query: "tacos"})
	require.NoError(t, err)

	require.Len(t, results, 1)
	require.Len(t, results[0].CustomReviews, 1)
	assert.Equal(t, "Bob", results[0].CustomReviews[0].AuthorName)
}

func TestSearchInvalidMode(t *testing.T) {
	pipeline := New(&stubProvider{}, nil, newStubStore())

	_, err := pipeline.Search(context.Background(), 1, &Request{SearchMode: "by_vibes"})
	assert.ErrorIs(t, err, ErrInvalidSearchMode)
}

func TestResolveGeocoding(t *testing.T) {
	t.Run("first candidate wins", func(t *testing.T) {
		provider := &stubProvider{
			geocodeResults: []places.GeoPoint{{Lat: 40.71, Lng: -74.0}, {Lat: 1, Lng: 1}},
		}
		pipeline := New(provider, nil, newStubStore())

		point, _, err := pipeline.resolve(context.Background(), &Request{
			Location:     Coordinates{Lat: 37.7749, Lng: -122.4194},
			LocationName: "New York",
			SearchMode:   ModeLocationName,
		})
		require.NoError(t, err)
		assert.Equal(t, places.GeoPoint{Lat: 40.71, Lng: -74.0}, point)
		assert.Equal(t, []string{"New York"}, provider.geocodeCalls)
	})

	t.Run("zero candidates keeps supplied point", func(t *testing.T) {
		pipeline := New(&stubProvider{}, nil, newStubStore())

		point, _, err := pipeline.resolve(context.Background(), &Request{
			Location:     Coordinates{Lat: 37.7749, Lng: -122.4194},
			LocationName: "Atlantis",
			SearchMode:   ModeLocationName,
		})
		require.NoError(t, err)
		assert.Equal(t, places.GeoPoint{Lat: 37.7749, Lng: -122.4194}, point)
	})

	t.Run("geocode failure keeps supplied point", func(t *testing.T) {
		pipeline := New(&stubProvider{geocodeErr: places.ErrProviderUnavailable}, nil, newStubStore())

		point, _, err := pipeline.resolve(context.Background(), &Request{
			Location:     Coordinates{Lat: 1.5, Lng: 2.5},
			LocationName: "Nowhere",
			SearchMode:   ModeLocationName,
		})
		require.NoError(t, err)
		assert.Equal(t, places.GeoPoint{Lat: 1.5, Lng: 2.5}, point)
	})
}

func TestResolveQueryByMode(t *testing.T) {
	pipeline := New(&stubProvider{}, nil, newStubStore())

	tests := []struct {
		name string
		req  Request
		want string
	}{
		{
			name: "cuisine mode prefixes",
			req:  Request{SearchMode: ModeCuisineType, CuisineType: "Thai"},
			want: "Cuisine type: Thai",
		},
		{
			name: "cuisine mode falls back to query",
			req:  Request{SearchMode: ModeCuisineType, Query: "Italian"},
			want: "Cuisine type: Italian",
		},
		{
			name: "restaurant name mode appends",
			req:  Request{SearchMode: ModeRestaurantName, Query: "dinner", RestaurantName: "Luigi's"},
			want: "dinner; Restaurant name: Luigi's",
		},
		{
			name: "location mode passes query through",
			req:  Request{SearchMode: ModeLocationName, Query: "ramen"},
			want: "ramen",
		},
	}

	for _, tt := range tests {
		_, query, err := pipeline.resolve(context.Background(), &tt.req)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, query, tt.name)
	}
}

func TestSearchClassification(t *testing.T) {
	provider := &stubProvider{
		summaries: []places.PlaceSummary{operationalSummary("place-a", "Alpha", 4.5)},
		details: map[string]*places.PlaceDetail{
			"place-a": {
				Name:             "Alpha",
				EditorialSummary: &places.EditorialSummary{Overview: "Cozy pasta and wine bar"},
			},
		},
	}

	classifier := &stubClassifier{
		classification: &cuisine.Classification{Labels: []string{"Italian", "French"}, Summary: "Italian, French"},
	}

	pipeline := New(provider, classifier, newStubStore())
	results, err := pipeline.Search(context.Background(), 1, &Request{SearchMode: ModeLocationName})
	require.NoError(t, err)

	require.Len(t, results, 1)
	require.NotNil(t, results[0].Cuisine)
	assert.Equal(t, []string{"Italian", "French"}, results[0].Cuisine.Labels)
	assert.Equal(t, []string{"Cozy pasta and wine bar"}, classifier.descriptions)
}

func TestSearchClassifierFailureDegrades(t *testing.T) {
	provider := &stubProvider{
		summaries: []places.PlaceSummary{operationalSummary("place-a", "Alpha", 4.5)},
		details:   map[string]*places.PlaceDetail{"place-a": {Name: "Alpha"}},
	}

	classifier := &stubClassifier{err: errors.New("encoder offline")}

	pipeline := New(provider, classifier, newStubStore())
	results, err := pipeline.Search(context.Background(), 1, &Request{SearchMode: ModeLocationName})
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Nil(t, results[0].Cuisine)
}
