package utils

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/umahmood/haversine"
	"googlemaps.github.io/maps"
)

/*──────────── reusable, thread-safe Geocoding client ────────────*/

var (
	gmapsClientOnce sync.Once
	gmapsClient     *maps.Client
	gmapsClientErr  error
)

func getGMapsClient(apiKey string) (*maps.Client, error) {
	gmapsClientOnce.Do(func() {
		Logger.Info("[GMapsClient] Initializing Google Maps client...")
		gmapsClient, gmapsClientErr = maps.NewClient(maps.WithAPIKey(apiKey))
		if gmapsClientErr != nil {
			Logger.WithError(gmapsClientErr).Error("[GMapsClient] Failed to initialize Google Maps client")
		}
	})
	return gmapsClient, gmapsClientErr
}

// GeocodeAddress resolves a postal address to coordinates. It returns
// ErrMissingConfiguration without an API key and ErrNotFound when Google
// has no match.
func GeocodeAddress(ctx context.Context, apiKey, address string) (float64, float64, error) {
	if apiKey == "" {
		return 0, 0, ErrMissingConfiguration
	}
	cli, err := getGMapsClient(apiKey)
	if err != nil {
		return 0, 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	results, err := cli.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		return 0, 0, fmt.Errorf("%w: geocode: %v", ErrExternalServiceFailure, err)
	}
	if len(results) == 0 {
		return 0, 0, ErrNotFound
	}
	loc := results[0].Geometry.Location
	return loc.Lat, loc.Lng, nil
}

// DistanceKm is the great-circle distance between two points.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := haversine.Coord{Lat: lat1, Lon: lon1}
	p2 := haversine.Coord{Lat: lat2, Lon: lon2}
	_, km := haversine.Distance(p1, p2)
	return km
}
