package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/swiftride/dispatch/internal/pkg/models"
)

func TestCalculateDistance(t *testing.T) {
	// Monas to Kota Tua, roughly 4.5km apart
	monas := GeoPoint{Latitude: -6.175392, Longitude: 106.827153}
	kotaTua := GeoPoint{Latitude: -6.137654, Longitude: 106.817125}

	distance := CalculateDistance(monas, kotaTua)
	assert.InDelta(t, 4.35, distance, 0.5)
}

func TestCalculateDistance_SamePoint(t *testing.T) {
	p := GeoPoint{Latitude: -6.2, Longitude: 106.8}
	assert.Equal(t, 0.0, CalculateDistance(p, p))
}

func TestEncodeDecodeLocation(t *testing.T) {
	loc := models.Location{Latitude: -6.175392, Longitude: 106.827153}

	hash := EncodeLocation(loc, 9)
	assert.Len(t, hash, 9)

	lat, lng := DecodeGeohash(hash)
	assert.InDelta(t, loc.Latitude, lat, 0.001)
	assert.InDelta(t, loc.Longitude, lng, 0.001)
}

func TestGetNeighbors(t *testing.T) {
	hash := EncodeLocation(models.Location{Latitude: -6.175392, Longitude: 106.827153}, 6)
	neighbors := GetNeighbors(hash)
	assert.Len(t, neighbors, 8)
}
