package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Classroom reference point used across the project.
var classroom = Point{Lat: 11.00314, Lon: 76.20058}

func TestDistanceIdentity(t *testing.T) {
	assert.Equal(t, 0.0, Distance(classroom, classroom))
}

func TestDistanceSymmetry(t *testing.T) {
	other := Point{Lat: 11.01000, Lon: 76.21000}
	assert.InDelta(t, Distance(classroom, other), Distance(other, classroom), 1e-9)
}

func TestDistanceLatitudeDegree(t *testing.T) {
	// One degree of latitude is ~111.19 km on a 6371 km sphere.
	d := Distance(Point{Lat: 0, Lon: 0}, Point{Lat: 1, Lon: 0})
	assert.InDelta(t, 111194.9, d, 10)
}

func TestWithinRadiusBoundary(t *testing.T) {
	// ~0.00044 degrees of latitude is just under 50 m, ~0.00046 just over.
	inside := Point{Lat: classroom.Lat + 0.00044, Lon: classroom.Lon}
	outside := Point{Lat: classroom.Lat + 0.00046, Lon: classroom.Lon}

	assert.True(t, Within(classroom, inside, 50))
	assert.False(t, Within(classroom, outside, 50))
}

func TestWithinExactRadius(t *testing.T) {
	p := Point{Lat: classroom.Lat + 0.00030, Lon: classroom.Lon}
	r := Distance(classroom, p)

	// A point at exactly the configured radius is accepted; one meter
	// beyond is rejected.
	assert.True(t, Within(classroom, p, r))
	assert.False(t, Within(classroom, p, r-1))
}
