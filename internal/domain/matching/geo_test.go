package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKm_Symmetry(t *testing.T) {
	a := Coordinates{Lng: 34.78, Lat: 32.09}
	b := Coordinates{Lng: 34.781, Lat: 32.091}

	assert.Equal(t, DistanceKm(a, b), DistanceKm(b, a))
}

func TestDistanceKm_SamePointIsZero(t *testing.T) {
	a := Coordinates{Lng: 34.78, Lat: 32.09}

	assert.Equal(t, 0.0, DistanceKm(a, a))
	assert.Equal(t, 0.0, DistanceKm(Coordinates{}, Coordinates{}))
}

func TestDistanceKm_KnownDistances(t *testing.T) {
	// Dos puntos a ~150m (el caso típico: misma cuadra).
	a := Coordinates{Lng: 34.78, Lat: 32.09}
	b := Coordinates{Lng: 34.781, Lat: 32.091}
	assert.InDelta(t, 0.146, DistanceKm(a, b), 0.01)

	// Londres - París, referencia conocida (~343 km).
	london := Coordinates{Lng: -0.1276, Lat: 51.5072}
	paris := Coordinates{Lng: 2.3522, Lat: 48.8566}
	assert.InDelta(t, 343.5, DistanceKm(london, paris), 2.0)
}

func TestDistanceKm_MissingCoordsSentinel(t *testing.T) {
	// El fallback [0,0] de coordenadas faltantes produce distancias
	// grandes pero finitas: el par queda fuera de cualquier radio útil
	// sin romper el barrido.
	somewhere := Coordinates{Lng: 34.78, Lat: 32.09}
	d := DistanceKm(somewhere, Coordinates{})

	assert.Greater(t, d, 1000.0)
	assert.Less(t, d, 21000.0) // media circunferencia terrestre
}
