package matching

import "math"

// earthRadiusKm: aproximación esférica, suficiente para radios de búsqueda urbanos.
const earthRadiusKm = 6371.0

// Coordinates es un par longitud/latitud en grados.
type Coordinates struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

// DistanceKm calcula la distancia de círculo máximo entre dos puntos (haversine).
// Pura y total: cualquier par de coordenadas válidas da un resultado finito.
// Quien tenga coordenadas faltantes debe decidir el fallback ANTES de llamar;
// en este motor el fallback es el valor cero [0,0] (ver Candidate.coords),
// que produce distancias grandes pero finitas en vez de fallar.
func DistanceKm(a, b Coordinates) float64 {
	lat1 := toRad(a.Lat)
	lat2 := toRad(b.Lat)
	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)

	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLng*sinLng

	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
