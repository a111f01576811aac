package matching

import (
	"math"
	"strconv"
	"strings"
)

// PairScorer puntúa un par (lost, found). Lo implementa *Scorer;
// el scanner lo recibe como interfaz para poder espiarlo en tests.
type PairScorer interface {
	Score(lost, found Candidate) int
}

// Scorer calcula el puntaje heurístico de compatibilidad entre un
// reporte de pérdida y uno de hallazgo. Determinista y sin estado:
// mismos inputs, mismo puntaje (necesario para re-scans idempotentes).
type Scorer struct {
	cfg ConfigSource
}

func NewScorer(cfg ConfigSource) *Scorer {
	if cfg == nil {
		cfg = Static(DefaultConfig())
	}
	return &Scorer{cfg: cfg}
}

// Score aplica la tabla de pesos vigente.
//
// Especie es bloqueante: si falta en cualquiera de los dos lados, o
// difiere (case-insensitive), el puntaje es 0 sin crédito parcial.
// Todo lo demás degrada en silencio: atributo faltante o edad no
// parseable suman 0, nunca son error.
func (s *Scorer) Score(lost, found Candidate) int {
	return scoreWith(s.cfg.Current(), lost, found)
}

func scoreWith(cfg Config, lost, found Candidate) int {
	ls := norm(lost.Species)
	fs := norm(found.Species)
	if ls == "" || fs == "" || ls != fs {
		return 0
	}

	w := cfg.Weights
	total := 0

	// Raza: exacta > substring ("labrador" vs "labrador retriever") > nada.
	lb := norm(lost.Breed)
	fb := norm(found.Breed)
	switch {
	case lb != "" && lb == fb:
		total += w.BreedExact
	case lb != "" && fb != "" && (strings.Contains(lb, fb) || strings.Contains(fb, lb)):
		total += w.BreedPartial
	}

	if c := norm(lost.FurColor); c != "" && c == norm(found.FurColor) {
		total += w.FurColor
	}
	if c := norm(lost.EyeColor); c != "" && c == norm(found.EyeColor) {
		total += w.EyeColor
	}

	la, lok := parseAgeYears(lost.Age)
	fa, fok := parseAgeYears(found.Age)
	if lok && fok && math.Abs(la-fa) <= cfg.AgeToleranceYears {
		total += w.Age
	}

	// Radio fino: premia cercanía entre pares que ya pasaron el
	// pre-filtro grueso del caller. Coordenadas faltantes => [0,0].
	if DistanceKm(lost.coords(), found.coords()) <= cfg.ScoreRadiusKm {
		total += w.Proximity
	}

	return total
}

func norm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// parseAgeYears extrae la porción numérica inicial de un campo de edad
// libre: "3", "3.5", "3 years", "7 meses aprox" => 3, 3.5, 3, 7.
// Texto sin prefijo numérico no es error: simplemente no hay señal de edad.
func parseAgeYears(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	i := 0
	dot := false
	for i < len(s) {
		c := s[i]
		if c >= '0' && c <= '9' {
			i++
			continue
		}
		if c == '.' && !dot {
			dot = true
			i++
			continue
		}
		break
	}
	if i == 0 {
		return 0, false
	}

	v, err := strconv.ParseFloat(strings.TrimRight(s[:i], "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
