package matching

// Weights es la tabla de puntajes del scorer. Vive en configuración
// (no hardcodeada) para poder tunearla sin tocar código.
type Weights struct {
	BreedExact   int `yaml:"breed_exact" json:"breed_exact"`
	BreedPartial int `yaml:"breed_partial" json:"breed_partial"`
	FurColor     int `yaml:"fur_color" json:"fur_color"`
	EyeColor     int `yaml:"eye_color" json:"eye_color"`
	Age          int `yaml:"age" json:"age"`
	Proximity    int `yaml:"proximity" json:"proximity"`
}

// Config agrupa pesos y umbrales del motor.
//
// Dos radios distintos a propósito:
// - SearchRadiusKm: pre-filtro barato del scanner; pares más lejos
//   ni siquiera se puntúan.
// - ScoreRadiusKm: radio fino que suma Proximity dentro del scorer.
type Config struct {
	Weights Weights `yaml:"weights" json:"weights"`

	// MatchThreshold: puntaje mínimo para que el scanner registre un match.
	MatchThreshold int `yaml:"match_threshold" json:"match_threshold"`

	// QueryThreshold: mínimo default del endpoint de consulta ad-hoc.
	QueryThreshold int `yaml:"query_threshold" json:"query_threshold"`

	SearchRadiusKm float64 `yaml:"search_radius_km" json:"search_radius_km"`
	ScoreRadiusKm  float64 `yaml:"score_radius_km" json:"score_radius_km"`

	// AgeToleranceYears: diferencia de edad (inclusive) que todavía suma.
	AgeToleranceYears float64 `yaml:"age_tolerance_years" json:"age_tolerance_years"`
}

func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			BreedExact:   4,
			BreedPartial: 2,
			FurColor:     3,
			EyeColor:     2,
			Age:          2,
			Proximity:    6,
		},
		MatchThreshold:    7,
		QueryThreshold:    8,
		SearchRadiusKm:    10,
		ScoreRadiusKm:     3,
		AgeToleranceYears: 1,
	}
}

// MaxScore: techo teórico con la tabla actual (17 con los defaults).
func (c Config) MaxScore() int {
	w := c.Weights
	return w.BreedExact + w.FurColor + w.EyeColor + w.Age + w.Proximity
}

// ConfigSource entrega la config vigente en cada uso. Permite hot-reload
// (config.Holder) sin que scorer/scanner sepan de archivos ni watchers.
type ConfigSource interface {
	Current() Config
}

// Static fija una config inmutable (tests, CLI one-shot).
func Static(c Config) ConfigSource { return staticSource{c} }

type staticSource struct{ c Config }

func (s staticSource) Current() Config { return s.c }
