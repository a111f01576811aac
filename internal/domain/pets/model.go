package pets

import "time"

// Species define las especies soportadas.
// @Enum dog, cat
type Species string

const (
	SpeciesDog Species = "dog"
	SpeciesCat Species = "cat"
)

// Sex define el sexo de la mascota.
// @Enum male, female, unknown
type Sex string

const (
	SexMale    Sex = "male"
	SexFemale  Sex = "female"
	SexUnknown Sex = "unknown"
)

// Pet representa el perfil de una mascota registrada.
// Los callejeros que alguien encuentra también entran acá: quien los
// reporta crea un perfil mínimo y queda como OwnerUserID provisional.
type Pet struct {
	ID          string
	OwnerUserID string

	Name    string
	Species string // dog, cat
	Breed   string // texto libre ("labrador retriever")
	Sex     string // male, female, unknown

	// Atributos que consume el motor de matching.
	// Age es texto libre ("3 years"); si está vacío y hay BirthDate,
	// la edad se deriva al armar el candidato.
	Age      string
	FurColor string
	EyeColor string

	BirthDate *time.Time
	Microchip string

	Notes string

	CreatedAt time.Time
	UpdatedAt time.Time
}
