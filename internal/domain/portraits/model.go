package portraits

import "time"

// BirthData son los atributos de nacimiento que identifican al sujeto.
// Llegan ya validados desde el formulario (ver handler de generation);
// acá solo importan como identidad y como input del prompt.
type BirthData struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	BirthDate  string `json:"birthDate"` // YYYY-MM-DD
	BirthTime  string `json:"birthTime"` // HH:mm, opcional
	BirthPlace string `json:"birthPlace"`
}

// IdentityKey es la tupla que usamos para detectar duplicados.
// Solo sirve para comparar; nunca se persiste como entidad aparte.
type IdentityKey struct {
	FirstName  string
	LastName   string
	BirthDate  string
	BirthTime  string
	BirthPlace string
}

func (b BirthData) Identity() IdentityKey {
	return IdentityKey{
		FirstName:  b.FirstName,
		LastName:   b.LastName,
		BirthDate:  b.BirthDate,
		BirthTime:  b.BirthTime,
		BirthPlace: b.BirthPlace,
	}
}

// SpiritAnimal es el único bloque obligatorio del análisis:
// sin nombre de animal el payload se considera incompleto.
type SpiritAnimal struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Symbolism   []string `json:"symbolism"`
	Guidance    string   `json:"guidance"`
	ImageURL    string   `json:"imageUrl,omitempty"`
}

type GuardianAngel struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type TreeOfLife struct {
	Sefira      string   `json:"sefira"`
	Description string   `json:"description"`
	Attributes  []string `json:"attributes"`
	Challenges  []string `json:"challenges"`
}

type LifeNumber struct {
	Number     int      `json:"number"`
	Meaning    string   `json:"meaning"`
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
}

type PassionPath struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	SpiritualGifts []string `json:"spiritualGifts"`
	Mission        string   `json:"mission"`
}

type PainPath struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Lessons     []string `json:"lessons"`
	Healing     string   `json:"healing"`
}

// SoulAnalysis es el esquema canónico de la interpretación.
// Los bloques opcionales son punteros: nil = ausente (tras Normalize
// sigue siendo nil, pero los bloques presentes quedan sin campos "undefined").
type SoulAnalysis struct {
	SoulPurpose      string        `json:"soulPurpose"`
	TreeOfLife       *TreeOfLife   `json:"treeOfLife,omitempty"`
	LifeNumber       *LifeNumber   `json:"lifeNumber,omitempty"`
	PassionPath      *PassionPath  `json:"passionPath,omitempty"`
	PainPath         *PainPath     `json:"painPath,omitempty"`
	SpiritualGifts   []string      `json:"spiritualGifts"`
	KarmicLessons    []string      `json:"karmicLessons"`
	DivineProtection string        `json:"divineProtection"`
	SpiritAnimal     SpiritAnimal  `json:"spiritAnimal"`
	GuardianAngel    GuardianAngel `json:"guardianAngel"`
}

// SavedPortrait es el artefacto persistido. Se crea solo en Service.Save;
// después de creado no se muta (se borra individual o con clear).
type SavedPortrait struct {
	ID        string       `json:"id"`
	CreatedAt time.Time    `json:"createdAt"`
	BirthData BirthData    `json:"birthData"`
	Analysis  SoulAnalysis `json:"analysis"`
	ImageURL  string       `json:"imageUrl"`
}

// Draft es lo que entra a Save: todavía sin id ni createdAt.
type Draft struct {
	BirthData BirthData
	Analysis  SoulAnalysis
	ImageURL  string
}
