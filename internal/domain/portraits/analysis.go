package portraits

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedAnalysis: el payload del servicio no es JSON válido.
	// Nunca hacemos recuperación parcial; un payload roto es fatal.
	ErrMalformedAnalysis = errors.New("malformed analysis payload")

	// ErrMissingSpiritAnimal: JSON bien formado pero sin nombre de animal
	// espiritual. Lo distinguimos del parse error porque indica respuesta
	// incompleta, no rota.
	ErrMissingSpiritAnimal = errors.New("analysis missing spirit animal")
)

// Textos por defecto que ve el usuario cuando el modelo omite un campo.
const (
	defaultUnknown     = "Nie określono"
	defaultSoulPurpose = "Brak opisu celu duszy"
)

// UnmarshalJSON acepta las dos variantes históricas de "healing":
// string plano o un objeto {"description": "..."}.
// Las normalizamos a string acá, una sola vez, para que ningún
// consumidor tenga que volver a mirar el formato.
func (p *PainPath) UnmarshalJSON(data []byte) error {
	type alias PainPath
	aux := struct {
		*alias
		Healing json.RawMessage `json:"healing"`
	}{alias: (*alias)(p)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if len(aux.Healing) == 0 || string(aux.Healing) == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(aux.Healing, &s); err == nil {
		p.Healing = s
		return nil
	}

	var obj struct {
		Description string `json:"description"`
	}
	if err := json.Unmarshal(aux.Healing, &obj); err != nil {
		return err
	}
	p.Healing = obj.Description
	return nil
}

// ParseAnalysis convierte el texto crudo de un run completado en un
// SoulAnalysis ya normalizado.
func ParseAnalysis(raw string) (SoulAnalysis, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return SoulAnalysis{}, fmt.Errorf("%w: empty payload", ErrMalformedAnalysis)
	}

	var a SoulAnalysis
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		return SoulAnalysis{}, fmt.Errorf("%w: %v", ErrMalformedAnalysis, err)
	}

	if strings.TrimSpace(a.SpiritAnimal.Name) == "" {
		return SoulAnalysis{}, ErrMissingSpiritAnimal
	}

	return Normalize(a), nil
}

// Normalize rellena todo campo opcional ausente con un valor neutro
// explícito. Después de pasar por acá, ningún consumidor tiene que
// preguntarse "presente o no" dos veces: los bloques nil siguen nil
// (ausentes), pero los presentes no tienen campos sin valor.
func Normalize(a SoulAnalysis) SoulAnalysis {
	if strings.TrimSpace(a.SoulPurpose) == "" {
		a.SoulPurpose = defaultSoulPurpose
	}

	if strings.TrimSpace(a.SpiritAnimal.Name) == "" {
		a.SpiritAnimal.Name = defaultUnknown
	}
	if a.SpiritAnimal.Symbolism == nil {
		a.SpiritAnimal.Symbolism = []string{}
	}

	if strings.TrimSpace(a.GuardianAngel.Name) == "" {
		a.GuardianAngel.Name = defaultUnknown
	}

	if a.SpiritualGifts == nil {
		a.SpiritualGifts = []string{}
	}
	if a.KarmicLessons == nil {
		a.KarmicLessons = []string{}
	}

	if a.TreeOfLife != nil {
		if a.TreeOfLife.Attributes == nil {
			a.TreeOfLife.Attributes = []string{}
		}
		if a.TreeOfLife.Challenges == nil {
			a.TreeOfLife.Challenges = []string{}
		}
	}
	if a.LifeNumber != nil {
		if a.LifeNumber.Strengths == nil {
			a.LifeNumber.Strengths = []string{}
		}
		if a.LifeNumber.Weaknesses == nil {
			a.LifeNumber.Weaknesses = []string{}
		}
	}
	if a.PassionPath != nil && a.PassionPath.SpiritualGifts == nil {
		a.PassionPath.SpiritualGifts = []string{}
	}
	if a.PainPath != nil && a.PainPath.Lessons == nil {
		a.PainPath.Lessons = []string{}
	}

	return a
}
