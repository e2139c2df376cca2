package portraits

import (
	"errors"
	"testing"
)

func TestParseAnalysis_MalformedPayload(t *testing.T) {
	cases := []string{
		"",
		"   ",
		"to nie jest json",
		`{"spiritAnimal": `,
		`OPIS: poetycki opis duszy`,
	}
	for _, raw := range cases {
		_, err := ParseAnalysis(raw)
		if !errors.Is(err, ErrMalformedAnalysis) {
			t.Fatalf("ParseAnalysis(%q): expected ErrMalformedAnalysis, got %v", raw, err)
		}
	}
}

func TestParseAnalysis_MissingSpiritAnimal(t *testing.T) {
	cases := []string{
		`{}`,
		`{"soulPurpose":"cel"}`,
		`{"spiritAnimal":{}}`,
		`{"spiritAnimal":{"name":"   "}}`,
	}
	for _, raw := range cases {
		_, err := ParseAnalysis(raw)
		if !errors.Is(err, ErrMissingSpiritAnimal) {
			t.Fatalf("ParseAnalysis(%q): expected ErrMissingSpiritAnimal, got %v", raw, err)
		}
	}
}

func TestParseAnalysis_DefaultsEverything(t *testing.T) {
	a, err := ParseAnalysis(`{"spiritAnimal":{"name":"Wilk"}}`)
	if err != nil {
		t.Fatalf("ParseAnalysis error: %v", err)
	}

	if a.SpiritAnimal.Name != "Wilk" {
		t.Fatalf("expected Wilk, got %q", a.SpiritAnimal.Name)
	}
	if a.SpiritAnimal.Symbolism == nil {
		t.Fatalf("symbolism must default to empty slice")
	}
	if a.SoulPurpose != "Brak opisu celu duszy" {
		t.Fatalf("soulPurpose default missing, got %q", a.SoulPurpose)
	}
	if a.GuardianAngel.Name != "Nie określono" {
		t.Fatalf("guardianAngel default missing, got %q", a.GuardianAngel.Name)
	}
	if a.SpiritualGifts == nil || a.KarmicLessons == nil {
		t.Fatalf("list fields must default to empty slices")
	}
	// bloques opcionales ausentes quedan ausentes, no inventados
	if a.TreeOfLife != nil || a.LifeNumber != nil || a.PassionPath != nil || a.PainPath != nil {
		t.Fatalf("absent blocks must stay nil")
	}
}

func TestParseAnalysis_PresentBlocksGetInnerDefaults(t *testing.T) {
	raw := `{
		"spiritAnimal": {"name": "Sowa", "symbolism": ["mądrość"]},
		"treeOfLife": {"sefira": "Tiferet"},
		"lifeNumber": {"number": 7, "meaning": "poszukiwacz"},
		"passionPath": {"name": "Ścieżka twórcy"},
		"painPath": {"name": "Ścieżka cienia"}
	}`

	a, err := ParseAnalysis(raw)
	if err != nil {
		t.Fatalf("ParseAnalysis error: %v", err)
	}

	if a.TreeOfLife == nil || a.TreeOfLife.Attributes == nil || a.TreeOfLife.Challenges == nil {
		t.Fatalf("treeOfLife inner lists must be defaulted")
	}
	if a.LifeNumber == nil || a.LifeNumber.Strengths == nil || a.LifeNumber.Weaknesses == nil {
		t.Fatalf("lifeNumber inner lists must be defaulted")
	}
	if a.PassionPath == nil || a.PassionPath.SpiritualGifts == nil {
		t.Fatalf("passionPath gifts must be defaulted")
	}
	if a.PainPath == nil || a.PainPath.Lessons == nil {
		t.Fatalf("painPath lessons must be defaulted")
	}
}

func TestParseAnalysis_HealingVariants(t *testing.T) {
	// variante histórica 1: string plano
	a, err := ParseAnalysis(`{"spiritAnimal":{"name":"Wilk"},"painPath":{"healing":"wybaczenie"}}`)
	if err != nil {
		t.Fatalf("string variant: %v", err)
	}
	if a.PainPath.Healing != "wybaczenie" {
		t.Fatalf("string variant: got %q", a.PainPath.Healing)
	}

	// variante histórica 2: objeto con description
	a, err = ParseAnalysis(`{"spiritAnimal":{"name":"Wilk"},"painPath":{"healing":{"description":"akceptacja"}}}`)
	if err != nil {
		t.Fatalf("object variant: %v", err)
	}
	if a.PainPath.Healing != "akceptacja" {
		t.Fatalf("object variant: got %q", a.PainPath.Healing)
	}

	// null se tolera
	a, err = ParseAnalysis(`{"spiritAnimal":{"name":"Wilk"},"painPath":{"healing":null}}`)
	if err != nil {
		t.Fatalf("null variant: %v", err)
	}
	if a.PainPath.Healing != "" {
		t.Fatalf("null variant: got %q", a.PainPath.Healing)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	a := Normalize(SoulAnalysis{SpiritAnimal: SpiritAnimal{Name: "Wilk"}})
	b := Normalize(a)

	if b.SoulPurpose != a.SoulPurpose || b.GuardianAngel.Name != a.GuardianAngel.Name {
		t.Fatalf("Normalize must be idempotent")
	}
}
