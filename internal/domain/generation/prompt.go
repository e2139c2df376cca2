package generation

import (
	"fmt"
	"strings"

	"soul-portrait/internal/domain/portraits"
)

// userMessage arma la descripción del sujeto para el asistente.
// El asistente ya tiene configuradas las instrucciones de formato;
// acá va solo el dato de nacimiento, en el idioma del producto.
func userMessage(b portraits.BirthData) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Imię: %s\n", b.FirstName)
	fmt.Fprintf(&sb, "Nazwisko: %s\n", b.LastName)
	fmt.Fprintf(&sb, "Data urodzenia: %s\n", b.BirthDate)
	if strings.TrimSpace(b.BirthTime) != "" {
		fmt.Fprintf(&sb, "Godzina urodzenia: %s\n", b.BirthTime)
	}
	fmt.Fprintf(&sb, "Miejsce urodzenia: %s", b.BirthPlace)
	return sb.String()
}

const imagePreamble = "Create an artistic, abstract soul portrait that combines " +
	"the essence of a human soul with their spirit animal."

const imageClosing = "The image should subtly incorporate spirit animal elements " +
	"in an ethereal and mystical way. Style: high quality art, professional " +
	"composition, spiritual and mystical atmosphere."

// imagePrompt combina el preámbulo fijo con el contenido simbólico del
// análisis y el lugar de nacimiento del sujeto.
func imagePrompt(a portraits.SoulAnalysis, b portraits.BirthData) string {
	parts := []string{imagePreamble}

	parts = append(parts, fmt.Sprintf("Spirit animal: %s.", a.SpiritAnimal.Name))
	if desc := strings.TrimSpace(a.SpiritAnimal.Description); desc != "" {
		parts = append(parts, desc)
	}
	if purpose := strings.TrimSpace(a.SoulPurpose); purpose != "" && purpose != defaultSoulPurposeText {
		parts = append(parts, fmt.Sprintf("Soul essence: %s", purpose))
	}
	if place := strings.TrimSpace(b.BirthPlace); place != "" {
		parts = append(parts, fmt.Sprintf("A soul born in %s.", place))
	}

	parts = append(parts, imageClosing)
	return strings.Join(parts, " ")
}

// mismo default que usa portraits.Normalize; no queremos meter el
// fallback polaco dentro del prompt en inglés
const defaultSoulPurposeText = "Brak opisu celu duszy"
