package generation

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"soul-portrait/internal/domain/portraits"

	"github.com/go-chi/chi/v5"
)

// Mensajes que ve el usuario, por kind. Vienen del producto original.
const (
	msgRateLimit         = "Energia portali jest chwilowo intensywna. Zapraszamy do tworzenia nowych portretów od jutra, gdy wibracje się ustabilizują. 🌟"
	msgValidation        = "Twoje dane wymagają harmonijnego dostrojenia. Sprawdź proszę wszystkie pola. ✨"
	msgGeneric           = "Wszechświat potrzebuje chwili na dostrojenie. Spróbuj ponownie za moment, gdy energie się zrównoważą. 🌌"
	msgUnexpected        = "Kosmiczne wibracje są obecnie w fazie transformacji. Poczekaj chwilę i spróbuj ponownie. 🌠"
	msgInsufficientFunds = "Portale astralne wymagają chwili regeneracji. Zapraszamy do ponownej próby za kilka minut, gdy energie się odnowią. 🌙"
	msgDuplicate         = "Portret dla tych danych już istnieje."
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/portraits/generate", generateHandler(svc))
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error   string       `json:"error"`
	Details []fieldError `json:"details,omitempty"`
}

type duplicateResponse struct {
	Error    string                  `json:"error"`
	Portrait portraits.SavedPortrait `json:"portrait"`
}

func generateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var birth portraits.BirthData
		if err := json.NewDecoder(r.Body).Decode(&birth); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgValidation})
			return
		}

		if details := validateBirthData(birth); len(details) > 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{
				Error:   msgValidation,
				Details: details,
			})
			return
		}

		saved, err := svc.Generate(r.Context(), birth)
		if err != nil {
			writeGenerationError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, saved)
	}
}

func writeGenerationError(w http.ResponseWriter, err error) {
	switch KindOf(err) {
	case KindDuplicate:
		// Señal recuperable: devolvemos el registro existente para que
		// la UI pueda llevar al usuario a su retrato.
		var dup *portraits.DuplicateError
		if errors.As(err, &dup) {
			writeJSON(w, http.StatusConflict, duplicateResponse{
				Error:    msgDuplicate,
				Portrait: dup.Existing,
			})
			return
		}
		writeJSON(w, http.StatusConflict, errorResponse{Error: msgDuplicate})

	case KindRateLimit:
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: msgRateLimit})

	case KindInsufficientFunds:
		writeJSON(w, http.StatusPaymentRequired, errorResponse{Error: msgInsufficientFunds})

	case KindMissingSpiritAnimal:
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: msgUnexpected})

	case KindGeneric:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: msgGeneric})

	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: msgUnexpected})
	}
}

var (
	nameRe  = regexp.MustCompile(`^[A-Za-zĄąĆćĘęŁłŃńÓóŚśŹźŻż\s-]+$`)
	placeRe = regexp.MustCompile(`^[A-Za-zĄąĆćĘęŁłŃńÓóŚśŹźŻż\s,.-]+$`)
	dateRe  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timeRe  = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)
)

// validateBirthData replica el esquema del formulario. El core confía
// en esta pre-validación; del payload upstream solo valida estructura.
func validateBirthData(b portraits.BirthData) []fieldError {
	var out []fieldError

	if err := validateName(b.FirstName); err != "" {
		out = append(out, fieldError{Field: "firstName", Message: err})
	}
	if err := validateName(b.LastName); err != "" {
		out = append(out, fieldError{Field: "lastName", Message: err})
	}

	if !dateRe.MatchString(b.BirthDate) {
		out = append(out, fieldError{Field: "birthDate", Message: "Nieprawidłowy format daty"})
	} else {
		d, err := time.Parse("2006-01-02", b.BirthDate)
		floor := time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)
		if err != nil || d.Before(floor) || d.After(time.Now()) {
			out = append(out, fieldError{Field: "birthDate", Message: "Data urodzenia musi być między 1900-01-01 a dniem dzisiejszym"})
		}
	}

	if strings.TrimSpace(b.BirthTime) != "" && !timeRe.MatchString(b.BirthTime) {
		out = append(out, fieldError{Field: "birthTime", Message: "Nieprawidłowy format godziny (HH:mm)"})
	}

	place := b.BirthPlace
	n := utf8.RuneCountInString(place)
	switch {
	case n < 2 || n > 100:
		out = append(out, fieldError{Field: "birthPlace", Message: "Miejsce urodzenia musi mieć od 2 do 100 znaków"})
	case !placeRe.MatchString(place):
		out = append(out, fieldError{Field: "birthPlace", Message: "Miejsce urodzenia może zawierać tylko litery, spacje, przecinki, kropki i myślniki"})
	}

	return out
}

func validateName(s string) string {
	n := utf8.RuneCountInString(s)
	if n < 2 || n > 50 {
		return "Pole musi mieć od 2 do 50 znaków"
	}
	if !nameRe.MatchString(s) {
		return "Pole może zawierać tylko litery, spacje i myślniki"
	}
	return ""
}

// writeJSON duplicado a propósito entre handlers de distintos módulos;
// si aparece un tercero, recién ahí vale extraerlo a un helper común.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
