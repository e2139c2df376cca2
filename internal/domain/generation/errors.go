package generation

import (
	"errors"
	"strings"

	"soul-portrait/internal/domain/portraits"
)

// Kind es la taxonomía estable de errores que sale del core.
// Ningún error de transporte crudo debería cruzar este borde.
type Kind string

const (
	KindRateLimit           Kind = "rate_limit"
	KindInsufficientFunds   Kind = "insufficient_funds"
	KindMissingSpiritAnimal Kind = "missing_spirit_animal"
	KindDuplicate           Kind = "duplicate"
	KindGeneric             Kind = "generic"
	KindUnexpected          Kind = "unexpected"
)

type Error struct {
	Kind  Kind
	msg   string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.msg + ": " + e.cause.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.cause }

func newError(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, msg: msg, cause: cause}
}

// Marcadores de quota/billing/cuenta dada de baja en mensajes upstream.
var fundsMarkers = []string{
	"insufficient_quota",
	"billing_hard_limit_reached",
	"account_deactivated",
}

// Classify mapea cualquier fallo a un Kind. Se evalúa una sola vez,
// en el borde del facade; un error ya clasificado pasa sin re-envolver.
func Classify(err error) error {
	return classify(err, KindUnexpected)
}

func classify(err error, fallback Kind) error {
	if err == nil {
		return nil
	}

	var ce *Error
	if errors.As(err, &ce) {
		return err
	}

	switch {
	case errors.Is(err, portraits.ErrDuplicate):
		return newError(KindDuplicate, "duplicate portrait", err)
	case errors.Is(err, portraits.ErrMissingSpiritAnimal):
		return newError(KindMissingSpiritAnimal, "incomplete analysis", err)
	case errors.Is(err, portraits.ErrMalformedAnalysis):
		return newError(KindUnexpected, "unparseable analysis", err)
	}

	lower := strings.ToLower(err.Error())
	for _, marker := range fundsMarkers {
		if strings.Contains(lower, marker) {
			return newError(KindInsufficientFunds, "upstream account exhausted", err)
		}
	}

	return newError(fallback, "generation failed", err)
}

// KindOf devuelve el Kind de un error ya clasificado
// (KindUnexpected para cualquier otro).
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindUnexpected
}
