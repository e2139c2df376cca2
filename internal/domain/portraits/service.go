package portraits

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")

	// ErrDuplicate es una señal recuperable, no un fallo: el caller puede
	// redirigir al usuario al retrato existente en vez de abortar.
	ErrDuplicate = errors.New("portrait already exists")
)

// DuplicateError envuelve ErrDuplicate y lleva el registro existente.
type DuplicateError struct {
	Existing SavedPortrait
}

func (e *DuplicateError) Error() string { return ErrDuplicate.Error() }
func (e *DuplicateError) Is(target error) bool { return target == ErrDuplicate }

// Service es el store de retratos con dedup-on-insert.
// El check-then-insert no es atómico a nivel repo, así que lo
// serializamos con un mutex acá.
type Service struct {
	repo Repository

	mu    sync.Mutex
	now   func() time.Time
	newID func() string
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:  repo,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Save inserta un draft nuevo o devuelve DuplicateError con el registro
// existente si la identidad ya está en el store.
func (s *Service) Save(ctx context.Context, d Draft) (SavedPortrait, error) {
	if strings.TrimSpace(d.BirthData.FirstName) == "" || strings.TrimSpace(d.BirthData.LastName) == "" {
		return SavedPortrait{}, ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, found, err := s.repo.FindByIdentity(ctx, d.BirthData.Identity())
	if err != nil {
		return SavedPortrait{}, err
	}
	if found {
		existing.Analysis = Normalize(existing.Analysis)
		return SavedPortrait{}, &DuplicateError{Existing: existing}
	}

	p := SavedPortrait{
		ID:        s.newID(),
		CreatedAt: s.now(),
		BirthData: d.BirthData,
		Analysis:  Normalize(d.Analysis),
		ImageURL:  d.ImageURL,
	}

	if err := s.repo.Insert(ctx, p); err != nil {
		return SavedPortrait{}, err
	}
	return p, nil
}

// List devuelve todos los retratos en orden de inserción.
// El orden "más reciente primero" es cosa de la UI, no del store.
func (s *Service) List(ctx context.Context) ([]SavedPortrait, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]SavedPortrait, 0, len(items))
	for _, p := range items {
		// Registros insertados antes de un cambio de esquema pueden venir
		// con bloques faltantes; los normalizamos siempre al salir.
		p.Analysis = Normalize(p.Analysis)
		out = append(out, p)
	}
	return out, nil
}

// Delete es no-op si el id no existe.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) Clear(ctx context.Context) error {
	return s.repo.DeleteAll(ctx)
}
