package generation

import (
	"context"
	"time"

	"soul-portrait/internal/domain/portraits"
	"soul-portrait/internal/platform/metrics"
	"soul-portrait/internal/ports/images"

	"go.uber.org/zap"
)

// Service es el facade: orquesta job -> parse -> imagen -> store.
// Una llamada, un job; todo error que sale de acá ya está clasificado.
type Service struct {
	orch   *Orchestrator
	images images.Generator
	store  *portraits.Service
	met    *metrics.Metrics
	log    *zap.SugaredLogger
}

func NewService(orch *Orchestrator, gen images.Generator, store *portraits.Service, met *metrics.Metrics, log *zap.SugaredLogger) *Service {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Service{
		orch:   orch,
		images: gen,
		store:  store,
		met:    met,
		log:    log,
	}
}

func (s *Service) Generate(ctx context.Context, birth portraits.BirthData) (portraits.SavedPortrait, error) {
	start := time.Now()
	s.met.IncStarted()

	raw, err := s.orch.Run(ctx, userMessage(birth))
	if err != nil {
		return portraits.SavedPortrait{}, s.fail(Classify(err))
	}

	analysis, err := portraits.ParseAnalysis(raw)
	if err != nil {
		return portraits.SavedPortrait{}, s.fail(Classify(err))
	}

	// La imagen no se reintenta; si falla no volvemos a generar el texto.
	imageURL, err := s.images.Generate(ctx, imagePrompt(analysis, birth))
	if err != nil {
		return portraits.SavedPortrait{}, s.fail(classify(err, KindGeneric))
	}

	saved, err := s.store.Save(ctx, portraits.Draft{
		BirthData: birth,
		Analysis:  analysis,
		ImageURL:  imageURL,
	})
	if err != nil {
		return portraits.SavedPortrait{}, s.fail(Classify(err))
	}

	s.met.ObserveGeneration(start)
	s.met.IncSaved()
	s.log.Infow("portrait generated",
		"id", saved.ID, "animal", saved.Analysis.SpiritAnimal.Name)
	return saved, nil
}

func (s *Service) fail(err error) error {
	kind := KindOf(err)
	if kind == KindDuplicate {
		s.met.IncDuplicate()
	} else {
		s.met.IncFailure(string(kind))
	}
	s.log.Warnw("generation failed", "kind", string(kind), "err", err)
	return err
}
