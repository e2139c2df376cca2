package generation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"soul-portrait/internal/domain/portraits"
	"soul-portrait/internal/ports/assistant"
)

// -------------------------
// Fakes del facade
// -------------------------

type fakeImages struct {
	url        string
	err        error
	calls      int
	lastPrompt string
}

func (f *fakeImages) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	f.lastPrompt = prompt
	return f.url, f.err
}

type facadeRepo struct {
	items []portraits.SavedPortrait
}

func (r *facadeRepo) Insert(ctx context.Context, p portraits.SavedPortrait) error {
	r.items = append(r.items, p)
	return nil
}

func (r *facadeRepo) FindByIdentity(ctx context.Context, key portraits.IdentityKey) (portraits.SavedPortrait, bool, error) {
	for _, p := range r.items {
		if p.BirthData.Identity() == key {
			return p, true, nil
		}
	}
	return portraits.SavedPortrait{}, false, nil
}

func (r *facadeRepo) List(ctx context.Context) ([]portraits.SavedPortrait, error) {
	return r.items, nil
}

func (r *facadeRepo) Delete(ctx context.Context, id string) error { return nil }
func (r *facadeRepo) DeleteAll(ctx context.Context) error         { r.items = nil; return nil }

func annaKowalska() portraits.BirthData {
	return portraits.BirthData{
		FirstName:  "Anna",
		LastName:   "Kowalska",
		BirthDate:  "1990-05-01",
		BirthPlace: "Warszawa",
	}
}

const wilkPayload = `{
	"soulPurpose": "Niesienie światła innym",
	"spiritAnimal": {"name": "Wilk", "description": "strażnik instynktu"},
	"spiritualGifts": ["intuicja"]
}`

func newFacade(runner *fakeRunner, imgs *fakeImages, repo portraits.Repository) *Service {
	o, _ := newTestOrchestrator(runner)
	return NewService(o, imgs, portraits.NewService(repo), nil, nil)
}

// -------------------------
// Tests
// -------------------------

func TestService_Generate_EndToEnd(t *testing.T) {
	runner := &fakeRunner{
		statuses: []assistant.RunStatus{assistant.StatusQueued, assistant.StatusCompleted},
		message:  assistant.Message{Kind: assistant.MessageKindText, Text: wilkPayload},
	}
	imgs := &fakeImages{url: "https://img.example/wilk.png"}
	repo := &facadeRepo{}
	svc := newFacade(runner, imgs, repo)

	saved, err := svc.Generate(context.Background(), annaKowalska())
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	if saved.Analysis.SpiritAnimal.Name != "Wilk" {
		t.Fatalf("expected Wilk, got %q", saved.Analysis.SpiritAnimal.Name)
	}
	if saved.ImageURL == "" {
		t.Fatalf("expected non-empty image url")
	}
	if saved.ID == "" || saved.CreatedAt.IsZero() {
		t.Fatalf("expected generated id/createdAt")
	}
	// el prompt de imagen lleva el contenido simbólico
	if !strings.Contains(imgs.lastPrompt, "Wilk") || !strings.Contains(imgs.lastPrompt, "Warszawa") {
		t.Fatalf("image prompt missing subject content: %s", imgs.lastPrompt)
	}
	// y todo campo opcional quedó con default
	if saved.Analysis.GuardianAngel.Name == "" || saved.Analysis.KarmicLessons == nil {
		t.Fatalf("analysis not fully defaulted: %#v", saved.Analysis)
	}
}

func TestService_Generate_SecondIdenticalSubmission_Duplicate(t *testing.T) {
	runner := &fakeRunner{
		statuses: []assistant.RunStatus{assistant.StatusCompleted},
		message:  assistant.Message{Kind: assistant.MessageKindText, Text: wilkPayload},
	}
	imgs := &fakeImages{url: "https://img.example/wilk.png"}
	repo := &facadeRepo{}
	svc := newFacade(runner, imgs, repo)

	first, err := svc.Generate(context.Background(), annaKowalska())
	if err != nil {
		t.Fatalf("Generate #1 error: %v", err)
	}

	_, err = svc.Generate(context.Background(), annaKowalska())
	if KindOf(err) != KindDuplicate {
		t.Fatalf("expected duplicate, got %v", err)
	}

	var dup *portraits.DuplicateError
	if !errors.As(err, &dup) || dup.Existing.ID != first.ID {
		t.Fatalf("duplicate must carry the existing record")
	}
	if len(repo.items) != 1 {
		t.Fatalf("no second record may be created, got %d", len(repo.items))
	}
}

func TestService_Generate_MalformedPayload_Unexpected(t *testing.T) {
	runner := &fakeRunner{
		statuses: []assistant.RunStatus{assistant.StatusCompleted},
		message:  assistant.Message{Kind: assistant.MessageKindText, Text: "OPIS: dusza"},
	}
	imgs := &fakeImages{url: "x"}
	svc := newFacade(runner, imgs, &facadeRepo{})

	_, err := svc.Generate(context.Background(), annaKowalska())
	if KindOf(err) != KindUnexpected {
		t.Fatalf("expected unexpected, got %v", err)
	}
	if imgs.calls != 0 {
		t.Fatalf("image must not be requested after parse failure")
	}
}

func TestService_Generate_MissingSpiritAnimal(t *testing.T) {
	runner := &fakeRunner{
		statuses: []assistant.RunStatus{assistant.StatusCompleted},
		message:  assistant.Message{Kind: assistant.MessageKindText, Text: `{"soulPurpose":"cel"}`},
	}
	svc := newFacade(runner, &fakeImages{url: "x"}, &facadeRepo{})

	_, err := svc.Generate(context.Background(), annaKowalska())
	if KindOf(err) != KindMissingSpiritAnimal {
		t.Fatalf("expected missing_spirit_animal, got %v", err)
	}
}

func TestService_Generate_ImageFailure_Generic_NoTextRetry(t *testing.T) {
	runner := &fakeRunner{
		statuses: []assistant.RunStatus{assistant.StatusCompleted},
		message:  assistant.Message{Kind: assistant.MessageKindText, Text: wilkPayload},
	}
	imgs := &fakeImages{err: errors.New("no image generated")}
	repo := &facadeRepo{}
	svc := newFacade(runner, imgs, repo)

	_, err := svc.Generate(context.Background(), annaKowalska())
	if KindOf(err) != KindGeneric {
		t.Fatalf("expected generic for image failure, got %v", err)
	}
	// una sola pasada de texto y nada persistido
	if runner.submitCalls != 1 {
		t.Fatalf("image failure must not re-trigger text generation")
	}
	if len(repo.items) != 0 {
		t.Fatalf("nothing may be persisted on image failure")
	}
}

func TestService_Generate_ExpiredRun_RateLimit(t *testing.T) {
	runner := &fakeRunner{
		statuses: []assistant.RunStatus{assistant.StatusExpired},
	}
	svc := newFacade(runner, &fakeImages{url: "x"}, &facadeRepo{})

	_, err := svc.Generate(context.Background(), annaKowalska())
	if KindOf(err) != KindRateLimit {
		t.Fatalf("expected rate_limit, got %v", err)
	}
}
