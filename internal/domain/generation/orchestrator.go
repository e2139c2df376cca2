package generation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"soul-portrait/internal/ports/assistant"

	"go.uber.org/zap"
)

// Config del loop de polling. Los valores de referencia vienen del
// comportamiento observado del servicio: poll de 1s, backoff de 2s,
// 3 reintentos. MaxWait acota el tiempo total de espera (el servicio
// no garantiza expirar runs colgados).
type Config struct {
	PollInterval time.Duration
	RetryBackoff time.Duration
	MaxRetries   int
	MaxWait      time.Duration
}

func (c Config) withDefaults() Config {
	if c.PollInterval <= 0 {
		c.PollInterval = time.Second
	}
	if c.RetryBackoff <= 0 {
		c.RetryBackoff = 2 * time.Second
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.MaxWait <= 0 {
		c.MaxWait = 5 * time.Minute
	}
	return c
}

// Orchestrator lleva un job contra el servicio de razonamiento hasta
// un estado terminal. Maneja exactamente un job por llamada; el estado
// vive en el scope de Run y muere con él.
type Orchestrator struct {
	runner assistant.Runner
	cfg    Config
	log    *zap.SugaredLogger

	// inyectables para tests (sin timers reales)
	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

func NewOrchestrator(runner assistant.Runner, cfg Config, log *zap.SugaredLogger) *Orchestrator {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Orchestrator{
		runner: runner,
		cfg:    cfg.withDefaults(),
		log:    log,
		sleep:  sleepCtx,
		now:    time.Now,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Run manda el mensaje, pollea hasta estado terminal y devuelve el
// texto crudo del resultado. Los errores salen sin clasificar salvo
// los terminales del state machine; Classify corre en el facade.
func (o *Orchestrator) Run(ctx context.Context, message string) (string, error) {
	threadID, err := o.runner.SubmitThread(ctx, message)
	if err != nil {
		return "", fmt.Errorf("submit thread: %w", err)
	}

	runID, err := o.runner.StartRun(ctx, threadID)
	if err != nil {
		return "", fmt.Errorf("start run: %w", err)
	}

	job := Job{ThreadID: threadID, RunID: runID, Status: JobQueued}
	deadline := o.now().Add(o.cfg.MaxWait)

	o.log.Debugw("job submitted", "thread", threadID, "run", runID)

	for {
		if o.now().After(deadline) {
			return "", newError(KindUnexpected, "generation timed out", nil)
		}

		run, err := o.runner.PollRun(ctx, threadID, job.RunID)
		if err != nil {
			return "", fmt.Errorf("poll run: %w", err)
		}

		next, action, terr := Next(job, run, o.cfg.MaxRetries)
		job = next

		switch action {
		case ActionWait:
			if err := o.sleep(ctx, o.cfg.PollInterval); err != nil {
				return "", err
			}

		case ActionRetry:
			o.log.Infow("run failed, retrying on same thread",
				"thread", threadID, "retry", job.RetryCount, "last_error", run.LastError)
			if err := o.sleep(ctx, o.cfg.RetryBackoff); err != nil {
				return "", err
			}
			newRunID, err := o.runner.StartRun(ctx, threadID)
			if err != nil {
				return "", fmt.Errorf("restart run: %w", err)
			}
			job.RunID = newRunID

		case ActionFetch:
			msg, err := o.runner.LatestMessage(ctx, threadID)
			if err != nil {
				return "", fmt.Errorf("fetch result: %w", err)
			}
			if msg.Kind != assistant.MessageKindText || strings.TrimSpace(msg.Text) == "" {
				return "", newError(KindUnexpected, "run completed without text content", nil)
			}
			return msg.Text, nil

		case ActionAbort:
			return "", terr
		}
	}
}
