package generation

import (
	"fmt"

	"soul-portrait/internal/ports/assistant"
)

// JobStatus es el estado local del job; vive solo durante una llamada
// al facade y nunca se persiste.
type JobStatus string

const (
	JobCreated    JobStatus = "created"
	JobQueued     JobStatus = "queued"
	JobInProgress JobStatus = "in_progress"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
	JobExpired    JobStatus = "expired"
	JobCancelled  JobStatus = "cancelled"
)

type Job struct {
	ThreadID   string
	RunID      string
	Status     JobStatus
	RetryCount int
}

// Action le dice al driver qué hacer después de una transición.
type Action int

const (
	// ActionWait: dormir el intervalo de poll y volver a consultar.
	ActionWait Action = iota
	// ActionRetry: esperar el backoff y crear un run nuevo en el mismo thread.
	ActionRetry
	// ActionFetch: el run terminó bien; buscar el mensaje de resultado.
	ActionFetch
	// ActionAbort: estado terminal sin resultado; el error acompaña.
	ActionAbort
)

// Next es la función de transición (estado, evento) -> estado'.
// Separada del loop para poder testear cada transición sin timers reales.
func Next(j Job, polled assistant.Run, maxRetries int) (Job, Action, error) {
	switch polled.Status {
	case assistant.StatusQueued:
		j.Status = JobQueued
		return j, ActionWait, nil

	case assistant.StatusInProgress:
		j.Status = JobInProgress
		return j, ActionWait, nil

	case assistant.StatusCompleted:
		j.Status = JobCompleted
		return j, ActionFetch, nil

	case assistant.StatusFailed:
		if j.RetryCount < maxRetries {
			j.RetryCount++
			j.Status = JobQueued
			return j, ActionRetry, nil
		}
		j.Status = JobFailed
		// Sin clasificar a propósito: el detalle del last_error puede
		// contener marcadores de quota que Classify sabe leer.
		return j, ActionAbort, fmt.Errorf("run failed after %d attempts: %s", j.RetryCount+1, polled.LastError)

	case assistant.StatusExpired:
		// Terminal inmediato, sin retry aunque queden intentos.
		j.Status = JobExpired
		return j, ActionAbort, newError(KindRateLimit, "run expired", nil)

	case assistant.StatusCancelled:
		j.Status = JobCancelled
		return j, ActionAbort, newError(KindGeneric, "run cancelled", nil)

	default:
		j.Status = JobCancelled
		return j, ActionAbort, newError(KindGeneric, fmt.Sprintf("unrecognized run status %q", polled.Status), nil)
	}
}
