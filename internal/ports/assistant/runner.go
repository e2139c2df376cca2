package assistant

import (
	"context"
	"errors"
)

// RunStatus son los estados que reporta el servicio de razonamiento.
type RunStatus string

const (
	StatusQueued     RunStatus = "queued"
	StatusInProgress RunStatus = "in_progress"
	StatusCompleted  RunStatus = "completed"
	StatusFailed     RunStatus = "failed"
	StatusExpired    RunStatus = "expired"
	StatusCancelled  RunStatus = "cancelled"
)

// Run es el snapshot de un run al momento de poll.
type Run struct {
	ID        string
	Status    RunStatus
	LastError string
}

// MessageKind etiqueta el tipo de contenido de un mensaje.
const MessageKindText = "text"

type Message struct {
	Kind string
	Text string
}

var ErrNoMessages = errors.New("thread has no messages")

// Runner es el contrato submit/poll/fetch contra el servicio de
// razonamiento. Un retry crea un run nuevo sobre el mismo thread,
// así el input enviado se preserva.
type Runner interface {
	SubmitThread(ctx context.Context, message string) (threadID string, err error)
	StartRun(ctx context.Context, threadID string) (runID string, err error)
	PollRun(ctx context.Context, threadID, runID string) (Run, error)
	LatestMessage(ctx context.Context, threadID string) (Message, error)
}
