package chi

import (
	"context"

	"github.com/Emberalive/laptop-chatbot-sub000/internal/domain/session"
	"github.com/Emberalive/laptop-chatbot-sub000/internal/usecase/dialogue"
	healthuc "github.com/Emberalive/laptop-chatbot-sub000/internal/usecase/health"
)

// Engine runs conversation turns.
type Engine interface {
	Greeting(sess *session.Session) dialogue.Response
	Reset(sess *session.Session) dialogue.Response
	ProcessInput(ctx context.Context, sess *session.Session, utterance string) (dialogue.Response, error)
}

// Sessions owns session handles.
type Sessions interface {
	Create() *session.Session
	Get(id string) (*session.Session, error)
	Delete(id string) error
}

// HealthChecker produces the aggregated health report.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}
