package push

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"branch-chat-service/internal/auth"
	"branch-chat-service/internal/engine"
	"branch-chat-service/internal/mutators"
	"branch-chat-service/internal/observability"
	"branch-chat-service/internal/telemetry"
)

// Mutation is one client-issued mutation intent. IDs are monotonically
// increasing per client, which is what makes redelivery detectable.
type Mutation struct {
	ID   int64           `json:"id"`
	Name string          `json:"name"`
	Args json.RawMessage `json:"args"`
}

// Request is a batch of mutations from one client.
type Request struct {
	ClientID  string     `json:"clientID"`
	Mutations []Mutation `json:"mutations"`
}

// Result reports the outcome of a single mutation.
type Result struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Statuses and error classes reported per mutation.
const (
	StatusOK    = "ok"
	StatusError = "error"

	ErrClassUnauthenticated = "unauthenticated"
	ErrClassForbidden       = "forbidden"
	ErrClassInvalid         = "invalid"
	ErrClassInternal        = "internal"
)

// Processor executes mutation batches. Each mutation runs in its own
// serializable transaction; a per-client watermark makes at-least-once
// delivery idempotent, since a redelivered mutation id is acknowledged
// without re-execution.
type Processor struct {
	engine   engine.Engine
	registry *mutators.Registry
	audit    *telemetry.AuditEmitter
}

// NewProcessor builds a Processor.
func NewProcessor(eng engine.Engine, registry *mutators.Registry, audit *telemetry.AuditEmitter) *Processor {
	return &Processor{engine: eng, registry: registry, audit: audit}
}

// Process applies the batch and returns one result per mutation, in order.
// A rejected mutation rolls back alone; the rest of the batch continues.
func (p *Processor) Process(ctx context.Context, ident *auth.Identity, req Request) []Result {
	results := make([]Result, 0, len(req.Mutations))
	tracer := otel.Tracer("branch-chat-service/push")

	for _, m := range req.Mutations {
		mctx, span := tracer.Start(ctx, "push.mutation")
		span.SetAttributes(attribute.String("mutation.name", m.Name), attribute.Int64("mutation.id", m.ID))

		applied := false
		err := p.engine.Execute(mctx, func(tx engine.Tx) error {
			if req.ClientID != "" {
				watermark, err := tx.ClientWatermark(mctx, req.ClientID)
				if err != nil {
					return err
				}
				if m.ID != 0 && m.ID <= watermark {
					return nil
				}
			}
			if err := p.registry.Dispatch(mctx, tx, ident, m.Name, m.Args); err != nil {
				return err
			}
			applied = true
			if req.ClientID != "" && m.ID != 0 {
				return tx.SetClientWatermark(mctx, req.ClientID, m.ID)
			}
			return nil
		})
		span.End()

		if err != nil {
			class := classify(err)
			observability.IncMutation(m.Name, class)
			log.Printf("mutation rejected name=%s id=%d class=%s err=%v", m.Name, m.ID, class, err)
			results = append(results, Result{ID: m.ID, Status: StatusError, Error: class})
			continue
		}

		observability.IncMutation(m.Name, StatusOK)
		if applied && p.audit != nil {
			p.audit.EmitMutation(mctx, m.Name, req.ClientID, ident)
		}
		results = append(results, Result{ID: m.ID, Status: StatusOK})
	}
	return results
}

func classify(err error) string {
	switch {
	case errors.Is(err, auth.ErrUnauthenticated):
		return ErrClassUnauthenticated
	case errors.Is(err, mutators.ErrForbidden):
		return ErrClassForbidden
	case errors.Is(err, mutators.ErrInvalidParent),
		errors.Is(err, mutators.ErrUnknownMutator),
		errors.Is(err, mutators.ErrBadArgs):
		return ErrClassInvalid
	default:
		return ErrClassInternal
	}
}
