package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"branch-chat-service/internal/auth"
	"branch-chat-service/internal/mocks"
)

func TestEmitMutationPublishesEnvelope(t *testing.T) {
	publisher := new(mocks.PublisherMock)
	publisher.On("Publish", mock.Anything, "chat.mutation", mock.MatchedBy(func(event any) bool {
		envelope, ok := event.(AuditEnvelope)
		return ok &&
			envelope.EventType == "mutation_committed" &&
			envelope.Mutation == "message.create" &&
			envelope.ClientID == "client-1" &&
			envelope.UserID == "user-alice" &&
			envelope.SchemaVersion == 1
	})).Return(nil)

	emitter := NewAuditEmitter(publisher, "chat.mutation", "branch-chat-service", "test")
	emitter.EmitMutation(context.Background(), "message.create", "client-1", &auth.Identity{Subject: "user-alice"})

	publisher.AssertExpectations(t)
}

func TestEmitMutationAnonymous(t *testing.T) {
	publisher := new(mocks.PublisherMock)
	publisher.On("Publish", mock.Anything, "chat.mutation", mock.MatchedBy(func(event any) bool {
		envelope, ok := event.(AuditEnvelope)
		return ok && envelope.UserID == ""
	})).Return(nil)

	emitter := NewAuditEmitter(publisher, "chat.mutation", "branch-chat-service", "test")
	emitter.EmitMutation(context.Background(), "user.create", "", nil)

	publisher.AssertExpectations(t)
}

func TestEmitMutationSwallowsPublishError(t *testing.T) {
	publisher := new(mocks.PublisherMock)
	publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("broker down"))

	emitter := NewAuditEmitter(publisher, "chat.mutation", "branch-chat-service", "test")
	assert.NotPanics(t, func() {
		emitter.EmitMutation(context.Background(), "message.create", "client-1", nil)
	})
	publisher.AssertExpectations(t)
}

func TestEmitMutationNilEmitter(t *testing.T) {
	var emitter *AuditEmitter
	assert.NotPanics(t, func() {
		emitter.EmitMutation(context.Background(), "message.create", "client-1", nil)
	})
}
