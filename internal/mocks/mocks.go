package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"branch-chat-service/internal/websearch"
)

type SearcherMock struct {
	mock.Mock
}

func (m *SearcherMock) Search(ctx context.Context, query string) (websearch.Response, error) {
	args := m.Called(ctx, query)
	var resp websearch.Response
	if val := args.Get(0); val != nil {
		resp = val.(websearch.Response)
	}
	return resp, args.Error(1)
}

type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) Publish(ctx context.Context, routingKey string, event any) error {
	args := m.Called(ctx, routingKey, event)
	return args.Error(0)
}

func (m *PublisherMock) Close() error {
	args := m.Called()
	return args.Error(0)
}

var _ interface {
	Search(context.Context, string) (websearch.Response, error)
} = (*SearcherMock)(nil)

var _ interface {
	Publish(context.Context, string, any) error
	Close() error
} = (*PublisherMock)(nil)
