package mocks

import (
	"context"
	"io"

	"pdfstore/internal/storage"

	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Put(ctx context.Context, displayName string, r io.Reader) (storage.PutResult, error) {
	args := m.Called(ctx, displayName, r)
	if f, ok := args.Get(0).(func(context.Context, string, io.Reader) storage.PutResult); ok {
		return f(ctx, displayName, r), args.Error(1)
	}
	return args.Get(0).(storage.PutResult), args.Error(1)
}

func (m *MockStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockStorage) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) Remove(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
