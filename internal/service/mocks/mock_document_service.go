package mocks

import (
	"context"
	"io"

	"pdfstore/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Upload(ctx context.Context, r io.Reader, filename string, contentType string, declaredSize int64) (*model.Document, error) {
	args := m.Called(ctx, r, filename, contentType, declaredSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) List(ctx context.Context) ([]model.Document, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockDocumentService) Download(ctx context.Context, id int64) (*model.Document, io.ReadCloser, error) {
	args := m.Called(ctx, id)
	var doc *model.Document
	if args.Get(0) != nil {
		doc = args.Get(0).(*model.Document)
	}
	var rc io.ReadCloser
	if args.Get(1) != nil {
		rc = args.Get(1).(io.ReadCloser)
	}
	return doc, rc, args.Error(2)
}

func (m *MockDocumentService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
