package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/divyanshmehta355/NexaVid-Backend/internal/model"
	"github.com/divyanshmehta355/NexaVid-Backend/internal/upload"
)

type MockVideoService struct {
	mock.Mock
}

func (m *MockVideoService) List(ctx context.Context) ([]model.Video, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Video), args.Error(1)
}

func (m *MockVideoService) Thumbnail(ctx context.Context, linkID string) (string, error) {
	args := m.Called(ctx, linkID)
	return args.String(0), args.Error(1)
}

func (m *MockVideoService) DownloadTicket(ctx context.Context, linkID string) (*model.DownloadTicket, error) {
	args := m.Called(ctx, linkID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DownloadTicket), args.Error(1)
}

func (m *MockVideoService) DownloadLink(ctx context.Context, linkID, ticket string) (*model.DownloadLink, error) {
	args := m.Called(ctx, linkID, ticket)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DownloadLink), args.Error(1)
}

func (m *MockVideoService) Upload(ctx context.Context, src upload.Source) (*model.UploadResult, error) {
	args := m.Called(ctx, src)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UploadResult), args.Error(1)
}

func (m *MockVideoService) RemoteUpload(ctx context.Context, url, name string) (*model.RemoteUpload, error) {
	args := m.Called(ctx, url, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RemoteUpload), args.Error(1)
}

func (m *MockVideoService) RemoteUploadStatus(ctx context.Context, id string) (*model.RemoteUploadStatus, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RemoteUploadStatus), args.Error(1)
}
