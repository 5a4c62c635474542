package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/divyanshmehta355/NexaVid-Backend/internal/streamtape"
)

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) ListFolder(ctx context.Context) ([]streamtape.FolderFile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]streamtape.FolderFile), args.Error(1)
}

func (m *MockProvider) Thumbnail(ctx context.Context, fileID string) (string, error) {
	args := m.Called(ctx, fileID)
	return args.String(0), args.Error(1)
}

func (m *MockProvider) DownloadTicket(ctx context.Context, fileID string) (*streamtape.TicketInfo, error) {
	args := m.Called(ctx, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*streamtape.TicketInfo), args.Error(1)
}

func (m *MockProvider) DownloadLink(ctx context.Context, fileID, ticket string) (*streamtape.LinkInfo, error) {
	args := m.Called(ctx, fileID, ticket)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*streamtape.LinkInfo), args.Error(1)
}

func (m *MockProvider) UploadURL(ctx context.Context) (*streamtape.UploadDestination, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*streamtape.UploadDestination), args.Error(1)
}

func (m *MockProvider) Upload(ctx context.Context, destURL string, f streamtape.RelayFile, progress streamtape.ProgressFunc) (*streamtape.UploadedFile, error) {
	args := m.Called(ctx, destURL, f, progress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*streamtape.UploadedFile), args.Error(1)
}

func (m *MockProvider) RemoteUploadAdd(ctx context.Context, url, name string) (*streamtape.RemoteJob, error) {
	args := m.Called(ctx, url, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*streamtape.RemoteJob), args.Error(1)
}

func (m *MockProvider) RemoteUploadStatus(ctx context.Context, id string) (*streamtape.RemoteJobStatus, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*streamtape.RemoteJobStatus), args.Error(1)
}
