package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/divyanshmehta355/NexaVid-Backend/internal/config"
	"github.com/divyanshmehta355/NexaVid-Backend/internal/model"
	"github.com/divyanshmehta355/NexaVid-Backend/internal/streamtape"
	"github.com/divyanshmehta355/NexaVid-Backend/internal/upload"
)

var (
	ErrLinkIDRequired = errors.New("link id is required")
	ErrTicketRequired = errors.New("ticket is required")
	ErrURLRequired    = errors.New("url is required")
)

// VideoService defines the use cases exposed over HTTP. Upload is the relay
// path; everything else is a one-call passthrough to the provider.
type VideoService interface {
	// List returns the files in the configured provider folder.
	List(ctx context.Context) ([]model.Video, error)

	// Thumbnail returns the splash image URL for a file.
	Thumbnail(ctx context.Context, linkID string) (string, error)

	// DownloadTicket starts the provider's two-step download flow.
	DownloadTicket(ctx context.Context, linkID string) (*model.DownloadTicket, error)

	// DownloadLink redeems a ticket for a direct download URL.
	DownloadLink(ctx context.Context, linkID, ticket string) (*model.DownloadLink, error)

	// Upload negotiates an upload destination, relays the source's bytes to
	// it and normalizes the provider's result. Whatever backs src is
	// released before Upload returns, on every path.
	Upload(ctx context.Context, src upload.Source) (*model.UploadResult, error)

	// RemoteUpload asks the provider to ingest a remote URL itself.
	RemoteUpload(ctx context.Context, url, name string) (*model.RemoteUpload, error)

	// RemoteUploadStatus reports the progress of a remote ingestion job.
	RemoteUploadStatus(ctx context.Context, id string) (*model.RemoteUploadStatus, error)
}

type videoService struct {
	provider         streamtape.Provider
	embedBase        string
	negotiateTimeout time.Duration
	relayTimeout     time.Duration
}

// NewVideoService constructs a VideoService on top of a provider client.
func NewVideoService(provider streamtape.Provider, embedBase string, uploadCfg config.UploadConfig) VideoService {
	return &videoService{
		provider:         provider,
		embedBase:        embedBase,
		negotiateTimeout: uploadCfg.NegotiateTimeout,
		relayTimeout:     uploadCfg.RelayTimeout,
	}
}

func (s *videoService) List(ctx context.Context) ([]model.Video, error) {
	files, err := s.provider.ListFolder(ctx)
	if err != nil {
		return nil, err
	}
	videos := make([]model.Video, 0, len(files))
	for _, f := range files {
		videos = append(videos, model.Video{
			LinkID:        f.LinkID,
			Name:          f.Name,
			Size:          f.Size,
			Link:          f.Link,
			CreatedAt:     f.CreatedAt,
			Downloads:     f.Downloads,
			ConvertStatus: f.ConvertStatus,
		})
	}
	return videos, nil
}

func (s *videoService) Thumbnail(ctx context.Context, linkID string) (string, error) {
	if linkID == "" {
		return "", ErrLinkIDRequired
	}
	return s.provider.Thumbnail(ctx, linkID)
}

func (s *videoService) DownloadTicket(ctx context.Context, linkID string) (*model.DownloadTicket, error) {
	if linkID == "" {
		return nil, ErrLinkIDRequired
	}
	ticket, err := s.provider.DownloadTicket(ctx, linkID)
	if err != nil {
		return nil, err
	}
	return &model.DownloadTicket{Ticket: ticket.Ticket, WaitTime: ticket.WaitTime}, nil
}

func (s *videoService) DownloadLink(ctx context.Context, linkID, ticket string) (*model.DownloadLink, error) {
	if linkID == "" {
		return nil, ErrLinkIDRequired
	}
	if ticket == "" {
		return nil, ErrTicketRequired
	}
	link, err := s.provider.DownloadLink(ctx, linkID, ticket)
	if err != nil {
		return nil, err
	}
	return &model.DownloadLink{DownloadURL: link.URL, Filename: link.Name}, nil
}

// Upload runs the relay path strictly in sequence: negotiate a destination,
// stream the source into it, normalize the result. The deferred Close is the
// reaper: it runs on success, provider failure, network failure and client
// disconnect alike, and a failing cleanup is logged, never surfaced, since
// the response has already been decided by then.
func (s *videoService) Upload(ctx context.Context, src upload.Source) (*model.UploadResult, error) {
	defer func() {
		if err := src.Close(); err != nil {
			log.Printf("upload cleanup for %q failed: %v", src.Name(), err)
		}
	}()

	nctx, cancelNegotiate := context.WithTimeout(ctx, s.negotiateTimeout)
	defer cancelNegotiate()

	dest, err := s.provider.UploadURL(nctx)
	if err != nil {
		return nil, fmt.Errorf("negotiate upload destination: %w", err)
	}

	body, err := src.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload source: %w", err)
	}
	defer body.Close()

	rctx, cancelRelay := context.WithTimeout(ctx, s.relayTimeout)
	defer cancelRelay()

	file := streamtape.RelayFile{
		Name:        src.Name(),
		ContentType: src.ContentType(),
		Size:        src.Size(),
		Body:        body,
	}
	uploaded, err := s.provider.Upload(rctx, dest.URL, file, progressLogger(src.Name()))
	if err != nil {
		return nil, err
	}

	name := uploaded.Name
	if name == "" {
		name = src.Name()
	}
	contentType := uploaded.ContentType
	if contentType == "" {
		contentType = src.ContentType()
	}

	return &model.UploadResult{
		FileID:      uploaded.ID,
		FileName:    name,
		StreamURL:   s.embedBase + uploaded.ID,
		DownloadURL: uploaded.URL,
		Size:        uploaded.Size,
		ContentType: contentType,
		SHA256:      uploaded.SHA256,
	}, nil
}

func (s *videoService) RemoteUpload(ctx context.Context, url, name string) (*model.RemoteUpload, error) {
	if url == "" {
		return nil, ErrURLRequired
	}
	job, err := s.provider.RemoteUploadAdd(ctx, url, name)
	if err != nil {
		return nil, err
	}
	return &model.RemoteUpload{RemoteUploadID: job.ID, FolderID: job.FolderID}, nil
}

func (s *videoService) RemoteUploadStatus(ctx context.Context, id string) (*model.RemoteUploadStatus, error) {
	job, err := s.provider.RemoteUploadStatus(ctx, id)
	if err != nil {
		return nil, err
	}
	return &model.RemoteUploadStatus{
		Status:        job.Status,
		BytesLoaded:   job.BytesLoaded,
		BytesTotal:    job.BytesTotal,
		RemoteURL:     job.RemoteURL,
		StreamtapeURL: job.URL,
	}, nil
}

// progressLogger reports transfer progress roughly every 10% when the total
// is known, otherwise every 32 MiB. Advisory only.
func progressLogger(name string) streamtape.ProgressFunc {
	var last int64 = -1
	return func(current, total int64) {
		if total > 0 {
			decile := current * 10 / total
			if decile > last {
				last = decile
				log.Printf("upload %s: %d%% (%d/%d bytes)", name, decile*10, current, total)
			}
			return
		}
		const chunk = 32 << 20
		if current/chunk > last {
			last = current / chunk
			log.Printf("upload %s: %d bytes sent", name, current)
		}
	}
}
