// Package streamtape contains the client for the remote video-hosting
// provider. All provider responses share the envelope
// {status:int, msg:string, result:any}; status 200 signals success.
package streamtape

import (
	"context"
	"io"
)

// ProgressFunc is called during a relay with the cumulative number of bytes
// sent and the total size, or -1 when the total is unknown. Observations are
// monotonically increasing and advisory only.
type ProgressFunc func(current, total int64)

// RelayFile describes the byte stream handed to Upload. Size is -1 when the
// total length is not known in advance; the relay then uses chunked transfer.
type RelayFile struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadDestination is a one-time upload URL obtained from the provider.
// Validity is time-bounded on the provider side and not enforced locally.
type UploadDestination struct {
	URL        string `json:"url"`
	ValidUntil string `json:"valid_until"`
}

// UploadedFile is the provider's success result for a completed upload.
type UploadedFile struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	SHA256      string `json:"sha256"`
	ContentType string `json:"content_type"`
	URL         string `json:"url"`
}

// FolderFile is one file entry from a folder listing.
type FolderFile struct {
	Name          string `json:"name"`
	Size          int64  `json:"size"`
	Link          string `json:"link"`
	LinkID        string `json:"linkid"`
	CreatedAt     int64  `json:"created_at"`
	Downloads     int    `json:"downloads"`
	ConvertStatus string `json:"convert"`
}

// TicketInfo is the provider's download ticket.
type TicketInfo struct {
	Ticket     string `json:"ticket"`
	WaitTime   int    `json:"wait_time"`
	ValidUntil string `json:"valid_until"`
}

// LinkInfo is the resolved direct download link for a file.
type LinkInfo struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	URL  string `json:"url"`
}

// RemoteJob identifies a provider-side remote fetch job.
type RemoteJob struct {
	ID       string `json:"id"`
	FolderID string `json:"folderid"`
}

// RemoteJobStatus is the progress snapshot of a remote fetch job.
type RemoteJobStatus struct {
	ID          string `json:"id"`
	RemoteURL   string `json:"remoteurl"`
	Status      string `json:"status"`
	BytesLoaded int64  `json:"bytes_loaded"`
	BytesTotal  int64  `json:"bytes_total"`
	FolderID    string `json:"folderid"`
	Added       string `json:"added"`
	LastUpdate  string `json:"last_update"`
	URL         string `json:"url"`
}

// Provider is the outbound contract toward the video-hosting API.
// UploadURL and Upload are the two halves of the relay path: UploadURL
// negotiates a single-use destination, Upload streams the bytes into it.
type Provider interface {
	// ListFolder returns the files in the configured target folder.
	ListFolder(ctx context.Context) ([]FolderFile, error)
	// Thumbnail returns the splash image URL for a file.
	Thumbnail(ctx context.Context, fileID string) (string, error)
	// DownloadTicket starts the provider's two-step download flow.
	DownloadTicket(ctx context.Context, fileID string) (*TicketInfo, error)
	// DownloadLink redeems a ticket for a direct download URL.
	DownloadLink(ctx context.Context, fileID, ticket string) (*LinkInfo, error)
	// UploadURL negotiates a one-time upload destination for the configured folder.
	UploadURL(ctx context.Context) (*UploadDestination, error)
	// Upload relays the file as a multipart body to a negotiated destination.
	Upload(ctx context.Context, destURL string, f RelayFile, progress ProgressFunc) (*UploadedFile, error)
	// RemoteUploadAdd asks the provider to fetch a URL into the configured folder.
	RemoteUploadAdd(ctx context.Context, url, name string) (*RemoteJob, error)
	// RemoteUploadStatus returns the state of a remote fetch job.
	RemoteUploadStatus(ctx context.Context, id string) (*RemoteJobStatus, error)
}
