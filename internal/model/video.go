// Package model contains the client-facing data shapes. These are pure
// domain models with no transport- or provider-specific dependencies.
package model

// Video is one remote file as reported by the provider's folder listing.
type Video struct {
	LinkID        string `json:"linkId"`
	Name          string `json:"name"`
	Size          int64  `json:"size"`
	Link          string `json:"link"`
	CreatedAt     int64  `json:"createdAt"`
	Downloads     int    `json:"downloads"`
	ConvertStatus string `json:"convert"`
}

// UploadResult is the normalized success payload for a relayed upload.
type UploadResult struct {
	FileID      string `json:"fileId"`
	FileName    string `json:"fileName"`
	StreamURL   string `json:"streamUrl"`
	DownloadURL string `json:"downloadUrl"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType"`
	SHA256      string `json:"sha256"`
}

// DownloadTicket is the first half of the provider's two-step download flow.
type DownloadTicket struct {
	Ticket   string `json:"ticket"`
	WaitTime int    `json:"wait_time"`
}

// DownloadLink is the resolved direct download URL for a file.
type DownloadLink struct {
	DownloadURL string `json:"downloadUrl"`
	Filename    string `json:"filename"`
}

// RemoteUpload identifies a provider-side remote fetch job.
type RemoteUpload struct {
	RemoteUploadID string `json:"remoteUploadId"`
	FolderID       string `json:"folderId"`
}

// RemoteUploadStatus is the progress snapshot of a remote fetch job.
type RemoteUploadStatus struct {
	Status        string `json:"status"`
	BytesLoaded   int64  `json:"bytesLoaded"`
	BytesTotal    int64  `json:"bytesTotal"`
	RemoteURL     string `json:"remoteUrl"`
	StreamtapeURL string `json:"streamtapeUrl"`
}
