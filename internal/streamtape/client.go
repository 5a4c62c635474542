package streamtape

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/divyanshmehta355/NexaVid-Backend/internal/config"
)

// uploadFieldName is the form field the provider expects on its upload URL.
const uploadFieldName = "file1"

// envelope is the provider's uniform response wrapper.
type envelope struct {
	Status int             `json:"status"`
	Msg    string          `json:"msg"`
	Result json.RawMessage `json:"result"`
}

// Client implements Provider against the real HTTP API. It is safe for
// concurrent use; each call owns its own request and response.
type Client struct {
	cfg        config.StreamtapeConfig
	httpClient *http.Client
}

var _ Provider = (*Client)(nil)

// NewClient builds a provider client. Outbound requests are traced via
// otelhttp; timeouts are driven by the caller's context, not the client.
func NewClient(cfg config.StreamtapeConfig) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// apiURL builds an authenticated provider URL for the given path.
func (c *Client) apiURL(path string, q url.Values) string {
	if q == nil {
		q = url.Values{}
	}
	q.Set("login", c.cfg.Login)
	q.Set("key", c.cfg.Key)
	return c.cfg.APIBase + path + "?" + q.Encode()
}

// call performs an authenticated GET and decodes the envelope result into out.
func (c *Client) call(ctx context.Context, op, path string, q url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL(path, q), nil)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	return decodeEnvelope(op, resp.Body, out)
}

// decodeEnvelope parses the provider wrapper and unmarshals the result on
// success. Any non-200 envelope status becomes an *APIError carrying the
// provider's message.
func decodeEnvelope(op string, r io.Reader, out any) error {
	var env envelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return &APIError{Op: op, Status: 0, Message: "malformed provider response"}
	}
	if env.Status != http.StatusOK {
		return &APIError{Op: op, Status: env.Status, Message: env.Msg}
	}
	if out != nil {
		if err := json.Unmarshal(env.Result, out); err != nil {
			return &APIError{Op: op, Status: 0, Message: "malformed provider result"}
		}
	}
	return nil
}

// ListFolder returns the files in the configured target folder.
func (c *Client) ListFolder(ctx context.Context) ([]FolderFile, error) {
	var result struct {
		Files []FolderFile `json:"files"`
	}
	q := url.Values{"folder": {c.cfg.FolderID}}
	if err := c.call(ctx, "listfolder", "/file/listfolder", q, &result); err != nil {
		return nil, err
	}
	return result.Files, nil
}

// Thumbnail returns the splash image URL for a file.
func (c *Client) Thumbnail(ctx context.Context, fileID string) (string, error) {
	var thumb string
	q := url.Values{"file": {fileID}}
	if err := c.call(ctx, "getsplash", "/file/getsplash", q, &thumb); err != nil {
		return "", err
	}
	return thumb, nil
}

// DownloadTicket starts the provider's two-step download flow.
func (c *Client) DownloadTicket(ctx context.Context, fileID string) (*TicketInfo, error) {
	var ticket TicketInfo
	q := url.Values{"file": {fileID}}
	if err := c.call(ctx, "dlticket", "/file/dlticket", q, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// DownloadLink redeems a ticket for a direct download URL.
func (c *Client) DownloadLink(ctx context.Context, fileID, ticket string) (*LinkInfo, error) {
	var link LinkInfo
	q := url.Values{"file": {fileID}, "ticket": {ticket}}
	if err := c.call(ctx, "dl", "/file/dl", q, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

// UploadURL negotiates a one-time upload destination for the configured
// folder. The caller bounds the wait via the context deadline.
func (c *Client) UploadURL(ctx context.Context) (*UploadDestination, error) {
	var dest UploadDestination
	q := url.Values{"folder": {c.cfg.FolderID}}
	if err := c.call(ctx, "negotiate", "/file/ul", q, &dest); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrNegotiationTimeout
		}
		return nil, err
	}
	return &dest, nil
}

// Upload relays f as a multipart body to a negotiated destination URL.
//
// The body is produced through a pipe feeding the outbound request, so a
// live source is never buffered in full: the provider's read pace applies
// backpressure all the way to the inbound stream. When f.Size is unknown
// the request goes out with chunked transfer encoding.
func (c *Client) Upload(ctx context.Context, destURL string, f RelayFile, progress ProgressFunc) (*UploadedFile, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, uploadFieldName, f.Name))
		ct := f.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)

		part, err := mw.CreatePart(h)
		if err != nil {
			pw.CloseWithError(err)
			return
		}

		body := f.Body
		if progress != nil {
			body = &progressReader{r: f.Body, total: f.Size, fn: progress}
		}
		if _, err := io.Copy(part, body); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, destURL, pr)
	if err != nil {
		// Unblock the writer goroutine, which would otherwise sit on
		// the pipe forever.
		pr.CloseWithError(err)
		return nil, fmt.Errorf("upload: build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			return nil, ErrUploadTimeout
		case errors.Is(err, context.Canceled):
			return nil, ErrTransferAborted
		default:
			return nil, fmt.Errorf("%w: %v", ErrTransferAborted, err)
		}
	}
	defer resp.Body.Close()

	var uploaded UploadedFile
	if err := decodeEnvelope("upload", resp.Body, &uploaded); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusGatewayTimeout {
			return nil, ErrUploadTimeout
		}
		return nil, err
	}
	return &uploaded, nil
}

// RemoteUploadAdd asks the provider to fetch a URL into the configured folder.
func (c *Client) RemoteUploadAdd(ctx context.Context, remoteURL, name string) (*RemoteJob, error) {
	var job RemoteJob
	q := url.Values{"url": {remoteURL}, "folder": {c.cfg.FolderID}}
	if name != "" {
		q.Set("name", name)
	}
	if err := c.call(ctx, "remotedl-add", "/remotedl/add", q, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// RemoteUploadStatus returns the state of a remote fetch job. The provider
// keys the result by job id; an id missing from the map is unknown.
func (c *Client) RemoteUploadStatus(ctx context.Context, id string) (*RemoteJobStatus, error) {
	jobs := map[string]RemoteJobStatus{}
	q := url.Values{"id": {id}}
	if err := c.call(ctx, "remotedl-status", "/remotedl/status", q, &jobs); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return nil, ErrRemoteUploadNotFound
		}
		return nil, err
	}
	job, ok := jobs[id]
	if !ok {
		return nil, ErrRemoteUploadNotFound
	}
	return &job, nil
}
