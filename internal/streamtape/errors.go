package streamtape

import (
	"errors"
	"fmt"
)

var (
	// ErrNegotiationTimeout means the provider did not hand out an upload
	// URL within the negotiation bound.
	ErrNegotiationTimeout = errors.New("upload url negotiation timed out")

	// ErrUploadTimeout means the byte transfer exceeded the relay bound or
	// the provider signalled a timeout itself. Clients should retry.
	ErrUploadTimeout = errors.New("upload relay timed out")

	// ErrTransferAborted means the transfer ended at the network level
	// before the provider produced a result (client disconnect included).
	ErrTransferAborted = errors.New("upload transfer aborted")

	// ErrRemoteUploadNotFound means the provider does not know the
	// requested remote fetch job id.
	ErrRemoteUploadNotFound = errors.New("remote upload job not found")
)

// APIError carries a non-success provider envelope. Status is the envelope's
// status field, not an HTTP transport status.
type APIError struct {
	Op      string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("streamtape %s: %s (status %d)", e.Op, e.Message, e.Status)
}
