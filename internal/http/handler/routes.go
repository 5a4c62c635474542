package handler

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/divyanshmehta355/NexaVid-Backend/internal/config"
	"github.com/divyanshmehta355/NexaVid-Backend/internal/service"
	"github.com/divyanshmehta355/NexaVid-Backend/internal/upload"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app. Handlers
// stay thin; orchestration lives in the service layer.
func RegisterRoutes(app *fiber.App, db *sql.DB, videoSvc service.VideoService, uploadCfg config.UploadConfig) {
	// Serve OpenAPI spec and a Swagger UI page
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	api := app.Group("/api")
	api.Get("/videos", ListVideos(videoSvc))
	api.Get("/videos/:linkId/thumbnail", GetThumbnail(videoSvc))
	api.Get("/videos/:linkId/download-ticket", GetDownloadTicket(videoSvc))
	api.Get("/videos/:linkId/download-link", GetDownloadLink(videoSvc))
	api.Post("/upload", UploadVideo(videoSvc, uploadCfg))
	api.Post("/remote-upload", RemoteUpload(videoSvc))
	api.Get("/remote-upload-status/:id", RemoteUploadStatus(videoSvc))
}

// HealthCheck probes the process and, when configured, the datastore.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if db == nil {
			return c.JSON(fiber.Map{"status": "healthy", "datastore": "disabled"})
		}
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).
				JSON(fiber.Map{"status": "degraded", "datastore": "unreachable"})
		}
		return c.JSON(fiber.Map{"status": "healthy", "datastore": "ok"})
	}
}

// LivenessProbe is a bare process-up check.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// ListVideos returns the files in the configured provider folder.
func ListVideos(svc service.VideoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		videos, err := svc.List(c.UserContext())
		if err != nil {
			return mapServiceError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "videos": videos})
	}
}

// GetThumbnail returns the splash image URL for a video.
func GetThumbnail(svc service.VideoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		thumb, err := svc.Thumbnail(c.UserContext(), c.Params("linkId"))
		if err != nil {
			return mapServiceError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "thumbnailUrl": thumb})
	}
}

// GetDownloadTicket starts the provider's two-step download flow.
func GetDownloadTicket(svc service.VideoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ticket, err := svc.DownloadTicket(c.UserContext(), c.Params("linkId"))
		if err != nil {
			return mapServiceError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "ticket": ticket.Ticket, "wait_time": ticket.WaitTime})
	}
}

// GetDownloadLink redeems a ticket for a direct download URL. The ticket is
// validated locally before any upstream call is made.
func GetDownloadLink(svc service.VideoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ticket := c.Query("ticket")
		if ticket == "" {
			return writeError(c, fiber.StatusBadRequest, "ticket query parameter is required")
		}
		link, err := svc.DownloadLink(c.UserContext(), c.Params("linkId"), ticket)
		if err != nil {
			return mapServiceError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "downloadUrl": link.DownloadURL, "filename": link.Filename})
	}
}

// uploadResponse is the success envelope for a relayed upload.
type uploadResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// UploadVideo accepts a multipart upload under the videoFile field and
// relays it to the provider. The source adapter strategy decides whether the
// bytes are streamed straight through, spooled to disk first, or held in
// memory.
func UploadVideo(svc service.VideoService, cfg config.UploadConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		src, err := sourceFromRequest(c, cfg)
		if err != nil {
			return mapServiceError(c, err)
		}

		res, err := svc.Upload(c.UserContext(), src)
		if err != nil {
			return mapServiceError(c, err)
		}
		return c.JSON(uploadResponse{Success: true, Message: "file uploaded successfully", Data: res})
	}
}

// sourceFromRequest materializes the upload bytes per the configured
// strategy. Every shape of request body converges on the same Source
// contract so the relay path downstream stays identical.
func sourceFromRequest(c *fiber.Ctx, cfg config.UploadConfig) (upload.Source, error) {
	switch cfg.Strategy {
	case config.StrategyDisk, config.StrategyBuffer:
		fh, err := c.FormFile(upload.FieldName)
		if err != nil {
			return nil, upload.ErrMissingFile
		}
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open uploaded file: %w", err)
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		if cfg.Strategy == config.StrategyBuffer {
			data, err := io.ReadAll(f)
			if err != nil {
				return nil, fmt.Errorf("buffer uploaded file: %w", err)
			}
			return upload.NewBufferSource(data, fh.Filename, ct), nil
		}
		return upload.SpoolToDisk(cfg.TempDir, f, fh.Filename, ct)

	default: // stream straight off the request body
		mediaType, params, err := mime.ParseMediaType(c.Get(fiber.HeaderContentType))
		if err != nil || !strings.HasPrefix(mediaType, "multipart/") || params["boundary"] == "" {
			return nil, upload.ErrMissingFile
		}
		// With StreamRequestBody enabled the raw body arrives as a
		// stream; otherwise fall back to the buffered body so the same
		// adapter path still applies.
		var body io.Reader
		if c.Request().IsBodyStream() {
			body = c.Context().RequestBodyStream()
		} else {
			body = bytes.NewReader(c.Body())
		}
		return upload.FromMultipart(multipart.NewReader(body, params["boundary"]))
	}
}

// remoteUploadRequest is the body for POST /api/remote-upload.
type remoteUploadRequest struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

// RemoteUpload triggers a provider-side fetch of a remote URL.
func RemoteUpload(svc service.VideoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req remoteUploadRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "invalid request body")
		}
		job, err := svc.RemoteUpload(c.UserContext(), req.URL, req.Name)
		if err != nil {
			return mapServiceError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "remoteUploadId": job.RemoteUploadID, "folderId": job.FolderID})
	}
}

// RemoteUploadStatus reports the progress of a remote fetch job.
func RemoteUploadStatus(svc service.VideoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status, err := svc.RemoteUploadStatus(c.UserContext(), c.Params("id"))
		if err != nil {
			return mapServiceError(c, err)
		}
		return c.JSON(fiber.Map{
			"success":       true,
			"status":        status.Status,
			"bytesLoaded":   status.BytesLoaded,
			"bytesTotal":    status.BytesTotal,
			"remoteUrl":     status.RemoteURL,
			"streamtapeUrl": status.StreamtapeURL,
		})
	}
}
