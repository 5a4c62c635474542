package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/divyanshmehta355/NexaVid-Backend/internal/config"
	"github.com/divyanshmehta355/NexaVid-Backend/internal/model"
	serviceMocks "github.com/divyanshmehta355/NexaVid-Backend/internal/service/mocks"
	"github.com/divyanshmehta355/NexaVid-Backend/internal/streamtape"
	"github.com/divyanshmehta355/NexaVid-Backend/internal/upload"
)

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func multipartBody(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	fw, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func streamUploadConfig() config.UploadConfig {
	return config.UploadConfig{Strategy: config.StrategyStream}
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, "healthy", body["status"])
		assert.Equal(t, "ok", body["datastore"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, "degraded", body["status"])
	})

	t.Run("datastore disabled", func(t *testing.T) {
		app := fiber.New()
		app.Get("/health", HealthCheck(nil))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, "disabled", body["datastore"])
	})
}

func TestListVideos(t *testing.T) {
	mockSvc := new(serviceMocks.MockVideoService)
	app := fiber.New()
	app.Get("/api/videos", ListVideos(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("List", mock.Anything).Return([]model.Video{
			{LinkID: "abc", Name: "clip.mp4", Size: 10},
		}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/videos", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, true, body["success"])
		videos := body["videos"].([]any)
		require.Len(t, videos, 1)
		assert.Equal(t, "abc", videos[0].(map[string]any)["linkId"])
		mockSvc.AssertExpectations(t)
	})

	t.Run("provider failure", func(t *testing.T) {
		mockSvc.On("List", mock.Anything).
			Return(nil, &streamtape.APIError{Op: "listfolder", Status: 403, Message: "wrong login"}).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/videos", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "wrong login", body["message"])
		mockSvc.AssertExpectations(t)
	})
}

func TestGetThumbnail(t *testing.T) {
	mockSvc := new(serviceMocks.MockVideoService)
	app := fiber.New()
	app.Get("/api/videos/:linkId/thumbnail", GetThumbnail(mockSvc))

	mockSvc.On("Thumbnail", mock.Anything, "abc").
		Return("https://thumb.tapecontent.net/thumb/abc.jpg", nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/videos/abc/thumbnail", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "https://thumb.tapecontent.net/thumb/abc.jpg", body["thumbnailUrl"])
	mockSvc.AssertExpectations(t)
}

func TestGetDownloadTicket(t *testing.T) {
	mockSvc := new(serviceMocks.MockVideoService)
	app := fiber.New()
	app.Get("/api/videos/:linkId/download-ticket", GetDownloadTicket(mockSvc))

	mockSvc.On("DownloadTicket", mock.Anything, "abc").
		Return(&model.DownloadTicket{Ticket: "tck-1", WaitTime: 5}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/videos/abc/download-ticket", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "tck-1", body["ticket"])
	assert.Equal(t, float64(5), body["wait_time"])
	mockSvc.AssertExpectations(t)
}

func TestGetDownloadLink(t *testing.T) {
	mockSvc := new(serviceMocks.MockVideoService)
	app := fiber.New()
	app.Get("/api/videos/:linkId/download-link", GetDownloadLink(mockSvc))

	t.Run("missing ticket is rejected locally", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/videos/abc/download-link", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		mockSvc.AssertNotCalled(t, "DownloadLink", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("success", func(t *testing.T) {
		mockSvc.On("DownloadLink", mock.Anything, "abc", "tck-1").
			Return(&model.DownloadLink{DownloadURL: "https://dl.example/clip.mp4", Filename: "clip.mp4"}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/videos/abc/download-link?ticket=tck-1", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, "https://dl.example/clip.mp4", body["downloadUrl"])
		assert.Equal(t, "clip.mp4", body["filename"])
		mockSvc.AssertExpectations(t)
	})
}

func TestUploadVideo(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockVideoService)
		app := fiber.New()
		app.Post("/api/upload", UploadVideo(mockSvc, streamUploadConfig()))

		expected := &model.UploadResult{
			FileID:      "xyz",
			FileName:    "clip.mp4",
			StreamURL:   "https://streamtape.com/e/xyz",
			DownloadURL: "https://streamtape.com/v/xyz/clip.mp4",
			Size:        10,
			ContentType: "video/mp4",
			SHA256:      "deadbeef",
		}
		mockSvc.On("Upload", mock.Anything, mock.MatchedBy(func(src upload.Source) bool {
			return src.Name() == "clip.mp4"
		})).Return(expected, nil).Once()

		body, contentType := multipartBody(t, upload.FieldName, "clip.mp4", "hello ward")
		req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
		req.Header.Set("Content-Type", contentType)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		got := decodeBody(t, resp)
		assert.Equal(t, true, got["success"])
		data := got["data"].(map[string]any)
		assert.Equal(t, "xyz", data["fileId"])
		assert.Equal(t, "https://streamtape.com/e/xyz", data["streamUrl"])
		assert.Equal(t, "deadbeef", data["sha256"])
		mockSvc.AssertExpectations(t)
	})

	t.Run("no file part returns 400 without touching the service", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockVideoService)
		app := fiber.New()
		app.Post("/api/upload", UploadVideo(mockSvc, streamUploadConfig()))

		body := &bytes.Buffer{}
		w := multipart.NewWriter(body)
		require.NoError(t, w.WriteField("title", "no file here"))
		require.NoError(t, w.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
		req.Header.Set("Content-Type", w.FormDataContentType())
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		got := decodeBody(t, resp)
		assert.Equal(t, false, got["success"])
		mockSvc.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
	})

	t.Run("non-multipart body returns 400", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockVideoService)
		app := fiber.New()
		app.Post("/api/upload", UploadVideo(mockSvc, streamUploadConfig()))

		req := httptest.NewRequest(http.MethodPost, "/api/upload", strings.NewReader("not multipart"))
		req.Header.Set("Content-Type", "text/plain")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		mockSvc.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
	})

	t.Run("relay timeout returns 504, not 500", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockVideoService)
		app := fiber.New()
		app.Post("/api/upload", UploadVideo(mockSvc, streamUploadConfig()))

		mockSvc.On("Upload", mock.Anything, mock.Anything).
			Return(nil, streamtape.ErrUploadTimeout).Once()

		body, contentType := multipartBody(t, upload.FieldName, "clip.mp4", "hello ward")
		req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
		req.Header.Set("Content-Type", contentType)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusGatewayTimeout, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("transfer abort returns 502", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockVideoService)
		app := fiber.New()
		app.Post("/api/upload", UploadVideo(mockSvc, streamUploadConfig()))

		mockSvc.On("Upload", mock.Anything, mock.Anything).
			Return(nil, streamtape.ErrTransferAborted).Once()

		body, contentType := multipartBody(t, upload.FieldName, "clip.mp4", "hello ward")
		req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
		req.Header.Set("Content-Type", contentType)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("disk strategy spools before the service call", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockVideoService)
		app := fiber.New()
		cfg := config.UploadConfig{Strategy: config.StrategyDisk, TempDir: t.TempDir()}
		app.Post("/api/upload", UploadVideo(mockSvc, cfg))

		mockSvc.On("Upload", mock.Anything, mock.MatchedBy(func(src upload.Source) bool {
			fs, ok := src.(*upload.FileSource)
			return ok && fs.Name() == "clip.mp4" && fs.Size() == 10
		})).Return(&model.UploadResult{FileID: "xyz"}, nil).Once()

		body, contentType := multipartBody(t, upload.FieldName, "clip.mp4", "hello ward")
		req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
		req.Header.Set("Content-Type", contentType)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestRemoteUpload(t *testing.T) {
	mockSvc := new(serviceMocks.MockVideoService)
	app := fiber.New()
	app.Post("/api/remote-upload", RemoteUpload(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("RemoteUpload", mock.Anything, "https://example.com/a.mp4", "a.mp4").
			Return(&model.RemoteUpload{RemoteUploadID: "job-1", FolderID: "folder-1"}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/remote-upload",
			strings.NewReader(`{"url":"https://example.com/a.mp4","name":"a.mp4"}`))
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, "job-1", body["remoteUploadId"])
		assert.Equal(t, "folder-1", body["folderId"])
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/remote-upload", strings.NewReader(`{`))
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestRemoteUploadStatus(t *testing.T) {
	mockSvc := new(serviceMocks.MockVideoService)
	app := fiber.New()
	app.Get("/api/remote-upload-status/:id", RemoteUploadStatus(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("RemoteUploadStatus", mock.Anything, "job-1").
			Return(&model.RemoteUploadStatus{
				Status:        "downloading",
				BytesLoaded:   512,
				BytesTotal:    1024,
				RemoteURL:     "https://example.com/a.mp4",
				StreamtapeURL: "https://streamtape.com/v/xyz",
			}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/remote-upload-status/job-1", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, "downloading", body["status"])
		assert.Equal(t, float64(1024), body["bytesTotal"])
		mockSvc.AssertExpectations(t)
	})

	t.Run("unknown id", func(t *testing.T) {
		mockSvc.On("RemoteUploadStatus", mock.Anything, "nope").
			Return(nil, streamtape.ErrRemoteUploadNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/remote-upload-status/nope", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestRouting(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
	})

	mockSvc := new(serviceMocks.MockVideoService)
	RegisterRoutes(app, nil, mockSvc, streamUploadConfig())

	t.Run("not found route", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/non-existent", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, false, body["success"])
	})

	t.Run("method not allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, false, body["success"])
	})
}
