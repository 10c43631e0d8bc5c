package services

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/adampresley/imagegallery/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPIClient(t *testing.T, handler http.HandlerFunc) ImageAPIClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewImageAPIClient(ImageAPIClientConfig{
		BaseURL: server.URL + "/",
	})
}

func TestImageAPIClient_ListImages(t *testing.T) {
	t.Run("decodes a page", func(t *testing.T) {
		client := newTestAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/api/images/", r.URL.Path)
			assert.Equal(t, "2", r.URL.Query().Get("page"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"images":[{"filename":"a","file_type":".png","original_name":"cat","size":120,"upload_date":"2024-01-01"}],"page":2,"last_page":true}`)
		})

		result, err := client.ListImages(context.Background(), 2)

		require.NoError(t, err)
		assert.Equal(t, 2, result.Page)
		assert.True(t, result.LastPage)
		require.Len(t, result.Images, 1)
		assert.Equal(t, models.ImageRecord{
			Filename:     "a",
			FileType:     ".png",
			OriginalName: "cat",
			Size:         120,
			UploadDate:   "2024-01-01",
		}, result.Images[0])
	})

	t.Run("missing last_page means more pages may follow", func(t *testing.T) {
		client := newTestAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"images":[],"page":1}`)
		})

		result, err := client.ListImages(context.Background(), 1)

		require.NoError(t, err)
		assert.Empty(t, result.Images)
		assert.False(t, result.LastPage)
	})

	t.Run("rejects a body that is not JSON", func(t *testing.T) {
		client := newTestAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `<html>oops</html>`)
		})

		_, err := client.ListImages(context.Background(), 1)
		assert.ErrorIs(t, err, models.ErrMalformedResponse)
	})

	t.Run("rejects a body without images", func(t *testing.T) {
		client := newTestAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"page":1,"last_page":true}`)
		})

		_, err := client.ListImages(context.Background(), 1)
		assert.ErrorIs(t, err, models.ErrMalformedResponse)
	})

	t.Run("rejects a body without page", func(t *testing.T) {
		client := newTestAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"images":[],"last_page":true}`)
		})

		_, err := client.ListImages(context.Background(), 1)
		assert.ErrorIs(t, err, models.ErrMalformedResponse)
	})

	t.Run("reports non-2xx statuses", func(t *testing.T) {
		client := newTestAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		})

		_, err := client.ListImages(context.Background(), 1)
		assert.ErrorIs(t, err, models.ErrUnexpectedStatus)
		assert.NotErrorIs(t, err, models.ErrImageNotFound)
	})

	t.Run("reports transport failures", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		server.Close()

		client := NewImageAPIClient(ImageAPIClientConfig{BaseURL: server.URL})

		_, err := client.ListImages(context.Background(), 1)
		assert.ErrorIs(t, err, models.ErrTransport)
	})
}

func TestImageAPIClient_DeleteImage(t *testing.T) {
	t.Run("sends a delete for the identity", func(t *testing.T) {
		var (
			method string
			path   string
		)

		client := newTestAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
			method = r.Method
			path = r.URL.Path
			_, _ = io.WriteString(w, `{"Success":"Image deleted"}`)
		})

		err := client.DeleteImage(context.Background(), "a.png")

		require.NoError(t, err)
		assert.Equal(t, http.MethodDelete, method)
		assert.Equal(t, "/api/delete/a.png", path)
	})

	t.Run("maps 404 to image not found", func(t *testing.T) {
		client := newTestAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "Filename not found", http.StatusNotFound)
		})

		err := client.DeleteImage(context.Background(), "gone.png")
		assert.ErrorIs(t, err, models.ErrImageNotFound)
		assert.ErrorIs(t, err, models.ErrUnexpectedStatus)
	})
}

func TestImageAPIClient_OpenImage(t *testing.T) {
	client := newTestAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/images/a.png", r.URL.Path)
		w.Header().Set("Content-Type", "image/png")
		_, _ = io.WriteString(w, "png-bytes")
	})

	object, err := client.OpenImage(context.Background(), "a.png")
	require.NoError(t, err)
	defer object.Body.Close()

	body, err := io.ReadAll(object.Body)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(body))
	assert.Equal(t, "image/png", object.ContentType)
}

func TestImageAPIClient_Upload(t *testing.T) {
	t.Run("posts the file as the image field", func(t *testing.T) {
		client := newTestAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/upload/", r.URL.Path)

			file, header, err := r.FormFile("image")
			if !assert.NoError(t, err) {
				http.Error(w, "bad form", http.StatusBadRequest)
				return
			}

			defer file.Close()

			body, _ := io.ReadAll(file)
			assert.Equal(t, "cat.png", header.Filename)
			assert.Equal(t, "image-bytes", string(body))

			w.WriteHeader(http.StatusCreated)
			_, _ = io.WriteString(w, `{"filename":"abc","file_type":".png","original_name":"cat","size":1,"upload_date":"2024-01-01 00:00:00"}`)
		})

		record, err := client.Upload(context.Background(), "cat.png", strings.NewReader("image-bytes"))

		require.NoError(t, err)
		assert.Equal(t, "abc.png", record.Identity())
		assert.Equal(t, "cat.png", record.DisplayName())
	})

	t.Run("maps 413 to file too large", func(t *testing.T) {
		client := newTestAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "File Too Large", http.StatusRequestEntityTooLarge)
		})

		_, err := client.Upload(context.Background(), "big.png", strings.NewReader("x"))
		assert.ErrorIs(t, err, models.ErrFileTooLarge)
	})
}
