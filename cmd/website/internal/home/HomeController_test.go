package home

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/adampresley/imagegallery/pkg/models"
	"github.com/adampresley/imagegallery/pkg/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	uploadErr error
	fileName  string
	body      string
}

func (f *fakeUploader) ListImages(ctx context.Context, page int) (models.PageResult, error) {
	return models.PageResult{}, errors.New("not used")
}

func (f *fakeUploader) DeleteImage(ctx context.Context, identity string) error {
	return errors.New("not used")
}

func (f *fakeUploader) OpenImage(ctx context.Context, identity string) (services.ImageObject, error) {
	return services.ImageObject{}, errors.New("not used")
}

func (f *fakeUploader) Upload(ctx context.Context, fileName string, body io.Reader) (models.ImageRecord, error) {
	if f.uploadErr != nil {
		return models.ImageRecord{}, f.uploadErr
	}

	b, _ := io.ReadAll(body)
	f.fileName = fileName
	f.body = string(b)

	return models.ImageRecord{
		Filename:     "abc",
		FileType:     ".png",
		OriginalName: "cat",
		Size:         1,
		UploadDate:   "2024-01-01 00:00:00",
	}, nil
}

func newUploadRequest(t *testing.T, fileName, content string) *http.Request {
	t.Helper()

	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	part, err := writer.CreateFormFile("image", fileName)
	require.NoError(t, err)

	_, err = io.WriteString(part, content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	r := httptest.NewRequest(http.MethodPost, "/upload", buf)
	r.Header.Set("Content-Type", writer.FormDataContentType())
	return r
}

func TestHomeController_Upload(t *testing.T) {
	t.Run("uploads an allowed file", func(t *testing.T) {
		api := &fakeUploader{}
		controller := NewHomeController(HomeControllerConfig{ImageAPI: api, MaxUploadBytes: 1024})

		viewData := controller.upload(newUploadRequest(t, "cat.png", "image-bytes"))

		require.NotNil(t, viewData.Uploaded)
		assert.Equal(t, "cat.png", viewData.Uploaded.DisplayName)
		assert.Equal(t, "/images/abc.png", viewData.Uploaded.ImageURL)
		assert.Equal(t, "cat.png", api.fileName)
		assert.Equal(t, "image-bytes", api.body)
		assert.False(t, viewData.IsError)
		assert.False(t, viewData.IsWarning)
	})

	t.Run("rejects files that are too large", func(t *testing.T) {
		api := &fakeUploader{}
		controller := NewHomeController(HomeControllerConfig{ImageAPI: api, MaxUploadBytes: 10})

		viewData := controller.upload(newUploadRequest(t, "cat.png", "this body is longer than ten bytes"))

		assert.Nil(t, viewData.Uploaded)
		assert.True(t, viewData.IsWarning)
		assert.Empty(t, api.fileName)
	})

	t.Run("rejects disallowed extensions", func(t *testing.T) {
		api := &fakeUploader{}
		controller := NewHomeController(HomeControllerConfig{ImageAPI: api, MaxUploadBytes: 1024})

		viewData := controller.upload(newUploadRequest(t, "notes.txt", "hello"))

		assert.Nil(t, viewData.Uploaded)
		assert.True(t, viewData.IsWarning)
		assert.Empty(t, api.fileName)
	})

	t.Run("a missing file is a warning", func(t *testing.T) {
		controller := NewHomeController(HomeControllerConfig{ImageAPI: &fakeUploader{}, MaxUploadBytes: 1024})
		r := httptest.NewRequest(http.MethodPost, "/upload", nil)

		viewData := controller.upload(r)

		assert.Nil(t, viewData.Uploaded)
		assert.True(t, viewData.IsWarning)
	})

	t.Run("api rejections are warnings", func(t *testing.T) {
		api := &fakeUploader{uploadErr: fmt.Errorf("%w: POST returned 400", models.ErrUnexpectedStatus)}
		controller := NewHomeController(HomeControllerConfig{ImageAPI: api, MaxUploadBytes: 1024})

		viewData := controller.upload(newUploadRequest(t, "cat.png", "not really a png"))

		assert.Nil(t, viewData.Uploaded)
		assert.True(t, viewData.IsWarning)
		assert.False(t, viewData.IsError)
	})

	t.Run("transport failures are errors", func(t *testing.T) {
		api := &fakeUploader{uploadErr: models.ErrTransport}
		controller := NewHomeController(HomeControllerConfig{ImageAPI: api, MaxUploadBytes: 1024})

		viewData := controller.upload(newUploadRequest(t, "cat.png", "image-bytes"))

		assert.Nil(t, viewData.Uploaded)
		assert.True(t, viewData.IsError)
	})
}
