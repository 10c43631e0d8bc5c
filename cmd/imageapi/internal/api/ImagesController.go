package api

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"math"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/imagegallery/pkg/models"
	"github.com/adampresley/imagegallery/pkg/services"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

type ImagesHandlers interface {
	DeleteImage(w http.ResponseWriter, r *http.Request)
	ListImages(w http.ResponseWriter, r *http.Request)
	ServeImage(w http.ResponseWriter, r *http.Request)
	UploadImage(w http.ResponseWriter, r *http.Request)
}

type ImagesControllerConfig struct {
	ImageService   services.ImageServicer
	ImagesPerPage  int
	MaxUploadBytes int64
	Storage        services.StorageServicer
}

type ImagesController struct {
	imageService   services.ImageServicer
	imagesPerPage  int
	maxUploadBytes int64
	storage        services.StorageServicer
}

func NewImagesController(config ImagesControllerConfig) ImagesController {
	if config.ImagesPerPage <= 0 {
		config.ImagesPerPage = 12
	}

	if config.MaxUploadBytes <= 0 {
		config.MaxUploadBytes = 5 * 1024 * 1024
	}

	return ImagesController{
		imageService:   config.ImageService,
		imagesPerPage:  config.ImagesPerPage,
		maxUploadBytes: config.MaxUploadBytes,
		storage:        config.Storage,
	}
}

/*
GET /api/images/?page={page}
*/
func (c ImagesController) ListImages(w http.ResponseWriter, r *http.Request) {
	var (
		err    error
		count  int
		images []*models.Image
	)

	requested, err := strconv.Atoi(r.URL.Query().Get("page"))

	if err != nil {
		requested = 1
	}

	if count, err = c.imageService.Count(); err != nil {
		slog.Error("error counting images", "error", err)
		httphelpers.TextInternalServerError(w, "Error listing images")
		return
	}

	page, lastPage := services.ClampPage(requested, count, c.imagesPerPage)

	if images, err = c.imageService.GetPage(page, c.imagesPerPage); err != nil {
		slog.Error("error getting images page", "error", err, "page", page)
		httphelpers.TextInternalServerError(w, "Error listing images")
		return
	}

	result := models.PageResult{
		Images:   make([]models.ImageRecord, 0, len(images)),
		Page:     page,
		LastPage: page == lastPage,
	}

	for _, img := range images {
		result.Images = append(result.Images, img.ToRecord())
	}

	writeJSON(w, http.StatusOK, result)
}

/*
DELETE /api/delete/{identity}
*/
func (c ImagesController) DeleteImage(w http.ResponseWriter, r *http.Request) {
	var (
		err      error
		filename string
	)

	identity := httphelpers.GetFromRequest[string](r, "identity")

	if filename, _, err = models.SplitIdentity(identity); err != nil {
		slog.Warn("invalid image identity in delete", "error", err, "identity", identity)
		httphelpers.WriteText(w, http.StatusNotFound, "Filename not found")
		return
	}

	if err = c.imageService.Delete(filename); err != nil {
		if errors.Is(err, models.ErrImageNotFound) {
			httphelpers.WriteText(w, http.StatusNotFound, "Image not found")
			return
		}

		slog.Error("error deleting image", "error", err, "identity", identity)
		httphelpers.TextInternalServerError(w, "Error deleting image")
		return
	}

	/*
	 * The row is gone, so the image no longer lists. A leftover object is
	 * picked up by the orphan sweeper.
	 */
	if err = c.storage.Remove(identity); err != nil {
		slog.Warn("error removing image object after delete", "error", err, "identity", identity)
	}

	slog.Info("image deleted", "identity", identity)
	writeJSON(w, http.StatusOK, map[string]string{"Success": "Image deleted"})
}

/*
POST /api/upload/
*/
func (c ImagesController) UploadImage(w http.ResponseWriter, r *http.Request) {
	var (
		err    error
		file   multipart.File
		header *multipart.FileHeader
		data   []byte
		stored *models.Image
	)

	if r.ContentLength > c.maxUploadBytes {
		slog.Warn("upload too large", "contentLength", r.ContentLength)
		httphelpers.WriteText(w, http.StatusRequestEntityTooLarge, "File Too Large")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, c.maxUploadBytes)

	if err = r.ParseMultipartForm(c.maxUploadBytes); err != nil {
		var maxBytesErr *http.MaxBytesError

		if errors.As(err, &maxBytesErr) {
			httphelpers.WriteText(w, http.StatusRequestEntityTooLarge, "File Too Large")
			return
		}

		httphelpers.WriteText(w, http.StatusBadRequest, fmt.Sprintf("failed to parse form: %s", err.Error()))
		return
	}

	if file, header, err = r.FormFile("image"); err != nil {
		httphelpers.WriteText(w, http.StatusBadRequest, "Missing image")
		return
	}

	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	originalName := strings.TrimSuffix(filepath.Base(header.Filename), filepath.Ext(header.Filename))

	if !services.IsAllowedExtension(ext) {
		slog.Warn("file type not allowed", "fileName", header.Filename)
		httphelpers.WriteText(w, http.StatusBadRequest, "File type not allowed")
		return
	}

	if data, err = io.ReadAll(file); err != nil {
		slog.Error("error reading uploaded file", "error", err, "fileName", header.Filename)
		httphelpers.WriteText(w, http.StatusBadRequest, "Invalid file")
		return
	}

	if _, _, err = image.DecodeConfig(bytes.NewReader(data)); err != nil {
		slog.Warn("uploaded file is not an image", "error", err, "fileName", header.Filename)
		httphelpers.WriteText(w, http.StatusBadRequest, "Invalid file")
		return
	}

	img := models.Image{
		Filename:     uuid.NewString(),
		OriginalName: originalName,
		Size:         int64(math.Round(float64(len(data)) / 1024)),
		FileType:     ext,
	}

	if err = c.storage.Put(img.Identity(), bytes.NewReader(data)); err != nil {
		slog.Error("error storing uploaded image", "error", err, "identity", img.Identity())
		httphelpers.TextInternalServerError(w, "Error storing image")
		return
	}

	if stored, err = c.imageService.Add(img); err != nil {
		slog.Error("error inserting image", "error", err, "identity", img.Identity())

		if removeErr := c.storage.Remove(img.Identity()); removeErr != nil {
			slog.Error("error removing image object after failed insert", "error", removeErr, "identity", img.Identity())
		}

		httphelpers.TextInternalServerError(w, "Error inserting image")
		return
	}

	slog.Info("image uploaded", "identity", stored.Identity(), "originalName", stored.OriginalName, "sizeKB", stored.Size)
	writeJSON(w, http.StatusCreated, stored.ToRecord())
}

/*
GET /images/{filename}
*/
func (c ImagesController) ServeImage(w http.ResponseWriter, r *http.Request) {
	var (
		err      error
		fileType string
		object   services.StoredImage
	)

	identity := httphelpers.GetFromRequest[string](r, "filename")

	if _, fileType, err = models.SplitIdentity(identity); err != nil {
		httphelpers.WriteText(w, http.StatusNotFound, "Image not found")
		return
	}

	if object, err = c.storage.Get(r.Context(), identity); err != nil {
		if errors.Is(err, models.ErrImageNotFound) {
			httphelpers.WriteText(w, http.StatusNotFound, "Image not found")
			return
		}

		slog.Error("error getting image object", "error", err, "identity", identity)
		httphelpers.TextInternalServerError(w, "Failed to load image")
		return
	}

	defer object.Body.Close()

	contentType := mime.TypeByExtension(strings.ToLower(fileType))

	if contentType == "" {
		contentType = object.ContentType
	}

	w.Header().Set("Content-Type", contentType)

	if object.Size > 0 {
		w.Header().Set("Content-Length", fmt.Sprintf("%d", object.Size))
	}

	if !object.LastModified.IsZero() {
		w.Header().Set("Last-Modified", object.LastModified.UTC().Format(http.TimeFormat))
	}

	if _, err = io.Copy(w, object.Body); err != nil {
		slog.Error("error streaming image", "error", err, "identity", identity)
	}
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(value); err != nil {
		slog.Warn("failed to encode JSON response", "error", err)
	}
}
