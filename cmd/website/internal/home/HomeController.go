package home

import (
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/imagegallery/cmd/website/internal/gallery"
	"github.com/adampresley/imagegallery/cmd/website/internal/viewmodels"
	"github.com/adampresley/imagegallery/pkg/models"
	"github.com/adampresley/imagegallery/pkg/services"
)

type HomeHandlers interface {
	HomePage(w http.ResponseWriter, r *http.Request)
	UploadAction(w http.ResponseWriter, r *http.Request)
}

type HomeControllerConfig struct {
	ImageAPI       services.ImageAPIClienter
	MaxUploadBytes int64
	Renderer       rendering.TemplateRenderer
}

type HomeController struct {
	imageAPI       services.ImageAPIClienter
	maxUploadBytes int64
	renderer       rendering.TemplateRenderer
}

func NewHomeController(config HomeControllerConfig) HomeController {
	return HomeController{
		imageAPI:       config.ImageAPI,
		maxUploadBytes: config.MaxUploadBytes,
		renderer:       config.Renderer,
	}
}

/*
GET /
*/
func (c HomeController) HomePage(w http.ResponseWriter, r *http.Request) {
	viewData := viewmodels.HomePage{
		BaseViewModel: viewmodels.BaseViewModel{
			IsHtmx: httphelpers.IsHtmx(r),
		},
	}

	c.renderer.Render("pages/home", viewData, w)
}

/*
POST /upload
*/
func (c HomeController) UploadAction(w http.ResponseWriter, r *http.Request) {
	viewData := c.upload(r)

	if viewData.Uploaded != nil {
		c.renderer.Render("pages/upload-success", viewData, w)
		return
	}

	c.renderer.Render("pages/home", viewData, w)
}

func (c HomeController) upload(r *http.Request) viewmodels.HomePage {
	var (
		err    error
		file   multipart.File
		header *multipart.FileHeader
		record models.ImageRecord
	)

	viewData := viewmodels.HomePage{
		BaseViewModel: viewmodels.BaseViewModel{
			IsHtmx: httphelpers.IsHtmx(r),
		},
	}

	if c.maxUploadBytes > 0 && r.ContentLength > c.maxUploadBytes {
		viewData.IsWarning = true
		viewData.Message = "That file is too large. Please choose a smaller image."
		return viewData
	}

	if file, header, err = r.FormFile("image"); err != nil {
		slog.Error("error reading uploaded file", "error", err)
		viewData.IsWarning = true
		viewData.Message = "Please choose an image to upload."
		return viewData
	}

	defer file.Close()

	if !services.IsAllowedExtension(filepath.Ext(header.Filename)) {
		viewData.IsWarning = true
		viewData.Message = "Only .jpg, .jpeg, .png and .gif images can be uploaded."
		return viewData
	}

	if record, err = c.imageAPI.Upload(r.Context(), header.Filename, file); err != nil {
		switch {
		case errors.Is(err, models.ErrFileTooLarge):
			viewData.IsWarning = true
			viewData.Message = "That file is too large. Please choose a smaller image."

		case errors.Is(err, models.ErrUnexpectedStatus):
			slog.Error("image api rejected upload", "error", err, "fileName", header.Filename)
			viewData.IsWarning = true
			viewData.Message = "That file could not be accepted as an image."

		default:
			slog.Error("error uploading image", "error", err, "fileName", header.Filename)
			viewData.IsError = true
			viewData.Message = "An unexpected error occurred. Please try again."
		}

		return viewData
	}

	card := gallery.RenderCard(record)
	viewData.Uploaded = &card
	return viewData
}
