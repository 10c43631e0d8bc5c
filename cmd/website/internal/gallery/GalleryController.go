package gallery

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/imagegallery/cmd/website/internal/viewmodels"
	"github.com/adampresley/imagegallery/pkg/models"
	"github.com/adampresley/imagegallery/pkg/services"
)

type GalleryHandlers interface {
	DeleteAction(w http.ResponseWriter, r *http.Request)
	ImagesFragment(w http.ResponseWriter, r *http.Request)
	ImagesPage(w http.ResponseWriter, r *http.Request)
	ServeImage(w http.ResponseWriter, r *http.Request)
}

type GalleryControllerConfig struct {
	ImageAPI services.ImageAPIClienter
	Renderer rendering.TemplateRenderer
}

type GalleryController struct {
	imageAPI services.ImageAPIClienter
	renderer rendering.TemplateRenderer
	view     View
}

func NewGalleryController(config GalleryControllerConfig) GalleryController {
	return GalleryController{
		imageAPI: config.ImageAPI,
		renderer: config.Renderer,
		view: NewView(ViewConfig{
			ImageAPI: config.ImageAPI,
		}),
	}
}

/*
GET /images/
*/
func (c GalleryController) ImagesPage(w http.ResponseWriter, r *http.Request) {
	viewData := c.buildImagesPage(r)
	c.renderer.Render("pages/images", viewData, w)
}

/*
GET /images/fragment?page={page}
*/
func (c GalleryController) ImagesFragment(w http.ResponseWriter, r *http.Request) {
	state := InitialState(r.URL.Query())
	c.writeGallery(w, r, state, state.CurrentPage)
}

/*
DELETE /images/delete/{identity}?page={page}
*/
func (c GalleryController) DeleteAction(w http.ResponseWriter, r *http.Request) {
	state := InitialState(r.URL.Query())
	identity := httphelpers.GetFromRequest[string](r, "identity")

	result := c.view.DeleteImage(r.Context(), identity)
	state = Reduce(state, result.Action())

	if !result.Succeeded() {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	c.writeGallery(w, r, state, state.CurrentPage)
}

/*
GET /images/{filename}
*/
func (c GalleryController) ServeImage(w http.ResponseWriter, r *http.Request) {
	var (
		err    error
		object services.ImageObject
	)

	identity := httphelpers.GetFromRequest[string](r, "filename")

	if _, _, err = models.SplitIdentity(identity); err != nil {
		httphelpers.WriteText(w, http.StatusNotFound, "image not found")
		return
	}

	if object, err = c.imageAPI.OpenImage(r.Context(), identity); err != nil {
		if errors.Is(err, models.ErrImageNotFound) {
			httphelpers.WriteText(w, http.StatusNotFound, "image not found")
			return
		}

		slog.Error("error getting image from image api", "error", err, "identity", identity)
		httphelpers.WriteText(w, http.StatusBadGateway, "Failed to load image")
		return
	}

	defer object.Body.Close()

	if object.ContentType != "" {
		w.Header().Set("Content-Type", object.ContentType)
	}

	if object.Size > 0 {
		w.Header().Set("Content-Length", fmt.Sprintf("%d", object.Size))
	}

	if _, err = io.Copy(w, object.Body); err != nil {
		slog.Error("error streaming image", "error", err, "identity", identity)
	}
}

/*
buildImagesPage loads the page named in the query string. A failed load
leaves the gallery slot empty; the error is only logged.
*/
func (c GalleryController) buildImagesPage(r *http.Request) viewmodels.ImagesPage {
	state := InitialState(r.URL.Query())

	viewData := viewmodels.ImagesPage{
		BaseViewModel: viewmodels.BaseViewModel{
			IsHtmx: httphelpers.IsHtmx(r),
			JavascriptIncludes: []rendering.JavascriptInclude{
				{Type: "module", Src: "/static/js/pages/images.js"},
			},
		},
	}

	_, view, err := c.view.LoadImages(r.Context(), state, state.CurrentPage)

	if err != nil {
		return viewData
	}

	if viewData.Gallery, err = RenderFragment(view); err != nil {
		slog.Error("error rendering gallery", "error", err, "page", view.Page)
		viewData.Gallery = template.HTML("")
	}

	return viewData
}

/*
writeGallery answers an htmx request with the gallery fragment for page and
pushes the page into the browser history. When the load fails it answers 204
so htmx leaves the current gallery in place.
*/
func (c GalleryController) writeGallery(w http.ResponseWriter, r *http.Request, state State, page int) {
	var (
		err      error
		view     viewmodels.GalleryPage
		fragment template.HTML
	)

	if _, view, err = c.view.LoadImages(r.Context(), state, page); err != nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if fragment, err = RenderFragment(view); err != nil {
		slog.Error("error rendering gallery", "error", err, "page", view.Page)
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("HX-Push-Url", view.HistoryURL)
	httphelpers.WriteHtml(w, http.StatusOK, string(fragment))
}
