package gallery

import (
	"context"
	"log/slog"

	"github.com/adampresley/imagegallery/cmd/website/internal/viewmodels"
	"github.com/adampresley/imagegallery/pkg/services"
)

type ViewConfig struct {
	ImageAPI services.ImageAPIClienter
}

/*
View talks to the image API on behalf of the gallery. It holds no state of
its own; the caller passes the current State in and keeps what comes back.
*/
type View struct {
	imageAPI services.ImageAPIClienter
}

/*
DeleteResult is the outcome of a delete. Deleting never reloads the
gallery; the caller decides whether and when to refresh.
*/
type DeleteResult struct {
	Identity string
	Err      error
}

func (r DeleteResult) Succeeded() bool {
	return r.Err == nil
}

func (r DeleteResult) Action() Action {
	if r.Err != nil {
		return DeleteFailed{Identity: r.Identity, Err: r.Err}
	}

	return DeleteSucceeded{Identity: r.Identity}
}

func NewView(config ViewConfig) View {
	return View{
		imageAPI: config.ImageAPI,
	}
}

/*
LoadImages fetches one page and renders it. On failure the error is logged
and the incoming state is returned unchanged with an empty view; there is no
retry.
*/
func (v View) LoadImages(ctx context.Context, state State, page int) (State, viewmodels.GalleryPage, error) {
	if page < 1 {
		page = 1
	}

	result, err := v.imageAPI.ListImages(ctx, page)

	if err != nil {
		slog.Error("error loading images", "error", err, "page", page, "currentPage", state.CurrentPage)
		return Reduce(state, LoadFailed{Requested: page, Err: err}), viewmodels.GalleryPage{}, err
	}

	next := Reduce(state, PageLoaded{Requested: page, Result: result})
	return next, RenderPage(next, result), nil
}

func (v View) DeleteImage(ctx context.Context, identity string) DeleteResult {
	err := v.imageAPI.DeleteImage(ctx, identity)

	if err != nil {
		slog.Error("error deleting image", "error", err, "identity", identity)
	}

	return DeleteResult{
		Identity: identity,
		Err:      err,
	}
}
