package gallery

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/adampresley/imagegallery/pkg/models"
	"github.com/adampresley/imagegallery/pkg/services"
)

/*
fakeImageAPI serves pages out of an in-memory slice the same way the image
API does: clamped pages and a server-computed last_page.
*/
type fakeImageAPI struct {
	mu        sync.Mutex
	images    []models.ImageRecord
	perPage   int
	listErr   error
	deleteErr error
	openErr   error
	listCalls []int
	deleted   []string
}

func newFakeImageAPI(count, perPage int) *fakeImageAPI {
	f := &fakeImageAPI{perPage: perPage}

	for i := range count {
		f.images = append(f.images, models.ImageRecord{
			Filename:     fmt.Sprintf("img%02d", i),
			FileType:     ".png",
			OriginalName: fmt.Sprintf("photo%02d", i),
			Size:         float64(i + 1),
			UploadDate:   "2024-01-01 00:00:00",
		})
	}

	return f
}

func (f *fakeImageAPI) ListImages(ctx context.Context, page int) (models.PageResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.listCalls = append(f.listCalls, page)

	if f.listErr != nil {
		return models.PageResult{}, f.listErr
	}

	page, lastPage := services.ClampPage(page, len(f.images), f.perPage)
	start := min((page-1)*f.perPage, len(f.images))
	end := min(start+f.perPage, len(f.images))

	return models.PageResult{
		Images:   append([]models.ImageRecord{}, f.images[start:end]...),
		Page:     page,
		LastPage: page == lastPage,
	}, nil
}

func (f *fakeImageAPI) DeleteImage(ctx context.Context, identity string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.deleteErr != nil {
		return f.deleteErr
	}

	for i, record := range f.images {
		if record.Identity() == identity {
			f.images = append(f.images[:i], f.images[i+1:]...)
			f.deleted = append(f.deleted, identity)
			return nil
		}
	}

	return fmt.Errorf("%w: %s", models.ErrImageNotFound, identity)
}

func (f *fakeImageAPI) OpenImage(ctx context.Context, identity string) (services.ImageObject, error) {
	if f.openErr != nil {
		return services.ImageObject{}, f.openErr
	}

	return services.ImageObject{
		Body:        io.NopCloser(strings.NewReader("bytes-of-" + identity)),
		ContentType: "image/png",
		Size:        int64(len("bytes-of-" + identity)),
	}, nil
}

func (f *fakeImageAPI) Upload(ctx context.Context, fileName string, body io.Reader) (models.ImageRecord, error) {
	return models.ImageRecord{}, fmt.Errorf("upload not supported by this fake")
}
