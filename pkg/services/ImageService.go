package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/adampresley/imagegallery/pkg/models"
	_ "github.com/glebarez/sqlite"
	"github.com/rfberaldo/sqlz"
	"github.com/rfberaldo/sqlz/binds"
)

var (
	registerBinds sync.Once
)

type ImageServicer interface {
	Add(image models.Image) (*models.Image, error)
	Count() (int, error)
	Delete(filename string) error
	Exists(filename string) (bool, error)
	GetPage(page, perPage int) ([]*models.Image, error)
}

type ImageServiceConfig struct {
	DB *sqlz.DB
}

type ImageService struct {
	db *sqlz.DB
}

/*
OpenDatabase connects to the sqlite database described by dsn, registering
question mark binds for the driver first.
*/
func OpenDatabase(dsn string) (*sqlz.DB, error) {
	registerBinds.Do(func() {
		binds.Register("sqlite", binds.BindByDriver("sqlite3"))
	})

	db, err := sqlz.Connect("sqlite", dsn)

	if err != nil {
		return nil, fmt.Errorf("error connecting to database '%s': %w", dsn, err)
	}

	return db, nil
}

func NewImageService(config ImageServiceConfig) ImageService {
	return ImageService{
		db: config.DB,
	}
}

func (s ImageService) Add(image models.Image) (*models.Image, error) {
	var (
		err error
	)

	if image.UploadTime.IsZero() {
		image.UploadTime = time.Now().UTC()
	}

	sql := `
INSERT INTO images (
	filename
	, original_name
	, size
	, upload_time
	, file_type
) VALUES (?, ?, ?, ?, ?)
`

	params := []any{
		image.Filename,
		image.OriginalName,
		image.Size,
		image.UploadTime,
		image.FileType,
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if _, err = s.db.Exec(ctx, sql, params...); err != nil {
		return nil, fmt.Errorf("error inserting image '%s': %w", image.Identity(), err)
	}

	result := &models.Image{}

	sql = `
SELECT
	i.id
	, i.filename
	, i.original_name
	, i.size
	, i.upload_time
	, i.file_type
FROM images AS i
WHERE 1=1
	AND i.filename=?
`

	ctx, cancel = context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = s.db.QueryRow(ctx, result, sql, image.Filename); err != nil {
		return nil, fmt.Errorf("error reading back image '%s': %w", image.Identity(), err)
	}

	return result, nil
}

func (s ImageService) Count() (int, error) {
	var (
		err   error
		count int
	)

	sql := `SELECT COUNT(*) FROM images`

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = s.db.QueryRow(ctx, &count, sql); err != nil {
		return 0, fmt.Errorf("error counting images: %w", err)
	}

	return count, nil
}

/*
Delete removes the image row with the given filename. ErrImageNotFound is
returned when no row matched.
*/
func (s ImageService) Delete(filename string) error {
	var (
		err      error
		affected int64
	)

	sql := `
DELETE FROM images
WHERE 1=1
	AND filename=?
`

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	result, err := s.db.Exec(ctx, sql, filename)

	if err != nil {
		return fmt.Errorf("error deleting image '%s': %w", filename, err)
	}

	if affected, err = result.RowsAffected(); err != nil {
		return fmt.Errorf("error reading rows affected deleting image '%s': %w", filename, err)
	}

	if affected == 0 {
		return fmt.Errorf("%w: %s", models.ErrImageNotFound, filename)
	}

	return nil
}

func (s ImageService) Exists(filename string) (bool, error) {
	var (
		err   error
		count int
	)

	sql := `
SELECT COUNT(*)
FROM images
WHERE 1=1
	AND filename=?
`

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = s.db.QueryRow(ctx, &count, sql, filename); err != nil {
		return false, fmt.Errorf("error checking if image '%s' exists: %w", filename, err)
	}

	return count > 0, nil
}

/*
GetPage returns one page of images, newest first. Pages start at 1.
*/
func (s ImageService) GetPage(page, perPage int) ([]*models.Image, error) {
	var (
		err error
	)

	result := []*models.Image{}

	if page < 1 {
		page = 1
	}

	sql := `
SELECT
	i.id
	, i.filename
	, i.original_name
	, i.size
	, i.upload_time
	, i.file_type
FROM images AS i
ORDER BY i.upload_time DESC, i.id DESC
LIMIT ? OFFSET ?
`

	params := []any{
		perPage,
		(page - 1) * perPage,
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = s.db.Query(ctx, &result, sql, params...); err != nil && !sqlz.IsNotFound(err) {
		return result, fmt.Errorf("error querying for images page %d: %w", page, err)
	}

	return result, nil
}

/*
ClampPage pins a requested page to [1, lastPage] for a store holding count
images. An empty store has a single, empty, page.
*/
func ClampPage(requested, count, perPage int) (page int, lastPage int) {
	if perPage < 1 {
		perPage = 1
	}

	lastPage = 1

	if count > 0 {
		lastPage = (count-1)/perPage + 1
	}

	page = max(requested, 1)
	page = min(page, lastPage)
	return page, lastPage
}
