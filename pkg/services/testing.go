package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rfberaldo/sqlz"
)

/*
SetupTestDB opens a sqlite database in a temporary directory with the images
schema created.
*/
func SetupTestDB(t *testing.T) *sqlz.DB {
	t.Helper()

	db, err := OpenDatabase("file:" + filepath.Join(t.TempDir(), "images.db"))

	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	schema := `
CREATE TABLE images (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	filename TEXT NOT NULL UNIQUE,
	original_name TEXT NOT NULL,
	size INTEGER NOT NULL,
	upload_time DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	file_type TEXT NOT NULL
);

CREATE INDEX idx_images_upload_time ON images(upload_time);
`

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if _, err = db.Exec(ctx, schema); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	return db
}
