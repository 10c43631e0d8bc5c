package models

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	UploadDateFormat = "2006-01-02 15:04:05"
)

/*
Image is a row in the images table.
*/
type Image struct {
	ID           uint      `db:"id"`
	Filename     string    `db:"filename"`
	OriginalName string    `db:"original_name"`
	Size         int64     `db:"size"`
	UploadTime   time.Time `db:"upload_time"`
	FileType     string    `db:"file_type"`
}

func (i Image) Identity() string {
	return i.Filename + i.FileType
}

func (i Image) ToRecord() ImageRecord {
	return ImageRecord{
		Filename:     i.Filename,
		FileType:     i.FileType,
		OriginalName: i.OriginalName,
		Size:         float64(i.Size),
		UploadDate:   i.UploadTime.Format(UploadDateFormat),
	}
}

/*
ImageRecord is one image's metadata as returned by the list endpoint. Size is
in kilobytes.
*/
type ImageRecord struct {
	Filename     string  `json:"filename"`
	FileType     string  `json:"file_type"`
	OriginalName string  `json:"original_name"`
	Size         float64 `json:"size"`
	UploadDate   string  `json:"upload_date"`
}

// Identity is the key used to address an image for display and deletion.
func (r ImageRecord) Identity() string {
	return r.Filename + r.FileType
}

func (r ImageRecord) DisplayName() string {
	return r.OriginalName + r.FileType
}

func (r ImageRecord) SizeText() string {
	return strconv.FormatFloat(r.Size, 'f', -1, 64) + " KB"
}

/*
PageResult is one page worth of image records plus pagination metadata.
Pages are 1-indexed.
*/
type PageResult struct {
	Images   []ImageRecord `json:"images"`
	Page     int           `json:"page"`
	LastPage bool          `json:"last_page"`
}

/*
SplitIdentity breaks an identity key into its filename and file type. The
file type keeps its leading dot.
*/
func SplitIdentity(identity string) (string, string, error) {
	if strings.ContainsAny(identity, `/\`) || strings.Contains(identity, "..") {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidIdentity, identity)
	}

	fileType := filepath.Ext(identity)
	filename := strings.TrimSuffix(identity, fileType)

	if filename == "" {
		return "", "", fmt.Errorf("%w: %q has no filename", ErrInvalidIdentity, identity)
	}

	return filename, fileType, nil
}
