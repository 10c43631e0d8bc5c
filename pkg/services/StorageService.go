package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/adampresley/adamgokit/s3"
	"github.com/adampresley/adamgokit/s3/createbucketoptions"
	"github.com/adampresley/adamgokit/s3/getoptions"
	"github.com/adampresley/adamgokit/s3/listoptions"
	"github.com/adampresley/adamgokit/slices"
	"github.com/adampresley/imagegallery/pkg/models"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

var (
	AllowedExtensions = []string{".jpg", ".jpeg", ".png", ".gif"}
)

type StorageServicer interface {
	EnsureBucket() error
	Get(ctx context.Context, identity string) (StoredImage, error)
	List() ([]StoredObject, error)
	Put(identity string, body io.Reader) error
	Remove(identity string) error
}

type StorageServiceConfig struct {
	Bucket   string
	Folder   string
	Region   string
	S3Client s3.S3Client
}

type StorageService struct {
	bucket   string
	folder   string
	region   string
	s3Client s3.S3Client
}

/*
StoredObject is one image object found in the bucket.
*/
type StoredObject struct {
	Identity     string
	LastModified time.Time
}

/*
StoredImage is an open image body. The caller must close Body.
*/
type StoredImage struct {
	Body         io.ReadCloser
	ContentType  string
	Size         int64
	LastModified time.Time
}

func NewStorageService(config StorageServiceConfig) StorageService {
	return StorageService{
		bucket:   config.Bucket,
		folder:   config.Folder,
		region:   config.Region,
		s3Client: config.S3Client,
	}
}

func IsAllowedExtension(ext string) bool {
	return slices.IsInSlice(strings.ToLower(ext), AllowedExtensions)
}

func (s StorageService) EnsureBucket() error {
	var (
		err    error
		exists bool
	)

	if exists, err = s.s3Client.BucketExists(s.bucket); err != nil {
		return fmt.Errorf("error ensuring bucket '%s' exists: %w", s.bucket, err)
	}

	if exists {
		return nil
	}

	slog.Info("creating bucket", "bucketName", s.bucket)

	if err = s.s3Client.CreateBucket(s.bucket, createbucketoptions.WithRegion(s.region)); err != nil {
		return fmt.Errorf("error creating bucket '%s': %w", s.bucket, err)
	}

	return nil
}

func (s StorageService) Get(ctx context.Context, identity string) (StoredImage, error) {
	var (
		err    error
		stat   *s3.ObjectMetadata
		object s3.GetObjectResponse
	)

	key := s.key(identity)

	if stat, err = s.s3Client.StatObject(s.bucket, key); err != nil {
		return StoredImage{}, fmt.Errorf("error retrieving metadata for '%s': %w", key, err)
	}

	if stat == nil {
		return StoredImage{}, fmt.Errorf("error getting '%s': %w", key, models.ErrImageNotFound)
	}

	object, err = s.s3Client.Get(
		s.bucket,
		key,
		getoptions.WithContext(ctx),
	)

	if err != nil {
		return StoredImage{}, fmt.Errorf("error getting image object '%s': %w", key, err)
	}

	return StoredImage{
		Body:         object.Body,
		ContentType:  object.ContentType,
		Size:         object.Size,
		LastModified: stat.LastModified,
	}, nil
}

/*
List returns the identities of every image object in the storage folder.
Objects without an allowed image extension are skipped.
*/
func (s StorageService) List() ([]StoredObject, error) {
	var (
		err      error
		response s3.ListResponse
	)

	response, err = s.s3Client.List(
		s.bucket,
		s.folder,
		listoptions.WithGetAll(),
		listoptions.WithFilter(func(obj types.Object) bool {
			return IsAllowedExtension(filepath.Ext(aws.ToString(obj.Key)))
		}),
	)

	if err != nil {
		return nil, fmt.Errorf("error listing images in bucket '%s': %w", s.bucket, err)
	}

	result := make([]StoredObject, 0, len(response.Objects))

	for _, obj := range response.Objects {
		result = append(result, StoredObject{
			Identity:     path.Base(obj.Key),
			LastModified: obj.LastModified,
		})
	}

	return result, nil
}

func (s StorageService) Put(identity string, body io.Reader) error {
	key := s.key(identity)

	if _, err := s.s3Client.Put(s.bucket, key, body); err != nil {
		return fmt.Errorf("error uploading image '%s': %w", key, err)
	}

	return nil
}

func (s StorageService) Remove(identity string) error {
	key := s.key(identity)

	if _, err := s.s3Client.Delete(s.bucket, []string{key}); err != nil {
		return fmt.Errorf("error removing image '%s': %w", key, err)
	}

	return nil
}

func (s StorageService) key(identity string) string {
	return path.Join(s.folder, identity)
}
