package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/adampresley/imagegallery/pkg/models"
	"github.com/goccy/go-json"
)

type ImageAPIClienter interface {
	ListImages(ctx context.Context, page int) (models.PageResult, error)
	DeleteImage(ctx context.Context, identity string) error
	OpenImage(ctx context.Context, identity string) (ImageObject, error)
	Upload(ctx context.Context, fileName string, body io.Reader) (models.ImageRecord, error)
}

type ImageAPIClientConfig struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

type ImageAPIClient struct {
	baseURL    string
	httpClient *http.Client
}

/*
ImageObject is an open image body streamed from the API. The caller must
close Body.
*/
type ImageObject struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

/*
pageResultWire mirrors PageResult with pointers so that missing fields can
be told apart from zero values.
*/
type pageResultWire struct {
	Images   *[]models.ImageRecord `json:"images"`
	Page     *int                  `json:"page"`
	LastPage *bool                 `json:"last_page"`
}

func NewImageAPIClient(config ImageAPIClientConfig) ImageAPIClient {
	httpClient := config.HTTPClient

	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: config.Timeout,
		}
	}

	return ImageAPIClient{
		baseURL:    strings.TrimSuffix(config.BaseURL, "/"),
		httpClient: httpClient,
	}
}

/*
GET /api/images/?page={page}
*/
func (c ImageAPIClient) ListImages(ctx context.Context, page int) (models.PageResult, error) {
	var (
		err      error
		response *http.Response
		wire     pageResultWire
	)

	result := models.PageResult{}
	u := fmt.Sprintf("%s/api/images/?page=%d", c.baseURL, page)

	if response, err = c.do(ctx, http.MethodGet, u, nil, ""); err != nil {
		return result, err
	}

	defer response.Body.Close()

	if err = json.NewDecoder(response.Body).Decode(&wire); err != nil {
		return result, fmt.Errorf("%w: decoding page %d: %s", models.ErrMalformedResponse, page, err.Error())
	}

	if wire.Images == nil || wire.Page == nil {
		return result, fmt.Errorf("%w: page %d is missing images or page", models.ErrMalformedResponse, page)
	}

	result.Images = *wire.Images
	result.Page = *wire.Page

	if wire.LastPage != nil {
		result.LastPage = *wire.LastPage
	}

	return result, nil
}

/*
DELETE /api/delete/{identity}
*/
func (c ImageAPIClient) DeleteImage(ctx context.Context, identity string) error {
	var (
		err      error
		response *http.Response
	)

	u := fmt.Sprintf("%s/api/delete/%s", c.baseURL, url.PathEscape(identity))

	if response, err = c.do(ctx, http.MethodDelete, u, nil, ""); err != nil {
		return err
	}

	_, _ = io.Copy(io.Discard, response.Body)
	_ = response.Body.Close()
	return nil
}

/*
GET /images/{identity}
*/
func (c ImageAPIClient) OpenImage(ctx context.Context, identity string) (ImageObject, error) {
	var (
		err      error
		response *http.Response
	)

	u := fmt.Sprintf("%s/images/%s", c.baseURL, url.PathEscape(identity))

	if response, err = c.do(ctx, http.MethodGet, u, nil, ""); err != nil {
		return ImageObject{}, err
	}

	return ImageObject{
		Body:        response.Body,
		ContentType: response.Header.Get("Content-Type"),
		Size:        response.ContentLength,
	}, nil
}

/*
POST /api/upload/
*/
func (c ImageAPIClient) Upload(ctx context.Context, fileName string, body io.Reader) (models.ImageRecord, error) {
	var (
		err      error
		part     io.Writer
		response *http.Response
		record   models.ImageRecord
	)

	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	if part, err = writer.CreateFormFile("image", fileName); err != nil {
		return record, fmt.Errorf("error creating upload form for '%s': %w", fileName, err)
	}

	if _, err = io.Copy(part, body); err != nil {
		return record, fmt.Errorf("error copying '%s' into upload form: %w", fileName, err)
	}

	if err = writer.Close(); err != nil {
		return record, fmt.Errorf("error closing upload form for '%s': %w", fileName, err)
	}

	u := fmt.Sprintf("%s/api/upload/", c.baseURL)

	if response, err = c.do(ctx, http.MethodPost, u, buf, writer.FormDataContentType()); err != nil {
		return record, err
	}

	defer response.Body.Close()

	if err = json.NewDecoder(response.Body).Decode(&record); err != nil {
		return record, fmt.Errorf("%w: decoding upload of '%s': %s", models.ErrMalformedResponse, fileName, err.Error())
	}

	return record, nil
}

/*
do sends a request and returns the response when the status is 2xx. Any
other status closes the body and returns an error wrapping
ErrUnexpectedStatus. Known API rejections are mapped to their model errors.
*/
func (c ImageAPIClient) do(ctx context.Context, method, u string, body io.Reader, contentType string) (*http.Response, error) {
	var (
		err      error
		request  *http.Request
		response *http.Response
	)

	if request, err = http.NewRequestWithContext(ctx, method, u, body); err != nil {
		return nil, fmt.Errorf("error building %s request to '%s': %w", method, u, err)
	}

	if contentType != "" {
		request.Header.Set("Content-Type", contentType)
	}

	if response, err = c.httpClient.Do(request); err != nil {
		return nil, errors.Join(fmt.Errorf("%w: %s %s", models.ErrTransport, method, u), err)
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return response, nil
	}

	_, _ = io.Copy(io.Discard, response.Body)
	_ = response.Body.Close()

	statusErr := fmt.Errorf("%w: %s %s returned %s", models.ErrUnexpectedStatus, method, u, strconv.Itoa(response.StatusCode))

	switch response.StatusCode {
	case http.StatusNotFound:
		return nil, errors.Join(statusErr, models.ErrImageNotFound)
	case http.StatusRequestEntityTooLarge:
		return nil, errors.Join(statusErr, models.ErrFileTooLarge)
	}

	return nil, statusErr
}
