package models

import (
	"fmt"
)

var (
	ErrImageNotFound       = fmt.Errorf("image not found")
	ErrInvalidIdentity     = fmt.Errorf("invalid image identity")
	ErrTransport           = fmt.Errorf("image api unreachable")
	ErrUnexpectedStatus    = fmt.Errorf("unexpected image api status")
	ErrMalformedResponse   = fmt.Errorf("malformed image api response")
	ErrFileTooLarge        = fmt.Errorf("file too large")
	ErrFileTypeNotAllowed  = fmt.Errorf("file type not allowed")
	ErrInvalidImageContent = fmt.Errorf("invalid image content")
)
