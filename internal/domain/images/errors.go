package images

import "errors"

var ErrUploaderRequired = errors.New("uploader is required")
