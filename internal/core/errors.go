package core

import "errors"

var (
	// ErrDecode wraps every load failure: missing file, unsupported extension, corrupt data.
	ErrDecode = errors.New("image decode failed")
	// ErrEncode wraps every save failure.
	ErrEncode = errors.New("image encode failed")
	// ErrNoImageLoaded is returned by Save while the buffer is empty.
	ErrNoImageLoaded = errors.New("no image loaded")
	// ErrInvalidImage rejects a replacement that is not an 8-bit 3-channel image.
	ErrInvalidImage = errors.New("invalid image")
	// ErrUnknownOperation is returned for an id missing from the catalog.
	ErrUnknownOperation = errors.New("unknown operation")
)
