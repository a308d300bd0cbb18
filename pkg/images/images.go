package images

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/gabriel-vasile/mimetype"

	"github.com/velomarket/velomarket-backend/pkg/errors"
)

// Slot identifies which product image an upload targets.
type Slot string

const (
	SlotThumbnail Slot = "thumbnail"
	SlotBig       Slot = "big"
)

// Dimensions is the exact pixel size a slot requires.
type Dimensions struct {
	Width  int
	Height int
}

var allowedMIMEs = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

// Inspect sniffs the payload type and decodes its pixel dimensions.
func Inspect(data []byte) (mime string, dims Dimensions, err error) {
	detected := mimetype.Detect(data)
	if _, ok := allowedMIMEs[detected.String()]; !ok {
		return "", Dimensions{}, errors.New(
			errors.CodeValidation,
			fmt.Sprintf("unsupported image type %s, expected JPEG or PNG", detected.String()),
		)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", Dimensions{}, errors.Wrap(errors.CodeValidation, err, "could not decode image")
	}
	return detected.String(), Dimensions{Width: cfg.Width, Height: cfg.Height}, nil
}

// Extension returns the canonical file extension for an allowed MIME type.
func Extension(mime string) string {
	return allowedMIMEs[mime]
}

// ValidateExact rejects the upload unless its dimensions match required exactly.
func ValidateExact(slot Slot, got, required Dimensions) error {
	if got == required {
		return nil
	}
	return errors.New(
		errors.CodeValidation,
		fmt.Sprintf("%s image must be exactly %dx%d, got %dx%d",
			slot, required.Width, required.Height, got.Width, got.Height),
	)
}
