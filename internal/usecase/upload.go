package usecase

import (
	"errors"

	"job-tracker/internal/domain"
	"job-tracker/internal/resume"
)

func CheckUpload(content []byte, maxBytes int64) error {
	if len(content) == 0 {
		return domain.NewValidationError("file", "uploaded file is empty")
	}
	if maxBytes > 0 && int64(len(content)) > maxBytes {
		return domain.NewValidationError("file", "uploaded file is too large")
	}
	return nil
}

// MapExtractError turns extractor rejections into validation errors on the
// file field.
func MapExtractError(err error) error {
	switch {
	case errors.Is(err, resume.ErrEmptyFile):
		return domain.NewValidationError("file", "uploaded file is empty")
	case errors.Is(err, resume.ErrUnsupportedFormat):
		return domain.NewValidationError("file", "unsupported resume format")
	default:
		return err
	}
}
