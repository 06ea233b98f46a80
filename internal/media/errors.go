// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package media

import "errors"

var (
	// ErrFileTooLarge is returned when an upload exceeds the size limit.
	ErrFileTooLarge = errors.New("file exceeds the upload size limit")

	// ErrUnsupportedType is returned when the sniffed type is not allowed.
	ErrUnsupportedType = errors.New("unsupported image type")

	// ErrTooManyFiles is returned when a batch exceeds the file limit.
	ErrTooManyFiles = errors.New("too many files in one upload")

	// ErrNoFile is returned for an empty upload.
	ErrNoFile = errors.New("no image provided")

	// ErrTooManyPixels is returned when the declared canvas exceeds the
	// pixel limit.
	ErrTooManyPixels = errors.New("image dimensions exceed the pixel limit")

	// ErrUndecodable is returned when an allowed type fails to decode.
	ErrUndecodable = errors.New("image could not be decoded")
)

// IsRejection reports whether err is caused by the upload itself rather
// than by storage or processing faults.
func IsRejection(err error) bool {
	return errors.Is(err, ErrFileTooLarge) ||
		errors.Is(err, ErrUnsupportedType) ||
		errors.Is(err, ErrTooManyFiles) ||
		errors.Is(err, ErrNoFile) ||
		errors.Is(err, ErrTooManyPixels) ||
		errors.Is(err, ErrUndecodable)
}
