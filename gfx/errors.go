// Copyright (c) 2026 lumengfx
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package gfx

import "errors"

var (
	// ErrOutOfDate reports that the swapchain no longer matches the
	// surface and must be recreated before further use. It is expected
	// during resizes and never fatal.
	ErrOutOfDate = errors.New("gfx: swapchain out of date")

	// ErrExtentUnsupported reports that a swapchain could not be built
	// at the requested extent. Recreation should be retried once the
	// surface reports a usable size.
	ErrExtentUnsupported = errors.New("gfx: image extent not supported")
)
