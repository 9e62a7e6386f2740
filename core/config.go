// Copyright (c) 2026 lumengfx
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	glm "github.com/go-gl/mathgl/mgl32"
)

// Configuration defines a global engine configuration setting
type Configuration struct {
	Time   TimeConfiguration
	Engine EngineConfiguration
}

// TimeConfiguration is used to configure time services
type TimeConfiguration struct {
	// FramesPerSecond caps frames per second that is put out.
	// To unlimit, set to 0
	FramesPerSecond int

	// EventPollDelay is the host event polling interval in milliseconds
	EventPollDelay int
}

// EngineConfiguration is used to configure the presentation engine
type EngineConfiguration struct {
	// DeviceExtensions lists device extensions an adapter
	// must support to be eligible for selection
	DeviceExtensions []string

	// ClearColor is the color every presented frame is cleared to
	ClearColor glm.Vec4

	ScreenWidth  uint32
	ScreenHeight uint32
}

// DefaultClearColor is used when no clear color is configured.
var DefaultClearColor = glm.Vec4{0.0, 0.68, 1.0, 1.0}
