package core

import (
	"errors"
)

// ErrSwapchainBooting is returned by the backend while the swapchain is
// being resized or recreated; the frame should be skipped, not failed.
var ErrSwapchainBooting = errors.New("swapchain resized or recreated, booting")
