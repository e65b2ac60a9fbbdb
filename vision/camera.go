package vision

import (
	"strconv"
	"sync"

	"github.com/LdDl/googly-eyes/facetrack"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// Camera reads frames from a capture device or a video file. Frames of the
// front camera are mirrored so the picture behaves like a mirror.
type Camera struct {
	capture *gocv.VideoCapture
	mode    facetrack.Mode
	mu      sync.Mutex
}

// OpenCamera opens device: a numeric capture index or a file path / URL
func OpenCamera(device string, mode facetrack.Mode) (*Camera, error) {
	var source any = device
	if id, err := strconv.Atoi(device); err == nil {
		source = id
	}
	capture, err := gocv.OpenVideoCapture(source)
	if err != nil {
		return nil, errors.Wrapf(err, "can't open capture device %q", device)
	}
	return &Camera{capture: capture, mode: mode}, nil
}

// Mode returns the camera mode
func (c *Camera) Mode() facetrack.Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// SetMode switches mirroring for subsequent frames
func (c *Camera) SetMode(mode facetrack.Mode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = mode
}

// Read grabs the next frame into dst
func (c *Camera) Read(dst *gocv.Mat) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ok := c.capture.Read(dst); !ok {
		return errors.New("can't read frame")
	}
	if dst.Empty() {
		return errors.New("empty frame")
	}
	if c.mode == facetrack.ModeFront {
		gocv.Flip(*dst, dst, 1)
	}
	return nil
}

// Close releases the capture device
func (c *Camera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.capture.Close()
}
