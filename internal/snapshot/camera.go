package snapshot

import (
	"bytes"
	"context"
	"os/exec"

	"secureattend/internal/apperr"
)

// Camera acquires one frame as encoded image bytes. Device access lives
// behind this contract; the marking flow only sees bytes or a failure.
type Camera interface {
	Capture(ctx context.Context) ([]byte, error)
}

// ExecCamera shells out to a frame-grabber command that writes a JPEG to
// stdout (e.g. fswebcam --save -, or ffmpeg with a single-frame capture).
type ExecCamera struct {
	Command string
	Args    []string
}

// NewExecCamera builds a camera from a command line.
func NewExecCamera(command string, args ...string) *ExecCamera {
	return &ExecCamera{Command: command, Args: args}
}

// Capture runs the grabber and returns its stdout. Any failure, including
// an empty frame, is reported as the camera being unavailable.
func (c *ExecCamera) Capture(ctx context.Context) ([]byte, error) {
	if c.Command == "" {
		return nil, apperr.ErrCameraUnavailable
	}
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, c.Command, c.Args...)
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return nil, apperr.Wrap(apperr.ErrCameraUnavailable, err)
	}
	if out.Len() == 0 {
		return nil, apperr.ErrCameraUnavailable
	}
	return out.Bytes(), nil
}
