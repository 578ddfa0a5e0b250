// ABOUTME: Player error types
// ABOUTME: SetupError attributes a failure to the pipeline stage that raised it
package player

import (
	"errors"
	"fmt"
)

var (
	// ErrPlatformFault indicates the output platform stopped the stream
	ErrPlatformFault = errors.New("output platform fault")

	// ErrInvalidConfig indicates a missing path or out-of-range option
	ErrInvalidConfig = errors.New("invalid player config")

	// ErrState indicates an operation in the wrong player state
	ErrState = errors.New("invalid player state")
)

// Stage names a setup step
type Stage string

const (
	StagePlatform  Stage = "platform"
	StageDevice    Stage = "device"
	StageDecoder   Stage = "decoder"
	StageResampler Stage = "resampler"
	StageRenderer  Stage = "renderer"
	StageRegister  Stage = "register"
	StageStart     Stage = "start"
)

// SetupError is returned for any failure before playback begins. Setup
// errors are never retried.
type SetupError struct {
	Stage Stage
	Err   error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("setup failed at %s: %v", e.Stage, e.Err)
}

func (e *SetupError) Unwrap() error { return e.Err }

func setupErr(stage Stage, err error) error {
	return &SetupError{Stage: stage, Err: err}
}
