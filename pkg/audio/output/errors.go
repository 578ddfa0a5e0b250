// ABOUTME: Sentinel errors for device negotiation and stream registration
// ABOUTME: Setup failures surface here before any callback is registered
package output

import "errors"

var (
	// ErrNoDevice indicates the platform has no default playback device
	ErrNoDevice = errors.New("no output device available")

	// ErrNoConfig indicates the device reported no usable default configuration
	ErrNoConfig = errors.New("no default output config")

	// ErrUnknownBackend indicates an unrecognized backend name
	ErrUnknownBackend = errors.New("unknown output backend")

	// ErrBackendUnavailable indicates the backend was not compiled into this build
	ErrBackendUnavailable = errors.New("output backend not available in this build")

	// ErrDeviceStopped indicates the platform stopped the stream on its own
	ErrDeviceStopped = errors.New("output device stopped unexpectedly")

	// ErrStreamClosed indicates an operation on a closed stream
	ErrStreamClosed = errors.New("output stream closed")
)
