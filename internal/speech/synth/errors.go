package synth

import "errors"

var (
	// ErrNoBackends means the chain was built with nothing to try.
	ErrNoBackends = errors.New("no synthesis backends configured")

	// ErrUnsupportedVoice classifies a remote rejection of the requested
	// voice or model, as opposed to a transient failure. A backend that can
	// recover from it (by retrying with a standard voice) does so before
	// surfacing anything to the chain.
	ErrUnsupportedVoice = errors.New("voice model not supported")

	// ErrAllBackendsFailed means every backend in the chain was attempted
	// and none produced audio.
	ErrAllBackendsFailed = errors.New("all synthesis backends failed")
)
