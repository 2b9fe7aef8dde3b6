package capture

import (
	"errors"
	"fmt"
)

// ErrAlreadyExists is returned when a capture directory already holds a
// complete manifest and force was not requested. Nothing is mutated.
var ErrAlreadyExists = errors.New("capture output already exists")

// ErrCascadeAbort marks failures in the top-level resolution cascade. The
// run stops, but fixtures already recorded are still flushed.
var ErrCascadeAbort = errors.New("capture aborted")

// Cascade abort causes, each matchable via errors.Is against both the
// specific sentinel and ErrCascadeAbort.
var (
	ErrNoMediaData  = fmt.Errorf("%w: no media data", ErrCascadeAbort)
	ErrNoPlaylist   = fmt.Errorf("%w: media data has no playlist url", ErrCascadeAbort)
	ErrPlaylistLoad = fmt.Errorf("%w: main playlist could not be loaded", ErrCascadeAbort)
	ErrNoSubtitles  = fmt.Errorf("%w: no matching subtitles", ErrCascadeAbort)
)

// IsRecoverable reports whether err is an expected capture outcome that the
// CLI logs without signaling process failure.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrCascadeAbort) || errors.Is(err, ErrAlreadyExists)
}
