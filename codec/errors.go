package codec

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrCancelled is returned when the context ends before a run completes.
	ErrCancelled = errors.New("codec: cancelled")
	// ErrEmptyPayload is returned when there is nothing to encode.
	ErrEmptyPayload = errors.New("codec: empty payload")
	// ErrUnsupportedOrdering is returned for games encoded with an unknown move ordering.
	ErrUnsupportedOrdering = errors.New("codec: unsupported move ordering")
	// ErrUnknownCompression is returned for compression names other than none, gzip and zstd.
	ErrUnknownCompression = errors.New("codec: unknown compression")
)

// DesyncError means a recorded move does not line up with the legal moves the
// decoder sees. The archive is not decodable. Game and Ply are 1-based.
type DesyncError struct {
	Game   int
	Ply    int
	Token  string
	Reason string
}

func (e *DesyncError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("codec: desync in game %d at ply %d: %s", e.Game, e.Ply, e.Reason)
	}
	return fmt.Sprintf("codec: desync in game %d at ply %d (%q): %s", e.Game, e.Ply, e.Token, e.Reason)
}

// cancelError matches ErrCancelled and unwraps to the context error.
type cancelError struct {
	cause error
}

func (e *cancelError) Error() string        { return ErrCancelled.Error() + ": " + e.cause.Error() }
func (e *cancelError) Is(target error) bool { return target == ErrCancelled }
func (e *cancelError) Unwrap() error        { return e.cause }

func cancelled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return &cancelError{cause: err}
	}
	return nil
}
