package ports

import (
	"context"

	"github.com/cp25sy5-modjot/native-bridge/internal/domain"
)

// ShareDone reports whether the user completed the share action.
type ShareDone func(completed bool, err error)

type ShareSheet interface {
	// Present shows the share surface. It must only be called from a
	// function running on the UIExecutor.
	Present(ctx context.Context, sheet domain.ShareSheet, done ShareDone) error
}

// UIExecutor is the UI-owning execution context.
type UIExecutor interface {
	// Post schedules fn on the UI context. It fails if the context is gone.
	// Once Post succeeds exactly one of fn or dropped runs: dropped gets the
	// reason when the context stops before reaching fn.
	Post(fn func(), dropped func(error)) error
}
