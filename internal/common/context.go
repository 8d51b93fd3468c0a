package common

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// WithInterrupt derives a context that is cancelled on SIGINT or SIGTERM,
// so a hub call or a keep-alive loop stops cleanly on Ctrl+C. The returned
// cleanup must be called once the command is done.
func WithInterrupt(parent context.Context) (context.Context, func()) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
