// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package context

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
)

// SignalError is the cancellation cause of a context
// cancelled by WithSignalCancel
type SignalError struct {
	Signal os.Signal
}

func (e *SignalError) Error() string {
	return fmt.Sprintf("interrupted by %s", e.Signal)
}

// WithSignalCancel returns a context which is cancelled when any of sigs
// is received. context.Cause then reports the signal as *SignalError.
func WithSignalCancel(ctx context.Context, l *log.Logger, sigs ...os.Signal) (
	context.Context, context.CancelFunc) {
	ctx, cancelFunc := context.WithCancelCause(ctx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, sigs...)

	go func() {
		select {
		case sig := <-sigChan:
			l.Printf("Cancellation signal (%s) received", sig)
			cancelFunc(&SignalError{Signal: sig})
		case <-ctx.Done():
		}
	}()

	f := func() {
		signal.Stop(sigChan)
		cancelFunc(context.Canceled)
	}

	return ctx, f
}
