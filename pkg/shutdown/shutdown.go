package shutdown

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/marcodd23/go-micro-sqlite/pkg/logx"
)

// WaitForShutdown waits for OS signals (SIGINT, SIGTERM) to gracefully shut down the application.
// It runs the cleanup code provided by the cleanupCallback function within a context with a specified timeout.
//
// Parameters:
//   - rootCtx: The parent context.
//   - timeoutMilli: The timeout duration in milliseconds to wait for the cleanup callback to complete.
//   - cleanupCallback: A function that contains the cleanup code to execute during shutdown, and that takes a timeoutCtx.
//
// Usage:
//
//	shutdown.WaitForShutdown(context.Background(), 5000, func(timeoutCtx context.Context) {
//	    if err := conn.Close(timeoutCtx); err != nil {
//	        logx.GetLogger().LogError(timeoutCtx, "error closing database", err)
//	    }
//	})
func WaitForShutdown(rootCtx context.Context, timeoutMilli int64, cleanupCallback func(timeoutCtx context.Context)) {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	WaitForSignal(rootCtx, signals, timeoutMilli, cleanupCallback)
}

// WaitForSignal blocks until a signal arrives on signals or rootCtx is done, then runs cleanupCallback
// with timeoutMilli to complete.
//
// Returns true if the cleanup completed before the timeout.
func WaitForSignal(rootCtx context.Context, signals <-chan os.Signal, timeoutMilli int64, cleanupCallback func(timeoutCtx context.Context)) bool {
	select {
	case sig := <-signals:
		logx.GetLogger().LogDebug(rootCtx, fmt.Sprintf("Interrupt signal captured: %s", sig.String()))
	case <-rootCtx.Done():
		logx.GetLogger().LogDebug(rootCtx, "Root context done, shutting down")
	}

	// the root context may already be cancelled, cleanup still gets its full timeout
	timeoutCtx, cancel := context.WithTimeout(context.WithoutCancel(rootCtx), time.Duration(timeoutMilli)*time.Millisecond)
	defer cancel()

	return cleanUp(timeoutCtx, cleanupCallback)
}

// cleanUp executes the provided cleanup callback function and logs the result.
// It waits for either the cleanup to complete or the context to be cancelled.
func cleanUp(timeoutCtx context.Context, cleanupCallback func(timeoutCtx context.Context)) bool {
	logx.GetLogger().LogInfo(timeoutCtx, "Cleaning up all resources ....")

	done := make(chan struct{})

	go func() {
		defer close(done)
		if cleanupCallback != nil {
			cleanupCallback(timeoutCtx)
		}
	}()

	select {
	case <-timeoutCtx.Done():
		logx.GetLogger().LogError(timeoutCtx, "Deadline exceeded during context cancellation", timeoutCtx.Err())
		return false
	case <-done:
		logx.GetLogger().LogInfo(timeoutCtx, "All resources cleaned up")
		return true
	}
}
