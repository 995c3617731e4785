package signals

import (
	"os"
	"os/signal"
	"syscall"
)

// OnSignal invokes the given function whenever the process receives an interruption or
// termination signal. The function is called in its own goroutine.
func OnSignal(fn func(sig os.Signal)) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		for sig := range sigChan {
			fn(sig)
		}
	}()
}
