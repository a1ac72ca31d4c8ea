// Package safego runs background work with panic recovery so a failing
// watcher or profiler cannot take the terminal UI down with it.
package safego

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/andyrewlee/boxpick/internal/logging"
)

// PanicHandler receives panic details from recovered goroutines.
type PanicHandler func(name string, recovered any, stack []byte)

// PanicError is returned by RunE when fn panicked.
type PanicError struct {
	Name      string
	Recovered any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic in %s: %v", e.Name, e.Recovered)
}

var (
	panicHandlerMu sync.RWMutex
	panicHandler   PanicHandler
)

// SetPanicHandler registers a global handler for recovered panics.
func SetPanicHandler(handler PanicHandler) {
	panicHandlerMu.Lock()
	panicHandler = handler
	panicHandlerMu.Unlock()
}

func label(name string) string {
	if name == "" {
		return "goroutine"
	}
	return name
}

func report(name string, r any) {
	stack := debug.Stack()
	logging.Error("panic in %s: %v\n%s", name, r, stack)
	panicHandlerMu.RLock()
	handler := panicHandler
	panicHandlerMu.RUnlock()
	if handler != nil {
		func() {
			defer func() { _ = recover() }()
			handler(name, r, stack)
		}()
	}
}

// Run executes fn and converts panics into logged errors.
// Runtime-fatal errors (concurrent map writes) are not recoverable.
func Run(name string, fn func()) {
	_ = RunE(name, func() error {
		fn()
		return nil
	})
}

// RunE executes fn and returns its error, or a *PanicError if it panicked.
func RunE(name string, fn func() error) (err error) {
	name = label(name)
	defer func() {
		if r := recover(); r != nil {
			report(name, r)
			err = &PanicError{Name: name, Recovered: r}
		}
	}()
	return fn()
}

// Go runs fn in a new goroutine with panic recovery.
func Go(name string, fn func()) {
	go Run(name, fn)
}

// GoContext runs fn in a new goroutine until ctx is done. Errors other than
// context cancellation are logged under name.
func GoContext(ctx context.Context, name string, fn func(context.Context) error) {
	go func() {
		err := RunE(name, func() error { return fn(ctx) })
		if err == nil || errors.Is(err, context.Canceled) {
			return
		}
		var perr *PanicError
		if errors.As(err, &perr) {
			return
		}
		logging.Warn("%s stopped: %v", label(name), err)
	}()
}
