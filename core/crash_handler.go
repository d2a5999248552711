// Package core provides panic-safe goroutine launch with terminal restoration
package core

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync"
)

var (
	finalizerMu sync.Mutex
	finalizer   func()

	// exit and stderr are swapped in tests
	exit   = os.Exit
	stderr io.Writer = os.Stderr
)

// SetFinalizer registers the function that restores the screen before a crash report
// Pass nil to clear; the returned func restores the previous finalizer
func SetFinalizer(fn func()) (restore func()) {
	finalizerMu.Lock()
	prev := finalizer
	finalizer = fn
	finalizerMu.Unlock()
	return func() {
		finalizerMu.Lock()
		finalizer = prev
		finalizerMu.Unlock()
	}
}

// HandleCrash restores the screen, prints the panic with its stack and exits
func HandleCrash(r any) {
	if r == nil {
		return
	}

	finalizerMu.Lock()
	fin := finalizer
	finalizer = nil
	finalizerMu.Unlock()

	if fin != nil {
		func() {
			// A broken screen must not hide the original panic
			defer func() { _ = recover() }()
			fin()
		}()
	}

	fmt.Fprintf(stderr, "\r\n\x1b[31mCRASH DETECTED: %v\x1b[0m\r\n", r)
	fmt.Fprintf(stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
	if f, ok := stderr.(*os.File); ok {
		f.Sync()
	}

	exit(1)
}

// Go runs fn in a new goroutine, routing a panic through HandleCrash
// Use instead of the go keyword so the terminal is restored on crash
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}

// Guard wraps an errgroup func with the same crash handling
func Guard(fn func() error) func() error {
	return func() error {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		return fn()
	}
}
