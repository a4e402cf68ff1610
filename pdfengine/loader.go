package pdfengine

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Loader initializes the rendering engine lazily, at most once per process.
// Concurrent first callers share a single underlying load; if that load
// fails, the error is delivered to every waiter and the next Acquire starts
// a fresh attempt. The zero state is "unloaded"; construct with NewLoader
// or NewLoaderFunc and share the one instance.
type Loader struct {
	newEngine func() (Engine, error)

	group singleflight.Group

	mu     sync.RWMutex
	engine Engine
}

// NewLoader creates a Loader for the named backend. Nothing is loaded
// until the first Acquire.
func NewLoader(backend string, loadTimeout time.Duration) *Loader {
	return &Loader{
		newEngine: func() (Engine, error) {
			return NewEngine(backend, loadTimeout)
		},
	}
}

// NewLoaderFunc creates a Loader around a custom engine factory
func NewLoaderFunc(factory func() (Engine, error)) *Loader {
	return &Loader{newEngine: factory}
}

// Acquire returns the engine, loading it on first use. Already loaded
// engines are returned without blocking.
func (l *Loader) Acquire() (Engine, error) {
	l.mu.RLock()
	engine := l.engine
	l.mu.RUnlock()
	if engine != nil {
		return engine, nil
	}

	// singleflight collapses concurrent loads into one call and hands the
	// failure to every waiter; the flight is forgotten once it completes,
	// so a failed load does not poison later attempts
	v, err, _ := l.group.Do("engine", func() (interface{}, error) {
		l.mu.RLock()
		loaded := l.engine
		l.mu.RUnlock()
		if loaded != nil {
			return loaded, nil
		}

		engine, err := l.newEngine()
		if err != nil {
			if Logger != nil {
				Logger.Error("PDF engine failed to load", "error", err)
			}
			return nil, err
		}

		l.mu.Lock()
		l.engine = engine
		l.mu.Unlock()

		if Logger != nil {
			Logger.Info("PDF engine loaded")
		}
		return engine, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Engine), nil
}

// Loaded reports whether the engine has been initialized
func (l *Loader) Loaded() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.engine != nil
}

// Close releases the engine if it was ever loaded
func (l *Loader) Close() error {
	l.mu.Lock()
	engine := l.engine
	l.engine = nil
	l.mu.Unlock()

	if engine == nil {
		return nil
	}
	return engine.Close()
}
