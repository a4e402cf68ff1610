package pdfengine

import (
	"errors"
	"image"
	"sync"
	"sync/atomic"
	"testing"
)

type stubEngine struct {
	closed bool
}

func (e *stubEngine) OpenDocument(data []byte) (Document, error) {
	return nil, errors.New("stub engine opens nothing")
}

func (e *stubEngine) Close() error {
	e.closed = true
	return nil
}

var _ Document = (*stubDocument)(nil)

type stubDocument struct{}

func (d *stubDocument) PageCount() int { return 0 }

func (d *stubDocument) PageSize(int) (float64, float64, error) { return 0, 0, nil }

func (d *stubDocument) RenderPage(int, int, int) (image.Image, error) { return nil, nil }

func (d *stubDocument) Close() error { return nil }

func TestLoaderLoadsOnce(t *testing.T) {
	var loads int32
	loader := NewLoaderFunc(func() (Engine, error) {
		atomic.AddInt32(&loads, 1)
		return &stubEngine{}, nil
	})

	first, err := loader.Acquire()
	if err != nil {
		t.Fatalf("First acquire failed: %v", err)
	}
	second, err := loader.Acquire()
	if err != nil {
		t.Fatalf("Second acquire failed: %v", err)
	}

	if first != second {
		t.Error("Expected both acquires to return the same engine")
	}
	if got := atomic.LoadInt32(&loads); got != 1 {
		t.Errorf("Expected exactly 1 load, got %d", got)
	}
}

func TestLoaderSingleFlight(t *testing.T) {
	var loads int32
	started := make(chan struct{})
	release := make(chan struct{})

	loader := NewLoaderFunc(func() (Engine, error) {
		atomic.AddInt32(&loads, 1)
		close(started)
		<-release
		return &stubEngine{}, nil
	})

	const callers = 10
	var wg sync.WaitGroup
	engines := make([]Engine, callers)
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			engines[i], errs[i] = loader.Acquire()
		}(i)
	}

	// Hold the load open until every caller has had a chance to join it
	<-started
	close(release)
	wg.Wait()

	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Fatalf("Caller %d failed: %v", i, errs[i])
		}
		if engines[i] != engines[0] {
			t.Errorf("Caller %d got a different engine", i)
		}
	}
	if got := atomic.LoadInt32(&loads); got != 1 {
		t.Errorf("Expected exactly 1 underlying load for %d concurrent callers, got %d", callers, got)
	}
}

func TestLoaderFailedLoadIsRetryable(t *testing.T) {
	var loads int32
	loadErr := errors.New("engine init failed")

	loader := NewLoaderFunc(func() (Engine, error) {
		if atomic.AddInt32(&loads, 1) == 1 {
			return nil, loadErr
		}
		return &stubEngine{}, nil
	})

	if _, err := loader.Acquire(); !errors.Is(err, loadErr) {
		t.Fatalf("Expected first acquire to fail with load error, got %v", err)
	}
	if loader.Loaded() {
		t.Error("Loader must not report loaded after a failed load")
	}

	engine, err := loader.Acquire()
	if err != nil {
		t.Fatalf("Expected retry to succeed, got %v", err)
	}
	if engine == nil {
		t.Fatal("Expected an engine from the retry")
	}
	if got := atomic.LoadInt32(&loads); got != 2 {
		t.Errorf("Expected 2 load attempts, got %d", got)
	}
}

func TestLoaderFailurePropagatesToAllWaiters(t *testing.T) {
	loadErr := errors.New("engine init failed")
	started := make(chan struct{})
	release := make(chan struct{})

	loader := NewLoaderFunc(func() (Engine, error) {
		close(started)
		<-release
		return nil, loadErr
	})

	const callers = 5
	var wg sync.WaitGroup
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = loader.Acquire()
		}(i)
	}

	<-started
	close(release)
	wg.Wait()

	for i := 0; i < callers; i++ {
		if !errors.Is(errs[i], loadErr) {
			t.Errorf("Caller %d expected the shared load error, got %v", i, errs[i])
		}
	}
}

func TestLoaderClose(t *testing.T) {
	engine := &stubEngine{}
	loader := NewLoaderFunc(func() (Engine, error) {
		return engine, nil
	})

	if err := loader.Close(); err != nil {
		t.Fatalf("Close before load should be a no-op, got %v", err)
	}

	if _, err := loader.Acquire(); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if !loader.Loaded() {
		t.Error("Expected loader to report loaded")
	}

	if err := loader.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !engine.closed {
		t.Error("Expected the engine to be closed")
	}
	if loader.Loaded() {
		t.Error("Expected loader to report unloaded after Close")
	}
}

func TestNewEngineUnknownBackend(t *testing.T) {
	if _, err := NewEngine("ghostscript", 0); err == nil {
		t.Fatal("Expected an error for an unknown backend")
	}
}
