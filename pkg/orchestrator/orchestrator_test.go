package orchestrator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"genai-hq/inference/pkg/backends"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeBackend is a scripted backend that counts calls.
type fakeBackend struct {
	name   string
	calls  atomic.Int32
	result func(req backends.Request) (*backends.Result, error)
	block  bool
	panics bool
}

func (f *fakeBackend) Name() string { return f.name }

func (f *fakeBackend) Generate(ctx context.Context, req backends.Request) (*backends.Result, error) {
	f.calls.Add(1)
	if f.panics {
		panic("adapter exploded")
	}
	if f.block {
		<-ctx.Done()
		return nil, backends.NewBackendError(f.name, ctx.Err())
	}
	return f.result(req)
}

func succeed(name, text string) *fakeBackend {
	return &fakeBackend{
		name: name,
		result: func(req backends.Request) (*backends.Result, error) {
			return &backends.Result{
				Text:       text,
				Model:      req.Model,
				TokensUsed: backends.CountTokens(text),
				LatencyMS:  1,
				Source:     name,
			}, nil
		},
	}
}

func fail(name string, cause error) *fakeBackend {
	return &fakeBackend{
		name: name,
		result: func(backends.Request) (*backends.Result, error) {
			return nil, backends.NewBackendError(name, cause)
		},
	}
}

// recordingObserver captures attempt order.
type recordingObserver struct {
	mu       sync.Mutex
	backends []string
	ok       []bool
}

func (r *recordingObserver) AttemptFinished(backend string, outcome Outcome, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backends = append(r.backends, backend)
	r.ok = append(r.ok, outcome.OK())
}

func testRequest() backends.Request {
	return backends.Request{Prompt: "hello", Model: "llama3", MaxTokens: 50, Temperature: 0.7}
}

func mustNew(t *testing.T, cfg Config, opts ...Option) *Orchestrator {
	t.Helper()
	o, err := New(cfg, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return o
}

func TestGenerate_PrimarySucceeds(t *testing.T) {
	primary := succeed("primary", "hi there")
	secondary := succeed("secondary", "unused")

	o := mustNew(t, Config{
		Entries:         []Entry{{Backend: primary, Enabled: true}, {Backend: secondary, Enabled: true}},
		FallbackEnabled: true,
	})

	res, err := o.Generate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if res.Text != "hi there" {
		t.Errorf("Text = %q, want %q", res.Text, "hi there")
	}
	if res.Model != "llama3" {
		t.Errorf("Model = %q, want llama3", res.Model)
	}
	if res.TokensUsed != 2 {
		t.Errorf("TokensUsed = %d, want 2", res.TokensUsed)
	}
	if res.Source != "primary" {
		t.Errorf("Source = %q, want primary", res.Source)
	}
	if got := secondary.calls.Load(); got != 0 {
		t.Errorf("secondary called %d times, want 0", got)
	}
}

func TestGenerate_FallsBackOnPrimaryFailure(t *testing.T) {
	primary := fail("ollama", errors.New("connection refused"))
	secondary := succeed("bedrock", "[BEDROCK FALLBACK] Response to: hello")
	obs := &recordingObserver{}

	o := mustNew(t, Config{
		Entries:         []Entry{{Backend: primary, Enabled: true}, {Backend: secondary, Enabled: true}},
		FallbackEnabled: true,
	}, WithObserver(obs))

	res, err := o.Generate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if res.Source != "bedrock" {
		t.Errorf("Source = %q, want bedrock", res.Source)
	}
	if got := secondary.calls.Load(); got != 1 {
		t.Errorf("secondary called %d times, want 1", got)
	}

	wantOrder := []string{"ollama", "bedrock"}
	if strings.Join(obs.backends, ",") != strings.Join(wantOrder, ",") {
		t.Errorf("observed order %v, want %v", obs.backends, wantOrder)
	}
	if obs.ok[0] || !obs.ok[1] {
		t.Errorf("observed outcomes %v, want [false true]", obs.ok)
	}
}

func TestGenerate_FallbackDisabled(t *testing.T) {
	cause := errors.New("connection refused")
	primary := fail("ollama", cause)
	secondary := succeed("bedrock", "unused")

	o := mustNew(t, Config{
		Entries:         []Entry{{Backend: primary, Enabled: true}, {Backend: secondary, Enabled: true}},
		FallbackEnabled: false,
	})

	_, err := o.Generate(context.Background(), testRequest())

	var allFailed *AllBackendsFailedError
	if !errors.As(err, &allFailed) {
		t.Fatalf("expected *AllBackendsFailedError, got %T: %v", err, err)
	}
	if len(allFailed.Attempts) != 1 {
		t.Fatalf("expected 1 attempt, got %d", len(allFailed.Attempts))
	}
	if allFailed.Attempts[0].Backend != "ollama" {
		t.Errorf("attempt backend = %q, want ollama", allFailed.Attempts[0].Backend)
	}
	if !errors.Is(allFailed.Attempts[0].Cause, cause) {
		t.Errorf("attempt cause = %v, want %v", allFailed.Attempts[0].Cause, cause)
	}
	if secondary.calls.Load() != 0 {
		t.Error("secondary must not be called with fallback disabled")
	}

	want := "ollama failed and fallback disabled: connection refused"
	if got := allFailed.Detail(); got != want {
		t.Errorf("Detail() = %q, want %q", got, want)
	}
}

func TestGenerate_AllFail(t *testing.T) {
	primary := fail("ollama", &backends.StatusError{StatusCode: 500, Body: "model not loaded"})
	secondary := fail("bedrock", errors.New("throttled"))

	o := mustNew(t, Config{
		Entries:         []Entry{{Backend: primary, Enabled: true}, {Backend: secondary, Enabled: true}},
		FallbackEnabled: true,
	})

	res, err := o.Generate(context.Background(), testRequest())
	if res != nil {
		t.Errorf("expected nil result, got %+v", res)
	}
	if !errors.Is(err, ErrAllBackendsFailed) {
		t.Fatalf("expected ErrAllBackendsFailed, got %v", err)
	}

	var allFailed *AllBackendsFailedError
	if !errors.As(err, &allFailed) {
		t.Fatalf("expected *AllBackendsFailedError, got %T", err)
	}
	if len(allFailed.Attempts) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(allFailed.Attempts))
	}
	if allFailed.Attempts[0].Backend != "ollama" || allFailed.Attempts[1].Backend != "bedrock" {
		t.Errorf("unexpected attempt order: %+v", allFailed.Attempts)
	}

	var statusErr *backends.StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != 500 {
		t.Errorf("expected the primary's status error to be reachable, got %v", err)
	}

	want := "All inference backends failed. ollama: status 500: model not loaded, bedrock: throttled"
	if got := allFailed.Detail(); got != want {
		t.Errorf("Detail() = %q, want %q", got, want)
	}
}

func TestGenerate_SkipsDisabledFallback(t *testing.T) {
	primary := fail("ollama", errors.New("down"))
	disabled := succeed("bedrock", "unused")
	third := succeed("spare", "from spare")

	o := mustNew(t, Config{
		Entries: []Entry{
			{Backend: primary, Enabled: true},
			{Backend: disabled, Enabled: false},
			{Backend: third, Enabled: true},
		},
		FallbackEnabled: true,
	})

	res, err := o.Generate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if res.Source != "spare" {
		t.Errorf("Source = %q, want spare", res.Source)
	}
	if disabled.calls.Load() != 0 {
		t.Error("disabled backend must not be called")
	}
}

func TestGenerate_PrimaryAlwaysAttempted(t *testing.T) {
	primary := succeed("ollama", "ok")

	o := mustNew(t, Config{
		Entries:         []Entry{{Backend: primary, Enabled: false}},
		FallbackEnabled: true,
	})

	if _, err := o.Generate(context.Background(), testRequest()); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if primary.calls.Load() != 1 {
		t.Errorf("primary called %d times, want 1", primary.calls.Load())
	}
}

func TestGenerate_InvalidResults(t *testing.T) {
	tests := []struct {
		name      string
		primary   *fakeBackend
		wantCause string
	}{
		{
			name:      "panic",
			primary:   &fakeBackend{name: "ollama", panics: true},
			wantCause: "panic: adapter exploded",
		},
		{
			name: "nil result",
			primary: &fakeBackend{name: "ollama", result: func(backends.Request) (*backends.Result, error) {
				return nil, nil
			}},
			wantCause: "no result",
		},
		{
			name: "source mismatch",
			primary: &fakeBackend{name: "ollama", result: func(req backends.Request) (*backends.Result, error) {
				return &backends.Result{Text: "x", Model: req.Model, Source: "someone-else"}, nil
			}},
			wantCause: `result source "someone-else" does not match backend "ollama"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			secondary := succeed("bedrock", "fallback")
			o := mustNew(t, Config{
				Entries:         []Entry{{Backend: tt.primary, Enabled: true}, {Backend: secondary, Enabled: true}},
				FallbackEnabled: false,
			})

			_, err := o.Generate(context.Background(), testRequest())

			var allFailed *AllBackendsFailedError
			if !errors.As(err, &allFailed) {
				t.Fatalf("expected *AllBackendsFailedError, got %v", err)
			}
			if !strings.Contains(allFailed.Attempts[0].Cause.Error(), tt.wantCause) {
				t.Errorf("cause = %q, want it to contain %q", allFailed.Attempts[0].Cause, tt.wantCause)
			}
		})
	}
}

func TestGenerate_PerAttemptTimeout(t *testing.T) {
	primary := &fakeBackend{name: "ollama", block: true}
	secondary := succeed("bedrock", "fallback")

	o := mustNew(t, Config{
		Entries: []Entry{
			{Backend: primary, Enabled: true, Timeout: 20 * time.Millisecond},
			{Backend: secondary, Enabled: true},
		},
		FallbackEnabled: true,
	})

	res, err := o.Generate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if res.Source != "bedrock" {
		t.Errorf("Source = %q, want bedrock after primary timeout", res.Source)
	}
}

func TestGenerate_CallerCancelStopsFallback(t *testing.T) {
	primary := &fakeBackend{name: "ollama", block: true}
	secondary := succeed("bedrock", "fallback")

	o := mustNew(t, Config{
		Entries:         []Entry{{Backend: primary, Enabled: true}, {Backend: secondary, Enabled: true}},
		FallbackEnabled: true,
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := o.Generate(ctx, testRequest())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled in the chain, got %v", err)
	}

	var allFailed *AllBackendsFailedError
	if !errors.As(err, &allFailed) || len(allFailed.Attempts) != 1 {
		t.Fatalf("expected a single attempt, got %v", err)
	}
	if secondary.calls.Load() != 0 {
		t.Error("secondary must not be called after the caller cancelled")
	}
}

func TestGenerate_OverallDeadline(t *testing.T) {
	primary := &fakeBackend{name: "ollama", block: true}
	secondary := &fakeBackend{name: "bedrock", block: true}

	o := mustNew(t, Config{
		Entries:         []Entry{{Backend: primary, Enabled: true}, {Backend: secondary, Enabled: true}},
		FallbackEnabled: true,
		Deadline:        30 * time.Millisecond,
	})

	start := time.Now()
	_, err := o.Generate(context.Background(), testRequest())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Generate took %v, deadline not honored", elapsed)
	}
}

func TestGenerate_Concurrent(t *testing.T) {
	primary := succeed("ollama", "hi there")
	o := mustNew(t, Config{Entries: []Entry{{Backend: primary, Enabled: true}}})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := o.Generate(context.Background(), testRequest()); err != nil {
				t.Errorf("Generate() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if got := primary.calls.Load(); got != 20 {
		t.Errorf("primary called %d times, want 20", got)
	}
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "empty", cfg: Config{}, wantErr: "at least one backend"},
		{name: "nil backend", cfg: Config{Entries: []Entry{{}}}, wantErr: "is nil"},
		{
			name: "duplicate names",
			cfg: Config{Entries: []Entry{
				{Backend: succeed("ollama", "a")},
				{Backend: succeed("ollama", "b")},
			}},
			wantErr: "duplicate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("New() error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestAccessors(t *testing.T) {
	o := mustNew(t, Config{
		Entries:         []Entry{{Backend: succeed("ollama", "a")}, {Backend: succeed("bedrock", "b")}},
		FallbackEnabled: true,
	})

	if !o.FallbackEnabled() {
		t.Error("FallbackEnabled() = false, want true")
	}
	bs := o.Backends()
	if len(bs) != 2 || bs[0].Name() != "ollama" || bs[1].Name() != "bedrock" {
		t.Errorf("Backends() returned unexpected order")
	}
}
