package mathengine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/dop251/goja"
)

// KaTeX renders TeX with KaTeX running in a pool of goja runtimes. A goja
// runtime is not safe for concurrent use, so each render checks one out.
type KaTeX struct {
	script  string
	size    int
	logger  *slog.Logger
	once    sync.Once
	prog    *goja.Program
	initErr error

	mu      sync.Mutex
	created int
	pool    chan *katexVM
}

type katexVM struct {
	vm     *goja.Runtime
	katex  goja.Value
	render goja.Callable
}

var _ Engine = (*KaTeX)(nil)

// NewKaTeX creates a KaTeX engine from the katex.min.js source. An empty
// script yields an engine whose Render returns ErrEngineUnavailable. The
// logger receives console output from the script and should be wrapped in a
// WarningFilter.
func NewKaTeX(script string, size int, logger *slog.Logger) *KaTeX {
	if size < 1 {
		size = 1
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &KaTeX{
		script: script,
		size:   size,
		logger: logger,
		pool:   make(chan *katexVM, size),
	}
}

// Name implements Engine.
func (k *KaTeX) Name() string { return "katex" }

// Available reports whether the script compiled.
func (k *KaTeX) Available() bool {
	return k.compile() == nil
}

// Render implements Engine. Parse errors are returned, never rendered inline.
func (k *KaTeX) Render(ctx context.Context, source string, display bool) (string, error) {
	if err := k.compile(); err != nil {
		return "", err
	}

	inst, err := k.acquire(ctx)
	if err != nil {
		return "", err
	}

	stop := context.AfterFunc(ctx, func() { inst.vm.Interrupt(ctx.Err()) })

	opts := inst.vm.NewObject()
	_ = opts.Set("displayMode", display)
	_ = opts.Set("throwOnError", true)
	_ = opts.Set("strict", "warn")
	_ = opts.Set("output", "htmlAndMathml")
	_ = opts.Set("trust", false)

	res, renderErr := inst.render(inst.katex, inst.vm.ToValue(source), opts)

	if stop() {
		k.release(inst)
	} else {
		// Interrupted or about to be: the runtime may carry a pending
		// interrupt, so it is not reused.
		k.discard()
	}

	if renderErr != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("katex: %w", renderErr)
	}
	return res.String(), nil
}

// compile compiles the script once.
func (k *KaTeX) compile() error {
	k.once.Do(func() {
		if strings.TrimSpace(k.script) == "" {
			k.initErr = fmt.Errorf("%w: no KaTeX script configured", ErrEngineUnavailable)
			return
		}
		prog, err := goja.Compile("katex.min.js", k.script, true)
		if err != nil {
			k.initErr = fmt.Errorf("%w: compiling KaTeX: %v", ErrEngineUnavailable, err)
			return
		}
		k.prog = prog
	})
	return k.initErr
}

// acquire returns an idle runtime, creating one while below pool size.
func (k *KaTeX) acquire(ctx context.Context) (*katexVM, error) {
	select {
	case inst := <-k.pool:
		return inst, nil
	default:
	}

	k.mu.Lock()
	if k.created < k.size {
		k.created++
		k.mu.Unlock()
		inst, err := k.newVM()
		if err != nil {
			k.discard()
			return nil, err
		}
		return inst, nil
	}
	k.mu.Unlock()

	select {
	case inst := <-k.pool:
		return inst, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (k *KaTeX) release(inst *katexVM) {
	k.pool <- inst
}

// discard frees a pool slot without returning a runtime.
func (k *KaTeX) discard() {
	k.mu.Lock()
	k.created--
	k.mu.Unlock()
}

func (k *KaTeX) newVM() (*katexVM, error) {
	vm := goja.New()

	console := vm.NewObject()
	_ = console.Set("log", k.consoleFunc(slog.LevelDebug))
	_ = console.Set("info", k.consoleFunc(slog.LevelDebug))
	_ = console.Set("warn", k.consoleFunc(slog.LevelWarn))
	_ = console.Set("error", k.consoleFunc(slog.LevelError))
	_ = vm.Set("console", console)

	document := vm.NewObject()
	_ = document.Set("createElement", func(call goja.FunctionCall) goja.Value {
		elem := vm.NewObject()
		_ = elem.Set("setAttribute", func(call goja.FunctionCall) goja.Value { return goja.Undefined() })
		return elem
	})
	_ = vm.Set("document", document)

	if _, err := vm.RunProgram(k.prog); err != nil {
		return nil, fmt.Errorf("%w: loading KaTeX: %v", ErrEngineUnavailable, err)
	}

	katex := vm.Get("katex")
	if katex == nil || goja.IsUndefined(katex) {
		return nil, fmt.Errorf("%w: katex global not defined", ErrEngineUnavailable)
	}
	render, ok := goja.AssertFunction(katex.ToObject(vm).Get("renderToString"))
	if !ok {
		return nil, fmt.Errorf("%w: katex.renderToString is not a function", ErrEngineUnavailable)
	}

	return &katexVM{vm: vm, katex: katex, render: render}, nil
}

// consoleFunc routes a console method to the engine logger.
func (k *KaTeX) consoleFunc(level slog.Level) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		parts := make([]string, 0, len(call.Arguments))
		for _, a := range call.Arguments {
			parts = append(parts, a.String())
		}
		k.logger.Log(context.Background(), level, strings.Join(parts, " "), "engine", "katex")
		return goja.Undefined()
	}
}
