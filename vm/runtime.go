package vm

import (
	"context"

	"go.uber.org/zap"

	wasmvm "github.com/wavmlabs/wasmvm-go"
	"github.com/wavmlabs/wasmvm-go/engine"
	"github.com/wavmlabs/wasmvm-go/errors"
)

// Runtime owns an engine and is the entry point for validating and
// parsing modules.
type Runtime struct {
	engine wasmvm.Engine
	logger *zap.Logger
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithEngine uses a caller-supplied engine instead of the default
// wazero-backed one. The Runtime still closes it on Close.
func WithEngine(e wasmvm.Engine) Option {
	return func(r *Runtime) {
		r.engine = e
	}
}

// WithLogger sets the logger used for boundary-crossing debug logs.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runtime) {
		r.logger = l
	}
}

// New creates a Runtime. Without options it owns a fresh default
// engine.
func New(ctx context.Context, opts ...Option) (*Runtime, error) {
	r := &Runtime{
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.engine == nil {
		eng, err := engine.New(ctx)
		if err != nil {
			return nil, errors.New(errors.PhaseRuntime, errors.KindInvalidInput).
				Detail("create engine").
				Cause(err).
				Build()
		}
		r.engine = eng
	}

	return r, nil
}

// Engine returns the underlying engine.
func (r *Runtime) Engine() wasmvm.Engine {
	return r.engine
}

// Validate reports whether the engine accepts wasm as a valid module.
// Empty and truncated inputs are rejected; no resources are retained.
func (r *Runtime) Validate(ctx context.Context, wasm []byte) bool {
	ok := r.engine.Validate(ctx, wasm)
	r.logger.Debug("validate", zap.Int("bytes", len(wasm)), zap.Bool("ok", ok))
	return ok
}

// Parse decodes and validates wasm. On success the returned Module
// owns a fresh engine handle; on failure the error says so
// explicitly, and no Module exists. Validate and Parse agree on
// acceptance for any input.
func (r *Runtime) Parse(ctx context.Context, wasm []byte) (*Module, error) {
	raw := r.engine.Parse(ctx, wasm)
	if raw == 0 {
		r.logger.Debug("parse rejected", zap.Int("bytes", len(wasm)))
		return nil, errors.ParseFailed(nil)
	}
	r.logger.Debug("parse ok", zap.Int("bytes", len(wasm)))
	return &Module{rt: r, raw: raw}, nil
}

// Close releases the engine and with it every handle still alive.
func (r *Runtime) Close(ctx context.Context) error {
	return r.engine.Close(ctx)
}
