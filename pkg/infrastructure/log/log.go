// Package log sets up the structured logger every engine in the
// production core shares, grounded on senomorf-oci-cpu-shaper's
// zap-based service logging: the core logs failures and lifecycle events
// but is never the one deciding where they end up (the real log sink is
// external, spec §1).
package log

import "go.uber.org/zap"

// New builds a production zap logger. Callers that want the noisier
// development encoder (e.g. the headless CLI with --verbose) should call
// zap.NewDevelopment() directly instead.
func New() (*zap.Logger, error) {
	return zap.NewProduction()
}

// Noop returns a logger that discards everything, for tests that don't
// want log output interleaved with `go test -v`.
func Noop() *zap.Logger {
	return zap.NewNop()
}
