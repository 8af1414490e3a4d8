// Package tracing provides a thin wrapper around OpenTelemetry so that
// orchestration phases can be traced without the rest of the code base
// depending on the SDK directly. Tracing is opt-in; until Init succeeds all
// spans are no-ops.
package tracing
