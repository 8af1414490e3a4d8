// Package graderun automates one end-to-end run of the external sponsor
// grading program: it provisions an isolated dependency environment,
// installs the pinned manifest, verifies preconditions, invokes the grader
// with forwarded arguments, mirrors leveled output to the console and a
// uniquely named per-run log file, propagates the grader's exit code and
// sweeps expired logs. The package is designed to be driven from a cron job
// through the companion cmd/graderun binary, but is equally usable as a
// library.
package graderun

// Version identifies the orchestrator release; it is attached to traces.
const Version = "0.1.0"
