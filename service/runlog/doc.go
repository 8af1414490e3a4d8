// Package runlog implements the per-run log file together with the leveled,
// timestamped line format mirrored to the console. Every run owns exactly one
// uniquely named log file; the retention sweeper removes expired files but
// never the file currently being written.
package runlog
