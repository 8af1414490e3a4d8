package env

import (
	"os"
	"path"
	"sync"
)

// Lease scopes one run's use of the isolated environment. Commands executed
// under the lease resolve the environment's interpreter and package manager
// directly by path, so release has no system side effects; it exists to give
// the runtime a single point that is guaranteed to run on every exit path.
type Lease struct {
	dir      string
	once     sync.Once
	released bool
}

// NewLease creates a lease over an existing environment directory.
func NewLease(dir string) *Lease { return &Lease{dir: dir} }

// Dir returns the environment root.
func (l *Lease) Dir() string { return l.dir }

// Python returns the environment's interpreter path.
func (l *Lease) Python() string { return path.Join(l.dir, "bin", "python") }

// Pip returns the environment's package manager path.
func (l *Lease) Pip() string { return path.Join(l.dir, "bin", "pip") }

// Environ returns the variables that activate the environment for
// subprocesses.
func (l *Lease) Environ() map[string]string {
	return map[string]string{
		"VIRTUAL_ENV": l.dir,
		"PATH":        path.Join(l.dir, "bin") + string(os.PathListSeparator) + os.Getenv("PATH"),
	}
}

// Release deactivates the lease. It is idempotent and safe to defer.
func (l *Lease) Release() {
	l.once.Do(func() { l.released = true })
}

// Released reports whether the lease was released.
func (l *Lease) Released() bool { return l.released }
