// Package manager serializes mutating operations against a project.
// Only one install, removal, or environment command may run at a time;
// concurrent attempts are rejected immediately rather than queued.
package manager

import (
	"context"
	"sync"

	"github.com/depman-cli/depman/internal/ecosystems"
	"github.com/depman-cli/depman/internal/log"
	"github.com/depman-cli/depman/internal/models"
)

// BusyMessage is returned when a mutation is rejected because another one
// holds the lock.
const BusyMessage = "another operation is in progress"

// Result is the outcome of one mutation.
type Result struct {
	OK      bool
	Message string
}

// Dispatcher runs mutations for one project directory, one at a time.
type Dispatcher struct {
	dir string
	eco ecosystems.Ecosystem
	mu  sync.Mutex
}

// New creates a dispatcher bound to an ecosystem and project directory.
func New(eco ecosystems.Ecosystem, dir string) *Dispatcher {
	return &Dispatcher{dir: dir, eco: eco}
}

// run executes op under the mutation lock. A held lock fails fast so the
// caller sees the conflict instead of a stall behind a slow package manager.
func (d *Dispatcher) run(name string, op func() (bool, string)) Result {
	if !d.mu.TryLock() {
		log.Debug("%s rejected: mutation lock held", name)
		return Result{OK: false, Message: BusyMessage}
	}
	defer d.mu.Unlock()

	log.Debug("%s starting in %s", name, d.dir)
	ok, msg := op()
	if !ok {
		log.Debug("%s failed: %s", name, msg)
	}
	return Result{OK: ok, Message: msg}
}

// Add installs a package.
func (d *Dispatcher) Add(ctx context.Context, spec ecosystems.AddSpec) Result {
	return d.run("add", func() (bool, string) {
		return d.eco.Add(ctx, d.dir, spec)
	})
}

// Remove uninstalls a package from the source that declares it.
func (d *Dispatcher) Remove(ctx context.Context, name string, source models.DepSource) Result {
	return d.run("remove", func() (bool, string) {
		return d.eco.Remove(ctx, d.dir, name, source)
	})
}

// Update reinstalls a package at a new version in place.
func (d *Dispatcher) Update(ctx context.Context, spec ecosystems.AddSpec) Result {
	return d.run("update", func() (bool, string) {
		return d.eco.Add(ctx, d.dir, spec)
	})
}

// Sync reconciles the environment with the lockfile.
func (d *Dispatcher) Sync(ctx context.Context) Result {
	return d.run("sync", func() (bool, string) {
		return d.eco.Sync(ctx, d.dir)
	})
}

// Lock regenerates the lockfile.
func (d *Dispatcher) Lock(ctx context.Context) Result {
	return d.run("lock", func() (bool, string) {
		return d.eco.Lock(ctx, d.dir)
	})
}

// Init bootstraps a new project manifest.
func (d *Dispatcher) Init(ctx context.Context) Result {
	return d.run("init", func() (bool, string) {
		return d.eco.InitProject(ctx, d.dir)
	})
}

// CreateEnv creates the local environment.
func (d *Dispatcher) CreateEnv(ctx context.Context) Result {
	return d.run("create-env", func() (bool, string) {
		return d.eco.CreateEnv(ctx, d.dir)
	})
}
