// Package registry tracks the external process behind each active job.
// Presence of a job id is the sole signal that its download is live; the
// supervisor's output loop treats removal as a cooperative cancellation
// request.
package registry

import (
	"fmt"
	"os/exec"
	"sync"
)

// Registry is a concurrent map of job id to running process handle. Every
// operation is atomic with respect to every other operation; supervisors
// and the dispatcher share one instance.
type Registry struct {
	mu    sync.Mutex
	procs map[string]*exec.Cmd
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		procs: make(map[string]*exec.Cmd),
	}
}

// Insert registers a process under the given job id. Ids are caller-unique,
// so a duplicate insert is a caller error.
func (r *Registry) Insert(id string, cmd *exec.Cmd) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.procs[id]; exists {
		return fmt.Errorf("job already registered: %s", id)
	}
	r.procs[id] = cmd
	return nil
}

// Lookup returns the process handle for a job id.
func (r *Registry) Lookup(id string) (*exec.Cmd, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cmd, exists := r.procs[id]
	return cmd, exists
}

// Contains reports whether a job id is still registered.
func (r *Registry) Contains(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, exists := r.procs[id]
	return exists
}

// Remove unregisters a job id. Removing an absent id is a no-op.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.procs, id)
}

// Snapshot returns a copy of the current id to process mapping. It is used
// at shutdown to terminate every outstanding process.
func (r *Registry) Snapshot() map[string]*exec.Cmd {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := make(map[string]*exec.Cmd, len(r.procs))
	for id, cmd := range r.procs {
		snapshot[id] = cmd
	}
	return snapshot
}

// Len returns the number of registered jobs.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.procs)
}
