// Package taskgraph implements a task graph runner: a small set of
// primitives for expressing dependency-ordered, count-many parallel task
// sets over a shared worker pool.
package taskgraph

import (
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// Handle identifies a task set created by CreateTaskSet.
type Handle int

// InvalidHandle is returned by operations that fail to create a task set
// and accepted by WaitForSet/ReleaseHandle as a no-op.
const InvalidHandle Handle = -1

// TaskFunc is the body of one invocation within a task set: taskID is this
// invocation's 0-based index, taskCount is the set's total invocation
// count. Mirrors the classic fn(userdata, taskId, count) task-set shape;
// Go closures carry userdata instead of an explicit parameter.
type TaskFunc func(taskID, taskCount int)

type taskSet struct {
	wg sync.WaitGroup
}

// Runner dispatches task sets onto a bounded worker pool, honoring the
// dependency DAG a caller builds with CreateTaskSet. Workers are sized to
// the hardware thread count minus one, since the caller thread
// participates by blocking in WaitForSet.
type Runner struct {
	pool    worker.DynamicWorkerPool
	workers int

	mu     sync.Mutex
	sets   map[Handle]*taskSet
	nextID Handle
}

// NewRunner constructs a Runner with a worker pool sized to
// max(runtime.NumCPU()-1, 1).
func NewRunner() *Runner {
	workers := max(runtime.NumCPU()-1, 1)
	return &Runner{
		pool:    worker.NewDynamicWorkerPool(workers, 256, time.Second),
		workers: workers,
		sets:    make(map[Handle]*taskSet),
	}
}

// Workers returns the runner's configured worker count.
func (r *Runner) Workers() int {
	return r.workers
}

// CreateTaskSet schedules count parallel invocations of fn, runnable once
// every task set in dependencies has completed. Returns immediately with a
// handle; scheduling and dependency waiting happen asynchronously, so
// CreateTaskSet never blocks the caller — a set becomes runnable only
// once its dependencies are done.
func (r *Runner) CreateTaskSet(fn TaskFunc, count int, dependencies ...Handle) Handle {
	set := &taskSet{}
	set.wg.Add(count)

	r.mu.Lock()
	handle := r.nextID
	r.nextID++
	r.sets[handle] = set
	r.mu.Unlock()

	if count == 0 {
		return handle
	}

	go func() {
		for _, dep := range dependencies {
			r.WaitForSet(dep)
		}
		for taskID := 0; taskID < count; taskID++ {
			id := taskID
			r.pool.SubmitTask(worker.Task{
				ID: id,
				Do: func() (any, error) {
					defer set.wg.Done()
					fn(id, count)
					return nil, nil
				},
			})
		}
	}()

	return handle
}

// WaitForSet blocks until every invocation in handle's task set has
// completed, which (since CreateTaskSet only submits a set's invocations
// after its own dependencies have completed) transitively waits for every
// predecessor in the DAG as well.
func (r *Runner) WaitForSet(handle Handle) {
	if handle == InvalidHandle {
		return
	}
	r.mu.Lock()
	set, ok := r.sets[handle]
	r.mu.Unlock()
	if !ok {
		return
	}
	set.wg.Wait()
}

// ReleaseHandle discards a completed task set's bookkeeping. Callers must
// not release a handle other task sets still depend on.
func (r *Runner) ReleaseHandle(handle Handle) {
	if handle == InvalidHandle {
		return
	}
	r.mu.Lock()
	delete(r.sets, handle)
	r.mu.Unlock()
}
