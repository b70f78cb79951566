// Package workers provides abstractions for managing and running
// background workers. It defines the Worker interface, a Workers aggregate
// that starts several workers uniformly, and the periodic synchronize job
// that keeps a vault in step with its server.
package workers

// Worker is implemented by any background worker. Run starts the worker;
// implementations either block for the duration of their work or spawn
// goroutines internally.
type Worker interface {
	Run()
}

// Workers runs a set of workers as one unit.
type Workers struct {
	workers []Worker
}

func New(ws ...Worker) *Workers {
	return &Workers{workers: ws}
}

func (w *Workers) Run() {
	for _, worker := range w.workers {
		worker.Run()
	}
}
