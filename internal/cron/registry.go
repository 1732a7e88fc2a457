package cron

import (
	"context"
	"fmt"
)

// Job is one unit of scheduled maintenance run by the cron worker.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Registry holds jobs in registration order. Names are unique.
type Registry struct {
	jobs  []Job
	index map[string]Job
}

// NewRegistry builds a registry from jobs, skipping nils. It panics on a duplicate name
// since that is a wiring mistake in main.
func NewRegistry(jobs ...Job) *Registry {
	registry := &Registry{index: make(map[string]Job)}
	for _, job := range jobs {
		if err := registry.Register(job); err != nil {
			panic(err)
		}
	}
	return registry
}

// Register adds job unless another job already uses its name.
func (r *Registry) Register(job Job) error {
	if job == nil {
		return nil
	}
	name := job.Name()
	if _, exists := r.index[name]; exists {
		return fmt.Errorf("cron job %q already registered", name)
	}
	r.index[name] = job
	r.jobs = append(r.jobs, job)
	return nil
}

// Jobs returns a copy of the registered jobs.
func (r *Registry) Jobs() []Job {
	jobs := make([]Job, len(r.jobs))
	copy(jobs, r.jobs)
	return jobs
}

// Lookup finds a job by name.
func (r *Registry) Lookup(name string) (Job, bool) {
	job, ok := r.index[name]
	return job, ok
}
