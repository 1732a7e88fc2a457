package cron

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubJob struct {
	name string
}

func (s *stubJob) Name() string              { return s.name }
func (s *stubJob) Run(context.Context) error { return nil }

func TestRegistryStoresJobsInOrder(t *testing.T) {
	registry := NewRegistry()
	jobA := &stubJob{name: "a"}
	jobB := &stubJob{name: "b"}
	require.NoError(t, registry.Register(jobA))
	require.NoError(t, registry.Register(jobB))
	require.NoError(t, registry.Register(nil))

	jobs := registry.Jobs()
	require.Len(t, jobs, 2)
	assert.Same(t, jobA, jobs[0])
	assert.Same(t, jobB, jobs[1])

	jobs[0] = nil
	assert.NotNil(t, registry.Jobs()[0], "internal slice leaked")
}

func TestRegistryRejectsDuplicateNames(t *testing.T) {
	registry := NewRegistry(&stubJob{name: "inventory-reconcile"})
	err := registry.Register(&stubJob{name: "inventory-reconcile"})
	assert.ErrorContains(t, err, "already registered")
	assert.Len(t, registry.Jobs(), 1)

	assert.Panics(t, func() {
		NewRegistry(&stubJob{name: "x"}, &stubJob{name: "x"})
	})
}

func TestRegistryLookup(t *testing.T) {
	job := &stubJob{name: "inventory-reconcile"}
	registry := NewRegistry(job)

	found, ok := registry.Lookup("inventory-reconcile")
	require.True(t, ok)
	assert.Same(t, job, found)

	_, ok = registry.Lookup("missing")
	assert.False(t, ok)
}
