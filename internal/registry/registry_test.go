package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActivateDeactivatesPrevious(t *testing.T) {
	r := New()
	closedA := 0
	a := r.Register(func() { closedA++ })
	b := r.Register(func() {})
	assert.NotEqual(t, a, b)

	assert.True(t, r.Activate(a))
	assert.True(t, r.IsActive(a))

	assert.True(t, r.Activate(b))
	assert.Equal(t, 1, closedA)
	id, ok := r.Active()
	assert.True(t, ok)
	assert.Equal(t, b, id)
	assert.False(t, r.IsActive(a))
}

func TestReactivatingSameIDDoesNotNotify(t *testing.T) {
	r := New()
	calls := 0
	a := r.Register(func() { calls++ })
	r.Activate(a)
	r.Activate(a)
	assert.Equal(t, 0, calls)
}

func TestUnknownIDCannotActivate(t *testing.T) {
	r := New()
	assert.False(t, r.Activate("nope"))
	_, ok := r.Active()
	assert.False(t, ok)
}

func TestUnregisterClearsActive(t *testing.T) {
	r := New()
	a := r.Register(nil)
	r.Activate(a)
	r.Unregister(a)
	_, ok := r.Active()
	assert.False(t, ok)
}

func TestRegistriesAreIsolated(t *testing.T) {
	r1, r2 := New(), New()
	a := r1.Register(nil)
	b := r2.Register(nil)
	r1.Activate(a)
	r2.Activate(b)
	assert.True(t, r1.IsActive(a))
	assert.True(t, r2.IsActive(b))
}

func TestDeactivateOnlyAffectsHolder(t *testing.T) {
	r := New()
	a := r.Register(nil)
	b := r.Register(nil)
	r.Activate(a)
	r.Deactivate(b)
	assert.True(t, r.IsActive(a))
	r.Deactivate(a)
	_, ok := r.Active()
	assert.False(t, ok)
}
