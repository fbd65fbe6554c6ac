package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBreakerDefaults(t *testing.T) {
	b := New("catalog-cache")
	assert.Equal(t, "catalog-cache", b.Name())
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, "closed", b.State().String())
}

// Each step is F (failure) or S (success); open is the expected state after
// the step.
func TestBreakerTransitions(t *testing.T) {
	type step struct {
		op   byte
		open bool
	}
	tests := []struct {
		name     string
		failures int
		success  int
		steps    []step
	}{
		{
			name: "opens on the threshold failure", failures: 3, success: 1,
			steps: []step{{'F', false}, {'F', false}, {'F', true}},
		},
		{
			name: "success resets the failure run", failures: 3, success: 1,
			steps: []step{{'F', false}, {'F', false}, {'S', false}, {'F', false}, {'F', false}, {'F', true}},
		},
		{
			name: "closes after the success run", failures: 1, success: 2,
			steps: []step{{'F', true}, {'S', true}, {'S', false}},
		},
		{
			name: "failure while open restarts the success run", failures: 1, success: 3,
			steps: []step{{'F', true}, {'S', true}, {'S', true}, {'F', true}, {'S', true}, {'S', true}, {'S', false}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New("catalog-cache", WithFailureThreshold(tt.failures), WithSuccessThreshold(tt.success))
			for i, st := range tt.steps {
				if st.op == 'F' {
					b.RecordFailure()
				} else {
					b.RecordSuccess()
				}
				assert.Equal(t, st.open, b.IsOpen(), "after step %d (%c)", i, st.op)
			}
		})
	}
}

func TestBreakerStateChanges(t *testing.T) {
	b := New("catalog-cache", WithFailureThreshold(1), WithSuccessThreshold(1))

	fallback, change := b.RecordFailure()
	assert.True(t, fallback)
	assert.True(t, change.Opened)

	fallback, change = b.RecordFailure()
	assert.True(t, fallback, "open breaker keeps using the fallback")
	assert.False(t, change.Opened, "already open")

	primary, change := b.RecordSuccess()
	assert.True(t, primary)
	assert.True(t, change.Closed)
}

func TestBreakerReset(t *testing.T) {
	b := New("catalog-cache", WithFailureThreshold(1))
	b.RecordFailure()
	assert.Equal(t, "open", b.State().String())

	b.Reset()
	assert.Equal(t, StateClosed, b.State())
}
