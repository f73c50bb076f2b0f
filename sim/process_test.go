package sim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lampHistory(t *testing.T, lights ...bool) History {
	t.Helper()
	base := lampState(t)
	h := make(History, 0, len(lights))
	for _, on := range lights {
		s, err := base.With("light", on)
		require.NoError(t, err)
		h = append(h, s)
	}
	return h
}

func isOn(s State) bool { return s.Bool("light") }

func TestEdgeTriggered(t *testing.T) {
	tests := []struct {
		name   string
		lights []bool
		want   bool
	}{
		{"single entry true", []bool{true}, true},
		{"single entry false", []bool{false}, false},
		{"rising edge", []bool{false, true}, true},
		{"held high", []bool{false, true, true}, false},
		{"falling edge", []bool{true, false}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EdgeTriggered(lampHistory(t, tt.lights...), isOn))
		})
	}
}

func TestRunLength(t *testing.T) {
	assert.Equal(t, 0, RunLength(lampHistory(t, true, false), isOn))
	assert.Equal(t, 3, RunLength(lampHistory(t, false, true, true, true), isOn))
	assert.Equal(t, 2, RunLength(lampHistory(t, true, true), isOn), "an all-true history counts every entry")
}

func TestSustained_ThresholdWithoutJitter(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	h := lampHistory(t, false, true, true, true)
	assert.True(t, Sustained(h, isOn, 2, 0, rng))
	assert.False(t, Sustained(h, isOn, 3, 0, rng), "run must exceed the threshold strictly")
}

func TestSustained_JitterBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	lights := []bool{false}
	for i := 0; i < 8; i++ {
		lights = append(lights, true)
	}
	h := lampHistory(t, lights...) // run of 8
	for i := 0; i < 1000; i++ {
		// threshold 2 + jitter in [0, 5] is at most 7 < 8
		require.True(t, Sustained(h, isOn, 2, 5, rng))
		// threshold 8 + any jitter is never exceeded
		require.False(t, Sustained(h, isOn, 8, 5, rng))
	}
}

func TestHeldThroughout(t *testing.T) {
	assert.True(t, HeldThroughout(lampHistory(t, true, true), isOn))
	assert.False(t, HeldThroughout(lampHistory(t, true, false, true), isOn))
	assert.True(t, HeldThroughout(nil, isOn))
}

func TestBaseProcess_Defaults(t *testing.T) {
	b := NewBaseProcess("P", ConstantDelay{D: 2})
	assert.Equal(t, "P", b.Name())
	assert.Equal(t, ConstantDelay{D: 2}, b.Delay())
	assert.True(t, b.ConditionOverall(nil))
	assert.True(t, b.ConditionAtEnd(State{}))
}
