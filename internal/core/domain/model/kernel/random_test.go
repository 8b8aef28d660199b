package kernel_test

import (
	"testing"

	"lastmile/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
)

func TestNewSeededRandomSource_IsDeterministic(t *testing.T) {
	a := kernel.NewSeededRandomSource(42)
	b := kernel.NewSeededRandomSource(42)

	for range 20 {
		assert.Equal(t, a.Float64(), b.Float64())
		assert.Equal(t, a.IntN(36), b.IntN(36))
	}
}

func TestUniform(t *testing.T) {
	r := kernel.DefaultRandomSource()
	for range 1000 {
		v := kernel.Uniform(r, 0.8, 1.3)
		assert.GreaterOrEqual(t, v, 0.8)
		assert.Less(t, v, 1.3)
	}
}
