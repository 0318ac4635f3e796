package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineTotal(t *testing.T) {
	assert.Equal(t, 46.5, LineTotal(15.5, 3))
	assert.Equal(t, 0.3, LineTotal(0.1, 3))
	assert.Zero(t, LineTotal(20, 0))
}

func TestSumAmounts(t *testing.T) {
	assert.Equal(t, 0.3, SumAmounts(0.1, 0.2))
	assert.Equal(t, 110.0, SumAmounts(10, 100))
	assert.Zero(t, SumAmounts())
}
