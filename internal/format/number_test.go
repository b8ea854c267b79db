package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInt(t *testing.T) {
	assert.Equal(t, "14,047,594", Int(14047594))
	assert.Equal(t, "0", Int(0))
	assert.Equal(t, "-40", Int(-40))
}

func TestSigned(t *testing.T) {
	assert.Equal(t, "+1,200", Signed(1200))
	assert.Equal(t, "-1,200", Signed(-1200))
	assert.Equal(t, "0", Signed(0))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "+1.25%", Percent(1.25))
	assert.Equal(t, "-26.67%", Percent(-26.666))
}

func TestFloat(t *testing.T) {
	assert.Equal(t, "1,234,568", Float(1234567.6))
}
