package htmltext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSalary(t *testing.T) {
	tests := []struct {
		name  string
		input string
		min   float64
		max   float64
	}{
		{"range with symbols", "$50,000 - $70,000", 50000, 70000},
		{"k suffix", "50k-70k", 50000, 70000},
		{"single value", "85000", 85000, 85000},
		{"single k value", "120k", 120000, 120000},
		{"reversed order", "90000 to 60000", 60000, 90000},
		{"hourly treated as thousands", "45 per hour", 45000, 45000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			min, max := ParseSalary(tt.input)
			require.NotNil(t, min)
			require.NotNil(t, max)
			assert.Equal(t, tt.min, *min)
			assert.Equal(t, tt.max, *max)
		})
	}
}

func TestParseSalary_NoNumbers(t *testing.T) {
	min, max := ParseSalary("competitive")
	assert.Nil(t, min)
	assert.Nil(t, max)

	min, max = ParseSalary("")
	assert.Nil(t, min)
	assert.Nil(t, max)
}

func TestSafeFloat(t *testing.T) {
	assert.Nil(t, SafeFloat(nil))
	assert.Nil(t, SafeFloat(0))
	assert.Nil(t, SafeFloat(-5.0))
	assert.Nil(t, SafeFloat("abc"))

	v := SafeFloat(65000.0)
	require.NotNil(t, v)
	assert.Equal(t, 65000.0, *v)

	v = SafeFloat("72000")
	require.NotNil(t, v)
	assert.Equal(t, 72000.0, *v)
}
