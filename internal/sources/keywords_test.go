package sources

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeKeywords(t *testing.T) {
	assert.Equal(t, []string{"go", "python"}, NormalizeKeywords([]string{" go ", "", "python"}, nil))
	assert.Equal(t, []string{"job"}, NormalizeKeywords(nil, nil))
	assert.Equal(t, []string{"developer"}, NormalizeKeywords([]string{"  "}, []string{"developer"}))
}

func TestMatchesKeywords(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		keywords []string
		want     bool
	}{
		{"empty keywords match all", "anything", nil, true},
		{"full phrase", "Senior Go Developer at Acme", []string{"go developer"}, true},
		{"case insensitive", "PYTHON ENGINEER", []string{"python engineer"}, true},
		{"multi-word prefix", "We need machine learning expertise", []string{"machine learning engineer"}, true},
		{"single word prefix too noisy", "machine operator wanted", []string{"machine learning engineer"}, false},
		{"no match", "Gardener", []string{"go developer"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchesKeywords(tt.text, tt.keywords))
		})
	}
}
