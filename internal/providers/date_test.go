package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name string
		in   *string
		want *string
	}{
		{"nil", nil, nil},
		{"empty string", strPtr(""), nil},
		{"year only", strPtr("1977"), strPtr("1977-01-01")},
		{"year-month", strPtr("1977-06"), strPtr("1977-06-01")},
		{"full date", strPtr("1977-06-12"), strPtr("1977-06-12")},
		{"malformed passes through", strPtr("circa 1977"), strPtr("circa 1977")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeDate(tt.in)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			if assert.NotNil(t, got) {
				assert.Equal(t, *tt.want, *got)
			}
		})
	}
}
