package workers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChooseExtension(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"simple jpg", "https://example.com/cover.jpg", ".jpg"},
		{"png", "https://example.com/art/cover.png", ".png"},
		{"query string no extension", "https://example.com/image?size=500", ".jpg"},
		{"no extension at all", "https://example.com/image", ".jpg"},
		{"long suspicious extension", "https://example.com/a.handlebars", ".jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, chooseExtension(tt.url))
		})
	}
}
