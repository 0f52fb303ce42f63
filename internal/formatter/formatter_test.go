package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"waugzee/internal/models"
)

func TestTitleCaseAll(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"single word", []string{"rock"}, []string{"Rock"}},
		{"multi word", []string{"hip hop"}, []string{"Hip Hop"}},
		{"already mixed case", []string{"HEAVY metal"}, []string{"Heavy Metal"}},
		{"empty list", []string{}, []string{}},
		{"nil list", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, titleCaseAll(tt.in))
		})
	}
}

func TestFormatRating(t *testing.T) {
	missing := formatRating(nil)
	assert.Equal(t, 0, missing.Count)
	assert.Nil(t, missing.Value)

	v := 4.5
	present := formatRating(&v)
	assert.Equal(t, 1, present.Count)
	if assert.NotNil(t, present.Value) {
		assert.Equal(t, 4.5, *present.Value)
	}
}

func TestFormatLinks(t *testing.T) {
	links := []*models.Link{
		{LinkType: "official", URL: "https://example.com"},
		{LinkType: "wikipedia", URL: "https://en.wikipedia.org/wiki/Example"},
	}

	out := formatLinks(links)
	assert.Equal(t, []LinkOut{
		{Target: "https://example.com", Type: "official"},
		{Target: "https://en.wikipedia.org/wiki/Example", Type: "wikipedia"},
	}, out)
}

func TestFormatLinks_Empty(t *testing.T) {
	out := formatLinks(nil)
	assert.Empty(t, out)
	assert.NotNil(t, out)
}

func TestResolveImageURL(t *testing.T) {
	f := &Formatter{serverURL: "http://localhost:8080"}

	local := "/data/images/artist/abc/thumb.jpg"
	cached := &models.Image{
		EntityType: models.EntityTypeArtist,
		EntityID:   "abc",
		CoverType:  models.CoverTypeThumb,
		LocalPath:  &local,
		Cached:     true,
		URL:        "https://upstream.example.com/thumb.jpg",
	}
	assert.Equal(t, "http://localhost:8080/images/artist/abc/thumb", f.resolveImageURL(cached))

	notCached := &models.Image{
		EntityType: models.EntityTypeArtist,
		EntityID:   "abc",
		CoverType:  models.CoverTypeThumb,
		Cached:     false,
		URL:        "https://upstream.example.com/thumb.jpg",
	}
	assert.Equal(t, "https://upstream.example.com/thumb.jpg", f.resolveImageURL(notCached))
}

func TestNonEmptyStringList(t *testing.T) {
	assert.Equal(t, []string{}, nonEmptyStringList(""))
	assert.Equal(t, []string{"US"}, nonEmptyStringList("US"))
}
