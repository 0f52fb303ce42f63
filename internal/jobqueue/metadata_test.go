package jobqueue_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waugzee/internal/jobqueue"
)

func TestMarshalUnmarshal_RoundTrip(t *testing.T) {
	in := jobqueue.FetchReleaseMeta{ReleaseID: "rel-123"}
	raw := jobqueue.Marshal(in)

	var out jobqueue.FetchReleaseMeta
	require.NoError(t, jobqueue.Unmarshal(raw, &out))
	assert.Equal(t, in, out)
}

func TestMarshal_NilProducesEmptyObject(t *testing.T) {
	raw := jobqueue.Marshal(nil)
	assert.Equal(t, "{}", string(raw))
}

func TestUnmarshal_EmptyRawIsNoop(t *testing.T) {
	var out jobqueue.DownloadImageMeta
	require.NoError(t, jobqueue.Unmarshal(nil, &out))
	assert.Equal(t, jobqueue.DownloadImageMeta{}, out)
}

func TestMarshal_EachJobTypeMetadataEncodesNonEmpty(t *testing.T) {
	cases := []any{
		jobqueue.FetchArtistMeta{},
		jobqueue.FetchArtistAlbumsMeta{Offset: 50},
		jobqueue.FetchReleaseMeta{ReleaseID: "r1"},
		jobqueue.FetchAlbumFullMeta{ReleaseGroupID: "rg1"},
		jobqueue.ArtistFullMeta{Reason: "bulk_refresh"},
		jobqueue.FetchArtistTextMeta{},
		jobqueue.FetchAlbumTextMeta{ReleaseGroupID: "rg2"},
		jobqueue.FetchArtistImagesMeta{},
		jobqueue.FetchAlbumImagesMeta{ReleaseGroupID: "rg3"},
		jobqueue.DownloadImageMeta{ImageID: "img1"},
	}

	for _, c := range cases {
		raw := jobqueue.Marshal(c)
		assert.NotEmpty(t, raw)
	}
}
