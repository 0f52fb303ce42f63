package jobqueue

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// The source's job metadata is a dynamically-typed payload read back with
// untyped map lookups at each call site. Here every JobType in
// internal/models has exactly one corresponding metadata struct below;
// internal/workers decodes Job.Metadata into the struct matching its own
// job type and never touches the other nine shapes.

// FetchArtistMeta carries no extra fields — the artist's own id is the
// job's EntityID.
type FetchArtistMeta struct{}

// FetchArtistAlbumsMeta paginates through an artist's release-group
// enumeration across multiple job runs when the upstream result is large.
type FetchArtistAlbumsMeta struct {
	Offset int `json:"offset"`
}

// FetchReleaseMeta names the specific release to fetch under a release
// group's EntityID — a release group can carry many releases. The
// orchestrator fetches releases synchronously and does not enqueue this
// job type.
type FetchReleaseMeta struct {
	ReleaseID string `json:"releaseId"`
}

// FetchAlbumFullMeta requests a release group's full detail fetch
// (releases + tracks), as opposed to the shallow listing done for
// fetch_artist_albums.
type FetchAlbumFullMeta struct {
	ReleaseGroupID string `json:"releaseGroupId"`
}

// ArtistFullMeta drives the bulk-refresh cron's per-artist fan-out: refresh
// the artist row itself plus every album already linked to it.
type ArtistFullMeta struct {
	Reason string `json:"reason"`
}

type FetchArtistTextMeta struct{}

type FetchAlbumTextMeta struct {
	ReleaseGroupID string `json:"releaseGroupId"`
}

type FetchArtistImagesMeta struct{}

type FetchAlbumImagesMeta struct {
	ReleaseGroupID string `json:"releaseGroupId"`
}

// DownloadImageMeta names the specific Image row to download and cache
// locally. Nothing enqueues or claims download_image jobs: the
// artwork-binary pool polls the images table directly rather than the job
// queue.
type DownloadImageMeta struct {
	ImageID string `json:"imageId"`
}

// Marshal encodes any metadata struct into the jsonb column shape.
func Marshal(v any) datatypes.JSON {
	if v == nil {
		return datatypes.JSON([]byte("{}"))
	}
	b, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON([]byte("{}"))
	}
	return datatypes.JSON(b)
}

// Unmarshal decodes a job's metadata blob into a typed struct. Callers pass
// a pointer to the struct matching their own job type.
func Unmarshal(raw datatypes.JSON, out any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}
