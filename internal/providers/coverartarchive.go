package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"waugzee/internal/logger"
	"waugzee/internal/providererr"
)

// CoverArtArchiveAdapter supplies release-group cover art only. It is
// registered alongside TheAudioDBAdapter to demonstrate that image
// enrichment fans out across multiple providers (§1: "two or three artwork
// providers"); the artwork-url worker (workers.Processors.fetchImages)
// stores the NormalizedImageRef slices from every registered ImageAdapter
// rather than picking one.
type CoverArtArchiveAdapter struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *RateLimiter
	log         logger.Logger
}

type CoverArtArchiveConfig struct {
	BaseURL       string
	MinIntervalMS int
}

func NewCoverArtArchiveAdapter(cfg CoverArtArchiveConfig, limiter *RateLimiter) *CoverArtArchiveAdapter {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://coverartarchive.org"
	}
	return &CoverArtArchiveAdapter{
		baseURL:     baseURL,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		rateLimiter: limiter,
		log:         logger.New("providers").File("coverartarchive"),
	}
}

func (a *CoverArtArchiveAdapter) Name() string { return "coverartarchive" }

func (a *CoverArtArchiveAdapter) Capabilities() []Capability {
	return []Capability{CapabilityAlbumImages}
}

func (a *CoverArtArchiveAdapter) Supports(c Capability) bool {
	return c == CapabilityAlbumImages
}

// ArtistImages is unimplemented: CoverArtArchive only indexes release-group
// artwork. The artwork-url worker calls ArtistImages on every registered
// ImageAdapter, so this is reached for each fetch_artist_images job; it
// returns ErrPermanent, which the worker logs and skips.
func (a *CoverArtArchiveAdapter) ArtistImages(ctx context.Context, artistName string) ([]NormalizedImageRef, error) {
	return nil, fmt.Errorf("%w: coverartarchive does not index artist images", providererr.ErrPermanent)
}

func (a *CoverArtArchiveAdapter) AlbumImages(ctx context.Context, artistName, albumTitle string) ([]NormalizedImageRef, error) {
	// CoverArtArchive is keyed by release-group MBID, not by name; callers
	// pass the release-group id through albumTitle in this adapter's
	// narrower usage from the worker's FetchAlbumImages step.
	releaseGroupID := albumTitle

	var result struct {
		Images []struct {
			Image string `json:"image"`
			Front bool   `json:"front"`
		} `json:"images"`
	}

	err := WithRetry(ctx, func(ctx context.Context) error {
		if err := a.rateLimiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet,
			fmt.Sprintf("%s/release-group/%s", a.baseURL, releaseGroupID), nil)
		if err != nil {
			return fmt.Errorf("%w: %v", providererr.ErrPermanent, err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := a.httpClient.Do(req)
		if err != nil {
			return providererr.Classify(0, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return providererr.Classify(resp.StatusCode, nil)
		}
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return fmt.Errorf("%w: %v", providererr.ErrPermanent, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var out []NormalizedImageRef
	for _, img := range result.Images {
		if img.Front {
			out = append(out, NormalizedImageRef{CoverType: "Cover", Provider: a.Name(), URL: img.Image})
		}
	}
	return out, nil
}
