package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"waugzee/internal/logger"
	"waugzee/internal/providererr"
)

// TheAudioDBAdapter supplies both encyclopedic overview text and artwork
// URLs — a single provider capable of both enrichment capabilities, unlike
// MusicBrainzAdapter which is canonical-only. Grounded the same way as
// MusicBrainzAdapter, generalized to the key-lookup style of TheAudioDB's
// public API.
type TheAudioDBAdapter struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	rateLimiter *RateLimiter
	log         logger.Logger
}

type TheAudioDBConfig struct {
	BaseURL       string
	APIKey        string
	MinIntervalMS int
}

func NewTheAudioDBAdapter(cfg TheAudioDBConfig, limiter *RateLimiter) *TheAudioDBAdapter {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://www.theaudiodb.com/api/v1/json"
	}
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = "2" // public test key, same default the upstream docs use
	}
	return &TheAudioDBAdapter{
		baseURL:     fmt.Sprintf("%s/%s", baseURL, apiKey),
		apiKey:      apiKey,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		rateLimiter: limiter,
		log:         logger.New("providers").File("theaudiodb"),
	}
}

func (a *TheAudioDBAdapter) Name() string { return "theaudiodb" }

func (a *TheAudioDBAdapter) Capabilities() []Capability {
	return []Capability{
		CapabilityGetArtistText,
		CapabilityGetAlbumText,
		CapabilityArtistImages,
		CapabilityAlbumImages,
	}
}

func (a *TheAudioDBAdapter) Supports(c Capability) bool {
	for _, have := range a.Capabilities() {
		if have == c {
			return true
		}
	}
	return false
}

func (a *TheAudioDBAdapter) get(ctx context.Context, path string, query url.Values, out any) error {
	return WithRetry(ctx, func(ctx context.Context) error {
		if err := a.rateLimiter.Wait(ctx); err != nil {
			return err
		}

		reqURL := fmt.Sprintf("%s%s", a.baseURL, path)
		if len(query) > 0 {
			reqURL += "?" + query.Encode()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
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

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: %v", providererr.ErrPermanent, err)
		}
		return nil
	})
}

func (a *TheAudioDBAdapter) GetArtistText(ctx context.Context, artistName string) (string, error) {
	var result struct {
		Artists []struct {
			Biography string `json:"strBiographyEN"`
		} `json:"artists"`
	}
	if err := a.get(ctx, "/search.php", url.Values{"s": {artistName}}, &result); err != nil {
		return "", err
	}
	if len(result.Artists) == 0 {
		return "", fmt.Errorf("%w: no artist matched %q", providererr.ErrNotFound, artistName)
	}
	return result.Artists[0].Biography, nil
}

func (a *TheAudioDBAdapter) GetAlbumText(ctx context.Context, artistName, albumTitle string) (string, error) {
	var result struct {
		Album []struct {
			Description string `json:"strDescriptionEN"`
		} `json:"album"`
	}
	q := url.Values{"s": {artistName}, "a": {albumTitle}}
	if err := a.get(ctx, "/searchalbum.php", q, &result); err != nil {
		return "", err
	}
	if len(result.Album) == 0 {
		return "", fmt.Errorf("%w: no album matched %q/%q", providererr.ErrNotFound, artistName, albumTitle)
	}
	return result.Album[0].Description, nil
}

func (a *TheAudioDBAdapter) ArtistImages(ctx context.Context, artistName string) ([]NormalizedImageRef, error) {
	var result struct {
		Artists []struct {
			Thumb  string `json:"strArtistThumb"`
			Logo   string `json:"strArtistLogo"`
			Fanart string `json:"strArtistFanart"`
			Banner string `json:"strArtistBanner"`
		} `json:"artists"`
	}
	if err := a.get(ctx, "/search.php", url.Values{"s": {artistName}}, &result); err != nil {
		return nil, err
	}
	if len(result.Artists) == 0 {
		return nil, fmt.Errorf("%w: no artist matched %q", providererr.ErrNotFound, artistName)
	}

	row := result.Artists[0]
	var out []NormalizedImageRef
	addIfPresent := func(coverType, u string) {
		if u != "" {
			out = append(out, NormalizedImageRef{CoverType: coverType, Provider: a.Name(), URL: u})
		}
	}
	addIfPresent("Thumb", row.Thumb)
	addIfPresent("Logo", row.Logo)
	addIfPresent("Fanart", row.Fanart)
	addIfPresent("Banner", row.Banner)
	return out, nil
}

func (a *TheAudioDBAdapter) AlbumImages(ctx context.Context, artistName, albumTitle string) ([]NormalizedImageRef, error) {
	var result struct {
		Album []struct {
			Thumb string `json:"strAlbumThumb"`
		} `json:"album"`
	}
	q := url.Values{"s": {artistName}, "a": {albumTitle}}
	if err := a.get(ctx, "/searchalbum.php", q, &result); err != nil {
		return nil, err
	}
	if len(result.Album) == 0 {
		return nil, fmt.Errorf("%w: no album matched %q/%q", providererr.ErrNotFound, artistName, albumTitle)
	}

	row := result.Album[0]
	var out []NormalizedImageRef
	if row.Thumb != "" {
		out = append(out, NormalizedImageRef{CoverType: "Cover", Provider: a.Name(), URL: row.Thumb})
	}
	return out, nil
}
