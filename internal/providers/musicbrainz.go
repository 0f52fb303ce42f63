package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"waugzee/internal/logger"
	"waugzee/internal/providererr"
)

// MusicBrainzAdapter is the canonical metadata provider. Exactly one
// canonical adapter is required by the registry; this is it. Grounded on
// the teacher's discogs.service.go HTTP-adapter shape (explicit
// http.Client with timeout, status-code classification via
// providererr.Classify), generalized from the Discogs wire format to
// MusicBrainz's JSON search/lookup API.
type MusicBrainzAdapter struct {
	baseURL     string
	userAgent   string
	httpClient  *http.Client
	rateLimiter *RateLimiter
	log         logger.Logger
}

// MusicBrainzConfig configures the canonical adapter's base URL and rate
// floor, overridable when pointed at a local mirror (§4.1).
type MusicBrainzConfig struct {
	BaseURL        string
	UserAgent      string
	MinIntervalMS  int
}

func NewMusicBrainzAdapter(cfg MusicBrainzConfig, limiter *RateLimiter) *MusicBrainzAdapter {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://musicbrainz.org/ws/2"
	}
	return &MusicBrainzAdapter{
		baseURL:   baseURL,
		userAgent: cfg.UserAgent,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		rateLimiter: limiter,
		log:         logger.New("providers").File("musicbrainz"),
	}
}

func (a *MusicBrainzAdapter) Name() string { return "musicbrainz" }

func (a *MusicBrainzAdapter) Capabilities() []Capability {
	return []Capability{
		CapabilitySearchArtist,
		CapabilityGetArtist,
		CapabilityGetArtistAlbums,
		CapabilityGetReleaseGroup,
		CapabilityGetReleasesByReleaseGroup,
		CapabilityGetRelease,
	}
}

func (a *MusicBrainzAdapter) Supports(c Capability) bool {
	for _, have := range a.Capabilities() {
		if have == c {
			return true
		}
	}
	return false
}

func (a *MusicBrainzAdapter) get(ctx context.Context, path string, query url.Values, out any) error {
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
		if a.userAgent != "" {
			req.Header.Set("User-Agent", a.userAgent)
		}

		resp, err := a.httpClient.Do(req)
		if err != nil {
			return providererr.Classify(0, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return providererr.Classify(resp.StatusCode, nil)
		}

		if ct := resp.Header.Get("Content-Type"); ct != "" && !isJSONContentType(ct) {
			return fmt.Errorf("%w: unexpected content-type %q", providererr.ErrPermanent, ct)
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: %v", providererr.ErrPermanent, err)
		}
		return nil
	})
}

func isJSONContentType(ct string) bool {
	return len(ct) >= len("application/json") && ct[:len("application/json")] == "application/json"
}

// mbArtist mirrors the subset of MusicBrainz's artist lookup JSON this
// service needs; field names intentionally match the upstream wire format
// and are translated to the normalized shape immediately below.
type mbArtist struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	SortName       string `json:"sort-name"`
	Disambiguation string `json:"disambiguation"`
	Type           string `json:"type"`
	Gender         string `json:"gender"`
	Country        string `json:"country"`
	Ended          bool   `json:"ended"`
	LifeSpan       struct {
		Begin *string `json:"begin"`
		End   *string `json:"end"`
	} `json:"life-span"`
	Aliases []struct {
		Name string `json:"name"`
	} `json:"aliases"`
	Tags []struct {
		Name string `json:"name"`
	} `json:"tags"`
}

func (m mbArtist) normalize() NormalizedArtist {
	n := NormalizedArtist{
		ID:             m.ID,
		Name:           m.Name,
		SortName:       m.SortName,
		Disambiguation: m.Disambiguation,
		Type:           m.Type,
		Country:        m.Country,
		Gender:         m.Gender,
		Ended:          m.Ended,
		BeginDate:      NormalizeDate(m.LifeSpan.Begin),
		EndDate:        NormalizeDate(m.LifeSpan.End),
	}
	if n.Ended {
		n.Status = "ended"
	} else {
		n.Status = "active"
	}
	for _, alias := range m.Aliases {
		n.Aliases = append(n.Aliases, alias.Name)
	}
	for _, tag := range m.Tags {
		n.Tags = append(n.Tags, tag.Name)
	}
	return n
}

func (a *MusicBrainzAdapter) SearchArtist(ctx context.Context, query string, limit int) ([]NormalizedArtist, error) {
	var result struct {
		Artists []mbArtist `json:"artists"`
	}
	q := url.Values{"query": {query}, "limit": {strconv.Itoa(limit)}}
	if err := a.get(ctx, "/artist", q, &result); err != nil {
		return nil, err
	}

	out := make([]NormalizedArtist, 0, len(result.Artists))
	for _, artist := range result.Artists {
		out = append(out, artist.normalize())
	}
	return out, nil
}

func (a *MusicBrainzAdapter) GetArtist(ctx context.Context, id string) (*NormalizedArtist, error) {
	var raw mbArtist
	q := url.Values{"inc": {"aliases+tags"}}
	if err := a.get(ctx, "/artist/"+id, q, &raw); err != nil {
		return nil, err
	}
	normalized := raw.normalize()
	return &normalized, nil
}

type mbReleaseGroupRef struct {
	ID             string   `json:"id"`
	PrimaryType    string   `json:"primary-type"`
	SecondaryTypes []string `json:"secondary-types"`
}

func (a *MusicBrainzAdapter) GetArtistAlbums(ctx context.Context, artistID string, page Page) ([]NormalizedReleaseGroupRef, bool, error) {
	var result struct {
		ReleaseGroups []mbReleaseGroupRef `json:"release-groups"`
		ReleaseGroupCount int              `json:"release-group-count"`
	}
	q := url.Values{
		"artist": {artistID},
		"limit":  {strconv.Itoa(page.Limit)},
		"offset": {strconv.Itoa(page.Offset)},
	}
	if err := a.get(ctx, "/release-group", q, &result); err != nil {
		return nil, false, err
	}

	out := make([]NormalizedReleaseGroupRef, 0, len(result.ReleaseGroups))
	for _, rg := range result.ReleaseGroups {
		out = append(out, NormalizedReleaseGroupRef{
			ID:             rg.ID,
			PrimaryType:    rg.PrimaryType,
			SecondaryTypes: rg.SecondaryTypes,
		})
	}

	hasMore := page.Offset+len(out) < result.ReleaseGroupCount
	return out, hasMore, nil
}

type mbArtistCredit struct {
	Artist struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"artist"`
	Name       string `json:"name"`
	JoinPhrase string `json:"joinphrase"`
}

func normalizeCredits(credits []mbArtistCredit) []ArtistCredit {
	out := make([]ArtistCredit, 0, len(credits))
	for _, c := range credits {
		creditedName := c.Name
		if creditedName == "" {
			creditedName = c.Artist.Name
		}
		out = append(out, ArtistCredit{
			ArtistID:     c.Artist.ID,
			CreditedName: creditedName,
			JoinPhrase:   c.JoinPhrase,
		})
	}
	return out
}

type mbReleaseGroup struct {
	ID                string           `json:"id"`
	Title             string           `json:"title"`
	Disambiguation    string           `json:"disambiguation"`
	PrimaryType       string           `json:"primary-type"`
	SecondaryTypes    []string         `json:"secondary-types"`
	FirstReleaseDate  *string          `json:"first-release-date"`
	ArtistCredit      []mbArtistCredit `json:"artist-credit"`
	Tags              []struct {
		Name string `json:"name"`
	} `json:"tags"`
}

func (a *MusicBrainzAdapter) GetReleaseGroup(ctx context.Context, id string) (*NormalizedReleaseGroup, error) {
	var raw mbReleaseGroup
	q := url.Values{"inc": {"artist-credits+tags"}}
	if err := a.get(ctx, "/release-group/"+id, q, &raw); err != nil {
		return nil, err
	}

	out := &NormalizedReleaseGroup{
		ID:               raw.ID,
		Title:            raw.Title,
		Disambiguation:   raw.Disambiguation,
		PrimaryType:      raw.PrimaryType,
		SecondaryTypes:   raw.SecondaryTypes,
		FirstReleaseDate: NormalizeDate(raw.FirstReleaseDate),
		ArtistCredit:     normalizeCredits(raw.ArtistCredit),
	}
	for _, tag := range raw.Tags {
		out.Tags = append(out.Tags, tag.Name)
	}
	return out, nil
}

type mbReleaseRef struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func (a *MusicBrainzAdapter) GetReleasesByReleaseGroup(ctx context.Context, releaseGroupID string, page Page) ([]NormalizedReleaseRef, bool, error) {
	var result struct {
		Releases     []mbReleaseRef `json:"releases"`
		ReleaseCount int            `json:"release-count"`
	}
	q := url.Values{
		"release-group": {releaseGroupID},
		"limit":         {strconv.Itoa(page.Limit)},
		"offset":        {strconv.Itoa(page.Offset)},
	}
	if err := a.get(ctx, "/release", q, &result); err != nil {
		return nil, false, err
	}

	out := make([]NormalizedReleaseRef, 0, len(result.Releases))
	for _, r := range result.Releases {
		out = append(out, NormalizedReleaseRef{ID: r.ID, Status: r.Status})
	}

	hasMore := page.Offset+len(out) < result.ReleaseCount
	return out, hasMore, nil
}

type mbRelease struct {
	ID             string           `json:"id"`
	Title          string           `json:"title"`
	Status         string           `json:"status"`
	Date           *string          `json:"date"`
	Country        string           `json:"country"`
	Barcode        string           `json:"barcode"`
	Disambiguation string           `json:"disambiguation"`
	ArtistCredit   []mbArtistCredit `json:"artist-credit"`
	ReleaseGroup   struct {
		ID string `json:"id"`
	} `json:"release-group"`
	LabelInfo []struct {
		Label struct {
			Name string `json:"name"`
		} `json:"label"`
	} `json:"label-info"`
	Media []struct {
		Format   string `json:"format"`
		Position int    `json:"position"`
		Tracks   []struct {
			Recording struct {
				ID             string `json:"id"`
				Title          string `json:"title"`
				Disambiguation string `json:"disambiguation"`
				Length         *int   `json:"length"`
			} `json:"recording"`
			Position     int              `json:"position"`
			Title        string           `json:"title"`
			Length       *int             `json:"length"`
			ArtistCredit []mbArtistCredit `json:"artist-credit"`
		} `json:"tracks"`
	} `json:"media"`
}

func (a *MusicBrainzAdapter) GetRelease(ctx context.Context, id string) (*NormalizedRelease, error) {
	var raw mbRelease
	q := url.Values{"inc": {"artist-credits+labels+recordings+release-groups"}}
	if err := a.get(ctx, "/release/"+id, q, &raw); err != nil {
		return nil, err
	}

	out := &NormalizedRelease{
		ID:             raw.ID,
		ReleaseGroupID: raw.ReleaseGroup.ID,
		Title:          raw.Title,
		Status:         raw.Status,
		ReleaseDate:    NormalizeDate(raw.Date),
		Country:        raw.Country,
		Barcode:        raw.Barcode,
		Disambiguation: raw.Disambiguation,
		ArtistCredit:   normalizeCredits(raw.ArtistCredit),
	}
	for _, label := range raw.LabelInfo {
		out.Labels = append(out.Labels, label.Label.Name)
	}
	for _, medium := range raw.Media {
		for _, t := range medium.Tracks {
			length := t.Length
			if length == nil {
				length = t.Recording.Length
			}
			out.Tracks = append(out.Tracks, NormalizedTrack{
				RecordingID:    t.Recording.ID,
				RecordingTitle: t.Recording.Title,
				Disambiguation: t.Recording.Disambiguation,
				MediumNumber:   medium.Position,
				Position:       t.Position,
				Title:          t.Title,
				LengthMS:       length,
				ArtistCredit:   normalizeCredits(t.ArtistCredit),
			})
		}
	}
	return out, nil
}
