package formatter

import (
	"context"
	"fmt"
	"strings"

	"waugzee/internal/logger"
	"waugzee/internal/models"
	"waugzee/internal/store"
)

// Formatter renders store entities into consumer wire shapes. serverURL is
// the base used to build locally-cached image URLs (the SERVER_URL setting →
// hostname → localhost:<port> fallback chain is resolved once, by the
// caller, app.New).
type Formatter struct {
	store     *store.Store
	serverURL string
	log       logger.Logger
}

func New(st *store.Store, serverURL string) *Formatter {
	return &Formatter{store: st, serverURL: strings.TrimSuffix(serverURL, "/"), log: logger.New("formatter")}
}

// FormatArtist renders a single artist plus its album summaries. links and
// images are fetched with two single-entity queries; a third, batched
// query is never needed here since there is exactly one entity in play —
// the three-query batching rule applies to FormatAlbum's embedded artists.
func (f *Formatter) FormatArtist(ctx context.Context, a *models.Artist, albums []AlbumSummary) (*ArtistResponse, error) {
	log := f.log.Function("FormatArtist")

	links, err := f.store.Link.ForEntity(ctx, f.store.DB(), models.EntityTypeArtist, a.ID)
	if err != nil {
		return nil, log.Err("failed to load artist links", err, "artistID", a.ID)
	}
	images, err := f.store.Image.ForEntity(ctx, f.store.DB(), models.EntityTypeArtist, a.ID)
	if err != nil {
		return nil, log.Err("failed to load artist images", err, "artistID", a.ID)
	}

	resp := &ArtistResponse{
		Id:             a.ID,
		ArtistName:     a.Name,
		SortName:       a.SortName,
		Disambiguation: a.Disambiguation,
		Status:         a.Status,
		Genres:         titleCaseAll(store.UnmarshalStringList(a.Genres)),
		ArtistAliases:  store.UnmarshalStringList(a.Aliases),
		Links:          formatLinks(links),
		Images:         f.formatImages(images),
		Albums:         albums,
		Rating:         formatRating(a.Rating),
	}
	if a.Type != "" {
		t := string(a.Type)
		resp.Type = &t
	}
	if a.Overview != nil {
		resp.Overview = *a.Overview
	}
	return resp, nil
}

// FormatArtistRef renders the embedded-artist shape used inside an album
// response, using pre-fetched batched links/images maps so the caller
// controls the total query count.
func (f *Formatter) FormatArtistRef(a *models.Artist, links []*models.Link, images []*models.Image) ArtistRef {
	ref := ArtistRef{
		Id:             a.ID,
		ArtistName:     a.Name,
		SortName:       a.SortName,
		Disambiguation: a.Disambiguation,
		Status:         a.Status,
		Genres:         titleCaseAll(store.UnmarshalStringList(a.Genres)),
		ArtistAliases:  store.UnmarshalStringList(a.Aliases),
		Links:          formatLinks(links),
		Images:         f.formatImages(images),
		Rating:         formatRating(a.Rating),
	}
	if a.Type != "" {
		t := string(a.Type)
		ref.Type = &t
	}
	if a.Overview != nil {
		ref.Overview = *a.Overview
	}
	return ref
}

// FormatAlbum renders a release group, its releases, and its credited
// artists. Artist lookup, link lookup, and image lookup are each a single
// batched query across every credited artist id — the "exactly three
// queries total" rule.
func (f *Formatter) FormatAlbum(ctx context.Context, rg *models.ReleaseGroup, releases []*models.Release, artistIDs []string) (*AlbumResponse, error) {
	log := f.log.Function("FormatAlbum")

	artistsByID, err := f.store.Artist.GetByIDs(ctx, f.store.DB(), artistIDs) // query 1
	if err != nil {
		return nil, log.Err("failed to batch load album artists", err, "releaseGroupID", rg.ID)
	}

	linksByEntity, err := f.store.Link.ForEntities(ctx, f.store.DB(), models.EntityTypeArtist, artistIDs) // query 2
	if err != nil {
		return nil, log.Err("failed to batch load album artist links", err, "releaseGroupID", rg.ID)
	}
	imagesByEntity, err := f.store.Image.ForEntities(ctx, f.store.DB(), models.EntityTypeArtist, artistIDs) // query 3
	if err != nil {
		return nil, log.Err("failed to batch load album artist images", err, "releaseGroupID", rg.ID)
	}

	artistRefs := make([]ArtistRef, 0, len(artistIDs))
	for _, id := range artistIDs {
		a, ok := artistsByID[id]
		if !ok {
			continue
		}
		artistRefs = append(artistRefs, f.FormatArtistRef(a, linksByEntity[id], imagesByEntity[id]))
	}

	rgLinks, err := f.store.Link.ForEntity(ctx, f.store.DB(), models.EntityTypeReleaseGroup, rg.ID)
	if err != nil {
		return nil, log.Err("failed to load release group links", err, "releaseGroupID", rg.ID)
	}
	rgImages, err := f.store.Image.ForEntity(ctx, f.store.DB(), models.EntityTypeReleaseGroup, rg.ID)
	if err != nil {
		return nil, log.Err("failed to load release group images", err, "releaseGroupID", rg.ID)
	}

	resp := &AlbumResponse{
		Id:             rg.ID,
		Title:          rg.Title,
		Type:           rg.PrimaryType,
		SecondaryTypes: store.UnmarshalStringList(rg.SecondaryTypes),
		Disambiguation: rg.Disambiguation,
		ReleaseDate:    rg.FirstReleaseDate,
		Releases:       formatReleases(releases),
		Artists:        artistRefs,
		Genres:         titleCaseAll(store.UnmarshalStringList(rg.Genres)),
		Links:          formatLinks(rgLinks),
		Images:         f.formatImages(rgImages),
		Rating:         formatRating(rg.Rating),
		Aliases:        store.UnmarshalStringList(rg.Aliases),
		OldIds:         []string{},
	}
	if len(artistIDs) > 0 {
		resp.ArtistID = artistIDs[0]
	}
	if rg.Overview != nil {
		resp.Overview = *rg.Overview
	}
	return resp, nil
}

func formatReleases(releases []*models.Release) []ReleaseOut {
	out := make([]ReleaseOut, 0, len(releases))
	for _, r := range releases {
		discs := store.UnmarshalMedia(r.Media)
		media := make([]MediaOut, 0, len(discs))
		tracks := make([]TrackOut, 0, r.TrackCount)
		for _, d := range discs {
			media = append(media, MediaOut{Format: d.Format, Name: d.Name, Position: d.Position})
			for _, t := range d.Tracks {
				tracks = append(tracks, TrackOut{
					Id:            t.ID,
					TrackName:     t.Title,
					RecordingID:   t.RecordingID,
					ArtistID:      t.ArtistID,
					DurationMS:    t.LengthMS,
					TrackNumber:   t.Position,
					TrackPosition: t.Position,
					MediumNumber:  d.Position,
				})
			}
		}

		out = append(out, ReleaseOut{
			Id:          r.ID,
			Title:       r.Title,
			Status:      string(r.Status),
			ReleaseDate: r.ReleaseDate,
			Country:     nonEmptyStringList(r.Country),
			Label:       store.UnmarshalStringList(r.Labels),
			Media:       media,
			TrackCount:  r.TrackCount,
			Tracks:      tracks,
		})
	}
	return out
}

func nonEmptyStringList(s string) []string {
	if s == "" {
		return []string{}
	}
	return []string{s}
}

func formatLinks(links []*models.Link) []LinkOut {
	out := make([]LinkOut, 0, len(links))
	for _, l := range links {
		out = append(out, LinkOut{Target: l.URL, Type: l.LinkType})
	}
	return out
}

// formatImages resolves each image to either its locally cached URL or the
// upstream URL, depending on download state.
func (f *Formatter) formatImages(images []*models.Image) []ImageOut {
	out := make([]ImageOut, 0, len(images))
	for _, img := range images {
		out = append(out, ImageOut{CoverType: string(img.CoverType), Url: f.resolveImageURL(img)})
	}
	return out
}

func (f *Formatter) resolveImageURL(img *models.Image) string {
	if img.Cached && img.LocalPath != nil {
		return fmt.Sprintf("%s/images/%s/%s/%s", f.serverURL, img.EntityType, img.EntityID, strings.ToLower(string(img.CoverType)))
	}
	return img.URL
}

func formatRating(rating *float64) Rating {
	if rating == nil {
		return Rating{Count: 0, Value: nil}
	}
	v := *rating
	return Rating{Count: 1, Value: &v}
}

// titleCaseAll renders each genre in title case ("hip hop" -> "Hip Hop"),
// matching the consumer's display convention.
func titleCaseAll(genres []string) []string {
	out := make([]string, 0, len(genres))
	for _, g := range genres {
		out = append(out, titleCase(g))
	}
	return out
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
