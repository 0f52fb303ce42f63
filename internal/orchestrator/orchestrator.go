package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/datatypes"

	"waugzee/internal/formatter"
	"waugzee/internal/jobqueue"
	"waugzee/internal/logger"
	"waugzee/internal/models"
	"waugzee/internal/providererr"
	"waugzee/internal/providers"
	"waugzee/internal/store"
)

// maxSyncAlbumsPerArtist bounds the delta-refresh and cold-fetch album
// loops so a single consumer request cannot block forever on an artist
// with an enormous catalog. Albums beyond the bound are not fetched by that
// call and no job is enqueued for them; they stay unlinked, so a later
// enumeration of the artist (a stale read) sees them as new again.
const maxSyncAlbumsPerArtist = 25

// Config carries the user-configurable album-type and release-status
// filters the orchestrator applies. It is passed in rather than read from a global, per
// the no-module-level-mutable-state design note.
type Config struct {
	AlbumTypes      []string
	ReleaseStatuses []string
}

// Orchestrator implements ensureArtist/ensureAlbum (C6), the only two entry
// points for reads that may cause external traffic.
type Orchestrator struct {
	store     *store.Store
	registry  *providers.Registry
	queue     *jobqueue.Queue
	formatter *formatter.Formatter
	cfg       Config
	log       logger.Logger
}

func New(st *store.Store, registry *providers.Registry, queue *jobqueue.Queue, form *formatter.Formatter, cfg Config) *Orchestrator {
	return &Orchestrator{
		store:     st,
		registry:  registry,
		queue:     queue,
		formatter: form,
		cfg:       cfg,
		log:       logger.New("orchestrator"),
	}
}

// EnsureArtist implements §4.6's ensureArtist algorithm.
func (o *Orchestrator) EnsureArtist(ctx context.Context, artistID string) (*formatter.ArtistResponse, error) {
	log := o.log.Function("EnsureArtist")

	canonical := o.registry.Canonical()
	db := o.store.DB()

	a, err := o.store.Artist.GetByID(ctx, db, artistID)
	if err != nil {
		return nil, log.Err("failed to load artist", err, "artistID", artistID)
	}

	// staleRead tracks whether this call observed an artist past its TTL
	// (as opposed to one being fetched cold for the first time). Both
	// cases must re-enumerate the artist's albums: a cold fetch because it
	// has none linked yet, a stale one because upstream may have released
	// new albums since the last full enumeration.
	staleRead := false

	if a == nil {
		normalized, err := canonical.GetArtist(ctx, artistID)
		if err != nil {
			return nil, err
		}
		a = ArtistFromNormalized(*normalized)
		if err := o.store.Artist.UpsertArtist(ctx, db, a, true); err != nil {
			return nil, log.Err("failed to upsert artist", err, "artistID", artistID)
		}
	} else if o.store.Artist.NeedsRefresh(a) {
		staleRead = true
		normalized, err := canonical.GetArtist(ctx, artistID)
		if err != nil {
			log.Err("refresh fetch failed, serving stale copy", err, "artistID", artistID)
		} else {
			refreshed := ArtistFromNormalized(*normalized)
			if err := o.store.Artist.UpsertArtist(ctx, db, refreshed, true); err != nil {
				return nil, log.Err("failed to upsert refreshed artist", err, "artistID", artistID)
			}
			a = refreshed
		}
	}

	o.fetchArtistOverviewOnce(ctx, a)

	linkedIDs, err := o.store.Artist.ReleaseGroupIDs(ctx, db, a.ID)
	if err != nil {
		return nil, log.Err("failed to load linked release groups", err, "artistID", a.ID)
	}

	// A cold artist (never fully enumerated) always runs the full
	// enumeration. An already-complete artist only re-enumerates when this
	// read observed it past TTL, so delta-refresh keeps picking up albums
	// released upstream after the first full fetch instead of going quiet
	// forever once FetchComplete flips true.
	if len(linkedIDs) == 0 || !a.FetchComplete || staleRead {
		if err := o.enumerateArtistAlbums(ctx, a, linkedIDs); err != nil {
			log.Err("album enumeration failed", err, "artistID", a.ID)
		}
	}

	if err := o.enqueueEnrichment(ctx, models.EntityTypeArtist, a.ID); err != nil {
		log.Err("failed to enqueue artist enrichment", err, "artistID", a.ID)
	}

	if err := o.store.Artist.TouchAccess(ctx, db, a.ID); err != nil {
		log.Err("failed to record artist access", err, "artistID", a.ID)
	}

	albums, err := o.artistAlbumSummaries(ctx, a.ID)
	if err != nil {
		return nil, log.Err("failed to build album summaries", err, "artistID", a.ID)
	}

	return o.formatter.FormatArtist(ctx, a, albums)
}

func (o *Orchestrator) fetchArtistOverviewOnce(ctx context.Context, a *models.Artist) {
	if a.Overview != nil {
		return
	}
	texts := o.registry.TextAdapters()
	if len(texts) == 0 {
		return
	}

	log := o.log.Function("fetchArtistOverviewOnce")
	overview, err := texts[0].GetArtistText(ctx, a.Name)
	if err != nil {
		log.Err("synchronous overview fetch failed, deferring to background job", err, "artistID", a.ID)
		return
	}
	a.Overview = &overview
	if err := o.store.Artist.UpsertArtist(ctx, o.store.DB(), a, true); err != nil {
		log.Err("failed to persist synchronously fetched overview", err, "artistID", a.ID)
	}
}

// enumerateArtistAlbums performs §4.6 step 4: enumerate the artist's
// release groups, apply the album-type filter, and fetch each surviving
// release group's releases synchronously up to maxSyncAlbumsPerArtist.
func (o *Orchestrator) enumerateArtistAlbums(ctx context.Context, a *models.Artist, linkedIDs []string) error {
	log := o.log.Function("enumerateArtistAlbums")
	canonical := o.registry.Canonical()
	db := o.store.DB()

	alreadyLinked := make(map[string]bool, len(linkedIDs))
	for _, id := range linkedIDs {
		alreadyLinked[id] = true
	}

	var upstream []providers.NormalizedReleaseGroupRef
	page := providers.Page{Offset: 0, Limit: 100}
	for {
		refs, hasMore, err := canonical.GetArtistAlbums(ctx, a.ID, page)
		if err != nil {
			return fmt.Errorf("orchestrator: enumerating artist albums: %w", err)
		}
		upstream = append(upstream, refs...)
		if !hasMore || len(refs) == 0 {
			break
		}
		page.Offset += page.Limit
	}

	toFetch := decideAlbumsToFetch(upstream, alreadyLinked, o.cfg.AlbumTypes)
	if len(toFetch) > maxSyncAlbumsPerArtist {
		toFetch = toFetch[:maxSyncAlbumsPerArtist]
	}

	for i, ref := range toFetch {
		if err := o.fetchAndLinkReleaseGroup(ctx, a.ID, ref.ID, i); err != nil {
			log.Err("failed to fetch release group during enumeration", err, "artistID", a.ID, "releaseGroupID", ref.ID)
		}
	}

	if err := o.store.Artist.MarkFetchComplete(ctx, db, a.ID, len(upstream)); err != nil {
		return fmt.Errorf("orchestrator: marking artist fetch complete: %w", err)
	}
	return nil
}

// fetchAndLinkReleaseGroup fetches a release group's full detail, upserts
// it, links it to the artist, and fetches its surviving releases.
func (o *Orchestrator) fetchAndLinkReleaseGroup(ctx context.Context, artistID, releaseGroupID string, position int) error {
	db := o.store.DB()
	canonical := o.registry.Canonical()

	normalized, err := canonical.GetReleaseGroup(ctx, releaseGroupID)
	if err != nil {
		return err
	}
	rg := ReleaseGroupFromNormalized(*normalized)
	if err := o.store.ReleaseGroup.Upsert(ctx, db, rg); err != nil {
		return err
	}
	if err := o.store.Artist.LinkToReleaseGroup(ctx, db, artistID, rg.ID, position); err != nil {
		return err
	}

	return o.fetchSurvivingReleases(ctx, rg.ID)
}

func (o *Orchestrator) fetchSurvivingReleases(ctx context.Context, releaseGroupID string) error {
	canonical := o.registry.Canonical()

	var upstream []providers.NormalizedReleaseRef
	page := providers.Page{Offset: 0, Limit: 100}
	for {
		refs, hasMore, err := canonical.GetReleasesByReleaseGroup(ctx, releaseGroupID, page)
		if err != nil {
			return err
		}
		upstream = append(upstream, refs...)
		if !hasMore || len(refs) == 0 {
			break
		}
		page.Offset += page.Limit
	}

	toFetch := decideReleasesToFetch(upstream, o.cfg.ReleaseStatuses)
	for _, ref := range toFetch {
		if err := o.fetchAndUpsertRelease(ctx, ref.ID); err != nil {
			o.log.Err("failed to fetch release", err, "releaseID", ref.ID)
		}
	}

	// Non-wanted releases (filtered out above) are backfilled in the
	// background rather than fetched synchronously.
	nonWanted := len(upstream) - len(toFetch)
	if nonWanted > 0 {
		meta := jobqueue.Marshal(jobqueue.FetchAlbumFullMeta{ReleaseGroupID: releaseGroupID})
		if _, err := o.queue.Enqueue(ctx, models.JobTypeFetchAlbumFull, models.EntityTypeReleaseGroup, releaseGroupID, 3, meta); err != nil {
			o.log.Err("failed to enqueue background album-full fetch", err, "releaseGroupID", releaseGroupID)
		}
	}
	return nil
}

func (o *Orchestrator) fetchAndUpsertRelease(ctx context.Context, releaseID string) error {
	canonical := o.registry.Canonical()

	normalized, err := canonical.GetRelease(ctx, releaseID)
	if err != nil {
		return err
	}
	release, tracks := ReleaseWithTracksFromNormalized(*normalized)
	return o.store.Release.UpsertWithTracks(ctx, o.store.DB(), release, tracks)
}

// EnsureAlbum implements §4.6's ensureAlbum algorithm.
func (o *Orchestrator) EnsureAlbum(ctx context.Context, releaseGroupID string) (*formatter.AlbumResponse, error) {
	log := o.log.Function("EnsureAlbum")
	db := o.store.DB()
	canonical := o.registry.Canonical()

	rg, err := o.store.ReleaseGroup.GetByID(ctx, db, releaseGroupID)
	if err != nil {
		return nil, log.Err("failed to load release group", err, "releaseGroupID", releaseGroupID)
	}

	if rg != nil && o.store.ReleaseGroup.IsWithinTTL(rg) {
		return o.formatAlbum(ctx, rg)
	}

	if rg == nil {
		normalized, err := canonical.GetReleaseGroup(ctx, releaseGroupID)
		if err != nil {
			return nil, err
		}
		rg = ReleaseGroupFromNormalized(*normalized)

		for _, credit := range normalized.ArtistCredit {
			if _, ensureErr := o.EnsureArtist(ctx, credit.ArtistID); ensureErr != nil && !errors.Is(ensureErr, providererr.ErrNotFound) {
				log.Err("failed to cascade-ensure credited artist", ensureErr, "artistID", credit.ArtistID)
			}
		}

		// An explicit album fetch always bypasses the album-type filter
		// (decideExplicitAlbumFetch documents this); every surviving credited
		// artist link and the release-group row itself are still written so
		// the consumer can see the entry exists even if it would otherwise
		// have been filtered out of an artist-wide enumeration.
		_ = decideExplicitAlbumFetch()

		if err := o.store.ReleaseGroup.Upsert(ctx, db, rg); err != nil {
			return nil, log.Err("failed to upsert release group", err, "releaseGroupID", releaseGroupID)
		}
		for i, credit := range normalized.ArtistCredit {
			if err := o.store.Artist.LinkToReleaseGroup(ctx, db, credit.ArtistID, rg.ID, i); err != nil {
				log.Err("failed to link artist to release group", err, "artistID", credit.ArtistID, "releaseGroupID", rg.ID)
			}
		}

		if err := o.fetchSurvivingReleases(ctx, rg.ID); err != nil {
			log.Err("failed fetching releases for new album", err, "releaseGroupID", rg.ID)
		}
	}

	if err := o.enqueueEnrichment(ctx, models.EntityTypeReleaseGroup, rg.ID); err != nil {
		log.Err("failed to enqueue album enrichment", err, "releaseGroupID", rg.ID)
	}

	if err := o.store.ReleaseGroup.TouchAccess(ctx, db, rg.ID); err != nil {
		log.Err("failed to record release group access", err, "releaseGroupID", rg.ID)
	}

	return o.formatAlbum(ctx, rg)
}

func (o *Orchestrator) formatAlbum(ctx context.Context, rg *models.ReleaseGroup) (*formatter.AlbumResponse, error) {
	releases, err := o.store.ReleaseGroup.Releases(ctx, o.store.DB(), rg.ID)
	if err != nil {
		return nil, err
	}
	credits := store.UnmarshalArtistCredit(rg.ArtistCredit)
	artistIDs := make([]string, 0, len(credits))
	for _, c := range credits {
		artistIDs = append(artistIDs, c.ArtistID)
	}
	return o.formatter.FormatAlbum(ctx, rg, releases, artistIDs)
}

// artistAlbumSummaries builds the Albums listing embedded in an
// ArtistResponse from the artist's linked release groups.
func (o *Orchestrator) artistAlbumSummaries(ctx context.Context, artistID string) ([]formatter.AlbumSummary, error) {
	db := o.store.DB()

	ids, err := o.store.Artist.ReleaseGroupIDs(ctx, db, artistID)
	if err != nil {
		return nil, err
	}

	out := make([]formatter.AlbumSummary, 0, len(ids))
	for _, id := range ids {
		rg, err := o.store.ReleaseGroup.GetByID(ctx, db, id)
		if err != nil || rg == nil {
			continue
		}
		out = append(out, formatter.AlbumSummary{
			Id:              rg.ID,
			OldIds:          []string{},
			ReleaseStatuses: releaseStatusesFor(ctx, o.store, rg.ID),
			SecondaryTypes:  store.UnmarshalStringList(rg.SecondaryTypes),
			Title:           rg.Title,
			Type:            rg.PrimaryType,
		})
	}
	return out, nil
}

func releaseStatusesFor(ctx context.Context, st *store.Store, releaseGroupID string) []string {
	releases, err := st.ReleaseGroup.Releases(ctx, st.DB(), releaseGroupID)
	if err != nil {
		return []string{}
	}
	seen := map[string]bool{}
	out := make([]string, 0, len(releases))
	for _, r := range releases {
		s := string(r.Status)
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// enqueueEnrichment schedules the background text/image jobs every
// ensureArtist/ensureAlbum call ends with (§4.6 steps 5/6), image
// enqueueing only when at least one image-capable provider is registered.
func (o *Orchestrator) enqueueEnrichment(ctx context.Context, entityType models.EntityType, entityID string) error {
	var textJob, imageJob models.JobType
	switch entityType {
	case models.EntityTypeArtist:
		textJob, imageJob = models.JobTypeFetchArtistText, models.JobTypeFetchArtistImages
	case models.EntityTypeReleaseGroup:
		textJob, imageJob = models.JobTypeFetchAlbumText, models.JobTypeFetchAlbumImages
	}

	if _, err := o.queue.Enqueue(ctx, textJob, entityType, entityID, 1, jobqueue.Marshal(nil)); err != nil {
		return err
	}

	if o.registry.HasImageAdapter() {
		if _, err := o.queue.Enqueue(ctx, imageJob, entityType, entityID, 1, jobqueue.Marshal(nil)); err != nil {
			return err
		}
	}
	return nil
}

// SearchArtists implements the GET /search algorithm: the system is not a
// search index (spec Non-goals), so it delegates the query to the
// canonical provider and returns the upstream-ranked listing, storing
// nothing. Score is derived from the provider's own result ordering
// (highest-ranked first) since the canonical search response carries no
// explicit numeric relevance score in the normalized shape.
func (o *Orchestrator) SearchArtists(ctx context.Context, query string, limit int) ([]formatter.SearchResultItem, error) {
	log := o.log.Function("SearchArtists")

	results, err := o.registry.Canonical().SearchArtist(ctx, query, limit)
	if err != nil {
		log.Warn("upstream artist search failed", "query", query, "error", err)
		return nil, err
	}

	items := make([]formatter.SearchResultItem, 0, len(results))
	for i, n := range results {
		ref := artistRefFromNormalized(n)
		items = append(items, formatter.SearchResultItem{
			Artist: &ref,
			Score:  len(results) - i,
		})
	}
	return items, nil
}

// artistRefFromNormalized builds an ArtistRef directly from a search
// result without touching the store — search results are never persisted
// (they may not be canonical enrichable entities the consumer ever asks
// for again), so there are no stored links/images to attach.
func artistRefFromNormalized(n providers.NormalizedArtist) formatter.ArtistRef {
	var artistType *string
	if n.Type != "" {
		t := n.Type
		artistType = &t
	}
	return formatter.ArtistRef{
		Id:             n.ID,
		ArtistName:     n.Name,
		SortName:       n.SortName,
		Disambiguation: n.Disambiguation,
		Type:           artistType,
		Status:         n.Status,
		Genres:         n.Genres,
		ArtistAliases:  n.Aliases,
		Links:          []formatter.LinkOut{},
		Images:         []formatter.ImageOut{},
	}
}
