package workers

import (
	"context"
	"errors"
	"fmt"

	"waugzee/internal/jobqueue"
	"waugzee/internal/logger"
	"waugzee/internal/models"
	"waugzee/internal/orchestrator"
	"waugzee/internal/providererr"
	"waugzee/internal/providers"
	"waugzee/internal/store"
	"waugzee/internal/utils"
)

// Processors groups the job-type handlers the four queue-backed pools run.
// Each method is a workers.ProcessorFunc, wired to its pool's job-type set
// in the composition root exactly as §4.5's table assigns them.
type Processors struct {
	store    *store.Store
	registry *providers.Registry
	queue    *jobqueue.Queue
	log      logger.Logger
}

func NewProcessors(st *store.Store, registry *providers.Registry, queue *jobqueue.Queue) *Processors {
	return &Processors{
		store:    st,
		registry: registry,
		queue:    queue,
		log:      logger.New("workers").File("processors"),
	}
}

// FetchArtist backs fetch_artist: a canonical-pool job fetching and
// upserting a single artist row, independent of any synchronous read.
func (p *Processors) FetchArtist(ctx context.Context, job *models.Job) error {
	log := p.log.Function("FetchArtist")

	normalized, err := p.registry.Canonical().GetArtist(ctx, job.EntityID)
	if err != nil {
		if providererr.IsAuthoritativeAbsence(err) {
			return nil
		}
		return err
	}

	a := orchestrator.ArtistFromNormalized(*normalized)
	if err := p.store.Artist.UpsertArtist(ctx, p.store.DB(), a, true); err != nil {
		return log.Err("failed to upsert artist", err, "artistID", job.EntityID)
	}
	return nil
}

// FetchArtistAlbums backs fetch_artist_albums: enumerate and link every
// release group the canonical provider knows for the artist, paginating
// across job runs when the FetchArtistAlbumsMeta offset indicates more
// remains. The synchronous orchestrator path does not enqueue this job and
// does not hand it the albums beyond its own sync bound.
func (p *Processors) FetchArtistAlbums(ctx context.Context, job *models.Job) error {
	log := p.log.Function("FetchArtistAlbums")

	var meta jobqueue.FetchArtistAlbumsMeta
	_ = jobqueue.Unmarshal(job.Metadata, &meta)

	canonical := p.registry.Canonical()
	page := providers.Page{Offset: meta.Offset, Limit: 100}

	refs, hasMore, err := canonical.GetArtistAlbums(ctx, job.EntityID, page)
	if err != nil {
		return err
	}

	for i, ref := range refs {
		rgNormalized, err := canonical.GetReleaseGroup(ctx, ref.ID)
		if err != nil {
			log.Warn("failed to fetch release group during album enumeration", "releaseGroupID", ref.ID, "error", err)
			continue
		}
		rg := orchestrator.ReleaseGroupFromNormalized(*rgNormalized)
		if err := p.store.ReleaseGroup.Upsert(ctx, p.store.DB(), rg); err != nil {
			log.Warn("failed to upsert release group", "releaseGroupID", ref.ID, "error", err)
			continue
		}
		if err := p.store.Artist.LinkToReleaseGroup(ctx, p.store.DB(), job.EntityID, rg.ID, meta.Offset+i); err != nil {
			log.Warn("failed to link artist to release group", "releaseGroupID", ref.ID, "error", err)
		}
	}

	if hasMore {
		next := jobqueue.Marshal(jobqueue.FetchArtistAlbumsMeta{Offset: meta.Offset + page.Limit})
		if _, err := p.queue.Enqueue(ctx, models.JobTypeFetchArtistAlbums, models.EntityTypeArtist, job.EntityID, job.Priority, next); err != nil {
			return log.Err("failed to enqueue next album enumeration page", err, "artistID", job.EntityID)
		}
	}
	return nil
}

// FetchRelease backs fetch_release: fetch and upsert one release with its
// tracks, named by FetchReleaseMeta.ReleaseID.
func (p *Processors) FetchRelease(ctx context.Context, job *models.Job) error {
	log := p.log.Function("FetchRelease")

	var meta jobqueue.FetchReleaseMeta
	if err := jobqueue.Unmarshal(job.Metadata, &meta); err != nil {
		return fmt.Errorf("workers: decoding fetch_release metadata: %w", err)
	}

	normalized, err := p.registry.Canonical().GetRelease(ctx, meta.ReleaseID)
	if err != nil {
		if providererr.IsAuthoritativeAbsence(err) {
			return nil
		}
		return err
	}

	release, tracks := orchestrator.ReleaseWithTracksFromNormalized(*normalized)
	if err := p.store.Release.UpsertWithTracks(ctx, p.store.DB(), release, tracks); err != nil {
		return log.Err("failed to upsert release", err, "releaseID", meta.ReleaseID)
	}
	return nil
}

// FetchAlbumFull backs fetch_album_full: the background completion of a
// release group's surviving releases the synchronous path deferred
// (§4.6's "Non-wanted releases... are backfilled in the background").
func (p *Processors) FetchAlbumFull(ctx context.Context, job *models.Job) error {
	log := p.log.Function("FetchAlbumFull")

	canonical := p.registry.Canonical()
	var upstream []providers.NormalizedReleaseRef
	page := providers.Page{Offset: 0, Limit: 100}
	for {
		refs, hasMore, err := canonical.GetReleasesByReleaseGroup(ctx, job.EntityID, page)
		if err != nil {
			return err
		}
		upstream = append(upstream, refs...)
		if !hasMore || len(refs) == 0 {
			break
		}
		page.Offset += page.Limit
	}

	for _, ref := range upstream {
		existing, err := p.store.Release.GetByID(ctx, p.store.DB(), ref.ID)
		if err != nil || existing != nil {
			continue
		}
		normalized, err := canonical.GetRelease(ctx, ref.ID)
		if err != nil {
			log.Warn("failed to fetch release during album-full backfill", "releaseID", ref.ID, "error", err)
			continue
		}
		release, tracks := orchestrator.ReleaseWithTracksFromNormalized(*normalized)
		if err := p.store.Release.UpsertWithTracks(ctx, p.store.DB(), release, tracks); err != nil {
			log.Warn("failed to upsert release during album-full backfill", "releaseID", ref.ID, "error", err)
		}
	}
	return nil
}

// ArtistFull backs artist_full: the legacy composite job the daily
// bulk-refresh cron fans out — fetch the artist row itself plus every
// release group already linked to it.
func (p *Processors) ArtistFull(ctx context.Context, job *models.Job) error {
	log := p.log.Function("ArtistFull")

	if err := p.FetchArtist(ctx, job); err != nil {
		if !errors.Is(err, providererr.ErrNotFound) {
			return err
		}
	}

	linkedIDs, err := p.store.Artist.ReleaseGroupIDs(ctx, p.store.DB(), job.EntityID)
	if err != nil {
		return log.Err("failed to load linked release groups", err, "artistID", job.EntityID)
	}

	canonical := p.registry.Canonical()
	for _, rgID := range linkedIDs {
		normalized, err := canonical.GetReleaseGroup(ctx, rgID)
		if err != nil {
			log.Warn("failed to refresh release group during artist_full", "releaseGroupID", rgID, "error", err)
			continue
		}
		rg := orchestrator.ReleaseGroupFromNormalized(*normalized)
		if err := p.store.ReleaseGroup.Upsert(ctx, p.store.DB(), rg); err != nil {
			log.Warn("failed to upsert release group during artist_full", "releaseGroupID", rgID, "error", err)
		}
	}
	return nil
}

// FetchArtistText backs fetch_artist_text: the text pool's artist-overview
// backfill, run whenever the synchronous fetch in
// orchestrator.fetchArtistOverviewOnce didn't already fill it in.
func (p *Processors) FetchArtistText(ctx context.Context, job *models.Job) error {
	log := p.log.Function("FetchArtistText")

	texts := p.registry.TextAdapters()
	if len(texts) == 0 {
		return nil
	}

	a, err := p.store.Artist.GetByID(ctx, p.store.DB(), job.EntityID)
	if err != nil || a == nil {
		return err
	}
	if a.Overview != nil {
		return nil
	}

	overview, err := texts[0].GetArtistText(ctx, a.Name)
	if err != nil {
		if providererr.IsAuthoritativeAbsence(err) {
			return nil
		}
		return err
	}

	if cleaned, dirty := utils.CleanUTF8(overview); dirty {
		log.Warn("cleaned invalid UTF-8 in artist overview", "artistID", job.EntityID)
		overview = cleaned
	}
	a.Overview = &overview
	if err := p.store.Artist.UpsertArtist(ctx, p.store.DB(), a, true); err != nil {
		return log.Err("failed to persist artist overview", err, "artistID", job.EntityID)
	}
	return nil
}

// FetchAlbumText backs fetch_album_text: same as FetchArtistText for a
// release group, resolving the primary credited artist's name for the
// provider lookup.
func (p *Processors) FetchAlbumText(ctx context.Context, job *models.Job) error {
	log := p.log.Function("FetchAlbumText")

	texts := p.registry.TextAdapters()
	if len(texts) == 0 {
		return nil
	}

	rg, err := p.store.ReleaseGroup.GetByID(ctx, p.store.DB(), job.EntityID)
	if err != nil || rg == nil {
		return err
	}
	if rg.Overview != nil {
		return nil
	}

	credits := store.UnmarshalArtistCredit(rg.ArtistCredit)
	artistName := rg.Title
	if len(credits) > 0 {
		artistName = credits[0].CreditedName
	}

	overview, err := texts[0].GetAlbumText(ctx, artistName, rg.Title)
	if err != nil {
		if providererr.IsAuthoritativeAbsence(err) {
			return nil
		}
		return err
	}

	if cleaned, dirty := utils.CleanUTF8(overview); dirty {
		log.Warn("cleaned invalid UTF-8 in album overview", "releaseGroupID", rg.ID)
		overview = cleaned
	}

	if err := p.store.ReleaseGroup.UpdateOverview(ctx, p.store.DB(), rg.ID, overview); err != nil {
		return log.Err("failed to persist album overview", err, "releaseGroupID", rg.ID)
	}
	return nil
}

// FetchArtistImages backs fetch_artist_images: ask every registered
// artwork-url provider for candidate URLs and upsert one Image row per
// candidate with cached=false, for the artwork-binary pool to pick up.
func (p *Processors) FetchArtistImages(ctx context.Context, job *models.Job) error {
	a, err := p.store.Artist.GetByID(ctx, p.store.DB(), job.EntityID)
	if err != nil || a == nil {
		return err
	}
	return p.fetchImages(ctx, models.EntityTypeArtist, job.EntityID, func(adapter providers.ImageAdapter) ([]providers.NormalizedImageRef, error) {
		return adapter.ArtistImages(ctx, a.Name)
	})
}

// FetchAlbumImages backs fetch_album_images: same as FetchArtistImages for
// a release group.
func (p *Processors) FetchAlbumImages(ctx context.Context, job *models.Job) error {
	rg, err := p.store.ReleaseGroup.GetByID(ctx, p.store.DB(), job.EntityID)
	if err != nil || rg == nil {
		return err
	}
	credits := store.UnmarshalArtistCredit(rg.ArtistCredit)
	artistName := rg.Title
	if len(credits) > 0 {
		artistName = credits[0].CreditedName
	}
	return p.fetchImages(ctx, models.EntityTypeReleaseGroup, job.EntityID, func(adapter providers.ImageAdapter) ([]providers.NormalizedImageRef, error) {
		if _, ok := adapter.(*providers.CoverArtArchiveAdapter); ok {
			return adapter.AlbumImages(ctx, artistName, rg.ID)
		}
		return adapter.AlbumImages(ctx, artistName, rg.Title)
	})
}

func (p *Processors) fetchImages(ctx context.Context, entityType models.EntityType, entityID string, fetch func(providers.ImageAdapter) ([]providers.NormalizedImageRef, error)) error {
	log := p.log.Function("fetchImages")

	for _, adapter := range p.registry.ImageAdapters() {
		refs, err := fetch(adapter)
		if err != nil {
			log.Warn("image provider lookup failed", "provider", adapter.Name(), "entityID", entityID, "error", err)
			continue
		}
		for _, ref := range refs {
			coverType := models.CoverType(ref.CoverType)
			if err := p.store.Image.UpsertURL(ctx, p.store.DB(), entityType, entityID, coverType, ref.Provider, ref.URL); err != nil {
				log.Warn("failed to upsert image url", "entityID", entityID, "error", err)
			}
		}
	}
	return nil
}

// CanonicalDispatch routes a canonical-pool job to the Processors method
// matching its job type. Kept as a single switch here rather than one
// ProcessorFunc closure per job type, so the composition root wires each
// pool with one function instead of a job-type-keyed map.
func CanonicalDispatch(p *Processors) ProcessorFunc {
	return func(ctx context.Context, job *models.Job) error {
		switch job.JobType {
		case models.JobTypeFetchArtist:
			return p.FetchArtist(ctx, job)
		case models.JobTypeFetchArtistAlbums:
			return p.FetchArtistAlbums(ctx, job)
		case models.JobTypeFetchRelease:
			return p.FetchRelease(ctx, job)
		case models.JobTypeFetchAlbumFull:
			return p.FetchAlbumFull(ctx, job)
		case models.JobTypeArtistFull:
			return p.ArtistFull(ctx, job)
		default:
			return fmt.Errorf("workers: canonical pool cannot process job type %q", job.JobType)
		}
	}
}

// TextDispatch routes a text-pool job to its Processors method.
func TextDispatch(p *Processors) ProcessorFunc {
	return func(ctx context.Context, job *models.Job) error {
		switch job.JobType {
		case models.JobTypeFetchArtistText:
			return p.FetchArtistText(ctx, job)
		case models.JobTypeFetchAlbumText:
			return p.FetchAlbumText(ctx, job)
		default:
			return fmt.Errorf("workers: text pool cannot process job type %q", job.JobType)
		}
	}
}

// ArtworkURLDispatch routes an artwork-url-pool job to its Processors method.
func ArtworkURLDispatch(p *Processors) ProcessorFunc {
	return func(ctx context.Context, job *models.Job) error {
		switch job.JobType {
		case models.JobTypeFetchArtistImages:
			return p.FetchArtistImages(ctx, job)
		case models.JobTypeFetchAlbumImages:
			return p.FetchAlbumImages(ctx, job)
		default:
			return fmt.Errorf("workers: artwork-url pool cannot process job type %q", job.JobType)
		}
	}
}
