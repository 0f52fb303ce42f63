package workers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"waugzee/internal/logger"
	"waugzee/internal/providers"
	"waugzee/internal/store"
)

// ImagePool is the artwork-binary pool (§4.5's fourth pool): it polls the
// images table directly rather than the job queue, since a candidate row is
// already a complete unit of work (the URL is already known — there is
// nothing to "claim" from a shared queue).
type ImagePool struct {
	store       *store.Store
	storageDir  string
	limiters    map[string]*providers.RateLimiter
	httpClient  *http.Client
	concurrency int
	pollInterval time.Duration
	log         logger.Logger

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	sem     chan struct{}
}

// NewImagePool builds the artwork-binary downloader. limiters maps a
// provider name (as recorded on the Image row) to its own token bucket, so
// one slow provider never throttles downloads from another.
func NewImagePool(st *store.Store, storageDir string, limiters map[string]*providers.RateLimiter, concurrency int, pollInterval time.Duration) *ImagePool {
	return &ImagePool{
		store:        st,
		storageDir:   storageDir,
		limiters:     limiters,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		concurrency:  concurrency,
		pollInterval: pollInterval,
		log:          logger.New("workers").File("imagepool"),
		sem:          make(chan struct{}, concurrency),
	}
}

func (p *ImagePool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	log := p.log.Function("Start")
	if p.started {
		log.Info("image pool already started")
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.started = true

	p.wg.Add(1)
	go p.loop(runCtx)

	log.Info("image pool started", "concurrency", p.concurrency)
}

func (p *ImagePool) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	cancel := p.cancel
	p.started = false
	p.mu.Unlock()

	cancel()
	p.wg.Wait()
}

func (p *ImagePool) loop(ctx context.Context) {
	defer p.wg.Done()

	log := p.log.Function("loop")
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.claimAndDownload(ctx, log)
		}
	}
}

func (p *ImagePool) claimAndDownload(ctx context.Context, log logger.Logger) {
	select {
	case p.sem <- struct{}{}:
	default:
		return
	}

	img, err := p.store.Image.NextDownloadCandidate(ctx, p.store.DB())
	if err != nil {
		<-p.sem
		log.Err("failed to select next download candidate", err)
		return
	}
	if img == nil {
		<-p.sem
		return
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer func() { <-p.sem }()

		if limiter, ok := p.limiters[img.Provider]; ok {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
		}

		localPath, err := p.download(ctx, img.URL, img.ID.String())
		if err != nil {
			if failErr := p.store.Image.MarkFailed(ctx, p.store.DB(), img.ID.String(), err.Error()); failErr != nil {
				log.Err("failed to record image download failure", failErr, "imageID", img.ID)
			}
			return
		}

		if err := p.store.Image.MarkCached(ctx, p.store.DB(), img.ID.String(), localPath); err != nil {
			log.Err("failed to mark image cached", err, "imageID", img.ID)
		}
	}()
}

// download fetches the image body to storageDir/<id><ext> and returns the
// path recorded on the Image row.
func (p *ImagePool) download(ctx context.Context, url, id string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("workers: building image request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("workers: downloading image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("workers: image download returned status %d", resp.StatusCode)
	}

	ext := chooseExtension(url)

	if err := os.MkdirAll(p.storageDir, 0o755); err != nil {
		return "", fmt.Errorf("workers: creating storage dir: %w", err)
	}

	localPath := filepath.Join(p.storageDir, id+ext)
	out, err := os.Create(localPath)
	if err != nil {
		return "", fmt.Errorf("workers: creating local file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return "", fmt.Errorf("workers: writing local file: %w", err)
	}

	return localPath, nil
}

// chooseExtension picks a local file extension from an upstream URL,
// falling back to .jpg for extension-less or suspiciously long "extensions"
// (a query string with no path extension, e.g. ?size=500).
func chooseExtension(url string) string {
	ext := filepath.Ext(url)
	if ext == "" || len(ext) > 5 {
		return ".jpg"
	}
	return ext
}
