package providers

import "fmt"

// Registry holds every configured adapter and answers "who supports X"
// queries. Grounded on the spec's explicit instruction to replace
// reflection-based capability discovery with an explicit registry.
type Registry struct {
	canonical     CanonicalAdapter
	textAdapters  []TextAdapter
	imageAdapters []ImageAdapter
}

// NewRegistry requires exactly one canonical adapter — the spec treats the
// canonical provider as singular and authoritative — and accepts any number
// of text/image enrichment adapters.
func NewRegistry(canonical CanonicalAdapter, text []TextAdapter, images []ImageAdapter) (*Registry, error) {
	if canonical == nil {
		return nil, fmt.Errorf("providers: a canonical adapter is required")
	}
	return &Registry{canonical: canonical, textAdapters: text, imageAdapters: images}, nil
}

// Canonical returns the single canonical provider.
func (r *Registry) Canonical() CanonicalAdapter { return r.canonical }

// TextAdapters returns every registered text-enrichment provider.
func (r *Registry) TextAdapters() []TextAdapter { return r.textAdapters }

// ImageAdapters returns every registered image-enrichment provider.
func (r *Registry) ImageAdapters() []ImageAdapter { return r.imageAdapters }

// HasImageAdapter reports whether at least one artwork provider is
// registered — the orchestrator uses this to decide whether enqueuing
// fetch_artist_images/fetch_album_images makes sense at all.
func (r *Registry) HasImageAdapter() bool { return len(r.imageAdapters) > 0 }

// HasTextAdapter reports whether at least one text-enrichment provider is
// registered.
func (r *Registry) HasTextAdapter() bool { return len(r.textAdapters) > 0 }
