package deps

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

var errEmptyResult = errors.New("registry returned no slug")

// FetchMetadata queries reg once per slug and collects the successes.
//
// Queries run on a pool of opts.Workers goroutines, each bounded by
// opts.Timeout. Results are keyed by the slug the registry returned.
// Failures are reported to opts.Hooks and opts.Logger and otherwise
// dropped: the returned set is never nil and there is no error return.
// A nil reg yields an empty set.
func FetchMetadata(ctx context.Context, reg Registry, slugs []string, opts Options) MetadataSet {
	opts = opts.WithDefaults()
	set := make(MetadataSet)
	if reg == nil || len(slugs) == 0 {
		return set
	}

	f := &fetcher{
		ctx:     ctx,
		opts:    opts,
		reg:     reg,
		jobs:    make(chan string),
		results: make(chan fetchResult, opts.Workers),
	}
	f.run(dedupe(slugs), set)
	return set
}

type fetcher struct {
	ctx  context.Context
	opts Options
	reg  Registry

	jobs    chan string
	results chan fetchResult
	wg      sync.WaitGroup
}

type fetchResult struct {
	slug string
	meta *Metadata
	err  error
}

func (f *fetcher) run(slugs []string, set MetadataSet) {
	for range min(f.opts.Workers, len(slugs)) {
		f.wg.Add(1)
		go f.worker()
	}

	go func() {
		defer close(f.jobs)
		for _, s := range slugs {
			select {
			case f.jobs <- s:
			case <-f.ctx.Done():
				return
			}
		}
	}()

	go func() {
		f.wg.Wait()
		close(f.results)
	}()

	f.collect(set)
}

func (f *fetcher) worker() {
	defer f.wg.Done()
	for s := range f.jobs {
		f.results <- f.query(s)
	}
}

func (f *fetcher) query(s string) fetchResult {
	hooks := f.opts.Hooks
	hooks.OnFetchStart(f.ctx, s)
	start := time.Now()

	meta, err := f.queryWithTimeout(s)
	if err == nil && (meta == nil || meta.Slug == "") {
		err = errEmptyResult
	}

	hooks.OnFetchComplete(f.ctx, s, time.Since(start), err)
	if err != nil {
		return fetchResult{slug: s, err: err}
	}
	return fetchResult{slug: s, meta: meta}
}

// queryWithTimeout bounds the query even when the registry ignores ctx.
func (f *fetcher) queryWithTimeout(s string) (*Metadata, error) {
	ctx, cancel := context.WithTimeout(f.ctx, f.opts.Timeout)
	defer cancel()

	done := make(chan fetchResult, 1)
	go func() {
		meta, err := f.reg.Query(ctx, s, f.opts.Fields)
		done <- fetchResult{meta: meta, err: err}
	}()

	select {
	case r := <-done:
		return r.meta, r.err
	case <-ctx.Done():
		return nil, fmt.Errorf("query %s: %w", s, ctx.Err())
	}
}

func (f *fetcher) collect(set MetadataSet) {
	for r := range f.results {
		if r.err != nil {
			f.opts.Logger("metadata fetch failed: %s: %v", r.slug, r.err)
			continue
		}
		if _, dup := set[r.meta.Slug]; dup {
			f.opts.Logger("metadata for %s already recorded, ignoring result for %s", r.meta.Slug, r.slug)
			continue
		}
		set[r.meta.Slug] = r.meta
	}
}

func dedupe(slugs []string) []string {
	seen := make(map[string]bool, len(slugs))
	out := make([]string, 0, len(slugs))
	for _, s := range slugs {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
