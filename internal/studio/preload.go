package studio

import (
	"context"

	"mell-studio/internal/imagecache"
	"mell-studio/internal/resolve"
)

// EssentialPaths are the images the first render needs: background, frame
// and the layers of the current selection.
func (s *Session) EssentialPaths() []string {
	return dedupe(append([]string{s.opts.Background, s.opts.Frame}, s.Layers()...))
}

// AllPaths lists every image the session may ever draw: the essentials,
// every face variant, every option file and every manifest part.
func (s *Session) AllPaths() []string {
	paths := s.EssentialPaths()
	paths = append(paths, resolve.SkinBase, resolve.ScleraNormal, resolve.ScleraWink, resolve.DefaultBase)
	paths = append(paths, s.catalog.Files()...)
	for _, p := range s.manifest.Parts {
		paths = append(paths, p.FilePath)
	}
	return dedupe(paths)
}

// Preload loads the essential images and blocks until they are done, then
// starts loading everything else in the background. When it returns the
// first render can proceed without a loading indicator.
func (s *Session) Preload(ctx context.Context) (imagecache.Stats, error) {
	essential := s.EssentialPaths()
	st, err := s.cache.PreloadEssential(ctx, essential, s.opts.Workers)
	if err != nil {
		return st, err
	}
	s.log.Debug("essential preload done", "loaded", st.Loaded, "failed", st.Failed)

	seen := make(map[string]bool, len(essential))
	for _, p := range essential {
		seen[p] = true
	}
	var rest []string
	for _, p := range s.AllPaths() {
		if !seen[p] {
			rest = append(rest, p)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bgCancel != nil {
		return st, nil
	}
	bgCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.bgCancel = cancel
	s.bgDone = make(chan struct{})
	go func() {
		defer close(s.bgDone)
		stats := s.cache.PreloadBackground(bgCtx, rest, s.opts.PreloadBatch, s.opts.PreloadPause)
		s.mu.Lock()
		s.bgStats = stats
		s.mu.Unlock()
	}()
	return st, nil
}

// WaitPreload blocks until background loading started by Preload ends and
// returns its counts. It returns immediately if none was started.
func (s *Session) WaitPreload() imagecache.Stats {
	s.mu.Lock()
	done := s.bgDone
	s.mu.Unlock()
	if done == nil {
		return imagecache.Stats{}
	}
	<-done
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bgStats
}

func dedupe(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	out := paths[:0:0]
	for _, p := range paths {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
