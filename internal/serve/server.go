package serve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"dualpace/internal/app"
	"dualpace/internal/build"
	"dualpace/internal/domain/config"
	"dualpace/internal/index"
	"dualpace/internal/ingest"
	"dualpace/internal/logging"
	"dualpace/internal/render"
)

type Server struct {
	cfg config.Config
	log zerolog.Logger

	repo  *ingest.Repository
	idx   *index.Store
	pages *app.Pages

	mu       sync.RWMutex
	warnings []ingest.Warning

	sseMu     sync.Mutex
	sseConns  map[chan string]struct{}
	watcher   *fsnotify.Watcher
	watchOnce sync.Once
}

func New(cfg config.Config, log zerolog.Logger) (*Server, error) {
	tpl, err := render.NewTemplateRenderer(cfg.Build.ThemeDir)
	if err != nil {
		return nil, fmt.Errorf("serve: failed to create template renderer: %w", err)
	}
	st, err := index.Open(index.OpenOptions{Path: cfg.Build.IndexPath})
	if err != nil {
		return nil, fmt.Errorf("serve: failed to open index: %w", err)
	}

	s := &Server{
		cfg:  cfg,
		log:  logging.Component(log, "serve"),
		repo: build.NewRepository(cfg, log),
		idx:  st,
		pages: &app.Pages{
			Cfg:       cfg,
			Store:     st,
			MD:        render.NewMarkdownRenderer(),
			Tpl:       tpl,
			ThemeHash: tpl.ThemeHash(),
			DevReload: true,
		},
		sseConns: make(map[chan string]struct{}),
	}
	return s, nil
}

func (s *Server) Close() error {
	if s.watcher != nil {
		_ = s.watcher.Close()
	}
	if s.idx != nil {
		return s.idx.Close()
	}
	return nil
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if err := s.Reload(ctx); err != nil {
		return err
	}
	if err := s.startWatch(ctx); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.log.Info().Str("addr", addr).Msg("listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Reload re-reads the posts directory into the index and tells connected
// browsers to refresh.
func (s *Server) Reload(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n, warns, err := build.SyncIndex(s.repo, s.idx, s.cfg.SiteLocales())
	for _, w := range warns {
		s.log.Warn().Str("path", w.Path).Msg(w.Msg)
	}
	if err != nil {
		return fmt.Errorf("reload: %w", err)
	}

	s.mu.Lock()
	s.warnings = warns
	s.mu.Unlock()

	s.log.Info().Int("posts", n).Msg("index reloaded")
	s.broadcastSSE("reload")
	return nil
}

// Warnings returns the problems reported by the last successful reload.
func (s *Server) Warnings() []ingest.Warning {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ingest.Warning(nil), s.warnings...)
}

func (s *Server) startWatch(ctx context.Context) error {
	var err error
	s.watchOnce.Do(func() {
		w, e := fsnotify.NewWatcher()
		if e != nil {
			err = e
			return
		}
		s.watcher = w

		go s.watchLoop(ctx)

		roots := []string{s.cfg.Content.PostsDir}
		if s.cfg.Build.ThemeDir != "" {
			roots = append(roots, s.cfg.Build.ThemeDir)
		}
		for _, root := range roots {
			if _, statErr := os.Stat(root); os.IsNotExist(statErr) {
				s.log.Warn().Str("dir", root).Msg("not watching missing directory")
				continue
			}
			err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if info.IsDir() {
					return w.Add(path)
				}
				return nil
			})
			if err != nil {
				return
			}
		}
	})
	return err
}

func (s *Server) watchLoop(ctx context.Context) {
	s.log.Debug().Msg("watching for file changes")
	debounce := time.NewTimer(time.Hour)
	debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if ev.Has(fsnotify.Create) {
				if st, err := os.Stat(ev.Name); err == nil && st.IsDir() {
					_ = s.watcher.Add(ev.Name)
				}
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				debounce.Reset(200 * time.Millisecond)
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.log.Warn().Err(err).Msg("watcher error")
		case <-debounce.C:
			ctx2, cancel := context.WithTimeout(ctx, 10*time.Second)
			if err := s.Reload(ctx2); err != nil {
				s.log.Error().Err(err).Msg("reload failed, keeping previous index")
			}
			cancel()
		}
	}
}

func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := s.subscribe()
	defer s.unsubscribe(ch)
	fmt.Fprint(w, "event: hello\ndata: ok\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg := <-ch:
			fmt.Fprintf(w, "event: %s\ndata: %d\n\n", msg, time.Now().Unix())
			flusher.Flush()
		}
	}
}

func (s *Server) subscribe() chan string {
	ch := make(chan string, 8)
	s.sseMu.Lock()
	s.sseConns[ch] = struct{}{}
	s.sseMu.Unlock()
	return ch
}

func (s *Server) unsubscribe(ch chan string) {
	s.sseMu.Lock()
	delete(s.sseConns, ch)
	s.sseMu.Unlock()
}

// broadcastSSE drops the event for clients whose buffer is full.
func (s *Server) broadcastSSE(msg string) {
	s.sseMu.Lock()
	defer s.sseMu.Unlock()
	for ch := range s.sseConns {
		select {
		case ch <- msg:
		default:
		}
	}
}
