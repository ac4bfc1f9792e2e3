package httpwebhook

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jose-valero/soundboard-bot/internal/adapters/discord"
	log "github.com/sirupsen/logrus"
)

const maxBody = 1 << 20

// Interactions es el router de Discord visto desde HTTP.
type Interactions interface {
	Handle(ctx context.Context, signature, timestamp string, body []byte) (discord.Reply, error)
}

// Server expone el endpoint de interacciones de Discord (POST /interactions).
type Server struct {
	router Interactions
	mux    *mux.Router
}

func New(router Interactions) *Server {
	s := &Server{router: router, mux: mux.NewRouter()}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.Use(requestID)
	s.mux.HandleFunc("/interactions", s.handleInteraction).Methods(http.MethodPost)
	s.mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)
}

func (s *Server) Handler() http.Handler { return s.mux }

func (s *Server) handleInteraction(w http.ResponseWriter, r *http.Request) {
	lg := log.WithField("request_id", w.Header().Get("X-Request-Id"))

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
	_ = r.Body.Close()
	if err != nil {
		lg.WithError(err).Warn("read body")
		http.Error(w, "request too large", http.StatusRequestEntityTooLarge)
		return
	}

	rep, err := s.router.Handle(r.Context(), r.Header.Get(discord.HeaderSignature), r.Header.Get(discord.HeaderTimestamp), body)
	switch {
	case rep.Status == http.StatusUnauthorized:
		lg.Debug("invalid request signature")
	case err != nil && rep.Status >= http.StatusInternalServerError:
		lg.WithError(err).Error("interaction failed")
	case err != nil:
		lg.WithError(err).Warn("bad interaction")
	}

	if len(rep.Body) > 0 {
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(rep.Status)
	_, _ = w.Write(rep.Body)
}

// requestID reusa el X-Request-Id entrante o genera uno.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r)
	})
}

// Start escucha hasta que ctx se cancela y después apaga con gracia.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		log.Infof("🌐 HTTP listening on %s", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shut, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shut)
	}
}
