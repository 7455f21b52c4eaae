package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"ai-research-backend/internal/usecase"
)

// Server exposes the research API over HTTP: job submission, status polling,
// result retrieval and the static asset tree with extracted figures.
type Server struct {
	researchUC usecase.ResearchUseCase
	staticDir  string
	version    string
	log        *zerolog.Logger
}

func NewServer(researchUC usecase.ResearchUseCase, staticDir, version string, logger *zerolog.Logger) *Server {
	return &Server{
		researchUC: researchUC,
		staticDir:  staticDir,
		version:    version,
		log:        logger,
	}
}

// Routes builds the full router. Submission endpoints return immediately
// with a job id; clients poll the status endpoint and fetch the result once
// the job is terminal.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/", s.handleRoot())
	r.Get("/health", s.handleHealth())
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/research", func(r chi.Router) {
		r.Post("/", s.handleSubmitStatic())
		r.Post("/dynamic", s.handleSubmitDynamic())
		r.Get("/{jobID}", s.handleStatus())
		r.Get("/{jobID}/result", s.handleStaticResult())
		r.Get("/dynamic/{jobID}/result", s.handleDynamicResult())
	})

	// Extracted figures live under <staticDir>/extracted_images and are
	// served verbatim at the paths embedded in result records.
	fileServer := http.FileServer(http.Dir(s.staticDir))
	r.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Msg("http request")
	})
}
