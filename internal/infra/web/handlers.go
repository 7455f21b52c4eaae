package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ai-research-backend/internal/domain"
	"ai-research-backend/internal/domain/model"
)

type researchRequest struct {
	Topic string `json:"topic"`
}

type statusResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
	Topic  string `json:"topic"`
}

type errorResponse struct {
	Error string `json:"error"`
	JobID string `json:"job_id,omitempty"`
}

func (s *Server) handleRoot() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"message": "AI Research Backend API",
			"version": s.version,
		})
	}
}

func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func (s *Server) handleSubmitStatic() http.HandlerFunc {
	return s.submitHandler(model.PipelineStatic)
}

func (s *Server) handleSubmitDynamic() http.HandlerFunc {
	return s.submitHandler(model.PipelineDynamic)
}

func (s *Server) submitHandler(variant model.PipelineVariant) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req researchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
			return
		}

		id, err := s.researchUC.Submit(r.Context(), req.Topic, variant)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidArgument) {
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Topic is required"})
				return
			}
			s.log.Error().Err(err).Msg("job submission failed")
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to submit job"})
			return
		}

		writeJSON(w, http.StatusOK, statusResponse{
			JobID:  id,
			Status: string(model.JobStatusPending),
			Topic:  req.Topic,
		})
	}
}

func (s *Server) handleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "jobID")

		info, err := s.researchUC.Status(r.Context(), id)
		if err != nil {
			if errors.Is(err, domain.ErrJobNotFound) {
				writeJSON(w, http.StatusNotFound, errorResponse{Error: "Job not found", JobID: id})
				return
			}
			s.log.Error().Err(err).Str("job_id", id).Msg("status lookup failed")
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to read job status", JobID: id})
			return
		}

		writeJSON(w, http.StatusOK, statusResponse{
			JobID:  info.JobID,
			Status: string(info.Status),
			Topic:  info.Topic,
		})
	}
}

func (s *Server) handleStaticResult() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "jobID")

		res, err := s.researchUC.StaticResult(r.Context(), id)
		if err != nil {
			var failureDetail string
			if res != nil {
				failureDetail = res.Error
			}
			s.writeResultError(w, id, err, failureDetail)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func (s *Server) handleDynamicResult() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "jobID")

		res, err := s.researchUC.DynamicResult(r.Context(), id)
		if err != nil {
			var failureDetail string
			if res != nil {
				failureDetail = res.Error
			}
			s.writeResultError(w, id, err, failureDetail)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// writeResultError maps result lookup errors onto the API contract. A failed
// job reports the persisted failure description with a 500.
func (s *Server) writeResultError(w http.ResponseWriter, id string, err error, failureDetail string) {
	switch {
	case errors.Is(err, domain.ErrJobNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Job not found", JobID: id})
	case errors.Is(err, domain.ErrResultNotReady):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), JobID: id})
	case errors.Is(err, domain.ErrResultNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Result not found", JobID: id})
	case errors.Is(err, domain.ErrJobFailed):
		if failureDetail == "" {
			failureDetail = "Unknown error occurred"
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: failureDetail, JobID: id})
	default:
		s.log.Error().Err(err).Str("job_id", id).Msg("result lookup failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to read result", JobID: id})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
