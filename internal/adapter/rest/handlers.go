package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/simaogato/assetbalance-backend/internal/domain"
)

// uploadCompleteMessage is shown by the UI after a successful upload
const uploadCompleteMessage = "ファイルアップロード完了"

// unresolvedInstrumentPrefix precedes the offending name when an upload is rejected
const unresolvedInstrumentPrefix = "資産が見つかりません: "

var (
	errNoFilePart        = errors.New("multipart body contains no file part")
	errMultipleFileParts = errors.New("multipart body contains more than one file part")
)

type uploadResponse struct {
	Message  string `json:"message"`
	BatchID  string `json:"batch_id"`
	Encoding string `json:"encoding"`
	Inserted int    `json:"inserted"`
	Skipped  int    `json:"skipped"`
}

func (s *Server) handleViewAssets(w http.ResponseWriter, r *http.Request) {
	views, err := s.viewer.ViewAssets(r.Context())
	if err != nil {
		s.writeMappedError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, views)
}

// handleUpload ingests the single file part of a multipart body.
// The whole body is read before ingesting, so a request with a second file part
// is rejected without touching the ledger.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if s.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	}

	mr, err := r.MultipartReader()
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid multipart upload: "+err.Error())
		return
	}

	var export []byte
	found := false
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			s.writeMappedError(w, &domain.DecodeError{Err: err})
			return
		}

		if part.FileName() == "" {
			part.Close()
			continue
		}
		if found {
			part.Close()
			s.writeError(w, http.StatusBadRequest, errMultipleFileParts.Error())
			return
		}

		export, err = io.ReadAll(part)
		part.Close()
		if err != nil {
			s.writeMappedError(w, &domain.DecodeError{Err: err})
			return
		}
		found = true
	}

	if !found {
		s.writeError(w, http.StatusBadRequest, errNoFilePart.Error())
		return
	}

	result, err := s.ingester.Ingest(r.Context(), bytes.NewReader(export))
	if err != nil {
		s.writeMappedError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, uploadResponse{
		Message:  uploadCompleteMessage,
		BatchID:  result.BatchID.String(),
		Encoding: result.Encoding,
		Inserted: result.Inserted,
		Skipped:  result.Skipped,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := s.db.PingContext(ctx); err != nil {
			s.log.Warn().Err(err).Msg("Health check failed")
			s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// mapError maps domain errors to HTTP status codes and client messages
func mapError(err error) (int, string) {
	var unresolved *domain.UnresolvedInstrumentError
	var decodeErr *domain.DecodeError
	var tooLarge *http.MaxBytesError

	switch {
	case errors.As(err, &unresolved):
		return http.StatusBadRequest, unresolvedInstrumentPrefix + unresolved.Name
	case errors.As(err, &tooLarge):
		return http.StatusBadRequest, "upload exceeds size limit"
	case errors.As(err, &decodeErr):
		return http.StatusBadRequest, decodeErr.Error()
	case errors.Is(err, domain.ErrEmptyLedger):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func (s *Server) writeMappedError(w http.ResponseWriter, err error) {
	status, message := mapError(err)
	if status >= http.StatusInternalServerError {
		s.log.Error().Err(err).Msg("Request failed")
	} else {
		s.log.Warn().Err(err).Msg("Request rejected")
	}
	s.writeError(w, status, message)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
