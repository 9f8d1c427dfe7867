package animals

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/formkit/pkg/binder"
	"github.com/dmitrymomot/formkit/pkg/logger"
)

// IsAnimal handles POST /is_animal.
func (s *Service) IsAnimal(w http.ResponseWriter, r *http.Request) {
	req, err := binder.Multipart(r, s.upload)
	if err != nil {
		s.decodeError(w, r, err)
		return
	}

	res, err := s.Classify(r.Context(), req)
	if err != nil {
		s.log.ErrorContext(r.Context(), "classify failed", logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(res); err != nil {
		s.log.WarnContext(r.Context(), "write response", logger.Error(err))
	}
}

// IsAnimalForm handles POST /is_animal/form. The body may be URL-encoded
// or multipart.
func (s *Service) IsAnimalForm(w http.ResponseWriter, r *http.Request) {
	req, err := binder.Bind(r, s.form)
	if err != nil {
		s.decodeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = fmt.Fprintf(w, "out is %t", req.AnimalDesc.IsAnimal())
}

func (s *Service) decodeError(w http.ResponseWriter, r *http.Request, err error) {
	status := binder.StatusCode(err)
	level := slog.LevelInfo
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	s.log.LogAttrs(r.Context(), level, "decode request",
		logger.Field(binder.FieldName(err)),
		logger.Status(status),
		logger.Error(err),
	)
	http.Error(w, err.Error(), status)
}
