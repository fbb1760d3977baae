package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/couchcryptid/weather-geocoder/internal/domain"
	"github.com/couchcryptid/weather-geocoder/internal/observability"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Error codes returned in ErrorResponse.Code.
const (
	CodeValidation    = "VALIDATION_ERROR"
	CodeNoResults     = "NO_RESULTS"
	CodeBadRequest    = "BAD_REQUEST"
	CodeProviderError = "PROVIDER_ERROR"
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

type geocodeQuery struct {
	Address string `validate:"required,max=512"`
	Country string `validate:"omitempty,len=2,alpha"`
}

func (s *Server) handleGeocode(w http.ResponseWriter, r *http.Request) {
	q := geocodeQuery{
		Address: r.URL.Query().Get("address"),
		Country: r.URL.Query().Get("country"),
	}
	if err := s.validate.Struct(q); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Code: CodeBadRequest, Message: validationMessage(err)})
		return
	}

	start := time.Now()
	result, err := s.resolver.Resolve(r.Context(), q.Address, q.Country)
	s.metrics.ObserveResolution("http", observability.ResolutionOutcome(err), time.Since(start).Seconds())
	if err != nil {
		s.writeResolveError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	address := r.URL.Query().Get("address")
	if address == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Code: CodeBadRequest, Message: "address is required"})
		return
	}
	writeJSON(w, http.StatusOK, s.parser.Parse(address))
}

func (s *Server) writeResolveError(w http.ResponseWriter, r *http.Request, err error) {
	switch domain.ErrorKindOf(err) {
	case domain.KindValidation:
		resp := ErrorResponse{Code: CodeValidation, Message: err.Error()}
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			resp.Suggestion = verr.Suggestion
		}
		writeJSON(w, http.StatusUnprocessableEntity, resp)
	case domain.KindNoResults:
		writeJSON(w, http.StatusNotFound, ErrorResponse{Code: CodeNoResults, Message: err.Error()})
	default:
		s.logger.Error("geocode failed",
			zap.String("request_id", RequestIDFrom(r.Context())),
			zap.Error(err),
		)
		writeJSON(w, http.StatusBadGateway, ErrorResponse{Code: CodeProviderError, Message: "geocoding provider unavailable"})
	}
}

// validationMessage reports the first failing query parameter.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	switch fe.Field() {
	case "Address":
		if fe.Tag() == "required" {
			return "address is required"
		}
		return "address is too long"
	case "Country":
		return "country must be a two-letter ISO code"
	default:
		return fe.Error()
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
