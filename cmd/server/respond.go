package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Simplici0/printcost/internal/cogs"
	"github.com/Simplici0/printcost/internal/printjobs"
	"github.com/Simplici0/printcost/internal/store"
)

// problem is an RFC7807 problem details body.
type problem struct {
	Title  string         `json:"title"`
	Status int            `json:"status"`
	Detail string         `json:"detail,omitempty"`
	Errors []fieldProblem `json:"errors,omitempty"`
}

type fieldProblem struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var errBadRequest = errors.New("bad request")

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeProblem(w http.ResponseWriter, p problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

// writeError maps domain errors to problem responses.
func (s *server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *cogs.ValidationError
	var fieldErrs validator.ValidationErrors
	switch {
	case errors.As(err, &verr):
		p := problem{Title: "Validation Failed", Status: http.StatusUnprocessableEntity}
		for _, fe := range verr.Problems {
			p.Errors = append(p.Errors, fieldProblem{Field: fe.Field, Message: fe.Message})
		}
		writeProblem(w, p)
	case errors.As(err, &fieldErrs):
		p := problem{Title: "Validation Failed", Status: http.StatusUnprocessableEntity}
		for _, fe := range fieldErrs {
			p.Errors = append(p.Errors, fieldProblem{Field: fieldPath(fe), Message: "failed " + fe.Tag()})
		}
		writeProblem(w, p)
	case errors.Is(err, errBadRequest):
		writeProblem(w, problem{Title: "Bad Request", Status: http.StatusBadRequest, Detail: err.Error()})
	case errors.Is(err, store.ErrNotFound):
		writeProblem(w, problem{Title: "Not Found", Status: http.StatusNotFound, Detail: err.Error()})
	case errors.Is(err, printjobs.ErrInvalidTransition), errors.Is(err, store.ErrStatusConflict):
		writeProblem(w, problem{Title: "Conflict", Status: http.StatusConflict, Detail: err.Error()})
	default:
		s.log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeProblem(w, problem{Title: "Internal Error", Status: http.StatusInternalServerError})
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// fieldPath drops the top-level struct name from the validator namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func (s *server) decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.Join(errBadRequest, err)
	}
	return s.validate.Struct(dst)
}

func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.Join(errBadRequest, errors.New("invalid id"))
	}
	return id, nil
}

func listOptions(r *http.Request) store.ListOptions {
	return store.ListOptions{
		SortBy:  r.URL.Query().Get("sort"),
		SortDir: r.URL.Query().Get("dir"),
	}
}
