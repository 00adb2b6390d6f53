package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"
	"go.trai.ch/iceberg/internal/core/domain"
	"go.trai.ch/iceberg/internal/core/ports"
	"go.trai.ch/zerr"
)

// Dispatcher is the server side of the protocol as seen by the HTTP binding.
type Dispatcher interface {
	Dispatch(ctx context.Context, req domain.Request, prevHash string) (*domain.Response, error)
	Fail(err error) domain.Failure
}

// Server serves procedure calls over HTTP.
type Server struct {
	router     *mux.Router
	dispatcher Dispatcher
	resolver   ports.IdentityResolver
	logger     ports.Logger
}

// NewServer creates a handler serving dispatcher under prefix.
func NewServer(dispatcher Dispatcher, resolver ports.IdentityResolver, logger ports.Logger, prefix string) *Server {
	s := &Server{
		router:     mux.NewRouter(),
		dispatcher: dispatcher,
		resolver:   resolver,
		logger:     logger,
	}

	path := strings.TrimSuffix(prefix, "/") + "/{procedure}"

	s.router.Use(s.accessLog)
	s.router.Methods(http.MethodGet).Path(path).HandlerFunc(s.handleQuery)
	s.router.Methods(http.MethodPost).Path(path).HandlerFunc(s.handleMutation)
	s.router.Path(path).HandlerFunc(s.handleMethodNotAllowed)
	s.router.NotFoundHandler = s.accessLog(http.HandlerFunc(s.handleNotFound))

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		s.logger.Info("handled",
			"method", r.Method,
			"url", r.URL.String(),
			"duration", m.Duration,
			"status", m.Code,
			"bytes", m.Written,
		)
	})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	s.serve(w, r, domain.KindQuery, []byte(r.URL.Query().Get("input")))
}

func (s *Server) handleMutation(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		s.fail(w, zerr.Wrap(domain.ErrMalformedRequest, "read request body"))
		return
	}

	var body mutationBody
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &body); err != nil {
			s.fail(w, zerr.Wrap(domain.ErrMalformedRequest, "request body is not a JSON object"))
			return
		}
	}

	s.serve(w, r, domain.KindMutation, body.Input)
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Allow", http.MethodGet+", "+http.MethodPost)
	s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func (s *Server) handleNotFound(w http.ResponseWriter, _ *http.Request) {
	s.writeError(w, http.StatusNotFound, "not found")
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request, kind domain.Kind, input []byte) {
	ctx := r.Context()

	owner, err := s.resolver.Resolve(ctx, r.Header.Get("Authorization"))
	if err != nil {
		s.fail(w, err)
		return
	}
	ctx = domain.WithOwner(ctx, owner)

	req, err := domain.NewRequest(kind, mux.Vars(r)["procedure"], input)
	if err != nil {
		s.fail(w, err)
		return
	}

	resp, err := s.dispatcher.Dispatch(ctx, req, r.Header.Get(HeaderHash))
	if err != nil {
		s.fail(w, err)
		return
	}

	deps, err := json.Marshal(resp.Dependencies)
	if err != nil {
		s.fail(w, zerr.Wrap(err, "encode dependencies"))
		return
	}

	h := w.Header()
	h.Set("Content-Type", resp.ContentType())
	h.Set(HeaderDependencies, string(deps))
	h.Set(HeaderHash, resp.Hash)
	h.Set(HeaderIsDiff, strconv.FormatBool(resp.IsDiff))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(resp.Body); err != nil {
		s.logger.Warn("failed to write response", "procedure", req.Procedure, "error", err)
	}
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	f := s.dispatcher.Fail(err)
	s.writeError(w, f.StatusCode, f.Message)
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", domain.ContentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(errorBody{Error: message}); err != nil {
		s.logger.Warn("failed to write error response", "status", status, "error", err)
	}
}
