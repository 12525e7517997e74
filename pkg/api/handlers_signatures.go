package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/voltaic-labs/sigraph/pkg/signature"
	"github.com/voltaic-labs/sigraph/pkg/validation"
)

func (s *Server) handleSignatures(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		sigs := s.library.List()
		s.respondJSON(w, http.StatusOK, SignatureListResponse{
			Signatures: sigs,
			Count:      len(sigs),
		})

	case http.MethodPost:
		s.handleStoreSignature(w, r)

	default:
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// handleStoreSignature stores a caller-supplied vector, typically one
// measured on a machine in a known fault condition rather than swept.
func (s *Server) handleStoreSignature(w http.ResponseWriter, r *http.Request) {
	var req StoreSignatureRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if err := validation.Struct(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	id := s.library.Add(signature.Signature{
		Label:     req.Label,
		Node:      req.Node,
		Port:      req.Port,
		ParamNode: req.ParamNode,
		Param:     req.Param,
		Min:       req.Min,
		Max:       req.Max,
		Samples:   len(req.Values),
		Values:    req.Values,
	})
	stored, err := s.library.Get(id)
	if err != nil {
		s.respondEngineError(w, "store signature", err)
		return
	}
	s.metrics.SetLibrarySize(s.library.Len())

	s.respondJSON(w, http.StatusCreated, stored)
}

func (s *Server) handleSignature(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/v1/signatures/"), "/")
	if id == "" || strings.Contains(id, "/") {
		s.respondError(w, http.StatusBadRequest, "Invalid signature id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		sig, err := s.library.Get(id)
		if err != nil {
			s.respondSignatureError(w, err)
			return
		}
		s.respondJSON(w, http.StatusOK, sig)

	case http.MethodDelete:
		if err := s.library.Remove(id); err != nil {
			s.respondSignatureError(w, err)
			return
		}
		s.metrics.SetLibrarySize(s.library.Len())
		w.WriteHeader(http.StatusNoContent)

	default:
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) respondSignatureError(w http.ResponseWriter, err error) {
	if errors.Is(err, signature.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, err.Error())
		return
	}
	s.respondEngineError(w, "signature lookup", err)
}
