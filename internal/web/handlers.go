package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ethereum/go-ethereum/common"

	"github.com/branched-services/go-storagedapp"
)

// stateResponse is the JSON view of a workflow snapshot.
type stateResponse struct {
	State         storagedapp.ConnState      `json:"state"`
	Connected     bool                       `json:"connected"`
	Account       *common.Address            `json:"account,omitempty"`
	Contract      common.Address             `json:"contract"`
	Error         string                     `json:"error,omitempty"`
	Input         string                     `json:"input"`
	Value         string                     `json:"value"`
	Reading       bool                       `json:"reading"`
	Writing       bool                       `json:"writing"`
	Notifications []storagedapp.Notification `json:"notifications"`
}

type setRequest struct {
	Value string `json:"value"`
}

type setResponse struct {
	Tx    *storagedapp.TxResult `json:"tx,omitempty"`
	Value string                `json:"value"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// errorStatus maps a workflow error to an HTTP status.
func errorStatus(err error) int {
	var inputErr *storagedapp.InputError
	var opErr *storagedapp.OperationError
	switch {
	case errors.As(err, &inputErr):
		return http.StatusBadRequest
	case errors.Is(err, storagedapp.ErrNotConnected),
		errors.Is(err, storagedapp.ErrWriteSkipped):
		return http.StatusConflict
	case errors.Is(err, storagedapp.ErrProviderMissing),
		errors.Is(err, storagedapp.ErrNoAccounts):
		return http.StatusServiceUnavailable
	case errors.Is(err, storagedapp.ErrUserRejected):
		return http.StatusForbidden
	case errors.As(err, &opErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleError(w http.ResponseWriter, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		s.log.Error("Wallet operation failed", "err", err)
	}
	respondError(w, status, err.Error())
}

// current returns the workflow or writes 503 when none exists yet.
func (s *Server) current(w http.ResponseWriter) (*storagedapp.Workflow, bool) {
	wf := s.Workflow()
	if wf == nil {
		respondError(w, http.StatusServiceUnavailable, "wallet not initialized")
		return nil, false
	}
	return wf, true
}

func (s *Server) state(wf *storagedapp.Workflow) stateResponse {
	snap := wf.Snapshot()
	resp := stateResponse{
		State:         snap.State,
		Connected:     snap.Connected(),
		Contract:      wf.ContractAddress(),
		Input:         snap.Input,
		Value:         snap.LastValue,
		Reading:       snap.Reading,
		Writing:       snap.Writing,
		Notifications: s.notes.Drain(),
	}
	if snap.Connected() {
		account := snap.Account
		resp.Account = &account
	}
	if snap.Err != nil {
		resp.Error = snap.Err.Error()
	}
	if resp.Notifications == nil {
		resp.Notifications = []storagedapp.Notification{}
	}
	return resp
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	wf, ok := s.current(w)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, s.state(wf))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	wf, ok := s.current(w)
	if !ok {
		return
	}
	value, err := wf.Get(r.Context())
	if err != nil {
		s.handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"value": value})
}

func (s *Server) handleSet(w http.ResponseWriter, r *http.Request) {
	wf, ok := s.current(w)
	if !ok {
		return
	}
	var req setRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	wf.SetInput(req.Value)
	tx, err := wf.Set(r.Context())
	if err != nil {
		s.handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, setResponse{Tx: tx, Value: wf.Snapshot().LastValue})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	err := s.Connect(r.Context())
	wf := s.Workflow()
	status := http.StatusOK
	if err != nil {
		status = errorStatus(err)
	}
	respondJSON(w, status, s.state(wf))
}

func (s *Server) handleInstall(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, s.cfg.InstallURL, http.StatusFound)
}

// pageData is rendered by the index template.
type pageData struct {
	stateResponse
	InstallURL      string
	ProviderMissing bool
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	wf, ok := s.current(w)
	if !ok {
		return
	}
	data := pageData{
		stateResponse: s.state(wf),
		InstallURL:    s.cfg.InstallURL,
	}
	data.ProviderMissing = data.State == storagedapp.StateProviderMissing

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		s.log.Error("Failed to render page", "err", err)
	}
}

// The form handlers report through notifications and return to the page.

func (s *Server) handleGetForm(w http.ResponseWriter, r *http.Request) {
	if wf := s.Workflow(); wf != nil {
		_, _ = wf.Get(r.Context())
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleSetForm(w http.ResponseWriter, r *http.Request) {
	if wf := s.Workflow(); wf != nil {
		wf.SetInput(r.PostFormValue("value"))
		_, _ = wf.Set(r.Context())
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleReloadForm(w http.ResponseWriter, r *http.Request) {
	_ = s.Connect(r.Context())
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
