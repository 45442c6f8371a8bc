package server

import (
	"encoding/json"
	"net/http"
	"time"

	dcerr "github.com/msto63/deepclock/foundation/core/error"
	"github.com/msto63/deepclock/foundation/utils/timex"
	"github.com/msto63/deepclock/internal/clock"
	"github.com/msto63/deepclock/pkg/core/version"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// IntervalResponse describes the interval being served
type IntervalResponse struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Source string    `json:"source"`
}

type apiHandler struct {
	server *Server
}

// snapshot handles GET /api/snapshot. An optional ?now= evaluates the
// interval at another instant.
func (h *apiHandler) snapshot(w http.ResponseWriter, r *http.Request) {
	iv, _, err := h.server.intervals.Resolve(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	var snap clock.Snapshot
	if raw := r.URL.Query().Get("now"); raw != "" {
		now, perr := timex.Parse(raw)
		if perr != nil {
			writeError(w, dcerr.Wrap(perr, "invalid now parameter").
				WithCode(dcerr.CodeInvalidFormat).
				WithDetail("now", raw))
			return
		}
		snap, err = h.server.clock.At(iv, now)
	} else {
		snap, err = h.server.clock.Snapshot(iv)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

// interval handles GET /api/interval
func (h *apiHandler) interval(w http.ResponseWriter, r *http.Request) {
	iv, source, err := h.server.intervals.Resolve(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, IntervalResponse{
		Start:  iv.Start.UTC(),
		End:    iv.End.UTC(),
		Source: source,
	})
}

// version handles GET /api/version
func (h *apiHandler) version(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, version.Get())
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := dcerr.GetCode(err)
	resp := ErrorResponse{
		Error: err.Error(),
		Code:  string(code),
	}
	if e, ok := err.(*dcerr.Error); ok && e.Operation() != "" {
		resp.Details = e.Operation()
	}
	writeJSON(w, code.HTTPStatus(), resp)
}
