package shophttp

import (
	"net/http"

	"github.com/shopdesk/shopdesk/internal/platform/httpx"
	"github.com/shopdesk/shopdesk/internal/shared"
	"github.com/shopdesk/shopdesk/internal/workspace"
)

// handleSession issues the CSRF token clients echo on mutating requests.
func (h *Handler) handleSession(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	token, err := h.csrf.EnsureToken(sess)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ws := h.registry.Get(sess.ID)
	resp := sessionResponse{CSRFToken: token}
	ws.Read(func(s *workspace.State) {
		resp.Revision = s.Revision
		resp.StockPolicy = s.Sales.Policy()
		resp.UniqueNames = s.Config.UniqueNames
	})
	httpx.JSON(w, http.StatusOK, resp)
}

// handleResetSession discards the workspace and ends the session.
func (h *Handler) handleResetSession(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		h.fail(w, r, shared.ErrCSRFTokenMissing)
		return
	}
	h.registry.Drop(sess.ID)
	if h.sessions != nil {
		h.sessions.Destroy(sess)
	}
	w.WriteHeader(http.StatusNoContent)
}
