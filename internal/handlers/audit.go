package handlers

import (
	"context"
	"net/http"

	"github.com/crucial707/notehub/internal/models"
)

// AuditLister lists recorded note mutations.
type AuditLister interface {
	Audit(ctx context.Context, page, perPage int) ([]models.AuditEntry, error)
}

// AuditHandler serves the audit log (token required).
type AuditHandler struct {
	Audit AuditLister
}

// ListAudit handles GET /audit?_page=&_per_page=. Newest entries first.
func (h *AuditHandler) ListAudit(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Audit.Audit(r.Context(), queryInt(r, "_page"), queryInt(r, "_per_page"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
