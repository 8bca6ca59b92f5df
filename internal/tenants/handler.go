package tenants

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/arosadoclud/Sotware-iglesias-sub002/internal/access"
	"github.com/arosadoclud/Sotware-iglesias-sub002/internal/platform/httpx"
)

// Handler exposes tenant administration over HTTP. All routes operate on
// the guard-resolved tenant only; there is no cross-tenant admin surface.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

type tenantResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Plan     string `json:"plan"`
	IsActive bool   `json:"is_active"`
}

// Show returns the caller's own tenant.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := access.TenantFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	t, err := h.service.Get(r.Context(), tenantID)
	if err != nil {
		h.logger.Error("get tenant", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, tenantResponse{
		ID:       t.ID,
		Name:     t.Name,
		Plan:     string(t.Plan),
		IsActive: t.IsActive,
	})
}

// Deactivate disables the caller's tenant. Reactivation is an operator
// action: a disabled tenant's requests never pass the guard, so no HTTP
// route could reach it.
func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := access.TenantFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	if err := h.service.SetActive(r.Context(), tenantID, false); err != nil {
		h.logger.Error("deactivate tenant", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type changePlanRequest struct {
	Plan string `json:"plan" validate:"required,oneof=FREE BASIC PREMIUM"`
}

// ChangePlan moves the caller's tenant to another tier.
func (h *Handler) ChangePlan(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := access.TenantFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	var req changePlanRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	if err := h.service.SetPlan(r.Context(), tenantID, access.Plan(req.Plan)); err != nil {
		h.logger.Error("change plan", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
