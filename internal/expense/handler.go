package expense

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/splitledger/pkg/middleware"
	"github.com/fkhayef/splitledger/pkg/request"
	"github.com/fkhayef/splitledger/pkg/response"
)

// Handler handles HTTP requests for expense operations
type Handler struct {
	service *Service
}

// NewHandler creates a new expense handler with service dependency injected
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for expense endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.ListMine)
	r.Post("/allocate", h.Allocate)
	r.Get("/group/{groupId}", h.ListByGroup)
	r.Get("/{id}", h.GetByID)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)

	return r
}

// Create handles POST /expenses
// @Summary      Create an expense
// @Description  Record an expense with its shares. The payer and every share owner must be group members.
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body ExpenseRequest true "Expense"
// @Success      201 {object} response.APIResponse{data=ExpenseResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Router       /expenses [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, err := middleware.RequireActor(r.Context())
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	var req ExpenseRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.FromError(w, r, err)
		return
	}

	e, err := h.service.Create(r.Context(), actorID, &req)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, e.ToResponse())
}

// Allocate handles POST /expenses/allocate
// @Summary      Preview shares
// @Description  Compute shares for a split mode that sum exactly to the base amount
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body AllocateRequest true "Allocation input"
// @Success      200 {object} response.APIResponse{data=[]split.Share}
// @Failure      400 {object} response.APIResponse
// @Router       /expenses/allocate [post]
func (h *Handler) Allocate(w http.ResponseWriter, r *http.Request) {
	var req AllocateRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.FromError(w, r, err)
		return
	}

	shares, err := h.service.Allocate(&req)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, shares)
}

// ListMine handles GET /expenses
// @Summary      My recent expenses
// @Description  Up to 50 expenses the caller paid for or has a share in, newest first
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.APIResponse{data=[]ExpenseResponse}
// @Router       /expenses [get]
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	actorID, err := middleware.RequireActor(r.Context())
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	expenses, err := h.service.ListMine(r.Context(), actorID)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, ToResponses(expenses))
}

// ListByGroup handles GET /expenses/group/{groupId}
// @Summary      List group expenses
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Param        groupId path string true "Group ID"
// @Param        page query int false "Page number" default(1)
// @Param        per_page query int false "Items per page" default(20)
// @Success      200 {object} response.APIResponse{data=[]ExpenseResponse}
// @Failure      403 {object} response.APIResponse
// @Router       /expenses/group/{groupId} [get]
func (h *Handler) ListByGroup(w http.ResponseWriter, r *http.Request) {
	actorID, err := middleware.RequireActor(r.Context())
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	page, perPage := request.Pagination(r)
	expenses, total, err := h.service.ListByGroupID(r.Context(), chi.URLParam(r, "groupId"), actorID, page, perPage)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSONWithMeta(w, http.StatusOK, ToResponses(expenses), response.NewMeta(page, perPage, total))
}

// GetByID handles GET /expenses/{id}
// @Summary      Get expense by ID
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Expense ID"
// @Success      200 {object} response.APIResponse{data=ExpenseResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /expenses/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	actorID, err := middleware.RequireActor(r.Context())
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	e, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"), actorID)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, e.ToResponse())
}

// Update handles PUT /expenses/{id}
// @Summary      Replace an expense
// @Description  Full replace: every field and all shares are overwritten. The group cannot change.
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Expense ID"
// @Param        request body ExpenseRequest true "Expense"
// @Success      200 {object} response.APIResponse{data=ExpenseResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /expenses/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actorID, err := middleware.RequireActor(r.Context())
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	var req ExpenseRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.FromError(w, r, err)
		return
	}

	e, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), actorID, &req)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, e.ToResponse())
}

// Delete handles DELETE /expenses/{id}
// @Summary      Delete an expense
// @Tags         expenses
// @Security     BearerAuth
// @Param        id path string true "Expense ID"
// @Success      204
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /expenses/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actorID, err := middleware.RequireActor(r.Context())
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id"), actorID); err != nil {
		response.FromError(w, r, err)
		return
	}

	response.NoContent(w)
}
