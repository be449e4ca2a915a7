package settlement

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/splitledger/pkg/middleware"
	"github.com/fkhayef/splitledger/pkg/request"
	"github.com/fkhayef/splitledger/pkg/response"
)

// Handler handles HTTP requests for balances and settlements
type Handler struct {
	service *Service
}

// NewHandler creates a new settlement handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for balance endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/group/{groupId}", func(r chi.Router) {
		r.Get("/", h.GetBalances)
		r.Get("/simplify", h.Simplify)
		r.Get("/settlements", h.List)
		r.Post("/settlements", h.Record)
	})

	return r
}

// GetBalances handles GET /balances/group/{groupId}
// @Summary      Group balances
// @Description  Net balance per member from expenses, plus settlement history
// @Tags         balances
// @Produce      json
// @Security     BearerAuth
// @Param        groupId path string true "Group ID"
// @Success      200 {object} response.APIResponse{data=BalancesResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /balances/group/{groupId} [get]
func (h *Handler) GetBalances(w http.ResponseWriter, r *http.Request) {
	actorID, err := middleware.RequireActor(r.Context())
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	sheet, err := h.service.GroupBalances(r.Context(), chi.URLParam(r, "groupId"), actorID)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, sheet)
}

// Simplify handles GET /balances/group/{groupId}/simplify
// @Summary      Suggested payments
// @Description  The fewest greedy transfers that settle every balance
// @Tags         balances
// @Produce      json
// @Security     BearerAuth
// @Param        groupId path string true "Group ID"
// @Success      200 {object} response.APIResponse{data=SimplifyResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /balances/group/{groupId}/simplify [get]
func (h *Handler) Simplify(w http.ResponseWriter, r *http.Request) {
	actorID, err := middleware.RequireActor(r.Context())
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	result, err := h.service.Simplify(r.Context(), chi.URLParam(r, "groupId"), actorID)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, result)
}

// List handles GET /balances/group/{groupId}/settlements
// @Summary      Settlement history
// @Tags         balances
// @Produce      json
// @Security     BearerAuth
// @Param        groupId path string true "Group ID"
// @Success      200 {object} response.APIResponse{data=[]SettlementResponse}
// @Failure      403 {object} response.APIResponse
// @Router       /balances/group/{groupId}/settlements [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actorID, err := middleware.RequireActor(r.Context())
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	settlements, err := h.service.List(r.Context(), chi.URLParam(r, "groupId"), actorID)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, toResponses(settlements))
}

// Record handles POST /balances/group/{groupId}/settlements
// @Summary      Record a payment
// @Description  Record that one member paid another, in the group's base currency
// @Tags         balances
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        groupId path string true "Group ID"
// @Param        request body RecordSettlementRequest true "Payment"
// @Success      201 {object} response.APIResponse{data=SettlementResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /balances/group/{groupId}/settlements [post]
func (h *Handler) Record(w http.ResponseWriter, r *http.Request) {
	actorID, err := middleware.RequireActor(r.Context())
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	var req RecordSettlementRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.FromError(w, r, err)
		return
	}

	settlement, err := h.service.Record(r.Context(), chi.URLParam(r, "groupId"), actorID, &req)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, settlement.ToResponse())
}
