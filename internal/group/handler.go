package group

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/splitledger/pkg/middleware"
	"github.com/fkhayef/splitledger/pkg/request"
	"github.com/fkhayef/splitledger/pkg/response"
)

// Activity is the ledger history shown on a group's detail page
type Activity struct {
	Expenses    interface{} `json:"expenses"`
	Settlements interface{} `json:"settlements"`
}

// ActivityLoader loads a group's expenses and settlements
type ActivityLoader interface {
	GroupActivity(ctx context.Context, groupID string) (*Activity, error)
}

// Handler handles HTTP requests for group operations
type Handler struct {
	service  *Service
	activity ActivityLoader
}

// NewHandler creates a new group handler
func NewHandler(service *Service, activity ActivityLoader) *Handler {
	return &Handler{service: service, activity: activity}
}

// Routes returns the router for group endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.GetByID)
	r.Post("/{id}/members", h.AddMember)

	return r
}

// Create handles POST /groups
// @Summary      Create a group
// @Description  Create a group; the caller becomes its admin
// @Tags         groups
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateGroupRequest true "Group creation request"
// @Success      201 {object} response.APIResponse{data=GroupResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /groups [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, err := middleware.RequireActor(r.Context())
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	var req CreateGroupRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.FromError(w, r, err)
		return
	}

	g, err := h.service.Create(r.Context(), actorID, &req)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	resp := g.ToResponse()
	members, err := h.service.Members(r.Context(), g.ID)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	resp.Members = membersToResponse(members)

	response.JSON(w, http.StatusCreated, resp)
}

// List handles GET /groups
// @Summary      List my groups
// @Tags         groups
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "Page number" default(1)
// @Param        per_page query int false "Items per page" default(20)
// @Success      200 {object} response.APIResponse{data=[]GroupResponse}
// @Router       /groups [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actorID, err := middleware.RequireActor(r.Context())
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	page, perPage := request.Pagination(r)
	groups, total, err := h.service.ListForMember(r.Context(), actorID, page, perPage)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSONWithMeta(w, http.StatusOK, groups, response.NewMeta(page, perPage, total))
}

// GetByID handles GET /groups/{id}
// @Summary      Group detail
// @Description  A group with its members, expenses and settlements
// @Tags         groups
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Group ID"
// @Success      200 {object} response.APIResponse{data=DetailResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /groups/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	actorID, err := middleware.RequireActor(r.Context())
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	groupID := chi.URLParam(r, "id")
	g, err := h.service.Detail(r.Context(), groupID, actorID)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	activity, err := h.activity.GroupActivity(r.Context(), groupID)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, &DetailResponse{GroupResponse: g, Activity: activity})
}

// AddMember handles POST /groups/{id}/members
// @Summary      Add a member
// @Description  Add an existing member to the group (admin only)
// @Tags         groups
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Group ID"
// @Param        request body AddMemberRequest true "Member to add"
// @Success      201 {object} response.APIResponse{data=MemberResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /groups/{id}/members [post]
func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
	actorID, err := middleware.RequireActor(r.Context())
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	var req AddMemberRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.FromError(w, r, err)
		return
	}

	m, err := h.service.AddMember(r.Context(), chi.URLParam(r, "id"), actorID, &req)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, m.ToResponse())
}
