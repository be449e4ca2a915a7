package member

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/splitledger/pkg/middleware"
	"github.com/fkhayef/splitledger/pkg/request"
	"github.com/fkhayef/splitledger/pkg/response"
)

// Handler handles HTTP requests for member operations
type Handler struct {
	service *Service
}

// NewHandler creates a new member handler with service dependency injected
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for member endpoints. Registration is public
// and runs behind registerLimit; everything else runs behind authn.
func (h *Handler) Routes(authn, registerLimit func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.With(registerLimit).Post("/", h.Create)

	r.Group(func(r chi.Router) {
		r.Use(authn)
		r.Get("/me", h.Me)
		r.Get("/search", h.Search)
		r.Get("/{id}", h.GetByID)
	})

	return r
}

// Create handles POST /members
// @Summary      Create a member
// @Description  Register a member profile with a name and a unique email
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        request body CreateMemberRequest true "Member creation request"
// @Success      201 {object} response.APIResponse{data=MemberResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /members [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateMemberRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.FromError(w, r, err)
		return
	}

	m, err := h.service.Create(r.Context(), &req)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, m.ToResponse())
}

// Me handles GET /members/me
// @Summary      Current member
// @Tags         members
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.APIResponse{data=MemberResponse}
// @Failure      401 {object} response.APIResponse
// @Router       /members/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	actorID, err := middleware.RequireActor(r.Context())
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	m, err := h.service.GetByID(r.Context(), actorID)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, m.ToResponse())
}

// Search handles GET /members/search?q=
// @Summary      Search members
// @Description  Find up to 10 members by name or email, excluding the caller
// @Tags         members
// @Produce      json
// @Security     BearerAuth
// @Param        q query string true "Search text"
// @Success      200 {object} response.APIResponse{data=[]MemberResponse}
// @Router       /members/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	actorID, err := middleware.RequireActor(r.Context())
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	members, err := h.service.Search(r.Context(), actorID, r.URL.Query().Get("q"))
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	out := make([]*MemberResponse, len(members))
	for i, m := range members {
		out[i] = m.ToResponse()
	}
	response.JSON(w, http.StatusOK, out)
}

// GetByID handles GET /members/{id}
// @Summary      Get member by ID
// @Tags         members
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Member ID"
// @Success      200 {object} response.APIResponse{data=MemberResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /members/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	m, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, m.ToResponse())
}
