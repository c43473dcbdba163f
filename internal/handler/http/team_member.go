package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/teamops-backend-go/internal/domain/teammember"
	"github.com/cmlabs-hris/teamops-backend-go/internal/handler/http/response"
)

type TeamMemberHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type teamMemberHandlerImpl struct {
	teamMemberService teammember.TeamMemberService
}

func NewTeamMemberHandler(teamMemberService teammember.TeamMemberService) TeamMemberHandler {
	return &teamMemberHandlerImpl{teamMemberService: teamMemberService}
}

// Create implements TeamMemberHandler.
func (h *teamMemberHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req teammember.CreateTeamMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode team member request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.teamMemberService.CreateTeamMember(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Team member created", result)
}

// List implements TeamMemberHandler.
func (h *teamMemberHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.teamMemberService.ListTeamMembers(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, &response.Meta{TotalItems: len(result)})
}
