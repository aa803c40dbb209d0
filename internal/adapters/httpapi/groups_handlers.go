package httpapi

import (
	"net/http"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/ridgeline-travel/tripbook-api/internal/app/apperr"
	"github.com/ridgeline-travel/tripbook-api/internal/app/groups"
	"github.com/ridgeline-travel/tripbook-api/internal/app/search"
	"github.com/ridgeline-travel/tripbook-api/internal/domain"
)

// listGroups serves the group board. include=packages adds the referenced packages,
// loaded together with the groups.
func (s *Server) listGroups(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	gq, err := groupQuery(q)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	filtering := hasAny(q, "q", "packageId", "availability")

	if q.Get("include") == "packages" {
		board, err := s.Groups.Board(r.Context())
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		gs := board.Groups
		if filtering {
			if gs, err = search.Groups(gs, gq); err != nil {
				s.writeServiceError(w, r, err)
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"groups":   groupsFromDomain(gs),
			"packages": packagesFromDomain(board.Packages),
		})
		return
	}

	var gs []domain.Group
	if filtering {
		gs, err = s.Groups.Search(r.Context(), gq)
	} else {
		gs, err = s.Groups.GetAll(r.Context())
	}
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"groups": groupsFromDomain(gs)})
}

func (s *Server) getGroup(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, apperr.CodeGroupNotFound, "group")
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	g, err := s.Groups.GetByID(r.Context(), domain.GroupID(id))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"group": groupFromDomain(g)})
}

func (s *Server) createGroup(w http.ResponseWriter, r *http.Request) {
	var body createGroupRequest
	if err := decodeBody(r, &body, "leader.email"); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	g, err := s.Groups.Create(r.Context(), groups.CreateGroupInput{
		PackageID:     domain.PackageID(body.PackageID),
		DepartureDate: body.DepartureDate.Time,
		MaxMembers:    body.MaxMembers,
		Leader: domain.Leader{
			Name:  body.Leader.Name,
			Email: string(body.Leader.Email),
			Phone: body.Leader.Phone,
		},
		Description: body.Description,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"group": groupFromDomain(g)})
}

func (s *Server) updateGroup(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, apperr.CodeGroupNotFound, "group")
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	var body updateGroupRequest
	if err := decodeBody(r, &body, ""); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	in := groups.UpdateGroupInput{
		DepartureDate:  optionalMap(body.DepartureDate, func(d openapi_types.Date) time.Time { return d.Time }),
		MaxMembers:     optionalFrom(body.MaxMembers),
		CurrentMembers: optionalFrom(body.CurrentMembers),
		Description:    optionalFrom(body.Description),
		Status:         optionalMap(body.Status, func(v string) domain.GroupStatus { return domain.GroupStatus(v) }),
	}
	if body.Leader != nil {
		in.LeaderName = optionalFrom(body.Leader.Name)
		in.LeaderEmail = optionalFrom(body.Leader.Email)
		in.LeaderPhone = optionalFrom(body.Leader.Phone)
	}
	g, err := s.Groups.Update(r.Context(), domain.GroupID(id), in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"group": groupFromDomain(g)})
}

func (s *Server) deleteGroup(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, apperr.CodeGroupNotFound, "group")
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if err := s.Groups.Delete(r.Context(), domain.GroupID(id)); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
