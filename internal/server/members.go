package server

import (
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
)

type memberRolesResponse struct {
	MemberID string   `json:"member_id"`
	Roles    []string `json:"roles"`
}

// ListMemberRoles reports the role names a member currently holds.
func (s *Server) ListMemberRoles(c *gin.Context) {
	memberID := strings.TrimSpace(c.Param("member_id"))
	if memberID == "" {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	if s.store == nil {
		AbortWithError(c, ErrUpstream)
		return
	}

	ctx := c.Request.Context()

	roles, err := s.store.GroupRoles(ctx)
	if err != nil {
		AbortWithError(c, ErrUpstream)
		return
	}
	names := make(map[string]string, len(roles))
	for _, role := range roles {
		names[role.ID] = role.Name
	}

	held, err := s.store.MemberRoleIDs(ctx, memberID)
	if err != nil {
		AbortWithError(c, ErrUpstream)
		return
	}

	out := make([]string, 0, len(held))
	for _, roleID := range held {
		if name, ok := names[roleID]; ok {
			out = append(out, name)
		}
	}
	sort.Strings(out)

	c.JSON(http.StatusOK, memberRolesResponse{MemberID: memberID, Roles: out})
}
