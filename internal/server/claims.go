package server

import (
	"net/http"
	"strconv"
	"strings"

	auditdomain "github.com/academiace/rolesync/internal/claimaudit/domain"
	membershipdomain "github.com/academiace/rolesync/internal/membership/domain"
	reconciledomain "github.com/academiace/rolesync/internal/reconcile/domain"
	"github.com/gin-gonic/gin"
)

type submitClaimRequest struct {
	OrderID     string `json:"order_id" binding:"required"`
	MemberID    string `json:"member_id" binding:"required"`
	DisplayName string `json:"display_name"`
}

type claimResponse struct {
	Outcome       string   `json:"outcome"`
	OrderID       string   `json:"order_id"`
	MemberID      string   `json:"member_id"`
	EntitledTiers []string `json:"entitled_tiers"`
	GrantedTiers  []string `json:"granted_tiers"`
	Reason        string   `json:"reason,omitempty"`
}

// SubmitClaim runs a claim on behalf of a member. Support uses this to retry
// claims that failed in chat; the engine is idempotent so replays are safe.
func (s *Server) SubmitClaim(c *gin.Context) {
	var req submitClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	if strings.TrimSpace(req.MemberID) == "" {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	member := membershipdomain.Member{
		ID:          strings.TrimSpace(req.MemberID),
		DisplayName: req.DisplayName,
	}
	outcome := s.recon.HandleClaim(c.Request.Context(), req.OrderID, member, "http")

	c.JSON(claimStatus(outcome), claimResponse{
		Outcome:       string(outcome.Kind),
		OrderID:       outcome.OrderID,
		MemberID:      outcome.MemberID,
		EntitledTiers: emptyIfNil(outcome.EntitledTiers),
		GrantedTiers:  emptyIfNil(outcome.GrantedTiers),
		Reason:        outcome.Reason,
	})
}

func claimStatus(outcome reconciledomain.Outcome) int {
	switch outcome.Kind {
	case reconciledomain.KindGranted, reconciledomain.KindNoEntitlements:
		return http.StatusOK
	case reconciledomain.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

type memberClaimsResponse struct {
	MemberID string                    `json:"member_id"`
	Claims   []auditdomain.ClaimRecord `json:"claims"`
}

// ListMemberClaims returns a member's recent claim history from the audit
// trail, newest first. This is the support view behind "my order didn't give
// me my roles" tickets.
func (s *Server) ListMemberClaims(c *gin.Context) {
	memberID := strings.TrimSpace(c.Param("member_id"))
	if memberID == "" {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	if s.recorder == nil {
		AbortWithError(c, ErrUpstream)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	records, err := s.recorder.RecentByMember(c.Request.Context(), memberID, limit)
	if err != nil {
		AbortWithError(c, ErrUpstream)
		return
	}
	if records == nil {
		records = []auditdomain.ClaimRecord{}
	}

	c.JSON(http.StatusOK, memberClaimsResponse{MemberID: memberID, Claims: records})
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
