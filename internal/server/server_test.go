package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	auditdomain "github.com/academiace/rolesync/internal/claimaudit/domain"
	"github.com/academiace/rolesync/internal/config"
	membershipdomain "github.com/academiace/rolesync/internal/membership/domain"
	reconciledomain "github.com/academiace/rolesync/internal/reconcile/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type engineStub struct {
	outcome reconciledomain.Outcome

	gotOrderID string
	gotMember  membershipdomain.Member
	gotSource  string
}

func (e *engineStub) HandleClaim(_ context.Context, orderID string, member membershipdomain.Member, source string) reconciledomain.Outcome {
	e.gotOrderID = orderID
	e.gotMember = member
	e.gotSource = source
	return e.outcome
}

func (e *engineStub) HandleJoin(context.Context, membershipdomain.Member) error {
	return nil
}

type storeStub struct {
	roles    []membershipdomain.Role
	held     []string
	rolesErr error
}

func (s *storeStub) GroupRoles(context.Context) ([]membershipdomain.Role, error) {
	return s.roles, s.rolesErr
}

func (s *storeStub) MemberRoleIDs(context.Context, string) ([]string, error) {
	return s.held, nil
}

func (s *storeStub) AddMemberRole(context.Context, string, string) error {
	return nil
}

type recorderStub struct {
	records []auditdomain.ClaimRecord
	err     error

	gotMemberID string
	gotLimit    int
}

func (r *recorderStub) Record(context.Context, auditdomain.ClaimRecord) error {
	return r.err
}

func (r *recorderStub) RecentByMember(_ context.Context, memberID string, limit int) ([]auditdomain.ClaimRecord, error) {
	r.gotMemberID = memberID
	r.gotLimit = limit
	return r.records, r.err
}

func newTestServer(t *testing.T, engine reconciledomain.Engine, store membershipdomain.Store) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(ErrorHandlingMiddleware())

	srv := &Server{
		engine: r,
		cfg:    config.Config{},
		recon:  engine,
		store:  store,
	}
	srv.registerRoutes()
	return srv
}

func doRequest(srv *Server, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, req)
	return w
}

func TestSubmitClaimGranted(t *testing.T) {
	stub := &engineStub{
		outcome: reconciledomain.Granted("123", "m-1", []string{"Club ACE"}, []string{"Club ACE"}),
	}
	srv := newTestServer(t, stub, nil)

	w := doRequest(srv, http.MethodPost, "/v1/claims", `{"order_id":"123","member_id":"m-1"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "123", stub.gotOrderID)
	assert.Equal(t, "m-1", stub.gotMember.ID)
	assert.Equal(t, "http", stub.gotSource)

	var resp claimResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "granted", resp.Outcome)
	assert.Equal(t, []string{"Club ACE"}, resp.GrantedTiers)
}

func TestSubmitClaimNotFound(t *testing.T) {
	stub := &engineStub{outcome: reconciledomain.NotFound("999", "m-1")}
	srv := newTestServer(t, stub, nil)

	w := doRequest(srv, http.MethodPost, "/v1/claims", `{"order_id":"999","member_id":"m-1"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp claimResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "not_found", resp.Outcome)
	assert.Equal(t, "999", resp.OrderID)
}

func TestSubmitClaimFailure(t *testing.T) {
	stub := &engineStub{outcome: reconciledomain.Failure("123", "m-1", "store_unavailable")}
	srv := newTestServer(t, stub, nil)

	w := doRequest(srv, http.MethodPost, "/v1/claims", `{"order_id":"123","member_id":"m-1"}`)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestSubmitClaimRejectsMissingFields(t *testing.T) {
	stub := &engineStub{}
	srv := newTestServer(t, stub, nil)

	w := doRequest(srv, http.MethodPost, "/v1/claims", `{"order_id":"123"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, stub.gotOrderID)
}

func TestListMemberRoles(t *testing.T) {
	store := &storeStub{
		roles: []membershipdomain.Role{
			{ID: "r1", Name: "Free"},
			{ID: "r2", Name: "Club ACE"},
		},
		held: []string{"r2", "r1", "unknown"},
	}
	srv := newTestServer(t, &engineStub{}, store)

	w := doRequest(srv, http.MethodGet, "/v1/members/m-1/roles", "")

	assert.Equal(t, http.StatusOK, w.Code)

	var resp memberRolesResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "m-1", resp.MemberID)
	assert.Equal(t, []string{"Club ACE", "Free"}, resp.Roles)
}

func TestListMemberClaims(t *testing.T) {
	recorder := &recorderStub{
		records: []auditdomain.ClaimRecord{
			{MemberID: "m-1", OrderID: "123", Outcome: "granted", Source: "discord"},
			{MemberID: "m-1", OrderID: "999", Outcome: "not_found", Source: "http"},
		},
	}
	srv := newTestServer(t, &engineStub{}, nil)
	srv.recorder = recorder

	w := doRequest(srv, http.MethodGet, "/v1/members/m-1/claims?limit=5", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "m-1", recorder.gotMemberID)
	assert.Equal(t, 5, recorder.gotLimit)

	var resp memberClaimsResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "m-1", resp.MemberID)
	assert.Len(t, resp.Claims, 2)
	assert.Equal(t, "granted", resp.Claims[0].Outcome)
}

func TestListMemberClaimsStoreFailure(t *testing.T) {
	srv := newTestServer(t, &engineStub{}, nil)
	srv.recorder = &recorderStub{err: errors.New("audit store unavailable")}

	w := doRequest(srv, http.MethodGet, "/v1/members/m-1/claims", "")

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestListMemberRolesUpstreamFailure(t *testing.T) {
	store := &storeStub{rolesErr: errors.New("gateway down")}
	srv := newTestServer(t, &engineStub{}, store)

	w := doRequest(srv, http.MethodGet, "/v1/members/m-1/roles", "")

	assert.Equal(t, http.StatusBadGateway, w.Code)
}
