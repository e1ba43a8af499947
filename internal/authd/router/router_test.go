package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pactum-io/pactum/internal/authd/store"
	"github.com/pactum-io/pactum/pkg/security/authn"
	"github.com/pactum-io/pactum/pkg/security/authz"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
	tokens *authn.Service
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	key, err := authn.GenerateKeyPair(authn.AlgorithmES256)
	require.NoError(t, err)
	tokens, err := authn.New(key)
	require.NoError(t, err)

	factory := store.NewMemoryFactory()

	engine := authz.NewEngine(
		authz.NewAdminPagePolicy(),
		authz.NewDepartmentPolicy(),
		authz.NewContractPolicy(),
	)
	registry := authz.NewRegistry()
	resolver := authz.NewGrantResolver(factory.Collaborators())
	require.NoError(t, registry.Register(authz.NewContractResourcePolicy(resolver)))

	r := gin.New()
	Register(r, Deps{Tokens: tokens, Engine: engine, Registry: registry, Store: factory})

	return &testServer{t: t, router: r, tokens: tokens}
}

func (s *testServer) token(subject authz.Subject) string {
	s.t.Helper()

	pair, err := s.tokens.IssueTokens(s.t.Context(), subject)
	require.NoError(s.t, err)
	return pair.AccessToken
}

// do performs a request and decodes the response envelope.
func (s *testServer) do(method, path, token string, body interface{}) (int, map[string]interface{}) {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var envelope map[string]interface{}
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return w.Code, envelope
}

func data(envelope map[string]interface{}) map[string]interface{} {
	d, _ := envelope["data"].(map[string]interface{})
	return d
}

var (
	adminSub   = authz.Subject{ID: "admin-1", Roles: []authz.Role{authz.RoleAdmin}}
	managerA   = authz.Subject{ID: "mgr-a", Roles: []authz.Role{authz.RoleManager}, DepartmentIDs: []string{"dep-a"}}
	staffOne   = authz.Subject{ID: "staff-1", Roles: []authz.Role{authz.RoleStaff}}
	staffTwo   = authz.Subject{ID: "staff-2", Roles: []authz.Role{authz.RoleStaff}}
	outsideUsr = authz.Subject{ID: "u-ext", Roles: []authz.Role{authz.RoleCollaborator}}
)

func TestTokenEndpoints(t *testing.T) {
	s := newTestServer(t)

	code, envelope := s.do(http.MethodPost, "/api/v1/tokens", "", gin.H{
		"user_id": "staff-1",
		"roles":   []string{"staff"},
	})
	require.Equal(t, http.StatusOK, code)
	d := data(envelope)
	access, _ := d["access_token"].(string)
	refresh, _ := d["refresh_token"].(string)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	// Introspection reports valid/invalid without erroring.
	code, envelope = s.do(http.MethodPost, "/api/v1/tokens/verify", "", gin.H{"token": access})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, data(envelope)["valid"])

	code, envelope = s.do(http.MethodPost, "/api/v1/tokens/verify", "", gin.H{"token": "garbage"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, data(envelope)["valid"])

	// Refresh mints a fresh pair.
	code, envelope = s.do(http.MethodPost, "/api/v1/tokens/refresh", "", gin.H{
		"refresh_token": refresh,
		"user_id":       "staff-1",
		"roles":         []string{"staff"},
	})
	require.Equal(t, http.StatusOK, code)
	assert.NotEmpty(t, data(envelope)["access_token"])

	// An access token is not accepted for refresh.
	code, _ = s.do(http.MethodPost, "/api/v1/tokens/refresh", "", gin.H{
		"refresh_token": access,
		"user_id":       "staff-1",
	})
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestAdminDashboardRoute(t *testing.T) {
	s := newTestServer(t)

	code, _ := s.do(http.MethodGet, "/api/v1/admin/dashboard", s.token(adminSub), nil)
	assert.Equal(t, http.StatusOK, code)

	code, envelope := s.do(http.MethodGet, "/api/v1/admin/dashboard", s.token(staffOne), nil)
	require.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, authz.ReasonAdminOnly, data(envelope)["reason"])

	code, _ = s.do(http.MethodGet, "/api/v1/admin/dashboard", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestDepartmentRoute(t *testing.T) {
	s := newTestServer(t)

	code, _ := s.do(http.MethodPut, "/api/v1/departments/dep-a", s.token(managerA), nil)
	assert.Equal(t, http.StatusOK, code)

	code, envelope := s.do(http.MethodPut, "/api/v1/departments/dep-b", s.token(managerA), nil)
	require.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, authz.ReasonNotDepartmentManager, data(envelope)["reason"])

	code, _ = s.do(http.MethodPut, "/api/v1/departments/dep-b", s.token(adminSub), nil)
	assert.Equal(t, http.StatusOK, code, "admin overrides department isolation")
}

// createContract creates a private contract as staff-1 and returns its ID.
func createContract(t *testing.T, s *testServer, isPublic bool) string {
	t.Helper()

	code, envelope := s.do(http.MethodPost, "/api/v1/contracts", s.token(staffOne), gin.H{
		"title":         "Supply agreement",
		"department_id": "dep-a",
		"is_public":     isPublic,
	})
	require.Equal(t, http.StatusOK, code)
	id, _ := data(envelope)["id"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestContractLifecycle(t *testing.T) {
	s := newTestServer(t)
	id := createContract(t, s, false)

	// The creator holds an owner grant: full capabilities.
	code, envelope := s.do(http.MethodGet, "/api/v1/contracts/"+id+"/capabilities", s.token(staffOne), nil)
	require.Equal(t, http.StatusOK, code)
	caps := data(envelope)
	assert.Equal(t, true, caps["can_view"])
	assert.Equal(t, true, caps["can_update"])
	assert.Equal(t, true, caps["can_delete"])

	// Private contract: another staff member cannot read it.
	code, envelope = s.do(http.MethodGet, "/api/v1/contracts/"+id, s.token(staffTwo), nil)
	require.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, authz.ReasonPrivateNotParticipant, data(envelope)["reason"])

	// Managers read everything.
	code, _ = s.do(http.MethodGet, "/api/v1/contracts/"+id, s.token(managerA), nil)
	assert.Equal(t, http.StatusOK, code)

	// Writes require participation; a manager role alone is not enough.
	code, envelope = s.do(http.MethodPut, "/api/v1/contracts/"+id, s.token(managerA), gin.H{"title": "x"})
	require.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, authz.ReasonWriteNotParticipant, data(envelope)["reason"])

	code, _ = s.do(http.MethodPut, "/api/v1/contracts/"+id, s.token(staffOne), gin.H{"title": "Renewed agreement"})
	assert.Equal(t, http.StatusOK, code)

	// Approval is manager-only.
	code, _ = s.do(http.MethodPost, "/api/v1/contracts/"+id+"/approve", s.token(managerA), nil)
	assert.Equal(t, http.StatusOK, code)
	code, envelope = s.do(http.MethodPost, "/api/v1/contracts/"+id+"/approve", s.token(staffOne), nil)
	require.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, authz.ReasonApproveRequiresManager, data(envelope)["reason"])

	// Export follows read visibility.
	code, _ = s.do(http.MethodGet, "/api/v1/contracts/"+id+"/export", s.token(managerA), nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = s.do(http.MethodGet, "/api/v1/contracts/"+id+"/export", s.token(staffTwo), nil)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestPublicContractVisibility(t *testing.T) {
	s := newTestServer(t)
	id := createContract(t, s, true)

	// Staff read public contracts; external collaborators do not.
	code, _ := s.do(http.MethodGet, "/api/v1/contracts/"+id, s.token(staffTwo), nil)
	assert.Equal(t, http.StatusOK, code)

	code, envelope := s.do(http.MethodGet, "/api/v1/contracts/"+id, s.token(outsideUsr), nil)
	require.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, authz.ReasonPublicContractStaffOnly, data(envelope)["reason"])
}

func TestCollaboratorRoutes(t *testing.T) {
	s := newTestServer(t)
	id := createContract(t, s, false)

	// A non-manager without a manage grant cannot grant.
	code, _ := s.do(http.MethodPost, "/api/v1/contracts/"+id+"/collaborators", s.token(staffTwo), gin.H{
		"user_id": "u-ext", "role": "viewer",
	})
	assert.Equal(t, http.StatusForbidden, code)

	// The owner can.
	code, _ = s.do(http.MethodPost, "/api/v1/contracts/"+id+"/collaborators", s.token(staffOne), gin.H{
		"user_id": "u-ext", "role": "viewer",
	})
	require.Equal(t, http.StatusOK, code)

	// Unknown collaborator roles are rejected.
	code, _ = s.do(http.MethodPost, "/api/v1/contracts/"+id+"/collaborators", s.token(staffOne), gin.H{
		"user_id": "u-x", "role": "superuser",
	})
	assert.Equal(t, http.StatusBadRequest, code)

	// The grant makes u-ext a participant: private read now allowed.
	code, _ = s.do(http.MethodGet, "/api/v1/contracts/"+id, s.token(outsideUsr), nil)
	assert.Equal(t, http.StatusOK, code)

	// Revocation removes participation.
	code, _ = s.do(http.MethodDelete, "/api/v1/contracts/"+id+"/collaborators/u-ext", s.token(managerA), nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = s.do(http.MethodGet, "/api/v1/contracts/"+id, s.token(outsideUsr), nil)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestAuthzCheckEndpoint(t *testing.T) {
	s := newTestServer(t)
	id := createContract(t, s, false)

	// A decision document comes back 200 whether allowed or denied.
	code, envelope := s.do(http.MethodPost, "/api/v1/authz/check", s.token(staffTwo), gin.H{
		"resource_type": "contract",
		"action":        "READ",
		"resource_id":   id,
	})
	require.Equal(t, http.StatusOK, code)
	decision := data(envelope)
	assert.Equal(t, false, decision["allow"])
	assert.Equal(t, authz.ReasonPrivateNotParticipant, decision["reason"])

	code, envelope = s.do(http.MethodPost, "/api/v1/authz/check", s.token(adminSub), gin.H{
		"resource_type": "admin_page",
		"action":        "READ",
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, data(envelope)["allow"])
}

func TestContractCreateRequiresStaff(t *testing.T) {
	s := newTestServer(t)

	code, _ := s.do(http.MethodPost, "/api/v1/contracts", s.token(outsideUsr), gin.H{
		"title": "Nope",
	})
	assert.Equal(t, http.StatusForbidden, code, "external collaborators cannot create contracts")
}
