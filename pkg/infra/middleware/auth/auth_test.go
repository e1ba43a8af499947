package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pactum-io/pactum/pkg/security/authn"
	"github.com/pactum-io/pactum/pkg/security/authz"
	"github.com/pactum-io/pactum/pkg/utils/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTokenService(t *testing.T) *authn.Service {
	t.Helper()

	key, err := authn.GenerateKeyPair(authn.AlgorithmES256)
	require.NoError(t, err)
	svc, err := authn.New(key)
	require.NoError(t, err)
	return svc
}

// newAdminRouter builds a router protecting /admin with the default
// policy chain.
func newAdminRouter(tokens *authn.Service) *gin.Engine {
	engine := authz.NewEngine(
		authz.NewAdminPagePolicy(),
		authz.NewDepartmentPolicy(),
		authz.NewContractPolicy(),
	)

	r := gin.New()
	r.Use(Authenticate(tokens))
	r.GET("/admin",
		Authorize(engine, StaticRequest(authz.RequestContext{
			ResourceType: authz.ResourceAdminPage,
			Action:       authz.ActionRead,
		})),
		func(c *gin.Context) {
			subject := authn.MustSubjectFromContext(c.Request.Context())
			response.OK(c, gin.H{"subject": subject.ID})
		},
	)
	return r
}

func doGet(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticateMissingToken(t *testing.T) {
	r := newAdminRouter(newTokenService(t))

	w := doGet(r, "/admin", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateInvalidToken(t *testing.T) {
	r := newAdminRouter(newTokenService(t))

	w := doGet(r, "/admin", "not.a.token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateRejectsRefreshToken(t *testing.T) {
	tokens := newTokenService(t)
	r := newAdminRouter(tokens)

	pair, err := tokens.IssueTokens(t.Context(), authz.Subject{ID: "admin-1", Roles: []authz.Role{authz.RoleAdmin}})
	require.NoError(t, err)

	w := doGet(r, "/admin", pair.RefreshToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "refresh tokens must not grant resource access")
}

func TestAuthorizeAllowAndDeny(t *testing.T) {
	tokens := newTokenService(t)
	r := newAdminRouter(tokens)

	adminPair, err := tokens.IssueTokens(t.Context(), authz.Subject{ID: "admin-1", Roles: []authz.Role{authz.RoleAdmin}})
	require.NoError(t, err)
	staffPair, err := tokens.IssueTokens(t.Context(), authz.Subject{ID: "staff-1", Roles: []authz.Role{authz.RoleStaff}})
	require.NoError(t, err)

	w := doGet(r, "/admin", adminPair.AccessToken)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doGet(r, "/admin", staffPair.AccessToken)
	require.Equal(t, http.StatusForbidden, w.Code)

	// The denial body carries the decision reason and deciding policy.
	var body struct {
		Code int `json:"code"`
		Data struct {
			Reason string `json:"reason"`
			Policy string `json:"policy"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotZero(t, body.Code)
	assert.Equal(t, authz.ReasonAdminOnly, body.Data.Reason)
	assert.Equal(t, "admin_page", body.Data.Policy)
}

func TestAuthenticateSkipPaths(t *testing.T) {
	tokens := newTokenService(t)

	r := gin.New()
	r.Use(Authenticate(tokens, WithSkipPaths("/healthz")))
	r.GET("/healthz", func(c *gin.Context) { response.OK(c, "ok") })
	r.GET("/other", func(c *gin.Context) { response.OK(c, "ok") })

	w := doGet(r, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doGet(r, "/other", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
