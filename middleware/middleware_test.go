package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"blog-cms/helper"
	"blog-cms/logger"
	"blog-cms/models"
	"blog-cms/repositories"
	"blog-cms/services"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

var secret = []byte("middleware-test-secret")

func newTestHelper(t *testing.T) *helper.HTTPHelper {
	t.Helper()
	h, err := helper.NewHTTPHelper(logger.Nop())
	require.NoError(t, err)
	return h
}

type AuthGuardTestSuite struct {
	suite.Suite
	store  *repositories.MemoryStore
	tokens services.TokenService
	router *gin.Engine
}

func (s *AuthGuardTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.store = repositories.NewMemoryStore()
	s.tokens = services.NewTokenService(secret, time.Hour)
	auth := services.NewAuthService(s.store.Users(), s.tokens, bcrypt.MinCost, logger.Nop())
	guard := NewAuthGuard(s.tokens, auth, newTestHelper(s.T()))

	s.router = gin.New()
	s.router.GET("/admin", guard.RequireToken(), guard.RequireRole(models.RoleAdmin), func(c *gin.Context) {
		id, _ := CurrentUserID(c)
		c.JSON(http.StatusOK, gin.H{"id": id})
	})
	s.router.POST("/post", guard.RequireUser(), guard.RequireAuthor(), func(c *gin.Context) {
		user, _ := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"email": user.Email})
	})
}

func (s *AuthGuardTestSuite) user(role models.Role) (*models.User, string) {
	u := &models.User{Name: "u", Email: uuid.NewString() + "@example.com", Password: "x", Role: role}
	s.Require().NoError(s.store.Users().Create(context.Background(), u))
	token, _, err := s.tokens.Issue(u)
	s.Require().NoError(err)
	return u, token
}

func (s *AuthGuardTestSuite) do(method, path, token string) (int, string) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	s.router.ServeHTTP(w, req)

	var body struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w.Code, body.Message
}

func (s *AuthGuardTestSuite) TestMissingToken() {
	code, msg := s.do(http.MethodGet, "/admin", "")
	s.Equal(http.StatusUnauthorized, code)
	s.Equal("Token is missing", msg)
}

func (s *AuthGuardTestSuite) TestInvalidToken() {
	code, msg := s.do(http.MethodGet, "/admin", "abc.def.ghi")
	s.Equal(http.StatusUnauthorized, code)
	s.Equal("Invalid token", msg)
}

func (s *AuthGuardTestSuite) TestExpiredToken() {
	short := services.NewTokenService(secret, -time.Minute)
	token, _, err := short.Issue(&models.User{ID: uuid.New(), Role: models.RoleAdmin})
	s.Require().NoError(err)

	code, msg := s.do(http.MethodGet, "/admin", token)
	s.Equal(http.StatusUnauthorized, code)
	s.Equal("Token has expired", msg)
}

func (s *AuthGuardTestSuite) TestRoleGate() {
	_, adminToken := s.user(models.RoleAdmin)
	_, authorToken := s.user(models.RoleAuthor)

	code, _ := s.do(http.MethodGet, "/admin", adminToken)
	s.Equal(http.StatusOK, code)

	code, msg := s.do(http.MethodGet, "/admin", authorToken)
	s.Equal(http.StatusForbidden, code)
	s.Equal("Access denied", msg)
}

func (s *AuthGuardTestSuite) TestStrictGuardSeesCurrentRole() {
	u, token := s.user(models.RolePending)

	code, msg := s.do(http.MethodPost, "/post", token)
	s.Equal(http.StatusForbidden, code)
	s.Equal("Only approved authors can post", msg)

	// Approval after login takes effect without a new token.
	_, err := s.store.Users().UpdateRole(context.Background(), u.ID, models.RolePending, models.RoleAuthor)
	s.Require().NoError(err)

	code, _ = s.do(http.MethodPost, "/post", token)
	s.Equal(http.StatusOK, code)
}

func (s *AuthGuardTestSuite) TestStrictGuardVanishedUser() {
	token, _, err := s.tokens.Issue(&models.User{ID: uuid.New(), Role: models.RoleAuthor})
	s.Require().NoError(err)

	code, msg := s.do(http.MethodPost, "/post", token)
	s.Equal(http.StatusNotFound, code)
	s.Equal("User not found", msg)
}

func TestAuthGuardTestSuite(t *testing.T) {
	suite.Run(t, new(AuthGuardTestSuite))
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", bearerToken("Bearer abc"))
	assert.Equal(t, "abc", bearerToken("bearer  abc "))
	assert.Empty(t, bearerToken("Basic abc"))
	assert.Empty(t, bearerToken("abc"))
	assert.Empty(t, bearerToken(""))
}

func rateLimitedRouter(t *testing.T, cfg RateLimitConfig, metrics *Metrics) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	mw, err := RateLimit(cfg, newTestHelper(t), metrics, logger.Nop())
	require.NoError(t, err)

	r := gin.New()
	r.POST("/login", mw, func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func hit(r *gin.Engine, ip string) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = ip + ":1234"
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimitInMemory(t *testing.T) {
	metrics := NewMetrics()
	r := rateLimitedRouter(t, RateLimitConfig{Rate: "2-M"}, metrics)

	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.1"))
	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "10.0.0.1"))
	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.2"), "limits are per client")
}

func TestRateLimitRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	r := rateLimitedRouter(t, RateLimitConfig{Rate: "1-H", Redis: client}, nil)
	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.3"))
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "10.0.0.3"))

	keys := mr.Keys()
	require.NotEmpty(t, keys)
	assert.True(t, strings.HasPrefix(keys[0], rateLimitPrefix))
}

func TestRateLimitBadFormat(t *testing.T) {
	_, err := RateLimit(RateLimitConfig{Rate: "lots"}, newTestHelper(t), nil, logger.Nop())
	assert.Error(t, err)
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:3000"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://evil.test")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics()
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/blogs/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/blogs/abc", nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `blogcms_http_requests_total{method="GET",route="/blogs/:id",status="200"} 1`)
}
