package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/xxxsen/cardkeep/internal/pkg/errcode"
	"github.com/xxxsen/cardkeep/internal/pkg/jwt"
	"github.com/xxxsen/cardkeep/internal/pkg/response"
)

func newAuthEngine(t *testing.T, verifier TokenVerifier) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(RequestID(), JWTAuth(verifier))
	engine.GET("/whoami", func(c *gin.Context) {
		owner, _ := c.Get(ContextOwnerKey)
		c.JSON(http.StatusOK, gin.H{"owner": owner})
	})
	return engine
}

func doAuth(engine http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	return resp
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) response.APIError {
	t.Helper()
	var apiErr response.APIError
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &apiErr))
	return apiErr
}

func TestJWTAuth(t *testing.T) {
	now := time.Unix(1700000000, 0)
	clock := func() time.Time { return now }
	signer, err := jwt.NewSigner([]byte("secret"), "HS256", jwt.WithClock(clock))
	require.NoError(t, err)
	engine := newAuthEngine(t, signer)

	token, err := signer.Issue("a@x.com", time.Minute)
	require.NoError(t, err)

	resp := doAuth(engine, "Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)
	require.JSONEq(t, `{"owner":"a@x.com"}`, resp.Body.String())
	require.NotEmpty(t, resp.Header().Get("X-Request-Id"))

	resp = doAuth(engine, "bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	for _, header := range []string{"", "Bearer", "Bearer ", "Basic abc", token} {
		resp = doAuth(engine, header)
		require.Equal(t, http.StatusUnauthorized, resp.Code, header)
		require.Equal(t, "Bearer", resp.Header().Get("WWW-Authenticate"))
		require.Equal(t, errcode.ErrUnauthorized, decodeError(t, resp).Code)
	}

	resp = doAuth(engine, "Bearer "+token+"x")
	require.Equal(t, http.StatusUnauthorized, resp.Code)
	apiErr := decodeError(t, resp)
	require.Equal(t, errcode.ErrTokenInvalid, apiErr.Code)
	require.Equal(t, "Invalid token", apiErr.Detail)

	now = now.Add(time.Minute)
	resp = doAuth(engine, "Bearer "+token)
	require.Equal(t, http.StatusUnauthorized, resp.Code)
	apiErr = decodeError(t, resp)
	require.Equal(t, errcode.ErrTokenExpired, apiErr.Code)
	require.Equal(t, "Token expired", apiErr.Detail)
}

func TestRequestIDPreserved(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(RequestID())
	engine.GET("/", func(c *gin.Context) {
		id, _ := c.Get(ContextRequestIDKey)
		c.String(http.StatusOK, id.(string))
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	require.Equal(t, "abc-123", resp.Header().Get("X-Request-Id"))
	require.Equal(t, "abc-123", resp.Body.String())
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(CORS([]string{"http://app.test", " "}))
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "http://app.test")
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	require.Equal(t, http.StatusNoContent, resp.Code)
	require.Equal(t, "http://app.test", resp.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://evil.test")
	resp = httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Empty(t, resp.Header().Get("Access-Control-Allow-Origin"))

	open := gin.New()
	open.Use(CORS(nil))
	open.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	resp = httptest.NewRecorder()
	open.ServeHTTP(resp, req)
	require.Equal(t, "*", resp.Header().Get("Access-Control-Allow-Origin"))
}
