package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/xxxsen/cardkeep/internal/handler"
	"github.com/xxxsen/cardkeep/internal/middleware"
	"github.com/xxxsen/cardkeep/internal/pkg/jwt"
	"github.com/xxxsen/cardkeep/internal/pkg/password"
	"github.com/xxxsen/cardkeep/internal/repo"
	"github.com/xxxsen/cardkeep/internal/service"
)

type testEnv struct {
	router http.Handler
	store  *repo.MemoryStore
	signer *jwt.Signer
}

func setupRouter(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := repo.NewMemoryStore()
	signer, err := jwt.NewSigner([]byte("test-secret"), "HS256")
	require.NoError(t, err)
	authService, err := service.NewAuthService(store.Users(), password.NewHasher(bcrypt.MinCost), signer, time.Hour)
	require.NoError(t, err)
	cardService := service.NewCardService(store.Users(), store.Cards())

	engine := gin.New()
	engine.Use(middleware.RequestID())
	handler.RegisterRoutes(engine.Group("/"), handler.RouterDeps{
		Auth:   handler.NewAuthHandler(authService),
		Cards:  handler.NewCardHandler(cardService),
		Tokens: signer,
	})
	return &testEnv{router: engine, store: store, signer: signer}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	e.router.ServeHTTP(resp, req)
	return resp
}

func (e *testEnv) doJSON(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return e.do(req)
}

func (e *testEnv) register(t *testing.T, email, pw string) *httptest.ResponseRecorder {
	t.Helper()
	return e.doJSON(http.MethodPost, "/register", "", map[string]string{"email": email, "password": pw})
}

func (e *testEnv) tokenRequest(username, pw string) *httptest.ResponseRecorder {
	form := url.Values{"username": {username}, "password": {pw}}
	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.do(req)
}

// login registers the user and returns a bearer token for it.
func (e *testEnv) login(t *testing.T, email, pw string) string {
	t.Helper()
	require.Equal(t, http.StatusOK, e.register(t, email, pw).Code)
	resp := e.tokenRequest(email, pw)
	require.Equal(t, http.StatusOK, resp.Code)
	var body struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Equal(t, "bearer", body.TokenType)
	require.NotEmpty(t, body.AccessToken)
	return body.AccessToken
}

func decode(t *testing.T, resp *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), dst))
}
