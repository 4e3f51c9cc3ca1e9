package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-social-network/pkg/helpers"
)

func init() { gin.SetMode(gin.TestMode) }

type envelope struct {
	Status  int    `json:"status"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func newAuthEngine(t *testing.T, jwt *helpers.JWTManager) *gin.Engine {
	t.Helper()
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/me", Auth(jwt), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"id":       UserID(c),
			"email":    c.GetString(CtxUserEmail),
			"username": c.GetString(CtxUserName),
		})
	})
	return r
}

func doGet(r http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestAuth_ValidToken(t *testing.T) {
	jwt, err := helpers.NewJWTManager("s3cret", time.Hour)
	require.NoError(t, err)
	token, _, err := jwt.Issue(helpers.Identity{UserID: "u1", Email: "a@x.com", Username: "alice"})
	require.NoError(t, err)

	w := doGet(newAuthEngine(t, jwt), "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, map[string]string{"id": "u1", "email": "a@x.com", "username": "alice"}, body)
}

func TestAuth_Rejections(t *testing.T) {
	jwt, err := helpers.NewJWTManager("s3cret", time.Hour)
	require.NoError(t, err)
	other, err := helpers.NewJWTManager("other", time.Hour)
	require.NoError(t, err)
	forged, _, err := other.Issue(helpers.Identity{UserID: "u1"})
	require.NoError(t, err)
	noID, _, err := jwt.Issue(helpers.Identity{Email: "a@x.com"})
	require.NoError(t, err)

	past := jwt.WithClock(func() time.Time { return time.Now().Add(-4 * time.Hour) })
	expired, _, err := past.Issue(helpers.Identity{UserID: "u1"})
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		msg    string
	}{
		{"missing header", "", "no token provided"},
		{"wrong scheme", "Basic abc", "no token provided"},
		{"empty bearer", "Bearer ", "no token provided"},
		{"garbage", "Bearer not.a.jwt", "invalid token"},
		{"foreign signature", "Bearer " + forged, "invalid token"},
		{"missing id", "Bearer " + noID, "invalid token"},
		{"expired", "Bearer " + expired, "token expired"},
	}
	r := newAuthEngine(t, jwt)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doGet(r, tc.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			env := decodeEnvelope(t, w)
			assert.False(t, env.Success)
			assert.Equal(t, tc.msg, env.Message)
		})
	}
}

func TestAuth_SchemeIsCaseInsensitive(t *testing.T) {
	jwt, err := helpers.NewJWTManager("s3cret", time.Hour)
	require.NoError(t, err)
	token, _, err := jwt.Issue(helpers.Identity{UserID: "u1"})
	require.NoError(t, err)

	w := doGet(newAuthEngine(t, jwt), "bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	_, err := uuid.Parse(w.Body.String())
	assert.NoError(t, err)
	assert.Equal(t, w.Body.String(), w.Header().Get(HeaderRequestID))

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, incoming)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, incoming, w.Body.String())
}

func TestRealIP(t *testing.T) {
	r := gin.New()
	r.Use(RealIP())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, ClientIP(c)) })

	cases := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"cloudflare", map[string]string{"CF-Connecting-IP": "203.0.113.7", "X-Forwarded-For": "198.51.100.1"}, "203.0.113.7"},
		{"forwarded", map[string]string{"X-Forwarded-For": "198.51.100.1, 10.0.0.1"}, "198.51.100.1"},
		{"remote addr", nil, "192.0.2.1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Body.String())
		})
	}
}
