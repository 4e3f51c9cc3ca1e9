package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-social-network/config"
	"github.com/oksasatya/go-social-network/internal/container"
	"github.com/oksasatya/go-social-network/pkg/helpers"
)

func init() { gin.SetMode(gin.TestMode) }

type envelope struct {
	Status    int             `json:"status"`
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	RequestID string          `json:"request_id"`
	Data      json.RawMessage `json:"data"`
	Errors    []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

type authData struct {
	User struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
	} `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type postData struct {
	ID         string  `json:"id"`
	Content    string  `json:"content"`
	ImageURL   *string `json:"imageUrl"`
	LikesCount int     `json:"likesCount"`
	Liked      bool    `json:"liked"`
	Author     *struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"author"`
}

type likeData struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likesCount"`
}

type profileData struct {
	ID       string     `json:"id"`
	Username string     `json:"username"`
	Email    *string    `json:"email"`
	FullName string     `json:"fullName"`
	Bio      string     `json:"bio"`
	Posts    []postData `json:"posts"`
}

type testServer struct {
	t      *testing.T
	engine *gin.Engine
	c      *container.Container
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := &config.Config{AppName: "social-test", Env: "test", CORSAllowedOrigins: "*"}
	jwt, err := helpers.NewJWTManager("router-secret", helpers.DefaultTokenTTL)
	require.NoError(t, err)
	c := container.NewMemory(cfg, helpers.NewDiscardLogger(), jwt)
	return &testServer{t: t, engine: NewEngine(c), c: c}
}

func (s *testServer) do(method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(s.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") != "" && w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

func (s *testServer) register(username, email, password, fullName string) authData {
	s.t.Helper()
	w, env := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username, "email": email, "password": password, "fullName": fullName,
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	var out authData
	require.NoError(s.t, json.Unmarshal(env.Data, &out))
	return out
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestScenario_RegisterPostAndToggleLike(t *testing.T) {
	s := newTestServer(t)

	alice := s.register("alice", "alice@x.com", "secret1", "Alice A")
	assert.NotEmpty(t, alice.Token)
	assert.Equal(t, "alice", alice.User.Username)
	assert.Equal(t, "alice@x.com", alice.User.Email)

	id, err := s.c.JWT.Verify(alice.Token)
	require.NoError(t, err)
	assert.Equal(t, alice.User.ID, id.UserID)
	assert.Equal(t, "alice@x.com", id.Email)
	assert.Equal(t, "alice", id.Username)

	w, env := s.do(http.MethodPost, "/api/posts", alice.Token, map[string]string{"content": "hello"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	post := decode[postData](t, env.Data)
	assert.Equal(t, "hello", post.Content)
	assert.Zero(t, post.LikesCount)
	require.NotNil(t, post.Author)
	assert.Equal(t, "alice", post.Author.Username)

	w, env = s.do(http.MethodPost, "/api/posts/"+post.ID+"/like", alice.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, likeData{Liked: true, LikesCount: 1}, decode[likeData](t, env.Data))

	w, env = s.do(http.MethodPost, "/api/posts/"+post.ID+"/like", alice.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, likeData{Liked: false, LikesCount: 0}, decode[likeData](t, env.Data))
}

func TestRegister_ValidationListsAllFields(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "al", "email": "not-an-email", "password": "123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
	fields := map[string]bool{}
	for _, e := range env.Errors {
		fields[e.Field] = true
	}
	assert.Equal(t, map[string]bool{"username": true, "email": true, "password": true}, fields)
}

func TestRegister_PasswordBeyondBcryptLimit(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "alice", "email": "alice@x.com", "password": strings.Repeat("p", 80),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Equal(t, "validation failed", env.Message)
	require.Len(t, env.Errors, 1)
	assert.Equal(t, "password", env.Errors[0].Field)
}

func TestRegister_PaddedShortUsername(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "  ab", "email": "ab@x.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	require.Len(t, env.Errors, 1)
	assert.Equal(t, "username", env.Errors[0].Field)

	// the account was not created
	w, _ = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "ab@x.com", "password": "secret1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegister_InvalidJSON(t *testing.T) {
	s := newTestServer(t)
	w, env := s.do(http.MethodPost, "/api/auth/register", "", `{"username":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.Len(t, env.Errors, 1)
	assert.Equal(t, "payload", env.Errors[0].Field)
}

func TestRegister_Conflicts(t *testing.T) {
	s := newTestServer(t)
	s.register("alice", "alice@x.com", "secret1", "Alice A")
	s.register("bobby", "bob@x.com", "secret1", "")

	w, env := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "other", "email": "alice@x.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "email is already registered", env.Message)

	w, env = s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "alice", "email": "new@x.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "username is already registered", env.Message)

	w, env = s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "bobby", "email": "alice@x.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "email is already registered", env.Message)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	s := newTestServer(t)
	s.register("alice", "alice@x.com", "secret1", "Alice A")

	w1, env1 := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "alice@x.com", "password": "wrong1"})
	w2, env2 := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "ghost@x.com", "password": "secret1"})

	assert.Equal(t, http.StatusUnauthorized, w1.Code)
	assert.Equal(t, w1.Code, w2.Code)
	assert.Equal(t, env1.Message, env2.Message)
	assert.Contains(t, []string{"", "null"}, string(env2.Data))

	w, env := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "alice@x.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode[authData](t, env.Data).Token)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)
	for _, rt := range []struct{ method, path string }{
		{http.MethodGet, "/api/posts"},
		{http.MethodPost, "/api/posts"},
		{http.MethodPost, "/api/posts/x/like"},
		{http.MethodGet, "/api/users/profile"},
		{http.MethodPut, "/api/users/profile"},
		{http.MethodGet, "/api/users/some-id"},
	} {
		w, env := s.do(rt.method, rt.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, rt.path)
		assert.Equal(t, "no token provided", env.Message, rt.path)
	}

	w, env := s.do(http.MethodGet, "/api/posts", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid token", env.Message)
}

func TestFeedAndProfiles(t *testing.T) {
	s := newTestServer(t)
	alice := s.register("alice", "alice@x.com", "secret1", "Alice A")
	bob := s.register("bobby", "bob@x.com", "secret1", "Bob B")

	_, env := s.do(http.MethodPost, "/api/posts", alice.Token, map[string]string{"content": "alice post"})
	alicePost := decode[postData](t, env.Data)
	time.Sleep(2 * time.Millisecond)
	_, _ = s.do(http.MethodPost, "/api/posts", bob.Token, map[string]any{"content": "bob post", "imageUrl": "https://img.test/b.png"})
	_, _ = s.do(http.MethodPost, "/api/posts/"+alicePost.ID+"/like", bob.Token, nil)

	w, env := s.do(http.MethodGet, "/api/posts", bob.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	feed := decode[[]postData](t, env.Data)
	require.Len(t, feed, 2)
	assert.Equal(t, "bob post", feed[0].Content)
	require.NotNil(t, feed[0].ImageURL)
	assert.False(t, feed[0].Liked)
	assert.Equal(t, "alice post", feed[1].Content)
	assert.True(t, feed[1].Liked)
	assert.Equal(t, 1, feed[1].LikesCount)

	w, env = s.do(http.MethodGet, "/api/users/profile", alice.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	own := decode[profileData](t, env.Data)
	require.NotNil(t, own.Email)
	assert.Equal(t, "alice@x.com", *own.Email)
	require.Len(t, own.Posts, 1)
	assert.False(t, own.Posts[0].Liked)

	w, env = s.do(http.MethodGet, "/api/users/"+alice.User.ID, bob.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	other := decode[profileData](t, env.Data)
	assert.Nil(t, other.Email)
	assert.Equal(t, "Alice A", other.FullName)
	require.Len(t, other.Posts, 1)
	assert.True(t, other.Posts[0].Liked)

	w, env = s.do(http.MethodGet, "/api/users/does-not-exist", bob.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "user not found", env.Message)
}

func TestEmptyFeedIsAnArray(t *testing.T) {
	s := newTestServer(t)
	alice := s.register("alice", "alice@x.com", "secret1", "")

	w, env := s.do(http.MethodGet, "/api/posts", alice.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", string(env.Data))
}

func TestCreatePost_Validation(t *testing.T) {
	s := newTestServer(t)
	alice := s.register("alice", "alice@x.com", "secret1", "")

	w, env := s.do(http.MethodPost, "/api/posts", alice.Token, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotEmpty(t, env.Errors)
	assert.Equal(t, "content", env.Errors[0].Field)

	w, env = s.do(http.MethodPost, "/api/posts", alice.Token, map[string]string{"content": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "content is required", env.Message)
}

func TestToggleLike_UnknownPost(t *testing.T) {
	s := newTestServer(t)
	alice := s.register("alice", "alice@x.com", "secret1", "")

	w, env := s.do(http.MethodPost, "/api/posts/nope/like", alice.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "post not found", env.Message)
}

func TestUpdateProfile_PartialSemantics(t *testing.T) {
	s := newTestServer(t)
	alice := s.register("alice", "alice@x.com", "secret1", "Alice A")

	w, env := s.do(http.MethodPut, "/api/users/profile", alice.Token, map[string]string{"bio": "hi there"})
	require.Equal(t, http.StatusOK, w.Code)
	p := decode[profileData](t, env.Data)
	assert.Equal(t, "hi there", p.Bio)
	assert.Equal(t, "Alice A", p.FullName)

	w, env = s.do(http.MethodPut, "/api/users/profile", alice.Token, map[string]string{"bio": ""})
	require.Equal(t, http.StatusOK, w.Code)
	p = decode[profileData](t, env.Data)
	assert.Equal(t, "", p.Bio)

	w, env = s.do(http.MethodPut, "/api/users/profile", alice.Token, map[string]string{})
	require.Equal(t, http.StatusOK, w.Code)
	p = decode[profileData](t, env.Data)
	assert.Equal(t, "Alice A", p.FullName)
	assert.Equal(t, "", p.Bio)
}

func TestSearch_DisabledReturnsEmpty(t *testing.T) {
	s := newTestServer(t)
	alice := s.register("alice", "alice@x.com", "secret1", "")

	w, env := s.do(http.MethodGet, "/api/users/search?q=ali", alice.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", string(env.Data))
}

type memAvatars struct{}

func (memAvatars) Upload(_ context.Context, objectPath, _ string, r io.Reader) (string, error) {
	_, err := io.Copy(io.Discard, r)
	return "https://cdn.test/" + objectPath, err
}

func TestUploadAvatar(t *testing.T) {
	s := newTestServer(t)
	alice := s.register("alice", "alice@x.com", "secret1", "")

	// not mounted without avatar storage
	w, _ := s.do(http.MethodPost, "/api/users/profile/avatar", alice.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	s.c.Avatars = memAvatars{}
	s.engine = NewEngine(s.c)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="me.png"`)
	h.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, _ = part.Write([]byte("\x89PNG"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/users/profile/avatar", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+alice.Token)
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	var user struct {
		ProfilePicture string `json:"profilePicture"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &user))
	assert.Contains(t, user.ProfilePicture, "https://cdn.test/avatars/"+alice.User.ID+"/")
}

func TestHealthAndNotFound(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var health map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, map[string]string{"status": "ok", "database": "connected"}, health)

	w, env := s.do(http.MethodGet, "/api/nothing?x=1", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "Cannot GET /api/nothing?x=1", env.Message)
	assert.NotEmpty(t, env.RequestID)
}
