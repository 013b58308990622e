package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	"github.com/quillhq/quill/config"
	"github.com/quillhq/quill/models"
	"github.com/quillhq/quill/routes"
	"github.com/quillhq/quill/store"
	"github.com/quillhq/quill/utils"
)

var (
	testDB     *gorm.DB
	testStore  *store.Store
	testRouter *gin.Engine
)

func TestMain(m *testing.M) {
	tmpDir, err := os.MkdirTemp("", "quill-router-test")
	if err != nil {
		log.Fatalf("failed to create temp dir: %v", err)
	}
	os.Setenv("JWT_SECRET", "router-test-secret")
	os.Setenv("GIN_MODE", "test")
	os.Setenv("GIN_LOG_PATH", filepath.Join(tmpDir, "gin.log"))
	os.Setenv("MEDIA_ROOT", filepath.Join(tmpDir, "media"))
	os.Setenv("ADMIN_USERNAMES", "root")

	cfg := config.Load()
	if err := utils.InitLogger(cfg); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	ctx := context.Background()
	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("quill_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		log.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		log.Fatalf("failed to get connection string: %v", err)
	}

	testDB, err = config.OpenDatabase(dsn, glogger.Default.LogMode(glogger.Silent),
		&models.User{},
		&models.Group{},
		&models.Post{},
		&models.Comment{},
		&models.Follow{},
	)
	if err != nil {
		log.Fatalf("failed to open test database: %v", err)
	}

	testStore = store.New(testDB, utils.NewLocalCache(64))
	testRouter = routes.SetupRouter(testStore)

	code := m.Run()
	_ = testcontainers.TerminateContainer(ctr)
	_ = os.RemoveAll(tmpDir)
	os.Exit(code)
}

func resetState(t *testing.T) {
	t.Helper()
	err := testDB.Exec(`TRUNCATE "users", "groups", "posts", "comments", "follows" RESTART IDENTITY CASCADE`).Error
	require.NoError(t, err)
	testStore.ClearCache()
}

type envelope struct {
	Code    int                    `json:"code"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
}

func doJSON(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	testRouter.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	return w, env
}

func registerUser(t *testing.T, username string) string {
	t.Helper()
	w, env := doJSON(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": username,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code, "register %s: %s", username, env.Message)
	token, _ := env.Data["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestHealth(t *testing.T) {
	w, env := doJSON(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, env.Code)
}

func TestUnauthenticatedWriteRejected(t *testing.T) {
	resetState(t)

	w, _ := doJSON(t, http.MethodPost, "/api/v1/posts", "", gin.H{"text": "anonymous"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var count int64
	require.NoError(t, testDB.Model(&models.Post{}).Count(&count).Error)
	assert.Zero(t, count, "a rejected write must leave no row behind")
}

func TestRegisterLoginAndPost(t *testing.T) {
	resetState(t)

	token := registerUser(t, "author")

	w, env := doJSON(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": "author",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, env.Data["token"])

	w, env = doJSON(t, http.MethodPost, "/api/v1/posts", token, gin.H{"text": "hello world"})
	require.Equal(t, http.StatusOK, w.Code, "create post: %s", env.Message)
	post, ok := env.Data["post"].(map[string]interface{})
	require.True(t, ok, "data: %v", env.Data)
	postID := int(post["id"].(float64))

	w, env = doJSON(t, http.MethodGet, fmt.Sprintf("/api/v1/posts/%d", postID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := env.Data["post"].(map[string]interface{})
	assert.Equal(t, "hello world", got["text"])
}

func TestLoginWrongPassword(t *testing.T) {
	resetState(t)
	registerUser(t, "cautious")

	w, _ := doJSON(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": "cautious",
		"password": "not-the-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = doJSON(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": "never-registered",
		"password": "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code, "unknown user and wrong password answer alike")
}

func TestFollowConflict(t *testing.T) {
	resetState(t)

	fanToken := registerUser(t, "fan")
	registerUser(t, "star")

	w, _ := doJSON(t, http.MethodPost, "/api/v1/users/star/follow", fanToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, http.MethodPost, "/api/v1/users/star/follow", fanToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = doJSON(t, http.MethodDelete, "/api/v1/users/star/follow", fanToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSelfFollowRejected(t *testing.T) {
	resetState(t)

	token := registerUser(t, "narcissus")
	w, _ := doJSON(t, http.MethodPost, "/api/v1/users/narcissus/follow", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProfileShowsFollowState(t *testing.T) {
	resetState(t)

	fanToken := registerUser(t, "fan")
	registerUser(t, "star")

	w, env := doJSON(t, http.MethodGet, "/api/v1/users/star/posts", fanToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, env.Data["is_following"])

	w, _ = doJSON(t, http.MethodPost, "/api/v1/users/star/follow", fanToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, env = doJSON(t, http.MethodGet, "/api/v1/users/star/posts", fanToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, env.Data["is_following"])
	assert.EqualValues(t, 1, env.Data["followers"])
}

func TestAdminGates(t *testing.T) {
	resetState(t)

	rootToken := registerUser(t, "root")
	plainToken := registerUser(t, "plain")

	w, _ := doJSON(t, http.MethodPost, "/api/v1/admin/cache/clear", plainToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = doJSON(t, http.MethodPost, "/api/v1/admin/cache/clear", rootToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, http.MethodPost, "/api/v1/groups", plainToken, gin.H{"title": "Forbidden"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env := doJSON(t, http.MethodPost, "/api/v1/groups", rootToken, gin.H{"title": "Allowed Topics"})
	require.Equal(t, http.StatusOK, w.Code, "create group: %s", env.Message)
	group := env.Data["group"].(map[string]interface{})
	assert.Equal(t, "allowed-topics", group["slug"])
}

func TestDeleteOwnAccount(t *testing.T) {
	resetState(t)

	token := registerUser(t, "ephemeral")
	w, env := doJSON(t, http.MethodPost, "/api/v1/posts", token, gin.H{"text": "soon gone"})
	require.Equal(t, http.StatusOK, w.Code, "create post: %s", env.Message)

	w, _ = doJSON(t, http.MethodDelete, "/api/v1/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var posts int64
	require.NoError(t, testDB.Model(&models.Post{}).Count(&posts).Error)
	assert.Zero(t, posts, "posts must go with the account")
}
