package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Noxaewr/good-night-app/internal"
	"github.com/Noxaewr/good-night-app/internal/api"
	"github.com/Noxaewr/good-night-app/internal/storage"
)

// Wednesday; the previous calendar week is 2024-03-11 through 2024-03-17.
var testNow = time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)

type testApp struct {
	logger internal.Logger
	repos  *storage.Repositories
}

func (a *testApp) Logger() internal.Logger                  { return a.logger }
func (a *testApp) Clock() internal.Clock                    { return func() time.Time { return testNow } }
func (a *testApp) UserRepo() storage.UserRepository         { return a.repos.Users }
func (a *testApp) FollowRepo() storage.FollowRepository     { return a.repos.Follows }
func (a *testApp) SleepRepo() storage.SleepRecordRepository { return a.repos.SleepRecords }

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	logger := internal.NewZapLogger(zap.NewNop().Sugar())
	repos, err := storage.NewFileRepositories(
		filepath.Join(dir, "users.json"),
		filepath.Join(dir, "follows.json"),
		filepath.Join(dir, "sleep_records.json"),
		logger,
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Closer.Close() })
	return api.NewRouter(&testApp{logger: logger, repos: repos})
}

type envelope struct {
	Data  json.RawMessage    `json:"data"`
	Meta  map[string]any     `json:"meta"`
	Error *internal.AppError `json:"error"`
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) (int, envelope) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w.Code, env
}

func createUser(t *testing.T, r *gin.Engine, name string) string {
	t.Helper()
	code, env := doJSON(t, r, "POST", "/v1/users", `{"name":"`+name+`"}`)
	require.Equal(t, http.StatusCreated, code)
	var user struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &user))
	require.NotEmpty(t, user.ID)
	return user.ID
}

func TestPostUser_ValidAndInvalid(t *testing.T) {
	r := setupRouter(t)

	createUser(t, r, "Alice")

	code, env := doJSON(t, r, "POST", "/v1/users", `{"name":"A"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	require.NotNil(t, env.Error)

	code, _ = doJSON(t, r, "POST", "/v1/users", `{bad json`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestGetUser_NotFound(t *testing.T) {
	r := setupRouter(t)

	code, env := doJSON(t, r, "GET", "/v1/users/does-not-exist", "")
	assert.Equal(t, http.StatusNotFound, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, internal.CodeNotFound, env.Error.Code)
}

func TestFollowFlow(t *testing.T) {
	r := setupRouter(t)
	alice := createUser(t, r, "Alice")
	bob := createUser(t, r, "Bob")

	code, env := doJSON(t, r, "POST", "/v1/users/"+alice+"/follow", `{"target_user_id":"`+bob+`"}`)
	require.Equal(t, http.StatusCreated, code)
	var summary struct {
		Message        string `json:"message"`
		FollowingCount int    `json:"following_count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Equal(t, "Successfully followed Bob", summary.Message)
	assert.Equal(t, 1, summary.FollowingCount)

	// Duplicate
	code, env = doJSON(t, r, "POST", "/v1/users/"+alice+"/follow", `{"target_user_id":"`+bob+`"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, internal.CodeDuplicateFollow, env.Error.Code)

	// Self-follow
	code, env = doJSON(t, r, "POST", "/v1/users/"+alice+"/follow", `{"target_user_id":"`+alice+`"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, internal.CodeSelfFollow, env.Error.Code)

	// Unknown target
	code, env = doJSON(t, r, "POST", "/v1/users/"+alice+"/follow", `{"target_user_id":"nope"}`)
	assert.Equal(t, http.StatusNotFound, code)

	// Following list includes Bob
	code, env = doJSON(t, r, "GET", "/v1/users/"+alice+"/following", "")
	require.Equal(t, http.StatusOK, code)
	var users []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &users))
	require.Len(t, users, 1)
	assert.Equal(t, bob, users[0].ID)
	assert.EqualValues(t, 1, env.Meta["following_count"])

	// Unfollow, then unfollow again
	code, _ = doJSON(t, r, "DELETE", "/v1/users/"+alice+"/unfollow", `{"target_user_id":"`+bob+`"}`)
	assert.Equal(t, http.StatusOK, code)

	code, env = doJSON(t, r, "DELETE", "/v1/users/"+alice+"/unfollow", `{"target_user_id":"`+bob+`"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, internal.CodeNotFollowing, env.Error.Code)
}

func TestPostSleepRecord_ValidAndInvalid(t *testing.T) {
	r := setupRouter(t)
	alice := createUser(t, r, "Alice")

	code, env := doJSON(t, r, "POST", "/v1/users/"+alice+"/sleep_records",
		`{"bedtime":"2024-03-11T22:00:00Z","wake_time":"2024-03-12T06:00:00Z"}`)
	require.Equal(t, http.StatusCreated, code)
	var record struct {
		DurationMinutes int     `json:"duration_minutes"`
		DurationHours   float64 `json:"duration_hours"`
		UserName        string  `json:"user_name"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &record))
	assert.Equal(t, 480, record.DurationMinutes)
	assert.Equal(t, 8.0, record.DurationHours)
	assert.Equal(t, "Alice", record.UserName)

	// Ordering violation
	code, env = doJSON(t, r, "POST", "/v1/users/"+alice+"/sleep_records",
		`{"bedtime":"2024-03-12T06:00:00Z","wake_time":"2024-03-11T22:00:00Z"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, internal.CodeInvalidOrdering, env.Error.Code)

	// Missing wake_time
	code, env = doJSON(t, r, "POST", "/v1/users/"+alice+"/sleep_records",
		`{"bedtime":"2024-03-11T22:00:00Z"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, internal.CodeMissingField, env.Error.Code)
}

func TestFollowingSleepRecords(t *testing.T) {
	r := setupRouter(t)
	alice := createUser(t, r, "Alice")
	bob := createUser(t, r, "Bob")
	carol := createUser(t, r, "Carol")

	for _, target := range []string{bob, carol} {
		code, _ := doJSON(t, r, "POST", "/v1/users/"+alice+"/follow", `{"target_user_id":"`+target+`"}`)
		require.Equal(t, http.StatusCreated, code)
	}

	// Bob: 5h in the previous week; Carol: 10h in the previous week;
	// Bob also has a current-week record that must not appear.
	post := func(userID, bedtime, wakeTime string) {
		code, _ := doJSON(t, r, "POST", "/v1/users/"+userID+"/sleep_records",
			`{"bedtime":"`+bedtime+`","wake_time":"`+wakeTime+`"}`)
		require.Equal(t, http.StatusCreated, code)
	}
	post(bob, "2024-03-11T23:00:00Z", "2024-03-12T04:00:00Z")
	post(carol, "2024-03-12T21:00:00Z", "2024-03-13T07:00:00Z")
	post(bob, "2024-03-18T23:00:00Z", "2024-03-19T07:00:00Z")

	code, env := doJSON(t, r, "GET", "/v1/users/"+alice+"/following_sleep_records", "")
	require.Equal(t, http.StatusOK, code)

	var records []struct {
		UserName        string `json:"user_name"`
		DurationMinutes int    `json:"duration_minutes"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &records))
	require.Len(t, records, 2)
	assert.Equal(t, "Carol", records[0].UserName)
	assert.Equal(t, 600, records[0].DurationMinutes)
	assert.Equal(t, "Bob", records[1].UserName)
	assert.Equal(t, 300, records[1].DurationMinutes)
	assert.EqualValues(t, 2, env.Meta["following_count"])

	pagination, ok := env.Meta["pagination"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 2, pagination["total_items"])
	assert.EqualValues(t, 1, pagination["total_pages"])
}

func TestFollowingSleepRecords_EmptyFollowing(t *testing.T) {
	r := setupRouter(t)
	alice := createUser(t, r, "Alice")

	code, env := doJSON(t, r, "GET", "/v1/users/"+alice+"/following_sleep_records", "")
	require.Equal(t, http.StatusOK, code)
	assert.Nil(t, env.Error)

	var records []any
	if len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, &records))
	}
	assert.Empty(t, records)
	assert.EqualValues(t, 0, env.Meta["following_count"])
}

func TestHealthEndpoint(t *testing.T) {
	r := setupRouter(t)
	req, _ := http.NewRequest("GET", "/up", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
