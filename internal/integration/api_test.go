package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"job-tracker/internal/app"
	"job-tracker/internal/config"
	"job-tracker/internal/pkg/logging"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type semanticResponse struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type tokenData struct {
	AccessToken string `json:"access_token"`
}

type jobData struct {
	ID            uuid.UUID `json:"id"`
	Status        string    `json:"status"`
	StatusHistory []struct {
		Status string `json:"status"`
		Note   string `json:"note"`
	} `json:"statusHistory"`
}

type matchData struct {
	Available bool   `json:"available"`
	Message   string `json:"message"`
	Analysis  *struct {
		SkillsMatch   int      `json:"skillsMatch"`
		MatchedSkills []string `json:"matchedSkills"`
		DataSource    string   `json:"dataSource"`
	} `json:"analysis"`
}

func testConfig() config.Config {
	return config.Config{
		App:     config.AppConfig{AppName: "job-tracker-test", Environment: "test", HTTPPort: "0", StatusPolicy: "permissive"},
		Log:     config.LogConfig{Level: "error"},
		Storage: config.StorageConfig{Backend: config.BackendMemory},
		JWT: config.JWTConfig{
			AccessSecret:  "access-secret",
			RefreshSecret: "refresh-secret",
			AccessTTL:     time.Minute,
			RefreshTTL:    time.Hour,
		},
		Match:    config.MatchConfig{Jitter: "fixed", CacheTTL: time.Minute},
		Analysis: config.AnalysisConfig{Workers: 2, QueueSize: 8, Timeout: 5 * time.Second, Retention: time.Minute},
		Resume:   config.ResumeConfig{Extractor: "text", MaxUploadBytes: 1 << 20},
		Scraper:  config.ScraperConfig{RatePerSec: 1, Burst: 1, Timeout: time.Second},
	}
}

func newTestApp(t *testing.T) *app.App {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c, err := app.NewContainer(ctx, testConfig(), logging.Nop())
	require.NoError(t, err)
	require.NoError(t, c.Start())
	t.Cleanup(func() { _ = c.Close() })

	return app.New(c)
}

func do(t *testing.T, a *app.App, method, path, token string, body any) (*http.Response, semanticResponse) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return send(t, a, req, token)
}

func send(t *testing.T, a *app.App, req *http.Request, token string) (*http.Response, semanticResponse) {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := a.Fiber.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var sr semanticResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sr))
	return resp, sr
}

func register(t *testing.T, a *app.App, email string) string {
	t.Helper()
	resp, sr := do(t, a, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name": "Jane", "email": email, "password": "s3cret-pass",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var tok tokenData
	require.NoError(t, json.Unmarshal(sr.Data, &tok))
	require.NotEmpty(t, tok.AccessToken)
	return tok.AccessToken
}

func createJob(t *testing.T, a *app.App, token string) jobData {
	t.Helper()
	resp, sr := do(t, a, http.MethodPost, "/api/v1/jobs", token, map[string]any{
		"jobTitle":    "Senior React Developer",
		"companyName": "Acme",
		"details":     "<p>We need <b>React</b>, TypeScript and AWS.</p>",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var j jobData
	require.NoError(t, json.Unmarshal(sr.Data, &j))
	return j
}

func TestIntegration_JobLifecycleAndMatch(t *testing.T) {
	a := newTestApp(t)
	token := register(t, a, "jane@example.com")

	j := createJob(t, a, token)
	assert.Equal(t, "listed", j.Status)
	require.Len(t, j.StatusHistory, 1)

	resp, sr := do(t, a, http.MethodGet, "/api/v1/jobs/"+j.ID.String()+"/match", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var m matchData
	require.NoError(t, json.Unmarshal(sr.Data, &m))
	assert.False(t, m.Available)
	assert.NotEmpty(t, m.Message)

	resp, _ = do(t, a, http.MethodPut, "/api/v1/me/profile", token, map[string]any{
		"fullName": "Jane",
		"skills":   []string{"React", "Go"},
		"workExperience": []map[string]any{
			{"jobTitle": "Frontend Engineer", "company": "Initech", "description": "Built React dashboards"},
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, sr = do(t, a, http.MethodGet, "/api/v1/jobs/"+j.ID.String()+"/match", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	m = matchData{}
	require.NoError(t, json.Unmarshal(sr.Data, &m))
	require.True(t, m.Available)
	require.NotNil(t, m.Analysis)
	assert.Equal(t, 33, m.Analysis.SkillsMatch)
	assert.Equal(t, []string{"React"}, m.Analysis.MatchedSkills)
	assert.Equal(t, "profile", m.Analysis.DataSource)

	resp, sr = do(t, a, http.MethodPatch, "/api/v1/jobs/"+j.ID.String()+"/status", token, map[string]string{
		"status": "applied", "note": "sent cv",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated jobData
	require.NoError(t, json.Unmarshal(sr.Data, &updated))
	assert.Equal(t, "applied", updated.Status)
	require.Len(t, updated.StatusHistory, 2)
	assert.Equal(t, "sent cv", updated.StatusHistory[1].Note)

	resp, sr = do(t, a, http.MethodPatch, "/api/v1/jobs/"+j.ID.String()+"/status", token, map[string]string{
		"status": "hired",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, http.StatusBadRequest, sr.Status)
	assert.JSONEq(t, `{"field":"status"}`, string(sr.Data))
}

func TestIntegration_ResumeOverridesProfile(t *testing.T) {
	a := newTestApp(t)
	token := register(t, a, "sam@example.com")
	j := createJob(t, a, token)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", "cv.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte("Engineer with React, TypeScript and AWS experience."))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/"+j.ID.String()+"/resume", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, _ := send(t, a, req, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, sr := do(t, a, http.MethodGet, "/api/v1/jobs/"+j.ID.String()+"/match", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var m matchData
	require.NoError(t, json.Unmarshal(sr.Data, &m))
	require.True(t, m.Available)
	assert.Equal(t, 100, m.Analysis.SkillsMatch)
	assert.Equal(t, "uploaded-resume", m.Analysis.DataSource)
}

func TestIntegration_OwnerScopingAndAuth(t *testing.T) {
	a := newTestApp(t)
	alice := register(t, a, "alice@example.com")
	bob := register(t, a, "bob@example.com")
	j := createJob(t, a, alice)

	resp, _ := do(t, a, http.MethodGet, "/api/v1/jobs/"+j.ID.String(), bob, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, sr := do(t, a, http.MethodGet, "/api/v1/jobs", bob, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(sr.Data))

	resp, _ = do(t, a, http.MethodGet, "/api/v1/jobs", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = do(t, a, http.MethodGet, "/api/v1/jobs/not-a-uuid", alice, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestIntegration_HealthAndMetrics(t *testing.T) {
	a := newTestApp(t)

	resp, sr := do(t, a, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, http.StatusOK, sr.Status)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp, err := a.Fiber.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestIntegration_AccountAndProfileExport(t *testing.T) {
	a := newTestApp(t)
	token := register(t, a, "kim@example.com")

	resp, sr := do(t, a, http.MethodPatch, "/api/v1/me", token, map[string]string{"name": "Kim Lee"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me struct {
		Name         string `json:"name"`
		Email        string `json:"email"`
		PasswordHash string `json:"passwordHash"`
	}
	require.NoError(t, json.Unmarshal(sr.Data, &me))
	assert.Equal(t, "Kim Lee", me.Name)
	assert.Equal(t, "kim@example.com", me.Email)
	assert.Empty(t, me.PasswordHash)

	resp, _ = do(t, a, http.MethodPut, "/api/v1/me/profile", token, map[string]any{
		"fullName": "Kim Lee",
		"skills":   []string{"Go", "Docker"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me/profile/export", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := a.Fiber.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "KIM LEE")
	assert.Contains(t, string(body), "Go, Docker")
}

func TestIntegration_ExportAndClearAllData(t *testing.T) {
	a := newTestApp(t)
	token := register(t, a, "lee@example.com")
	j := createJob(t, a, token)
	resp, _ := do(t, a, http.MethodPut, "/api/v1/me/profile", token, map[string]any{
		"fullName": "Lee",
		"skills":   []string{"React"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me/data", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := a.Fiber.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "job-tracker-data-")

	var export struct {
		Jobs    []jobData `json:"jobs"`
		Profile struct {
			FullName string   `json:"fullName"`
			Skills   []string `json:"skills"`
		} `json:"profile"`
		ExportDate time.Time `json:"exportDate"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&export))
	require.Len(t, export.Jobs, 1)
	assert.Equal(t, j.ID, export.Jobs[0].ID)
	assert.Equal(t, []string{"React"}, export.Profile.Skills)
	assert.False(t, export.ExportDate.IsZero())

	resp, _ = do(t, a, http.MethodDelete, "/api/v1/me/data", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, sr := do(t, a, http.MethodGet, "/api/v1/jobs", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(sr.Data))

	resp, sr = do(t, a, http.MethodGet, "/api/v1/me/profile", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var p struct {
		FullName string   `json:"fullName"`
		Skills   []string `json:"skills"`
	}
	require.NoError(t, json.Unmarshal(sr.Data, &p))
	assert.Empty(t, p.Skills)

	resp, _ = do(t, a, http.MethodGet, "/api/v1/me/data", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestIntegration_ResumeForOneJobLeavesOtherJobMatch(t *testing.T) {
	a := newTestApp(t)
	token := register(t, a, "max@example.com")
	x := createJob(t, a, token)
	y := createJob(t, a, token)
	resp, _ := do(t, a, http.MethodPut, "/api/v1/me/profile", token, map[string]any{
		"fullName": "Max",
		"skills":   []string{"React"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	match := func(id uuid.UUID) matchData {
		resp, sr := do(t, a, http.MethodGet, "/api/v1/jobs/"+id.String()+"/match", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var m matchData
		require.NoError(t, json.Unmarshal(sr.Data, &m))
		require.True(t, m.Available)
		return m
	}
	before := match(y.ID)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", "cv.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte("Engineer with React, TypeScript and AWS experience."))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/"+x.ID.String()+"/resume", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, _ = send(t, a, req, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	assert.Equal(t, "uploaded-resume", match(x.ID).Analysis.DataSource)
	after := match(y.ID)
	assert.Equal(t, "profile", after.Analysis.DataSource)
	assert.Equal(t, before.Analysis.SkillsMatch, after.Analysis.SkillsMatch)
	assert.Equal(t, before.Analysis.MatchedSkills, after.Analysis.MatchedSkills)
}
