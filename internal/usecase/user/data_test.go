package user

import (
	"context"
	"testing"
	"time"

	"job-tracker/internal/domain"
	"job-tracker/internal/domain/job"
	"job-tracker/internal/domain/profile"
	"job-tracker/internal/domain/user"
	"job-tracker/internal/pkg/logging"
	"job-tracker/internal/repository"
	"job-tracker/internal/storage/kv"
	"job-tracker/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ownerCanceler struct{ owners []string }

func (c *ownerCanceler) Cancel(string, uuid.UUID) {}
func (c *ownerCanceler) CancelOwner(owner string) { c.owners = append(c.owners, owner) }

type dataFixture struct {
	svc      *DataService
	store    *kv.Memory
	jobs     *repository.KVJobRepository
	profiles *repository.KVProfileRepository
	resumes  *repository.KVResumeRepository
	canceler *ownerCanceler
	id       usecase.Identity
}

func newDataFixture(t *testing.T) *dataFixture {
	t.Helper()
	store := kv.NewMemory()
	users := repository.NewKVUserRepository(store)
	require.NoError(t, users.Create(context.Background(), user.User{ID: uuid.New(), Name: "Jane", Email: "jane@example.com", PasswordHash: "x"}))

	f := &dataFixture{
		store:    store,
		jobs:     repository.NewKVJobRepository(store, logging.Nop()),
		profiles: repository.NewKVProfileRepository(store),
		resumes:  repository.NewKVResumeRepository(store),
		canceler: &ownerCanceler{},
		id:       usecase.Identity{Email: "Jane@Example.com"},
	}
	f.svc = NewDataService(DataDeps{
		Jobs:        f.jobs,
		Profiles:    f.profiles,
		Resumes:     f.resumes,
		Users:       users,
		Invalidator: usecase.NewInvalidator(nil, f.canceler, logging.Nop()),
		Logger:      logging.Nop(),
	})
	f.svc.now = func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) }
	return f
}

func (f *dataFixture) seed(t *testing.T) []job.Job {
	t.Helper()
	ctx := context.Background()
	var list []job.Job
	for _, title := range []string{"React Developer", "Data Scientist"} {
		j := job.Job{ID: uuid.New(), Title: title, CompanyName: "Acme", CreatedAt: time.Now().UTC()}
		require.NoError(t, job.NewLifecycle(nil, nil).Start(&j, "", ""))
		list = append(list, j)
	}
	require.NoError(t, f.jobs.Save(ctx, "jane@example.com", list))

	p := profile.Empty("Jane", "jane@example.com")
	p.Skills = []string{"Go"}
	require.NoError(t, f.profiles.Save(ctx, "jane@example.com", p))
	require.NoError(t, f.resumes.Save(ctx, profile.JobSpecificResume{OwnerEmail: "jane@example.com", JobID: list[0].ID, Skills: []string{"React"}}))
	return list
}

func TestExportData_EmptyAccount(t *testing.T) {
	f := newDataFixture(t)

	out, err := f.svc.ExportData(context.Background(), f.id)
	require.NoError(t, err)
	assert.Empty(t, out.Jobs)
	assert.NotNil(t, out.Jobs)
	assert.Equal(t, map[string]any{}, out.Profile)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), out.ExportDate)
}

func TestExportData_JobsAndProfile(t *testing.T) {
	f := newDataFixture(t)
	list := f.seed(t)

	out, err := f.svc.ExportData(context.Background(), f.id)
	require.NoError(t, err)
	require.Len(t, out.Jobs, 2)
	assert.Equal(t, list[0].ID, out.Jobs[0].ID)
	p, ok := out.Profile.(profile.CandidateProfile)
	require.True(t, ok)
	assert.Equal(t, []string{"Go"}, p.Skills)

	_, err = f.svc.ExportData(context.Background(), usecase.Identity{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestClearData_RemovesJobsResumesAndProfile(t *testing.T) {
	f := newDataFixture(t)
	ctx := context.Background()
	list := f.seed(t)

	require.NoError(t, f.svc.ClearData(ctx, f.id))

	jobs, err := f.jobs.Load(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Empty(t, jobs)

	_, found, err := f.resumes.Get(ctx, "jane@example.com", list[0].ID)
	require.NoError(t, err)
	assert.False(t, found)

	p, found, err := f.profiles.Get(ctx, "jane@example.com")
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, p.IsEmpty())
	assert.Equal(t, "Jane", p.FullName)
	assert.Equal(t, "jane@example.com", p.Email)

	assert.Equal(t, []string{"jane@example.com"}, f.canceler.owners)

	out, err := f.svc.ExportData(ctx, f.id)
	require.NoError(t, err)
	assert.Empty(t, out.Jobs)
}

func TestClearData_AlsoDropsMalformedRecords(t *testing.T) {
	f := newDataFixture(t)
	ctx := context.Background()
	raw := `[{"id":"22222222-2222-2222-2222-222222222222","jobTitle":"","companyName":"Acme"}]`
	require.NoError(t, f.store.Put(ctx, kv.NamespaceJobs, "jane@example.com", []byte(raw)))

	require.NoError(t, f.svc.ClearData(ctx, f.id))

	_, err := f.store.Get(ctx, kv.NamespaceJobs, "jane@example.com")
	assert.ErrorIs(t, err, kv.ErrNotFound)
}
