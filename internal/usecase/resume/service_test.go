package resume

import (
	"context"
	"errors"
	"testing"
	"time"

	"job-tracker/internal/analysis"
	"job-tracker/internal/domain"
	"job-tracker/internal/domain/job"
	"job-tracker/internal/domain/matching"
	"job-tracker/internal/pkg/logging"
	"job-tracker/internal/repository"
	"job-tracker/internal/resume"
	"job-tracker/internal/storage/kv"
	"job-tracker/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSubmitter struct {
	jobs []uuid.UUID
	err  error
}

func (s *recordingSubmitter) Submit(_ string, jobID uuid.UUID) (analysis.Request, error) {
	if s.err != nil {
		return analysis.Request{}, s.err
	}
	s.jobs = append(s.jobs, jobID)
	return analysis.Request{ID: "req-1", JobID: jobID, Status: analysis.StatusPending}, nil
}

type jobCanceler struct{ jobs []uuid.UUID }

func (c *jobCanceler) Cancel(_ string, jobID uuid.UUID) { c.jobs = append(c.jobs, jobID) }
func (c *jobCanceler) CancelOwner(string)               {}

var jane = usecase.Identity{UserID: uuid.New(), Email: "jane@example.com"}

type fixture struct {
	svc       *Service
	submitter *recordingSubmitter
	canceler  *jobCanceler
	jobA      uuid.UUID
	jobB      uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := kv.NewMemory()
	jobs := repository.NewKVJobRepository(store, logging.Nop())

	var list []job.Job
	for _, title := range []string{"React Developer", "Data Scientist"} {
		j := job.Job{ID: uuid.New(), Title: title, CompanyName: "Acme", CreatedAt: time.Now().UTC()}
		require.NoError(t, job.NewLifecycle(nil, nil).Start(&j, "", ""))
		list = append(list, j)
	}
	require.NoError(t, jobs.Save(context.Background(), jane.Email, list))

	f := &fixture{submitter: &recordingSubmitter{}, canceler: &jobCanceler{}, jobA: list[0].ID, jobB: list[1].ID}
	f.svc = NewService(Deps{
		Jobs:           jobs,
		Resumes:        repository.NewKVResumeRepository(store),
		Extractor:      resume.NewTextExtractor(matching.NewVocabulary(matching.DefaultVocabulary)),
		MaxUploadBytes: 1024,
		Invalidator:    usecase.NewInvalidator(nil, f.canceler, logging.Nop()),
		Submitter:      f.submitter,
		Logger:         logging.Nop(),
	})
	return f
}

func TestUpload_ScopedToOneJob(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Upload(ctx, jane, f.jobA, "cv.txt", []byte("React and TypeScript engineer"))
	require.NoError(t, err)
	assert.Equal(t, []string{"React", "TypeScript"}, res.Resume.Skills)
	require.NotNil(t, res.Request)
	assert.Equal(t, "req-1", res.Request.ID)
	assert.Equal(t, []uuid.UUID{f.jobA}, f.submitter.jobs)
	assert.Equal(t, []uuid.UUID{f.jobA}, f.canceler.jobs)

	got, err := f.svc.Get(ctx, jane, f.jobA)
	require.NoError(t, err)
	assert.Equal(t, "cv.txt", got.FileName)

	_, err = f.svc.Get(ctx, jane, f.jobB)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpload_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Upload(ctx, jane, uuid.New(), "cv.txt", []byte("React"))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.Upload(ctx, jane, f.jobA, "cv.txt", nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.svc.Upload(ctx, jane, f.jobA, "cv.pdf", []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n"))
	assert.ErrorIs(t, err, domain.ErrValidation)

	assert.Empty(t, f.submitter.jobs)
}

func TestUpload_QueueFailureStillStores(t *testing.T) {
	f := newFixture(t)
	f.submitter.err = errors.New("queue full")

	res, err := f.svc.Upload(context.Background(), jane, f.jobA, "cv.txt", []byte("Python"))
	require.NoError(t, err)
	assert.Nil(t, res.Request)

	_, err = f.svc.Get(context.Background(), jane, f.jobA)
	assert.NoError(t, err)
}

func TestRemove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.ErrorIs(t, f.svc.Remove(ctx, jane, f.jobA), domain.ErrNotFound)

	_, err := f.svc.Upload(ctx, jane, f.jobA, "cv.txt", []byte("Python"))
	require.NoError(t, err)
	require.NoError(t, f.svc.Remove(ctx, jane, f.jobA))

	_, err = f.svc.Get(ctx, jane, f.jobA)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
