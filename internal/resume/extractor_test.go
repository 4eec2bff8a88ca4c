package resume

import (
	"context"
	"testing"
	"time"

	"job-tracker/internal/domain/matching"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var vocab = matching.NewVocabulary(matching.DefaultVocabulary)

// minimal PDF header; enough for content sniffing.
var pdfBytes = []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n1 0 obj\n<<>>\nendobj\n")

func TestTextExtractor_PlainText(t *testing.T) {
	e := NewTextExtractor(vocab)
	out, err := e.Extract(context.Background(), "cv.txt", []byte("Backend dev. Go, Docker and PostgreSQL.\n"))
	require.NoError(t, err)
	assert.Equal(t, "Backend dev. Go, Docker and PostgreSQL.", out.Text)
	assert.Equal(t, []string{"Docker", "PostgreSQL"}, out.Skills)
	assert.Nil(t, out.Profile)
}

func TestTextExtractor_HTMLIsStripped(t *testing.T) {
	e := NewTextExtractor(vocab)
	out, err := e.Extract(context.Background(), "cv.html", []byte("<html><body><h1>Jane</h1><p>React developer</p></body></html>"))
	require.NoError(t, err)
	assert.NotContains(t, out.Text, "<")
	assert.Contains(t, out.Skills, "React")
}

func TestTextExtractor_RejectsBinary(t *testing.T) {
	_, err := NewTextExtractor(vocab).Extract(context.Background(), "cv.pdf", pdfBytes)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = NewTextExtractor(vocab).Extract(context.Background(), "cv.txt", nil)
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestCannedExtractor_ReturnsSample(t *testing.T) {
	out, err := NewCannedExtractor(0, vocab).Extract(context.Background(), "jane.pdf", pdfBytes)
	require.NoError(t, err)
	assert.Contains(t, out.Text, "jane Resume")
	assert.Contains(t, out.Skills, "React")
	assert.Contains(t, out.Skills, "Kubernetes")
	require.NotNil(t, out.Profile)
	assert.NotEmpty(t, out.Profile.Education)
}

func TestCannedExtractor_HonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewCannedExtractor(time.Hour, vocab).Extract(ctx, "a.pdf", pdfBytes)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestChain_RoutesByContent(t *testing.T) {
	c := ByName("auto", vocab, 0)

	out, err := c.Extract(context.Background(), "cv.txt", []byte("Python and Pandas"))
	require.NoError(t, err)
	assert.Nil(t, out.Profile)
	assert.Equal(t, []string{"Python", "Pandas"}, out.Skills)

	out, err = c.Extract(context.Background(), "cv.pdf", pdfBytes)
	require.NoError(t, err)
	assert.NotNil(t, out.Profile)
}

func TestByName(t *testing.T) {
	assert.IsType(t, &TextExtractor{}, ByName("text", vocab, 0))
	assert.IsType(t, &CannedExtractor{}, ByName("canned", vocab, 0))
	assert.IsType(t, Chain{}, ByName("", vocab, 0))
}
