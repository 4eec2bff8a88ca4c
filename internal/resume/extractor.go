package resume

import (
	"context"
	"errors"
	"strings"
	"time"

	"job-tracker/internal/domain/matching"
	"job-tracker/internal/domain/profile"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrEmptyFile         = errors.New("resume file is empty")
	ErrUnsupportedFormat = errors.New("unsupported resume format")
)

// Extraction is what an extractor recovered from an uploaded file. Profile
// is set only by extractors that understand the resume's structure.
type Extraction struct {
	Text    string
	Skills  []string
	Profile *profile.CandidateProfile
}

type Extractor interface {
	Extract(ctx context.Context, fileName string, content []byte) (Extraction, error)
}

// TextExtractor reads plain text, markdown and HTML uploads and scans them
// against the skill vocabulary.
type TextExtractor struct {
	vocab matching.Vocabulary
}

func NewTextExtractor(vocab matching.Vocabulary) *TextExtractor {
	return &TextExtractor{vocab: vocab}
}

func (e *TextExtractor) Extract(ctx context.Context, _ string, content []byte) (Extraction, error) {
	if len(content) == 0 {
		return Extraction{}, ErrEmptyFile
	}
	if err := ctx.Err(); err != nil {
		return Extraction{}, err
	}
	mt := mimetype.Detect(content)
	if !isText(mt) {
		return Extraction{}, ErrUnsupportedFormat
	}
	text := string(content)
	if mt.Is("text/html") {
		text = matching.PlainText(text)
	}
	text = strings.TrimSpace(text)
	return Extraction{Text: text, Skills: e.vocab.Extract(text)}, nil
}

// CannedExtractor stands in for a real document parser: after delay it
// returns a fixed sample resume. The wait honours ctx.
type CannedExtractor struct {
	delay time.Duration
	vocab matching.Vocabulary
}

func NewCannedExtractor(delay time.Duration, vocab matching.Vocabulary) *CannedExtractor {
	return &CannedExtractor{delay: delay, vocab: vocab}
}

func (e *CannedExtractor) Extract(ctx context.Context, fileName string, content []byte) (Extraction, error) {
	if len(content) == 0 {
		return Extraction{}, ErrEmptyFile
	}
	if e.delay > 0 {
		t := time.NewTimer(e.delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return Extraction{}, ctx.Err()
		case <-t.C:
		}
	}
	text := cannedText(fileName)
	p := cannedProfile()
	return Extraction{Text: text, Skills: e.vocab.Extract(text), Profile: &p}, nil
}

// Chain routes text uploads to Text and everything else to Fallback.
type Chain struct {
	Text     Extractor
	Fallback Extractor
}

func (c Chain) Extract(ctx context.Context, fileName string, content []byte) (Extraction, error) {
	if len(content) == 0 {
		return Extraction{}, ErrEmptyFile
	}
	if c.Text != nil && isText(mimetype.Detect(content)) {
		return c.Text.Extract(ctx, fileName, content)
	}
	if c.Fallback == nil {
		return Extraction{}, ErrUnsupportedFormat
	}
	return c.Fallback.Extract(ctx, fileName, content)
}

// ByName builds the extractor selected by RESUME_EXTRACTOR. Unknown names
// fall back to auto.
func ByName(name string, vocab matching.Vocabulary, cannedDelay time.Duration) Extractor {
	text := NewTextExtractor(vocab)
	canned := NewCannedExtractor(cannedDelay, vocab)
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "text":
		return text
	case "canned":
		return canned
	default:
		return Chain{Text: text, Fallback: canned}
	}
}

func isText(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}
