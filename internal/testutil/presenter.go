package testutil

import (
	"context"
	"os"
	"sync"

	"github.com/Belphemur/MediaFinder/internal/models"
)

// Presented is one call the RecordingPresenter received.
type Presented struct {
	Method  string // "choices", "text", "image", "video", "document"
	Text    string // caption or text body
	Path    string
	Choices []models.Choice
	// FileExisted and Size describe Path at the moment of the call.
	FileExisted bool
	Size        int64
}

// RecordingPresenter records every rendering call. The Fail* hooks let tests
// make individual deliveries fail.
type RecordingPresenter struct {
	mu    sync.Mutex
	calls []Presented

	FailImage    func(path, caption string) error
	FailVideo    func(path, caption string) error
	FailDocument func(path, caption string) error
}

func (p *RecordingPresenter) record(c Presented) {
	if c.Path != "" {
		if info, err := os.Stat(c.Path); err == nil {
			c.FileExisted = true
			c.Size = info.Size()
		}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, c)
}

func (p *RecordingPresenter) PresentChoices(_ context.Context, caption string, options []models.Choice) error {
	p.record(Presented{Method: "choices", Text: caption, Choices: append([]models.Choice(nil), options...)})
	return nil
}

func (p *RecordingPresenter) PresentText(_ context.Context, text string) error {
	p.record(Presented{Method: "text", Text: text})
	return nil
}

func (p *RecordingPresenter) PresentImage(_ context.Context, path, caption string) error {
	if p.FailImage != nil {
		if err := p.FailImage(path, caption); err != nil {
			return err
		}
	}
	p.record(Presented{Method: "image", Text: caption, Path: path})
	return nil
}

func (p *RecordingPresenter) PresentVideo(_ context.Context, path, caption string) error {
	if p.FailVideo != nil {
		if err := p.FailVideo(path, caption); err != nil {
			return err
		}
	}
	p.record(Presented{Method: "video", Text: caption, Path: path})
	return nil
}

func (p *RecordingPresenter) PresentDocument(_ context.Context, path, caption string) error {
	if p.FailDocument != nil {
		if err := p.FailDocument(path, caption); err != nil {
			return err
		}
	}
	p.record(Presented{Method: "document", Text: caption, Path: path})
	return nil
}

// Calls returns a copy of the recorded calls.
func (p *RecordingPresenter) Calls() []Presented {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Presented(nil), p.calls...)
}

// ByMethod returns the recorded calls of one method.
func (p *RecordingPresenter) ByMethod(method string) []Presented {
	var out []Presented
	for _, c := range p.Calls() {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// Texts returns the bodies of all text calls.
func (p *RecordingPresenter) Texts() []string {
	var out []string
	for _, c := range p.ByMethod("text") {
		out = append(out, c.Text)
	}
	return out
}

// Last returns the most recent call, or a zero value when nothing was presented.
func (p *RecordingPresenter) Last() Presented {
	calls := p.Calls()
	if len(calls) == 0 {
		return Presented{}
	}
	return calls[len(calls)-1]
}

// Reset forgets all recorded calls.
func (p *RecordingPresenter) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = nil
}
