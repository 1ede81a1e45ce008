package console

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/Belphemur/MediaFinder/internal/models"
)

// Presenter renders dialogue replies on a terminal. Delivered files are
// copied into SaveDir when it is set, since the originals are released right
// after delivery.
type Presenter struct {
	out      io.Writer
	saveDir  string
	colorize bool

	mu      sync.Mutex
	choices []models.Choice
}

// NewPresenter writes to out and keeps delivered files in saveDir (optional).
func NewPresenter(out io.Writer, saveDir string) *Presenter {
	return &Presenter{out: out, saveDir: saveDir, colorize: shouldColorize(out)}
}

func (p *Presenter) PresentChoices(_ context.Context, caption string, options []models.Choice) error {
	p.mu.Lock()
	p.choices = append([]models.Choice(nil), options...)
	p.mu.Unlock()
	_, err := fmt.Fprintf(p.out, "%s\n%s\n", p.highlight(caption), RenderChoices(options))
	return err
}

func (p *Presenter) PresentText(_ context.Context, msg string) error {
	_, err := fmt.Fprintln(p.out, msg)
	return err
}

func (p *Presenter) PresentImage(_ context.Context, path, caption string) error {
	return p.deliver("image", path, caption)
}

func (p *Presenter) PresentVideo(_ context.Context, path, caption string) error {
	return p.deliver("video", path, caption)
}

func (p *Presenter) PresentDocument(_ context.Context, path, caption string) error {
	return p.deliver("document", path, caption)
}

// TokenFor maps a 1-based option number typed by the user to the token of
// the last presented choices.
func (p *Presenter) TokenFor(n int) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n < 1 || n > len(p.choices) {
		return "", false
	}
	return p.choices[n-1].Token, true
}

func (p *Presenter) deliver(kind, path, caption string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", kind, err)
	}
	target := path
	if p.saveDir != "" {
		target, err = CopyFile(path, p.saveDir)
		if err != nil {
			return err
		}
	}
	_, err = fmt.Fprintf(p.out, "%s [%s, %d bytes] %s\n%s\n", p.highlight("▶"), kind, info.Size(), target, caption)
	return err
}

func (p *Presenter) highlight(s string) string {
	if !p.colorize {
		return s
	}
	return text.Colors{text.FgHiCyan, text.Bold}.Sprint(s)
}

// CopyFile copies src into dir, keeping its base name, and returns the new path.
func CopyFile(src, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	in, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer in.Close()

	dst := filepath.Join(dir, filepath.Base(src))
	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return "", fmt.Errorf("failed to copy %s: %w", filepath.Base(src), err)
	}
	return dst, out.Close()
}
