package imagesource

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Outcome tags the result of an image request
type Outcome int

const (
	OutcomeCancelled Outcome = iota
	OutcomeSourceError
	OutcomeCaptured
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCaptured:
		return "captured"
	case OutcomeSourceError:
		return "source_error"
	default:
		return "cancelled"
	}
}

// Capture is what the image source reported. Reason is set for
// OutcomeSourceError, URI and MimeType for OutcomeCaptured.
type Capture struct {
	Outcome  Outcome
	Reason   string
	URI      string
	MimeType string
}

func Cancelled() Capture {
	return Capture{Outcome: OutcomeCancelled}
}

func SourceError(reason string) Capture {
	return Capture{Outcome: OutcomeSourceError, Reason: reason}
}

func Captured(uri, mimeType string) Capture {
	return Capture{Outcome: OutcomeCaptured, URI: uri, MimeType: mimeType}
}

// Options are the labels shown when asking the user for an image
type Options struct {
	Title                        string
	CancelButtonTitle            string
	TakePhotoButtonTitle         string
	ChooseFromLibraryButtonTitle string
}

// DefaultOptions returns the avatar picker labels
func DefaultOptions() Options {
	return Options{
		Title:                        "Select an avatar",
		CancelButtonTitle:            "Cancel",
		TakePhotoButtonTitle:         "Use camera",
		ChooseFromLibraryButtonTitle: "Choose from library",
	}
}

// FileSource yields a fixed file without asking. An empty path means the
// user declined.
type FileSource struct {
	Path string
}

// RequestImage resolves the configured path
func (s FileSource) RequestImage(ctx context.Context, _ Options) Capture {
	if ctx.Err() != nil {
		return Cancelled()
	}
	return resolve(s.Path)
}

// PromptSource asks on a terminal which source to use.
//
// The answer is read on a separate goroutine. When ctx ends first that
// goroutine stays blocked on In until a line arrives or In is closed, so
// long-lived callers should pass a reader they can close.
type PromptSource struct {
	In  io.Reader
	Out io.Writer
}

// RequestImage shows the choice and waits for an answer or for ctx to end.
// A cancelled context counts as the user declining.
func (s PromptSource) RequestImage(ctx context.Context, opts Options) Capture {
	answers := make(chan Capture, 1)

	go func() {
		answers <- s.ask(opts)
	}()

	select {
	case <-ctx.Done():
		return Cancelled()
	case capture := <-answers:
		return capture
	}
}

func (s PromptSource) ask(opts Options) Capture {
	fmt.Fprintf(s.Out, "%s\n  1) %s\n  2) %s\n  3) %s\n> ",
		opts.Title, opts.TakePhotoButtonTitle, opts.ChooseFromLibraryButtonTitle, opts.CancelButtonTitle)

	reader := bufio.NewReader(s.In)
	choice, err := readLine(reader)
	if err != nil {
		return Cancelled()
	}

	switch choice {
	case "1":
		return SourceError("camera is not available on this device")
	case "2":
		fmt.Fprint(s.Out, "Image path: ")
		p, err := readLine(reader)
		if err != nil {
			return Cancelled()
		}
		return resolve(p)
	default:
		return Cancelled()
	}
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func resolve(p string) Capture {
	if p == "" {
		return Cancelled()
	}

	abs, err := filepath.Abs(p)
	if err != nil {
		return SourceError(err.Error())
	}

	info, err := os.Stat(abs)
	if err != nil {
		switch {
		case os.IsPermission(err):
			return SourceError("permission denied")
		case os.IsNotExist(err):
			return SourceError("file not found")
		default:
			return SourceError(err.Error())
		}
	}
	if info.IsDir() {
		return SourceError("not a file")
	}

	mtype, err := mimetype.DetectFile(abs)
	if err != nil {
		return SourceError(err.Error())
	}
	if !strings.HasPrefix(mtype.String(), "image/") {
		return SourceError("not an image: " + mtype.String())
	}

	return Captured("file://"+abs, mtype.String())
}

// Open returns the content behind a captured URI
func Open(uri string) (io.ReadCloser, error) {
	p := strings.TrimPrefix(uri, "file://")
	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return f, nil
}
