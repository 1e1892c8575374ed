// Package client implements the résumé upload widget and the results view
// used by cvctl.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fadilmartias/cv-feedback/internal/config"
	"github.com/fadilmartias/cv-feedback/internal/dto"
	"github.com/fadilmartias/cv-feedback/internal/i18n"
	"github.com/fadilmartias/cv-feedback/internal/service"
	"github.com/fadilmartias/cv-feedback/internal/storage"
	"github.com/fadilmartias/cv-feedback/internal/util"
)

type State string

const (
	StateIdle        State = "idle"
	StateValidating  State = "validating"
	StateRejected    State = "rejected"
	StateUploading   State = "uploading"
	StateRedirecting State = "redirecting"
	StateFailed      State = "idle-with-error"
)

const (
	progressStep     = 10
	progressCap      = 90
	progressDone     = 100
	progressInterval = 300 * time.Millisecond
	sniffLen         = 3072
)

// UploadError carries the localized message shown to the user.
type UploadError struct {
	Message string
	Err     error
}

func (e *UploadError) Error() string { return e.Message }

func (e *UploadError) Unwrap() error { return e.Err }

// Uploader validates a résumé, submits it for analysis and stores the
// result for the results view.
type Uploader struct {
	analyzer service.AnalyzerServiceInterface
	results  *storage.Results
	lang     *i18n.Store
	timeout  time.Duration
	interval time.Duration

	OnState    func(State)
	OnProgress func(int)

	mu    sync.Mutex
	state State
}

// NewUploader submits through analyzer, which may point at the proxy or
// straight at the analysis backend. A zero timeout means 30 seconds.
func NewUploader(analyzer service.AnalyzerServiceInterface, results *storage.Results, lang *i18n.Store, timeout time.Duration) *Uploader {
	if timeout <= 0 {
		timeout = config.DefaultRequestTimeout
	}
	return &Uploader{
		analyzer: analyzer,
		results:  results,
		lang:     lang,
		timeout:  timeout,
		interval: progressInterval,
		state:    StateIdle,
	}
}

func (u *Uploader) State() State {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.state
}

type document struct {
	name        string
	contentType string
	content     []byte
	size        int64
}

// UploadFile submits the file at path. Files over the size limit are never
// read in full.
func (u *Uploader) UploadFile(ctx context.Context, path string, analysisLang i18n.Language, jobDescription string) (*service.AnalyzeResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	doc := document{name: filepath.Base(path), size: info.Size()}
	if doc.size > util.MaxUploadSize {
		head := make([]byte, sniffLen)
		n, err := io.ReadFull(f, head)
		if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		doc.contentType = util.ResolveContentType("", head[:n])
	} else {
		doc.content, err = io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		doc.size = int64(len(doc.content))
	}
	return u.submit(ctx, doc, analysisLang, jobDescription)
}

// SubmitFile submits in-memory content, e.g. a dropped file. An empty
// contentType is sniffed.
func (u *Uploader) SubmitFile(ctx context.Context, name, contentType string, content []byte, analysisLang i18n.Language, jobDescription string) (*service.AnalyzeResult, error) {
	return u.submit(ctx, document{
		name:        name,
		contentType: contentType,
		content:     content,
		size:        int64(len(content)),
	}, analysisLang, jobDescription)
}

func (u *Uploader) submit(ctx context.Context, doc document, analysisLang i18n.Language, jobDescription string) (*service.AnalyzeResult, error) {
	u.setState(StateValidating)

	doc.contentType = util.ResolveContentType(doc.contentType, doc.content)
	if err := util.ValidateFile(doc.name, doc.contentType, doc.size); err != nil {
		return nil, u.reject(err)
	}
	req := &dto.UploadRequest{
		FileName:       doc.name,
		ContentType:    doc.contentType,
		Content:        doc.content,
		Language:       string(analysisLang),
		JobDescription: strings.TrimSpace(jobDescription),
	}
	if err := req.Validate(); err != nil {
		return nil, u.reject(err)
	}

	u.setState(StateUploading)
	u.progress(0)
	stop := u.startProgress()

	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()
	result, err := u.analyzer.Analyze(ctx, req)
	stop()
	if err != nil {
		return nil, u.fail(u.uploadErrorMessage(err), err)
	}

	if err := u.results.Save(ctx, result.AnalysisRaw); err != nil {
		return nil, u.fail(u.lang.T(i18n.UploadError), err)
	}

	u.progress(progressDone)
	u.setState(StateRedirecting)
	return result, nil
}

// startProgress advances the synthetic progress until the returned stop
// func is called. No update is published after stop returns.
func (u *Uploader) startProgress() (stop func()) {
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(u.interval)
		defer ticker.Stop()

		progress := 0
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if progress < progressCap {
					progress += progressStep
					u.progress(progress)
				}
			}
		}
	}()
	return func() {
		close(done)
		wg.Wait()
	}
}

func (u *Uploader) reject(err error) error {
	msg := u.lang.T(i18n.UploadError)
	var fileErr *util.FileError
	if errors.As(err, &fileErr) {
		msg = u.lang.T(i18n.InvalidFileType)
		if fileErr.Kind == util.FileTooLarge {
			msg = u.lang.T(i18n.FileTooLarge)
		}
	}
	u.setState(StateRejected)
	u.setState(StateIdle)
	return &UploadError{Message: msg, Err: err}
}

func (u *Uploader) fail(msg string, err error) error {
	log.Printf("Upload failed: %v", err)
	u.progress(0)
	u.setState(StateFailed)
	return &UploadError{Message: msg, Err: err}
}

func (u *Uploader) uploadErrorMessage(err error) string {
	switch {
	case service.IsTimeout(err):
		return u.lang.T(i18n.Timeout)
	case service.IsUnavailable(err):
		return u.lang.T(i18n.ConnectionError)
	default:
		return u.lang.T(i18n.UploadError)
	}
}

func (u *Uploader) setState(s State) {
	u.mu.Lock()
	u.state = s
	u.mu.Unlock()
	if u.OnState != nil {
		u.OnState(s)
	}
}

func (u *Uploader) progress(p int) {
	if u.OnProgress != nil {
		u.OnProgress(p)
	}
}
