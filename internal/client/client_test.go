package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fadilmartias/cv-feedback/internal/i18n"
	"github.com/fadilmartias/cv-feedback/internal/service"
	"github.com/fadilmartias/cv-feedback/internal/storage"
	"github.com/fadilmartias/cv-feedback/internal/storage/sqlite"
	"github.com/stretchr/testify/require"
)

// backendAnalysis is deliberately not compact so that byte-exact storage is
// observable.
const backendAnalysis = `{"overall_impression": "Focused and readable", "ats_score": 82, "strengths": ["Clear structure"], "areas_for_improvement": [], "recommendations": ["Quantify results"], "keyword_suggestions": ["docker", {"keyword": "go", "present": true}]}`

const backendBody = `{"analysis": ` + backendAnalysis + `}`

type fakeBackend struct {
	srv  *httptest.Server
	hits atomic.Int32
}

func newFakeBackend(t *testing.T, status int, body string, delay time.Duration) *fakeBackend {
	t.Helper()
	b := &fakeBackend{}
	b.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.hits.Add(1)
		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(b.srv.Close)
	return b
}

func (b *fakeBackend) analyzer(timeout time.Duration) *service.AnalyzerService {
	return service.NewAnalyzerService(b.srv.URL+"/analyze", b.srv.URL+"/last_analysis", timeout)
}

type fixture struct {
	kv      *sqlite.Store
	results *storage.Results
	lang    *i18n.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	kv, err := sqlite.Open(filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })

	lang, err := i18n.NewStore(context.Background(), kv)
	require.NoError(t, err)
	return &fixture{kv: kv, results: storage.NewResults(kv), lang: lang}
}

// recorder collects callbacks, which may arrive from the progress goroutine.
type recorder struct {
	mu       sync.Mutex
	states   []State
	progress []int
}

func (r *recorder) attach(u *Uploader) {
	u.OnState = func(s State) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.states = append(r.states, s)
	}
	u.OnProgress = func(p int) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.progress = append(r.progress, p)
	}
}

func (r *recorder) snapshot() ([]State, []int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]State(nil), r.states...), append([]int(nil), r.progress...)
}

func writeFile(t *testing.T, name string, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	content := strings.Repeat("Experienced Go developer. ", size/26+1)[:size]
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
