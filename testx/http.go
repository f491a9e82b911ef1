package testx

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/tidwall/sjson"
)

// FormServer mimics the project server: multipart POSTs on the add route are stored and
// listed back as JSON on the collection route. A single project is answered as
// {"project": [record]}, like the real server. Records also carry specs, which the real
// server leaves out.
type FormServer struct {
	*httptest.Server

	t           *testing.T
	mu          sync.Mutex
	submissions []Submission
	status      int
	body        string
}

// NewFormServer starts a FormServer which is closed with the test.
func NewFormServer(t *testing.T) *FormServer {
	fs := &FormServer{t: t}
	fs.Server = httptest.NewServer(http.HandlerFunc(fs.serveHTTP))
	t.Cleanup(fs.Close)
	return fs
}

// RespondWith makes every following submission answer status and body instead of a created record.
func (fs *FormServer) RespondWith(status int, body string) *FormServer {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.status, fs.body = status, body
	return fs
}

// Submissions returns a copy of the received submissions.
func (fs *FormServer) Submissions() []Submission {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return append([]Submission(nil), fs.submissions...)
}

// LastSubmission fails the test when nothing was received.
func (fs *FormServer) LastSubmission() Submission {
	fs.t.Helper()
	subs := fs.Submissions()
	if len(subs) == 0 {
		fs.t.Fatal("form server received no submission")
	}
	return subs[len(subs)-1]
}

func (fs *FormServer) serveHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimSuffix(r.URL.Path, "/")
	switch {
	case r.Method == http.MethodGet && path == "/api/project":
		fs.list(w)
	case r.Method == http.MethodGet && strings.HasPrefix(path, "/api/project/"):
		fs.get(w, r, strings.TrimPrefix(path, "/api/project/"))
	case r.Method == http.MethodPost:
		fs.add(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (fs *FormServer) add(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	boundary, fields, err := ParseMultipart(r.Header.Get("Content-Type"), body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	fs.mu.Lock()
	fs.submissions = append(fs.submissions, Submission{
		Method:   r.Method,
		Path:     r.URL.Path,
		Header:   r.Header.Clone(),
		Body:     body,
		Boundary: boundary,
		Fields:   fields,
	})
	id := len(fs.submissions)
	status, respBody := fs.status, fs.body
	fs.mu.Unlock()

	if status != 0 {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, respBody)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = fmt.Fprintf(w, `{"id":%d,"url":"/api/project/%d"}`, id, id)
}

func (fs *FormServer) get(w http.ResponseWriter, r *http.Request, id string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	n, err := strconv.Atoi(id)
	if err != nil || n < 1 || n > len(fs.submissions) {
		http.NotFound(w, r)
		return
	}

	record, err := fs.record(n)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	out, err := sjson.SetRaw(`{"project":[]}`, "project.-1", record)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, out)
}

func (fs *FormServer) list(w http.ResponseWriter) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	out := "[]"
	for i := range fs.submissions {
		record, err := fs.record(i + 1)
		if err == nil {
			out, err = sjson.SetRaw(out, "-1", record)
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, out)
}

// record renders the submission with the given 1-based id. fs.mu must be held.
func (fs *FormServer) record(id int) (string, error) {
	record := fmt.Sprintf(`{"id":%d}`, id)
	for _, f := range fs.submissions[id-1].Fields {
		var err error
		record, err = sjson.Set(record, f.Name, f.Value)
		if err != nil {
			return "", err
		}
	}
	return record, nil
}
