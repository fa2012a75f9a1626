package handler

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"cms/internal/auth"
	"cms/internal/middleware"
	"cms/internal/repository/filesystem"
	authSvc "cms/internal/service/auth"
	serviceDocsys "cms/internal/service/docsystem"
	"cms/internal/service/docsystem/converter"
)

type testServer struct {
	*httptest.Server
	client  *http.Client
	dataDir string
}

func newTestServer(t *testing.T, openSignup bool) *testServer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	root := t.TempDir()
	dataDir := filepath.Join(root, "data")

	fileRepo, err := filesystem.NewDocumentRepository(dataDir, logger)
	if err != nil {
		t.Fatal(err)
	}
	credRepo := filesystem.NewCredentialRepository(filepath.Join(root, "users.yml"), logger)
	credentials, err := authSvc.NewCredentialService(credRepo, bcrypt.MinCost, logger)
	if err != nil {
		t.Fatal(err)
	}
	if err := credentials.CreateAccount(context.Background(), "admin", "secret"); err != nil {
		t.Fatal(err)
	}

	gate := authSvc.NewSessionGate()
	docService := serviceDocsys.NewDocumentService(
		fileRepo,
		serviceDocsys.NewNameValidator(fileRepo),
		serviceDocsys.NewVersionNamer(fileRepo, serviceDocsys.RealClock{}),
		converter.NewRendererRegistry(logger),
		serviceDocsys.NewContentAnalyzer(),
		gate,
		logger,
	)
	importService := serviceDocsys.NewDefaultImportService(fileRepo, docService, gate, 1<<20, logger)

	codec, err := auth.NewJWTSessionCodec("test-secret", time.Hour, logger)
	if err != nil {
		t.Fatal(err)
	}
	store := auth.NewCookieSessionStore(codec, time.Hour, false, logger)

	mux := http.NewServeMux()
	RegisterRoutes(mux,
		NewDocumentHandler(docService, 1<<20, logger),
		NewAuthHandler(credentials, gate, openSignup, logger),
		NewImportHandler(importService, 1<<20, logger),
	)

	var h http.Handler = mux
	h = middleware.Session(store)(h)
	h = middleware.Recovery(logger)(h)

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	jar, _ := cookiejar.New(nil)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return &testServer{Server: srv, client: client, dataDir: dataDir}
}

func (s *testServer) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := s.client.Get(s.URL + path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (s *testServer) post(t *testing.T, path string, form url.Values) *http.Response {
	t.Helper()
	resp, err := s.client.PostForm(s.URL+path, form)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (s *testServer) postMultipart(t *testing.T, path, field, filename string, content []byte, fields map[string]string) *http.Response {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatal(err)
	}
	part.Write(content)
	for k, v := range fields {
		mw.WriteField(k, v)
	}
	mw.Close()

	resp, err := s.client.Post(s.URL+path, mw.FormDataContentType(), &body)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (s *testServer) signIn(t *testing.T) {
	t.Helper()
	resp := s.post(t, "/users/signin", url.Values{"username": {"admin"}, "password": {"secret"}})
	expectRedirect(t, resp)
	s.listing(t) // consume "Welcome!"
}

func (s *testServer) listing(t *testing.T) ListResponse {
	t.Helper()
	resp := s.get(t, "/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET / status = %d", resp.StatusCode)
	}
	var out ListResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	return out
}

func expectRedirect(t *testing.T, resp *http.Response) {
	t.Helper()
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/" {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d location = %q body = %s, want 302 to /", resp.StatusCode, resp.Header.Get("Location"), body)
	}
}

func problemReason(t *testing.T, resp *http.Response) string {
	t.Helper()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	reason, _ := body["reason"].(string)
	return reason
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestSignIn(t *testing.T) {
	s := newTestServer(t, true)

	resp := s.post(t, "/users/signin", url.Values{"username": {"admin"}, "password": {"wrong"}})
	if got := problemReason(t, resp); got != "invalid_credentials" {
		t.Errorf("reason = %q", got)
	}

	resp = s.post(t, "/users/signin", url.Values{"username": {"admin"}, "password": {"secret"}})
	expectRedirect(t, resp)

	list := s.listing(t)
	if list.Message != "Welcome!" || list.Username != "admin" {
		t.Errorf("listing = %+v", list)
	}
	if again := s.listing(t); again.Message != "" {
		t.Errorf("message shown twice: %q", again.Message)
	}

	expectRedirect(t, s.post(t, "/users/signout", nil))
	list = s.listing(t)
	if list.Username != "" || list.Message != "You have been signed out." {
		t.Errorf("after sign-out = %+v", list)
	}
}

func TestDeleteWhileSignedOut(t *testing.T) {
	s := newTestServer(t, true)
	if err := os.WriteFile(filepath.Join(s.dataDir, "a.txt"), []byte("keep"), 0o644); err != nil {
		t.Fatal(err)
	}

	expectRedirect(t, s.post(t, "/a.txt/delete", nil))

	list := s.listing(t)
	if list.Message != "You must be signed in to do that." {
		t.Errorf("message = %q", list.Message)
	}
	if strings.Join(list.Files, ",") != "a.txt" {
		t.Errorf("files = %v, want a.txt kept", list.Files)
	}
}

func TestCreateViewAndHistory(t *testing.T) {
	s := newTestServer(t, true)
	s.signIn(t)

	resp := s.post(t, "/new", url.Values{"new_document": {"notes.md"}, "content": {"# Hi"}})
	expectRedirect(t, resp)

	list := s.listing(t)
	if list.Message != "notes.md was created." || strings.Join(list.Files, ",") != "notes.md" {
		t.Errorf("listing = %+v", list)
	}

	resp = s.get(t, "/notes.md")
	if ct := resp.Header.Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	if body := readBody(t, resp); !strings.Contains(body, "<h1>Hi</h1>") {
		t.Errorf("body = %q", body)
	}

	resp = s.get(t, "/notes.md/history")
	var history HistoryResponse
	if err := json.NewDecoder(resp.Body).Decode(&history); err != nil {
		t.Fatal(err)
	}
	if len(history.Versions) != 1 {
		t.Fatalf("versions = %v, want 1", history.Versions)
	}

	resp = s.get(t, "/notes.md/history/"+url.PathEscape(history.Versions[0]))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("snapshot status = %d", resp.StatusCode)
	}
	if body := readBody(t, resp); !strings.Contains(body, "<h1>Hi</h1>") {
		t.Errorf("snapshot body = %q", body)
	}

	// A snapshot is not a document
	expectRedirect(t, s.get(t, "/"+url.PathEscape(history.Versions[0])))
	if msg := s.listing(t).Message; !strings.HasSuffix(msg, "does not exist.") {
		t.Errorf("message = %q", msg)
	}
}

func TestCreateValidation(t *testing.T) {
	s := newTestServer(t, true)
	s.signIn(t)

	tests := []struct {
		name   string
		reason string
	}{
		{"", "name_required"},
		{"notes.doc", "invalid_extension"},
		{"a(b).txt", "reserved_character"},
	}

	for _, tt := range tests {
		t.Run(tt.reason, func(t *testing.T) {
			resp := s.post(t, "/new", url.Values{"new_document": {tt.name}})
			if got := problemReason(t, resp); got != tt.reason {
				t.Errorf("reason = %q, want %q", got, tt.reason)
			}
		})
	}
}

func TestViewMissing(t *testing.T) {
	s := newTestServer(t, true)

	expectRedirect(t, s.get(t, "/missing.txt"))
	if msg := s.listing(t).Message; msg != "missing.txt does not exist." {
		t.Errorf("message = %q", msg)
	}
}

func TestUpdateDuplicateDelete(t *testing.T) {
	s := newTestServer(t, true)
	s.signIn(t)
	expectRedirect(t, s.post(t, "/new", url.Values{"new_document": {"a.txt"}, "content": {"one"}}))

	expectRedirect(t, s.post(t, "/a.txt", url.Values{"new_content": {"two"}}))
	if msg := s.listing(t).Message; msg != "a.txt has been updated." {
		t.Errorf("update message = %q", msg)
	}
	if body := readBody(t, s.get(t, "/a.txt")); body != "two" {
		t.Errorf("content = %q", body)
	}

	resp := s.get(t, "/a.txt/edit")
	var doc struct {
		Filename string `json:"filename"`
		Content  string `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		t.Fatal(err)
	}
	if doc.Filename != "a.txt" || doc.Content != "two" {
		t.Errorf("edit = %+v", doc)
	}

	expectRedirect(t, s.post(t, "/a.txt/duplicate", nil))
	list := s.listing(t)
	if list.Message != "a.txt was duplicated as a_1.txt." {
		t.Errorf("duplicate message = %q", list.Message)
	}

	expectRedirect(t, s.post(t, "/a.txt/delete", nil))
	list = s.listing(t)
	if list.Message != "a.txt has been deleted." || strings.Join(list.Files, ",") != "a_1.txt" {
		t.Errorf("after delete = %+v", list)
	}

	expectRedirect(t, s.post(t, "/missing.txt", url.Values{"new_content": {"x"}}))
	if msg := s.listing(t).Message; msg != "missing.txt does not exist." {
		t.Errorf("update missing message = %q", msg)
	}
}

func TestUploadImage(t *testing.T) {
	s := newTestServer(t, true)
	s.signIn(t)
	png := []byte{0x89, 'P', 'N', 'G', '\r', '\n'}

	expectRedirect(t, s.postMultipart(t, "/upload", "image", "logo.png", png, nil))
	if msg := s.listing(t).Message; msg != "logo.png was uploaded." {
		t.Errorf("message = %q", msg)
	}

	resp := s.get(t, "/logo.png")
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q", ct)
	}
	if body := readBody(t, resp); body != string(png) {
		t.Errorf("body = %q", body)
	}

	// Renamed through the name field
	expectRedirect(t, s.postMultipart(t, "/upload", "image", "x.png", png, map[string]string{"name": "renamed.jpg"}))

	resp = s.postMultipart(t, "/upload", "image", "notes.txt", []byte("x"), nil)
	if got := problemReason(t, resp); got != "invalid_extension" {
		t.Errorf("reason = %q", got)
	}
}

func TestImport(t *testing.T) {
	s := newTestServer(t, true)
	s.signIn(t)

	var archive bytes.Buffer
	zw := zip.NewWriter(&archive)
	for name, content := range map[string]string{"a.txt": "a", "b.md": "# b"} {
		f, _ := zw.Create(name)
		f.Write([]byte(content))
	}
	zw.Close()

	resp := s.postMultipart(t, "/import", "files", "bundle.zip", archive.Bytes(), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d body = %s", resp.StatusCode, readBody(t, resp))
	}
	var out ImportResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if !out.Success || out.Summary.Created != 2 {
		t.Errorf("import = %+v", out)
	}

	if files := s.listing(t).Files; strings.Join(files, ",") != "a.txt,b.md" {
		t.Errorf("files = %v", files)
	}
}

func TestSignUp(t *testing.T) {
	t.Run("open", func(t *testing.T) {
		s := newTestServer(t, true)
		expectRedirect(t, s.post(t, "/users/signup", url.Values{"username": {"bob"}, "password": {"pw"}}))

		resp := s.post(t, "/users/signup", url.Values{"username": {"bob"}, "password": {"pw"}})
		if got := problemReason(t, resp); got != "username_taken" {
			t.Errorf("reason = %q", got)
		}

		expectRedirect(t, s.post(t, "/users/signin", url.Values{"username": {"bob"}, "password": {"pw"}}))
		if list := s.listing(t); list.Username != "bob" {
			t.Errorf("username = %q", list.Username)
		}
	})

	t.Run("closed", func(t *testing.T) {
		s := newTestServer(t, false)
		expectRedirect(t, s.post(t, "/users/signup", url.Values{"username": {"bob"}, "password": {"pw"}}))
		if msg := s.listing(t).Message; msg != "You must be signed in to do that." {
			t.Errorf("message = %q", msg)
		}

		s.signIn(t)
		expectRedirect(t, s.post(t, "/users/signup", url.Values{"username": {"bob"}, "password": {"pw"}}))
		if msg := s.listing(t).Message; msg != "bob can now sign in." {
			t.Errorf("message = %q", msg)
		}
	})
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t, true)
	resp := s.get(t, "/health")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}
