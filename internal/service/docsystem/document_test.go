package docsystem

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"cms/internal/config"
	"cms/internal/domain"
	"cms/internal/domain/models"
	docsysRepo "cms/internal/domain/repositories/docsystem"
	docsysSvc "cms/internal/domain/services/docsystem"
	"cms/internal/service/auth"
	"cms/internal/service/docsystem/converter"
)

type testEnv struct {
	svc   docsysSvc.DocumentService
	repo  docsysRepo.FileRepository
	clock *stubClock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithRepo(t, newTestFileRepo(t))
}

func newTestEnvWithRepo(t *testing.T, repo docsysRepo.FileRepository) *testEnv {
	t.Helper()
	clock := newStubClock()
	logger := discardLogger()
	svc := NewDocumentService(
		repo,
		NewNameValidator(repo),
		NewVersionNamer(repo, clock),
		converter.NewRendererRegistry(logger),
		NewContentAnalyzer(),
		auth.NewSessionGate(),
		logger,
	)
	return &testEnv{svc: svc, repo: repo, clock: clock}
}

func signedIn() *models.Session {
	return &models.Session{Username: "admin"}
}

func (e *testEnv) create(t *testing.T, name, content string) {
	t.Helper()
	req := &docsysSvc.CreateDocumentRequest{Name: name, Content: content}
	if err := e.svc.CreateDocument(context.Background(), signedIn(), req); err != nil {
		t.Fatalf("CreateDocument(%q) error = %v", name, err)
	}
	e.clock.Advance(time.Second)
}

func TestCreateDocument_ListedWithoutSnapshot(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	sess := signedIn()

	req := &docsysSvc.CreateDocumentRequest{Name: "about.txt", Content: "hello"}
	if err := env.svc.CreateDocument(ctx, sess, req); err != nil {
		t.Fatalf("CreateDocument() error = %v", err)
	}
	if sess.Message != "about.txt was created." {
		t.Errorf("message = %q", sess.Message)
	}

	files, err := env.svc.ListDocuments(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if joined(files) != "about.txt" {
		t.Errorf("ListDocuments() = %v, want [about.txt]", files)
	}

	versions, err := env.svc.ListVersions(ctx, "about.txt")
	if err != nil {
		t.Fatal(err)
	}
	if len(versions) != 1 {
		t.Fatalf("ListVersions() = %v, want exactly one snapshot", versions)
	}
	if versions[0] != SnapshotName("about.txt", env.clock.Now()) {
		t.Errorf("snapshot = %q", versions[0])
	}

	raw, err := env.repo.Read(ctx, versions[0])
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != "hello" {
		t.Errorf("snapshot content = %q, want %q", raw, "hello")
	}
}

func TestCreateDocument_Rejections(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.create(t, "taken.md", "x")

	tests := []struct {
		name   string
		input  string
		reason string
	}{
		{"parens", "a(1).txt", domain.ReasonReservedCharacter},
		{"parens with bad extension", "a(1).exe", domain.ReasonReservedCharacter},
		{"empty", "", domain.ReasonNameRequired},
		{"image extension", "pic.png", domain.ReasonInvalidExtension},
		{"in use", "taken.md", domain.ReasonNameInUse},
		{"bare extension", ".md", domain.ReasonInvalidExtension},
		{"too long to snapshot", strings.Repeat("a", 240) + ".md", domain.ReasonNameTooLong},
		{"longer than the filesystem allows", strings.Repeat("a", 304) + ".md", domain.ReasonNameTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := signedIn()
			err := env.svc.CreateDocument(ctx, sess, &docsysSvc.CreateDocumentRequest{Name: tt.input, Content: "c"})
			if got := validationReason(err); got != tt.reason {
				t.Errorf("CreateDocument(%q) reason = %q (err %v), want %q", tt.input, got, err, tt.reason)
			}
			if sess.Message != "" {
				t.Errorf("message set on failure: %q", sess.Message)
			}
		})
	}

	files, _ := env.svc.ListDocuments(ctx)
	if joined(files) != "taken.md" {
		t.Errorf("ListDocuments() = %v, want only taken.md", files)
	}
}

func TestUploadImage(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	sess := signedIn()
	png := []byte{0x89, 'P', 'N', 'G'}

	err := env.svc.UploadImage(ctx, sess, &docsysSvc.UploadImageRequest{Name: "logo.png", Content: png})
	if err != nil {
		t.Fatalf("UploadImage() error = %v", err)
	}
	if sess.Message != "logo.png was uploaded." {
		t.Errorf("message = %q", sess.Message)
	}

	versions, _ := env.svc.ListVersions(ctx, "logo.png")
	if len(versions) != 0 {
		t.Errorf("image has snapshots: %v", versions)
	}

	rendered, err := env.svc.ViewDocument(ctx, "logo.png")
	if err != nil {
		t.Fatal(err)
	}
	if rendered.ContentType != "image/png" || string(rendered.Body) != string(png) {
		t.Errorf("ViewDocument() = %q %q", rendered.ContentType, rendered.Body)
	}

	err = env.svc.UploadImage(ctx, signedIn(), &docsysSvc.UploadImageRequest{Name: "notes.txt", Content: png})
	if got := validationReason(err); got != domain.ReasonInvalidExtension {
		t.Errorf("UploadImage(notes.txt) reason = %q, want %q", got, domain.ReasonInvalidExtension)
	}
}

func TestCreateDocument_LongestNameIsVersioned(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	name := strings.Repeat("n", config.MaxDocumentNameLength-len(".md")) + ".md"

	env.create(t, name, "v1")
	if err := env.svc.UpdateDocument(ctx, signedIn(), name, "v2"); err != nil {
		t.Fatalf("UpdateDocument() error = %v", err)
	}

	versions, err := env.svc.ListVersions(ctx, name)
	if err != nil {
		t.Fatal(err)
	}
	if len(versions) != 2 {
		t.Fatalf("versions = %d, want 2", len(versions))
	}
	for _, v := range versions {
		if len(v) > config.MaxFileNameBytes {
			t.Errorf("snapshot name is %d bytes, over %d", len(v), config.MaxFileNameBytes)
		}
	}
}

func TestUpdateDocument_AppendsOneSnapshot(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.create(t, "a.txt", "v1")

	before, _ := env.svc.ListVersions(ctx, "a.txt")

	sess := signedIn()
	if err := env.svc.UpdateDocument(ctx, sess, "a.txt", "v2"); err != nil {
		t.Fatalf("UpdateDocument() error = %v", err)
	}
	if sess.Message != "a.txt has been updated." {
		t.Errorf("message = %q", sess.Message)
	}

	after, _ := env.svc.ListVersions(ctx, "a.txt")
	if len(after) != len(before)+1 {
		t.Fatalf("versions %v -> %v, want one more", before, after)
	}
	latest := after[len(after)-1]
	raw, _ := env.repo.Read(ctx, latest)
	if string(raw) != "v2" {
		t.Errorf("latest snapshot %q = %q, want v2", latest, raw)
	}

	doc, err := env.svc.GetDocument(ctx, "a.txt")
	if err != nil {
		t.Fatal(err)
	}
	if doc.Content != "v2" {
		t.Errorf("content = %q, want v2", doc.Content)
	}
}

func TestUpdateDocument_SameInstantKeepsBothSnapshots(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	req := &docsysSvc.CreateDocumentRequest{Name: "a.md", Content: "one"}
	if err := env.svc.CreateDocument(ctx, signedIn(), req); err != nil {
		t.Fatal(err)
	}
	// Clock not advanced
	if err := env.svc.UpdateDocument(ctx, signedIn(), "a.md", "two"); err != nil {
		t.Fatal(err)
	}

	versions, _ := env.svc.ListVersions(ctx, "a.md")
	if len(versions) != 2 {
		t.Fatalf("ListVersions() = %v, want 2", versions)
	}
	first, _ := env.repo.Read(ctx, versions[0])
	second, _ := env.repo.Read(ctx, versions[1])
	if string(first) != "one" || string(second) != "two" {
		t.Errorf("snapshots = %q, %q; want one, two", first, second)
	}
}

func TestUpdateDocument_Missing(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.create(t, "a.txt", "v1")
	versions, _ := env.svc.ListVersions(ctx, "a.txt")

	for _, name := range []string{"missing.txt", versions[0]} {
		t.Run(name, func(t *testing.T) {
			err := env.svc.UpdateDocument(ctx, signedIn(), name, "x")
			if !errors.Is(err, domain.ErrNotFound) {
				t.Fatalf("UpdateDocument(%q) error = %v, want ErrNotFound", name, err)
			}
			if err.Error() != name+" does not exist." {
				t.Errorf("message = %q", err.Error())
			}
		})
	}
}

func TestDeleteDocument_KeepsSnapshots(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.create(t, "a.txt", "v1")
	if err := env.svc.UpdateDocument(ctx, signedIn(), "a.txt", "v2"); err != nil {
		t.Fatal(err)
	}

	sess := signedIn()
	if err := env.svc.DeleteDocument(ctx, sess, "a.txt"); err != nil {
		t.Fatalf("DeleteDocument() error = %v", err)
	}
	if sess.Message != "a.txt has been deleted." {
		t.Errorf("message = %q", sess.Message)
	}

	files, _ := env.svc.ListDocuments(ctx)
	if len(files) != 0 {
		t.Errorf("ListDocuments() = %v, want empty", files)
	}

	versions, _ := env.svc.ListVersions(ctx, "a.txt")
	if len(versions) != 2 {
		t.Errorf("ListVersions() after delete = %v, want 2 snapshots", versions)
	}

	rendered, err := env.svc.ViewVersion(ctx, versions[0])
	if err != nil {
		t.Fatalf("ViewVersion() error = %v", err)
	}
	if string(rendered.Body) != "v1" {
		t.Errorf("ViewVersion() body = %q, want v1", rendered.Body)
	}

	if err := env.svc.DeleteDocument(ctx, signedIn(), "a.txt"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("second DeleteDocument() error = %v, want ErrNotFound", err)
	}
	if err := env.svc.DeleteDocument(ctx, signedIn(), versions[0]); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("DeleteDocument(snapshot) error = %v, want ErrNotFound", err)
	}
}

func TestDuplicateDocument(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.create(t, "a.txt", "body")
	env.create(t, "a_1.txt", "other")

	sess := signedIn()
	got, err := env.svc.DuplicateDocument(ctx, sess, "a.txt")
	if err != nil {
		t.Fatalf("DuplicateDocument() error = %v", err)
	}
	if got != "a_2.txt" {
		t.Errorf("DuplicateDocument() = %q, want a_2.txt", got)
	}
	if sess.Message != "a.txt was duplicated as a_2.txt." {
		t.Errorf("message = %q", sess.Message)
	}

	doc, err := env.svc.GetDocument(ctx, "a_2.txt")
	if err != nil {
		t.Fatal(err)
	}
	if doc.Content != "body" {
		t.Errorf("duplicate content = %q, want body", doc.Content)
	}

	versions, _ := env.svc.ListVersions(ctx, "a_2.txt")
	if len(versions) != 1 {
		t.Errorf("duplicate snapshots = %v, want 1", versions)
	}
}

func TestDuplicateDocument_Image(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	err := env.svc.UploadImage(ctx, signedIn(), &docsysSvc.UploadImageRequest{Name: "cat.jpg", Content: []byte("jpg")})
	if err != nil {
		t.Fatal(err)
	}

	got, err := env.svc.DuplicateDocument(ctx, signedIn(), "cat.jpg")
	if err != nil {
		t.Fatalf("DuplicateDocument() error = %v", err)
	}
	if got != "cat_1.jpg" {
		t.Errorf("DuplicateDocument() = %q", got)
	}
	versions, _ := env.svc.ListVersions(ctx, "cat_1.jpg")
	if len(versions) != 0 {
		t.Errorf("image duplicate has snapshots: %v", versions)
	}
}

func TestDuplicateDocument_Rejections(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.create(t, "a.txt", "v1")
	versions, _ := env.svc.ListVersions(ctx, "a.txt")

	for _, name := range []string{"missing.txt", versions[0]} {
		if _, err := env.svc.DuplicateDocument(ctx, signedIn(), name); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("DuplicateDocument(%q) error = %v, want ErrNotFound", name, err)
		}
	}
}

func TestViewDocument_RoutesByExtension(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.create(t, "notes.md", "# Hi")
	env.create(t, "plain.txt", "# Hi")

	md, err := env.svc.ViewDocument(ctx, "notes.md")
	if err != nil {
		t.Fatal(err)
	}
	if md.ContentType != "text/html; charset=utf-8" {
		t.Errorf("markdown content type = %q", md.ContentType)
	}
	if !strings.Contains(string(md.Body), "<h1>Hi</h1>") {
		t.Errorf("markdown body = %q, want <h1>Hi</h1>", md.Body)
	}

	txt, err := env.svc.ViewDocument(ctx, "plain.txt")
	if err != nil {
		t.Fatal(err)
	}
	if txt.ContentType != "text/plain; charset=utf-8" || string(txt.Body) != "# Hi" {
		t.Errorf("text view = %q %q", txt.ContentType, txt.Body)
	}
}

func TestViewDocument_NotFound(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.create(t, "a.txt", "v1")
	versions, _ := env.svc.ListVersions(ctx, "a.txt")

	for _, name := range []string{"nope.txt", versions[0]} {
		_, err := env.svc.ViewDocument(ctx, name)
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("ViewDocument(%q) error = %v, want ErrNotFound", name, err)
		}
	}

	if _, err := env.svc.ViewVersion(ctx, "a.txt"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("ViewVersion(document name) error = %v, want ErrNotFound", err)
	}
}

func TestGetDocument(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.create(t, "notes.md", "# Title\n\nSome **bold** words")
	if err := env.svc.UploadImage(ctx, signedIn(), &docsysSvc.UploadImageRequest{Name: "a.png", Content: []byte("x")}); err != nil {
		t.Fatal(err)
	}

	doc, err := env.svc.GetDocument(ctx, "notes.md")
	if err != nil {
		t.Fatal(err)
	}
	if doc.WordCount != 4 {
		t.Errorf("WordCount = %d, want 4", doc.WordCount)
	}

	if _, err := env.svc.GetDocument(ctx, "a.png"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("GetDocument(image) error = %v, want validation error", err)
	}
}

func TestListVersions_OnlyExactTarget(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.create(t, "a.txt", "1")
	env.create(t, "ba.txt", "2")
	env.create(t, "a.txt.md", "3")

	versions, _ := env.svc.ListVersions(ctx, "a.txt")
	if len(versions) != 1 || !strings.HasSuffix(versions[0], ")a.txt") {
		t.Errorf("ListVersions(a.txt) = %v", versions)
	}

	files, _ := env.svc.ListDocuments(ctx)
	if joined(files) != "a.txt,a.txt.md,ba.txt" {
		t.Errorf("ListDocuments() = %v", files)
	}
	for _, f := range files {
		if isSnapshotName(f) {
			t.Errorf("snapshot %q in listing", f)
		}
	}
}

func TestMutations_RequireSignIn(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.create(t, "a.txt", "v1")

	mutations := map[string]func(sess *models.Session) error{
		"create": func(sess *models.Session) error {
			return env.svc.CreateDocument(ctx, sess, &docsysSvc.CreateDocumentRequest{Name: "b.txt"})
		},
		"upload": func(sess *models.Session) error {
			return env.svc.UploadImage(ctx, sess, &docsysSvc.UploadImageRequest{Name: "b.png"})
		},
		"update": func(sess *models.Session) error {
			return env.svc.UpdateDocument(ctx, sess, "a.txt", "changed")
		},
		"delete": func(sess *models.Session) error {
			return env.svc.DeleteDocument(ctx, sess, "a.txt")
		},
		"duplicate": func(sess *models.Session) error {
			_, err := env.svc.DuplicateDocument(ctx, sess, "a.txt")
			return err
		},
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			err := mutate(&models.Session{})
			if !errors.Is(err, domain.ErrUnauthorized) {
				t.Errorf("error = %v, want ErrUnauthorized", err)
			}
		})
	}

	files, _ := env.svc.ListDocuments(ctx)
	if joined(files) != "a.txt" {
		t.Errorf("store changed by anonymous mutations: %v", files)
	}
	doc, _ := env.svc.GetDocument(ctx, "a.txt")
	if doc.Content != "v1" {
		t.Errorf("content = %q, want v1", doc.Content)
	}
}

func TestCreateDocument_SnapshotFailureIsPartialWrite(t *testing.T) {
	ctx := context.Background()
	repo := &failingRepo{
		FileRepository: newTestFileRepo(t),
		failWrite:      isSnapshotName,
	}
	env := newTestEnvWithRepo(t, repo)

	sess := signedIn()
	err := env.svc.CreateDocument(ctx, sess, &docsysSvc.CreateDocumentRequest{Name: "a.txt", Content: "x"})

	var pwe *domain.PartialWriteError
	if !errors.As(err, &pwe) {
		t.Fatalf("error = %v, want PartialWriteError", err)
	}
	if pwe.Step != "snapshot" || pwe.Name != "a.txt" {
		t.Errorf("PartialWriteError = %+v", pwe)
	}
	if !errors.Is(err, errDiskFull) {
		t.Errorf("cause not preserved: %v", err)
	}
	if sess.Message != "" {
		t.Errorf("message set on failure: %q", sess.Message)
	}

	// The document step stays on disk
	exists, _ := repo.Exists(ctx, "a.txt")
	if !exists {
		t.Error("document missing after partial write")
	}
}

func TestCreateDocument_DocumentFailureWritesNothing(t *testing.T) {
	ctx := context.Background()
	repo := &failingRepo{
		FileRepository: newTestFileRepo(t),
		failWrite:      func(string) bool { return true },
	}
	env := newTestEnvWithRepo(t, repo)

	err := env.svc.CreateDocument(ctx, signedIn(), &docsysSvc.CreateDocumentRequest{Name: "a.txt", Content: "x"})
	if !errors.Is(err, errDiskFull) {
		t.Fatalf("error = %v, want disk failure", err)
	}
	var pwe *domain.PartialWriteError
	if errors.As(err, &pwe) {
		t.Error("document-step failure reported as partial write")
	}

	versions, _ := env.svc.ListVersions(ctx, "a.txt")
	if len(versions) != 0 {
		t.Errorf("snapshots written: %v", versions)
	}
}
