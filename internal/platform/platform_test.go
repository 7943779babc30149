package platform

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/seadrive-io/seadrive-tray/internal/classify"
	"github.com/seadrive-io/seadrive-tray/internal/models"
)

type recordingActions struct {
	calls []string
}

func (r *recordingActions) ShareLink(_ context.Context, _ models.Account, repoID, path string) error {
	r.calls = append(r.calls, "share:"+repoID+path)
	return nil
}

func (r *recordingActions) InternalLink(_ context.Context, _ models.Account, repoID, path string, isDir bool) error {
	if isDir {
		path += "/"
	}
	r.calls = append(r.calls, "internal:"+repoID+path)
	return nil
}

func (r *recordingActions) UploadLink(_ context.Context, _ models.Account, repoID, path string) error {
	r.calls = append(r.calls, "upload:"+repoID+path)
	return nil
}

func (r *recordingActions) FileHistory(_ context.Context, _ models.Account, repoID, path string) error {
	r.calls = append(r.calls, "history:"+repoID+path)
	return nil
}

func TestDispatch(t *testing.T) {
	rec := &recordingActions{}
	ctx := context.Background()

	for _, act := range []classify.PlatformAction{
		{Op: classify.OpShareLink, RepoID: "r", RepoPath: "/a"},
		{Op: classify.OpInternalLink, RepoID: "r", RepoPath: "/d", IsDir: true},
		{Op: classify.OpUploadLink, RepoID: "r", RepoPath: "/u"},
		{Op: classify.OpFileHistory, RepoID: "r", RepoPath: "/h"},
	} {
		if err := Dispatch(ctx, rec, act); err != nil {
			t.Fatalf("Dispatch(%v) error: %v", act.Op, err)
		}
	}

	want := []string{"share:r/a", "internal:r/d/", "upload:r/u", "history:r/h"}
	if strings.Join(rec.calls, ",") != strings.Join(want, ",") {
		t.Errorf("calls = %v, want %v", rec.calls, want)
	}

	if err := Dispatch(ctx, rec, classify.PlatformAction{Op: classify.PlatformOp(99)}); err == nil {
		t.Error("unknown op should return an error")
	}
}

func TestSelect(t *testing.T) {
	if _, ok := Select("none").(Noop); !ok {
		t.Error(`Select("none") should be Noop`)
	}
	if _, ok := Select("browser").(*Browser); !ok {
		t.Error(`Select("browser") should be *Browser`)
	}
	auto := Select("auto")
	if Supported() {
		if _, ok := auto.(*Browser); !ok {
			t.Error("auto should pick Browser on supported platforms")
		}
	} else if _, ok := auto.(Noop); !ok {
		t.Error("auto should pick Noop on unsupported platforms")
	}
}

func TestBrowserShareLink(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v2.1/share-links/" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Token tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if err := r.ParseForm(); err != nil || r.PostForm.Get("repo_id") != "r1" || r.PostForm.Get("path") != "/a.txt" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"link":"https://cloud.example.com/f/abc/"}`))
	}))
	defer srv.Close()

	var copied string
	b := NewBrowser(srv.Client())
	b.CopyText = func(s string) error { copied = s; return nil }

	account := models.Account{ServerURL: srv.URL + "/", Username: "me", Token: "tok"}
	if err := b.ShareLink(context.Background(), account, "r1", "/a.txt"); err != nil {
		t.Fatalf("ShareLink error: %v", err)
	}
	if copied != "https://cloud.example.com/f/abc/" {
		t.Errorf("copied = %q", copied)
	}

	account.Token = "wrong"
	if err := b.ShareLink(context.Background(), account, "r1", "/a.txt"); err == nil {
		t.Error("expected error for rejected token")
	}
}

func TestBrowserInternalLink(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v2.1/smart-link/" || r.URL.Query().Get("is_dir") != "true" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"smart_link":"https://cloud.example.com/smart-link/xyz/"}`))
	}))
	defer srv.Close()

	var copied string
	b := NewBrowser(srv.Client())
	b.CopyText = func(s string) error { copied = s; return nil }

	account := models.Account{ServerURL: srv.URL, Username: "me"}
	if err := b.InternalLink(context.Background(), account, "r1", "/dir", true); err != nil {
		t.Fatalf("InternalLink error: %v", err)
	}
	if copied != "https://cloud.example.com/smart-link/xyz/" {
		t.Errorf("copied = %q", copied)
	}
}

func TestBrowserFileHistory(t *testing.T) {
	var opened string
	b := NewBrowser(nil)
	b.OpenURL = func(u string) error { opened = u; return nil }

	account := models.Account{ServerURL: "https://cloud.example.com/", Username: "me"}
	if err := b.FileHistory(context.Background(), account, "r1", "/a b.txt"); err != nil {
		t.Fatal(err)
	}
	want := "https://cloud.example.com/repo/file_revisions/r1/?p=%2Fa+b.txt"
	if opened != want {
		t.Errorf("opened = %q, want %q", opened, want)
	}
}
