package wiki

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

// fakeWiki speaks just enough of the MediaWiki action API for the client.
type fakeWiki struct {
	pages   map[string]string
	images  map[string]string // filename -> sha1
	edits   int
	uploads int
}

func (w *fakeWiki) handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			_ = r.ParseForm()
		}
		switch r.Form.Get("action") {
		case "query":
			w.handleQuery(rw, r)
		case "login":
			if r.Form.Get("lgtoken") != "LOGIN+\\" {
				fmt.Fprint(rw, `{"login":{"result":"WrongToken"}}`)
				return
			}
			fmt.Fprint(rw, `{"login":{"result":"Success"}}`)
		case "edit":
			w.edits++
			w.pages[r.Form.Get("title")] = r.Form.Get("text")
			fmt.Fprint(rw, `{"edit":{"result":"Success"}}`)
		case "upload":
			w.uploads++
			fmt.Fprint(rw, `{"upload":{"result":"Success"}}`)
		default:
			http.Error(rw, "bad action", http.StatusBadRequest)
		}
	}
}

func (w *fakeWiki) handleQuery(rw http.ResponseWriter, r *http.Request) {
	switch {
	case r.Form.Get("meta") == "tokens":
		if r.Form.Get("type") == "login" {
			fmt.Fprint(rw, `{"query":{"tokens":{"logintoken":"LOGIN+\\"}}}`)
		} else {
			fmt.Fprint(rw, `{"query":{"tokens":{"csrftoken":"CSRF+\\"}}}`)
		}
	case r.Form.Get("prop") == "revisions":
		title := r.Form.Get("titles")
		text, ok := w.pages[title]
		if !ok {
			fmt.Fprint(rw, `{"query":{"pages":[{"missing":true}]}}`)
			return
		}
		fmt.Fprintf(rw, `{"query":{"pages":[{"revisions":[{"slots":{"main":{"content":%q}}}]}]}}`, text)
	case r.Form.Get("prop") == "imageinfo":
		name := r.Form.Get("titles")
		sha, ok := w.images[name]
		if !ok {
			fmt.Fprint(rw, `{"query":{"pages":[{"missing":true}]}}`)
			return
		}
		fmt.Fprintf(rw, `{"query":{"pages":[{"imageinfo":[{"sha1":%q}]}]}}`, sha)
	default:
		http.Error(rw, "bad query", http.StatusBadRequest)
	}
}

func newTestClient(t *testing.T, w *fakeWiki) *Client {
	t.Helper()
	srv := httptest.NewServer(w.handler())
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, "TestBot/1.0")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestLoginAndEdit(t *testing.T) {
	w := &fakeWiki{pages: map[string]string{}, images: map[string]string{}}
	c := newTestClient(t, w)
	ctx := context.Background()

	if err := c.Login(ctx, "bot", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := c.EditPage(ctx, "Lusitania (CivMC)", "new text", "Updated interactive map"); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if w.edits != 1 || w.pages["Lusitania (CivMC)"] != "new text" {
		t.Fatalf("edit not recorded: %#v", w.pages)
	}
}

func TestPageText(t *testing.T) {
	w := &fakeWiki{
		pages:  map[string]string{"Lusitania (CivMC)": "== History ==\nstuff"},
		images: map[string]string{},
	}
	c := newTestClient(t, w)

	got, err := c.PageText(context.Background(), "Lusitania (CivMC)")
	if err != nil {
		t.Fatalf("page text: %v", err)
	}
	if got != "== History ==\nstuff" {
		t.Fatalf("text %q", got)
	}

	missing, err := c.PageText(context.Background(), "Nowhere")
	if err != nil {
		t.Fatalf("missing page: %v", err)
	}
	if missing != "" {
		t.Fatalf("missing page text %q", missing)
	}
}

func TestImageSHA1(t *testing.T) {
	w := &fakeWiki{
		pages:  map[string]string{},
		images: map[string]string{"File:lusitania civmc.png": "abc123"},
	}
	c := newTestClient(t, w)

	sha, exists, err := c.ImageSHA1(context.Background(), "lusitania civmc.png")
	if err != nil || !exists || sha != "abc123" {
		t.Fatalf("got (%q,%v,%v)", sha, exists, err)
	}

	_, exists, err = c.ImageSHA1(context.Background(), "other.png")
	if err != nil || exists {
		t.Fatalf("missing image should report exists=false, got (%v,%v)", exists, err)
	}
}

func TestUpload(t *testing.T) {
	w := &fakeWiki{pages: map[string]string{}, images: map[string]string{}}
	c := newTestClient(t, w)

	path := filepath.Join(t.TempDir(), "map.png")
	if err := os.WriteFile(path, []byte("png bytes"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := c.Upload(context.Background(), "lusitania civmc.png", path, "Initial upload", false); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if w.uploads != 1 {
		t.Fatalf("uploads=%d", w.uploads)
	}
}
