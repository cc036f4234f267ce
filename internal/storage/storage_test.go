package storage

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"krishilink/internal/domain"
)

func fileHeaders(t *testing.T, names ...string) []*multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for _, n := range names {
		w, err := mw.CreateFormFile("images", n)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		_, _ = w.Write([]byte("GIF89a"))
	}
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatalf("parse multipart: %v", err)
	}
	return req.MultipartForm.File["images"]
}

func TestCheck_RejectsUnsupportedExtension(t *testing.T) {
	err := Check(fileHeaders(t, "crop.png", "notes.pdf"))
	if !domain.IsValidation(err) || !strings.Contains(err.Error(), "notes.pdf") {
		t.Fatalf("expected validation error naming the file, got %v", err)
	}
}

func TestCheck_RejectsTooManyFiles(t *testing.T) {
	err := Check(fileHeaders(t, "1.jpg", "2.jpg", "3.jpg", "4.jpg", "5.jpg", "6.jpg"))
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSave_WritesUnderKindAndOwner(t *testing.T) {
	root := t.TempDir()
	imgs := NewImages(root)

	paths, err := imgs.Save("listings", 12, fileHeaders(t, "a.JPG", "b.gif"))
	if err != nil {
		t.Fatalf("save error: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 paths, got %v", paths)
	}
	for _, p := range paths {
		if !strings.HasPrefix(p, "/uploads/listings/12/") {
			t.Fatalf("unexpected public path %q", p)
		}
		disk := filepath.Join(root, strings.TrimPrefix(p, "/uploads/"))
		if _, err := os.Stat(disk); err != nil {
			t.Fatalf("file missing on disk: %v", err)
		}
	}
	if !strings.HasSuffix(paths[0], ".jpg") {
		t.Fatalf("extension should be lower-cased: %q", paths[0])
	}
}

func TestSave_FailureLeavesNoFiles(t *testing.T) {
	root := t.TempDir()
	imgs := NewImages(root)

	files := fileHeaders(t, "a.jpg")
	// a header without content cannot be opened
	files = append(files, &multipart.FileHeader{Filename: "b.jpg"})

	if _, err := imgs.Save("listings", 3, files); err == nil {
		t.Fatalf("expected save error")
	}
	entries, err := os.ReadDir(filepath.Join(root, "listings", "3"))
	if err != nil {
		t.Fatalf("read upload dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no files after failed save, found %d", len(entries))
	}
}

func TestRemove_DeletesSavedFilesOnly(t *testing.T) {
	root := t.TempDir()
	imgs := NewImages(root)

	paths, err := imgs.Save("listings", 7, fileHeaders(t, "a.png"))
	if err != nil {
		t.Fatalf("save error: %v", err)
	}
	outside := filepath.Join(t.TempDir(), "keep.txt")
	if err := os.WriteFile(outside, []byte("x"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	imgs.Remove(append(paths, "/uploads/../../"+filepath.Base(outside), outside))

	disk := filepath.Join(root, strings.TrimPrefix(paths[0], "/uploads/"))
	if _, err := os.Stat(disk); !os.IsNotExist(err) {
		t.Fatalf("saved file should be gone, stat err=%v", err)
	}
	if _, err := os.Stat(outside); err != nil {
		t.Fatalf("file outside the upload tree was touched: %v", err)
	}
}
