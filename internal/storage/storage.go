// Package storage saves uploaded listing images on local disk.
package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"krishilink/internal/domain"
	"krishilink/internal/utils"

	"github.com/google/uuid"
)

const (
	MaxFileSize   = 5 * 1024 * 1024
	MaxFilesCount = 5
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// Images writes files under <Root>/<kind>/<owner>/ and returns their public
// paths below URLPrefix.
type Images struct {
	Root      string
	URLPrefix string
}

func NewImages(root string) Images {
	return Images{Root: root, URLPrefix: "/uploads"}
}

// Check validates count, size and extension without touching the disk.
func Check(files []*multipart.FileHeader) error {
	if len(files) > MaxFilesCount {
		return domain.ValidationError{Field: "images", Msg: fmt.Sprintf("at most %d images are allowed", MaxFilesCount)}
	}
	for _, fh := range files {
		if fh.Size > MaxFileSize {
			return domain.ValidationError{Field: "images", Msg: fmt.Sprintf("file %s exceeds the 5MB limit", fh.Filename)}
		}
		ext := strings.ToLower(filepath.Ext(fh.Filename))
		if !allowedExtensions[ext] {
			return domain.ValidationError{Field: "images", Msg: fmt.Sprintf("file %s is not an image (jpg, jpeg, png, gif)", fh.Filename)}
		}
	}
	return nil
}

func (s Images) Save(kind string, ownerID int64, files []*multipart.FileHeader) ([]string, error) {
	if len(files) == 0 {
		return []string{}, nil
	}
	if err := Check(files); err != nil {
		return nil, err
	}

	owner := domain.IDString(ownerID)
	dir := filepath.Join(s.Root, kind, owner)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	saved := make([]string, 0, len(files))
	for _, fh := range files {
		name := uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))
		if err := writeFile(fh, filepath.Join(dir, name)); err != nil {
			s.Remove(saved)
			return nil, err
		}
		saved = append(saved, path.Join(s.URLPrefix, kind, owner, name))
	}
	return saved, nil
}

// Remove deletes files previously returned by Save. Paths outside the
// upload tree are ignored.
func (s Images) Remove(paths []string) {
	for _, p := range paths {
		disk, ok := s.diskPath(p)
		if !ok {
			continue
		}
		if err := os.Remove(disk); err != nil && !os.IsNotExist(err) {
			utils.LogEvent("", "storage", "remove", fmt.Sprintf("path=%s err=%v", p, err))
		}
	}
}

func (s Images) diskPath(public string) (string, bool) {
	prefix := strings.TrimSuffix(s.URLPrefix, "/") + "/"
	clean := path.Clean(public)
	if !strings.HasPrefix(clean, prefix) {
		return "", false
	}
	return filepath.Join(s.Root, filepath.FromSlash(strings.TrimPrefix(clean, prefix))), true
}

func writeFile(fh *multipart.FileHeader, dst string) error {
	src, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, io.LimitReader(src, MaxFileSize+1)); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}
