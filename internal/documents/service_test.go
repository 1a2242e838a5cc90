package documents_test

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"meddoc-backend/internal/documents"
	"meddoc-backend/internal/shared/storage/object"
	"meddoc-backend/internal/shared/storage/object/local"
)

type failingTextStore struct {
	object.ObjectStore
}

func (s failingTextStore) SaveWithKey(ctx context.Context, storageKey, contentType string, r io.Reader) (int64, error) {
	return 0, errors.New("disk full")
}

type failingRepo struct {
	*documents.MemoryRepo
}

func (failingRepo) Create(ctx context.Context, doc documents.Document) error {
	return errors.New("repo unavailable")
}

func storedFiles(t *testing.T, dir string) []string {
	t.Helper()
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	return files
}

func TestUploadRemovesObjectsOnFailure(t *testing.T) {
	cases := []struct {
		name  string
		build func(dir string) *documents.Service
	}{
		{
			name: "extracted text not saved",
			build: func(dir string) *documents.Service {
				return &documents.Service{Store: failingTextStore{local.New(dir)}, Repo: documents.NewMemoryRepo()}
			},
		},
		{
			name: "document not recorded",
			build: func(dir string) *documents.Service {
				return &documents.Service{Store: local.New(dir), Repo: failingRepo{documents.NewMemoryRepo()}}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			svc := tc.build(dir)

			_, err := svc.Upload(t.Context(), "tab-1", "sop.txt", "text/plain", strings.NewReader("calibration schedule"))
			if err == nil {
				t.Fatal("expected upload to fail")
			}
			if files := storedFiles(t, dir); len(files) != 0 {
				t.Fatalf("expected no stored objects, got %v", files)
			}
		})
	}
}
