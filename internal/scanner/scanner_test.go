package scanner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"

	"github.com/assafc-claroty/hack-2025/internal/model"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	rootDir := t.TempDir()
	for f, content := range files {
		path := filepath.Join(rootDir, f)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return rootDir
}

func collect(t *testing.T, walker *FileWalker, root string) []string {
	t.Helper()
	paths, errs := walker.Walk(context.Background(), root)

	var got []string
	for p := range paths {
		rel, err := filepath.Rel(root, p)
		if err != nil {
			t.Fatalf("Rel error: %v", err)
		}
		got = append(got, filepath.ToSlash(rel))
	}
	if err := <-errs; err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	sort.Strings(got)
	return got
}

func TestFileWalker_Walk(t *testing.T) {
	rootDir := writeTree(t, map[string]string{
		"site.txt":               "q",
		"vendors.nlq":            "q",
		"README.md":              "q",
		"notes.go":               "q",
		"sub/sub.txt":            "q",
		"sub/ignore_dir/old.txt": "q",
		".git/HEAD.txt":          "q",
		"archive/2024.txt":       "q",
	})

	tests := []struct {
		name     string
		exts     []string
		excludes []string
		want     []string
	}{
		{
			name:     "Find question files",
			exts:     []string{"txt", "nlq"},
			excludes: []string{"archive", "ignore_dir"},
			want:     []string{"site.txt", "sub/sub.txt", "vendors.nlq"},
		},
		{
			name:     "Markdown lists too",
			exts:     []string{".txt", "md"},
			excludes: []string{"archive", "ignore_dir", "sub.txt"},
			want:     []string{"README.md", "site.txt"},
		},
		{
			name:     "Glob exclusion",
			exts:     []string{"txt"},
			excludes: []string{"2024.*"},
			want:     []string{"site.txt", "sub/ignore_dir/old.txt", "sub/sub.txt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collect(t, NewFileWalker(tt.exts, tt.excludes), rootDir)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("%s: Walk() got %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestFileWalker_WalkSingleFile(t *testing.T) {
	rootDir := writeTree(t, map[string]string{"questions.list": "q"})
	file := filepath.Join(rootDir, "questions.list")

	paths, _ := NewFileWalker([]string{"txt"}, nil).Walk(context.Background(), file)
	var got []string
	for p := range paths {
		got = append(got, p)
	}
	if !reflect.DeepEqual(got, []string{file}) {
		t.Errorf("Walk() got %v, want %v", got, []string{file})
	}
}

func TestFileWalker_MissingRoot(t *testing.T) {
	paths, errs := NewFileWalker([]string{"txt"}, nil).Walk(context.Background(), filepath.Join(t.TempDir(), "nope"))
	for range paths {
		t.Error("unexpected path")
	}
	if err := <-errs; !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Walk() error = %v, want not-exist", err)
	}
}

func TestWorkerPool_Start(t *testing.T) {
	mockProc := func(ctx context.Context, path string) ([]*model.Translation, error) {
		return []*model.Translation{{Question: path, SQL: "SELECT * FROM assets"}}, nil
	}

	pool := NewWorkerPool(2, mockProc)
	paths := make(chan string, 5)

	for i := 0; i < 5; i++ {
		paths <- "dummy_path"
	}
	close(paths)

	results := pool.Start(context.Background(), paths)

	count := 0
	for res := range results {
		if res.Error != nil {
			t.Errorf("WorkerPool error: %v", res.Error)
		}
		if len(res.Translations) != 1 {
			t.Errorf("Expected 1 translation, got %d", len(res.Translations))
		}
		count++
	}

	if count != 5 {
		t.Errorf("Expected 5 results, got %d", count)
	}
}

func TestNewWorkerPool_MinimumConcurrency(t *testing.T) {
	if got := NewWorkerPool(0, nil).Concurrency; got != 1 {
		t.Errorf("Concurrency = %d, want 1", got)
	}
}
