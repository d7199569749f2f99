package scanner

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"github.com/assafc-claroty/hack-2025/internal/model"
)

// FileWalker is responsible for traversing directories and feeding files to a channel
type FileWalker struct {
	Extensions map[string]struct{}
	Excludes   []string
}

func NewFileWalker(exts []string, excludes []string) *FileWalker {
	e := make(map[string]struct{})
	for _, ext := range exts {
		e[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}
	return &FileWalker{
		Extensions: e,
		Excludes:   excludes,
	}
}

// Walk starts the traversal and returns a channel of file paths.
// It runs in a separate goroutine and closes the channel when done.
// A root that is a file is sent as-is, whatever its extension.
func (fw *FileWalker) Walk(ctx context.Context, root string) (<-chan string, <-chan error) {
	paths := make(chan string, 100)
	errs := make(chan error, 1)

	go func() {
		defer close(paths)
		defer close(errs)

		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			if d.IsDir() {
				if path == root {
					return nil
				}
				for _, exclude := range fw.Excludes {
					if strings.Contains(path, exclude) {
						return filepath.SkipDir
					}
				}
				if strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir // hidden directories like .git
				}
				return nil
			}

			if path != root {
				if fw.excluded(path, d.Name()) || !fw.accepts(path) {
					return nil
				}
			}

			select {
			case paths <- path:
			case <-ctx.Done():
				return ctx.Err()
			}
			return nil
		})

		if err != nil {
			errs <- err
		}
	}()

	return paths, errs
}

func (fw *FileWalker) excluded(path, name string) bool {
	for _, exclude := range fw.Excludes {
		matched, _ := filepath.Match(exclude, name)
		if matched || strings.Contains(path, exclude) {
			return true
		}
	}
	return false
}

func (fw *FileWalker) accepts(path string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	_, ok := fw.Extensions[ext]
	return ok
}

type ScanResult struct {
	File         string
	Translations []*model.Translation
	Error        error
}

// Processor handles one file
type Processor func(ctx context.Context, path string) ([]*model.Translation, error)

// WorkerPool manages concurrent processing
type WorkerPool struct {
	Concurrency int
	Processor   Processor
}

func NewWorkerPool(concurrency int, proc Processor) *WorkerPool {
	if concurrency < 1 {
		concurrency = 1
	}
	return &WorkerPool{
		Concurrency: concurrency,
		Processor:   proc,
	}
}

func (wp *WorkerPool) Start(ctx context.Context, paths <-chan string) <-chan ScanResult {
	results := make(chan ScanResult)
	var wg sync.WaitGroup

	for i := 0; i < wp.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range paths {
				select {
				case <-ctx.Done():
					return
				default:
					res, err := wp.Processor(ctx, path)
					// errors are results too; the caller reports them
					select {
					case results <- ScanResult{File: path, Translations: res, Error: err}:
					case <-ctx.Done():
						return
					}
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}
