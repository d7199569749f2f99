// Package scanner walks directories of question files and translates them on a
// worker pool.
package scanner

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/assafc-claroty/hack-2025/internal/extractor"
	"github.com/assafc-claroty/hack-2025/internal/model"
)

// Translator is the part of the translator the batch needs.
type Translator interface {
	TranslateWithDetails(ctx context.Context, text string) (*model.Translation, error)
}

// Auditor checks generated statements.
type Auditor interface {
	Audit(segments []model.SQLSegment) ([]model.Issue, error)
}

type BatchOptions struct {
	Workers    int
	Extensions []string
	Excludes   []string
}

// Summary counts what a run did.
type Summary struct {
	RunID     string
	Files     int
	Questions int
	Failed    int
	Issues    int
}

type Batch struct {
	walker     *FileWalker
	questions  *extractor.Manager
	translator Translator
	auditor    Auditor
	workers    int
	logger     *zap.Logger
}

// NewBatch builds a batch runner. aud may be nil to skip auditing.
func NewBatch(tr Translator, aud Auditor, opts BatchOptions, logger *zap.Logger) *Batch {
	if logger == nil {
		logger = zap.NewNop()
	}
	exts := opts.Extensions
	if len(exts) == 0 {
		exts = []string{"txt", "nlq"}
	}
	return &Batch{
		walker:     NewFileWalker(exts, opts.Excludes),
		questions:  extractor.DefaultManager(),
		translator: tr,
		auditor:    aud,
		workers:    opts.Workers,
		logger:     logger.Named("batch"),
	}
}

// Run translates every question under root and hands the results to emit,
// ordered by file then line.
func (b *Batch) Run(ctx context.Context, root string, emit func(*model.Translation) error) (Summary, error) {
	sum := Summary{RunID: uuid.NewString()}
	log := b.logger.With(zap.String("run_id", sum.RunID))
	log.Info("batch started", zap.String("root", root), zap.Int("workers", b.workers))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	paths, walkErrs := b.walker.Walk(ctx, root)
	results := NewWorkerPool(b.workers, b.process).Start(ctx, paths)

	var collected []ScanResult
	for res := range results {
		if res.Error != nil {
			log.Warn("failed to read question file", zap.String("file", res.File), zap.Error(res.Error))
		}
		collected = append(collected, res)
	}
	if err := <-walkErrs; err != nil {
		return sum, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	sort.Slice(collected, func(i, j int) bool { return collected[i].File < collected[j].File })
	for _, res := range collected {
		sum.Files++
		for _, tr := range res.Translations {
			sum.Questions++
			if tr.Err != nil {
				sum.Failed++
			}
			sum.Issues += len(tr.Issues)
			if err := emit(tr); err != nil {
				return sum, err
			}
		}
	}

	log.Info("batch finished",
		zap.Int("files", sum.Files),
		zap.Int("questions", sum.Questions),
		zap.Int("failed", sum.Failed),
		zap.Int("issues", sum.Issues))
	return sum, nil
}

func (b *Batch) process(ctx context.Context, path string) ([]*model.Translation, error) {
	segments, err := b.questions.Extract(path)
	if err != nil {
		return nil, err
	}

	out := make([]*model.Translation, 0, len(segments))
	for _, seg := range segments {
		tr, err := b.translator.TranslateWithDetails(ctx, seg.Question)
		if err != nil {
			out = append(out, &model.Translation{Question: seg.Question, Location: seg.Location, Err: err})
			continue
		}
		tr.Location = seg.Location

		if b.auditor != nil {
			issues, err := b.auditor.Audit([]model.SQLSegment{{SQL: tr.SQL, Question: seg.Question, Location: seg.Location}})
			if err != nil {
				return out, fmt.Errorf("audit failed: %w", err)
			}
			tr.Issues = issues
		}
		out = append(out, tr)
	}
	return out, nil
}
