package extractor

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/assafc-claroty/hack-2025/internal/model"
)

// LineExtractor reads one question per line; blank lines and '#' comments are skipped.
type LineExtractor struct{}

func NewLineExtractor() *LineExtractor {
	return &LineExtractor{}
}

func (e *LineExtractor) Extract(filePath string, content []byte) ([]model.SQLSegment, error) {
	var segments []model.SQLSegment

	scanner := bufio.NewScanner(bytes.NewReader(content))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		segments = append(segments, model.SQLSegment{
			Question: line,
			Location: model.Location{FilePath: filePath, Line: lineNo},
		})
	}
	return segments, scanner.Err()
}

// Markdown list items: "- question", "* question", "1. question"
var listItem = regexp.MustCompile(`^\s*(?:[-*+]|\d+[.)])\s+(.+?)\s*$`)

// ListExtractor picks the list items out of a markdown document.
type ListExtractor struct{}

func NewListExtractor() *ListExtractor {
	return &ListExtractor{}
}

func (e *ListExtractor) Extract(filePath string, content []byte) ([]model.SQLSegment, error) {
	var segments []model.SQLSegment

	scanner := bufio.NewScanner(bytes.NewReader(content))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		m := listItem.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		segments = append(segments, model.SQLSegment{
			Question: strings.Trim(m[1], "`\""),
			Location: model.Location{FilePath: filePath, Line: lineNo},
		})
	}
	return segments, scanner.Err()
}

// Manager selects the appropriate question extractor based on file extension
type Manager struct {
	extractors map[string]model.Extractor
}

func NewManager() *Manager {
	return &Manager{
		extractors: make(map[string]model.Extractor),
	}
}

// DefaultManager handles .txt and .nlq line files and .md lists.
func DefaultManager() *Manager {
	m := NewManager()
	m.Register("txt", NewLineExtractor())
	m.Register("nlq", NewLineExtractor())
	m.Register("md", NewListExtractor())
	return m
}

func (m *Manager) Register(ext string, extr model.Extractor) {
	m.extractors[strings.ToLower(ext)] = extr
}

func (m *Manager) Extract(filePath string) ([]model.SQLSegment, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filePath), "."))
	if extr, ok := m.extractors[ext]; ok {
		return extr.Extract(filePath, content)
	}
	return NewLineExtractor().Extract(filePath, content)
}
