package sourceset

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/src-d/enry/v2"

	"github.com/Sumatoshi-tech/importsweep/pkg/textutil"
)

// Sentinel errors for loading.
var (
	ErrFileTooLarge = errors.New("file exceeds size limit")
	ErrBinaryFile   = errors.New("binary file")
)

// languageSniffLength bounds how much of a file is read for language detection.
const languageSniffLength = 4096

// unknownLanguage labels files enry cannot classify.
const unknownLanguage = "Other"

// File is a source file read once from disk. Content is never mutated.
type File struct {
	Path     string
	Content  []byte
	Lines    []string
	Language string
}

// Load reads path, rejecting files larger than maxSize bytes (0 disables the
// limit) and binary content.
func Load(path string, maxSize int64) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	if maxSize > 0 && info.Size() > maxSize {
		return nil, fmt.Errorf("%w: %s (%d bytes)", ErrFileTooLarge, path, info.Size())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if textutil.IsBinary(data) {
		return nil, fmt.Errorf("%w: %s", ErrBinaryFile, path)
	}

	content := textutil.StripBOM(data)

	return &File{
		Path:     path,
		Content:  content,
		Lines:    textutil.SplitLines(string(content)),
		Language: DetectLanguage(path, content),
	}, nil
}

// FromContent builds a File from in-memory content, as editors supply it.
func FromContent(path string, content []byte) *File {
	content = textutil.StripBOM(content)

	return &File{
		Path:     path,
		Content:  content,
		Lines:    textutil.SplitLines(string(content)),
		Language: DetectLanguage(path, content),
	}
}

// DetectLanguage classifies a file by name, using content to break ties.
func DetectLanguage(path string, content []byte) string {
	lang := enry.GetLanguage(filepath.Base(path), content)
	if lang == "" {
		return unknownLanguage
	}

	return lang
}

// Languages counts files per detected language. Only the head of each file
// is read; unreadable files are classified by name alone.
func Languages(paths []string) map[string]int {
	counts := make(map[string]int)

	for _, path := range paths {
		counts[DetectLanguage(path, readHead(path))]++
	}

	return counts
}

func readHead(path string) []byte {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	buf := make([]byte, languageSniffLength)

	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil
	}

	return buf[:n]
}
