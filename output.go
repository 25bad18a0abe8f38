package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/sirupsen/logrus"
)

var (
	contentRule = strings.Repeat("=", 80)

	// contentHeaderEnd separates the metadata header from the extracted content
	contentHeaderEnd = "\n" + contentRule + "\nCONTENT\n" + contentRule + "\n\n"

	contentFileTemplate = template.Must(template.New("content").Parse(
		"Source: {{.SourceName}}\n" +
			"URL: {{.URL}}\n" +
			"Title: {{.Title}}\n" +
			"Frequency: {{.Frequency}}\n" +
			"Format: {{.Format}}\n" +
			contentHeaderEnd +
			"{{.Content}}"))
)

// contentExtensions are the file types read back for summarization
var contentExtensions = []string{".md", ".txt"}

// filenameReplacer maps path separators and parent references to underscores
// so a source name cannot leave the output directory
var filenameReplacer = strings.NewReplacer(
	" ", "_",
	"/", "_",
	`\`, "_",
	"..", "_",
)

// contentFilename derives the output file name from the source name
func contentFilename(name string, format Format) string {
	slug := strings.ToLower(filenameReplacer.Replace(strings.TrimSpace(name)))
	if slug == "" {
		slug = unknownSourceName
	}
	return fmt.Sprintf("%s_content.%s", slug, format.Extension())
}

// SaveResult writes a successful result to dir and returns the file path.
// Failed results are not written.
func SaveResult(dir string, result FetchResult) (string, error) {
	if !result.Success() {
		return "", fmt.Errorf("not saving failed result for %s: %w", result.SourceName, result.Err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	var buf bytes.Buffer
	if err := contentFileTemplate.Execute(&buf, result); err != nil {
		return "", fmt.Errorf("executing content template: %w", err)
	}

	path := filepath.Join(dir, contentFilename(result.SourceName, result.Format))
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// ReadContentFiles returns the saved content files in dir, sorted by name.
// Files whose base name is in exclude are skipped, as are unreadable files.
func ReadContentFiles(dir string, log logrus.FieldLogger, exclude ...string) ([]ContentFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	skip := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		skip[filepath.Base(name)] = true
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || skip[entry.Name()] || !isContentFile(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	files := make([]ContentFile, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.WithError(err).WithField("file", name).Warn("Skipping unreadable content file")
			continue
		}
		files = append(files, ContentFile{Filename: name, Content: string(data)})
	}
	return files, nil
}

func isContentFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range contentExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// SaveSummary writes the summary, replacing any previous one
func SaveSummary(path, summary string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating summary directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(summary), 0644); err != nil {
		return fmt.Errorf("writing summary %s: %w", path, err)
	}
	return nil
}
