// Package features derives a project's feature list from source comments and code signatures.
package features

import (
	"context"
	"regexp"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/temirov/autoreadme/internal/scan"
	"github.com/temirov/autoreadme/internal/utils"
)

const (
	// InProgressText is returned when no feature could be found.
	InProgressText = "Feature extraction in progress..."
	// ErrorText is returned when the project could not be scanned.
	ErrorText = "Error extracting features"

	errorExtractMessage = "feature extraction failed"
	rootLogFieldKey     = "root"
)

// commentTagPattern captures the text after feature, todo, fixme and note tags.
var commentTagPattern = regexp.MustCompile(`(?i)(?://|/\*|\*|#)\s*(?:feature|todo|fixme|note):\s*(.+)`)

type codeSignature struct {
	feature        string
	contentNeedles []string
	fileNeedles    []string
}

// codeSignatures are checked in order; each contributes its feature at most once per file.
var codeSignatures = []codeSignature{
	{feature: "REST API server", contentNeedles: []string{"express()", "app.listen", "http.ListenAndServe", "gin.Default()", "echo.New()", "FastAPI("}},
	{feature: "React frontend", contentNeedles: []string{"React", "jsx"}},
	{feature: "React hooks", contentNeedles: []string{"useState", "useEffect"}},
	{feature: "MongoDB database", contentNeedles: []string{"mongoose", "MongoDB", "go.mongodb.org/mongo-driver"}},
	{feature: "SQL database", contentNeedles: []string{"mysql", "PostgreSQL", "database/sql", "sqlalchemy"}},
	{feature: "Authentication", contentNeedles: []string{"jwt", "passport"}},
	{feature: "File upload", contentNeedles: []string{"multer", "file upload"}},
	{feature: "Real-time communication", contentNeedles: []string{"socket.io", "WebSocket", "gorilla/websocket"}},
	{feature: "Unit testing", contentNeedles: []string{"test", "jest", "mocha"}},
	{feature: "Docker containerization", contentNeedles: []string{"docker"}, fileNeedles: []string{"Dockerfile"}},
	{feature: "Command-line interface", contentNeedles: []string{"spf13/cobra", "commander", "argparse", "clap::"}},
}

// Extractor scans source files under Root.
type Extractor struct {
	Root           string
	IgnorePatterns []string
	Concurrency    int
	FileSystem     afero.Fs
	Logger         *zap.Logger
}

// Extract returns the deduplicated feature list in file order. It never fails:
// an unreadable project yields ErrorText and an empty result yields InProgressText.
func (extractor *Extractor) Extract(ctx context.Context) []string {
	logger := utils.LoggerOrNop(extractor.Logger)
	relativePaths, enumerateError := scan.Enumerate(ctx, extractor.Root, scan.Options{
		IgnorePatterns: extractor.IgnorePatterns,
		Extensions:     scan.SourceExtensions,
		FileSystem:     extractor.FileSystem,
		Logger:         logger,
	})
	if enumerateError != nil {
		logger.Error(errorExtractMessage, zap.String(rootLogFieldKey, extractor.Root), zap.Error(enumerateError))
		return []string{ErrorText}
	}

	perFileFeatures, visitError := scan.Visit(ctx, relativePaths, scan.VisitOptions{
		Root:        extractor.Root,
		FileSystem:  extractor.FileSystem,
		Concurrency: extractor.Concurrency,
		Logger:      logger,
	}, func(relativePath string, content []byte) []string {
		text := string(content)
		return append(FromComments(text), FromCode(text, relativePath)...)
	})
	if visitError != nil {
		logger.Error(errorExtractMessage, zap.String(rootLogFieldKey, extractor.Root), zap.Error(visitError))
		return []string{ErrorText}
	}

	var collected []string
	for _, fileFeatures := range perFileFeatures {
		collected = append(collected, fileFeatures...)
	}
	collected = utils.DeduplicatePatterns(collected)
	if len(collected) == 0 {
		return []string{InProgressText}
	}
	return collected
}

// FromComments returns the trimmed text of every tagged comment in content.
func FromComments(content string) []string {
	var found []string
	for _, match := range commentTagPattern.FindAllStringSubmatch(content, -1) {
		if tagText := strings.TrimSpace(match[1]); tagText != "" {
			found = append(found, tagText)
		}
	}
	return found
}

// FromCode returns the features whose signatures appear in content or filename.
func FromCode(content string, filename string) []string {
	var found []string
	for _, signature := range codeSignatures {
		if containsAny(content, signature.contentNeedles) || containsAny(filename, signature.fileNeedles) {
			found = append(found, signature.feature)
		}
	}
	return found
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}
