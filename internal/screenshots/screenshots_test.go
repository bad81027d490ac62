package screenshots_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temirov/autoreadme/internal/screenshots"
	"github.com/temirov/autoreadme/internal/types"
)

const projectRoot = "/project"

func newProject(t *testing.T, files ...string) afero.Fs {
	t.Helper()
	fileSystem := afero.NewMemMapFs()
	for _, relativePath := range files {
		fullPath := filepath.Join(projectRoot, filepath.FromSlash(relativePath))
		require.NoError(t, fileSystem.MkdirAll(filepath.Dir(fullPath), 0o755))
		require.NoError(t, afero.WriteFile(fileSystem, fullPath, []byte("img"), 0o644))
	}
	return fileSystem
}

func TestFindScreenshots(t *testing.T) {
	fileSystem := newProject(t,
		"screenshots/home.png",
		"screenshots/mobile/login.JPG",
		"screenshots/notes.txt",
		"public/images/banner.webp",
		"assets/images/icon.gif",
		"assets/logo.png",
	)
	finder := &screenshots.Finder{Root: projectRoot, FileSystem: fileSystem}

	found := finder.Find(context.Background())

	assert.Equal(t, []types.Screenshot{
		{Name: "home", Path: "screenshots/home.png", Filename: "home.png"},
		{Name: "login", Path: "screenshots/mobile/login.JPG", Filename: "mobile/login.JPG"},
		{Name: "icon", Path: "assets/images/icon.gif", Filename: "icon.gif"},
		{Name: "banner", Path: "public/images/banner.webp", Filename: "banner.webp"},
	}, found)
}

func TestFindWithoutScreenshotDirectories(t *testing.T) {
	fileSystem := newProject(t, "src/index.ts")
	finder := &screenshots.Finder{Root: projectRoot, FileSystem: fileSystem}
	assert.Empty(t, finder.Find(context.Background()))
}

func TestFindStopsOnCancelledContext(t *testing.T) {
	fileSystem := newProject(t, "images/a.png")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	finder := &screenshots.Finder{Root: projectRoot, FileSystem: fileSystem}
	assert.Empty(t, finder.Find(ctx))
}
