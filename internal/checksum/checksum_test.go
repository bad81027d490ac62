package checksum_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temirov/autoreadme/internal/checksum"
	"github.com/temirov/autoreadme/internal/scan"
)

const projectRoot = "/project"

var baseTime = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

func writeFile(t *testing.T, fileSystem afero.Fs, relativePath string, modified time.Time) {
	t.Helper()
	fullPath := filepath.Join(projectRoot, filepath.FromSlash(relativePath))
	require.NoError(t, fileSystem.MkdirAll(filepath.Dir(fullPath), 0o755))
	require.NoError(t, afero.WriteFile(fileSystem, fullPath, []byte(relativePath), 0o644))
	require.NoError(t, fileSystem.Chtimes(fullPath, modified, modified))
}

func newProject(t *testing.T) afero.Fs {
	fileSystem := afero.NewMemMapFs()
	writeFile(t, fileSystem, "src/index.ts", baseTime)
	writeFile(t, fileSystem, "package.json", baseTime)
	writeFile(t, fileSystem, "README.md", baseTime)
	writeFile(t, fileSystem, ".autoreadme.yaml", baseTime)
	writeFile(t, fileSystem, "node_modules/react/index.js", baseTime)
	return fileSystem
}

func compute(fileSystem afero.Fs) string {
	return checksum.Compute(context.Background(), checksum.Options{
		Root:           projectRoot,
		IgnorePatterns: scan.DefaultIgnorePatterns,
		ExcludedFiles:  []string{"README.md"},
		FileSystem:     fileSystem,
	})
}

func TestComputeIsStable(t *testing.T) {
	first := compute(newProject(t))
	second := compute(newProject(t))
	require.Len(t, first, 16)
	assert.Equal(t, first, second)
}

func TestComputeChanges(t *testing.T) {
	baseline := compute(newProject(t))

	testCases := []struct {
		name    string
		mutate  func(*testing.T, afero.Fs)
		changes bool
	}{
		{
			name: "source modified",
			mutate: func(t *testing.T, fileSystem afero.Fs) {
				writeFile(t, fileSystem, "src/index.ts", baseTime.Add(time.Second))
			},
			changes: true,
		},
		{
			name: "file added",
			mutate: func(t *testing.T, fileSystem afero.Fs) {
				writeFile(t, fileSystem, "src/extra.ts", baseTime)
			},
			changes: true,
		},
		{
			name: "empty directory added",
			mutate: func(t *testing.T, fileSystem afero.Fs) {
				require.NoError(t, fileSystem.MkdirAll(filepath.Join(projectRoot, "docs"), 0o755))
			},
			changes: true,
		},
		{
			name: "directory time touched",
			mutate: func(t *testing.T, fileSystem afero.Fs) {
				later := baseTime.Add(time.Hour)
				require.NoError(t, fileSystem.Chtimes(filepath.Join(projectRoot, "src"), later, later))
			},
		},
		{
			name: "readme rewritten",
			mutate: func(t *testing.T, fileSystem afero.Fs) {
				writeFile(t, fileSystem, "README.md", baseTime.Add(time.Hour))
			},
		},
		{
			name: "configuration edited",
			mutate: func(t *testing.T, fileSystem afero.Fs) {
				writeFile(t, fileSystem, ".autoreadme.yaml", baseTime.Add(time.Hour))
			},
		},
		{
			name: "ignored dependency updated",
			mutate: func(t *testing.T, fileSystem afero.Fs) {
				writeFile(t, fileSystem, "node_modules/react/index.js", baseTime.Add(time.Hour))
			},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			fileSystem := newProject(t)
			testCase.mutate(t, fileSystem)
			if testCase.changes {
				assert.NotEqual(t, baseline, compute(fileSystem))
			} else {
				assert.Equal(t, baseline, compute(fileSystem))
			}
		})
	}
}

func TestComputeMissingRootReturnsEmpty(t *testing.T) {
	result := checksum.Compute(context.Background(), checksum.Options{Root: "/absent", FileSystem: afero.NewMemMapFs()})
	assert.Empty(t, result)
}
