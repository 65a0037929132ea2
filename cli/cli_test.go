/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */


package cli

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/reposmith/database"
	"github.com/tomoncle/reposmith/utils"
	"github.com/uptrace/bun"
	"gopkg.in/yaml.v3"
)

const (
	configPath = "/project/reposmith.yaml"

	goMod = "module example.com/shop\n\ngo 1.24\n"

	baseConfig = "layout:\n  base_dir: /project\n"

	postSource = `package models

import "github.com/uptrace/bun"

type Post struct {
	bun.BaseModel

	ID    int64
	Title string
}
`

	draftSource = `package models

type Draft struct {
	Title string
}
`
)

type Author struct {
	bun.BaseModel

	ID   int64
	Name string
}

func newProject(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/project/app", 0o755))
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, filepath.Join("/project", name), []byte(content), 0o644))
	}
	return fs
}

func defaultProject(t *testing.T) afero.Fs {
	return newProject(t, map[string]string{
		"go.mod":              goMod,
		"reposmith.yaml":      baseConfig,
		"app/models/post.go":  postSource,
		"app/models/draft.go": draftSource,
	})
}

type runResult struct {
	out  string
	err  string
	code int
}

func run(t *testing.T, fs afero.Fs, opts []Option, args ...string) runResult {
	t.Helper()
	utils.SetConsoleOutput(io.Discard)
	var out, errOut bytes.Buffer
	opts = append([]Option{WithFs(fs), WithOutput(&out, &errOut)}, opts...)
	cmd := NewRootCommand(opts...)
	code := Run(cmd, append(args, "--config="+configPath))
	return runResult{out: out.String(), err: errOut.String(), code: code}
}

func TestMakeRepository(t *testing.T) {
	fs := defaultProject(t)

	res := run(t, fs, nil, "PostRepository")
	require.Equal(t, 0, res.code, res.err)

	target := filepath.FromSlash("/project/app/Repositories/PostRepository.go")
	assert.Contains(t, res.out, "Repository created:")
	assert.Contains(t, res.out, target)
	assert.Contains(t, res.out, "example.com/shop/app/models.Post")

	content, err := afero.ReadFile(fs, target)
	require.NoError(t, err)
	assert.Contains(t, string(content), `package repositories // import "example.com/shop/app/Repositories"`)
	assert.Contains(t, string(content), "\t\"example.com/shop/app/models\"\n")
	assert.Contains(t, string(content), "repository.Repository[models.Post]")
}

func TestMakeRepositoryNested(t *testing.T) {
	fs := defaultProject(t)

	res := run(t, fs, nil, "blog/PostRepository")
	require.Equal(t, 0, res.code, res.err)

	content, err := afero.ReadFile(fs, filepath.FromSlash("/project/app/blog/PostRepository.go"))
	require.NoError(t, err)
	assert.Contains(t, string(content), `package blog // import "example.com/shop/app/Blog"`)
}

func TestMakeRepositoryExplicitModel(t *testing.T) {
	fs := defaultProject(t)

	res := run(t, fs, nil, "ArchiveRepository", "--model", "Post")
	require.Equal(t, 0, res.code, res.err)
	assert.Contains(t, res.out, "example.com/shop/app/Models.Post")

	content, err := afero.ReadFile(fs, filepath.FromSlash("/project/app/Repositories/ArchiveRepository.go"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "\t\"example.com/shop/app/Models\"\n")
	assert.Contains(t, string(content), "repository.Repository[models.Post]")
}

func TestMakeRepositoryDryRun(t *testing.T) {
	fs := defaultProject(t)

	res := run(t, fs, nil, "PostRepository", "--dry-run")
	require.Equal(t, 0, res.code, res.err)
	assert.Contains(t, res.out, "type PostRepository struct {")
	assert.NotContains(t, res.out, "Repository created:")

	exists, err := afero.DirExists(fs, "/project/app/Repositories")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMakeRepositoryFromRegistry(t *testing.T) {
	fs := defaultProject(t)
	registry := database.NewModelRegistry()
	registry.Register(database.NewModelAdapter(&Author{}, 0))

	res := run(t, fs, []Option{WithRegistry(registry)}, "AuthorRepository", "--dry-run")
	require.Equal(t, 0, res.code, res.err)
	assert.Contains(t, res.out, "\t\"github.com/tomoncle/reposmith/cli\"\n")
	assert.Contains(t, res.out, "repository.Repository[cli.Author]")
}

func TestMakeRepositoryStubFromConfig(t *testing.T) {
	fs := newProject(t, map[string]string{
		"go.mod":                goMod,
		"reposmith.yaml":        baseConfig + "stub:\n  path: /project/stubs/repository.stub\n",
		"stubs/repository.stub": "// {{repositoryBaseName}} -> {{modelFQDN}}\n",
	})

	res := run(t, fs, nil, "PostRepository", "--dry-run")
	require.Equal(t, 0, res.code, res.err)
	assert.Equal(t, "// PostRepository -> example.com/shop/app/Models.Post\n", res.out)
}

func TestMakeRepositoryStubFlag(t *testing.T) {
	fs := defaultProject(t)

	res := run(t, fs, nil, "PostRepository", "--stub", "/project/missing.stub")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.err, "ERROR:")
	assert.Contains(t, res.err, "missing.stub")
}

func TestMakeRepositoryMissingAppRoot(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, configPath, []byte(baseConfig), 0o644))

	res := run(t, fs, nil, "PostRepository")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.err, "ERROR:")

	exists, err := afero.DirExists(fs, "/project/app/Repositories")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMakeRepositoryRequiresName(t *testing.T) {
	res := run(t, defaultProject(t), nil)
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.err, "accepts 1 arg(s)")
}

func TestExplicitConfigMustExist(t *testing.T) {
	fs := newProject(t, map[string]string{"go.mod": goMod})

	res := run(t, fs, nil, "PostRepository")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.err, "read config")
}

func TestEnvOverridesConfig(t *testing.T) {
	t.Setenv("REPOSMITH_LAYOUT_DEFAULT_DIR", "Repos")
	fs := defaultProject(t)

	res := run(t, fs, nil, "PostRepository")
	require.Equal(t, 0, res.code, res.err)

	exists, err := afero.Exists(fs, filepath.FromSlash("/project/app/Repos/PostRepository.go"))
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestModelsCommand(t *testing.T) {
	fs := defaultProject(t)

	res := run(t, fs, nil, "models")
	require.Equal(t, 0, res.code, res.err)
	assert.Contains(t, res.out, "example.com/shop/app/models.Post")
	assert.Contains(t, res.out, "models/post.go")
	assert.NotContains(t, res.out, "Draft")

	res = run(t, fs, nil, "models", "--all")
	require.Equal(t, 0, res.code, res.err)
	assert.Contains(t, res.out, "Draft")
	assert.Contains(t, res.out, "false")
}

func TestModelsCommandEmpty(t *testing.T) {
	fs := newProject(t, map[string]string{"go.mod": goMod, "reposmith.yaml": baseConfig})

	res := run(t, fs, nil, "models")
	require.Equal(t, 0, res.code, res.err)
	assert.Equal(t, "No models found.\n", res.out)
}

func TestConfigCommand(t *testing.T) {
	fs := newProject(t, map[string]string{
		"go.mod":         goMod,
		"reposmith.yaml": baseConfig + "  segment_case: preserve\n",
	})

	res := run(t, fs, nil, "config")
	require.Equal(t, 0, res.code, res.err)

	var cfg effectiveConfig
	require.NoError(t, yaml.Unmarshal([]byte(res.out), &cfg))
	assert.Equal(t, "/project", cfg.Layout.BaseDir)
	assert.Equal(t, "example.com/shop/app", cfg.Layout.RootNamespace)
	assert.Equal(t, "Repositories", cfg.Layout.DefaultDir)
	assert.Equal(t, "preserve", string(cfg.Layout.SegmentCase))
	assert.Empty(t, cfg.Stub.Path)
}

func TestLayoutWithoutGoMod(t *testing.T) {
	fs := afero.NewMemMapFs()
	v := newViper(fs)
	v.Set(baseDirKey, "/project")

	l := layoutFromConfig(v, fs)
	assert.Equal(t, "App", l.RootNamespace)
	assert.Equal(t, "/project", l.BaseDir)
	assert.Equal(t, ".go", l.Extension)
}

func TestLayoutRootNamespaceFromConfig(t *testing.T) {
	fs := newProject(t, map[string]string{"go.mod": goMod})
	v := newViper(fs)
	v.Set(baseDirKey, "/project")
	v.Set(rootNamespaceKey, "example.com/other/app")

	assert.Equal(t, "example.com/other/app", layoutFromConfig(v, fs).RootNamespace)
}

func TestLogOptions(t *testing.T) {
	v := newViper(afero.NewMemMapFs())
	opts := logOptions(v)
	assert.Equal(t, "info", opts.Level)
	assert.Empty(t, opts.Filename)
	assert.Equal(t, 10, opts.MaxSize)

	v.Set(logVerboseKey, true)
	assert.Equal(t, "debug", logOptions(v).Level)
}

func TestLogFileFromEnvironment(t *testing.T) {
	t.Setenv("FILE_LOG_ENABLED", "true")
	t.Setenv("FILE_LOG_NAME", "/tmp/make-repository.log")

	opts := logOptions(newViper(afero.NewMemMapFs()))
	assert.Equal(t, "/tmp/make-repository.log", opts.Filename)

	t.Setenv("REPOSMITH_LOG_FILENAME", "/tmp/override.log")
	assert.Equal(t, "/tmp/override.log", logOptions(newViper(afero.NewMemMapFs())).Filename)
}
