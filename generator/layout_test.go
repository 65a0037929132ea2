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

package generator

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func backslashLayout() Layout {
	return Layout{
		BaseDir:       "/project",
		RootNamespace: "App",
		Separator:     "\\",
		TypeSeparator: "\\",
	}.Normalize()
}

func TestStudly(t *testing.T) {
	tests := map[string]string{
		"blog":        "Blog",
		"Blog":        "Blog",
		"blog-posts":  "BlogPosts",
		"my_dir":      "MyDir",
		"admin panel": "AdminPanel",
		"API":         "API",
		"v2":          "V2",
		"":            "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Studly(in), "input %q", in)
	}
}

func TestRepositoryAndModelName(t *testing.T) {
	assert.Equal(t, "PostRepository", RepositoryName("PostRepository"))
	assert.Equal(t, "PostRepository", RepositoryName("Blog/Admin/PostRepository"))
	assert.Equal(t, "PostRepository", RepositoryName("./database/PostRepository"))

	tests := []struct{ repository, explicit, want string }{
		{"PostRepository", "", "Post"},
		{"RepositoryRepository", "", "Repository"},
		{"Post", "", "Post"},
		{"PostRepositoryHelper", "", "PostRepositoryHelper"},
		{"PostRepository", "Article", "Article"},
		{"PostRepository", "App\\Models\\Article", "App\\Models\\Article"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ModelName(tt.repository, tt.explicit), "%s --model=%s", tt.repository, tt.explicit)
	}
}

func TestTargetDirWithoutSeparator(t *testing.T) {
	l := backslashLayout()
	for _, input := range []string{"PostRepository", "Post", "CommentRepository", "x"} {
		assert.Equal(t, filepath.Join("/project", "app", "Repositories"), l.TargetDir(input), input)
	}
}

func TestTargetDirRoundTrip(t *testing.T) {
	l := backslashLayout()
	inputs := []string{
		"Blog/PostRepository",
		"Blog/Admin/PostRepository",
		"/Blog/PostRepository",
		"./database/PostRepository",
		"./PostRepository",
		"./src/Domain/Blog/PostRepository",
	}
	for _, input := range inputs {
		base := l.AppRoot()
		path := strings.TrimPrefix(input, "/")
		if rest, ok := strings.CutPrefix(input, "./"); ok {
			base, path = l.BaseDir, rest
		}

		dir := l.TargetDir(input)
		rel, err := filepath.Rel(base, dir)
		assert.NoError(t, err)
		rejoined := filepath.ToSlash(filepath.Join(rel, RepositoryName(input)))
		assert.Equal(t, path, rejoined, input)
	}
}

func TestInferNamespace(t *testing.T) {
	l := backslashLayout()
	tests := []struct{ target, want string }{
		{"/project/app/Repositories", "App\\Repositories"},
		{"/project/app/Blog", "App\\Blog"},
		{"/project/app/blog/admin-tools", "App\\Blog\\AdminTools"},
		{"/project/app", "App"},
		{"/project/database/repos", "Database\\Repos"},
		{"/project/application/Blog", "Application\\Blog"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, l.InferNamespace(tt.target, "/project", "App"), tt.target)
	}
}

func TestInferNamespaceIsIdempotent(t *testing.T) {
	l := backslashLayout()
	for _, target := range []string{"/project/app/Repositories", "/project/app/blog_posts", "/project/lib"} {
		first := l.InferNamespace(target, "/project", "App")
		assert.Equal(t, first, l.InferNamespace(target, "/project", "App"))
	}
}

func TestInferNamespaceOptions(t *testing.T) {
	l := backslashLayout()
	l.BaseNamespace = "Root"
	assert.Equal(t, "Root\\Database", l.InferNamespace("/project/database", "/project", "App"))
	assert.Equal(t, "App\\Blog", l.InferNamespace("/project/app/Blog", "/project", "App"))

	g := Layout{BaseDir: "/src", RootNamespace: "example.com/shop/app", SegmentCase: CasePreserve}.Normalize()
	assert.Equal(t, "example.com/shop/app/blog/admin-tools", g.InferNamespace("/src/app/blog/admin-tools", "/src", g.RootNamespace))
}

func TestLayoutHelpers(t *testing.T) {
	l := backslashLayout()
	assert.Equal(t, "App\\Models\\Post", l.FallbackModel("Post"))
	assert.Equal(t, "App\\Models", l.ScanNamespace("Models"))
	assert.Equal(t, "App", l.ScanNamespace(""))
	assert.Equal(t, "App\\Models\\Post", l.TrimQualifier("\\App\\Models\\Post"))
	assert.True(t, l.IsQualified("Models\\Post"))
	assert.False(t, l.IsQualified("Post"))
	assert.Equal(t, "repositories", l.PackageName("App\\Repositories"))

	g := DefaultLayout()
	g.RootNamespace = "example.com/shop/app"
	ns, name := g.SplitIdentifier("example.com/shop/app/models.Post")
	assert.Equal(t, "example.com/shop/app/models", ns)
	assert.Equal(t, "Post", name)
	ns, name = g.SplitIdentifier("Post")
	assert.Empty(t, ns)
	assert.Equal(t, "Post", name)
	assert.Equal(t, "example.com/shop/app/blog", g.ScanNamespace("blog"))
	assert.Equal(t, "admintools", g.PackageName("example.com/shop/app/Admin-Tools"))
	assert.Equal(t, "repositories", g.PackageName("example.com/shop/app/2024"))
}

func TestDirNamespace(t *testing.T) {
	l := Layout{BaseDir: "/project", RootNamespace: "example.com/shop/app"}.Normalize()

	tests := map[string]string{
		"/project/app":                  "example.com/shop/app",
		"/project/app/models":           "example.com/shop/app/models",
		"/project/app/blog/admin-tools": "example.com/shop/app/blog/admin-tools",
		"/project/internal/store":       "Internal/Store",
		"/project":                      "",
	}
	for dir, want := range tests {
		t.Run(dir, func(t *testing.T) {
			assert.Equal(t, want, l.DirNamespace(filepath.FromSlash(dir)))
		})
	}
}
