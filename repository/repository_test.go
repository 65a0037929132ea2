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

package repository

import (
	"context"
	"database/sql"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/reposmith/database"
	"github.com/tomoncle/reposmith/types"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type post struct {
	bun.BaseModel `bun:"table:posts"`

	ID     int64  `bun:"id,pk,autoincrement"`
	Slug   string `bun:"slug,notnull,unique"`
	Title  string `bun:"title"`
	Status string `bun:"status"`
	Rank   int8   `bun:"rank"`
}

func newTestRepository(t *testing.T) Repository[post] {
	t.Helper()
	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.CreateTables(context.Background(), db, (*post)(nil)))
	return NewRepository[post](db)
}

func seed(t *testing.T, repo Repository[post], posts ...*post) {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), posts...))
}

func TestCrud(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	p := &post{Slug: "hello", Title: "Hello"}
	seed(t, repo, p)
	require.NotZero(t, p.ID)

	got, err := repo.GetOne(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello", got.Title)

	got.Title = "Hello again"
	require.NoError(t, repo.Update(ctx, got))

	list, err := repo.List(ctx, types.NewQueryFilter("title = ?", "Hello again"))
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repo.Delete(ctx, p.ID))
	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestPage(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	seed(t, repo,
		&post{Slug: "a", Status: "draft"},
		&post{Slug: "b", Status: "published"},
		&post{Slug: "c", Status: "published"},
		&post{Slug: "d", Status: "published"},
	)

	page, err := repo.Page(ctx, types.NewPageRequest(2, 2, types.NewQueryFilter("status = ?", "published"), "slug ASC"))
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.Pages())
	assert.False(t, page.HasNext())
	require.Len(t, page.Items, 1)
	assert.Equal(t, "d", page.Items[0].Slug)

	empty, err := repo.Page(ctx, types.NewPageRequest(1, 10, types.NewQueryFilter("status = ?", "archived")))
	require.NoError(t, err)
	assert.Zero(t, empty.Total)
	assert.Empty(t, empty.Items)
}

func TestUpsert(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	seed(t, repo, &post{Slug: "a", Title: "old"})

	err := repo.Upsert(ctx, []string{"title"}, []string{"slug"}, &post{Slug: "a", Title: "new"}, &post{Slug: "b", Title: "other"})
	require.NoError(t, err)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	a, err := repo.FirstOrFail(ctx, Attributes{"slug": "a"})
	require.NoError(t, err)
	assert.Equal(t, "new", a.Title)

	assert.ErrorContains(t, repo.Upsert(ctx, nil, nil, &post{Slug: "c"}), "fields cannot be empty")
}

func TestFind(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	p := &post{Slug: "a"}
	seed(t, repo, p)

	found, err := repo.Find(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "a", found.Slug)

	missing, err := repo.Find(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = repo.FindOrFail(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	fresh, err := repo.FindOrNew(ctx, 999)
	require.NoError(t, err)
	assert.Zero(t, fresh.ID)

	fallback, err := repo.FindOr(ctx, 999, func() (*post, error) { return &post{Slug: "fallback"}, nil })
	require.NoError(t, err)
	assert.Equal(t, "fallback", fallback.Slug)
}

func TestFirst(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	seed(t, repo, &post{Slug: "a", Status: "draft"}, &post{Slug: "b", Status: "draft"})

	first, err := repo.FirstWhere(ctx, "status = ?", "draft")
	require.NoError(t, err)
	require.NotNil(t, first)

	none, err := repo.FirstWhere(ctx, "status = ?", "published")
	require.NoError(t, err)
	assert.Nil(t, none)

	newPost, err := repo.FirstOrNew(ctx, Attributes{"slug": "z"}, Attributes{"title": "Zed"})
	require.NoError(t, err)
	assert.Zero(t, newPost.ID)
	assert.Equal(t, "z", newPost.Slug)
	assert.Equal(t, "Zed", newPost.Title)

	created, err := repo.FirstOrCreate(ctx, Attributes{"slug": "z"}, Attributes{"title": "Zed"})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	again, err := repo.FirstOrCreate(ctx, Attributes{"slug": "z"}, Attributes{"title": "ignored"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)
	assert.Equal(t, "Zed", again.Title)
}

func TestCreateOrFirst(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	first, err := repo.CreateOrFirst(ctx, Attributes{"slug": "a"}, Attributes{"title": "one"})
	require.NoError(t, err)

	second, err := repo.CreateOrFirst(ctx, Attributes{"slug": "a"}, Attributes{"title": "two"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "one", second.Title)
}

func TestUpdateOrCreate(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	created, err := repo.UpdateOrCreate(ctx, Attributes{"slug": "a"}, Attributes{"title": "one"})
	require.NoError(t, err)

	updated, err := repo.UpdateOrCreate(ctx, Attributes{"slug": "a"}, Attributes{"title": "two"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)

	reloaded, err := repo.GetOne(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "two", reloaded.Title)
}

func TestSole(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	seed(t, repo, &post{Slug: "a", Status: "draft"}, &post{Slug: "b", Status: "draft"}, &post{Slug: "c", Status: "published"})

	only, err := repo.Sole(ctx, Attributes{"status": "published"})
	require.NoError(t, err)
	assert.Equal(t, "c", only.Slug)

	_, err = repo.Sole(ctx, Attributes{"status": "draft"})
	assert.ErrorIs(t, err, ErrMultipleRecords)

	_, err = repo.Sole(ctx, Attributes{"status": "archived"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMake(t *testing.T) {
	repo := newTestRepository(t)

	type slug string
	p, err := repo.Make(Attributes{"slug": slug("converted"), "title": nil})
	require.NoError(t, err)
	assert.Equal(t, "converted", p.Slug)
	assert.Empty(t, p.Title)

	_, err = repo.Make(Attributes{"nope": 1})
	assert.ErrorContains(t, err, `no column "nope"`)

	_, err = repo.Make(Attributes{"title": []int{1}})
	assert.Error(t, err)

	assert.NotNil(t, repo.ModelQuery())
	assert.Equal(t, dialect.SQLite, repo.Dialect().Name())
}

func TestTransactions(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	err := repo.DB().RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		p := &post{Slug: "tx"}
		if err := repo.CreateWithTx(ctx, &tx, p); err != nil {
			return err
		}
		p.Title = "in tx"
		return repo.UpdateWithTx(ctx, &tx, p)
	})
	require.NoError(t, err)

	p, err := repo.FirstOrFail(ctx, Attributes{"slug": "tx"})
	require.NoError(t, err)
	assert.Equal(t, "in tx", p.Title)

	tx, err := repo.DB().BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, repo.DeleteWithTx(ctx, &tx, p.ID))
	require.NoError(t, tx.Rollback())

	still, err := repo.Find(ctx, p.ID)
	require.NoError(t, err)
	assert.NotNil(t, still)
}

func TestMakeConversions(t *testing.T) {
	repo := newTestRepository(t)

	p, err := repo.Make(Attributes{"id": int32(7), "rank": 12})
	require.NoError(t, err)
	assert.Equal(t, int64(7), p.ID)
	assert.Equal(t, int8(12), p.Rank)

	p, err = repo.Make(Attributes{"id": uint8(3), "rank": uint16(127)})
	require.NoError(t, err)
	assert.Equal(t, int64(3), p.ID)
	assert.Equal(t, int8(127), p.Rank)

	tests := []struct {
		name       string
		attributes Attributes
	}{
		{"truncating int", Attributes{"rank": int64(300)}},
		{"negative to signed overflow", Attributes{"rank": -129}},
		{"uint beyond int64", Attributes{"id": uint64(math.MaxUint64)}},
		{"int to string", Attributes{"title": 65}},
		{"float to int", Attributes{"id": 1.5}},
		{"float to string", Attributes{"slug": 3.0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.Make(tt.attributes)
			assert.ErrorContains(t, err, "cannot assign")
		})
	}
}
