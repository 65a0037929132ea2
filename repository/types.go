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
	"errors"

	"github.com/tomoncle/reposmith/types"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"
)

var (
	// ErrNotFound is returned when a lookup that must succeed matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrMultipleRecords is returned by Sole when more than one row matches.
	ErrMultipleRecords = errors.New("multiple records found")
)

// Attributes maps column names to values. It is used both to match rows
// (column = value, joined with AND) and to fill new entities.
type Attributes map[string]any

// CrudRepository defines basic CRUD operations for a generic entity type.
type CrudRepository[T any] interface {
	GetOne(ctx context.Context, id any) (*T, error)

	GetAll(ctx context.Context) ([]*T, error)

	List(ctx context.Context, filter *types.QueryFilter) ([]*T, error)

	Query(ctx context.Context, query string, args ...any) ([]*T, error)

	Create(ctx context.Context, entity ...*T) error

	Upsert(ctx context.Context, fields []string, duplicateKeys []string, entity ...*T) error

	Update(ctx context.Context, entity *T) error

	Delete(ctx context.Context, id any) error
}

// TransactionRepository defines CRUD operations executed within a transaction.
type TransactionRepository[T any] interface {
	CreateWithTx(ctx context.Context, tx *bun.Tx, entity ...*T) error
	UpsertWithTx(ctx context.Context, tx *bun.Tx, fields []string, duplicateKeys []string, entity ...*T) error
	UpdateWithTx(ctx context.Context, tx *bun.Tx, entity *T) error
	DeleteWithTx(ctx context.Context, tx *bun.Tx, id any) error
}

// PageQueryRepository defines pagination functionality for listing entities.
type PageQueryRepository[T any] interface {
	Page(ctx context.Context, page *types.PageRequest) (*types.Pagination[T], error)
}

// LookupRepository finds, makes and creates single entities. Methods that
// return (nil, nil) report "no match" without an error; the ...OrFail
// variants and Sole return ErrNotFound instead.
type LookupRepository[T any] interface {
	// Model returns a fresh, unsaved entity.
	Model() *T
	// ModelQuery starts a select query on the entity's table.
	ModelQuery() *bun.SelectQuery

	Find(ctx context.Context, id any) (*T, error)
	FindOrFail(ctx context.Context, id any) (*T, error)
	FindOrNew(ctx context.Context, id any) (*T, error)
	FindOr(ctx context.Context, id any, callback func() (*T, error)) (*T, error)

	FirstWhere(ctx context.Context, query string, args ...any) (*T, error)
	FirstOrFail(ctx context.Context, attributes Attributes) (*T, error)
	FirstOr(ctx context.Context, attributes Attributes, callback func() (*T, error)) (*T, error)
	// FirstOrNew returns the first match, or an unsaved entity filled with
	// attributes and then values.
	FirstOrNew(ctx context.Context, attributes, values Attributes) (*T, error)
	// FirstOrCreate is FirstOrNew that inserts the new entity.
	FirstOrCreate(ctx context.Context, attributes, values Attributes) (*T, error)
	// CreateOrFirst inserts first; on a unique constraint violation it
	// returns the row matching attributes.
	CreateOrFirst(ctx context.Context, attributes, values Attributes) (*T, error)
	// UpdateOrCreate fills the first match with values and updates it, or
	// inserts a new entity built from attributes and values.
	UpdateOrCreate(ctx context.Context, attributes, values Attributes) (*T, error)
	Sole(ctx context.Context, attributes Attributes) (*T, error)

	// Make builds an unsaved entity from attributes.
	Make(attributes Attributes) (*T, error)
	// CreateFrom builds an entity from attributes and inserts it.
	CreateFrom(ctx context.Context, attributes Attributes) (*T, error)
}

// Repository combines CRUD, lookup, pagination, and transactional operations
// and exposes Bun query builders for advanced use cases.
type Repository[T any] interface {
	CrudRepository[T]
	LookupRepository[T]
	PageQueryRepository[T]
	TransactionRepository[T]
	DB() *bun.DB
	Dialect() schema.Dialect
	NewSelect() *bun.SelectQuery
	NewInsert() *bun.InsertQuery
	NewUpdate() *bun.UpdateQuery
	NewDelete() *bun.DeleteQuery
}
