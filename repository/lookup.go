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
	"fmt"
	"maps"
	"math"
	"reflect"
	"slices"

	"github.com/tomoncle/reposmith/database"
	"github.com/uptrace/bun"
)

func (r *baseRepositoryImpl[T]) Model() *T { return new(T) }

func (r *baseRepositoryImpl[T]) ModelQuery() *bun.SelectQuery {
	return r.db.NewSelect().Model((*T)(nil))
}

func (r *baseRepositoryImpl[T]) Find(ctx context.Context, id any) (*T, error) {
	return r.first(ctx, r.db.NewSelect().Where("? = ?", r.pkColumn(), id))
}

func (r *baseRepositoryImpl[T]) FindOrFail(ctx context.Context, id any) (*T, error) {
	entity, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, fmt.Errorf("%w: %s %s=%v", ErrNotFound, r.table().TypeName, r.pkColumn(), id)
	}
	return entity, nil
}

func (r *baseRepositoryImpl[T]) FindOrNew(ctx context.Context, id any) (*T, error) {
	return r.FindOr(ctx, id, func() (*T, error) { return r.Model(), nil })
}

func (r *baseRepositoryImpl[T]) FindOr(ctx context.Context, id any, callback func() (*T, error)) (*T, error) {
	entity, err := r.Find(ctx, id)
	if err != nil || entity != nil {
		return entity, err
	}
	return callback()
}

func (r *baseRepositoryImpl[T]) FirstWhere(ctx context.Context, query string, args ...any) (*T, error) {
	return r.first(ctx, r.db.NewSelect().Where(query, args...))
}

func (r *baseRepositoryImpl[T]) FirstOrFail(ctx context.Context, attributes Attributes) (*T, error) {
	entity, err := r.firstMatching(ctx, attributes)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, r.table().TypeName)
	}
	return entity, nil
}

func (r *baseRepositoryImpl[T]) FirstOr(ctx context.Context, attributes Attributes, callback func() (*T, error)) (*T, error) {
	entity, err := r.firstMatching(ctx, attributes)
	if err != nil || entity != nil {
		return entity, err
	}
	return callback()
}

func (r *baseRepositoryImpl[T]) FirstOrNew(ctx context.Context, attributes, values Attributes) (*T, error) {
	return r.FirstOr(ctx, attributes, func() (*T, error) {
		return r.Make(merge(attributes, values))
	})
}

func (r *baseRepositoryImpl[T]) FirstOrCreate(ctx context.Context, attributes, values Attributes) (*T, error) {
	return r.FirstOr(ctx, attributes, func() (*T, error) {
		return r.CreateFrom(ctx, merge(attributes, values))
	})
}

func (r *baseRepositoryImpl[T]) CreateOrFirst(ctx context.Context, attributes, values Attributes) (*T, error) {
	entity, err := r.CreateFrom(ctx, merge(attributes, values))
	if database.IsDuplicateKey(err) {
		return r.FirstOrFail(ctx, attributes)
	}
	return entity, err
}

func (r *baseRepositoryImpl[T]) UpdateOrCreate(ctx context.Context, attributes, values Attributes) (*T, error) {
	entity, err := r.firstMatching(ctx, attributes)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return r.CreateFrom(ctx, merge(attributes, values))
	}
	if err := r.fill(entity, values); err != nil {
		return nil, err
	}
	if err := r.Update(ctx, entity); err != nil {
		return nil, err
	}
	return entity, nil
}

func (r *baseRepositoryImpl[T]) Sole(ctx context.Context, attributes Attributes) (*T, error) {
	var entities []*T
	query := r.db.NewSelect().Model(&entities).Limit(2)
	if err := r.applyAttributes(query, attributes).Scan(ctx); err != nil {
		return nil, err
	}
	switch len(entities) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, r.table().TypeName)
	case 1:
		return entities[0], nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrMultipleRecords, r.table().TypeName)
	}
}

func (r *baseRepositoryImpl[T]) Make(attributes Attributes) (*T, error) {
	entity := r.Model()
	if err := r.fill(entity, attributes); err != nil {
		return nil, err
	}
	return entity, nil
}

func (r *baseRepositoryImpl[T]) CreateFrom(ctx context.Context, attributes Attributes) (*T, error) {
	entity, err := r.Make(attributes)
	if err != nil {
		return nil, err
	}
	if err := r.Create(ctx, entity); err != nil {
		return nil, err
	}
	return entity, nil
}

// first scans the first row of query into a new entity; no row is (nil, nil).
func (r *baseRepositoryImpl[T]) first(ctx context.Context, query *bun.SelectQuery) (*T, error) {
	entity := new(T)
	err := query.Model(entity).Limit(1).Scan(ctx)
	if database.IsNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return entity, nil
}

func (r *baseRepositoryImpl[T]) firstMatching(ctx context.Context, attributes Attributes) (*T, error) {
	return r.first(ctx, r.applyAttributes(r.db.NewSelect(), attributes))
}

// applyAttributes adds one equality per attribute, in column order.
func (r *baseRepositoryImpl[T]) applyAttributes(query *bun.SelectQuery, attributes Attributes) *bun.SelectQuery {
	for _, column := range slices.Sorted(maps.Keys(attributes)) {
		query = query.Where("? = ?", bun.Ident(column), attributes[column])
	}
	return query
}

// fill assigns attributes to the struct fields mapped to those columns.
func (r *baseRepositoryImpl[T]) fill(entity *T, attributes Attributes) error {
	table := r.table()
	strct := reflect.ValueOf(entity).Elem()
	for _, column := range slices.Sorted(maps.Keys(attributes)) {
		field, ok := table.FieldMap[column]
		if !ok {
			return fmt.Errorf("%s has no column %q", table.TypeName, column)
		}
		dst := strct.FieldByIndex(field.Index)
		value := attributes[column]
		if value == nil {
			dst.Set(reflect.Zero(dst.Type()))
			continue
		}
		src := reflect.ValueOf(value)
		if src.Type().AssignableTo(dst.Type()) {
			dst.Set(src)
			continue
		}
		converted, ok := convert(src, dst.Type())
		if !ok {
			return fmt.Errorf("cannot assign %T(%v) to %s.%s", value, value, table.TypeName, column)
		}
		dst.Set(converted)
	}
	return nil
}

// convert converts src to t without losing information. Integers convert to
// integers whose range holds the value, floats to floats within range, and
// any other value only to a type of its own kind.
func convert(src reflect.Value, t reflect.Type) (reflect.Value, bool) {
	out := reflect.New(t).Elem()
	switch sk, tk := src.Kind(), t.Kind(); {
	case isInteger(sk) && isInteger(tk):
		return out, setInteger(out, src)
	case isFloat(sk) && isFloat(tk):
		if out.OverflowFloat(src.Float()) {
			return out, false
		}
		out.SetFloat(src.Float())
		return out, true
	case isInteger(sk) || isInteger(tk) || isFloat(sk) || isFloat(tk):
		return out, false
	case sk == tk && src.Type().ConvertibleTo(t):
		return src.Convert(t), true
	}
	return out, false
}

func setInteger(out, src reflect.Value) bool {
	if isSigned(src.Kind()) {
		n := src.Int()
		if isSigned(out.Kind()) {
			if out.OverflowInt(n) {
				return false
			}
			out.SetInt(n)
			return true
		}
		if n < 0 || out.OverflowUint(uint64(n)) {
			return false
		}
		out.SetUint(uint64(n))
		return true
	}
	n := src.Uint()
	if isSigned(out.Kind()) {
		if n > math.MaxInt64 || out.OverflowInt(int64(n)) {
			return false
		}
		out.SetInt(int64(n))
		return true
	}
	if out.OverflowUint(n) {
		return false
	}
	out.SetUint(n)
	return true
}

func isSigned(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isInteger(k reflect.Kind) bool {
	return isSigned(k) || (k >= reflect.Uint && k <= reflect.Uint64)
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

func merge(attributes, values Attributes) Attributes {
	merged := make(Attributes, len(attributes)+len(values))
	maps.Copy(merged, attributes)
	maps.Copy(merged, values)
	return merged
}
