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

package types

import (
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageRequestDefaults(t *testing.T) {
	tests := []struct {
		name       string
		page, size int
		wantPage   int
		wantSize   int
		wantOffset int
	}{
		{"zero values", 0, 0, 1, 10, 0},
		{"negative values", -3, -1, 1, 10, 0},
		{"third page", 3, 20, 3, 20, 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := NewPageRequest(tt.page, tt.size, nil)
			assert.Equal(t, tt.wantPage, req.GetPage())
			assert.Equal(t, tt.wantSize, req.GetPageSize())
			assert.Equal(t, tt.wantOffset, req.GetOffset())
		})
	}
}

func TestPaginationPages(t *testing.T) {
	p := NewPagination[struct{}](NewPageRequest(1, 10, nil))
	assert.Equal(t, 0, p.Pages())
	assert.False(t, p.HasNext())

	p.Total = 21
	assert.Equal(t, 3, p.Pages())
	assert.True(t, p.HasNext())

	p.Page = 3
	assert.False(t, p.HasNext())
}

func TestFileSystemError(t *testing.T) {
	err := NewFileSystemError("scan", "/missing", fs.ErrNotExist)
	wrapped := fmt.Errorf("resolve model: %w", err)

	assert.True(t, IsFileSystemError(wrapped))
	assert.ErrorIs(t, wrapped, fs.ErrNotExist)
	assert.Equal(t, "scan /missing: file does not exist", err.Error())
	assert.False(t, IsFileSystemError(fmt.Errorf("plain")))
}
