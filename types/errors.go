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
	"errors"
	"fmt"
)

// FileSystemError reports a failed filesystem operation: an unreadable scan
// root, an unwritable target directory or a missing stub template.
type FileSystemError struct {
	Op   string
	Path string
	Err  error
}

// NewFileSystemError wraps err with the failing operation and path.
func NewFileSystemError(op, path string, err error) *FileSystemError {
	return &FileSystemError{Op: op, Path: path, Err: err}
}

func (e *FileSystemError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: filesystem error", e.Op, e.Path)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileSystemError) Unwrap() error { return e.Err }

// IsFileSystemError reports whether err wraps a FileSystemError.
func IsFileSystemError(err error) bool {
	var fsErr *FileSystemError
	return errors.As(err, &fsErr)
}
