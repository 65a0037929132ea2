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

	"github.com/spf13/afero"
	"github.com/tomoncle/reposmith/types"
)

// Emitter renders a RepositorySpec and writes it to disk.
type Emitter struct {
	Fs       afero.Fs
	StubPath string // empty for the built-in stub
}

func NewEmitter(fs afero.Fs, stubPath string) *Emitter {
	return &Emitter{Fs: fs, StubPath: stubPath}
}

// Render returns the file content of spec without writing anything.
func (e *Emitter) Render(spec RepositorySpec) (string, error) {
	stub, err := LoadStub(e.fs(), e.StubPath)
	if err != nil {
		return "", err
	}
	return Render(stub, spec.Tokens()), nil
}

// Emit renders spec and writes it to spec.TargetPath, creating the target
// directory as needed. An existing file is replaced. The content goes to a
// temporary file of the target directory first and is renamed into place,
// so the target is never left half written.
func (e *Emitter) Emit(spec RepositorySpec) (string, error) {
	content, err := e.Render(spec)
	if err != nil {
		return "", err
	}
	if err := e.fs().MkdirAll(spec.TargetDir, 0o755); err != nil {
		return "", types.NewFileSystemError("mkdir", spec.TargetDir, err)
	}
	if err := e.writeAtomic(spec.TargetPath, []byte(content)); err != nil {
		return "", err
	}
	return content, nil
}

func (e *Emitter) writeAtomic(path string, content []byte) (err error) {
	fs := e.fs()
	tmp, err := afero.TempFile(fs, filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return types.NewFileSystemError("create", path, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = fs.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(content); err != nil {
		return types.NewFileSystemError("write", tmpName, err)
	}
	if err = tmp.Sync(); err != nil {
		return types.NewFileSystemError("sync", tmpName, err)
	}
	if err = tmp.Close(); err != nil {
		return types.NewFileSystemError("close", tmpName, err)
	}
	if err = fs.Chmod(tmpName, 0o644); err != nil {
		return types.NewFileSystemError("chmod", tmpName, err)
	}
	if err = fs.Rename(tmpName, path); err != nil {
		return types.NewFileSystemError("rename", path, err)
	}
	return nil
}

func (e *Emitter) fs() afero.Fs {
	if e.Fs == nil {
		return afero.NewOsFs()
	}
	return e.Fs
}
