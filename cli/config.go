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
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"github.com/tomoncle/reposmith/generator"
	"github.com/tomoncle/reposmith/types"
	"github.com/tomoncle/reposmith/utils"
	"golang.org/x/mod/modfile"
)

const (
	configBaseName = "reposmith"
	configFileName = configBaseName + ".yaml"

	envPrefix = "REPOSMITH"

	configFlagName  = "config"
	verboseFlagName = "verbose"
	logFileFlagName = "log-file"
	modelFlagName   = "model"
	dryRunFlagName  = "dry-run"
	stubFlagName    = "stub"
	allFlagName     = "all"

	baseDirKey         = "layout.base_dir"
	appDirKey          = "layout.app_dir"
	rootNamespaceKey   = "layout.root_namespace"
	baseNamespaceKey   = "layout.base_namespace"
	separatorKey       = "layout.separator"
	typeSeparatorKey   = "layout.type_separator"
	modelsNamespaceKey = "layout.models_namespace"
	defaultDirKey      = "layout.default_dir"
	extensionKey       = "layout.extension"
	segmentCaseKey     = "layout.segment_case"

	stubPathKey = "stub.path"

	logLevelKey      = "log.level"
	logFormatKey     = "log.format"
	logVerboseKey    = "log.verbose"
	logFilenameKey   = "log.filename"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	goModFile = "go.mod"
)

// newViper returns a configuration reading files through fs. Environment
// variables use the REPOSMITH_ prefix with dots replaced by underscores,
// e.g. REPOSMITH_LAYOUT_APP_DIR.
func newViper(fs afero.Fs) *viper.Viper {
	v := viper.New()
	v.SetFs(fs)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	d := generator.DefaultLayout()
	v.SetDefault(baseDirKey, ".")
	v.SetDefault(appDirKey, d.AppDir)
	// Empty means: derive from go.mod.
	v.SetDefault(rootNamespaceKey, "")
	v.SetDefault(baseNamespaceKey, "")
	v.SetDefault(separatorKey, d.Separator)
	v.SetDefault(typeSeparatorKey, d.TypeSeparator)
	v.SetDefault(modelsNamespaceKey, d.ModelsNamespace)
	v.SetDefault(defaultDirKey, d.DefaultDir)
	v.SetDefault(extensionKey, d.Extension)
	v.SetDefault(segmentCaseKey, string(d.SegmentCase))

	v.SetDefault(stubPathKey, "")

	// Logging defaults (LOG_LEVEL, FILE_LOG_ENABLED, ...) come from the
	// environment; config and REPOSMITH_LOG_* override them.
	logDefaults := utils.DefaultLogOptions()
	v.SetDefault(logLevelKey, logDefaults.Level)
	v.SetDefault(logFormatKey, logDefaults.Format)
	v.SetDefault(logVerboseKey, false)
	v.SetDefault(logFilenameKey, logDefaults.Filename)
	v.SetDefault(logMaxSizeKey, logDefaults.MaxSize)
	v.SetDefault(logMaxBackupsKey, logDefaults.MaxBackups)
	v.SetDefault(logMaxAgeKey, logDefaults.MaxAge)
	v.SetDefault(logCompressKey, logDefaults.Compress)
	return v
}

// readConfig loads file into v. A missing file is only an error when it was
// asked for explicitly.
func readConfig(v *viper.Viper, file string, explicit bool) error {
	v.SetConfigFile(file)
	err := v.ReadInConfig()
	if err == nil {
		return nil
	}
	var notFound viper.ConfigFileNotFoundError
	if !explicit && (errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)) {
		return nil
	}
	return types.NewFileSystemError("read config", file, err)
}

// layoutFromConfig builds the layout from v. Without a configured root
// namespace the module path of the project's go.mod, joined with the app
// directory, is used, and the default one when there is no go.mod.
func layoutFromConfig(v *viper.Viper, fsys afero.Fs) generator.Layout {
	l := generator.Layout{
		BaseDir:         v.GetString(baseDirKey),
		AppDir:          v.GetString(appDirKey),
		RootNamespace:   v.GetString(rootNamespaceKey),
		BaseNamespace:   v.GetString(baseNamespaceKey),
		Separator:       v.GetString(separatorKey),
		TypeSeparator:   v.GetString(typeSeparatorKey),
		ModelsNamespace: v.GetString(modelsNamespaceKey),
		DefaultDir:      v.GetString(defaultDirKey),
		Extension:       v.GetString(extensionKey),
		SegmentCase:     generator.SegmentCase(v.GetString(segmentCaseKey)),
	}.Normalize()

	if v.GetString(rootNamespaceKey) == "" {
		if module := modulePath(fsys, l.BaseDir); module != "" {
			l.RootNamespace = module + "/" + filepath.ToSlash(l.AppDir)
		}
	}
	return l
}

// modulePath returns the module path declared by baseDir/go.mod, or "".
func modulePath(fsys afero.Fs, baseDir string) string {
	data, err := afero.ReadFile(fsys, filepath.Join(baseDir, goModFile))
	if err != nil {
		return ""
	}
	return modfile.ModulePath(data)
}

func logOptions(v *viper.Viper) utils.LogOptions {
	level := v.GetString(logLevelKey)
	if v.GetBool(logVerboseKey) {
		level = "debug"
	}
	return utils.LogOptions{
		Level:      level,
		Format:     v.GetString(logFormatKey),
		Filename:   v.GetString(logFilenameKey),
		MaxSize:    v.GetInt(logMaxSizeKey),
		MaxBackups: v.GetInt(logMaxBackupsKey),
		MaxAge:     v.GetInt(logMaxAgeKey),
		Compress:   v.GetBool(logCompressKey),
	}
}
