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

package database

import (
	"sort"
	"sync"
)

var defaultRegistry = NewModelRegistry()

// SQLModel is a model known to the application at start-up. Instance returns
// a pointer to a bun model struct; Priority orders table creation and model
// discovery (lower first).
type SQLModel interface {
	Instance() any
	Priority() int
}

// ModelRegistry stores SQL models and lists them in priority order.
type ModelRegistry interface {
	Register(model SQLModel)
	Models() []SQLModel
}

type modelRegistry struct {
	models []SQLModel
	mutex  sync.RWMutex
}

// NewModelRegistry returns an empty registry, independent of the default one.
func NewModelRegistry() ModelRegistry {
	return &modelRegistry{models: make([]SQLModel, 0)}
}

func (r *modelRegistry) Register(model SQLModel) {
	if model == nil {
		return
	}
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.models = append(r.models, model)
}

// Models sorts stably, so equal priorities keep registration order.
func (r *modelRegistry) Models() []SQLModel {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make([]SQLModel, len(r.models))
	copy(result, r.models)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Priority() < result[j].Priority()
	})
	return result
}

type ModelAdapter struct {
	instance any
	priority int
}

// NewModelAdapter wraps a struct pointer and priority into an SQLModel.
func NewModelAdapter(instance any, priority int) SQLModel {
	return &ModelAdapter{instance: instance, priority: priority}
}

func (a *ModelAdapter) Instance() any { return a.instance }

func (a *ModelAdapter) Priority() int { return a.priority }

// DefaultRegistry returns the process-wide registry.
func DefaultRegistry() ModelRegistry {
	return defaultRegistry
}

// RegisteredModel adds a model to the default registry.
func RegisteredModel(model SQLModel) {
	defaultRegistry.Register(model)
}

// RegisterModels adds struct pointers to the default registry with priority
// 0, keeping their order.
func RegisterModels(instances ...any) {
	for _, instance := range instances {
		defaultRegistry.Register(NewModelAdapter(instance, 0))
	}
}

// GetRegisteredModels returns the default registry's models by priority.
func GetRegisteredModels() []SQLModel {
	return defaultRegistry.Models()
}

// ModelInstances returns the instances of registry's models by priority.
func ModelInstances(registry ModelRegistry) []any {
	models := registry.Models()
	instances := make([]any, len(models))
	for i, model := range models {
		instances[i] = model.Instance()
	}
	return instances
}

func RegisteredModelInstances() []any {
	return ModelInstances(defaultRegistry)
}
