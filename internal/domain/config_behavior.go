package domain

import (
	"fmt"
	"time"
)

// GetDefaultModel retrieves the default model definition from configuration
// Returns an error if the default model is not found
func (c *Config) GetDefaultModel() (ModelDefinition, error) {
	if c.Preferences.DefaultModel == "" {
		return ModelDefinition{}, fmt.Errorf("no default model configured")
	}

	for _, model := range c.Models {
		if model.Name == c.Preferences.DefaultModel {
			return model, nil
		}
	}

	return ModelDefinition{}, fmt.Errorf("default model %s not found in configuration", c.Preferences.DefaultModel)
}

// FindModelByName searches for a model by its name
func (c *Config) FindModelByName(name string) (ModelDefinition, bool) {
	for _, model := range c.Models {
		if model.Name == name {
			return model, true
		}
	}
	return ModelDefinition{}, false
}

// HasModel checks if a model with the given name exists in the configuration
func (c *Config) HasModel(name string) bool {
	_, exists := c.FindModelByName(name)
	return exists
}

// AddModel appends a new model definition. Names must be unique.
func (c *Config) AddModel(model ModelDefinition) error {
	if c.HasModel(model.Name) {
		return fmt.Errorf("model with name %s already exists", model.Name)
	}

	c.Models = append(c.Models, model)
	return nil
}

// RemoveModel removes a model by name. When it was the default, the first
// remaining model becomes the default.
func (c *Config) RemoveModel(name string) error {
	indexToRemove := -1
	for i, model := range c.Models {
		if model.Name == name {
			indexToRemove = i
			break
		}
	}

	if indexToRemove == -1 {
		return fmt.Errorf("model %s not found", name)
	}

	c.Models = append(c.Models[:indexToRemove], c.Models[indexToRemove+1:]...)

	if c.Preferences.DefaultModel == name {
		c.Preferences.DefaultModel = ""
		if len(c.Models) > 0 {
			c.Preferences.DefaultModel = c.Models[0].Name
		}
	}

	return nil
}

// SetDefaultModel makes an existing model the default.
func (c *Config) SetDefaultModel(name string) error {
	if !c.HasModel(name) {
		return fmt.Errorf("cannot set default model: model %s does not exist", name)
	}

	c.Preferences.DefaultModel = name
	return nil
}

// PickModel resolves an override name, then the default, then the first configured model.
func (c *Config) PickModel(override string) (ModelDefinition, error) {
	if override != "" {
		if model, ok := c.FindModelByName(override); ok {
			return model, nil
		}
		return ModelDefinition{}, fmt.Errorf("model %s not configured", override)
	}
	if c.Preferences.DefaultModel == "" && len(c.Models) > 0 {
		return c.Models[0], nil
	}
	return c.GetDefaultModel()
}

// GetTimeout returns the generation request timeout.
func (c *Config) GetTimeout() time.Duration {
	if c.Preferences.TimeoutSeconds <= 0 {
		return DefaultHTTPClientTimeout
	}
	return time.Duration(c.Preferences.TimeoutSeconds) * time.Second
}

// GetFetchTimeout parses fetch.timeout, falling back to the default on empty or bad input.
func (c *Config) GetFetchTimeout() time.Duration {
	if c.Fetch.Timeout == "" {
		return DefaultFetchTimeout
	}
	d, err := time.ParseDuration(c.Fetch.Timeout)
	if err != nil || d <= 0 {
		return DefaultFetchTimeout
	}
	return d
}

// GetMaxContentSize returns the stored content cap in bytes.
func (c *Config) GetMaxContentSize() int {
	if c.Fetch.MaxContentSize <= 0 {
		return DefaultMaxContentSize
	}
	return c.Fetch.MaxContentSize
}

// GetMaxBodyBytes returns the raw body read limit.
func (c *Config) GetMaxBodyBytes() int64 {
	if c.Fetch.MaxBodyBytes <= 0 {
		return DefaultMaxBodyBytes
	}
	return c.Fetch.MaxBodyBytes
}

// GetConcurrency returns the batch fetch bound.
func (c *Config) GetConcurrency() int {
	if c.Fetch.Concurrency <= 0 {
		return DefaultConcurrency
	}
	return c.Fetch.Concurrency
}

// GetExcerptChars returns the analysis prompt excerpt length.
func (c *Config) GetExcerptChars() int {
	if c.Analysis.ExcerptChars <= 0 {
		return DefaultExcerptChars
	}
	return c.Analysis.ExcerptChars
}

// GetCompareExcerptChars returns the per-URL comparison excerpt length.
func (c *Config) GetCompareExcerptChars() int {
	if c.Analysis.CompareExcerptChars <= 0 {
		return DefaultCompareExcerptChars
	}
	return c.Analysis.CompareExcerptChars
}

// GetCacheBackend returns the configured backend name, file by default.
func (c *Config) GetCacheBackend() string {
	if c.Cache.Backend == "" {
		return CacheBackendFile
	}
	return c.Cache.Backend
}

// ValidateConsistency checks the internal consistency of the configuration
func (c *Config) ValidateConsistency() error {
	if c.Preferences.DefaultModel != "" && !c.HasModel(c.Preferences.DefaultModel) {
		return fmt.Errorf("default model %s does not exist in models list", c.Preferences.DefaultModel)
	}

	seen := make(map[string]bool, len(c.Models))
	for _, model := range c.Models {
		if seen[model.Name] {
			return fmt.Errorf("model %s declared more than once", model.Name)
		}
		seen[model.Name] = true
	}

	if c.GetCacheBackend() == CacheBackendFile && c.Cache.ContentDir != "" && c.Cache.ContentDir == c.Cache.ResultDir {
		return fmt.Errorf("content and result caches must use different directories")
	}

	return nil
}
