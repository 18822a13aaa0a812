package domain_test

import (
	"testing"
	"time"

	"github.com/XCodeIsGoldX/ollamaland/internal/domain"
)

// TestConfig_GetDefaultModel tests retrieving the default model
func TestConfig_GetDefaultModel(t *testing.T) {
	tests := []struct {
		name        string
		config      domain.Config
		wantError   bool
		wantModelID string
	}{
		{
			name: "returns default model successfully",
			config: domain.Config{
				Preferences: domain.Preferences{DefaultModel: "llama2"},
				Models: []domain.ModelDefinition{
					{Name: "llama2", ModelID: "llama2:7b"},
					{Name: "mistral", ModelID: "mistral"},
				},
			},
			wantModelID: "llama2:7b",
		},
		{
			name: "returns error when default model not found",
			config: domain.Config{
				Preferences: domain.Preferences{DefaultModel: "nonexistent"},
				Models:      []domain.ModelDefinition{{Name: "llama2", ModelID: "llama2"}},
			},
			wantError: true,
		},
		{
			name: "returns error when no default model configured",
			config: domain.Config{
				Models: []domain.ModelDefinition{{Name: "llama2", ModelID: "llama2"}},
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model, err := tt.config.GetDefaultModel()
			if tt.wantError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if model.ModelID != tt.wantModelID {
				t.Fatalf("ModelID = %s, want %s", model.ModelID, tt.wantModelID)
			}
		})
	}
}

func TestConfig_PickModel(t *testing.T) {
	cfg := domain.Config{
		Models: []domain.ModelDefinition{
			{Name: "llama2", ModelID: "llama2"},
			{Name: "mistral", ModelID: "mistral:latest"},
		},
	}

	model, err := cfg.PickModel("")
	if err != nil || model.Name != "llama2" {
		t.Fatalf("PickModel(\"\") = %+v, %v; want first model", model, err)
	}

	model, err = cfg.PickModel("mistral")
	if err != nil || model.ModelID != "mistral:latest" {
		t.Fatalf("PickModel(mistral) = %+v, %v", model, err)
	}

	if _, err := cfg.PickModel("gpt"); err == nil {
		t.Fatal("expected error for unknown override")
	}
}

func TestConfig_Defaults(t *testing.T) {
	var cfg domain.Config

	if got := cfg.GetMaxContentSize(); got != domain.DefaultMaxContentSize {
		t.Errorf("GetMaxContentSize() = %d", got)
	}
	if got := cfg.GetConcurrency(); got != domain.DefaultConcurrency {
		t.Errorf("GetConcurrency() = %d", got)
	}
	if got := cfg.GetFetchTimeout(); got != domain.DefaultFetchTimeout {
		t.Errorf("GetFetchTimeout() = %s", got)
	}
	if got := cfg.GetCacheBackend(); got != domain.CacheBackendFile {
		t.Errorf("GetCacheBackend() = %s", got)
	}

	cfg.Fetch.Timeout = "3s"
	if got := cfg.GetFetchTimeout(); got != 3*time.Second {
		t.Errorf("GetFetchTimeout() = %s, want 3s", got)
	}
	cfg.Fetch.Timeout = "soon"
	if got := cfg.GetFetchTimeout(); got != domain.DefaultFetchTimeout {
		t.Errorf("bad duration should fall back, got %s", got)
	}
}

func TestConfig_ValidateConsistency(t *testing.T) {
	tests := []struct {
		name    string
		config  domain.Config
		wantErr bool
	}{
		{
			name: "valid",
			config: domain.Config{
				Preferences: domain.Preferences{DefaultModel: "llama2"},
				Models:      []domain.ModelDefinition{{Name: "llama2"}},
			},
		},
		{
			name: "missing default",
			config: domain.Config{
				Preferences: domain.Preferences{DefaultModel: "llama2"},
			},
			wantErr: true,
		},
		{
			name: "duplicate model",
			config: domain.Config{
				Models: []domain.ModelDefinition{{Name: "a"}, {Name: "a"}},
			},
			wantErr: true,
		},
		{
			name: "shared cache directory",
			config: domain.Config{
				Cache: domain.CacheSettings{ContentDir: "/tmp/c", ResultDir: "/tmp/c"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.ValidateConsistency()
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateConsistency() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestConfig_ModelMutations tests adding, selecting and removing models
func TestConfig_ModelMutations(t *testing.T) {
	cfg := domain.Config{
		Preferences: domain.Preferences{DefaultModel: "llama2"},
		Models:      []domain.ModelDefinition{{Name: "llama2", ModelID: "llama2"}},
	}

	if err := cfg.AddModel(domain.ModelDefinition{Name: "mistral", ModelID: "mistral"}); err != nil {
		t.Fatalf("AddModel() unexpected error: %v", err)
	}
	if err := cfg.AddModel(domain.ModelDefinition{Name: "mistral"}); err == nil {
		t.Fatalf("AddModel() expected duplicate error")
	}
	if err := cfg.SetDefaultModel("missing"); err == nil {
		t.Fatalf("SetDefaultModel() expected error for unknown model")
	}
	if err := cfg.SetDefaultModel("mistral"); err != nil {
		t.Fatalf("SetDefaultModel() unexpected error: %v", err)
	}

	if err := cfg.RemoveModel("mistral"); err != nil {
		t.Fatalf("RemoveModel() unexpected error: %v", err)
	}
	if cfg.Preferences.DefaultModel != "llama2" {
		t.Errorf("default after removal = %q, want llama2", cfg.Preferences.DefaultModel)
	}
	if err := cfg.RemoveModel("mistral"); err == nil {
		t.Fatalf("RemoveModel() expected error for missing model")
	}
}
