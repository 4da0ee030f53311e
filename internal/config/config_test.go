package config

import (
	"strings"
	"testing"
)

func lookupFrom(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(lookupFrom(nil))
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.StoreBackend != BackendMemory {
		t.Errorf("StoreBackend = %q, want memory", cfg.StoreBackend)
	}
	if cfg.MongoDatabase != "finance_tracker" || cfg.MongoCollection != "transactions" {
		t.Errorf("unexpected mongo defaults: %q/%q", cfg.MongoDatabase, cfg.MongoCollection)
	}
	if cfg.BigQueryDataset != "finance" {
		t.Errorf("BigQueryDataset = %q, want finance", cfg.BigQueryDataset)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(lookupFrom(map[string]string{
		"PORT":             "9090",
		"STORE_BACKEND":    " BigQuery ",
		"BIGQUERY_PROJECT": "my-project",
		"LOG_LEVEL":        "debug",
	}))
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}

	if cfg.Port != "9090" || cfg.StoreBackend != BackendBigQuery || cfg.BigQueryProject != "my-project" || cfg.LogLevel != "debug" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestFromEnv_BlankValuesFallBack(t *testing.T) {
	cfg, err := FromEnv(lookupFrom(map[string]string{"PORT": "   "}))
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want default", cfg.Port)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"memory", map[string]string{"STORE_BACKEND": "memory"}, ""},
		{"mongo", map[string]string{"STORE_BACKEND": "mongo"}, ""},
		{"bigquery without project", map[string]string{"STORE_BACKEND": "bigquery"}, "BIGQUERY_PROJECT"},
		{"unknown backend", map[string]string{"STORE_BACKEND": "redis"}, "unknown STORE_BACKEND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromEnv(lookupFrom(tt.env))
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}
