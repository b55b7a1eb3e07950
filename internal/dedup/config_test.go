package dedup

import (
	"testing"
)

func TestConfigFromEnv(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		wantErr bool
		check   func(t *testing.T, cfg Config)
	}{
		{
			name:    "no environment variables uses defaults",
			envVars: map[string]string{},
			check: func(t *testing.T, cfg Config) {
				defaults := DefaultConfig()
				if cfg != defaults {
					t.Errorf("cfg = %+v, want defaults %+v", cfg, defaults)
				}
			},
		},
		{
			name: "valid custom configuration",
			envVars: map[string]string{
				"TRIAGE_DEDUP_HIGH_THRESHOLD":            "0.95",
				"TRIAGE_DEDUP_MEDIUM_THRESHOLD":          "0.70",
				"TRIAGE_DEDUP_FALLBACK_HIGH_THRESHOLD":   "0.85",
				"TRIAGE_DEDUP_FALLBACK_MEDIUM_THRESHOLD": "0.55",
			},
			check: func(t *testing.T, cfg Config) {
				if cfg.Embedding.High != 0.95 {
					t.Errorf("Embedding.High = %v, want 0.95", cfg.Embedding.High)
				}
				if cfg.Embedding.Medium != 0.70 {
					t.Errorf("Embedding.Medium = %v, want 0.70", cfg.Embedding.Medium)
				}
				if cfg.Fallback.High != 0.85 {
					t.Errorf("Fallback.High = %v, want 0.85", cfg.Fallback.High)
				}
				if cfg.Fallback.Medium != 0.55 {
					t.Errorf("Fallback.Medium = %v, want 0.55", cfg.Fallback.Medium)
				}
			},
		},
		{
			name: "medium above high is rejected",
			envVars: map[string]string{
				"TRIAGE_DEDUP_HIGH_THRESHOLD":   "0.70",
				"TRIAGE_DEDUP_MEDIUM_THRESHOLD": "0.90",
			},
			wantErr: true,
		},
		{
			name: "threshold out of range is rejected",
			envVars: map[string]string{
				"TRIAGE_DEDUP_HIGH_THRESHOLD": "1.5",
			},
			wantErr: true,
		},
		{
			name: "unparseable value is rejected",
			envVars: map[string]string{
				"TRIAGE_DEDUP_HIGH_THRESHOLD": "very high",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg, err := ConfigFromEnv()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestThresholdsValidate(t *testing.T) {
	if err := (Thresholds{High: 0.9, Medium: 0.5}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := (Thresholds{High: 0.5, Medium: 0.9}).Validate(); err == nil {
		t.Error("medium above high should be rejected")
	}
	if err := (Thresholds{High: 1.2, Medium: 0.5}).Validate(); err == nil {
		t.Error("out-of-range high should be rejected")
	}
}
