package config

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gonewx/legends/pkg/utils"
)

func TestDefaultCardConfig_Valid(t *testing.T) {
	if err := DefaultCardConfig().Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
}

// 仓库中的 data/card.yaml 必须与默认值一致
func TestLoadCardConfig_MatchesDefaults(t *testing.T) {
	cfg, err := LoadCardConfig(filepath.Join("..", "..", CardConfigPath))
	if err != nil {
		t.Fatalf("LoadCardConfig() error = %v", err)
	}
	def := DefaultCardConfig()
	if *cfg != *def {
		t.Errorf("data/card.yaml differs from DefaultCardConfig():\n got %+v\nwant %+v", cfg, def)
	}
}

func TestParseCardConfig(t *testing.T) {
	tests := []struct {
		name        string
		yaml        string
		wantErr     bool
		errContains string
		validate    func(*testing.T, *CardConfig)
	}{
		{
			name: "partial override keeps defaults",
			yaml: `
orientation:
  tiltCoefficients:
    alpha: 0.05
`,
			validate: func(t *testing.T, cfg *CardConfig) {
				if cfg.Orientation.TiltCoefficients.Alpha != 0.05 {
					t.Errorf("alpha = %v, want 0.05", cfg.Orientation.TiltCoefficients.Alpha)
				}
				if cfg.Orientation.TiltCoefficients.Beta != 0.1 {
					t.Errorf("beta = %v, want default 0.1", cfg.Orientation.TiltCoefficients.Beta)
				}
				if cfg.Shape.Width != 2.75 {
					t.Errorf("shape width = %v, want default 2.75", cfg.Shape.Width)
				}
			},
		},
		{
			name:        "negative width",
			yaml:        "shape:\n  width: -1\n",
			wantErr:     true,
			errContains: "shape dimensions",
		},
		{
			name:        "zero mass spring",
			yaml:        "orientation:\n  settle:\n    mass: 0\n",
			wantErr:     true,
			errContains: "settle spring",
		},
		{
			name:        "border ink inside card",
			yaml:        "ink:\n  borderZ: 0.01\n",
			wantErr:     true,
			errContains: "ink decals",
		},
		{
			name:        "bad clear color",
			yaml:        "composite:\n  clearColor: black\n",
			wantErr:     true,
			errContains: "clearColor",
		},
		{
			name:        "monitor range inverted",
			yaml:        "performance:\n  monitorMin: 2\n",
			wantErr:     true,
			errContains: "monitor range",
		},
		{
			name:    "malformed yaml",
			yaml:    "shape: [",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseCardConfig([]byte(tt.yaml))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q should contain %q", err, tt.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.validate != nil {
				tt.validate(t, cfg)
			}
		})
	}
}

func TestLoadCardConfig_MissingFile(t *testing.T) {
	_, err := LoadCardConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestLoadLightRig(t *testing.T) {
	rig, err := LoadLightRig(filepath.Join("..", "..", LightRigPath))
	if err != nil {
		t.Fatalf("LoadLightRig() error = %v", err)
	}
	def := DefaultLightRig()
	if len(rig.Lights) != len(def.Lights) {
		t.Fatalf("got %d lights, want %d", len(rig.Lights), len(def.Lights))
	}
	for i := range def.Lights {
		if rig.Lights[i] != def.Lights[i] {
			t.Errorf("light %d = %+v, want %+v", i, rig.Lights[i], def.Lights[i])
		}
	}
}

func TestLightRig_Validate(t *testing.T) {
	if err := (&LightRig{}).Validate(); err == nil {
		t.Error("empty rig should be invalid")
	}
	rig := &LightRig{Lights: []DirectionalLight{{Intensity: 1}}}
	if err := rig.Validate(); err == nil {
		t.Error("light at origin should be invalid")
	}
}

func TestLightRig_Diffuse(t *testing.T) {
	rig := &LightRig{Lights: []DirectionalLight{
		{Intensity: 0.5, Position: [3]float64{0, 0, 1}},
		{Intensity: 0.25, Position: [3]float64{0, 0, -1}},
	}}
	if got := rig.Diffuse(utils.V3(0, 0, 1)); got != 0.5 {
		t.Errorf("Diffuse(+Z) = %v, want 0.5", got)
	}
	if got := rig.Diffuse(utils.V3(0, 0, -1)); got != 0.25 {
		t.Errorf("Diffuse(-Z) = %v, want 0.25", got)
	}
	if got := rig.Diffuse(utils.V3(1, 0, 0)); got != 0 {
		t.Errorf("Diffuse(+X) = %v, want 0", got)
	}
}
