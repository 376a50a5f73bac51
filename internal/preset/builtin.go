package preset

import "github.com/example/rvcgen/internal/schema"

// Builtins returns the presets every registry created with WithBuiltins
// starts with.
func Builtins() []Preset {
	return []Preset{
		{
			Name: "Default TTS",
			Mode: schema.ModeTTS,
			Values: map[string]any{
				"pitch":         0,
				"index_rate":    0.3,
				"protect":       0.33,
				"f0_method":     "rmvpe",
				"clean_audio":   true,
				"export_format": "WAV",
			},
		},
		{
			Name: "High Quality Speech",
			Mode: schema.ModeInfer,
			Values: map[string]any{
				"pitch":          0,
				"index_rate":     0.5,
				"protect":        0.5,
				"f0_method":      "rmvpe",
				"clean_audio":    true,
				"clean_strength": 0.8,
				"upscale_audio":  true,
				"split_audio":    true,
			},
		},
		{
			Name: "Singing Voice",
			Mode: schema.ModeInfer,
			Values: map[string]any{
				"pitch":            0,
				"index_rate":       0.7,
				"protect":          0.2,
				"f0_method":        "rmvpe",
				"f0_autotune":      true,
				"post_process":     true,
				"reverb":           true,
				"reverb_room_size": 0.3,
				"chorus":           true,
			},
		},
	}
}
