package schema

import "sync"

var (
	f0Methods      = []string{"rmvpe", "crepe", "harvest", "dio", "pm"}
	exportFormats  = []string{"WAV", "MP3", "FLAC", "OGG"}
	embedderModels = []string{"contentvec", "hubert", "custom"}
)

var common = []Mode{ModeCommon}

// catalog is the full voice_cloning.py flag set in command-line order.
// Effect parameters follow their toggle.
var catalog = []Descriptor{
	{Key: "pitch", Kind: KindInt, Default: 0, Modes: common, Help: "Pitch shift in semitones (-24..24)"},
	{Key: "filter_radius", Kind: KindInt, Default: 3, Modes: common, Help: "Median filter radius for pitch (0..10)"},
	{Key: "index_rate", Kind: KindFloat, Default: 0.3, Modes: common, Help: "Index feature ratio (0..1)"},
	{Key: "volume_envelope", Kind: KindFloat, Default: 1.0, Modes: common, Help: "Output volume envelope blend (0..1)"},
	{Key: "protect", Kind: KindFloat, Default: 0.33, Modes: common, Help: "Consonant protection (0..1)"},
	{Key: "hop_length", Kind: KindInt, Default: 128, Modes: common, Help: "Hop length for pitch extraction"},
	{Key: "f0_method", Kind: KindEnum, Default: "rmvpe", Modes: common, Options: f0Methods, Help: "Pitch extraction algorithm"},
	{Key: "pth_path", Kind: KindString, Default: "", Modes: common, Required: true, Help: "RVC model path (.pth)"},
	{Key: "index_path", Kind: KindString, Default: "", Modes: common, Required: true, Help: "Index file path (.index)"},
	{Key: "split_audio", Kind: KindBool, Default: false, Modes: common, Help: "Split audio into chunks before inference"},
	{Key: "f0_autotune", Kind: KindBool, Default: false, Modes: common, Help: "Snap pitch to the nearest note"},
	{Key: "clean_audio", Kind: KindBool, Default: false, Modes: common, Help: "Apply noise reduction"},
	{Key: "clean_strength", Kind: KindFloat, Default: 0.7, Modes: common, Help: "Noise reduction strength (0..1)"},
	{Key: "export_format", Kind: KindEnum, Default: "WAV", Modes: common, Options: exportFormats, Help: "Output audio format"},
	{Key: "embedder_model", Kind: KindEnum, Default: "contentvec", Modes: common, Options: embedderModels, Help: "Feature embedder"},
	{Key: "embedder_model_custom", Kind: KindString, Default: "", Modes: common, Help: "Custom embedder path"},
	{Key: "upscale_audio", Kind: KindBool, Default: false, Modes: common, Help: "Upscale input audio"},
	{Key: "f0_file", Kind: KindString, Default: "", Modes: common, Help: "Precomputed F0 file"},
	{Key: "formant_shifting", Kind: KindBool, Default: false, Modes: common, Help: "Enable formant shifting"},
	{Key: "formant_qfrency", Kind: KindFloat, Default: 1.0, Modes: common, Help: "Formant frequency (0.5..2)"},
	{Key: "formant_timbre", Kind: KindFloat, Default: 1.0, Modes: common, Help: "Formant timbre (0.5..2)"},
	{Key: "sid", Kind: KindInt, Default: 0, Modes: common, Help: "Speaker ID"},

	{Key: "input_path", Kind: KindString, Default: "", Modes: []Mode{ModeInfer}, Required: true, Help: "Input audio path"},
	{Key: "output_path", Kind: KindString, Default: "", Modes: []Mode{ModeInfer}, Required: true, Help: "Output audio path"},

	{Key: "input_folder", Kind: KindString, Default: "", Modes: []Mode{ModeBatch}, Required: true, Help: "Input folder"},
	{Key: "output_folder", Kind: KindString, Default: "", Modes: []Mode{ModeBatch}, Required: true, Help: "Output folder"},

	{Key: "tts_text", Kind: KindString, Default: "", Modes: []Mode{ModeTTS}, Required: true, Help: "Text to synthesize"},
	{Key: "tts_voice", Kind: KindString, Default: "", Modes: []Mode{ModeTTS}, Required: true, Help: "TTS voice name"},
	{Key: "tts_rate", Kind: KindInt, Default: 0, Modes: []Mode{ModeTTS}, Help: "Speaking rate (-100..100)"},
	{Key: "output_tts_path", Kind: KindString, Default: "", Modes: []Mode{ModeTTS}, Required: true, Help: "Intermediate TTS output path"},
	{Key: "output_rvc_path", Kind: KindString, Default: "", Modes: []Mode{ModeTTS}, Required: true, Help: "Converted RVC output path"},

	{Key: "post_process", Kind: KindBool, Default: false, Modes: common, Help: "Enable post-processing"},

	{Key: "reverb", Kind: KindBool, Default: false, Modes: common, Help: "Reverb effect"},
	{Key: "reverb_room_size", Kind: KindFloat, Default: 0.5, Modes: common, Group: "reverb"},
	{Key: "reverb_damping", Kind: KindFloat, Default: 0.5, Modes: common, Group: "reverb"},
	{Key: "reverb_wet_gain", Kind: KindFloat, Default: 0.5, Modes: common, Group: "reverb"},
	{Key: "reverb_dry_gain", Kind: KindFloat, Default: 0.5, Modes: common, Group: "reverb"},
	{Key: "reverb_width", Kind: KindFloat, Default: 0.5, Modes: common, Group: "reverb"},
	{Key: "reverb_freeze_mode", Kind: KindFloat, Default: 0.5, Modes: common, Group: "reverb"},

	{Key: "pitch_shift", Kind: KindBool, Default: false, Modes: common, Help: "Pitch shift effect"},
	{Key: "pitch_shift_semitones", Kind: KindFloat, Default: 0.0, Modes: common, Group: "pitch_shift"},

	{Key: "limiter", Kind: KindBool, Default: false, Modes: common, Help: "Limiter effect"},
	{Key: "limiter_threshold", Kind: KindFloat, Default: -6.0, Modes: common, Group: "limiter"},
	{Key: "limiter_release_time", Kind: KindFloat, Default: 0.01, Modes: common, Group: "limiter"},

	{Key: "gain", Kind: KindBool, Default: false, Modes: common, Help: "Gain effect"},
	{Key: "gain_db", Kind: KindFloat, Default: 0.0, Modes: common, Group: "gain"},

	{Key: "distortion", Kind: KindBool, Default: false, Modes: common, Help: "Distortion effect"},
	{Key: "distortion_gain", Kind: KindInt, Default: 25, Modes: common, Group: "distortion"},

	{Key: "chorus", Kind: KindBool, Default: false, Modes: common, Help: "Chorus effect"},
	{Key: "chorus_rate", Kind: KindFloat, Default: 1.0, Modes: common, Group: "chorus"},
	{Key: "chorus_depth", Kind: KindFloat, Default: 0.25, Modes: common, Group: "chorus"},
	{Key: "chorus_center_delay", Kind: KindFloat, Default: 7.0, Modes: common, Group: "chorus"},
	{Key: "chorus_feedback", Kind: KindFloat, Default: 0.0, Modes: common, Group: "chorus"},
	{Key: "chorus_mix", Kind: KindFloat, Default: 0.5, Modes: common, Group: "chorus"},

	{Key: "bitcrush", Kind: KindBool, Default: false, Modes: common, Help: "Bitcrush effect"},
	{Key: "bitcrush_bit_depth", Kind: KindInt, Default: 8, Modes: common, Group: "bitcrush"},

	{Key: "clipping", Kind: KindBool, Default: false, Modes: common, Help: "Clipping effect"},
	{Key: "clipping_threshold", Kind: KindFloat, Default: -6.0, Modes: common, Group: "clipping"},

	{Key: "compressor", Kind: KindBool, Default: false, Modes: common, Help: "Compressor effect"},
	{Key: "compressor_threshold", Kind: KindFloat, Default: 0.0, Modes: common, Group: "compressor"},
	{Key: "compressor_ratio", Kind: KindFloat, Default: 1.0, Modes: common, Group: "compressor"},
	{Key: "compressor_attack", Kind: KindFloat, Default: 1.0, Modes: common, Group: "compressor"},
	{Key: "compressor_release", Kind: KindFloat, Default: 100.0, Modes: common, Group: "compressor"},

	{Key: "delay", Kind: KindBool, Default: false, Modes: common, Help: "Delay effect"},
	{Key: "delay_seconds", Kind: KindFloat, Default: 0.5, Modes: common, Group: "delay"},
	{Key: "delay_feedback", Kind: KindFloat, Default: 0.0, Modes: common, Group: "delay"},
	{Key: "delay_mix", Kind: KindFloat, Default: 0.5, Modes: common, Group: "delay"},
}

var (
	defaultOnce   sync.Once
	defaultSchema *Schema
)

// Default returns the built-in voice_cloning.py schema. It is built once and
// shared; callers must not mutate descriptors obtained from it.
func Default() *Schema {
	defaultOnce.Do(func() {
		s, err := New(catalog)
		if err != nil {
			panic(err)
		}
		defaultSchema = s
	})
	return defaultSchema
}
