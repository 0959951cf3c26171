package segmentation

// PauseLevel names the linguistic weight of a detection configuration.
type PauseLevel string

const (
	LevelWord      PauseLevel = "word"
	LevelPhrase    PauseLevel = "phrase"
	LevelSentence  PauseLevel = "sentence"
	LevelParagraph PauseLevel = "paragraph"
)

// categoryBonus weights sentence and paragraph boundaries over micro-pauses.
// The exact factors are tuning constants carried over from field use, not
// load-bearing values.
func (l PauseLevel) categoryBonus() float64 {
	switch l {
	case LevelSentence, LevelParagraph:
		return 1.5
	case LevelPhrase:
		return 1.3
	default:
		return 1.0
	}
}

// DetectionConfig is one pause detector sensitivity setting.
type DetectionConfig struct {
	Label            string
	Level            PauseLevel
	NoiseThresholdDb float64
	MinDurationSec   float64
}

// DefaultCatalog returns the ordered configuration catalog, most permissive
// first. The resolver walks it front to back, so word-level micro-pauses are
// tried before the stricter paragraph-level settings.
func DefaultCatalog() []DetectionConfig {
	return []DetectionConfig{
		{Label: "word pause (-15dB, 50ms)", Level: LevelWord, NoiseThresholdDb: -15, MinDurationSec: 0.05},
		{Label: "phrase pause (-18dB, 80ms)", Level: LevelPhrase, NoiseThresholdDb: -18, MinDurationSec: 0.08},
		{Label: "sentence pause (-20dB, 120ms)", Level: LevelSentence, NoiseThresholdDb: -20, MinDurationSec: 0.12},
		{Label: "paragraph pause (-25dB, 200ms)", Level: LevelParagraph, NoiseThresholdDb: -25, MinDurationSec: 0.2},
	}
}
