package master

import (
	"fmt"
	"strconv"
)

// Profile is the loudness target for mastered output.
type Profile struct {
	TargetLUFS    float64
	TruePeak      float64
	LoudnessRange float64
}

// DefaultProfile returns the house loudness profile.
func DefaultProfile() Profile {
	return Profile{
		TargetLUFS:    -16.3,
		TruePeak:      -2.6,
		LoudnessRange: 5,
	}
}

// FilterChain renders the ffmpeg audio filter for this profile. A compressor
// stage rides ahead of loudnorm so the normalizer sees tamed dynamics;
// aggressive prepends a heavier stage for material with wild swings.
func (p Profile) FilterChain(aggressive bool) string {
	chain := fmt.Sprintf(
		"acompressor=threshold=-18dB:ratio=3:attack=10:release=200,loudnorm=I=%s:LRA=%s:TP=%s",
		formatLevel(p.TargetLUFS), formatLevel(p.LoudnessRange), formatLevel(p.TruePeak))
	if aggressive {
		chain = "acompressor=threshold=-30dB:ratio=6:attack=2:release=100," + chain
	}
	return chain
}

func formatLevel(value float64) string {
	return strconv.FormatFloat(value, 'g', -1, 64)
}
