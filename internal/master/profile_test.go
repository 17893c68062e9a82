package master

import (
	"strings"
	"testing"
)

func TestFilterChainDefault(t *testing.T) {
	want := "acompressor=threshold=-18dB:ratio=3:attack=10:release=200," +
		"loudnorm=I=-16.3:LRA=5:TP=-2.6"
	if got := DefaultProfile().FilterChain(false); got != want {
		t.Fatalf("unexpected chain:\n got %s\nwant %s", got, want)
	}
}

func TestFilterChainAggressivePrependsHeavyStage(t *testing.T) {
	base := DefaultProfile().FilterChain(false)
	got := DefaultProfile().FilterChain(true)
	want := "acompressor=threshold=-30dB:ratio=6:attack=2:release=100," + base
	if got != want {
		t.Fatalf("unexpected aggressive chain:\n got %s\nwant %s", got, want)
	}
}

func TestFilterChainCustomProfile(t *testing.T) {
	profile := Profile{TargetLUFS: -18, TruePeak: -2, LoudnessRange: 7}
	got := profile.FilterChain(false)
	if !strings.Contains(got, "loudnorm=I=-18:LRA=7:TP=-2") {
		t.Fatalf("custom profile not rendered: %s", got)
	}
}
