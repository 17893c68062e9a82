// Package master turns raw narration WAVs into publishable vault MP3s.
//
// The pipeline has two halves: loudness mastering (compressor stages feeding
// loudnorm, encoded to the 192 kbps CBR house format) and bumper assembly
// (the head and tail announcements concatenated around the program with
// silence spacers). Both halves skip existing outputs unless forced and both
// offer batch modes that keep going past per-file failures.
package master
