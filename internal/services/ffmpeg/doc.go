// Package ffmpeg wraps the ffmpeg CLI for mastering and bumper assembly.
package ffmpeg
