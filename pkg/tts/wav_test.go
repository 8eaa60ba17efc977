package tts_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/voicemd/voicemd/pkg/tts"
)

func TestWAVHeader(t *testing.T) {
	floatFormat := tts.AudioFormat{
		Encoding:   tts.EncodingPCMF32LE,
		SampleRate: 24000,
		Channels:   1,
	}

	t.Run("float PCM header fields", func(t *testing.T) {
		header := tts.WAVHeader(floatFormat, 96000)

		if len(header) != 44 {
			t.Fatalf("expected 44-byte header, got %d", len(header))
		}
		if !bytes.Equal(header[0:4], []byte("RIFF")) {
			t.Errorf("missing RIFF marker: %q", header[0:4])
		}
		if !bytes.Equal(header[8:12], []byte("WAVE")) {
			t.Errorf("missing WAVE marker: %q", header[8:12])
		}
		if !bytes.Equal(header[12:16], []byte("fmt ")) {
			t.Errorf("missing fmt chunk: %q", header[12:16])
		}
		if !bytes.Equal(header[36:40], []byte("data")) {
			t.Errorf("missing data chunk: %q", header[36:40])
		}

		if got := binary.LittleEndian.Uint16(header[20:22]); got != 3 {
			t.Errorf("expected IEEE float format code 3, got %d", got)
		}
		if got := binary.LittleEndian.Uint16(header[22:24]); got != 1 {
			t.Errorf("expected 1 channel, got %d", got)
		}
		if got := binary.LittleEndian.Uint32(header[24:28]); got != 24000 {
			t.Errorf("expected 24000 sample rate, got %d", got)
		}
		// float32 mono: 4 bytes per frame
		if got := binary.LittleEndian.Uint32(header[28:32]); got != 96000 {
			t.Errorf("expected 96000 byte rate, got %d", got)
		}
		if got := binary.LittleEndian.Uint16(header[32:34]); got != 4 {
			t.Errorf("expected block align 4, got %d", got)
		}
		if got := binary.LittleEndian.Uint16(header[34:36]); got != 32 {
			t.Errorf("expected 32-bit depth, got %d", got)
		}
		if got := binary.LittleEndian.Uint32(header[40:44]); got != 96000 {
			t.Errorf("expected data size 96000, got %d", got)
		}
		if got := binary.LittleEndian.Uint32(header[4:8]); got != 36+96000 {
			t.Errorf("expected RIFF size %d, got %d", 36+96000, got)
		}
	})

	t.Run("integer PCM uses format code 1", func(t *testing.T) {
		header := tts.WAVHeader(tts.AudioFormat{
			Encoding:   tts.EncodingPCMS16LE,
			SampleRate: 16000,
			Channels:   2,
		}, 1000)

		if got := binary.LittleEndian.Uint16(header[20:22]); got != 1 {
			t.Errorf("expected PCM format code 1, got %d", got)
		}
		if got := binary.LittleEndian.Uint16(header[34:36]); got != 16 {
			t.Errorf("expected 16-bit depth, got %d", got)
		}
		// 2 channels x 2 bytes
		if got := binary.LittleEndian.Uint16(header[32:34]); got != 4 {
			t.Errorf("expected block align 4, got %d", got)
		}
	})

	t.Run("unknown length uses maximal chunk sizes", func(t *testing.T) {
		header := tts.WAVHeader(floatFormat, tts.UnknownLength)

		if got := binary.LittleEndian.Uint32(header[4:8]); got != 0xFFFFFFFF {
			t.Errorf("expected maximal RIFF size, got %#x", got)
		}
		if got := binary.LittleEndian.Uint32(header[40:44]); got != 0xFFFFFFFF {
			t.Errorf("expected maximal data size, got %#x", got)
		}
	})

	t.Run("zero channels defaults to mono", func(t *testing.T) {
		header := tts.WAVHeader(tts.AudioFormat{
			Encoding:   tts.EncodingPCMF32LE,
			SampleRate: 24000,
		}, 0)

		if got := binary.LittleEndian.Uint16(header[22:24]); got != 1 {
			t.Errorf("expected 1 channel, got %d", got)
		}
	})
}
