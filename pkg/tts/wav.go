package tts

import "encoding/binary"

// WAV format codes per the RIFF specification.
const (
	wavFormatPCM       = 1 // integer PCM
	wavFormatIEEEFloat = 3 // 32-bit float PCM
)

// UnknownLength marks a WAV stream whose data size is not known up front.
// Players treat the maximal chunk size as "read until EOF", which is the
// standard convention for live streams.
const UnknownLength = -1

// WAVHeader builds a 44-byte RIFF/WAVE header for raw PCM audio in the
// given format. Pass UnknownLength as dataLen when streaming audio whose
// total size is not known before the first byte is written.
func WAVHeader(format AudioFormat, dataLen int) []byte {
	channels := format.Channels
	if channels == 0 {
		channels = 1
	}
	bitDepth := format.Encoding.BitDepth()
	blockAlign := channels * bitDepth / 8
	byteRate := format.SampleRate * blockAlign

	formatCode := wavFormatPCM
	if format.Encoding == EncodingPCMF32LE {
		formatCode = wavFormatIEEEFloat
	}

	var dataSize, riffSize uint32
	if dataLen == UnknownLength {
		dataSize = 0xFFFFFFFF
		riffSize = 0xFFFFFFFF
	} else {
		dataSize = uint32(dataLen)
		riffSize = 36 + dataSize
	}

	header := make([]byte, 44)
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], riffSize)
	copy(header[8:12], "WAVE")

	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], uint16(formatCode))
	binary.LittleEndian.PutUint16(header[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(format.SampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(header[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(header[34:36], uint16(bitDepth))

	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], dataSize)

	return header
}
