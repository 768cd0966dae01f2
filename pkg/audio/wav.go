package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// KokoroSampleRate is the fixed output rate of the Kokoro-82M model.
const KokoroSampleRate = 24000

// ConvertRawToWAVData converts raw audio samples to WAV format and returns
// the WAV data.
func ConvertRawToWAVData(data []int16, sampleRate, channels int) ([]byte, error) {
	// Define WAV file header
	var wavHeader = struct {
		ChunkID       [4]byte // "RIFF"
		ChunkSize     uint32  // File size - 8 bytes
		Format        [4]byte // "WAVE"
		Subchunk1ID   [4]byte // "fmt "
		Subchunk1Size uint32  // PCM header size (16)
		AudioFormat   uint16  // PCM = 1
		NumChannels   uint16  // Mono = 1, Stereo = 2
		SampleRate    uint32
		ByteRate      uint32
		BlockAlign    uint16
		BitsPerSample uint16
		Subchunk2ID   [4]byte // "data"
		Subchunk2Size uint32  // Raw audio data size
	}{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   1,
		NumChannels:   uint16(channels),
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(sampleRate * channels * 2), // SampleRate * NumChannels * BitsPerSample/8
		BlockAlign:    uint16(channels * 2),              // NumChannels * BitsPerSample/8
		BitsPerSample: 16,
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: uint32(len(data) * 2), // Data size in bytes
	}
	wavHeader.ChunkSize = 36 + wavHeader.Subchunk2Size

	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, wavHeader); err != nil {
		return nil, fmt.Errorf("failed to write WAV header: %w", err)
	}
	if err := binary.Write(&buf, binary.LittleEndian, data); err != nil {
		return nil, fmt.Errorf("failed to write WAV data: %w", err)
	}

	return buf.Bytes(), nil
}

// WrapPCMBytes wraps raw little-endian 16-bit PCM bytes, as returned by the
// pcm output format, in a WAV container.
func WrapPCMBytes(raw []byte, sampleRate, channels int) ([]byte, error) {
	if len(raw)%2 != 0 {
		return nil, fmt.Errorf("raw PCM data has odd length %d", len(raw))
	}
	samples := make([]int16, len(raw)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(raw[2*i:]))
	}
	return ConvertRawToWAVData(samples, sampleRate, channels)
}
