package audio

import (
	"encoding/binary"
	"fmt"
)

const (
	pcmChannels = 1
	pcmBitDepth = 16

	headerSize = 44
)

// WrapPCM wraps raw single-channel 16-bit PCM samples in a WAV container so
// downstream services can auto-detect the format from the header.
func WrapPCM(pcm []byte, sampleRate int) []byte {
	byteRate := sampleRate * pcmChannels * pcmBitDepth / 8
	blockAlign := pcmChannels * pcmBitDepth / 8

	buf := make([]byte, headerSize+len(pcm))
	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(36+len(pcm)))
	copy(buf[8:12], "WAVE")
	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16)
	binary.LittleEndian.PutUint16(buf[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(buf[22:24], pcmChannels)
	binary.LittleEndian.PutUint32(buf[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(buf[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(buf[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(buf[34:36], pcmBitDepth)
	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(len(pcm)))
	copy(buf[headerSize:], pcm)

	return buf
}

// StripWAV extracts the raw PCM payload from a WAV container. It walks the
// RIFF chunk list rather than assuming a 44-byte header, so containers with
// extra chunks (e.g. LIST) are handled too.
func StripWAV(wav []byte) ([]byte, error) {
	if len(wav) < 12 || string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		return nil, fmt.Errorf("not a RIFF/WAVE container (%d bytes)", len(wav))
	}

	offset := 12
	for offset+8 <= len(wav) {
		id := string(wav[offset : offset+4])
		size := int(binary.LittleEndian.Uint32(wav[offset+4 : offset+8]))
		body := offset + 8

		if id == "data" {
			if body+size > len(wav) {
				size = len(wav) - body
			}
			return wav[body : body+size], nil
		}

		// Chunks are word-aligned.
		offset = body + size + size%2
	}

	return nil, fmt.Errorf("no data chunk in WAV container")
}
