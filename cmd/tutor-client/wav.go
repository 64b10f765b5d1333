package main

import "encoding/binary"

// wavFromPCM wraps raw little-endian 16-bit PCM in a canonical RIFF/WAVE
// header so the transcription service can detect the sample layout.
func wavFromPCM(pcm []byte, sampleRate, channels int) []byte {
	const (
		headerSize     = 44
		bitsPerSample  = 16
		bytesPerSample = bitsPerSample / 8
	)

	blockAlign := channels * bytesPerSample
	byteRate := sampleRate * blockAlign

	out := make([]byte, headerSize+len(pcm))
	copy(out[0:4], "RIFF")
	binary.LittleEndian.PutUint32(out[4:8], uint32(36+len(pcm)))
	copy(out[8:12], "WAVE")

	copy(out[12:16], "fmt ")
	binary.LittleEndian.PutUint32(out[16:20], 16) // PCM fmt chunk size
	binary.LittleEndian.PutUint16(out[20:22], 1)  // PCM
	binary.LittleEndian.PutUint16(out[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(out[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(out[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(out[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:36], bitsPerSample)

	copy(out[36:40], "data")
	binary.LittleEndian.PutUint32(out[40:44], uint32(len(pcm)))
	copy(out[headerSize:], pcm)
	return out
}
