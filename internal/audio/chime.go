package audio

import (
	"bytes"
	"encoding/binary"
	"math"
)

const (
	sampleRate = 22050
	chimeHz    = 800
	chimeSecs  = 0.5
)

// chimeWAV renders a decaying 800 Hz sine as 16-bit mono PCM.
func chimeWAV() []byte {
	n := int(sampleRate * chimeSecs)
	samples := make([]int16, n)
	for i := range samples {
		t := float64(i) / sampleRate
		envelope := math.Exp(-6 * t)
		samples[i] = int16(0.3 * envelope * math.MaxInt16 * math.Sin(2*math.Pi*chimeHz*t))
	}

	dataLen := uint32(n * 2)
	var buf bytes.Buffer
	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, 36+dataLen)
	buf.WriteString("WAVEfmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1)) // mono
	_ = binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(sampleRate*2))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(2))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, dataLen)
	_ = binary.Write(&buf, binary.LittleEndian, samples)
	return buf.Bytes()
}
