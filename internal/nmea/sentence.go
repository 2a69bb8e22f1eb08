package nmea

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Sentence is a checksum-validated NMEA sentence split into its fields.
type Sentence struct {
	Type string
	// Fields is the comma-split NMEA payload (excluding $ and checksum);
	// Fields[0] is the talker+type code.
	Fields []string
}

// Checksum returns the NMEA XOR checksum of payload (the bytes between '$'
// and '*', both exclusive).
func Checksum(payload []byte) byte {
	ck := byte(0)
	for i := 0; i < len(payload); i++ {
		ck ^= payload[i]
	}
	return ck
}

// ValidChecksum reports whether line has the form "$<payload>*<HH>" with a
// matching checksum. A line without a checksum delimiter is unverifiable and
// reported invalid; it is never parsed as trusted data.
func ValidChecksum(line string) bool {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "$") {
		return false
	}
	star := strings.LastIndexByte(line, '*')
	if star == -1 {
		return false
	}
	ck := strings.TrimSpace(line[star+1:])
	if len(ck) < 2 {
		return false
	}
	want, err := hex.DecodeString(ck[:2])
	if err != nil || len(want) != 1 {
		return false
	}
	return Checksum([]byte(line[1:star])) == want[0]
}

// Split breaks a validated sentence into its comma-separated fields.
// Accepts GPxxx/GNxxx etc; the type is normalized to the last 3 characters
// of the talker+type code.
func Split(line string) (Sentence, error) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "$") {
		return Sentence{}, fmt.Errorf("nmea: missing '$'")
	}
	if star := strings.LastIndexByte(line, '*'); star != -1 {
		line = line[:star]
	}
	parts := strings.Split(line[1:], ",")
	typeField := parts[0]
	if len(typeField) < 3 {
		return Sentence{}, fmt.Errorf("nmea: short type %q", typeField)
	}
	t := typeField
	if len(t) > 3 {
		t = t[len(t)-3:]
	}
	return Sentence{Type: strings.ToUpper(t), Fields: parts}, nil
}
