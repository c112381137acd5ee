package antlr4

import (
	"math"
	"testing"
)

func TestSeedDecoder_Decode(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		args []int
		want []uint
	}{
		{
			"Obtain valid next int from the underlying data array",
			[]byte{
				0b00010111, 0b11010110, 0b11010110, 0b11011011, 0b01000111, 0b11000111,
				0b01110101, 0b11000011, 0b11111011},
			[]int{12, 17, 18, 2, 5, 3, 5000, math.MaxInt32, 1, 16},
			[]uint{
				0b0001 % 12, 0b01111 % 17, 0b10101 % 18, 0b1 % 2, 0b011 % 5, 0b01 % 3,
				0b0110110110110 % 5000, 0b1000111110001110111010111000011 % math.MaxInt32,
				0, 0b1111 % 16}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoder := NewSeedDecoder(tt.data, 255, nil)
			for i, boundary := range tt.args {
				if got := decoder.Decode(boundary); got != int(tt.want[i]) {
					t.Errorf("decoder.Decode(%v) = %v, want %v", boundary, got, tt.want[i])
				}
			}
		})
	}
}

func TestSeedEncoder_WriteRuleHeader(t *testing.T) {
	type args struct {
		ruleIndex int
		numRules  int
	}
	type want struct {
		data     []byte
		position int
		cursor   int
	}
	tests := []struct {
		name string
		args args
		want want
	}{
		{
			"Rule 172 (8-bit)",
			args{0b10101100, 255},
			want{[]byte{0b11000111, 0b00011010, 0b10000000}, 2, 1}},
		{
			"Rule 165 (8-bit)",
			args{0b10100101, 255},
			want{[]byte{0b10001111, 0b01010010, 0b10000000}, 2, 1}},
		{
			"Rule 44 (7-bit)",
			args{0b00101100, 99},
			want{[]byte{0b11000111, 0b00011010}, 2, 0}},
		{
			"Rule 12 (4-bit)",
			args{0b00001100, 60},
			want{[]byte{0b11000101, 0b00011000}, 2, 0}},
		{
			"Rule 14,130 (14-bit)",
			args{0b11011100110010, 14322},
			want{[]byte{0b11111011, 0b00100110, 0b01110110}, 2, 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoder := NewSeedEncoder(nil)
			encoder.WriteRuleHeader(tt.args.ruleIndex, tt.args.numRules)
			for i, b := range tt.want.data {
				if (*encoder.data)[i] != b {
					t.Errorf("encoder.data[%v] = %v, but want %v", i, (*encoder.data)[i], b)
				}
			}
			if byte(encoder.position) != byte(tt.want.position) {
				t.Errorf("encoder.position = %v, but want %v", encoder.position, tt.want.position)
			}
			if byte(encoder.cursor) != byte(tt.want.cursor) {
				t.Errorf("encoder.cursor = %v, but want %v", encoder.cursor, tt.want.cursor)
			}
		})
	}
}

// TestNewSeedDecoder builds a byte stream by interleaving real
// SeedEncoder-produced rule headers with gibberish bytes, then checks
// NewSeedDecoder finds exactly those headers at the byte offsets they
// were written at.
func TestNewSeedDecoder(t *testing.T) {
	const numRules = 256 // 8-bit rule index

	var buf []byte
	buf = append(buf, 23) // leading gibberish that does not itself start a header

	pos44 := len(buf)
	enc := NewSeedEncoder(nil)
	enc.WriteRuleHeader(44, numRules)
	buf = append(buf, enc.Bytes()...)

	buf = append(buf, 5, 23, 100, 234, 255, 0)

	pos172a := len(buf)
	enc = NewSeedEncoder(nil)
	enc.WriteRuleHeader(172, numRules)
	buf = append(buf, enc.Bytes()...)

	buf = append(buf, 42, 8, 200, 128, 3, 99, 251)

	pos12 := len(buf)
	enc = NewSeedEncoder(nil)
	enc.WriteRuleHeader(12, numRules)
	buf = append(buf, enc.Bytes()...)

	pos172b := len(buf)
	enc = NewSeedEncoder(nil)
	enc.WriteRuleHeader(172, numRules)
	buf = append(buf, enc.Bytes()...)

	buf = append(buf, 7)

	decoder := NewSeedDecoder(buf, numRules, nil)

	want := map[int][]int{44: {pos44}, 172: {pos172a, pos172b}, 12: {pos12}}
	if len(decoder.rules) != len(want) {
		t.Fatalf("len(decoder.rules) = %v, want %v", len(decoder.rules), len(want))
	}
	for rule, positions := range want {
		got := decoder.rules[rule]
		if len(got) != len(positions) {
			t.Errorf("rule %v: len(positions) = %v, want %v", rule, len(got), len(positions))
			continue
		}
		for i := range positions {
			if got[i] != positions[i] {
				t.Errorf("rule %v: positions[%v] = %v, want %v", rule, i, got[i], positions[i])
			}
		}
	}
}
