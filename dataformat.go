package antlr4

import (
	"math/bits"
	"math/rand"
	"sort"
)

// SeedEncoder bit-packs a replay recipe for a corpus sample: a rule header
// (which lexer rule the sample was generated for) followed by a sequence
// of small integers, each recording which outgoing transition was chosen
// at a multi-transition ATN state. Adapted from a dual parser/lexer rule
// header format down to a single rule index, since this module only ever
// walks lexer rules.
type SeedEncoder struct {
	data     *[]byte
	position int
	cursor   int
}

// NewSeedEncoder returns an encoder appending onto data (nil is treated as
// an empty buffer).
func NewSeedEncoder(data []byte) *SeedEncoder {
	if data == nil {
		data = []byte{}
	}
	return &SeedEncoder{data: &data}
}

// ParitySum identifies a rule-header byte pair during a scan of
// previously-encoded seed bytes: parityByte ^ ruleByte == ParitySum.
const ParitySum = 0xdd

// WriteRuleHeader starts a new seed recording, for ruleIndex out of
// numRules total lexer rules. Always begins on a fresh byte boundary.
func (encoder *SeedEncoder) WriteRuleHeader(ruleIndex, numRules int) {
	if ruleIndex < 0 {
		panic("antlr4: rule index must be >= 0")
	} else if ruleIndex >= numRules {
		panic("antlr4: rule index must be < numRules")
	} else if numRules < 1 {
		panic("antlr4: numRules must be >= 1")
	}

	if encoder.cursor != 0 {
		encoder.position++
		encoder.cursor = 0
	}

	requiredBitsRuleIndex := 32 - bits.LeadingZeros32(uint32(numRules-1))
	requiredBytesHeader := 1 + ((requiredBitsRuleIndex + 1) >> 3)
	if requiredBitsRuleIndex%8 > 0 {
		requiredBytesHeader++
	}

	if (encoder.position + requiredBytesHeader) >= cap(*encoder.data) {
		newBuffer := make([]byte, (len(*encoder.data)+requiredBytesHeader)<<1)
		copy(newBuffer, *encoder.data)
		*encoder.data = newBuffer
	}

	reversedRuleIndex := bits.Reverse32(uint32(ruleIndex))
	ruleByte := reversedRuleIndex >> 25
	parityByte := ParitySum ^ ruleByte

	(*encoder.data)[encoder.position] = byte(parityByte)
	(*encoder.data)[encoder.position+1] = byte(ruleByte)
	encoder.position += 2

	if requiredBitsRuleIndex > 7 {
		reversedRuleIndex <<= 7
		for i := 0; i <= requiredBitsRuleIndex-8; i += 8 {
			(*encoder.data)[encoder.position] = byte(reversedRuleIndex >> (24 - i))
			encoder.position++
		}
		encoder.cursor = (requiredBitsRuleIndex + 1) % 8
		if encoder.cursor != 0 {
			encoder.position--
		}
	}
}

// Encode packs number (which must be < boundary) using the minimum number
// of bits needed to represent any value in [0, boundary).
func (encoder *SeedEncoder) Encode(number, boundary int) {
	if number >= boundary {
		panic("antlr4: number must be < boundary")
	} else if boundary < 1 {
		panic("antlr4: boundary must be >= 1")
	} else if boundary == 1 {
		return
	}

	requiredBits := 32 - bits.LeadingZeros32(uint32(boundary-1))

	if encoder.position >= cap(*encoder.data) {
		newBuffer := make([]byte, (len(*encoder.data)+1)<<1)
		copy(newBuffer, *encoder.data)
		*encoder.data = newBuffer
	}

	var availableBits int
	for requiredBits > 0 {
		availableBits = 8 - encoder.cursor
		if availableBits == 0 {
			encoder.position++
			encoder.cursor = 0
			if encoder.position >= len(*encoder.data) {
				newBuffer := make([]byte, (len(*encoder.data)+1)<<1)
				copy(newBuffer, *encoder.data)
				*encoder.data = newBuffer
			}
			continue
		}
		(*encoder.data)[encoder.position] |= byte((number << (32 - requiredBits)) >> (24 + encoder.cursor))
		if requiredBits > availableBits {
			encoder.cursor += availableBits
			requiredBits -= availableBits
		} else {
			encoder.cursor += requiredBits
			requiredBits = 0
		}
	}
}

// Bytes returns the encoded buffer trimmed to its used length.
func (encoder *SeedEncoder) Bytes() []byte {
	if encoder.cursor != 0 {
		return (*encoder.data)[:encoder.position+1]
	}
	return (*encoder.data)[:encoder.position]
}

type seedHeadInfo struct {
	isSet     bool
	ruleIndex int
	numRules  int
}

// SeedDecoder replays a SeedEncoder recording, falling back to a
// deterministic PRNG once the recording runs out (so a mutated/truncated
// seed still produces a complete sample rather than failing).
type SeedDecoder struct {
	data             []byte
	position         int
	cursor           int
	usePRNG          bool
	prngData         []byte
	prngPosition     int
	prngCursor       int
	prngSource       rand.Source
	rules            map[int][]int
	ruleBits         int
	writeBackEncoder *SeedEncoder
	writeBackHead    seedHeadInfo
}

func getRuleNumber(requiredBits int, data []byte) int {
	var ruleNumber uint32
	ruleNumber |= uint32(data[0]) << 25
	remainingBits := requiredBits - 7
	i := 1
	for remainingBits > 0 {
		bitsToRead := 8
		if remainingBits < 8 {
			bitsToRead = remainingBits
		}
		ruleNumber |= uint32(data[i]) >> (8 - bitsToRead) << (32 - (requiredBits - remainingBits) - bitsToRead)
		remainingBits -= bitsToRead
		i++
	}
	return int(bits.Reverse32(ruleNumber))
}

// NewSeedDecoder wraps data (the output of a SeedEncoder, possibly
// mutated) for replay against numRules lexer rules. writeBack, if
// non-nil, is filled with a fresh canonical encoding of whatever gets
// decoded — used to turn a PRNG-completed sample back into a replayable
// seed.
func NewSeedDecoder(data []byte, numRules int, writeBack *[]byte) *SeedDecoder {
	var encoder *SeedEncoder
	if writeBack != nil {
		encoder = &SeedEncoder{data: writeBack}
	}

	if len(data) == 0 {
		return &SeedDecoder{usePRNG: true, writeBackEncoder: encoder, prngSource: rand.NewSource(1)}
	}

	decoder := &SeedDecoder{data: data, rules: map[int][]int{}, writeBackEncoder: encoder}
	if numRules < 1 {
		decoder.prngSource = rand.NewSource(1)
		return decoder
	}
	decoder.ruleBits = 32 - bits.LeadingZeros32(uint32(numRules-1))

	seed := int64(data[0])
	for i := 0; i < len(data)-2; i++ {
		if data[i]^data[i+1] == ParitySum {
			ruleNum := getRuleNumber(decoder.ruleBits, data[i+1:])
			decoder.rules[ruleNum] = append(decoder.rules[ruleNum], i)
			seed ^= int64(data[i]) << (56 - (i % 57))
			seed ^= int64(data[i+1]) << ((i + 1) % 57)
		}
	}
	decoder.prngSource = rand.NewSource(seed)

	return decoder
}

func (decoder *SeedDecoder) appendPRNGBytes() {
	nextBytes := decoder.prngSource.Int63()
	decoder.prngData = append(decoder.prngData,
		byte(nextBytes&0x00ff000000000000>>48),
		byte(nextBytes&0x0000ff0000000000>>40),
		byte(nextBytes&0x000000ff00000000>>32),
		byte(nextBytes&0x00000000ff000000>>24),
		byte(nextBytes&0x0000000000ff0000>>16),
		byte(nextBytes&0x000000000000ff00>>8),
		byte(nextBytes&0x00000000000000ff))
}

// Init seeks the decoder to the next unused recording of ruleIndex, or
// falls back to the PRNG if none remain.
func (decoder *SeedDecoder) Init(ruleIndex int) {
	decoder.writeBackHead.isSet = false
	decoder.usePRNG = false

	if decoder.writeBackEncoder != nil {
		decoder.writeBackHead.ruleIndex = ruleIndex
		decoder.writeBackHead.numRules = 0x1 << decoder.ruleBits
	}

	bitsToAdvance := 9 + decoder.ruleBits
	if bitsToAdvance < 16 {
		bitsToAdvance = 16
	}

	if positions, ok := decoder.rules[ruleIndex]; ok {
		if len(positions) == 0 {
			delete(decoder.rules, ruleIndex)
			decoder.usePRNG = true
			return
		}
		index := sort.Search(len(positions), func(i int) bool { return positions[i] >= decoder.position })
		if index >= len(positions) {
			index = 0
		}
		decoder.position = positions[index] + (bitsToAdvance >> 3)
		decoder.cursor = bitsToAdvance % 8
		copy(positions[index:], positions[index+1:])
		decoder.rules[ruleIndex] = positions[:len(positions)-1]
	} else {
		decoder.usePRNG = true
	}
}

// Decode reads the next value in [0, boundary).
func (decoder *SeedDecoder) Decode(boundary int) int {
	if boundary < 1 {
		panic("antlr4: boundary must be >= 1")
	}
	if boundary == 1 {
		return 0
	}

	var data []byte
	var position, cursor int
	if decoder.data == nil || decoder.usePRNG {
		if decoder.prngData == nil || decoder.prngPosition >= len(decoder.prngData) {
			decoder.appendPRNGBytes()
		}
		decoder.usePRNG = true
		data = decoder.prngData
		position = decoder.prngPosition
		cursor = decoder.prngCursor
	} else {
		data = decoder.data
		position = decoder.position
		cursor = decoder.cursor
	}

	requiredBits := 32 - bits.LeadingZeros32(uint32(boundary-1))

	if position >= len(data) {
		if !decoder.usePRNG {
			decoder.position = position
			decoder.cursor = cursor
			decoder.usePRNG = true
			position = decoder.prngPosition
			cursor = decoder.prngCursor
		}
		if decoder.prngData == nil || position >= len(decoder.prngData) {
			decoder.appendPRNGBytes()
		}
		data = decoder.prngData
	}

	var result uint32
	var availableBits, numBitsToRead int
	for requiredBits > 0 {
		availableBits = 8 - cursor
		if availableBits == 0 {
			position++
			cursor = 0
			if position >= len(data) {
				if !decoder.usePRNG {
					decoder.position = position
					decoder.cursor = cursor
					position = decoder.prngPosition
					cursor = decoder.prngCursor
				}
				decoder.usePRNG = true
				data = decoder.prngData
				if decoder.prngData == nil || position >= len(decoder.prngData) {
					decoder.appendPRNGBytes()
					data = decoder.prngData
				}
			}
			continue
		}
		if numBitsToRead = requiredBits; availableBits < requiredBits {
			numBitsToRead = availableBits
		}
		result <<= numBitsToRead

		if cursor != 0 || numBitsToRead != 8 {
			result |= (uint32(data[position]) << (cursor + 24)) >> (32 - numBitsToRead)
		} else {
			result |= uint32(data[position])
		}
		requiredBits -= numBitsToRead
		cursor += numBitsToRead
	}

	if cursor == 8 {
		cursor = 0
		position++
	}

	if !decoder.usePRNG {
		decoder.position = position
		decoder.cursor = cursor
		if decoder.position >= len(decoder.data) {
			decoder.usePRNG = true
		}
	} else {
		decoder.prngPosition = position
		decoder.prngCursor = cursor
	}

	if decoder.writeBackEncoder != nil {
		if !decoder.writeBackHead.isSet {
			decoder.writeBackEncoder.WriteRuleHeader(decoder.writeBackHead.ruleIndex, decoder.writeBackHead.numRules)
			decoder.writeBackHead.isSet = true
		}
		decoder.writeBackEncoder.Encode(int(result%uint32(boundary)), boundary)
	}

	return int(result % uint32(boundary))
}
