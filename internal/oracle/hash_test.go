package oracle

import (
	"hash/fnv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFNV1a32_Fixtures(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  uint32
	}{
		{name: "empty string is the offset basis", input: "", want: 0x811c9dc5},
		{name: "all-empty survey seed", input: "||||", want: 0xc035bdc5},
		{name: "single ascii char", input: "a", want: 0xe40c292c},
		{name: "word", input: "Atlas", want: 0x734f216c},
		{name: "latin-1 code unit", input: "é", want: 0x6c0b6c44},
		{name: "surrogate pair hashes both units", input: "🚀", want: 0x4b328e38},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FNV1a32(tt.input))
		})
	}
}

func TestFNV1a32_MatchesStdlibForASCII(t *testing.T) {
	seeds := []string{
		"",
		"||||",
		"Ada|ada@example.com|October|I want to let go of the past|charged",
		"||July|new adventure|calm",
	}

	for _, seed := range seeds {
		h := fnv.New32a()
		_, _ = h.Write([]byte(seed))
		assert.Equal(t, h.Sum32(), FNV1a32(seed), "seed %q", seed)
	}
}

func TestFNV1a32_LowBitIgnoresOrder(t *testing.T) {
	// The prime is odd, so bit 0 is the XOR of bit 0 of every unit.
	a := FNV1a32("Ada|ada@example.com")
	b := FNV1a32("ada@example.com|Ada")

	assert.NotEqual(t, a, b)
	assert.Equal(t, a&1, b&1)
}
