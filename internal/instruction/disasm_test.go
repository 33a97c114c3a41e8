package instruction

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestInstructionString(t *testing.T) {
	tests := []struct {
		opcode uint16
		want   string
	}{
		{0x00E0, "cls"},
		{0x00EE, "ret"},
		{0x1234, "jp $234"},
		{0xB234, "jp V0, $234"},
		{0x2234, "call $234"},
		{0x3234, "se V2, $34"},
		{0x5230, "se V2, V3"},
		{0x4234, "sne V2, $34"},
		{0x9230, "sne V2, V3"},
		{0x6234, "ld V2, $34"},
		{0x8230, "ld V2, V3"},
		{0xA234, "ld I, $234"},
		{0x7234, "add V2, $34"},
		{0x8234, "add V2, V3"},
		{0x8231, "or V2, V3"},
		{0x8232, "and V2, V3"},
		{0x8233, "xor V2, V3"},
		{0x8235, "sub V2, V3"},
		{0x8237, "subn V2, V3"},
		{0x8236, "shr V2, V3"},
		{0x823E, "shl V2, V3"},
		{0xC234, "rnd V2, $34"},
		{0xD235, "drw V2, V3, $5"},
		{0xE29E, "skp V2"},
		{0xE2A1, "sknp V2"},
		{0xF207, "ld V2, DT"},
		{0xF20A, "ld V2, K"},
		{0xF215, "ld DT, V2"},
		{0xF218, "ld ST, V2"},
		{0xF21E, "add I, V2"},
		{0xF229, "ld F, V2"},
		{0xF233, "ld B, V2"},
		{0xF255, "ld [I], V2"},
		{0xF265, "ld V2, [I]"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			ins, err := Decode(tt.opcode)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, ins.String())
		})
	}
}

func TestUnknownInstructionString(t *testing.T) {
	ins, err := Decode(0x0000)
	assert.Error(t, err)
	assert.Equal(t, "unknown", ins.Mnemonic())
	assert.Equal(t, "unknown $0000", ins.String())
}

func TestEveryOpHasMnemonic(t *testing.T) {
	for op := OpUnknown + 1; op < OpCount; op++ {
		assert.NotNil(t, mnemonics[op], op.String())
	}
}
