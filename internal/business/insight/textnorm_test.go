package insight

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"去重音", "Caneca Açaí", "caneca acai"},
		{"转小写", "CANECA AZUL", "caneca azul"},
		{"折叠符号为单空格", "kit--caneca  (2 un.)", "kit caneca 2 un"},
		{"去首尾空白", "  café premium  ", "cafe premium"},
		{"纯符号输出为空", "--- !!!", ""},
		{"空串", "", ""},
		{"保留数字", "SKU-123/456", "sku 123 456"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeKey(tt.input))
		})
	}
}

func TestNormalizeKey_Idempotent(t *testing.T) {
	inputs := []string{"Caneca Açaí", "  Kit -- 2 ", "ÊXITO total"}
	for _, s := range inputs {
		once := NormalizeKey(s)
		assert.Equal(t, once, NormalizeKey(once))
	}
}
