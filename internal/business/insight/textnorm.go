package insight

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks NFD 分解后去掉组合变音符号，再重组
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeKey 生成模糊匹配用的规范化键
// 规则（按顺序）：
//  1. 去除变音符号（"Caneca Açaí" → "Caneca Acai"）
//  2. 全部转小写
//  3. 连续的非字母数字字符折叠为单个空格
//  4. 去掉首尾空格
func NormalizeKey(s string) string {
	if s == "" {
		return ""
	}

	plain, _, err := transform.String(stripMarks, s)
	if err != nil {
		plain = s
	}
	plain = strings.ToLower(plain)

	var b strings.Builder
	b.Grow(len(plain))
	pendingSpace := false
	for _, r := range plain {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
			continue
		}
		pendingSpace = true
	}

	return b.String()
}

// containsAny 判断规范化后的文本是否包含任一关键词
func containsAny(normalized string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(normalized, term) {
			return true
		}
	}
	return false
}
