// file: utils/code_generator.go
package utils

import (
	"math/rand"
	"strings"
	"time"
)

const codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// CodeLength 队伍目录代码固定 4 个大写字母
const CodeLength = 4

var seededRand *rand.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))

// GenerateDirCode 生成随机的队伍目录代码
func GenerateDirCode() string {
	var sb strings.Builder
	sb.Grow(CodeLength)
	for i := 0; i < CodeLength; i++ {
		sb.WriteByte(codeCharset[seededRand.Intn(len(codeCharset))])
	}
	return sb.String()
}
