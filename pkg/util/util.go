package util

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateUUID 生成一个标准的 UUID (v4)
func GenerateUUID() string {
	return uuid.New().String()
}

// GenerateShortUUID 生成一个不带中划线的短 UUID
func GenerateShortUUID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

// GenerateID 生成带业务前缀的 20 位短 ID（如 A... / D... / S...）
func GenerateID(prefix string) string {
	id := GenerateShortUUID()
	if len(prefix)+len(id) > 20 {
		id = id[:20-len(prefix)]
	}
	return prefix + id
}
