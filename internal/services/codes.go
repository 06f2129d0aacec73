package services

import (
	"math/rand"
	"strconv"
	"time"
)

// Политика одноразовых кодов — общая для верификации и восстановления,
// чтобы два жизненных цикла не разъезжались.
const (
	CodeTTL             = 15 * time.Minute
	maxResendsPerWindow = 3
	resendWindow        = 10 * time.Minute
)

// generateCode — 6-значный код, равномерно из 100000–999999.
// Общий источник: одновременные запросы не должны получать одинаковый код.
func generateCode() string {
	return strconv.Itoa(100000 + rand.Intn(900000))
}
