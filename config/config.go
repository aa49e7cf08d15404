package config

import (
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
)

var loadOnce sync.Once

// Config đọc biến môi trường theo key, tự load file .env lần đầu
func Config(key string) string {
	loadOnce.Do(func() {
		if err := godotenv.Load(".env"); err != nil {
			log.Println("⚠️ Không tìm thấy file .env, dùng biến môi trường hệ thống...")
		}
	})
	return os.Getenv(key)
}

// ConfigOr đọc biến môi trường, trả về fallback nếu rỗng
func ConfigOr(key, fallback string) string {
	if v := Config(key); v != "" {
		return v
	}
	return fallback
}
