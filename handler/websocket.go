package handler

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"travel_manager/config"

	"github.com/gofiber/contrib/websocket"
	"github.com/redis/go-redis/v9"
)

var (
	redisClient *redis.Client
	redisOnce   sync.Once

	clients = make(map[uint]map[*websocket.Conn]bool)
	mu      sync.Mutex
)

// RedisClient trả về client dùng chung cho pub/sub trạng thái thanh toán
func RedisClient() *redis.Client {
	redisOnce.Do(func() {
		redisClient = redis.NewClient(&redis.Options{
			Addr: config.ConfigOr("REDIS_ADDR", "localhost:6379"),
		})
	})
	return redisClient
}

// PaymentSocket đẩy trạng thái thanh toán của một booking theo thời gian thực.
// Mỗi booking là một kênh Redis, nhiều tab cùng theo dõi được.
func PaymentSocket(c *websocket.Conn) {
	bookingIdStr := c.Params("id")
	id64, _ := strconv.ParseUint(bookingIdStr, 10, 64)
	bookingId := uint(id64)

	// Khi WS disconnect → xoá client
	defer func() {
		mu.Lock()
		if clients[bookingId] != nil {
			delete(clients[bookingId], c)
		}
		mu.Unlock()
		c.Close()
	}()

	mu.Lock()
	if clients[bookingId] == nil {
		clients[bookingId] = make(map[*websocket.Conn]bool)
	}
	clients[bookingId][c] = true
	mu.Unlock()

	// Sub kênh Redis của booking
	pubsub := RedisClient().Subscribe(
		context.Background(),
		fmt.Sprintf("booking:%d", bookingId),
	)
	defer pubsub.Close()

	channel := pubsub.Channel()

	for msg := range channel {
		payload := []byte(msg.Payload)

		mu.Lock()
		for conn := range clients[bookingId] {
			// Nếu client lỗi → xoá
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				conn.Close()
				delete(clients[bookingId], conn)
			}
		}
		mu.Unlock()
	}
}
