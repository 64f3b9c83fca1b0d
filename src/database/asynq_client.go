package database

import (
	"log"

	"github.com/hibiken/asynq"
)

// InitAsynq initializes the Asynq client only if Redis is available.
func InitAsynq(redisAvailable bool, addr string) *asynq.Client {
	if !redisAvailable || addr == "" {
		log.Println("⚠️ Redis not available. Asynq client will not be initialized.")
		return nil
	}

	client := asynq.NewClient(asynq.RedisClientOpt{Addr: addr})
	log.Println("✅ Asynq Client initialized successfully")
	return client
}
