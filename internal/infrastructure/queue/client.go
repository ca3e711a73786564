package queue

import (
	"github.com/hibiken/asynq"

	"library-catalog/internal/config"
)

// RedisOpt dùng chung Redis với cache layer
func RedisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Host,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// NewClient tạo asynq client để enqueue task ngoài lịch cron
func NewClient(cfg config.RedisConfig) *asynq.Client {
	return asynq.NewClient(RedisOpt(cfg))
}
