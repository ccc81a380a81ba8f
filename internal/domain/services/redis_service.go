package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gasguard-http-service/internal/domain/models"
	"gasguard-http-service/internal/infrastructure/config"

	"github.com/go-redis/redis/v8"
)

// InterfaceRedisService defines the Redis service interface
type InterfaceRedisService interface {
	Set(key string, value interface{}, expiration time.Duration) error
	Get(key string, dest interface{}) error
	Delete(key string) error
	CacheLatestReading(metric *models.SensorMetric) error
	GetLatestReading(sensorID uint) (*models.SensorMetric, error)
	CacheIncidentStats(stats interface{}) error
	GetIncidentStats(dest interface{}) error
	InvalidateIncidentStats() error
}

// RedisService handles Redis operations
type RedisService struct {
	Client *redis.Client
	Ctx    context.Context
}

// NewRedisService creates a new Redis service
func NewRedisService(cfg *config.Config) InterfaceRedisService {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: "", // No password set
		DB:       cfg.RedisDB,
	})

	ctx := context.Background()

	return &RedisService{
		Client: client,
		Ctx:    ctx,
	}
}

// 1 Set sets a key-value pair in Redis with expiration
func (s *RedisService) Set(key string, value interface{}, expiration time.Duration) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return s.Client.Set(s.Ctx, key, jsonValue, expiration).Err()
}

// 2 Get gets a value from Redis by key
func (s *RedisService) Get(key string, dest interface{}) error {
	val, err := s.Client.Get(s.Ctx, key).Result()
	if err != nil {
		return err
	}

	return json.Unmarshal([]byte(val), dest)
}

// 3 Delete deletes a key from Redis
func (s *RedisService) Delete(key string) error {
	return s.Client.Del(s.Ctx, key).Err()
}

// 4 CacheLatestReading caches the most recent reading of a sensor
func (s *RedisService) CacheLatestReading(metric *models.SensorMetric) error {
	key := fmt.Sprintf("sensor_latest:%d", metric.SensorID)
	return s.Set(key, metric, 24*time.Hour)
}

// 5 GetLatestReading gets the most recent cached reading of a sensor
func (s *RedisService) GetLatestReading(sensorID uint) (*models.SensorMetric, error) {
	var metric models.SensorMetric
	key := fmt.Sprintf("sensor_latest:%d", sensorID)
	if err := s.Get(key, &metric); err != nil {
		return nil, err
	}
	return &metric, nil
}

// 6 CacheIncidentStats caches the admin incident statistics payload
func (s *RedisService) CacheIncidentStats(stats interface{}) error {
	return s.Set("incident_stats", stats, 30*time.Second)
}

// 7 GetIncidentStats gets the cached incident statistics payload
func (s *RedisService) GetIncidentStats(dest interface{}) error {
	return s.Get("incident_stats", dest)
}

// 8 InvalidateIncidentStats drops the cached statistics after incident writes
func (s *RedisService) InvalidateIncidentStats() error {
	return s.Delete("incident_stats")
}
