package availability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/RC-BookingService/internal/domain"
)

const generationKey = "availability:generation"

// Key параметры запроса доступности, по которым кэшируется результат
type Key struct {
	Date        string // YYYY-MM-DD
	ServiceID   int64
	ResourceID  *int64
	StepMinutes int
}

// Stamp версия, под которой был прочитан кэш
// Generation меняется при изменении расписания или ресурсов, Version - при изменении бронирований даты
type Stamp struct {
	Generation int64
	Version    int64
}

// Cache кэш слотов доступности в redis
//
// Записи не удаляются явно: инвалидация увеличивает счетчик (INCR),
// и записи со старым счетчиком перестают читаться до истечения TTL.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache создает кэш доступности
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Lookup возвращает закэшированные слоты и текущую версию
// Версию нужно передать в Store, чтобы не записать устаревший результат под новой версией
func (c *Cache) Lookup(ctx context.Context, key Key) ([]domain.Slot, Stamp, bool, error) {
	stamp, err := c.stamp(ctx, key.Date)
	if err != nil {
		return nil, Stamp{}, false, err
	}

	data, err := c.client.Get(ctx, entryKey(key, stamp)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, stamp, false, nil
		}
		return nil, stamp, false, fmt.Errorf("availability cache: get: %w", err)
	}

	var slots []domain.Slot
	if err := json.Unmarshal(data, &slots); err != nil {
		return nil, stamp, false, fmt.Errorf("availability cache: decode: %w", err)
	}
	return slots, stamp, true, nil
}

// Store сохраняет слоты под версией, полученной из Lookup
func (c *Cache) Store(ctx context.Context, key Key, stamp Stamp, slots []domain.Slot) error {
	payload, err := json.Marshal(slots)
	if err != nil {
		return fmt.Errorf("availability cache: encode: %w", err)
	}
	if err := c.client.Set(ctx, entryKey(key, stamp), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("availability cache: set: %w", err)
	}
	return nil
}

// InvalidateDate сбрасывает все записи на дату (YYYY-MM-DD)
func (c *Cache) InvalidateDate(ctx context.Context, date string) error {
	if err := c.client.Incr(ctx, versionKey(date)).Err(); err != nil {
		return fmt.Errorf("availability cache: invalidate %s: %w", date, err)
	}
	return nil
}

// InvalidateAll сбрасывает записи на все даты
func (c *Cache) InvalidateAll(ctx context.Context) error {
	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		return fmt.Errorf("availability cache: invalidate all: %w", err)
	}
	return nil
}

func (c *Cache) stamp(ctx context.Context, date string) (Stamp, error) {
	values, err := c.client.MGet(ctx, generationKey, versionKey(date)).Result()
	if err != nil {
		return Stamp{}, fmt.Errorf("availability cache: get version: %w", err)
	}

	generation, err := parseCounter(values[0])
	if err != nil {
		return Stamp{}, err
	}
	version, err := parseCounter(values[1])
	if err != nil {
		return Stamp{}, err
	}
	return Stamp{Generation: generation, Version: version}, nil
}

// parseCounter разбирает значение счетчика из MGET (nil - ключа нет)
func parseCounter(v interface{}) (int64, error) {
	if v == nil {
		return 0, nil
	}
	s, ok := v.(string)
	if !ok {
		return 0, fmt.Errorf("availability cache: unexpected counter type %T", v)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("availability cache: parse counter %q: %w", s, err)
	}
	return n, nil
}

func versionKey(date string) string {
	return "availability:version:" + date
}

func entryKey(key Key, stamp Stamp) string {
	resource := "any"
	if key.ResourceID != nil {
		resource = strconv.FormatInt(*key.ResourceID, 10)
	}
	return fmt.Sprintf("availability:%s:g%d:v%d:service:%d:resource:%s:step:%d",
		key.Date, stamp.Generation, stamp.Version, key.ServiceID, resource, key.StepMinutes)
}
