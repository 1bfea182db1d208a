package service

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/patrickmn/go-cache"

	"wall-elevation/internal/elevation/models"
)

// ============================================================
// Render Cache
// ============================================================

// RenderCache хранит готовые PNG/SVG. Ключ включает отпечаток стены,
// поэтому любое изменение стены или фикстур дает новый ключ.
type RenderCache struct {
	items *cache.Cache
}

func NewRenderCache(ttl time.Duration) *RenderCache {
	return &RenderCache{items: cache.New(ttl, 2*ttl)}
}

// Key строит ключ кэша для формата, ширины и содержимого стены.
func (c *RenderCache) Key(format string, width float64, wall models.WallWithFixtures) (string, error) {
	data, err := json.Marshal(wall)
	if err != nil {
		return "", fmt.Errorf("fingerprint wall: %w", err)
	}
	return fmt.Sprintf("%s:%g:%s:%016x", format, width, wall.ID, xxhash.Sum64(data)), nil
}

func (c *RenderCache) Get(key string) ([]byte, bool) {
	v, ok := c.items.Get(key)
	if !ok {
		return nil, false
	}
	return v.([]byte), true
}

func (c *RenderCache) Set(key string, data []byte) {
	c.items.SetDefault(key, data)
}

// GetOrRender отдает байты из кэша или рендерит и запоминает их.
// Ошибки рендера не кэшируются.
func (c *RenderCache) GetOrRender(key string, render func() ([]byte, error)) ([]byte, bool, error) {
	if data, ok := c.Get(key); ok {
		return data, true, nil
	}
	data, err := render()
	if err != nil {
		return nil, false, err
	}
	c.Set(key, data)
	return data, false, nil
}
