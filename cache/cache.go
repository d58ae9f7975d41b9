// Package cache is a small global object cache for parsed assets we
// only want to build once, such as the embedded level set or a custom
// board file read from disk.
package cache

import (
	"sync"

	"github.com/rs/zerolog/log"
)

type cache struct {
	sync.Mutex
	objects map[string]interface{}
}

type loadFunc func(key string) (interface{}, error)

var global = &cache{objects: make(map[string]interface{})}

func (c *cache) load(key string, load loadFunc) error {
	log.Debug().Str("key", key).Msg("loading into cache")

	obj, err := load(key)
	if err != nil {
		return err
	}
	c.objects[key] = obj
	return nil
}

func (c *cache) get(key string, load loadFunc) (interface{}, error) {
	c.Lock()
	defer c.Unlock()
	if obj, ok := c.objects[key]; ok {
		log.Debug().Str("key", key).Msg("getting obj from cache")
		return obj, nil
	}
	if err := c.load(key, load); err != nil {
		return nil, err
	}
	return c.objects[key], nil
}

// Load fetches the object for key, building it with load on first use.
func Load(key string, load loadFunc) (interface{}, error) {
	return global.get(key, load)
}

// Evict drops key from the cache.
func Evict(key string) {
	global.Lock()
	defer global.Unlock()
	delete(global.objects, key)
}
