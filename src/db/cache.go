package db

import (
	"log"
	"sync"

	"github.com/dgraph-io/ristretto"
)

// Storing cache keys in concurrent data structures to allow for clearing all caches of a certain type
var (
	Cache            *ristretto.Cache
	ExpenseCacheKeys = struct {
		sync.RWMutex
		m map[string]struct{}
	}{m: make(map[string]struct{})}
)

func InitCache() {
	var err error
	Cache, err = ristretto.NewCache(&ristretto.Config{
		NumCounters: 10000, // number of keys to track frequency of
		MaxCost:     10000,
		BufferItems: 64, // number of keys per Get buffer
	})
	if err != nil {
		log.Fatalf("failed to initialize cache: %v", err)
	}
}

// Expense Cache Functions
func SetExpenseCache(cacheKey string, value interface{}) {
	ExpenseCacheKeys.Lock()
	ExpenseCacheKeys.m[cacheKey] = struct{}{}
	ExpenseCacheKeys.Unlock()
	Cache.Set(cacheKey, value, 1)
}

func DelExpenseCache(cacheKey string) {
	ExpenseCacheKeys.Lock()
	delete(ExpenseCacheKeys.m, cacheKey)
	ExpenseCacheKeys.Unlock()
	Cache.Del(cacheKey)
}

func ClearAllExpenseCaches() {
	ExpenseCacheKeys.Lock()
	for key := range ExpenseCacheKeys.m {
		Cache.Del(key)
	}
	ExpenseCacheKeys.m = make(map[string]struct{})
	ExpenseCacheKeys.Unlock()
}
