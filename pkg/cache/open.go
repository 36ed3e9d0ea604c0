package cache

import (
	"context"
	"fmt"
	"strings"

	apperrors "github.com/matzehuels/cardgrid/pkg/errors"
)

// Open returns the cache described by target:
//   - "" returns a NullCache
//   - redis:// and rediss:// URLs return a RedisCache
//   - mongodb:// and mongodb+srv:// URLs return a MongoCache
//   - anything else is treated as a directory for a FileCache
func Open(ctx context.Context, target string) (Cache, error) {
	switch {
	case target == "":
		return NewNullCache(), nil
	case strings.HasPrefix(target, "redis://"), strings.HasPrefix(target, "rediss://"):
		if err := apperrors.ValidateCacheURL(target); err != nil {
			return nil, err
		}
		return NewRedisCache(ctx, target)
	case strings.HasPrefix(target, "mongodb://"), strings.HasPrefix(target, "mongodb+srv://"):
		if err := apperrors.ValidateCacheURL(target); err != nil {
			return nil, err
		}
		return NewMongoCache(ctx, target)
	case strings.Contains(target, "://"):
		return nil, fmt.Errorf("%w: %s", ErrBackend, target)
	default:
		return NewFileCache(target)
	}
}

// Kind names the backend behind c for logs.
func Kind(c Cache) string {
	switch c.(type) {
	case NullCache:
		return "none"
	case *FileCache:
		return "file"
	case *RedisCache:
		return "redis"
	case *MongoCache:
		return "mongodb"
	default:
		return fmt.Sprintf("%T", c)
	}
}
