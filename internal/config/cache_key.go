package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// UserTokenKey returns the cache key for an issued token (keyed by JTI).
// Presence of the key means the token has not been revoked by logout.
func (r *CacheKeyStruct) UserTokenKey(jti string) string {
	return fmt.Sprintf("auth:token:%s", jti)
}

// QuizTypeListKey returns the cache key for the quiz type catalog.
func (r *CacheKeyStruct) QuizTypeListKey() string {
	return "quiz_types:catalog"
}

var CacheKey = NewCacheKeyStruct()
