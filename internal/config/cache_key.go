package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// RevokedTokenKey returns the denylist key for a revoked token's JTI.
func (r *CacheKeyStruct) RevokedTokenKey(jti string) string {
	return fmt.Sprintf("revoked:%s", jti)
}

// StudentEventsChannel returns the PubSub channel for a student's
// real-time notifications (result access toggles).
func (r *CacheKeyStruct) StudentEventsChannel(studentID int) string {
	return fmt.Sprintf("student:%d:events", studentID)
}

var CacheKey = NewCacheKeyStruct()
