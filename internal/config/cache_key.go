package config

import (
	"fmt"

	"github.com/google/uuid"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// StudentOverviewKey returns the cache key for a student's assignment overview
func (r *CacheKeyStruct) StudentOverviewKey(studentID uuid.UUID) string {
	return fmt.Sprintf("student:%s:overview", studentID)
}

var CacheKey = NewCacheKeyStruct()
