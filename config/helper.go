package config

import (
	"fmt"
	"log"
	"os"
	"strings"
)

func getInt32Env(key string, fallback int32) int32 {
	if value, exists := os.LookupEnv(key); exists {
		if i, err := toInt32(value); err == nil {
			return i
		}
		log.Printf("Invalid int32 for %s, using fallback", key)
	}
	return fallback
}

func toInt32(s string) (int32, error) {
	// simple parsing
	var i int32
	_, err := fmt.Sscanf(s, "%d", &i)
	return i, err
}

// getBoolEnv normalizes the usual truthy spellings ("1", "true", "yes",
// "on") to a real bool. Anything unrecognized falls back.
func getBoolEnv(key string, fallback bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off", "":
		return false
	}
	log.Printf("Invalid bool for %s, using fallback", key)
	return fallback
}
