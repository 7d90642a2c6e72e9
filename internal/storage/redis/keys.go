package redis

import "fmt"

// Key prefix for all game-related data
const keyPrefix = "semguess"

// embeddingKey returns the Redis key for a cached word embedding
func embeddingKey(word string) string {
	return fmt.Sprintf("%s:embedding:%s", keyPrefix, word)
}

// wordsKey returns the Redis key for the ordered word list
func wordsKey() string {
	return fmt.Sprintf("%s:words", keyPrefix)
}
