package constant

// Presence statuses persisted on the users table.
const (
	StatusOnline  = "ONLINE"
	StatusOffline = "OFFLINE"
	StatusAway    = "AWAY"
	StatusBusy    = "BUSY"
)

// ValidStatus reports whether s is a known presence status.
func ValidStatus(s string) bool {
	switch s {
	case StatusOnline, StatusOffline, StatusAway, StatusBusy:
		return true
	}
	return false
}

// Attachment types carried on message payloads. The server treats the
// attachment URL as an opaque string; the type is client-facing metadata.
const (
	AttachmentImage = "image"
	AttachmentVideo = "video"
	AttachmentAudio = "audio"
	AttachmentFile  = "file"
)

// Redis key patterns (without prefix, use RedisKey*() to get full key)
const (
	redisKeyToken  = "token:%d"  // token:{user_id}
	redisKeyOnline = "online:%d" // online:{user_id}
)

// redisKeyPrefix is the global prefix for all Redis keys
var redisKeyPrefix = "linka:"

// InitRedisKeyPrefix initializes the Redis key prefix from config
func InitRedisKeyPrefix(prefix string) {
	if prefix != "" {
		redisKeyPrefix = prefix
	}
}

// GetRedisKeyPrefix returns the current Redis key prefix
func GetRedisKeyPrefix() string {
	return redisKeyPrefix
}

// Redis key getters with prefix
func RedisKeyToken() string  { return redisKeyPrefix + redisKeyToken }
func RedisKeyOnline() string { return redisKeyPrefix + redisKeyOnline }
