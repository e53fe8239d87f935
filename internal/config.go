package internal

import (
	"fmt"
	"strings"
	"time"
)

type Config struct {
	Host              string        `env:"HOST,default=0.0.0.0"`
	Port              int           `env:"PORT,default=5000"`
	BadgerFilepath    string        `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath     string        `env:"BLUGE_FILEPATH,required=true"`
	JWTSecret         string        `env:"JWT_SECRET,required=true"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`
	CommandPrefix     string        `env:"COMMAND_PREFIX,default=~"`
	MaxContentLength  int           `env:"MAX_CONTENT_LENGTH,default=1000"`
	RecentLimit       int           `env:"RECENT_LIMIT,default=20"`
	SearchLimit       int           `env:"SEARCH_LIMIT,default=20"`
	CensoredWords     string        `env:"CENSORED_WORDS"`
	CensorMask        string        `env:"CENSOR_MASK,default=*"`
	HeartbeatInterval time.Duration `env:"HEARTBEAT_INTERVAL,default=30s"`
	LogLevel          string        `env:"LOG_LEVEL,default=INFO"`
}

// CharacterRune enforces single-character settings like the command prefix
// and the censor mask.
func CharacterRune(name, value string) (rune, error) {
	r := []rune(value)
	if len(r) != 1 {
		return 0, fmt.Errorf("%s must be a single character, got %q", name, value)
	}
	return r[0], nil
}

// WordList splits a comma-separated env value into trimmed, non-empty words.
func WordList(value string) []string {
	var words []string
	for _, w := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(w); trimmed != "" {
			words = append(words, trimmed)
		}
	}
	return words
}
