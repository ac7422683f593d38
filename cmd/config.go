package main

import (
	"fmt"
	"time"
)

type Config struct {
	Host           string `env:"HOST,required=true"`
	Port           int    `env:"PORT,required=true"`
	LogLevel       string `env:"LOG_LEVEL,required=true"`
	BadgerFilepath string `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath  string `env:"BLUGE_FILEPATH,required=true"`

	JWTSecret         string        `env:"JWT_SECRET,required=true"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,required=true"`

	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,required=true"`
	SinkTimeout          time.Duration `env:"SINK_TIMEOUT,required=true"`
	WriteWait            time.Duration `env:"WRITE_WAIT,required=true"`
	PongWait             time.Duration `env:"PONG_WAIT,required=true"`
	PingPeriod           time.Duration `env:"PING_PERIOD,required=true"`
	ReadLimit            int64         `env:"READ_LIMIT,required=true"`

	HistoryLimit    *int          `env:"HISTORY_LIMIT"`
	SearchLimit     int           `env:"SEARCH_LIMIT,required=true"`
	CharReplacement string        `env:"CHARACTER_REPLACEMENT,required=true"`
	HealthInterval  time.Duration `env:"HEALTH_INTERVAL,required=true"`
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
