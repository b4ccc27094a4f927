package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	NsSeparator  string
	KeySeparator string
	DefaultNs    string
	Vue          bool
	VueDirectory string
	VueFile      string
	ResourceExt  string
	WorkerCount  int
	LogLevel     zerolog.Level
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	return &Config{
		NsSeparator:  getEnv("I18N_NS_SEPARATOR", ":"),
		KeySeparator: getEnv("I18N_KEY_SEPARATOR", "."),
		DefaultNs:    getEnv("I18N_DEFAULT_NS", "translation"),
		Vue:          getEnvBool("I18N_VUE", false),
		VueDirectory: getEnv("I18N_VUE_DIRECTORY", "locales"),
		VueFile:      getEnv("I18N_VUE_FILE", "en.json"),
		ResourceExt:  normalizeExt(getEnv("I18N_RESOURCE_EXT", ".yml")),
		WorkerCount:  getEnvInt("I18N_WORKER_COUNT", 4),
		LogLevel:     getEnvLevel("LOG_LEVEL", zerolog.InfoLevel),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvLevel(key string, fallback zerolog.Level) zerolog.Level {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(v))
	if err != nil {
		return fallback
	}
	return lvl
}

func normalizeExt(ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		return "." + ext
	}
	return ext
}
