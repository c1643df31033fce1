package front

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ConfigPath string
	Verbose    bool
	ApiGinMode string
	Port       string

	APIAddress     string
	RequestTimeout int

	HoursPerStoryPoint float64

	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

func loadConfig(path string) (Config, error) {
	fileErr := godotenv.Load(path)
	if fileErr != nil {
		fileErr = fmt.Errorf("loading config file %s: %w", path, fileErr)
	}

	config := Config{
		ConfigPath: filepath.Base(path),
		Verbose:    getBoolEnv("VERBOSE", "true"),
		ApiGinMode: getEnv("GIN_MODE", "debug"),
		Port:       getEnv("PORT", "3000"),

		APIAddress:     strings.TrimRight(getEnv("API_ADDRESS", "http://localhost:3001"), "/"),
		RequestTimeout: getIntEnv("REQUEST_TIMEOUT", 10),

		HoursPerStoryPoint: getFloatEnv("HOURS_PER_STORY_POINT", 4),

		AllowedOrigins: getEnvFields("ALLOW_ORIGINS", []string{"http://localhost:3000"}),
		AllowedMethods: getEnvFields("ALLOW_METHODS", []string{"GET"}),
		AllowedHeaders: getEnvFields("ALLOW_HEADERS", []string{"Origin", "Authorization"}),
	}

	return config, fileErr
}

func getEnv(env, fallback string) string {
	if value, exists := os.LookupEnv(env); exists {
		return value
	}

	return fallback
}

func getEnvFields(env string, fallback []string) []string {
	if value, exists := os.LookupEnv(env); exists {
		var fields []string
		for _, f := range strings.Split(value, ",") {
			if f = strings.TrimSpace(f); f != "" {
				fields = append(fields, f)
			}
		}

		return fields
	}

	return fallback
}

func getBoolEnv(env, fallback string) bool {
	if value, exists := os.LookupEnv(env); exists {
		return strings.ToLower(value) == "true"
	}

	return strings.ToLower(fallback) == "true"
}

func getIntEnv(env string, fallback int) int {
	if value, exists := os.LookupEnv(env); exists {
		intValue, err := strconv.Atoi(value)
		if err == nil {
			return intValue
		}
	}

	return fallback
}

func getFloatEnv(env string, fallback float64) float64 {
	if value, exists := os.LookupEnv(env); exists {
		f, err := strconv.ParseFloat(value, 64)
		if err == nil && f > 0 {
			return f
		}
	}

	return fallback
}

func (cfg *Config) toString() string {
	var strBuilder strings.Builder

	reflectedValues := reflect.ValueOf(cfg).Elem()
	reflectedTypes := reflect.TypeOf(cfg).Elem()

	strBuilder.WriteString(fmt.Sprintf("[CFG]CONFIGURATION: %s\n", cfg.ConfigPath))
	for i := range reflectedValues.NumField() {
		strBuilder.WriteString(fmt.Sprintf("[CFG]%2d. %-18s -> %v\n",
			i+1, reflectedTypes.Field(i).Name, reflectedValues.Field(i).Interface()))
	}

	return strBuilder.String()
}
