package mcourse

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

	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string

	// persistence
	DBDriver string
	MongoURI string
	MongoDB  string

	// identity
	AuthMode     string
	JWKSURL      string
	Issuer       string
	Audience     string
	KCAddress    string
	Realm        string
	ClientID     string
	ClientSecret string

	AmqpURI      string
	AmqpAttempts int

	WriteRateLimit float64
	WriteRateBurst int
}

// loadConfig reads path into the environment and builds the config from it.
// A missing file is reported but the defaults still apply.
func loadConfig(path string) (Config, error) {
	fileErr := godotenv.Load(path)
	if fileErr != nil {
		fileErr = fmt.Errorf("loading config file %s: %w", path, fileErr)
	}

	config := Config{
		ConfigPath: filepath.Base(path),
		Verbose:    getBoolEnv("VERBOSE", "true"),
		ApiGinMode: getEnv("GIN_MODE", "debug"),
		Port:       getEnv("PORT", "3001"),

		AllowedOrigins: getEnvFields("ALLOW_ORIGINS", []string{"http://localhost:3000"}),
		AllowedMethods: getEnvFields("ALLOW_METHODS", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		AllowedHeaders: getEnvFields("ALLOW_HEADERS", []string{"Origin", "Content-Type", "Authorization"}),

		DBDriver: strings.ToLower(getEnv("DB_DRIVER", "mongo")),
		MongoURI: getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:  getEnv("MONGO_DB", "multi-git-dashboard"),

		AuthMode:     strings.ToLower(getEnv("AUTH_MODE", "header")),
		JWKSURL:      getEnv("JWKS_URL", ""),
		Issuer:       getEnv("JWT_ISSUER", ""),
		Audience:     getEnv("JWT_AUDIENCE", ""),
		KCAddress:    getEnv("KC_ADDRESS", ""),
		Realm:        getEnv("KC_REALM", "multi-git-dashboard"),
		ClientID:     getEnv("KC_CLIENT", "admin-cli"),
		ClientSecret: getEnv("KC_CLIENT_SECRET", ""),

		AmqpURI:      getEnv("AMQP_URI", ""),
		AmqpAttempts: getIntEnv("AMQP_ATTEMPTS", 5),

		WriteRateLimit: getFloatEnv("WRITE_RATE_LIMIT", 0),
		WriteRateBurst: getIntEnv("WRITE_RATE_BURST", 20),
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
		if err == nil {
			return f
		}
	}

	return fallback
}

// secret reports whether a field must be masked when the config is dumped.
func secret(fieldName string) bool {
	return strings.Contains(fieldName, "Secret") || fieldName == "MongoURI" || fieldName == "AmqpURI"
}

func (cfg *Config) toString() string {
	var strBuilder strings.Builder

	reflectedValues := reflect.ValueOf(cfg).Elem()
	reflectedTypes := reflect.TypeOf(cfg).Elem()

	strBuilder.WriteString(fmt.Sprintf("[CFG]CONFIGURATION: %s\n", cfg.ConfigPath))

	for i := range reflectedValues.NumField() {
		fieldName := reflectedTypes.Field(i).Name
		fieldValue := reflectedValues.Field(i).Interface()

		if s, ok := fieldValue.(string); ok && s != "" && secret(fieldName) {
			fieldValue = "****"
		}

		strBuilder.WriteString(fmt.Sprintf("[CFG]%2d. %-16s -> %v\n", i+1, fieldName, fieldValue))
	}

	return strBuilder.String()
}
