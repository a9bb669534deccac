package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion

	"github.com/joho/godotenv" // For loading .env files
)

// Record store drivers
const (
	DriverFile   = "file"   // Line-oriented text file
	DriverMySQL  = "mysql"  // MySQL through GORM
	DriverSQLite = "sqlite" // SQLite file through GORM
)

// Config holds the application configuration
type Config struct {
	AppPort     string // Application port
	IsProd      bool   // Is production environment
	Language    string // Terminal language: fa or en
	LogLevel    string // Logrus level name
	StoreDriver string // file, mysql or sqlite
	DataFile    string // Path of the line store
	DBUser      string // Database user
	DBPassword  string // Database password
	DBHost      string // Database host
	DBPort      string // Database port
	DBName      string // Database name
	DBPath      string // SQLite database file
	JWTSecret   string // JWT secret key
	RedisAddr   string // Redis server address, empty disables the cache
	RedisPass   string // Redis password
	RedisDB     int    // Redis database number
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	return &Config{
		AppPort:     getenv("APP_PORT", "8080"),         // Application port
		IsProd:      os.Getenv("IS_PROD") == "true",     // Is production environment
		Language:    getenv("LANGUAGE", "fa"),           // Terminal language
		LogLevel:    getenv("LOG_LEVEL", "info"),        // Log level
		StoreDriver: getenv("STORE_DRIVER", DriverFile), // Record store driver
		DataFile:    getenv("DATA_FILE", "users.txt"),   // Line store path
		DBUser:      os.Getenv("DB_USER"),               // Database user
		DBPassword:  os.Getenv("DB_PASSWORD"),           // Database password
		DBHost:      os.Getenv("DB_HOST"),               // Database host
		DBPort:      os.Getenv("DB_PORT"),               // Database port
		DBName:      os.Getenv("DB_NAME"),               // Database name
		DBPath:      getenv("DB_PATH", "atm.db"),        // SQLite database file
		JWTSecret:   os.Getenv("JWT_SECRET"),            // JWT secret key
		RedisAddr:   os.Getenv("REDIS_ADDR"),            // Redis server address
		RedisPass:   os.Getenv("REDIS_PASS"),            // Redis password
		RedisDB:     redisDB,                            // Redis database number
	}
}

// MySQLDSN builds the Data Source Name for the MySQL driver
func (c *Config) MySQLDSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true"
}

// getenv returns the variable or def when it is unset or empty
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
