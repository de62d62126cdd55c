package config

import (
	"errors"
	"io/fs"
	"log"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// AppConfig holds file and environment driven configuration values.
// Sensitive data should never have defaults inside code and must be provided via config files or the environment.
type AppConfig struct {
	AppPort            string
	JWTSecret          string
	RateLimitPerMinute int
	AllowedOrigins     []string
	AdminUsernames     []string
	// Feed settings
	PostsPerPage     int
	FeedCacheSeconds int
	UploadDir        string
	// Gin framework configuration
	GinMode string
	GinPath string
	// Database: mysql, postgres or sqlite
	DBDriver    string
	DatabaseURI string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	// Page cache backend: redis, badger or memory
	CacheBackend    string
	CacheBadgerPath string
	// Redis for the shared page cache
	RedisHost     string
	RedisPort     int
	RedisDB       int
	RedisPassword string
	// Logging configuration
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
}

// ErrMissingJWTSecret is returned when no signing secret is configured.
var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set in config or environment")

var cfg AppConfig
var loaded bool

// key -> environment variable
var envBindings = map[string]string{
	"app.appport":            "APP_PORT",
	"app.jwtsecret":          "JWT_SECRET",
	"app.ratelimitperminute": "RATE_LIMIT_PER_MINUTE",
	"app.allowedorigins":     "CORS_ALLOWED_ORIGINS",
	"app.adminusernames":     "ADMIN_USERNAMES",
	"app.postsperpage":       "POSTS_PER_PAGE",
	"app.uploaddir":          "UPLOAD_DIR",
	"gin.mode":               "GIN_MODE",
	"gin.logpath":            "GIN_PATH",
	"database.driver":        "DB_DRIVER",
	"database.databaseuri":   "DATABASE_URI",
	"database.dbhost":        "DB_HOST",
	"database.dbport":        "DB_PORT",
	"database.dbuser":        "DB_USER",
	"database.dbpassword":    "DB_PASSWORD",
	"database.dbname":        "DB_NAME",
	"cache.backend":          "CACHE_BACKEND",
	"cache.badgerpath":       "CACHE_BADGER_PATH",
	"cache.feedttlseconds":   "FEED_CACHE_SECONDS",
	"redis.redishost":        "REDIS_HOST",
	"redis.redisport":        "REDIS_PORT",
	"redis.redisdb":          "REDIS_DB",
	"redis.redispassword":    "REDIS_PASSWORD",
	"log.level":              "LOG_LEVEL",
	"log.path":               "LOG_PATH",
	"log.maxsizemb":          "LOG_MAX_SIZE_MB",
	"log.maxbackups":         "LOG_MAX_BACKUPS",
	"log.maxagedays":         "LOG_MAX_AGE_DAYS",
	"log.compress":           "LOG_COMPRESS",
}

// Load loads the application configuration once during boot and exits when it is unusable.
func Load() AppConfig {
	if loaded {
		return cfg
	}
	c, err := LoadFrom(filepath.Join("config", "config.json"))
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	cfg = c
	loaded = true
	return cfg
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	if !loaded {
		return Load()
	}
	return cfg
}

// LoadFrom reads path (missing file is fine), applies defaults, then environment overrides.
// Precedence: environment > file > defaults.
func LoadFrom(path string) (AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	applyDefaults(v)
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return AppConfig{}, err
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var pathErr *fs.PathError
		if !errors.As(err, &pathErr) {
			return AppConfig{}, err
		}
	}

	out := AppConfig{
		AppPort:            v.GetString("app.appport"),
		JWTSecret:          v.GetString("app.jwtsecret"),
		RateLimitPerMinute: v.GetInt("app.ratelimitperminute"),
		AllowedOrigins:     splitList(v.GetStringSlice("app.allowedorigins")),
		AdminUsernames:     splitList(v.GetStringSlice("app.adminusernames")),
		PostsPerPage:       v.GetInt("app.postsperpage"),
		UploadDir:          v.GetString("app.uploaddir"),
		GinMode:            v.GetString("gin.mode"),
		GinPath:            v.GetString("gin.logpath"),
		DBDriver:           strings.ToLower(v.GetString("database.driver")),
		DatabaseURI:        v.GetString("database.databaseuri"),
		DBHost:             v.GetString("database.dbhost"),
		DBPort:             v.GetString("database.dbport"),
		DBUser:             v.GetString("database.dbuser"),
		DBPassword:         v.GetString("database.dbpassword"),
		DBName:             v.GetString("database.dbname"),
		CacheBackend:       strings.ToLower(v.GetString("cache.backend")),
		CacheBadgerPath:    v.GetString("cache.badgerpath"),
		FeedCacheSeconds:   v.GetInt("cache.feedttlseconds"),
		RedisHost:          v.GetString("redis.redishost"),
		RedisPort:          v.GetInt("redis.redisport"),
		RedisDB:            v.GetInt("redis.redisdb"),
		RedisPassword:      v.GetString("redis.redispassword"),
		LogLevel:           v.GetString("log.level"),
		LogPath:            v.GetString("log.path"),
		LogMaxSizeMB:       v.GetInt("log.maxsizemb"),
		LogMaxBackups:      v.GetInt("log.maxbackups"),
		LogMaxAgeDays:      v.GetInt("log.maxagedays"),
		LogCompress:        v.GetBool("log.compress"),
	}
	if out.PostsPerPage <= 0 {
		out.PostsPerPage = 10
	}
	if out.JWTSecret == "" {
		return out, ErrMissingJWTSecret
	}
	return out, nil
}

// applyDefaults sets sane defaults for values absent from both file and environment.
func applyDefaults(v *viper.Viper) {
	v.SetDefault("app.appport", "8080")
	v.SetDefault("app.ratelimitperminute", 60)
	v.SetDefault("app.allowedorigins", []string{"*"})
	v.SetDefault("app.postsperpage", 10)
	v.SetDefault("app.uploaddir", filepath.Join("static", "uploads"))
	v.SetDefault("gin.mode", "release")
	v.SetDefault("gin.logpath", filepath.Join("logs", "gin.log"))
	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.dbhost", "127.0.0.1")
	v.SetDefault("database.dbport", "3306")
	v.SetDefault("database.dbname", "groupfeed")
	v.SetDefault("cache.backend", "redis")
	v.SetDefault("cache.badgerpath", filepath.Join("data", "pagecache"))
	v.SetDefault("cache.feedttlseconds", 20)
	v.SetDefault("redis.redishost", "127.0.0.1")
	v.SetDefault("redis.redisport", 6379)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.path", filepath.Join("logs", "app.log"))
	v.SetDefault("log.maxsizemb", 100)
	v.SetDefault("log.maxbackups", 3)
	v.SetDefault("log.maxagedays", 7)
}

// splitList accepts both JSON arrays and comma separated env values.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
