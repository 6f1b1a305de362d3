package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	ServerPort   string `mapstructure:"SERVER_PORT"`
	BaseURL      string `mapstructure:"BASE_URL"` // origin для share-ссылок
	DBHost       string `mapstructure:"DB_HOST"`
	DBPort       string `mapstructure:"DB_PORT"`
	DBUser       string `mapstructure:"DB_USER"`
	DBPassword   string `mapstructure:"DB_PASSWORD"`
	DBName       string `mapstructure:"DB_NAME"`
	DBSSLMode    string `mapstructure:"DB_SSLMODE"`
	RedisAddr    string `mapstructure:"REDIS_ADDR"`
	RedisPass    string `mapstructure:"REDIS_PASSWORD"`
	RedisDB      int    `mapstructure:"REDIS_DB"`
	JWTSecret    string `mapstructure:"JWT_SECRET"`
	UploadDir    string `mapstructure:"UPLOAD_DIR"`
	CacheTTLList int    `mapstructure:"CACHE_TTL_DOC_LIST"`
	CacheTTLItem int    `mapstructure:"CACHE_TTL_DOC_ITEM"`
}

func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("BASE_URL", "http://localhost:8080")
	viper.SetDefault("UPLOAD_DIR", "./uploads")
	viper.SetDefault("CACHE_TTL_DOC_LIST", 60)
	viper.SetDefault("CACHE_TTL_DOC_ITEM", 300)

	err = viper.ReadInConfig()
	if err != nil {
		log.Fatalf("Error reading config file: %s", err)
	}

	err = viper.Unmarshal(&config)
	return
}
