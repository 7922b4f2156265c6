package config

import (
	"strings"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Server struct {
		Port   int    `env:"PORT" envDefault:"8080"`
		Origin string `env:"CORS_ORIGIN" envDefault:"http://localhost:5173"`
	}

	Redis struct {
		Host     string `env:"REDIS_HOST" envDefault:"localhost"`
		Port     int    `env:"REDIS_PORT" envDefault:"6379"`
		Password string `env:"REDIS_PASSWORD" envDefault:""`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
	}

	Telegram struct {
		BotToken string `env:"BOT_TOKEN,required"`
		// DEV_TG_ID позволяет обойти проверку initData локально
		DevUserID int64 `env:"DEV_TG_ID" envDefault:"0"`
	}

	App struct {
		// Языки интерфейса в нижнем регистре, через запятую
		Languages       []string `env:"APP_LANGUAGES" envDefault:"ru,en,km,zh" envSeparator:","`
		DefaultLanguage string   `env:"APP_DEFAULT_LANGUAGE" envDefault:"ru"`
	}
}

// AllowedLanguages возвращает допустимые языки как множество.
func (c *Config) AllowedLanguages() map[string]bool {
	set := make(map[string]bool, len(c.App.Languages))
	for _, l := range c.App.Languages {
		l = strings.ToLower(strings.TrimSpace(l))
		if l != "" {
			set[l] = true
		}
	}
	return set
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		// Игнорируем ошибку, если .env файл не найден
		// В production окружении переменные могут быть установлены напрямую
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}

	return cfg
}
