package bootstrap

import (
	"stayops/internal/pkg/config"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		LoadConfig,
	),
)

func LoadConfig() (config.Config, error) {
	// Missing .env is fine; environment variables win either way.
	_ = godotenv.Load()
	return config.LoadConfig()
}
