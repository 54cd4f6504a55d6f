package achivio

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/achivio/achivio-core/achivio/database"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type Config struct {
	Log    LogConfig         `toml:"log"`
	Chain  ChainConfig       `toml:"chain"`
	DB     database.DBConfig `toml:"db"`
	API    APIConfig         `toml:"api"`
	Spaces struct {
		Key    string `toml:"key"`
		Secret string `toml:"secret"`
		Region string `toml:"region"`
		Bucket string `toml:"bucket"`
		Root   string `toml:"root"`
	} `toml:"spaces"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	Format    string     `toml:"format"`
	AddSource bool       `toml:"add_source"`
}

// ChainConfig controls the simulated chain clock and the deployer identity.
type ChainConfig struct {
	Deployer          string `toml:"deployer"`
	BlockIntervalSecs int    `toml:"block_interval_secs"`
	GenesisUnix       int64  `toml:"genesis_unix"`
	CheckpointMins    int    `toml:"checkpoint_mins"`
	SnapshotsKept     int    `toml:"snapshots_kept"`
}

// APIConfig configures the HTTP gateway.
type APIConfig struct {
	Addr       string `toml:"addr"`
	AdminToken string `toml:"admin_token"`
}
