package scenarioforge

import "os"

// Config holds process-wide defaults the core falls back to when a
// caller doesn't specify an explicit value — never simulation
// parameters, which always come from SimulationConfig/Graph.Params.
type Config struct {
	// LogLevel is a zerolog level name ("debug", "info", "warn", "error").
	LogLevel string
	// DefaultSeedEnv, if set, names an environment variable holding a
	// default RNG seed for ad-hoc tooling (CLIs, REPLs) that want
	// reproducible runs without threading a seed through every call.
	// The library itself never reads it implicitly.
	DefaultSeedEnv string
}

// defaultConfig is loaded once from the environment at process start,
// following the teacher's internal/config.Load/getEnv pattern.
var defaultConfig = loadConfig()

func loadConfig() *Config {
	return &Config{
		LogLevel:       getEnv("SCENARIOFORGE_LOG_LEVEL", "info"),
		DefaultSeedEnv: getEnv("SCENARIOFORGE_SEED_ENV", "SCENARIOFORGE_SEED"),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
