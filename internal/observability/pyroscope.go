package observability

import (
	"context"
	"strconv"

	"github.com/grafana/pyroscope-go"

	"github.com/riskibarqy/fantasy-rankings/internal/config"
	"github.com/riskibarqy/fantasy-rankings/internal/platform/logging"
)

// InitPyroscope starts continuous profiling when enabled. Commands are short
// lived, so only CPU and allocation profiles are collected.
func InitPyroscope(cfg config.Config, logger *logging.Logger) (func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	if !cfg.PyroscopeEnabled {
		logger.Debug("pyroscope disabled", "reason", "PYROSCOPE_ENABLED=false")
		return func() error { return nil }, nil
	}

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName:   cfg.PyroscopeAppName,
		ServerAddress:     cfg.PyroscopeServerAddress,
		AuthToken:         cfg.PyroscopeAuthToken,
		BasicAuthUser:     cfg.PyroscopeBasicAuthUser,
		BasicAuthPassword: cfg.PyroscopeBasicAuthPassword,
		UploadRate:        cfg.PyroscopeUploadRate,
		Tags:              profileTags(cfg),
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
		},
	})
	if err != nil {
		return nil, err
	}

	logger.Info("pyroscope enabled",
		"server_address", cfg.PyroscopeServerAddress,
		"application", cfg.PyroscopeAppName,
	)

	return profiler.Stop, nil
}

// TagCommand runs fn with a "command" profiling label so samples taken
// during fn can be filtered per subcommand.
func TagCommand(ctx context.Context, command string, fn func(context.Context)) {
	pyroscope.TagWrapper(ctx, pyroscope.Labels("command", command), fn)
}

func profileTags(cfg config.Config) map[string]string {
	return map[string]string{
		"env":          cfg.AppEnv,
		"service":      cfg.ServiceName,
		"storage":      cfg.StorageDriver,
		"espn":         strconv.FormatBool(cfg.ESPNEnabled),
		"match_worker": strconv.Itoa(cfg.MatchMaxWorkers),
	}
}
