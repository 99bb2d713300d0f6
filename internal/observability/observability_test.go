package observability

import (
	"context"
	"testing"

	"github.com/riskibarqy/fantasy-rankings/internal/config"
	"github.com/riskibarqy/fantasy-rankings/internal/platform/logging"
)

func TestInitUptrace_Disabled(t *testing.T) {
	cfg := config.Config{
		UptraceEnabled: false,
		ServiceName:    "fantasy-rankings",
		ServiceVersion: "dev",
		AppEnv:         config.EnvDev,
	}

	shutdown, err := InitUptrace(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("init uptrace: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown uptrace: %v", err)
	}
}

func TestInitUptrace_EnabledWithoutDSN(t *testing.T) {
	cfg := config.Config{UptraceEnabled: true, UptraceDSN: "  "}

	shutdown, err := InitUptrace(cfg, nil)
	if err != nil {
		t.Fatalf("init uptrace: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown uptrace: %v", err)
	}
}

func TestInitPyroscope_Disabled(t *testing.T) {
	stop, err := InitPyroscope(config.Config{PyroscopeEnabled: false}, logging.NewNop())
	if err != nil {
		t.Fatalf("init pyroscope: %v", err)
	}
	if err := stop(); err != nil {
		t.Fatalf("stop pyroscope: %v", err)
	}
}

func TestTagCommand_RunsCallback(t *testing.T) {
	ran := false
	TagCommand(context.Background(), "resolve", func(ctx context.Context) {
		if ctx == nil {
			t.Fatalf("expected a context")
		}
		ran = true
	})
	if !ran {
		t.Fatalf("callback was not run")
	}
}

func TestProfileTags(t *testing.T) {
	tags := profileTags(config.Config{
		AppEnv:          config.EnvProd,
		ServiceName:     "fantasy-rankings",
		StorageDriver:   config.StoragePostgres,
		ESPNEnabled:     true,
		MatchMaxWorkers: 4,
	})
	if tags["storage"] != "postgres" || tags["espn"] != "true" || tags["match_worker"] != "4" {
		t.Fatalf("unexpected tags %v", tags)
	}
}
