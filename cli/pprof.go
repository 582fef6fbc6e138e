package cli

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/stitchtext/stitch/log"
	"github.com/stitchtext/stitch/profile"
)

// pprofConfig exposes the profiling flags. An empty mode leaves profiling
// off; any other mode writes a profile of that kind under Dir when the
// program exits.
type pprofConfig struct {
	Mode string `default:""            enum:",${pprofModeEnum}" help:"Write a profile of the given kind on exit" placeholder:"${enum}"`
	Dir  string `default:"${pprofDir}"                          help:"Directory profiles are written to"         type:"path"`
}

func (pprofConfig) vars() kong.Vars {
	return kong.Vars{
		"pprofModeEnum": strings.Join(profile.Modes(), ","),
		"pprofDir":      filepath.Join(cacheDir(), profile.Tag),
	}
}

func (pprofConfig) group() kong.Group {
	return kong.Group{Key: "pprof", Title: "Profiling options"}
}

// start begins profiling when a mode was selected. The returned stop
// function is always safe to call.
func (c pprofConfig) start(ctx context.Context) (stop func()) {
	if c.Mode == "" {
		return func() {}
	}

	cfg := profile.Config(func() (string, string, bool) {
		return "", "", false
	})

	for _, opt := range []func(profile.Config) profile.Config{
		profile.WithMode(c.Mode),
		profile.WithPath(c.Dir),
		profile.WithQuiet(true),
	} {
		cfg = opt(cfg)
	}

	profiler := cfg.Start()

	log.DebugContext(ctx, "profiler started",
		slog.String("mode", c.Mode),
		slog.String("dir", c.Dir),
	)

	return func() {
		profiler.Stop()

		log.DebugContext(ctx, "profiler stopped",
			slog.String("mode", c.Mode),
		)
	}
}
