package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"lemterrain/internal/core"
	"lemterrain/internal/render"
	"lemterrain/internal/store"
	"lemterrain/internal/surface"
	"lemterrain/internal/terrain"
)

type kvList []string

func (l *kvList) String() string {
	return strings.Join(*l, ",")
}

func (l *kvList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("terrain-gen", flag.ContinueOnError)
	configPath := fs.String("config", "", "terrain TOML config (defaults when empty)")
	savePath := fs.String("save", "", "write the effective config to this TOML file")
	out := fs.String("out", "", "write a PNG preview to this path")
	cacheDir := fs.String("cache", "", "LevelDB surface cache directory")
	width := fs.Int("width", 740, "preview width in pixels")
	height := fs.Int("height", 401, "preview height in pixels")
	verbose := fs.Bool("v", false, "log generation steps")
	var overrides kvList
	fs.Var(&overrides, "set", "config override in key=value form (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg := terrain.DefaultConfig()
	if *configPath != "" {
		loaded, err := terrain.LoadConfig(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	for _, kv := range overrides {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("override %q is not key=value", kv)
		}
		if err := cfg.Set(key, value); err != nil {
			return err
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if *savePath != "" {
		if err := terrain.SaveConfig(*savePath, cfg); err != nil {
			return err
		}
	}

	bounds := terrain.DefaultBounds()
	key := cfg.Fingerprint(bounds, bounds.Range())

	var cache *store.Store
	if *cacheDir != "" {
		st, err := store.Open(*cacheDir)
		if err != nil {
			return err
		}
		defer st.Close()
		cache = st
	}

	start := time.Now()
	surf, res, err := load(cache, key, cfg, bounds, logger)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	printParams(stdout, cfg)
	lo, hi := surf.Range()
	fmt.Fprintf(stdout, "\nSurface %s (%s)\n", surf.ID(), key)
	fmt.Fprintf(stdout, "  sites=%d triangles=%d boundary=%d\n", surf.Len(), len(surf.Mesh().Triangles()), len(surf.Mesh().Boundary()))
	fmt.Fprintf(stdout, "  elevation min=%.3f max=%.3f centre=%.3f\n", lo, hi, surf.ElevationAt(0, 0))
	if res != nil {
		fmt.Fprintf(stdout, "  land=%d (%.1f%%) outlets=%d\n", res.LandCount(), 100*float64(res.LandCount())/float64(surf.Len()), res.OutletCount())
	} else {
		fmt.Fprintln(stdout, "  loaded from cache")
	}
	fmt.Fprintf(stdout, "  elapsed %s\n", elapsed.Round(time.Millisecond))

	if *out != "" {
		grid := render.Rasterize(surf, core.Size{W: *width, H: *height}, bounds)
		if err := render.WritePNG(*out, render.Image(grid, render.DefaultPalette)); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Wrote %s\n", *out)
	}
	return nil
}

// load returns the cached surface for key, or generates and caches it. The
// generation result is nil on a cache hit.
func load(cache *store.Store, key string, cfg terrain.Config, bounds core.Bounds, logger *slog.Logger) (*surface.Surface, *terrain.Result, error) {
	if cache != nil {
		surf, ok, err := cache.Get(key)
		if err != nil {
			logger.Warn("ignoring unreadable cache entry", "key", key, "err", err)
		}
		if ok {
			return surf, nil, nil
		}
	}
	res, err := terrain.Generator{Log: logger}.Run(cfg, bounds, bounds.Range())
	if err != nil {
		return nil, nil, err
	}
	if cache != nil {
		if err := cache.Put(key, res.Surface); err != nil {
			return nil, nil, err
		}
	}
	return res.Surface, res, nil
}

func printParams(w io.Writer, cfg terrain.Config) {
	fmt.Fprintln(w, "Parameters:")
	for _, group := range cfg.Parameters().Groups {
		for _, p := range group.Params {
			fmt.Fprintf(w, "  %s=%s\n", p.Key, p.Value)
		}
	}
}
