package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/xlab/closer"

	"voxelworld/internal/config"
	"voxelworld/internal/profiling"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file (falls back to VOXEL_CONFIG)")
		command    = flag.String("cmd", "info", "Command: pregen, mesh, map, info, serve")
		dir        = flag.String("dir", "", "World directory, overrides the config")
		centerX    = flag.Int("x", 0, "Center chunk X")
		centerZ    = flag.Int("z", 0, "Center chunk Z")
		radius     = flag.Int("radius", -1, "Chunk radius, defaults to the configured view radius")
		out        = flag.String("out", "map.png", "Output file for the map command")
		scale      = flag.Int("scale", 2, "Map pixels per column")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *dir != "" {
		cfg.World.Dir = *dir
	}
	if *radius < 0 {
		*radius = cfg.World.ViewRadius
	}

	if err := checkCommand(*command, cfg); err != nil {
		log.Fatalf("%s: %v", *command, err)
	}

	a, err := openApp(cfg)
	if err != nil {
		log.Fatalf("open world: %v", err)
	}
	closer.Bind(a.shutdown)

	if cfg.Metrics.Addr != "" {
		go serveMetrics(cfg.Metrics.Addr)
	}

	start := time.Now()
	switch *command {
	case "pregen":
		err = a.pregen(*centerX, *centerZ, *radius)
	case "mesh":
		err = a.meshStats(*centerX, *centerZ, *radius)
	case "map":
		err = a.renderMap(*centerX, *centerZ, *radius, *out, *scale)
	case "info":
		err = a.info(os.Stdout)
	case "serve":
		if err = a.pregen(*centerX, *centerZ, *radius); err == nil {
			log.Printf("serving metrics on %s, interrupt to stop", cfg.Metrics.Addr)
			closer.Hold()
			return
		}
	default:
		err = fmt.Errorf("unknown command (available: pregen, mesh, map, info, serve)")
	}
	if err != nil {
		closer.Fatalln(fmt.Sprintf("%s failed: %v", *command, err))
	}
	log.Printf("%s done in %s (top: %s)", *command, time.Since(start).Round(time.Millisecond), profiling.TopN(3))
	closer.Close()
}

// checkCommand rejects command and config combinations that cannot do
// anything useful before the world is opened.
func checkCommand(command string, cfg *config.Config) error {
	if command == "serve" && cfg.Metrics.Addr == "" {
		return errors.New("serve needs metrics.addr to be set")
	}
	return nil
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", profiling.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Printf("metrics server: %v", err)
	}
}
