package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/Fresh4774/aquin-offline-arcade/internal/audio"
	"github.com/Fresh4774/aquin-offline-arcade/internal/config"
	"github.com/Fresh4774/aquin-offline-arcade/internal/game"
	"github.com/Fresh4774/aquin-offline-arcade/internal/gpu"
	"github.com/Fresh4774/aquin-offline-arcade/internal/rng"
	"github.com/Fresh4774/aquin-offline-arcade/internal/server"
	"github.com/Fresh4774/aquin-offline-arcade/internal/store"
	"github.com/Fresh4774/aquin-offline-arcade/internal/term"
)

const (
	reapEvery   = time.Minute
	maxIdle     = 10 * time.Minute
	flushEvery  = 5 * time.Second
	windowTitle = "Aquin Offline Arcade"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run returns the process exit status once every deferred cleanup has run
func run(args []string) int {
	flags := flag.NewFlagSet("arcade", flag.ContinueOnError)
	mode := flags.String("mode", "gpu", "Frontend: gpu, term or serve")
	addr := flags.String("addr", ":8080", "HTTP listen address (serve)")
	clientDir := flags.String("client", "", "Path to browser client directory (serve)")
	envFile := flags.String("env", ".env", "Optional dotenv file with ARCADE_* overrides")
	seed := flags.Uint("seed", 0, "World seed (0: derive from the clock)")
	dbPath := flags.String("db", "", "SQLite file for recording runs (empty disables)")
	pass := flags.String("pass", "", "Pass phrase required to create sessions (serve)")
	volume := flags.Float64("sound", 0.5, "Sound volume 0..1 (0 disables)")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Printf("config: %v", err)
		return 1
	}
	switch {
	case *seed != 0:
		cfg.World.Seed = uint32(*seed)
	case os.Getenv(config.EnvPrefix+"SEED") == "":
		cfg.World.Seed = uint32(time.Now().UnixNano())
	}

	var db *store.DB
	var recorder *store.Recorder
	if *dbPath != "" {
		db, err = store.OpenDB(*dbPath)
		if err != nil {
			log.Printf("store: %v", err)
			return 1
		}
		defer db.Close()
		recorder = store.NewRecorder(db, flushEvery)
		defer recorder.Stop()
	}

	switch *mode {
	case "serve":
		if err := serve(cfg, db, recorder, *addr, *clientDir, *pass); err != nil {
			log.Printf("serve: %v", err)
			return 1
		}
	case "gpu", "term":
		if err := play(*mode, cfg, recorder, *volume); err != nil {
			log.Printf("%s: %v", *mode, err)
			return 1
		}
	default:
		log.Printf("unknown mode %q", *mode)
		return 2
	}
	return 0
}

// play runs one local World with a window or terminal frontend
func play(mode string, cfg config.Config, recorder *store.Recorder, volume float64) error {
	in := &game.InputState{}
	world := game.NewWorld(cfg, rng.New(cfg.World.Seed), in)
	log.Printf("world seed %d", cfg.World.Seed)

	if volume > 0 {
		sounds := audio.New(volume)
		if err := sounds.Init(); err != nil {
			log.Printf("audio: %v", err)
		} else {
			defer sounds.Close()
			world.Subscribe(sounds)
		}
	}
	if recorder != nil {
		world.Subscribe(recorder.Watch(uuid.NewString(), world))
	}

	if mode == "term" {
		screen, err := term.OpenScreen()
		if err != nil {
			return err
		}
		t := term.New(screen, world, in, term.DefaultOptions())
		defer t.Close()
		return t.Run()
	}
	return gpu.New(world, in).Run(windowTitle)
}

// serve hosts sessions for browser clients until SIGINT or SIGTERM
func serve(cfg config.Config, db *store.DB, recorder *store.Recorder, addr, clientDir, pass string) error {
	var settings server.SettingStore
	var runs server.RunLister
	if db != nil {
		settings, runs = db, db
	}
	auth, err := server.NewAuth(pass, settings)
	if err != nil {
		return fmt.Errorf("auth: %w", err)
	}

	sessions := server.NewSessionManager(cfg, recorder)
	defer sessions.Close()
	hub := server.NewHub(sessions, auth, runs)
	go hub.Run()

	reaperStop := make(chan struct{})
	defer close(reaperStop)
	go sessions.RunReaper(reapEvery, maxIdle, reaperStop)

	mux := server.SetupRoutes(hub, clientDir)

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		log.Printf("Server starting on %s", addr)
		if clientDir != "" {
			log.Printf("Serving client files from %s", clientDir)
		}
		if auth.Guarded() {
			log.Println("Session creation requires a pass phrase")
		}
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down...")
	return srv.Close()
}
