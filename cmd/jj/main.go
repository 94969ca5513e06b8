package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	"github.com/lmittmann/tint"
	log "log/slog"

	"github.com/arnav-verma200/jj-voice-assistant/internal/assistant"
	"github.com/arnav-verma200/jj-voice-assistant/internal/config"
	"github.com/arnav-verma200/jj-voice-assistant/internal/launcher"
	"github.com/arnav-verma200/jj-voice-assistant/internal/notify"
	"github.com/arnav-verma200/jj-voice-assistant/internal/preview"
	"github.com/arnav-verma200/jj-voice-assistant/internal/server"
	"github.com/arnav-verma200/jj-voice-assistant/internal/store"
	"github.com/arnav-verma200/jj-voice-assistant/internal/tray"
	"github.com/arnav-verma200/jj-voice-assistant/internal/tts"
	"github.com/arnav-verma200/jj-voice-assistant/internal/volume"
)

var logLevelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

const speechSettingKey = "speech_enabled"

func main() {
	configPath := cli.StringP("config", "c", "jj.yaml", "Config file path")
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	addr := cli.StringP("addr", "a", "", "Dashboard listen address (overrides config)")
	logLevel := cli.StringP("log", "l", "info", "Log level")
	headless := cli.Bool("headless", false, "Run without the camera preview window")
	noTray := cli.Bool("no-tray", false, "Run without the system tray")
	cli.Parse()

	log.SetDefault(log.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level: logLevelMap[*logLevel],
	})))

	fmt.Println("JJ - Voice Assistant")

	godotenv.Load(*envFile)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("Failed to load config", "path", *configPath, "err", err)
		os.Exit(1)
	}

	// Initialize the store
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Error("Failed to get home directory", "err", err)
		os.Exit(1)
	}

	dataDir := filepath.Join(homeDir, ".jj")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Error("Failed to create data directory", "dir", dataDir, "err", err)
		os.Exit(1)
	}

	st, err := store.New(filepath.Join(dataDir, "jj.db"))
	if err != nil {
		log.Error("Failed to initialize store", "err", err)
		os.Exit(1)
	}
	defer st.Close()

	// Spoken feedback, restoring the persisted mute state
	speechOn := st.Settings().GetBool(speechSettingKey, cfg.Speech.Enabled)
	speaker := tts.NewToggle(tts.NewSpeaker(true), speechOn)

	feed := server.NewVolumeFeed()

	var tr *tray.Tray
	if !*noTray {
		tr = tray.New()
	}

	assistantCfg := assistant.Config{
		Settings: cfg,
		Store:    st,
		Speaker:  speaker,
		Notifier: notify.New(true),
		OnUpdate: func(u volume.Update) {
			feed.Broadcast(u)
			if tr != nil && u.Frame%15 == 0 {
				tr.SetLevel(u.Level)
			}
		},
		OnCommand: func(res assistant.Result) {
			if tr != nil {
				tr.SetLastCommand(res.Text)
			}
		},
	}
	if *headless {
		assistantCfg.NewDisplay = func() preview.Display { return preview.NewNop() }
	}
	a := assistant.New(assistantCfg)
	defer a.Close()

	// Find web directory
	webDir := findWebDir()
	if webDir != "" {
		log.Info("Serving static files", "dir", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		Assistant: a,
		Feed:      feed,
	})

	listenAddr := cfg.Server.Addr
	if *addr != "" {
		listenAddr = *addr
	}

	go func() {
		log.Info("Dashboard listening", "addr", listenAddr)
		if err := srv.ListenAndServe(listenAddr); err != nil {
			log.Error("Dashboard server failed", "err", err)
		}
	}()

	// Shutdown fan-in: signal, tray quit and the stdin loop all funnel
	// through here
	quit := make(chan struct{})
	var quitOnce sync.Once
	requestShutdown := func() { quitOnce.Do(func() { close(quit) }) }

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		requestShutdown()
	}()

	go commandLoop(a, requestShutdown)

	fmt.Println("Type commands like 'open youtube', 'search cats' or 'start volume control'. 'quit' exits.")

	if tr != nil {
		runWithTray(tr, a, st, speaker, dashboardURL(listenAddr), quit, requestShutdown)
	} else {
		<-quit
	}

	log.Info("Shutting down")
}

// commandLoop dispatches stdin lines as assistant commands.
func commandLoop(a *assistant.Assistant, requestShutdown func()) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			requestShutdown()
			return
		}

		res, err := a.Dispatch(context.Background(), line)
		if err != nil {
			log.Warn("Command failed", "text", line, "err", err)
			continue
		}
		log.Info("Command done", "action", res.Action, "argument", res.Argument)
	}
}

// runWithTray wires the tray menu to the assistant and blocks inside
// the systray loop, which must own the main goroutine.
func runWithTray(tr *tray.Tray, a *assistant.Assistant, st *store.Store, speaker *tts.Toggle, dashboard string, quit <-chan struct{}, requestShutdown func()) {
	open := launcher.New()

	tr.SetSpeech(speaker.Enabled())

	tr.OnVolumeToggle(func(start bool) {
		if start {
			if err := a.StartVolumeControl(); err != nil && !errors.Is(err, volume.ErrAlreadyRunning) {
				log.Warn("Volume control failed to start", "err", err)
				return
			}
			tr.SetRunning(true)
			return
		}
		if err := a.StopVolumeControl(); err != nil && !errors.Is(err, volume.ErrNotRunning) && !errors.Is(err, volume.ErrStopTimeout) {
			log.Warn("Volume control failed to stop", "err", err)
		}
		tr.SetRunning(false)
	})

	tr.OnSpeechToggle(func(enabled bool) {
		speaker.SetEnabled(enabled)
		if err := st.Settings().SetBool(speechSettingKey, enabled); err != nil {
			log.Warn("Failed to persist speech setting", "err", err)
		}
	})

	tr.OnDashboard(func() {
		if err := open.OpenURL(dashboard); err != nil {
			log.Warn("Failed to open dashboard", "url", dashboard, "err", err)
		}
	})

	tr.OnQuit(requestShutdown)

	// Runs can start and stop through the HTTP API or voice commands,
	// so keep the menu in sync
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-quit:
				tr.Quit()
				return
			case <-ticker.C:
				tr.SetRunning(a.VolumeState() == volume.StateRunning)
			}
		}
	}()

	tr.Run()
	requestShutdown()
}

// dashboardURL turns a listen address into something a browser opens.
func dashboardURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.jj/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	// Check relative paths from current working directory
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".jj", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
