// Package assistant executes voice-style commands: gesture volume
// control, opening apps and websites, and web search.
package assistant

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/arnav-verma200/jj-voice-assistant/internal/audio"
	"github.com/arnav-verma200/jj-voice-assistant/internal/capture"
	"github.com/arnav-verma200/jj-voice-assistant/internal/config"
	"github.com/arnav-verma200/jj-voice-assistant/internal/detector"
	"github.com/arnav-verma200/jj-voice-assistant/internal/launcher"
	"github.com/arnav-verma200/jj-voice-assistant/internal/notify"
	"github.com/arnav-verma200/jj-voice-assistant/internal/preview"
	"github.com/arnav-verma200/jj-voice-assistant/internal/resolver"
	"github.com/arnav-verma200/jj-voice-assistant/internal/store"
	"github.com/arnav-verma200/jj-voice-assistant/internal/tts"
	"github.com/arnav-verma200/jj-voice-assistant/internal/volume"
)

// Opener launches applications and URLs, see the launcher package.
type Opener interface {
	OpenApp(name string) error
	OpenURL(url string) error
}

// Config wires an Assistant. Nil optional fields fall back to real
// implementations: the webcam, the MediaPipe service (or the mock
// detector when it is unavailable), an on-screen preview window, and
// the system audio endpoint.
type Config struct {
	Settings *config.Config
	Store    *store.Store
	Resolver *resolver.Resolver
	Launcher Opener
	Speaker  tts.Speaker
	Notifier *notify.Notifier
	Endpoint audio.Endpoint

	// NewCamera, NewDetector and NewDisplay build fresh capture and
	// preview instances for each volume control run.
	NewCamera   func() capture.Camera
	NewDetector func() detector.Detector
	NewDisplay  func() preview.Display

	// OnUpdate receives every volume frame outcome. It runs on the
	// volume worker, so it must not block.
	OnUpdate func(volume.Update)

	// OnCommand receives every dispatched command result, after it has
	// been recorded.
	OnCommand func(Result)
}

// Assistant dispatches commands and owns the lifecycle of the gesture
// volume controller. A fresh controller is built for every run since
// controllers are single-use.
type Assistant struct {
	cfg      *config.Config
	store    *store.Store
	resolver *resolver.Resolver
	launcher Opener
	speaker  tts.Speaker
	notifier *notify.Notifier
	endpoint audio.Endpoint

	newCamera   func() capture.Camera
	newDetector func() detector.Detector
	newDisplay  func() preview.Display
	onUpdate    func(volume.Update)
	onCommand   func(Result)

	mu         sync.Mutex
	controller *volume.Controller
}

// New creates an Assistant from the given wiring.
func New(c Config) *Assistant {
	if c.Settings == nil {
		c.Settings = config.Default()
	}
	if c.Launcher == nil {
		c.Launcher = launcher.New()
	}
	if c.Speaker == nil {
		c.Speaker = tts.NewSpeaker(c.Settings.Speech.Enabled)
	}
	if c.Notifier == nil {
		c.Notifier = notify.New(true)
	}
	if c.Endpoint == nil {
		c.Endpoint = audio.NewEndpoint()
	}
	if c.Resolver == nil {
		c.Resolver = resolver.New(c.Settings.APIKey, c.Settings.LLM.BaseURL, c.Settings.LLM.Model, c.Settings.LLMTimeout())
	}

	a := &Assistant{
		cfg:         c.Settings,
		store:       c.Store,
		resolver:    c.Resolver,
		launcher:    c.Launcher,
		speaker:     c.Speaker,
		notifier:    c.Notifier,
		endpoint:    c.Endpoint,
		newCamera:   c.NewCamera,
		newDetector: c.NewDetector,
		newDisplay:  c.NewDisplay,
		onUpdate:    c.OnUpdate,
		onCommand:   c.OnCommand,
	}

	if a.newCamera == nil {
		a.newCamera = func() capture.Camera {
			return capture.NewCamera(a.cfg.Camera.DeviceID, a.cfg.Camera.Width, a.cfg.Camera.Height)
		}
	}
	if a.newDetector == nil {
		a.newDetector = func() detector.Detector {
			dc := detector.Config{
				MaxHands:        1,
				MinConfidence:   a.cfg.Gesture.DetectionConf,
				MinTrackingConf: a.cfg.Gesture.TrackingConf,
			}
			// Try MediaPipe first, fall back to the mock detector so
			// the rest of the assistant still works.
			mp, err := detector.NewMediaPipeDetector(dc)
			if err != nil {
				log.Warn("mediapipe not available, hand detection disabled", "err", err)
				return detector.NewMockDetector()
			}
			return mp
		}
	}
	if a.newDisplay == nil {
		a.newDisplay = func() preview.Display { return preview.NewWindow() }
	}

	return a
}

// StartVolumeControl builds a fresh controller and starts the gesture
// loop. Returns volume.ErrAlreadyRunning when a run is active.
func (a *Assistant) StartVolumeControl() error {
	a.mu.Lock()
	if a.controller != nil && a.controller.State() == volume.StateRunning {
		a.mu.Unlock()
		a.say("Volume control is already running")
		return volume.ErrAlreadyRunning
	}

	ctrl := volume.NewController(volume.Options{
		Camera:       a.newCamera(),
		Detector:     a.newDetector(),
		Endpoint:     a.endpoint,
		Display:      a.newDisplay(),
		MinDist:      a.cfg.Gesture.MinDist,
		MaxDist:      a.cfg.Gesture.MaxDist,
		Alpha:        a.cfg.Gesture.Smoothing,
		PreviewScale: a.cfg.Gesture.PreviewScale,
		OnUpdate:     a.onUpdate,
	})

	if err := ctrl.Start(); err != nil {
		a.mu.Unlock()
		a.say("Failed to initialize volume control")
		a.notifier.Error("Volume control failed to start")
		return err
	}
	a.controller = ctrl
	a.mu.Unlock()

	a.say("Starting volume control")
	a.notifier.VolumeStarted()
	go a.watch(ctrl)
	return nil
}

// StopVolumeControl asks the active run to finish and waits for it.
// Returns volume.ErrNotRunning when there is nothing to stop.
func (a *Assistant) StopVolumeControl() error {
	a.mu.Lock()
	ctrl := a.controller
	a.mu.Unlock()

	if ctrl == nil || ctrl.State() != volume.StateRunning {
		a.say("Volume control is not running")
		return volume.ErrNotRunning
	}

	a.say("Stopping volume control")
	if err := ctrl.Stop(volume.DefaultStopTimeout); err != nil {
		if errors.Is(err, volume.ErrStopTimeout) {
			// The worker will still release everything when it exits.
			log.Warn("volume worker is taking long to stop")
		}
		return err
	}
	return nil
}

// watch waits for the run to end, then records the session and
// announces the final level.
func (a *Assistant) watch(ctrl *volume.Controller) {
	<-ctrl.Done()
	stats := ctrl.Stats()
	a.notifier.VolumeStopped(stats.FinalLevel)

	if a.store == nil {
		return
	}
	sess := &store.Session{
		ID:         uuid.NewString(),
		StartedAt:  stats.StartedAt,
		StoppedAt:  stats.StoppedAt,
		Frames:     stats.Frames,
		HandFrames: stats.HandFrames,
		MinLevel:   stats.MinLevel,
		MaxLevel:   stats.MaxLevel,
		FinalLevel: stats.FinalLevel,
		Endpoint:   stats.Endpoint,
	}
	if err := a.store.Sessions().Create(sess); err != nil {
		log.Warn("record volume session", "err", err)
	}
}

// VolumeState reports the lifecycle position of the latest run, or
// StateIdle when no run has been started yet.
func (a *Assistant) VolumeState() volume.State {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.controller == nil {
		return volume.StateIdle
	}
	return a.controller.State()
}

// VolumeLevel returns the smoothed level of the latest run, or 0 when
// no run has been started.
func (a *Assistant) VolumeLevel() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.controller == nil {
		return 0
	}
	return a.controller.Level()
}

// VolumeStats returns the statistics of the latest run.
func (a *Assistant) VolumeStats() (volume.Stats, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.controller == nil {
		return volume.Stats{}, false
	}
	return a.controller.Stats(), true
}

// VolumeSnapshot returns the latest annotated preview frame as JPEG
// bytes, or nil when no run has produced one.
func (a *Assistant) VolumeSnapshot() []byte {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.controller == nil {
		return nil
	}
	return a.controller.Snapshot()
}

// Open launches the named application or website. Executables and
// browsers win over websites; unknown names are resolved to a URL.
func (a *Assistant) Open(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("nothing to open")
	}

	err := a.launcher.OpenApp(name)
	if err == nil {
		a.say("Opened " + name)
		a.notifier.Opened(name)
		return nil
	}
	if !errors.Is(err, launcher.ErrAppNotFound) {
		a.say("Error opening " + name)
		return err
	}

	url := a.websiteURL(ctx, name)
	if err := a.launcher.OpenURL(url); err != nil {
		a.say("Error opening " + name)
		return err
	}
	log.Info("opened website", "name", name, "url", url)
	a.say("Opened " + name)
	a.notifier.Opened(name)
	return nil
}

// websiteURL maps a spoken name to the URL to open. A couple of sites
// are routed directly because their spoken names never resolve well.
func (a *Assistant) websiteURL(ctx context.Context, name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "youtube"):
		return "https://www.youtube.com"
	case strings.Contains(lower, "whatsapp"):
		return "https://web.whatsapp.com"
	}
	return a.resolver.Resolve(ctx, name)
}

// Search opens a web search for the query in the default browser.
func (a *Assistant) Search(query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return errors.New("nothing to search for")
	}

	if err := a.launcher.OpenURL(searchURL(query)); err != nil {
		a.say("Error during search")
		return err
	}
	a.say("Searching for " + query)
	return nil
}

// say voices a confirmation without blocking the caller.
func (a *Assistant) say(text string) {
	go func() {
		if err := a.speaker.Say(text); err != nil {
			log.Debug("speech failed", "err", err)
		}
	}()
}

// Close stops any active volume run.
func (a *Assistant) Close() error {
	a.mu.Lock()
	ctrl := a.controller
	a.mu.Unlock()

	if ctrl == nil || ctrl.State() != volume.StateRunning {
		return nil
	}
	if err := ctrl.Stop(volume.DefaultStopTimeout); err != nil {
		return fmt.Errorf("stop volume control: %w", err)
	}
	return nil
}
