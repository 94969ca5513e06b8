package audio

import (
	"errors"
	"fmt"
	"math"
	"os/exec"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"sync"
)

var percentRe = regexp.MustCompile(`(\d+)\s*%`)

// ErrVolumeUnknown is returned when the current volume cannot be read
// back from the platform.
var ErrVolumeUnknown = errors.New("current volume unknown")

type commandRunner func(name string, args ...string) (string, error)

func runCommand(name string, args ...string) (string, error) {
	out, err := exec.Command(name, args...).CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(out)))
	}
	return string(out), nil
}

// volumeTool maps a platform to the external binary used to set volume.
func volumeTool(goos string) (string, bool) {
	switch goos {
	case "darwin":
		return "osascript", true
	case "linux":
		return "pactl", true
	case "windows":
		return "nircmd", true
	default:
		return "", false
	}
}

// SystemEndpoint drives the real output volume through the platform's
// command line tool: osascript on macOS, pactl on Linux, nircmd on
// Windows.
type SystemEndpoint struct {
	goos string
	run  commandRunner

	mu      sync.Mutex
	last    float64
	hasLast bool
}

// NewSystemEndpoint probes for the platform volume tool and returns an
// endpoint bound to it. It fails when the tool is not on PATH so callers
// can fall back to the visual endpoint.
func NewSystemEndpoint() (*SystemEndpoint, error) {
	return newSystemEndpoint(runtime.GOOS, runCommand, exec.LookPath)
}

func newSystemEndpoint(goos string, run commandRunner, lookPath func(string) (string, error)) (*SystemEndpoint, error) {
	tool, ok := volumeTool(goos)
	if !ok {
		return nil, fmt.Errorf("no volume control tool for %s", goos)
	}
	if _, err := lookPath(tool); err != nil {
		return nil, fmt.Errorf("%s not found: %w", tool, err)
	}
	return &SystemEndpoint{goos: goos, run: run}, nil
}

// SetVolume applies the level to the system output.
func (e *SystemEndpoint) SetVolume(level float64) error {
	level = clamp01(level)
	percent := int(math.Round(level * 100))

	var err error
	switch e.goos {
	case "darwin":
		script := fmt.Sprintf("set volume output volume %d", percent)
		_, err = e.run("osascript", "-e", script)
	case "linux":
		_, err = e.run("pactl", "set-sink-volume", "@DEFAULT_SINK@", fmt.Sprintf("%d%%", percent))
	case "windows":
		// nircmd takes the volume on a 0-65535 scale.
		_, err = e.run("nircmd", "setsysvolume", strconv.Itoa(int(math.Round(level*65535))))
	default:
		err = fmt.Errorf("no volume control tool for %s", e.goos)
	}
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.last = level
	e.hasLast = true
	e.mu.Unlock()

	return nil
}

// Volume reads the current output volume. On Windows nircmd cannot
// report it, so the last applied level is returned instead.
func (e *SystemEndpoint) Volume() (float64, error) {
	switch e.goos {
	case "darwin":
		out, err := e.run("osascript", "-e", "output volume of (get volume settings)")
		if err != nil {
			return 0, err
		}
		percent, err := strconv.Atoi(strings.TrimSpace(out))
		if err != nil {
			return 0, fmt.Errorf("parse osascript output %q: %w", strings.TrimSpace(out), err)
		}
		return clamp01(float64(percent) / 100), nil
	case "linux":
		out, err := e.run("pactl", "get-sink-volume", "@DEFAULT_SINK@")
		if err != nil {
			return 0, err
		}
		m := percentRe.FindStringSubmatch(out)
		if len(m) < 2 {
			return 0, fmt.Errorf("no volume percentage in pactl output %q", strings.TrimSpace(out))
		}
		percent, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, err
		}
		return clamp01(float64(percent) / 100), nil
	default:
		e.mu.Lock()
		defer e.mu.Unlock()
		if !e.hasLast {
			return 0, ErrVolumeUnknown
		}
		return e.last, nil
	}
}

// Name identifies the backend.
func (e *SystemEndpoint) Name() string {
	return "system"
}
