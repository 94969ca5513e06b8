// Package launcher opens URLs, applications, and protocol handlers
// through the platform's own launch machinery. It never blocks on the
// launched program.
package launcher

import (
	"errors"
	"fmt"
	log "log/slog"
	"os/exec"
	"runtime"
	"strings"
)

// ErrAppNotFound is returned when a name matches no executable, known
// browser, or protocol handler. Callers usually fall back to treating
// the name as a website.
var ErrAppNotFound = errors.New("no application matched")

// browserApps are launchable by name even when the binary is not on
// PATH, matching how users refer to them.
var browserApps = map[string]string{
	"chrome":  "Google Chrome",
	"msedge":  "Microsoft Edge",
	"firefox": "Firefox",
}

// runner abstracts process launching so tests can observe commands.
type runner interface {
	// start launches detached and returns once the process is spawned.
	start(name string, args ...string) error
	// output runs to completion and returns stdout.
	output(name string, args ...string) (string, error)
}

type execRunner struct{}

func (execRunner) start(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	// Reap in the background so launched apps never zombie.
	go cmd.Wait()
	return nil
}

func (execRunner) output(name string, args ...string) (string, error) {
	out, err := exec.Command(name, args...).Output()
	return string(out), err
}

// Launcher opens things for the current platform.
type Launcher struct {
	goos string
	run  runner
	look func(string) (string, error)
}

// New returns a Launcher for the running platform.
func New() *Launcher {
	return &Launcher{
		goos: runtime.GOOS,
		run:  execRunner{},
		look: exec.LookPath,
	}
}

// OpenURL opens the URL in the default browser.
func (l *Launcher) OpenURL(url string) error {
	var err error
	switch l.goos {
	case "darwin":
		err = l.run.start("open", url)
	case "linux":
		err = l.run.start("xdg-open", url)
	case "windows":
		// The empty string is the window title slot, protecting the
		// URL from being consumed as one.
		err = l.run.start("cmd", "/c", "start", "", url)
	default:
		err = fmt.Errorf("no URL opener for %s", l.goos)
	}
	if err != nil {
		return fmt.Errorf("open url %q: %w", url, err)
	}
	log.Debug("opened url", "url", url)
	return nil
}

// OpenApp launches the named application: a PATH executable first, then
// the known browsers, then a registered protocol handler. Returns
// ErrAppNotFound when nothing matches.
func (l *Launcher) OpenApp(name string) error {
	name = strings.TrimSpace(strings.ToLower(name))

	if path, err := l.look(name); err == nil {
		if err := l.run.start(path); err != nil {
			return fmt.Errorf("start %s: %w", name, err)
		}
		log.Debug("started executable", "name", name, "path", path)
		return nil
	}

	if appName, ok := browserApps[name]; ok {
		switch l.goos {
		case "darwin":
			if err := l.run.start("open", "-a", appName); err != nil {
				return fmt.Errorf("open %s: %w", appName, err)
			}
			return nil
		case "windows":
			if err := l.run.start("cmd", "/c", "start", name); err != nil {
				return fmt.Errorf("start %s: %w", name, err)
			}
			return nil
		}
		// On other platforms browsers launch by binary name, which the
		// PATH lookup above already covered.
	}

	if l.HasProtocol(name) {
		return l.OpenURL(name + "://")
	}

	return fmt.Errorf("%q: %w", name, ErrAppNotFound)
}

// HasProtocol reports whether the name is a registered URL protocol.
// Only the Windows registry records these; elsewhere it is always false.
func (l *Launcher) HasProtocol(name string) bool {
	if l.goos != "windows" {
		return false
	}
	_, err := l.run.output("reg", "query", `HKCR\`+name, "/v", "URL Protocol")
	return err == nil
}
