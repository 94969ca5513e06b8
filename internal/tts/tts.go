// Package tts speaks short confirmations through the platform speech
// engine. Speech is best effort; a missing engine degrades to silence.
package tts

import (
	"fmt"
	log "log/slog"
	"os/exec"
	"runtime"
	"strings"
)

// speechRate is the speaking speed in words per minute.
const speechRate = "174"

// Speaker voices a phrase and returns when playback finishes.
type Speaker interface {
	Say(text string) error
}

// NewSpeaker returns the platform speech engine, or a silent speaker
// when speech is disabled or no engine is installed.
func NewSpeaker(enabled bool) Speaker {
	if !enabled {
		return &MockSpeaker{}
	}
	s, err := newSystemSpeaker(runtime.GOOS, runCommand, exec.LookPath)
	if err != nil {
		log.Warn("no speech engine available, staying silent", "err", err)
		return &MockSpeaker{}
	}
	return s
}

type commandRunner func(name string, args ...string) error

func runCommand(name string, args ...string) error {
	out, err := exec.Command(name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// speechTool names the engine binary for the platform.
func speechTool(goos string) string {
	switch goos {
	case "darwin":
		return "say"
	case "linux":
		return "espeak"
	case "windows":
		return "powershell"
	default:
		return ""
	}
}

// SystemSpeaker shells out to the platform speech engine.
type SystemSpeaker struct {
	goos string
	run  commandRunner
}

func newSystemSpeaker(goos string, run commandRunner, look func(string) (string, error)) (*SystemSpeaker, error) {
	tool := speechTool(goos)
	if tool == "" {
		return nil, fmt.Errorf("no speech engine for %s", goos)
	}
	if _, err := look(tool); err != nil {
		return nil, fmt.Errorf("%s not found: %w", tool, err)
	}
	return &SystemSpeaker{goos: goos, run: run}, nil
}

// Say speaks the text, blocking until done. Empty text is a no-op.
func (s *SystemSpeaker) Say(text string) error {
	if text == "" {
		return nil
	}
	switch s.goos {
	case "darwin":
		return s.run("say", "-r", speechRate, text)
	case "linux":
		return s.run("espeak", "-s", speechRate, text)
	case "windows":
		script := fmt.Sprintf(
			"Add-Type -AssemblyName System.Speech; (New-Object System.Speech.Synthesis.SpeechSynthesizer).Speak('%s')",
			strings.ReplaceAll(text, "'", "''"))
		return s.run("powershell", "-NoProfile", "-Command", script)
	default:
		return fmt.Errorf("no speech engine for %s", s.goos)
	}
}
