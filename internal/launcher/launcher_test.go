package launcher

import (
	"errors"
	"strings"
	"testing"
)

// fakeRunner records every launch and can fail on demand.
type fakeRunner struct {
	starts   [][]string
	startErr error
	queryErr error
}

func (f *fakeRunner) start(name string, args ...string) error {
	f.starts = append(f.starts, append([]string{name}, args...))
	return f.startErr
}

func (f *fakeRunner) output(name string, args ...string) (string, error) {
	if f.queryErr != nil {
		return "", f.queryErr
	}
	return "URL Protocol    REG_SZ", nil
}

func newTestLauncher(goos string, run *fakeRunner, look func(string) (string, error)) *Launcher {
	if look == nil {
		look = func(string) (string, error) { return "", errors.New("not found") }
	}
	return &Launcher{goos: goos, run: run, look: look}
}

func lastStart(t *testing.T, run *fakeRunner) string {
	t.Helper()
	if len(run.starts) == 0 {
		t.Fatal("no command launched")
	}
	return strings.Join(run.starts[len(run.starts)-1], " ")
}

func TestOpenURL(t *testing.T) {
	tests := []struct {
		goos string
		want string
	}{
		{"darwin", "open https://example.com"},
		{"linux", "xdg-open https://example.com"},
		{"windows", "cmd /c start  https://example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			run := &fakeRunner{}
			l := newTestLauncher(tt.goos, run, nil)
			if err := l.OpenURL("https://example.com"); err != nil {
				t.Fatalf("OpenURL: %v", err)
			}
			if got := lastStart(t, run); got != tt.want {
				t.Errorf("command = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOpenURL_UnsupportedPlatform(t *testing.T) {
	l := newTestLauncher("plan9", &fakeRunner{}, nil)
	if err := l.OpenURL("https://example.com"); err == nil {
		t.Error("expected an error on an unsupported platform")
	}
}

func TestOpenURL_RunnerFailure(t *testing.T) {
	run := &fakeRunner{startErr: errors.New("exec format error")}
	l := newTestLauncher("linux", run, nil)
	if err := l.OpenURL("https://example.com"); err == nil {
		t.Error("expected the launch failure to propagate")
	}
}

func TestOpenApp_Executable(t *testing.T) {
	run := &fakeRunner{}
	look := func(name string) (string, error) {
		if name == "spotify" {
			return "/usr/bin/spotify", nil
		}
		return "", errors.New("not found")
	}
	l := newTestLauncher("linux", run, look)

	if err := l.OpenApp("Spotify"); err != nil {
		t.Fatalf("OpenApp: %v", err)
	}
	if got := lastStart(t, run); got != "/usr/bin/spotify" {
		t.Errorf("command = %q, want %q", got, "/usr/bin/spotify")
	}
}

func TestOpenApp_BrowserWindows(t *testing.T) {
	run := &fakeRunner{queryErr: errors.New("not registered")}
	l := newTestLauncher("windows", run, nil)

	if err := l.OpenApp("chrome"); err != nil {
		t.Fatalf("OpenApp: %v", err)
	}
	if got := lastStart(t, run); got != "cmd /c start chrome" {
		t.Errorf("command = %q, want %q", got, "cmd /c start chrome")
	}
}

func TestOpenApp_BrowserDarwin(t *testing.T) {
	run := &fakeRunner{}
	l := newTestLauncher("darwin", run, nil)

	if err := l.OpenApp("msedge"); err != nil {
		t.Fatalf("OpenApp: %v", err)
	}
	if got := lastStart(t, run); got != "open -a Microsoft Edge" {
		t.Errorf("command = %q, want %q", got, "open -a Microsoft Edge")
	}
}

func TestOpenApp_ProtocolHandler(t *testing.T) {
	run := &fakeRunner{}
	l := newTestLauncher("windows", run, nil)

	if err := l.OpenApp("steam"); err != nil {
		t.Fatalf("OpenApp: %v", err)
	}
	if got := lastStart(t, run); got != "cmd /c start  steam://" {
		t.Errorf("command = %q, want %q", got, "cmd /c start  steam://")
	}
}

func TestOpenApp_NotFound(t *testing.T) {
	run := &fakeRunner{queryErr: errors.New("not registered")}
	l := newTestLauncher("linux", run, nil)

	err := l.OpenApp("definitely-not-installed")
	if !errors.Is(err, ErrAppNotFound) {
		t.Errorf("err = %v, want ErrAppNotFound", err)
	}
}

func TestOpenApp_BrowserLinuxFallsThrough(t *testing.T) {
	// Browsers on Linux launch by binary name, so a missing binary
	// means no match at all.
	run := &fakeRunner{}
	l := newTestLauncher("linux", run, nil)

	if err := l.OpenApp("chrome"); !errors.Is(err, ErrAppNotFound) {
		t.Errorf("err = %v, want ErrAppNotFound", err)
	}
}

func TestHasProtocol(t *testing.T) {
	t.Run("windows registered", func(t *testing.T) {
		l := newTestLauncher("windows", &fakeRunner{}, nil)
		if !l.HasProtocol("steam") {
			t.Error("HasProtocol = false, want true")
		}
	})
	t.Run("windows unregistered", func(t *testing.T) {
		run := &fakeRunner{queryErr: errors.New("not registered")}
		l := newTestLauncher("windows", run, nil)
		if l.HasProtocol("nope") {
			t.Error("HasProtocol = true, want false")
		}
	})
	t.Run("other platforms", func(t *testing.T) {
		l := newTestLauncher("linux", &fakeRunner{}, nil)
		if l.HasProtocol("steam") {
			t.Error("HasProtocol = true on linux, want false")
		}
	})
}
