package notify

import (
	log "log/slog"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/generators"
	"github.com/faiface/beep/speaker"
)

const (
	chimeRate     = beep.SampleRate(44100)
	chimeFreq     = 880
	chimeDuration = 150 * time.Millisecond
)

var (
	speakerOnce sync.Once
	speakerErr  error
)

// Chime plays a short ready tone and blocks until it finishes. Audio
// device failures are logged and otherwise ignored.
func Chime() {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(chimeRate, chimeRate.N(time.Second/10))
	})
	if speakerErr != nil {
		log.Debug("chime speaker init failed", "err", speakerErr)
		return
	}

	tone, err := generators.SinTone(chimeRate, chimeFreq)
	if err != nil {
		log.Debug("chime tone failed", "err", err)
		return
	}

	done := make(chan bool)
	speaker.Play(beep.Seq(beep.Take(chimeRate.N(chimeDuration), tone), beep.Callback(func() {
		done <- true
	})))
	<-done
}
