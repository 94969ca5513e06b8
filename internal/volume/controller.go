package volume

import (
	"errors"
	"fmt"
	"image"
	log "log/slog"
	"sync"
	"sync/atomic"
	"time"

	"gocv.io/x/gocv"

	"github.com/arnav-verma200/jj-voice-assistant/internal/audio"
	"github.com/arnav-verma200/jj-voice-assistant/internal/capture"
	"github.com/arnav-verma200/jj-voice-assistant/internal/detector"
	"github.com/arnav-verma200/jj-voice-assistant/internal/preview"
)

// DefaultStopTimeout bounds how long Stop waits for the worker to
// observe the stop flag and exit.
const DefaultStopTimeout = 2 * time.Second

// DefaultPreviewScale shrinks captured frames for display.
const DefaultPreviewScale = 0.35

var (
	// ErrAlreadyRunning reports a second start while the worker is active.
	ErrAlreadyRunning = errors.New("volume control already running")

	// ErrNotRunning reports a stop with no active worker.
	ErrNotRunning = errors.New("volume control not running")

	// ErrStopped reports a start on a controller whose run has ended.
	// Controllers are single-use, construct a new one to run again.
	ErrStopped = errors.New("volume controller already finished")

	// ErrStopTimeout reports that the worker did not exit within the
	// stop deadline. Resources may still be held by the worker.
	ErrStopTimeout = errors.New("volume worker did not stop in time")
)

// State is the controller lifecycle position.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Update is one frame's outcome, delivered synchronously to the OnUpdate
// tap from the worker.
type Update struct {
	Level       float64   `json:"level"`
	Raw         float64   `json:"raw"`
	PinchDist   float64   `json:"pinch_dist"`
	HandVisible bool      `json:"hand_visible"`
	Frame       int       `json:"frame"`
	Timestamp   time.Time `json:"timestamp"`
}

// Stats summarizes a controller run.
type Stats struct {
	StartedAt  time.Time
	StoppedAt  time.Time
	Frames     int
	HandFrames int
	MinLevel   float64
	MaxLevel   float64
	FinalLevel float64
	Endpoint   string
}

// Options configures a Controller. Camera and Detector are required;
// a nil Endpoint falls back to the visual endpoint and a nil Display
// to the headless one.
type Options struct {
	Camera   capture.Camera
	Detector detector.Detector
	Endpoint audio.Endpoint
	Display  preview.Display

	// Pinch calibration and smoothing, see Mapper.
	MinDist float64
	MaxDist float64
	Alpha   float64

	// PreviewScale shrinks frames for display; pinch distances are
	// measured at the scaled resolution.
	PreviewScale float64

	// OnUpdate, when set, receives every frame outcome. It runs on the
	// worker, so it must not block.
	OnUpdate func(Update)
}

// Controller runs the gesture volume loop on a dedicated worker. Each
// controller runs at most once: Idle, then Running after a successful
// Start, then Stopped for good.
//
// While running, the worker owns the camera, detector and display
// exclusively, and is the only writer to the audio endpoint.
type Controller struct {
	camera   capture.Camera
	detector detector.Detector
	endpoint audio.Endpoint
	display  preview.Display
	mapper   *Mapper
	scale    float64
	onUpdate func(Update)

	state    atomic.Int32
	stopping atomic.Bool
	done     chan struct{}

	mu       sync.Mutex
	snapshot []byte
	stats    Stats
}

// NewController builds an idle controller and seeds the volume level
// from the endpoint's current volume, or 0.5 when it cannot be read.
func NewController(opts Options) *Controller {
	if opts.Endpoint == nil {
		opts.Endpoint = audio.NewVisualEndpoint()
	}
	if opts.Display == nil {
		opts.Display = preview.NewNop()
	}
	scale := opts.PreviewScale
	if scale <= 0 || scale > 1 {
		scale = DefaultPreviewScale
	}

	mapper := NewMapper(opts.MinDist, opts.MaxDist, opts.Alpha)
	level := 0.5
	if current, err := opts.Endpoint.Volume(); err == nil {
		level = current
	}
	mapper.SetLevel(level)

	c := &Controller{
		camera:   opts.Camera,
		detector: opts.Detector,
		endpoint: opts.Endpoint,
		display:  opts.Display,
		mapper:   mapper,
		scale:    scale,
		onUpdate: opts.OnUpdate,
		done:     make(chan struct{}),
	}
	c.stats.MinLevel = level
	c.stats.MaxLevel = level
	c.stats.Endpoint = opts.Endpoint.Name()
	return c
}

// Start opens the camera and launches the worker. It returns once the
// worker is handed off; it does not wait for frames. A failed camera
// open leaves the controller Stopped with no worker started.
func (c *Controller) Start() error {
	if !c.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		if State(c.state.Load()) == StateRunning {
			return ErrAlreadyRunning
		}
		return ErrStopped
	}

	if err := c.camera.Open(); err != nil {
		c.state.Store(int32(StateStopped))
		c.mu.Lock()
		c.stats.StoppedAt = time.Now()
		c.mu.Unlock()
		close(c.done)
		return fmt.Errorf("open camera: %w", err)
	}

	c.mu.Lock()
	c.stats.StartedAt = time.Now()
	c.mu.Unlock()

	go c.run()
	return nil
}

// Stop asks the worker to finish and waits up to timeout for it. The
// worker checks the flag once per frame, so stopping can take up to one
// frame period. Non-positive timeouts use DefaultStopTimeout.
func (c *Controller) Stop(timeout time.Duration) error {
	switch State(c.state.Load()) {
	case StateIdle:
		return ErrNotRunning
	case StateStopped:
		return ErrNotRunning
	}

	if timeout <= 0 {
		timeout = DefaultStopTimeout
	}
	c.stopping.Store(true)

	select {
	case <-c.done:
		return nil
	case <-time.After(timeout):
		return ErrStopTimeout
	}
}

// Done is closed when the worker has exited and resources are released.
// It is also closed when Start fails to open the camera.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// State returns the lifecycle position.
func (c *Controller) State() State {
	return State(c.state.Load())
}

// Level returns the current smoothed volume level.
func (c *Controller) Level() float64 {
	return c.mapper.Level()
}

// Snapshot returns a copy of the most recent annotated preview frame as
// JPEG bytes, or nil before the first frame.
func (c *Controller) Snapshot() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snapshot == nil {
		return nil
	}
	out := make([]byte, len(c.snapshot))
	copy(out, c.snapshot)
	return out
}

// Stats returns a copy of the run statistics so far.
func (c *Controller) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	stats := c.stats
	if stats.StoppedAt.IsZero() {
		stats.FinalLevel = c.mapper.Level()
	}
	return stats
}

func (c *Controller) run() {
	defer c.finish()

	log.Info("volume control started", "endpoint", c.endpoint.Name(), "level", c.mapper.Level())

	for !c.stopping.Load() {
		frame, err := c.camera.ReadFrame()
		if err != nil {
			// Stream end, fatal to this run.
			log.Warn("camera stream ended", "err", err)
			return
		}

		quit := c.processFrame(frame)
		frame.Close()

		if quit {
			log.Info("quit key pressed")
			return
		}
	}
}

// processFrame runs one loop iteration on the captured frame and
// reports whether the user asked to quit.
func (c *Controller) processFrame(frame *gocv.Mat) bool {
	// Mirror so on-screen motion matches the user's, soften for display.
	flipped := gocv.NewMat()
	defer flipped.Close()
	gocv.Flip(*frame, &flipped, 1)

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(flipped, &blurred, image.Pt(5, 5), 0, 0, gocv.BorderDefault)

	// Detection sees the full frame; pinch geometry is measured at the
	// display resolution the calibration was tuned for.
	hands, err := c.detector.Detect(&blurred)
	if err != nil {
		log.Debug("hand detection failed", "err", err)
		hands = nil
	}

	display := gocv.NewMat()
	defer display.Close()
	gocv.Resize(blurred, &display, image.Pt(0, 0), c.scale, c.scale, gocv.InterpolationCubic)

	width, height := display.Cols(), display.Rows()
	drawHeader(&display)

	update := Update{Timestamp: time.Now()}
	if len(hands) > 0 {
		hand := hands[0]
		thumb := hand.PixelPoint(detector.ThumbTip, width, height)
		index := hand.PixelPoint(detector.IndexTip, width, height)
		drawPinch(&display, thumb, index)

		dist := hand.PinchDistance(width, height)
		update.PinchDist = dist
		update.Raw = c.mapper.Raw(dist)
		update.Level = c.mapper.Update(dist)
		update.HandVisible = true

		// Endpoint failures do not interrupt the loop; the smoothed
		// level carries forward and the overlay keeps tracking.
		if err := c.endpoint.SetVolume(update.Level); err != nil {
			log.Debug("set volume failed", "err", err)
		}

		drawVolume(&display, update.Level)
	} else {
		update.Level = c.mapper.Level()
		drawNoHand(&display)
	}
	drawFooter(&display)

	c.record(&display, &update)

	quit, err := c.display.Show(&display)
	if err != nil {
		log.Debug("preview show failed", "err", err)
	}
	return quit
}

// record refreshes the snapshot, accounts the frame, and fans the
// update out to the tap.
func (c *Controller) record(display *gocv.Mat, update *Update) {
	var jpeg []byte
	buf, err := gocv.IMEncode(".jpg", *display)
	if err != nil {
		log.Debug("encode preview failed", "err", err)
	} else {
		jpeg = make([]byte, buf.Len())
		copy(jpeg, buf.GetBytes())
		buf.Close()
	}

	c.mu.Lock()
	c.stats.Frames++
	if update.HandVisible {
		c.stats.HandFrames++
	}
	if update.Level < c.stats.MinLevel {
		c.stats.MinLevel = update.Level
	}
	if update.Level > c.stats.MaxLevel {
		c.stats.MaxLevel = update.Level
	}
	update.Frame = c.stats.Frames
	if jpeg != nil {
		c.snapshot = jpeg
	}
	c.mu.Unlock()

	if c.onUpdate != nil {
		c.onUpdate(*update)
	}
}

// finish releases worker-owned resources and marks the run complete.
func (c *Controller) finish() {
	if err := c.camera.Close(); err != nil {
		log.Warn("close camera", "err", err)
	}
	if err := c.detector.Close(); err != nil {
		log.Warn("close detector", "err", err)
	}
	if err := c.display.Close(); err != nil {
		log.Warn("close display", "err", err)
	}

	c.mu.Lock()
	c.stats.StoppedAt = time.Now()
	c.stats.FinalLevel = c.mapper.Level()
	c.mu.Unlock()

	c.state.Store(int32(StateStopped))
	close(c.done)

	log.Info("volume control stopped", "level", c.mapper.Level())
}
