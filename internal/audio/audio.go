// Package audio plays a sand path on the two channels of the sound card
// so an oscilloscope in XY mode redraws the figure: left carries x, right
// carries y.
package audio

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"
	"go.uber.org/zap"

	"github.com/san-kum/sandpend/internal/dynamo"
	"github.com/san-kum/sandpend/internal/physics"
)

const (
	SampleRate = 44100
	BufferSize = 1024

	// DefaultSpeed maps a 1.6 Hz pendulum to about 160 Hz.
	DefaultSpeed = 100.0

	volume = 0.8
	// fade is the attack and release time in seconds.
	fade = 0.02
	// cutoff of the one-pole smoothing filter in Hz.
	cutoff = 8000.0
)

// Synth renders a Path as stereo samples. Simulated time runs Speed times
// faster than real time and wraps at the end of the path.
type Synth struct {
	tr      physics.Trajectory
	speed   float64
	loop    float64 // simulated seconds before wrapping
	gain    float64
	filter  [2]float64
	t       float64 // simulated time
	elapsed float64 // real time, for the envelope
	release float64 // real time the fade-out started, or -1
}

// NewSynth prepares path for playback at speed times real time.
func NewSynth(path *physics.Path, speed float64) (*Synth, error) {
	if !(speed > 0) || math.IsInf(speed, 0) {
		return nil, dynamo.NewDomainError("speed", speed, "must be positive and finite")
	}
	if path.Len() == 0 {
		return nil, fmt.Errorf("audio: empty path")
	}

	ext := path.Trajectory().Extent()
	gain := 0.0
	if m := math.Max(ext.X, ext.Y); m > 0 {
		gain = volume / m
	}

	return &Synth{
		tr:      path.Trajectory(),
		speed:   speed,
		loop:    float64(path.Len()) * path.Step(),
		gain:    gain,
		release: -1,
	}, nil
}

// Release starts the fade-out.
func (s *Synth) Release() {
	if s.release < 0 {
		s.release = s.elapsed
	}
}

// Done reports whether the fade-out has finished.
func (s *Synth) Done() bool {
	return s.release >= 0 && s.elapsed-s.release >= fade
}

func (s *Synth) envelope() float64 {
	env := math.Min(s.elapsed/fade, 1)
	if s.release >= 0 {
		env = math.Min(env, math.Max(1-(s.elapsed-s.release)/fade, 0))
	}
	return env
}

// Fill writes len(out[0]) frames into the left and right channels.
func (s *Synth) Fill(out [][]float32) {
	dt := 1.0 / SampleRate
	for i := range out[0] {
		p, err := s.tr.At(s.t)
		if err != nil {
			p = physics.Point{}
		}

		env := s.envelope() * s.gain
		s.filter[0] = lpf(p.X*env, cutoff, dt, s.filter[0])
		s.filter[1] = lpf(p.Y*env, cutoff, dt, s.filter[1])
		out[0][i] = float32(s.filter[0])
		out[1][i] = float32(s.filter[1])

		s.elapsed += dt
		s.t += dt * s.speed
		if s.t >= s.loop {
			s.t = math.Mod(s.t, s.loop)
		}
	}
}

// Render returns n frames per channel.
func (s *Synth) Render(n int) [][]float32 {
	out := [][]float32{make([]float32, n), make([]float32, n)}
	s.Fill(out)
	return out
}

// Frequencies are the x and y tones heard at the synth's speed, in Hz.
func (s *Synth) Frequencies() (fx, fy float64) {
	return s.speed / s.tr.X.Period(), s.speed / s.tr.Y.Period()
}

// lpf is a one-pole low pass filter.
func lpf(sample, cutoff, dt, state float64) float64 {
	rc := 1.0 / (2.0 * math.Pi * cutoff)
	alpha := dt / (rc + dt)
	return state + alpha*(sample-state)
}

// Player streams a Synth to the default output device.
type Player struct {
	mu     sync.Mutex
	stream *portaudio.Stream
	synth  *Synth
	logger *zap.Logger

	Active bool
}

func NewPlayer(logger *zap.Logger) *Player {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Player{logger: logger.Named("audio")}
}

// Start opens an output-only stereo stream.
func (p *Player) Start() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("audio: %w", err)
	}
	stream, err := portaudio.OpenDefaultStream(0, 2, SampleRate, BufferSize, p.process)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("audio: open stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("audio: start stream: %w", err)
	}

	p.stream = stream
	p.Active = true
	p.logger.Debug("stream started", zap.Int("sample_rate", SampleRate), zap.Int("buffer", BufferSize))
	return nil
}

func (p *Player) Stop() {
	if p.stream != nil {
		p.stream.Stop()
		p.stream.Close()
		p.stream = nil
	}
	if p.Active {
		portaudio.Terminate()
	}
	p.Active = false
}

// Play replaces the current synth. A nil synth silences the output.
func (p *Player) Play(s *Synth) {
	p.mu.Lock()
	p.synth = s
	p.mu.Unlock()
	if s != nil {
		fx, fy := s.Frequencies()
		p.logger.Debug("playing", zap.Float64("fx_hz", fx), zap.Float64("fy_hz", fy))
	}
}

// Release fades out the current synth.
func (p *Player) Release() {
	p.mu.Lock()
	if p.synth != nil {
		p.synth.Release()
	}
	p.mu.Unlock()
}

// Playing reports whether a synth is still audible.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.synth != nil && !p.synth.Done()
}

func (p *Player) process(out [][]float32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.synth == nil || p.synth.Done() {
		for i := range out[0] {
			out[0][i], out[1][i] = 0, 0
		}
		return
	}
	p.synth.Fill(out)
}

// Listen plays path for d of real time, or until ctx is done, then fades
// out.
func Listen(ctx context.Context, path *physics.Path, speed float64, d time.Duration, logger *zap.Logger) error {
	s, err := NewSynth(path, speed)
	if err != nil {
		return err
	}

	p := NewPlayer(logger)
	if err := p.Start(); err != nil {
		return err
	}
	defer p.Stop()
	p.Play(s)

	select {
	case <-ctx.Done():
	case <-time.After(d):
	}

	p.Release()
	deadline := time.Now().Add(time.Second)
	for p.Playing() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	return nil
}
