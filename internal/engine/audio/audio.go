// Package audio plays the pet's sound effects.
package audio

import (
	"fmt"
	gomath "math"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
)

// DefaultSampleRate is the playback sample rate.
const DefaultSampleRate = beep.SampleRate(44100)

// Manager mixes short WAV effects. The speaker streams from its own
// goroutine, so shared state stays behind the mutex.
type Manager struct {
	mu sync.Mutex

	initialized bool
	sampleRate  beep.SampleRate
	mixer       *beep.Mixer
	volume      float64

	// Decoded samples per file, so repeated taps skip the disk.
	buffers map[string]*beep.Buffer
}

// New creates an audio manager. Init must run before playback.
func New() *Manager {
	return &Manager{
		volume:  0.8,
		mixer:   &beep.Mixer{},
		buffers: make(map[string]*beep.Buffer),
	}
}

// Init opens the speaker and starts the effect mixer.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	m.sampleRate = DefaultSampleRate
	if err := speaker.Init(m.sampleRate, m.sampleRate.N(time.Second/30)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(m.mixer)

	m.initialized = true
	return nil
}

// Close stops playback.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}
	speaker.Clear()
	m.initialized = false
}

// IsInitialized returns whether the speaker is open.
func (m *Manager) IsInitialized() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.initialized
}

// SetVolume sets playback volume (0.0 to 1.0).
func (m *Manager) SetVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = clamp(vol, 0, 1)
}

// Volume returns the playback volume.
func (m *Manager) Volume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}

// PlayFile plays a WAV file at the current volume. The file is
// decoded once and its samples cached for replays.
func (m *Manager) PlayFile(path string) error {
	m.mu.Lock()
	if !m.initialized {
		m.mu.Unlock()
		return fmt.Errorf("audio not initialized")
	}
	vol := m.volume
	buf, ok := m.buffers[path]
	m.mu.Unlock()

	if !ok {
		loaded, err := m.load(path)
		if err != nil {
			return err
		}
		buf = loaded
		m.mu.Lock()
		m.buffers[path] = buf
		m.mu.Unlock()
	}

	streamer := &effects.Volume{
		Streamer: buf.Streamer(0, buf.Len()),
		Base:     2,
		Volume:   volumeExponent(vol),
		Silent:   vol <= 0,
	}

	// The mixer is live on the speaker; adding needs the speaker lock.
	speaker.Lock()
	m.mixer.Add(streamer)
	speaker.Unlock()
	return nil
}

// load decodes one WAV file, resampled to the playback rate.
func (m *Manager) load(path string) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening sound: %w", err)
	}
	defer f.Close()

	streamer, format, err := wav.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}
	defer streamer.Close()

	target := beep.Format{
		SampleRate:  m.sampleRate,
		NumChannels: format.NumChannels,
		Precision:   format.Precision,
	}
	buf := beep.NewBuffer(target)
	if format.SampleRate != m.sampleRate {
		buf.Append(beep.Resample(4, format.SampleRate, m.sampleRate, streamer))
	} else {
		buf.Append(streamer)
	}
	return buf, nil
}

// volumeExponent maps a 0-1 volume to the base-2 exponent the Volume
// effect expects: the samples are scaled by 2^exp.
func volumeExponent(vol float64) float64 {
	if vol <= 0 {
		return -100 // Effectively silent
	}
	return gomath.Log2(vol)
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
