package audio

import (
	"math"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"github.com/rs/zerolog/log"
)

const (
	chimeFrequency = 880.0
	chimeDuration  = 3 * time.Second
	chimeGain      = 0.3
	chimeFloor     = 0.01
	sampleRate     = beep.SampleRate(44100)
)

// Player plays the completion chime on the default output device.
type Player struct {
	mu       sync.Mutex
	enabled  bool
	initOnce sync.Once
	initErr  error
}

// NewPlayer creates a player. The speaker is opened on first use.
func NewPlayer(enabled bool) *Player {
	return &Player{enabled: enabled}
}

// SetEnabled toggles playback.
func (player *Player) SetEnabled(enabled bool) {
	player.mu.Lock()
	player.enabled = enabled
	player.mu.Unlock()
}

// Play starts the chime and returns immediately.
func (player *Player) Play() {
	player.mu.Lock()
	enabled := player.enabled
	player.mu.Unlock()
	if !enabled {
		return
	}

	player.initOnce.Do(func() {
		player.initErr = speaker.Init(sampleRate, sampleRate.N(time.Second/10))
	})
	if player.initErr != nil {
		log.Warn().Err(player.initErr).Msg("Could not play chime")
		return
	}
	speaker.Play(Tone(sampleRate, chimeFrequency, chimeDuration))
}

// Tone returns a sine wave that fades exponentially from chimeGain to
// chimeFloor over duration.
func Tone(rate beep.SampleRate, frequency float64, duration time.Duration) beep.Streamer {
	total := rate.N(duration)
	decay := math.Log(chimeFloor/chimeGain) / float64(total)
	position := 0

	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if position >= total {
			return 0, false
		}
		n := 0
		for i := range samples {
			if position >= total {
				break
			}
			seconds := float64(position) / float64(rate)
			value := chimeGain * math.Exp(decay*float64(position)) * math.Sin(2*math.Pi*frequency*seconds)
			samples[i][0] = value
			samples[i][1] = value
			position++
			n++
		}
		return n, true
	})
}
