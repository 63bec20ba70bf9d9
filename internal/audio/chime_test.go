package audio

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToneLengthAndEnvelope(t *testing.T) {
	streamer := Tone(sampleRate, chimeFrequency, chimeDuration)
	buffer := make([][2]float64, 4096)

	var total int
	peak := 0.0
	tail := 0.0
	for {
		n, ok := streamer.Stream(buffer)
		if !ok {
			break
		}
		for _, sample := range buffer[:n] {
			value := math.Abs(sample[0])
			assert.Equal(t, sample[0], sample[1])
			if total < int(sampleRate) && value > peak {
				peak = value
			}
			if total > sampleRate.N(chimeDuration)-int(sampleRate)/10 && value > tail {
				tail = value
			}
			total++
		}
	}

	assert.Equal(t, sampleRate.N(3*time.Second), total)
	require.LessOrEqual(t, peak, chimeGain)
	assert.Greater(t, peak, 0.1)
	assert.Less(t, tail, 0.02)
}

func TestDisabledPlayerIsSilent(t *testing.T) {
	player := NewPlayer(false)
	player.Play()
	assert.Nil(t, player.initErr)
}
