package pcm

import "time"

type Type interface {
	int16 | float32
}

func BytesToSamples[T Type](bytes int) int {
	var v T
	switch any(v).(type) {
	case int16:
		return bytes / 2
	case float32:
		return bytes / 4
	}

	// unreachable
	return 0
}

func Samples[T Type](b []byte) int {
	return BytesToSamples[T](len(b))
}

// Duration returns the playback time of mono samples of type T held in b.
func Duration[T Type](b []byte, sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	return time.Duration(Samples[T](b)) * time.Second / time.Duration(sampleRate)
}
