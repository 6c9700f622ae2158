package capture

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// EncodeWAV concatenates mono 16-bit chunks into a single WAV file.
func EncodeWAV(chunks [][]int16, sampleRate int) ([]byte, error) {
	f, err := os.CreateTemp("", "voicetracker-*.wav")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)
	defer f.Close()

	total := 0
	for _, chunk := range chunks {
		total += len(chunk)
	}
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  sampleRate,
		},
		Data:           make([]int, 0, total),
		SourceBitDepth: 16,
	}
	for _, chunk := range chunks {
		for _, v := range chunk {
			buf.Data = append(buf.Data, int(v))
		}
	}

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	if err := enc.Write(buf); err != nil {
		enc.Close()
		return nil, fmt.Errorf("write samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("finalize wav: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read wav: %w", err)
	}
	return data, nil
}
