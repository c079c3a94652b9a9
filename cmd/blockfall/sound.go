package main

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/wricardo/blockfall/game/engine"
)

// soundboard plays the game's audio cues
type soundboard interface {
	Lock()
	Clear(lines int)
	GameOver()
	Close()
}

type silent struct{}

func (silent) Lock()     {}
func (silent) Clear(int) {}
func (silent) GameOver() {}
func (silent) Close()    {}

type note struct {
	freq float64
	dur  time.Duration
}

// speakerCues synthesises short sine melodies on the system speaker
type speakerCues struct {
	rate beep.SampleRate
}

func newSpeakerCues() (*speakerCues, error) {
	sampleRate := beep.SampleRate(44100)
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return nil, err
	}
	return &speakerCues{rate: sampleRate}, nil
}

func (s *speakerCues) play(notes ...note) {
	streamers := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		sine, err := generators.SineTone(s.rate, n.freq)
		if err != nil {
			continue
		}
		streamers = append(streamers, beep.Take(s.rate.N(n.dur), sine))
	}
	if len(streamers) > 0 {
		speaker.Play(beep.Seq(streamers...))
	}
}

func (s *speakerCues) Lock() {
	s.play(note{220, 40 * time.Millisecond})
}

// Clear plays one rising note per cleared line
func (s *speakerCues) Clear(lines int) {
	notes := make([]note, 0, lines)
	for i := range lines {
		notes = append(notes, note{660 + float64(i)*220, 60 * time.Millisecond})
	}
	s.play(notes...)
}

func (s *speakerCues) GameOver() {
	s.play(
		note{440, 150 * time.Millisecond},
		note{330, 150 * time.Millisecond},
		note{220, 300 * time.Millisecond},
	)
}

func (s *speakerCues) Close() {
	speaker.Close()
}

// cue picks the sound for what a tick did
func cue(s soundboard, t engine.TickResult) {
	switch {
	case t.GameOver:
		s.GameOver()
	case len(t.ClearedRows) > 0:
		s.Clear(len(t.ClearedRows))
	case t.Locked:
		s.Lock()
	}
}
