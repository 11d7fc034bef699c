// Package audio plays the completion chime and the looping background
// track through whatever command-line player the system provides.
//
// Nothing here reports errors to callers. Missing players degrade to the
// terminal bell for the chime and to silence for music.
package audio

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"tomato/internal/settings"
)

// Track URLs for the background music choices.
var trackURLs = map[string]string{
	settings.TrackLofi:    "https://assets.mixkit.co/music/preview/mixkit-tech-house-vibes-130.mp3",
	settings.TrackNature:  "https://assets.mixkit.co/music/preview/mixkit-forest-treasure-138.mp3",
	settings.TrackAmbient: "https://assets.mixkit.co/music/preview/mixkit-dreaming-big-31.mp3",
}

// TrackURL returns the stream for track, falling back to lofi for unknown
// names.
func TrackURL(track string) string {
	if u, ok := trackURLs[track]; ok {
		return u
	}
	return trackURLs[settings.TrackLofi]
}

// Candidate players, in order of preference.
var (
	chimePlayers = []string{"paplay", "afplay", "aplay", "ffplay"}
	musicPlayers = []string{"ffplay", "mpv"}
)

// process is a started player that can be stopped.
type process interface {
	Stop()
}

type execProcess struct {
	cmd *exec.Cmd
}

func (p *execProcess) Stop() {
	if p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
	}
}

// Player owns at most one background music process at a time.
type Player struct {
	logger *log.Logger
	bell   io.Writer

	lookPath func(string) (string, error)
	start    func(name string, args ...string) (process, error)

	mu        sync.Mutex
	chimePath string
	music     process
	track     string
	volume    float64
}

// Option configures a Player.
type Option func(*Player)

// WithLogger sets where playback failures are reported.
func WithLogger(l *log.Logger) Option {
	return func(p *Player) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithBell sets where the fallback bell character is written.
func WithBell(w io.Writer) Option {
	return func(p *Player) {
		if w != nil {
			p.bell = w
		}
	}
}

// NewPlayer returns a player using the system's command-line tools.
func NewPlayer(opts ...Option) *Player {
	p := &Player{
		logger:   log.New(io.Discard, "", 0),
		bell:     os.Stderr,
		lookPath: exec.LookPath,
		start:    startProcess,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func startProcess(name string, args ...string) (process, error) {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	go func() { _ = cmd.Wait() }()
	return &execProcess{cmd: cmd}, nil
}

// Chime plays the short completion tone.
func (p *Player) Chime() {
	tool := p.find(chimePlayers)
	if tool == "" {
		p.ring()
		return
	}

	path, err := p.chimeFile()
	if err != nil {
		p.logger.Printf("audio: %v", err)
		p.ring()
		return
	}

	if _, err := p.start(tool, chimeArgs(tool, path)...); err != nil {
		p.logger.Printf("audio: chime via %s: %v", tool, err)
		p.ring()
	}
}

// PlayMusic starts looping track at volume in [0,1]. A call for the track
// already playing at the same volume does nothing. An empty track stops
// the music.
func (p *Player) PlayMusic(track string, volume float64) {
	if track == settings.TrackNone {
		p.StopMusic()
		return
	}
	volume = clampVolume(volume)

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.music != nil && p.track == track && p.volume == volume {
		return
	}
	p.stopLocked()

	tool := p.find(musicPlayers)
	if tool == "" {
		return
	}
	proc, err := p.start(tool, musicArgs(tool, TrackURL(track), volume)...)
	if err != nil {
		p.logger.Printf("audio: music via %s: %v", tool, err)
		return
	}
	p.music, p.track, p.volume = proc, track, volume
}

// PauseMusic stops playback. The next PlayMusic starts the track again.
func (p *Player) PauseMusic() {
	p.StopMusic()
}

// StopMusic stops playback if any.
func (p *Player) StopMusic() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

// Playing returns the track currently playing, or "".
func (p *Player) Playing() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.music == nil {
		return ""
	}
	return p.track
}

func (p *Player) stopLocked() {
	if p.music != nil {
		p.music.Stop()
	}
	p.music = nil
	p.track = ""
}

func (p *Player) find(candidates []string) string {
	for _, name := range candidates {
		if _, err := p.lookPath(name); err == nil {
			return name
		}
	}
	return ""
}

func (p *Player) ring() {
	_, _ = io.WriteString(p.bell, "\a")
}

// chimeFile writes the chime tone to the temp dir once per player.
func (p *Player) chimeFile() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.chimePath != "" {
		return p.chimePath, nil
	}

	path := filepath.Join(os.TempDir(), "tomato-chime.wav")
	if err := os.WriteFile(path, chimeWAV(), 0600); err != nil {
		return "", fmt.Errorf("write chime: %w", err)
	}
	p.chimePath = path
	return path, nil
}

func chimeArgs(tool, path string) []string {
	if tool == "ffplay" {
		return []string{"-nodisp", "-autoexit", "-loglevel", "quiet", path}
	}
	return []string{path}
}

func musicArgs(tool, url string, volume float64) []string {
	pct := fmt.Sprintf("%d", int(volume*100+0.5))
	if tool == "mpv" {
		return []string{"--no-video", "--really-quiet", "--loop=inf", "--volume=" + pct, url}
	}
	return []string{"-nodisp", "-loglevel", "quiet", "-loop", "0", "-volume", pct, url}
}

func clampVolume(v float64) float64 {
	switch {
	case v != v || v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
