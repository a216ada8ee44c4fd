package game

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// LobbyOptions configures avatar selection before a lobby match.
type LobbyOptions struct {
	Bounds   Bounds
	Capacity int
	Rand     *rand.Rand
	Poll     time.Duration // pause between two keyboard drains
	Logger   *zap.SugaredLogger
	Sleep    func(time.Duration)
}

// Lobby lets players join by pressing the key that will drive their fighter.
// Every printable key other than space or tab joins once; Enter starts the
// match. Fighters are spawned on distinct random ground cells.
func Lobby(ctx context.Context, s Surface, k Keyboard, opts LobbyOptions) (*Roster, error) {
	if opts.Capacity <= 0 || opts.Capacity > opts.Bounds.Width() {
		opts.Capacity = opts.Bounds.Width()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Poll <= 0 {
		opts.Poll = DefaultTickInterval
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	if opts.Sleep == nil {
		opts.Sleep = time.Sleep
	}

	r := NewRoster(opts.Capacity)
	sp := NewSpawner(opts.Bounds, opts.Rand)
	note := ""
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s.Status(fmt.Sprintf("press a key to join (%d/%d), Enter to fight %s", r.Len(), r.Cap(), note))
		s.Show()
		opts.Sleep(opts.Poll)

		for {
			key, ok := k.PollKey()
			if !ok {
				break
			}
			switch key.Code {
			case KeyQuit:
				return nil, ErrQuit
			case KeyEnter:
				opts.Logger.Infof("lobby closed with %d fighters", r.Len())
				return r, nil
			case KeyRune:
				if !ValidAvatar(key.Rune) {
					continue
				}
				if r.ByAvatar(key.Rune) != nil {
					note = fmt.Sprintf("- %c is taken", key.Rune)
					continue
				}
				x, free := sp.Next()
				if !free {
					note = "- lobby is full"
					continue
				}
				f, err := r.Add(key.Rune, x, opts.Bounds.YMax)
				if err != nil {
					note = "- lobby is full"
					opts.Logger.Warnf("lobby: %v", err)
					continue
				}
				note = ""
				s.DrawGlyph(f.X, f.Y, f.Avatar, f.Color)
				opts.Logger.Infof("lobby: p%d joined as %c at column %d", f.Number, f.Avatar, f.X)
			}
		}
	}
}
