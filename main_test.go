package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onefight/config"
	"onefight/game"
)

func TestPickMode(t *testing.T) {
	tests := []struct {
		name    string
		flag    string
		nargs   int
		want    game.Mode
		wantErr bool
	}{
		{"defaults to duel", "", 0, game.ModeDuel, false},
		{"arguments imply roster", "", 3, game.ModeRoster, false},
		{"explicit lobby", "lobby", 0, game.ModeLobby, false},
		{"explicit roster", "roster", 2, game.ModeRoster, false},
		{"roster without avatars", "roster", 0, "", true},
		{"arena with avatars", "arena", 2, "", true},
		{"unknown", "brawl", 0, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pickMode(tt.flag, tt.nargs)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOverlayOnlyCopiesGivenFlags(t *testing.T) {
	cfg := config.Default()
	cfg.HTTPAddr = ":7000"
	overlay(&cfg, config.Config{Width: 50, Tick: 40 * time.Millisecond})
	assert.Equal(t, 50, cfg.Width)
	assert.Equal(t, config.Default().Height, cfg.Height)
	assert.Equal(t, 40*time.Millisecond, cfg.Tick)
	assert.Equal(t, ":7000", cfg.HTTPAddr)
}

func TestFinishExitCodes(t *testing.T) {
	w := &game.Fighter{Number: 2, Avatar: 'p'}
	assert.Equal(t, 2, finish(game.ModeDuel, w, nil))
	assert.Equal(t, 0, finish(game.ModeLobby, w, nil))
	assert.Equal(t, 0, finish(game.ModeDuel, nil, game.ErrQuit))
	assert.Equal(t, 1, finish(game.ModeLobby, nil, game.ErrEmptyRoster))
}
