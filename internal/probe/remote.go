package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/chesswatch/telemetry/internal/adapter"
	"github.com/chesswatch/telemetry/internal/wire"
)

const endReasonComplete = "game_complete"

// feedEvent is one frame of the featured-game feed. A "featured" frame
// carries the full description of a newly featured game, a "fen" frame
// only the position delta of the current one.
type feedEvent struct {
	T string   `json:"t"`
	D feedData `json:"d"`
}

type feedData struct {
	ID      string       `json:"id"`
	Players []feedPlayer `json:"players"`
	FEN     string       `json:"fen"`
	// LM is the last move in UCI notation
	LM string `json:"lm"`
	// WC and BC are the white and black clocks in seconds
	WC *float64 `json:"wc"`
	BC *float64 `json:"bc"`
}

type feedPlayer struct {
	User struct {
		Name  string  `json:"name"`
		Title *string `json:"title"`
	} `json:"user"`
	Rating  int      `json:"rating"`
	Seconds *float64 `json:"seconds"`
}

// GameProbe polls a featured-game feed and tracks the game lifecycle
// across runs: when the featured game changes, the previous game's
// terminal snapshot is emitted before the new game's opening one.
type GameProbe struct {
	feedURL string
	client  *http.Client
	clock   adapter.Clock

	gameID string
	white  *wire.PlayerInfo
	black  *wire.PlayerInfo
}

// NewGameProbe creates a game probe polling the given feed URL. A nil
// client falls back to http.DefaultClient.
func NewGameProbe(feedURL string, client *http.Client, clock adapter.Clock) *GameProbe {
	if client == nil {
		client = http.DefaultClient
	}
	return &GameProbe{feedURL: feedURL, client: client, clock: clock}
}

// Name implements Probe
func (p *GameProbe) Name() string { return "game" }

// Collect implements Probe
func (p *GameProbe) Collect(ctx context.Context) ([]wire.Record, error) {
	event, err := p.fetch(ctx)
	if err != nil {
		return nil, err
	}

	now := p.clock.Now().UTC()

	switch event.T {
	case "featured":
		var records []wire.Record
		if p.gameID != "" && p.white != nil && p.black != nil && p.gameID != event.D.ID {
			records = append(records, p.endedSnapshot(now))
		}
		if p.gameID == event.D.ID {
			// Feed repeated the same featured frame, treat it as a
			// position update
			return []wire.Record{p.continuedSnapshot(event.D, now)}, nil
		}
		records = append(records, p.newGameSnapshot(event.D, now))
		return records, nil

	case "fen":
		if p.gameID == "" || p.white == nil || p.black == nil {
			// Position update without an active game, skip until the
			// next featured frame
			return nil, nil
		}
		return []wire.Record{p.continuedSnapshot(event.D, now)}, nil

	default:
		return nil, fmt.Errorf("unexpected feed frame %q", event.T)
	}
}

func (p *GameProbe) fetch(ctx context.Context) (*feedEvent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build feed request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to poll feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	var event feedEvent
	if err := json.NewDecoder(resp.Body).Decode(&event); err != nil {
		return nil, fmt.Errorf("failed to decode feed frame: %w", err)
	}
	return &event, nil
}

// endedSnapshot closes out the currently tracked game
func (p *GameProbe) endedSnapshot(now time.Time) wire.Record {
	reason := endReasonComplete
	return &wire.GameSnapshot{
		Timestamp: now,
		GameID:    p.gameID,
		White:     *p.white,
		Black:     *p.black,
		GameEnded: true,
		EndReason: &reason,
	}
}

// newGameSnapshot resets the tracked lifecycle to the newly featured game
// and emits its opening snapshot
func (p *GameProbe) newGameSnapshot(d feedData, now time.Time) wire.Record {
	white, black := wire.PlayerInfo{}, wire.PlayerInfo{}
	if len(d.Players) > 0 {
		white = wire.PlayerInfo{
			Name:          d.Players[0].User.Name,
			Rating:        d.Players[0].Rating,
			Title:         d.Players[0].User.Title,
			RemainingTime: d.Players[0].Seconds,
		}
	}
	if len(d.Players) > 1 {
		black = wire.PlayerInfo{
			Name:          d.Players[1].User.Name,
			Rating:        d.Players[1].Rating,
			Title:         d.Players[1].User.Title,
			RemainingTime: d.Players[1].Seconds,
		}
	}

	p.gameID = d.ID
	p.white = &white
	p.black = &black

	whitePieces, blackPieces := countPieces(d.FEN)
	return &wire.GameSnapshot{
		Timestamp:       now,
		GameID:          d.ID,
		White:           white,
		Black:           black,
		FENPosition:     d.FEN,
		WhitePieceCount: &whitePieces,
		BlackPieceCount: &blackPieces,
		NewGame:         true,
	}
}

// continuedSnapshot emits a position update for the tracked game,
// refreshing the players' clocks
func (p *GameProbe) continuedSnapshot(d feedData, now time.Time) wire.Record {
	if d.WC != nil {
		p.white.RemainingTime = d.WC
	}
	if d.BC != nil {
		p.black.RemainingTime = d.BC
	}

	snapshot := &wire.GameSnapshot{
		Timestamp:   now,
		GameID:      p.gameID,
		White:       *p.white,
		Black:       *p.black,
		FENPosition: d.FEN,
		LastMove:    d.LM,
	}
	if d.FEN != "" {
		whitePieces, blackPieces := countPieces(d.FEN)
		snapshot.WhitePieceCount = &whitePieces
		snapshot.BlackPieceCount = &blackPieces
	}
	return snapshot
}

// countPieces counts the white and black pieces, pawns included, on the
// board field of a FEN string
func countPieces(fen string) (white, black int) {
	board := fen
	if i := strings.IndexByte(fen, ' '); i >= 0 {
		board = fen[:i]
	}
	for _, r := range board {
		switch {
		case r >= 'A' && r <= 'Z':
			white++
		case r >= 'a' && r <= 'z':
			black++
		}
	}
	return white, black
}
