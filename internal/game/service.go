package game

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/lk16/mines/internal/metrics"
	"github.com/lk16/mines/internal/minesweeper"
	"github.com/lk16/mines/internal/models"
	"github.com/lk16/mines/internal/session"
)

// ErrGameOver is returned for moves on a board that was already won or lost.
var ErrGameOver = errors.New("game is over")

const recordTimeout = 5 * time.Second

// Recorder stores finished games.
type Recorder interface {
	RecordGame(ctx context.Context, record models.GameRecord) error
}

// BoardFactory creates the board for a new game.
type BoardFactory func(width, height, mines int) *minesweeper.Board

// Option configures a Service.
type Option func(*Service)

// WithBoardFactory replaces the random board generation, mostly useful in tests.
func WithBoardFactory(factory BoardFactory) Option {
	return func(s *Service) {
		s.newBoard = factory
	}
}

// Service applies moves to the boards in a session store. Unlike the board itself,
// it refuses moves once a game is won or lost.
type Service struct {
	store    session.Store
	recorder Recorder
	newBoard BoardFactory
	now      func() time.Time
}

// NewService creates a Service. recorder may be nil, in which case finished games are not stored.
func NewService(store session.Store, recorder Recorder, opts ...Option) *Service {
	svc := &Service{
		store:    store,
		recorder: recorder,
		newBoard: func(width, height, mines int) *minesweeper.Board {
			return minesweeper.New(width, height, mines)
		},
		now: time.Now,
	}

	for _, opt := range opts {
		opt(svc)
	}

	return svc
}

func stateOf(s *session.Session) models.GameState {
	return models.GameState{
		ID:         s.ID,
		Width:      s.Board.Width(),
		Height:     s.Board.Height(),
		MinesCount: s.Board.MinesCount(),
		Cells:      s.Board.Cells(),
		Status:     s.Board.Status().String(),
		Moves:      s.Moves,
	}
}

// NewGame creates a board and a session owning it.
func (svc *Service) NewGame(ctx context.Context, width, height, mines int) (models.GameState, error) {
	board := svc.newBoard(width, height, mines)

	id, err := svc.store.Create(ctx, board)
	if err != nil {
		return models.GameState{}, err
	}

	metrics.GamesStarted.Inc()
	slog.Debug("Created game", "id", id, "width", width, "height", height, "mines", mines)

	return stateOf(&session.Session{ID: id, Board: board}), nil
}

// Get returns the current state of a game.
func (svc *Service) Get(ctx context.Context, id string) (models.GameState, error) {
	var state models.GameState

	err := svc.store.View(ctx, id, func(s *session.Session) error {
		state = stateOf(s)
		return nil
	})

	return state, err
}

// Open opens a cell and reports whether it held a mine.
func (svc *Service) Open(ctx context.Context, id string, pos minesweeper.Position) (bool, models.GameState, error) {
	var (
		mine   bool
		state  models.GameState
		record *models.GameRecord
	)

	err := svc.store.Update(ctx, id, func(s *session.Session) error {
		if s.Board.Status() != minesweeper.Playing {
			return ErrGameOver
		}

		var err error
		if mine, err = s.Board.Open(pos); err != nil {
			return err
		}

		s.Moves++
		record = svc.finish(s)
		state = stateOf(s)
		return nil
	})
	if err != nil {
		return false, models.GameState{}, err
	}

	metrics.Moves.WithLabelValues("open").Inc()
	svc.record(ctx, record)

	return mine, state, nil
}

// ToggleFlag toggles the flag on a cell and reports whether a flag was placed.
func (svc *Service) ToggleFlag(ctx context.Context, id string, pos minesweeper.Position) (bool, models.GameState, error) {
	var (
		flagged bool
		state   models.GameState
		record  *models.GameRecord
	)

	err := svc.store.Update(ctx, id, func(s *session.Session) error {
		if s.Board.Status() != minesweeper.Playing {
			return ErrGameOver
		}

		var err error
		if flagged, err = s.Board.ToggleFlag(pos); err != nil {
			return err
		}

		s.Moves++
		record = svc.finish(s)
		state = stateOf(s)
		return nil
	})
	if err != nil {
		return false, models.GameState{}, err
	}

	metrics.Moves.WithLabelValues("flag").Inc()
	svc.record(ctx, record)

	return flagged, state, nil
}

// Restart puts a fresh layout on the board of a game, whatever its status.
func (svc *Service) Restart(ctx context.Context, id string) (models.GameState, error) {
	var state models.GameState

	err := svc.store.Update(ctx, id, func(s *session.Session) error {
		s.Board.Restart()
		s.Moves = 0
		s.Recorded = false
		state = stateOf(s)
		return nil
	})
	if err != nil {
		return models.GameState{}, err
	}

	metrics.GamesStarted.Inc()

	return state, nil
}

// Delete drops a game.
func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.store.Delete(ctx, id)
}

// finish returns the record of a game that just ended, or nil. It marks the session
// so that a game is recorded only once.
func (svc *Service) finish(s *session.Session) *models.GameRecord {
	status := s.Board.Status()
	if status == minesweeper.Playing || s.Recorded {
		return nil
	}

	s.Recorded = true
	metrics.GamesFinished.WithLabelValues(status.String()).Inc()

	return &models.GameRecord{
		SessionID:  s.ID,
		Width:      s.Board.Width(),
		Height:     s.Board.Height(),
		MinesCount: s.Board.MinesCount(),
		Outcome:    status.String(),
		Moves:      s.Moves,
		FinishedAt: svc.now(),
	}
}

// record stores a finished game. Failures are logged, the move itself already succeeded.
func (svc *Service) record(ctx context.Context, record *models.GameRecord) {
	if record == nil || svc.recorder == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()

	if err := svc.recorder.RecordGame(ctx, *record); err != nil {
		slog.Error("Failed to record game", "session_id", record.SessionID, "error", err)
	}
}
