package agent

import (
	"time"

	"github.com/JosephPrichard/othello-bot-sub001/board"
	"github.com/JosephPrichard/othello-bot-sub001/move"
)

// JobKind says which search a job runs.
type JobKind uint8

const (
	BestMoveJob JobKind = iota
	RankedMovesJob
)

func (k JobKind) String() string {
	if k == RankedMovesJob {
		return "ranked-moves"
	}
	return "best-move"
}

// Job is one queued search request.
type Job struct {
	// Unique identifier for this job
	ID string

	Kind  JobKind
	Board *board.Board
	Depth int

	Submitted time.Time

	// exactly one of these is set, depending on Kind
	onBestMove    func(move.Move, error)
	onRankedMoves func([]move.Move, error)
}

// fail reports err through whichever callback the job carries.
func (j *Job) fail(err error) {
	switch j.Kind {
	case BestMoveJob:
		j.onBestMove(move.NoMove, err)
	case RankedMovesJob:
		j.onRankedMoves(nil, err)
	}
}
