package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/wyndholt/arcana/internal/models"
	"github.com/wyndholt/arcana/internal/shared"
)

// Opener issues the outbound streaming request and hands back its body.
//
// Implemented by services.OracleService; tests substitute a canned reader.
type Opener interface {
	OpenReadingStream(ctx context.Context, req models.ReadingRequest) (io.ReadCloser, error)
}

// State is the externally observable result of folding frames in arrival order.
//
// The session hands out copies; readers never share mutable state with the
// fold loop.
type State struct {
	Active    bool   // true between the first frame and a terminal frame
	Terminal  bool   // a complete or error frame has been folded
	Stage     Stage
	Progress  float64
	Message   string
	Drawn     []CardDrawnEvent // card_drawn announcements, duplicates kept
	Summary   string
	Cards     []models.CardInterpretation
	Overall   string
	Advice    string
	ReadingID string
	TotalTime float64
	Err       *ErrorEvent // set by an error terminal frame
}

// Result assembles the completed reading from the folded sections.
func (st State) Result(question, spread string) models.Reading {
	return models.Reading{
		ReadingID: st.ReadingID,
		Question:  question,
		Spread:    spread,
		Summary:   st.Summary,
		Cards:     st.Cards,
		Overall:   st.Overall,
		Advice:    st.Advice,
		TotalTime: st.TotalTime,
	}
}

// Session owns one end-to-end streaming reading attempt.
//
// Sessions are single-use: one Run per instance. The host starts a fresh
// session to retry.
type Session struct {
	opener Opener
	logger *log.Logger

	mu      sync.Mutex
	state   State
	cancel  context.CancelFunc
	started bool

	updates chan State
}

// NewSession creates a session around the given opener.
func NewSession(opener Opener, logger *log.Logger) *Session {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Session{
		opener:  opener,
		logger:  logger,
		updates: make(chan State, 50),
	}
}

// Updates delivers a state snapshot after each folded frame.
//
// The channel is closed when Run returns. Sends never block; a slow consumer
// misses intermediate snapshots, not the final state (read it via State).
func (s *Session) Updates() <-chan State {
	return s.updates
}

// State returns a copy of the current folded state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Run opens the streaming request and folds frames until a terminal frame,
// stream end, cancellation, or transport failure.
//
// The returned error is transport-level only: a protocol error frame is a
// normal terminal outcome and lands in State.Err instead. After cancellation
// Run returns the context's error with the state left at its last folded
// value and no terminal frame recorded.
func (s *Session) Run(ctx context.Context, req models.ReadingRequest) (State, error) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return State{}, shared.ErrSessionUsed
	}
	s.started = true
	ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	defer close(s.updates)

	body, err := s.opener.OpenReadingStream(ctx, req)
	if err != nil {
		return s.State(), fmt.Errorf("%w: %v", shared.ErrConnectionFailed, err)
	}
	defer body.Close()

	s.logger.Debug("reading stream open", "spread", req.Spread, "cards", len(req.Cards))

	splitter := &LineSplitter{}
	assembler := &FrameAssembler{}
	buf := make([]byte, 4096)

	for {
		n, readErr := body.Read(buf)
		if n > 0 {
			for _, line := range splitter.Push(buf[:n]) {
				if frame, ok := assembler.Feed(line); ok {
					s.fold(frame)
				}
			}
		}

		if s.State().Terminal {
			// Terminal frame ends folding; anything the server sends after
			// it is ignored.
			break
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			if ctx.Err() != nil {
				s.deactivate()
				return s.State(), ctx.Err()
			}
			s.deactivate()
			return s.State(), fmt.Errorf("%w: %v", shared.ErrConnectionFailed, readErr)
		}
	}
	splitter.Close()

	st := s.State()
	if !st.Terminal {
		if ctx.Err() != nil {
			s.deactivate()
			return s.State(), ctx.Err()
		}
		s.deactivate()
		return s.State(), fmt.Errorf("%w: stream ended before terminal frame", shared.ErrConnectionFailed)
	}
	return st, nil
}

// Cancel aborts the transport read. Idempotent; safe before Run.
func (s *Session) Cancel() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// fold applies one frame to the observable state. Frames after a terminal
// frame are dropped.
func (s *Session) fold(f Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Terminal {
		return
	}

	switch EventType(f.Type) {
	case EventStarted:
		s.state.Active = true

	case EventProgress:
		var ev ProgressEvent
		if !s.decode(f, &ev) {
			return
		}
		s.state.Stage = ev.Stage
		s.state.Progress = ev.Progress
		s.state.Message = ev.Message

	case EventCardDrawn:
		var ev CardDrawnEvent
		if !s.decode(f, &ev) {
			return
		}
		// No de-duplication: the server's deal is authoritative.
		s.state.Drawn = append(s.state.Drawn, ev)
		s.state.Progress = ev.Progress

	case EventRAGEnrichment, EventAIGeneration:
		// Informational only; observable state is unchanged.
		s.logger.Debug("stream info event", "type", f.Type)
		return

	case EventSectionComplete:
		var ev SectionCompleteEvent
		if !s.decode(f, &ev) {
			return
		}
		s.applySection(ev)
		s.state.Progress = ev.Progress

	case EventComplete:
		var ev CompleteEvent
		if !s.decode(f, &ev) {
			return
		}
		s.state.Active = false
		s.state.Terminal = true
		s.state.Stage = StageCompleted
		s.state.Progress = 100
		s.state.ReadingID = ev.ReadingID
		s.state.TotalTime = ev.TotalTime

	case EventError:
		var ev ErrorEvent
		if !s.decode(f, &ev) {
			return
		}
		s.state.Active = false
		s.state.Terminal = true
		s.state.Err = &ev

	default:
		s.logger.Warn("unknown stream event", "type", f.Type)
		return
	}

	s.publishLocked()
}

// decode unmarshals a frame payload. A malformed payload is logged and
// skipped; one bad frame must not abort an otherwise healthy stream.
func (s *Session) decode(f Frame, v any) bool {
	if err := json.Unmarshal(f.Data, v); err != nil {
		s.logger.Warn("malformed frame payload", "type", f.Type, "error", err)
		return false
	}
	return true
}

// applySection overwrites one partial-result field wholesale. Sections arrive
// in any order; last write wins per section.
func (s *Session) applySection(ev SectionCompleteEvent) {
	switch ev.Section {
	case SectionSummary:
		var d summaryData
		if err := json.Unmarshal(ev.Data, &d); err != nil {
			s.logger.Warn("malformed section payload", "section", ev.Section, "error", err)
			return
		}
		s.state.Summary = d.Summary

	case SectionCards:
		var d cardsData
		if err := json.Unmarshal(ev.Data, &d); err != nil {
			s.logger.Warn("malformed section payload", "section", ev.Section, "error", err)
			return
		}
		s.state.Cards = d.Cards

	case SectionOverall:
		var d overallData
		if err := json.Unmarshal(ev.Data, &d); err != nil {
			s.logger.Warn("malformed section payload", "section", ev.Section, "error", err)
			return
		}
		s.state.Overall = d.Overall

	case SectionAdvice:
		var d adviceData
		if err := json.Unmarshal(ev.Data, &d); err != nil {
			s.logger.Warn("malformed section payload", "section", ev.Section, "error", err)
			return
		}
		s.state.Advice = d.Advice

	default:
		s.logger.Warn("unknown section", "section", ev.Section)
	}
}

func (s *Session) deactivate() {
	s.mu.Lock()
	s.state.Active = false
	s.mu.Unlock()
}

// snapshotLocked copies the state, including its slices, so readers never
// alias the fold loop's buffers.
func (s *Session) snapshotLocked() State {
	st := s.state
	if len(s.state.Drawn) > 0 {
		st.Drawn = make([]CardDrawnEvent, len(s.state.Drawn))
		copy(st.Drawn, s.state.Drawn)
	}
	if len(s.state.Cards) > 0 {
		st.Cards = make([]models.CardInterpretation, len(s.state.Cards))
		copy(st.Cards, s.state.Cards)
	}
	return st
}

// publishLocked sends a snapshot without blocking the fold loop.
func (s *Session) publishLocked() {
	select {
	case s.updates <- s.snapshotLocked():
	default:
	}
}
