package ui

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/wyndholt/arcana/internal/models"
	"github.com/wyndholt/arcana/internal/repositories"
	"github.com/wyndholt/arcana/internal/selection"
	"github.com/wyndholt/arcana/internal/services"
	"github.com/wyndholt/arcana/internal/shared"
	"github.com/wyndholt/arcana/internal/stream"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	SpreadPickView ViewState = iota
	CardPickView
	ConfirmView
	StreamView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	service services.Service
	logger  *log.Logger
	repo    *repositories.ReadingRepository // nil disables history saves
	cfg     shared.ReadingConfig
	rng     *rand.Rand

	view     ViewState
	width    int
	height   int
	question string

	deck       []models.Card
	spreadList list.Model
	cardList   list.Model
	engine     *selection.Engine

	session     *stream.Session
	state       stream.State
	confirmDone chan error // written by the stream goroutine, drained by waitForStream
	confirmErr  error
	reading     *models.Reading
	saved       bool
	saveErr     error

	err  error
	help help.Model
	keys keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
//
// repo may be nil, in which case completed readings are not written to
// history.
func NewModel(ctx context.Context, service services.Service, logger *log.Logger, repo *repositories.ReadingRepository, cfg shared.ReadingConfig, question string) *Model {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Model{
		ctx:      ctx,
		service:  service,
		logger:   logger,
		repo:     repo,
		cfg:      cfg,
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		view:     SpreadPickView,
		question: question,
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// Init initializes the TUI by fetching the card catalogue.
func (m *Model) Init() tea.Cmd {
	return m.fetchDeck()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.spreadList.Width() == 0 {
			m.spreadList.SetSize(msg.Width-4, msg.Height-8)
		}
		if m.cardList.Width() == 0 {
			m.cardList.SetSize(msg.Width-4, msg.Height-12)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case SpreadPickView:
			return m.handleSpreadPickKeys(msg)
		case CardPickView:
			return m.handleCardPickKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case StreamView:
			return m.handleStreamKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case deckFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.deck = msg.cards
		items := make([]list.Item, len(selection.Spreads()))
		for i, s := range selection.Spreads() {
			items[i] = spreadItem{spread: s}
		}
		m.spreadList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.spreadList.Title = "Choose a Spread"
		m.spreadList.SetSize(m.width-4, m.height-8)
		return m, nil

	case streamUpdateMsg:
		m.state = stream.State(msg)
		return m, m.waitForStream()

	case streamDoneMsg:
		return m.finishStream(msg)
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case SpreadPickView:
		return m.renderSpreadPick()
	case CardPickView:
		return m.renderCardPick()
	case ConfirmView:
		return m.renderConfirm()
	case StreamView:
		return m.renderStream()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleSpreadPickKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		selected := m.spreadList.SelectedItem()
		if selected != nil {
			if it, ok := selected.(spreadItem); ok {
				m.beginSelection(it.spread)
				m.view = CardPickView
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.spreadList, cmd = m.spreadList.Update(msg)
	return m, cmd
}

func (m *Model) handleCardPickKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := msg.String()

	// Digit keys vacate a display slot in positional spreads; 0 is the tenth.
	if m.engine != nil && m.engine.Spread().Positional && len(s) == 1 && s[0] >= '0' && s[0] <= '9' {
		index := int(s[0] - '1')
		if s == "0" {
			index = 9
		}
		m.engine.Vacate(index)
		return m, nil
	}

	switch s {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = SpreadPickView
		return m, nil
	case "enter":
		selected := m.cardList.SelectedItem()
		if selected != nil {
			if it, ok := selected.(cardItem); ok {
				m.engine.Toggle(it.card.ID)
			}
		}
		return m, nil
	case "C":
		m.engine.Reset()
		return m, nil
	case "c":
		if m.engine.IsFull() {
			m.view = ConfirmView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.cardList, cmd = m.cardList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.view = CardPickView
		return m, nil
	case "y":
		m.view = StreamView
		return m, m.startStream()
	}
	return m, nil
}

func (m *Model) handleStreamKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "x":
		if m.session != nil {
			m.session.Cancel()
		}
		return m, nil
	case "ctrl+c":
		if m.session != nil {
			m.session.Cancel()
		}
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.view = SpreadPickView
		m.engine = nil
		m.session = nil
		m.state = stream.State{}
		m.confirmDone = nil
		m.confirmErr = nil
		m.reading = nil
		m.saved = false
		m.saveErr = nil
		m.err = nil
		return m, nil
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case SpreadPickView:
		m.spreadList, cmd = m.spreadList.Update(msg)
	case CardPickView:
		m.cardList, cmd = m.cardList.Update(msg)
	}
	return m, cmd
}

// beginSelection shuffles the deck and rolls orientations for a fresh
// reading, then builds the engine and the pick list.
func (m *Model) beginSelection(spread selection.Spread) {
	shuffled := selection.ShuffleDeck(m.deck, m.rng)
	orientations := selection.NewOrientationMap(shuffled, m.cfg.ReversalChance, m.rng)
	m.engine = selection.NewEngine(spread, shuffled, orientations)

	items := make([]list.Item, len(shuffled))
	for i, card := range shuffled {
		items[i] = cardItem{card: card, chosen: m.engine.IsChosen}
	}
	m.cardList = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.cardList.Title = spread.Label
	m.cardList.SetSize(m.width-4, m.height-12)
}

func (m *Model) fetchDeck() tea.Cmd {
	return func() tea.Msg {
		cards, err := m.service.ListCards(m.ctx)
		return deckFetchedMsg{cards: cards, err: err}
	}
}

// startStream locks the selection behind Confirm and runs the stream in a
// goroutine. The goroutine only writes to confirmDone; every model mutation
// happens in Update when the outcome arrives as a streamDoneMsg.
func (m *Model) startStream() tea.Cmd {
	m.session = stream.NewSession(m.service, m.logger)
	m.confirmDone = make(chan error, 1)

	session := m.session
	engine := m.engine
	done := m.confirmDone
	question := m.question
	spreadName := engine.Spread().Name
	ctx := m.ctx

	go func() {
		done <- engine.Confirm(ctx, func(ctx context.Context, cards []models.ChosenCard, positions []string) error {
			req := models.ReadingRequest{
				Question:  question,
				Spread:    spreadName,
				Cards:     cards,
				Positions: positions,
			}
			_, runErr := session.Run(ctx, req)
			return runErr
		})
	}()

	return m.waitForStream()
}

func (m *Model) waitForStream() tea.Cmd {
	session := m.session
	done := m.confirmDone
	return func() tea.Msg {
		if session == nil {
			return streamDoneMsg{}
		}
		st, ok := <-session.Updates()
		if !ok {
			// The updates channel closes when Run returns; Confirm's result
			// follows on done shortly after.
			var err error
			if done != nil {
				err = <-done
			}
			return streamDoneMsg{err: err}
		}
		return streamUpdateMsg(st)
	}
}

// finishStream moves to the result view once the session drains, saving
// successful readings to history.
func (m *Model) finishStream(msg streamDoneMsg) (tea.Model, tea.Cmd) {
	m.confirmErr = msg.err
	if m.session != nil {
		m.state = m.session.State()
	}
	m.view = ResultView

	if m.state.Terminal && m.state.Err == nil {
		reading := m.state.Result(m.question, m.engine.Spread().Name)
		m.reading = &reading

		if m.repo != nil {
			record := models.NewReadingRecord(0, reading)
			if err := m.repo.Create(record); err != nil {
				m.saveErr = err
				m.logger.Error("failed to save reading", "error", err)
			} else {
				m.saved = true
			}
		}
	}

	return m, nil
}

func (m *Model) renderSpreadPick() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.spreadList.View(), helpView)
}

func (m *Model) renderCardPick() string {
	status := m.renderSlots()

	helpKeys := []key.Binding{m.keys.enter, m.keys.confirm, m.keys.clear, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n\n%s\n\n%s", m.cardList.View(), status, helpView)
}

// renderSlots draws the spread's layout in display order with the cursor on
// the next slot to be dealt.
func (m *Model) renderSlots() string {
	spread := m.engine.Spread()

	if !spread.Positional {
		var names []string
		for _, id := range m.engine.Selected() {
			for _, card := range m.engine.Deck() {
				if card.ID == id {
					names = append(names, m.cardLabel(card))
					break
				}
			}
		}
		line := fmt.Sprintf("Chosen (%d/%d): %s", m.engine.Count(), spread.Size(), strings.Join(names, ", "))
		if m.engine.IsFull() {
			line = fmt.Sprintf("%s\n%s", line, styles.ok.Render("Press c to confirm"))
		}
		return line
	}

	cursor := m.engine.Cursor()
	var cursorDisplay int = -1
	if cursor >= 0 {
		cursorDisplay = spread.FillOrder[cursor]
	}

	var b strings.Builder
	for i, pos := range spread.Positions {
		marker := "  "
		if i == cursorDisplay {
			marker = styles.title.Render("» ")
		}
		name := "_"
		if card, ok := m.engine.SlotCard(i); ok {
			name = m.cardLabel(card)
		}
		fmt.Fprintf(&b, "%s%2d. %-14s %s\n", marker, i+1, pos.Label, name)
	}
	if m.engine.IsFull() {
		b.WriteString(styles.ok.Render("Press c to confirm"))
	} else {
		b.WriteString(styles.help.Render("digits vacate a slot"))
	}
	return b.String()
}

func (m *Model) cardLabel(card models.Card) string {
	if m.engine.Orientations().Reversed(card.ID) {
		return fmt.Sprintf("%s (reversed)", card.Name)
	}
	return card.Name
}

func (m *Model) renderConfirm() string {
	spread := m.engine.Spread()
	title := styles.title.Render(fmt.Sprintf("Request a '%s' reading?", spread.Label))

	var b strings.Builder
	for i, id := range m.engine.Selected() {
		for _, card := range m.engine.Deck() {
			if card.ID == id {
				fmt.Fprintf(&b, "%d. %s\n", i+1, m.cardLabel(card))
				break
			}
		}
	}
	if m.question != "" {
		fmt.Fprintf(&b, "\nQuestion: %s\n", m.question)
	}

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, b.String(), helpView)
}

func (m *Model) renderStream() string {
	title := styles.title.Render("Reading in Progress")

	var stage string
	switch m.state.Stage {
	case stream.StageInitializing:
		stage = "Initializing..."
	case stream.StageDrawingCards:
		stage = "Drawing cards..."
	case stream.StageEnrichingContext:
		stage = "Consulting the archives..."
	case stream.StageGeneratingAI:
		stage = "Composing the interpretation..."
	case stream.StageFinalizing:
		stage = "Finalizing..."
	default:
		stage = "Waiting for the service..."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%.0f%%)\n", stage, m.state.Progress)
	if m.state.Message != "" {
		fmt.Fprintf(&b, "%s\n", m.state.Message)
	}

	if len(m.state.Drawn) > 0 {
		b.WriteString("\nDrawn:\n")
		for _, ev := range m.state.Drawn {
			name := ev.Name
			if ev.Reversed {
				name = fmt.Sprintf("%s (reversed)", name)
			}
			if ev.Position != "" {
				fmt.Fprintf(&b, "  %s: %s\n", ev.Position, name)
			} else {
				fmt.Fprintf(&b, "  %s\n", name)
			}
		}
	}

	sections := []struct {
		label string
		done  bool
	}{
		{"summary", m.state.Summary != ""},
		{"cards", len(m.state.Cards) > 0},
		{"reading", m.state.Overall != ""},
		{"advice", m.state.Advice != ""},
	}
	b.WriteString("\n")
	for _, s := range sections {
		mark := "·"
		if s.done {
			mark = styles.ok.Render("✓")
		}
		fmt.Fprintf(&b, "%s %s  ", mark, s.label)
	}

	helpKeys := []key.Binding{m.keys.cancel, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n\n%s", title, b.String(), helpView)
}

func (m *Model) renderResult() string {
	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	if m.state.Err != nil {
		msg := fmt.Sprintf("Reading failed during %s: %s", m.state.Err.Stage, m.state.Err.Message)
		return fmt.Sprintf("%s\n\n%s", styles.err.Render(msg), helpView)
	}
	if m.confirmErr != nil {
		return fmt.Sprintf("%s\n\n%s", styles.err.Render(fmt.Sprintf("Stream failed: %v", m.confirmErr)), helpView)
	}
	if m.reading == nil {
		return fmt.Sprintf("%s\n\n%s", styles.warn.Render("Reading cancelled"), helpView)
	}

	title := styles.ok.Render("✓ Reading Complete")

	var b strings.Builder
	if m.reading.Summary != "" {
		fmt.Fprintf(&b, "\n%s\n", m.reading.Summary)
	}
	for _, card := range m.reading.Cards {
		name := card.Name
		if card.Reversed {
			name = fmt.Sprintf("%s (reversed)", name)
		}
		if card.Position != "" {
			fmt.Fprintf(&b, "\n%s: %s\n", styles.title.Render(card.Position), name)
		} else {
			fmt.Fprintf(&b, "\n%s\n", styles.title.Render(name))
		}
		if card.Meaning != "" {
			fmt.Fprintf(&b, "%s\n", card.Meaning)
		}
	}
	if m.reading.Overall != "" {
		fmt.Fprintf(&b, "\n%s\n", m.reading.Overall)
	}
	if m.reading.Advice != "" {
		fmt.Fprintf(&b, "\n%s %s\n", styles.warn.Render("Advice:"), m.reading.Advice)
	}

	var saveLine string
	if m.saved {
		saveLine = styles.help.Render(fmt.Sprintf("Saved to history as %s", m.reading.ReadingID))
	} else if m.saveErr != nil {
		saveLine = styles.warn.Render(fmt.Sprintf("Could not save to history: %v", m.saveErr))
	}

	return fmt.Sprintf("%s%s\n%s\n\n%s", title, b.String(), saveLine, helpView)
}
