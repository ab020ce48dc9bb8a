package app

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/hylla/tierlist/internal/domain"
)

// DefaultTitle is the board heading used when no title is configured.
const DefaultTitle = "Rainbow Alliance Tier List"

// IDGenerator returns unique identifiers for new entities.
type IDGenerator func() string

// ServiceConfig holds configuration for service.
type ServiceConfig struct {
	Title  string
	Topic  string
	Logger Logger
}

// State is a point-in-time copy of everything the rendering surface displays.
type State struct {
	Title        string
	Topic        string
	Board        domain.Board
	ActiveItemID string
	Exporting    bool
	Disabled     bool
}

// Service owns the board snapshot, the topic gate and the drag context.
// Every transition runs to completion under mu and replaces the board wholesale.
type Service struct {
	mu        sync.Mutex
	board     domain.Board
	title     string
	topic     string
	activeID  string
	exporting bool

	exporter Exporter
	idGen    IDGenerator
	log      Logger
}

// NewService constructs a new value for this package.
func NewService(board domain.Board, exporter Exporter, idGen IDGenerator, cfg ServiceConfig) *Service {
	if idGen == nil {
		idGen = uuid.NewString
	}
	if cfg.Logger == nil {
		cfg.Logger = nopLogger{}
	}
	title := strings.TrimSpace(cfg.Title)
	if title == "" {
		title = DefaultTitle
	}
	return &Service{
		board:    board,
		title:    title,
		topic:    cfg.Topic,
		exporter: exporter,
		idGen:    idGen,
		log:      cfg.Logger,
	}
}

// Snapshot returns the current state.
func (s *Service) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Title:        s.title,
		Topic:        s.topic,
		Board:        s.board,
		ActiveItemID: s.activeID,
		Exporting:    s.exporting,
		Disabled:     s.disabledLocked(),
	}
}

// Board returns the current board snapshot.
func (s *Service) Board() domain.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board
}

// SetTopic replaces the campaign topic that opens or closes the gate.
func (s *Service) SetTopic(topic string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.topic = topic
}

// Topic returns the raw campaign topic.
func (s *Service) Topic() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.topic
}

// Disabled reports whether drag and add-item operations are currently gated off.
func (s *Service) Disabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disabledLocked()
}

// disabledLocked reports the gate; callers must hold mu.
func (s *Service) disabledLocked() bool {
	return strings.TrimSpace(s.topic) == "" || s.exporting
}

// ResolveTarget resolves an id against the current board.
func (s *Service) ResolveTarget(id string) domain.Target {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Resolve(id)
}

// ActiveItem returns the item being dragged, if any.
func (s *Service) ActiveItem() (domain.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeID == "" {
		return domain.Item{}, false
	}
	return s.board.Item(s.activeID)
}

// AddItems splits rawText on commas and appends one new item per non-empty piece to columnID.
func (s *Service) AddItems(columnID, rawText string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disabledLocked() {
		return false
	}
	pieces := domain.SplitItemInput(rawText)
	if len(pieces) == 0 {
		return false
	}
	items := make([]domain.Item, 0, len(pieces))
	for _, content := range pieces {
		item, err := domain.NewItem(domain.ItemIDPrefix+s.idGen(), content)
		if err != nil {
			s.log.Debug("add items rejected", "column_id", columnID, "err", err)
			return false
		}
		items = append(items, item)
	}
	next, ok := s.board.AppendItems(columnID, items)
	if !ok {
		s.log.Debug("add items ignored", "column_id", columnID, "count", len(items))
		return false
	}
	s.board = next
	s.log.Debug("items added", "column_id", columnID, "count", len(items))
	return true
}

// BeginDrag enters the dragging state for itemID.
func (s *Service) BeginDrag(itemID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disabledLocked() {
		return false
	}
	if s.board.Resolve(itemID).Kind != domain.TargetItem {
		return false
	}
	s.activeID = itemID
	return true
}

// HoverMove relocates the dragged item into another column as the pointer passes over it.
// The move is committed immediately and is not rolled back if the gesture is cancelled.
func (s *Service) HoverMove(activeID, overID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disabledLocked() {
		return false
	}
	next, ok := s.board.MoveAcross(activeID, overID)
	if !ok {
		return false
	}
	s.board = next
	s.log.Debug("hover move", "item_id", activeID, "over_id", overID)
	return true
}

// EndDrag leaves the dragging state and settles a same-column reorder.
// Cross-column placement was already applied by the last HoverMove.
func (s *Service) EndDrag(activeID, overID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeID = ""
	if s.disabledLocked() {
		return false
	}
	if overID == "" || activeID == overID {
		return false
	}
	next, ok := s.board.Reorder(activeID, overID)
	if !ok {
		return false
	}
	s.board = next
	s.log.Debug("drop reorder", "item_id", activeID, "over_id", overID)
	return true
}

// Export renders the current board through the configured exporter.
// The gate stays closed while the export runs and is reopened on every outcome.
func (s *Service) Export(ctx context.Context) (ExportResult, error) {
	s.mu.Lock()
	if s.exporter == nil {
		s.mu.Unlock()
		return ExportResult{}, ErrNoExporter
	}
	if s.exporting {
		s.mu.Unlock()
		return ExportResult{}, ErrExportInProgress
	}
	s.exporting = true
	req := ExportRequest{Title: s.title, Topic: strings.TrimSpace(s.topic), Board: s.board}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.exporting = false
		s.mu.Unlock()
	}()

	s.log.Info("board export started", "columns", req.Board.Len(), "items", len(req.Board.ItemIDs()))
	result, err := s.exporter.ExportBoard(ctx, req)
	if err != nil {
		s.log.Error("board export failed", "err", err)
		return ExportResult{}, fmt.Errorf("export board: %w", err)
	}
	s.log.Info("board export complete", "path", result.Path, "bytes", result.Bytes)
	return result, nil
}

// PlainText renders the board as plain text for clipboard copies.
func (s *Service) PlainText() string {
	st := s.Snapshot()
	var b strings.Builder
	b.WriteString(st.Title)
	b.WriteString("\n")
	if topic := strings.TrimSpace(st.Topic); topic != "" {
		b.WriteString("Topic: " + topic + "\n")
	}
	for _, column := range st.Board.Columns() {
		b.WriteString("\n" + column.Title + "\n")
		if len(column.Items) == 0 {
			b.WriteString("  (empty)\n")
			continue
		}
		for _, item := range column.Items {
			b.WriteString("  - " + item.Content + "\n")
		}
	}
	return b.String()
}
