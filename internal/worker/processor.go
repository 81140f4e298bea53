package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"

	"github.com/google/uuid"

	"github.com/Ji-Haitang/char-card-1/internal/queue"
	"github.com/Ji-Haitang/char-card-1/internal/storage"
	"github.com/Ji-Haitang/char-card-1/pkg/event"
	"github.com/Ji-Haitang/char-card-1/pkg/gamestate"
	"github.com/Ji-Haitang/char-card-1/pkg/parser"
	"github.com/Ji-Haitang/char-card-1/pkg/reconcile"
	"github.com/Ji-Haitang/char-card-1/pkg/turn"
)

// ErrGameStateNotFound is returned when a request names a session that
// does not exist or has expired.
var ErrGameStateNotFound = errors.New("game state not found")

// specialStoryPrefix marks an event option that continues a scripted
// storyline instead of rolling a success rate.
const specialStoryPrefix = "特殊剧情:"

// TurnProcessor is the single mutation path for game states: narrator
// turns, scripted replays, event choices and minigame results all flow
// through here so parse, reconcile, event check and persist always
// happen in the same order.
type TurnProcessor struct {
	storage    storage.Storage
	queue      *queue.TurnQueue
	reconciler *reconcile.Reconciler
	engine     *event.Engine
	logger     *slog.Logger
}

func NewTurnProcessor(st storage.Storage, tq *queue.TurnQueue, rec *reconcile.Reconciler, engine *event.Engine, logger *slog.Logger) *TurnProcessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &TurnProcessor{
		storage:    st,
		queue:      tq,
		reconciler: rec,
		engine:     engine,
		logger:     logger,
	}
}

// NewDefaultProcessor wires the built-in event table and a fresh random
// source.
func NewDefaultProcessor(st storage.Storage, tq *queue.TurnQueue, logger *slog.Logger, rng *rand.Rand) *TurnProcessor {
	return NewTurnProcessor(st, tq, reconcile.New(logger, rng), event.NewBuiltinEngine(logger), logger)
}

// ProcessTurn runs one narrator response through the full pipeline:
// section split, mode-dependent parse, sidecar reconcile, special-event
// check and persist.
func (p *TurnProcessor) ProcessTurn(ctx context.Context, req *turn.Request) (*turn.Response, error) {
	gs, err := p.storage.LoadGameState(ctx, req.GameStateID)
	if err != nil {
		return nil, fmt.Errorf("failed to load game state: %w", err)
	}
	if gs == nil {
		return nil, ErrGameStateNotFound
	}

	resp, err := p.processAgainst(ctx, gs, req)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// processAgainst is the shared body for live turns and scripted replays.
func (p *TurnProcessor) processAgainst(ctx context.Context, gs *gamestate.GameState, req *turn.Request) (*turn.Response, error) {
	sections := parser.SplitSections(req.Raw)

	parsed := &parser.ParsedTurn{
		Meta: parser.ParseSidecar(sections.SideNote),
	}
	if gs.GameMode == gamestate.ModeSLG {
		parsed.Pages = parser.ParseSLG(sections.MainText, gs.CompanionNPC...)
	} else {
		parsed.Prose = parser.ParseClassic(sections.MainText)
	}

	notes := p.reconciler.Apply(gs, parsed)

	if req.ConsumeActionPoint {
		if _, exhausted := gs.SpendActionPoint(); exhausted {
			gs.AdvanceWeek(p.rng())
			notes = append(notes, fmt.Sprintf("本周行动结束，进入第%d周", gs.CurrentWeek))
		}
	}

	if err := p.checkSpecialEvents(ctx, gs); err != nil {
		return nil, err
	}

	if err := p.storage.SaveGameState(ctx, gs.ID, gs); err != nil {
		return nil, fmt.Errorf("failed to save game state: %w", err)
	}

	resp := &turn.Response{
		GameStateID:   gs.ID,
		Pages:         parsed.Pages,
		Prose:         parsed.Prose,
		Notifications: notes,
		GameState:     gs,
	}
	if req.Action != "" {
		resp.UserMessage = turn.BuildUserMessage(gs, req.Action)
	}
	return resp, nil
}

// checkSpecialEvents triggers at most one pending rule: effects and
// bookkeeping apply immediately, the scripted text goes to the replay
// queue rather than rendering inline. While an unresolved random or
// battle event is pending, no rule fires; storyline chains advance on
// the resolving choice, not on the replay that raised the options.
func (p *TurnProcessor) checkSpecialEvents(ctx context.Context, gs *gamestate.GameState) error {
	if len(gs.PendingEvent) > 0 {
		return nil
	}
	e := p.engine.Check(gs)
	if e == nil {
		return nil
	}

	p.logger.Info("special event triggered", "event_id", e.ID, "game_state_id", gs.ID.String())
	p.engine.Trigger(gs, e)

	if err := p.storage.SaveGameState(ctx, gs.ID, gs); err != nil {
		return fmt.Errorf("failed to save game state after event trigger: %w", err)
	}

	if e.Text != "" {
		qt := &turn.Queued{
			GameStateID: gs.ID,
			EventID:     e.ID,
			Raw:         e.Text,
		}
		if err := p.queue.EnqueueScripted(ctx, qt); err != nil {
			return fmt.Errorf("failed to enqueue scripted turn: %w", err)
		}
	}
	return nil
}

// ProcessScripted drains a game's replay queue, running each deferred
// scripted turn through the regular pipeline in order.
func (p *TurnProcessor) ProcessScripted(ctx context.Context, gameStateID uuid.UUID) ([]*turn.Response, error) {
	queued, err := p.queue.DequeueScripted(ctx, gameStateID)
	if err != nil {
		return nil, err
	}
	if len(queued) == 0 {
		return nil, nil
	}

	responses := make([]*turn.Response, 0, len(queued))
	for _, qt := range queued {
		resp, err := p.ProcessTurn(ctx, &turn.Request{
			GameStateID: gameStateID,
			Raw:         qt.Raw,
		})
		if err != nil {
			return responses, fmt.Errorf("failed to replay scripted turn %s: %w", qt.EventID, err)
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

// ResolveChoice settles a pending random event by option number.
// Scripted-continuation options bypass the success roll and hand the
// turn to the event engine instead.
func (p *TurnProcessor) ResolveChoice(ctx context.Context, req *turn.ChoiceRequest) (*turn.Response, error) {
	gs, err := p.storage.LoadGameState(ctx, req.GameStateID)
	if err != nil {
		return nil, fmt.Errorf("failed to load game state: %w", err)
	}
	if gs == nil {
		return nil, ErrGameStateNotFound
	}

	pending := reconcile.PendingEvent(gs)
	if pending == nil {
		return nil, fmt.Errorf("no pending event for game state %s", req.GameStateID)
	}
	options := pending.Options()
	if req.Option < 1 || req.Option > len(options) {
		return nil, fmt.Errorf("invalid option %d: event has %d options", req.Option, len(options))
	}
	option := options[req.Option-1]

	var message string
	if strings.HasPrefix(option.Description, specialStoryPrefix) {
		action := strings.TrimSpace(strings.TrimPrefix(option.Description, specialStoryPrefix))
		gs.PendingEvent = nil
		gs.InputEnabled = true
		gs.RandomEventFlag = 0
		message = "{{user}}行动选择：" + action
	} else {
		_, message = p.reconciler.ResolveOption(gs, pending, option)
	}

	if err := p.checkSpecialEvents(ctx, gs); err != nil {
		return nil, err
	}

	if err := p.storage.SaveGameState(ctx, gs.ID, gs); err != nil {
		return nil, fmt.Errorf("failed to save game state: %w", err)
	}

	return &turn.Response{
		GameStateID: gs.ID,
		UserMessage: turn.BuildResultMessage(gs, message),
		GameState:   gs,
	}, nil
}

// ProcessMinigame folds a minigame exit payload into the state. The
// payload shape follows the named game.
func (p *TurnProcessor) ProcessMinigame(ctx context.Context, req *turn.MinigameRequest) (*turn.Response, error) {
	gs, err := p.storage.LoadGameState(ctx, req.GameStateID)
	if err != nil {
		return nil, fmt.Errorf("failed to load game state: %w", err)
	}
	if gs == nil {
		return nil, ErrGameStateNotFound
	}

	var message string
	switch req.Game {
	case "battle":
		var result reconcile.BattleResult
		if err := json.Unmarshal(req.Payload, &result); err != nil {
			return nil, fmt.Errorf("invalid battle payload: %w", err)
		}
		message = p.reconciler.FoldBattle(gs, &result)

	case "blackjack":
		var result reconcile.BlackjackResult
		if err := json.Unmarshal(req.Payload, &result); err != nil {
			return nil, fmt.Errorf("invalid blackjack payload: %w", err)
		}
		message = p.reconciler.FoldBlackjack(gs, &result)

	case "farm":
		var result reconcile.FarmResult
		if err := json.Unmarshal(req.Payload, &result); err != nil {
			return nil, fmt.Errorf("invalid farm payload: %w", err)
		}
		p.reconciler.FoldFarm(gs, &result)

	case "alchemy":
		var result reconcile.AlchemyResult
		if err := json.Unmarshal(req.Payload, &result); err != nil {
			return nil, fmt.Errorf("invalid alchemy payload: %w", err)
		}
		p.reconciler.FoldAlchemy(gs, &result)

	case "worldmap":
		var result reconcile.WorldMapResult
		if err := json.Unmarshal(req.Payload, &result); err != nil {
			return nil, fmt.Errorf("invalid worldmap payload: %w", err)
		}
		message = p.reconciler.FoldWorldMap(gs, &result)

	default:
		return nil, fmt.Errorf("unknown minigame: %s", req.Game)
	}

	if err := p.checkSpecialEvents(ctx, gs); err != nil {
		return nil, err
	}

	if err := p.storage.SaveGameState(ctx, gs.ID, gs); err != nil {
		return nil, fmt.Errorf("failed to save game state: %w", err)
	}

	resp := &turn.Response{
		GameStateID: gs.ID,
		GameState:   gs,
	}
	if message != "" {
		resp.UserMessage = turn.BuildResultMessage(gs, message)
	}
	return resp, nil
}

func (p *TurnProcessor) rng() *rand.Rand {
	return p.reconciler.Rand()
}
