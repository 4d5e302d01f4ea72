package quest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/zenquest/pkg/actionguard"
	"github.com/jwebster45206/zenquest/pkg/directive"
	"github.com/jwebster45206/zenquest/pkg/prompts"
)

// FoeName is the fixed opponent of quest battles.
const FoeName = "Zen Opponent"

// Battle ids are rolled from this range, one per encounter.
const (
	minBattleID = 1000
	maxBattleID = 9999
)

// Zen point awards: victories earn 30-50, defeats lose 10-20.
const (
	minVictoryPoints = 30
	maxVictoryPoints = 50
	minDefeatPoints  = 10
	maxDefeatPoints  = 20
)

// Fixed participant-facing lines. Generated narrative wraps around
// them, but these never vary.
const (
	msgUnfeasible     = "That action is not possible in this realm. Please choose a different path."
	msgForbidden      = "Your choice leads to an unfortunate end."
	reasonForbidden   = "You have chosen a path that ends your journey prematurely."
	msgSurrendered    = "You have surrendered in battle."
	reasonSurrender   = "You chose to surrender, ending your quest."
	msgCombatReminder = "You are currently in combat. Make your move: Strike, Defend, Focus, Zen Strike or Mind Trap. You may also surrender."
	msgBattleFaded    = "The battle has faded like morning mist. Your journey continues."
	msgRiddleCorrect  = "Correct! Your wisdom has been affirmed."
	msgRiddleWrong    = "Incorrect. The correct answer was: %s"
	reasonComplete    = "You have completed your journey!"
	reasonQuestFail   = "Your quest has come to an unfortunate end."
	reasonNoHP        = "Your life force has been depleted. Your journey ends here."
	reasonNoKarma     = "Your actions have led you far astray from the path of enlightenment."
	msgMeditation     = "Your karma and HP have slightly improved."
	msgInterrupted    = "Your quest has been interrupted. You can start a new one at any time."

	// Used when the conclusion itself cannot be generated; the session
	// is removed regardless.
	fallbackConclusion = "The path ends here. Carry what the journey taught you."

	fallbackRiddleQuestion = "I speak without a mouth and hear without ears. I have nobody, but I come alive with the wind. What am I?"
	fallbackRiddleAnswer   = "Echo"
)

// combatChoices mirrors the five-move menu offered during battles.
var combatChoices = []string{"Strike", "Defend", "Focus", "Zen Strike", "Mind Trap"}

// Options wires an Engine. Store, Locker, Generator and Battles are
// required; Ledger, Journal and Events are optional enrichments, and
// Rand, Logger and the tunables default sensibly.
type Options struct {
	Store     Store
	Locker    Locker
	Generator Generator
	Battles   BattleSystem
	Ledger    Ledger
	Journal   Journal
	Events    Publisher
	Rand      Rand
	Logger    *slog.Logger

	// GenTimeout bounds every generation call. Zero means 60s.
	GenTimeout time.Duration
	// JournalDepth caps how many recent scenes a status reply carries.
	// Zero means 20.
	JournalDepth int
}

// Engine runs quest sessions: it owns the routing of participant
// input, all state transitions, and the terminal bookkeeping. One
// Engine serves all sessions; per-session serialization comes from the
// Locker.
type Engine struct {
	store   Store
	locker  Locker
	gen     Generator
	battles BattleSystem
	ledger  Ledger
	journal Journal
	events  Publisher
	rand    Rand
	guard   *actionguard.Guard
	logger  *slog.Logger

	genTimeout   time.Duration
	journalDepth int
}

// New validates the wiring and returns a ready Engine.
func New(opts Options) (*Engine, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if opts.Locker == nil {
		return nil, fmt.Errorf("locker is required")
	}
	if opts.Generator == nil {
		return nil, fmt.Errorf("generator is required")
	}
	if opts.Battles == nil {
		return nil, fmt.Errorf("battle system is required")
	}
	e := &Engine{
		store:        opts.Store,
		locker:       opts.Locker,
		gen:          opts.Generator,
		battles:      opts.Battles,
		ledger:       opts.Ledger,
		journal:      opts.Journal,
		events:       opts.Events,
		rand:         opts.Rand,
		guard:        actionguard.NewGuard(),
		logger:       opts.Logger,
		genTimeout:   opts.GenTimeout,
		journalDepth: opts.JournalDepth,
	}
	if e.rand == nil {
		e.rand = NewRand()
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.genTimeout <= 0 {
		e.genTimeout = 60 * time.Second
	}
	if e.journalDepth <= 0 {
		e.journalDepth = 20
	}
	return e, nil
}

// StartQuest creates a fresh session, replacing any session already
// stored under the id. An empty id mints one; an empty name defaults
// to "Player". The session is persisted only after the goal and the
// opening scene generate successfully.
func (e *Engine) StartQuest(ctx context.Context, id, name string) (*Reply, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if strings.TrimSpace(name) == "" {
		name = "Player"
	}
	unlock, err := e.lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	p := NewPlayer(id, name, e.rand)
	goal, err := e.generate(ctx, prompts.QuestGoal, false)
	if err != nil {
		return nil, fmt.Errorf("failed to generate quest goal: %w", err)
	}
	p.Goal = goal

	sceneText, err := e.generate(ctx, prompts.InitialScene(goal), true)
	if err != nil {
		return nil, fmt.Errorf("failed to generate opening scene: %w", err)
	}
	p.Scene = e.normalizeScene(p.ID, sceneText)

	if err := e.save(ctx, p); err != nil {
		return nil, err
	}
	e.journalScene(ctx, p.ID, p.Scene)
	e.publish(ctx, EventQuestStarted, p.ID, map[string]any{"goal": goal})
	e.logger.Info("quest started", "session_id", p.ID, "total_stages", p.TotalStages)

	desc, choices := directive.SplitScene(p.Scene)
	return &Reply{
		Text:    fmt.Sprintf("Your Zen Quest begins!\n\nQuest goal: %s\n\n%s", goal, desc),
		Choices: choices,
		Player:  p,
	}, nil
}

// Act routes one participant input through the session's current mode:
// combat moves while a battle is live, an answer while a riddle is
// open, otherwise screening and story progression.
func (e *Engine) Act(ctx context.Context, id, input string) (*Reply, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("empty action")
	}
	unlock, err := e.lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	p, err := e.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.InCombat {
		return e.combatTurn(ctx, p, input)
	}
	if p.Riddle.Active {
		return e.riddleTurn(ctx, p, input)
	}

	verdict, phrase := e.guard.Check(input)
	switch verdict {
	case actionguard.VerdictUnfeasible:
		e.logger.Debug("unfeasible action rejected", "session_id", id, "phrase", phrase)
		return &Reply{Text: msgUnfeasible, Player: p}, nil
	case actionguard.VerdictForbidden:
		e.logger.Info("forbidden action ends quest", "session_id", id, "phrase", phrase)
		return e.finish(ctx, p, false, false, msgForbidden, reasonForbidden)
	}
	return e.progress(ctx, p, input)
}

// Meditate generates a meditation interlude and slightly restores the
// participant. The stage does not advance.
func (e *Engine) Meditate(ctx context.Context, id string) (*Reply, error) {
	unlock, err := e.lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	p, err := e.load(ctx, id)
	if err != nil {
		return nil, err
	}
	text, err := e.generate(ctx, prompts.Meditation(p.Scene, string(p.State)), false)
	if err != nil {
		return nil, fmt.Errorf("failed to generate meditation: %w", err)
	}
	p.ApplyKarma(5)
	p.ApplyHP(10)
	if err := e.save(ctx, p); err != nil {
		return nil, err
	}
	e.publish(ctx, EventMeditated, p.ID, nil)
	return &Reply{Text: text, Notices: []string{msgMeditation}, Player: p}, nil
}

// Status reads the session summary without taking the session lock.
func (e *Engine) Status(ctx context.Context, id string) (*Status, error) {
	p, err := e.load(ctx, id)
	if err != nil {
		return nil, err
	}
	st := &Status{
		ID:          p.ID,
		Name:        p.Name,
		Goal:        p.Goal,
		ProgressPct: p.Progress() * 100,
		Stage:       p.Stage,
		TotalStages: p.TotalStages,
		HP:          p.HP,
		Karma:       p.Karma,
		State:       p.State,
		InCombat:    p.InCombat,
		Level:       LevelName(0),
	}
	if e.ledger != nil {
		pts, err := e.ledger.Points(ctx, id)
		if err != nil {
			e.logger.Warn("failed to read zen points", "session_id", id, "error", err)
		} else {
			st.ZenPoints = pts
			st.Level = LevelName(pts)
		}
	}
	if e.journal != nil {
		scenes, err := e.journal.Recent(ctx, id, e.journalDepth)
		if err != nil {
			e.logger.Warn("failed to read journal", "session_id", id, "error", err)
		} else {
			st.RecentScenes = scenes
		}
	}
	return st, nil
}

// Interrupt abandons the session: no conclusion, no zen points. A live
// battle is forfeited.
func (e *Engine) Interrupt(ctx context.Context, id string) (*Reply, error) {
	unlock, err := e.lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	p, err := e.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.InCombat {
		e.battles.Forfeit(p.BattleID)
	}
	p.Active = false
	p.LeaveCombat()
	if err := e.store.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to remove session: %w", err)
	}
	e.clearJournal(ctx, id)
	e.publish(ctx, EventQuestInterrupted, id, nil)
	e.logger.Info("quest interrupted", "session_id", id)
	return &Reply{
		Text:    msgInterrupted,
		Ended:   true,
		Outcome: OutcomeInterrupted,
		Player:  p,
	}, nil
}

// combatTurn handles input while a battle is live. Only moves and
// surrender are meaningful; anything else earns a reminder and changes
// nothing.
func (e *Engine) combatTurn(ctx context.Context, p *Player, input string) (*Reply, error) {
	if isSurrender(input) {
		return e.finish(ctx, p, false, false, msgSurrendered, reasonSurrender)
	}

	res, err := e.battles.Move(ctx, p.BattleID, input)
	switch {
	case errors.Is(err, ErrUnknownMove):
		return &Reply{Text: msgCombatReminder, Choices: combatChoices, Player: p}, nil
	case errors.Is(err, ErrNoBattle):
		// The battle no longer exists, usually after a restart. Drop
		// back into the story instead of stranding the session.
		e.logger.Warn("combat flag without live battle, resuming story", "session_id", p.ID, "battle_id", p.BattleID)
		p.LeaveCombat()
		if err := e.save(ctx, p); err != nil {
			return nil, err
		}
		return &Reply{Text: msgBattleFaded, Player: p}, nil
	case err != nil:
		return nil, fmt.Errorf("combat move failed: %w", err)
	}

	if !res.Over {
		return &Reply{
			Text:    res.Narration,
			Choices: combatChoices,
			Notices: []string{battleStatusLine(p.Name, res)},
			Player:  p,
		}, nil
	}
	return e.finish(ctx, p, res.PlayerWon, true, res.Narration)
}

// riddleTurn resolves an open riddle: exact answer match, case
// aside. Either way the riddle closes and the same input then flows
// through the story, skipping the screening lists.
func (e *Engine) riddleTurn(ctx context.Context, p *Player, input string) (*Reply, error) {
	answer := p.Riddle.Answer
	correct := strings.EqualFold(strings.TrimSpace(input), strings.TrimSpace(answer))
	var verdictLine string
	if correct {
		p.ApplyKarma(10)
		verdictLine = msgRiddleCorrect
	} else {
		p.ApplyKarma(-10)
		verdictLine = fmt.Sprintf(msgRiddleWrong, answer)
	}
	p.Riddle = Riddle{}
	// Persist before progressing: the riddle must stay closed and the
	// karma judgment must stick even if the next scene fails to
	// generate.
	if err := e.save(ctx, p); err != nil {
		return nil, err
	}

	reply, err := e.progress(ctx, p, input)
	if err != nil {
		return nil, err
	}
	reply.Text = verdictLine + "\n\n" + reply.Text
	return reply, nil
}

// progress is the main story step: morality screening, then a fresh
// scene whose directives decide what happens to the session.
func (e *Engine) progress(ctx context.Context, p *Player, input string) (*Reply, error) {
	verdictText, err := e.generate(ctx, prompts.Morality(input), false)
	if err != nil {
		return nil, fmt.Errorf("failed to screen action: %w", err)
	}
	if immoral, reason := directive.ParseVerdict(verdictText); immoral {
		return e.consequence(ctx, p, reason)
	}

	event := RollEvent(e.rand)
	scenePrompt := prompts.Scene(prompts.SceneParams{
		PreviousScene: p.Scene,
		Action:        input,
		State:         string(p.State),
		Goal:          p.Goal,
		Karma:         p.Karma,
		Stage:         p.Stage,
		TotalStages:   p.TotalStages,
		Event:         string(event),
	})
	sceneText, err := e.generate(ctx, scenePrompt, true)
	if err != nil {
		return nil, fmt.Errorf("failed to generate scene: %w", err)
	}
	p.Scene = e.normalizeScene(p.ID, sceneText)

	// Control markers take priority over everything else in the scene,
	// including an HP directive: a marked scene neither advances the
	// stage nor touches HP.
	if marker, ok := directive.FirstMarker(p.Scene); ok {
		switch marker {
		case directive.MarkerCombat:
			return e.sceneCombat(ctx, p)
		case directive.MarkerRiddle:
			return e.sceneRiddle(ctx, p)
		case directive.MarkerComplete:
			return e.finish(ctx, p, true, false, reasonComplete)
		case directive.MarkerFail:
			return e.finish(ctx, p, false, false, reasonQuestFail)
		}
	}

	p.ApplyHP(directive.HPDelta(p.Scene))
	p.AdvanceStage()
	p.ApplyKarma(RollRange(e.rand, -3, 3))
	if err := e.save(ctx, p); err != nil {
		return nil, err
	}
	e.journalScene(ctx, p.ID, p.Scene)
	e.publish(ctx, EventSceneDelivered, p.ID, map[string]any{
		"stage": p.Stage,
		"event": string(event),
	})

	desc, choices := directive.SplitScene(p.Scene)
	if p.HP <= 0 {
		return e.finish(ctx, p, false, false, desc, reasonNoHP)
	}
	if p.Karma < KarmaFloor {
		return e.finish(ctx, p, false, false, desc, reasonNoKarma)
	}
	return &Reply{Text: desc, Choices: choices, Player: p}, nil
}

// consequence handles an immoral verdict: a generated severe
// consequence branches into quest failure, a guardian battle, or a
// karmic affliction. Karma drops only after the consequence text
// exists, so a generation failure leaves the session untouched.
func (e *Engine) consequence(ctx context.Context, p *Player, reason string) (*Reply, error) {
	text, err := e.generate(ctx, prompts.Consequence(reason, p.Scene), false)
	if err != nil {
		return nil, fmt.Errorf("failed to generate consequence: %w", err)
	}
	kind := directive.ClassifyConsequence(text)
	p.ApplyKarma(-20)

	switch kind {
	case directive.ConsequenceQuestFail:
		return e.finish(ctx, p, false, false, text)

	case directive.ConsequenceCombat:
		if err := e.enterBattle(ctx, p); err != nil {
			return nil, err
		}
		return &Reply{
			Text:    text + "\n\n" + combatBanner(),
			Choices: combatChoices,
			Player:  p,
		}, nil

	default: // affliction
		p.ApplyKarma(-10)
		if err := e.save(ctx, p); err != nil {
			return nil, err
		}
		affliction, err := e.generate(ctx, prompts.Affliction(text, p.Karma), false)
		if err != nil {
			return nil, fmt.Errorf("failed to generate affliction: %w", err)
		}
		p.Scene += "\n\n" + affliction
		if err := e.save(ctx, p); err != nil {
			return nil, err
		}
		e.journalScene(ctx, p.ID, p.Scene)
		desc, choices := directive.SplitScene(p.Scene)
		return &Reply{
			Text:    text + "\n\n" + desc,
			Choices: choices,
			Player:  p,
		}, nil
	}
}

// sceneCombat reacts to a COMBAT_START marker: the scene is shown, the
// battle opens, and the session switches to combat mode.
func (e *Engine) sceneCombat(ctx context.Context, p *Player) (*Reply, error) {
	if err := e.enterBattle(ctx, p); err != nil {
		return nil, err
	}
	desc, _ := directive.SplitScene(p.Scene)
	return &Reply{
		Text:    desc + "\n\n" + combatBanner(),
		Choices: combatChoices,
		Player:  p,
	}, nil
}

// sceneRiddle reacts to a RIDDLE_START marker: a riddle is generated
// (or the fallback posed) and the session waits for an answer.
func (e *Engine) sceneRiddle(ctx context.Context, p *Player) (*Reply, error) {
	question, answer := fallbackRiddleQuestion, fallbackRiddleAnswer
	text, err := e.generate(ctx, prompts.RiddleRequest, true)
	if err != nil {
		e.logger.Warn("riddle generation failed, using fallback", "session_id", p.ID, "error", err)
	} else if q, a, ok := directive.ParseRiddle(text); ok {
		question, answer = q, a
	} else {
		e.logger.Warn("riddle response unparseable, using fallback", "session_id", p.ID)
	}
	p.PoseRiddle(question, answer)
	if err := e.save(ctx, p); err != nil {
		return nil, err
	}
	e.publish(ctx, EventRiddlePosed, p.ID, nil)

	desc, _ := directive.SplitScene(p.Scene)
	return &Reply{
		Text:   fmt.Sprintf("%s\n\nRiddle:\n%s\n\nProvide your answer:", desc, question),
		Player: p,
	}, nil
}

// enterBattle rolls a battle id, registers the duel and flips the
// session into combat mode.
func (e *Engine) enterBattle(ctx context.Context, p *Player) error {
	battleID := RollRange(e.rand, minBattleID, maxBattleID)
	if err := e.battles.Start(battleID, p.Name, FoeName); err != nil {
		return fmt.Errorf("failed to start battle: %w", err)
	}
	p.EnterCombat(battleID)
	if err := e.save(ctx, p); err != nil {
		return err
	}
	e.publish(ctx, EventBattleStarted, p.ID, map[string]any{"battle_id": battleID})
	e.logger.Info("battle started", "session_id", p.ID, "battle_id", battleID)
	return nil
}

// finish ends the quest: conclusion, zen points, session removal. The
// parts become the reply text ahead of the conclusion.
func (e *Engine) finish(ctx context.Context, p *Player, victory, battle bool, parts ...string) (*Reply, error) {
	if p.InCombat {
		e.battles.Forfeit(p.BattleID)
		e.publish(ctx, EventBattleEnded, p.ID, map[string]any{
			"battle_id": p.BattleID,
			"won":       victory,
		})
	}
	p.Active = false
	p.LeaveCombat()

	var prompt string
	if battle {
		prompt = prompts.BattleConclusion(victory, p.Stage)
	} else {
		prompt = prompts.Conclusion(victory, p.Stage)
	}
	conclusion, err := e.generate(ctx, prompt, false)
	if err != nil {
		e.logger.Warn("conclusion generation failed, using fallback", "session_id", p.ID, "error", err)
		conclusion = fallbackConclusion
	}

	var points int
	if victory {
		points = RollRange(e.rand, minVictoryPoints, maxVictoryPoints)
	} else {
		points = -RollRange(e.rand, minDefeatPoints, maxDefeatPoints)
	}
	if e.ledger != nil {
		if _, err := e.ledger.AddPoints(ctx, p.ID, points); err != nil {
			e.logger.Error("failed to record zen points", "session_id", p.ID, "points", points, "error", err)
		}
	}

	if err := e.store.Delete(ctx, p.ID); err != nil {
		return nil, fmt.Errorf("failed to remove session: %w", err)
	}
	e.clearJournal(ctx, p.ID)

	outcome := OutcomeDefeat
	eventType := EventQuestFailed
	if victory {
		outcome = OutcomeVictory
		eventType = EventQuestCompleted
	}
	e.publish(ctx, eventType, p.ID, map[string]any{"points": points, "stage": p.Stage})
	e.logger.Info("quest ended", "session_id", p.ID, "victory", victory, "stage", p.Stage, "points", points)

	text := make([]string, 0, len(parts)+2)
	for _, part := range parts {
		if part != "" {
			text = append(text, part)
		}
	}
	text = append(text, conclusion)
	if battle {
		if victory {
			text = append(text, "Outcome: Victory")
		} else {
			text = append(text, "Outcome: Defeat")
		}
	}

	return &Reply{
		Text:    strings.Join(text, "\n\n"),
		Notices: []string{zenPointsLine(points)},
		Ended:   true,
		Outcome: outcome,
		Points:  points,
		Player:  p,
	}, nil
}

// lock acquires the per-session hold and returns its release func.
func (e *Engine) lock(ctx context.Context, id string) (func(), error) {
	token, ok, err := e.locker.Acquire(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire session lock: %w", err)
	}
	if !ok {
		return nil, ErrQuestBusy
	}
	return func() {
		// Release even when the request context is already gone.
		rctx := context.WithoutCancel(ctx)
		if err := e.locker.Release(rctx, id, token); err != nil {
			e.logger.Warn("failed to release session lock", "session_id", id, "error", err)
		}
	}, nil
}

func (e *Engine) load(ctx context.Context, id string) (*Player, error) {
	p, err := e.store.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if p == nil || !p.Active {
		return nil, ErrNoQuest
	}
	return p, nil
}

func (e *Engine) save(ctx context.Context, p *Player) error {
	if err := e.store.Save(ctx, p); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// generate calls the narrative service under the engine's timeout and
// rejects empty responses.
func (e *Engine) generate(ctx context.Context, prompt string, elaborate bool) (string, error) {
	gctx, cancel := context.WithTimeout(ctx, e.genTimeout)
	defer cancel()
	text, err := e.gen.Generate(gctx, prompt, elaborate)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("empty response from generation service")
	}
	return text, nil
}

// normalizeScene rewrites malformed HP directives so downstream
// parsing sees a well-formed scene.
func (e *Engine) normalizeScene(id, scene string) string {
	normalized, fixed := directive.NormalizeHPChange(scene)
	if fixed {
		e.logger.Warn("malformed hp directive normalized", "session_id", id)
	}
	return normalized
}

func (e *Engine) journalScene(ctx context.Context, id, scene string) {
	if e.journal == nil {
		return
	}
	if err := e.journal.Append(ctx, id, scene); err != nil {
		e.logger.Warn("failed to journal scene", "session_id", id, "error", err)
	}
}

func (e *Engine) clearJournal(ctx context.Context, id string) {
	if e.journal == nil {
		return
	}
	if err := e.journal.Clear(ctx, id); err != nil {
		e.logger.Warn("failed to clear journal", "session_id", id, "error", err)
	}
}

func (e *Engine) publish(ctx context.Context, eventType, id string, data map[string]any) {
	if e.events == nil {
		return
	}
	if err := e.events.Publish(ctx, Event{Type: eventType, SessionID: id, Data: data}); err != nil {
		e.logger.Warn("failed to publish event", "type", eventType, "session_id", id, "error", err)
	}
}

func isSurrender(input string) bool {
	s := strings.ToLower(strings.TrimSpace(input))
	return s == "surrender" || s == "/surrender"
}

func combatBanner() string {
	return fmt.Sprintf("Combat initiated!\n\nYou are now in a battle against the %s.\nMake your move: Strike, Defend, Focus, Zen Strike or Mind Trap. You may also surrender.", FoeName)
}

func battleStatusLine(name string, res MoveResult) string {
	return fmt.Sprintf("%s: %d HP, %d energy. %s: %d HP, %d energy.",
		name, res.PlayerHP, res.PlayerEnergy, FoeName, res.FoeHP, res.FoeEnergy)
}

func zenPointsLine(points int) string {
	if points >= 0 {
		return fmt.Sprintf("You have earned %d Zen points!", points)
	}
	return fmt.Sprintf("You have lost %d Zen points!", -points)
}
