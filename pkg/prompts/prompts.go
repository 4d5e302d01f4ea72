// Package prompts holds every request template sent to the narrative
// generation service. The engine never assembles prompt text inline;
// the instruction set that drives scene directives (HP_CHANGE, control
// markers, the choices delimiter) lives here so the contract between
// the engine and the model stays in one place.
package prompts

import "fmt"

// System is the persona instruction sent alongside every generation
// request, regardless of provider.
const System = "You are a wise Zen warrior guiding a quest. Maintain realism for human capabilities. Actions should have logical consequences. Provide challenging moral dilemmas and opportunities for growth."

// QuestGoal requests the short goal fixed at session creation.
const QuestGoal = `Create a brief Zen-themed quest goal (max 50 words). Include:
1. A journey of self-discovery or helping others
2. Exploration of a mystical or natural location
3. A search for wisdom or a symbolic artifact
4. A hint at physical and spiritual challenges`

// RiddleRequest asks for a riddle in the exact shape the directive
// parser expects. Responses that stray from it fall back to a
// built-in riddle.
const RiddleRequest = `Provide a challenging yet solvable Zen-themed riddle for the player.
Respond in exactly this format:
Question: <the riddle>
Answer: <the answer, a single word or short phrase>`

const initialSceneFormat = `Create a concise opening scene (max 100 words) for this Zen quest:
%s

Include:
1. A brief description of the starting location
2. An introduction to the quest's purpose
3. Three distinct, non-trivial choices for the player, listed after the exact line "Your Choices:"
4. A hint of challenges ahead`

// InitialScene builds the opening scene request for a fresh quest.
func InitialScene(goal string) string {
	return fmt.Sprintf(initialSceneFormat, goal)
}

// SceneParams carries the session context embedded in a scene request.
type SceneParams struct {
	PreviousScene string
	Action        string
	State         string
	Goal          string
	Karma         int
	Stage         int
	TotalStages   int
	Event         string
}

const sceneFormat = `Previous scene: %s
User's action: %q
Current quest state: %s
Quest goal: %s
Player karma: %d
Current stage: %d
Total stages: %d
Progress: %.1f%%
Event type: %s

Generate the next scene of the Zen-themed quest based on the event type. Include:
1. A vivid description of the new situation or environment (2-3 sentences)
2. The outcome of the user's previous action and its impact (1-2 sentences)
3. A new challenge, obstacle, or decision point (1-2 sentences)
4. Three distinct, non-trivial choices for the player (1 sentence each), listed after the exact line "Your Choices:". At least one choice should lead to potential quest failure or significant setback.
5. A brief Zen-like insight relevant to the situation (1 sentence)
6. If applicable, include "HP_CHANGE: X" where X is the amount of HP gained or lost

Ensure the scene:
- Progresses the quest towards its goal, reflecting the current progress
- Presents a real possibility of failure or setback
- Maintains a balance between physical adventure and spiritual growth
- Incorporates Zen teachings or principles subtly
- Includes more challenging scenarios and consequences

If the event type is "combat", one of the choices must explicitly lead to combat and the scene must include the literal token COMBAT_START.
If the event type is "riddle", the scene must include the literal token RIDDLE_START.
If the event type is "quest_fail", the scene must include the literal token QUEST_FAIL.
If the progress is over 90%% and the quest goal has been fulfilled, include the literal token QUEST_COMPLETE.
If the progress is over 90%%, start building towards a climactic final challenge.

Keep the total response under 200 words.

IMPORTANT: If you include an HP_CHANGE, it must follow this exact format:
HP_CHANGE: X (where X is a positive or negative integer without any symbols)
For example: HP_CHANGE: 5 or HP_CHANGE: -3`

// Scene builds the next-scene request from the current session context.
func Scene(p SceneParams) string {
	progress := 0.0
	if p.TotalStages > 0 {
		progress = float64(p.Stage) / float64(p.TotalStages) * 100
	}
	return fmt.Sprintf(sceneFormat,
		p.PreviousScene, p.Action, p.State, p.Goal,
		p.Karma, p.Stage, p.TotalStages, progress, p.Event)
}

const moralityFormat = `Evaluate the following action in the context of Zen teachings and general morality:
%q
Is this action against Zen principles or morally wrong? Respond with 'Yes' or 'No' and provide a brief explanation (1-2 sentences).
Consider not just violence, but also actions that promote greed, hatred, or delusion.`

// Morality builds the screening request for a proposed action.
func Morality(action string) string {
	return fmt.Sprintf(moralityFormat, action)
}

const consequenceFormat = `The player has committed a severely immoral or unethical act: %s
Current scene: %s

Generate a severe consequence for this action. It should be one of:
1. Immediate quest failure due to a complete violation of Zen principles
2. Confrontation with powerful spiritual guardians leading to combat
3. A karmic curse or spiritual affliction that greatly hinders the player's progress

Provide a vivid description of the consequence (3-4 sentences) and specify the type ('quest_fail', 'combat', or 'affliction').
The consequence should be severe and directly tied to the player's action, emphasizing the weight of moral choices in the quest.
It should also fit within the mystical and spiritual theme of the quest.`

// Consequence builds the request that follows an immoral verdict.
func Consequence(reason, currentScene string) string {
	return fmt.Sprintf(consequenceFormat, reason, currentScene)
}

const afflictionFormat = `The player has been afflicted: %s
Current karma: %d

Describe the immediate consequences and how the affliction changes the current scene in 2-3 sentences.
Integrate it smoothly into the narrative, maintaining the tone and context of the quest.`

// Affliction builds the follow-up narration request that folds a
// karmic curse into the running scene.
func Affliction(description string, karma int) string {
	return fmt.Sprintf(afflictionFormat, description, karma)
}

const meditationFormat = `The player decides to meditate in their current situation:
Current scene: %s
Quest state: %s

Generate a brief meditation experience (2-3 sentences) that:
1. Provides a moment of insight or clarity
2. Slightly improves the player's spiritual state
3. Hints at a possible path forward in the quest`

// Meditation builds the meditation interlude request.
func Meditation(currentScene, state string) string {
	return fmt.Sprintf(meditationFormat, currentScene, state)
}

const conclusionFormat = `Generate a brief, zen-like conclusion for a %s quest that ended at stage %d.
Include:
1. A reflection on the journey and %s
2. A subtle zen teaching or insight gained
3. %s
Keep it concise, around 3-4 sentences.`

// Conclusion builds the closing reflection for a finished quest.
func Conclusion(victory bool, stage int) string {
	if victory {
		return fmt.Sprintf(conclusionFormat, "successful", stage,
			"the growth it brought", "Encouragement for future quests")
	}
	return fmt.Sprintf(conclusionFormat, "failed", stage,
		"the lessons hidden in failure", "Gentle encouragement to try again")
}

const battleMoveFormat = `Briefly describe the outcome of a %s move in a Zen-themed battle.
Include only the most important effects and any notable synergies.
Damage: %s
Healing: %s
Energy changes: cost %d, gained %d
Keep the description under 50 words.`

// BattleMove builds the flavor-text request for one resolved combat
// move. Zero damage and healing render as N/A so the model does not
// invent numbers.
func BattleMove(move string, damage, heal, cost, gain int) string {
	na := func(n int) string {
		if n > 0 {
			return fmt.Sprintf("%d", n)
		}
		return "N/A"
	}
	return fmt.Sprintf(battleMoveFormat, move, na(damage), na(heal), cost, gain)
}

// FoeMindParams is the foe's view of the duel when choosing a move.
type FoeMindParams struct {
	HP         int
	MaxHP      int
	Energy     int
	OpponentHP int
	LastMove   string
}

const foeMindFormat = `You are a Zen warrior engaged in a strategic duel. Your goal is to win decisively by reducing your opponent's HP to 0 while keeping your own HP above 0.

Current situation:
- Your HP: %d/%d
- Opponent's HP: %d/%d
- Your energy: %d/100
- Your last move: %s

Available actions:
- Strike: Deal moderate damage to the opponent. Costs 12 energy.
- Defend: Heal yourself and gain energy. Costs 0 energy, gains 10 energy.
- Focus: Recover energy and increase your critical hit chances for the next turn. Gains 20-30 energy.
- Zen Strike: A powerful move that deals significant damage. Costs 40 energy.
- Mind Trap: Reduces the effectiveness of the opponent's next move by 50%%. Costs 20 energy.

Strategy:
- If your energy is low (below 20), prioritize "Focus" or "Defend" to recover energy.
- Never attempt an action you cannot afford.
- If you used "Focus" on the previous move, follow up with "Strike" or "Zen Strike" for enhanced damage.
- Use "Mind Trap" to weaken the opponent, particularly before a "Zen Strike".
- Prioritize "Zen Strike" if the opponent's HP is low enough for a finishing blow.

Respond with the name of exactly one action.`

// FoeMind builds the move-selection request for the battle foe.
func FoeMind(p FoeMindParams) string {
	last := p.LastMove
	if last == "" {
		last = "None"
	}
	return fmt.Sprintf(foeMindFormat, p.HP, p.MaxHP, p.OpponentHP, p.MaxHP, p.Energy, last)
}

const battleConclusionFormat = `Generate a brief, zen-like conclusion for a %s battle that ended at quest stage %d.
Include:
1. A reflection on the battle and %s
2. A subtle zen teaching or insight gained
3. %s
Keep it concise, around 3-4 sentences.`

// BattleConclusion builds the closing reflection for a resolved
// combat encounter.
func BattleConclusion(victory bool, stage int) string {
	if victory {
		return fmt.Sprintf(battleConclusionFormat, "victorious", stage,
			"the clarity it demanded", "Encouragement for the road ahead")
	}
	return fmt.Sprintf(battleConclusionFormat, "lost", stage,
		"the lessons carried out of defeat", "Gentle encouragement to train and return")
}
