package quest

// EventType labels the narrative category rolled for each scene. The
// category is handed to the generation service as a prompt hint; combat
// and riddle events additionally bias the scene toward entering the
// matching sub-flow.
type EventType string

const (
	EventNormal             EventType = "normal"
	EventChallenge          EventType = "challenge"
	EventReward             EventType = "reward"
	EventMeditation         EventType = "meditation"
	EventNPCEncounter       EventType = "npc_encounter"
	EventMoralDilemma       EventType = "moral_dilemma"
	EventSpiritualTrial     EventType = "spiritual_trial"
	EventNaturalObstacle    EventType = "natural_obstacle"
	EventMysticalPhenomenon EventType = "mystical_phenomenon"
	EventCombat             EventType = "combat"
	EventRiddle             EventType = "riddle"
	EventQuestFail          EventType = "quest_fail"
)

// eventWeights holds relative frequencies. The values are used as-is,
// never renormalized; changing any of them would change observed event
// rates.
var eventWeights = []struct {
	event  EventType
	weight int
}{
	{EventNormal, 30},
	{EventChallenge, 15},
	{EventReward, 5},
	{EventMeditation, 5},
	{EventNPCEncounter, 5},
	{EventMoralDilemma, 10},
	{EventSpiritualTrial, 5},
	{EventNaturalObstacle, 5},
	{EventMysticalPhenomenon, 5},
	{EventCombat, 10},
	{EventRiddle, 3},
	{EventQuestFail, 2},
}

var totalEventWeight = func() int {
	sum := 0
	for _, w := range eventWeights {
		sum += w.weight
	}
	return sum
}()

// RollEvent draws an event type from the weighted distribution.
func RollEvent(r Rand) EventType {
	roll := r.Intn(totalEventWeight)
	for _, w := range eventWeights {
		roll -= w.weight
		if roll < 0 {
			return w.event
		}
	}
	return EventNormal
}
