package game

import (
	"errors"
	"fmt"
)

// Simulate replays an ordered action log from a fresh state. Two players
// running this with the same tables, mode, seed, and log must land on
// byte-identical states and scores; this is the challenge-mode contract.
// A rejected action aborts the replay: a valid log contains no rejections.
func (e *Engine) Simulate(modeID string, seed uint32, actions []Action) (*GameState, error) {
	st, err := e.NewGame("replay", modeID, seed)
	if err != nil {
		return nil, err
	}
	for i, act := range actions {
		if st.Over() {
			return nil, fmt.Errorf("replay: action %d (%s) after game over", i, act.Kind)
		}
		if _, err := e.Apply(st, act); err != nil {
			if errors.Is(err, ErrGameOver) {
				return nil, fmt.Errorf("replay: action %d (%s) after game over", i, act.Kind)
			}
			return nil, fmt.Errorf("replay: action %d (%s): %w", i, act.Kind, err)
		}
	}
	return st, nil
}
