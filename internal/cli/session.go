package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Session is the ~/.hold login state: who you are on the API and which
// game the bare subcommands act on.
type Session struct {
	Player        string `json:"player"`
	APIToken      string `json:"api_token"`
	CurrentGameID string `json:"current_game_id,omitempty"`
}

func baseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".hold")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}

func sessionPath() (string, error) {
	dir, err := baseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "session.json"), nil
}

func SaveSession(s Session) error {
	path, err := sessionPath()
	if err != nil {
		return err
	}
	body, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, body, 0o600)
}

func LoadSession() (Session, error) {
	path, err := sessionPath()
	if err != nil {
		return Session{}, err
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return Session{}, err
	}
	var s Session
	if err := json.Unmarshal(body, &s); err != nil {
		return Session{}, err
	}
	if strings.TrimSpace(s.Player) == "" {
		return Session{}, fmt.Errorf("no player found in session, run `hold login` first")
	}
	return s, nil
}

func ClearSession() error {
	path, err := sessionPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return os.Remove(path)
}

// SaveLocalGame snapshots a locally played game under ~/.hold/games so a
// run can continue across invocations without the API.
func SaveLocalGame(id string, raw []byte) error {
	dir, err := baseDir()
	if err != nil {
		return err
	}
	gamesDir := filepath.Join(dir, "games")
	if err := os.MkdirAll(gamesDir, 0o700); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(gamesDir, id+".json"), raw, 0o600)
}

func LoadLocalGame(id string) ([]byte, error) {
	dir, err := baseDir()
	if err != nil {
		return nil, err
	}
	return os.ReadFile(filepath.Join(dir, "games", id+".json"))
}

func ListLocalGames() ([]string, error) {
	dir, err := baseDir()
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(filepath.Join(dir, "games"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if strings.HasSuffix(name, ".json") {
			out = append(out, strings.TrimSuffix(name, ".json"))
		}
	}
	return out, nil
}
