package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"holdco/internal/game"
	"holdco/internal/store"
	"holdco/internal/syncq"
)

type Client struct {
	BaseURL string
	Token   string
	Player  string
	HTTP    *http.Client
}

func NewClient(baseURL, token, player string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		Player:  player,
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) CreateGame(ctx context.Context, mode string, seed *uint32) (*game.GameState, error) {
	body := map[string]any{"mode": mode}
	if seed != nil {
		body["seed"] = *seed
	}
	var out game.GameState
	if err := c.jsonRequest(ctx, http.MethodPost, "/v1/games", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListGames(ctx context.Context, limit int) ([]store.GameRow, error) {
	path := "/v1/games"
	if limit > 0 {
		path = fmt.Sprintf("/v1/games?limit=%d", limit)
	}
	var out struct {
		Games []store.GameRow `json:"games"`
	}
	if err := c.jsonRequest(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Games, nil
}

func (c *Client) GetGame(ctx context.Context, id string) (*game.GameState, error) {
	var out game.GameState
	if err := c.jsonRequest(ctx, http.MethodGet, "/v1/games/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type ApplyResponse struct {
	Result game.ActionResult `json:"result"`
	State  *game.GameState   `json:"state"`
}

func (c *Client) ApplyAction(ctx context.Context, gameID string, act game.Action) (ApplyResponse, error) {
	var out ApplyResponse
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/games/"+url.PathEscape(gameID)+"/actions", act, &out)
	return out, err
}

func (c *Client) GameAnalytics(ctx context.Context, id string) (game.Analytics, error) {
	var out game.Analytics
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/games/"+url.PathEscape(id)+"/analytics", nil, &out)
	return out, err
}

func (c *Client) CreateChallenge(ctx context.Context, name, mode string, seed *uint32) (store.Challenge, error) {
	body := map[string]any{"name": name, "mode": mode}
	if seed != nil {
		body["seed"] = *seed
	}
	var out store.Challenge
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/challenges", body, &out)
	return out, err
}

func (c *Client) GetChallenge(ctx context.Context, id string) (store.Challenge, error) {
	var out store.Challenge
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/challenges/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (c *Client) SubmitRun(ctx context.Context, challengeID string, actions []game.Action) (store.ChallengeRun, error) {
	var out store.ChallengeRun
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/challenges/"+url.PathEscape(challengeID)+"/runs", map[string]any{
		"actions": actions,
	}, &out)
	return out, err
}

func (c *Client) Leaderboard(ctx context.Context, challengeID string, limit int) ([]store.LeaderboardRow, error) {
	path := "/v1/challenges/" + url.PathEscape(challengeID) + "/leaderboard"
	if limit > 0 {
		path += fmt.Sprintf("?limit=%d", limit)
	}
	var out struct {
		Leaderboard []store.LeaderboardRow `json:"leaderboard"`
	}
	if err := c.jsonRequest(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Leaderboard, nil
}

func (c *Client) SyncReplay(ctx context.Context, commands []syncq.Command) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/sync/replay", map[string]any{
		"commands": commands,
	}, &out)
	return out, err
}

func (c *Client) jsonRequest(ctx context.Context, method, path string, in any, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	if c.Player != "" {
		req.Header.Set("X-Player", c.Player)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("api status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
