package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	cl "holdco/internal/cli"
	"holdco/internal/config"
	"holdco/internal/game"
	"holdco/internal/refdata"
	"holdco/internal/syncq"
)

var localMode bool

func main() {
	cfg := config.LoadCLIFromEnv()
	apiBase := cfg.APIBaseURL
	if !cfg.ColorOutput {
		color.NoColor = true
	}

	root := &cobra.Command{
		Use:          "hold",
		Short:        "Holding company game client",
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVar(&localMode, "local", false, "play against a local save instead of the API")

	root.AddCommand(
		newLoginCmd(&apiBase),
		newLogoutCmd(),
		newNewCmd(&apiBase, cfg.RefdataPath),
		newGamesCmd(&apiBase),
		newUseCmd(),
		newStatusCmd(&apiBase, cfg.RefdataPath),
		newDealsCmd(&apiBase, cfg.RefdataPath),
		newPortfolioCmd(&apiBase, cfg.RefdataPath),
		newAnalyticsCmd(&apiBase, cfg.RefdataPath),
		newActionCmds(&apiBase, cfg.RefdataPath),
		newChallengeCmd(&apiBase),
		newSyncCmd(&apiBase),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newClient(apiBase *string) (*cl.Client, error) {
	session, err := cl.LoadSession()
	if err != nil {
		return nil, err
	}
	return cl.NewClient(strings.TrimRight(strings.TrimSpace(*apiBase), "/"), session.APIToken, session.Player), nil
}

func loadTables(refdataPath string) (*refdata.Tables, error) {
	if refdataPath == "" {
		return refdata.Default(), nil
	}
	return refdata.Load(refdataPath)
}

func localEngine(refdataPath string) (*game.Engine, error) {
	tables, err := loadTables(refdataPath)
	if err != nil {
		return nil, err
	}
	return game.NewEngine(tables, nil), nil
}

// resolveGameID fills in the game when the command didn't name one: the
// session's current game remotely, or the lone local save in local mode.
func resolveGameID(args []string) (string, error) {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return strings.TrimSpace(args[0]), nil
	}
	if localMode {
		ids, err := cl.ListLocalGames()
		if err != nil {
			return "", err
		}
		switch len(ids) {
		case 0:
			return "", errors.New("no local games, run `hold new --local` first")
		case 1:
			return ids[0], nil
		default:
			return "", fmt.Errorf("multiple local games, name one of: %s", strings.Join(ids, ", "))
		}
	}
	session, err := cl.LoadSession()
	if err != nil {
		return "", err
	}
	if session.CurrentGameID == "" {
		return "", errors.New("no current game, run `hold new` or `hold use <game_id>`")
	}
	return session.CurrentGameID, nil
}

func loadLocalState(id string) (*game.GameState, error) {
	raw, err := cl.LoadLocalGame(id)
	if err != nil {
		return nil, err
	}
	return game.Decode(raw)
}

func saveLocalState(st *game.GameState) error {
	raw, err := game.Encode(st)
	if err != nil {
		return err
	}
	return cl.SaveLocalGame(st.ID, raw)
}

func fetchState(ctx context.Context, apiBase *string, refdataPath, id string) (*game.GameState, error) {
	if localMode {
		return loadLocalState(id)
	}
	client, err := newClient(apiBase)
	if err != nil {
		return nil, err
	}
	return client.GetGame(ctx, id)
}

// runAction routes one action to the right backend. Remotely, a network
// failure queues the command under ~/.hold for a later `hold sync` instead
// of losing it.
func runAction(cmd *cobra.Command, apiBase *string, refdataPath string, gameArgs []string, act game.Action) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	id, err := resolveGameID(gameArgs)
	if err != nil {
		return err
	}

	if localMode {
		engine, err := localEngine(refdataPath)
		if err != nil {
			return err
		}
		st, err := loadLocalState(id)
		if err != nil {
			return err
		}
		res, err := engine.Apply(st, act)
		if err != nil {
			return err
		}
		if err := saveLocalState(st); err != nil {
			return err
		}
		renderResult(res)
		if st.Over() {
			renderState(st)
		}
		return nil
	}

	client, err := newClient(apiBase)
	if err != nil {
		return err
	}
	out, err := client.ApplyAction(ctx, id, act)
	if err != nil {
		if isNetworkError(err) {
			if qerr := syncq.Push(syncq.Command{GameID: id, Action: act}); qerr != nil {
				return qerr
			}
			printWarn("API unreachable, action queued. Run `hold sync` when back online.")
			return nil
		}
		return err
	}
	renderResult(out.Result)
	if out.State != nil && out.State.Over() {
		renderState(out.State)
	}
	return nil
}

// isNetworkError separates transport failures worth queueing from API
// rejections, which would be rejected again on replay.
func isNetworkError(err error) bool {
	return err != nil && !strings.Contains(err.Error(), "api status ")
}

func newLoginCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Save player handle and API token",
		RunE: func(cmd *cobra.Command, args []string) error {
			player, err := promptRequired("Player handle")
			if err != nil {
				return err
			}
			token, err := promptRequired("API token")
			if err != nil {
				return err
			}
			if err := cl.SaveSession(cl.Session{Player: player, APIToken: token}); err != nil {
				return err
			}
			printSuccess("Session saved.")
			return nil
		},
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cl.ClearSession(); err != nil {
				return err
			}
			printSuccess("Session cleared.")
			return nil
		},
	}
}

func newNewCmd(apiBase *string, refdataPath string) *cobra.Command {
	var mode string
	var seed uint32
	var seedSet bool
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Start a new game",
		RunE: func(cmd *cobra.Command, args []string) error {
			seedSet = cmd.Flags().Changed("seed")

			if localMode {
				engine, err := localEngine(refdataPath)
				if err != nil {
					return err
				}
				if mode == "" {
					mode = "standard_10"
				}
				s := seed
				if !seedSet {
					s = uint32(time.Now().UnixNano())
				}
				st, err := engine.NewGame(uuid.NewString(), mode, s)
				if err != nil {
					return err
				}
				if err := saveLocalState(st); err != nil {
					return err
				}
				printSuccess(fmt.Sprintf("Local game %s started (mode %s, seed %d).", st.ID, st.Mode, st.Seed))
				renderState(st)
				renderDeals(st)
				return nil
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client, err := newClient(apiBase)
			if err != nil {
				return err
			}
			var seedArg *uint32
			if seedSet {
				seedArg = &seed
			}
			st, err := client.CreateGame(ctx, mode, seedArg)
			if err != nil {
				return err
			}
			session, err := cl.LoadSession()
			if err != nil {
				return err
			}
			session.CurrentGameID = st.ID
			if err := cl.SaveSession(session); err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Game %s started (mode %s, seed %d).", st.ID, st.Mode, st.Seed))
			renderState(st)
			renderDeals(st)
			return nil
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "", "game mode (default standard_10)")
	cmd.Flags().Uint32Var(&seed, "seed", 0, "deterministic seed")
	return cmd
}

func newGamesCmd(apiBase *string) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "games",
		Short: "List saved games",
		RunE: func(cmd *cobra.Command, args []string) error {
			if localMode {
				ids, err := cl.ListLocalGames()
				if err != nil {
					return err
				}
				if len(ids) == 0 {
					printInfo("No local games.")
					return nil
				}
				for _, id := range ids {
					fmt.Println(id)
				}
				return nil
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client, err := newClient(apiBase)
			if err != nil {
				return err
			}
			rows, err := client.ListGames(ctx, limit)
			if err != nil {
				return err
			}
			renderGameRows(rows)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "max games to list")
	return cmd
}

func newUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <game_id>",
		Short: "Set the current game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := cl.LoadSession()
			if err != nil {
				return err
			}
			session.CurrentGameID = strings.TrimSpace(args[0])
			if err := cl.SaveSession(session); err != nil {
				return err
			}
			printSuccess("Current game set.")
			return nil
		},
	}
}

func newStatusCmd(apiBase *string, refdataPath string) *cobra.Command {
	return &cobra.Command{
		Use:   "status [game_id]",
		Short: "Show holdco status",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			id, err := resolveGameID(args)
			if err != nil {
				return err
			}
			st, err := fetchState(ctx, apiBase, refdataPath, id)
			if err != nil {
				return err
			}
			renderState(st)
			return nil
		},
	}
}

func newDealsCmd(apiBase *string, refdataPath string) *cobra.Command {
	return &cobra.Command{
		Use:   "deals [game_id]",
		Short: "Show the deal pipeline",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			id, err := resolveGameID(args)
			if err != nil {
				return err
			}
			st, err := fetchState(ctx, apiBase, refdataPath, id)
			if err != nil {
				return err
			}
			renderDeals(st)
			return nil
		},
	}
}

func newPortfolioCmd(apiBase *string, refdataPath string) *cobra.Command {
	return &cobra.Command{
		Use:   "portfolio [game_id]",
		Short: "Show the operating portfolio",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			id, err := resolveGameID(args)
			if err != nil {
				return err
			}
			st, err := fetchState(ctx, apiBase, refdataPath, id)
			if err != nil {
				return err
			}
			renderPortfolio(st)
			return nil
		},
	}
}

func newAnalyticsCmd(apiBase *string, refdataPath string) *cobra.Command {
	return &cobra.Command{
		Use:   "analytics [game_id]",
		Short: "Show play-style analytics",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			id, err := resolveGameID(args)
			if err != nil {
				return err
			}
			if localMode {
				st, err := loadLocalState(id)
				if err != nil {
					return err
				}
				renderAnalytics(game.Analyze(st))
				return nil
			}
			client, err := newClient(apiBase)
			if err != nil {
				return err
			}
			a, err := client.GameAnalytics(ctx, id)
			if err != nil {
				return err
			}
			renderAnalytics(a)
			return nil
		},
	}
}

// newActionCmds wires every in-game move to one runAction path so remote
// and local play stay behaviorally identical.
func newActionCmds(apiBase *string, refdataPath string) *cobra.Command {
	parent := &cobra.Command{
		Use:   "do",
		Short: "Play an action against the current game",
	}

	var platformID string
	buy := &cobra.Command{
		Use:   "buy <deal_id> <structure>",
		Short: "Acquire a pipeline deal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd, apiBase, refdataPath, nil, game.Action{
				Kind: game.KindAcquire,
				Acquire: &game.AcquireAction{
					DealID:     args[0],
					Structure:  game.StructureKind(args[1]),
					PlatformID: platformID,
				},
			})
		},
	}
	buy.Flags().StringVar(&platformID, "platform", "", "tuck the target into this platform")

	pass := &cobra.Command{
		Use:   "pass <deal_id>",
		Short: "Pass on a deal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd, apiBase, refdataPath, nil, game.Action{
				Kind:     game.KindPassDeal,
				PassDeal: &game.PassDealAction{DealID: args[0]},
			})
		},
	}

	sell := &cobra.Command{
		Use:   "sell <business_id>",
		Short: "Sell a business",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd, apiBase, refdataPath, nil, game.Action{
				Kind: game.KindSell,
				Sell: &game.SellAction{BusinessID: args[0]},
			})
		},
	}

	windDown := &cobra.Command{
		Use:   "winddown <business_id>",
		Short: "Wind a business down",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd, apiBase, refdataPath, nil, game.Action{
				Kind:     game.KindWindDown,
				WindDown: &game.WindDownAction{BusinessID: args[0]},
			})
		},
	}

	merge := &cobra.Command{
		Use:   "merge <source_id> <target_id>",
		Short: "Fold one business into another",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd, apiBase, refdataPath, nil, game.Action{
				Kind:  game.KindMerge,
				Merge: &game.MergeAction{SourceID: args[0], TargetID: args[1]},
			})
		},
	}

	var flagName string
	flag := &cobra.Command{
		Use:   "flag <business_id>",
		Short: "Flag a business as a platform",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd, apiBase, refdataPath, nil, game.Action{
				Kind:         game.KindFlagPlatform,
				FlagPlatform: &game.FlagPlatformAction{BusinessID: args[0], Name: flagName},
			})
		},
	}
	flag.Flags().StringVar(&flagName, "name", "", "platform name")

	var forgeName string
	forge := &cobra.Command{
		Use:   "forge <recipe_id> <member_id>...",
		Short: "Forge flagged businesses into a branded platform",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd, apiBase, refdataPath, nil, game.Action{
				Kind: game.KindForgePlatform,
				ForgePlatform: &game.ForgePlatformAction{
					RecipeID:  args[0],
					MemberIDs: args[1:],
					Name:      forgeName,
				},
			})
		},
	}
	forge.Flags().StringVar(&forgeName, "name", "", "platform name")

	turnaround := &cobra.Command{
		Use:   "turnaround <business_id> <program_id>",
		Short: "Start a turnaround program",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd, apiBase, refdataPath, nil, game.Action{
				Kind:       game.KindTurnaround,
				Turnaround: &game.TurnaroundAction{BusinessID: args[0], ProgramID: args[1]},
			})
		},
	}

	unlock := &cobra.Command{
		Use:   "unlock <tier>",
		Short: "Unlock the next turnaround tier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tier, err := strconv.Atoi(args[0])
			if err != nil {
				return err
			}
			return runAction(cmd, apiBase, refdataPath, nil, game.Action{
				Kind:       game.KindUnlockTier,
				UnlockTier: &game.UnlockTierAction{Tier: tier},
			})
		},
	}

	sourcing := &cobra.Command{
		Use:   "sourcing <tier>",
		Short: "Move to a sourcing tier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tier, err := strconv.Atoi(args[0])
			if err != nil {
				return err
			}
			return runAction(cmd, apiBase, refdataPath, nil, game.Action{
				Kind:         game.KindSourcingTier,
				SourcingTier: &game.SourcingTierAction{Tier: tier},
			})
		},
	}

	service := &cobra.Command{
		Use:   "service <activate|deactivate> <service_id>",
		Short: "Toggle a shared service",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := game.KindActivateSvc
			switch args[0] {
			case "activate":
			case "deactivate":
				kind = game.KindDeactivateSvc
			default:
				return fmt.Errorf("want activate or deactivate, got %q", args[0])
			}
			return runAction(cmd, apiBase, refdataPath, nil, game.Action{
				Kind:    kind,
				Service: &game.ServiceAction{ServiceID: args[1]},
			})
		},
	}

	raise := &cobra.Command{
		Use:   "raise <amount_k>",
		Short: "Issue equity for cash (amount in $k)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseMoneyArg(args[0])
			if err != nil {
				return err
			}
			return runAction(cmd, apiBase, refdataPath, nil, game.Action{
				Kind:        game.KindIssueEquity,
				IssueEquity: &game.IssueEquityAction{AmountMicros: amount},
			})
		},
	}

	buyback := &cobra.Command{
		Use:   "buyback <amount_k>",
		Short: "Buy back shares (amount in $k)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseMoneyArg(args[0])
			if err != nil {
				return err
			}
			return runAction(cmd, apiBase, refdataPath, nil, game.Action{
				Kind:    game.KindBuyback,
				Buyback: &game.BuybackAction{AmountMicros: amount},
			})
		},
	}

	distribute := &cobra.Command{
		Use:   "distribute <amount_k>",
		Short: "Distribute cash to shareholders (amount in $k)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseMoneyArg(args[0])
			if err != nil {
				return err
			}
			return runAction(cmd, apiBase, refdataPath, nil, game.Action{
				Kind:         game.KindDistribution,
				Distribution: &game.DistributionAction{AmountMicros: amount},
			})
		},
	}

	var repayBusiness string
	repay := &cobra.Command{
		Use:   "repay <seller_note|bank_debt|holdco> <amount_k>",
		Short: "Pay down debt early (amount in $k)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseMoneyArg(args[1])
			if err != nil {
				return err
			}
			return runAction(cmd, apiBase, refdataPath, nil, game.Action{
				Kind: game.KindRepayDebt,
				RepayDebt: &game.RepayDebtAction{
					BusinessID:   repayBusiness,
					Instrument:   args[0],
					AmountMicros: amount,
				},
			})
		},
	}
	repay.Flags().StringVar(&repayBusiness, "business", "", "business carrying the instrument")

	var restructureBusiness string
	var restructureAmount string
	restructure := &cobra.Command{
		Use:   "restructure <distressed_sale|emergency_raise|bankruptcy>",
		Short: "Resolve a covenant breach",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			act := game.Action{
				Kind: game.KindRestructure,
				Restructure: &game.RestructureAction{
					Mode:       game.RestructureMode(args[0]),
					BusinessID: restructureBusiness,
				},
			}
			if restructureAmount != "" {
				amount, err := parseMoneyArg(restructureAmount)
				if err != nil {
					return err
				}
				act.Restructure.AmountMicros = amount
			}
			return runAction(cmd, apiBase, refdataPath, nil, act)
		},
	}
	restructure.Flags().StringVar(&restructureBusiness, "business", "", "asset for a distressed sale")
	restructure.Flags().StringVar(&restructureAmount, "amount", "", "emergency raise size in $k")

	end := &cobra.Command{
		Use:   "end",
		Short: "Close the round",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd, apiBase, refdataPath, nil, game.Action{Kind: game.KindEndRound})
		},
	}

	parent.AddCommand(buy, pass, sell, windDown, merge, flag, forge, turnaround,
		unlock, sourcing, service, raise, buyback, distribute, repay, restructure, end)
	return parent
}

// parseMoneyArg reads an amount in $k, allowing decimals: "1500" or "2.5".
func parseMoneyArg(s string) (int64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("bad amount %q", s)
	}
	if v <= 0 {
		return 0, fmt.Errorf("amount must be positive")
	}
	return game.UnitsToMicros(v), nil
}

func newChallengeCmd(apiBase *string) *cobra.Command {
	parent := &cobra.Command{
		Use:   "challenge",
		Short: "Seeded challenge leaderboards",
	}

	var mode string
	var seed uint32
	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a challenge",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client, err := newClient(apiBase)
			if err != nil {
				return err
			}
			var seedArg *uint32
			if cmd.Flags().Changed("seed") {
				seedArg = &seed
			}
			c, err := client.CreateChallenge(ctx, args[0], mode, seedArg)
			if err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Challenge %s created (mode %s, seed %d).", c.ID, c.Mode, c.Seed))
			return nil
		},
	}
	create.Flags().StringVar(&mode, "mode", "", "game mode")
	create.Flags().Uint32Var(&seed, "seed", 0, "deterministic seed")

	show := &cobra.Command{
		Use:   "show <challenge_id>",
		Short: "Show a challenge",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client, err := newClient(apiBase)
			if err != nil {
				return err
			}
			c, err := client.GetChallenge(ctx, args[0])
			if err != nil {
				return err
			}
			accent.Printf("\n== CHALLENGE %s ==\n", c.Name)
			fmt.Printf("ID: %s\nMode: %s\nSeed: %d\nCreated by: %s\n\n", c.ID, c.Mode, c.Seed, c.CreatedBy)
			return nil
		},
	}

	var fromGame string
	submit := &cobra.Command{
		Use:   "submit <challenge_id>",
		Short: "Submit a finished game's action log as a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client, err := newClient(apiBase)
			if err != nil {
				return err
			}
			var st *game.GameState
			if localMode {
				st, err = loadLocalState(fromGame)
			} else {
				st, err = client.GetGame(ctx, fromGame)
			}
			if err != nil {
				return err
			}
			run, err := client.SubmitRun(ctx, args[0], st.Actions)
			if err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Run verified: FEV %s, score %d (%s).",
				formatMoney(run.FEVMicros), run.ScoreTotal, run.Grade))
			return nil
		},
	}
	submit.Flags().StringVar(&fromGame, "from-game", "", "finished game whose action log to submit")
	_ = submit.MarkFlagRequired("from-game")

	var limit int
	board := &cobra.Command{
		Use:   "board <challenge_id>",
		Short: "Show the leaderboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client, err := newClient(apiBase)
			if err != nil {
				return err
			}
			rows, err := client.Leaderboard(ctx, args[0], limit)
			if err != nil {
				return err
			}
			renderLeaderboard(rows, "challenge leaderboard")
			return nil
		},
	}
	board.Flags().IntVar(&limit, "limit", 20, "max rows")

	parent.AddCommand(create, show, submit, board)
	return parent
}

func newSyncCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Replay queued offline actions against the API",
		RunE: func(cmd *cobra.Command, args []string) error {
			commands, err := syncq.Load()
			if err != nil {
				return err
			}
			if len(commands) == 0 {
				printInfo("Queue is empty.")
				return nil
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()
			client, err := newClient(apiBase)
			if err != nil {
				return err
			}
			out, err := client.SyncReplay(ctx, commands)
			if err != nil {
				return err
			}
			if err := syncq.Clear(); err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Replayed %d queued actions.", len(commands)))
			if results, ok := out["results"].([]any); ok {
				for _, r := range results {
					if m, ok := r.(map[string]any); ok {
						if okv, _ := m["ok"].(bool); !okv {
							printWarn(fmt.Sprintf("  %v: %v", m["game_id"], m["error"]))
						}
					}
				}
			}
			return nil
		},
	}
}
