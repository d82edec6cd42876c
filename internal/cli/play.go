package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/colorguess/internal/catalog"
	"github.com/robalobadob/colorguess/internal/color"
	"github.com/robalobadob/colorguess/internal/game"
	"github.com/robalobadob/colorguess/internal/service"
	"github.com/robalobadob/colorguess/internal/shuffle"
	"github.com/robalobadob/colorguess/internal/store"
)

type playFlags struct {
	tier string
	plus bool
	seed string
}

func newPlayCmd(a *app) *cobra.Command {
	var f playFlags
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a session in the terminal",
		Long: `Play a session in the terminal.

Each question names a color; answer with a hex guess (#rrggbb or #rgb).
The reference is revealed after every answer and the averages are shown at
the end. Closing stdin ends the session early.

Examples:
  colorguess play --tier hard --plus
  colorguess play --seed 2024-06-01 < guesses.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.play(cmd, f)
		},
	}
	cmd.Flags().StringVarP(&f.tier, "tier", "t", string(catalog.TierRegular), "difficulty tier (regular, hard, impossible)")
	cmd.Flags().BoolVar(&f.plus, "plus", false, "plus mode: also score against the personal picks")
	cmd.Flags().StringVar(&f.seed, "seed", "", "fixed question order for this seed")
	return cmd
}

func (a *app) play(cmd *cobra.Command, f playFlags) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	tier, err := catalog.ParseTier(f.tier)
	if err != nil {
		return err
	}
	cat, err := a.loadCatalog()
	if err != nil {
		return err
	}
	policy, err := a.cfg.Policy()
	if err != nil {
		return err
	}
	opts := service.Options{Policy: policy, Cap: a.cfg.QuestionCap}
	if f.seed != "" {
		opts.Shuffle = shuffle.Seeded(a.cfg.ShuffleSalt, f.seed)
	}
	svc := service.New(store.NewMemoryStore(), cat, opts)

	snap, err := svc.CreateSession(ctx, tier, f.plus)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Discard(ctx, snap.ID) }()

	unsub, err := svc.Subscribe(ctx, snap.ID, func(e game.Event) {
		log.Debug().Str("sessionId", e.SessionID).Str("kind", string(e.Kind)).Int("index", e.Index).Msg("session event")
	})
	if err != nil {
		return err
	}
	defer unsub()

	info, _ := tier.Info()
	fmt.Fprintf(out, "%s: %s\n", info.Title, info.Description)
	if f.plus {
		fmt.Fprintln(out, "Plus mode: you are also scored against my own picks.")
	}

	in := bufio.NewScanner(cmd.InOrStdin())
	total := len(snap.Questions)
	idx := snap.Current
	for {
		fmt.Fprintf(out, "\n[%d/%d] %s\n", idx+1, total, snap.Questions[idx].Name)
		guess, ok := readGuess(out, in)
		if !ok {
			fmt.Fprintln(out, "\ninput closed, ending early")
			break
		}
		if err := svc.SubmitGuess(ctx, snap.ID, idx, guess); err != nil {
			return err
		}
		sc, err := svc.CommitAnswer(ctx, snap.ID, idx)
		if err != nil {
			return err
		}
		cur, err := svc.Get(ctx, snap.ID)
		if err != nil {
			return err
		}
		printResult(out, cur.Questions[idx], sc, f.plus)

		next, more, err := svc.Advance(ctx, snap.ID)
		if err != nil {
			return err
		}
		if !more {
			break
		}
		idx = next
	}

	agg, err := svc.Aggregates(ctx, snap.ID)
	if err != nil {
		return err
	}
	printAggregates(out, agg)
	return nil
}

// readGuess prompts until a valid hex color arrives. ok is false at EOF.
func readGuess(out io.Writer, in *bufio.Scanner) (color.RGB, bool) {
	for {
		fmt.Fprint(out, "guess> ")
		if !in.Scan() {
			return color.RGB{}, false
		}
		line := strings.TrimSpace(in.Text())
		if line == "" {
			continue
		}
		c, err := color.ParseHex(line)
		if err != nil {
			fmt.Fprintf(out, "  %v\n", err)
			continue
		}
		return c, true
	}
}

func printResult(out io.Writer, q game.QuestionView, sc game.Scores, plus bool) {
	if q.Answer != nil {
		fmt.Fprintf(out, "  answer    %s\n", q.Answer.Hex())
	}
	fmt.Fprintf(out, "  you       %s  %s\n", q.Guess.Hex(), pct(sc.ToReference))
	if plus && q.Personal != nil && sc.ToPersonal != nil && sc.PersonalToReference != nil {
		fmt.Fprintf(out, "  me        %s  %s\n", q.Personal.Hex(), pct(*sc.PersonalToReference))
		fmt.Fprintf(out, "  you vs me          %s\n", pct(*sc.ToPersonal))
	}
	if q.Notes != "" {
		fmt.Fprintf(out, "  notes     %s\n", q.Notes)
	}
}

func printAggregates(out io.Writer, agg game.Aggregates) {
	fmt.Fprintf(out, "\nAnswered %d/%d\n", agg.Answered, agg.Total)
	fmt.Fprintf(out, "Average  %s\n", pct(agg.Primary))
	if agg.Secondary != nil {
		fmt.Fprintf(out, "You %s  Me %s\n", pct(agg.Secondary.You), pct(agg.Secondary.Me))
	}
}

func pct(v float64) string { return fmt.Sprintf("%5.1f%%", v*100) }
