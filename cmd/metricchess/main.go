// Command metricchess prints a Metric Chess position and its legal moves.
//
//	metricchess -fen "<fen>" -orientation left -square e2
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/benbeisheim/metricchess-backend/internal/model"
)

func main() {
	fen := flag.String("fen", model.StartingFEN, "position to load")
	orientation := flag.String("orientation", "bottom", "edge white is drawn against: bottom, left, top or right")
	square := flag.String("square", "", "only list moves from this square, e.g. e2")
	moves := flag.String("moves", "", "space-separated UCI moves to play first, e.g. \"e2e4 e9e7\"")
	homeRank := flag.Bool("home-rank-double-step", false, "allow the pawn double step only from the home rank")
	flag.Parse()

	if err := run(os.Stdout, *fen, *orientation, *square, *moves, *homeRank); err != nil {
		fmt.Fprintln(os.Stderr, "metricchess:", err)
		os.Exit(1)
	}
}

func run(out io.Writer, fen, orientation, square, moves string, homeRank bool) error {
	var opts []model.Option
	if homeRank {
		opts = append(opts, model.WithHomeRankDoubleStep())
	}
	game, err := model.NewGameFromFEN(fen, opts...)
	if err != nil {
		return err
	}
	o, err := model.ParseOrientation(orientation)
	if err != nil {
		return err
	}

	for _, mv := range strings.Fields(moves) {
		from, to, promo, err := model.ParseUCIMove(mv)
		if err != nil {
			return err
		}
		if !game.MovePiece(from, to, promo) {
			return fmt.Errorf("illegal move %s", mv)
		}
	}

	fmt.Fprint(out, model.RenderText(game.Board(), o))
	fmt.Fprintf(out, "\n%s to move, status %s", game.SideToMove(), game.Status())
	if game.IsCheck() {
		fmt.Fprint(out, ", in check")
	}
	fmt.Fprintf(out, "\nFEN %s\n", game.GenerateFEN())

	var legal []model.Move
	if square != "" {
		sq, err := model.ParseSquare(square)
		if err != nil {
			return err
		}
		legal = game.LegalMoves(sq)
	} else {
		legal = game.AllLegalMoves()
	}
	names := make([]string, 0, len(legal))
	for _, m := range legal {
		names = append(names, model.FormatUCIMove(m.From, m.To, ""))
	}
	fmt.Fprintf(out, "%d legal moves: %s\n", len(names), strings.Join(names, " "))
	return nil
}
