package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/riskibarqy/fantasy-rankings/external/espn"
	"github.com/riskibarqy/fantasy-rankings/internal/app"
	"github.com/riskibarqy/fantasy-rankings/internal/domain/ranking"
	"github.com/riskibarqy/fantasy-rankings/internal/domain/roster"
	"github.com/riskibarqy/fantasy-rankings/internal/infrastructure/sheet"
	"github.com/riskibarqy/fantasy-rankings/internal/usecase"
)

var (
	errUsage = errors.New("usage")
	tracer   = otel.Tracer("github.com/riskibarqy/fantasy-rankings/cmd/reconcile")
)

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, a *app.App, args []string, out io.Writer) error
}

var commands = []command{
	{"upload", "parse a directory of <POS>.csv sheets and store them as a rankings set", cmdUpload},
	{"rankings", "print a stored rankings set", cmdRankings},
	{"available", "list stored rankings sets, newest first", cmdAvailable},
	{"compare", "print several weeks of one season side by side", cmdCompare},
	{"delete", "delete a stored rankings set", cmdDelete},
	{"current", "print the current rankings set", cmdCurrent},
	{"match", "resolve one ranked player against a roster", cmdMatch},
	{"resolve", "resolve every player of a stored rankings set", cmdResolve},
	{"stats", "summarize match outcomes for a stored rankings set", cmdStats},
	{"unmatched", "list players of a stored rankings set that did not resolve", cmdUnmatched},
	{"map", "store a manual mapping", cmdMap},
	{"mappings", "list stored mappings", cmdMappings},
	{"clear-mappings", "remove every stored mapping", cmdClearMappings},
	{"roster-ingest", "record a roster snapshot file in the known-players registry", cmdRosterIngest},
	{"roster-sync", "fetch the ESPN roster and record it in the known-players registry", cmdRosterSync},
	{"known-players", "list the known-players registry", cmdKnownPlayers},
}

func run(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	name := strings.ToLower(strings.TrimSpace(args[0]))
	for _, cmd := range commands {
		if cmd.name == name {
			return runTraced(ctx, cmd, a, args[1:], out)
		}
	}
	return errUsage
}

// runTraced runs cmd under a root span so use case spans attach to it.
func runTraced(ctx context.Context, cmd command, a *app.App, args []string, out io.Writer) error {
	ctx, span := tracer.Start(ctx, "reconcile."+cmd.name)
	defer span.End()

	err := cmd.run(ctx, a, args, out)
	if err != nil && !errors.Is(err, errUsage) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func printUsage() {
	bin := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "usage: %s <command> [flags]\n\ncommands:\n", bin)
	for _, cmd := range commands {
		fmt.Fprintf(os.Stderr, "  %-15s %s\n", cmd.name, cmd.summary)
	}
	fmt.Fprintf(os.Stderr, "\nrun %s <command> -h for command flags\n", bin)
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}

// rosterSource selects the pool players are matched against: a JSON file, a
// live ESPN fetch, or the known-players registry.
type rosterSource struct {
	file  string
	fetch bool
}

func (r *rosterSource) bind(fs *flag.FlagSet) {
	fs.StringVar(&r.file, "roster", "", "roster snapshot JSON file (array of {id, fullName, position, proTeam})")
	fs.BoolVar(&r.fetch, "espn", false, "fetch the roster from ESPN instead of reading a file")
}

func (r rosterSource) load(ctx context.Context, a *app.App) ([]roster.Player, error) {
	switch {
	case r.file != "" && r.fetch:
		return nil, fmt.Errorf("%w: -roster and -espn are mutually exclusive", usecase.ErrInvalidInput)
	case r.file != "":
		return readRosterFile(r.file)
	case r.fetch:
		players, _, err := a.Rosters.Sync(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", espn.SafeMessage(err), err)
		}
		return players, nil
	default:
		return a.Rosters.CandidatePool(ctx)
	}
}

func readRosterFile(path string) ([]roster.Player, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read roster file: %v", usecase.ErrInvalidInput, err)
	}
	var players []roster.Player
	if err := sonic.Unmarshal(raw, &players); err != nil {
		return nil, fmt.Errorf("%w: decode roster file %s: %v", usecase.ErrInvalidInput, path, err)
	}
	return players, nil
}

func writeJSON(out io.Writer, v any) error {
	payload, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	payload = append(payload, '\n')
	_, err = out.Write(payload)
	return err
}

func parseWeeks(raw string) ([]int, error) {
	var weeks []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		week, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid week %q", usecase.ErrInvalidInput, part)
		}
		weeks = append(weeks, week)
	}
	return weeks, nil
}

type weekSeason struct {
	week   int
	season int
}

func (w *weekSeason) bind(fs *flag.FlagSet) {
	fs.IntVar(&w.week, "week", 0, "NFL week (1-18)")
	fs.IntVar(&w.season, "season", 0, "season year")
}

// loadRankings reads the requested set, or the current one when no week is given.
func (w weekSeason) loadRankings(ctx context.Context, a *app.App) (ranking.Rankings, error) {
	if w.week == 0 && w.season == 0 {
		return a.Rankings.Current(ctx)
	}
	return a.Rankings.Get(ctx, w.week, w.season, "")
}

func cmdUpload(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	fs := newFlagSet("upload")
	var ws weekSeason
	ws.bind(fs)
	dir := fs.String("sheets", "", "directory holding one <POS>.csv per position sheet")
	var source rosterSource
	source.bind(fs)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *dir == "" {
		return fmt.Errorf("%w: -sheets is required", usecase.ErrInvalidInput)
	}

	sheets, err := sheet.ReadDir(*dir)
	if err != nil {
		return fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}

	input := usecase.UploadInput{Week: ws.week, Season: ws.season, Sheets: sheets}
	if source.file != "" || source.fetch {
		input.Roster, err = source.load(ctx, a)
		if err != nil {
			return err
		}
	}

	result, err := a.Rankings.Upload(ctx, input)
	if err != nil {
		return err
	}
	return writeJSON(out, result)
}

func cmdRankings(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	fs := newFlagSet("rankings")
	var ws weekSeason
	ws.bind(fs)
	position := fs.String("position", "", "only print this position sheet")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	rankings, err := a.Rankings.Get(ctx, ws.week, ws.season, *position)
	if err != nil {
		return err
	}
	return writeJSON(out, rankings)
}

func cmdAvailable(ctx context.Context, a *app.App, _ []string, out io.Writer) error {
	items, err := a.Rankings.Available(ctx)
	if err != nil {
		return err
	}
	return writeJSON(out, items)
}

func cmdCompare(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	fs := newFlagSet("compare")
	season := fs.Int("season", 0, "season year (defaults to the current year)")
	weeks := fs.String("weeks", "", "comma separated weeks, at least two")
	position := fs.String("position", "", "only compare this position sheet")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	parsed, err := parseWeeks(*weeks)
	if err != nil {
		return err
	}
	cmp, err := a.Rankings.Compare(ctx, usecase.CompareInput{Season: *season, Weeks: parsed, Position: *position})
	if err != nil {
		return err
	}
	return writeJSON(out, cmp)
}

func cmdDelete(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	fs := newFlagSet("delete")
	var ws weekSeason
	ws.bind(fs)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if err := a.Rankings.Delete(ctx, ws.week, ws.season); err != nil {
		return err
	}
	return writeJSON(out, map[string]any{"deleted": true, "week": ws.week, "season": ws.season})
}

func cmdCurrent(ctx context.Context, a *app.App, _ []string, out io.Writer) error {
	rankings, err := a.Rankings.Current(ctx)
	if err != nil {
		return err
	}
	return writeJSON(out, rankings)
}

func cmdMatch(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	fs := newFlagSet("match")
	name := fs.String("name", "", "player name as written in the ranking sheet")
	team := fs.String("team", "", "team abbreviation")
	pos := fs.String("pos", "", "position")
	var source rosterSource
	source.bind(fs)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	pool, err := source.load(ctx, a)
	if err != nil {
		return err
	}
	result, err := a.Matcher.MatchPlayer(ctx, ranking.RankedPlayer{Name: *name, Team: *team, Pos: *pos}, pool)
	if err != nil {
		return err
	}
	return writeJSON(out, result)
}

func batchArgs(name string, args []string) (weekSeason, rosterSource, error) {
	fs := newFlagSet(name)
	var ws weekSeason
	ws.bind(fs)
	var source rosterSource
	source.bind(fs)
	if err := fs.Parse(args); err != nil {
		return ws, source, errUsage
	}
	return ws, source, nil
}

func cmdResolve(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	ws, source, err := batchArgs("resolve", args)
	if err != nil {
		return err
	}
	rankings, err := ws.loadRankings(ctx, a)
	if err != nil {
		return err
	}
	pool, err := source.load(ctx, a)
	if err != nil {
		return err
	}

	batch, err := a.Matcher.MatchRankings(ctx, rankings.Positions, pool)
	if err != nil {
		return err
	}
	return writeJSON(out, batch)
}

func cmdStats(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	ws, source, err := batchArgs("stats", args)
	if err != nil {
		return err
	}
	rankings, err := ws.loadRankings(ctx, a)
	if err != nil {
		return err
	}
	pool, err := source.load(ctx, a)
	if err != nil {
		return err
	}

	stats, err := a.Matcher.Summarize(ctx, rankings.Positions, pool)
	if err != nil {
		return err
	}
	return writeJSON(out, stats)
}

func cmdUnmatched(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	ws, source, err := batchArgs("unmatched", args)
	if err != nil {
		return err
	}
	rankings, err := ws.loadRankings(ctx, a)
	if err != nil {
		return err
	}
	pool, err := source.load(ctx, a)
	if err != nil {
		return err
	}

	unmatched, err := a.Matcher.UnmatchedPlayers(ctx, rankings.Positions, pool)
	if err != nil {
		return err
	}
	return writeJSON(out, unmatched)
}

func cmdMap(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	fs := newFlagSet("map")
	var input usecase.ManualMappingInput
	fs.StringVar(&input.RankingPlayer.Name, "name", "", "player name as written in the ranking sheet")
	fs.StringVar(&input.RankingPlayer.Team, "team", "", "team abbreviation")
	fs.StringVar(&input.RankingPlayer.Pos, "pos", "", "position")
	fs.StringVar(&input.ExternalID, "espn-id", "", "ESPN player id")
	fs.StringVar(&input.ExternalName, "espn-name", "", "ESPN player name")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	m, err := a.Matcher.ManuallyMap(ctx, input)
	if err != nil {
		return err
	}
	return writeJSON(out, map[string]any{"key": m.Key, "mapping": m})
}

func cmdMappings(ctx context.Context, a *app.App, _ []string, out io.Writer) error {
	items, err := a.Matcher.ListMappings(ctx)
	if err != nil {
		return err
	}

	keyed := make(map[string]any, len(items))
	for _, m := range items {
		keyed[string(m.Key)] = m
	}
	return writeJSON(out, keyed)
}

func cmdClearMappings(ctx context.Context, a *app.App, _ []string, out io.Writer) error {
	if err := a.Matcher.ClearMappings(ctx); err != nil {
		return err
	}
	return writeJSON(out, map[string]bool{"cleared": true})
}

func cmdRosterIngest(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	fs := newFlagSet("roster-ingest")
	path := fs.String("roster", "", "roster snapshot JSON file")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *path == "" {
		return fmt.Errorf("%w: -roster is required", usecase.ErrInvalidInput)
	}

	players, err := readRosterFile(*path)
	if err != nil {
		return err
	}
	result, err := a.Rosters.Ingest(ctx, players)
	if err != nil {
		return err
	}
	return writeJSON(out, result)
}

func cmdRosterSync(ctx context.Context, a *app.App, _ []string, out io.Writer) error {
	players, result, err := a.Rosters.Sync(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", espn.SafeMessage(err), err)
	}
	return writeJSON(out, map[string]any{"roster": players, "ingest": result})
}

func cmdKnownPlayers(ctx context.Context, a *app.App, _ []string, out io.Writer) error {
	players, err := a.Rosters.KnownPlayers(ctx)
	if err != nil {
		return err
	}
	return writeJSON(out, players)
}
