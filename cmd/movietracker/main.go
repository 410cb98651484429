package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/mmcdole/movietracker/internal/adapter"
	"github.com/mmcdole/movietracker/internal/adapter/source/tmdb"
	"github.com/mmcdole/movietracker/internal/app"
	"github.com/mmcdole/movietracker/internal/cli"
	"github.com/mmcdole/movietracker/internal/domain"
	"github.com/mmcdole/movietracker/internal/liked"
)

// Version is set at build time via -ldflags
var Version = "dev"

const (
	exitError   = 1
	exitOffline = 2
)

const usage = `Usage: movietracker [-config path] <command> [flags]

Commands:
  trending     show trending movies and series
  search       search the catalog
  details      show details for a movie or series
  like         toggle an item in the liked set
  liked        list, filter or fuzzy-search liked items
  open         open a TMDB page or poster in the browser
  sweep        delete cached records past retention
  clear-cache  drop every cached record
  init         write a config file with your TMDB API key
  version      print version
`

func main() {
	var (
		configPath  string
		showVersion bool
	)
	flag.StringVar(&configPath, "config", "", "config file path")
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if showVersion || flag.Arg(0) == "version" {
		fmt.Printf("movietracker %s\n", Version)
		return
	}
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(exitError)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, configPath, flag.Arg(0), flag.Args()[1:])
	stop()

	if err != nil {
		var offline *domain.OfflineNoCacheError
		if errors.As(err, &offline) {
			fmt.Fprint(os.Stderr, cli.RenderOffline(offline))
			os.Exit(exitOffline)
		}
		fmt.Fprintf(os.Stderr, "%s %v\n", cli.ErrorStyle.Render("Error:"), err)
		os.Exit(exitError)
	}
}

func run(ctx context.Context, configPath, command string, args []string) error {
	cfg, err := adapter.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if command == "init" {
		return runInit(cfg, configPath, args)
	}

	logger, logCloser, err := adapter.SetupLogger(&cfg.Logging, os.Stderr)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	} else {
		defer logCloser.Close()
	}
	logger = logger.With("command", command)
	slog.SetDefault(logger)

	if !cfg.IsConfigured() {
		return errors.New("no TMDB API key configured, run `movietracker init` or set MOVIETRACKER_TMDB_API_KEY")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger.Info("starting movietracker", "version", Version)

	notifications := make(chan domain.LikeNotification, 1)
	a, err := app.New(ctx, cfg, logger, app.WithNotifications(notifications))
	if err != nil {
		return err
	}
	defer a.Close()

	switch command {
	case "trending":
		return runTrending(ctx, a, args)
	case "search":
		return runSearch(ctx, a, args)
	case "details":
		return runDetails(ctx, a, args)
	case "like":
		return runLike(ctx, a, notifications, args)
	case "liked":
		return runLiked(ctx, a, args)
	case "open":
		return runOpen(ctx, a, args)
	case "sweep":
		return runSweep(ctx, a, args)
	case "clear-cache":
		if err := a.Store.InvalidateAll(ctx); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		fmt.Println(cli.SuccessStyle.Render("✓ Cache cleared"))
		return nil
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func runTrending(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("trending", flag.ContinueOnError)
	page := fs.Int("page", 1, "page number")
	cached := fs.Bool("cached", false, "read the cache only, never the network")
	if err := fs.Parse(args); err != nil {
		return err
	}

	header := fmt.Sprintf("Trending · page %d", *page)
	if *cached {
		records, ok, err := a.Queries.CachedTrending(ctx, *page)
		if err != nil {
			return err
		}
		if !ok {
			return &domain.OfflineNoCacheError{Key: domain.TrendingKey(*page), Err: domain.ErrOfflineNoCache}
		}
		fmt.Print(cli.RenderRecords(header+" (cached)", records))
		return nil
	}

	records, err := a.Catalog.FetchTrending(ctx, *page)
	if err != nil {
		return err
	}
	fmt.Print(cli.RenderRecords(header, records))
	return nil
}

func runSearch(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	page := fs.Int("page", 1, "remote page used to refresh the results")
	cached := fs.Bool("cached", false, "read the cache only, never the network")
	if err := fs.Parse(args); err != nil {
		return err
	}

	term := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if term == "" {
		return errors.New("search needs a term")
	}

	header := fmt.Sprintf("Search · %q", term)
	if *cached {
		records, ok, err := a.Queries.CachedSearch(ctx, term)
		if err != nil {
			return err
		}
		if !ok {
			return &domain.OfflineNoCacheError{Key: domain.SearchKey(term), Err: domain.ErrOfflineNoCache}
		}
		fmt.Print(cli.RenderRecords(header+" (cached)", records))
		return nil
	}

	records, err := a.Catalog.SearchPage(ctx, term, *page, a.Config.Cache.SearchTTL)
	if err != nil {
		return err
	}
	fmt.Print(cli.RenderRecords(header, records))
	return nil
}

// parseItemArgs parses "-kind movie|tv <id>" with fs
func parseItemArgs(fs *flag.FlagSet, args []string) (int64, domain.MediaKind, error) {
	kindFlag := fs.String("kind", "movie", "movie or tv")
	if err := fs.Parse(args); err != nil {
		return 0, "", err
	}

	kind, err := domain.ParseMediaKind(*kindFlag)
	if err != nil {
		return 0, "", err
	}
	if fs.NArg() != 1 {
		return 0, "", fmt.Errorf("%s needs exactly one TMDB id", fs.Name())
	}
	id, err := strconv.ParseInt(fs.Arg(0), 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("invalid id %q: %w", fs.Arg(0), err)
	}
	return id, kind, nil
}

func runDetails(ctx context.Context, a *app.App, args []string) error {
	id, kind, err := parseItemArgs(flag.NewFlagSet("details", flag.ContinueOnError), args)
	if err != nil {
		return err
	}

	d, err := a.Catalog.Details(ctx, id, kind)
	if err != nil {
		return err
	}
	liked, err := a.Liked.IsLiked(ctx, id, kind)
	if err != nil {
		a.Logger.Warn("failed to check liked state", "error", err, "externalID", id)
	}
	fmt.Print(cli.RenderDetails(d, liked, 80))
	return nil
}

func runLike(ctx context.Context, a *app.App, notifications <-chan domain.LikeNotification, args []string) error {
	fs := flag.NewFlagSet("like", flag.ContinueOnError)
	noUndo := fs.Bool("no-undo", false, "skip the undo prompt")
	id, kind, err := parseItemArgs(fs, args)
	if err != nil {
		return err
	}

	item, err := resolveItem(ctx, a, id, kind)
	if err != nil {
		return err
	}

	toggle, err := a.Toggles.Toggle(ctx, item)
	if err != nil {
		return err
	}
	fmt.Print(cli.RenderToggle(toggle, time.Now()))

	if !*noUndo && promptUndo(ctx, toggle.ExpiresAt()) {
		if err := toggle.Undo(ctx); err != nil {
			return err
		}
		fmt.Println(cli.DimStyle.Render("Undone"))
	}

	// Flush in-flight deliveries before reporting them
	a.Close()
	select {
	case n := <-notifications:
		fmt.Println(cli.DimStyle.Render("🔔 " + n.Message()))
	default:
	}
	return nil
}

// resolveItem finds the record to toggle: the network detail view, or the
// liked copy when offline so an item can still be unliked.
func resolveItem(ctx context.Context, a *app.App, id int64, kind domain.MediaKind) (domain.CatalogRecord, error) {
	d, err := a.Catalog.Details(ctx, id, kind)
	if err == nil {
		return d.Record(), nil
	}

	items, lerr := a.Liked.ByKind(ctx, kind)
	if lerr != nil {
		return domain.CatalogRecord{}, errors.Join(err, lerr)
	}
	for _, e := range items {
		if e.Matches(id, kind) {
			return e.CatalogRecord, nil
		}
	}
	return domain.CatalogRecord{}, err
}

// promptUndo waits until the deadline for the user to type "u"
func promptUndo(ctx context.Context, deadline time.Time) bool {
	fmt.Print(cli.DimStyle.Render("Type u and press Enter to undo: "))

	lines := make(chan string, 1)
	go func() {
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		lines <- strings.TrimSpace(line)
	}()

	timer := time.NewTimer(time.Until(deadline))
	defer timer.Stop()

	select {
	case line := <-lines:
		return strings.EqualFold(line, "u")
	case <-timer.C:
		fmt.Println()
		return false
	case <-ctx.Done():
		fmt.Println()
		return false
	}
}

func runLiked(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("liked", flag.ContinueOnError)
	kindFlag := fs.String("kind", "", "only movie or tv")
	filter := fs.String("filter", "", "substring filter on title or year")
	suggest := fs.String("suggest", "", "fuzzy search liked titles")
	limit := fs.Int("limit", 10, "max suggestions")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *suggest != "" {
		suggestions, err := a.Liked.Suggest(ctx, *suggest, *limit)
		if err != nil {
			return err
		}
		fmt.Print(cli.RenderSuggestions(suggestions))
		return nil
	}

	var (
		items []domain.LikedEntity
		err   error
	)
	if *kindFlag != "" {
		kind, perr := domain.ParseMediaKind(*kindFlag)
		if perr != nil {
			return perr
		}
		items, err = a.Liked.ByKind(ctx, kind)
	} else {
		items, err = a.Liked.All(ctx)
	}
	if err != nil {
		return err
	}

	fmt.Print(cli.RenderLiked(liked.FilterItems(items, *filter), time.Now()))
	return nil
}

func runOpen(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("open", flag.ContinueOnError)
	poster := fs.Bool("poster", false, "open the poster image instead of the TMDB page")
	id, kind, err := parseItemArgs(fs, args)
	if err != nil {
		return err
	}

	url := tmdb.WebURL(kind, id)
	if *poster {
		d, err := a.Catalog.Details(ctx, id, kind)
		if err != nil {
			return err
		}
		if d.PosterURL == "" {
			return fmt.Errorf("%s has no poster", d.Title)
		}
		url = d.PosterURL
	}

	return adapter.NewOpener(&a.Config.Browser, a.Logger).Open(url)
}

func runSweep(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("sweep", flag.ContinueOnError)
	watch := fs.Bool("watch", false, "keep sweeping on the configured interval until interrupted")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *watch {
		fmt.Println(cli.DimStyle.Render(fmt.Sprintf("Sweeping every %s, Ctrl-C to stop", a.Config.Cache.SweepInterval)))
		return a.Sweeper.Start(ctx)
	}

	n, err := a.Sweeper.RunOnce(ctx)
	if err != nil {
		return err
	}
	fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Removed %d cached records", n)))
	return nil
}

// runInit prompts for the TMDB API key and writes the config file
func runInit(cfg *adapter.Config, configPath string, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	apiKey := fs.String("api-key", "", "TMDB API key (prompted when empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	key := strings.TrimSpace(*apiKey)
	if key == "" {
		var err error
		if key, err = newKeyPrompt(os.Stdin, os.Stdout).read("Enter your TMDB API key: "); err != nil {
			return err
		}
	}
	cfg.TMDB.APIKey = key

	path := configPath
	if path == "" {
		path = filepath.Join(adapter.DefaultConfigPath(), "config.yaml")
	}
	if err := adapter.SaveConfig(cfg, path); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println(cli.SuccessStyle.Render("✓ Configuration saved to " + path))
	return nil
}

// keyPrompt reads a credential. Input is hidden when stdin is a terminal.
type keyPrompt struct {
	out          io.Writer
	hidden       bool
	readPassword func() ([]byte, error)
	reader       *bufio.Reader
}

func newKeyPrompt(in *os.File, out io.Writer) *keyPrompt {
	fd := int(in.Fd())
	return &keyPrompt{
		out:          out,
		hidden:       term.IsTerminal(fd),
		readPassword: func() ([]byte, error) { return term.ReadPassword(fd) },
		reader:       bufio.NewReader(in),
	}
}

// read prompts until a non-blank value is entered
func (p *keyPrompt) read(label string) (string, error) {
	for {
		fmt.Fprint(p.out, label)

		var input string
		if p.hidden {
			b, err := p.readPassword()
			fmt.Fprintln(p.out) // Add newline after hidden input
			if err != nil {
				return "", fmt.Errorf("failed to read input: %w", err)
			}
			input = string(b)
		} else {
			line, err := p.reader.ReadString('\n')
			if err != nil && (!errors.Is(err, io.EOF) || line == "") {
				return "", fmt.Errorf("failed to read input: %w", err)
			}
			input = line
		}

		if key := strings.TrimSpace(input); key != "" {
			return key, nil
		}
		fmt.Fprintln(p.out, "API key cannot be empty. Please try again.")
	}
}
