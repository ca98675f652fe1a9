package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"golang.org/x/term"

	"streamlist/internal/config"
	"streamlist/internal/domain"
	"streamlist/internal/filter"
	"streamlist/internal/log"
	"streamlist/internal/ratelimit"
	"streamlist/internal/service"
	"streamlist/internal/store"
	"streamlist/internal/tmdb"
	"streamlist/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var showVersion, logout, reselect, refresh bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.BoolVar(&logout, "logout", false, "clear the stored session and caches")
	flag.BoolVar(&reselect, "select", false, "re-pick countries and streaming services")
	flag.BoolVar(&refresh, "refresh", false, "discard cached availability before searching")
	flag.Parse()

	if showVersion {
		fmt.Printf("streamlist %s\n", Version)
		return
	}

	if err := run(logout, reselect, refresh); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(logout, reselect, refresh bool) error {
	// A local .env can carry TMDB_BEARER_TOKEN during development.
	godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting streamlist", "version", Version)

	cache, err := store.New(cfg.Cache.Dir, logger)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer cache.Close()
	cache.WatchlistTTL = cfg.Cache.WatchlistTTL
	cache.AvailabilityTTL = cfg.Cache.AvailabilityTTL
	cache.GenreTTL = cfg.Cache.GenreTTL

	sessionSvc := service.NewSessionService(cache, logger)
	if logout {
		sessionSvc.Logout()
		fmt.Println("Logged out.")
		return nil
	}
	if refresh {
		cache.InvalidateAvailability()
	}

	if !cfg.IsConfigured() {
		if err := runTokenSetup(cfg); err != nil {
			return err
		}
	}

	limiter := ratelimit.New(cfg.TMDB.RequestsPerSecond)
	client := tmdb.NewClient(tmdb.BaseURL, cfg.TMDB.BearerToken, limiter, logger)

	ctx := context.Background()

	session, ok := sessionSvc.Load()
	if !ok {
		session, err = runAuthFlow(ctx, client)
		if err != nil {
			return err
		}
		session.BearerToken = cfg.TMDB.BearerToken
		sessionSvc.Save(session)
	}

	selectionSvc := service.NewSelectionService(client, cache, logger)
	if reselect || !session.HasSelection() {
		if err := runSelectionFlow(ctx, selectionSvc, &session); err != nil {
			return err
		}
		sessionSvc.Save(session)
	}

	watchlistSvc := service.NewWatchlistService(client, cache, logger)
	availabilitySvc := service.NewAvailabilityService(client, cache, logger)
	searchSvc := service.NewSearchService(watchlistSvc, availabilitySvc, client, cache, cfg.Search.BatchSize, logger)

	// Best effort: genre tags are presentation only.
	genres, err := searchSvc.Genres(ctx)
	if err != nil {
		logger.Warn("genre table unavailable", "error", err)
		genres = domain.GenreTable{}
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return runPlain(ctx, searchSvc, session)
	}

	model := tui.NewModel(searchSvc, session, genres)
	p := tea.NewProgram(model, tea.WithAltScreen())

	logger.Info("starting TUI")
	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// runTokenSetup prompts for the TMDB API read access token and persists it.
func runTokenSetup(cfg *config.Config) error {
	fmt.Println()
	fmt.Println("Welcome to streamlist!")
	fmt.Println()
	fmt.Println("You need a TMDB API read access token (v4). Create one at")
	fmt.Println("https://www.themoviedb.org/settings/api")
	fmt.Println()

	token, err := prompt("Paste your token: ")
	if err != nil {
		return err
	}
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}

	if err := config.SaveToken(token); err != nil {
		return err
	}
	cfg.TMDB.BearerToken = token
	fmt.Println("Token saved.")
	return nil
}

// runAuthFlow walks the TMDB browser approval dance and returns an
// authenticated session.
func runAuthFlow(ctx context.Context, client *tmdb.Client) (domain.Session, error) {
	token, err := client.RequestToken(ctx)
	if err != nil {
		return domain.Session{}, fmt.Errorf("failed to request token: %w", err)
	}

	fmt.Println()
	fmt.Println("Approve this application in your browser:")
	fmt.Println()
	fmt.Printf("  %s\n", tmdb.AuthorizationURL(token))
	fmt.Println()
	if _, err := prompt("Press Enter when done..."); err != nil {
		return domain.Session{}, err
	}

	sessionID, err := client.CreateSession(ctx, token)
	if err != nil {
		return domain.Session{}, fmt.Errorf("failed to create session: %w", err)
	}

	accountID, username, err := client.Account(ctx, sessionID)
	if err != nil {
		return domain.Session{}, fmt.Errorf("failed to load account: %w", err)
	}

	fmt.Printf("Signed in as %s.\n", username)
	return domain.Session{
		SessionID: sessionID,
		AccountID: accountID,
		Username:  username,
	}, nil
}

// runSelectionFlow interactively picks countries and streaming services.
func runSelectionFlow(ctx context.Context, selection *service.SelectionService, session *domain.Session) error {
	countries, err := selection.Countries(ctx)
	if err != nil {
		return fmt.Errorf("failed to list countries: %w", err)
	}

	fmt.Println()
	fmt.Println("Pick the countries to check availability in.")
	picked, err := pickCountries(countries)
	if err != nil {
		return err
	}
	if len(picked) == 0 {
		return fmt.Errorf("at least one country is required")
	}

	services, err := selection.Services(ctx, picked)
	if err != nil {
		return fmt.Errorf("failed to list streaming services: %w", err)
	}

	fmt.Println()
	fmt.Println("Pick your streaming services.")
	pickedServices, err := pickProviders(services)
	if err != nil {
		return err
	}
	if len(pickedServices) == 0 {
		return fmt.Errorf("at least one streaming service is required")
	}

	selection.Apply(session, picked, pickedServices)
	return nil
}

func pickCountries(countries []domain.Country) ([]domain.Country, error) {
	var picked []domain.Country
	for {
		query, err := prompt("Search countries (empty to finish): ")
		if err != nil {
			return nil, err
		}
		if query == "" {
			return picked, nil
		}

		matches := service.FilterCountries(countries, query)
		if len(matches) == 0 {
			fmt.Println("No matches.")
			continue
		}
		if len(matches) > 10 {
			matches = matches[:10]
		}
		for i, c := range matches {
			fmt.Printf("  %d. %s (%s)\n", i+1, c.Name, c.Code)
		}

		choice, err := promptIndex(len(matches))
		if err != nil {
			return nil, err
		}
		if choice >= 0 {
			picked = append(picked, matches[choice])
			fmt.Printf("Added %s.\n", matches[choice].Name)
		}
	}
}

func pickProviders(providers []domain.Provider) ([]domain.Provider, error) {
	var picked []domain.Provider
	for {
		query, err := prompt("Search services (empty to finish): ")
		if err != nil {
			return nil, err
		}
		if query == "" {
			return picked, nil
		}

		matches := service.FilterProviders(providers, query)
		if len(matches) == 0 {
			fmt.Println("No matches.")
			continue
		}
		if len(matches) > 10 {
			matches = matches[:10]
		}
		for i, p := range matches {
			fmt.Printf("  %d. %s\n", i+1, p.Name)
		}

		choice, err := promptIndex(len(matches))
		if err != nil {
			return nil, err
		}
		if choice >= 0 {
			picked = append(picked, matches[choice])
			fmt.Printf("Added %s.\n", matches[choice].Name)
		}
	}
}

// runPlain runs the search without the TUI, for piped output.
func runPlain(ctx context.Context, search *service.SearchService, session domain.Session) error {
	observer := domain.ObserverFunc(func(p domain.SearchProgress) {
		if p.Status == domain.SearchRunning && p.Movies != nil {
			fmt.Fprintf(os.Stderr, "checked %d/%d, found %d\n", p.Processed, p.Total, p.Found)
		}
	})

	movies, status, err := search.Search(ctx, session, observer)
	if err != nil {
		return err
	}
	if status != domain.SearchCompleted {
		fmt.Fprintf(os.Stderr, "search %s\n", status)
	}

	for _, line := range formatResults(movies) {
		fmt.Println(line)
	}
	return nil
}

// formatResults orders the survivors the same way the TUI's initial view
// does and renders one tab-separated line per movie. Country codes are
// sorted so piped output is stable across runs.
func formatResults(movies []domain.Movie) []string {
	ordered := filter.Apply(movies, domain.DefaultFilterConfig(), domain.SortRelevance)

	lines := make([]string, len(ordered))
	for i, m := range ordered {
		codes := make([]string, 0, len(m.Availability))
		for code := range m.Availability {
			codes = append(codes, code)
		}
		sort.Strings(codes)
		lines[i] = fmt.Sprintf("%s (%d)\t%.1f\t%s",
			m.Title, m.ReleaseYear(), m.VoteAverage, strings.Join(codes, ","))
	}
	return lines
}

func prompt(label string) (string, error) {
	fmt.Print(label)
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(input), nil
}

// promptIndex reads a 1-based selection, returning -1 when skipped.
func promptIndex(max int) (int, error) {
	input, err := prompt("Number to add (empty to skip): ")
	if err != nil {
		return -1, err
	}
	if input == "" {
		return -1, nil
	}
	n, err := strconv.Atoi(input)
	if err != nil || n < 1 || n > max {
		fmt.Println("Invalid choice.")
		return -1, nil
	}
	return n - 1, nil
}
