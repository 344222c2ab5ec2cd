package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/tendant/simple-listing/pkg/simplelisting"
	"github.com/tendant/simple-listing/pkg/simplelisting/admin"
	"github.com/tendant/simple-listing/pkg/simplelisting/config"
)

func main() {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()

	// Load server configuration
	serverConfig, err := config.Load(config.WithEnv())
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Build the repository once and share it between the listing service
	// and the admin service, so both see the same records.
	repo, err := serverConfig.BuildRepository()
	if err != nil {
		log.Fatalf("Failed to build repository: %v", err)
	}

	store, err := serverConfig.BuildFileStore()
	if err != nil {
		log.Fatalf("Failed to build file store: %v", err)
	}

	svc, err := serverConfig.BuildServiceWith(repo, store)
	if err != nil {
		log.Fatalf("Failed to build service: %v", err)
	}

	adminSvc := admin.New(repo)

	// Start admin shell
	shell := NewAdminShell(svc, repo, adminSvc)
	shell.Run()
}

// AdminShell provides an interactive admin interface
type AdminShell struct {
	service  simplelisting.Service
	repo     simplelisting.Repository
	adminSvc admin.AdminService
}

// NewAdminShell creates a new admin shell
func NewAdminShell(service simplelisting.Service, repo simplelisting.Repository, adminSvc admin.AdminService) *AdminShell {
	return &AdminShell{
		service:  service,
		repo:     repo,
		adminSvc: adminSvc,
	}
}

// Run starts the interactive admin shell
func (s *AdminShell) Run() {
	reader := bufio.NewReader(os.Stdin)
	ctx := context.Background()

	fmt.Println("=== Simple Listing Admin Shell ===")
	fmt.Println("Type 'help' for available commands, 'exit' to quit")
	fmt.Println()

	for {
		fmt.Print("admin> ")
		input, err := reader.ReadString('\n')
		if err != nil {
			fmt.Printf("Error reading input: %v\n", err)
			continue
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		command := parts[0]

		switch command {
		case "help", "h":
			s.showHelp()
		case "exit", "quit", "q":
			fmt.Println("Goodbye!")
			return
		case "list", "ls":
			s.handleList(ctx, parts[1:])
		case "count":
			s.handleCount(ctx, parts[1:])
		case "stats":
			s.handleStats(ctx, parts[1:])
		case "get":
			s.handleGet(ctx, parts[1:])
		case "build":
			s.handleBuild(ctx, parts[1:])
		default:
			fmt.Printf("Unknown command: %s (type 'help' for available commands)\n", command)
		}
	}
}

func (s *AdminShell) showHelp() {
	help := `
Available Commands:

  list, ls              List all content records
  list <kind>           List records for specific kind (news, events)

  count                 Count all content records
  count <kind>          Count records for specific kind

  stats                 Show overall statistics
  stats <kind>          Show statistics for specific kind

  get <content-id>      Get details for specific record

  build                 Build a listing with the default configuration
  build <kind>...       Build a listing restricted to the given kinds

  help, h               Show this help message
  exit, quit, q         Exit admin shell

Examples:
  list
  list news
  count events
  stats
  get 550e8400-e29b-41d4-a716-446655440000
  build news
`
	fmt.Println(help)
}

func kindFilters(args []string) admin.ContentFilters {
	filters := admin.ContentFilters{}
	for _, arg := range args {
		filters.Kinds = append(filters.Kinds, simplelisting.ContentKind(arg))
	}
	return filters
}

func (s *AdminShell) handleList(ctx context.Context, args []string) {
	filters := kindFilters(args)
	limit := 20
	filters.Limit = &limit

	resp, err := s.adminSvc.ListAllContents(ctx, admin.ListContentsRequest{
		Filters: filters,
	})
	if err != nil {
		fmt.Printf("Error listing contents: %v\n", err)
		return
	}

	if len(resp.Contents) == 0 {
		fmt.Println("No contents found")
		return
	}

	fmt.Printf("%-36s  %-28s  %-8s  %-12s  %s\n", "ID", "Title", "Kind", "Status", "Date")
	fmt.Println(strings.Repeat("-", 100))
	for _, record := range resp.Contents {
		title := record.Title
		if len(title) > 28 {
			title = title[:25] + "..."
		}
		date := record.Date
		if date == "" {
			date = "-"
		}
		fmt.Printf("%-36s  %-28s  %-8s  %-12s  %s\n",
			record.ID.String(),
			title,
			record.Kind,
			record.Status,
			date,
		)
	}
	fmt.Printf("\nTotal: %d", len(resp.Contents))
	if resp.HasMore {
		fmt.Printf(" (showing first %d, use the admin CLI for pagination)", limit)
	}
	fmt.Println()
}

func (s *AdminShell) handleCount(ctx context.Context, args []string) {
	resp, err := s.adminSvc.CountContents(ctx, admin.CountRequest{
		Filters: kindFilters(args),
	})
	if err != nil {
		fmt.Printf("Error counting contents: %v\n", err)
		return
	}

	fmt.Printf("Total count: %d\n", resp.Count)
}

func (s *AdminShell) handleStats(ctx context.Context, args []string) {
	resp, err := s.adminSvc.GetStatistics(ctx, admin.StatisticsRequest{
		Filters: kindFilters(args),
		Options: admin.DefaultStatisticsOptions(),
	})
	if err != nil {
		fmt.Printf("Error getting statistics: %v\n", err)
		return
	}

	stats := resp.Statistics
	fmt.Printf("\nTotal Count: %d\n", stats.TotalCount)

	if len(stats.ByKind) > 0 {
		fmt.Println("\nBy Kind:")
		for kind, count := range stats.ByKind {
			fmt.Printf("  %-15s: %d\n", kind, count)
		}
	}

	if len(stats.ByStatus) > 0 {
		fmt.Println("\nBy Status:")
		for status, count := range stats.ByStatus {
			fmt.Printf("  %-15s: %d\n", status, count)
		}
	}

	if stats.OldestContent != nil && stats.NewestContent != nil {
		fmt.Println("\nTime Range:")
		fmt.Printf("  Oldest: %s\n", stats.OldestContent.Format(time.RFC3339))
		fmt.Printf("  Newest: %s\n", stats.NewestContent.Format(time.RFC3339))
	}
	fmt.Println()
}

func (s *AdminShell) handleGet(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: get <content-id>")
		return
	}

	contentID, err := uuid.Parse(args[0])
	if err != nil {
		fmt.Printf("Invalid content ID: %s\n", args[0])
		return
	}

	record, err := s.repo.GetContent(ctx, contentID)
	if err != nil {
		fmt.Printf("Error getting content: %v\n", err)
		return
	}

	// Pretty print as JSON
	data, _ := json.MarshalIndent(record, "", "  ")
	fmt.Println(string(data))
}

func (s *AdminShell) handleBuild(ctx context.Context, args []string) {
	cfg := simplelisting.DefaultBlockConfig()
	if len(args) > 0 {
		cfg.ContentTypes = args
	}

	listing := s.service.BuildListing(ctx, cfg)

	fmt.Printf("\n%s (%d items)\n", listing.Title, len(listing.Items))
	for _, item := range listing.Items {
		fmt.Printf("  [%s] %s (%s)\n", item.KindLabel, item.Title, item.Date)
	}
	if listing.ViewAll != nil {
		fmt.Printf("  View all -> %s\n", listing.ViewAll.URL)
	}
	fmt.Printf("  Cache tags: %s\n", strings.Join(listing.Cache.Tags, ", "))
	fmt.Println()
}
