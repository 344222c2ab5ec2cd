package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"

	simplelisting "github.com/tendant/simple-listing/pkg/simplelisting"
	"github.com/tendant/simple-listing/pkg/simplelisting/admin"
	"github.com/tendant/simple-listing/pkg/simplelisting/config"
)

const usage = `Simple Listing Admin CLI

A lightweight admin tool for listing content that only requires database access.

USAGE:
  admin <command> [options]

COMMANDS:
  list      List content records with optional filtering
  count     Count content records with optional filtering
  stats     Get aggregated statistics

ENVIRONMENT VARIABLES:
  DATABASE_URL      PostgreSQL connection string (required for postgres)
  DATABASE_TYPE     Database type: postgres or memory (default: memory)
  DB_SCHEMA         PostgreSQL schema name (default: listing)

  Configuration can be loaded from a .env file in the current directory.
  Command line environment variables override .env file values.

EXAMPLES:
  # List all content records
  admin list

  # List news records only
  admin list --kind=news

  # List with pagination
  admin list --limit=10 --offset=0

  # List unpublished records
  admin list --status=unpublished

  # Count events created this year
  admin count --kind=events --created-after=2024-01-01T00:00:00Z

  # Get statistics
  admin stats

  # Output as JSON
  admin list --json
  admin stats --json

OPTIONS (for list/count/stats):
  --kind=<kind>                Filter by content kind (news, events); repeatable
  --status=<status>            Filter by status (published, unpublished); repeatable
  --term-id=<id>               Filter by category term ID; repeatable
  --created-after=<rfc3339>    Only records created at or after this time
  --created-before=<rfc3339>   Only records created at or before this time
  --limit=<n>                  Maximum results (list only, default: 100)
  --offset=<n>                 Pagination offset (list only, default: 0)
  --sort-by=<field>            Sort field (created_at, updated_at, date, title, status)
  --sort-order=<order>         Sort order (asc, desc)
  --json                       Output as JSON
`

func main() {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	command := os.Args[1]

	// Check for help
	if command == "help" || command == "--help" || command == "-h" {
		fmt.Println(usage)
		os.Exit(0)
	}

	// Create admin service
	adminSvc, err := createAdminService()
	if err != nil {
		log.Fatalf("Failed to create admin service: %v", err)
	}

	ctx := context.Background()

	// Parse common flags
	filters, useJSON := parseFilters(os.Args[2:])

	// Execute command
	switch command {
	case "list":
		handleList(ctx, adminSvc, filters, useJSON)
	case "count":
		handleCount(ctx, adminSvc, filters, useJSON)
	case "stats":
		handleStats(ctx, adminSvc, filters, useJSON)
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		fmt.Println(usage)
		os.Exit(1)
	}
}

func createAdminService() (admin.AdminService, error) {
	cfg, err := config.Load(config.WithEnv())
	if err != nil {
		return nil, err
	}

	repo, err := cfg.BuildRepository()
	if err != nil {
		return nil, err
	}

	return admin.New(repo), nil
}

func parseFilters(args []string) (admin.ContentFilters, bool) {
	filters := admin.ContentFilters{}
	useJSON := false

	// Default pagination
	defaultLimit := 100
	defaultOffset := 0
	filters.Limit = &defaultLimit
	filters.Offset = &defaultOffset

	for _, arg := range args {
		if arg == "--json" {
			useJSON = true
			continue
		}

		// Parse key=value flags
		key, value := parseFlag(arg)

		switch key {
		case "kind":
			filters.Kinds = append(filters.Kinds, simplelisting.ContentKind(value))
		case "status":
			filters.Statuses = append(filters.Statuses, simplelisting.PublishStatus(value))
		case "term-id":
			if id, err := strconv.ParseInt(value, 10, 64); err == nil {
				filters.TermIDs = append(filters.TermIDs, id)
			}
		case "created-after":
			if t, err := time.Parse(time.RFC3339, value); err == nil {
				filters.CreatedAfter = &t
			}
		case "created-before":
			if t, err := time.Parse(time.RFC3339, value); err == nil {
				filters.CreatedBefore = &t
			}
		case "limit":
			if n, err := strconv.Atoi(value); err == nil {
				filters.Limit = &n
			}
		case "offset":
			if n, err := strconv.Atoi(value); err == nil {
				filters.Offset = &n
			}
		case "sort-by":
			filters.SortBy = &value
		case "sort-order":
			filters.SortOrder = &value
		}
	}

	return filters, useJSON
}

func parseFlag(arg string) (string, string) {
	if len(arg) > 2 && arg[:2] == "--" {
		arg = arg[2:]
		for i, c := range arg {
			if c == '=' {
				return arg[:i], arg[i+1:]
			}
		}
		return arg, "true"
	}
	return "", ""
}

func handleList(ctx context.Context, adminSvc admin.AdminService, filters admin.ContentFilters, useJSON bool) {
	resp, err := adminSvc.ListAllContents(ctx, admin.ListContentsRequest{
		Filters: filters,
	})
	if err != nil {
		log.Fatalf("Failed to list contents: %v", err)
	}

	if useJSON {
		data, _ := json.MarshalIndent(resp, "", "  ")
		fmt.Println(string(data))
		return
	}

	// Table output
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tTITLE\tKIND\tSTATUS\tDATE\tCREATED\n")
	fmt.Fprintf(w, "───────────\t────────────────────────────\t────────\t────────────\t────────────\t──────────────────────\n")

	for _, record := range resp.Contents {
		createdAt := record.CreatedAt.Format("2006-01-02 15:04:05")
		date := record.Date
		if date == "" {
			date = "-"
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			record.ID.String()[:8]+"...",
			truncate(record.Title, 28),
			record.Kind,
			record.Status,
			date,
			createdAt,
		)
	}
	w.Flush()

	fmt.Printf("\nTotal: %d", len(resp.Contents))
	if resp.HasMore {
		fmt.Printf(" (has more, use --offset=%d to continue)", *filters.Offset+*filters.Limit)
	}
	fmt.Println()
}

func handleCount(ctx context.Context, adminSvc admin.AdminService, filters admin.ContentFilters, useJSON bool) {
	resp, err := adminSvc.CountContents(ctx, admin.CountRequest{
		Filters: filters,
	})
	if err != nil {
		log.Fatalf("Failed to count contents: %v", err)
	}

	if useJSON {
		data, _ := json.MarshalIndent(resp, "", "  ")
		fmt.Println(string(data))
		return
	}

	fmt.Printf("Total count: %d\n", resp.Count)
}

func handleStats(ctx context.Context, adminSvc admin.AdminService, filters admin.ContentFilters, useJSON bool) {
	resp, err := adminSvc.GetStatistics(ctx, admin.StatisticsRequest{
		Filters: filters,
		Options: admin.DefaultStatisticsOptions(),
	})
	if err != nil {
		log.Fatalf("Failed to get statistics: %v", err)
	}

	if useJSON {
		data, _ := json.MarshalIndent(resp, "", "  ")
		fmt.Println(string(data))
		return
	}

	stats := resp.Statistics

	fmt.Println("=== Listing Content Statistics ===")
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

	fmt.Printf("\nComputed at: %s\n", resp.ComputedAt.Format(time.RFC3339))
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
