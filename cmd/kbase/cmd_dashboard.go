package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/Young4Rare/kbase/internal/dashboard"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show catalog statistics",
	RunE:  runDashboard,
}

func runDashboard(cmd *cobra.Command, args []string) error {
	posts := application.Catalog.List()

	fmt.Printf("Posts:         %d\n", dashboard.TotalPosts(posts))
	fmt.Printf("Total views:   %d\n", dashboard.TotalViews(posts))
	fmt.Printf("Average views: %d\n", dashboard.AverageViews(posts))

	if top := dashboard.Top(posts, 3); len(top) > 0 {
		fmt.Println("\nMost viewed:")
		for _, p := range top {
			fmt.Printf("  %s %s  %d views\n", p.Emoji, p.Title, p.Views)
		}
	}

	byCat := dashboard.ByCategory(posts)
	if len(byCat) > 0 {
		fmt.Println("\nBy category:")
		categories := make([]string, 0, len(byCat))
		for c := range byCat {
			categories = append(categories, c)
		}
		sort.Strings(categories)
		for _, c := range categories {
			fmt.Printf("  %-30s %d\n", c, byCat[c])
		}
	}

	stats := dashboard.UserStats(posts)
	if len(stats) > 0 {
		fmt.Println("\nBy user:")
		names := make([]string, 0, len(stats))
		for n := range stats {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			s := stats[n]
			fmt.Printf("  %-16s created %d, edited %d, %d views\n", n, s.Created, s.Edited, s.Views)
		}
	}

	fmt.Println("\nViews, last 7 days:")
	for _, point := range dashboard.ViewTrend(posts, time.Now()) {
		fmt.Printf("  %-8s %d\n", point.Label, point.Views)
	}
	return nil
}
