package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/infoshield/infoshield/internal/model"
	"github.com/infoshield/infoshield/internal/queue"
)

var (
	reviewStatus  string
	resolverNotes string
)

// reviewsCmd represents the reviews command
var reviewsCmd = &cobra.Command{
	Use:   "reviews",
	Short: "Manage the human review queue",
	Long: `Manage queries that the pipeline routed to human verification.

Queries land here when they are neither urgent enough for an immediate
alert nor corroborated enough for an automated response. Each entry
carries the query text, its urgency, its credibility score and a short
evidence note for the verifier.`,
}

var reviewsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List review queue entries",
	Long: `List entries in the review queue, pending ones by default.

Example:
  infoshield reviews list
  infoshield reviews list --status resolved
  infoshield reviews list --status all`,
	RunE: runReviewsList,
}

var reviewsResolveCmd = &cobra.Command{
	Use:   "resolve <id>",
	Short: "Resolve a pending review entry",
	Long: `Mark a review entry as resolved with the verifier's notes.
An entry can be resolved exactly once.

Example:
  infoshield reviews resolve IS-4f9a21bc --notes "Confirmed with local fire dept"`,
	Args: cobra.ExactArgs(1),
	RunE: runReviewsResolve,
}

func init() {
	rootCmd.AddCommand(reviewsCmd)
	reviewsCmd.AddCommand(reviewsListCmd)
	reviewsCmd.AddCommand(reviewsResolveCmd)

	reviewsCmd.PersistentFlags().StringVar(&queuePath, "queue", "", "review queue file (default from config)")
	reviewsListCmd.Flags().StringVar(&reviewStatus, "status", "pending", "filter by status (pending, resolved, all)")
	reviewsResolveCmd.Flags().StringVar(&resolverNotes, "notes", "", "verifier's resolution notes")
	_ = reviewsResolveCmd.MarkFlagRequired("notes")
}

func openReviewQueue() (*queue.FileQueue, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	path := cfg.Queue.Path
	if queuePath != "" {
		path = queuePath
	}
	return queue.NewFileQueue(path)
}

func runReviewsList(cmd *cobra.Command, args []string) error {
	reviews, err := openReviewQueue()
	if err != nil {
		return fmt.Errorf("open review queue: %w", err)
	}
	defer func() { _ = reviews.Close() }()

	var status model.ReviewStatus
	switch strings.ToLower(reviewStatus) {
	case "pending":
		status = model.ReviewPending
	case "resolved":
		status = model.ReviewResolved
	case "all", "":
		status = ""
	default:
		return fmt.Errorf("unknown status %q (expected pending, resolved or all)", reviewStatus)
	}

	records, err := reviews.List(status)
	if err != nil {
		return fmt.Errorf("list reviews: %w", err)
	}

	if len(records) == 0 {
		fmt.Println("No review entries found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tURGENCY\tCREDIBILITY\tENQUEUED\tQUERY")
	for _, r := range records {
		text := r.QueryText
		if len(text) > 50 {
			text = text[:47] + "..."
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%.0f\t%s\t%s\n",
			r.ID, r.Status, r.Urgency, r.Credibility,
			r.EnqueuedAt.Format("2006-01-02 15:04"), text)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d entries\n", len(records))
	return nil
}

func runReviewsResolve(cmd *cobra.Command, args []string) error {
	id := args[0]

	reviews, err := openReviewQueue()
	if err != nil {
		return fmt.Errorf("open review queue: %w", err)
	}
	defer func() { _ = reviews.Close() }()

	record, err := reviews.Resolve(id, resolverNotes)
	if err != nil {
		switch {
		case errors.Is(err, queue.ErrNotFound):
			return fmt.Errorf("no review entry with id %s", id)
		case errors.Is(err, queue.ErrAlreadyResolved):
			return fmt.Errorf("review entry %s is already resolved", id)
		default:
			return fmt.Errorf("resolve review: %w", err)
		}
	}

	fmt.Printf("✓ Resolved %s\n", record.ID)
	fmt.Printf("  Query:  %s\n", record.QueryText)
	fmt.Printf("  Notes:  %s\n", record.ResolverNotes)
	if record.ResolvedAt != nil {
		fmt.Printf("  At:     %s\n", record.ResolvedAt.Format("2006-01-02 15:04:05 MST"))
	}
	return nil
}
