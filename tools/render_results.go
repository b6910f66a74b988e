// render_results renders a stored session (as JSON) to the printable
// results page, and optionally to PDF, without running the server.
//
//	go run ./tools --in session.json --out results.html
//	go run ./tools --in session.json --out results.pdf --pdf
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"mock-interview/internal/domain"
	"mock-interview/internal/web"
	"mock-interview/pkg/infrastructure"

	"github.com/spf13/cobra"
)

func main() {
	var in, out string
	var pdf bool

	cmd := &cobra.Command{
		Use:           "render_results",
		Short:         "Render a scored session to HTML or PDF",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := os.ReadFile(in)
			if err != nil {
				return fmt.Errorf("read session: %w", err)
			}
			var s domain.Session
			if err := json.Unmarshal(b, &s); err != nil {
				return fmt.Errorf("unmarshal: %w", err)
			}
			if s.Status() != domain.StatusScored {
				return fmt.Errorf("session %s has no scorecard", s.ID)
			}

			pages, err := web.NewPages(3)
			if err != nil {
				return err
			}
			html, err := pages.RenderResults(&s)
			if err != nil {
				return fmt.Errorf("render: %w", err)
			}

			data := []byte(html)
			if pdf {
				ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
				defer cancel()
				data, err = infrastructure.NewChromedpRenderer("").RenderHTMLToPDF(ctx, html)
				if err != nil {
					return fmt.Errorf("pdf: %w", err)
				}
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write: %w", err)
			}
			fmt.Printf("wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "session.json", "session JSON file")
	cmd.Flags().StringVar(&out, "out", "results.html", "output file")
	cmd.Flags().BoolVar(&pdf, "pdf", false, "print to PDF with headless Chrome")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}
