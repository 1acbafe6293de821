package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/minwook-byun/recpool/internal/intake"
	"github.com/minwook-byun/recpool/internal/store"
)

// SubmitOptions holds flags for the submit command.
type SubmitOptions struct {
	*RootOptions
	Fields intake.Fields
}

// NewSubmitCommand creates the submit command.
func NewSubmitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SubmitOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "submit <company-name>",
		Short: "Recommend a company",
		Long: `Recommend a company for the next cycle.

The name is checked again before storing, so a company that took part in a
past cycle or that was recommended in the meantime is rejected. Every
invalid field is reported at once.

Exit codes:
  0 - Recommendation stored
  1 - Rejected (empty name, invalid fields, past participant, duplicate)
      or storage unavailable

Examples:
  recpool submit 알파 \
    --contact-person 홍길동 --contact-email hong@example.com \
    --contact-phone 010-1234-5678 --sector 교육 --reason "지역 교육 격차 해소"
  recpool submit 베타 --sector 기타 --sector-detail 반려동물 ...`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubmit(cmd, opts, args[0])
		},
	}

	f := &opts.Fields
	cmd.Flags().StringVar(&f.ContactPerson, "contact-person", "", "submitter name (required)")
	cmd.Flags().StringVar(&f.ContactEmail, "contact-email", "", "submitter email (required)")
	cmd.Flags().StringVar(&f.ContactPhone, "contact-phone", "", "submitter phone (required)")
	cmd.Flags().StringVar(&f.Sector, "sector", "", "company sector (required)")
	cmd.Flags().StringVar(&f.SectorDetail, "sector-detail", "", "sector description when --sector is the other-sector option")
	cmd.Flags().StringVar(&f.InvestmentStage, "stage", "", "investment stage")
	cmd.Flags().StringVar(&f.IntroURL, "intro-url", "", "company introduction link")
	cmd.Flags().StringVar(&f.Reason, "reason", "", "reason for recommending (required)")

	return cmd
}

func runSubmit(cmd *cobra.Command, opts *SubmitOptions, name string) error {
	a, err := openApp(opts.RootOptions, cmd.ErrOrStderr(), slog.LevelWarn)
	if err != nil {
		return err
	}
	defer a.Close()

	out := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	rec, err := a.svc.Submit(cmd.Context(), name, opts.Fields)
	if err != nil {
		return out.Rejection(err)
	}

	return out.Success(rec, func(w io.Writer) { renderRecommendation(w, rec) })
}

func renderRecommendation(w io.Writer, rec store.Recommendation) {
	fmt.Fprintf(w, "✓ Recommended %s (#%d)\n", rec.CompanyName, rec.ID)
	fmt.Fprintf(w, "  Contact:  %s <%s> %s\n", rec.ContactPerson, rec.ContactEmail, rec.ContactPhone)
	fmt.Fprintf(w, "  Sector:   %s\n", rec.Sector)
	if rec.InvestmentStage != "" {
		fmt.Fprintf(w, "  Stage:    %s\n", rec.InvestmentStage)
	}
	if rec.IntroURL != "" {
		fmt.Fprintf(w, "  Link:     %s\n", rec.IntroURL)
	}
	fmt.Fprintf(w, "  Reason:   %s\n", strings.ReplaceAll(rec.Reason, "\n", "\n            "))
	fmt.Fprintf(w, "  Received: %s\n", rec.SubmittedAt.UTC().Format("2006-01-02 15:04:05Z"))
}
