package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arnav/rapidreach/internal/config"
	"github.com/arnav/rapidreach/internal/coordinator"
	"github.com/arnav/rapidreach/internal/llm"
	"github.com/arnav/rapidreach/internal/observability"
	"github.com/arnav/rapidreach/internal/pipeline"
	"github.com/arnav/rapidreach/internal/pipeline/steps"
	"github.com/arnav/rapidreach/internal/types"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the outreach sequence for a single lead",
	Long: `Runs the full outreach sequence end-to-end for one business: research,
proposal drafting, fact check, phone call, call classification, pitch
deck, follow-up email, and session save. Step failures are recorded and
the remaining steps continue.`,
	RunE: runOutreach,
}

var (
	runBusiness     string
	runPhone        string
	runEmail        string
	runAddress      string
	runCity         string
	runPlaceID      string
	runLeadContext  string
	runSkipCall     bool
	runDeckTemplate string
	runCoordinated  bool
)

// coordinatorToolBudget bounds the initial coordinated pass; the
// supervisor's own narrowed budget applies to repair rounds.
const coordinatorToolBudget = 24

func init() {
	runCmd.Flags().StringVarP(&runBusiness, "business", "b", "", "Business name (required)")
	runCmd.Flags().StringVar(&runPhone, "phone", "", "Business phone number")
	runCmd.Flags().StringVar(&runEmail, "email", "", "Contact email address")
	runCmd.Flags().StringVar(&runAddress, "address", "", "Street address")
	runCmd.Flags().StringVar(&runCity, "city", "", "City")
	runCmd.Flags().StringVar(&runPlaceID, "place-id", "", "Lead place ID for status tracking")
	runCmd.Flags().StringVar(&runLeadContext, "context", "", "Extra lead context for research")
	runCmd.Flags().BoolVar(&runSkipCall, "skip-call", false, "Skip the phone call step")
	runCmd.Flags().StringVar(&runDeckTemplate, "deck-template", "", "Pitch deck template style")
	runCmd.Flags().BoolVar(&runCoordinated, "coordinated", false, "Drive the sequence through the model-led coordinator instead of the step executor")
	_ = runCmd.MarkFlagRequired("business")

	rootCmd.AddCommand(runCmd)
}

func runOutreach(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := context.Background()
	database, err := connectDatabase(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}
	if database != nil {
		defer database.Close()
	}

	opts := buildPipelineOptions(ctx, cfg, database)
	opts.OnProgress = func(message string) {
		fmt.Fprintln(os.Stdout, message)
	}

	req := &types.SDRRequest{
		BusinessName: runBusiness,
		Phone:        runPhone,
		Email:        runEmail,
		Address:      runAddress,
		City:         runCity,
		PlaceID:      runPlaceID,
		LeadContext:  runLeadContext,
		SkipCall:     runSkipCall,
		DeckTemplate: runDeckTemplate,
	}

	if runCoordinated {
		return superviseOutreach(ctx, opts.LLM, req, os.Stdout)
	}

	report := pipeline.New(opts).Run(ctx, req)

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintStepReport(report)
	if rec := opts.Store.Get(report.SessionID); rec != nil {
		printer.PrintSessionSummary(rec.Result)
	}

	if report.Status != "success" {
		return fmt.Errorf("outreach failed: %s", report.Message)
	}
	return nil
}

// superviseOutreach runs the lead through the model-led coordinator and
// prints its transcript. Steps the supervisor could not confirm after
// its repair rounds are printed as warnings.
func superviseOutreach(ctx context.Context, client llm.Client, req *types.SDRRequest, out io.Writer) error {
	if client == nil {
		return fmt.Errorf("coordinated mode requires GEMINI_API_KEY")
	}

	var required []string
	if req.SkipCall {
		for _, name := range steps.Order {
			if name == steps.StepPhoneCall || name == steps.StepClassify {
				continue
			}
			required = append(required, name)
		}
	}

	sup := coordinator.NewSupervisor(coordinator.NewLLMRunner(client), required)
	result, err := sup.Supervise(ctx, coordinatorInstruction(req), coordinatorToolBudget)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, result.Output)
	for _, w := range result.Warnings {
		fmt.Fprintln(out, "warning: "+w)
	}
	return nil
}

func coordinatorInstruction(req *types.SDRRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Run the full outreach sequence for %q.\n", req.BusinessName)
	if req.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", req.Phone)
	}
	if req.Email != "" {
		fmt.Fprintf(&b, "Email: %s\n", req.Email)
	}
	if req.Address != "" || req.City != "" {
		fmt.Fprintf(&b, "Location: %s\n", strings.TrimSpace(req.Address+" "+req.City))
	}
	if req.LeadContext != "" {
		fmt.Fprintf(&b, "Lead context: %s\n", req.LeadContext)
	}
	if req.SkipCall {
		b.WriteString("Do not place a phone call; mark the call steps as skipped.\n")
	}
	fmt.Fprintf(&b, "Execute the steps in order: %s.", strings.Join(steps.Order, ", "))
	return b.String()
}
