package main

import (
	"context"
	"log"

	"github.com/arnav/rapidreach/internal/config"
	"github.com/arnav/rapidreach/internal/db"
	"github.com/arnav/rapidreach/internal/deck"
	"github.com/arnav/rapidreach/internal/email"
	"github.com/arnav/rapidreach/internal/llm"
	"github.com/arnav/rapidreach/internal/notify"
	"github.com/arnav/rapidreach/internal/pipeline"
	"github.com/arnav/rapidreach/internal/research"
	"github.com/arnav/rapidreach/internal/session"
	"github.com/arnav/rapidreach/internal/telephony"
)

// buildPipelineOptions assembles the pipeline collaborators from
// configuration. Missing credentials disable the owning component only;
// the affected step then reports a configuration failure instead of the
// whole agent refusing to start.
func buildPipelineOptions(ctx context.Context, cfg *config.Config, database *db.DB) pipeline.Options {
	opts := pipeline.Options{
		Store:         session.NewStore(),
		Notifier:      notify.NewNotifier(cfg.UIClientURL+"/api/agent-callback", nil),
		FallbackEmail: cfg.FallbackEmail,
		SalesEmail:    cfg.SalesEmail,
	}
	if database != nil {
		opts.Database = database
	}

	if cfg.GeminiAPIKey != "" {
		client, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.GeminiAPIKey)
		if err != nil {
			log.Printf("LLM client unavailable: %v", err)
		} else {
			opts.LLM = client
		}
	}

	researcher, err := research.NewResearcher(ctx, research.Options{
		LLM:          opts.LLM,
		SearchAPIKey: cfg.SearchAPIKey,
		SearchCX:     cfg.SearchCX,
	})
	if err != nil {
		log.Printf("Web research unavailable: %v", err)
	} else {
		opts.Researcher = researcher
	}

	callerOpts := telephony.CallerOptions{
		Cooldown:     cfg.CallCooldown,
		PollInterval: cfg.CallPollInterval,
		CallTimeout:  cfg.CallTimeout,
	}
	provider, err := telephony.NewElevenLabsProvider(telephony.ElevenLabsConfig{
		APIKey:        cfg.TelephonyAPIKey,
		AgentID:       cfg.TelephonyAgentID,
		PhoneNumberID: cfg.TelephonyPhoneID,
		BaseURL:       cfg.TelephonyBaseURL,
	})
	if err != nil {
		log.Printf("Telephony unavailable: %v", err)
	} else {
		callerOpts.Provider = provider
	}
	opts.Caller = telephony.NewCaller(callerOpts)

	opts.Decks = deck.NewClient(cfg.DeckServiceURL, nil)

	// Gmail auth comes from application default credentials.
	transport, err := email.NewGmailTransport(ctx)
	if err != nil {
		log.Printf("Email delivery unavailable: %v", err)
	} else {
		opts.Sender = email.NewSender(transport, cfg.SalesEmail)
	}

	return opts
}

// connectDatabase opens the session store database when configured.
// Returns nil when DATABASE_URL is unset; sessions then live in memory
// for the process lifetime.
func connectDatabase(ctx context.Context, cfg *config.Config) (*db.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, nil
	}
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := database.EnsureSchema(ctx); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}
