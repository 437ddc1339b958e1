package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dvloznov/family-budget/internal/advisor"
	"github.com/dvloznov/family-budget/internal/blob"
	"github.com/dvloznov/family-budget/internal/blob/backend"
	"github.com/dvloznov/family-budget/internal/budget"
	"github.com/dvloznov/family-budget/internal/config"
	"github.com/dvloznov/family-budget/internal/domain"
	"github.com/dvloznov/family-budget/internal/logger"
	"github.com/dvloznov/family-budget/internal/store"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		bootLog := logger.New()
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log := logger.NewWithLevel(cfg.LogLevel)

	switch os.Args[1] {
	case "add":
		runAdd(cfg, log)
	case "delete":
		runDelete(cfg, log)
	case "list":
		runList(cfg, log)
	case "month":
		runMonth(cfg, log)
	case "year":
		runYear(cfg, log)
	case "categories":
		runCategories(cfg, log)
	case "settings":
		runSettings(cfg, log)
	case "advise":
		runAdvise(cfg, log)
	case "onboard":
		runOnboard(cfg, log)
	case "scan":
		runScan(cfg, log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Family Budget CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  add         Record an income or expense")
	fmt.Println("  delete      Delete a transaction by ID")
	fmt.Println("  list        List transactions")
	fmt.Println("  month       Show the monthly dashboard")
	fmt.Println("  year        Show the yearly report")
	fmt.Println("  categories  List or add categories")
	fmt.Println("  settings    Show the family profile")
	fmt.Println("  advise      Ask the financial coach a question")
	fmt.Println("  onboard     Set up the family profile in a conversation")
	fmt.Println("  scan        Recognize transactions on a receipt photo")
	fmt.Println("  help        Show this help message")
	fmt.Println("\nConfiguration is read from the environment and CONFIG_FILE.")
	fmt.Println("Run 'cli <command> -h' for more information on a command.")
}

// session holds the opened record store for one command.
type session struct {
	ctx     context.Context
	blobs   blob.Store
	records *store.Store
	goals   budget.Goals
}

func open(cfg *config.Config, log zerolog.Logger) *session {
	ctx := logger.WithContext(context.Background(), log)

	blobs, err := backend.Open(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open storage")
	}

	records, err := store.New(ctx, blobs, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load records")
	}

	return &session{
		ctx:     ctx,
		blobs:   blobs,
		records: records,
		goals: budget.Goals{
			EmergencyFundMonths: cfg.Goals.EmergencyFundMonths,
			EmergencyFundFloor:  decimal.NewFromFloat(cfg.Goals.EmergencyFundFloor),
		},
	}
}

func (s *session) close() {
	_ = s.blobs.Close()
}

func newAdvisor(ctx context.Context, cfg *config.Config, log zerolog.Logger) *advisor.Advisor {
	if !cfg.AdviceEnabled() {
		log.Fatal().Msg("Error: GEMINI_API_KEY is required for this command")
	}

	gen, err := advisor.NewGemini(ctx, advisor.GeminiConfig{
		APIKey:        cfg.Gemini.APIKey,
		Model:         cfg.Gemini.Model,
		Timeout:       time.Duration(cfg.Gemini.TimeoutSeconds) * time.Second,
		RatePerMinute: cfg.Gemini.RatePerMinute,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create advice client")
	}

	opts := advisor.DefaultOptions()
	opts.AdviceTemperature = cfg.Gemini.Temperature
	return advisor.New(gen, opts, log)
}

func monthFlags(fs *flag.FlagSet) (*int, *int) {
	now := time.Now()
	year := fs.Int("year", now.Year(), "Year")
	month := fs.Int("month", int(now.Month()), "Month (1-12)")
	return year, month
}

func runAdd(cfg *config.Config, log zerolog.Logger) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	dateStr := fs.String("date", civil.DateOf(time.Now()).String(), "Date (YYYY-MM-DD)")
	amountStr := fs.String("amount", "", "Amount in euro")
	description := fs.String("description", "", "Description")
	category := fs.String("category", "", "Category")
	typ := fs.String("type", "Ausgabe", "Type: Einnahme/income or Ausgabe/expense")
	recurring := fs.Bool("recurring", false, "Repeats every month from date on")
	endStr := fs.String("end", "", "Last day of a recurring transaction (YYYY-MM-DD)")
	fs.Parse(os.Args[2:])

	date, err := civil.ParseDate(*dateStr)
	if err != nil {
		log.Fatal().Err(err).Msg("Error: invalid -date")
	}
	amount, err := decimal.NewFromString(*amountStr)
	if err != nil {
		log.Fatal().Err(err).Msg("Error: invalid -amount")
	}
	txType, ok := domain.ParseTransactionType(*typ)
	if !ok {
		log.Fatal().Str("type", *typ).Msg("Error: invalid -type")
	}

	in := domain.TransactionInput{
		Date:        date,
		Amount:      amount,
		Description: *description,
		Category:    *category,
		Type:        txType,
		IsRecurring: *recurring,
	}
	if *endStr != "" {
		end, err := civil.ParseDate(*endStr)
		if err != nil {
			log.Fatal().Err(err).Msg("Error: invalid -end")
		}
		in.EndDate = &end
	}

	s := open(cfg, log)
	defer s.close()

	t, err := s.records.Add(s.ctx, in)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to add transaction")
	}

	fmt.Printf("Added %s\n", t.ID)
	printTransaction(t)
}

func runDelete(cfg *config.Config, log zerolog.Logger) {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	id := fs.String("id", "", "Transaction ID")
	fs.Parse(os.Args[2:])

	if *id == "" {
		log.Fatal().Msg("Error: --id is required")
	}

	s := open(cfg, log)
	defer s.close()

	if err := s.records.Delete(s.ctx, *id); err != nil {
		log.Fatal().Err(err).Msg("Failed to delete transaction")
	}
	fmt.Printf("Deleted %s\n", *id)
}

func runList(cfg *config.Config, log zerolog.Logger) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	query := fs.String("q", "", "Filter by description or category")
	recurring := fs.Bool("recurring", false, "Only recurring transactions")
	fs.Parse(os.Args[2:])

	s := open(cfg, log)
	defer s.close()

	records := budget.Filter(s.records.Transactions(), *query, *recurring)
	fmt.Printf("=== Transactions (%d) ===\n", len(records))
	for _, t := range records {
		printTransaction(t)
	}
}

func runMonth(cfg *config.Config, log zerolog.Logger) {
	fs := flag.NewFlagSet("month", flag.ExitOnError)
	year, month := monthFlags(fs)
	fs.Parse(os.Args[2:])

	if *month < 1 || *month > 12 {
		log.Fatal().Int("month", *month).Msg("Error: invalid -month")
	}

	s := open(cfg, log)
	defer s.close()

	summary := budget.Summarize(s.records.Transactions(), *year, time.Month(*month), s.records.Settings(), s.goals)

	fmt.Printf("\n=== %s %d ===\n", summary.Month, summary.Year)
	fmt.Printf("Income:           %s €\n", summary.Totals.Income.StringFixed(2))
	fmt.Printf("Expenses:         %s €\n", summary.Totals.Expense.StringFixed(2))
	fmt.Printf("Balance:          %s €\n", summary.Totals.Balance.StringFixed(2))
	fmt.Printf("Savings goal:     %s € (%s%%)\n", summary.SavingsGoal.StringFixed(2), summary.SavingsProgress.StringFixed(0))
	fmt.Printf("Emergency fund:   %s € recommended\n", summary.RecommendedEmergency.StringFixed(2))

	if len(summary.ByCategory) > 0 {
		fmt.Println("\n=== Expenses by category ===")
		for _, c := range summary.ByCategory {
			fmt.Printf("  %-20s %10s €\n", c.Category, c.Total.StringFixed(2))
		}
	}

	fmt.Printf("\n=== Transactions (%d) ===\n", len(summary.Transactions))
	for _, t := range summary.Transactions {
		printTransaction(t)
	}
}

func runYear(cfg *config.Config, log zerolog.Logger) {
	fs := flag.NewFlagSet("year", flag.ExitOnError)
	year := fs.Int("year", time.Now().Year(), "Year")
	fs.Parse(os.Args[2:])

	s := open(cfg, log)
	defer s.close()

	report := budget.SummarizeYear(s.records.Transactions(), *year, s.records.Settings())

	fmt.Printf("\n=== %d ===\n", report.Year)
	for _, m := range report.Months {
		fmt.Printf("  %-10s +%10s  -%10s  =%10s\n",
			m.Month, m.Income.StringFixed(2), m.Expense.StringFixed(2), m.Income.Sub(m.Expense).StringFixed(2))
	}
	fmt.Printf("\nIncome:   %s €\n", report.Totals.Income.StringFixed(2))
	fmt.Printf("Expenses: %s €\n", report.Totals.Expense.StringFixed(2))
	fmt.Printf("Balance:  %s €\n", report.Totals.Balance.StringFixed(2))
	if report.AnnualInterestCost.IsPositive() {
		fmt.Printf("Interest: %s € per year\n", report.AnnualInterestCost.StringFixed(2))
	}
}

func runCategories(cfg *config.Config, log zerolog.Logger) {
	fs := flag.NewFlagSet("categories", flag.ExitOnError)
	add := fs.String("add", "", "Add a category")
	fs.Parse(os.Args[2:])

	s := open(cfg, log)
	defer s.close()

	if *add != "" {
		if s.records.AddCategory(s.ctx, *add) {
			fmt.Printf("Added category %q\n", strings.TrimSpace(*add))
		} else {
			fmt.Printf("Category %q already exists\n", strings.TrimSpace(*add))
		}
	}

	for _, c := range s.records.Categories() {
		fmt.Println(c)
	}
}

func runSettings(cfg *config.Config, log zerolog.Logger) {
	s := open(cfg, log)
	defer s.close()

	fmt.Println(advisor.ContextSummary(s.records.Settings()))
	if !s.records.OnboardingCompleted() {
		fmt.Println("\nOnboarding not completed. Run 'cli onboard' to set up the profile.")
	}
}

func runAdvise(cfg *config.Config, log zerolog.Logger) {
	fs := flag.NewFlagSet("advise", flag.ExitOnError)
	year, month := monthFlags(fs)
	fs.Parse(os.Args[2:])

	question := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if question == "" {
		log.Fatal().Msg("Usage: cli advise [-year Y -month M] QUESTION")
	}

	s := open(cfg, log)
	defer s.close()

	adv := newAdvisor(s.ctx, cfg, log)
	settings := s.records.Settings()
	summary := budget.Summarize(s.records.Transactions(), *year, time.Month(*month), settings, s.goals)

	history := []advisor.Message{{Role: advisor.RoleUser, Text: question}}
	fmt.Println(adv.RequestAdvice(s.ctx, history, settings, summary))
}

func runOnboard(cfg *config.Config, log zerolog.Logger) {
	s := open(cfg, log)
	defer s.close()

	adv := newAdvisor(s.ctx, cfg, log)
	input := bufio.NewScanner(os.Stdin)

	var history []advisor.Message
	for {
		reply := adv.RequestOnboarding(s.ctx, history)
		if reply.Complete {
			s.records.CompleteOnboarding(s.ctx, *reply.Settings)
			fmt.Println("\nOnboarding completed.")
			fmt.Println(advisor.ContextSummary(*reply.Settings))
			return
		}

		if len(history) == 0 {
			history = append(history, advisor.Message{Role: advisor.RoleUser, Text: "Start"})
		}
		history = append(history, advisor.Message{Role: advisor.RoleModel, Text: reply.Text})

		fmt.Printf("\n%s\n> ", reply.Text)
		if !input.Scan() {
			return
		}
		answer := strings.TrimSpace(input.Text())
		if answer == "" {
			continue
		}
		history = append(history, advisor.Message{Role: advisor.RoleUser, Text: answer})
	}
}

func runScan(cfg *config.Config, log zerolog.Logger) {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	filePath := fs.String("file", "", "Path to receipt photo")
	apply := fs.Bool("apply", false, "Save the recognized transactions")
	fs.Parse(os.Args[2:])

	if *filePath == "" {
		log.Fatal().Msg("Error: --file is required")
	}

	data, err := os.ReadFile(*filePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read receipt")
	}

	s := open(cfg, log)
	defer s.close()

	adv := newAdvisor(s.ctx, cfg, log)
	drafts := adv.RequestReceiptAnalysis(s.ctx, data, s.records.Categories())
	if drafts == nil {
		log.Fatal().Msg("No transactions recognized on receipt")
	}

	fmt.Printf("=== Recognized (%d) ===\n", len(drafts))
	for _, d := range drafts {
		printTransaction(d.WithID("-"))
	}

	if !*apply {
		fmt.Println("\nRun again with -apply to save them.")
		return
	}

	added, err := s.records.ApplyDrafts(s.ctx, drafts)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to save transactions")
	}
	fmt.Printf("\nSaved %d transactions.\n", len(added))
}

func printTransaction(t domain.Transaction) {
	sign := "-"
	if t.Type == domain.TransactionTypeIncome {
		sign = "+"
	}
	fmt.Printf("\n%s  %s\n", t.Date, t.Description)
	fmt.Printf("   Amount:   %s%s €\n", sign, t.Amount.StringFixed(2))
	fmt.Printf("   Category: %s\n", t.Category)
	if t.IsRecurring {
		if t.EndDate != nil {
			fmt.Printf("   Monthly until %s\n", t.EndDate)
		} else {
			fmt.Println("   Monthly")
		}
	}
	fmt.Printf("   ID:       %s\n", t.ID)
}
