package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dvloznov/family-budget/internal/budget"
	"github.com/dvloznov/family-budget/internal/domain"
	"github.com/dvloznov/family-budget/internal/logger"
)

// Fallback replies shown when the advice service fails.
const (
	AdviceFallback     = "Technischer Fehler."
	OnboardingFallback = "Hoppla!"
)

const (
	onboardingInstruction = "Onboarding Finanz-Mentor für Familien. Sammle Name, Personen, Miete/Eigenheim, Auto, Tiere, Sparziel, Schulden. " +
		"Stelle immer nur EINE FRAGE. Gib am Ende ausschließlich ein JSON-Objekt mit den Feldern " +
		"familyName, adults, children, monthlySavingsGoal, financialFocus, housingSituation, petCount, carCount, " +
		"publicTransportSubCount, debtAmount, interestRate zurück."

	onboardingStart = "Start"

	adviceInstruction = "Finanz-Mentor für Familien. Profil: %s Daten: %s Sei herzlich und gib konkrete Spartipps."

	receiptPrompt = "Analysiere diesen Beleg und gib ein JSON-Array zurück. Jedes Element hat die Felder " +
		"amount (positive Zahl), description, category, type (Ausgabe/Einnahme) und optional date (YYYY-MM-DD). " +
		"Verwende für category nach Möglichkeit eine dieser Kategorien: %s."
)

// Options tunes the requests.
type Options struct {
	AdviceTemperature     float32
	OnboardingTemperature float32
}

// DefaultOptions matches the temperatures the budget app has always used.
func DefaultOptions() Options {
	return Options{AdviceTemperature: 0.8, OnboardingTemperature: 0.7}
}

// OnboardingReply is either the next question or, when Complete is set, the
// gathered profile.
type OnboardingReply struct {
	Text     string                 `json:"text,omitempty"`
	Complete bool                   `json:"complete"`
	Settings *domain.FamilySettings `json:"settings,omitempty"`
}

// Advisor wraps a Generator with prompt building and response parsing.
type Advisor struct {
	gen  Generator
	opts Options
	log  zerolog.Logger
	now  func() time.Time
}

// New creates an Advisor.
func New(gen Generator, opts Options, log zerolog.Logger) *Advisor {
	return &Advisor{
		gen:  gen,
		opts: opts,
		log:  logger.Component(log, "advisor"),
		now:  time.Now,
	}
}

// RequestAdvice answers the latest user message with the family profile and
// month figures as context. It returns AdviceFallback on any failure.
func (a *Advisor) RequestAdvice(ctx context.Context, history []Message, settings domain.FamilySettings, month budget.MonthSummary) string {
	if len(history) == 0 {
		return AdviceFallback
	}

	reply, err := a.gen.Generate(ctx, Request{
		SystemInstruction: fmt.Sprintf(adviceInstruction, ContextSummary(settings), DataSummary(month)),
		Messages:          history,
		Temperature:       &a.opts.AdviceTemperature,
	})
	if err != nil {
		a.log.Warn().Err(err).Msg("Advice request failed")
		return AdviceFallback
	}
	return strings.TrimSpace(reply)
}

// RequestOnboarding continues the onboarding conversation. An empty history
// starts it. A reply embedding a decodable and valid settings object completes
// onboarding; anything else is passed on as text.
func (a *Advisor) RequestOnboarding(ctx context.Context, history []Message) OnboardingReply {
	if len(history) == 0 {
		history = []Message{{Role: RoleUser, Text: onboardingStart}}
	}

	reply, err := a.gen.Generate(ctx, Request{
		SystemInstruction: onboardingInstruction,
		Messages:          history,
		Temperature:       &a.opts.OnboardingTemperature,
	})
	if err != nil {
		a.log.Warn().Err(err).Msg("Onboarding request failed")
		return OnboardingReply{Text: OnboardingFallback}
	}

	if settings, ok := parseSettings(reply); ok {
		if err := settings.Validate(); err == nil {
			return OnboardingReply{Complete: true, Settings: &settings}
		}
		a.log.Warn().Msg("Onboarding reply carried invalid settings")
	}
	return OnboardingReply{Text: strings.TrimSpace(reply)}
}

func parseSettings(reply string) (domain.FamilySettings, bool) {
	obj, ok := firstJSONObject(reply)
	if !ok {
		return domain.FamilySettings{}, false
	}
	settings := domain.DefaultSettings()
	if err := json.Unmarshal([]byte(obj), &settings); err != nil {
		return domain.FamilySettings{}, false
	}
	return settings, true
}

// receiptLine is one item as the model reports it.
type receiptLine struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Type        string          `json:"type"`
	Date        string          `json:"date"`
}

// RequestReceiptAnalysis extracts transaction drafts from a receipt photo.
// It returns nil on any failure, including an undecodable image, a
// malformed or empty reply and a reply without a single usable draft.
func (a *Advisor) RequestReceiptAnalysis(ctx context.Context, image []byte, categories []string) []domain.TransactionInput {
	jpeg, err := PrepareReceiptImage(image)
	if err != nil {
		a.log.Warn().Err(err).Msg("Receipt image rejected")
		return nil
	}

	reply, err := a.gen.Generate(ctx, Request{
		Messages: []Message{{
			Role: RoleUser,
			Text: fmt.Sprintf(receiptPrompt, strings.Join(categories, ", ")),
		}},
		Image:            &Image{MIMEType: "image/jpeg", Data: jpeg},
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		a.log.Warn().Err(err).Msg("Receipt analysis failed")
		return nil
	}

	lines, err := decodeReceiptLines(cleanModelJSON(reply))
	if err != nil {
		a.log.Warn().Err(err).Str("reply", reply).Msg("Malformed receipt analysis")
		return nil
	}

	today := civil.DateOf(a.now())
	var drafts []domain.TransactionInput
	for _, l := range lines {
		d, ok := l.draft(today)
		if !ok {
			a.log.Debug().Str("description", l.Description).Msg("Dropping unusable receipt line")
			continue
		}
		drafts = append(drafts, d)
	}
	if len(drafts) == 0 {
		return nil
	}

	a.log.Info().Int("drafts", len(drafts)).Msg("Receipt analyzed")
	return drafts
}

// decodeReceiptLines accepts an array of lines or a single line object.
func decodeReceiptLines(s string) ([]receiptLine, error) {
	if strings.HasPrefix(s, "{") {
		var one receiptLine
		if err := json.Unmarshal([]byte(s), &one); err != nil {
			return nil, err
		}
		return []receiptLine{one}, nil
	}
	var lines []receiptLine
	if err := json.Unmarshal([]byte(s), &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (l receiptLine) draft(today civil.Date) (domain.TransactionInput, bool) {
	typ, ok := domain.ParseTransactionType(l.Type)
	if !ok {
		typ = domain.TransactionTypeExpense
	}

	date := today
	if d, err := civil.ParseDate(strings.TrimSpace(l.Date)); err == nil && d.IsValid() {
		date = d
	}

	in := domain.TransactionInput{
		Date:        date,
		Amount:      l.Amount.Abs(),
		Description: l.Description,
		Category:    l.Category,
		Type:        typ,
	}.Normalize()

	if in.Validate() != nil {
		return domain.TransactionInput{}, false
	}
	return in, true
}
