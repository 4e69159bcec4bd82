package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/money-mage/internal/model"
	"github.com/Veraticus/money-mage/internal/oracle"
	"github.com/Veraticus/money-mage/internal/report"
	"github.com/Veraticus/money-mage/internal/service"
)

// Notifier delivers secondary, non-authoritative progress notices (the
// "analyzing..." messages sent while an oracle call is in flight). The
// authoritative reply is always the string returned by HandleMessage.
type Notifier interface {
	Notify(ctx context.Context, userKey, text string) error
}

// NopNotifier discards progress notices.
type NopNotifier struct{}

// Notify implements Notifier.
func (NopNotifier) Notify(context.Context, string, string) error { return nil }

// Handler is the conversation core. One inbound message produces exactly
// one reply; per-user handling is serialized while distinct users proceed
// in parallel.
type Handler struct {
	ledger   service.Ledger
	oracle   service.Oracle
	reports  *report.Engine
	sessions *sessionTable
	locks    *keyedMutex
	notifier Notifier
	clock    func() time.Time
	logger   *slog.Logger
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithClock overrides the wall clock used to derive the current accounting
// month and expense timestamps.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// WithNotifier installs a sink for progress notices.
func WithNotifier(notifier Notifier) HandlerOption {
	return func(h *Handler) {
		h.notifier = notifier
	}
}

// NewHandler creates the conversation handler.
func NewHandler(ledger service.Ledger, oracle service.Oracle, reports *report.Engine, logger *slog.Logger, opts ...HandlerOption) *Handler {
	h := &Handler{
		ledger:   ledger,
		oracle:   oracle,
		reports:  reports,
		sessions: newSessionTable(),
		locks:    newKeyedMutex(),
		notifier: NopNotifier{},
		clock:    time.Now,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// HandleMessage processes one inbound message and returns the reply to
// send. It always returns a non-empty reply, even when err is non-nil; the
// error exists for logging, never to drop the message.
func (h *Handler) HandleMessage(ctx context.Context, userKey, text string) (string, error) {
	unlock := h.locks.lock(userKey)
	defer unlock()

	text = strings.TrimSpace(text)
	state := h.sessionFor(ctx, userKey)

	h.logger.Debug("handling message",
		"user", userKey,
		"state", state.String(),
		"length", len(text))

	switch state {
	case StateNew:
		return h.startOnboarding(ctx, userKey)
	case StateAwaitingName:
		return h.onboardName(ctx, userKey, text)
	case StateAwaitingBudget:
		return h.onboardBudget(ctx, userKey, text)
	case StateActive:
		return h.dispatch(ctx, userKey, text)
	default:
		return genericApologyReply, fmt.Errorf("user %q in unknown state %d", userKey, state)
	}
}

// sessionFor resolves a user's conversational phase. The session table is
// authoritative; an untracked user with a completed profile (possible when
// the table and the ledger are populated independently in tests) is
// reconciled to Active.
func (h *Handler) sessionFor(ctx context.Context, userKey string) State {
	state := h.sessions.get(userKey)
	if state != StateNew {
		return state
	}

	user, err := h.ledger.GetUser(ctx, userKey)
	if err != nil {
		return StateNew
	}
	if user.OnboardingComplete {
		h.sessions.set(userKey, StateActive)
		return StateActive
	}

	return state
}

// startOnboarding greets a first-time user. A placeholder profile is
// created immediately so the next message finds the user mid-onboarding.
func (h *Handler) startOnboarding(ctx context.Context, userKey string) (string, error) {
	if _, err := h.ledger.CreateUser(ctx, userKey, "", 0); err != nil {
		return genericApologyReply, fmt.Errorf("create placeholder user: %w", err)
	}

	h.sessions.set(userKey, StateAwaitingName)

	h.logger.Info("onboarding started", "user", userKey)

	return welcomeReply, nil
}

// onboardName stores the user's name verbatim and asks for the budget.
func (h *Handler) onboardName(ctx context.Context, userKey, text string) (string, error) {
	if text == "" {
		return "📝 Para começar, qual é o seu nome?", nil
	}

	if _, err := h.ledger.UpdateUser(ctx, userKey, service.UserUpdate{Name: &text}); err != nil {
		return genericApologyReply, fmt.Errorf("store name: %w", err)
	}

	h.sessions.set(userKey, StateAwaitingBudget)

	return fmt.Sprintf("Prazer em te conhecer, *%s*! 😊\n\n"+
		"💰 Agora me diga: qual é o seu orçamento mensal?\n"+
		"(Exemplo: 3000 ou 3000.50)", text), nil
}

// onboardBudget validates the budget, fetches the oracle's recommendation
// (falling back to the deterministic split on failure), and activates the
// user. Invalid input leaves both session and profile untouched.
func (h *Handler) onboardBudget(ctx context.Context, userKey, text string) (string, error) {
	budget, err := parseAmount(text)
	if err != nil {
		return invalidBudgetReply, nil
	}

	user, err := h.ledger.GetUser(ctx, userKey)
	if err != nil {
		return genericApologyReply, fmt.Errorf("load onboarding user: %w", err)
	}

	advice := h.onboardingAdvice(ctx, user.Name, budget)

	complete := true
	profile := advice.Profile
	if _, err := h.ledger.UpdateUser(ctx, userKey, service.UserUpdate{
		MonthlyBudget:      &budget,
		OnboardingComplete: &complete,
		FinancialProfile:   &profile,
	}); err != nil {
		return genericApologyReply, fmt.Errorf("complete onboarding: %w", err)
	}

	h.sessions.set(userKey, StateActive)

	h.logger.Info("onboarding complete",
		"user", userKey,
		"budget", budget)

	return onboardingSummary(advice, budget), nil
}

// onboardingAdvice asks the oracle for a recommendation, degrading to the
// fixed 50/30/15/5 split so onboarding can always complete.
func (h *Handler) onboardingAdvice(ctx context.Context, name string, budget float64) service.OnboardingAdvice {
	advice, err := h.oracle.OnboardingAdvice(ctx, name, budget)
	if err != nil {
		h.logger.Warn("onboarding advice failed, using default split",
			"error", err)
		return oracle.DefaultOnboardingAdvice(name, budget)
	}
	return advice
}

func onboardingSummary(advice service.OnboardingAdvice, budget float64) string {
	p := advice.Profile
	return fmt.Sprintf("%s\n\n"+
		"📊 *Distribuição Recomendada do Orçamento:*\n\n"+
		"💸 Gastos Fixos: %.0f%% (R$ %.2f)\n"+
		"🛒 Gastos Variáveis: %.0f%% (R$ %.2f)\n"+
		"📈 Investimentos: %.0f%% (R$ %.2f)\n"+
		"🆘 Reserva Emergência: %.0f%% (R$ %.2f)\n\n"+
		"✅ *Cadastro completo!*\n\n"+
		"📝 Agora você pode me enviar seus gastos naturalmente!\n"+
		"Exemplo: \"Gastei 50 reais no mercado\"\n\n"+
		"💡 Comandos disponíveis:\n"+
		"/ajuda - Ver todos os comandos\n"+
		"/saldo - Ver quanto você gastou\n"+
		"/relatorio - Relatório detalhado\n"+
		"/analise - Análise financeira com IA",
		advice.Message,
		p.FixedPct, budget*p.FixedPct/100,
		p.VariablePct, budget*p.VariablePct/100,
		p.InvestmentPct, budget*p.InvestmentPct/100,
		p.EmergencyPct, budget*p.EmergencyPct/100)
}

// dispatch routes an active user's message: slash commands go to the
// command table, everything else is treated as a free-text expense.
func (h *Handler) dispatch(ctx context.Context, userKey, text string) (string, error) {
	user, err := h.ledger.GetUser(ctx, userKey)
	if err != nil {
		// The state machine gates on profile existence, so this is a
		// logic defect rather than a user mistake.
		return genericApologyReply, fmt.Errorf("active user missing from ledger: %w", err)
	}

	if strings.HasPrefix(text, "/") {
		return h.handleCommand(ctx, *user, text)
	}

	return h.recordExpense(ctx, *user, text)
}

// currentMonth derives the accounting month from the injected clock.
func (h *Handler) currentMonth() string {
	return model.MonthKey(h.clock())
}
