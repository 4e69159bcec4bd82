package oracle

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/money-mage/internal/common"
	"github.com/Veraticus/money-mage/internal/model"
	"github.com/Veraticus/money-mage/internal/service"
)

// Advisor implements service.Oracle on top of an LLM provider, adding rate
// limiting, retries, and response parsing.
type Advisor struct {
	client      Client
	logger      *slog.Logger
	rateLimiter *rateLimiter
	retryOpts   service.RetryOptions
}

// NewAdvisor creates an Advisor from provider configuration.
func NewAdvisor(cfg Config, logger *slog.Logger) (*Advisor, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create oracle client: %w", err)
	}

	return NewAdvisorWithClient(client, cfg, logger), nil
}

// NewAdvisorWithClient wraps an existing client; tests use it to inject
// mock providers.
func NewAdvisorWithClient(client Client, cfg Config, logger *slog.Logger) *Advisor {
	retryOpts := service.RetryOptions{
		MaxAttempts:  cfg.MaxRetries,
		InitialDelay: cfg.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	if retryOpts.MaxAttempts == 0 {
		retryOpts.MaxAttempts = 3
	}
	if retryOpts.InitialDelay == 0 {
		retryOpts.InitialDelay = time.Second
	}

	return &Advisor{
		client:      client,
		logger:      logger,
		retryOpts:   retryOpts,
		rateLimiter: newRateLimiter(cfg.RateLimit),
	}
}

// OnboardingAdvice asks the provider for a welcome message and a budget
// split recommendation. Callers fall back to DefaultOnboardingAdvice on
// error.
func (a *Advisor) OnboardingAdvice(ctx context.Context, name string, monthlyBudget float64) (service.OnboardingAdvice, error) {
	content, err := a.complete(ctx, CompletionRequest{
		Prompt: buildOnboardingPrompt(name, monthlyBudget),
	})
	if err != nil {
		return service.OnboardingAdvice{}, fmt.Errorf("%w: onboarding advice: %v", common.ErrOracleFailure, err)
	}

	advice, err := parseOnboardingAdvice(content)
	if err != nil {
		a.logger.Warn("unparseable onboarding advice",
			"error", err,
			"content_length", len(content))
		return service.OnboardingAdvice{}, err
	}

	return advice, nil
}

// AnalyzeExpense extracts structured expense fields from a free-text
// message.
func (a *Advisor) AnalyzeExpense(ctx context.Context, message string, _ model.UserProfile) (service.ExpenseAnalysis, error) {
	content, err := a.complete(ctx, CompletionRequest{
		System: expenseSystemPrompt,
		Prompt: buildExpensePrompt(message),
	})
	if err != nil {
		return service.ExpenseAnalysis{}, fmt.Errorf("%w: expense analysis: %v", common.ErrOracleFailure, err)
	}

	analysis, err := parseExpenseAnalysis(content)
	if err != nil {
		a.logger.Warn("unparseable expense analysis",
			"error", err,
			"content_length", len(content))
		return service.ExpenseAnalysis{}, err
	}

	return analysis, nil
}

// FinancialAdvice generates a free-text analysis of the user's situation.
func (a *Advisor) FinancialAdvice(ctx context.Context, user model.UserProfile, expenses []model.Expense, totalExpenses float64) (string, error) {
	content, err := a.complete(ctx, CompletionRequest{
		Prompt: buildAdvicePrompt(user, expenses, totalExpenses),
	})
	if err != nil {
		return "", fmt.Errorf("%w: financial advice: %v", common.ErrOracleFailure, err)
	}

	return content, nil
}

// complete runs one provider call under the rate limiter with retries.
func (a *Advisor) complete(ctx context.Context, req CompletionRequest) (string, error) {
	var content string

	err := common.WithRetry(ctx, func() error {
		if err := a.rateLimiter.wait(ctx); err != nil {
			return err
		}

		result, err := a.client.Complete(ctx, req)
		if err != nil {
			return err
		}

		content = result
		return nil
	}, a.retryOpts)

	return content, err
}

// Close releases the advisor's background resources.
func (a *Advisor) Close() {
	a.rateLimiter.Close()
}
