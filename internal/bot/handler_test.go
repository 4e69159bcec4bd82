package bot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/money-mage/internal/ledger"
	"github.com/Veraticus/money-mage/internal/model"
	"github.com/Veraticus/money-mage/internal/report"
	"github.com/Veraticus/money-mage/internal/service"
)

var testClock = func() time.Time {
	return time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)
}

// mockOracle is a test implementation of service.Oracle.
type mockOracle struct {
	advice      service.OnboardingAdvice
	adviceErr   error
	analysis    service.ExpenseAnalysis
	analysisErr error
	adviceText  string
	adviceTextE error
	mu          sync.Mutex
	calls       int
}

func (m *mockOracle) OnboardingAdvice(_ context.Context, _ string, _ float64) (service.OnboardingAdvice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.advice, m.adviceErr
}

func (m *mockOracle) AnalyzeExpense(_ context.Context, _ string, _ model.UserProfile) (service.ExpenseAnalysis, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.analysis, m.analysisErr
}

func (m *mockOracle) FinancialAdvice(_ context.Context, _ model.UserProfile, _ []model.Expense, _ float64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.adviceText, m.adviceTextE
}

// recordingNotifier captures progress notices.
type recordingNotifier struct {
	notices []string
	mu      sync.Mutex
}

func (n *recordingNotifier) Notify(_ context.Context, _ string, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, text)
	return nil
}

func defaultAdvice() service.OnboardingAdvice {
	return service.OnboardingAdvice{
		Message: "Bem-vinda!",
		Profile: model.FinancialProfile{FixedPct: 50, VariablePct: 30, InvestmentPct: 15, EmergencyPct: 5},
	}
}

func amountPtr(v float64) *float64 { return &v }

type fixture struct {
	handler  *Handler
	store    *ledger.MemoryStore
	oracle   *mockOracle
	notifier *recordingNotifier
}

func newFixture(oracle *mockOracle) *fixture {
	store := ledger.NewMemoryStore(ledger.WithClock(testClock))
	notifier := &recordingNotifier{}
	handler := NewHandler(store, oracle, report.NewEngine(store), slog.Default(),
		WithClock(testClock), WithNotifier(notifier))

	return &fixture{handler: handler, store: store, oracle: oracle, notifier: notifier}
}

// onboard walks a user through the complete onboarding flow.
func (f *fixture) onboard(t *testing.T, userKey, name, budget string) {
	t.Helper()

	ctx := context.Background()

	reply, err := f.handler.HandleMessage(ctx, userKey, "oi")
	require.NoError(t, err)
	require.Contains(t, reply, "qual é o seu nome")

	reply, err = f.handler.HandleMessage(ctx, userKey, name)
	require.NoError(t, err)
	require.Contains(t, reply, "orçamento mensal")

	reply, err = f.handler.HandleMessage(ctx, userKey, budget)
	require.NoError(t, err)
	require.Contains(t, reply, "Cadastro completo")
}

func TestOnboardingFlow(t *testing.T) {
	f := newFixture(&mockOracle{advice: defaultAdvice()})
	ctx := context.Background()

	// Scenario A: any first message starts onboarding.
	reply, err := f.handler.HandleMessage(ctx, "maria-key", "bom dia")
	require.NoError(t, err)
	assert.Contains(t, reply, "Bem-vindo ao seu Assistente Financeiro")

	reply, err = f.handler.HandleMessage(ctx, "maria-key", "Maria")
	require.NoError(t, err)
	assert.Contains(t, reply, "Maria")
	assert.Contains(t, reply, "orçamento mensal")

	reply, err = f.handler.HandleMessage(ctx, "maria-key", "3000")
	require.NoError(t, err)
	assert.Contains(t, reply, "Distribuição Recomendada")
	assert.Contains(t, reply, "50%")
	assert.Contains(t, reply, "R$ 1500.00")

	user, err := f.store.GetUser(ctx, "maria-key")
	require.NoError(t, err)
	assert.Equal(t, "Maria", user.Name)
	assert.InDelta(t, 3000.0, user.MonthlyBudget, 0.001)
	assert.True(t, user.OnboardingComplete)
	require.NotNil(t, user.FinancialProfile)
	assert.InDelta(t, 100.0, user.FinancialProfile.Sum(), 0.001)
}

func TestOnboardingInvalidBudgets(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "not a number", input: "muito dinheiro"},
		{name: "zero", input: "0"},
		{name: "negative", input: "-100"},
		{name: "negative with comma", input: "-1,50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(&mockOracle{advice: defaultAdvice()})
			ctx := context.Background()

			_, err := f.handler.HandleMessage(ctx, "user-1", "oi")
			require.NoError(t, err)
			_, err = f.handler.HandleMessage(ctx, "user-1", "Maria")
			require.NoError(t, err)

			reply, err := f.handler.HandleMessage(ctx, "user-1", tt.input)
			require.NoError(t, err)
			assert.Contains(t, reply, "valor válido")

			// State stays at budget collection and the profile is untouched.
			user, err := f.store.GetUser(ctx, "user-1")
			require.NoError(t, err)
			assert.False(t, user.OnboardingComplete)
			assert.Zero(t, user.MonthlyBudget)

			// The next valid input still completes onboarding.
			reply, err = f.handler.HandleMessage(ctx, "user-1", "2500,50")
			require.NoError(t, err)
			assert.Contains(t, reply, "Cadastro completo")

			user, err = f.store.GetUser(ctx, "user-1")
			require.NoError(t, err)
			assert.InDelta(t, 2500.50, user.MonthlyBudget, 0.001)
		})
	}
}

func TestOnboardingOracleFallback(t *testing.T) {
	f := newFixture(&mockOracle{adviceErr: fmt.Errorf("oracle down")})
	ctx := context.Background()

	_, err := f.handler.HandleMessage(ctx, "user-1", "oi")
	require.NoError(t, err)
	_, err = f.handler.HandleMessage(ctx, "user-1", "Maria")
	require.NoError(t, err)

	// Onboarding still completes with the deterministic 50/30/15/5 split.
	reply, err := f.handler.HandleMessage(ctx, "user-1", "3000")
	require.NoError(t, err)
	assert.Contains(t, reply, "Cadastro completo")
	assert.Contains(t, reply, "Gastos Fixos: 50%")
	assert.Contains(t, reply, "Reserva Emergência: 5%")

	user, err := f.store.GetUser(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, user.OnboardingComplete)
	require.NotNil(t, user.FinancialProfile)
	assert.InDelta(t, 50.0, user.FinancialProfile.FixedPct, 0.001)
}

func TestRecordExpense(t *testing.T) {
	// Scenario B: first expense against a 1000 budget.
	oracle := &mockOracle{
		advice: defaultAdvice(),
		analysis: service.ExpenseAnalysis{
			Amount:      amountPtr(50),
			Description: "mercado",
			Category:    model.CategoryFood,
			Type:        model.ExpenseTypeVariable,
		},
	}
	f := newFixture(oracle)
	f.onboard(t, "user-1", "Maria", "1000")

	reply, err := f.handler.HandleMessage(context.Background(), "user-1", "gastei 50 no mercado")
	require.NoError(t, err)

	assert.Contains(t, reply, "Gasto registrado")
	assert.Contains(t, reply, "mercado")
	assert.Contains(t, reply, "Alimentação")
	assert.Contains(t, reply, "Total gasto: R$ 50.00")
	assert.Contains(t, reply, "Saldo restante: R$ 950.00")
	assert.NotContains(t, reply, "⚠️")

	// The progress notice was sent before the reply.
	assert.Contains(t, f.notifier.notices, analyzingExpenseNotice)

	expenses, err := f.store.ListExpenses(context.Background(), "user-1", "2026-08")
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, "2026-08", expenses[0].Month)
}

func TestRecordExpenseCrossesAlertTier(t *testing.T) {
	// Scenario C: 920 already spent, 50 more lands in the 90% tier.
	oracle := &mockOracle{
		advice: defaultAdvice(),
		analysis: service.ExpenseAnalysis{
			Amount:      amountPtr(50),
			Description: "jantar",
			Category:    model.CategoryFood,
			Type:        model.ExpenseTypeVariable,
		},
	}
	f := newFixture(oracle)
	f.onboard(t, "user-1", "Maria", "1000")

	ctx := context.Background()
	prior := model.NewExpense("user-1", "contas", 920, model.CategoryHousing, model.ExpenseTypeFixed, testClock())
	require.NoError(t, f.store.AddExpense(ctx, prior))

	reply, err := f.handler.HandleMessage(ctx, "user-1", "jantei fora, 50 reais")
	require.NoError(t, err)

	assert.Contains(t, reply, "Total gasto: R$ 970.00")
	assert.Contains(t, reply, "90%")
	assert.NotContains(t, reply, "ultrapassou")
}

func TestRecordExpenseNoAmount(t *testing.T) {
	// Scenario D: the oracle found no amount; nothing is stored.
	oracle := &mockOracle{
		advice:   defaultAdvice(),
		analysis: service.ExpenseAnalysis{Description: "algo", Category: model.CategoryOther},
	}
	f := newFixture(oracle)
	f.onboard(t, "user-1", "Maria", "1000")

	reply, err := f.handler.HandleMessage(context.Background(), "user-1", "comprei umas coisas")
	require.NoError(t, err)
	assert.Contains(t, reply, "Não consegui identificar o valor")

	expenses, err := f.store.ListExpenses(context.Background(), "user-1", "")
	require.NoError(t, err)
	assert.Empty(t, expenses)
}

func TestRecordExpenseOracleFailure(t *testing.T) {
	oracle := &mockOracle{
		advice:      defaultAdvice(),
		analysisErr: fmt.Errorf("oracle down"),
	}
	f := newFixture(oracle)
	f.onboard(t, "user-1", "Maria", "1000")

	reply, err := f.handler.HandleMessage(context.Background(), "user-1", "gastei 50")
	require.NoError(t, err)
	assert.Contains(t, reply, "tente novamente")

	expenses, err := f.store.ListExpenses(context.Background(), "user-1", "")
	require.NoError(t, err)
	assert.Empty(t, expenses)
}

func TestUpdateBudgetCommand(t *testing.T) {
	f := newFixture(&mockOracle{advice: defaultAdvice()})
	f.onboard(t, "user-1", "Maria", "1000")
	ctx := context.Background()

	// Scenario E: missing argument replies with usage and mutates nothing.
	reply, err := f.handler.HandleMessage(ctx, "user-1", "/orcamento")
	require.NoError(t, err)
	assert.Contains(t, reply, "Uso correto")

	user, err := f.store.GetUser(ctx, "user-1")
	require.NoError(t, err)
	assert.InDelta(t, 1000.0, user.MonthlyBudget, 0.001)

	// Invalid argument.
	reply, err = f.handler.HandleMessage(ctx, "user-1", "/orcamento abc")
	require.NoError(t, err)
	assert.Contains(t, reply, "valor válido")

	// Valid update, comma separator accepted.
	reply, err = f.handler.HandleMessage(ctx, "user-1", "/orcamento 3500,75")
	require.NoError(t, err)
	assert.Contains(t, reply, "Orçamento atualizado")

	user, err = f.store.GetUser(ctx, "user-1")
	require.NoError(t, err)
	assert.InDelta(t, 3500.75, user.MonthlyBudget, 0.001)
}

func TestCommands(t *testing.T) {
	oracle := &mockOracle{
		advice:     defaultAdvice(),
		adviceText: "Você está indo bem.",
		analysis: service.ExpenseAnalysis{
			Amount:      amountPtr(200),
			Description: "mercado",
			Category:    model.CategoryFood,
			Type:        model.ExpenseTypeVariable,
		},
	}
	f := newFixture(oracle)
	f.onboard(t, "user-1", "Maria", "1000")
	ctx := context.Background()

	t.Run("help", func(t *testing.T) {
		reply, err := f.handler.HandleMessage(ctx, "user-1", "/ajuda")
		require.NoError(t, err)
		assert.Contains(t, reply, "Comandos Disponíveis")
	})

	t.Run("unknown command", func(t *testing.T) {
		reply, err := f.handler.HandleMessage(ctx, "user-1", "/xyz")
		require.NoError(t, err)
		assert.Contains(t, reply, "Comando não reconhecido")
	})

	t.Run("commands are case insensitive", func(t *testing.T) {
		reply, err := f.handler.HandleMessage(ctx, "user-1", "/AJUDA")
		require.NoError(t, err)
		assert.Contains(t, reply, "Comandos Disponíveis")
	})

	t.Run("categories empty", func(t *testing.T) {
		reply, err := f.handler.HandleMessage(ctx, "user-1", "/categorias")
		require.NoError(t, err)
		assert.Contains(t, reply, "ainda não tem gastos")
	})

	t.Run("balance", func(t *testing.T) {
		reply, err := f.handler.HandleMessage(ctx, "user-1", "/saldo")
		require.NoError(t, err)
		assert.Contains(t, reply, "Seu Saldo Atual")
		assert.Contains(t, reply, "░")
	})

	t.Run("profile", func(t *testing.T) {
		reply, err := f.handler.HandleMessage(ctx, "user-1", "/perfil")
		require.NoError(t, err)
		assert.Contains(t, reply, "Maria")
		assert.Contains(t, reply, "15/08/2026")
		assert.Contains(t, reply, "Distribuição Recomendada")
	})

	t.Run("record and break down", func(t *testing.T) {
		_, err := f.handler.HandleMessage(ctx, "user-1", "gastei 200 no mercado")
		require.NoError(t, err)

		reply, err := f.handler.HandleMessage(ctx, "user-1", "/categorias")
		require.NoError(t, err)
		assert.Contains(t, reply, "🍔 Alimentação: R$ 200.00")
	})

	t.Run("report", func(t *testing.T) {
		reply, err := f.handler.HandleMessage(ctx, "user-1", "/relatorio")
		require.NoError(t, err)
		assert.Contains(t, reply, "Relatório Mensal")
		assert.Contains(t, reply, "Agosto 2026")
		assert.Contains(t, reply, "Renda: R$ 1000.00")
		assert.Contains(t, reply, "Gastos: R$ 200.00")
	})

	t.Run("analysis", func(t *testing.T) {
		reply, err := f.handler.HandleMessage(ctx, "user-1", "/analise")
		require.NoError(t, err)
		assert.Contains(t, reply, "Análise Financeira IA")
		assert.Contains(t, reply, "Você está indo bem.")
		assert.Contains(t, f.notifier.notices, generatingAnalysisNotice)
	})
}

func TestAnalysisOracleFailure(t *testing.T) {
	oracle := &mockOracle{
		advice:      defaultAdvice(),
		adviceTextE: fmt.Errorf("oracle down"),
	}
	f := newFixture(oracle)
	f.onboard(t, "user-1", "Maria", "1000")

	reply, err := f.handler.HandleMessage(context.Background(), "user-1", "/analise")
	require.NoError(t, err)
	assert.Contains(t, reply, "Erro ao gerar análise")
}

// Messages from distinct users proceed independently; messages from the
// same user are serialized so interleaved onboarding answers cannot
// corrupt the profile.
func TestConcurrentUsers(t *testing.T) {
	f := newFixture(&mockOracle{advice: defaultAdvice()})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("user-%d", n)
			f.onboard(t, key, fmt.Sprintf("Pessoa %d", n), "1000")
		}(i)
	}
	wg.Wait()

	for i := 0; i < 10; i++ {
		user, err := f.store.GetUser(ctx, fmt.Sprintf("user-%d", i))
		require.NoError(t, err)
		assert.True(t, user.OnboardingComplete)
		assert.Equal(t, fmt.Sprintf("Pessoa %d", i), user.Name)
	}
}

func TestDuplicateOnboardingAnswers(t *testing.T) {
	f := newFixture(&mockOracle{advice: defaultAdvice()})
	ctx := context.Background()

	_, err := f.handler.HandleMessage(ctx, "user-1", "oi")
	require.NoError(t, err)

	// The same answer arriving twice concurrently: one lands as the name,
	// the other is consumed by the next state, never corrupting the flow.
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, handleErr := f.handler.HandleMessage(ctx, "user-1", "Maria")
			assert.NoError(t, handleErr)
		}()
	}
	wg.Wait()

	user, err := f.store.GetUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Maria", user.Name)
	assert.False(t, user.OnboardingComplete)
}
