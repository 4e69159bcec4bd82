package bot

// Static reply texts. Dynamic replies are assembled where they are sent.
const (
	welcomeReply = "👋 *Olá! Bem-vindo ao seu Assistente Financeiro Pessoal!*\n\n" +
		"Vou te ajudar a gerenciar seus gastos e tomar decisões financeiras mais inteligentes.\n\n" +
		"📝 Para começar, qual é o seu nome?"

	invalidBudgetReply = "⚠️ Por favor, informe um valor válido.\n" +
		"Exemplo: 3000 ou 3000.50"

	helpReply = "🤖 *Comandos Disponíveis:*\n\n" +
		"📊 *Consultas:*\n" +
		"/saldo - Ver saldo atual e total gasto\n" +
		"/relatorio - Relatório completo do mês\n" +
		"/analise - Análise financeira com IA\n" +
		"/categorias - Ver gastos por categoria\n\n" +
		"⚙️ *Configurações:*\n" +
		"/orcamento [valor] - Alterar orçamento mensal\n" +
		"/perfil - Ver seu perfil financeiro\n\n" +
		"📝 *Registrar gastos:*\n" +
		"Basta enviar uma mensagem natural!\n" +
		"Ex: \"Gastei 50 no uber\" ou \"Paguei 200 na conta de luz\""

	unknownCommandReply = "❓ Comando não reconhecido.\n" +
		"Digite /ajuda para ver todos os comandos disponíveis."

	analyzingExpenseNotice = "🔄 Analisando seu gasto..."

	expenseApologyReply = "❌ Desculpe, ocorreu um erro ao processar seu gasto.\n" +
		"Por favor, tente novamente."

	clarifyAmountReply = "🤔 Não consegui identificar o valor do gasto.\n" +
		"Por favor, informe o valor mais claramente.\n" +
		"Exemplo: \"Gastei 50 reais no mercado\""

	generatingAnalysisNotice = "🤖 Gerando análise financeira com IA..."

	analysisFailedReply = "❌ Erro ao gerar análise. Tente novamente mais tarde."

	noExpensesReply = "📊 Você ainda não tem gastos registrados este mês."

	budgetUsageReply = "⚠️ Uso correto: /orcamento [valor]\n" +
		"Exemplo: /orcamento 3500"

	invalidNewBudgetReply = "⚠️ Por favor, informe um valor válido."

	genericApologyReply = "😔 Desculpe, ocorreu um erro ao processar sua mensagem.\n" +
		"Por favor, tente novamente em alguns instantes."
)
