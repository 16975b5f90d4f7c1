package bot

import (
	"fmt"

	"github.com/wppstore/cantina-bot/internal/gateway"
)

// All customer-facing copy lives here. The option titles double as the
// matching keywords: the gateway reports list replies by title, so each
// title must contain the keyword its rule matches on.

const (
	msgUnitPrompt = "Olá! Aqui é o atendimento da *Cantina*.\n\n" +
		"Para começar, escolha a unidade onde o interno se encontra:"

	msgUnitRetry = "Não reconheci essa unidade. Escolha uma das opções abaixo:"

	msgOrderMethodPrompt = "Como você prefere fazer seu pedido?"

	msgNameCPFPrompt = "Para consultar vales, dívidas e haveres, envie o *nome completo* " +
		"e o *CPF* do cliente, separados por traço.\n\n" +
		"Exemplo: João da Silva – 123.456.789-00"

	msgNameCPFHint = "Não consegui identificar o nome e o CPF. Envie no formato:\n\n" +
		"Nome completo – CPF\n\nExemplo: João da Silva – 123.456.789-00"

	msgOutrosPrompt = "Certo! Sobre o que você precisa falar?"

	msgIssueNotArrived = "Os pedidos são entregues na unidade conforme o cronograma " +
		"semanal de distribuição, e a entrega pode levar até 7 dias úteis após a " +
		"confirmação do pagamento.\n\nIsso responde sua dúvida? (Sim/Não)"

	msgIssueIncomplete = "Quando um item do pedido está em falta, o valor dele vira um " +
		"*haver* (crédito) em nome do cliente, que pode ser usado no próximo pedido " +
		"ou consultado aqui pelo WhatsApp.\n\nIsso responde sua dúvida? (Sim/Não)"

	msgIssueResolved = "Que bom! Qualquer coisa é só chamar."

	msgModifyPrompt = "Informe o *número do pedido* e o que você deseja alterar. " +
		"Vou encaminhar para a equipe da cantina."

	msgCancelPrompt = "Informe o *número do pedido* que deseja cancelar. " +
		"Vou encaminhar para a equipe da cantina."

	msgForwarded = "Pronto! Sua solicitação foi encaminhada para a equipe da cantina. " +
		"Um atendente entrará em contato em breve."

	msgHandoff = "Vou te transferir para um de nossos atendentes. " +
		"Aguarde um momento que já vamos te responder!"

	msgTimeout = "Percebi que você ficou um tempo sem responder, então vou encaminhar " +
		"seu atendimento para um atendente. Aguarde que já vamos te chamar!"

	msgUnitNotConfigured = "A consulta para essa unidade ainda não está disponível por " +
		"aqui. Vou te encaminhar para um atendente que pode ajudar."

	msgLookupFailed = "Não consegui acessar a planilha de consultas agora. " +
		"Vou te encaminhar para um atendente."

	msgRecordNotFound = "Não encontrei nenhum cadastro com esses dados. " +
		"Vou te encaminhar para um atendente para conferir."

	msgConsultHint = "Digite *Voltar* para retornar ao menu principal."
)

func unitOptions(units []Unit) []gateway.Option {
	opts := make([]gateway.Option, len(units))
	for i, u := range units {
		opts[i] = gateway.Option{ID: u.Code, Title: u.Title}
	}
	return opts
}

func serviceOptions() []gateway.Option {
	return []gateway.Option{
		{ID: "pedido", Title: "Fazer pedido"},
		{ID: "consulta", Title: "Consultar vales e dívidas"},
		{ID: "outros", Title: "Outros assuntos / Dúvidas"},
		{ID: "voltar", Title: "Voltar"},
	}
}

func orderMethodOptions() []gateway.Option {
	return []gateway.Option{
		{ID: "site", Title: "Pedir pelo site"},
		{ID: "texto", Title: "Continuar por texto"},
		{ID: "voltar", Title: "Voltar"},
	}
}

func outrosOptions() []gateway.Option {
	return []gateway.Option{
		{ID: "nao_chegou", Title: "Meu pedido não chegou"},
		{ID: "incompleto", Title: "Pedido incompleto ou errado"},
		{ID: "modificar", Title: "Modificar um pedido"},
		{ID: "cancelar", Title: "Cancelar um pedido"},
		{ID: "atendente", Title: "Falar com atendente"},
		{ID: "voltar", Title: "Voltar"},
	}
}

func serviceMenuPrompt(unitTitle string) string {
	return fmt.Sprintf("*%s*\n\nComo posso ajudar?", unitTitle)
}

func orderSiteMessage(url string) string {
	return fmt.Sprintf("Você pode fazer seu pedido direto pelo nosso site:\n\n%s\n\n"+
		"Lá você encontra o catálogo completo com preços atualizados.", url)
}

func orderTextMessage(catalogURL string) string {
	return fmt.Sprintf("Sem problemas! Consulte o catálogo aqui:\n\n%s\n\n"+
		"Depois envie seu pedido em uma única mensagem, neste formato:\n\n"+
		"Nome do interno:\nUnidade:\nItens (quantidade e produto):\nForma de pagamento:", catalogURL)
}
