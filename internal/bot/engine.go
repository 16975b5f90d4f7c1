// Package bot implements the conversation engine: a finite-state machine
// over the customer's session, driven by keyword matching on inbound text.
// Each state has an ordered rule list; the first matching rule runs and
// anything that matches nothing is handed to a human attendant.
package bot

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/wppstore/cantina-bot/internal/gateway"
	"github.com/wppstore/cantina-bot/internal/session"
	"github.com/wppstore/cantina-bot/internal/store"
	"github.com/wppstore/cantina-bot/internal/workbook"
)

// Sender is the outbound messaging capability the engine consumes.
type Sender interface {
	SendText(phone, message string) error
	SendOptionList(phone, prompt string, options []gateway.Option) error
}

// RecordFetcher looks a customer up in the unit's workbook.
type RecordFetcher interface {
	FetchCustomerRecord(ctx context.Context, unitCode, name, identifier string) (*workbook.CustomerRecord, error)
}

// Auditor persists escalation and consultation records. May be nil; auditing
// is best-effort and never blocks the conversation.
type Auditor interface {
	RecordEscalation(e store.Escalation) error
	RecordConsultation(c store.Consultation) error
}

type Engine struct {
	gw       Sender
	sessions *session.Store
	books    RecordFetcher
	audit    Auditor

	units        []Unit
	admin        string
	orderSiteURL string
	catalogURL   string
}

// Options carries the engine's static configuration.
type Options struct {
	Units        []Unit // defaults to DefaultUnits
	AdminContact string
	OrderSiteURL string
	CatalogURL   string
}

func NewEngine(gw Sender, sessions *session.Store, books RecordFetcher, audit Auditor, opts Options) *Engine {
	units := opts.Units
	if len(units) == 0 {
		units = DefaultUnits
	}
	return &Engine{
		gw:           gw,
		sessions:     sessions,
		books:        books,
		audit:        audit,
		units:        units,
		admin:        opts.AdminContact,
		orderSiteURL: opts.OrderSiteURL,
		catalogURL:   opts.CatalogURL,
	}
}

// HandleMessage runs one inbound message through the state machine and
// reschedules the session's inactivity timer.
func (e *Engine) HandleMessage(phone, text string) {
	raw := strings.TrimSpace(text)
	norm := strings.ToLower(raw)

	s := e.sessions.GetOrCreate(phone)
	e.dispatch(s, raw, norm)
	e.sessions.ResetTimer(phone)
}

type rule struct {
	match func(e *Engine, s *session.Session, norm string) bool
	run   func(e *Engine, s *session.Session, raw, norm string)
}

// stateRules is the executable form of the transition table. Rules are
// evaluated top to bottom, first match wins. States with no always-matching
// last rule, and states absent from the map entirely, fall through to
// fallbackToHuman.
var stateRules = map[session.State][]rule{
	session.StateInit: {
		{always, (*Engine).startConversation},
	},
	session.StateAwaitingUnit: {
		{always, (*Engine).chooseUnit},
	},
	session.StateAwaitingOption: {
		{contains("fazer pedido", "pedido"), (*Engine).startOrder},
		{contains("consultar", "vales", "dívidas", "dividas"), (*Engine).askNameCPF},
		{contains("outros", "dúvidas", "duvidas"), (*Engine).sendOutrosMenu},
		{contains("voltar"), (*Engine).backToUnitMenu},
		{always, (*Engine).resendOptionMenu},
	},
	session.StateAwaitingPedidoMethod: {
		{contains("site"), (*Engine).orderBySite},
		{contains("continuar", "texto"), (*Engine).orderByText},
		{contains("voltar"), (*Engine).backToOptionMenu},
	},
	session.StateAwaitingOutros: {
		{contains("não chegou", "nao chegou"), (*Engine).issueNotArrived},
		{contains("incompleto", "faltou", "errado"), (*Engine).issueIncomplete},
		{contains("modificar"), (*Engine).askModifyDetails},
		{contains("cancelar"), (*Engine).askCancelDetails},
		{contains("outro", "atendente"), (*Engine).requestAttendant},
		{contains("voltar"), (*Engine).backToOptionMenu},
	},
	session.StateAwaitingConfirmIssue: {
		{affirmative, (*Engine).confirmResolved},
		{negative, (*Engine).confirmUnresolved},
	},
	session.StateAwaitingModify: {
		{always, (*Engine).forwardModify},
	},
	session.StateAwaitingCancel: {
		{always, (*Engine).forwardCancel},
	},
	session.StateAwaitingNameCPF: {
		{always, (*Engine).handleConsultation},
	},
	session.StateAwaitingHuman: {
		{always, (*Engine).absorb},
	},
}

func (e *Engine) dispatch(s *session.Session, raw, norm string) {
	for _, r := range stateRules[s.State] {
		if r.match(e, s, norm) {
			r.run(e, s, raw, norm)
			return
		}
	}
	e.fallbackToHuman(s, raw)
}

// --- matchers ---

func always(*Engine, *session.Session, string) bool { return true }

func contains(keywords ...string) func(*Engine, *session.Session, string) bool {
	return func(_ *Engine, _ *session.Session, norm string) bool {
		for _, k := range keywords {
			if strings.Contains(norm, k) {
				return true
			}
		}
		return false
	}
}

// Single-character confirmations match exactly; matching "s" or "n" by
// substring would swallow almost any sentence.
func affirmative(_ *Engine, _ *session.Session, norm string) bool {
	return norm == "s" || norm == "1" || strings.Contains(norm, "sim")
}

func negative(_ *Engine, _ *session.Session, norm string) bool {
	return norm == "n" || norm == "2" || strings.Contains(norm, "não") || strings.Contains(norm, "nao")
}

// --- actions ---

func (e *Engine) startConversation(s *session.Session, _, _ string) {
	e.sendUnitMenu(s, msgUnitPrompt)
}

func (e *Engine) chooseUnit(s *session.Session, _, norm string) {
	u, ok := e.resolveUnit(norm)
	if !ok {
		e.sendUnitMenu(s, msgUnitRetry)
		return
	}
	s.Unit = u.Code
	e.sendOptionMenu(s)
}

func (e *Engine) startOrder(s *session.Session, _, _ string) {
	e.send(s.Phone, func() error {
		return e.gw.SendOptionList(s.Phone, msgOrderMethodPrompt, orderMethodOptions())
	})
	s.State = session.StateAwaitingPedidoMethod
}

func (e *Engine) askNameCPF(s *session.Session, _, _ string) {
	e.sendText(s.Phone, msgNameCPFPrompt)
	s.State = session.StateAwaitingNameCPF
}

func (e *Engine) sendOutrosMenu(s *session.Session, _, _ string) {
	e.send(s.Phone, func() error {
		return e.gw.SendOptionList(s.Phone, msgOutrosPrompt, outrosOptions())
	})
	s.State = session.StateAwaitingOutros
}

func (e *Engine) backToUnitMenu(s *session.Session, _, _ string) {
	e.sendUnitMenu(s, msgUnitPrompt)
}

func (e *Engine) resendOptionMenu(s *session.Session, _, _ string) {
	e.sendOptionMenu(s)
}

func (e *Engine) backToOptionMenu(s *session.Session, _, _ string) {
	e.sendOptionMenu(s)
}

func (e *Engine) orderBySite(s *session.Session, _, _ string) {
	e.sendText(s.Phone, orderSiteMessage(e.orderSiteURL))
	e.sendOptionMenu(s)
}

func (e *Engine) orderByText(s *session.Session, _, _ string) {
	e.sendText(s.Phone, orderTextMessage(e.catalogURL))
	s.State = session.StateAwaitingOption
}

func (e *Engine) issueNotArrived(s *session.Session, _, _ string) {
	e.sendText(s.Phone, msgIssueNotArrived)
	s.LastIssue = "PEDIDO_NAO_CHEGOU"
	s.State = session.StateAwaitingConfirmIssue
}

func (e *Engine) issueIncomplete(s *session.Session, _, _ string) {
	e.sendText(s.Phone, msgIssueIncomplete)
	s.LastIssue = "PEDIDO_INCOMPLETO"
	s.State = session.StateAwaitingConfirmIssue
}

func (e *Engine) confirmResolved(s *session.Session, _, _ string) {
	e.sendText(s.Phone, msgIssueResolved)
	e.sendOptionMenu(s)
}

func (e *Engine) confirmUnresolved(s *session.Session, _, _ string) {
	e.notifyAdmin("Cliente %s segue com problema %s. Assumir atendimento.", s.Phone, s.LastIssue)
	e.sendText(s.Phone, msgHandoff)
	e.recordEscalation(s, "issue_unresolved", s.LastIssue)
	s.State = session.StateAwaitingHuman
}

func (e *Engine) askModifyDetails(s *session.Session, _, _ string) {
	e.sendText(s.Phone, msgModifyPrompt)
	s.State = session.StateAwaitingModify
}

func (e *Engine) askCancelDetails(s *session.Session, _, _ string) {
	e.sendText(s.Phone, msgCancelPrompt)
	s.State = session.StateAwaitingCancel
}

func (e *Engine) forwardModify(s *session.Session, raw, _ string) {
	e.notifyAdmin("Modificação de pedido — cliente %s (unidade %s):\n%s", s.Phone, s.Unit, raw)
	e.sendText(s.Phone, msgForwarded)
	e.recordEscalation(s, "order_modify", raw)
	s.State = session.StateAwaitingHuman
}

func (e *Engine) forwardCancel(s *session.Session, raw, _ string) {
	e.notifyAdmin("Cancelamento de pedido — cliente %s (unidade %s):\n%s", s.Phone, s.Unit, raw)
	e.sendText(s.Phone, msgForwarded)
	e.recordEscalation(s, "order_cancel", raw)
	s.State = session.StateAwaitingHuman
}

func (e *Engine) requestAttendant(s *session.Session, _, _ string) {
	e.notifyAdmin("Cliente %s (unidade %s) pediu para falar com um atendente.", s.Phone, s.Unit)
	e.sendText(s.Phone, msgHandoff)
	e.recordEscalation(s, "attendant_request", "")
	s.State = session.StateAwaitingHuman
}

// absorb is the AWAITING_HUMAN handler: the conversation already belongs to
// an attendant, so the bot stays quiet.
func (e *Engine) absorb(*session.Session, string, string) {}

// fallbackToHuman is the universal escape hatch for unmatched input and for
// states with no rules of their own.
func (e *Engine) fallbackToHuman(s *session.Session, raw string) {
	e.sendText(s.Phone, msgHandoff)
	e.notifyAdmin("Cliente %s precisa de atendimento (estado %s). Última mensagem:\n%s", s.Phone, s.State, raw)
	e.recordEscalation(s, "unrecognized", raw)
	s.State = session.StateAwaitingHuman
}

// HandleTimeout is wired as the session store's timeout callback. The store
// has already forced the session to AWAITING_HUMAN.
func (e *Engine) HandleTimeout(phone string, last session.State) {
	e.sendText(phone, msgTimeout)
	e.notifyAdmin("Sessão de %s expirou por inatividade (último estado: %s). Assumir atendimento.", phone, last)
	if e.audit != nil {
		if err := e.audit.RecordEscalation(store.Escalation{
			Phone:  phone,
			State:  string(last),
			Reason: "timeout",
		}); err != nil {
			log.Printf("bot: failed to record timeout escalation for %s: %v", phone, err)
		}
	}
}

// --- shared helpers ---

// sendUnitMenu shows the unit list and puts the session back at the top of
// the menu tree.
func (e *Engine) sendUnitMenu(s *session.Session, prompt string) {
	e.send(s.Phone, func() error {
		return e.gw.SendOptionList(s.Phone, prompt, unitOptions(e.units))
	})
	s.State = session.StateAwaitingUnit
}

// sendOptionMenu shows the selected unit's service options. A session that
// lost its unit goes back to unit selection instead.
func (e *Engine) sendOptionMenu(s *session.Session) {
	if s.Unit == "" {
		e.sendUnitMenu(s, msgUnitPrompt)
		return
	}
	e.send(s.Phone, func() error {
		return e.gw.SendOptionList(s.Phone, serviceMenuPrompt(e.unitTitle(s.Unit)), serviceOptions())
	})
	s.State = session.StateAwaitingOption
}

func (e *Engine) sendText(phone, message string) {
	e.send(phone, func() error {
		return e.gw.SendText(phone, message)
	})
}

// send runs an outbound call best-effort: failures are logged and never
// surfaced to the customer or the webhook caller.
func (e *Engine) send(phone string, fn func() error) {
	if err := fn(); err != nil {
		log.Printf("bot: failed to send to %s: %v", phone, err)
	}
}

func (e *Engine) notifyAdmin(format string, args ...any) {
	if e.admin == "" {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if err := e.gw.SendText(e.admin, msg); err != nil {
		log.Printf("bot: failed to notify admin: %v", err)
	}
}

func (e *Engine) recordEscalation(s *session.Session, reason, detail string) {
	if e.audit == nil {
		return
	}
	if err := e.audit.RecordEscalation(store.Escalation{
		Phone:  s.Phone,
		State:  string(s.State),
		Reason: reason,
		Detail: detail,
	}); err != nil {
		log.Printf("bot: failed to record escalation for %s: %v", s.Phone, err)
	}
}
