package bot

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/wppstore/cantina-bot/internal/session"
	"github.com/wppstore/cantina-bot/internal/store"
	"github.com/wppstore/cantina-bot/internal/workbook"
)

const consultTimeout = 45 * time.Second

// handleConsultation runs the AWAITING_NAME_CPF state: parse the customer's
// name and identifier, look them up in the unit's workbook and reply with
// the record summary. Unparseable input re-prompts in place; lookup problems
// escalate to a human with the detail going to the admin, never the customer.
func (e *Engine) handleConsultation(s *session.Session, raw, _ string) {
	name, id, ok := parseNameIdentifier(raw)
	if !ok {
		e.sendText(s.Phone, msgNameCPFHint)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), consultTimeout)
	defer cancel()

	rec, err := e.books.FetchCustomerRecord(ctx, s.Unit, name, id)
	e.recordConsultation(s, raw, err == nil)

	switch {
	case errors.Is(err, workbook.ErrNoSource):
		e.sendText(s.Phone, msgUnitNotConfigured)
		e.notifyAdmin("Unidade %s sem planilha configurada. Cliente %s aguardando consulta de %s.", s.Unit, s.Phone, name)
		e.recordEscalation(s, "no_source", s.Unit)
		s.State = session.StateAwaitingHuman

	case errors.Is(err, workbook.ErrNotFound):
		e.sendText(s.Phone, msgRecordNotFound)
		e.notifyAdmin("Consulta sem resultado — cliente %s, unidade %s, busca: %s", s.Phone, s.Unit, raw)
		e.recordEscalation(s, "not_found", raw)
		s.State = session.StateAwaitingHuman

	case err != nil:
		e.sendText(s.Phone, msgLookupFailed)
		e.notifyAdmin("Falha ao consultar planilha da unidade %s para %s: %v", s.Unit, s.Phone, err)
		e.recordEscalation(s, "lookup_failed", err.Error())
		s.State = session.StateAwaitingHuman

	default:
		e.sendText(s.Phone, rec.Summary())
		e.sendText(s.Phone, msgConsultHint)
		s.State = session.StateAwaitingOptionAfterConsult
	}
}

// parseNameIdentifier splits "Name – identifier" on an en dash, em dash or
// space-padded hyphen (a bare hyphen also appears inside CPF check digits).
// Without a separator, a trailing token whose digit form has at least 8
// digits is taken as the identifier and the remaining tokens — possibly
// none — as the name.
func parseNameIdentifier(raw string) (name, id string, ok bool) {
	for _, sep := range []string{"–", "—", " - "} {
		if !strings.Contains(raw, sep) {
			continue
		}
		parts := strings.SplitN(raw, sep, 2)
		name = strings.TrimSpace(parts[0])
		id = digitsOnly(parts[1])
		if name != "" && id != "" {
			return name, id, true
		}
		break
	}

	fields := strings.Fields(raw)
	if len(fields) > 0 {
		last := fields[len(fields)-1]
		if d := digitsOnly(last); len(d) >= 8 {
			return strings.Join(fields[:len(fields)-1], " "), d, true
		}
	}
	return "", "", false
}

func (e *Engine) recordConsultation(s *session.Session, query string, found bool) {
	if e.audit == nil {
		return
	}
	if err := e.audit.RecordConsultation(store.Consultation{
		Phone: s.Phone,
		Unit:  s.Unit,
		Query: query,
		Found: found,
	}); err != nil {
		log.Printf("bot: failed to record consultation for %s: %v", s.Phone, err)
	}
}

func digitsOnly(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			out = append(out, s[i])
		}
	}
	return string(out)
}
