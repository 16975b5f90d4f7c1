// Package workbook resolves a commissary unit to its remote customer
// workbook and extracts individual customer records from it. Records are
// rebuilt on every consultation; nothing here is cached.
package workbook

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoSource means the unit has no workbook URL configured.
	ErrNoSource = errors.New("no workbook source for unit")

	// ErrNotFound means no sheet matched the customer's identifier or name.
	ErrNotFound = errors.New("customer record not found")
)

// CustomerRecord is the transient result of one consultation.
type CustomerRecord struct {
	Unit       string
	Name       string
	Identifier string
	Debts      []string
	Vouchers   []string
	Credits    []string
}

// Summary renders the record as the single message sent back to the
// customer. Empty categories show an explicit "none" marker so the customer
// knows the category was checked rather than skipped.
func (r *CustomerRecord) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Consulta — Unidade %s*\n\n", r.Unit)
	fmt.Fprintf(&b, "Nome: %s\n", r.Name)
	fmt.Fprintf(&b, "CPF: %s\n", r.Identifier)

	b.WriteString("\n*Dívidas:*\n")
	writeItems(&b, r.Debts, "Nenhuma")
	b.WriteString("\n*Vales em aberto:*\n")
	writeItems(&b, r.Vouchers, "Nenhum")
	b.WriteString("\n*Haveres:*\n")
	writeItems(&b, r.Credits, "Nenhum")

	return b.String()
}

func writeItems(b *strings.Builder, items []string, none string) {
	if len(items) == 0 {
		fmt.Fprintf(b, "• %s\n", none)
		return
	}
	for _, it := range items {
		fmt.Fprintf(b, "• %s\n", it)
	}
}
