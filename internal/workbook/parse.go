package workbook

import "strings"

// sheet is one named tab of a unit's workbook. Each customer lives in their
// own tab, named after either the customer or their CPF.
type sheet struct {
	Name string
	Rows [][]string
}

// findSheet locates the tab for a search key. Strategies, first hit wins:
// exact name, case-insensitive name, then a full-text scan of the tab's
// cells for the key's digit-only or lower-cased literal form.
func findSheet(sheets []sheet, key string) (sheet, bool) {
	if key == "" {
		return sheet{}, false
	}

	for _, sh := range sheets {
		if sh.Name == key {
			return sh, true
		}
	}
	for _, sh := range sheets {
		if strings.EqualFold(sh.Name, key) {
			return sh, true
		}
	}

	dig := digitsOnly(key)
	low := strings.ToLower(key)
	for _, sh := range sheets {
		if dig != "" && sh.containsDigits(dig) {
			return sh, true
		}
		if strings.Contains(strings.ToLower(sh.serialize()), low) {
			return sh, true
		}
	}
	return sheet{}, false
}

func (sh sheet) serialize() string {
	var b strings.Builder
	for _, row := range sh.Rows {
		b.WriteString(strings.Join(row, " "))
		b.WriteString("\n")
	}
	return b.String()
}

// containsDigits scans cell by cell. Flattening the whole sheet into one
// digit stream would let an identifier match digits spanning two unrelated
// cells.
func (sh sheet) containsDigits(dig string) bool {
	for _, row := range sh.Rows {
		for _, c := range row {
			if strings.Contains(digitsOnly(c), dig) {
				return true
			}
		}
	}
	return false
}

// buildRecord extracts a customer record from a matched tab. Two layouts are
// in the wild: a key/value layout (label in the first column, value beside
// it) and a header table (first row names the columns). A first row carrying
// two or more label keywords is a header row; treating it as key/value would
// read the second header as the customer's name. Otherwise the key/value
// pass runs first and the header pass only when it produced nothing.
// Name and identifier missing from the sheet fall back to what the customer
// typed.
func buildRecord(sh sheet, fallbackName, fallbackID string) *CustomerRecord {
	rec := &CustomerRecord{}

	if !hasHeaderRow(sh.Rows) {
		for _, row := range sh.Rows {
			if len(row) < 2 {
				continue
			}
			value := strings.TrimSpace(row[1])
			if value == "" {
				continue
			}
			switch labelKind(row[0]) {
			case kindName:
				rec.Name = value
			case kindCPF:
				rec.Identifier = identifierForm(value)
			case kindDebt:
				rec.Debts = append(rec.Debts, splitMulti(value)...)
			case kindVoucher:
				rec.Vouchers = append(rec.Vouchers, splitMulti(value)...)
			case kindCredit:
				rec.Credits = append(rec.Credits, splitMulti(value)...)
			}
		}
	}

	if rec.empty() {
		fromHeaderTable(sh, rec)
	}

	if rec.Name == "" {
		rec.Name = fallbackName
	}
	if rec.Identifier == "" {
		rec.Identifier = fallbackID
	}
	return rec
}

func (r *CustomerRecord) empty() bool {
	return r.Name == "" && r.Identifier == "" &&
		len(r.Debts) == 0 && len(r.Vouchers) == 0 && len(r.Credits) == 0
}

// labelKind classifies a label or header cell by the field it names.
type fieldKind int

const (
	kindNone fieldKind = iota
	kindName
	kindCPF
	kindDebt
	kindVoucher
	kindCredit
)

func labelKind(cell string) fieldKind {
	label := strings.ToLower(strings.TrimSpace(cell))
	switch {
	case strings.Contains(label, "nome"):
		return kindName
	case strings.Contains(label, "cpf"):
		return kindCPF
	case strings.Contains(label, "dívida") || strings.Contains(label, "divida"):
		return kindDebt
	case strings.Contains(label, "vale"):
		return kindVoucher
	case strings.Contains(label, "haver"):
		return kindCredit
	}
	return kindNone
}

// hasHeaderRow reports whether the first row is a column-header row. A
// key/value row has at most one label keyword (in its first cell); a header
// row names several fields at once.
func hasHeaderRow(rows [][]string) bool {
	if len(rows) == 0 {
		return false
	}
	labels := 0
	for _, c := range rows[0] {
		if labelKind(c) != kindNone {
			labels++
		}
	}
	return labels >= 2
}

// fromHeaderTable reads the first data row that exposes a name field.
func fromHeaderTable(sh sheet, rec *CustomerRecord) {
	if len(sh.Rows) < 2 {
		return
	}

	nameCol, cpfCol, debtCol, voucherCol, creditCol := -1, -1, -1, -1, -1
	for i, h := range sh.Rows[0] {
		switch labelKind(h) {
		case kindName:
			nameCol = i
		case kindCPF:
			cpfCol = i
		case kindDebt:
			debtCol = i
		case kindVoucher:
			voucherCol = i
		case kindCredit:
			creditCol = i
		}
	}
	if nameCol < 0 {
		return
	}

	for _, row := range sh.Rows[1:] {
		if cell(row, nameCol) == "" {
			continue
		}
		rec.Name = cell(row, nameCol)
		rec.Identifier = identifierForm(cell(row, cpfCol))
		rec.Debts = splitMulti(cell(row, debtCol))
		rec.Vouchers = splitMulti(cell(row, voucherCol))
		rec.Credits = splitMulti(cell(row, creditCol))
		return
	}
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// splitMulti breaks a multi-valued cell on ";" or "|".
func splitMulti(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.FieldsFunc(value, func(r rune) bool {
		return r == ';' || r == '|'
	})
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// identifierForm prefers the digit-only form of a CPF-like value and keeps
// the raw text for identifiers that carry no digits at all.
func identifierForm(value string) string {
	if d := digitsOnly(value); d != "" {
		return d
	}
	return value
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
