package workbook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kvSheet() sheet {
	return sheet{
		Name: "João da Silva",
		Rows: [][]string{
			{"Nome", "João da Silva"},
			{"CPF", "123.456.789-00"},
			{"Dívidas", "Pedido 4412 R$ 35,00; Pedido 4511 R$ 12,50"},
			{"Vales", "Vale 2210"},
			{"Haveres", "Crédito R$ 4,00"},
		},
	}
}

func headerSheet() sheet {
	return sheet{
		Name: "João da Silva",
		Rows: [][]string{
			{"Nome", "CPF", "Dívidas", "Vales", "Haveres"},
			{"João da Silva", "123.456.789-00", "Pedido 4412 R$ 35,00; Pedido 4511 R$ 12,50", "Vale 2210", "Crédito R$ 4,00"},
		},
	}
}

func TestBuildRecordKeyValueLayout(t *testing.T) {
	rec := buildRecord(kvSheet(), "fallback", "00000000000")

	assert.Equal(t, "João da Silva", rec.Name)
	assert.Equal(t, "12345678900", rec.Identifier)
	assert.Equal(t, []string{"Pedido 4412 R$ 35,00", "Pedido 4511 R$ 12,50"}, rec.Debts)
	assert.Equal(t, []string{"Vale 2210"}, rec.Vouchers)
	assert.Equal(t, []string{"Crédito R$ 4,00"}, rec.Credits)
}

func TestBuildRecordHeaderLayout(t *testing.T) {
	rec := buildRecord(headerSheet(), "fallback", "00000000000")

	assert.Equal(t, "João da Silva", rec.Name)
	assert.Equal(t, "12345678900", rec.Identifier)
	assert.Equal(t, []string{"Pedido 4412 R$ 35,00", "Pedido 4511 R$ 12,50"}, rec.Debts)
}

func TestLayoutsProduceIdenticalSummaries(t *testing.T) {
	kv := buildRecord(kvSheet(), "João da Silva", "12345678900")
	hdr := buildRecord(headerSheet(), "João da Silva", "12345678900")
	kv.Unit, hdr.Unit = "PERG", "PERG"

	assert.Equal(t, kv.Summary(), hdr.Summary())
}

func TestHeaderRowNotMistakenForKeyValue(t *testing.T) {
	// The header row starts with "Nome", so a naive key/value pass would
	// read the neighboring "CPF" header as the customer's name and drop
	// every category column.
	rec := buildRecord(headerSheet(), "typed name", "00000000000")

	assert.NotEqual(t, "CPF", rec.Name)
	assert.Equal(t, "João da Silva", rec.Name)
	assert.Equal(t, "12345678900", rec.Identifier)
	assert.NotEmpty(t, rec.Debts)
	assert.NotEmpty(t, rec.Vouchers)
	assert.NotEmpty(t, rec.Credits)
}

func TestHasHeaderRow(t *testing.T) {
	assert.True(t, hasHeaderRow(headerSheet().Rows))
	assert.True(t, hasHeaderRow([][]string{{"Nome", "CPF"}, {"Maria", "987.654.321-00"}}))

	// A key/value sheet has one label per row, never two in the first.
	assert.False(t, hasHeaderRow(kvSheet().Rows))
	assert.False(t, hasHeaderRow(nil))
}

func TestBuildRecordFallsBackToParsedInput(t *testing.T) {
	sh := sheet{
		Name: "12345678900",
		Rows: [][]string{
			{"Dívidas", "Pedido 1020 R$ 9,90"},
		},
	}
	rec := buildRecord(sh, "Maria Souza", "12345678900")

	assert.Equal(t, "Maria Souza", rec.Name)
	assert.Equal(t, "12345678900", rec.Identifier)
	assert.Equal(t, []string{"Pedido 1020 R$ 9,90"}, rec.Debts)
}

func TestBuildRecordSplitsOnPipe(t *testing.T) {
	sh := sheet{
		Name: "X",
		Rows: [][]string{
			{"Nome", "Maria Souza"},
			{"Vales", "Vale 1 | Vale 2|Vale 3"},
		},
	}
	rec := buildRecord(sh, "", "")

	assert.Equal(t, []string{"Vale 1", "Vale 2", "Vale 3"}, rec.Vouchers)
}

func TestSummaryShowsNoneMarkers(t *testing.T) {
	rec := &CustomerRecord{Unit: "PERG", Name: "João da Silva", Identifier: "12345678900"}
	out := rec.Summary()

	assert.Contains(t, out, "Unidade PERG")
	assert.Contains(t, out, "Nome: João da Silva")
	assert.Contains(t, out, "CPF: 12345678900")
	assert.Contains(t, out, "*Dívidas:*\n• Nenhuma")
	assert.Contains(t, out, "*Vales em aberto:*\n• Nenhum")
	assert.Contains(t, out, "*Haveres:*\n• Nenhum")
}

func TestFindSheet(t *testing.T) {
	sheets := []sheet{
		{Name: "12345678900", Rows: [][]string{{"Nome", "João da Silva"}}},
		{Name: "MARIA SOUZA", Rows: [][]string{{"CPF", "987.654.321-00"}}},
		{Name: "Cliente 3", Rows: [][]string{{"Nome", "Pedro Alves"}, {"CPF", "111.222.333-44"}}},
	}

	t.Run("exact name", func(t *testing.T) {
		sh, ok := findSheet(sheets, "12345678900")
		require.True(t, ok)
		assert.Equal(t, "12345678900", sh.Name)
	})

	t.Run("case insensitive name", func(t *testing.T) {
		sh, ok := findSheet(sheets, "maria souza")
		require.True(t, ok)
		assert.Equal(t, "MARIA SOUZA", sh.Name)
	})

	t.Run("content scan by digits", func(t *testing.T) {
		sh, ok := findSheet(sheets, "111.222.333-44")
		require.True(t, ok)
		assert.Equal(t, "Cliente 3", sh.Name)
	})

	t.Run("content scan by literal", func(t *testing.T) {
		sh, ok := findSheet(sheets, "pedro alves")
		require.True(t, ok)
		assert.Equal(t, "Cliente 3", sh.Name)
	})

	t.Run("no match", func(t *testing.T) {
		_, ok := findSheet(sheets, "ninguém")
		assert.False(t, ok)
	})

	t.Run("digits spanning cells do not match", func(t *testing.T) {
		// "Pedido 1112" and "R$ 22,33" flatten to "11122233" across the
		// row; the identifier must only match within a single cell.
		spanning := []sheet{
			{Name: "Cliente 9", Rows: [][]string{
				{"Dívidas", "Pedido 1112", "R$ 22,33"},
			}},
		}
		_, ok := findSheet(spanning, "11122233")
		assert.False(t, ok)
	})

	t.Run("empty key", func(t *testing.T) {
		_, ok := findSheet(sheets, "")
		assert.False(t, ok)
	})
}
