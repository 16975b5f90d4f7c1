package workbook

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// testWorkbook builds an xlsx with one tab per customer, mirroring how the
// units maintain their spreadsheets.
func testWorkbook(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", "João da Silva"))
	for i, row := range [][]string{
		{"Nome", "João da Silva"},
		{"CPF", "123.456.789-00"},
		{"Dívidas", "Pedido 4412 R$ 35,00"},
	} {
		require.NoError(t, f.SetCellValue("João da Silva", cellRef(t, 1, i+1), row[0]))
		require.NoError(t, f.SetCellValue("João da Silva", cellRef(t, 2, i+1), row[1]))
	}

	_, err := f.NewSheet("98765432100")
	require.NoError(t, err)
	for i, row := range [][]string{
		{"Nome", "Maria Souza"},
		{"CPF", "987.654.321-00"},
		{"Haveres", "Crédito R$ 4,00"},
	} {
		require.NoError(t, f.SetCellValue("98765432100", cellRef(t, 1, i+1), row[0]))
		require.NoError(t, f.SetCellValue("98765432100", cellRef(t, 2, i+1), row[1]))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func cellRef(t *testing.T, col, row int) string {
	t.Helper()
	ref, err := excelize.CoordinatesToCellName(col, row)
	require.NoError(t, err)
	return ref
}

func workbookServer(t *testing.T) *httptest.Server {
	data := testWorkbook(t)
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Write(data)
	}))
}

func TestFetchCustomerRecordByIdentifier(t *testing.T) {
	srv := workbookServer(t)
	defer srv.Close()

	c := NewClient(map[string]string{"PERG": srv.URL})
	rec, err := c.FetchCustomerRecord(context.Background(), "PERG", "João da Silva", "12345678900")

	require.NoError(t, err)
	assert.Equal(t, "PERG", rec.Unit)
	assert.Equal(t, "João da Silva", rec.Name)
	assert.Equal(t, "12345678900", rec.Identifier)
	assert.Equal(t, []string{"Pedido 4412 R$ 35,00"}, rec.Debts)
	assert.Empty(t, rec.Vouchers)
}

func TestFetchCustomerRecordBySheetName(t *testing.T) {
	srv := workbookServer(t)
	defer srv.Close()

	c := NewClient(map[string]string{"PERG": srv.URL})
	rec, err := c.FetchCustomerRecord(context.Background(), "PERG", "Maria Souza", "98765432100")

	require.NoError(t, err)
	assert.Equal(t, "Maria Souza", rec.Name)
	assert.Equal(t, []string{"Crédito R$ 4,00"}, rec.Credits)
}

func TestFetchCustomerRecordNoSource(t *testing.T) {
	c := NewClient(map[string]string{})
	_, err := c.FetchCustomerRecord(context.Background(), "PEJ", "João", "12345678900")

	require.ErrorIs(t, err, ErrNoSource)
}

func TestFetchCustomerRecordNotFound(t *testing.T) {
	srv := workbookServer(t)
	defer srv.Close()

	c := NewClient(map[string]string{"PERG": srv.URL})
	_, err := c.FetchCustomerRecord(context.Background(), "PERG", "Zé Ninguém", "00000000000")

	require.ErrorIs(t, err, ErrNotFound)
}

func TestFetchCustomerRecordBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	c := NewClient(map[string]string{"PERG": srv.URL})
	_, err := c.FetchCustomerRecord(context.Background(), "PERG", "João", "12345678900")

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrNoSource)
}

func TestFetchCustomerRecordCorruptWorkbook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is not a spreadsheet"))
	}))
	defer srv.Close()

	c := NewClient(map[string]string{"PERG": srv.URL})
	_, err := c.FetchCustomerRecord(context.Background(), "PERG", "João", "12345678900")

	require.Error(t, err)
}
