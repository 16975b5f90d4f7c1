package workbook

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"
)

// Client fetches unit workbooks over HTTP and searches them for customers.
type Client struct {
	// sources maps unit short-codes to workbook URLs (UNIT_SOURCES config).
	sources map[string]string
	http    *http.Client
}

func NewClient(sources map[string]string) *Client {
	return &Client{
		sources: sources,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchCustomerRecord downloads the unit's workbook and looks the customer
// up by identifier first, falling back to name. Returns ErrNoSource when the
// unit has no configured workbook and ErrNotFound when no tab matches.
func (c *Client) FetchCustomerRecord(ctx context.Context, unitCode, name, identifier string) (*CustomerRecord, error) {
	url, ok := c.sources[unitCode]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSource, unitCode)
	}

	sheets, err := c.fetchSheets(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetching workbook for %s: %w", unitCode, err)
	}

	sh, found := findSheet(sheets, identifier)
	if !found {
		sh, found = findSheet(sheets, name)
	}
	if !found {
		return nil, fmt.Errorf("%w: %s / %s", ErrNotFound, name, identifier)
	}

	rec := buildRecord(sh, name, identifier)
	rec.Unit = unitCode
	return rec, nil
}

func (c *Client) fetchSheets(ctx context.Context, url string) ([]sheet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading workbook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("workbook status %d: %s", resp.StatusCode, body)
	}

	f, err := excelize.OpenReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	var sheets []sheet
	for _, tab := range f.GetSheetList() {
		rows, err := f.GetRows(tab)
		if err != nil {
			return nil, fmt.Errorf("reading tab %q: %w", tab, err)
		}
		sheets = append(sheets, sheet{Name: tab, Rows: rows})
	}
	return sheets, nil
}
