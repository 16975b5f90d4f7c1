package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	GatewayBaseURL  string
	GatewayInstance string
	GatewayToken    string

	AdminContact string

	// UnitSources maps a unit short-code to the URL of its customer workbook.
	UnitSources map[string]string

	Inactivity time.Duration

	OrderSiteURL string
	CatalogURL   string

	Port    string
	DataDir string
}

func Load() (*Config, error) {
	// .env is optional — env vars may already be set (e.g. in production)
	_ = godotenv.Load()

	cfg := &Config{
		GatewayBaseURL:  os.Getenv("GATEWAY_BASE_URL"),
		GatewayInstance: os.Getenv("GATEWAY_INSTANCE"),
		GatewayToken:    os.Getenv("GATEWAY_TOKEN"),
		AdminContact:    digits(os.Getenv("ADMIN_CONTACT")),
		OrderSiteURL:    os.Getenv("ORDER_SITE_URL"),
		CatalogURL:      os.Getenv("CATALOG_URL"),
		Port:            os.Getenv("PORT"),
		DataDir:         os.Getenv("DATA_DIR"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	if cfg.DataDir == "" {
		cfg.DataDir = "."
	}

	if cfg.OrderSiteURL == "" {
		cfg.OrderSiteURL = "https://pedidos.wppstore.com.br/cantina"
	}

	if cfg.CatalogURL == "" {
		cfg.CatalogURL = "https://pedidos.wppstore.com.br/cantina/catalogo.pdf"
	}

	cfg.Inactivity = 15 * time.Minute
	if v := os.Getenv("INACTIVITY_MS"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil || ms <= 0 {
			return nil, fmt.Errorf("invalid INACTIVITY_MS %q", v)
		}
		cfg.Inactivity = time.Duration(ms) * time.Millisecond
	}

	cfg.UnitSources = map[string]string{}
	if v := os.Getenv("UNIT_SOURCES"); v != "" {
		if err := json.Unmarshal([]byte(v), &cfg.UnitSources); err != nil {
			return nil, fmt.Errorf("parsing UNIT_SOURCES: %w", err)
		}
	}

	for _, req := range []struct {
		name, val string
	}{
		{"GATEWAY_BASE_URL", cfg.GatewayBaseURL},
		{"GATEWAY_INSTANCE", cfg.GatewayInstance},
		{"GATEWAY_TOKEN", cfg.GatewayToken},
		{"ADMIN_CONTACT", cfg.AdminContact},
	} {
		if req.val == "" {
			return nil, fmt.Errorf("required env var %s is not set", req.name)
		}
	}

	return cfg, nil
}

// digits strips everything but 0-9, so ADMIN_CONTACT accepts
// formatted numbers like +55 (53) 99999-0000.
func digits(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			out = append(out, s[i])
		}
	}
	return string(out)
}
