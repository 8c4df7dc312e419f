package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is built once in main and passed down explicitly; no package reads
// the environment on its own.
type Config struct {
	// Catalog store (Supabase/PostgREST).
	StoreURL string `env:"SUPABASE_URL"`
	StoreKey string `env:"SUPABASE_ANON_KEY"`

	// Shared service key for both data.go.kr upstreams.
	DataPortalKey string `env:"DATA_PORTAL_KEY"`

	// Kakao local API (geocoding).
	KakaoRESTKey string `env:"KAKAO_REST_API_KEY"`
	KakaoBaseURL string `env:"KAKAO_BASE_URL" envDefault:"https://dapi.kakao.com"`

	StandardBaseURL string `env:"STANDARD_BASE_URL" envDefault:"http://api.data.go.kr/openapi/tn_pubr_public_lftm_lrn_lctre_api"`
	KmoocBaseURL    string `env:"KMOOC_BASE_URL" envDefault:"https://apis.data.go.kr/B552881/kmooc_v2_0/courseList_v2_0"`

	// Courtesy delays between external calls. Not correctness knobs.
	PageDelay    time.Duration `env:"PAGE_DELAY" envDefault:"500ms"`
	GeocodeDelay time.Duration `env:"GEOCODE_DELAY" envDefault:"150ms"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`

	// Export delivery (cmd/exportcsv -upload).
	SFTPHost      string `env:"SFTP_HOST"`
	SFTPPort      int    `env:"SFTP_PORT" envDefault:"22"`
	SFTPUser      string `env:"SFTP_USER"`
	SFTPPass      string `env:"SFTP_PASS"`
	SFTPRemoteDir string `env:"SFTP_REMOTE_DIR" envDefault:"/"`
}

// Load reads .env.local when present (same convention as the web app this
// pipeline feeds) and then parses the process environment.
func Load() (Config, error) {
	if _, err := os.Stat(".env.local"); err == nil {
		if err := godotenv.Load(".env.local"); err != nil {
			return Config{}, fmt.Errorf("config: load .env.local: %w", err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}
	return cfg, nil
}

// RequireStore fails fast when the store credentials are missing. Every
// command needs these.
func (c Config) RequireStore() error {
	if c.StoreURL == "" || c.StoreKey == "" {
		return errors.New("config: missing SUPABASE_URL / SUPABASE_ANON_KEY")
	}
	return nil
}

// RequirePortal fails fast when the data portal service key is missing.
func (c Config) RequirePortal() error {
	if c.DataPortalKey == "" {
		return errors.New("config: missing DATA_PORTAL_KEY")
	}
	return nil
}

// RequireKakao fails fast when the geocoding key is missing.
func (c Config) RequireKakao() error {
	if c.KakaoRESTKey == "" {
		return errors.New("config: missing KAKAO_REST_API_KEY")
	}
	return nil
}
