package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.StandardBaseURL != "http://api.data.go.kr/openapi/tn_pubr_public_lftm_lrn_lctre_api" {
		t.Errorf("StandardBaseURL default = %q", cfg.StandardBaseURL)
	}
	if cfg.KmoocBaseURL != "https://apis.data.go.kr/B552881/kmooc_v2_0/courseList_v2_0" {
		t.Errorf("KmoocBaseURL default = %q", cfg.KmoocBaseURL)
	}
	if cfg.KakaoBaseURL != "https://dapi.kakao.com" {
		t.Errorf("KakaoBaseURL default = %q", cfg.KakaoBaseURL)
	}
	if cfg.PageDelay != 500*time.Millisecond {
		t.Errorf("PageDelay default = %v", cfg.PageDelay)
	}
	if cfg.GeocodeDelay != 150*time.Millisecond {
		t.Errorf("GeocodeDelay default = %v", cfg.GeocodeDelay)
	}
	if cfg.SFTPPort != 22 {
		t.Errorf("SFTPPort default = %d", cfg.SFTPPort)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://proj.supabase.co")
	t.Setenv("SUPABASE_ANON_KEY", "anon")
	t.Setenv("PAGE_DELAY", "50ms")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StoreURL != "https://proj.supabase.co" {
		t.Errorf("StoreURL = %q", cfg.StoreURL)
	}
	if cfg.PageDelay != 50*time.Millisecond {
		t.Errorf("PageDelay = %v", cfg.PageDelay)
	}
	if err := cfg.RequireStore(); err != nil {
		t.Errorf("RequireStore with creds set: %v", err)
	}
}

func TestRequireHelpers(t *testing.T) {
	var cfg Config
	if err := cfg.RequireStore(); err == nil {
		t.Error("RequireStore should fail without credentials")
	}
	if err := cfg.RequirePortal(); err == nil {
		t.Error("RequirePortal should fail without key")
	}
	if err := cfg.RequireKakao(); err == nil {
		t.Error("RequireKakao should fail without key")
	}
}
