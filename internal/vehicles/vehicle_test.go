package vehicles

import "testing"

func TestConfiguration_Match(t *testing.T) {
	cfg := &Configuration{
		Vehicles: []Vehicle{
			{Identifier: "MTW"},
			{Identifier: "LF"},
		},
	}

	tests := []struct {
		resource string
		want     string
	}{
		{"LF 20", "LF"},
		{"FL ANS 1/44-1 lf 20", "LF"},
		{"FL ANS MTW 1", "MTW"},
		{"MTW LF", "MTW"},
		{"XYZ", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.resource, func(t *testing.T) {
			got := cfg.Match(tt.resource)
			if tt.want == "" {
				if got != nil {
					t.Errorf("Match(%q) = %s, want nil", tt.resource, got.Identifier)
				}
				return
			}
			if got == nil || got.Identifier != tt.want {
				t.Errorf("Match(%q) = %v, want %s", tt.resource, got, tt.want)
			}
		})
	}
}

func TestConfiguration_MatchReturnsConfiguredVehicle(t *testing.T) {
	cfg := &Configuration{Vehicles: []Vehicle{{Identifier: "LF"}}}
	if cfg.Match("LF 10") != &cfg.Vehicles[0] {
		t.Error("Match should point into the configuration")
	}
	var nilCfg *Configuration
	if nilCfg.Match("LF") != nil {
		t.Error("nil configuration matches nothing")
	}
}

func TestConfiguration_Accepts(t *testing.T) {
	tests := []struct {
		name     string
		abbrs    []string
		resource string
		want     bool
	}{
		{"empty list accepts all", nil, "anything", true},
		{"contained", []string{"FL ANS"}, "FL ANS 1/44-1", true},
		{"case-insensitive", []string{"fl ans"}, "FL ANS 1/44-1", true},
		{"any of", []string{"FL NEA", "FL ANS"}, "FL ANS 2", true},
		{"none contained", []string{"FL NEA"}, "FL ANS 2", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Configuration{MustContainAbbreviations: tt.abbrs}
			if got := cfg.Accepts(tt.resource); got != tt.want {
				t.Errorf("Accepts(%q) = %v, want %v", tt.resource, got, tt.want)
			}
		})
	}
}

func TestConfiguration_Lookup(t *testing.T) {
	cfg := &Configuration{
		Vehicles: []Vehicle{
			{Identifier: "LF", Shortkey: ParseShortkey("F5")},
			{Identifier: "LF 20"},
		},
	}

	if v := cfg.Lookup("lf"); v == nil || v.Identifier != "LF" {
		t.Errorf("Lookup(lf) = %v", v)
	}
	if v := cfg.Lookup(" LF 20 "); v == nil || v.Identifier != "LF 20" {
		t.Errorf("Lookup(LF 20) = %v", v)
	}
	if cfg.Lookup("MTW") != nil || cfg.Lookup("") != nil {
		t.Error("unknown identifiers must not resolve")
	}

	if v := cfg.ByShortkey("f5"); v == nil || v.Identifier != "LF" {
		t.Errorf("ByShortkey(f5) = %v", v)
	}
	if cfg.ByShortkey("") != nil || cfg.ByShortkey("f6") != nil {
		t.Error("unbound keys must not resolve")
	}
}

func TestVehicle_DisplayName(t *testing.T) {
	if got := (Vehicle{Identifier: "LF", Name: "Löschfahrzeug"}).DisplayName(); got != "Löschfahrzeug" {
		t.Errorf("DisplayName() = %q", got)
	}
	if got := (Vehicle{Identifier: "LF", Name: "  "}).DisplayName(); got != "LF" {
		t.Errorf("DisplayName() = %q, want identifier fallback", got)
	}
}
