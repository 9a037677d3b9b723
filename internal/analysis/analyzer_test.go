package analysis

import (
	"strings"
	"testing"
	"time"
)

func dateptr(t time.Time) *time.Time {
	return &t
}

func TestAnalyzeTalentDeltaFamily(t *testing.T) {
	cases := []struct {
		name   string
		brand  string
		model  string
		serial string
		want   Status
	}{
		{"nine digits is good", "Remeha", "Talent Plus", "123456789", StatusGood},
		{"eleven digits is good", "TALENT", "x", "12345678901", StatusGood},
		{"five digits is warning", "remeha", "talent", "12345", StatusWarning},
		{"letter in serial is warning", "Delta Comfort", "", "12345A789", StatusWarning},
		{"twelve digits is warning", "delta", "", "123456789012", StatusWarning},
		{"family match on model only", "Bosch", "Delta", "1234567890", StatusGood},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Analyze(Input{Brand: tc.brand, Model: tc.model, SerialNumber: tc.serial})
			if got.Status != tc.want {
				t.Fatalf("Analyze() status = %q, want %q (message: %s)", got.Status, tc.want, got.Message)
			}
		})
	}
}

func TestAnalyzeStandardSerialFormat(t *testing.T) {
	install := dateptr(time.Date(2021, time.February, 15, 0, 0, 0, 0, time.UTC))

	cases := []struct {
		name    string
		serial  string
		want    Status
		message string
	}{
		{"three letters", "TKA123456", StatusWarning, "formaat onjuist"},
		{"too few digits", "TK12345", StatusWarning, "formaat onjuist"},
		{"lowercase and hyphens are normalized", "tk-123 456", StatusGood, ""},
		{"unknown month code M", "TM123456", StatusWarning, "onbekende jaar- of maandcode"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Analyze(Input{Brand: "Fegon", SerialNumber: tc.serial, InstallationDate: install})
			if got.Status != tc.want {
				t.Fatalf("Analyze(%q) status = %q, want %q (message: %s)", tc.serial, got.Status, tc.want, got.Message)
			}
			if tc.message != "" && !strings.Contains(got.Message, tc.message) {
				t.Errorf("Analyze(%q) message = %q, want substring %q", tc.serial, got.Message, tc.message)
			}
		})
	}
}

func TestAnalyzeDateWindow(t *testing.T) {
	t.Run("TK123456 installed 2021-02-15 is good", func(t *testing.T) {
		// T=2020, K=November: production 2020-11-01, roughly 3.5 months out.
		got := Analyze(Input{
			Brand:            "Fegon",
			SerialNumber:     "TK123456",
			InstallationDate: dateptr(time.Date(2021, time.February, 15, 0, 0, 0, 0, time.UTC)),
		})
		if got.Status != StatusGood {
			t.Fatalf("status = %q, want good (message: %s)", got.Status, got.Message)
		}
	})

	t.Run("just inside the window is good", func(t *testing.T) {
		// TA: production 2020-01-01; 456 days later is 14.98 average months.
		got := Analyze(Input{
			Brand:            "Fegon",
			SerialNumber:     "TA123456",
			InstallationDate: dateptr(time.Date(2021, time.April, 1, 0, 0, 0, 0, time.UTC)),
		})
		if got.Status != StatusGood {
			t.Fatalf("status = %q, want good (message: %s)", got.Status, got.Message)
		}
	})

	t.Run("sixteen months out is a warning with the rounded count", func(t *testing.T) {
		got := Analyze(Input{
			Brand:            "Fegon",
			SerialNumber:     "TA123456",
			InstallationDate: dateptr(time.Date(2021, time.May, 1, 0, 0, 0, 0, time.UTC)),
		})
		if got.Status != StatusWarning {
			t.Fatalf("status = %q, want warning", got.Status)
		}
		if !strings.Contains(got.Message, "16 maanden") {
			t.Errorf("message = %q, want rounded month count 16", got.Message)
		}
	})

	t.Run("AA000000 against 2024 reports hundreds of months", func(t *testing.T) {
		got := Analyze(Input{
			Brand:            "Fegon",
			SerialNumber:     "AA000000",
			InstallationDate: dateptr(time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)),
		})
		if got.Status != StatusWarning {
			t.Fatalf("status = %q, want warning", got.Status)
		}
		if !strings.Contains(got.Message, "293 maanden") {
			t.Errorf("message = %q, want 293 maanden", got.Message)
		}
	})

	t.Run("missing installation date is a warning", func(t *testing.T) {
		got := Analyze(Input{Brand: "Fegon", SerialNumber: "TK123456"})
		if got.Status != StatusWarning {
			t.Fatalf("status = %q, want warning", got.Status)
		}
		if !strings.Contains(got.Message, "installatiedatum") {
			t.Errorf("message = %q, want installation date warning", got.Message)
		}
	})
}

func TestAnalyzeYearTableGap(t *testing.T) {
	// B decodes to 2001 and no letter decodes to 2002; an installation date in
	// 2001 must therefore validate against 2001, not 2002.
	got := Analyze(Input{
		Brand:            "Fegon",
		SerialNumber:     "BA123456",
		InstallationDate: dateptr(time.Date(2001, time.June, 1, 0, 0, 0, 0, time.UTC)),
	})
	if got.Status != StatusGood {
		t.Fatalf("status = %q, want good (message: %s)", got.Status, got.Message)
	}
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	in := Input{
		Brand:            "Fegon",
		Model:            "CombiCompact",
		SerialNumber:     "VK 123-456",
		InstallationDate: dateptr(time.Date(2023, time.January, 10, 0, 0, 0, 0, time.UTC)),
	}
	first := Analyze(in)
	for i := 0; i < 5; i++ {
		if got := Analyze(in); got != first {
			t.Fatalf("Analyze is not deterministic: %+v vs %+v", got, first)
		}
	}
}
