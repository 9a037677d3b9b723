// Package analysis implements the serial-number/installation-date
// plausibility check applied to every registration before approval.
package analysis

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
)

// Status classifies a registration as ready to approve or needing review.
type Status string

const (
	StatusGood    Status = "good"
	StatusWarning Status = "warning"
)

// Result is the outcome of a plausibility check. It is derived, never
// persisted: callers recompute it from the registration fields wherever it
// is needed so the classification can never go stale.
type Result struct {
	Status  Status
	Message string
}

// IsWarning reports whether the registration needs human review.
func (r Result) IsWarning() bool {
	return r.Status == StatusWarning
}

// Input carries the four registration fields the check depends on.
type Input struct {
	Brand            string
	Model            string
	SerialNumber     string
	InstallationDate *time.Time
}

var (
	talentDeltaSerialRe = regexp.MustCompile(`^\d{9,11}$`)
	standardSerialRe    = regexp.MustCompile(`^([A-Z]{2})\d{6}$`)
	serialStripRe       = regexp.MustCompile(`[\s-]+`)
)

// Production-year code table. "B" maps to 2001 and no letter maps to 2002;
// the gap comes from the manufacturer's coding sheet and must stay as-is.
var yearByCode = map[byte]int{
	'A': 2000, 'B': 2001, 'C': 2003, 'D': 2004, 'E': 2005, 'F': 2006,
	'G': 2007, 'H': 2008, 'I': 2009, 'J': 2010, 'K': 2011, 'L': 2012,
	'M': 2013, 'N': 2014, 'O': 2015, 'P': 2016, 'Q': 2017, 'R': 2018,
	'S': 2019, 'T': 2020, 'U': 2021, 'V': 2022, 'W': 2023, 'X': 2024,
	'Y': 2025, 'Z': 2026,
}

// Production-month codes run A=January through L=December.
var monthByCode = map[byte]time.Month{
	'A': time.January, 'B': time.February, 'C': time.March,
	'D': time.April, 'E': time.May, 'F': time.June,
	'G': time.July, 'H': time.August, 'I': time.September,
	'J': time.October, 'K': time.November, 'L': time.December,
}

const (
	// Average month length used for the window arithmetic. The value and
	// the 15-month threshold come from the manufacturer's approval rules.
	avgDaysPerMonth   = 30.44
	monthWindowLimit  = 15.0
	msPerDay          = 1000 * 60 * 60 * 24
	msPerAverageMonth = msPerDay * avgDaysPerMonth
)

// Analyze runs the plausibility check. It is a pure function of its input:
// the same registration fields always produce the same result.
func Analyze(in Input) Result {
	brand := strings.ToLower(in.Brand)
	model := strings.ToLower(in.Model)
	serial := serialStripRe.ReplaceAllString(strings.ToUpper(in.SerialNumber), "")

	if isTalentDeltaFamily(brand, model) {
		if !talentDeltaSerialRe.MatchString(serial) {
			return Result{
				Status:  StatusWarning,
				Message: "serienummer wijkt af van het verwachte formaat (9 tot 11 cijfers)",
			}
		}
		return Result{
			Status:  StatusGood,
			Message: "serienummerformaat correct (9-11 cijfers)",
		}
	}

	m := standardSerialRe.FindStringSubmatch(serial)
	if m == nil {
		return Result{
			Status:  StatusWarning,
			Message: "serienummerformaat onjuist, verwacht 2 letters gevolgd door 6 cijfers",
		}
	}

	prefix := m[1]
	year, yearOK := yearByCode[prefix[0]]
	month, monthOK := monthByCode[prefix[1]]
	if !yearOK || !monthOK {
		return Result{
			Status:  StatusWarning,
			Message: fmt.Sprintf("onbekende jaar- of maandcode %q in serienummer", prefix),
		}
	}

	if in.InstallationDate == nil || in.InstallationDate.IsZero() {
		return Result{
			Status:  StatusWarning,
			Message: "geen geldige installatiedatum om mee te vergelijken",
		}
	}

	production := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	diffMs := math.Abs(float64(in.InstallationDate.Sub(production).Milliseconds()))
	diffMonths := diffMs / msPerAverageMonth

	if diffMonths > monthWindowLimit {
		return Result{
			Status: StatusWarning,
			Message: fmt.Sprintf(
				"installatiedatum ligt %d maanden van de productiedatum (%s %d)",
				int(math.Round(diffMonths)), dutchMonth(month), year,
			),
		}
	}

	return Result{
		Status:  StatusGood,
		Message: "datum en serienummerformaat correct",
	}
}

func isTalentDeltaFamily(brand, model string) bool {
	for _, family := range []string{"talent", "delta"} {
		if strings.Contains(brand, family) || strings.Contains(model, family) {
			return true
		}
	}
	return false
}

var dutchMonths = map[time.Month]string{
	time.January: "januari", time.February: "februari", time.March: "maart",
	time.April: "april", time.May: "mei", time.June: "juni",
	time.July: "juli", time.August: "augustus", time.September: "september",
	time.October: "oktober", time.November: "november", time.December: "december",
}

func dutchMonth(m time.Month) string {
	return dutchMonths[m]
}
