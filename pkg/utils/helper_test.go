package utils

import (
	"regexp"
	"testing"
	"time"
)

var caseNumberPattern = regexp.MustCompile(`^CASE-\d{8}-[0-9A-F]{6}$`)

// Generated case numbers carry today's date and a 6-char uppercase hex
// suffix. Uniqueness is not guaranteed by the generator itself; the unique
// index on cases.case_number is the backstop.
func Test_GenerateCaseNumber_Format(t *testing.T) {
	today := time.Now().Format("20060102")

	for i := 0; i < 200; i++ {
		n := GenerateCaseNumber()
		if !caseNumberPattern.MatchString(n) {
			t.Fatalf("bad case number %q", n)
		}
		if n[5:13] != today {
			t.Fatalf("want date part %q, got %q", today, n[5:13])
		}
	}
}
