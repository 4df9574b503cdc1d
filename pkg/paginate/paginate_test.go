package paginate

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

// Page parsing: missing, garbage and sub-1 values all normalize to 1.
func Test_Page_Parsing(t *testing.T) {
	app := fiber.New()

	var got int
	app.Get("/x", func(c *fiber.Ctx) error {
		got = Page(c)
		return c.SendStatus(fiber.StatusOK)
	})

	cases := []struct {
		query string
		want  int
	}{
		{"", 1},
		{"?page=1", 1},
		{"?page=3", 3},
		{"?page=0", 1},
		{"?page=-5", 1},
		{"?page=abc", 1},
	}
	for _, tc := range cases {
		resp, err := app.Test(httptest.NewRequest("GET", "/x"+tc.query, nil))
		if err != nil || resp.StatusCode != 200 {
			t.Fatalf("request %q failed", tc.query)
		}
		if got != tc.want {
			t.Fatalf("query %q: want page %d, got %d", tc.query, tc.want, got)
		}
	}
}

// Envelope metadata: pages is ceil(total / 20).
func Test_NewEnvelope_Pages(t *testing.T) {
	cases := []struct {
		total int64
		pages int
	}{
		{0, 0},
		{1, 1},
		{20, 1},
		{21, 2},
		{45, 3},
	}
	for _, tc := range cases {
		env := NewEnvelope(1, tc.total, []int{})
		if env.Pages != tc.pages {
			t.Fatalf("total %d: want %d pages, got %d", tc.total, tc.pages, env.Pages)
		}
		if env.PerPage != PerPage {
			t.Fatalf("per_page should be %d, got %d", PerPage, env.PerPage)
		}
	}
}
