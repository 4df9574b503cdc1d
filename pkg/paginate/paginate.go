// Package paginate implements the listing envelope shared by every
// directory endpoint: fixed page size of 20, 1-indexed page numbers, and
// out-of-range pages yielding an empty item list rather than an error.
package paginate

import (
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// PerPage is the fixed page size for all listings.
const PerPage = 20

// Page reads the 1-indexed "page" query parameter, defaulting to 1.
func Page(c *fiber.Ctx) int {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	return page
}

// Apply adds offset/limit for the given page to a query.
func Apply(db *gorm.DB, page int) *gorm.DB {
	return db.Offset((page - 1) * PerPage).Limit(PerPage)
}

// Envelope is the wire shape of a paginated listing.
type Envelope struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
	Pages   int   `json:"pages"`
	Items   any   `json:"items"`
}

// NewEnvelope wraps items with pagination metadata.
func NewEnvelope(page int, total int64, items any) Envelope {
	return Envelope{
		Page:    page,
		PerPage: PerPage,
		Total:   total,
		Pages:   int(math.Ceil(float64(total) / float64(PerPage))),
		Items:   items,
	}
}
