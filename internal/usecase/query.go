package usecase

import (
	"net/http"
	"strconv"
	"strings"
	"unicode"

	"movie-review/internal/data/repository"
	"movie-review/internal/dto/request"
	"movie-review/pkg/utils"
)

// parseSearchTerms splits on commas and whitespace.
func parseSearchTerms(search string) []string {
	return strings.FieldsFunc(search, func(r rune) bool {
		return r == ',' || r == '\x00' || unicode.IsSpace(r)
	})
}

// parseOrdering reads a comma separated list of optionally "-" prefixed keys,
// keeping only those in allowed.
func parseOrdering(ordering string, allowed map[string]string) []repository.OrderField {
	var fields []repository.OrderField
	for _, raw := range strings.Split(ordering, ",") {
		raw = strings.TrimSpace(raw)
		desc := strings.HasPrefix(raw, "-")
		key := strings.TrimPrefix(raw, "-")
		if _, ok := allowed[key]; !ok {
			continue
		}
		fields = append(fields, repository.OrderField{Column: key, Desc: desc})
	}
	return fields
}

// parseRating returns the rating when raw is an integer in 1..5.
func parseRating(raw string) (int, bool) {
	rating, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || rating < 1 || rating > 5 {
		return 0, false
	}
	return rating, true
}

func invalidPage() error {
	return utils.NewAppError(http.StatusNotFound, "Invalid page.")
}

// checkPage rejects pages past the last one. An empty result still has page 1.
func checkPage(page request.PageRequest, total int64) error {
	if page.Invalid || page.Page > page.TotalPages(total) {
		return invalidPage()
	}
	return nil
}

func toPage(page request.PageRequest) repository.Page {
	return repository.Page{Limit: page.Limit(), Offset: page.Offset()}
}
