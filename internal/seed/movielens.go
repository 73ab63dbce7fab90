// Package seed loads the MovieLens 100k dataset into the database.
package seed

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/charmap"
)

// File names inside an ml-100k directory.
const (
	GenreFile  = "u.genre"
	ItemFile   = "u.item"
	UserFile   = "u.user"
	RatingFile = "u.data"
)

const (
	releaseDateLayout = "02-Jan-2006"
	genreFlagOffset   = 5
	genreFlagCount    = 19
	maxGenreText      = 3
)

var yearPattern = regexp.MustCompile(`\d{4}`)

// Item is one movie line of u.item.
type Item struct {
	MLID        int
	Title       string
	ReleaseYear *int
	Genres      []string
}

// GenreText is the first three genres joined by ", ".
func (it Item) GenreText() string {
	genres := it.Genres
	if len(genres) > maxGenreText {
		genres = genres[:maxGenreText]
	}
	return strings.Join(genres, ", ")
}

// Description summarizes genres and year, e.g. "A Comedy, Drama from 1995.".
func (it Item) Description() string {
	kind := "movie"
	if len(it.Genres) > 0 {
		kind = strings.Join(it.Genres, ", ")
	}
	year := "unknown year"
	if it.ReleaseYear != nil {
		year = strconv.Itoa(*it.ReleaseYear)
	}
	return fmt.Sprintf("A %s from %s.", kind, year)
}

// Rating is one line of u.data.
type Rating struct {
	UserID int
	ItemID int
	Rating int
}

// latin1Lines yields the lines of a latin-1 encoded reader as UTF-8.
func latin1Lines(r io.Reader, fn func(index int, line string) bool) error {
	scanner := bufio.NewScanner(charmap.ISO8859_1.NewDecoder().Reader(r))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for index := 0; scanner.Scan(); index++ {
		if !fn(index, scanner.Text()) {
			break
		}
	}
	return scanner.Err()
}

// ParseGenres reads u.genre ("name|index" per line) in file order.
func ParseGenres(r io.Reader) ([]string, error) {
	var genres []string
	err := latin1Lines(r, func(_ int, line string) bool {
		if strings.TrimSpace(line) == "" {
			return true
		}
		genres = append(genres, strings.TrimSpace(strings.SplitN(line, "|", 2)[0]))
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("read genres: %w", err)
	}
	return genres, nil
}

// ParseItems reads u.item. Genre flags are resolved against genres by
// position. Reading stops at line limit when limit > 0. Lines that do not
// parse are counted in skipped.
func ParseItems(r io.Reader, genres []string, limit int) (items []Item, skipped int, err error) {
	err = latin1Lines(r, func(index int, line string) bool {
		if limit > 0 && index >= limit {
			return false
		}
		line = strings.TrimSpace(line)
		if line == "" {
			return true
		}

		item, ok := parseItem(line, genres)
		if !ok {
			skipped++
			return true
		}
		items = append(items, item)
		return true
	})
	if err != nil {
		return nil, skipped, fmt.Errorf("read items: %w", err)
	}
	return items, skipped, nil
}

func parseItem(line string, genres []string) (Item, bool) {
	parts := strings.Split(line, "|")
	if len(parts) < 2 {
		return Item{}, false
	}

	id, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Item{}, false
	}

	item := Item{MLID: id, Title: strings.TrimSpace(parts[1])}
	if item.Title == "" {
		return Item{}, false
	}

	if len(parts) > 2 {
		item.ReleaseYear = parseReleaseYear(strings.TrimSpace(parts[2]))
	}

	if len(parts) > genreFlagOffset {
		end := min(len(parts), genreFlagOffset+genreFlagCount)
		for i, flag := range parts[genreFlagOffset:end] {
			if flag == "1" && i < len(genres) {
				item.Genres = append(item.Genres, genres[i])
			}
		}
	}

	return item, true
}

// parseReleaseYear accepts "01-Jan-1995" or anything holding a four digit year.
func parseReleaseYear(raw string) *int {
	if raw == "" {
		return nil
	}
	if t, err := time.Parse(releaseDateLayout, raw); err == nil {
		year := t.Year()
		return &year
	}
	if match := yearPattern.FindString(raw); match != "" {
		year, _ := strconv.Atoi(match)
		if year > 0 {
			return &year
		}
	}
	return nil
}

// CountUsers counts the u.user lines with at least four fields.
func CountUsers(r io.Reader) (int, error) {
	count := 0
	err := latin1Lines(r, func(_ int, line string) bool {
		line = strings.TrimSpace(line)
		if line != "" && len(strings.Split(line, "|")) >= 4 {
			count++
		}
		return true
	})
	if err != nil {
		return 0, fmt.Errorf("read users: %w", err)
	}
	return count, nil
}

// EachRating streams u.data, calling fn for every well formed line until it
// returns false. Malformed lines are counted in skipped.
func EachRating(r io.Reader, fn func(Rating) bool) (skipped int, err error) {
	err = latin1Lines(r, func(_ int, line string) bool {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			return true
		}
		if len(fields) < 3 {
			skipped++
			return true
		}

		var rating Rating
		var convErr error
		if rating.UserID, convErr = strconv.Atoi(fields[0]); convErr != nil {
			skipped++
			return true
		}
		if rating.ItemID, convErr = strconv.Atoi(fields[1]); convErr != nil {
			skipped++
			return true
		}
		if rating.Rating, convErr = strconv.Atoi(fields[2]); convErr != nil {
			skipped++
			return true
		}

		return fn(rating)
	})
	if err != nil {
		return skipped, fmt.Errorf("read ratings: %w", err)
	}
	return skipped, nil
}
