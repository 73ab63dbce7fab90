package seed

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const genreData = `unknown|0
Action|1
Adventure|2
Animation|3
Children's|4
Comedy|5
Crime|6
Documentary|7
Drama|8
Fantasy|9
Film-Noir|10
Horror|11
Musical|12
Mystery|13
Romance|14
Sci-Fi|15
Thriller|16
War|17
Western|18

`

func flags(set ...int) string {
	parts := make([]string, 19)
	for i := range parts {
		parts[i] = "0"
	}
	for _, i := range set {
		parts[i] = "1"
	}
	return strings.Join(parts, "|")
}

func TestParseGenres(t *testing.T) {
	genres, err := ParseGenres(strings.NewReader(genreData))
	require.NoError(t, err)
	require.Len(t, genres, 19)
	assert.Equal(t, "unknown", genres[0])
	assert.Equal(t, "Children's", genres[4])
	assert.Equal(t, "Western", genres[18])
}

func TestParseItems(t *testing.T) {
	genres, err := ParseGenres(strings.NewReader(genreData))
	require.NoError(t, err)

	data := strings.Join([]string{
		"1|Toy Story (1995)|01-Jan-1995||http://us.imdb.com/M/title-exact?Toy%20Story%20(1995)|" + flags(3, 4, 5),
		"2|GoldenEye (1995)|1995||http://x|" + flags(1, 2, 16, 15),
		"bad|line",
		"3|Unknown Movie|||http://x|" + flags(),
		"4|Too Far (1996)|01-Feb-1996||http://x|" + flags(8),
	}, "\n")

	items, skipped, err := ParseItems(strings.NewReader(data), genres, 4)
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	require.Len(t, items, 3, "reading stops at the line limit")

	toy := items[0]
	assert.Equal(t, 1, toy.MLID)
	assert.Equal(t, "Toy Story (1995)", toy.Title)
	require.NotNil(t, toy.ReleaseYear)
	assert.Equal(t, 1995, *toy.ReleaseYear)
	assert.Equal(t, []string{"Animation", "Children's", "Comedy"}, toy.Genres)
	assert.Equal(t, "Animation, Children's, Comedy", toy.GenreText())
	assert.Equal(t, "A Animation, Children's, Comedy from 1995.", toy.Description())

	golden := items[1]
	require.NotNil(t, golden.ReleaseYear)
	assert.Equal(t, 1995, *golden.ReleaseYear)
	assert.Equal(t, "Action, Adventure, Sci-Fi", golden.GenreText())

	unknown := items[2]
	assert.Nil(t, unknown.ReleaseYear)
	assert.Empty(t, unknown.GenreText())
	assert.Equal(t, "A movie from unknown year.", unknown.Description())
}

func TestParseItems_Latin1(t *testing.T) {
	// "Cité" with é as the single latin-1 byte 0xE9
	line := append([]byte("5|Cit"), 0xE9)
	line = append(line, []byte("|01-Jan-1995||http://x|"+flags(8))...)

	items, _, err := ParseItems(bytes.NewReader(line), nil, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Cité", items[0].Title)
}

func TestCountUsers(t *testing.T) {
	data := "1|24|M|technician|85711\n2|53|F|other|94043\nbroken\n\n"
	n, err := CountUsers(strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestEachRating(t *testing.T) {
	data := "196\t242\t3\t881250949\n186 302 3 891717742\nx\t1\t2\t0\n22\t377\n244\t51\t2\t880606923\n"

	var got []Rating
	skipped, err := EachRating(strings.NewReader(data), func(r Rating) bool {
		got = append(got, r)
		return len(got) < 2
	})
	require.NoError(t, err)
	assert.Equal(t, 0, skipped)
	assert.Equal(t, []Rating{{196, 242, 3}, {186, 302, 3}}, got)

	got = nil
	skipped, err = EachRating(strings.NewReader(data), func(r Rating) bool {
		got = append(got, r)
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, 2, skipped)
	assert.Len(t, got, 3)
}
