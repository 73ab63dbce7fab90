package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"movie-review/pkg/database"

	"go.uber.org/zap"
)

// ErrNotFound is returned by mutations that matched no row.
var ErrNotFound = errors.New("record not found")

type Repository struct {
	User   UserRepository
	Movie  MovieRepository
	Review ReviewRepository
}

func NewRepository(db database.Querier, log *zap.Logger) *Repository {
	return &Repository{
		User:   NewUserRepository(db, log),
		Movie:  NewMovieRepository(db, log),
		Review: NewReviewRepository(db, log),
	}
}

// RunInTx runs fn against repositories bound to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
func RunInTx(ctx context.Context, db database.PgxIface, log *zap.Logger, fn func(repo *Repository) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(NewRepository(tx, log)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// OrderField is one ORDER BY term; Column must come from a repository whitelist.
type OrderField struct {
	Column string
	Desc   bool
}

// Page bounds a list query.
type Page struct {
	Limit  int
	Offset int
}

// queryBuilder accumulates WHERE conditions with positional arguments.
type queryBuilder struct {
	conds []string
	args  []any
}

// arg registers v and returns its placeholder.
func (q *queryBuilder) arg(v any) string {
	q.args = append(q.args, v)
	return fmt.Sprintf("$%d", len(q.args))
}

func (q *queryBuilder) where(cond string) {
	q.conds = append(q.conds, cond)
}

func (q *queryBuilder) whereClause() string {
	if len(q.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(q.conds, " AND ")
}

// searchAny adds one condition per term: the term must match at least one column.
func (q *queryBuilder) searchAny(terms []string, columns ...string) {
	for _, term := range terms {
		placeholder := q.arg(likePattern(term))
		ors := make([]string, len(columns))
		for i, col := range columns {
			ors[i] = fmt.Sprintf("%s ILIKE %s", col, placeholder)
		}
		q.where("(" + strings.Join(ors, " OR ") + ")")
	}
}

func (q *queryBuilder) paginate(p Page) string {
	if p.Limit <= 0 {
		return ""
	}
	return fmt.Sprintf(" LIMIT %s OFFSET %s", q.arg(p.Limit), q.arg(p.Offset))
}

// orderClause renders fields against the allowed column map, falling back to def.
// The tiebreaker keeps pagination stable.
func orderClause(fields []OrderField, allowed map[string]string, def []OrderField, tiebreaker string) string {
	var parts []string
	for _, f := range fields {
		col, ok := allowed[f.Column]
		if !ok {
			continue
		}
		if f.Desc {
			col += " DESC"
		}
		parts = append(parts, col)
	}
	if len(parts) == 0 && len(def) > 0 {
		return orderClause(def, allowed, nil, tiebreaker)
	}
	parts = append(parts, tiebreaker)
	return " ORDER BY " + strings.Join(parts, ", ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
