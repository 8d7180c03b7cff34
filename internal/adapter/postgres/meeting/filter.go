package meeting

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/chronokeeper/chronokeeper-backend/internal/domain"
)

const (
	defaultLimit = 100
	maxLimit     = 500
)

// normalize applies defaults and clamps values.
func normalize(f *domain.MeetingFilter) {
	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
}

// applyFilter adds the filter's WHERE clauses to a select builder.
func applyFilter(b sq.SelectBuilder, f domain.MeetingFilter) sq.SelectBuilder {
	if f.Status != nil {
		b = b.Where(sq.Eq{"status": *f.Status})
	}
	if f.StartsAfter != nil {
		b = b.Where(sq.Gt{"start_time": *f.StartsAfter})
	}
	if f.StartsBefore != nil {
		b = b.Where(sq.LtOrEq{"start_time": *f.StartsBefore})
	}
	if f.HasLocation != nil {
		if *f.HasLocation {
			b = b.Where(sq.NotEq{"location": ""})
		} else {
			b = b.Where(sq.Eq{"location": ""})
		}
	}
	if f.Creator != nil {
		b = b.Where(sq.Eq{"creator": *f.Creator})
	}
	if f.Unvalidated {
		b = b.Where(sq.Eq{"validated_at": nil})
	}
	return b
}
