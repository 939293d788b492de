package docvault

import (
	"errors"
	"fmt"
	"testing"

	"docvault/internal/domain"
	models "docvault/internal/domain/models/docvault"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeEscape(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "materialized path unchanged", input: "1.5.12", want: "1.5.12"},
		{name: "empty", input: "", want: ""},
		{name: "percent", input: "1%", want: `1\%`},
		{name: "underscore", input: "1_2", want: `1\_2`},
		{name: "backslash escaped first", input: `1\%`, want: `1\\\%`},
		{name: "mixed", input: `a_b%c\d`, want: `a\_b\%c\\d`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, likeEscape(tt.input))
		})
	}
}

func TestTranslateWriteErrors(t *testing.T) {
	duplicate := &pgconn.PgError{Code: "23505", ConstraintName: "categories_parent_slug_key"}
	foreignKey := &pgconn.PgError{Code: "23503", ConstraintName: "categories_parent_id_fkey"}
	other := errors.New("connection reset")

	translators := []struct {
		name      string
		translate func(error, string) error
		slugText  string
		fkText    string
		writeText string
	}{
		{"category", translateCategoryError, "already exists under this parent", "parent category", "write category"},
		{"document", translateDocumentError, "already exists in this category", "category", "write document"},
	}

	tests := []struct {
		name           string
		err            error
		wantValidation bool
		wantNotFound   bool
	}{
		{name: "unique violation", err: duplicate, wantValidation: true},
		{name: "wrapped unique violation", err: fmt.Errorf("exec: %w", duplicate), wantValidation: true},
		{name: "foreign key violation", err: foreignKey, wantNotFound: true},
		{name: "other error", err: other},
		{name: "no rows is not remapped", err: pgx.ErrNoRows},
	}

	for _, tr := range translators {
		for _, tt := range tests {
			t.Run(tr.name+"/"+tt.name, func(t *testing.T) {
				got := tr.translate(tt.err, "intro")
				require.Error(t, got)

				var validation *domain.ValidationError
				switch {
				case tt.wantValidation:
					require.ErrorAs(t, got, &validation)
					assert.Equal(t, "slug", validation.Field)
					assert.Contains(t, validation.Message, `"intro"`)
					assert.Contains(t, validation.Message, tr.slugText)
				case tt.wantNotFound:
					assert.ErrorIs(t, got, domain.ErrNotFound)
					assert.Contains(t, got.Error(), tr.fkText)
				default:
					assert.False(t, errors.As(got, &validation))
					assert.NotErrorIs(t, got, domain.ErrNotFound)
					assert.ErrorIs(t, got, tt.err, "cause stays wrapped")
					assert.Contains(t, got.Error(), tr.writeText)
				}
			})
		}
	}
}

func TestCheckPathRewrite(t *testing.T) {
	updates := []models.PathUpdate{
		{ID: 1, Path: "1", Depth: 0},
		{ID: 2, Path: "1.2", Depth: 1},
		{ID: 3, Path: "1.2.3", Depth: 2},
	}

	tests := []struct {
		name     string
		affected int64
		updates  []models.PathUpdate
		wantErr  string
	}{
		{name: "every row rewritten", affected: 3, updates: updates},
		{name: "empty batch", affected: 0, updates: nil},
		{name: "partial rewrite", affected: 2, updates: updates, wantErr: "updated 2 of 3 categories"},
		{name: "nothing rewritten", affected: 0, updates: updates, wantErr: "updated 0 of 3 categories"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkPathRewrite(tt.affected, tt.updates)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			var integrity *domain.IntegrityError
			require.ErrorAs(t, err, &integrity)
			assert.Contains(t, integrity.Error(), tt.wantErr)
		})
	}
}
